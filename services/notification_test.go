package services

import (
	"reflect"
	"testing"
)

func TestDedupeIDs(t *testing.T) {
	cases := []struct {
		name string
		in   []uint
		want []uint
	}{
		{"empty", []uint{}, []uint{}},
		{"no duplicates", []uint{1, 2, 3}, []uint{1, 2, 3}},
		{"duplicates collapse", []uint{1, 2, 1, 3, 2}, []uint{1, 2, 3}},
		{"all same", []uint{7, 7, 7}, []uint{7}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := dedupeIDs(tc.in)
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("dedupeIDs(%v) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}
