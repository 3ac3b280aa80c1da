package validation

import (
	"testing"
)

type signupForm struct {
	Email           string  `validate:"required,email"`
	Password        string  `validate:"required,min=8"`
	PasswordConfirm string  `validate:"required,eqfield=Password"`
	Track           string  `validate:"required,oneof=GL SR SE MI MC"`
	Amount          float64 `validate:"gt=0"`
}

func validForm() signupForm {
	return signupForm{
		Email:           "etudiant@example.com",
		Password:        "password123",
		PasswordConfirm: "password123",
		Track:           "GL",
		Amount:          25000,
	}
}

func TestValidateStructAccepts(t *testing.T) {
	v := NewValidator()
	form := validForm()
	if err := v.ValidateStruct(form); err != nil {
		t.Fatalf("valid form rejected: %v", err)
	}
}

func TestValidateStructRejects(t *testing.T) {
	v := NewValidator()

	cases := []struct {
		name   string
		mutate func(*signupForm)
		field  string
	}{
		{"missing email", func(f *signupForm) { f.Email = "" }, "email"},
		{"bad email", func(f *signupForm) { f.Email = "not-an-email" }, "email"},
		{"short password", func(f *signupForm) { f.Password = "short"; f.PasswordConfirm = "short" }, "password"},
		{"confirm mismatch", func(f *signupForm) { f.PasswordConfirm = "different1" }, "passwordconfirm"},
		{"unknown track", func(f *signupForm) { f.Track = "XX" }, "track"},
		{"zero amount", func(f *signupForm) { f.Amount = 0 }, "amount"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			form := validForm()
			tc.mutate(&form)

			err := v.ValidateStruct(form)
			if err == nil {
				t.Fatal("expected a validation error")
			}

			formatted := FormatValidationErrors(err)
			if _, ok := formatted[tc.field]; !ok {
				t.Errorf("formatted errors %v missing field %q", formatted, tc.field)
			}
		})
	}
}
