package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/mbacke/orienta-api/database"
	"github.com/mbacke/orienta-api/model"
	"gorm.io/gorm"
)

// ====================================================================
// SETUP
// ====================================================================

// setupTestDB connects to the database configured through the usual
// DB_* environment variables and runs migrations. Tests are skipped
// unless RUN_INTEGRATION_TESTS=true.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	if os.Getenv("RUN_INTEGRATION_TESTS") != "true" {
		t.Skip("Skipping integration test. Set RUN_INTEGRATION_TESTS=true to run.")
	}

	store, err := database.StartGORM()
	if err != nil {
		t.Fatalf("failed to connect to database: %v", err)
	}
	if err := store.Init(); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	return store.GetDB().(*gorm.DB)
}

// uniqueEmail avoids unique-index collisions across test runs
func uniqueEmail(prefix string) string {
	return fmt.Sprintf("%s-%d@test.local", prefix, time.Now().UnixNano())
}

// createStudent registers a student account through the service so the
// account and its profile exist like they do in production.
func createStudent(t *testing.T, accounts *AccountService, prefix, track string) *model.User {
	t.Helper()

	user, err := accounts.Register(context.Background(), RegisterRequest{
		FirstName: "Test",
		LastName:  "Student",
		Email:     uniqueEmail(prefix),
		Password:  "password123",
		Track:     track,
	})
	if err != nil {
		t.Fatalf("failed to register test student: %v", err)
	}
	return user
}

// createAdmin inserts an administrator account directly
func createAdmin(t *testing.T, db *gorm.DB, prefix string) *model.User {
	t.Helper()

	admin := &model.User{
		Email:        uniqueEmail(prefix),
		PasswordHash: "not-a-real-hash",
		FirstName:    "Test",
		LastName:     "Admin",
		Role:         model.RoleAdmin,
		Status:       model.StatusActive,
	}
	if err := db.Create(admin).Error; err != nil {
		t.Fatalf("failed to create test admin: %v", err)
	}
	return admin
}

// cleanupUser hard-deletes an account and everything hanging off it.
// Payments block both the profile and the account, so they go first.
func cleanupUser(t *testing.T, db *gorm.DB, userID uint) {
	t.Helper()

	var profile model.StudentProfile
	if err := db.Where("user_id = ?", userID).First(&profile).Error; err == nil {
		db.Unscoped().Where("profile_id = ?", profile.ID).Delete(&model.Payment{})
	}
	db.Unscoped().Delete(&model.User{}, userID)
}

// ====================================================================
// ACCOUNTS
// ====================================================================

func TestRegisterCreatesAccountWithProfile(t *testing.T) {
	db := setupTestDB(t)
	accounts := NewAccountService(db)
	ctx := context.Background()

	user := createStudent(t, accounts, "register", "GL")
	defer cleanupUser(t, db, user.ID)

	if user.Role != model.RoleStudent {
		t.Errorf("Role = %q, want %q", user.Role, model.RoleStudent)
	}
	if user.Status != model.StatusActive {
		t.Errorf("Status = %q, want %q", user.Status, model.StatusActive)
	}
	if user.PasswordHash == "password123" {
		t.Error("password stored in plaintext")
	}

	profile, err := accounts.GetProfileByUserID(ctx, user.ID)
	if err != nil {
		t.Fatalf("expected a student profile after registration: %v", err)
	}
	if profile.Track != "GL" {
		t.Errorf("Track = %q, want GL", profile.Track)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	db := setupTestDB(t)
	accounts := NewAccountService(db)
	ctx := context.Background()

	user := createStudent(t, accounts, "duplicate", "GL")
	defer cleanupUser(t, db, user.ID)

	_, err := accounts.Register(ctx, RegisterRequest{
		FirstName: "Other",
		LastName:  "Student",
		Email:     user.Email,
		Password:  "password123",
		Track:     "SR",
	})
	if !errors.Is(err, ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}

	// The failed attempt must not have left a half-created account.
	var count int64
	if err := db.Model(&model.User{}).Where("email = ?", user.Email).Count(&count).Error; err != nil {
		t.Fatalf("failed to count accounts: %v", err)
	}
	if count != 1 {
		t.Errorf("accounts with email %s = %d, want 1", user.Email, count)
	}

	// Only the winning registration's profile exists.
	profile, err := accounts.GetProfileByUserID(ctx, user.ID)
	if err != nil {
		t.Fatalf("failed to load profile: %v", err)
	}
	if profile.Track != "GL" {
		t.Errorf("Track = %q, want GL (from the first registration)", profile.Track)
	}
}

func TestAuthenticate(t *testing.T) {
	db := setupTestDB(t)
	accounts := NewAccountService(db)
	ctx := context.Background()

	user := createStudent(t, accounts, "login", "MI")
	defer cleanupUser(t, db, user.ID)

	got, err := accounts.Authenticate(ctx, user.Email, "password123")
	if err != nil {
		t.Fatalf("Authenticate failed for valid credentials: %v", err)
	}
	if got.ID != user.ID {
		t.Errorf("authenticated account %d, want %d", got.ID, user.ID)
	}

	if _, err := accounts.Authenticate(ctx, user.Email, "wrong-password"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password: expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := accounts.Authenticate(ctx, uniqueEmail("nobody"), "password123"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown email: expected ErrInvalidCredentials, got %v", err)
	}

	if err := accounts.SetStatus(ctx, user.ID, model.StatusSuspended); err != nil {
		t.Fatalf("SetStatus failed: %v", err)
	}
	if _, err := accounts.Authenticate(ctx, user.Email, "password123"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("suspended account: expected ErrInvalidCredentials, got %v", err)
	}
}

func TestCreateStudentProfileChecks(t *testing.T) {
	db := setupTestDB(t)
	accounts := NewAccountService(db)
	ctx := context.Background()

	student := createStudent(t, accounts, "profile", "MC")
	defer cleanupUser(t, db, student.ID)
	admin := createAdmin(t, db, "profile-admin")
	defer cleanupUser(t, db, admin.ID)

	if _, err := accounts.CreateStudentProfile(ctx, student.ID, "GL"); !errors.Is(err, ErrDuplicateProfile) {
		t.Errorf("second profile: expected ErrDuplicateProfile, got %v", err)
	}
	if _, err := accounts.CreateStudentProfile(ctx, admin.ID, "GL"); !errors.Is(err, ErrRoleMismatch) {
		t.Errorf("admin profile: expected ErrRoleMismatch, got %v", err)
	}
}

// ====================================================================
// NOTIFICATIONS
// ====================================================================

func TestPublishFanOut(t *testing.T) {
	db := setupTestDB(t)
	accounts := NewAccountService(db)
	notifications := NewNotificationService(db)
	ctx := context.Background()

	admin := createAdmin(t, db, "fanout-admin")
	defer cleanupUser(t, db, admin.ID)

	recipients := make([]uint, 0, 3)
	for i := 0; i < 3; i++ {
		student := createStudent(t, accounts, fmt.Sprintf("fanout-%d", i), "GL")
		defer cleanupUser(t, db, student.ID)
		recipients = append(recipients, student.ID)
	}

	// Duplicates in the recipient set collapse to one reception each.
	notification, err := notifications.Publish(ctx, PublishRequest{
		SenderID:     &admin.ID,
		Subject:      "Rentrée",
		Body:         "La rentrée est fixée au 15 septembre.",
		RecipientIDs: append(recipients, recipients[0]),
	})
	if err != nil {
		t.Fatalf("Publish failed: %v", err)
	}
	defer db.Unscoped().Delete(&model.Notification{}, notification.ID)

	if len(notification.Receptions) != 3 {
		t.Fatalf("receptions = %d, want 3", len(notification.Receptions))
	}

	for _, recipientID := range recipients {
		receptions, total, err := notifications.ListReceptions(ctx, ListReceptionsOptions{RecipientID: recipientID})
		if err != nil {
			t.Fatalf("ListReceptions failed: %v", err)
		}
		if total != 1 || len(receptions) != 1 {
			t.Fatalf("recipient %d: total = %d, listed = %d, want 1 each", recipientID, total, len(receptions))
		}
		if receptions[0].IsRead() {
			t.Errorf("recipient %d: reception born read", recipientID)
		}
		if receptions[0].Notification.Subject != "Rentrée" {
			t.Errorf("recipient %d: notification not preloaded", recipientID)
		}

		unread, err := notifications.UnreadCount(ctx, recipientID)
		if err != nil {
			t.Fatalf("UnreadCount failed: %v", err)
		}
		if unread != 1 {
			t.Errorf("recipient %d: unread = %d, want 1", recipientID, unread)
		}
	}
}

func TestPublishRejectsBadRecipients(t *testing.T) {
	db := setupTestDB(t)
	notifications := NewNotificationService(db)
	ctx := context.Background()

	if _, err := notifications.Publish(ctx, PublishRequest{Subject: "x", Body: "y"}); !errors.Is(err, ErrNoRecipients) {
		t.Errorf("empty recipients: expected ErrNoRecipients, got %v", err)
	}

	_, err := notifications.Publish(ctx, PublishRequest{
		Subject:      "x",
		Body:         "y",
		RecipientIDs: []uint{4294967290},
	})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown recipient: expected ErrNotFound, got %v", err)
	}
}

func TestMarkRead(t *testing.T) {
	db := setupTestDB(t)
	accounts := NewAccountService(db)
	notifications := NewNotificationService(db)
	ctx := context.Background()

	student := createStudent(t, accounts, "markread", "SR")
	defer cleanupUser(t, db, student.ID)
	other := createStudent(t, accounts, "markread-other", "SR")
	defer cleanupUser(t, db, other.ID)

	notification, err := notifications.Publish(ctx, PublishRequest{
		Subject:      "Frais",
		Body:         "Rappel de paiement.",
		RecipientIDs: []uint{student.ID},
	})
	if err != nil {
		t.Fatalf("Publish failed: %v", err)
	}
	defer db.Unscoped().Delete(&model.Notification{}, notification.ID)

	receptionID := notification.Receptions[0].ID

	// Another account cannot touch the reception.
	if _, err := notifications.MarkRead(ctx, receptionID, other.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("foreign reception: expected ErrNotFound, got %v", err)
	}

	marked, err := notifications.MarkRead(ctx, receptionID, student.ID)
	if err != nil {
		t.Fatalf("MarkRead failed: %v", err)
	}
	if marked.ReadAt == nil {
		t.Fatal("ReadAt not set after MarkRead")
	}
	if marked.ReadAt.Before(marked.ReceivedAt) {
		t.Errorf("ReadAt %v before ReceivedAt %v", marked.ReadAt, marked.ReceivedAt)
	}

	if _, err := notifications.MarkRead(ctx, receptionID, student.ID); !errors.Is(err, ErrAlreadyRead) {
		t.Errorf("second MarkRead: expected ErrAlreadyRead, got %v", err)
	}

	unread, err := notifications.UnreadCount(ctx, student.ID)
	if err != nil {
		t.Fatalf("UnreadCount failed: %v", err)
	}
	if unread != 0 {
		t.Errorf("unread = %d, want 0 after MarkRead", unread)
	}
}

// ====================================================================
// PAYMENTS
// ====================================================================

func TestRecordPayment(t *testing.T) {
	db := setupTestDB(t)
	accounts := NewAccountService(db)
	payments := NewPaymentService(db)
	ctx := context.Background()

	student := createStudent(t, accounts, "payment", "GL")
	defer cleanupUser(t, db, student.ID)
	admin := createAdmin(t, db, "payment-admin")
	defer cleanupUser(t, db, admin.ID)

	profile, err := accounts.GetProfileByUserID(ctx, student.ID)
	if err != nil {
		t.Fatalf("failed to load profile: %v", err)
	}

	// Non-positive amounts never reach the ledger.
	for _, amount := range []float64{0, -50} {
		_, err := payments.Record(ctx, RecordPaymentRequest{
			ProfileID: profile.ID,
			Amount:    amount,
			Contact:   "770000000",
		})
		if !errors.Is(err, ErrInvalidAmount) {
			t.Errorf("amount %v: expected ErrInvalidAmount, got %v", amount, err)
		}
	}

	// A student cannot be the handling account.
	_, err = payments.Record(ctx, RecordPaymentRequest{
		ProfileID:   profile.ID,
		Amount:      25000,
		Contact:     "770000000",
		HandledByID: &student.ID,
	})
	if !errors.Is(err, ErrRoleMismatch) {
		t.Errorf("student handler: expected ErrRoleMismatch, got %v", err)
	}

	var count int64
	if err := db.Model(&model.Payment{}).Where("profile_id = ?", profile.ID).Count(&count).Error; err != nil {
		t.Fatalf("failed to count payments: %v", err)
	}
	if count != 0 {
		t.Fatalf("rejected payments left %d rows in the ledger", count)
	}

	first, err := payments.Record(ctx, RecordPaymentRequest{
		ProfileID:      profile.ID,
		Amount:         25000,
		Contact:        "770000000",
		CreditorNumber: "CR-001",
		DebtorNumber:   "DB-001",
		HandledByID:    &admin.ID,
	})
	if err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	if first.HandledByID == nil || *first.HandledByID != admin.ID {
		t.Errorf("HandledByID = %v, want %d", first.HandledByID, admin.ID)
	}

	time.Sleep(10 * time.Millisecond)
	second, err := payments.Record(ctx, RecordPaymentRequest{
		ProfileID: profile.ID,
		Amount:    15000,
		Contact:   "770000000",
	})
	if err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	listed, err := payments.List(ctx, profile.ID)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(listed) != 2 {
		t.Fatalf("ledger has %d payments, want 2", len(listed))
	}
	// Newest first.
	if listed[0].ID != second.ID || listed[1].ID != first.ID {
		t.Errorf("ledger order = [%d %d], want [%d %d]", listed[0].ID, listed[1].ID, second.ID, first.ID)
	}
}

func TestProfileDeleteProtection(t *testing.T) {
	db := setupTestDB(t)
	accounts := NewAccountService(db)
	payments := NewPaymentService(db)
	ctx := context.Background()

	student := createStudent(t, accounts, "protected", "SE")
	defer cleanupUser(t, db, student.ID)

	profile, err := accounts.GetProfileByUserID(ctx, student.ID)
	if err != nil {
		t.Fatalf("failed to load profile: %v", err)
	}

	if _, err := payments.Record(ctx, RecordPaymentRequest{
		ProfileID: profile.ID,
		Amount:    50000,
		Contact:   "770000000",
	}); err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	if err := accounts.DeleteProfile(ctx, profile.ID); !errors.Is(err, ErrProfileProtected) {
		t.Fatalf("DeleteProfile: expected ErrProfileProtected, got %v", err)
	}
	if err := accounts.Delete(ctx, student.ID); !errors.Is(err, ErrProfileProtected) {
		t.Fatalf("Delete: expected ErrProfileProtected, got %v", err)
	}

	// Both the profile and its ledger survive the attempts.
	if _, err := accounts.GetProfileByUserID(ctx, student.ID); err != nil {
		t.Errorf("profile gone after protected delete: %v", err)
	}
	listed, err := payments.List(ctx, profile.ID)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(listed) != 1 {
		t.Errorf("ledger has %d payments after protected delete, want 1", len(listed))
	}
}

// ====================================================================
// CATALOGUE
// ====================================================================

func TestConsultationLog(t *testing.T) {
	db := setupTestDB(t)
	accounts := NewAccountService(db)
	catalogue := NewCatalogueService(db)
	ctx := context.Background()

	student := createStudent(t, accounts, "consult", "GL")
	defer cleanupUser(t, db, student.ID)

	entry, err := catalogue.Create(ctx, "Licence Génie Logiciel", "Fiche de filière")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	defer db.Unscoped().Delete(&model.CatalogueEntry{}, entry.ID)

	first, err := catalogue.RecordConsultation(ctx, student.ID, entry.ID)
	if err != nil {
		t.Fatalf("RecordConsultation failed: %v", err)
	}
	time.Sleep(10 * time.Millisecond)
	second, err := catalogue.RecordConsultation(ctx, student.ID, entry.ID)
	if err != nil {
		t.Fatalf("repeat RecordConsultation failed: %v", err)
	}

	log, err := catalogue.ListConsultations(ctx, entry.ID)
	if err != nil {
		t.Fatalf("ListConsultations failed: %v", err)
	}
	if len(log) != 2 {
		t.Fatalf("consultation log has %d rows, want 2 (repeat views are kept)", len(log))
	}
	if log[0].ID != second.ID || log[1].ID != first.ID {
		t.Errorf("log order = [%d %d], want newest first [%d %d]", log[0].ID, log[1].ID, second.ID, first.ID)
	}

	if _, err := catalogue.RecordConsultation(ctx, student.ID, 4294967290); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown entry: expected ErrNotFound, got %v", err)
	}
}

// ====================================================================
// QUESTIONS AND ANSWERS
// ====================================================================

func TestAnswerProvenance(t *testing.T) {
	db := setupTestDB(t)
	_ = NewAccountService(db)
	qa := NewQAService(db)
	ctx := context.Background()

	admin := createAdmin(t, db, "qa-admin")
	defer cleanupUser(t, db, admin.ID)

	// Anonymous visitors may ask.
	question, err := qa.AskQuestion(ctx, nil, "Quels sont les frais d'inscription ?", "admission", nil)
	if err != nil {
		t.Fatalf("AskQuestion failed: %v", err)
	}
	defer db.Unscoped().Delete(&model.Question{}, question.ID)

	_, err = qa.AnswerQuestion(ctx, AnswerRequest{
		QuestionID: question.ID,
		Body:       "orphan answer",
	})
	if !errors.Is(err, ErrAnswerSourceMissing) {
		t.Fatalf("answer without source: expected ErrAnswerSourceMissing, got %v", err)
	}

	first, err := qa.AnswerQuestion(ctx, AnswerRequest{
		QuestionID: question.ID,
		Body:       "Les frais sont de 50 000 FCFA.",
		SenderID:   &admin.ID,
	})
	if err != nil {
		t.Fatalf("AnswerQuestion failed: %v", err)
	}
	time.Sleep(10 * time.Millisecond)
	second, err := qa.AnswerQuestion(ctx, AnswerRequest{
		QuestionID: question.ID,
		Body:       "Une réduction s'applique aux boursiers.",
		SenderID:   &admin.ID,
	})
	if err != nil {
		t.Fatalf("second AnswerQuestion failed: %v", err)
	}

	loaded, err := qa.GetQuestion(ctx, question.ID)
	if err != nil {
		t.Fatalf("GetQuestion failed: %v", err)
	}
	if len(loaded.Answers) != 2 {
		t.Fatalf("answers = %d, want 2", len(loaded.Answers))
	}
	// Oldest first.
	if loaded.Answers[0].ID != first.ID || loaded.Answers[1].ID != second.ID {
		t.Errorf("answer order = [%d %d], want [%d %d]", loaded.Answers[0].ID, loaded.Answers[1].ID, first.ID, second.ID)
	}

	if _, err := qa.AnswerQuestion(ctx, AnswerRequest{QuestionID: 4294967290, Body: "x", SenderID: &admin.ID}); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown question: expected ErrNotFound, got %v", err)
	}
}

// ====================================================================
// ORIENTATION TESTS
// ====================================================================

func TestOrientationRecords(t *testing.T) {
	db := setupTestDB(t)
	accounts := NewAccountService(db)
	orientation := NewOrientationService(db)
	ctx := context.Background()

	student := createStudent(t, accounts, "orientation", "MI")
	defer cleanupUser(t, db, student.ID)

	profile, err := accounts.GetProfileByUserID(ctx, student.ID)
	if err != nil {
		t.Fatalf("failed to load profile: %v", err)
	}

	first, err := orientation.AppendRecord(ctx, profile.ID, "analytique", "Préférez-vous la théorie ou la pratique ?", "La pratique")
	if err != nil {
		t.Fatalf("AppendRecord failed: %v", err)
	}
	time.Sleep(10 * time.Millisecond)
	second, err := orientation.AppendRecord(ctx, profile.ID, "créatif", "Aimez-vous concevoir des interfaces ?", "Oui")
	if err != nil {
		t.Fatalf("second AppendRecord failed: %v", err)
	}

	records, err := orientation.ListRecords(ctx, profile.ID)
	if err != nil {
		t.Fatalf("ListRecords failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("records = %d, want 2", len(records))
	}
	if records[0].ID != second.ID || records[1].ID != first.ID {
		t.Errorf("record order = [%d %d], want newest first [%d %d]", records[0].ID, records[1].ID, second.ID, first.ID)
	}

	if _, err := orientation.AppendRecord(ctx, 4294967290, "x", "q", "a"); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown profile: expected ErrNotFound, got %v", err)
	}
}
