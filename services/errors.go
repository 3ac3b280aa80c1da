package services

import "errors"

// Domain errors surfaced to handlers. Handlers translate these into
// user-visible validation responses; anything else is a storage failure
// and maps to a 500.
var (
	ErrDuplicateEmail      = errors.New("email already registered")
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrRoleMismatch        = errors.New("account role does not allow this operation")
	ErrDuplicateProfile    = errors.New("account already has a student profile")
	ErrProfileProtected    = errors.New("profile has payment records and cannot be deleted")
	ErrInvalidAmount       = errors.New("payment amount must be positive")
	ErrAlreadyRead         = errors.New("notification already marked as read")
	ErrAnswerSourceMissing = errors.New("answer requires a chatbot or a human sender")
	ErrNoRecipients        = errors.New("notification requires at least one recipient")
	ErrNotFound            = errors.New("record not found")
)
