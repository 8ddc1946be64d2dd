package errors

import (
	"errors"
	"fmt"
	"strings"

	kq "github.com/systmms/keychainquery/pkg/keychainquery"
)

// UserError represents an error that should be shown to the user with helpful context
type UserError struct {
	Message    string
	Suggestion string
	Details    string
	Err        error
}

func (e UserError) Error() string {
	var parts []string

	if e.Message != "" {
		parts = append(parts, e.Message)
	} else if e.Err != nil {
		parts = append(parts, e.Err.Error())
	}

	if e.Details != "" {
		parts = append(parts, "\n  Details: "+e.Details)
	}

	if e.Suggestion != "" {
		parts = append(parts, "\n  💡 Try: "+e.Suggestion)
	}

	return strings.Join(parts, "")
}

func (e UserError) Unwrap() error {
	return e.Err
}

// ConfigError represents a configuration error with helpful context
type ConfigError struct {
	Field      string
	Value      interface{}
	Message    string
	Suggestion string
}

func (e ConfigError) Error() string {
	msg := "Configuration error"
	if e.Field != "" {
		msg += fmt.Sprintf(" in field '%s'", e.Field)
	}
	if e.Value != nil {
		msg += fmt.Sprintf(" (value: %v)", e.Value)
	}
	msg += ": " + e.Message

	if e.Suggestion != "" {
		msg += "\n  💡 " + e.Suggestion
	}

	return msg
}

// StatusSuggestion returns a hint for a store status code, or "" when there
// is nothing useful to say.
func StatusSuggestion(status kq.Status) string {
	switch status {
	case kq.StatusItemNotFound:
		return "Check the service and account names. Use 'kcquery describe' to test for existence"
	case kq.StatusDuplicateItem:
		return "The item already exists. Delete it first or use 'kcquery set --replace'"
	case kq.StatusAuthFailed:
		return "The keychain rejected the credentials. Unlock the keychain and try again"
	case kq.StatusInteractionNotAllowed:
		return "The keychain is locked and cannot prompt. Unlock it from a GUI session"
	case kq.StatusUserCanceled:
		return "The access prompt was dismissed. Run the command again and allow access"
	case kq.StatusUnimplemented:
		return "This store does not support the requested item class. Use --type generic-password"
	case kq.StatusParam:
		return "The request is missing a required criterion such as service or account"
	}
	return ""
}

// StoreError enhances a classification failure with a status based suggestion.
func StoreError(operation string, err error) error {
	suggestion := ""
	if status, ok := kq.StatusOf(err); ok {
		suggestion = StatusSuggestion(status)
	}
	switch {
	case errors.Is(err, kq.ErrUnexpectedlyNoData):
		suggestion = "Request the payload with return-data set"
	case errors.Is(err, kq.ErrMultipleResultsNotSupported):
		suggestion = "Use --limit one; listing several items is not supported"
	case errors.Is(err, kq.ErrUnexpectedFormat):
		suggestion = "The store returned an item that is not an attribute mapping. Check the return flags"
	}

	return UserError{
		Message:    fmt.Sprintf("keychain error during %s", operation),
		Suggestion: suggestion,
		Err:        err,
	}
}

// SimplifyError simplifies complex error messages for users
func SimplifyError(err error) error {
	if err == nil {
		return nil
	}

	// Unwrap to get the root cause
	rootErr := err
	for {
		unwrapped := errors.Unwrap(rootErr)
		if unwrapped == nil {
			break
		}
		rootErr = unwrapped
	}

	// Already a user-friendly error
	if _, ok := err.(UserError); ok {
		return err
	}
	if _, ok := err.(ConfigError); ok {
		return err
	}

	errStr := rootErr.Error()

	if strings.Contains(errStr, "yaml:") {
		return ConfigError{
			Message:    "Invalid YAML format",
			Suggestion: "Check for indentation errors and missing quotes",
		}
	}

	if strings.Contains(errStr, "permission denied") {
		return UserError{
			Message:    "Permission denied",
			Suggestion: "Check file permissions or run with appropriate privileges",
			Err:        err,
		}
	}

	if strings.Contains(errStr, "no such file or directory") {
		return UserError{
			Message:    "File or directory not found",
			Suggestion: "Verify the path exists and is spelled correctly",
			Err:        err,
		}
	}

	return err
}
