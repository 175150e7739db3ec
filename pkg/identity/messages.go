package identity

import "errors"

// DefaultMessage is shown for errors without a dedicated translation.
const DefaultMessage = "Something went wrong. Please try again"

var messages = []struct {
	err error
	msg string
}{
	{ErrEmailInUse, "This email address is already registered"},
	{ErrInvalidEmail, "The email address is not valid"},
	{ErrOperationNotAllowed, "This sign-in method is not enabled"},
	{ErrWeakPassword, "The password is too weak (at least 6 characters)"},
	{ErrUserDisabled, "This account has been disabled"},
	{ErrUserNotFound, "No account exists with this email"},
	{ErrWrongPassword, "Incorrect password"},
	{ErrInvalidCredential, "Invalid credentials"},
	{ErrTooManyRequests, "Too many attempts. Try again later"},
	{ErrNetwork, "Connection error. Check your internet connection"},
	{ErrOAuthCancelled, "The Google sign-in window was closed"},
	{ErrInvalidState, "Request cancelled"},
}

// Message translates an authentication error into a message fit for the
// user. It returns an empty string for a nil error.
func Message(err error) string {
	if err == nil {
		return ""
	}
	for _, m := range messages {
		if errors.Is(err, m.err) {
			return m.msg
		}
	}
	return DefaultMessage
}
