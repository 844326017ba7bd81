package identity

import "fmt"

// Provider error codes surfaced to clients.
const (
	CodeEmailExists     = "auth/email-already-exists"
	CodeInvalidArgument = "auth/invalid-argument"
	CodeUserNotFound    = "auth/user-not-found"
	CodeRejected        = "auth/rejected"
)

// ProviderError is a validation or conflict failure reported by the identity provider.
type ProviderError struct {
	Code    string
	Message string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("identity provider rejected request (%s): %s", e.Code, e.Message)
}
