package auth

// Identity provider error codes.
const (
	CodeWeakPassword    = "auth/weak-password"
	CodeAccountDisabled = "auth/user-disabled"
	CodeInvalidIDToken  = "auth/invalid-id-token"
	CodeExpiredIDToken  = "auth/id-token-expired"
	CodeRevokedIDToken  = "auth/id-token-revoked"
	CodeNetworkFailed   = "auth/network-request-failed"
)

const defaultMessage = "An error occurred. Please try again."

var messages = map[string]string{
	CodeWeakPassword:    "Password should be at least 6 characters.",
	CodeAccountDisabled: "This account has been disabled.",
	CodeInvalidIDToken:  "Sign-in could not be verified. Please try again.",
	CodeExpiredIDToken:  "Your sign-in has expired. Please sign in again.",
	CodeRevokedIDToken:  "Your sign-in was revoked. Please sign in again.",
	CodeNetworkFailed:   "Sign-in is temporarily unavailable. Please try again.",
}

// Message returns the sentence shown to a user for a provider error code.
// Unknown codes get a generic message.
func Message(code string) string {
	if m, ok := messages[code]; ok {
		return m
	}
	return defaultMessage
}
