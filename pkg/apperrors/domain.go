package apperrors

// Domain errors shared by services. Messages are the exact strings the API
// returns, so they live here rather than in the handlers.
var (
	ErrInvalidIdentity    = InvalidArg("Invalid user")
	ErrUserNotFound       = NotFound("User not found")
	ErrInvalidCredentials = Unauthorized("Invalid credentials")
	ErrAlreadyFollowing   = FailedPrecondition("Already following this user")
)
