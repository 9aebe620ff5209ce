package service

// ValidationError marks a failure the caller can fix by correcting input.
// Handlers re-render the originating form with the message; every other
// error class means infrastructure trouble.
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string { return e.msg }

func validation(msg string) *ValidationError { return &ValidationError{msg: msg} }

var (
	// ErrInvalidCredentials covers unknown usernames and wrong passwords alike.
	ErrInvalidCredentials = validation("invalid username or password")
	// ErrUserAlreadyExists is returned when registering a taken username.
	ErrUserAlreadyExists = validation("username is already taken")
	// ErrUserNotFound is returned when mutating an account that does not exist.
	ErrUserNotFound = validation("user does not exist")
)
