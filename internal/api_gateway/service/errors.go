package service

// ErrSubmissionFailed indicates the ledger never accepted the fingerprint;
// no state was recorded anywhere and the submission can be retried as-is
type ErrSubmissionFailed struct {
	Err error
}

func (e ErrSubmissionFailed) Error() string {
	if e.Err == nil {
		return "ledger submission failed"
	}
	return "ledger submission failed: " + e.Err.Error()
}

func (e ErrSubmissionFailed) Unwrap() error {
	return e.Err
}

// Is implements the errors.Is interface for ErrSubmissionFailed
func (e ErrSubmissionFailed) Is(target error) bool {
	_, ok := target.(ErrSubmissionFailed)
	return ok
}

// ErrPartialSubmission indicates the ledger accepted the fingerprint but the
// mirror write failed. TxRef carries the ledger reference so callers know the
// submission is attested; the reconciliation sweep repairs the mirror row.
type ErrPartialSubmission struct {
	Fingerprint string
	TxRef       string
	Err         error
}

func (e ErrPartialSubmission) Error() string {
	msg := "fingerprint recorded on ledger but mirror write failed: " + e.Fingerprint
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e ErrPartialSubmission) Unwrap() error {
	return e.Err
}

// Is implements the errors.Is interface for ErrPartialSubmission
func (e ErrPartialSubmission) Is(target error) bool {
	_, ok := target.(ErrPartialSubmission)
	return ok
}

// ErrUserAlreadyExists indicates registration collided with a taken
// username or phone number
type ErrUserAlreadyExists struct {
	Username string
}

func (e ErrUserAlreadyExists) Error() string {
	return "username or phone already registered: " + e.Username
}

// Is implements the errors.Is interface for ErrUserAlreadyExists
func (e ErrUserAlreadyExists) Is(target error) bool {
	_, ok := target.(ErrUserAlreadyExists)
	return ok
}

// ErrInvalidCredentials indicates login failed. The cause (unknown user or
// wrong password digest) is deliberately not distinguished.
type ErrInvalidCredentials struct{}

func (e ErrInvalidCredentials) Error() string {
	return "invalid username or password"
}

// Is implements the errors.Is interface for ErrInvalidCredentials
func (e ErrInvalidCredentials) Is(target error) bool {
	_, ok := target.(ErrInvalidCredentials)
	return ok
}
