package errs

import "errors"

var (
	ErrRecordNotFound  = errors.New("record not found")
	ErrNothingToDelete = errors.New("nothing to delete")
	ErrNoConsumer      = errors.New("no consumer registered for event")
	ErrCounterMismatch = errors.New("visit counter read-back mismatch")
	ErrUnknownVariant  = errors.New("unknown image variant")
	ErrReferenceTaken  = errors.New("shareable link reference already taken")
)
