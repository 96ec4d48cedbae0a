package errors

import "fmt"

var (
	ErrWorkerPanic     = fmt.Errorf("worker panic")
	ErrSlowConsumer    = fmt.Errorf("outbound buffer full")
	ErrUnknownKind     = fmt.Errorf("unknown notification kind")
	ErrMissingEventID  = fmt.Errorf("missing event id")
	ErrEmptyWords      = fmt.Errorf("no words have been found")
	ErrInvalidEnvelope = fmt.Errorf("invalid envelope")
)
