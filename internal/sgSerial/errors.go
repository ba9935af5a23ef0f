package sgSerial

import "errors"

var (
	ErrDiscoveryFailed   = errors.New("sgserial: listing serial ports failed")
	ErrNoDeviceFound     = errors.New("sgserial: no signal generator found")
	ErrOpenFailed        = errors.New("sgserial: opening serial port failed")
	ErrUnsupportedConfig = errors.New("sgserial: unsupported serial configuration")
	ErrSessionClosed     = errors.New("sgserial: session is closed")

	ErrWriteFailed = errors.New("sgserial: write failed")
	ErrFlushFailed = errors.New("sgserial: flush failed")
	ErrReadFailed  = errors.New("sgserial: read failed")
	ErrTimeout     = errors.New("sgserial: timed out waiting for response")
)

// ExchangeError reports which step of an exchange failed. Kind is one of
// ErrWriteFailed, ErrFlushFailed, ErrReadFailed or ErrTimeout, so callers
// match with errors.Is.
type ExchangeError struct {
	Kind    error
	Command string
	Err     error
}

func (e *ExchangeError) Error() string {
	msg := e.Kind.Error() + " (" + e.Command + ")"
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ExchangeError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}
