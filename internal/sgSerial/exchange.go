package sgSerial

import (
	"errors"
	"io"
	"os"
	"strings"
	"time"

	"ISC-Board/sgctl/internal/globals"
)

const TEMP_BUF_SIZE = 256

// Transport is the byte channel an exchange runs over. serial.Port satisfies it.
type Transport interface {
	io.Reader
	io.Writer
	Drain() error
}

// Framing decides when an accumulated reply is complete
type Framing struct {
	Terminator string

	// AbortMarker ends the frame early once a full line containing it arrived
	AbortMarker string
}

var (
	LineFraming  = Framing{Terminator: globals.LINE_TERMINATOR}
	BlockFraming = Framing{Terminator: globals.BLOCK_TERMINATOR, AbortMarker: globals.ERROR_MARKER}
)

func (f Framing) complete(buf string) bool {
	if strings.Contains(buf, f.Terminator) {
		return true
	}
	if f.AbortMarker == "" {
		return false
	}

	idx := strings.Index(buf, f.AbortMarker)
	return idx >= 0 && strings.Contains(buf[idx:], globals.LINE_TERMINATOR)
}

type readOutcome int

const (
	readProgress readOutcome = iota
	readIdle
	readFatal
)

// classifyRead sorts a read attempt into progress, "nothing yet" or a fault.
// go.bug.st/serial reports an expired read timeout as (0, nil).
func classifyRead(n int, err error) readOutcome {
	if err != nil {
		if isTransient(err) {
			return readIdle
		}
		return readFatal
	}
	if n == 0 {
		return readIdle
	}
	return readProgress
}

func isTransient(err error) bool {
	if errors.Is(err, os.ErrDeadlineExceeded) {
		return true
	}
	var timeout interface{ Timeout() bool }
	return errors.As(err, &timeout) && timeout.Timeout()
}

// Exchange sends one command line and collects a single \r\n terminated reply
func Exchange(t Transport, wireCommand string, frameTimeout time.Duration) (string, error) {
	return ExchangeFramed(t, wireCommand, LineFraming, frameTimeout)
}

// ExchangeFramed writes wireCommand plus \r\n, flushes, then reads until the
// framing is satisfied or frameTimeout has elapsed. The reply is returned with
// its terminator.
func ExchangeFramed(t Transport, wireCommand string, framing Framing, frameTimeout time.Duration) (string, error) {
	outbound := []byte(wireCommand + globals.LINE_TERMINATOR)

	if err := writeFull(t, outbound); err != nil {
		return "", &ExchangeError{Kind: ErrWriteFailed, Command: wireCommand, Err: err}
	}
	if err := t.Drain(); err != nil {
		return "", &ExchangeError{Kind: ErrFlushFailed, Command: wireCommand, Err: err}
	}

	var response strings.Builder
	tempBuf := [TEMP_BUF_SIZE]byte{}
	start := time.Now()

	for {
		if time.Since(start) >= frameTimeout {
			return "", &ExchangeError{Kind: ErrTimeout, Command: wireCommand}
		}

		n, err := t.Read(tempBuf[:])
		if n > 0 {
			response.WriteString(strings.ToValidUTF8(string(tempBuf[:n]), "\uFFFD"))
		}

		if classifyRead(n, err) == readFatal {
			return "", &ExchangeError{Kind: ErrReadFailed, Command: wireCommand, Err: err}
		}

		if framing.complete(response.String()) {
			return response.String(), nil
		}
	}
}

// writeFull treats a partial write as one logical write that either completes
// or fails
func writeFull(w io.Writer, data []byte) error {
	for len(data) > 0 {
		n, err := w.Write(data)
		if err != nil {
			return err
		}
		if n <= 0 {
			return io.ErrShortWrite
		}
		data = data[n:]
	}
	return nil
}
