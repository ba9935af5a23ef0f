package commander

import (
	"fmt"
	"io"
	"strings"

	"ISC-Board/sgctl/internal/sgSerial"
	"go.uber.org/multierr"
)

type SerialReaderWriter interface {
	WriteRead(wireCommand string, framing sgSerial.Framing) (string, error)
}

// Commander sends commands over one connection and narrates every step to log
type Commander struct {
	conn SerialReaderWriter
	log  io.Writer
}

func New(conn SerialReaderWriter, log io.Writer) *Commander {
	if log == nil {
		log = io.Discard
	}
	return &Commander{conn: conn, log: log}
}

// Result is the outcome of one command in a sequence
type Result struct {
	Command  Command
	Response string
	Err      error
}

func framingFor(cmd Command) sgSerial.Framing {
	if cmd.MultiLine() {
		return sgSerial.BlockFraming
	}
	return sgSerial.LineFraming
}

// Run sends a single command and returns the raw framed reply
func (c *Commander) Run(cmd Command) (string, error) {
	tag := cmd.Name()
	wire := Encode(cmd)

	fmt.Fprintf(c.log, "[%s]: sending %s\n", tag, wire)

	res, err := c.conn.WriteRead(wire, framingFor(cmd))
	if err != nil {
		fmt.Fprintf(c.log, "[%s]: %v\n", tag, err)
		return "", fmt.Errorf("%s: %w", tag, err)
	}

	for _, line := range strings.Split(strings.TrimRight(res, "\r\n"), "\r\n") {
		fmt.Fprintf(c.log, "[%s]: received %s\n", tag, line)
	}

	return res, nil
}

// RunSequence runs every command in order, carrying on past failures. The
// returned error combines all failures; multierr.Errors splits it again.
func (c *Commander) RunSequence(cmds []Command) ([]Result, error) {
	results := make([]Result, 0, len(cmds))
	var errs error

	for _, cmd := range cmds {
		res, err := c.Run(cmd)
		results = append(results, Result{Command: cmd, Response: res, Err: err})
		errs = multierr.Append(errs, err)
	}

	return results, errs
}

// StartupSequence is what the tool runs when started without a subcommand
func StartupSequence() []Command {
	return []Command{
		SetFrequency{Frequency: 50},
		GetFrequency{},
	}
}
