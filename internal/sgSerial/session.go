/**
Wrapper around the serial package for talking to a signal generator board

A session should:
1. Find the board among the attached serial ports and connect to it
2. Send one command at a time and collect its framed reply
3. Release the port exactly once on disconnect
*/

package sgSerial

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"go.bug.st/serial"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// PortOpener opens a named port. serial.Open in production.
type PortOpener func(name string, mode *serial.Mode) (serial.Port, error)

// Connector finds and opens signal generator boards with a fixed profile
type Connector struct {
	Config       Config
	FrameTimeout time.Duration
	Enumerate    Enumerator
	Open         PortOpener

	logger *zap.Logger
}

func NewConnector(cfg Config, frameTimeout time.Duration, logger *zap.Logger) *Connector {
	return &Connector{
		Config:       cfg,
		FrameTimeout: frameTimeout,
		Open:         serial.Open,
		logger:       logger,
	}
}

// Connect opens the first attached board matching the configured VID/PID
func (c *Connector) Connect() (*SgSerial, error) {
	endpoints, err := ListEndpoints(c.Enumerate)
	if err != nil {
		c.logger.Error("Failed to list serial ports", zap.Error(err))
		return nil, err
	}

	for _, e := range endpoints {
		c.logger.Debug("Available port", zap.Stringer("endpoint", e))
	}

	matches := FilterEndpoints(endpoints, c.Config)
	if len(matches) == 0 {
		c.logger.Warn("No signal generator boards detected",
			zap.Uint16("vendorID", c.Config.VendorID),
			zap.Uint16("productID", c.Config.ProductID))
		return nil, ErrNoDeviceFound
	}
	if len(matches) > 1 {
		c.logger.Warn("Multiple signal generator boards found, using the first", zap.Int("count", len(matches)))
	}

	return c.ConnectPort(matches[0].Name)
}

// ConnectPort opens a named port without discovery
func (c *Connector) ConnectPort(portName string) (*SgSerial, error) {
	mode, err := c.Config.Mode()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOpenFailed, err)
	}

	c.logger.Info("Connecting to signal generator", zap.String("portName", portName))

	port, err := openWithTimeout(c.Open, portName, mode, c.Config.OpenTimeout)
	if err != nil {
		c.logger.Error("Error opening serial port", zap.Error(err), zap.String("portName", portName))
		return nil, fmt.Errorf("%w: %s: %w", ErrOpenFailed, portName, err)
	}

	if err := port.SetReadTimeout(c.Config.ReadTimeout); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrOpenFailed, portName, multierr.Append(err, port.Close()))
	}

	c.logger.Info("Successfully connected", zap.String("portName", portName))

	return &SgSerial{
		port:         port,
		portName:     portName,
		frameTimeout: c.FrameTimeout,
		logger:       c.logger,
	}, nil
}

// serial.Open has no deadline of its own. A port that opens after the
// deadline is closed as soon as it shows up.
func openWithTimeout(open PortOpener, portName string, mode *serial.Mode, timeout time.Duration) (serial.Port, error) {
	type openResult struct {
		port serial.Port
		err  error
	}
	resultCh := make(chan openResult, 1)

	go func() {
		port, err := open(portName, mode)
		resultCh <- openResult{port: port, err: err}
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case result := <-resultCh:
		return result.port, result.err
	case <-timer.C:
		go func() {
			if late := <-resultCh; late.err == nil {
				late.port.Close()
			}
		}()
		return nil, fmt.Errorf("no response after %s", timeout)
	}
}

// SgSerial is an open connection to one board
type SgSerial struct {
	port         serial.Port
	portName     string
	frameTimeout time.Duration
	logger       *zap.Logger
	closed       bool
}

func (s *SgSerial) Name() string {
	return s.portName
}

// WriteRead runs one exchange. After a timeout any input still pending is
// discarded so late bytes do not end up in the next reply.
func (s *SgSerial) WriteRead(wireCommand string, framing Framing) (string, error) {
	if s.closed {
		return "", &ExchangeError{Kind: ErrWriteFailed, Command: wireCommand, Err: ErrSessionClosed}
	}

	s.logger.Info("TX", zap.String("portName", s.portName), zap.String("command", wireCommand))

	response, err := ExchangeFramed(s.port, wireCommand, framing, s.frameTimeout)
	if err != nil {
		if errors.Is(err, ErrTimeout) {
			s.logger.Warn("Timed out, discarding pending input", zap.Duration("frameTimeout", s.frameTimeout))
			if resetErr := s.port.ResetInputBuffer(); resetErr != nil {
				s.logger.Error("Error while discarding input", zap.Error(resetErr))
			}
		}
		s.logger.Error("Exchange failed", zap.Error(err), zap.String("command", wireCommand))
		return "", err
	}

	s.logger.Info("RX", zap.String("portName", s.portName), zap.String("response", strings.TrimRight(response, "\r\n")))
	return response, nil
}

// Disconnect releases the port. Calling it again is a no-op.
func (s *SgSerial) Disconnect() error {
	if s.closed {
		return nil
	}
	s.closed = true

	s.logger.Info("Disconnecting from port", zap.String("portName", s.portName))
	err := multierr.Append(s.port.ResetInputBuffer(), s.port.Close())
	if err != nil {
		s.logger.Error("Error while disconnecting", zap.Error(err), zap.String("portName", s.portName))
		return err
	}

	s.logger.Info("Disconnected from port", zap.String("portName", s.portName))
	return nil
}
