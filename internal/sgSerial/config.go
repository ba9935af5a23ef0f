package sgSerial

import (
	"time"

	"go.bug.st/serial"
)

// USB identifiers of the ISC signal generator boards
const (
	TARGET_VENDOR_ID  uint16 = 8137
	TARGET_PRODUCT_ID uint16 = 131
)

const (
	BAUD_RATE    = 115200
	DATA_BITS    = 8
	OPEN_TIMEOUT = 10 * time.Second
	READ_TIMEOUT = 50 * time.Millisecond
)

// go.bug.st/serial opens ports without hardware flow control, so Mode rejects
// anything but FlowControlNone
type FlowControl int

const (
	FlowControlNone FlowControl = iota
	FlowControlRTSCTS
)

// Config is the fixed connection profile for a signal generator board. It is a
// plain value so tests can hand discovery and connect an alternate profile.
type Config struct {
	VendorID    uint16
	ProductID   uint16
	BaudRate    int
	DataBits    int
	Parity      serial.Parity
	StopBits    serial.StopBits
	FlowControl FlowControl
	OpenTimeout time.Duration

	// ReadTimeout bounds a single read attempt, not a whole frame
	ReadTimeout time.Duration
}

func DefaultConfig() Config {
	return Config{
		VendorID:    TARGET_VENDOR_ID,
		ProductID:   TARGET_PRODUCT_ID,
		BaudRate:    BAUD_RATE,
		DataBits:    DATA_BITS,
		Parity:      serial.NoParity,
		StopBits:    serial.OneStopBit,
		FlowControl: FlowControlNone,
		OpenTimeout: OPEN_TIMEOUT,
		ReadTimeout: READ_TIMEOUT,
	}
}

// Mode translates the profile into the mode handed to serial.Open
func (c Config) Mode() (*serial.Mode, error) {
	if c.FlowControl != FlowControlNone {
		return nil, ErrUnsupportedConfig
	}
	if c.BaudRate <= 0 || c.DataBits < 5 || c.DataBits > 8 {
		return nil, ErrUnsupportedConfig
	}

	return &serial.Mode{
		BaudRate: c.BaudRate,
		DataBits: c.DataBits,
		Parity:   c.Parity,
		StopBits: c.StopBits,
	}, nil
}
