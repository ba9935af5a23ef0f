package sgSerial

import (
	"fmt"
	"strconv"
	"strings"

	"go.bug.st/serial/enumerator"
)

// Endpoint is a serial port as reported by the platform enumerator
type Endpoint struct {
	Name         string
	IsUSB        bool
	VendorID     uint16
	ProductID    uint16
	SerialNumber string
	Product      string
}

// Enumerator lists serial ports with their USB metadata
type Enumerator func() ([]*enumerator.PortDetails, error)

// Matches reports whether the endpoint is a USB device with the profile's VID/PID
func (e Endpoint) Matches(cfg Config) bool {
	return e.IsUSB && e.VendorID == cfg.VendorID && e.ProductID == cfg.ProductID
}

func (e Endpoint) String() string {
	if !e.IsUSB {
		return e.Name
	}
	return fmt.Sprintf("%s (VID=%04X PID=%04X)", e.Name, e.VendorID, e.ProductID)
}

func ListEndpoints(enumerate Enumerator) ([]Endpoint, error) {
	if enumerate == nil {
		enumerate = enumerator.GetDetailedPortsList
	}

	details, err := enumerate()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDiscoveryFailed, err)
	}

	endpoints := make([]Endpoint, 0, len(details))
	for _, d := range details {
		if d == nil {
			continue
		}
		endpoints = append(endpoints, Endpoint{
			Name:         d.Name,
			IsUSB:        d.IsUSB,
			VendorID:     parseUSBID(d.VID),
			ProductID:    parseUSBID(d.PID),
			SerialNumber: d.SerialNumber,
			Product:      d.Product,
		})
	}

	return endpoints, nil
}

// FilterEndpoints keeps the endpoints that look like a signal generator board
func FilterEndpoints(endpoints []Endpoint, cfg Config) []Endpoint {
	var matches []Endpoint
	for _, e := range endpoints {
		if e.Matches(cfg) {
			matches = append(matches, e)
		}
	}
	return matches
}

// the enumerator reports identifiers as hex strings, e.g. "1FC9" or "1fc9"
func parseUSBID(raw string) uint16 {
	raw = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(raw)), "0x")
	id, err := strconv.ParseUint(raw, 16, 16)
	if err != nil {
		return 0
	}
	return uint16(id)
}
