package commander

import (
	"strconv"
	"strings"

	"ISC-Board/sgctl/internal/globals"
)

// Command is one instrument operation. The set of commands is closed: every
// variant lives in this file and carries its own wire encoding.
type Command interface {
	// Name is the human readable label used in logs and the console
	Name() string

	// MultiLine reports whether the board answers with an OK terminated block
	MultiLine() bool

	wire() string
}

type GetIdentity struct{}

type GetVersion struct{}

// GetStatus asks for the error code, or the full error list when Verbose is set
type GetStatus struct {
	Verbose bool
}

type ClearErrors struct{}

type GetFrequency struct{}

// SetFrequency sets the output frequency setpoint in MHz
type SetFrequency struct {
	Frequency float64
}

// GetPaPower reads the measured forward/reflected power of the amplifier
type GetPaPower struct{}

type GetPowerSetpoint struct{}

// SetPower sets the output power setpoint in dBm
type SetPower struct {
	Power float64
}

// ConfigureDll writes the six DLL parameters in board order
type ConfigureDll struct {
	Params [6]float64
}

type DllEnable struct{}

type DllDisable struct{}

type RfEnable struct{}

type RfDisable struct{}

type SweepDbm struct {
	Start float64
	Stop  float64
	Step  float64
	Dwell float64
}

// Encode renders a command in wire format, without the frame terminator
func Encode(cmd Command) string {
	return cmd.wire()
}

// formatField renders a numeric field with exactly two decimals. Ties that are
// exactly representable round to even (0.125 -> 0.12).
func formatField(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func frame(mnemonic string, fields ...string) string {
	var b strings.Builder
	b.WriteString(mnemonic)
	b.WriteString(globals.FIELD_SEPARATOR)
	b.WriteString(globals.CHANNEL)
	for _, f := range fields {
		b.WriteString(globals.FIELD_SEPARATOR)
		b.WriteString(f)
	}
	return b.String()
}

func numeric(mnemonic string, values ...float64) string {
	fields := make([]string, len(values))
	for i, v := range values {
		fields[i] = formatField(v)
	}
	return frame(mnemonic, fields...)
}

func (GetIdentity) wire() string { return frame(globals.CMD_IDENTITY) }
func (GetVersion) wire() string  { return frame(globals.CMD_VERSION) }

func (c GetStatus) wire() string {
	if c.Verbose {
		return frame(globals.CMD_STATUS, "1")
	}
	return frame(globals.CMD_STATUS)
}

func (ClearErrors) wire() string      { return frame(globals.CMD_CLEAR_ERRORS) }
func (GetFrequency) wire() string     { return frame(globals.CMD_GET_FREQ) }
func (c SetFrequency) wire() string   { return numeric(globals.CMD_SET_FREQ, c.Frequency) }
func (GetPaPower) wire() string       { return frame(globals.CMD_GET_PA_POWER) }
func (GetPowerSetpoint) wire() string { return frame(globals.CMD_GET_POWER) }
func (c SetPower) wire() string       { return numeric(globals.CMD_SET_POWER, c.Power) }
func (c ConfigureDll) wire() string   { return numeric(globals.CMD_DLL, c.Params[:]...) }
func (DllEnable) wire() string        { return frame(globals.CMD_DLL, "1") }
func (DllDisable) wire() string       { return frame(globals.CMD_DLL, "0") }
func (RfEnable) wire() string         { return frame(globals.CMD_RF_ENABLE, "1") }
func (RfDisable) wire() string        { return frame(globals.CMD_RF_ENABLE, "0") }

func (c SweepDbm) wire() string {
	return frame(globals.CMD_SWEEP_DBM,
		formatField(c.Start),
		formatField(c.Stop),
		formatField(c.Step),
		formatField(c.Dwell),
		"0",
	)
}

func (GetIdentity) Name() string      { return "Get Identity" }
func (GetVersion) Name() string       { return "Get Version" }
func (GetStatus) Name() string        { return "Get Status" }
func (ClearErrors) Name() string      { return "Clear Errors" }
func (GetFrequency) Name() string     { return "Get Frequency" }
func (SetFrequency) Name() string     { return "Set Frequency" }
func (GetPaPower) Name() string       { return "Get PA Power" }
func (GetPowerSetpoint) Name() string { return "Get Power" }
func (SetPower) Name() string         { return "Set Power" }
func (ConfigureDll) Name() string     { return "Configure DLL" }
func (DllEnable) Name() string        { return "DLL Enable" }
func (DllDisable) Name() string       { return "DLL Disable" }
func (RfEnable) Name() string         { return "RF Enable" }
func (RfDisable) Name() string        { return "RF Disable" }
func (SweepDbm) Name() string         { return "Sweep (dBm)" }

func (GetIdentity) MultiLine() bool      { return false }
func (GetVersion) MultiLine() bool       { return false }
func (c GetStatus) MultiLine() bool      { return c.Verbose }
func (ClearErrors) MultiLine() bool      { return false }
func (GetFrequency) MultiLine() bool     { return false }
func (SetFrequency) MultiLine() bool     { return false }
func (GetPaPower) MultiLine() bool       { return false }
func (GetPowerSetpoint) MultiLine() bool { return false }
func (SetPower) MultiLine() bool         { return false }
func (ConfigureDll) MultiLine() bool     { return false }
func (DllEnable) MultiLine() bool        { return false }
func (DllDisable) MultiLine() bool       { return false }
func (RfEnable) MultiLine() bool         { return false }
func (RfDisable) MultiLine() bool        { return false }
func (SweepDbm) MultiLine() bool         { return true }
