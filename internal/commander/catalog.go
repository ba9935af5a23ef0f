package commander

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrUnknownCommand = errors.New("commander: unknown command")
	ErrArgumentCount  = errors.New("commander: wrong number of arguments")
	ErrInvalidNumber  = errors.New("commander: invalid numeric argument")
)

const powerParam = "dBm|W"

// Entry describes a command addressable by name from the CLI and the console
type Entry struct {
	Key      string
	Params   []string
	Defaults []float64
	Build    func(values []float64) Command
}

func (e Entry) Usage() string {
	if len(e.Params) == 0 {
		return e.Key
	}
	return e.Key + " <" + strings.Join(e.Params, "> <") + ">"
}

var catalog = []Entry{
	{Key: "identity", Build: func([]float64) Command { return GetIdentity{} }},
	{Key: "version", Build: func([]float64) Command { return GetVersion{} }},
	{Key: "status", Build: func([]float64) Command { return GetStatus{} }},
	{Key: "status-verbose", Build: func([]float64) Command { return GetStatus{Verbose: true} }},
	{Key: "clear-errors", Build: func([]float64) Command { return ClearErrors{} }},
	{Key: "get-frequency", Build: func([]float64) Command { return GetFrequency{} }},
	{
		Key:      "set-frequency",
		Params:   []string{"MHz"},
		Defaults: []float64{2450},
		Build:    func(v []float64) Command { return SetFrequency{Frequency: v[0]} },
	},
	{Key: "get-pa-power", Build: func([]float64) Command { return GetPaPower{} }},
	{Key: "get-power", Build: func([]float64) Command { return GetPowerSetpoint{} }},
	{
		Key:      "set-power",
		Params:   []string{powerParam},
		Defaults: []float64{30},
		Build:    func(v []float64) Command { return SetPower{Power: v[0]} },
	},
	{
		Key:      "configure-dll",
		Params:   []string{"p1", "p2", "p3", "p4", "p5", "p6"},
		Defaults: []float64{2400, 2500, 2410, 1, 0.5, 50},
		Build: func(v []float64) Command {
			return ConfigureDll{Params: [6]float64{v[0], v[1], v[2], v[3], v[4], v[5]}}
		},
	},
	{Key: "dll-enable", Build: func([]float64) Command { return DllEnable{} }},
	{Key: "dll-disable", Build: func([]float64) Command { return DllDisable{} }},
	{Key: "rf-enable", Build: func([]float64) Command { return RfEnable{} }},
	{Key: "rf-disable", Build: func([]float64) Command { return RfDisable{} }},
	{
		Key:      "sweep-dbm",
		Params:   []string{"start", "stop", "step", "dwell"},
		Defaults: []float64{2400, 2500, 5, 30},
		Build: func(v []float64) Command {
			return SweepDbm{Start: v[0], Stop: v[1], Step: v[2], Dwell: v[3]}
		},
	},
}

// Catalog returns a copy of the named command table in display order
func Catalog() []Entry {
	entries := make([]Entry, len(catalog))
	copy(entries, catalog)
	return entries
}

func Lookup(key string) (Entry, bool) {
	key = strings.ToLower(strings.TrimSpace(key))
	for _, e := range catalog {
		if e.Key == key {
			return e, true
		}
	}
	return Entry{}, false
}

// Parse builds a command from its catalog key and textual arguments
func Parse(key string, args []string) (Command, error) {
	entry, ok := Lookup(key)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCommand, key)
	}
	return entry.Parse(args)
}

func (e Entry) Parse(args []string) (Command, error) {
	if len(args) != len(e.Params) {
		return nil, fmt.Errorf("%w: %s wants %d, got %d", ErrArgumentCount, e.Key, len(e.Params), len(args))
	}

	values := make([]float64, len(args))
	for i, arg := range args {
		v, err := parseValue(arg, e.Params[i] == powerParam)
		if err != nil {
			return nil, fmt.Errorf("%w: %s %s=%q", ErrInvalidNumber, e.Key, e.Params[i], arg)
		}
		values[i] = v
	}

	return e.Build(values), nil
}

// parseValue reads a plain number, or for power fields a value in watt when
// suffixed with W
func parseValue(arg string, power bool) (float64, error) {
	arg = strings.TrimSpace(arg)
	if watt, ok := strings.CutSuffix(strings.ToUpper(arg), "W"); ok && power {
		w, err := strconv.ParseFloat(strings.TrimSpace(watt), 64)
		if err != nil || w <= 0 {
			return 0, ErrInvalidNumber
		}
		return WattToDbm(w), nil
	}
	return strconv.ParseFloat(arg, 64)
}
