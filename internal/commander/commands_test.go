package commander

import (
	"strings"
	"testing"
)

func TestEncode(t *testing.T) {
	tests := []struct {
		name string
		cmd  Command
		want string
	}{
		{"identity", GetIdentity{}, "$IDN,0"},
		{"version", GetVersion{}, "$VER,0"},
		{"status", GetStatus{}, "$ST,0"},
		{"status verbose", GetStatus{Verbose: true}, "$ST,0,1"},
		{"clear errors", ClearErrors{}, "$ERRC,0"},
		{"get frequency", GetFrequency{}, "$FCG,0"},
		{"set frequency", SetFrequency{Frequency: 50}, "$FCS,0,50.00"},
		{"get pa power", GetPaPower{}, "$PPG,0"},
		{"get power setpoint", GetPowerSetpoint{}, "$PWRG,0"},
		{"set power", SetPower{Power: 30}, "$PWRS,0,30.00"},
		{"configure dll", ConfigureDll{Params: [6]float64{1, 2, 3, 4, 5, 6}}, "$DLES,0,1.00,2.00,3.00,4.00,5.00,6.00"},
		{"dll enable", DllEnable{}, "$DLES,0,1"},
		{"dll disable", DllDisable{}, "$DLES,0,0"},
		{"rf enable", RfEnable{}, "$ECS,0,1"},
		{"rf disable", RfDisable{}, "$ECS,0,0"},
		{"sweep dbm", SweepDbm{Start: 2400, Stop: 2500, Step: 5, Dwell: 30}, "$SWPD,0,2400.00,2500.00,5.00,30.00,0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Encode(tt.cmd); got != tt.want {
				t.Errorf("Encode(%#v) = %q, want %q", tt.cmd, got, tt.want)
			}
		})
	}
}

func TestEncodeDeterministic(t *testing.T) {
	cmds := []Command{
		GetStatus{Verbose: true},
		SetFrequency{Frequency: 2450.125},
		ConfigureDll{Params: [6]float64{2400, 2500, 2410, 1, 0.5, 50}},
		SweepDbm{Start: -1.5, Stop: 3.333, Step: 0.1, Dwell: 100},
	}

	for _, cmd := range cmds {
		first := Encode(cmd)
		second := Encode(cmd)
		if first != second {
			t.Errorf("Encode(%#v) not deterministic: %q vs %q", cmd, first, second)
		}
	}
}

func TestNumericFieldsHaveTwoDecimals(t *testing.T) {
	tests := []struct {
		value float64
		want  string
	}{
		{50, "50.00"},
		{0, "0.00"},
		{-10, "-10.00"},
		{-0.5, "-0.50"},
		{2450.5, "2450.50"},
		{123456.789, "123456.79"},
		{0.001, "0.00"},
		// exactly representable ties round to even
		{0.125, "0.12"},
		{0.375, "0.38"},
		{-0.125, "-0.12"},
		// 1.005 is stored as 1.00499999999999989...
		{1.005, "1.00"},
	}

	for _, tt := range tests {
		got := Encode(SetPower{Power: tt.value})
		want := "$PWRS,0," + tt.want
		if got != want {
			t.Errorf("Encode(SetPower{%v}) = %q, want %q", tt.value, got, want)
		}
	}
}

func TestMultiLine(t *testing.T) {
	multi := map[string]bool{
		"status-verbose": true,
		"sweep-dbm":      true,
	}

	for _, e := range Catalog() {
		cmd, err := e.Parse(defaultArgs(e))
		if err != nil {
			t.Fatalf("%s: %v", e.Key, err)
		}
		if cmd.MultiLine() != multi[e.Key] {
			t.Errorf("%s: MultiLine() = %v, want %v", e.Key, cmd.MultiLine(), multi[e.Key])
		}
	}
}

func TestEveryCommandHasNameAndPrefix(t *testing.T) {
	for _, e := range Catalog() {
		cmd, err := e.Parse(defaultArgs(e))
		if err != nil {
			t.Fatalf("%s: %v", e.Key, err)
		}
		if cmd.Name() == "" {
			t.Errorf("%s has no name", e.Key)
		}
		wire := Encode(cmd)
		if !strings.HasPrefix(wire, "$") || !strings.Contains(wire, ",0") {
			t.Errorf("%s encodes to %q, want $<mnemonic>,0...", e.Key, wire)
		}
		if strings.ContainsAny(wire, "\r\n") {
			t.Errorf("%s encoding %q must not carry the terminator", e.Key, wire)
		}
	}
}

// fields are rounded from the float64 value; a float32 rendering of 1.115
// would give 1.12
func TestFieldsRoundFromFloat64(t *testing.T) {
	if got := Encode(SetFrequency{Frequency: 1.115}); got != "$FCS,0,1.11" {
		t.Errorf("Encode(SetFrequency{1.115}) = %q, want $FCS,0,1.11", got)
	}
}
