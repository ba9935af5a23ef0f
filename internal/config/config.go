package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const ENV_PREFIX = "SGCTL"

const (
	DEFAULT_FRAME_TIMEOUT   = 500 * time.Millisecond
	DEFAULT_READ_TIMEOUT    = 50 * time.Millisecond
	DEFAULT_HOLD            = 20 * time.Second
	DEFAULT_CONSOLE_REFRESH = 1 * time.Second
)

// Settings are the runtime knobs of the tool. The serial line parameters are
// not among them; those are fixed per board in sgSerial.Config.
type Settings struct {
	Port         string          `mapstructure:"port"`
	LogFile      string          `mapstructure:"log_file"`
	LogLevel     string          `mapstructure:"log_level"`
	FrameTimeout time.Duration   `mapstructure:"frame_timeout"`
	ReadTimeout  time.Duration   `mapstructure:"read_timeout"`
	Hold         time.Duration   `mapstructure:"hold"`
	Console      ConsoleSettings `mapstructure:"console"`
}

type ConsoleSettings struct {
	Refresh time.Duration `mapstructure:"refresh"`
}

func SetDefaults(v *viper.Viper) {
	v.SetDefault("port", "")
	v.SetDefault("log_file", "")
	v.SetDefault("log_level", "info")
	v.SetDefault("frame_timeout", DEFAULT_FRAME_TIMEOUT)
	v.SetDefault("read_timeout", DEFAULT_READ_TIMEOUT)
	v.SetDefault("hold", DEFAULT_HOLD)
	v.SetDefault("console.refresh", DEFAULT_CONSOLE_REFRESH)
}

// Load layers defaults, an optional config file, SGCTL_* environment
// variables and any flags already bound to v
func Load(v *viper.Viper, configFile string) (Settings, error) {
	SetDefaults(v)

	v.SetEnvPrefix(ENV_PREFIX)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return Settings{}, fmt.Errorf("config load failed (%s): %w", configFile, err)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return Settings{}, fmt.Errorf("config parse failed: %w", err)
	}

	if err := Validate(s); err != nil {
		return Settings{}, err
	}

	return s, nil
}

func Validate(s Settings) error {
	if s.FrameTimeout <= 0 {
		return fmt.Errorf("frame_timeout must be positive, got %s", s.FrameTimeout)
	}
	if s.ReadTimeout <= 0 {
		return fmt.Errorf("read_timeout must be positive, got %s", s.ReadTimeout)
	}
	if s.ReadTimeout > s.FrameTimeout {
		return fmt.Errorf("read_timeout (%s) must not exceed frame_timeout (%s)", s.ReadTimeout, s.FrameTimeout)
	}
	if s.Hold < 0 {
		return fmt.Errorf("hold must not be negative, got %s", s.Hold)
	}
	if s.Console.Refresh <= 0 {
		return fmt.Errorf("console.refresh must be positive, got %s", s.Console.Refresh)
	}
	if strings.TrimSpace(s.LogLevel) == "" {
		return fmt.Errorf("log_level must not be empty")
	}
	return nil
}
