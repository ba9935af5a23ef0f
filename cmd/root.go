package main

import (
	"ISC-Board/sgctl/internal/config"
	"ISC-Board/sgctl/internal/logger"
	"ISC-Board/sgctl/internal/sgSerial"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var (
	v        = viper.New()
	cfgFile  string
	settings config.Settings
	log      = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "sgctl",
	Short: "Control an ISC signal generator board over USB serial",
	Long: `sgctl talks to an ISC signal generator board over its USB serial port.

The board is found by its USB vendor/product identifier (8137/131) and opened
at 115200 8N1 without flow control. Commands are sent as single ASCII lines
and every reply is read until its CR/LF terminator or the frame timeout.

Without a subcommand sgctl runs the start-up sequence: set the frequency to
50 MHz, read it back, hold the connection and disconnect.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := config.Load(v, cfgFile)
		if err != nil {
			return err
		}
		settings = s

		// the console owns the terminal, so it only logs to the file
		if cmd == consoleCmd {
			log, err = logger.NewFileLogger(settings.LogFile, settings.LogLevel)
		} else {
			log, err = logger.NewLogger(settings.LogFile, settings.LogLevel)
		}
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = log.Sync()
	},
	RunE: runStartupSequence,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (yaml, toml or json)")
	flags.StringP("port", "p", "", "serial port to use instead of auto-detection")
	flags.String("log-file", "", "append logs to this file")
	flags.String("log-level", "info", "log level: debug, info, warn, error")
	flags.Duration("frame-timeout", config.DEFAULT_FRAME_TIMEOUT, "time allowed for a complete reply")
	flags.Duration("read-timeout", config.DEFAULT_READ_TIMEOUT, "time a single read waits for bytes")
	flags.Duration("hold", config.DEFAULT_HOLD, "how long the start-up sequence keeps the port open")

	for key, flag := range map[string]string{
		"port":          "port",
		"log_file":      "log-file",
		"log_level":     "log-level",
		"frame_timeout": "frame-timeout",
		"read_timeout":  "read-timeout",
		"hold":          "hold",
	} {
		if err := v.BindPFlag(key, flags.Lookup(flag)); err != nil {
			panic(err)
		}
	}
}

func newConnector() *sgSerial.Connector {
	profile := sgSerial.DefaultConfig()
	profile.ReadTimeout = settings.ReadTimeout
	return sgSerial.NewConnector(profile, settings.FrameTimeout, log)
}

// connect uses the configured port when one is set, auto-detection otherwise
func connect(c *sgSerial.Connector) (*sgSerial.SgSerial, error) {
	if settings.Port != "" {
		return c.ConnectPort(settings.Port)
	}
	return c.Connect()
}

type releaser interface {
	Name() string
	Disconnect() error
}

// disconnect releases the session and logs a failed close
func disconnect(conn releaser) {
	if err := conn.Disconnect(); err != nil {
		log.Error("Failed to release serial port", zap.Error(err), zap.String("portName", conn.Name()))
	}
}
