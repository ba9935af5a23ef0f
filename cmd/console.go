package main

import (
	"ISC-Board/sgctl/internal/sgSerial"
	"ISC-Board/sgctl/internal/terminal"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var consoleCmd = &cobra.Command{
	Use:   "console",
	Short: "Interactive console for picking a port and running commands",
	Long: `Open an interactive console. Pick a serial port (the list refreshes every
second and marks signal generator boards), tick the commands to run, edit
their values with 'e' and run them with enter.

Logs go to --log-file only, so set it if you want a trace of the session.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c := newConnector()

		lister := func() ([]sgSerial.Endpoint, error) {
			return sgSerial.ListEndpoints(c.Enumerate)
		}
		connector := func(port string) (terminal.SerialReaderWriter, error) {
			conn, err := c.ConnectPort(port)
			if err != nil {
				return nil, err
			}
			return conn, nil
		}

		log.Info("Starting console", zap.Duration("refresh", settings.Console.Refresh))
		return terminal.StartApplication(lister, connector, c.Config, settings.Console.Refresh, log)
	},
}

func init() {
	rootCmd.AddCommand(consoleCmd)
}
