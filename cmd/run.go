package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"ISC-Board/sgctl/internal/commander"
	"ISC-Board/sgctl/internal/sgSerial"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

var (
	responseStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("40")).Bold(true)
	failureStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the start-up sequence (default)",
	Long: `Connect to the first detected signal generator, set the frequency to 50 MHz,
read it back, keep the port open for the hold period and disconnect.

If no board is detected, or it cannot be opened, a diagnostic is printed and
nothing else happens.`,
	Args: cobra.NoArgs,
	RunE: runStartupSequence,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runStartupSequence(cmd *cobra.Command, args []string) error {
	conn, err := connect(newConnector())
	if err != nil {
		if errors.Is(err, sgSerial.ErrNoDeviceFound) || errors.Is(err, sgSerial.ErrOpenFailed) {
			fmt.Fprintf(cmd.ErrOrStderr(), "%s %v\n", failureStyle.Render("✗"), err)
			fmt.Fprintln(cmd.ErrOrStderr(), "Exiting program: No valid connection.")
			return nil
		}
		return err
	}
	defer disconnect(conn)

	results, err := commander.New(conn, nil).RunSequence(commander.StartupSequence())
	for _, res := range results {
		printResult(cmd, res)
	}
	if err != nil {
		log.Warn("Start-up sequence finished with errors", zap.Int("failed", len(multierr.Errors(err))))
	}

	hold(settings.Hold)
	return nil
}

func printResult(cmd *cobra.Command, res commander.Result) {
	if res.Err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "%s Error: %v\n", failureStyle.Render("✗"), res.Err)
		return
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s Response: %s\n", responseStyle.Render("✓"), strings.TrimRight(res.Response, "\r\n"))
}

// hold keeps the port open for d, or until interrupted
func hold(d time.Duration) {
	if d <= 0 {
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	log.Info("Holding connection", zap.Duration("hold", d))

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
	case <-ctx.Done():
		log.Info("Interrupted, disconnecting early")
	}
}
