package main

import (
	"fmt"

	"ISC-Board/sgctl/internal/sgSerial"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List serial ports and mark signal generator boards",
	Long: `List every serial port the platform reports, with USB vendor/product
identifiers where available. Ports matching the signal generator's VID/PID
are marked.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		endpoints, err := sgSerial.ListEndpoints(nil)
		if err != nil {
			return err
		}

		if len(endpoints) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No serial ports found")
			return nil
		}

		onlyBoards, _ := cmd.Flags().GetBool("boards")
		if onlyBoards {
			endpoints = sgSerial.FilterEndpoints(endpoints, sgSerial.DefaultConfig())
			if len(endpoints) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No signal generator boards detected")
				return nil
			}
		}

		renderEndpoints(cmd, endpoints)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().BoolP("boards", "b", false, "only show signal generator boards")
}

func renderEndpoints(cmd *cobra.Command, endpoints []sgSerial.Endpoint) {
	portWidth := 20
	idWidth := 12

	headerStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("99")).
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("240"))

	boardStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("214")).
		Bold(true)

	profile := sgSerial.DefaultConfig()

	fmt.Fprintf(cmd.OutOrStdout(), "Found %d serial port(s):\n\n", len(endpoints))
	fmt.Fprintln(cmd.OutOrStdout(), headerStyle.Render(fmt.Sprintf("%-*s %-*s %s",
		portWidth, "Port",
		idWidth, "VID:PID",
		"Product")))

	for _, e := range endpoints {
		ids := "-"
		if e.IsUSB {
			ids = fmt.Sprintf("%04X:%04X", e.VendorID, e.ProductID)
		}

		row := fmt.Sprintf("%-*s %-*s %s", portWidth, e.Name, idWidth, ids, e.Product)
		if e.Matches(profile) {
			row += " " + boardStyle.Render("← signal generator")
		}
		fmt.Fprintln(cmd.OutOrStdout(), row)
	}
}
