package main

import (
	"fmt"
	"strings"

	"ISC-Board/sgctl/internal/commander"
	"github.com/spf13/cobra"
)

var sendCmd = &cobra.Command{
	Use:   "send <command> [values...]",
	Short: "Send one command and print the reply",
	Long: `Send a single command to the signal generator and print its reply.

Numeric values are sent with two decimals. Power values accept a W suffix
and are converted to dBm (set-power 1W sends 30.00).

Commands:
` + commandUsages() + `
Example usage:
  sgctl send identity
  sgctl send set-frequency 2450
  sgctl send set-power 1W
  sgctl send sweep-dbm 2400 2500 5 30`,
	Args: cobra.MinimumNArgs(1),
	ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if len(args) > 0 {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		var keys []string
		for _, e := range commander.Catalog() {
			keys = append(keys, e.Key)
		}
		return keys, cobra.ShellCompDirectiveNoFileComp
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		// reject bad input before touching the port
		command, err := commander.Parse(args[0], args[1:])
		if err != nil {
			return err
		}

		conn, err := connect(newConnector())
		if err != nil {
			return err
		}
		defer disconnect(conn)

		res, err := commander.New(conn, cmd.ErrOrStderr()).Run(command)
		if err != nil {
			return err
		}

		fmt.Fprint(cmd.OutOrStdout(), res)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sendCmd)
}

func commandUsages() string {
	var b strings.Builder
	for _, e := range commander.Catalog() {
		fmt.Fprintf(&b, "  %s\n", e.Usage())
	}
	return b.String()
}
