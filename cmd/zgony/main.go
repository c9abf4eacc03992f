package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var errorColor = color.New(color.FgRed, color.Bold)

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		errorColor.Fprintf(os.Stderr, "failed to read .env: %v\n", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		errorColor.Fprintln(os.Stderr, "error:", err)
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	flags := &cliFlags{}

	rootCmd := &cobra.Command{
		Use:           "zgony",
		Short:         "Weekly deaths in Poland from GUS workbooks",
		SilenceUsage:  true,
		SilenceErrors: true,
		Long: `Reads the yearly "Zgony według tygodni" workbooks published by GUS,
extracts weekly deaths per age group and renders tables and charts.

Settings come from the environment (or a .env file) and can be overridden by flags.
Example: zgony report --years 2015-2023 --data-dir ./data --out ./out`,
	}

	flags.register(rootCmd)

	rootCmd.AddCommand(
		newReportCmd(flags),
		newTableCmd(flags),
		newInspectCmd(flags),
	)

	return rootCmd
}

func printf(cmd *cobra.Command, format string, args ...interface{}) {
	fmt.Fprintf(cmd.OutOrStdout(), format, args...)
}
