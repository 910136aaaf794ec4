package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/abacus"
	"github.com/aretw0/abacus/internal/cli"
	"github.com/aretw0/abacus/pkg/domain"
	"github.com/spf13/cobra"
)

var evalCmd = &cobra.Command{
	Use:     "eval <keys>...",
	Short:   "Press keys on a fresh calculator and print the display",
	Example: `  abacus eval "12.5*4="`,
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return cli.Evaluate(cmd.Context(), cmd.OutOrStdout(), args...)
	},
}

var calcCmd = &cobra.Command{
	Use:     "calc <left> <operator> <right>",
	Short:   "Perform a single calculation",
	Example: `  abacus calc 10 / 4`,
	Args:    cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		op, err := domain.ParseOperator(strings.TrimSpace(args[1]))
		if err != nil {
			return err
		}
		res := newEngine().Calculate(cmd.Context(), op, args[0], args[2])
		_, err = fmt.Fprintln(cmd.OutOrStdout(), res.String())
		return err
	},
}

func init() {
	rootCmd.AddCommand(evalCmd)
	rootCmd.AddCommand(calcCmd)
}

func newEngine() *abacus.Engine {
	return abacus.New()
}
