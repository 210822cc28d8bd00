// fixturecheck lints fixture tables before they reach CI: every row must
// have a unique id, exactly one assertion kind, a compilable regex, and a
// known readiness predicate. All issues in a table are reported at once.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/lankatools/singlish-e2e/internal/suite"
)

var (
	pass = color.New(color.FgGreen).SprintFunc()
	fail = color.New(color.FgRed).SprintFunc()
	dim  = color.New(color.Faint).SprintFunc()
)

func newRootCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "fixturecheck [tables...]",
		Short: "Validate Singlish conversion fixture tables",
		Long: `Validate one or more YAML fixture tables.

Exits nonzero when any table is invalid, so it can gate commits that edit
fixtures. With no arguments it checks fixtures/cases.yaml.`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				args = []string{"fixtures/cases.yaml"}
			}

			invalid := 0
			for _, path := range args {
				cases, err := suite.Load(path)
				if err != nil {
					invalid++
					fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n%v\n", fail("INVALID"), path, err)
					continue
				}

				quarantined := 0
				for _, c := range cases {
					if c.Quarantine {
						quarantined++
					}
					if verbose {
						kind, _ := c.Kind()
						fmt.Fprintf(cmd.OutOrStdout(), "  %s %s %s\n", c.ID, dim(string(kind)), dim(quarantineTag(c)))
					}
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s: %d cases, %d quarantined\n",
					pass("OK"), path, len(cases), quarantined)
			}

			if invalid > 0 {
				return fmt.Errorf("%d of %d tables invalid", invalid, len(args))
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "list every case")
	return cmd
}

func quarantineTag(c suite.Case) string {
	if !c.Quarantine {
		return ""
	}
	if c.Note != "" {
		return "(quarantined: " + c.Note + ")"
	}
	return "(quarantined)"
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, fail("FAIL"), err)
		os.Exit(1)
	}
}
