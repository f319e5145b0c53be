package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wundergraph/graphql-cacheid/pkg/canonicalvariables"
	"github.com/wundergraph/graphql-cacheid/pkg/responsejson"
)

// canonicalizeCmd represents the canonicalize command
var canonicalizeCmd = &cobra.Command{
	Use:     "canonicalize [variables]",
	Short:   "canonicalize prints the canonical encoding of a JSON object",
	Long:    `canonicalize sorts the keys of a JSON object at every level and prints the encoding used inside identifiers. Without an argument the object is read from stdin.`,
	Example: `cacheid canonicalize '{"where":{"b":1,"a":[{"d":1,"c":2}]}}'`,
	Args:    cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var raw []byte
		if len(args) == 1 {
			raw = []byte(args[0])
		} else {
			input, err := readInput(cmd, stdin)
			if err != nil {
				return err
			}
			raw = input
		}

		variables, err := responsejson.ReadVariables(raw)
		if err != nil {
			return err
		}

		encoded, err := canonicalvariables.Canonicalize(variables).Encode()
		if err != nil {
			return err
		}

		_, err = fmt.Fprintln(cmd.OutOrStdout(), encoded)
		return err
	},
}

func init() {
	rootCmd.AddCommand(canonicalizeCmd)
}
