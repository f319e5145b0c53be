package cmd

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/wundergraph/graphql-cacheid/pkg/cacheid"
)

var treeOperation operationFlags

// treeCmd represents the tree command
var treeCmd = &cobra.Command{
	Use:     "tree",
	Short:   "tree prints the field tree of an operation as JSON",
	Example: `cacheid tree -q ./library.graphql --variables '{"lang":"en"}'`,
	RunE: func(cmd *cobra.Command, args []string) error {
		config, err := loadConfig()
		if err != nil {
			return err
		}

		logger, sync, err := newLogger(config.Debug)
		if err != nil {
			return err
		}
		defer sync()

		operation, err := treeOperation.operation(cmd)
		if err != nil {
			return err
		}

		tree, report := cacheid.New(config.Config, cacheid.WithLogger(logger)).FieldTree(operation)
		if report.HasFatal() {
			return report
		}

		out, err := json.MarshalIndent(tree, "", "  ")
		if err != nil {
			return err
		}

		_, err = cmd.OutOrStdout().Write(append(out, '\n'))
		return err
	},
}

func init() {
	rootCmd.AddCommand(treeCmd)

	treeOperation.register(treeCmd)
}
