package cmd

import (
	"github.com/spf13/cobra"

	"github.com/wundergraph/graphql-cacheid/pkg/cacheid"
	"github.com/wundergraph/graphql-cacheid/pkg/responsejson"
)

var (
	annotateOperation operationFlags
	annotateDataFile  string
	annotatePatch     bool
)

// annotateCmd represents the annotate command
var annotateCmd = &cobra.Command{
	Use:   "annotate",
	Short: "annotate injects synthetic identifiers into a GraphQL result",
	Long: `annotate reads a GraphQL response (or its bare data object) and writes it to stdout
with an "_id" injected into every object that has no natural id.
Diagnostics are logged to stderr, they never change the result.`,
	Example: `cacheid annotate -q ./library.graphql --variables '{"lang":"en"}' --data ./response.json
cacheid annotate -r ./request.json --data - --patch < response.json
cacheid annotate -q ./fragments.graphql -f BookDetails --data-id Book:1 --data ./book.json`,
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

		operation, err := annotateOperation.operation(cmd)
		if err != nil {
			return err
		}

		body, err := readInput(cmd, annotateDataFile)
		if err != nil {
			return err
		}

		annotator := responsejson.NewAnnotator(cacheid.New(config.Config, cacheid.WithLogger(logger)))
		out, _, err := annotator.Annotate(body, operation)
		if err != nil {
			return err
		}

		if annotatePatch {
			out, err = responsejson.InjectedPatch(body, out)
			if err != nil {
				return err
			}
		}

		_, err = cmd.OutOrStdout().Write(append(out, '\n'))
		return err
	},
}

func init() {
	rootCmd.AddCommand(annotateCmd)

	annotateOperation.register(annotateCmd)

	annotateCmd.Flags().StringVarP(&annotateDataFile, "data", "d", stdin, "file holding the GraphQL response or data object, - reads stdin")
	annotateCmd.Flags().BoolVar(&annotatePatch, "patch", false, "print a JSON merge patch of the injected identifiers instead of the whole result")
}
