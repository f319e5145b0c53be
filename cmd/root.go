package cmd

import (
	"fmt"
	"os"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/wundergraph/graphql-cacheid/pkg/querydocument"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "cacheid",
	Short: "cacheid populates synthetic cache identifiers into GraphQL results",
	Long: `cacheid composes a stable identifier for every object of a GraphQL result
that has no natural id, the same way a normalized client cache does before a write.
Identifiers are built from the parent identifier, the schema field name,
the list index and the canonicalized field arguments.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.cacheid.yaml)")

	rootCmd.PersistentFlags().StringSlice("rootEntityTypes", nil, "root level entity types seeding identifiers with their type name")
	_ = viper.BindPFlag("rootEntityTypes", rootCmd.PersistentFlags().Lookup("rootEntityTypes"))

	rootCmd.PersistentFlags().Int("documentCacheSize", querydocument.DefaultCacheSize, "number of parsed documents kept in memory")
	_ = viper.BindPFlag("documentCacheSize", rootCmd.PersistentFlags().Lookup("documentCacheSize"))

	rootCmd.PersistentFlags().Bool("debug", false, "enables development logging")
	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := homedir.Dir()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		viper.AddConfigPath(home)
		viper.SetConfigName(".cacheid")
	}

	viper.SetEnvPrefix("CACHEID")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}
