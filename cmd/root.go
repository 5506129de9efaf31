package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ahl/skytransit/internal/config"
)

var (
	cfgFile string
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "skytransit",
	Short: "Predict satellite transits and conjunctions across the Sun and Moon",
	Long: `skytransit predicts when a satellite's apparent position, as seen from a
ground observer, passes across or near the Sun or Moon's apparent disc.`,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file path (not read: the config is always loaded from $HOME/.skytransit/config.yaml)")
}

func initConfig() {
	var err error
	cfg, err = config.Init()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing config: %v\n", err)
		os.Exit(1)
	}
}
