package main

import (
	"github.com/spf13/cobra"

	"github.com/texuf/towns-utils/utils"
)

var rootCmd = &cobra.Command{
	Use:           "towns-utils",
	Short:         "Towns protocol diagnostic utilities",
	Long:          "Diagnostic utilities for the Towns protocol, including the node operator report, registry node listing and the staking api server",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to the config file, if empty string defaults will be used")
	rootCmd.PersistentFlags().String("env", "", "Environment to use (omega, gamma, alpha, delta), overrides ENVIRONMENT")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		utils.LogFatal(err, "towns-utils failed", 0)
	}
}
