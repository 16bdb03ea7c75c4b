package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/texuf/towns-utils/utils"
)

var networkApyCmd = &cobra.Command{
	Use:   "network-apy",
	Short: "Print the estimated network apy",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logWriter, logger, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		defer logWriter.Dispose()

		ctx, cancel := utils.WithInterrupt(cmd.Context())
		defer cancel()

		service, err := newOperatorService(ctx, cfg, logger, nil)
		if err != nil {
			return err
		}
		defer service.Close()

		apy, err := service.GetNetworkApy(ctx)
		if err != nil {
			return err
		}

		fmt.Printf("%v\n", apy)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(networkApyCmd)
}
