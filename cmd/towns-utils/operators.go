package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/texuf/towns-utils/storage"
	"github.com/texuf/towns-utils/utils"
)

var operatorsCmd = &cobra.Command{
	Use:   "operators",
	Short: "Print the stakable operator report",
	Long:  "Probe the river nodes, read the staking contracts and print the active operators with their commission, estimated apr and latency metrics",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runOperators(cmd)
	},
}

func init() {
	rootCmd.AddCommand(operatorsCmd)

	operatorsCmd.Flags().StringP("output", "o", outputJson, "Output format (json, yaml, table)")
	operatorsCmd.Flags().StringSlice("node-url", []string{}, "Node urls to probe instead of the registry nodes (in order)")
	operatorsCmd.Flags().Bool("upload", false, "Upload the json report to the configured report store")
}

func runOperators(cmd *cobra.Command) error {
	output, _ := cmd.Flags().GetString("output")
	nodeUrls, _ := cmd.Flags().GetStringSlice("node-url")
	upload, _ := cmd.Flags().GetBool("upload")

	cfg, logWriter, logger, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	defer logWriter.Dispose()

	ctx, cancel := utils.WithInterrupt(cmd.Context())
	defer cancel()

	service, err := newOperatorService(ctx, cfg, logger, nodeUrls)
	if err != nil {
		return err
	}
	defer service.Close()

	report, err := service.GetOperatorsReport(ctx)
	if err != nil {
		return err
	}

	if upload {
		store, err := storage.NewReportStore(ctx, &cfg.ReportStore)
		if err != nil {
			return fmt.Errorf("error initializing report store: %w", err)
		}
		key, err := store.StoreReport(ctx, cfg.Environment, report, time.Now())
		if err != nil {
			return err
		}
		logger.Infof("uploaded report to %v", key)
	}

	return writeReport(os.Stdout, output, report)
}
