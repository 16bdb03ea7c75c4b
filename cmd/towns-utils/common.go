package main

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/texuf/towns-utils/services"
	"github.com/texuf/towns-utils/types"
	"github.com/texuf/towns-utils/utils"
)

// loadConfig reads the config file and environment, applying the persistent cli flags.
func loadConfig(cmd *cobra.Command) (*types.Config, *utils.LogWriter, *logrus.Logger, error) {
	configPath, _ := cmd.Flags().GetString("config")
	environment, _ := cmd.Flags().GetString("env")

	cfg := &types.Config{}
	err := utils.ReadConfig(cfg, configPath, func(cfg *types.Config) {
		if environment != "" {
			cfg.Environment = environment
		}
	})
	if err != nil {
		return nil, nil, nil, fmt.Errorf("error reading config: %w", err)
	}
	utils.Config = cfg

	logWriter, logger := utils.InitLogger(cfg)
	logger.WithFields(logrus.Fields{
		"config":      configPath,
		"environment": cfg.Environment,
		"version":     utils.GetBuildVersion(),
	}).Debugf("starting %v", cmd.Name())

	return cfg, logWriter, logger, nil
}

func newOperatorService(ctx context.Context, cfg *types.Config, logger logrus.FieldLogger, nodeUrls []string) (*services.OperatorService, error) {
	service, err := services.NewOperatorService(ctx, cfg, logger, nodeUrls)
	if err != nil {
		return nil, fmt.Errorf("error initializing operator service: %w", err)
	}
	return service, nil
}
