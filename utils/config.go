package utils

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/kelseyhightower/envconfig"
	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/texuf/towns-utils/config"
	"github.com/texuf/towns-utils/types"
)

const (
	baseMainnetChainId = 8453

	defaultEnvironment   = "omega"
	defaultProberTimeout = 3500 * time.Millisecond
	defaultStatusPath    = "/debug/multi/json"
)

// ErrMissingApiKey is returned when no rpc provider api key has been configured.
var ErrMissingApiKey = errors.New("ALCHEMY_API_KEY environment variable is not set")

// Config is the globally accessible configuration
var Config *types.Config

// ReadConfig will process a configuration.
// Overrides run after file and environment values have been applied.
func ReadConfig(cfg *types.Config, path string, overrides ...func(cfg *types.Config)) error {
	err := readConfigFile(cfg, path)
	if err != nil {
		return err
	}

	err = readConfigEnv(cfg)
	if err != nil {
		return fmt.Errorf("error reading config from environment: %w", err)
	}

	for _, override := range overrides {
		override(cfg)
	}

	if cfg.AlchemyApiKey == "" {
		return ErrMissingApiKey
	}

	if cfg.Environment == "" {
		cfg.Environment = defaultEnvironment
	}

	err = applyEnvironment(cfg)
	if err != nil {
		return err
	}

	if cfg.Prober.Timeout == 0 {
		cfg.Prober.Timeout = defaultProberTimeout
	}
	if cfg.Prober.StatusPath == "" {
		cfg.Prober.StatusPath = defaultStatusPath
	}

	log.WithFields(log.Fields{
		"environment":   cfg.Environment,
		"baseChainId":   cfg.Base.ChainId,
		"baseRegistry":  cfg.Base.Registry,
		"riverChainId":  cfg.River.ChainId,
		"riverRegistry": cfg.River.Registry,
	}).Infof("did init config")

	return nil
}

// applyEnvironment fills the chain settings from the embedded environment table.
// Values already present (from file or env) take precedence.
func applyEnvironment(cfg *types.Config) error {
	environments := map[string]types.EnvironmentConfig{}
	err := yaml.Unmarshal([]byte(config.EnvironmentsYml), &environments)
	if err != nil {
		return fmt.Errorf("error decoding embedded environments: %v", err)
	}

	envCfg, found := environments[cfg.Environment]
	if !found {
		return fmt.Errorf("unknown environment: %v", cfg.Environment)
	}

	mergeChainConfig(&cfg.Base, &envCfg.Base)
	mergeChainConfig(&cfg.River, &envCfg.River)

	if cfg.Base.RpcUrl == "" {
		cfg.Base.RpcUrl = GetAlchemyBaseUrl(cfg.Base.ChainId, cfg.AlchemyApiKey)
	}

	if !common.IsHexAddress(cfg.Base.Registry) {
		return fmt.Errorf("missing or invalid base registry address for environment %v: %q", cfg.Environment, cfg.Base.Registry)
	}
	if !common.IsHexAddress(cfg.River.Registry) {
		return fmt.Errorf("missing or invalid river registry address for environment %v: %q", cfg.Environment, cfg.River.Registry)
	}
	if cfg.River.RpcUrl == "" {
		return fmt.Errorf("missing river rpc url for environment %v", cfg.Environment)
	}

	return nil
}

func mergeChainConfig(dst *types.ChainConfig, src *types.ChainConfig) {
	if dst.ChainId == 0 {
		dst.ChainId = src.ChainId
	}
	if dst.RpcUrl == "" {
		dst.RpcUrl = src.RpcUrl
	}
	if dst.Registry == "" {
		dst.Registry = src.Registry
	}
	if dst.ChainName == "" {
		dst.ChainName = src.ChainName
	}
	if dst.Headers == nil {
		dst.Headers = src.Headers
	}
}

// GetAlchemyBaseUrl returns the alchemy endpoint for the base chain with the given id.
func GetAlchemyBaseUrl(chainId uint64, apiKey string) string {
	if chainId == baseMainnetChainId {
		return fmt.Sprintf("https://base-mainnet.g.alchemy.com/v2/%v", apiKey)
	}
	return fmt.Sprintf("https://base-sepolia.g.alchemy.com/v2/%v", apiKey)
}

func readConfigFile(cfg *types.Config, path string) error {
	if path == "" {
		return yaml.Unmarshal([]byte(config.DefaultConfigYml), cfg)
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("error opening config file %v: %v", path, err)
	}
	defer f.Close()

	decoder := yaml.NewDecoder(f)
	err = decoder.Decode(cfg)
	if err != nil {
		return fmt.Errorf("error decoding config file %v: %v", path, err)
	}

	return nil
}

func readConfigEnv(cfg *types.Config) error {
	return envconfig.Process("", cfg)
}
