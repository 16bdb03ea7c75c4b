package services

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/sirupsen/logrus"

	"github.com/texuf/towns-utils/cache"
	"github.com/texuf/towns-utils/clients/chain"
	"github.com/texuf/towns-utils/clients/river"
	"github.com/texuf/towns-utils/contracts"
	"github.com/texuf/towns-utils/operators"
	"github.com/texuf/towns-utils/types"
)

var (
	ledgerReads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "towns_ledger_reads_total",
		Help: "Number of contract reads by read and result.",
	}, []string{"read", "result"})
	aggregationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "towns_operator_aggregation_duration_seconds",
		Help:    "Duration of operator report aggregations by result.",
		Buckets: prometheus.ExponentialBuckets(0.25, 2, 8),
	}, []string{"result"})
)

const (
	reportCacheKey     = "operators_report"
	networkApyCacheKey = "network_apy"
)

// OperatorService wires the chain clients, registries and prober into the operator aggregation.
type OperatorService struct {
	environment string
	logger      logrus.FieldLogger

	baseClient    *chain.Client
	riverClient   *chain.Client
	riverRegistry *contracts.RiverRegistry
	prober        *river.Prober
	nodeSource    *river.NodeSource
	aggregator    *operators.Aggregator

	reportCache *cache.TieredCache
	cacheTtl    time.Duration
}

// NewOperatorService connects to both chains and binds the registry contracts.
// nodeUrls overrides the registry based probe candidates when set.
func NewOperatorService(ctx context.Context, cfg *types.Config, logger logrus.FieldLogger, nodeUrls []string) (*OperatorService, error) {
	baseClient := chain.NewClient("base", &cfg.Base, logger)
	if err := baseClient.Initialize(ctx); err != nil {
		return nil, err
	}
	riverClient := chain.NewClient("river", &cfg.River, logger)
	if err := riverClient.Initialize(ctx); err != nil {
		baseClient.Close()
		return nil, err
	}

	return newOperatorService(cfg, logger, nodeUrls, baseClient, riverClient)
}

// newOperatorService takes ownership of both connected clients and closes them on failure.
func newOperatorService(cfg *types.Config, logger logrus.FieldLogger, nodeUrls []string, baseClient *chain.Client, riverClient *chain.Client) (*OperatorService, error) {
	closeClients := func() {
		baseClient.Close()
		riverClient.Close()
	}

	baseRegistry, err := contracts.NewBaseRegistry(baseClient.Caller(), common.HexToAddress(cfg.Base.Registry), logger)
	if err != nil {
		closeClients()
		return nil, fmt.Errorf("could not bind base registry: %w", err)
	}
	riverRegistry, err := contracts.NewRiverRegistry(riverClient.Caller(), common.HexToAddress(cfg.River.Registry), logger)
	if err != nil {
		closeClients()
		return nil, fmt.Errorf("could not bind river registry: %w", err)
	}

	if len(nodeUrls) == 0 {
		nodeUrls = cfg.Prober.NodeUrls
	}
	prober := river.NewProber(&cfg.Prober, logger)
	nodeSource := river.NewNodeSource(prober, riverRegistry, nodeUrls)

	service := &OperatorService{
		environment:   cfg.Environment,
		logger:        logger.WithField("service", "operators"),
		baseClient:    baseClient,
		riverClient:   riverClient,
		riverRegistry: riverRegistry,
		prober:        prober,
		nodeSource:    nodeSource,
		aggregator:    operators.NewAggregator(&instrumentedLedger{ledger: baseRegistry}, nodeSource, nil, logger),
	}

	service.logger.WithFields(logrus.Fields{
		"base":  baseClient.GetEndpoint(),
		"river": riverClient.GetEndpoint(),
	}).Debugf("initialized operator service for %v", cfg.Environment)

	return service, nil
}

// EnableReportCache caches reports and network apy values for ttl.
func (s *OperatorService) EnableReportCache(reportCache *cache.TieredCache, ttl time.Duration) {
	s.reportCache = reportCache
	s.cacheTtl = ttl
}

// VerifyChains checks that both rpc endpoints serve the configured chains.
func (s *OperatorService) VerifyChains(ctx context.Context) error {
	for _, client := range []*chain.Client{s.baseClient, s.riverClient} {
		if _, err := client.VerifyChainId(ctx); err != nil {
			return err
		}
	}
	return nil
}

func (s *OperatorService) Environment() string {
	return s.environment
}

// GetOperatorsReport runs a full aggregation, bypassing the report cache.
func (s *OperatorService) GetOperatorsReport(ctx context.Context) (*types.OperatorsReport, error) {
	start := time.Now()
	report, err := s.aggregator.Run(ctx)
	elapsed := time.Since(start)

	if err != nil {
		aggregationDuration.WithLabelValues("failure").Observe(elapsed.Seconds())
		s.logger.WithError(err).Errorf("operator aggregation failed after %v", elapsed)
		return nil, err
	}

	aggregationDuration.WithLabelValues("success").Observe(elapsed.Seconds())
	s.logger.Infof("aggregated %v active operators in %v", len(report.Operators), elapsed)
	return report, nil
}

// GetCachedOperatorsReport returns the cached report or aggregates a new one.
func (s *OperatorService) GetCachedOperatorsReport(ctx context.Context) (*types.OperatorsReport, error) {
	if s.reportCache == nil {
		return s.GetOperatorsReport(ctx)
	}

	key := s.environment + ":" + reportCacheKey
	report := &types.OperatorsReport{}
	err := s.reportCache.Get(ctx, key, report)
	if err == nil {
		return report, nil
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		s.logger.WithError(err).Warn("failed reading report from cache")
	}

	report, err = s.GetOperatorsReport(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.reportCache.Set(ctx, key, report, s.cacheTtl); err != nil {
		s.logger.WithError(err).Warn("failed storing report in cache")
	}
	return report, nil
}

func (s *OperatorService) GetNetworkApy(ctx context.Context) (float64, error) {
	if s.reportCache == nil {
		return s.aggregator.NetworkApy(ctx)
	}

	key := s.environment + ":" + networkApyCacheKey
	var apy float64
	err := s.reportCache.Get(ctx, key, &apy)
	if err == nil {
		return apy, nil
	}

	apy, err = s.aggregator.NetworkApy(ctx)
	if err != nil {
		return 0, err
	}
	if err := s.reportCache.Set(ctx, key, apy, s.cacheTtl); err != nil {
		s.logger.WithError(err).Warn("failed storing network apy in cache")
	}
	return apy, nil
}

// GetRegistryNodes returns all nodes of the river registry.
func (s *OperatorService) GetRegistryNodes(ctx context.Context) ([]contracts.RegistryNode, error) {
	return s.riverRegistry.GetAllNodes(ctx)
}

// ProbeNodes fetches the current health snapshot of all nodes.
func (s *OperatorService) ProbeNodes(ctx context.Context) ([]*types.NodeRecord, error) {
	return s.nodeSource.FetchNodes(ctx)
}

// GetSnapshotReport aggregates an already probed node snapshot without probing again.
func (s *OperatorService) GetSnapshotReport(ctx context.Context, records []*types.NodeRecord) (*types.OperatorsReport, error) {
	return s.aggregator.BuildReport(ctx, records)
}

func (s *OperatorService) Close() {
	s.baseClient.Close()
	s.riverClient.Close()
}

// instrumentedLedger counts contract reads by result.
type instrumentedLedger struct {
	ledger operators.Ledger
}

func (l *instrumentedLedger) observe(read string, err error) {
	result := "success"
	if err != nil {
		result = "failure"
	}
	ledgerReads.WithLabelValues(read, result).Inc()
}

func (l *instrumentedLedger) StakingState(ctx context.Context) (*contracts.StakingState, error) {
	state, err := l.ledger.StakingState(ctx)
	l.observe(contracts.ReadStakingState, err)
	return state, err
}

func (l *instrumentedLedger) OperatorStatus(ctx context.Context, operator common.Address) (uint8, error) {
	status, err := l.ledger.OperatorStatus(ctx, operator)
	l.observe(contracts.ReadOperatorStatus, err)
	return status, err
}

func (l *instrumentedLedger) CommissionRate(ctx context.Context, operator common.Address) (*big.Int, error) {
	rate, err := l.ledger.CommissionRate(ctx, operator)
	l.observe(contracts.ReadCommissionRate, err)
	return rate, err
}
