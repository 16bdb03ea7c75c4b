package operators

import (
	"context"
	"fmt"
	"math/big"
	"sort"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/texuf/towns-utils/contracts"
	"github.com/texuf/towns-utils/types"
)

// Ledger provides the on-chain staking reads of the aggregation.
type Ledger interface {
	StakingState(ctx context.Context) (*contracts.StakingState, error)
	OperatorStatus(ctx context.Context, operator common.Address) (uint8, error)
	CommissionRate(ctx context.Context, operator common.Address) (*big.Int, error)
}

// NodeSource provides the current health snapshot of all river nodes.
type NodeSource interface {
	FetchNodes(ctx context.Context) ([]*types.NodeRecord, error)
}

// UptimeSampler returns the uptime of a single node as a fraction in [0, 1].
type UptimeSampler interface {
	SampleUptime(ctx context.Context, node *types.NodeRecord) (float64, error)
}

// ConstantUptime reports the same uptime for every node.
type ConstantUptime float64

func (u ConstantUptime) SampleUptime(ctx context.Context, node *types.NodeRecord) (float64, error) {
	return float64(u), nil
}

type Aggregator struct {
	ledger Ledger
	nodes  NodeSource
	uptime UptimeSampler
	logger logrus.FieldLogger
}

func NewAggregator(ledger Ledger, nodes NodeSource, uptime UptimeSampler, logger logrus.FieldLogger) *Aggregator {
	if uptime == nil {
		uptime = ConstantUptime(1)
	}
	return &Aggregator{
		ledger: ledger,
		nodes:  nodes,
		uptime: uptime,
		logger: logger.WithField("module", "operators"),
	}
}

// aggregationRun holds the memoized reads of a single aggregation.
type aggregationRun struct {
	apy         *runCache[string, float64]
	nodes       *runCache[string, []*types.NodeRecord]
	status      *runCache[common.Address, uint8]
	commissions *runCache[common.Address, *big.Int]
}

func newAggregationRun() *aggregationRun {
	return &aggregationRun{
		apy:         newRunCache[string](cloneValue[float64]),
		nodes:       newRunCache[string](cloneNodeRecords),
		status:      newRunCache[common.Address](cloneValue[uint8]),
		commissions: newRunCache[common.Address](cloneBigInt),
	}
}

// NetworkApy reads the staking state and returns the estimated network APY.
func (a *Aggregator) NetworkApy(ctx context.Context) (float64, error) {
	return a.networkApy(ctx, newAggregationRun())
}

func (a *Aggregator) networkApy(ctx context.Context, run *aggregationRun) (float64, error) {
	return run.apy.getOrLoad("network", func() (float64, error) {
		state, err := a.ledger.StakingState(ctx)
		if err != nil {
			return 0, err
		}
		return EstimatedApyOfNetwork(state.RewardRate, state.TotalStaked), nil
	})
}

// Run builds the report of all active operators. Any failed read aborts the run.
func (a *Aggregator) Run(ctx context.Context) (*types.OperatorsReport, error) {
	run := newAggregationRun()

	networkApy, err := a.networkApy(ctx, run)
	if err != nil {
		return nil, err
	}

	records, err := run.nodes.getOrLoad("nodes", func() ([]*types.NodeRecord, error) {
		return a.nodes.FetchNodes(ctx)
	})
	if err != nil {
		return nil, err
	}

	operators, err := a.buildOperators(ctx, run, records, networkApy)
	if err != nil {
		return nil, err
	}

	return &types.OperatorsReport{
		Operators:           operators,
		NetworkEstimatedApy: networkApy,
	}, nil
}

// BuildReport aggregates a given node snapshot, skipping the node source.
func (a *Aggregator) BuildReport(ctx context.Context, records []*types.NodeRecord) (*types.OperatorsReport, error) {
	run := newAggregationRun()

	networkApy, err := a.networkApy(ctx, run)
	if err != nil {
		return nil, err
	}

	operators, err := a.buildOperators(ctx, run, cloneNodeRecords(records), networkApy)
	if err != nil {
		return nil, err
	}

	return &types.OperatorsReport{
		Operators:           operators,
		NetworkEstimatedApy: networkApy,
	}, nil
}

func (a *Aggregator) buildOperators(ctx context.Context, run *aggregationRun, records []*types.NodeRecord, networkApy float64) ([]*types.StakableOperator, error) {
	groups := GroupByOperator(records)

	// status of all operators
	statuses := make([]uint8, len(groups))
	g, gctx := errgroup.WithContext(ctx)
	for idx, group := range groups {
		g.Go(func() error {
			status, err := run.status.getOrLoad(group.Address, func() (uint8, error) {
				return a.ledger.OperatorStatus(gctx, group.Address)
			})
			if err != nil {
				return err
			}
			statuses[idx] = status
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	active := make([]*OperatorGroup, 0, len(groups))
	for idx, group := range groups {
		if statuses[idx] == types.OperatorStatusActive {
			active = append(active, group)
		} else {
			a.logger.Debugf("skipping operator %v with status %v", group.Address.Hex(), statuses[idx])
		}
	}
	sort.Slice(active, func(i, j int) bool {
		return strings.Compare(active[i].Operator, active[j].Operator) < 0
	})

	// commission and uptime of active operators
	commissions := make([]*big.Int, len(active))
	uptimes := make([][]float64, len(active))
	g, gctx = errgroup.WithContext(ctx)
	for idx, group := range active {
		g.Go(func() error {
			rate, err := run.commissions.getOrLoad(group.Address, func() (*big.Int, error) {
				return a.ledger.CommissionRate(gctx, group.Address)
			})
			if err != nil {
				return err
			}
			commissions[idx] = rate
			return nil
		})

		uptimes[idx] = make([]float64, len(group.Nodes))
		for nodeIdx, node := range group.Nodes {
			g.Go(func() error {
				uptime, err := a.uptime.SampleUptime(gctx, node)
				if err != nil {
					return fmt.Errorf("failed to sample uptime of %v: %w", node.Record.Url, err)
				}
				uptimes[idx][nodeIdx] = uptime
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// names are assigned over the whole active set in canonical order
	baseNames := make([]string, len(active))
	for idx, group := range active {
		baseNames[idx] = BaseName(Hostname(group.Nodes[0].Record.Url))
	}
	finalNames, nameOrder := AssignNames(baseNames)
	nameRank := make(map[string]int, len(nameOrder))
	for rank, name := range nameOrder {
		nameRank[name] = rank
	}

	operators := make([]*types.StakableOperator, len(active))
	for idx, group := range active {
		operators[idx] = a.buildOperator(group, baseNames[idx], finalNames[idx], commissions[idx], uptimes[idx], networkApy)
	}

	sort.SliceStable(operators, func(i, j int) bool {
		return nameRank[operators[i].BaseName] < nameRank[operators[j].BaseName]
	})

	return operators, nil
}

func (a *Aggregator) buildOperator(group *OperatorGroup, baseName string, name string, commission *big.Int, uptimes []float64, networkApy float64) *types.StakableOperator {
	http20Elapsed := make([]string, len(group.Nodes))
	grpcElapsed := make([]string, len(group.Nodes))
	for i, node := range group.Nodes {
		http20Elapsed[i] = node.Http20.Elapsed
		grpcElapsed[i] = node.Grpc.Elapsed
	}

	return &types.StakableOperator{
		Name:                 name,
		BaseName:             baseName,
		Image:                OperatorImage(baseName),
		Nodes:                group.Nodes,
		CommissionPercentage: CommissionPercentage(commission),
		EstimatedApr:         OperatorApr(commission, networkApy),
		Address:              group.Operator,
		IsActive:             true,
		Metrics: types.OperatorMetrics{
			Http20:           medianLatency(http20Elapsed),
			Grpc:             medianLatency(grpcElapsed),
			GrpcStartTime:    group.Nodes[0].Grpc.StartTime,
			UptimePercentage: Average(uptimes),
		},
	}
}
