package operators

import (
	"context"
	"encoding/json"
	"errors"
	"math/big"
	"sync"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/texuf/towns-utils/contracts"
	"github.com/texuf/towns-utils/types"
)

type fakeLedger struct {
	mutex       sync.Mutex
	rewardRate  *big.Int
	totalStaked *big.Int
	statuses    map[common.Address]uint8
	commissions map[common.Address]int64
	failRead    string

	statusReads     map[common.Address]int
	commissionReads map[common.Address]int
}

func newFakeLedger(apyBps int64) *fakeLedger {
	return &fakeLedger{
		rewardRate:      rewardRateForApy(apyBps),
		totalStaked:     big.NewInt(10000),
		statuses:        map[common.Address]uint8{},
		commissions:     map[common.Address]int64{},
		statusReads:     map[common.Address]int{},
		commissionReads: map[common.Address]int{},
	}
}

func (l *fakeLedger) StakingState(ctx context.Context) (*contracts.StakingState, error) {
	if l.failRead == contracts.ReadStakingState {
		return nil, &contracts.LedgerReadError{Read: contracts.ReadStakingState, Err: errors.New("reverted")}
	}
	return &contracts.StakingState{
		RewardRate:  new(big.Int).Set(l.rewardRate),
		TotalStaked: new(big.Int).Set(l.totalStaked),
	}, nil
}

func (l *fakeLedger) OperatorStatus(ctx context.Context, operator common.Address) (uint8, error) {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	l.statusReads[operator]++
	if l.failRead == contracts.ReadOperatorStatus {
		return 0, &contracts.LedgerReadError{Read: contracts.ReadOperatorStatus, Err: errors.New("reverted")}
	}
	return l.statuses[operator], nil
}

func (l *fakeLedger) CommissionRate(ctx context.Context, operator common.Address) (*big.Int, error) {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	l.commissionReads[operator]++
	if l.failRead == contracts.ReadCommissionRate {
		return nil, &contracts.LedgerReadError{Read: contracts.ReadCommissionRate, Err: errors.New("reverted")}
	}
	return big.NewInt(l.commissions[operator]), nil
}

type staticNodes struct {
	records []*types.NodeRecord
	err     error
	calls   int
}

func (s *staticNodes) FetchNodes(ctx context.Context) ([]*types.NodeRecord, error) {
	s.calls++
	return s.records, s.err
}

func node(operator common.Address, url string, http20 string, grpc string) *types.NodeRecord {
	return &types.NodeRecord{
		Record: types.RegistryRecord{
			Address:  common.BigToAddress(big.NewInt(int64(len(url)))).Hex(),
			Url:      url,
			Operator: operator.Hex(),
			Status:   2,
		},
		Http20: types.HttpProbe{Success: true, Elapsed: http20},
		Grpc:   types.GrpcProbe{Success: true, Elapsed: grpc, StartTime: "start-" + url},
	}
}

func nodeOf(operator string, url string) *types.NodeRecord {
	record := node(common.HexToAddress(operator), url, "1ms", "1ms")
	record.Record.Operator = operator
	return record
}

var (
	addrA = common.HexToAddress("0x1111111111111111111111111111111111111111")
	addrB = common.HexToAddress("0x2222222222222222222222222222222222222222")
	addrC = common.HexToAddress("0x3333333333333333333333333333333333333333")
	addrD = common.HexToAddress("0x4444444444444444444444444444444444444444")
)

func newTestAggregator(ledger Ledger, nodes NodeSource) *Aggregator {
	logger, _ := test.NewNullLogger()
	return NewAggregator(ledger, nodes, nil, logger)
}

func TestRunEndToEnd(t *testing.T) {
	ledger := newFakeLedger(2000)
	ledger.statuses[addrA] = types.OperatorStatusActive
	ledger.statuses[addrB] = types.OperatorStatusActive
	ledger.commissions[addrA] = 500
	ledger.commissions[addrB] = 2000

	nodes := &staticNodes{records: []*types.NodeRecord{
		node(addrA, "https://node1.lgns.net", "100ms", "10ms"),
		node(addrB, "https://river.custom.host", "50ms", "5ms"),
		node(addrA, "https://node2.lgns.net", "200ms", "20ms"),
	}}

	report, err := newTestAggregator(ledger, nodes).Run(context.Background())
	require.NoError(t, err)

	assert.InDelta(t, 0.2, report.NetworkEstimatedApy, 1e-12)
	require.Len(t, report.Operators, 2)

	luganode := report.Operators[0]
	assert.Equal(t, "Luganode", luganode.Name)
	assert.Equal(t, "Luganode", luganode.BaseName)
	assert.Equal(t, "/assets/operator-luganode.png", luganode.Image)
	assert.InDelta(t, 0.19, luganode.EstimatedApr, 1e-12)
	assert.Equal(t, 5.0, luganode.CommissionPercentage)
	assert.Equal(t, addrA.Hex(), luganode.Address)
	assert.True(t, luganode.IsActive)
	assert.Len(t, luganode.Nodes, 2)
	assert.Equal(t, int64(150), luganode.Metrics.Http20)
	assert.Equal(t, int64(15), luganode.Metrics.Grpc)
	assert.Equal(t, "start-https://node1.lgns.net", luganode.Metrics.GrpcStartTime)
	assert.Equal(t, 1.0, luganode.Metrics.UptimePercentage)

	custom := report.Operators[1]
	assert.Equal(t, "river.custom.host", custom.Name)
	assert.Equal(t, DefaultOperatorImage, custom.Image)
	assert.InDelta(t, 0.16, custom.EstimatedApr, 1e-12)
	assert.Equal(t, int64(50), custom.Metrics.Http20)

	assert.Equal(t, 1, ledger.statusReads[addrA])
	assert.Equal(t, 1, ledger.commissionReads[addrA])
}

func TestRunFiltersInactiveOperators(t *testing.T) {
	ledger := newFakeLedger(1000)
	ledger.statuses[addrA] = 2
	ledger.statuses[addrB] = types.OperatorStatusActive
	ledger.statuses[addrC] = 4

	nodes := &staticNodes{records: []*types.NodeRecord{
		node(addrA, "https://a1.lgns.net", "1ms", "1ms"),
		node(addrA, "https://a2.lgns.net", "1ms", "1ms"),
		node(addrA, "https://a3.lgns.net", "1ms", "1ms"),
		node(addrB, "https://b.figment.io", "1ms", "1ms"),
		node(addrC, "https://c.axol.io", "1ms", "1ms"),
	}}

	report, err := newTestAggregator(ledger, nodes).Run(context.Background())
	require.NoError(t, err)
	require.Len(t, report.Operators, 1)
	assert.Equal(t, "Figment", report.Operators[0].Name)

	// inactive operators never get their commission read
	assert.Equal(t, 0, ledger.commissionReads[addrA])
	assert.Equal(t, 0, ledger.commissionReads[addrC])
	assert.Equal(t, 1, ledger.statusReads[addrC])
}

func TestRunNameDisambiguation(t *testing.T) {
	ledger := newFakeLedger(1000)
	for _, addr := range []common.Address{addrA, addrB, addrC, addrD} {
		ledger.statuses[addr] = types.OperatorStatusActive
	}

	// probe order differs from canonical address order
	nodes := &staticNodes{records: []*types.NodeRecord{
		node(addrD, "https://x.foo.com", "1ms", "1ms"),
		node(addrC, "https://bar.com", "1ms", "1ms"),
		node(addrB, "https://foo.com", "1ms", "1ms"),
		node(addrA, "https://node.towns.com", "1ms", "1ms"),
	}}

	report, err := newTestAggregator(ledger, nodes).Run(context.Background())
	require.NoError(t, err)
	require.Len(t, report.Operators, 4)

	names := map[string]string{}
	for _, operator := range report.Operators {
		names[operator.Address] = operator.Name
	}
	assert.Equal(t, "Towns", names[addrA.Hex()])
	assert.Equal(t, "foo.com", names[addrB.Hex()])
	assert.Equal(t, "bar.com", names[addrC.Hex()])
	assert.Equal(t, "x.foo.com", names[addrD.Hex()])

	// identical hostnames are numbered in canonical address order
	nodes.records = []*types.NodeRecord{
		node(addrD, "https://foo.com", "1ms", "1ms"),
		node(addrC, "https://bar.com", "1ms", "1ms"),
		node(addrB, "https://foo.com", "1ms", "1ms"),
	}
	report, err = newTestAggregator(ledger, nodes).Run(context.Background())
	require.NoError(t, err)
	require.Len(t, report.Operators, 3)

	assert.Equal(t, "foo.com 1", report.Operators[0].Name)
	assert.Equal(t, addrB.Hex(), report.Operators[0].Address)
	assert.Equal(t, "foo.com 2", report.Operators[1].Name)
	assert.Equal(t, addrD.Hex(), report.Operators[1].Address)
	assert.Equal(t, "bar.com", report.Operators[2].Name)

	// lowercase addresses keep plain string order and are reported as observed
	lowerA := "0xa000000000000000000000000000000000000000"
	lowerB := "0xa000000000000000000000000000000000000001"
	ledger.statuses[common.HexToAddress(lowerA)] = types.OperatorStatusActive
	ledger.statuses[common.HexToAddress(lowerB)] = types.OperatorStatusActive
	nodes.records = []*types.NodeRecord{
		nodeOf(lowerB, "https://foo.com"),
		nodeOf(lowerA, "https://foo.com"),
	}
	report, err = newTestAggregator(ledger, nodes).Run(context.Background())
	require.NoError(t, err)
	require.Len(t, report.Operators, 2)

	assert.Equal(t, "foo.com 1", report.Operators[0].Name)
	assert.Equal(t, lowerA, report.Operators[0].Address)
	assert.Equal(t, "foo.com 2", report.Operators[1].Name)
	assert.Equal(t, lowerB, report.Operators[1].Address)
}

func TestRunOrderIsStable(t *testing.T) {
	ledger := newFakeLedger(1500)
	for _, addr := range []common.Address{addrA, addrB, addrC, addrD} {
		ledger.statuses[addr] = types.OperatorStatusActive
		ledger.commissions[addr] = 1000
	}
	nodes := &staticNodes{records: []*types.NodeRecord{
		node(addrC, "https://c.unit410.com", "3ms", "3ms"),
		node(addrA, "https://a.towns-u4.com", "1ms", "1ms"),
		node(addrD, "https://d.nansen.ai", "4ms", "4ms"),
		node(addrB, "https://b.lgns.net", "2ms", "2ms"),
	}}

	aggregator := newTestAggregator(ledger, nodes)
	first, err := aggregator.Run(context.Background())
	require.NoError(t, err)
	firstJson, err := json.Marshal(first)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		report, err := aggregator.Run(context.Background())
		require.NoError(t, err)
		reportJson, err := json.Marshal(report)
		require.NoError(t, err)
		assert.Equal(t, string(firstJson), string(reportJson))
	}

	require.Len(t, first.Operators, 4)
	assert.Equal(t, "Unit410 1", first.Operators[0].Name)
	assert.Equal(t, addrA.Hex(), first.Operators[0].Address)
	assert.Equal(t, "Unit410 2", first.Operators[1].Name)
	assert.Equal(t, addrC.Hex(), first.Operators[1].Address)
	assert.Equal(t, "Luganode", first.Operators[2].Name)
	assert.Equal(t, "Nansen", first.Operators[3].Name)
}

func TestRunLedgerFailures(t *testing.T) {
	for _, read := range []string{contracts.ReadStakingState, contracts.ReadOperatorStatus, contracts.ReadCommissionRate} {
		t.Run(read, func(t *testing.T) {
			ledger := newFakeLedger(1000)
			ledger.statuses[addrA] = types.OperatorStatusActive
			ledger.failRead = read
			nodes := &staticNodes{records: []*types.NodeRecord{
				node(addrA, "https://a.lgns.net", "1ms", "1ms"),
			}}

			report, err := newTestAggregator(ledger, nodes).Run(context.Background())
			require.Error(t, err)
			assert.Nil(t, report)

			var readErr *contracts.LedgerReadError
			require.True(t, errors.As(err, &readErr))
			assert.Equal(t, read, readErr.Read)
		})
	}
}

func TestRunNodeSourceFailure(t *testing.T) {
	failure := errors.New("no reachable river node")
	nodes := &staticNodes{err: failure}

	_, err := newTestAggregator(newFakeLedger(1000), nodes).Run(context.Background())
	assert.True(t, errors.Is(err, failure))
}

type failingUptime struct{}

func (failingUptime) SampleUptime(ctx context.Context, node *types.NodeRecord) (float64, error) {
	return 0, errors.New("no samples")
}

type mapUptime map[string]float64

func (m mapUptime) SampleUptime(ctx context.Context, node *types.NodeRecord) (float64, error) {
	return m[node.Record.Url], nil
}

func TestRunUptimeSampler(t *testing.T) {
	logger, _ := test.NewNullLogger()
	ledger := newFakeLedger(1000)
	ledger.statuses[addrA] = types.OperatorStatusActive
	nodes := &staticNodes{records: []*types.NodeRecord{
		node(addrA, "https://a1.lgns.net", "1ms", "1ms"),
		node(addrA, "https://a2.lgns.net", "1ms", "1ms"),
	}}

	sampler := mapUptime{"https://a1.lgns.net": 1, "https://a2.lgns.net": 0.5}
	report, err := NewAggregator(ledger, nodes, sampler, logger).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0.75, report.Operators[0].Metrics.UptimePercentage)

	_, err = NewAggregator(ledger, nodes, failingUptime{}, logger).Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to sample uptime")
}

func TestBuildReportDoesNotShareInput(t *testing.T) {
	ledger := newFakeLedger(1000)
	ledger.statuses[addrA] = types.OperatorStatusActive
	records := []*types.NodeRecord{node(addrA, "https://a.lgns.net", "1ms", "1ms")}

	report, err := newTestAggregator(ledger, &staticNodes{}).BuildReport(context.Background(), records)
	require.NoError(t, err)
	require.Len(t, report.Operators, 1)

	report.Operators[0].Nodes[0].Record.Url = "changed"
	assert.Equal(t, "https://a.lgns.net", records[0].Record.Url)
}

func TestNetworkApy(t *testing.T) {
	apy, err := newTestAggregator(newFakeLedger(1234), &staticNodes{}).NetworkApy(context.Background())
	require.NoError(t, err)
	assert.InDelta(t, 0.1234, apy, 1e-12)
}
