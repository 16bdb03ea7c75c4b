package river

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/go-resty/resty/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/sirupsen/logrus"

	"github.com/texuf/towns-utils/contracts"
	"github.com/texuf/towns-utils/types"
	"github.com/texuf/towns-utils/utils"
)

// DefaultProbeTimeout is the per-attempt timeout of a health probe.
const DefaultProbeTimeout = 3500 * time.Millisecond

// ErrNoReachableNode is returned when none of the candidate nodes answered the health probe.
var ErrNoReachableNode = errors.New("no reachable river node")

var probeAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "towns_river_probe_attempts_total",
	Help: "Number of node health probe attempts by result.",
}, []string{"result"})

// NodeLister returns the registered river nodes.
type NodeLister interface {
	GetOperationalNodes(ctx context.Context) ([]contracts.RegistryNode, error)
}

// Prober fetches the network health snapshot from the first candidate node that answers.
type Prober struct {
	client     *resty.Client
	logger     logrus.FieldLogger
	timeout    time.Duration
	statusPath string
}

func NewProber(cfg *types.ProberConfig, logger logrus.FieldLogger) *Prober {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultProbeTimeout
	}
	statusPath := cfg.StatusPath
	if statusPath == "" {
		statusPath = "/debug/multi/json"
	}

	client := resty.New()
	client.SetHeader("Accept", "application/json")

	return &Prober{
		client:     client,
		logger:     logger.WithField("module", "prober"),
		timeout:    timeout,
		statusPath: statusPath,
	}
}

// Probe tries the candidates in the given order and returns the node records
// of the first successful response.
func (p *Prober) Probe(ctx context.Context, candidates []string) ([]*types.NodeRecord, error) {
	var lastErr error
	attempts := 0

	for _, nodeUrl := range candidates {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		attempts++
		status, err := p.probeNode(ctx, nodeUrl)
		if err != nil {
			probeAttempts.WithLabelValues("failure").Inc()
			p.logger.WithError(err).Warnf("failed to fetch node status from %v", nodeUrl)
			lastErr = err
			continue
		}

		probeAttempts.WithLabelValues("success").Inc()
		p.logger.Debugf("fetched node status from %v (%v nodes)", nodeUrl, len(status.Nodes))
		return p.filterRecords(status.Nodes), nil
	}

	if lastErr == nil {
		return nil, fmt.Errorf("%w: no candidates", ErrNoReachableNode)
	}
	return nil, fmt.Errorf("%w after %v attempts: %v", ErrNoReachableNode, attempts, lastErr)
}

func (p *Prober) probeNode(ctx context.Context, nodeUrl string) (*types.MultiStatus, error) {
	reqCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	resp, err := p.client.R().SetContext(reqCtx).Get(utils.JoinUrlPath(nodeUrl, p.statusPath))
	if err != nil {
		return nil, err
	}
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("unexpected status code %v", resp.StatusCode())
	}

	status := &types.MultiStatus{}
	if err := json.Unmarshal(resp.Body(), status); err != nil {
		return nil, fmt.Errorf("could not parse node status: %w", err)
	}
	return status, nil
}

func (p *Prober) filterRecords(records []*types.NodeRecord) []*types.NodeRecord {
	valid := make([]*types.NodeRecord, 0, len(records))
	for _, record := range records {
		if record == nil {
			continue
		}
		if !common.IsHexAddress(record.Record.Operator) || record.Record.Url == "" {
			p.logger.Warnf("dropping invalid node record (operator: %q, url: %q)", record.Record.Operator, record.Record.Url)
			continue
		}
		valid = append(valid, record)
	}
	return valid
}

// DiscoverCandidates returns the urls of all operational registry nodes in random order.
func DiscoverCandidates(ctx context.Context, registry NodeLister) ([]string, error) {
	nodes, err := registry.GetOperationalNodes(ctx)
	if err != nil {
		return nil, err
	}

	urls := make([]string, 0, len(nodes))
	for _, node := range nodes {
		if node.Url != "" {
			urls = append(urls, node.Url)
		}
	}
	rand.Shuffle(len(urls), func(i, j int) {
		urls[i], urls[j] = urls[j], urls[i]
	})
	return urls, nil
}
