package river

import (
	"context"

	"github.com/texuf/towns-utils/types"
)

// NodeSource fetches the node health snapshot, either from a fixed list of
// node urls or from the operational nodes of the river registry.
type NodeSource struct {
	prober   *Prober
	registry NodeLister
	nodeUrls []string
}

func NewNodeSource(prober *Prober, registry NodeLister, nodeUrls []string) *NodeSource {
	return &NodeSource{
		prober:   prober,
		registry: registry,
		nodeUrls: nodeUrls,
	}
}

func (s *NodeSource) Candidates(ctx context.Context) ([]string, error) {
	if len(s.nodeUrls) > 0 {
		return s.nodeUrls, nil
	}
	return DiscoverCandidates(ctx, s.registry)
}

func (s *NodeSource) FetchNodes(ctx context.Context) ([]*types.NodeRecord, error) {
	candidates, err := s.Candidates(ctx)
	if err != nil {
		return nil, err
	}
	return s.prober.Probe(ctx, candidates)
}
