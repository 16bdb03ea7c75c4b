package contracts

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/sirupsen/logrus"
)

// NodeStatusOperational is the registry status of nodes that serve traffic.
const NodeStatusOperational = 2

// RegistryNode is a node entry of the river registry.
type RegistryNode struct {
	Status      uint8
	Url         string
	NodeAddress common.Address
	Operator    common.Address
}

type RiverRegistry struct {
	contract *boundContract
	logger   logrus.FieldLogger
}

func NewRiverRegistry(caller ethereum.ContractCaller, address common.Address, logger logrus.FieldLogger) (*RiverRegistry, error) {
	contract, err := newBoundContract(caller, address, riverRegistryAbiJson)
	if err != nil {
		return nil, err
	}

	return &RiverRegistry{
		contract: contract,
		logger:   logger.WithField("contract", "river_registry"),
	}, nil
}

// GetAllNodes returns every node known to the registry, regardless of status.
func (r *RiverRegistry) GetAllNodes(ctx context.Context) ([]RegistryNode, error) {
	out, err := r.contract.call(ctx, "getAllNodes")
	if err != nil {
		r.logger.WithError(err).Error("error fetching river nodes")
		return nil, fmt.Errorf("%w: %v", ErrRiverNodes, err)
	}

	nodes := *abi.ConvertType(out[0], new([]RegistryNode)).(*[]RegistryNode)
	return nodes, nil
}

// GetOperationalNodes returns the registry nodes with operational status.
func (r *RiverRegistry) GetOperationalNodes(ctx context.Context) ([]RegistryNode, error) {
	nodes, err := r.GetAllNodes(ctx)
	if err != nil {
		return nil, err
	}

	operational := make([]RegistryNode, 0, len(nodes))
	for _, node := range nodes {
		if node.Status == NodeStatusOperational {
			operational = append(operational, node)
		}
	}

	return operational, nil
}
