package operators

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/texuf/towns-utils/types"
)

// OperatorGroup holds the nodes of one operator in probe order.
// Operator is the address string of the first node seen for the operator.
type OperatorGroup struct {
	Address  common.Address
	Operator string
	Nodes    []*types.NodeRecord
}

// GroupByOperator partitions node records by operator address.
// Groups are returned in order of the first node seen for each operator.
func GroupByOperator(records []*types.NodeRecord) []*OperatorGroup {
	groups := []*OperatorGroup{}
	groupMap := map[common.Address]*OperatorGroup{}

	for _, record := range records {
		if record == nil {
			continue
		}
		address := common.HexToAddress(record.Record.Operator)
		group := groupMap[address]
		if group == nil {
			group = &OperatorGroup{Address: address, Operator: record.Record.Operator}
			groupMap[address] = group
			groups = append(groups, group)
		}
		group.Nodes = append(group.Nodes, record)
	}

	return groups
}
