package operators

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/texuf/towns-utils/types"
)

func TestGroupByOperatorKeepsObservedAddress(t *testing.T) {
	lower := "0xabcdef0000000000000000000000000000000001"
	upper := "0xABCDEF0000000000000000000000000000000001"
	other := "0x2222222222222222222222222222222222222222"

	groups := GroupByOperator([]*types.NodeRecord{
		{Record: types.RegistryRecord{Operator: lower, Url: "https://a1.lgns.net"}},
		nil,
		{Record: types.RegistryRecord{Operator: other, Url: "https://b.lgns.net"}},
		{Record: types.RegistryRecord{Operator: upper, Url: "https://a2.lgns.net"}},
	})

	require.Len(t, groups, 2)
	assert.Equal(t, lower, groups[0].Operator)
	assert.Len(t, groups[0].Nodes, 2)
	assert.Equal(t, other, groups[1].Operator)
	assert.Len(t, groups[1].Nodes, 1)
}
