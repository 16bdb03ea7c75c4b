package main

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/texuf/towns-utils/contracts"
	"github.com/texuf/towns-utils/types"
)

func sampleReport() *types.OperatorsReport {
	return &types.OperatorsReport{
		NetworkEstimatedApy: 0.2,
		Operators: []*types.StakableOperator{
			{
				Name:                 "Luganode",
				BaseName:             "Luganode",
				Address:              "0x1111111111111111111111111111111111111111",
				CommissionPercentage: 5,
				EstimatedApr:         0.19,
				IsActive:             true,
				Nodes:                []*types.NodeRecord{{Record: types.RegistryRecord{Url: "https://node1.lgns.net"}}},
				Metrics: types.OperatorMetrics{
					Http20:           150,
					Grpc:             15,
					UptimePercentage: 1,
				},
			},
		},
	}
}

func TestWriteReportJson(t *testing.T) {
	buf := &bytes.Buffer{}
	require.NoError(t, writeReport(buf, outputJson, sampleReport()))

	decoded := map[string]interface{}{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, 0.2, decoded["networkEstimatedApy"])

	operators := decoded["operators"].([]interface{})
	require.Len(t, operators, 1)
	operator := operators[0].(map[string]interface{})
	assert.Equal(t, "Luganode", operator["name"])
	assert.Equal(t, 0.19, operator["estimatedApr"])
	assert.Equal(t, 150.0, operator["metrics"].(map[string]interface{})["http20"])
}

func TestWriteReportYaml(t *testing.T) {
	buf := &bytes.Buffer{}
	require.NoError(t, writeReport(buf, outputYaml, sampleReport()))

	decoded := &types.OperatorsReport{}
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), decoded))
	assert.Equal(t, sampleReport().Operators[0].Name, decoded.Operators[0].Name)
	assert.Equal(t, int64(15), decoded.Operators[0].Metrics.Grpc)
}

func TestWriteReportTable(t *testing.T) {
	buf := &bytes.Buffer{}
	require.NoError(t, writeReport(buf, outputTable, sampleReport()))

	output := buf.String()
	assert.Contains(t, output, "NAME")
	assert.Contains(t, output, "Luganode")
	assert.Contains(t, output, "19.00%")
	assert.Contains(t, output, "network estimated apy: 20.00%")
}

func TestWriteReportUnknownFormat(t *testing.T) {
	err := writeReport(&bytes.Buffer{}, "xml", sampleReport())
	assert.Error(t, err)
}

func TestWriteNodes(t *testing.T) {
	nodes := []contracts.RegistryNode{
		{Status: 2, Url: "https://node1.lgns.net", Operator: common.HexToAddress("0x01")},
		{Status: 9, Url: "https://gone.host", Operator: common.HexToAddress("0x02")},
	}

	buf := &bytes.Buffer{}
	require.NoError(t, writeNodes(buf, nodes, nil, nil))
	assert.Contains(t, buf.String(), "Operational")
	assert.Contains(t, buf.String(), "Unknown(9)")
	assert.NotContains(t, buf.String(), "HTTP2")

	records := map[string]*types.NodeRecord{
		"https://node1.lgns.net": {
			Http20: types.HttpProbe{Elapsed: "12ms"},
			Grpc:   types.GrpcProbe{Elapsed: "15ms", Version: "1.2.3"},
		},
	}
	buf.Reset()
	names := nodeOperatorNames(&types.OperatorsReport{Operators: []*types.StakableOperator{{
		Name:  "Luganode",
		Nodes: []*types.NodeRecord{{Record: types.RegistryRecord{Url: "https://node1.lgns.net"}}},
	}}})
	require.NoError(t, writeNodes(buf, nodes, records, names))
	assert.Contains(t, buf.String(), "12ms")
	assert.Contains(t, buf.String(), "1.2.3")
	assert.Contains(t, buf.String(), "Luganode")
	assert.Contains(t, buf.String(), "NAME")
}
