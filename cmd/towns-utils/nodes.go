package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/texuf/towns-utils/contracts"
	"github.com/texuf/towns-utils/types"
	"github.com/texuf/towns-utils/utils"
)

var nodesCmd = &cobra.Command{
	Use:   "nodes",
	Short: "List the river registry nodes",
	Long:  "List all nodes of the river registry with status, operator and url, optionally with their current probe results",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runNodes(cmd)
	},
}

var nodeStatusNames = map[uint8]string{
	0: "NotInitialized",
	1: "RemoteOnly",
	2: "Operational",
	3: "Failed",
	4: "Departing",
	5: "Deleted",
}

func init() {
	rootCmd.AddCommand(nodesCmd)

	nodesCmd.Flags().Bool("probe", false, "Include the health probe results of each node")
}

func runNodes(cmd *cobra.Command) error {
	probe, _ := cmd.Flags().GetBool("probe")

	cfg, logWriter, logger, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	defer logWriter.Dispose()

	ctx, cancel := utils.WithInterrupt(cmd.Context())
	defer cancel()

	service, err := newOperatorService(ctx, cfg, logger, nil)
	if err != nil {
		return err
	}
	defer service.Close()

	nodes, err := service.GetRegistryNodes(ctx)
	if err != nil {
		return err
	}

	var records map[string]*types.NodeRecord
	var operatorNames map[string]string
	if probe {
		probed, err := service.ProbeNodes(ctx)
		if err != nil {
			return err
		}
		records = make(map[string]*types.NodeRecord, len(probed))
		for _, record := range probed {
			records[record.Record.Url] = record
		}

		report, err := service.GetSnapshotReport(ctx, probed)
		if err != nil {
			return err
		}
		operatorNames = nodeOperatorNames(report)
	}

	return writeNodes(os.Stdout, nodes, records, operatorNames)
}

// nodeOperatorNames maps node urls to the display name of their active operator.
func nodeOperatorNames(report *types.OperatorsReport) map[string]string {
	names := map[string]string{}
	for _, operator := range report.Operators {
		for _, node := range operator.Nodes {
			names[node.Record.Url] = operator.Name
		}
	}
	return names
}

func writeNodes(w io.Writer, nodes []contracts.RegistryNode, records map[string]*types.NodeRecord, operatorNames map[string]string) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if records == nil {
		fmt.Fprintf(tw, "STATUS\tOPERATOR\tNODE\tURL\n")
	} else {
		fmt.Fprintf(tw, "STATUS\tOPERATOR\tNODE\tURL\tNAME\tHTTP2\tGRPC\tVERSION\n")
	}

	for _, node := range nodes {
		status, found := nodeStatusNames[node.Status]
		if !found {
			status = fmt.Sprintf("Unknown(%v)", node.Status)
		}
		fmt.Fprintf(tw, "%v\t%v\t%v\t%v", status, node.Operator.Hex(), node.NodeAddress.Hex(), node.Url)
		if records != nil {
			name, found := operatorNames[node.Url]
			if !found {
				name = "-"
			}
			fmt.Fprintf(tw, "\t%v", name)
			if record := records[node.Url]; record != nil {
				fmt.Fprintf(tw, "\t%v\t%v\t%v", record.Http20.Elapsed, record.Grpc.Elapsed, record.Grpc.Version)
			} else {
				fmt.Fprintf(tw, "\t-\t-\t-")
			}
		}
		fmt.Fprintf(tw, "\n")
	}

	return tw.Flush()
}
