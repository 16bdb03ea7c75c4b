package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"github.com/texuf/towns-utils/types"
)

const (
	outputJson  = "json"
	outputYaml  = "yaml"
	outputTable = "table"
)

func writeReport(w io.Writer, format string, report *types.OperatorsReport) error {
	switch format {
	case outputJson, "":
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(report)
	case outputYaml:
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		if err := encoder.Encode(report); err != nil {
			return err
		}
		return encoder.Close()
	case outputTable:
		return writeReportTable(w, report)
	default:
		return fmt.Errorf("unknown output format: %v", format)
	}
}

func writeReportTable(w io.Writer, report *types.OperatorsReport) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "NAME\tADDRESS\tNODES\tCOMMISSION\tAPR\tHTTP2 (ms)\tGRPC (ms)\tUPTIME\n")
	for _, operator := range report.Operators {
		fmt.Fprintf(tw, "%v\t%v\t%v\t%.2f%%\t%.2f%%\t%v\t%v\t%.0f%%\n",
			operator.Name,
			operator.Address,
			len(operator.Nodes),
			operator.CommissionPercentage,
			operator.EstimatedApr*100,
			operator.Metrics.Http20,
			operator.Metrics.Grpc,
			operator.Metrics.UptimePercentage*100,
		)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	_, err := fmt.Fprintf(w, "\nnetwork estimated apy: %.2f%%\n", report.NetworkEstimatedApy*100)
	return err
}
