package types

// OperatorStatusActive is the on-chain operator status of operators that accept stake.
const OperatorStatusActive = 3

type StakableOperator struct {
	Name                 string          `json:"name" yaml:"name"`
	BaseName             string          `json:"baseName" yaml:"baseName"`
	Image                string          `json:"image" yaml:"image"`
	Nodes                []*NodeRecord   `json:"nodes" yaml:"nodes"`
	CommissionPercentage float64         `json:"commissionPercentage" yaml:"commissionPercentage"`
	EstimatedApr         float64         `json:"estimatedApr" yaml:"estimatedApr"`
	Address              string          `json:"address" yaml:"address"`
	IsActive             bool            `json:"isActive" yaml:"isActive"`
	Metrics              OperatorMetrics `json:"metrics" yaml:"metrics"`
}

type OperatorMetrics struct {
	Http20           int64   `json:"http20" yaml:"http20"`
	Grpc             int64   `json:"grpc" yaml:"grpc"`
	GrpcStartTime    string  `json:"grpc_start_time" yaml:"grpc_start_time"`
	UptimePercentage float64 `json:"uptime_percentage" yaml:"uptime_percentage"`
}

type OperatorsReport struct {
	Operators           []*StakableOperator `json:"operators" yaml:"operators"`
	NetworkEstimatedApy float64             `json:"networkEstimatedApy" yaml:"networkEstimatedApy"`
}
