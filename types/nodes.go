package types

// MultiStatus is the body of a river node's /debug/multi/json endpoint.
// One node reports the health of every node it knows about.
type MultiStatus struct {
	Nodes     []*NodeRecord `json:"nodes"`
	QueryTime string        `json:"query_time"`
	Elapsed   string        `json:"elapsed"`
}

type NodeRecord struct {
	Record          RegistryRecord `json:"record" yaml:"record"`
	Local           bool           `json:"local,omitempty" yaml:"local,omitempty"`
	Http11          HttpProbe      `json:"http11" yaml:"http11"`
	Http20          HttpProbe      `json:"http20" yaml:"http20"`
	Grpc            GrpcProbe      `json:"grpc" yaml:"grpc"`
	RiverEthBalance string         `json:"river_eth_balance" yaml:"river_eth_balance"`
}

type RegistryRecord struct {
	Address    string `json:"address" yaml:"address"`
	Url        string `json:"url" yaml:"url"`
	Operator   string `json:"operator" yaml:"operator"`
	Status     int    `json:"status" yaml:"status"`
	StatusText string `json:"status_text" yaml:"status_text"`
}

type HttpProbe struct {
	Success       bool         `json:"success" yaml:"success"`
	Status        int          `json:"status" yaml:"status"`
	StatusText    string       `json:"status_text" yaml:"status_text"`
	Elapsed       string       `json:"elapsed" yaml:"elapsed"`
	Response      InstanceInfo `json:"response" yaml:"response"`
	Protocol      string       `json:"protocol" yaml:"protocol"`
	UsedTls       bool         `json:"used_tls" yaml:"used_tls"`
	RemoteAddress string       `json:"remote_address" yaml:"remote_address"`
	DnsAddresses  []string     `json:"dns_addresses" yaml:"dns_addresses"`
}

type InstanceInfo struct {
	Status     string `json:"status" yaml:"status"`
	InstanceId string `json:"instance_id" yaml:"instance_id"`
	Address    string `json:"address" yaml:"address"`
	Version    string `json:"version" yaml:"version"`
	StartTime  string `json:"start_time" yaml:"start_time"`
	Uptime     string `json:"uptime" yaml:"uptime"`
	Graffiti   string `json:"graffiti" yaml:"graffiti"`
}

type GrpcProbe struct {
	Success       bool     `json:"success" yaml:"success"`
	StatusText    string   `json:"status_text" yaml:"status_text"`
	Elapsed       string   `json:"elapsed" yaml:"elapsed"`
	Version       string   `json:"version" yaml:"version"`
	StartTime     string   `json:"start_time" yaml:"start_time"`
	Uptime        string   `json:"uptime" yaml:"uptime"`
	Graffiti      string   `json:"graffiti" yaml:"graffiti"`
	Protocol      string   `json:"protocol" yaml:"protocol"`
	XHttpVersion  string   `json:"x_http_version" yaml:"x_http_version"`
	RemoteAddress string   `json:"remote_address" yaml:"remote_address"`
	DnsAddresses  []string `json:"dns_addresses" yaml:"dns_addresses"`
}

// Clone returns a deep copy of the node record.
func (n *NodeRecord) Clone() *NodeRecord {
	if n == nil {
		return nil
	}
	clone := *n
	clone.Http11.DnsAddresses = cloneStrings(n.Http11.DnsAddresses)
	clone.Http20.DnsAddresses = cloneStrings(n.Http20.DnsAddresses)
	clone.Grpc.DnsAddresses = cloneStrings(n.Grpc.DnsAddresses)
	return &clone
}

func cloneStrings(list []string) []string {
	if list == nil {
		return nil
	}
	res := make([]string, len(list))
	copy(res, list)
	return res
}
