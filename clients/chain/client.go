package chain

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/sirupsen/logrus"

	"github.com/texuf/towns-utils/types"
	"github.com/texuf/towns-utils/utils"
)

// Client is a read-only rpc connection to one of the chains (base or river).
type Client struct {
	name      string
	endpoint  string
	chainId   uint64
	headers   map[string]string
	logger    logrus.FieldLogger
	rpcClient *rpc.Client
	ethClient *ethclient.Client
}

// NewClient is used to create a new chain client
func NewClient(name string, cfg *types.ChainConfig, logger logrus.FieldLogger) *Client {
	return &Client{
		name:     name,
		endpoint: cfg.RpcUrl,
		chainId:  cfg.ChainId,
		headers:  cfg.Headers,
		logger:   logger.WithField("chain", name),
	}
}

func (c *Client) Initialize(ctx context.Context) error {
	if c.ethClient != nil {
		return nil
	}

	rpcClient, err := rpc.DialContext(ctx, c.endpoint)
	if err != nil {
		return fmt.Errorf("could not dial %v rpc (%v): %w", c.name, utils.GetRedactedUrl(c.endpoint), err)
	}

	for hKey, hVal := range c.headers {
		rpcClient.SetHeader(hKey, hVal)
	}

	c.rpcClient = rpcClient
	c.ethClient = ethclient.NewClient(rpcClient)

	return nil
}

// VerifyChainId compares the endpoint's chain id with the configured one.
// A mismatch is only logged, reads against the wrong chain fail on their own.
func (c *Client) VerifyChainId(ctx context.Context) (*big.Int, error) {
	chainId, err := c.ethClient.ChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not get chain id from %v rpc: %w", c.name, err)
	}

	if c.chainId != 0 && chainId.Uint64() != c.chainId {
		c.logger.Warnf("chain id mismatch: configured %v, endpoint reports %v", c.chainId, chainId)
	}

	return chainId, nil
}

func (c *Client) GetName() string {
	return c.name
}

func (c *Client) GetEndpoint() string {
	return utils.GetRedactedUrl(c.endpoint)
}

func (c *Client) GetEthClient() *ethclient.Client {
	return c.ethClient
}

// Caller returns the contract caller backed by this client.
func (c *Client) Caller() ethereum.ContractCaller {
	return c.ethClient
}

func (c *Client) Close() {
	if c.rpcClient != nil {
		c.rpcClient.Close()
		c.rpcClient = nil
		c.ethClient = nil
	}
}

func (c *Client) IsConnected() bool {
	return c.rpcClient != nil
}
