package contracts

import (
	"context"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// boundContract packs calls for a single contract address and unpacks the results.
type boundContract struct {
	caller  ethereum.ContractCaller
	address common.Address
	abi     abi.ABI
}

func newBoundContract(caller ethereum.ContractCaller, address common.Address, abiJson string) (*boundContract, error) {
	if address == (common.Address{}) {
		return nil, ErrNoContractAddress
	}
	contractAbi, err := abi.JSON(strings.NewReader(abiJson))
	if err != nil {
		return nil, fmt.Errorf("could not parse contract abi: %w", err)
	}

	return &boundContract{
		caller:  caller,
		address: address,
		abi:     contractAbi,
	}, nil
}

func (c *boundContract) call(ctx context.Context, method string, args ...interface{}) ([]interface{}, error) {
	callData, err := c.abi.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("could not pack %v call: %w", method, err)
	}

	result, err := c.caller.CallContract(ctx, ethereum.CallMsg{
		To:   &c.address,
		Data: callData,
	}, nil)
	if err != nil {
		return nil, fmt.Errorf("%v call failed: %w", method, err)
	}

	out, err := c.abi.Unpack(method, result)
	if err != nil {
		return nil, fmt.Errorf("could not unpack %v result: %w", method, err)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("empty %v result", method)
	}

	return out, nil
}
