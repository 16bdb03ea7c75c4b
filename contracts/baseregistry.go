package contracts

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/sirupsen/logrus"
)

// StakingState is the global staking state of the rewards distribution facet.
type StakingState struct {
	RiverToken                common.Address
	TotalStaked               *big.Int
	RewardDuration            *big.Int
	RewardEndTime             *big.Int
	LastUpdateTime            *big.Int
	RewardRate                *big.Int
	RewardPerTokenAccumulated *big.Int
	NextDepositId             *big.Int
}

// BaseRegistry reads the operator and staking facets of the base registry.
// Errors are translated into *LedgerReadError, reads are never retried.
type BaseRegistry struct {
	contract *boundContract
	logger   logrus.FieldLogger
}

func NewBaseRegistry(caller ethereum.ContractCaller, address common.Address, logger logrus.FieldLogger) (*BaseRegistry, error) {
	contract, err := newBoundContract(caller, address, baseRegistryAbiJson)
	if err != nil {
		return nil, err
	}

	return &BaseRegistry{
		contract: contract,
		logger:   logger.WithField("contract", "base_registry"),
	}, nil
}

func (r *BaseRegistry) StakingState(ctx context.Context) (*StakingState, error) {
	out, err := r.contract.call(ctx, "stakingState")
	if err != nil {
		r.logger.WithError(err).Error("failed to read staking state")
		return nil, &LedgerReadError{Read: ReadStakingState, Err: err}
	}

	state := abi.ConvertType(out[0], new(StakingState)).(*StakingState)
	return state, nil
}

func (r *BaseRegistry) OperatorStatus(ctx context.Context, operator common.Address) (uint8, error) {
	out, err := r.contract.call(ctx, "getOperatorStatus", operator)
	if err != nil {
		r.logger.WithError(err).WithField("operator", operator.Hex()).Error("failed to read operator status")
		return 0, &LedgerReadError{Read: ReadOperatorStatus, Err: err}
	}

	status, ok := out[0].(uint8)
	if !ok {
		return 0, &LedgerReadError{Read: ReadOperatorStatus, Err: fmt.Errorf("unexpected result type %T", out[0])}
	}
	return status, nil
}

// CommissionRate returns the operator commission in basis points.
func (r *BaseRegistry) CommissionRate(ctx context.Context, operator common.Address) (*big.Int, error) {
	out, err := r.contract.call(ctx, "getCommissionRate", operator)
	if err != nil {
		r.logger.WithError(err).WithField("operator", operator.Hex()).Error("failed to read commission rates")
		return nil, &LedgerReadError{Read: ReadCommissionRate, Err: err}
	}

	rate, ok := out[0].(*big.Int)
	if !ok {
		return nil, &LedgerReadError{Read: ReadCommissionRate, Err: fmt.Errorf("unexpected result type %T", out[0])}
	}
	return rate, nil
}
