package contracts

import (
	"errors"
	"fmt"
)

const (
	ReadStakingState   = "staking state"
	ReadOperatorStatus = "operator status"
	ReadCommissionRate = "commission rates"
)

var (
	// ErrRiverNodes is returned when the node registry could not be read.
	ErrRiverNodes = errors.New("error fetching river nodes")
	// ErrNoContractAddress is returned when binding a contract at the zero address.
	ErrNoContractAddress = errors.New("no contract address configured")
)

// LedgerReadError reports a failed contract read. The underlying rpc/abi error
// is kept for diagnostics but not part of the message.
type LedgerReadError struct {
	Read string
	Err  error
}

func (e *LedgerReadError) Error() string {
	return fmt.Sprintf("failed to fetch operator data: unable to read %v from contract", e.Read)
}

func (e *LedgerReadError) Unwrap() error {
	return e.Err
}
