package operators

import (
	"math/big"
)

// SecondsPerYear is the reward period used for annualization, leap years are ignored.
const SecondsPerYear = 365 * 24 * 60 * 60

var (
	rewardRateScale = new(big.Int).Exp(big.NewInt(10), big.NewInt(36), nil)
	bpsScale        = big.NewInt(10000)
)

// EstimatedApyOfNetwork derives the network APY from the staking reward rate
// (scaled by 1e36) and the total staked amount. The integer part is truncated
// to basis points before converting to a float.
func EstimatedApyOfNetwork(rewardRate *big.Int, totalStaked *big.Int) float64 {
	if rewardRate == nil || totalStaked == nil || rewardRate.Sign() == 0 || totalStaked.Sign() == 0 {
		return 0
	}

	apy := new(big.Int).Mul(rewardRate, big.NewInt(SecondsPerYear))
	apy.Quo(apy, rewardRateScale)
	apy.Mul(apy, bpsScale)
	apy.Quo(apy, totalStaked)

	apyBps, _ := new(big.Float).SetInt(apy).Float64()
	return apyBps / 10000
}

// OperatorApr is the network APY after deducting the operator commission.
func OperatorApr(commissionBps *big.Int, networkApy float64) float64 {
	return networkApy * (1 - bpsToFloat(commissionBps)/10000)
}

// CommissionPercentage converts a commission in basis points to percent.
func CommissionPercentage(commissionBps *big.Int) float64 {
	return bpsToFloat(commissionBps) / 100
}

func bpsToFloat(bps *big.Int) float64 {
	if bps == nil {
		return 0
	}
	value, _ := new(big.Float).SetInt(bps).Float64()
	return value
}
