package game

import "cgspins/internal/config"

const defaultReferralReward = 5

// RewardForPackage returns the spin points a referrer earns when their
// referral activates the given package.
func RewardForPackage(packageKey string) int {
	if reward, ok := config.ReferralRewards[packageKey]; ok {
		return reward
	}
	return defaultReferralReward
}

// CommissionUSD computes an influencer's commission for a package
// purchase. Commission is always based on the TON price converted at
// the configured rate, regardless of which rail paid.
func CommissionUSD(pkg config.Package, rate, tonToUSD float64) float64 {
	return pkg.PriceTON * tonToUSD * rate
}
