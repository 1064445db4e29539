package recommend

import "strings"

type Tier string

const (
	TierFree     Tier = "free"
	TierSilver   Tier = "silver"
	TierGold     Tier = "gold"
	TierPlatinum Tier = "platinum"
)

const (
	CycleMonthly = "monthly"
	CycleYearly  = "yearly"
)

// NormalizeTier maps arbitrary input to a known tier; unknown values fall
// back to free so a malformed catalog entry can never raise the requirement.
func NormalizeTier(tier string) Tier {
	switch strings.ToLower(strings.TrimSpace(tier)) {
	case string(TierSilver):
		return TierSilver
	case string(TierGold):
		return TierGold
	case string(TierPlatinum):
		return TierPlatinum
	default:
		return TierFree
	}
}

// TierRank gives the total order FREE < SILVER < GOLD < PLATINUM.
func TierRank(tier Tier) int {
	switch NormalizeTier(string(tier)) {
	case TierPlatinum:
		return 3
	case TierGold:
		return 2
	case TierSilver:
		return 1
	default:
		return 0
	}
}

// Covers reports whether a plan at tier t is sufficient for a feature that
// requires tier required. A higher tier always covers everything below it.
func Covers(t, required Tier) bool {
	return TierRank(t) >= TierRank(required)
}

// NormalizeCycle maps arbitrary input to a billing cycle, defaulting monthly.
func NormalizeCycle(cycle string) string {
	switch strings.ToLower(strings.TrimSpace(cycle)) {
	case CycleYearly:
		return CycleYearly
	default:
		return CycleMonthly
	}
}
