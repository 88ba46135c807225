package auction

// IncrementFor returns the minimum raise over currentBid. Tiers are ordered by
// ascending ceiling; the first tier whose ceiling is at or above currentBid
// applies, otherwise the last one.
func IncrementFor(currentBid int64, tiers []Tier) int64 {
	if len(tiers) == 0 {
		return 0
	}
	for _, t := range tiers {
		if t.UpTo > 0 && currentBid <= t.UpTo {
			return t.Increment
		}
	}
	return tiers[len(tiers)-1].Increment
}

// MinimumBid is the smallest acceptable next bid. The opening bid on a fresh
// player is the base price itself.
func MinimumBid(currentBid, basePrice int64, tiers []Tier) int64 {
	if currentBid == 0 {
		return basePrice
	}
	return currentBid + IncrementFor(currentBid, tiers)
}
