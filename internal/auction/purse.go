package auction

// MaxBid is the highest amount team may bid on the player currently up,
// keeping base price in reserve for every mandatory slot still unfilled
// after this one.
func MaxBid(team *Team, cfg Config) int64 {
	squad := team.SquadSize()
	if squad >= cfg.MinSquadSize {
		return team.PurseRemaining
	}
	reserved := cfg.BasePrice * int64(cfg.MinSquadSize-squad-1)
	limit := team.PurseRemaining - reserved
	if limit < cfg.BasePrice {
		if CanAffordBase(team, cfg.BasePrice) {
			return cfg.BasePrice
		}
		return 0
	}
	return limit
}

// SquadFull reports whether team has no slot left for another player.
func SquadFull(team *Team, cfg Config) bool {
	return cfg.MaxSquadSize > 0 && team.SquadSize() >= cfg.MaxSquadSize
}

func CanAffordBase(team *Team, basePrice int64) bool {
	return team.PurseRemaining >= basePrice
}

// Debit leaves team untouched when the purse cannot cover amount.
func Debit(team *Team, amount int64) error {
	if amount < 0 {
		return ErrInvalidAmount
	}
	if team.PurseRemaining < amount {
		return ErrInsufficientPurse
	}
	team.PurseRemaining -= amount
	return nil
}

func Credit(team *Team, amount int64) error {
	if amount < 0 {
		return ErrInvalidAmount
	}
	if team.PurseRemaining+amount > team.PurseValue {
		return ErrPurseOverflow
	}
	team.PurseRemaining += amount
	return nil
}

// Transfer moves amount from one purse to another or changes neither.
func Transfer(from, to *Team, amount int64) error {
	if amount < 0 {
		return ErrInvalidAmount
	}
	if from.PurseRemaining < amount {
		return ErrInsufficientPurse
	}
	if to.PurseRemaining+amount > to.PurseValue {
		return ErrPurseOverflow
	}
	from.PurseRemaining -= amount
	to.PurseRemaining += amount
	return nil
}

func PurseOf(team *Team, cfg Config) TeamPurse {
	maxBid := MaxBid(team, cfg)
	if SquadFull(team, cfg) {
		maxBid = 0
	}
	return TeamPurse{
		TeamID:         team.ID,
		PurseValue:     team.PurseValue,
		PurseRemaining: team.PurseRemaining,
		SquadSize:      team.SquadSize(),
		MaxBid:         maxBid,
	}
}
