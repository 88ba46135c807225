package store

import (
	"context"
)

// ListPurseEntries returns a team's purse journal in write order.
func (s *Store) ListPurseEntries(ctx context.Context, auctionID, teamID string) ([]PurseEntry, error) {
	rows, err := s.Pool.Query(ctx, `
SELECT id, auction_id, team_id, delta, balance, reason, ref_type, ref_id, created_at
FROM purse_ledger WHERE auction_id = $1 AND team_id = $2 ORDER BY created_at, id`, auctionID, teamID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []PurseEntry{}
	for rows.Next() {
		var p PurseEntry
		if err := rows.Scan(&p.ID, &p.AuctionID, &p.TeamID, &p.Delta, &p.Balance, &p.Reason, &p.RefType, &p.RefID, &p.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// SumPurseDeltas returns the net journal movement per team of an auction.
func (s *Store) SumPurseDeltas(ctx context.Context, auctionID string) (map[string]int64, error) {
	rows, err := s.Pool.Query(ctx, `
SELECT team_id, COALESCE(SUM(delta), 0)::BIGINT
FROM purse_ledger WHERE auction_id = $1 GROUP BY team_id`, auctionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := map[string]int64{}
	for rows.Next() {
		var (
			teamID string
			sum    int64
		)
		if err := rows.Scan(&teamID, &sum); err != nil {
			return nil, err
		}
		out[teamID] = sum
	}
	return out, rows.Err()
}
