package store

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"

	"player-auction/internal/auction"
)

// RecentAudit returns up to n audit entries, newest first.
func (s *Store) RecentAudit(ctx context.Context, auctionID string, n int) ([]auction.AuditEntry, error) {
	return s.listAudit(ctx, auctionID, n)
}

// RecentEvents returns up to n action events, newest first.
func (s *Store) RecentEvents(ctx context.Context, auctionID string, n int) ([]auction.ActionEvent, error) {
	return s.listEvents(ctx, auctionID, n)
}

// limitParam maps n <= 0 to NULL, which LIMIT treats as unbounded.
func limitParam(n int) pgtype.Int8 {
	if n <= 0 {
		return pgtype.Int8{}
	}
	return pgtype.Int8{Int64: int64(n), Valid: true}
}

func (s *Store) listAudit(ctx context.Context, auctionID string, n int) ([]auction.AuditEntry, error) {
	rows, err := s.Pool.Query(ctx, `
SELECT seq, at, kind, round, player_id, team_id, amount, reason, actor
FROM audit_log WHERE auction_id = $1 ORDER BY seq DESC LIMIT $2`, auctionID, limitParam(n))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []auction.AuditEntry{}
	for rows.Next() {
		a := auction.AuditEntry{AuctionID: auctionID}
		var kind string
		if err := rows.Scan(&a.Seq, &a.At, &kind, &a.Round, &a.PlayerID, &a.TeamID, &a.Amount, &a.Reason, &a.Actor); err != nil {
			return nil, err
		}
		a.Kind = auction.AuditKind(kind)
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *Store) listEvents(ctx context.Context, auctionID string, n int) ([]auction.ActionEvent, error) {
	rows, err := s.Pool.Query(ctx, `
SELECT seq, type, actor, forward, reversal, is_undone, undone_at, undone_by, created_at
FROM action_events WHERE auction_id = $1 ORDER BY seq DESC LIMIT $2`, auctionID, limitParam(n))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []auction.ActionEvent{}
	for rows.Next() {
		ev := auction.ActionEvent{AuctionID: auctionID}
		var (
			typ               string
			forward, reversal []byte
			undoneAt          pgtype.Timestamptz
		)
		if err := rows.Scan(&ev.Seq, &typ, &ev.Actor, &forward, &reversal, &ev.IsUndone, &undoneAt, &ev.UndoneBy, &ev.CreatedAt); err != nil {
			return nil, err
		}
		ev.Type = auction.ActionType(typ)
		ev.UndoneAt = timeVal(undoneAt)
		if err := jsonScan(forward, &ev.Forward); err != nil {
			return nil, err
		}
		if ev.Reversal, err = auction.DecodeReversal(ev.Type, reversal); err != nil {
			return nil, err
		}
		out = append(out, ev)
	}
	return out, rows.Err()
}
