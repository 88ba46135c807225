package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"player-auction/internal/auction"
)

// SaveAuction writes the engine state and the appended changes in one
// transaction.
func (s *Store) SaveAuction(ctx context.Context, e *auction.Engine, ch Changes) error {
	tx, err := s.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	batch := &pgx.Batch{}
	if err := queueAuction(batch, e.Auction); err != nil {
		return err
	}
	if ch.Roster {
		for i, id := range e.TeamIDs() {
			if err := queueTeam(batch, i, e.Teams[id]); err != nil {
				return err
			}
		}
		for i, id := range e.PlayerIDs() {
			if err := queuePlayer(batch, i, e.Players[id]); err != nil {
				return err
			}
		}
		for _, tr := range e.TradeList() {
			if err := queueTrade(batch, tr); err != nil {
				return err
			}
		}
	}
	for _, ev := range ch.Events {
		if err := queueEvent(batch, ev); err != nil {
			return err
		}
	}
	for _, a := range ch.Audit {
		queueAudit(batch, a)
	}
	for _, p := range ch.Purse {
		queuePurseEntry(batch, p)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("save auction %s: %w", e.Auction.ID, err)
	}
	return tx.Commit(ctx)
}

func queueAuction(b *pgx.Batch, a *auction.Auction) error {
	cfg, err := jsonParam(a.Config, "{}")
	if err != nil {
		return err
	}
	undecided, err := jsonParam(a.Undecided, "[]")
	if err != nil {
		return err
	}
	bidding, err := jsonParam(a.Bidding, "{}")
	if err != nil {
		return err
	}
	b.Queue(`
INSERT INTO auctions (id, name, status, current_round, config, undecided, bidding, completed_at, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
ON CONFLICT (id) DO UPDATE SET
    name = EXCLUDED.name,
    status = EXCLUDED.status,
    current_round = EXCLUDED.current_round,
    config = EXCLUDED.config,
    undecided = EXCLUDED.undecided,
    bidding = EXCLUDED.bidding,
    completed_at = EXCLUDED.completed_at,
    updated_at = EXCLUDED.updated_at`,
		a.ID, a.Name, string(a.Status), a.CurrentRound, cfg, undecided, bidding,
		timestamptzParam(a.CompletedAt), a.CreatedAt, a.UpdatedAt)
	return nil
}

func queueTeam(b *pgx.Batch, pos int, t *auction.Team) error {
	bought, err := jsonParam(t.Bought, "[]")
	if err != nil {
		return err
	}
	retained, err := jsonParam(t.Retained, "[]")
	if err != nil {
		return err
	}
	b.Queue(`
INSERT INTO teams (auction_id, id, position, name, purse_value, purse_remaining, bought, retained, trades_used)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
ON CONFLICT (auction_id, id) DO UPDATE SET
    name = EXCLUDED.name,
    purse_value = EXCLUDED.purse_value,
    purse_remaining = EXCLUDED.purse_remaining,
    bought = EXCLUDED.bought,
    retained = EXCLUDED.retained,
    trades_used = EXCLUDED.trades_used`,
		t.AuctionID, t.ID, pos, t.Name, t.PurseValue, t.PurseRemaining, bought, retained, t.TradesUsed)
	return nil
}

func queuePlayer(b *pgx.Batch, pos int, p *auction.Player) error {
	history, err := jsonParam(p.RoundHistory, "[]")
	if err != nil {
		return err
	}
	fields, err := jsonParam(p.CustomFields, "{}")
	if err != nil {
		return err
	}
	b.Queue(`
INSERT INTO players (auction_id, id, position, name, role, status, sold_to, sold_amount, sold_in_round, round_history, status_reason, custom_fields)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
ON CONFLICT (auction_id, id) DO UPDATE SET
    status = EXCLUDED.status,
    sold_to = EXCLUDED.sold_to,
    sold_amount = EXCLUDED.sold_amount,
    sold_in_round = EXCLUDED.sold_in_round,
    round_history = EXCLUDED.round_history,
    status_reason = EXCLUDED.status_reason,
    custom_fields = EXCLUDED.custom_fields`,
		p.AuctionID, p.ID, pos, p.Name, p.Role, string(p.Status), p.SoldTo, p.SoldAmount, p.SoldInRound,
		history, p.StatusReason, fields)
	return nil
}

func queueTrade(b *pgx.Batch, tr *auction.Trade) error {
	body, err := jsonParam(tr, "{}")
	if err != nil {
		return err
	}
	b.Queue(`
INSERT INTO trades (auction_id, id, status, proposed_at, body)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (auction_id, id) DO UPDATE SET status = EXCLUDED.status, body = EXCLUDED.body`,
		tr.AuctionID, tr.ID, string(tr.Status), tr.ProposedAt, body)
	return nil
}

func queueEvent(b *pgx.Batch, ev auction.ActionEvent) error {
	forward, err := jsonParam(ev.Forward, "{}")
	if err != nil {
		return err
	}
	reversal, err := auction.EncodeReversal(ev.Reversal)
	if err != nil {
		return err
	}
	b.Queue(`
INSERT INTO action_events (auction_id, seq, type, actor, forward, reversal, is_undone, undone_at, undone_by, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
ON CONFLICT (auction_id, seq) DO UPDATE SET
    is_undone = EXCLUDED.is_undone,
    undone_at = EXCLUDED.undone_at,
    undone_by = EXCLUDED.undone_by`,
		ev.AuctionID, ev.Seq, string(ev.Type), ev.Actor, forward, reversal, ev.IsUndone,
		timestamptzParam(ev.UndoneAt), ev.UndoneBy, ev.CreatedAt)
	return nil
}

func queueAudit(b *pgx.Batch, a auction.AuditEntry) {
	b.Queue(`
INSERT INTO audit_log (auction_id, seq, at, kind, round, player_id, team_id, amount, reason, actor)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
ON CONFLICT (auction_id, seq) DO NOTHING`,
		a.AuctionID, a.Seq, a.At, string(a.Kind), a.Round, a.PlayerID, a.TeamID, a.Amount, a.Reason, a.Actor)
}

func queuePurseEntry(b *pgx.Batch, p PurseEntry) {
	b.Queue(`
INSERT INTO purse_ledger (id, auction_id, team_id, delta, balance, reason, ref_type, ref_id, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
ON CONFLICT (id) DO NOTHING`,
		p.ID, p.AuctionID, p.TeamID, p.Delta, p.Balance, p.Reason, p.RefType, p.RefID, p.CreatedAt)
}

// LoadAuction rebuilds an engine from its persisted rows.
func (s *Store) LoadAuction(ctx context.Context, id string) (*auction.Engine, error) {
	a, err := s.loadAuctionRow(ctx, id)
	if err != nil {
		return nil, err
	}
	teams, err := s.loadTeams(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load teams: %w", err)
	}
	players, err := s.loadPlayers(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load players: %w", err)
	}
	trades, err := s.loadTrades(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load trades: %w", err)
	}
	events, err := s.listEvents(ctx, id, 0)
	if err != nil {
		return nil, fmt.Errorf("load events: %w", err)
	}
	audit, err := s.listAudit(ctx, id, 0)
	if err != nil {
		return nil, fmt.Errorf("load audit: %w", err)
	}
	reverse(events)
	reverse(audit)
	return auction.Restore(a, teams, players, trades, events, audit), nil
}

func (s *Store) loadAuctionRow(ctx context.Context, id string) (*auction.Auction, error) {
	var (
		a                       auction.Auction
		status                  string
		cfg, undecided, bidding []byte
		completedAt             pgtype.Timestamptz
	)
	err := s.Pool.QueryRow(ctx, `
SELECT id, name, status, current_round, config, undecided, bidding, completed_at, created_at, updated_at
FROM auctions WHERE id = $1`, id).Scan(
		&a.ID, &a.Name, &status, &a.CurrentRound, &cfg, &undecided, &bidding, &completedAt, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, mapNotFound(err)
	}
	a.Status = auction.Status(status)
	a.CompletedAt = timeVal(completedAt)
	if err := jsonScan(cfg, &a.Config); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := jsonScan(undecided, &a.Undecided); err != nil {
		return nil, fmt.Errorf("decode undecided: %w", err)
	}
	if err := jsonScan(bidding, &a.Bidding); err != nil {
		return nil, fmt.Errorf("decode bidding: %w", err)
	}
	return &a, nil
}

func (s *Store) loadTeams(ctx context.Context, auctionID string) ([]*auction.Team, error) {
	rows, err := s.Pool.Query(ctx, `
SELECT id, name, purse_value, purse_remaining, bought, retained, trades_used
FROM teams WHERE auction_id = $1 ORDER BY position`, auctionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*auction.Team
	for rows.Next() {
		t := &auction.Team{AuctionID: auctionID}
		var bought, retained []byte
		if err := rows.Scan(&t.ID, &t.Name, &t.PurseValue, &t.PurseRemaining, &bought, &retained, &t.TradesUsed); err != nil {
			return nil, err
		}
		if err := jsonScan(bought, &t.Bought); err != nil {
			return nil, err
		}
		if err := jsonScan(retained, &t.Retained); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *Store) loadPlayers(ctx context.Context, auctionID string) ([]*auction.Player, error) {
	rows, err := s.Pool.Query(ctx, `
SELECT id, name, role, status, sold_to, sold_amount, sold_in_round, round_history, status_reason, custom_fields
FROM players WHERE auction_id = $1 ORDER BY position`, auctionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*auction.Player
	for rows.Next() {
		p := &auction.Player{AuctionID: auctionID}
		var (
			status          string
			history, fields []byte
		)
		if err := rows.Scan(&p.ID, &p.Name, &p.Role, &status, &p.SoldTo, &p.SoldAmount, &p.SoldInRound, &history, &p.StatusReason, &fields); err != nil {
			return nil, err
		}
		p.Status = auction.PlayerStatus(status)
		if err := jsonScan(history, &p.RoundHistory); err != nil {
			return nil, err
		}
		if err := jsonScan(fields, &p.CustomFields); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *Store) loadTrades(ctx context.Context, auctionID string) ([]*auction.Trade, error) {
	rows, err := s.Pool.Query(ctx, `SELECT body FROM trades WHERE auction_id = $1 ORDER BY proposed_at, id`, auctionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*auction.Trade
	for rows.Next() {
		var body []byte
		if err := rows.Scan(&body); err != nil {
			return nil, err
		}
		tr := &auction.Trade{}
		if err := jsonScan(body, tr); err != nil {
			return nil, err
		}
		out = append(out, tr)
	}
	return out, rows.Err()
}

// ListAuctions returns every auction, most recently updated first.
func (s *Store) ListAuctions(ctx context.Context) ([]AuctionSummary, error) {
	rows, err := s.Pool.Query(ctx, `SELECT id, name, status, updated_at FROM auctions ORDER BY updated_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []AuctionSummary
	for rows.Next() {
		var (
			a      AuctionSummary
			status string
		)
		if err := rows.Scan(&a.ID, &a.Name, &status, &a.UpdatedAt); err != nil {
			return nil, err
		}
		a.Status = auction.Status(status)
		out = append(out, a)
	}
	return out, rows.Err()
}

func reverse[T any](s []T) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}
