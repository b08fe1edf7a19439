package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mathiasanobre/bot-telegram/internal/domain"
)

// OpportunityStore implements domain.OpportunityStore using PostgreSQL.
//
// Each detection run replaces the whole table; opportunities are a live view
// of the current market, not an append-only history.
type OpportunityStore struct {
	pool *pgxpool.Pool
}

// NewOpportunityStore creates an OpportunityStore backed by the given pool.
func NewOpportunityStore(pool *pgxpool.Pool) *OpportunityStore {
	return &OpportunityStore{pool: pool}
}

const oppSelectCols = `id, event_id, sport, home_team, away_team, outcome,
	commence_time, detected_at,
	back_provider, back_price, back_probability,
	lay_provider, lay_price, lay_probability,
	diff_percent, is_arbitrage, arbitrage_margin, potential_cycle,
	recommendation, cycle_info`

// ReplaceAll atomically swaps the stored opportunity set for the given one.
func (s *OpportunityStore) ReplaceAll(ctx context.Context, opps []domain.Opportunity) error {
	const insert = `
		INSERT INTO opportunities (
			id, event_id, sport, home_team, away_team, outcome,
			commence_time, detected_at,
			back_provider, back_price, back_probability,
			lay_provider, lay_price, lay_probability,
			diff_percent, is_arbitrage, arbitrage_margin, potential_cycle,
			recommendation, cycle_info
		) VALUES (
			$1, $2, $3, $4, $5, $6,
			$7, $8,
			$9, $10, $11,
			$12, $13, $14,
			$15, $16, $17, $18,
			$19, $20
		)`

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("postgres: begin replace: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, "DELETE FROM opportunities"); err != nil {
		return fmt.Errorf("postgres: clear opportunities: %w", err)
	}

	for _, opp := range opps {
		rec, err := json.Marshal(opp.Recommendation)
		if err != nil {
			return fmt.Errorf("postgres: marshal recommendation %s: %w", opp.ID, err)
		}

		var cycle []byte
		if opp.CycleInfo != nil {
			cycle, err = json.Marshal(opp.CycleInfo)
			if err != nil {
				return fmt.Errorf("postgres: marshal cycle info %s: %w", opp.ID, err)
			}
		}

		// A zero commence time means the feed did not carry a kickoff; it is
		// stored as NULL and treated as upcoming.
		var commence *time.Time
		if !opp.CommenceTime.IsZero() {
			t := opp.CommenceTime
			commence = &t
		}

		if _, err := tx.Exec(ctx, insert,
			opp.ID, opp.EventID, opp.Sport, opp.HomeTeam, opp.AwayTeam, opp.Outcome,
			commence, opp.DetectedAt,
			opp.Back.Provider, opp.Back.Price, opp.Back.Probability,
			opp.Lay.Provider, opp.Lay.Price, opp.Lay.Probability,
			opp.DiffPercent, opp.IsArbitrage, opp.ArbitrageMargin, opp.PotentialCycle,
			rec, cycle,
		); err != nil {
			return fmt.Errorf("postgres: insert opportunity %s: %w", opp.ID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("postgres: commit replace: %w", err)
	}
	return nil
}

// ListRecent returns up to limit opportunities, newest first.
func (s *OpportunityStore) ListRecent(ctx context.Context, limit int) ([]domain.Opportunity, error) {
	query := `SELECT ` + oppSelectCols + ` FROM opportunities ORDER BY detected_at DESC`
	args := []any{}

	if limit > 0 {
		query += " LIMIT $1"
		args = append(args, limit)
	}

	return s.list(ctx, query, args...)
}

// GetByEvent returns the opportunity for the given event ID.
func (s *OpportunityStore) GetByEvent(ctx context.Context, eventID string) (domain.Opportunity, error) {
	query := `SELECT ` + oppSelectCols + ` FROM opportunities WHERE event_id = $1`

	row := s.pool.QueryRow(ctx, query, eventID)
	opp, err := scanOpportunity(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Opportunity{}, domain.ErrNotFound
		}
		return domain.Opportunity{}, fmt.Errorf("postgres: get opportunity by event %s: %w", eventID, err)
	}
	return opp, nil
}

// ListUpcoming returns opportunities whose event starts after the given time.
// Rows without a kickoff time count as upcoming.
func (s *OpportunityStore) ListUpcoming(ctx context.Context, after time.Time) ([]domain.Opportunity, error) {
	query := `SELECT ` + oppSelectCols + ` FROM opportunities
		WHERE commence_time IS NULL OR commence_time > $1
		ORDER BY detected_at DESC`
	return s.list(ctx, query, after)
}

// ListCycle returns opportunities carrying a cycle parametrization.
func (s *OpportunityStore) ListCycle(ctx context.Context) ([]domain.Opportunity, error) {
	query := `SELECT ` + oppSelectCols + ` FROM opportunities
		WHERE cycle_info IS NOT NULL
		ORDER BY detected_at DESC`
	return s.list(ctx, query)
}

func (s *OpportunityStore) list(ctx context.Context, query string, args ...any) ([]domain.Opportunity, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("postgres: list opportunities: %w", err)
	}
	defer rows.Close()

	var opps []domain.Opportunity
	for rows.Next() {
		opp, err := scanOpportunity(rows)
		if err != nil {
			return nil, fmt.Errorf("postgres: scan opportunity: %w", err)
		}
		opps = append(opps, opp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: list opportunities rows: %w", err)
	}
	return opps, nil
}

func scanOpportunity(row pgx.Row) (domain.Opportunity, error) {
	var (
		opp      domain.Opportunity
		commence *time.Time
		rec      []byte
		cycle    []byte
	)

	if err := row.Scan(
		&opp.ID, &opp.EventID, &opp.Sport, &opp.HomeTeam, &opp.AwayTeam, &opp.Outcome,
		&commence, &opp.DetectedAt,
		&opp.Back.Provider, &opp.Back.Price, &opp.Back.Probability,
		&opp.Lay.Provider, &opp.Lay.Price, &opp.Lay.Probability,
		&opp.DiffPercent, &opp.IsArbitrage, &opp.ArbitrageMargin, &opp.PotentialCycle,
		&rec, &cycle,
	); err != nil {
		return domain.Opportunity{}, err
	}

	if commence != nil {
		opp.CommenceTime = *commence
	}
	if len(rec) > 0 {
		if err := json.Unmarshal(rec, &opp.Recommendation); err != nil {
			return domain.Opportunity{}, fmt.Errorf("unmarshal recommendation: %w", err)
		}
	}
	if len(cycle) > 0 {
		var info domain.CycleInfo
		if err := json.Unmarshal(cycle, &info); err != nil {
			return domain.Opportunity{}, fmt.Errorf("unmarshal cycle info: %w", err)
		}
		opp.CycleInfo = &info
	}
	return opp, nil
}

// Compile-time interface check.
var _ domain.OpportunityStore = (*OpportunityStore)(nil)
