package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"sponsored-bid-lab/internal/domain"
	"sponsored-bid-lab/internal/storage"
)

// RecommendationStore implements storage.RecommendationStore using PostgreSQL.
type RecommendationStore struct {
	pool *Pool
}

// NewRecommendationStore creates a new RecommendationStore.
func NewRecommendationStore(pool *Pool) *RecommendationStore {
	return &RecommendationStore{pool: pool}
}

// Compile-time interface check.
var _ storage.RecommendationStore = (*RecommendationStore)(nil)

const recommendationColumns = `
	run_id, keyword_id, campaign_id, ad_group_id, asin, keyword,
	action, change_rate, current_bid, new_bid,
	clipped, clip_reason, skip, tos_targeted, tos_eligible,
	coeff_phase, coeff_cvr, coeff_rank_gap, coeff_competitor,
	coeff_brand, coeff_stats, coeff_tos,
	guard_trail, facts_observed, decision_path, predicted_impact
`

const insertRecommendationQuery = `
	INSERT INTO keyword_recommendations (` + recommendationColumns + `
	) VALUES (
		$1, $2, $3, $4, $5, $6,
		$7, $8, $9, $10,
		$11, $12, $13, $14, $15,
		$16, $17, $18, $19,
		$20, $21, $22,
		$23, $24, $25, $26
	)
`

// Insert adds a recommendation. Returns ErrDuplicateKey if (run_id, keyword_id) exists.
func (s *RecommendationStore) Insert(ctx context.Context, runID string, r *domain.KeywordRecommendation) error {
	if runID == "" || r == nil || r.KeywordID == "" {
		return storage.ErrInvalidInput
	}

	_, err := s.pool.Exec(ctx, insertRecommendationQuery, recommendationArgs(runID, r)...)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert recommendation: %w", err)
	}
	return nil
}

// InsertBulk adds multiple recommendations atomically. Fails entire batch on any duplicate.
func (s *RecommendationStore) InsertBulk(ctx context.Context, runID string, recs []*domain.KeywordRecommendation) error {
	if runID == "" {
		return storage.ErrInvalidInput
	}
	if len(recs) == 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, r := range recs {
		if r == nil || r.KeywordID == "" {
			return storage.ErrInvalidInput
		}
		_, err := tx.Exec(ctx, insertRecommendationQuery, recommendationArgs(runID, r)...)
		if err != nil {
			if isDuplicateKeyError(err) {
				return storage.ErrDuplicateKey
			}
			return fmt.Errorf("insert recommendation in bulk: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	return nil
}

// GetByRun retrieves all recommendations for a run, ordered by keyword ID ASC.
func (s *RecommendationStore) GetByRun(ctx context.Context, runID string) ([]*domain.KeywordRecommendation, error) {
	query := `
		SELECT ` + recommendationColumns + `
		FROM keyword_recommendations
		WHERE run_id = $1
		ORDER BY keyword_id ASC
	`

	rows, err := s.pool.Query(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("get recommendations by run: %w", err)
	}
	defer rows.Close()

	return scanRecommendations(rows)
}

// GetByKeyword retrieves one keyword's recommendation from a run.
// Returns ErrNotFound if not exists.
func (s *RecommendationStore) GetByKeyword(ctx context.Context, runID, keywordID string) (*domain.KeywordRecommendation, error) {
	query := `
		SELECT ` + recommendationColumns + `
		FROM keyword_recommendations
		WHERE run_id = $1 AND keyword_id = $2
	`

	row := s.pool.QueryRow(ctx, query, runID, keywordID)
	r, err := scanRecommendation(row)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get recommendation by keyword: %w", err)
	}
	return r, nil
}

// recommendationArgs flattens a recommendation into insert parameters.
func recommendationArgs(runID string, r *domain.KeywordRecommendation) []any {
	return []any{
		runID, r.KeywordID, r.CampaignID, r.AdGroupID, r.ASIN, r.Keyword,
		string(r.Action), r.ChangeRate, r.CurrentBid, r.NewBid,
		r.Clipped, r.ClipReason, r.Skip, r.TOSTargeted, r.TOSEligible,
		r.Coefficients.Phase, r.Coefficients.CVR, r.Coefficients.RankGap, r.Coefficients.Competitor,
		r.Coefficients.Brand, r.Coefficients.Stats, r.Coefficients.TOS,
		r.GuardTrail, r.FactsObserved, r.DecisionPath, r.PredictedImpact,
	}
}

// scanRecommendation scans a single row into a KeywordRecommendation.
func scanRecommendation(row pgx.Row) (*domain.KeywordRecommendation, error) {
	var r domain.KeywordRecommendation
	var runID, action string

	err := row.Scan(
		&runID, &r.KeywordID, &r.CampaignID, &r.AdGroupID, &r.ASIN, &r.Keyword,
		&action, &r.ChangeRate, &r.CurrentBid, &r.NewBid,
		&r.Clipped, &r.ClipReason, &r.Skip, &r.TOSTargeted, &r.TOSEligible,
		&r.Coefficients.Phase, &r.Coefficients.CVR, &r.Coefficients.RankGap, &r.Coefficients.Competitor,
		&r.Coefficients.Brand, &r.Coefficients.Stats, &r.Coefficients.TOS,
		&r.GuardTrail, &r.FactsObserved, &r.DecisionPath, &r.PredictedImpact,
	)
	if err != nil {
		return nil, err
	}

	r.Action = domain.ActionType(action)
	return &r, nil
}

// scanRecommendations scans multiple rows into a slice of KeywordRecommendation.
func scanRecommendations(rows pgx.Rows) ([]*domain.KeywordRecommendation, error) {
	var recs []*domain.KeywordRecommendation

	for rows.Next() {
		r, err := scanRecommendation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan recommendation row: %w", err)
		}
		recs = append(recs, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate recommendation rows: %w", err)
	}

	return recs, nil
}
