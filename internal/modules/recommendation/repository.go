package recommendation

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aristath/fundlens/internal/database"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// HistoryEntry is one stored recommendation.
type HistoryEntry struct {
	UUID              string   `json:"uuid"`
	Code              string   `json:"code"`
	Name              string   `json:"name"`
	FundType          string   `json:"fundType"`
	Rating            string   `json:"rating"`
	TotalScore        float64  `json:"totalScore"`
	RiskLevel         string   `json:"riskLevel"`
	ExpectedReturn    float64  `json:"expectedReturn"`
	ExpectedRisk      float64  `json:"expectedRisk"`
	MatchReasons      []string `json:"matchReasons"`
	RiskTolerance     string   `json:"riskTolerance"`
	InvestmentHorizon string   `json:"investmentHorizon"`
	CreatedAt         int64    `json:"createdAt"`
}

// Repository persists recommendation history (cache.db, recommendations table).
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRepository creates a new recommendation history repository
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repository", "recommendations").Logger(),
	}
}

// SaveBatch stores one recommendation run, all rows sharing a timestamp.
func (r *Repository) SaveBatch(recommendations []FundRecommendation, prefs UserPreferences) error {
	if len(recommendations) == 0 {
		return nil
	}

	return database.WithTransaction(r.db, func(tx *sql.Tx) error {
		stmt, err := tx.Prepare(`
			INSERT INTO recommendations (
				uuid, code, name, fund_type, rating, total_score, risk_level,
				expected_return, expected_risk, match_reasons,
				risk_tolerance, investment_horizon, created_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("failed to prepare insert: %w", err)
		}
		defer stmt.Close()

		now := time.Now().Unix()
		for _, rec := range recommendations {
			reasons, err := json.Marshal(rec.MatchReasons)
			if err != nil {
				return fmt.Errorf("failed to marshal match reasons: %w", err)
			}

			_, err = stmt.Exec(
				uuid.New().String(),
				rec.Fund.Code, rec.Fund.Name, rec.Fund.Type,
				rec.Score.Rating, rec.Score.TotalScore, rec.RiskLevel,
				rec.ExpectedReturn, rec.ExpectedRisk, string(reasons),
				prefs.RiskTolerance, prefs.InvestmentHorizon, now,
			)
			if err != nil {
				return fmt.Errorf("failed to insert recommendation for %s: %w", rec.Fund.Code, err)
			}
		}
		return nil
	})
}

// ListRecent returns the newest stored recommendations, most recent first.
func (r *Repository) ListRecent(limit int) ([]HistoryEntry, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := r.db.Query(`
		SELECT uuid, code, name, fund_type, rating, total_score, risk_level,
		       expected_return, expected_risk, match_reasons,
		       risk_tolerance, investment_horizon, created_at
		FROM recommendations
		ORDER BY created_at DESC, uuid
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list recommendations: %w", err)
	}
	defer rows.Close()

	var entries []HistoryEntry
	for rows.Next() {
		var entry HistoryEntry
		var reasons string
		err := rows.Scan(
			&entry.UUID, &entry.Code, &entry.Name, &entry.FundType,
			&entry.Rating, &entry.TotalScore, &entry.RiskLevel,
			&entry.ExpectedReturn, &entry.ExpectedRisk, &reasons,
			&entry.RiskTolerance, &entry.InvestmentHorizon, &entry.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan recommendation: %w", err)
		}

		if err := json.Unmarshal([]byte(reasons), &entry.MatchReasons); err != nil {
			r.log.Warn().Err(err).Str("uuid", entry.UUID).Msg("Corrupt match reasons, skipping field")
			entry.MatchReasons = nil
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating recommendations: %w", err)
	}

	return entries, nil
}
