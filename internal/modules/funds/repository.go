package funds

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/aristath/fundlens/internal/database"
	"github.com/rs/zerolog"
)

// Repository handles fund catalog persistence (catalog.db, funds table).
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRepository creates a new fund catalog repository
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repository", "funds").Logger(),
	}
}

const fundColumns = `code, name, pinyin, type, return_1y, return_3y, return_5y,
	volatility, max_drawdown, sharpe_ratio, manager_experience, manager_scale,
	management_fee, fund_scale, holdings_concentration, turnover_rate`

// Upsert inserts or updates one fund record.
// Metric fields overwrite stored values only when present on the incoming
// record; a nil field preserves whatever the catalog already knows.
func (r *Repository) Upsert(fund FundRecord) error {
	if fund.Code == "" {
		return fmt.Errorf("fund code is required")
	}

	query := `
		INSERT INTO funds (` + fundColumns + `, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(code) DO UPDATE SET
			name = excluded.name,
			pinyin = excluded.pinyin,
			type = excluded.type,
			return_1y = COALESCE(excluded.return_1y, funds.return_1y),
			return_3y = COALESCE(excluded.return_3y, funds.return_3y),
			return_5y = COALESCE(excluded.return_5y, funds.return_5y),
			volatility = COALESCE(excluded.volatility, funds.volatility),
			max_drawdown = COALESCE(excluded.max_drawdown, funds.max_drawdown),
			sharpe_ratio = COALESCE(excluded.sharpe_ratio, funds.sharpe_ratio),
			manager_experience = COALESCE(excluded.manager_experience, funds.manager_experience),
			manager_scale = COALESCE(excluded.manager_scale, funds.manager_scale),
			management_fee = COALESCE(excluded.management_fee, funds.management_fee),
			fund_scale = COALESCE(excluded.fund_scale, funds.fund_scale),
			holdings_concentration = COALESCE(excluded.holdings_concentration, funds.holdings_concentration),
			turnover_rate = COALESCE(excluded.turnover_rate, funds.turnover_rate),
			updated_at = excluded.updated_at`

	_, err := r.db.Exec(query,
		fund.Code, fund.Name, fund.Pinyin, fund.Type,
		fund.Return1Y, fund.Return3Y, fund.Return5Y,
		fund.Volatility, fund.MaxDrawdown, fund.SharpeRatio,
		fund.ManagerExperience, fund.ManagerScale,
		fund.ManagementFee, fund.FundScale,
		fund.HoldingsConcentration, fund.TurnoverRate,
		time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert fund %s: %w", fund.Code, err)
	}

	return nil
}

// UpsertBatch upserts many records in one transaction.
// Per-record failures abort the batch.
func (r *Repository) UpsertBatch(records []FundRecord) error {
	return database.WithTransaction(r.db, func(tx *sql.Tx) error {
		stmt, err := tx.Prepare(`
			INSERT INTO funds (code, name, pinyin, type, updated_at)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT(code) DO UPDATE SET
				name = excluded.name,
				pinyin = excluded.pinyin,
				type = excluded.type,
				updated_at = excluded.updated_at`)
		if err != nil {
			return fmt.Errorf("failed to prepare upsert: %w", err)
		}
		defer stmt.Close()

		now := time.Now().Unix()
		for _, fund := range records {
			if fund.Code == "" {
				continue
			}
			if _, err := stmt.Exec(fund.Code, fund.Name, fund.Pinyin, fund.Type, now); err != nil {
				return fmt.Errorf("failed to upsert fund %s: %w", fund.Code, err)
			}
		}
		return nil
	})
}

// GetByCode returns one fund, or nil if the code is unknown.
func (r *Repository) GetByCode(code string) (*FundRecord, error) {
	query := `SELECT ` + fundColumns + ` FROM funds WHERE code = ?`

	fund, err := scanFund(r.db.QueryRow(query, code))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get fund %s: %w", code, err)
	}

	return fund, nil
}

// SearchByType returns up to limit funds with the given canonical type tag.
func (r *Repository) SearchByType(fundType string, limit int) ([]FundRecord, error) {
	query := `SELECT ` + fundColumns + ` FROM funds WHERE type = ? ORDER BY code LIMIT ?`

	rows, err := r.db.Query(query, fundType, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search funds by type %s: %w", fundType, err)
	}
	defer rows.Close()

	var funds []FundRecord
	for rows.Next() {
		fund, err := scanFund(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan fund: %w", err)
		}
		funds = append(funds, *fund)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating funds: %w", err)
	}

	return funds, nil
}

// Count returns the number of funds in the catalog.
func (r *Repository) Count() (int, error) {
	var count int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM funds`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count funds: %w", err)
	}
	return count, nil
}

// scanner abstracts *sql.Row and *sql.Rows for scanFund.
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanFund(s scanner) (*FundRecord, error) {
	var fund FundRecord
	err := s.Scan(
		&fund.Code, &fund.Name, &fund.Pinyin, &fund.Type,
		&fund.Return1Y, &fund.Return3Y, &fund.Return5Y,
		&fund.Volatility, &fund.MaxDrawdown, &fund.SharpeRatio,
		&fund.ManagerExperience, &fund.ManagerScale,
		&fund.ManagementFee, &fund.FundScale,
		&fund.HoldingsConcentration, &fund.TurnoverRate,
	)
	if err != nil {
		return nil, err
	}
	return &fund, nil
}
