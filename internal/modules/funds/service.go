package funds

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aristath/fundlens/internal/clientdata"
	"github.com/aristath/fundlens/internal/clients/eastmoney"
	"github.com/aristath/fundlens/pkg/formulas"
	"github.com/rs/zerolog"
)

// marketClient is the slice of the Eastmoney client the service needs.
type marketClient interface {
	Catalog(ctx context.Context) ([]eastmoney.ListEntry, error)
	SearchFunds(ctx context.Context, keyword string) ([]eastmoney.ListEntry, error)
	GetEstimate(ctx context.Context, code string) (*eastmoney.Estimate, error)
	GetBatchEstimates(ctx context.Context, codes []string) []eastmoney.Estimate
}

// Service provides fund catalog access, search and per-fund metrics.
type Service struct {
	repo              *Repository
	client            marketClient
	cacheRepo         *clientdata.Repository
	candidatesPerType int
	log               zerolog.Logger
}

// NewService creates a new fund service
func NewService(repo *Repository, client marketClient, cacheRepo *clientdata.Repository, candidatesPerType int, log zerolog.Logger) *Service {
	if candidatesPerType <= 0 {
		candidatesPerType = 20
	}
	return &Service{
		repo:              repo,
		client:            client,
		cacheRepo:         cacheRepo,
		candidatesPerType: candidatesPerType,
		log:               log.With().Str("service", "funds").Logger(),
	}
}

// SyncCatalog refreshes the local catalog from the upstream fund list.
// Returns the number of entries written.
func (s *Service) SyncCatalog(ctx context.Context) (int, error) {
	entries, err := s.client.Catalog(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch fund catalog: %w", err)
	}

	records := make([]FundRecord, 0, len(entries))
	for _, entry := range entries {
		records = append(records, FundRecord{
			Code:   entry.Code,
			Name:   entry.Name,
			Pinyin: entry.Pinyin,
			Type:   NormalizeType(entry.Type),
		})
	}

	if err := s.repo.UpsertBatch(records); err != nil {
		return 0, fmt.Errorf("failed to store fund catalog: %w", err)
	}

	s.log.Info().Int("count", len(records)).Msg("Fund catalog synced")
	return len(records), nil
}

// Search looks up funds by code, name or pinyin keyword.
func (s *Service) Search(ctx context.Context, keyword string) ([]FundRecord, error) {
	entries, err := s.client.SearchFunds(ctx, keyword)
	if err != nil {
		return nil, err
	}

	results := make([]FundRecord, 0, len(entries))
	for _, entry := range entries {
		results = append(results, FundRecord{
			Code:   entry.Code,
			Name:   entry.Name,
			Pinyin: entry.Pinyin,
			Type:   NormalizeType(entry.Type),
		})
	}
	return results, nil
}

// GetEstimate returns the latest intraday NAV estimate for a fund.
func (s *Service) GetEstimate(ctx context.Context, code string) (*eastmoney.Estimate, error) {
	return s.client.GetEstimate(ctx, code)
}

// GetBatchEstimates returns intraday estimates for several funds. Codes that
// fail upstream are dropped from the result.
func (s *Service) GetBatchEstimates(ctx context.Context, codes []string) []eastmoney.Estimate {
	return s.client.GetBatchEstimates(ctx, codes)
}

// SearchByType returns up to candidatesPerType catalog entries with the given
// canonical type. An empty catalog triggers a one-off upstream sync first.
func (s *Service) SearchByType(ctx context.Context, fundType string) ([]FundRecord, error) {
	count, err := s.repo.Count()
	if err != nil {
		return nil, err
	}
	if count == 0 {
		if _, err := s.SyncCatalog(ctx); err != nil {
			return nil, err
		}
	}

	return s.repo.SearchByType(fundType, s.candidatesPerType)
}

// GetHistoricalMetrics returns the fund record enriched with any cached
// metrics. Returns nil when the code is unknown.
func (s *Service) GetHistoricalMetrics(ctx context.Context, code string) (*FundRecord, error) {
	fund, err := s.repo.GetByCode(code)
	if err != nil {
		return nil, err
	}
	if fund == nil {
		return nil, nil
	}

	raw, err := s.cacheRepo.Get(clientdata.TableFundMetrics, code)
	if err != nil {
		s.log.Warn().Err(err).Str("code", code).Msg("Failed to read cached metrics")
		return fund, nil
	}
	if raw == nil {
		return fund, nil
	}

	var cached FundRecord
	if err := json.Unmarshal(raw, &cached); err != nil {
		s.log.Warn().Err(err).Str("code", code).Msg("Failed to decode cached metrics")
		return fund, nil
	}

	mergeMetrics(fund, &cached)
	return fund, nil
}

// navCVaRConfidence is the confidence level for the tail loss reported on
// NAV ingests.
const navCVaRConfidence = 0.95

// NAVAnalysis is the result of a NAV history ingest: the refreshed fund
// record plus series diagnostics that have no column on the record.
// Diagnostic values are fractions of NAV; the record's metric columns
// stay in percent.
type NAVAnalysis struct {
	Fund           *FundRecord               `json:"fund"`
	Drawdown       *formulas.DrawdownMetrics `json:"drawdown,omitempty"`
	HistoricalCVaR float64                   `json:"historicalCvar95"`
}

// IngestNAVHistory derives risk metrics from a daily NAV series and persists
// them for the fund. NAVs are ordered oldest first.
func (s *Service) IngestNAVHistory(code string, navs []float64) (*NAVAnalysis, error) {
	fund, err := s.repo.GetByCode(code)
	if err != nil {
		return nil, err
	}
	if fund == nil {
		return nil, fmt.Errorf("unknown fund code: %s", code)
	}

	analysis := &NAVAnalysis{Fund: fund}

	returns := formulas.NAVReturns(navs)
	if len(returns) > 0 {
		vol := formulas.AnnualizedVolatility(returns) * 100
		fund.Volatility = &vol

		ret := formulas.AnnualizedReturn(returns) * 100
		fund.Return1Y = &ret

		analysis.HistoricalCVaR = formulas.HistoricalCVaR(returns, navCVaRConfidence)
	}
	if dd := formulas.CalculateDrawdownMetrics(navs); dd != nil {
		analysis.Drawdown = dd

		pct := dd.MaxDrawdown * 100
		fund.MaxDrawdown = &pct
	}
	if sharpe := formulas.SharpeFromNAV(navs, 0.03); sharpe != nil {
		fund.SharpeRatio = sharpe
	}

	if err := s.repo.Upsert(*fund); err != nil {
		return nil, err
	}
	if err := s.cacheRepo.Store(clientdata.TableFundMetrics, code, fund, clientdata.TTLFundMetrics); err != nil {
		s.log.Warn().Err(err).Str("code", code).Msg("Failed to cache derived metrics")
	}

	s.log.Info().Str("code", code).Int("observations", len(navs)).Msg("NAV history ingested")
	return analysis, nil
}

// mergeMetrics fills nil metric fields on dst from src.
func mergeMetrics(dst, src *FundRecord) {
	fill := func(d **float64, s *float64) {
		if *d == nil && s != nil {
			*d = s
		}
	}
	fill(&dst.Return1Y, src.Return1Y)
	fill(&dst.Return3Y, src.Return3Y)
	fill(&dst.Return5Y, src.Return5Y)
	fill(&dst.Volatility, src.Volatility)
	fill(&dst.MaxDrawdown, src.MaxDrawdown)
	fill(&dst.SharpeRatio, src.SharpeRatio)
	fill(&dst.ManagerExperience, src.ManagerExperience)
	fill(&dst.ManagerScale, src.ManagerScale)
	fill(&dst.ManagementFee, src.ManagementFee)
	fill(&dst.FundScale, src.FundScale)
	fill(&dst.HoldingsConcentration, src.HoldingsConcentration)
	fill(&dst.TurnoverRate, src.TurnoverRate)
}
