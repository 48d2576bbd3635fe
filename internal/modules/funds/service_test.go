package funds

import (
	"context"
	"fmt"
	"testing"

	"github.com/aristath/fundlens/internal/clientdata"
	"github.com/aristath/fundlens/internal/clients/eastmoney"
	"github.com/aristath/fundlens/internal/database"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMarketClient struct {
	catalog     []eastmoney.ListEntry
	catalogErr  error
	searchHits  []eastmoney.ListEntry
	estimate    *eastmoney.Estimate
	catalogCall int
}

func (f *fakeMarketClient) Catalog(ctx context.Context) ([]eastmoney.ListEntry, error) {
	f.catalogCall++
	return f.catalog, f.catalogErr
}

func (f *fakeMarketClient) SearchFunds(ctx context.Context, keyword string) ([]eastmoney.ListEntry, error) {
	return f.searchHits, nil
}

func (f *fakeMarketClient) GetEstimate(ctx context.Context, code string) (*eastmoney.Estimate, error) {
	return f.estimate, nil
}

func (f *fakeMarketClient) GetBatchEstimates(ctx context.Context, codes []string) []eastmoney.Estimate {
	results := make([]eastmoney.Estimate, 0, len(codes))
	for _, code := range codes {
		if f.estimate == nil {
			continue
		}
		est := *f.estimate
		est.Code = code
		results = append(results, est)
	}
	return results
}

var testDBSeq int

func newTestService(t *testing.T, client marketClient) (*Service, *Repository) {
	t.Helper()

	testDBSeq++
	catalogDB, err := database.New(database.Config{
		Path:    fmt.Sprintf("file:funds_catalog_%d?mode=memory&cache=shared", testDBSeq),
		Profile: database.ProfileStandard,
		Name:    "catalog",
	})
	require.NoError(t, err)
	t.Cleanup(func() { catalogDB.Close() })
	require.NoError(t, catalogDB.Migrate())

	cacheDB, err := database.New(database.Config{
		Path:    fmt.Sprintf("file:funds_cache_%d?mode=memory&cache=shared", testDBSeq),
		Profile: database.ProfileCache,
		Name:    "cache",
	})
	require.NoError(t, err)
	t.Cleanup(func() { cacheDB.Close() })
	require.NoError(t, cacheDB.Migrate())

	repo := NewRepository(catalogDB.Conn(), zerolog.Nop())
	cacheRepo := clientdata.NewRepository(cacheDB.Conn())
	return NewService(repo, client, cacheRepo, 20, zerolog.Nop()), repo
}

func TestSyncCatalog(t *testing.T) {
	client := &fakeMarketClient{
		catalog: []eastmoney.ListEntry{
			{Code: "000001", Pinyin: "HXCZ", Name: "华夏成长", Type: "混合型-灵活"},
			{Code: "000002", Pinyin: "ZQA", Name: "某债券A", Type: "债券型-长债"},
		},
	}
	svc, repo := newTestService(t, client)

	count, err := svc.SyncCatalog(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	fund, err := repo.GetByCode("000001")
	require.NoError(t, err)
	require.NotNil(t, fund)
	assert.Equal(t, "华夏成长", fund.Name)
	assert.Equal(t, TypeMixed, fund.Type)

	bond, err := repo.GetByCode("000002")
	require.NoError(t, err)
	require.NotNil(t, bond)
	assert.Equal(t, TypeBond, bond.Type)
}

func TestSearchByType_SyncsEmptyCatalog(t *testing.T) {
	client := &fakeMarketClient{
		catalog: []eastmoney.ListEntry{
			{Code: "110022", Pinyin: "YFDXF", Name: "易方达消费行业", Type: "股票型"},
		},
	}
	svc, _ := newTestService(t, client)

	results, err := svc.SearchByType(context.Background(), TypeEquity)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "110022", results[0].Code)
	assert.Equal(t, 1, client.catalogCall)

	// Second call uses the populated catalog without another sync.
	_, err = svc.SearchByType(context.Background(), TypeEquity)
	require.NoError(t, err)
	assert.Equal(t, 1, client.catalogCall)
}

func TestSearchByType_CapsCandidates(t *testing.T) {
	var entries []eastmoney.ListEntry
	for i := 0; i < 30; i++ {
		entries = append(entries, eastmoney.ListEntry{
			Code: fmt.Sprintf("10%04d", i),
			Name: fmt.Sprintf("指数基金%d", i),
			Type: "指数型-股票",
		})
	}
	client := &fakeMarketClient{catalog: entries}
	svc, _ := newTestService(t, client)

	results, err := svc.SearchByType(context.Background(), TypeIndex)
	require.NoError(t, err)
	assert.Len(t, results, 20)
}

func TestUpsert_PreservesMetricsOnCatalogRefresh(t *testing.T) {
	_, repo := newTestService(t, &fakeMarketClient{})

	vol := 18.5
	require.NoError(t, repo.Upsert(FundRecord{
		Code: "000001", Name: "华夏成长", Type: TypeMixed, Volatility: &vol,
	}))

	// Catalog refresh carries no metrics.
	require.NoError(t, repo.UpsertBatch([]FundRecord{
		{Code: "000001", Name: "华夏成长混合", Pinyin: "HXCZHH", Type: TypeMixed},
	}))

	fund, err := repo.GetByCode("000001")
	require.NoError(t, err)
	require.NotNil(t, fund)
	assert.Equal(t, "华夏成长混合", fund.Name)
	require.NotNil(t, fund.Volatility)
	assert.InDelta(t, 18.5, *fund.Volatility, 1e-9)
}

func TestGetByCode_Unknown(t *testing.T) {
	_, repo := newTestService(t, &fakeMarketClient{})

	fund, err := repo.GetByCode("999999")
	require.NoError(t, err)
	assert.Nil(t, fund)
}

func TestIngestNAVHistory(t *testing.T) {
	svc, repo := newTestService(t, &fakeMarketClient{})

	require.NoError(t, repo.Upsert(FundRecord{Code: "000001", Name: "华夏成长", Type: TypeMixed}))

	navs := []float64{1.00, 1.02, 1.01, 1.05, 1.03, 1.08}
	analysis, err := svc.IngestNAVHistory("000001", navs)
	require.NoError(t, err)
	require.NotNil(t, analysis)

	fund := analysis.Fund
	require.NotNil(t, fund)
	require.NotNil(t, fund.Volatility)
	assert.Greater(t, *fund.Volatility, 0.0)
	require.NotNil(t, fund.MaxDrawdown)
	assert.Greater(t, *fund.MaxDrawdown, 0.0)
	require.NotNil(t, fund.SharpeRatio)

	// Series diagnostics ride along with the refreshed record.
	require.NotNil(t, analysis.Drawdown)
	assert.InDelta(t, (1.05-1.03)/1.05, analysis.Drawdown.MaxDrawdown, 1e-9)
	assert.InDelta(t, 0.0, analysis.Drawdown.CurrentDrawdown, 1e-9)
	assert.Equal(t, 0, analysis.Drawdown.DaysInDrawdown)
	// Worst daily return is the 1.05 -> 1.03 step.
	assert.InDelta(t, (1.03-1.05)/1.05, analysis.HistoricalCVaR, 1e-9)

	// Derived metrics survive catalog lookups.
	stored, err := svc.GetHistoricalMetrics(context.Background(), "000001")
	require.NoError(t, err)
	require.NotNil(t, stored)
	require.NotNil(t, stored.Volatility)
}

func TestIngestNAVHistory_UnknownFund(t *testing.T) {
	svc, _ := newTestService(t, &fakeMarketClient{})

	_, err := svc.IngestNAVHistory("999999", []float64{1.0, 1.1})
	assert.Error(t, err)
}

func TestNormalizeType(t *testing.T) {
	tests := []struct {
		label    string
		expected string
	}{
		{"QDII-指数", TypeQDII},
		{"货币型-普通货币", TypeMoneyMarket},
		{"债券型-混合二级", TypeBond},
		{"指数型-股票", TypeIndex},
		{"股票型", TypeEquity},
		{"混合型-偏股", TypeMixed},
		{"保本型", TypeCapitalProtected},
		{"其他", TypeOther},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, NormalizeType(tt.label), "label %s", tt.label)
	}
}
