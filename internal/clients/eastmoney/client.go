// Package eastmoney provides a client for the Eastmoney public fund endpoints.
// Both endpoints return JSONP-wrapped payloads that must be unwrapped before
// JSON decoding.
package eastmoney

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/aristath/fundlens/internal/clientdata"
	"github.com/rs/zerolog"
)

// catalogCacheKey is the single cache key for the full fund listing.
const catalogCacheKey = "catalog"

// maxSearchResults caps keyword search results.
const maxSearchResults = 50

var (
	// fundcode_search.js responds with `var r = [["000001","HXCZ","华夏成长","混合型-灵活",...],...];`
	catalogRe = regexp.MustCompile(`var r = (\[.*\]);?`)
	// fundgz responds with `jsonpgz({"fundcode":"000001",...});`
	estimateRe = regexp.MustCompile(`jsonpgz\((\{.*\})\);?`)
)

// ListEntry is one fund in the catalog listing.
type ListEntry struct {
	Code   string `json:"code"`
	Pinyin string `json:"pinyin"`
	Name   string `json:"name"`
	Type   string `json:"type"` // upstream category label, e.g. "混合型-灵活"
}

// Estimate is an intraday valuation snapshot for one fund.
type Estimate struct {
	Code          string  `json:"code"`
	Name          string  `json:"name"`
	EstimateTime  string  `json:"estimate_time"`
	EstimatedNAV  float64 `json:"estimated_nav"`
	ChangePercent float64 `json:"change_percent"`
	YesterdayNAV  float64 `json:"yesterday_nav"`
}

// Client for the Eastmoney fund endpoints
type Client struct {
	searchURL   string
	estimateURL string
	client      *http.Client
	log         zerolog.Logger
	cacheRepo   *clientdata.Repository
}

// NewClient creates a new Eastmoney client.
// cacheRepo is optional - if nil, caching is disabled.
func NewClient(searchURL, estimateURL string, cacheRepo *clientdata.Repository, log zerolog.Logger) *Client {
	return &Client{
		searchURL:   searchURL,
		estimateURL: estimateURL,
		client:      &http.Client{Timeout: 10 * time.Second},
		log:         log.With().Str("client", "eastmoney").Logger(),
		cacheRepo:   cacheRepo,
	}
}

// Catalog fetches the full fund listing with cache.
// If the API fails, returns stale cached data if available (stale data > no data).
func (c *Client) Catalog(ctx context.Context) ([]ListEntry, error) {
	if c.cacheRepo != nil {
		data, err := c.cacheRepo.GetIfFresh(clientdata.TableSearch, catalogCacheKey)
		if err == nil && data != nil {
			var cached []ListEntry
			if err := json.Unmarshal(data, &cached); err == nil {
				c.log.Debug().Int("funds", len(cached)).Msg("Catalog cache hit")
				return cached, nil
			}
		}
	}

	url := fmt.Sprintf("%s?timestamp=%d", c.searchURL, time.Now().UnixMilli())
	c.log.Debug().Str("url", url).Msg("Fetching fund catalog")

	body, err := c.fetch(ctx, url)
	if err != nil {
		if stale, ok := c.staleCatalog(); ok {
			c.log.Warn().Err(err).Int("funds", len(stale)).Msg("API failed, using stale cached catalog")
			return stale, nil
		}
		return nil, fmt.Errorf("catalog request failed: %w", err)
	}

	entries, err := parseCatalog(body)
	if err != nil {
		if stale, ok := c.staleCatalog(); ok {
			c.log.Warn().Err(err).Int("funds", len(stale)).Msg("Failed to parse catalog, using stale cache")
			return stale, nil
		}
		return nil, err
	}

	if c.cacheRepo != nil {
		if err := c.cacheRepo.Store(clientdata.TableSearch, catalogCacheKey, entries, clientdata.TTLSearch); err != nil {
			c.log.Warn().Err(err).Msg("Failed to cache catalog")
		}
	}

	return entries, nil
}

// SearchFunds filters the catalog by a keyword matched against code, name,
// and pinyin (case-insensitive), capped at 50 results.
func (c *Client) SearchFunds(ctx context.Context, keyword string) ([]ListEntry, error) {
	entries, err := c.Catalog(ctx)
	if err != nil {
		return nil, err
	}

	if keyword == "" {
		if len(entries) > maxSearchResults {
			entries = entries[:maxSearchResults]
		}
		return entries, nil
	}

	lower := strings.ToLower(keyword)
	var matched []ListEntry
	for _, e := range entries {
		if strings.Contains(e.Code, keyword) ||
			strings.Contains(strings.ToLower(e.Name), lower) ||
			strings.Contains(strings.ToLower(e.Pinyin), lower) ||
			strings.Contains(strings.ToLower(e.Type), lower) {
			matched = append(matched, e)
			if len(matched) >= maxSearchResults {
				break
			}
		}
	}

	return matched, nil
}

// GetEstimate fetches the intraday NAV estimate for one fund.
func (c *Client) GetEstimate(ctx context.Context, code string) (*Estimate, error) {
	if c.cacheRepo != nil {
		data, err := c.cacheRepo.GetIfFresh(clientdata.TableEstimate, code)
		if err == nil && data != nil {
			var cached Estimate
			if err := json.Unmarshal(data, &cached); err == nil {
				c.log.Debug().Str("code", code).Msg("Estimate cache hit")
				return &cached, nil
			}
		}
	}

	url := fmt.Sprintf("%s/%s.js?rt=%d", c.estimateURL, code, time.Now().UnixMilli())

	body, err := c.fetch(ctx, url)
	if err != nil {
		if stale, ok := c.staleEstimate(code); ok {
			c.log.Warn().Err(err).Str("code", code).Msg("API failed, using stale cached estimate")
			return stale, nil
		}
		return nil, fmt.Errorf("estimate request failed for %s: %w", code, err)
	}

	est, err := parseEstimate(body)
	if err != nil {
		if stale, ok := c.staleEstimate(code); ok {
			c.log.Warn().Err(err).Str("code", code).Msg("Failed to parse estimate, using stale cache")
			return stale, nil
		}
		return nil, err
	}

	if c.cacheRepo != nil {
		if err := c.cacheRepo.Store(clientdata.TableEstimate, code, est, clientdata.TTLEstimate); err != nil {
			c.log.Warn().Err(err).Str("code", code).Msg("Failed to cache estimate")
		}
	}

	return est, nil
}

// GetBatchEstimates fetches estimates for several funds.
// Per-code failures are dropped - the batch never fails as a whole.
func (c *Client) GetBatchEstimates(ctx context.Context, codes []string) []Estimate {
	results := make([]Estimate, 0, len(codes))
	for _, code := range codes {
		est, err := c.GetEstimate(ctx, code)
		if err != nil {
			c.log.Warn().Err(err).Str("code", code).Msg("Skipping fund in batch estimate")
			continue
		}
		results = append(results, *est)
	}
	return results
}

// fetch performs a GET request and returns the response body.
func (c *Client) fetch(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("API returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	return string(body), nil
}

func (c *Client) staleCatalog() ([]ListEntry, bool) {
	if c.cacheRepo == nil {
		return nil, false
	}
	data, err := c.cacheRepo.Get(clientdata.TableSearch, catalogCacheKey)
	if err != nil || data == nil {
		return nil, false
	}
	var cached []ListEntry
	if err := json.Unmarshal(data, &cached); err != nil {
		return nil, false
	}
	return cached, true
}

func (c *Client) staleEstimate(code string) (*Estimate, bool) {
	if c.cacheRepo == nil {
		return nil, false
	}
	data, err := c.cacheRepo.Get(clientdata.TableEstimate, code)
	if err != nil || data == nil {
		return nil, false
	}
	var cached Estimate
	if err := json.Unmarshal(data, &cached); err != nil {
		return nil, false
	}
	return &cached, true
}

// parseCatalog unwraps the `var r = [...]` JSONP payload and decodes the
// fund tuples. Each tuple is [code, pinyin, name, type, full pinyin];
// short or malformed tuples are skipped.
func parseCatalog(body string) ([]ListEntry, error) {
	match := catalogRe.FindStringSubmatch(body)
	if match == nil {
		return nil, fmt.Errorf("catalog payload missing JSONP wrapper")
	}

	var tuples [][]string
	if err := json.Unmarshal([]byte(match[1]), &tuples); err != nil {
		return nil, fmt.Errorf("failed to decode catalog payload: %w", err)
	}

	entries := make([]ListEntry, 0, len(tuples))
	for _, t := range tuples {
		if len(t) < 4 || t[0] == "" {
			continue
		}
		entries = append(entries, ListEntry{
			Code:   t[0],
			Pinyin: t[1],
			Name:   t[2],
			Type:   t[3],
		})
	}

	return entries, nil
}

// estimatePayload matches the fundgz JSON fields, all of which arrive as strings.
type estimatePayload struct {
	FundCode string `json:"fundcode"`
	Name     string `json:"name"`
	GZTime   string `json:"gztime"`
	GSZ      string `json:"gsz"`   // estimated NAV
	GSZZL    string `json:"gszzl"` // estimated change percent
	DWJZ     string `json:"dwjz"`  // yesterday's NAV
}

// parseEstimate unwraps the `jsonpgz({...})` payload.
func parseEstimate(body string) (*Estimate, error) {
	match := estimateRe.FindStringSubmatch(body)
	if match == nil {
		return nil, fmt.Errorf("estimate payload missing JSONP wrapper")
	}

	var payload estimatePayload
	if err := json.Unmarshal([]byte(match[1]), &payload); err != nil {
		return nil, fmt.Errorf("failed to decode estimate payload: %w", err)
	}

	if payload.FundCode == "" {
		return nil, fmt.Errorf("estimate payload missing fund code")
	}

	return &Estimate{
		Code:          payload.FundCode,
		Name:          payload.Name,
		EstimateTime:  payload.GZTime,
		EstimatedNAV:  parseFloat(payload.GSZ),
		ChangePercent: parseFloat(payload.GSZZL),
		YesterdayNAV:  parseFloat(payload.DWJZ),
	}, nil
}

// parseFloat converts an upstream string field, returning 0 for blanks or garbage.
func parseFloat(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return v
}
