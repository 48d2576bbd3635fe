package clientdata

import "time"

// TTL constants for different data types.
// These are added to time.Now() when storing to calculate expires_at.
const (
	// The full fund catalog listing changes when funds launch or close,
	// which is infrequent.
	TTLSearch = 24 * time.Hour

	// Historical metric fields update with quarterly/annual disclosures.
	TTLFundMetrics = 7 * 24 * time.Hour

	// Intraday NAV estimates are only meaningful for minutes.
	TTLEstimate = 10 * time.Minute
)
