// Package funds provides the fund catalog: records, persistence, and the
// data provider that the scoring and recommendation modules consume.
package funds

import "strings"

// Canonical fund category tags. Upstream labels (Chinese, often with
// sub-category suffixes like "混合型-灵活") are normalized onto these.
const (
	TypeMoneyMarket      = "money-market"
	TypeBond             = "bond"
	TypeMixed            = "mixed"
	TypeEquity           = "equity"
	TypeIndex            = "index"
	TypeQDII             = "qdii"
	TypeCapitalProtected = "capital-protected"
	TypeOther            = "other"
)

// FundRecord is the identity and descriptive data for one fund.
// All metric fields are optional: a nil pointer means the field is unknown,
// which the scorer treats as a neutral contribution, never an error.
//
// Units follow the upstream disclosures: returns, volatility, drawdown,
// fees, concentration, and turnover are percentages (volatility 15 = 15%);
// manager scale and fund scale are in 100M CNY units.
type FundRecord struct {
	Code   string `json:"code"`
	Name   string `json:"name"`
	Pinyin string `json:"pinyin,omitempty"`
	Type   string `json:"type"`

	Return1Y *float64 `json:"return1Y,omitempty"`
	Return3Y *float64 `json:"return3Y,omitempty"`
	Return5Y *float64 `json:"return5Y,omitempty"`

	Volatility  *float64 `json:"volatility,omitempty"`
	MaxDrawdown *float64 `json:"maxDrawdown,omitempty"`
	SharpeRatio *float64 `json:"sharpeRatio,omitempty"`

	ManagerExperience *float64 `json:"managerExperience,omitempty"`
	ManagerScale      *float64 `json:"managerScale,omitempty"`

	ManagementFee *float64 `json:"managementFee,omitempty"`
	FundScale     *float64 `json:"fundScale,omitempty"`

	HoldingsConcentration *float64 `json:"holdingsConcentration,omitempty"`
	TurnoverRate          *float64 `json:"turnoverRate,omitempty"`
}

// typeLabels maps upstream label prefixes to canonical tags.
// Order matters: QDII labels may also contain 股票/指数, so QDII is checked first.
var typeLabels = []struct {
	needle string
	tag    string
}{
	{"QDII", TypeQDII},
	{"货币", TypeMoneyMarket},
	{"债券", TypeBond},
	{"指数", TypeIndex},
	{"股票", TypeEquity},
	{"混合", TypeMixed},
	{"保本", TypeCapitalProtected},
	{"理财", TypeMoneyMarket},
	{"FOF", TypeMixed},
}

// NormalizeType maps an upstream category label (or an already-canonical tag)
// to a canonical fund type. Unknown labels map to TypeOther.
func NormalizeType(label string) string {
	switch label {
	case TypeMoneyMarket, TypeBond, TypeMixed, TypeEquity,
		TypeIndex, TypeQDII, TypeCapitalProtected, TypeOther:
		return label
	}

	upper := strings.ToUpper(label)
	for _, m := range typeLabels {
		if strings.Contains(upper, m.needle) {
			return m.tag
		}
	}

	return TypeOther
}
