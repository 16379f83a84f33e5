package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/carteira-app/carteira/internal/common"
)

// Flex is a numeric field extracted by the backend's AI model. The extractor
// may emit a JSON number, a numeric string, null, or omit the field entirely.
// The zero value is "absent". Absent values render as "-" and are excluded
// from sums; they coerce to 0 only when the commit payload is built.
type Flex struct {
	value   float64
	present bool
}

// NewFlex returns a present Flex holding the given value.
func NewFlex(v float64) Flex {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Flex{}
	}
	return Flex{value: v, present: true}
}

// Present reports whether the field carried a usable numeric value.
func (f Flex) Present() bool { return f.present }

// Float64 returns the value and whether it is present.
func (f Flex) Float64() (float64, bool) { return f.value, f.present }

// Coerce returns the value with absent coerced to 0. Only for
// commit-payload construction, never for display.
func (f Flex) Coerce() float64 {
	if !f.present {
		return 0
	}
	return f.value
}

// Display renders the value in BRL display format, or "-" when absent.
func (f Flex) Display() string {
	if !f.present {
		return "-"
	}
	return common.FormatBRL(f.value)
}

// DisplayNumber renders the bare value without currency, or "-" when absent.
func (f Flex) DisplayNumber() string {
	if !f.present {
		return "-"
	}
	return strconv.FormatFloat(f.value, 'f', -1, 64)
}

// UnmarshalJSON accepts numbers, numeric strings (including Brazilian
// "1.234,56" form), null, and empty strings.
func (f *Flex) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = Flex{}
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			*f = Flex{}
			return nil
		}
		v, err := parseLocalizedFloat(s)
		if err != nil {
			return fmt.Errorf("invalid numeric string %q: %w", s, err)
		}
		*f = NewFlex(v)
		return nil
	}

	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*f = NewFlex(v)
	return nil
}

// MarshalJSON emits the coerced value. Marshaling only happens at
// commit-payload construction, where absent must become 0.
func (f Flex) MarshalJSON() ([]byte, error) {
	return json.Marshal(f.Coerce())
}

// parseLocalizedFloat parses "1234.56" and the Brazilian "1.234,56" form.
func parseLocalizedFloat(s string) (float64, error) {
	s = strings.TrimPrefix(s, "R$")
	s = strings.TrimSpace(s)
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return v, nil
	}
	if strings.Contains(s, ",") {
		normalized := strings.ReplaceAll(s, ".", "")
		normalized = strings.Replace(normalized, ",", ".", 1)
		return strconv.ParseFloat(normalized, 64)
	}
	return strconv.ParseFloat(s, 64)
}

// ParsedTransaction is a trade or corporate-action row extracted from a
// statement.
type ParsedTransaction struct {
	Date     string `json:"date"`
	Type     string `json:"type"`
	Ticker   string `json:"ticker"`
	Quantity Flex   `json:"quantity"`
	Price    Flex   `json:"price"`
	Total    Flex   `json:"total"`
	Fees     Flex   `json:"fees"`
	Notes    string `json:"notes,omitempty"`
}

// Transaction type constants
const (
	TransactionBuy      = "buy"
	TransactionSell     = "sell"
	TransactionDividend = "dividend"
	TransactionJCP      = "jcp" // juros sobre capital próprio
	TransactionInterest = "interest"
	TransactionBonus    = "bonus"
	TransactionSplit    = "split"
)

// ValidTransactionType reports whether t is a known transaction type.
func ValidTransactionType(t string) bool {
	switch t {
	case TransactionBuy, TransactionSell, TransactionDividend,
		TransactionJCP, TransactionInterest, TransactionBonus, TransactionSplit:
		return true
	}
	return false
}

// Fixed income indexer constants
const (
	IndexerCDI       = "CDI"
	IndexerSELIC     = "SELIC"
	IndexerIPCA      = "IPCA"
	IndexerPrefixado = "PREFIXADO"
	IndexerOther     = "OTHER"
)

// ParsedFixedIncome is a fixed-income position extracted from a statement.
type ParsedFixedIncome struct {
	AssetName       string `json:"asset_name"`
	AssetType       string `json:"asset_type"` // CDB, LCA, LCI, Tesouro, debenture
	Issuer          string `json:"issuer"`
	Quantity        Flex   `json:"quantity"`
	UnitPrice       Flex   `json:"unit_price"`
	TotalValue      Flex   `json:"total_value"`
	Indexer         string `json:"indexer"`
	Rate            Flex   `json:"rate"` // e.g. 110 for "110% CDI"
	AcquisitionDate string `json:"acquisition_date,omitempty"`
	MaturityDate    string `json:"maturity_date,omitempty"`
	ReferenceDate   string `json:"reference_date,omitempty"`
}

// Stock lending operation constants
const (
	LendingOut    = "lending_out"
	LendingReturn = "return"
	LendingIncome = "rental_income"
)

// ParsedStockLending is a securities-lending row extracted from a statement.
type ParsedStockLending struct {
	Date      string `json:"date"`
	Operation string `json:"operation"`
	Ticker    string `json:"ticker"`
	Quantity  Flex   `json:"quantity"`
	Rate      Flex   `json:"rate"`
	Total     Flex   `json:"total"`
}

// ParsedCashMovement is a deposit, withdrawal, or settlement row. Value is
// signed: positive for inflows, negative for outflows.
type ParsedCashMovement struct {
	Date        string `json:"date"`
	Type        string `json:"type"`
	Description string `json:"description"`
	Ticker      string `json:"ticker,omitempty"`
	Value       Flex   `json:"value"`
}

// ParsedInvestmentFund is an investment-fund position extracted from a
// statement.
type ParsedInvestmentFund struct {
	FundName       string `json:"fund_name"`
	CNPJ           string `json:"cnpj"`
	QuotaQuantity  Flex   `json:"quota_quantity"`
	QuotaPrice     Flex   `json:"quota_price"`
	GrossBalance   Flex   `json:"gross_balance"`
	NetBalance     Flex   `json:"net_balance"`
	IRProvision    Flex   `json:"ir_provision"`
	PerformancePct Flex   `json:"performance_pct"`
	ReferenceDate  string `json:"reference_date,omitempty"`
}

// ExtractedData holds every record category the AI extractor produced for
// one document.
type ExtractedData struct {
	Transactions    []ParsedTransaction    `json:"transactions"`
	FixedIncome     []ParsedFixedIncome    `json:"fixed_income"`
	StockLending    []ParsedStockLending   `json:"stock_lending"`
	CashMovements   []ParsedCashMovement   `json:"cash_movements"`
	InvestmentFunds []ParsedInvestmentFund `json:"investment_funds"`
}

// Empty reports whether no category holds any rows.
func (d *ExtractedData) Empty() bool {
	if d == nil {
		return true
	}
	return len(d.Transactions) == 0 && len(d.FixedIncome) == 0 &&
		len(d.StockLending) == 0 && len(d.CashMovements) == 0 &&
		len(d.InvestmentFunds) == 0
}
