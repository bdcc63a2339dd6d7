// Package portfolio loads loan tapes and runs capital calculations over
// them concurrently.
package portfolio

import (
	"bytes"
	"context"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/capital-cli/internal/basel"
	"github.com/sells-group/capital-cli/internal/capital"
	"github.com/sells-group/capital-cli/internal/ead"
)

// LoadOptions configures tape loading.
type LoadOptions struct {
	Sheet string // xlsx worksheet, default first
}

// Tape is the YAML/JSON document form of a loan tape.
type Tape struct {
	Loans []capital.LoanExposure `json:"loans" yaml:"loans"`
}

// columnAliases maps normalised header names to canonical column keys.
var columnAliases = map[string]string{
	"loan_id":                   "id",
	"exposure":                  "exposure_type",
	"asset_class":               "exposure_type",
	"rating":                    "rating_bucket",
	"maturity":                  "maturity_months",
	"amortization":              "amortization_months",
	"rate":                      "interest_rate",
	"regulatory_retail":         "is_regulatory_retail",
	"prudent_mortgage":          "is_prudent_mortgage",
	"baseline_floors":           "apply_bcbs_baseline_floors",
	"collateral":                "collateral_type",
	"income_dependent":          "property_income_dependent",
	"counterparty":              "counterparty_type",
	"revenue":                   "annual_revenue",
	"utilization":               "utilization_pct",
	"undrawn_ccf":               "undrawn_ccf_override",
	"property_income_producing": "property_income_dependent",
}

// Load reads a loan tape. The format is chosen by extension: .csv, .xlsx,
// .yaml/.yml or .json. Loans without an id get a generated one.
func Load(ctx context.Context, path string, opts LoadOptions) ([]capital.LoanExposure, error) {
	var (
		loans []capital.LoanExposure
		err   error
	)

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		var f *os.File
		f, err = os.Open(path)
		if err != nil {
			return nil, eris.Wrap(err, "tape: open csv")
		}
		defer f.Close()
		rowCh, errCh := streamCSV(ctx, f)
		loans, err = collectRows(rowCh, errCh)
	case ".xlsx":
		rowCh, errCh := streamXLSX(ctx, path, opts.Sheet)
		loans, err = collectRows(rowCh, errCh)
	case ".yaml", ".yml":
		loans, err = loadDocument(path, yaml.Unmarshal)
	case ".json":
		loans, err = loadDocument(path, json.Unmarshal)
	default:
		return nil, eris.Errorf("tape: unsupported file type %q", filepath.Ext(path))
	}
	if err != nil {
		return nil, err
	}
	if len(loans) == 0 {
		return nil, eris.Errorf("tape: no loans found in %s", path)
	}

	for i := range loans {
		if loans[i].ID == "" {
			loans[i].ID = uuid.NewString()
		}
	}
	return loans, nil
}

func loadDocument(path string, unmarshal func([]byte, any) error) ([]capital.LoanExposure, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "tape: read file")
	}

	trimmed := bytes.TrimSpace(data)
	if bytes.HasPrefix(trimmed, []byte("[")) || bytes.HasPrefix(trimmed, []byte("-")) {
		var loans []capital.LoanExposure
		if err := unmarshal(data, &loans); err != nil {
			return nil, eris.Wrap(err, "tape: decode loan list")
		}
		return loans, nil
	}

	var tape Tape
	if err := unmarshal(data, &tape); err != nil {
		return nil, eris.Wrap(err, "tape: decode tape")
	}
	return tape.Loans, nil
}

// collectRows turns streamed tabular rows into loans. The first row is the
// header.
func collectRows(rowCh <-chan []string, errCh <-chan error) ([]capital.LoanExposure, error) {
	var (
		colIdx map[string]int
		loans  []capital.LoanExposure
		line   int
		rowErr error
	)

	for row := range rowCh {
		line++
		if rowErr != nil {
			continue // drain
		}
		if colIdx == nil {
			colIdx = headerIndex(row)
			continue
		}
		if blank(row) {
			continue
		}

		loan, err := parseRow(row, colIdx)
		if err != nil {
			rowErr = eris.Wrapf(err, "tape: line %d", line)
			continue
		}
		loans = append(loans, loan)
	}
	if err := <-errCh; err != nil {
		return nil, err
	}
	if rowErr != nil {
		return nil, rowErr
	}
	if colIdx == nil {
		return nil, eris.New("tape: missing header row")
	}
	return loans, nil
}

func headerIndex(header []string) map[string]int {
	idx := make(map[string]int, len(header))
	for i, col := range header {
		k := strings.ToLower(strings.TrimSpace(col))
		k = strings.NewReplacer(" ", "_", "-", "_").Replace(k)
		if alias, ok := columnAliases[k]; ok {
			k = alias
		}
		idx[k] = i
	}
	return idx
}

func blank(row []string) bool {
	for _, v := range row {
		if v != "" {
			return false
		}
	}
	return true
}

// rowReader pulls typed values out of one row and remembers the first
// parse error.
type rowReader struct {
	row    []string
	colIdx map[string]int
	err    error
}

func (r *rowReader) str(col string) string {
	i, ok := r.colIdx[col]
	if !ok || i >= len(r.row) {
		return ""
	}
	return r.row[i]
}

func (r *rowReader) has(col string) bool {
	return r.str(col) != ""
}

func (r *rowReader) float(col string) float64 {
	s := r.str(col)
	if s == "" || r.err != nil {
		return 0
	}
	pct := strings.HasSuffix(s, "%")
	s = strings.NewReplacer("$", "", ",", "", "%", "", "_", "").Replace(s)
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		r.err = eris.Wrapf(err, "column %q", col)
		return 0
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		r.err = eris.Errorf("column %q: non-finite value %q", col, r.str(col))
		return 0
	}
	if pct {
		v /= 100
	}
	return v
}

func (r *rowReader) floatPtr(col string) *float64 {
	if !r.has(col) {
		return nil
	}
	v := r.float(col)
	return &v
}

func (r *rowReader) integer(col string) int {
	return int(r.float(col))
}

func (r *rowReader) boolean(col string) bool {
	v := r.boolPtr(col)
	return v != nil && *v
}

func (r *rowReader) boolPtr(col string) *bool {
	s := strings.ToLower(r.str(col))
	if s == "" || r.err != nil {
		return nil
	}
	var v bool
	switch s {
	case "y", "yes":
		v = true
	case "n", "no":
		v = false
	default:
		b, err := strconv.ParseBool(s)
		if err != nil {
			r.err = eris.Wrapf(err, "column %q", col)
			return nil
		}
		v = b
	}
	return &v
}

func parseRow(row []string, colIdx map[string]int) (capital.LoanExposure, error) {
	r := &rowReader{row: row, colIdx: colIdx}

	l := capital.LoanExposure{
		ID:                   r.str("id"),
		Approach:             basel.Approach(r.str("approach")),
		EAD:                  r.float("ead"),
		Balance:              r.float("balance"),
		MaturityMonths:       r.integer("maturity_months"),
		AmortizationMonths:   r.integer("amortization_months"),
		InterestRate:         r.float("interest_rate"),
		PD:                   r.float("pd"),
		LGD:                  r.float("lgd"),
		ExposureType:         basel.ExposureType(r.str("exposure_type")),
		RatingBucket:         basel.RatingBucket(r.str("rating_bucket")),
		CapitalRatio:         r.float("capital_ratio"),
		Jurisdiction:         basel.Jurisdiction(r.str("jurisdiction")),
		ApplyBaselineFloors:  r.boolPtr("apply_bcbs_baseline_floors"),
		CollateralType:       basel.CollateralType(r.str("collateral_type")),
		AnnualRevenue:        r.float("annual_revenue"),
		RevenueThreshold:     r.float("revenue_threshold"),
		LargeCorporateSwitch: r.boolPtr("large_corporate_switch"),
		ForceFoundationIRB:   r.boolean("force_foundation_irb"),
	}
	l.RegulatoryRetail = r.boolean("is_regulatory_retail")
	l.PrudentMortgage = r.boolean("is_prudent_mortgage")
	l.PropertyValue = r.float("property_value")
	l.IncomeDependent = r.boolean("property_income_dependent")
	l.CounterpartyType = basel.ExposureType(r.str("counterparty_type"))

	if r.has("loan_type") || r.has("commitment") {
		l.Facility = &ead.Facility{
			LoanType:           r.str("loan_type"),
			Commitment:         r.float("commitment"),
			Balance:            l.Balance,
			UtilizationPct:     r.floatPtr("utilization_pct"),
			UndrawnCCFOverride: r.floatPtr("undrawn_ccf_override"),
		}
	}

	if r.err != nil {
		return capital.LoanExposure{}, r.err
	}
	return l, nil
}
