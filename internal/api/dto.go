package api

import (
	"fmt"
	"math"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/sells-group/capital-cli/internal/capital"
	"github.com/sells-group/capital-cli/internal/portfolio"
)

// BatchRequest is the body of POST /v1/loans/capital/batch.
type BatchRequest struct {
	Loans []capital.LoanExposure `json:"loans" validate:"required,min=1,max=10000,dive"`
}

// BatchResponse is the body returned for a batch.
type BatchResponse struct {
	Results []capital.CapitalResult `json:"results"`
	Summary portfolio.Summary       `json:"summary"`
}

// SecuritizationRequest is the body of POST /v1/securitizations/capital.
type SecuritizationRequest struct {
	Approach          string  `json:"approach" validate:"required"`
	Exposure          float64 `json:"exposure" validate:"gte=0"`
	TrancheRating     string  `json:"tranche_rating"`
	CreditEnhancement float64 `json:"credit_enhancement" validate:"gte=0,lte=100"`
}

// ErrorResponse is the body of every 4xx/5xx response.
type ErrorResponse struct {
	Error   string   `json:"error"`
	Details []string `json:"details,omitempty"`
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	v.RegisterStructValidation(validateLoan, capital.LoanExposure{})
	return v
}

// validateLoan rejects values no coercion can repair: negative or
// non-finite amounts and rates. Unknown enumerations are left to the
// calculator, which substitutes defaults and records a note.
func validateLoan(sl validator.StructLevel) {
	l := sl.Current().Interface().(capital.LoanExposure)

	nonNegative := map[string]float64{
		"ead":            l.EAD,
		"balance":        l.Balance,
		"pd":             l.PD,
		"lgd":            l.LGD,
		"capital_ratio":  l.CapitalRatio,
		"property_value": l.PropertyValue,
		"annual_revenue": l.AnnualRevenue,
	}
	for field, v := range nonNegative {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			sl.ReportError(v, field, field, "gte", "0")
		}
	}
	if l.MaturityMonths < 0 {
		sl.ReportError(l.MaturityMonths, "maturity_months", "MaturityMonths", "gte", "0")
	}
	if strings.TrimSpace(string(l.Approach)) == "" {
		sl.ReportError(l.Approach, "approach", "Approach", "required", "")
	}
}

// validationDetails flattens validator errors into "field: rule" strings.
func validationDetails(err error) []string {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []string{err.Error()}
	}
	out := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		rule := fe.Tag()
		if fe.Param() != "" {
			rule = fmt.Sprintf("%s=%s", rule, fe.Param())
		}
		out = append(out, fmt.Sprintf("%s: %s", fe.Namespace(), rule))
	}
	return out
}
