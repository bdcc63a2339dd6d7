package api

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/sells-group/capital-cli/internal/basel"
	"github.com/sells-group/capital-cli/internal/capital"
	"github.com/sells-group/capital-cli/internal/coerce"
	"github.com/sells-group/capital-cli/internal/portfolio"
	"github.com/sells-group/capital-cli/internal/securitization"
	"github.com/sells-group/capital-cli/internal/standardized"
)

// maxBodyBytes bounds request bodies; batch tapes are the largest.
const maxBodyBytes = 32 << 20

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Warn("api: encode response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, msg string, details []string) {
	writeJSON(w, status, ErrorResponse{Error: msg, Details: details})
}

// decode reads a JSON body into v and validates it. It writes the 400
// response itself and reports whether the handler should continue.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", []string{err.Error()})
		return false
	}
	if err := s.validate.Struct(v); err != nil {
		writeError(w, http.StatusBadRequest, "validation failed", validationDetails(err))
		return false
	}
	return true
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleLoan(w http.ResponseWriter, r *http.Request) {
	var loan capital.LoanExposure
	if !s.decode(w, r, &loan) {
		return
	}
	writeJSON(w, http.StatusOK, s.calc.Calculate(loan))
}

func (s *Server) handleBatch(w http.ResponseWriter, r *http.Request) {
	var req BatchRequest
	if !s.decode(w, r, &req) {
		return
	}

	results, err := portfolio.NewRunner(s.calc, s.opts.Concurrency).Run(r.Context(), req.Loans)
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, "batch cancelled", []string{err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, BatchResponse{
		Results: results,
		Summary: portfolio.Summarize(results),
	})
}

func (s *Server) handleSecuritization(w http.ResponseWriter, r *http.Request) {
	var req SecuritizationRequest
	if !s.decode(w, r, &req) {
		return
	}
	writeJSON(w, http.StatusOK, securitization.Calculate(req.Approach, req.Exposure, req.TrancheRating, req.CreditEnhancement))
}

// Option is one enumeration entry for form front ends.
type Option struct {
	Code  string `json:"code"`
	Label string `json:"label"`
}

// ApproachOption adds the regime and method an approach belongs to.
type ApproachOption struct {
	Option
	Regime         basel.Regime `json:"regime"`
	Method         basel.Method `json:"method"`
	OutputFloored  bool         `json:"output_floored"`
	OwnLGDEstimate bool         `json:"own_lgd_estimate"`
}

func (s *Server) handleApproaches(w http.ResponseWriter, _ *http.Request) {
	var out []ApproachOption
	for _, a := range basel.Approaches() {
		out = append(out, ApproachOption{
			Option:         Option{Code: string(a), Label: a.Label()},
			Regime:         a.Regime(),
			Method:         a.Method(),
			OutputFloored:  a.IsOutputFloored(),
			OwnLGDEstimate: a.IsAdvancedIRB(),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleExposureTypes(w http.ResponseWriter, _ *http.Request) {
	var out []Option
	for _, e := range basel.ExposureTypes() {
		out = append(out, Option{Code: string(e), Label: e.Label()})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleRatingBuckets(w http.ResponseWriter, _ *http.Request) {
	var out []Option
	for _, b := range basel.RatingBuckets() {
		out = append(out, Option{Code: string(b), Label: b.Label()})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCollateralTypes(w http.ResponseWriter, _ *http.Request) {
	var out []Option
	for _, c := range basel.CollateralTypes() {
		out = append(out, Option{Code: string(c), Label: c.Label()})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleRiskWeights(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("regime")
	if raw == "" {
		raw = string(basel.RegimeBasel3)
	}
	regime, ok := coerce.Regime(raw)
	if !ok {
		writeError(w, http.StatusBadRequest, "unknown regime", []string{raw})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"regime": regime,
		"rows":   standardized.Table(regime),
	})
}
