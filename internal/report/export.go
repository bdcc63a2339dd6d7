package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/capital-cli/internal/capital"
	"github.com/sells-group/capital-cli/internal/portfolio"
)

// Columns is the header written by WriteCSV and WriteXLSX.
var Columns = []string{
	"id",
	"status",
	"requested_approach",
	"effective_approach",
	"exposure_type",
	"rating_bucket",
	"jurisdiction",
	"ead",
	"risk_weight",
	"effective_risk_weight",
	"rwa",
	"capital_ratio",
	"capital_required",
	"pd_used",
	"lgd_used",
	"lgd_mode",
	"output_floor_binding",
	"background_switch",
	"reason",
	"notes",
}

// Row flattens a result into export cells, one per entry in Columns.
func Row(r capital.CapitalResult) []string {
	pd, lgd, mode := "", "", ""
	if r.IRB != nil {
		pd = fmt.Sprintf("%g", r.IRB.PDUsed)
		lgd = fmt.Sprintf("%g", r.IRB.LGDUsed)
		mode = string(r.IRB.LGDMode)
	}

	reason := r.Reason
	if r.Error != "" {
		reason = r.Error
	}

	return []string{
		r.ID,
		string(r.Status),
		string(r.RequestedApproach),
		string(r.EffectiveApproach),
		string(r.ExposureType),
		string(r.RatingBucket),
		string(r.Jurisdiction),
		Cents(r.EAD),
		weight(r.RiskWeight),
		weight(r.EffectiveRiskWeight),
		Cents(r.RWA),
		fmt.Sprintf("%g", r.CapitalRatio),
		Cents(r.CapitalRequired),
		pd,
		lgd,
		mode,
		fmt.Sprintf("%t", r.OutputFloorBinding()),
		fmt.Sprintf("%t", r.BackgroundSwitch != nil),
		reason,
		strings.Join(r.Notes, "; "),
	}
}

func weight(v *float64) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%.6f", *v)
}

// WriteCSV writes results as CSV with a Columns header.
func WriteCSV(out io.Writer, results []capital.CapitalResult) error {
	w := csv.NewWriter(out)

	if err := w.Write(Columns); err != nil {
		return eris.Wrap(err, "report: write CSV header")
	}
	for _, r := range results {
		if err := w.Write(Row(r)); err != nil {
			return eris.Wrap(err, "report: write CSV row")
		}
	}

	w.Flush()
	return eris.Wrap(w.Error(), "report: flush CSV")
}

// WriteXLSX saves a workbook with a Results sheet and a Summary sheet.
func WriteXLSX(path string, results []capital.CapitalResult, s portfolio.Summary) error {
	f := xlsx.NewFile()

	sheet, err := f.AddSheet("Results")
	if err != nil {
		return eris.Wrap(err, "report: add results sheet")
	}
	addStrings(sheet.AddRow(), Columns)
	for _, r := range results {
		addStrings(sheet.AddRow(), Row(r))
	}

	sum, err := f.AddSheet("Summary")
	if err != nil {
		return eris.Wrap(err, "report: add summary sheet")
	}
	for _, kv := range [][2]string{
		{"loans", fmt.Sprintf("%d", s.Count)},
		{"total_ead", s.TotalEAD.StringFixed(2)},
		{"total_rwa", s.TotalRWA.StringFixed(2)},
		{"total_capital_required", s.TotalCapital.StringFixed(2)},
		{"average_risk_weight", s.AverageRiskWeight.String()},
		{"output_floor_binding", fmt.Sprintf("%d", s.OutputFloorBinding)},
		{"background_switches", fmt.Sprintf("%d", s.BackgroundSwitches)},
	} {
		addStrings(sum.AddRow(), kv[:])
	}

	if err := f.Save(path); err != nil {
		return eris.Wrapf(err, "report: save %s", path)
	}
	return nil
}

func addStrings(row *xlsx.Row, cells []string) {
	for _, v := range cells {
		row.AddCell().SetString(v)
	}
}

// document is the JSON shape written for batch output files.
type document struct {
	Results []capital.CapitalResult `json:"results"`
	Summary portfolio.Summary       `json:"summary"`
}

// WriteFile writes results to path, choosing the format from its extension:
// .csv, .xlsx or .json.
func WriteFile(path string, results []capital.CapitalResult, s portfolio.Summary) error {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".xlsx" {
		return WriteXLSX(path, results, s)
	}
	if ext != ".csv" && ext != ".json" {
		return eris.Errorf("report: unsupported output format %q", ext)
	}

	f, err := os.Create(path)
	if err != nil {
		return eris.Wrap(err, "report: create file")
	}
	defer f.Close()

	if ext == ".csv" {
		return WriteCSV(f, results)
	}

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(document{Results: results, Summary: s}); err != nil {
		return eris.Wrap(err, "report: encode JSON")
	}
	return nil
}
