package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/sells-group/capital-cli/internal/basel"
	"github.com/sells-group/capital-cli/internal/capital"
	"github.com/sells-group/capital-cli/internal/portfolio"
	"github.com/sells-group/capital-cli/internal/standardized"
)

// WriteResult writes one result as a key/value listing with its diagnostic
// sections.
func WriteResult(out io.Writer, r capital.CapitalResult) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(w, "Status:\t%s\n", r.Status)
	if r.Error != "" {
		_, _ = fmt.Fprintf(w, "Error:\t%s\n", r.Error)
	}
	if r.Reason != "" {
		_, _ = fmt.Fprintf(w, "Reason:\t%s\n", r.Reason)
	}
	if r.SuggestedApproach != "" {
		_, _ = fmt.Fprintf(w, "Suggested:\t%s\n", r.SuggestedApproachLabel)
	}
	_, _ = fmt.Fprintf(w, "Requested:\t%s\n", r.RequestedApproachLabel)
	_, _ = fmt.Fprintf(w, "Effective:\t%s\n", r.EffectiveApproachLabel)
	_, _ = fmt.Fprintf(w, "Exposure:\t%s / %s / %s\n", r.ExposureType.Label(), r.RatingBucket.Label(), r.Jurisdiction)
	_, _ = fmt.Fprintf(w, "EAD:\t%s\n", Currency(r.EAD))

	if r.Status == capital.StatusOK {
		if r.RiskWeight != nil {
			_, _ = fmt.Fprintf(w, "Risk weight:\t%s\n", r.RiskWeightPct)
		}
		_, _ = fmt.Fprintf(w, "Effective risk weight:\t%s\n", optPercent(r.EffectiveRiskWeight))
		_, _ = fmt.Fprintf(w, "RWA:\t%s\n", Currency(r.RWA))
		_, _ = fmt.Fprintf(w, "Capital ratio:\t%s\n", Percent(r.CapitalRatio))
		_, _ = fmt.Fprintf(w, "Capital required:\t%s\n", Currency(r.CapitalRequired))
	}

	if sw := r.BackgroundSwitch; sw != nil {
		_, _ = fmt.Fprintf(w, "\nBackground switch:\t%s -> %s (%s)\n", sw.FromApproachLabel, sw.ToApproachLabel, sw.Trigger)
		_, _ = fmt.Fprintf(w, "  Annual revenue:\t%s\n", Compact(sw.AnnualRevenue))
		_, _ = fmt.Fprintf(w, "  Threshold used:\t%s\n", Compact(sw.RevenueThresholdUsed))
	}

	if d := r.IRB; d != nil {
		_, _ = fmt.Fprintf(w, "\nIRB\t\n")
		_, _ = fmt.Fprintf(w, "  PD input / used:\t%g / %g\n", d.PDInput, d.PDUsed)
		if d.PDNote != "" {
			_, _ = fmt.Fprintf(w, "  PD note:\t%s\n", d.PDNote)
		}
		_, _ = fmt.Fprintf(w, "  LGD mode:\t%s (%s)\n", d.LGDMode, d.LGDSource)
		_, _ = fmt.Fprintf(w, "  LGD used:\t%g\n", d.LGDUsed)
		if d.LGDFloorApplied {
			_, _ = fmt.Fprintf(w, "  LGD floor:\t%s\n", optPercent(d.LGDFloorValue))
		}
		_, _ = fmt.Fprintf(w, "  LGD rule path:\t%s\n", d.LGDRulePath)
		_, _ = fmt.Fprintf(w, "  Maturity (years):\t%g\n", d.MaturityYears)
		_, _ = fmt.Fprintf(w, "  Correlation R:\t%.6f\n", d.Correlation)
		_, _ = fmt.Fprintf(w, "  b(PD):\t%.6f\n", d.MaturityB)
		_, _ = fmt.Fprintf(w, "  K / K adjusted:\t%.6f / %.6f\n", d.KBeforeMaturity, d.KAdjusted)
		_, _ = fmt.Fprintf(w, "  Maturity adjustment:\t%.6f\n", d.MaturityAdjustment)
		_, _ = fmt.Fprintf(w, "  Scaling factor:\t%g\n", d.ScalingFactor)
	}

	if d := r.CREDetails; d != nil {
		writeCRE(w, d)
	}

	if f := r.OutputFloor; f != nil {
		_, _ = fmt.Fprintf(w, "\nOutput floor\t\n")
		_, _ = fmt.Fprintf(w, "  Standardized RW:\t%s\n", Percent(f.StandardizedRiskWeight))
		_, _ = fmt.Fprintf(w, "  Standardized RWA:\t%s\n", Currency(f.StandardizedRWA))
		_, _ = fmt.Fprintf(w, "  Floor RWA (%s):\t%s\n", Percent(f.Factor), Currency(f.FloorRWA))
		_, _ = fmt.Fprintf(w, "  RWA pre / post:\t%s / %s\n", Currency(f.RWAPreFloor), Currency(f.RWAPostFloor))
		_, _ = fmt.Fprintf(w, "  Binding:\t%t\n", f.Binding)
		if f.CREDetails != nil {
			writeCRE(w, f.CREDetails)
		}
	}

	if d := r.EADDetails; d != nil {
		_, _ = fmt.Fprintf(w, "\nEAD\t%s\n", d.CalcPath)
	}

	if len(r.Notes) > 0 {
		_, _ = fmt.Fprintf(w, "\nNotes:\t%s\n", strings.Join(r.Notes, "; "))
	}
	_ = w.Flush()
}

func writeCRE(w io.Writer, d *standardized.CREDetail) {
	_, _ = fmt.Fprintf(w, "\nCRE\t\n")
	_, _ = fmt.Fprintf(w, "  Rule path:\t%s\n", d.RulePath)
	_, _ = fmt.Fprintf(w, "  LTV bucket:\t%s\n", d.LTVBucket)
	_, _ = fmt.Fprintf(w, "  Counterparty:\t%s (%s)\n", d.CounterpartyTypeLabel, Percent(d.CounterpartyRW))
	_, _ = fmt.Fprintf(w, "  RW applied:\t%s\n", Percent(d.RWApplied))
}

// WriteResults writes a one-line-per-loan table.
func WriteResults(out io.Writer, results []capital.CapitalResult) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tSTATUS\tAPPROACH\tEXPOSURE\tEAD\tRW\tRWA\tCAPITAL\tFLOOR")
	_, _ = fmt.Fprintln(w, "--\t------\t--------\t--------\t---\t--\t---\t-------\t-----")

	for _, r := range results {
		floor := ""
		if r.OutputFloorBinding() {
			floor = "binding"
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			truncateID(r.ID),
			r.Status,
			r.EffectiveApproach,
			r.ExposureType,
			Currency(r.EAD),
			optPercent(r.EffectiveRiskWeight),
			Currency(r.RWA),
			Currency(r.CapitalRequired),
			floor,
		)
	}
	_ = w.Flush()
}

// WriteSummary writes portfolio totals.
func WriteSummary(out io.Writer, s portfolio.Summary) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(w, "Loans:\t%d\n", s.Count)
	for _, st := range []capital.Status{capital.StatusOK, capital.StatusStub, capital.StatusNotApplicable, capital.StatusError} {
		if n := s.ByStatus[st]; n > 0 {
			_, _ = fmt.Fprintf(w, "  %s:\t%d\n", st, n)
		}
	}
	_, _ = fmt.Fprintf(w, "Total EAD:\t%s\n", Currency(s.TotalEAD.InexactFloat64()))
	_, _ = fmt.Fprintf(w, "Total RWA:\t%s\n", Currency(s.TotalRWA.InexactFloat64()))
	_, _ = fmt.Fprintf(w, "Total capital:\t%s\n", Currency(s.TotalCapital.InexactFloat64()))
	_, _ = fmt.Fprintf(w, "Average RW:\t%s\n", Percent(s.AverageRiskWeight.InexactFloat64()))
	_, _ = fmt.Fprintf(w, "Output floor binding:\t%d\n", s.OutputFloorBinding)
	_, _ = fmt.Fprintf(w, "Background switches:\t%d\n", s.BackgroundSwitches)
	_ = w.Flush()
}

// WriteRiskWeights writes the Standardized grid for one regime.
func WriteRiskWeights(out io.Writer, rows []standardized.Row) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	header := []string{"EXPOSURE"}
	for _, r := range basel.RatingBuckets() {
		header = append(header, r.Label())
	}
	_, _ = fmt.Fprintln(w, strings.Join(append(header, "NOTE"), "\t"))

	for _, row := range rows {
		cells := []string{row.Label}
		for _, v := range row.Weights {
			cells = append(cells, fmt.Sprintf("%.0f%%", v*100))
		}
		_, _ = fmt.Fprintln(w, strings.Join(append(cells, row.Note), "\t"))
		if len(row.Qualifying) > 0 {
			q := []string{"  qualifying"}
			for _, v := range row.Qualifying {
				q = append(q, fmt.Sprintf("%.0f%%", v*100))
			}
			_, _ = fmt.Fprintln(w, strings.Join(append(q, ""), "\t"))
		}
	}
	_ = w.Flush()
}

// truncateID returns the first 8 characters of a UUID for compact display.
func truncateID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
