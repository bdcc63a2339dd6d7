package main

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/capital-cli/internal/basel"
	"github.com/sells-group/capital-cli/internal/capital"
	"github.com/sells-group/capital-cli/internal/ead"
	"github.com/sells-group/capital-cli/internal/report"
	"github.com/sells-group/capital-cli/internal/standardized"
)

var calcFlags struct {
	input               string
	output              string
	id                  string
	approach            string
	ead                 float64
	balance             float64
	maturityMonths      int
	amortizationMonths  int
	interestRate        float64
	pd                  float64
	lgd                 float64
	exposureType        string
	rating              string
	capitalRatio        float64
	jurisdiction        string
	regulatoryRetail    bool
	prudentMortgage     bool
	propertyValue       float64
	incomeDependent     bool
	counterpartyType    string
	collateral          string
	annualRevenue       float64
	revenueThreshold    float64
	applyBaselineFloors bool
	largeCorpSwitch     bool
	forceFoundation     bool
	loanType            string
	commitment          float64
	utilization         float64
}

var calcCmd = &cobra.Command{
	Use:   "calc",
	Short: "Calculate capital for a single loan",
	Long:  "Calculates RWA and required capital for one loan given on flags or in a JSON/YAML file (--input). Text inputs such as approach, exposure type and rating accept legacy display labels.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("calc"); err != nil {
			return err
		}

		var loan capital.LoanExposure
		if calcFlags.input != "" {
			l, err := readLoanFile(calcFlags.input)
			if err != nil {
				return err
			}
			loan = l
		} else {
			loan = loanFromFlags(cmd)
		}

		calc := capital.NewCalculator(cfg.CapitalOptions())
		return writeCalc(cmd.OutOrStdout(), calcFlags.output, calc.Calculate(loan))
	},
}

func init() {
	f := calcCmd.Flags()
	f.StringVar(&calcFlags.input, "input", "", "JSON or YAML file holding one loan")
	f.StringVarP(&calcFlags.output, "output", "o", "table", "output format: table, json or yaml")
	f.StringVar(&calcFlags.id, "id", "", "loan identifier")
	f.StringVar(&calcFlags.approach, "approach", string(basel.ApproachBasel3Standardized), "capital approach (identifier or label)")
	f.Float64Var(&calcFlags.ead, "ead", 0, "exposure at default")
	f.Float64Var(&calcFlags.balance, "balance", 0, "outstanding balance")
	f.IntVar(&calcFlags.maturityMonths, "maturity-months", 0, "remaining maturity in months (0 = default 2.5 years)")
	f.IntVar(&calcFlags.amortizationMonths, "amortization-months", 0, "amortization term in months")
	f.Float64Var(&calcFlags.interestRate, "interest-rate", 0, "interest rate")
	f.Float64Var(&calcFlags.pd, "pd", 0, "probability of default (decimal or percent)")
	f.Float64Var(&calcFlags.lgd, "lgd", 0, "loss given default for Advanced IRB (decimal or percent)")
	f.StringVar(&calcFlags.exposureType, "exposure-type", string(basel.ExposureCorporate), "exposure type")
	f.StringVar(&calcFlags.rating, "rating", string(basel.RatingUnrated), "external rating bucket")
	f.Float64Var(&calcFlags.capitalRatio, "capital-ratio", 0, "capital ratio (default from config)")
	f.StringVar(&calcFlags.jurisdiction, "jurisdiction", "", "US, CAN or EU (default from config)")
	f.BoolVar(&calcFlags.regulatoryRetail, "regulatory-retail", false, "retail exposure qualifies as regulatory retail")
	f.BoolVar(&calcFlags.prudentMortgage, "prudent-mortgage", false, "mortgage meets prudential criteria")
	f.Float64Var(&calcFlags.propertyValue, "property-value", 0, "CRE property value")
	f.BoolVar(&calcFlags.incomeDependent, "income-dependent", false, "CRE repayment depends on property cash flows")
	f.StringVar(&calcFlags.counterpartyType, "counterparty-type", "", "CRE counterparty exposure type")
	f.StringVar(&calcFlags.collateral, "collateral", "", "collateral type for the Advanced IRB LGD floor")
	f.Float64Var(&calcFlags.annualRevenue, "annual-revenue", 0, "borrower annual revenue")
	f.Float64Var(&calcFlags.revenueThreshold, "revenue-threshold", 0, "large-corporate revenue threshold (default by jurisdiction)")
	f.BoolVar(&calcFlags.applyBaselineFloors, "apply-baseline-floors", false, "apply BCBS baseline IRB floors for US exposures")
	f.BoolVar(&calcFlags.largeCorpSwitch, "large-corporate-switch", true, "move large corporates from Advanced to Foundation IRB")
	f.BoolVar(&calcFlags.forceFoundation, "force-foundation-irb", false, "treat an Advanced IRB request as Foundation IRB")
	f.StringVar(&calcFlags.loanType, "loan-type", "", "facility type for EAD: TERM, LOC or LC")
	f.Float64Var(&calcFlags.commitment, "commitment", 0, "facility commitment for EAD")
	f.Float64Var(&calcFlags.utilization, "utilization", -1, "facility utilization (decimal or percent)")
	rootCmd.AddCommand(calcCmd)
}

// loanFromFlags builds a loan from calc flags. Tri-state options are only
// set when the flag was given.
func loanFromFlags(cmd *cobra.Command) capital.LoanExposure {
	f := calcFlags
	l := capital.LoanExposure{
		ID:                 f.id,
		Approach:           basel.Approach(f.approach),
		EAD:                f.ead,
		Balance:            f.balance,
		MaturityMonths:     f.maturityMonths,
		AmortizationMonths: f.amortizationMonths,
		InterestRate:       f.interestRate,
		PD:                 f.pd,
		LGD:                f.lgd,
		ExposureType:       basel.ExposureType(f.exposureType),
		RatingBucket:       basel.RatingBucket(f.rating),
		CapitalRatio:       f.capitalRatio,
		Jurisdiction:       basel.Jurisdiction(f.jurisdiction),
		Flags: standardized.Flags{
			RegulatoryRetail: f.regulatoryRetail,
			PrudentMortgage:  f.prudentMortgage,
		},
		CREInput: standardized.CREInput{
			PropertyValue:    f.propertyValue,
			IncomeDependent:  f.incomeDependent,
			CounterpartyType: basel.ExposureType(f.counterpartyType),
		},
		CollateralType:     basel.CollateralType(f.collateral),
		AnnualRevenue:      f.annualRevenue,
		RevenueThreshold:   f.revenueThreshold,
		ForceFoundationIRB: f.forceFoundation,
	}

	flags := cmd.Flags()
	if flags.Changed("apply-baseline-floors") {
		v := f.applyBaselineFloors
		l.ApplyBaselineFloors = &v
	}
	if flags.Changed("large-corporate-switch") {
		v := f.largeCorpSwitch
		l.LargeCorporateSwitch = &v
	}
	if f.loanType != "" || f.commitment > 0 {
		fac := &ead.Facility{
			LoanType:   f.loanType,
			Commitment: f.commitment,
			Balance:    f.balance,
		}
		if f.utilization >= 0 {
			u := f.utilization
			fac.UtilizationPct = &u
		}
		l.Facility = fac
	}
	return l
}

// readLoanFile decodes one loan from a .json, .yaml or .yml file.
func readLoanFile(path string) (capital.LoanExposure, error) {
	var l capital.LoanExposure

	data, err := os.ReadFile(path)
	if err != nil {
		return l, eris.Wrapf(err, "calc: read %s", path)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		// JSON is a subset of YAML.
		if err := yaml.Unmarshal(data, &l); err != nil {
			return l, eris.Wrapf(err, "calc: parse %s", path)
		}
	default:
		return l, eris.Errorf("calc: unsupported input format %q", filepath.Ext(path))
	}
	return l, nil
}

func writeCalc(out io.Writer, format string, res capital.CapitalResult) error {
	if format == "table" {
		report.WriteResult(out, res)
		return nil
	}
	return writeStructured(out, format, res)
}
