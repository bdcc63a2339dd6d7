package portfolio

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/capital-cli/internal/basel"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func createTestXLSX(t *testing.T, rows [][]string) string {
	t.Helper()
	f := xlsx.NewFile()
	sheet, err := f.AddSheet("Loans")
	require.NoError(t, err)
	for _, rowData := range rows {
		row := sheet.AddRow()
		for _, cellData := range rowData {
			row.AddCell().SetString(cellData)
		}
	}
	path := filepath.Join(t.TempDir(), "tape.xlsx")
	require.NoError(t, f.Save(path))
	return path
}

const csvTape = `Loan ID,Approach,EAD,PD,LGD,Maturity,Exposure Type,Rating,Jurisdiction,Collateral,Regulatory Retail
# comment lines are skipped
L1,BASEL_III_STANDARDIZED,"1,000,000",,,,CORPORATE,BBB,US,,
L2,Basel III - IRB (Foundation) + Output Floor,$1000000,1%,45,36,corporate,,can,real_estate,no

,,,,,,,,,,
L3,BASEL_II_STANDARDIZED,250000,,,,Retail,,,,yes
`

func TestLoad_CSV(t *testing.T) {
	path := writeFile(t, "tape.csv", csvTape)

	loans, err := Load(context.Background(), path, LoadOptions{})
	require.NoError(t, err)
	require.Len(t, loans, 3)

	assert.Equal(t, "L1", loans[0].ID)
	assert.Equal(t, basel.ApproachBasel3Standardized, loans[0].Approach)
	assert.InDelta(t, 1_000_000, loans[0].EAD, 1e-9)
	assert.Equal(t, basel.RatingBucket("BBB"), loans[0].RatingBucket)

	assert.InDelta(t, 0.01, loans[1].PD, 1e-15)
	assert.InDelta(t, 45, loans[1].LGD, 1e-15)
	assert.Equal(t, 36, loans[1].MaturityMonths)
	assert.Equal(t, basel.Jurisdiction("can"), loans[1].Jurisdiction)
	assert.Equal(t, basel.CollateralType("real_estate"), loans[1].CollateralType)
	assert.False(t, loans[1].RegulatoryRetail)

	assert.True(t, loans[2].RegulatoryRetail)
	assert.Nil(t, loans[2].Facility)
}

func TestLoad_CSVBadNumber(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []string
	}{
		{"unparseable", "id,ead\nL1,lots\n", []string{"line 2", `column "ead"`}},
		{"nan revenue", "id,approach,exposure_type,annual_revenue\nL1,BASEL_III_IRB_ADVANCED,CORPORATE,NaN\n", []string{"line 2", `column "annual_revenue"`, "non-finite"}},
		{"infinite ead", "id,ead\nL1,+Inf\n", []string{`column "ead"`, "non-finite"}},
		{"infinite percent", "id,pd\nL1,Inf%\n", []string{`column "pd"`, "non-finite"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, "tape.csv", tt.content)

			_, err := Load(context.Background(), path, LoadOptions{})
			require.Error(t, err)
			for _, w := range tt.want {
				assert.Contains(t, err.Error(), w)
			}
		})
	}
}

func TestLoad_CSVFacility(t *testing.T) {
	path := writeFile(t, "tape.csv", "id,approach,balance,loan_type,commitment,utilization\nF1,BASEL_II_STANDARDIZED,0,LOC,1000,40%\n")

	loans, err := Load(context.Background(), path, LoadOptions{})
	require.NoError(t, err)
	require.Len(t, loans, 1)
	require.NotNil(t, loans[0].Facility)
	assert.Equal(t, "LOC", loans[0].Facility.LoanType)
	assert.InDelta(t, 1000, loans[0].Facility.Commitment, 1e-9)
	require.NotNil(t, loans[0].Facility.UtilizationPct)
	assert.InDelta(t, 0.40, *loans[0].Facility.UtilizationPct, 1e-15)
}

func TestLoad_XLSX(t *testing.T) {
	path := createTestXLSX(t, [][]string{
		{"id", "approach", "ead", "exposure_type", "rating_bucket", "large_corporate_switch"},
		{"X1", "BASEL_III_IRB_ADVANCED", "500000", "CORPORATE", "A", "false"},
		{"", "BASEL_II_STANDARDIZED", "100", "OTHER", "", ""},
	})

	loans, err := Load(context.Background(), path, LoadOptions{})
	require.NoError(t, err)
	require.Len(t, loans, 2)
	assert.Equal(t, "X1", loans[0].ID)
	require.NotNil(t, loans[0].LargeCorporateSwitch)
	assert.False(t, *loans[0].LargeCorporateSwitch)
	assert.NotEmpty(t, loans[1].ID, "missing ids are generated")
	assert.Nil(t, loans[1].LargeCorporateSwitch)
}

func TestLoad_XLSXMissingSheet(t *testing.T) {
	path := createTestXLSX(t, [][]string{{"id"}, {"a"}})

	_, err := Load(context.Background(), path, LoadOptions{Sheet: "Nope"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestLoad_YAML(t *testing.T) {
	path := writeFile(t, "tape.yaml", `
loans:
  - id: Y1
    approach: BASEL_III_STANDARDIZED
    ead: 1200000
    exposure_type: COMMERCIAL_REAL_ESTATE
    property_value: 2000000
    property_income_dependent: true
    counterparty_type: BANK
  - approach: BASEL_II_IRB
    ead: 1000000
    pd: 0.01
    exposure_type: CORPORATE
    apply_bcbs_baseline_floors: true
    facility:
      loan_type: LOC
      commitment: 10
`)

	loans, err := Load(context.Background(), path, LoadOptions{})
	require.NoError(t, err)
	require.Len(t, loans, 2)
	assert.InDelta(t, 2_000_000, loans[0].PropertyValue, 1e-9)
	assert.True(t, loans[0].IncomeDependent)
	assert.Equal(t, basel.ExposureBank, loans[0].CounterpartyType)
	require.NotNil(t, loans[1].ApplyBaselineFloors)
	assert.True(t, *loans[1].ApplyBaselineFloors)
	require.NotNil(t, loans[1].Facility)
	assert.NotEmpty(t, loans[1].ID)
}

func TestLoad_JSONList(t *testing.T) {
	path := writeFile(t, "tape.json", `[
  {"id": "J1", "approach": "BASEL_III_STANDARDIZED", "ead": 10, "exposure_type": "RETAIL", "is_regulatory_retail": true}
]`)

	loans, err := Load(context.Background(), path, LoadOptions{})
	require.NoError(t, err)
	require.Len(t, loans, 1)
	assert.True(t, loans[0].RegulatoryRetail)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(context.Background(), writeFile(t, "tape.txt", "x"), LoadOptions{})
	assert.ErrorContains(t, err, "unsupported file type")

	_, err = Load(context.Background(), filepath.Join(t.TempDir(), "missing.csv"), LoadOptions{})
	assert.Error(t, err)

	_, err = Load(context.Background(), writeFile(t, "empty.csv", "id,ead\n"), LoadOptions{})
	assert.ErrorContains(t, err, "no loans")

	_, err = Load(context.Background(), writeFile(t, "bad.json", "{"), LoadOptions{})
	assert.Error(t, err)
}

func TestLoad_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Load(ctx, writeFile(t, "tape.csv", csvTape), LoadOptions{})
	assert.Error(t, err)
}
