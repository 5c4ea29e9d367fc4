package payslip

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func testSlip() *Payslip {
	return &Payslip{
		ID:          uuid.New(),
		CompanyID:   uuid.New(),
		PayRunID:    uuid.New(),
		EmployeeID:  uuid.New(),
		PeriodStart: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
		PeriodEnd:   time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC),
		TaxYear:     2026,

		GrossPay:         300_000,
		TaxableIncome:    40_000,
		ReliefTotal:      260_000,
		Tax:              2_800,
		AdvanceRepayment: 10_000,
		NetPay:           287_200,

		TaxLawVersion: "2011-regime",
		Status:        StatusIssued,
	}
}

func TestBuildPayslipDocument(t *testing.T) {
	slip := testSlip()

	data, err := buildPayslipDocument(slip)

	assert.NoError(t, err)
	doc := string(data)
	assert.True(t, len(data) > 0)
	assert.Equal(t, "%PDF-1.4\n", doc[:9])
	assert.Contains(t, doc, "(PAYSLIP) Tj")
	assert.Contains(t, doc, slip.EmployeeID.String())
	assert.Contains(t, doc, "2026-02-01 to 2026-02-28")
	assert.Contains(t, doc, "NET PAY              2872.00")
	assert.Contains(t, doc, "Advance repayment   -100.00")
	assert.Contains(t, doc, "startxref")
	assert.Contains(t, doc, "%%EOF")
}

func TestPayslipLines_CancelledSlipCarriesReason(t *testing.T) {
	slip := testSlip()
	slip.Status = StatusCancelled
	slip.CancelReason = "duplicate issue"

	lines := payslipLines(slip)

	assert.Equal(t, "CANCELLED: duplicate issue", lines[len(lines)-1])
}

func TestPayslipLines_ZeroAdvanceOmitted(t *testing.T) {
	slip := testSlip()
	slip.AdvanceRepayment = 0

	for _, line := range payslipLines(slip) {
		assert.NotContains(t, line, "Advance repayment")
	}
}

func TestFormatMinor(t *testing.T) {
	assert.Equal(t, "0.00", formatMinor(0))
	assert.Equal(t, "0.05", formatMinor(5))
	assert.Equal(t, "1.50", formatMinor(150))
	assert.Equal(t, "3000.00", formatMinor(300_000))
	assert.Equal(t, "-12.34", formatMinor(-1234))
}

func TestPDFEscape(t *testing.T) {
	assert.Equal(t, `Dept \(Sales\)`, pdfEscape("Dept (Sales)"))
	assert.Equal(t, `a\\b`, pdfEscape(`a\b`))
}
