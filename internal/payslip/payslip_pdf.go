package payslip

import (
	"bytes"
	"fmt"
	"strings"
)

// buildPayslipDocument renders the slip as a single-page PDF without pulling
// in a rendering dependency. Layout is a fixed-width text column.
func buildPayslipDocument(slip *Payslip) ([]byte, error) {
	lines := payslipLines(slip)

	var content strings.Builder
	content.WriteString("BT\n/F1 12 Tf\n14 TL\n50 800 Td\n")
	for i, line := range lines {
		escaped := pdfEscape(line)
		if i == 0 {
			content.WriteString(fmt.Sprintf("(%s) Tj\n", escaped))
			continue
		}
		content.WriteString(fmt.Sprintf("T* (%s) Tj\n", escaped))
	}
	content.WriteString("ET")

	stream := content.String()
	objects := []string{
		"1 0 obj\n<< /Type /Catalog /Pages 2 0 R >>\nendobj\n",
		"2 0 obj\n<< /Type /Pages /Kids [3 0 R] /Count 1 >>\nendobj\n",
		"3 0 obj\n<< /Type /Page /Parent 2 0 R /MediaBox [0 0 595 842] /Resources << /Font << /F1 4 0 R >> >> /Contents 5 0 R >>\nendobj\n",
		"4 0 obj\n<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>\nendobj\n",
		fmt.Sprintf("5 0 obj\n<< /Length %d >>\nstream\n%s\nendstream\nendobj\n", len(stream), stream),
	}

	var out bytes.Buffer
	out.WriteString("%PDF-1.4\n")
	offsets := make([]int, 0, len(objects)+1)
	offsets = append(offsets, 0)

	for _, obj := range objects {
		offsets = append(offsets, out.Len())
		out.WriteString(obj)
	}

	xrefStart := out.Len()
	out.WriteString(fmt.Sprintf("xref\n0 %d\n", len(offsets)))
	out.WriteString("0000000000 65535 f \n")
	for i := 1; i < len(offsets); i++ {
		out.WriteString(fmt.Sprintf("%010d 00000 n \n", offsets[i]))
	}
	out.WriteString(fmt.Sprintf("trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF", len(offsets), xrefStart))

	return out.Bytes(), nil
}

func payslipLines(slip *Payslip) []string {
	lines := []string{
		"PAYSLIP",
		fmt.Sprintf("Payslip ID: %s", slip.ID),
		fmt.Sprintf("Employee:   %s", slip.EmployeeID),
		fmt.Sprintf("Period:     %s to %s", slip.PeriodStart.Format("2006-01-02"), slip.PeriodEnd.Format("2006-01-02")),
		fmt.Sprintf("Tax regime: %s", slip.TaxLawVersion),
		"",
		fmt.Sprintf("Gross pay            %s", formatMinor(slip.GrossPay)),
		fmt.Sprintf("Pre-tax deductions  -%s", formatMinor(slip.PreTaxDeductions)),
		fmt.Sprintf("Reliefs             -%s", formatMinor(slip.ReliefTotal)),
		fmt.Sprintf("Taxable income       %s", formatMinor(slip.TaxableIncome)),
		fmt.Sprintf("Income tax          -%s", formatMinor(slip.Tax)),
		fmt.Sprintf("Post-tax deductions -%s", formatMinor(slip.PostTaxDeductions)),
	}

	if slip.AdvanceRepayment > 0 {
		lines = append(lines, fmt.Sprintf("Advance repayment   -%s", formatMinor(slip.AdvanceRepayment)))
	}

	lines = append(lines,
		fmt.Sprintf("NET PAY              %s", formatMinor(slip.NetPay)),
		"",
		fmt.Sprintf("Employer pension      %s", formatMinor(slip.EmployerPension)),
		fmt.Sprintf("Employer housing fund %s", formatMinor(slip.EmployerHousingFund)),
		"",
		fmt.Sprintf("YTD gross %s / YTD tax %s / YTD pension %s / YTD net %s",
			formatMinor(slip.YTDGross), formatMinor(slip.YTDTax),
			formatMinor(slip.YTDPension), formatMinor(slip.YTDNet)),
	)

	if slip.Status == StatusCancelled {
		lines = append(lines, "", fmt.Sprintf("CANCELLED: %s", slip.CancelReason))
	}

	return lines
}

// formatMinor renders a minor-unit amount with two decimal places.
func formatMinor(v int64) string {
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}

func pdfEscape(v string) string {
	replacer := strings.NewReplacer("\\", "\\\\", "(", "\\(", ")", "\\)")
	return replacer.Replace(v)
}
