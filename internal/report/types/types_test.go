package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseReportType(t *testing.T) {
	cases := map[string]ReportType{
		"sales":          ReportTypeSalesStat,
		"SalesStat":      ReportTypeSalesStat,
		"sales-stat":     ReportTypeSalesStat,
		"Invoice":        ReportTypeInvoiceStat,
		"invoice-stat":   ReportTypeInvoiceStat,
		"po":             ReportTypePOQuery,
		"purchase-order": ReportTypePOQuery,
		"POQuery":        ReportTypePOQuery,
		"inventory":      ReportTypeInventory,
		"STOCK":          ReportTypeInventory,
		" stock ":        ReportTypeInventory,
	}

	for name, want := range cases {
		got, err := ParseReportType(name)
		require.NoErrorf(t, err, "name %q", name)
		assert.Equal(t, want, got)
	}
}

func TestParseReportTypeUnknown(t *testing.T) {
	_, err := ParseReportType("payroll")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "payroll")
}

func TestParseFormat(t *testing.T) {
	for input, want := range map[string]Format{
		"":     FormatPDF,
		"pdf":  FormatPDF,
		"PDF":  FormatPDF,
		"csv":  FormatCSV,
		"xlsx": FormatXLSX,
		"XLSX": FormatXLSX,
	} {
		got, err := ParseFormat(input)
		require.NoErrorf(t, err, "input %q", input)
		assert.Equal(t, want, got)
	}

	_, err := ParseFormat("docx")
	assert.Error(t, err)
}
