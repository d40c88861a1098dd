package params

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bizledger/report-exporter/internal/report/types"
)

func TestFilterDropsUnknownKeys(t *testing.T) {
	out := Filter(types.ReportTypeSalesStat, map[string]any{
		"customerId": "C-1",
		"hack":       "1",
		"__proto__":  "x",
	})

	assert.Equal(t, "C-1", out["customerId"])
	assert.NotContains(t, out, "hack")
	assert.NotContains(t, out, "__proto__")
}

func TestFilterOnlyEmitsAllowedKeys(t *testing.T) {
	raw := map[string]any{
		"customerId": "C-1",
		"vendorId":   "V-9",
		"accountId":  "A-2",
		"whse":       "MAIN",
		"page":       3,
		"size":       10,
		"currency":   "USD",
		"groupBy":    "day",
		"from":       "2024-01-01",
	}

	allowed := map[types.ReportType][]string{
		types.ReportTypeSalesStat:   {"range", "customerId", "salesmanId", "productId", "currency", "groupBy"},
		types.ReportTypeInvoiceStat: {"range", "accountId", "status", "currency", "groupBy"},
		types.ReportTypePOQuery:     {"range", "vendorId", "status", "page", "size"},
		types.ReportTypeInventory:   {"productId", "whse", "loc", "range", "page", "size"},
	}

	for reportType, keys := range allowed {
		out := Filter(reportType, raw)
		allowSet := map[string]bool{}
		for _, k := range keys {
			allowSet[k] = true
		}
		for k := range out {
			assert.Truef(t, allowSet[k], "%s emitted disallowed key %q", reportType, k)
		}
	}
}

func TestFilterUnwrapsParamsWrapper(t *testing.T) {
	out := Filter(types.ReportTypeSalesStat, map[string]any{
		"params": map[string]any{"customerId": "C-7"},
	})

	assert.Equal(t, "C-7", out["customerId"])
}

func TestFilterCanonicalizesTimeRange(t *testing.T) {
	cases := []struct {
		name string
		raw  map[string]any
	}{
		{"from/to", map[string]any{"from": "2024-01-01", "to": "2024-01-31"}},
		{"start/end", map[string]any{"start": "2024-01-01", "end": "2024-01-31"}},
		{"startUtc/endUtc", map[string]any{"startUtc": "2024-01-01", "endUtc": "2024-01-31"}},
		{"nested range", map[string]any{"range": map[string]any{"from": "2024-01-01", "end": "2024-01-31"}}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out := Filter(types.ReportTypeSalesStat, tc.raw)
			r, ok := out["range"].(map[string]any)
			require.True(t, ok, "missing range")
			assert.Equal(t, "2024-01-01T00:00:00Z", r["startUtc"])
			assert.Equal(t, "2024-01-31T00:00:00Z", r["endUtc"])
		})
	}
}

func TestFilterAliasPrecedenceIsFixed(t *testing.T) {
	// from beats start beats startUtc, regardless of map iteration order
	out := Filter(types.ReportTypeSalesStat, map[string]any{
		"from":     "2024-01-01",
		"start":    "2099-01-01",
		"startUtc": "2098-01-01",
	})
	r := out["range"].(map[string]any)
	assert.Equal(t, "2024-01-01T00:00:00Z", r["startUtc"])

	out = Filter(types.ReportTypeSalesStat, map[string]any{
		"start":  "2024-02-01",
		"endUtc": "2024-02-29",
		"end":    "2024-02-28",
	})
	r = out["range"].(map[string]any)
	assert.Equal(t, "2024-02-01T00:00:00Z", r["startUtc"])
	assert.Equal(t, "2024-02-28T00:00:00Z", r["endUtc"])

	// top-level aliases beat the nested range object
	out = Filter(types.ReportTypeSalesStat, map[string]any{
		"from":  "2024-03-01",
		"range": map[string]any{"from": "2099-03-01", "to": "2024-03-31"},
	})
	r = out["range"].(map[string]any)
	assert.Equal(t, "2024-03-01T00:00:00Z", r["startUtc"])
	assert.Equal(t, "2024-03-31T00:00:00Z", r["endUtc"])
}

func TestFilterAcceptsFullTimestamps(t *testing.T) {
	out := Filter(types.ReportTypeSalesStat, map[string]any{
		"from": "2024-03-05T10:30:00+02:00",
	})

	r := out["range"].(map[string]any)
	assert.Equal(t, "2024-03-05T08:30:00Z", r["startUtc"])
}

func TestFilterPassesUnparseableInstantsThrough(t *testing.T) {
	out := Filter(types.ReportTypeSalesStat, map[string]any{"from": "not-a-date"})

	r := out["range"].(map[string]any)
	assert.Equal(t, "not-a-date", r["startUtc"])
}

func TestFilterNormalizesGroupBy(t *testing.T) {
	out := Filter(types.ReportTypeSalesStat, map[string]any{"groupBy": "Month"})
	assert.Equal(t, "month", out["groupBy"])

	out = Filter(types.ReportTypeSalesStat, map[string]any{"groupBy": "bogus"})
	assert.NotContains(t, out, "groupBy")

	// account is valid for invoices only
	out = Filter(types.ReportTypeSalesStat, map[string]any{"groupBy": "account"})
	assert.NotContains(t, out, "groupBy")
	out = Filter(types.ReportTypeInvoiceStat, map[string]any{"groupBy": "Account"})
	assert.Equal(t, "account", out["groupBy"])
}

func TestFilterClampsPagination(t *testing.T) {
	out := Filter(types.ReportTypePOQuery, map[string]any{"page": 0, "size": 999})
	assert.Equal(t, 1, out["page"])
	assert.Equal(t, 200, out["size"])

	out = Filter(types.ReportTypePOQuery, map[string]any{"page": "7", "size": "0"})
	assert.Equal(t, 7, out["page"])
	assert.Equal(t, 1, out["size"])

	out = Filter(types.ReportTypeInventory, map[string]any{})
	assert.Equal(t, 1, out["page"])
	assert.NotContains(t, out, "size")
}

func TestFilterMatchesKeysCaseInsensitively(t *testing.T) {
	out := Filter(types.ReportTypePOQuery, map[string]any{"VENDORID": "V-1", "Page": 2})

	assert.Equal(t, "V-1", out["vendorId"])
	assert.Equal(t, 2, out["page"])
}

func TestFilterIsIdempotent(t *testing.T) {
	raws := []map[string]any{
		{"from": "2024-01-01", "to": "2024-01-31", "groupBy": "Month", "hack": "1"},
		{"page": 0, "size": 999, "vendorId": "V-1"},
		{"params": map[string]any{"customerId": "C-1", "start": "2024-02-29 13:00:00"}},
		{"from": "garbage", "currency": "EUR"},
	}
	reportTypes := []types.ReportType{
		types.ReportTypeSalesStat,
		types.ReportTypePOQuery,
		types.ReportTypeInventory,
		types.ReportTypeInvoiceStat,
	}

	for _, reportType := range reportTypes {
		for _, raw := range raws {
			once := Filter(reportType, raw)
			twice := Filter(reportType, once)
			assert.Equal(t, once, twice)
		}
	}
}

func TestFilterSalesScenario(t *testing.T) {
	out := Filter(types.ReportTypeSalesStat, map[string]any{
		"from":    "2024-01-01",
		"to":      "2024-01-31",
		"groupBy": "Month",
		"hack":    "1",
	})

	r, ok := out["range"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, r["startUtc"], "2024-01-01")
	assert.Contains(t, r["endUtc"], "2024-01-31")
	assert.Equal(t, "month", out["groupBy"])
	assert.NotContains(t, out, "hack")
}
