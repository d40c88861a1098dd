// Package params is the whitelisting layer between caller-supplied query
// parameters and report computation. Nothing a client sends reaches the
// engine or the job record without passing through Filter.
package params

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/bizledger/report-exporter/internal/report/types"
)

const (
	rangeKey = "range"
	pageKey  = "page"
	sizeKey  = "size"

	maxPageSize = 200
)

// allowedKeys holds the canonical key spelling per report type. Input keys
// match case-insensitively and are re-emitted in canonical form.
var allowedKeys = map[types.ReportType][]string{
	types.ReportTypeSalesStat:   {"range", "customerId", "salesmanId", "productId", "currency", "groupBy"},
	types.ReportTypeInvoiceStat: {"range", "accountId", "status", "currency", "groupBy"},
	types.ReportTypePOQuery:     {"range", "vendorId", "status", "page", "size"},
	types.ReportTypeInventory:   {"productId", "whse", "loc", "range", "page", "size"},
}

var groupByVocab = map[types.ReportType][]string{
	types.ReportTypeSalesStat:   {"day", "month", "product", "salesman", "customer"},
	types.ReportTypeInvoiceStat: {"day", "month", "account"},
}

// Alias precedence is fixed so the sanitized output is deterministic even when
// a caller supplies several aliases at once. Top-level aliases beat the nested
// range object.
var (
	startAliases = []string{"from", "start", "startutc"}
	endAliases   = []string{"to", "end", "endutc"}
)

// Filter reduces an arbitrary caller-supplied map to the allow-list of the
// given report type. It never fails: unknown keys are dropped, malformed
// values degrade to defaults or pass through. The result is the only form of
// caller input that may reach computation or persistence.
func Filter(t types.ReportType, raw map[string]any) map[string]any {
	out := map[string]any{}
	allow, ok := allowedKeys[t]
	if !ok {
		return out
	}

	raw = unwrapParams(raw)

	canonical := make(map[string]string, len(allow))
	for _, k := range allow {
		canonical[strings.ToLower(k)] = k
	}

	rangeAllowed := canonical[rangeKey] != ""

	for k, v := range raw {
		lk := strings.ToLower(k)

		if rangeAllowed && (lk == rangeKey || containsString(startAliases, lk) || containsString(endAliases, lk)) {
			continue
		}

		ck, ok := canonical[lk]
		if !ok {
			continue
		}

		switch ck {
		case "groupBy":
			s, ok := v.(string)
			if !ok {
				continue
			}
			s = strings.ToLower(s)
			if containsString(groupByVocab[t], s) {
				out[ck] = s
			}
		case pageKey:
			out[ck] = normalizePage(v)
		case sizeKey:
			if n, ok := toInt(v); ok {
				out[ck] = clampSize(n)
			}
		default:
			out[ck] = v
		}
	}

	if rangeAllowed {
		if r := buildRange(resolveRangeBounds(raw)); len(r) > 0 {
			out[rangeKey] = r
		}
	}

	if pageable(t) {
		if _, ok := out[pageKey]; !ok {
			out[pageKey] = 1
		}
	}

	return out
}

// unwrapParams peels off a top-level "params" wrapper when present, so both
// `{"params": {...}}` and the bare map are accepted.
func unwrapParams(raw map[string]any) map[string]any {
	for k, v := range raw {
		if strings.EqualFold(k, "params") {
			if inner, ok := v.(map[string]any); ok {
				return inner
			}
		}
	}
	return raw
}

func pageable(t types.ReportType) bool {
	return containsString(allowedKeys[t], pageKey)
}

// resolveRangeBounds picks the range bounds by alias precedence: top-level
// from/start/startUtc (in that order), then the same keys nested under
// "range". The first alias present wins.
func resolveRangeBounds(raw map[string]any) (start, end any) {
	lower := lowerKeys(raw)

	start = firstAlias(lower, startAliases)
	end = firstAlias(lower, endAliases)

	if nested, ok := lower[rangeKey].(map[string]any); ok {
		nestedLower := lowerKeys(nested)
		if start == nil {
			start = firstAlias(nestedLower, startAliases)
		}
		if end == nil {
			end = firstAlias(nestedLower, endAliases)
		}
	}
	return start, end
}

func lowerKeys(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[strings.ToLower(k)] = v
	}
	return out
}

func firstAlias(lower map[string]any, order []string) any {
	for _, k := range order {
		if v, ok := lower[k]; ok {
			return v
		}
	}
	return nil
}

func buildRange(start, end any) map[string]any {
	r := map[string]any{}
	if s, ok := start.(string); ok && s != "" {
		r["startUtc"] = canonicalInstant(s)
	}
	if s, ok := end.(string); ok && s != "" {
		r["endUtc"] = canonicalInstant(s)
	}
	return r
}

var instantLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// canonicalInstant parses a date/time-like string permissively and re-emits
// it as RFC3339 UTC. Date-only input is treated as midnight. Unparseable
// strings pass through unchanged.
func canonicalInstant(s string) string {
	for _, layout := range instantLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts.UTC().Format(time.RFC3339)
		}
	}
	return s
}

func normalizePage(v any) int {
	n, ok := toInt(v)
	if !ok || n < 1 {
		return 1
	}
	return n
}

func clampSize(n int) int {
	if n < 1 {
		return 1
	}
	if n > maxPageSize {
		return maxPageSize
	}
	return n
}

func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int32:
		return int(n), true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, false
		}
		return int(i), true
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(n))
		if err != nil {
			return 0, false
		}
		return i, true
	}
	return 0, false
}

func containsString(list []string, s string) bool {
	for _, it := range list {
		if it == s {
			return true
		}
	}
	return false
}
