package params

import (
	"fmt"

	"github.com/mitchellh/mapstructure"

	"github.com/bizledger/report-exporter/internal/report/types"
)

// Bind runs Filter over the raw input and decodes the sanitized map into the
// typed argument struct for the report type. Field matching is
// case-insensitive and weakly typed; because decoding only ever sees Filter's
// output, the allow-list cannot be bypassed by type binding.
func Bind[T any](t types.ReportType, raw map[string]any) (T, error) {
	var out T

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &out,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return out, fmt.Errorf("building argument decoder: %w", err)
	}

	if err := dec.Decode(Filter(t, raw)); err != nil {
		return out, fmt.Errorf("binding %s arguments: %w", t, err)
	}
	return out, nil
}
