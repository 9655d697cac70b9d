package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/vk/flowsheet/internal/config"
	"github.com/vk/flowsheet/internal/formula"
	"github.com/vk/flowsheet/internal/tabular"
	"github.com/vk/flowsheet/internal/value"
	"github.com/zclconf/go-cty/cty"
	"resty.dev/v3"
)

const defaultFetchTimeout = 30 * time.Second

// loadRemoteJSON fetches a JSON array of flat objects and loads it as one
// dataset. The fetch runs under the source's deadline; expiry comes back as
// a TimeoutError so the caller can classify it.
func loadRemoteJSON(ctx context.Context, src *config.Source) (*tabular.Dataset, error) {
	timeout := defaultFetchTimeout
	if src.TimeoutMS > 0 {
		timeout = time.Duration(src.TimeoutMS) * time.Millisecond
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client := resty.New()
	defer client.Close()

	res, err := client.R().SetContext(ctx).Get(src.URL)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, &formula.TimeoutError{Op: "fetch " + src.Name, Timeout: timeout}
		}
		return nil, fmt.Errorf("fetch: %w", err)
	}
	if res.IsError() {
		return nil, fmt.Errorf("fetch: unexpected status %s", res.Status())
	}

	var records []map[string]any
	if err := json.Unmarshal(res.Bytes(), &records); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}

	var columns []string
	seen := make(map[string]bool)
	rows := make([]tabular.Row, 0, len(records))
	for _, rec := range records {
		r := make(tabular.Row, len(rec))
		for k, v := range rec {
			if !seen[k] {
				seen[k] = true
				columns = append(columns, k)
			}
			r[k] = jsonValue(v)
		}
		rows = append(rows, r)
	}
	return tabular.NewDataset(src.Name, "", columns, rows), nil
}

// jsonValue maps a decoded JSON scalar onto the cell value union. Nested
// structures are kept as their JSON text, mirroring the string fallback the
// coercions apply everywhere else.
func jsonValue(v any) cty.Value {
	switch t := v.(type) {
	case nil:
		return cty.NullVal(cty.String)
	case string:
		return cty.StringVal(t)
	case float64:
		return value.Num(t)
	case bool:
		return cty.BoolVal(t)
	}
	b, err := json.Marshal(v)
	if err != nil {
		return cty.NullVal(cty.String)
	}
	return cty.StringVal(string(b))
}
