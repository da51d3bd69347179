package stats

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/danielpatrickdp/risk-explorer/internal/risk"
)

// #region summarize
// Summarize aggregates persisted records. A record whose payload cannot be
// decoded still counts toward the totals and adds one parse_error; it never
// fails the batch.
func Summarize(records []Record) SummaryStats {
	out := SummaryStats{FlagCounts: map[string]int{}}
	if len(records) == 0 {
		return out
	}

	var sum float64
	for _, rec := range records {
		sum += rec.DisagreementScore

		parsed := parseFlags(rec.FlagsPayload)
		if parsed.err != nil {
			out.FlagCounts[BucketParseError]++
			continue
		}
		for _, t := range parsed.types {
			out.FlagCounts[t]++
		}
	}

	out.TotalRuns = len(records)
	out.AvgDisagreement = risk.Round3(sum / float64(len(records)))
	return out
}

// #endregion summarize

// #region parse
var errNullValue = errors.New("null value")

// parsedFlags is the per-record outcome: either every flag type in the
// payload, or the reason it could not be read. Partial results are never
// returned.
type parsedFlags struct {
	types []string
	err   error
}

func parseFlags(payload string) parsedFlags {
	var top map[string]json.RawMessage
	if err := json.Unmarshal([]byte(payload), &top); err != nil {
		return parsedFlags{err: fmt.Errorf("decode payload: %w", err)}
	}
	if top == nil {
		return parsedFlags{err: fmt.Errorf("decode payload: %w", errNullValue)}
	}

	raw, ok := top["flags"]
	if !ok {
		return parsedFlags{}
	}
	var entries []map[string]json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		return parsedFlags{err: fmt.Errorf("decode flags: %w", err)}
	}
	if entries == nil {
		return parsedFlags{err: fmt.Errorf("decode flags: %w", errNullValue)}
	}

	types := make([]string, 0, len(entries))
	for i, entry := range entries {
		if entry == nil {
			return parsedFlags{err: fmt.Errorf("decode flag %d: %w", i, errNullValue)}
		}
		rawType, ok := entry["type"]
		if !ok || string(rawType) == "null" {
			types = append(types, BucketUnknown)
			continue
		}
		var t string
		if err := json.Unmarshal(rawType, &t); err != nil {
			return parsedFlags{err: fmt.Errorf("decode flag %d type: %w", i, err)}
		}
		types = append(types, t)
	}
	return parsedFlags{types: types}
}

// #endregion parse
