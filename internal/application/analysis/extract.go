package analysis

import (
	"context"
	"encoding/json"
	"time"

	ai "github.com/shanekeen-real/youtube-tos-cursor-sub001/internal/domain/ai"
)

// Extraction strategy names, recorded on success so strategy effectiveness
// can be monitored over time.
const (
	StrategyDirect     = "direct"
	StrategyRepair     = "permissive-repair"
	StrategyHeuristic  = "heuristic"
	StrategyAIRepair   = "ai-repair"
	StrategyAggressive = "aggressive"
)

const defaultExtractAttempts = 3

// RepairFunc asks a model to fix malformed structured output. One call per
// extraction at most.
type RepairFunc func(ctx context.Context, malformed, shapeHint string) (string, error)

// ExtractResult carries the validated value plus the strategy that produced it.
type ExtractResult struct {
	Value    any
	Strategy string
}

// Extractor converts raw model text into validated structured data via a
// cascade of strategies, stopping at the first success. Every candidate
// passes ValidateShape (and the optional validator) before being accepted.
type Extractor struct {
	// Attempts bounds the final aggressive-cleaning loop. Zero means the
	// default of 3.
	Attempts int
	// Delay between aggressive-cleaning attempts.
	Delay time.Duration
	// Repair, when set, enables the AI-assisted repair strategy.
	Repair RepairFunc
}

// Extract runs the cascade. On total failure it returns a typed error that
// keeps the original raw text for diagnostics; it never panics the raw text
// away.
func (e *Extractor) Extract(ctx context.Context, raw string, shape *Shape, validate func(any) error) (ExtractResult, error) {
	var lastErr error

	// 1. direct parse
	if v, err := parseAndValidate(raw, shape, validate); err == nil {
		return ExtractResult{Value: v, Strategy: StrategyDirect}, nil
	} else {
		lastErr = err
	}

	// 2. generic permissive repair
	if v, err := parseAndValidate(permissiveRepair(raw), shape, validate); err == nil {
		return ExtractResult{Value: v, Strategy: StrategyRepair}, nil
	} else {
		lastErr = err
	}

	// 3. heuristic bracket-window cleanup
	if cleaned := heuristicCleanup(raw, shape); cleaned != "" {
		if v, err := parseAndValidate(cleaned, shape, validate); err == nil {
			return ExtractResult{Value: v, Strategy: StrategyHeuristic}, nil
		} else {
			lastErr = err
		}
	}

	// 4. one AI-assisted repair call, then strategies 1-3 on its output
	if e.Repair != nil {
		if repaired, err := e.Repair(ctx, raw, shape.Hint()); err == nil {
			for _, candidate := range []string{repaired, permissiveRepair(repaired), heuristicCleanup(repaired, shape)} {
				if candidate == "" {
					continue
				}
				if v, verr := parseAndValidate(candidate, shape, validate); verr == nil {
					return ExtractResult{Value: v, Strategy: StrategyAIRepair}, nil
				} else {
					lastErr = verr
				}
			}
		} else {
			lastErr = err
		}
	}

	// 5. bounded loop of progressively harsher cleaning
	attempts := e.Attempts
	if attempts <= 0 {
		attempts = defaultExtractAttempts
	}
	for level := 1; level <= attempts; level++ {
		if v, err := parseAndValidate(aggressiveClean(raw, level), shape, validate); err == nil {
			return ExtractResult{Value: v, Strategy: StrategyAggressive}, nil
		} else {
			lastErr = err
		}
		if level < attempts && e.Delay > 0 {
			select {
			case <-ctx.Done():
				return ExtractResult{}, &ai.MalformedOutputError{Raw: raw, LastErr: ctx.Err()}
			case <-time.After(e.Delay):
			}
		}
	}

	return ExtractResult{}, &ai.MalformedOutputError{Raw: raw, LastErr: lastErr}
}

func parseAndValidate(text string, shape *Shape, validate func(any) error) (any, error) {
	var v any
	if err := json.Unmarshal([]byte(text), &v); err != nil {
		return nil, err
	}
	out, err := ValidateShape(v, shape)
	if err != nil {
		return nil, err
	}
	if validate != nil {
		if err := validate(out); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// decodeInto moves a validated loose value into a typed stage result.
func decodeInto(v any, out any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, out)
}
