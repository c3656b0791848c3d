package analysis

import (
	"fmt"
	"strings"

	ai "github.com/shanekeen-real/youtube-tos-cursor-sub001/internal/domain/ai"
	domain "github.com/shanekeen-real/youtube-tos-cursor-sub001/internal/domain/analysis"
)

// ShapeKind discriminates the top-level container a stage expects.
type ShapeKind int

const (
	ShapeObject ShapeKind = iota
	ShapeArray
	ShapeMap // object with dynamic keys, every value validated against Elem
)

// FieldKind drives coercion and defaulting for one field.
type FieldKind int

const (
	KindNumber FieldKind = iota // clamped into [0,100]
	KindString
	KindSeverity   // normalized to LOW|MEDIUM|HIGH
	KindStringList // []string
	KindPhraseMap  // map[string][]string
	KindSpanList   // list of risky-span objects
	KindNested     // validated against Field.Shape
)

type Field struct {
	Kind     FieldKind
	Required bool
	Shape    *Shape // only for KindNested
}

// Shape describes the structure a stage result must have. Unknown extra
// fields are preserved, not rejected.
type Shape struct {
	Kind   ShapeKind
	Fields map[string]Field // ShapeObject
	Elem   *Shape           // ShapeArray / ShapeMap
}

// Hint is included in repair prompts so the model knows what to return.
func (s *Shape) Hint() string {
	switch s.Kind {
	case ShapeArray:
		return "a JSON array of objects"
	case ShapeMap:
		return "a JSON object mapping names to objects"
	default:
		return "a JSON object"
	}
}

// ValidateShape coerces and validates a parsed value against a shape.
// Numeric fields are clamped into [0,100]; missing optional fields get
// documented defaults (empty list, "LOW", 0, ""); missing required fields
// fail validation so the extractor moves to its next strategy.
func ValidateShape(value any, shape *Shape) (any, error) {
	switch shape.Kind {
	case ShapeArray:
		list, ok := value.([]any)
		if !ok {
			return nil, &ai.ValidationError{Field: "$", Reason: "expected an array"}
		}
		for i, item := range list {
			v, err := ValidateShape(item, shape.Elem)
			if err != nil {
				return nil, err
			}
			list[i] = v
		}
		return list, nil

	case ShapeMap:
		m, ok := value.(map[string]any)
		if !ok {
			return nil, &ai.ValidationError{Field: "$", Reason: "expected an object"}
		}
		for k, item := range m {
			v, err := ValidateShape(item, shape.Elem)
			if err != nil {
				return nil, &ai.ValidationError{Field: k, Reason: err.Error()}
			}
			m[k] = v
		}
		return m, nil

	default:
		m, ok := value.(map[string]any)
		if !ok {
			return nil, &ai.ValidationError{Field: "$", Reason: "expected an object"}
		}
		for name, f := range shape.Fields {
			raw, present := m[name]
			if !present || raw == nil {
				if f.Required {
					return nil, &ai.ValidationError{Field: name, Reason: "required field missing"}
				}
				m[name] = fieldDefault(f)
				continue
			}
			v, err := coerceField(name, raw, f)
			if err != nil {
				return nil, err
			}
			m[name] = v
		}
		return m, nil
	}
}

func fieldDefault(f Field) any {
	switch f.Kind {
	case KindNumber:
		return 0
	case KindSeverity:
		return string(domain.SeverityLow)
	case KindStringList, KindSpanList:
		return []any{}
	case KindPhraseMap:
		return map[string]any{}
	case KindNested:
		if f.Shape != nil && f.Shape.Kind == ShapeObject {
			v, _ := ValidateShape(map[string]any{}, f.Shape)
			return v
		}
		return map[string]any{}
	default:
		return ""
	}
}

func coerceField(name string, raw any, f Field) (any, error) {
	switch f.Kind {
	case KindNumber:
		n, ok := asNumber(raw)
		if !ok {
			if f.Required {
				return nil, &ai.ValidationError{Field: name, Reason: fmt.Sprintf("expected a number, got %T", raw)}
			}
			return 0, nil
		}
		return clampNumber(n), nil

	case KindString:
		if s, ok := raw.(string); ok {
			return s, nil
		}
		if f.Required {
			return nil, &ai.ValidationError{Field: name, Reason: fmt.Sprintf("expected a string, got %T", raw)}
		}
		return fmt.Sprint(raw), nil

	case KindSeverity:
		s, _ := raw.(string)
		return string(normalizeSeverity(s)), nil

	case KindStringList:
		return coerceStringList(raw), nil

	case KindPhraseMap:
		m, ok := raw.(map[string]any)
		if !ok {
			return map[string]any{}, nil
		}
		for k, v := range m {
			m[k] = coerceStringList(v)
		}
		return m, nil

	case KindSpanList:
		return coerceSpanList(raw), nil

	case KindNested:
		v, err := ValidateShape(raw, f.Shape)
		if err != nil {
			return nil, &ai.ValidationError{Field: name, Reason: err.Error()}
		}
		return v, nil
	}
	return raw, nil
}

func asNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		var f float64
		if _, err := fmt.Sscanf(strings.TrimSpace(n), "%f", &f); err == nil {
			return f, true
		}
	}
	return 0, false
}

func clampNumber(n float64) int {
	if n < 0 {
		return 0
	}
	if n > 100 {
		return 100
	}
	return int(n)
}

func normalizeSeverity(s string) domain.SeverityLevel {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "HIGH", "CRITICAL":
		return domain.SeverityHigh
	case "MEDIUM", "MODERATE":
		return domain.SeverityMedium
	default:
		return domain.SeverityLow
	}
}

func coerceStringList(raw any) []any {
	list, ok := raw.([]any)
	if !ok {
		if s, isStr := raw.(string); isStr && strings.TrimSpace(s) != "" {
			return []any{s}
		}
		return []any{}
	}
	out := make([]any, 0, len(list))
	for _, item := range list {
		if s, isStr := item.(string); isStr {
			out = append(out, s)
		} else {
			out = append(out, fmt.Sprint(item))
		}
	}
	return out
}

// coerceSpanList sanitizes risky-span objects: text must be a string,
// severities are normalized, and offset pairs violating end >= start are
// stripped so the span survives unmerged instead of corrupting the merger.
func coerceSpanList(raw any) []any {
	list, ok := raw.([]any)
	if !ok {
		return []any{}
	}
	out := make([]any, 0, len(list))
	for _, item := range list {
		m, isMap := item.(map[string]any)
		if !isMap {
			continue
		}
		if _, hasText := m["text"].(string); !hasText {
			continue
		}
		lvl, _ := m["risk_level"].(string)
		m["risk_level"] = string(normalizeSeverity(lvl))
		start, hasStart := asNumber(m["start_index"])
		end, hasEnd := asNumber(m["end_index"])
		if !hasStart || !hasEnd || end < start || start < 0 {
			delete(m, "start_index")
			delete(m, "end_index")
		} else {
			m["start_index"] = int(start)
			m["end_index"] = int(end)
		}
		out = append(out, m)
	}
	return out
}
