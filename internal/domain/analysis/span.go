package analysis

import "sort"

type spanKey struct {
	category string
	level    SeverityLevel
}

// MergeSpans merges overlapping/adjacent risky spans that share a policy
// category and risk level. Offsets index into source (EndIndex exclusive);
// merged text is rebuilt from source between the original start and the new
// end, never by concatenating span texts (that duplicates overlap text).
// Spans lacking offsets sort first, keep input order, and never merge.
// Idempotent: merging an already-merged list returns the same list.
func MergeSpans(source string, spans []RiskSpan) []RiskSpan {
	if len(spans) == 0 {
		return spans
	}

	out := make([]RiskSpan, 0, len(spans))
	groups := make(map[spanKey][]RiskSpan)
	order := make([]spanKey, 0, 4)

	for _, sp := range spans {
		if sp.StartIndex == nil || sp.EndIndex == nil || *sp.EndIndex < *sp.StartIndex {
			// tanpa offset → tidak pernah di-merge
			out = append(out, sp)
			continue
		}
		k := spanKey{category: sp.PolicyCategory, level: sp.RiskLevel}
		if _, seen := groups[k]; !seen {
			order = append(order, k)
		}
		groups[k] = append(groups[k], sp)
	}

	merged := make([]RiskSpan, 0, len(spans)-len(out))
	for _, k := range order {
		merged = append(merged, mergeGroup(source, groups[k])...)
	}

	sort.SliceStable(merged, func(i, j int) bool {
		if *merged[i].StartIndex != *merged[j].StartIndex {
			return *merged[i].StartIndex < *merged[j].StartIndex
		}
		return merged[i].PolicyCategory < merged[j].PolicyCategory
	})

	return append(out, merged...)
}

// mergeGroup runs the single-scan merge over spans that all share category
// and risk level.
func mergeGroup(source string, group []RiskSpan) []RiskSpan {
	sort.SliceStable(group, func(i, j int) bool {
		if *group[i].StartIndex != *group[j].StartIndex {
			return *group[i].StartIndex < *group[j].StartIndex
		}
		return *group[i].EndIndex < *group[j].EndIndex
	})

	out := make([]RiskSpan, 0, len(group))
	running := group[0]
	for _, next := range group[1:] {
		if *next.StartIndex <= *running.EndIndex+1 {
			if *next.EndIndex > *running.EndIndex {
				end := *next.EndIndex
				running.EndIndex = &end
				running.Text = sliceSource(source, *running.StartIndex, end)
			}
			continue
		}
		out = append(out, running)
		running = next
	}
	return append(out, running)
}

func sliceSource(source string, start, end int) string {
	if start < 0 {
		start = 0
	}
	if end > len(source) {
		end = len(source)
	}
	if start >= end {
		return ""
	}
	return source[start:end]
}
