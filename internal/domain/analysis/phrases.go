package analysis

import (
	"strings"
	"unicode"
)

// Benign vocabulary that models routinely flag on innocuous content. A phrase
// matching one of these entries never survives into the final result.
var benignAllowList = map[string]struct{}{
	// pronouns / filler
	"he": {}, "she": {}, "they": {}, "him": {}, "her": {}, "them": {},
	"you": {}, "your": {}, "our": {}, "guys": {}, "everyone": {},
	// sports terms
	"shot": {}, "shoot": {}, "shooting": {}, "score": {}, "goal": {},
	"kill it": {}, "beat": {}, "fight": {}, "match": {}, "tackle": {},
	"knockout": {}, "punch": {}, "race": {}, "win": {}, "loss": {},
	// family vocabulary
	"family": {}, "kids": {}, "kid": {}, "child": {}, "children": {},
	"baby": {}, "mom": {}, "dad": {}, "parent": {}, "parents": {},
	"son": {}, "daughter": {}, "brother": {}, "sister": {},
	// technology vocabulary
	"video": {}, "camera": {}, "phone": {}, "computer": {}, "app": {},
	"software": {}, "game": {}, "gaming": {}, "stream": {}, "channel": {},
	"internet": {}, "online": {}, "website": {}, "link": {}, "download": {},
}

// Terms that are only risky in an explicitly problematic context.
var sensitiveTerms = []string{
	"kid", "child", "children", "baby", "minor", "teen", "school",
	"phone", "computer", "account", "password", "software", "app",
	"download", "camera", "online",
}

// Markers that make a sensitive term genuinely problematic.
var problematicMarkers = []string{
	"abuse", "exploit", "groom", "scam", "hack", "steal", "fraud",
	"attack", "threat", "traffick", "predator", "weapon", "porn",
}

// FilterPhrases removes benign words/phrases from a risky-phrase list.
// Applied to every phrase list before it is surfaced in the final result.
func FilterPhrases(phrases []string) []string {
	out := make([]string, 0, len(phrases))
	for _, p := range phrases {
		if keepPhrase(p) {
			out = append(out, p)
		}
	}
	return out
}

// FilterPhrasesByCategory applies FilterPhrases per category, dropping
// categories that end up empty.
func FilterPhrasesByCategory(byCategory map[string][]string) map[string][]string {
	if byCategory == nil {
		return map[string][]string{}
	}
	out := make(map[string][]string, len(byCategory))
	for cat, phrases := range byCategory {
		kept := FilterPhrases(phrases)
		if len(kept) > 0 {
			out[cat] = kept
		}
	}
	return out
}

func keepPhrase(phrase string) bool {
	p := strings.ToLower(strings.TrimSpace(phrase))
	if len([]rune(p)) < 3 {
		return false
	}
	if isPurePunctuation(p) {
		return false
	}
	if _, benign := benignAllowList[p]; benign {
		return false
	}
	if containsAny(p, sensitiveTerms) && !containsAny(p, problematicMarkers) {
		return false
	}
	return true
}

func isPurePunctuation(s string) bool {
	for _, r := range s {
		if !unicode.IsPunct(r) && !unicode.IsSymbol(r) && !unicode.IsSpace(r) {
			return false
		}
	}
	return true
}

func containsAny(s string, terms []string) bool {
	for _, t := range terms {
		if strings.Contains(s, t) {
			return true
		}
	}
	return false
}
