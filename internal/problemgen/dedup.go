package problemgen

import "strings"

// priorQuestionList renders the questions a learner already saw on this
// skill as a bullet list for the prompt. Blank entries and repeats are
// dropped, and only the newest limit entries are kept. The input is
// ordered oldest first.
func priorQuestionList(prior []string, limit int) string {
	seen := make(map[string]bool, len(prior))
	kept := make([]string, 0, len(prior))
	for i := len(prior) - 1; i >= 0; i-- {
		text := strings.Join(strings.Fields(prior[i]), " ")
		key := normalizeText(text)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		kept = append(kept, text)
		if limit > 0 && len(kept) == limit {
			break
		}
	}
	if len(kept) == 0 {
		return "(none yet)"
	}

	var b strings.Builder
	for i := len(kept) - 1; i >= 0; i-- {
		b.WriteString("- ")
		b.WriteString(kept[i])
		if i > 0 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}
