package feedback

import (
	"strings"

	"github.com/Rrens/support-chat/internal/domain"
)

// Classifier maps conversation text to a case type by keyword hits
type Classifier struct {
	table TriggerTable
}

func NewClassifier(table TriggerTable) *Classifier {
	return &Classifier{table: table}
}

// Classify scores each case type by the number of distinct keywords present
// in text. The strictly highest nonzero score wins; ties and no hits yield
// general.
func (c *Classifier) Classify(text string) domain.CaseType {
	lower := strings.ToLower(text)

	best := domain.CaseGeneral
	bestScore := 0
	tie := false
	for _, ct := range domain.CaseTypes {
		score := 0
		for _, kw := range c.table.Rule(ct).Keywords {
			if strings.Contains(lower, kw) {
				score++
			}
		}
		switch {
		case score > bestScore:
			best, bestScore, tie = ct, score, false
		case score == bestScore && score > 0:
			tie = true
		}
	}

	if bestScore == 0 || tie {
		return domain.CaseGeneral
	}
	return best
}
