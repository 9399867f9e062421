package feedback

import "strings"

var (
	userClosingPhrases = []string{
		"obrigado", "obrigada", "valeu", "brigado", "brigada",
		"muito obrigado", "muito obrigada", "thanks", "vlw",
		"era isso", "era só isso", "só isso", "é isso",
		"tchau", "até mais", "até logo", "falou", "flw",
		"entendi", "entendido", "beleza", "blz", "ok obrigado",
		"perfeito", "show", "top", "maravilha",
	}

	positiveSignals = []string{
		"obrigado", "obrigada", "valeu", "perfeito", "ótimo", "excelente",
		"ajudou", "esclareceu", "entendi", "consegui", "resolveu", "certo",
	}

	negativeSignals = []string{
		"não entendi", "confuso", "complicado", "difícil", "problema",
		"erro", "errado", "não funciona", "não consegui", "ainda tenho dúvida",
	}

	resolutionSignals = []string{
		"já sei", "entendi", "esclarecido", "resolvido", "consegui",
		"obrigado", "valeu", "era isso mesmo", "perfeito",
	}
)

// Signals are sentiment and resolution cues found in a conversation
type Signals struct {
	Positive bool `json:"has_positive_signals"`
	Negative bool `json:"has_negative_signals"`
	Resolved bool `json:"seems_resolved"`
}

// AnalyzeSignals scans the whole history on every call
func AnalyzeSignals(messages []string) Signals {
	text := strings.ToLower(strings.Join(messages, " "))
	return Signals{
		Positive: containsAny(text, positiveSignals),
		Negative: containsAny(text, negativeSignals),
		Resolved: containsAny(text, resolutionSignals),
	}
}

// IsUserClosing reports whether a message thanks or says goodbye
func IsUserClosing(message string) bool {
	return containsAny(strings.ToLower(message), userClosingPhrases)
}

func containsAny(lower string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(lower, strings.ToLower(p)) {
			return true
		}
	}
	return false
}
