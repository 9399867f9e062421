package llm

import (
	"fmt"
	"strings"
)

// MaxTopicWords bounds the length of an extracted topic
const MaxTopicWords = 6

// TopicSystemPrompt is sent as the system message by chat-style providers
const TopicSystemPrompt = "Você resume conversas de atendimento ao cliente. Responda apenas com o tópico, sem explicações."

// BuildTopicPrompt creates a prompt asking for the main topic of a conversation excerpt
func BuildTopicPrompt(conversation string) string {
	return fmt.Sprintf(`Analise esta conversa e extraia o tópico principal em uma frase curta (máximo %d palavras).
Seja específico e objetivo. Responda apenas o tópico, sem explicações.

Conversa:
%s

Tópico:`, MaxTopicWords, strings.TrimSpace(conversation))
}

// CleanTopic normalizes a model answer into a short topic label
func CleanTopic(content string) string {
	text := content
	if block := extractFromCodeBlock(text, "```", "```"); block != "" {
		text = block
	}

	// keep the first non-empty line only
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			text = line
			break
		}
	}

	text = strings.TrimSpace(text)
	for _, prefix := range []string{"Tópico:", "tópico:", "Topic:", "topic:"} {
		text = strings.TrimPrefix(text, prefix)
	}
	text = strings.Trim(text, " \t*_#`\"'“”«»")
	text = strings.TrimRight(text, ".!?;:, ")

	words := strings.Fields(text)
	if len(words) > MaxTopicWords {
		words = words[:MaxTopicWords]
	}
	return strings.Join(words, " ")
}

func extractFromCodeBlock(content, startMarker, endMarker string) string {
	startIdx := strings.Index(content, startMarker)
	if startIdx == -1 {
		return ""
	}

	contentStart := startIdx + len(startMarker)
	// Skip language tag and newline after marker
	if nl := strings.IndexByte(content[contentStart:], '\n'); nl != -1 {
		contentStart += nl + 1
	}

	endIdx := strings.Index(content[contentStart:], endMarker)
	if endIdx == -1 {
		return ""
	}

	return strings.TrimSpace(content[contentStart : contentStart+endIdx])
}
