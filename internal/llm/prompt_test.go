package llm_test

import (
	"strings"
	"testing"

	"github.com/Rrens/support-chat/internal/llm"
)

func TestBuildTopicPrompt(t *testing.T) {
	prompt := llm.BuildTopicPrompt("  Quanto custa o frete?\nO frete é grátis acima de R$ 200  ")

	mustContain := []string{
		"tópico principal",
		"máximo 6 palavras",
		"Quanto custa o frete?\nO frete é grátis acima de R$ 200",
		"Tópico:",
	}

	for _, s := range mustContain {
		if !strings.Contains(prompt, s) {
			t.Errorf("prompt should contain %q", s)
		}
	}
}

func TestCleanTopic(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		expected string
	}{
		{
			"plain topic",
			"Prazo de entrega",
			"Prazo de entrega",
		},
		{
			"trailing punctuation",
			"Prazo de entrega.",
			"Prazo de entrega",
		},
		{
			"quoted",
			`"Troca de tamanho"`,
			"Troca de tamanho",
		},
		{
			"markdown bold",
			"**Valor do frete**",
			"Valor do frete",
		},
		{
			"label prefix",
			"Tópico: Cancelamento de pedido",
			"Cancelamento de pedido",
		},
		{
			"code block",
			"```\nDisponibilidade de estoque\n```",
			"Disponibilidade de estoque",
		},
		{
			"first line only",
			"Rastreamento do pedido\n\nO cliente quer saber onde está o pedido.",
			"Rastreamento do pedido",
		},
		{
			"truncated to six words",
			"Dúvida sobre prazo de entrega para o interior de São Paulo",
			"Dúvida sobre prazo de entrega para",
		},
		{
			"empty",
			"   \n ",
			"",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := llm.CleanTopic(tt.content)
			if result != tt.expected {
				t.Errorf("CleanTopic() = %q, want %q", result, tt.expected)
			}
		})
	}
}
