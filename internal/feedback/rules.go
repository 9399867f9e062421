package feedback

import (
	"fmt"
	"time"

	"github.com/Rrens/support-chat/internal/config"
	"github.com/Rrens/support-chat/internal/domain"
)

// TriggerRule configures classification and feedback timing for one case type
type TriggerRule struct {
	Keywords             []string
	ClosingPhrases       []string
	InteractionThreshold int
	TimeThreshold        time.Duration
}

// TriggerTable holds one rule per case type
type TriggerTable map[domain.CaseType]TriggerRule

// DefaultTriggerTable returns the built-in keyword lists and thresholds
func DefaultTriggerTable() TriggerTable {
	return TriggerTable{
		domain.CaseDelivery: {
			Keywords: []string{
				"entrega", "entregar", "prazo", "envio", "enviar", "correios",
				"transportadora", "receber", "chegou", "chegada", "demora", "demorar",
				"quando chega", "rastreamento", "rastrear", "código", "tracking",
				"sedex", "pac", "frete", "endereço", "cep",
			},
			ClosingPhrases:       []string{"sua encomenda", "prazo de entrega", "já foi enviado", "código de rastreamento"},
			InteractionThreshold: 2,
			TimeThreshold:        90 * time.Second,
		},
		domain.CasePricing: {
			Keywords: []string{
				"preço", "valor", "custo", "custa", "desconto", "promoção", "oferta",
				"barato", "caro", "quanto", "reais", "r$", "pagar", "pagamento",
				"parcelado", "à vista", "cartão", "pix", "boleto", "financiamento",
				"atacado", "mínimo", "minimo", "revenda",
			},
			ClosingPhrases:       []string{"o valor é", "preço atual", "em promoção", "custa"},
			InteractionThreshold: 2,
			TimeThreshold:        60 * time.Second,
		},
		domain.CaseExchangeReturn: {
			Keywords: []string{
				"troca", "trocar", "devolução", "devolver", "defeito", "problema",
				"danificado", "não serviu", "tamanho errado", "cor errada",
				"arrependimento", "garantia", "reembolso", "estorno", "cancelar",
				"cancelamento",
			},
			ClosingPhrases:       []string{"processo de troca", "política de devolução", "pode trocar", "prazo para trocar"},
			InteractionThreshold: 4,
			TimeThreshold:        240 * time.Second,
		},
		domain.CaseProduct: {
			Keywords: []string{
				"produto", "modelo", "cor", "tamanho", "disponível", "estoque",
				"características", "especificações", "material", "qualidade", "marca",
				"novo", "lançamento", "numeração", "medidas", "peso", "dimensões",
			},
			ClosingPhrases:       []string{"esse produto", "está disponível", "características do produto", "em estoque"},
			InteractionThreshold: 3,
			TimeThreshold:        150 * time.Second,
		},
		domain.CaseGeneral: {
			InteractionThreshold: 4,
			TimeThreshold:        180 * time.Second,
		},
	}
}

// Validate checks that every case type has a usable rule
func (t TriggerTable) Validate() error {
	for _, ct := range domain.CaseTypes {
		rule, ok := t[ct]
		if !ok {
			return fmt.Errorf("missing trigger rule for case type %q", ct)
		}
		if rule.InteractionThreshold <= 0 {
			return fmt.Errorf("trigger rule %q: interaction threshold must be positive", ct)
		}
		if rule.TimeThreshold <= 0 {
			return fmt.Errorf("trigger rule %q: time threshold must be positive", ct)
		}
		if ct == domain.CaseGeneral && len(rule.Keywords) > 0 {
			return fmt.Errorf("trigger rule %q must not define keywords", ct)
		}
	}
	for ct := range t {
		if !ct.Valid() {
			return fmt.Errorf("unknown case type %q in trigger table", ct)
		}
	}
	return nil
}

// Rule returns the rule for ct, falling back to general
func (t TriggerTable) Rule(ct domain.CaseType) TriggerRule {
	if rule, ok := t[ct]; ok {
		return rule
	}
	return t[domain.CaseGeneral]
}

// TriggerTableFromConfig applies configured threshold overrides on top of
// the defaults and validates the result.
func TriggerTableFromConfig(cfg config.FeedbackConfig) (TriggerTable, error) {
	table := DefaultTriggerTable()
	for name, override := range cfg.Thresholds {
		ct := domain.CaseType(name)
		if !ct.Valid() {
			return nil, fmt.Errorf("unknown case type %q in feedback.thresholds", name)
		}
		rule := table[ct]
		if override.Interactions != 0 {
			rule.InteractionThreshold = override.Interactions
		}
		if override.Time != 0 {
			rule.TimeThreshold = override.Time
		}
		table[ct] = rule
	}
	if err := table.Validate(); err != nil {
		return nil, fmt.Errorf("invalid feedback configuration: %w", err)
	}
	return table, nil
}
