package domain

// CaseType is the classified subject of a support conversation
type CaseType string

const (
	CaseDelivery       CaseType = "delivery"
	CasePricing        CaseType = "pricing"
	CaseExchangeReturn CaseType = "exchange_return"
	CaseProduct        CaseType = "product"
	CaseGeneral        CaseType = "general"
)

// CaseTypes lists every case type in classification priority order
var CaseTypes = []CaseType{CaseDelivery, CasePricing, CaseExchangeReturn, CaseProduct, CaseGeneral}

// Valid reports whether c is one of the known case types
func (c CaseType) Valid() bool {
	for _, ct := range CaseTypes {
		if c == ct {
			return true
		}
	}
	return false
}

// ParseCaseType maps a stored value to a CaseType, defaulting to general
func ParseCaseType(s string) CaseType {
	c := CaseType(s)
	if c.Valid() {
		return c
	}
	return CaseGeneral
}
