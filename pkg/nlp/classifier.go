package nlp

import "strings"

type keywordRule struct {
	kind    Kind
	keyword string
	terms   []string
}

// cascade is evaluated top to bottom after model detection; the first rule
// with a matching term wins.
var cascade = []keywordRule{
	{kind: KindGreeting, keyword: "hola", terms: []string{"hola", "buenas", "hey", "saludos", "qué tal"}},
	{kind: KindFarewell, keyword: "gracias", terms: []string{"gracias", "adiós", "chao", "perfecto", "ok"}},
	{kind: KindGaming, keyword: "gaming", terms: []string{"gaming", "juegos", "gamer", "rtx", "gráficos"}},
	{kind: KindWork, keyword: "trabajo", terms: []string{"trabajo", "oficina", "profesional", "negocios"}},
	{kind: KindBudget, keyword: "barato", terms: []string{"barato", "económico", "accesible", "bajo presupuesto"}},
	{kind: KindPrice, keyword: "precio", terms: []string{"precio", "cuánto cuesta", "cuánto vale", "costo"}},
	{kind: KindCatalogFull, keyword: "catalogo", terms: []string{"catálogo", "catalogo", "opciones", "qué tienen", "ver todo", "laptop", "laptops", "computadora", "computadoras"}},
	{kind: KindBrandGeneral, keyword: "marca", terms: []string{"marca", "marcas", "fabricante"}},
	{kind: KindReserve, keyword: "apartar", terms: []string{"apartar", "reservar", "comprar"}},
}

var brandProbes = []string{"dell", "hp", "lenovo"}

func normalize(message string) string {
	return strings.ToLower(strings.TrimSpace(message))
}

func containsAny(text string, terms []string) bool {
	for _, t := range terms {
		if strings.Contains(text, t) {
			return true
		}
	}
	return false
}

// Classify maps a raw message to an intent and the keyword that triggered
// it. The keyword is empty for Unknown.
func Classify(message string, catalog *Catalog) (Intent, string) {
	text := normalize(message)

	if m, ok := catalog.modelByOverlap(text); ok {
		return Intent{Kind: KindSpecificModel, Model: m.Name}, m.Name
	}

	for _, rule := range cascade {
		if containsAny(text, rule.terms) {
			return Intent{Kind: rule.kind}, rule.keyword
		}
	}

	for _, brand := range brandProbes {
		if strings.Contains(text, brand) {
			return Intent{Kind: KindBrand, Brand: brand}, brand
		}
	}

	return Intent{Kind: KindUnknown}, ""
}

// KeywordTable lists the rule cascade in evaluation order.
func KeywordTable() []KeywordGroup {
	groups := make([]KeywordGroup, 0, len(cascade)+len(brandProbes))
	for _, rule := range cascade {
		intent := Intent{Kind: rule.kind}
		groups = append(groups, KeywordGroup{
			Category: intent.Category(),
			Intent:   intent.String(),
			Keyword:  rule.keyword,
			Terms:    append([]string(nil), rule.terms...),
		})
	}
	for _, brand := range brandProbes {
		intent := Intent{Kind: KindBrand, Brand: brand}
		groups = append(groups, KeywordGroup{
			Category: intent.Category(),
			Intent:   intent.String(),
			Keyword:  brand,
			Terms:    []string{brand},
		})
	}
	return groups
}
