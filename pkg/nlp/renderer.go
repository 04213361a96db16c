package nlp

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
)

type Renderer struct {
	catalog  *Catalog
	fallback *Fallback
	pick     func(n int) int
}

func NewRenderer(catalog *Catalog, fallback *Fallback) *Renderer {
	return &Renderer{
		catalog:  catalog,
		fallback: fallback,
		pick:     rand.IntN,
	}
}

// Render produces the reply for a classified message. SpecificModel and a
// successful Reserve record their own assistant turn in history.
func (r *Renderer) Render(ctx context.Context, intent Intent, keyword string, message string, history *History) string {
	switch intent.Kind {
	case KindGreeting:
		return greetingTemplates[r.pick(len(greetingTemplates))]
	case KindFarewell:
		return farewellTemplates[r.pick(len(farewellTemplates))]
	case KindBrandGeneral:
		return brandGeneralText
	case KindCatalogFull:
		return catalogText
	case KindPrice:
		return r.price(message)
	case KindGaming:
		return gamingText
	case KindWork:
		return workText
	case KindBudget:
		return budgetText
	case KindBrand:
		return r.brand(intent.Brand)
	case KindSpecificModel:
		return r.specificModel(intent.Model, history)
	case KindReserve:
		return r.reserve(message, history)
	case KindUnknown:
		return r.fallback.Generate(ctx, message)
	default:
		return catalogText
	}
}

func extraSuffix(m Model) string {
	if m.Extra == "" {
		return ""
	}
	return ", " + m.Extra
}

func (r *Renderer) price(message string) string {
	text := normalize(message)

	for _, brand := range brandProbes {
		if strings.Contains(text, brand) {
			return r.brand(brand)
		}
	}

	if m, ok := r.catalog.modelByAnyWord(text); ok {
		return fmt.Sprintf("El **%s** cuesta **$%d** (%s, %s%s). ¿Te interesa?",
			m.Name, m.Price, m.RAM, m.Storage, extraSuffix(m))
	}

	return priceGeneralText
}

func (r *Renderer) brand(name string) string {
	b, ok := r.catalog.Brand(name)
	if !ok {
		return brandGeneralText
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Estos son los modelos de **%s**:\n\n", strings.ToUpper(b.Name))
	for _, m := range b.Models {
		fmt.Fprintf(&sb, "• **%s**: $%d - %s, %s%s\n", m.Name, m.Price, m.RAM, m.Storage, extraSuffix(m))
	}
	sb.WriteString("\n¿Cuál te interesa más?")
	return sb.String()
}

func (r *Renderer) specificModel(name string, history *History) string {
	m, ok := r.catalog.Lookup(name)
	if !ok {
		return modelNotFoundPrefix + catalogText
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "El **%s** tiene:\n", m.Name)
	fmt.Fprintf(&sb, "• **Precio:** $%d\n", m.Price)
	fmt.Fprintf(&sb, "• **RAM:** %s\n", m.RAM)
	fmt.Fprintf(&sb, "• **Almacenamiento:** %s", m.Storage)
	if m.Extra != "" {
		fmt.Fprintf(&sb, "\n• **Extra:** %s", m.Extra)
	}
	sb.WriteString("\n\n¿Quieres reservarlo?")

	reply := sb.String()
	history.Append(AssistantTurn(reply))
	return reply
}

// namedIn finds a model spelled out in the message itself, either by its
// full name or by two of its words.
func (r *Renderer) namedIn(text string) (Model, bool) {
	for _, m := range r.catalog.Models() {
		if strings.Contains(text, strings.ToLower(m.Name)) || wordHits(text, m.Name) >= 2 {
			return m, true
		}
	}
	return Model{}, false
}

func (r *Renderer) reserve(message string, history *History) string {
	var name string
	if m, ok := r.namedIn(normalize(message)); ok {
		name = m.Name
		history.Append(ModelReference(name))
	} else if last, ok := LastModel(*history, r.catalog); ok {
		name = last
	}

	if name == "" {
		return reserveClarificationText
	}

	m, ok := r.catalog.Lookup(name)
	if !ok {
		return modelNotFoundPrefix + catalogText
	}

	reply := fmt.Sprintf("¡Perfecto! Reservando el **%s** ($%d)\n"+
		"• RAM: %s\n"+
		"• Almacenamiento: %s%s\n\n"+
		"**Reserva confirmada por 24 horas**\n"+
		"Te enviaré un enlace de pago o puedes pasar por tienda.\n\n"+
		"¿Agregar algo más?",
		m.Name, m.Price, m.RAM, m.Storage, extraSuffix(m))

	history.Append(AssistantTurn(reply))
	return reply
}
