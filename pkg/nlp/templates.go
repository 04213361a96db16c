package nlp

var greetingTemplates = []string{
	"¡Hola! Bienvenido a nuestra tienda de laptops. ¿Qué tipo de equipo buscas?",
	"¡Hola! ¿En qué puedo ayudarte hoy? Tenemos Dell, HP y Lenovo.",
	"¡Buenas! Aquí estoy para ayudarte a elegir la laptop perfecta. ¿Qué necesitas?",
}

var farewellTemplates = []string{
	"¡Gracias por tu consulta! Si necesitas algo más, aquí estaré.",
	"¡De nada! No dudes en volver si tienes más dudas.",
	"¡Hasta pronto! Espero haberte ayudado.",
}

func GreetingTemplates() []string {
	return append([]string(nil), greetingTemplates...)
}

func FarewellTemplates() []string {
	return append([]string(nil), farewellTemplates...)
}

const (
	brandGeneralText = "Trabajamos con **Dell** (profesional), **HP** (calidad-precio) y **Lenovo** (gaming y trabajo). ¿Cuál te interesa?"

	priceGeneralText = "Nuestros precios van desde **$600** (básicos) hasta **$1,800** (gaming). ¿Qué presupuesto tienes?"

	catalogText = `
**Dell:**
• Dell Inspiron 15: $800 - 16GB RAM, 512GB SSD
• Dell XPS 13: $1,200 - 16GB RAM, 1TB SSD, 4K
• Dell Alienware M15: $1,800 - 32GB RAM, RTX 3070

**HP:**
• HP Pavilion: $600 - 8GB RAM, 1TB HDD
• HP Envy 13: $950 - 16GB RAM, 512GB SSD, táctil
• HP Omen 16: $1,500 - 32GB RAM, RTX 3060

**Lenovo:**
• Lenovo ThinkPad X1: $1,200 - 32GB RAM, 1TB SSD
• Lenovo IdeaPad 5: $700 - 8GB RAM, 512GB SSD
• Lenovo Legion 5 Pro: $1,600 - 32GB RAM, RTX 3070
`

	// Hand-curated rankings, kept independent of the catalog table.
	gamingText = `
Para gaming te recomiendo:

1. **Dell Alienware M15** - $1,800 (RTX 3070)
2. **Lenovo Legion 5 Pro** - $1,600 (RTX 3070)
3. **HP Omen 16** - $1,500 (RTX 3060)

¿Cuál se ajusta a tu presupuesto?
`

	workText = `
Para trabajo profesional:

1. **Lenovo ThinkPad X1** - $1,200 (32GB RAM)
2. **Dell XPS 13** - $1,200 (pantalla 4K)
3. **HP Envy 13** - $950 (táctil)

¿Qué tipo de trabajo haces?
`

	budgetText = `
Opciones económicas:

1. **HP Pavilion** - $600 (8GB RAM)
2. **Lenovo IdeaPad 5** - $700 (SSD)
3. **Dell Inspiron 15** - $800 (16GB RAM)

¿Cuál prefieres?
`

	modelNotFoundPrefix = "¡No lo encontré! Aquí tienes todo:\n\n"

	reserveClarificationText = "No sé cuál laptop quieres reservar.\n¿Puedes decirme el modelo? (Ej: *Dell XPS 13*, *HP Omen 16*)"

	oracleUnavailablePrefix = "No puedo generar respuesta ahora. Aquí tienes el catálogo:\n\n"
	beMoreSpecificPrefix    = "¿Podrías ser más específico? Aquí tienes el catálogo:\n\n"
	oracleFailureText       = "No entendí bien. ¿Quieres ver el catálogo?"

	promptTemplate = `Eres un asistente de ventas. Solo puedes hablar de estos productos:

%s

REGLAS:
- Responde en 1-2 oraciones.
- Usa solo datos del catálogo.
- NO inventes nada.
- Termina con una pregunta.

Usuario: %s
Asistente:`
)

func CatalogText() string {
	return catalogText
}
