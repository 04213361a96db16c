package nlp

import "context"

type Engine struct {
	catalog  *Catalog
	fallback *Fallback
	renderer *Renderer
	analyzer *analyzer
}

type EngineOption func(*Engine)

// WithPicker replaces the random template picker, mostly for tests.
func WithPicker(pick func(n int) int) EngineOption {
	return func(e *Engine) {
		e.renderer.pick = pick
	}
}

// NewEngine builds the dialogue engine. oracle may be nil when no
// generative backend could be configured.
func NewEngine(catalog *Catalog, oracle Oracle, options ...EngineOption) IChatEngine {
	if catalog == nil {
		catalog = DefaultCatalog()
	}

	fallback := NewFallback(oracle, catalog)
	e := &Engine{
		catalog:  catalog,
		fallback: fallback,
		renderer: NewRenderer(catalog, fallback),
		analyzer: newAnalyzer(catalog),
	}

	for _, option := range options {
		option(e)
	}

	return e
}

// Respond runs one conversation turn. The user turn and the reply are both
// recorded in history before returning.
func (e *Engine) Respond(ctx context.Context, message string, history *History) Result {
	history.Append(UserTurn(message))

	intent, keyword := Classify(message, e.catalog)
	reply := e.renderer.Render(ctx, intent, keyword, message, history)

	if last, ok := history.Last(); !ok || last.Role != RoleAssistant || last.Text != reply {
		history.Append(AssistantTurn(reply))
	}

	return Result{
		Response:       reply,
		Intent:         intent,
		Category:       intent.Category(),
		MatchedKeyword: keyword,
	}
}

func (e *Engine) Classify(message string) (Intent, string) {
	return Classify(message, e.catalog)
}

func (e *Engine) Analyze(message string) *Analysis {
	return e.analyzer.analyze(message)
}

func (e *Engine) Keywords() []KeywordGroup {
	return KeywordTable()
}

func (e *Engine) Catalog() *Catalog {
	return e.catalog
}

func (e *Engine) OracleAvailable() bool {
	return e.fallback.Available()
}
