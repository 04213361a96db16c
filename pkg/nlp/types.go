package nlp

import (
	"context"
	"fmt"
)

type Specification struct {
	Price   int    `json:"price"`
	RAM     string `json:"ram"`
	Storage string `json:"storage"`
	Extra   string `json:"extra,omitempty"`
}

type Model struct {
	Name  string `json:"name"`
	Brand string `json:"brand"`
	Specification
}

type Brand struct {
	Name   string  `json:"name"`
	Models []Model `json:"models"`
}

// Kind tags the outcome of classification. Intent carries the payload for
// the Brand and SpecificModel kinds.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindGreeting
	KindFarewell
	KindBrandGeneral
	KindCatalogFull
	KindPrice
	KindGaming
	KindWork
	KindBudget
	KindBrand
	KindReserve
	KindSpecificModel
)

var kindNames = map[Kind]string{
	KindUnknown:       "Unknown",
	KindGreeting:      "Greeting",
	KindFarewell:      "Farewell",
	KindBrandGeneral:  "BrandGeneral",
	KindCatalogFull:   "CatalogFull",
	KindPrice:         "Price",
	KindGaming:        "Gaming",
	KindWork:          "Work",
	KindBudget:        "Budget",
	KindBrand:         "Brand",
	KindReserve:       "Reserve",
	KindSpecificModel: "SpecificModel",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Category tags persisted with every bot reply.
const (
	CategoryGreeting      = "saludo"
	CategoryFarewell      = "despedida"
	CategoryBrandGeneral  = "marca"
	CategoryCatalogFull   = "catalogo"
	CategoryPrice         = "precio"
	CategoryGaming        = "gaming"
	CategoryWork          = "trabajo"
	CategoryBudget        = "barato"
	CategoryReserve       = "apartar"
	CategorySpecificModel = "modelo_especifico"
	CategoryGenerative    = "fallback_generativo"
	CategoryLastResort    = "fallback_final"
)

type Intent struct {
	Kind  Kind   `json:"kind"`
	Brand string `json:"brand,omitempty"`
	Model string `json:"model,omitempty"`
}

func (i Intent) Category() string {
	switch i.Kind {
	case KindGreeting:
		return CategoryGreeting
	case KindFarewell:
		return CategoryFarewell
	case KindBrandGeneral:
		return CategoryBrandGeneral
	case KindCatalogFull:
		return CategoryCatalogFull
	case KindPrice:
		return CategoryPrice
	case KindGaming:
		return CategoryGaming
	case KindWork:
		return CategoryWork
	case KindBudget:
		return CategoryBudget
	case KindBrand:
		return i.Brand
	case KindReserve:
		return CategoryReserve
	case KindSpecificModel:
		return CategorySpecificModel
	case KindUnknown:
		return CategoryGenerative
	default:
		return CategoryLastResort
	}
}

func (i Intent) String() string {
	switch i.Kind {
	case KindBrand:
		return fmt.Sprintf("Brand(%s)", i.Brand)
	case KindSpecificModel:
		return fmt.Sprintf("SpecificModel(%s)", i.Model)
	default:
		return i.Kind.String()
	}
}

type TurnRole string

const (
	RoleUser           TurnRole = "user"
	RoleAssistant      TurnRole = "assistant"
	RoleModelReference TurnRole = "model_reference"
)

// Turn is one recorded unit of a conversation. Text is set for user and
// assistant turns, Model for model reference markers.
type Turn struct {
	Role  TurnRole `json:"role"`
	Text  string   `json:"text,omitempty"`
	Model string   `json:"model,omitempty"`
}

func UserTurn(text string) Turn {
	return Turn{Role: RoleUser, Text: text}
}

func AssistantTurn(text string) Turn {
	return Turn{Role: RoleAssistant, Text: text}
}

func ModelReference(model string) Turn {
	return Turn{Role: RoleModelReference, Model: model}
}

// Oracle is a text completion backend used when no rule matches.
type Oracle interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type Result struct {
	Response       string `json:"response"`
	Intent         Intent `json:"intent"`
	Category       string `json:"category"`
	MatchedKeyword string `json:"matched_keyword,omitempty"`
}

type KeywordGroup struct {
	Category string   `json:"category"`
	Intent   string   `json:"intent"`
	Keyword  string   `json:"keyword"`
	Terms    []string `json:"terms"`
}

type TaggedToken struct {
	Text  string `json:"text"`
	Lemma string `json:"lemma"`
	Tag   string `json:"tag"`
}

type Analysis struct {
	Input          string        `json:"input"`
	Normalized     string        `json:"normalized"`
	Tokens         []string      `json:"tokens"`
	Lemmas         []string      `json:"lemmas"`
	Tags           []TaggedToken `json:"pos_tags"`
	Intent         string        `json:"intent"`
	Category       string        `json:"category"`
	MatchedKeyword string        `json:"matched_keyword,omitempty"`
}

type IChatEngine interface {
	Respond(ctx context.Context, message string, history *History) Result
	Classify(message string) (Intent, string)
	Analyze(message string) *Analysis
	Keywords() []KeywordGroup
	Catalog() *Catalog
	OracleAvailable() bool
}
