package nlp

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	TagNumber      = "NUM"
	TagPunctuation = "PUNCT"
	TagBrand       = "BRAND"
	TagModel       = "MODEL"
	TagStopWord    = "STOP"
	TagWord        = "WORD"
)

var tokenPattern = regexp.MustCompile(`[\p{L}\p{N}]+|[^\s\p{L}\p{N}]`)

var stopWords = map[string]bool{
	"el": true, "la": true, "los": true, "las": true, "un": true, "una": true,
	"unos": true, "unas": true, "de": true, "del": true, "al": true, "a": true,
	"en": true, "y": true, "o": true, "que": true, "por": true, "para": true,
	"con": true, "sin": true, "me": true, "te": true, "se": true, "mi": true,
	"tu": true, "su": true, "es": true, "lo": true, "le": true, "yo": true,
	"quiero": true, "tienen": true, "hay": true, "cual": true, "como": true,
}

type analyzer struct {
	catalog    *Catalog
	brands     map[string]bool
	modelTerms map[string]bool
}

func newAnalyzer(catalog *Catalog) *analyzer {
	a := &analyzer{
		catalog:    catalog,
		brands:     make(map[string]bool),
		modelTerms: make(map[string]bool),
	}
	for _, b := range catalog.Brands() {
		a.brands[b.Name] = true
	}
	for _, m := range catalog.Models() {
		for _, w := range nameWords(m.Name) {
			if !a.brands[w] {
				a.modelTerms[fold(w)] = true
			}
		}
	}
	return a
}

// fold lower-cases and strips combining marks, so "Catálogo" and
// "catalogo" share one lemma.
func fold(text string) string {
	t := transform.Chain(norm.NFD, transform.RemoveFunc(isMn), norm.NFC)
	result, _, err := transform.String(t, strings.ToLower(text))
	if err != nil {
		return strings.ToLower(text)
	}
	return result
}

func isMn(r rune) bool {
	return unicode.Is(unicode.Mn, r)
}

func (a *analyzer) tag(token, lemma string) string {
	r := []rune(token)
	switch {
	case len(r) == 1 && !unicode.IsLetter(r[0]) && !unicode.IsDigit(r[0]):
		return TagPunctuation
	case isNumber(token):
		return TagNumber
	case a.brands[lemma]:
		return TagBrand
	case a.modelTerms[lemma]:
		return TagModel
	case stopWords[lemma]:
		return TagStopWord
	default:
		return TagWord
	}
}

func isNumber(token string) bool {
	for _, r := range token {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return token != ""
}

func (a *analyzer) analyze(message string) *Analysis {
	normalized := normalize(message)
	raw := tokenPattern.FindAllString(strings.TrimSpace(message), -1)

	analysis := &Analysis{
		Input:      message,
		Normalized: normalized,
		Tokens:     make([]string, 0, len(raw)),
		Lemmas:     make([]string, 0, len(raw)),
		Tags:       make([]TaggedToken, 0, len(raw)),
	}

	for _, token := range raw {
		lemma := fold(token)
		analysis.Tokens = append(analysis.Tokens, token)
		analysis.Lemmas = append(analysis.Lemmas, lemma)
		analysis.Tags = append(analysis.Tags, TaggedToken{
			Text:  token,
			Lemma: lemma,
			Tag:   a.tag(token, lemma),
		})
	}

	intent, keyword := Classify(message, a.catalog)
	analysis.Intent = intent.String()
	analysis.Category = intent.Category()
	analysis.MatchedKeyword = keyword

	return analysis
}
