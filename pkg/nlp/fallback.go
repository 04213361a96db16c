package nlp

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

const minSentenceRunes = 10

var sentenceBoundary = regexp.MustCompile(`[.!?]\s*|\n`)

// Fallback asks the oracle for a one sentence answer when no rule matched.
// A nil oracle is treated as permanently unavailable.
type Fallback struct {
	oracle  Oracle
	catalog *Catalog
}

func NewFallback(oracle Oracle, catalog *Catalog) *Fallback {
	return &Fallback{
		oracle:  oracle,
		catalog: catalog,
	}
}

func (f *Fallback) Available() bool {
	return f != nil && f.oracle != nil
}

func (f *Fallback) Prompt(message string) string {
	return fmt.Sprintf(promptTemplate, f.catalog.Context(), message)
}

func (f *Fallback) Generate(ctx context.Context, message string) string {
	if !f.Available() {
		return oracleUnavailablePrefix + catalogText
	}

	prompt := f.Prompt(message)
	generated, err := f.oracle.Generate(ctx, prompt)
	if err != nil {
		return oracleFailureText
	}

	return f.polish(prompt, generated)
}

func (f *Fallback) polish(prompt, generated string) string {
	text := strings.TrimSpace(strings.TrimPrefix(generated, prompt))

	if loc := sentenceBoundary.FindStringIndex(text); loc != nil {
		text = text[:loc[0]]
	}
	sentence := strings.TrimSpace(text)

	if utf8.RuneCountInString(sentence) < minSentenceRunes {
		return beMoreSpecificPrefix + catalogText
	}

	if !strings.HasSuffix(sentence, ".") && !strings.HasSuffix(sentence, "!") && !strings.HasSuffix(sentence, "?") {
		sentence += "."
	}
	if !strings.Contains(sentence, "?") {
		sentence = strings.TrimRight(sentence, ".!") + ". ¿Te interesa?"
	}

	return upperFirst(sentence)
}

func upperFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
