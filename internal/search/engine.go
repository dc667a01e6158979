package search

import (
	"math"
	"sort"
	"strings"
	"unicode"

	"github.com/pders01/qlaunch/internal/storage"
)

// EntrySource lists catalog entries.
type EntrySource interface {
	GetAllEntries() ([]*storage.Entry, error)
}

// Engine scores catalog entries in memory without an index.
type Engine struct {
	store EntrySource
}

func NewEngine(store EntrySource) *Engine {
	return &Engine{store: store}
}

// Search scores every entry against query and returns the best limit
// matches, highest score first. Ties keep catalog order.
func (e *Engine) Search(query string, limit int) ([]*Result, error) {
	terms := tokenize(query)
	if len(terms) == 0 {
		return []*Result{}, nil
	}

	entries, err := e.store.GetAllEntries()
	if err != nil {
		return nil, err
	}

	results := make([]*Result, 0)
	for _, entry := range entries {
		if r := scoreEntry(entry, terms); r != nil {
			results = append(results, r)
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

var fieldWeights = []struct {
	name   string
	weight float64
	get    func(*storage.Entry) string
}{
	{"title", 4.0, func(e *storage.Entry) string { return e.Title }},
	{"alias", 3.0, func(e *storage.Entry) string { return e.AliasBadge }},
	{"keywords", 2.0, func(e *storage.Entry) string { return strings.Join(e.Keywords, " ") }},
	{"subtitle", 1.5, func(e *storage.Entry) string { return e.Subtitle }},
	{"target", 0.5, func(e *storage.Entry) string { return e.Target }},
}

func scoreEntry(entry *storage.Entry, terms []string) *Result {
	var matches []Match
	var total float64

	for _, f := range fieldWeights {
		text := f.get(entry)
		if s := scoreField(text, terms, f.weight); s > 0 {
			matches = append(matches, Match{Field: f.name, Text: text, Weight: s})
			total += s
		}
	}
	if total == 0 {
		return nil
	}
	return &Result{Entry: entry, Score: total, Matches: matches}
}

// scoreField rewards substring hits, then whole-word and word-prefix hits
// more, so "term" ranks "Terminal" above "Determine".
func scoreField(text string, terms []string, weight float64) float64 {
	if text == "" {
		return 0
	}

	lower := strings.ToLower(text)
	words := tokenize(text)
	if len(words) == 0 {
		return 0
	}

	var score float64
	matchedTerms := 0

	for _, term := range terms {
		if !strings.Contains(lower, term) {
			continue
		}
		score += 2.0
		matchedTerms++

		for _, word := range words {
			switch {
			case word == term:
				score += 1.5
			case strings.HasPrefix(word, term):
				score += 1.0
			case strings.Contains(word, term):
				score += 0.25
			}
		}
	}
	if matchedTerms == 0 {
		return 0
	}

	if len(terms) > 1 && matchedTerms > 1 {
		score *= 1.0 + float64(matchedTerms)/float64(len(terms))
	}

	// Short fields that match are more specific than long ones.
	tf := float64(matchedTerms) / float64(len(words))
	score *= 1.0 + math.Log(1.0+tf)

	return score * weight
}

// tokenize lowercases text and splits it into letter/digit runs.
func tokenize(text string) []string {
	var terms []string
	var current strings.Builder

	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsNumber(r) {
			current.WriteRune(unicode.ToLower(r))
		} else if current.Len() > 0 {
			terms = append(terms, current.String())
			current.Reset()
		}
	}
	if current.Len() > 0 {
		terms = append(terms, current.String())
	}
	return terms
}
