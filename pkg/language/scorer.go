// pkg/language/scorer.go
//
// Lexical Turkish/English scoring over free text.

package language

import (
	"math"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	xlang "golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// Code is a resolved language. The zero value means undecided.
type Code string

const (
	Undecided Code = ""
	Turkish   Code = "tr"
	English   Code = "en"
)

// diacriticWeight is applied per Turkish-specific character.
const diacriticWeight = 2

var (
	turkishCharacters = []rune{'ç', 'ğ', 'ı', 'ö', 'ş', 'ü', 'Ç', 'Ğ', 'İ', 'Ö', 'Ş', 'Ü'}
	turkishWords      = []string{"ve", "bir", "olarak", "ile", "için", "değil", "güncelle", "ekle", "kaldır"}
	englishWords      = []string{"the", "and", "for", "with", "update", "add", "remove", "fix", "refactor"}
)

// Score holds raw points per language.
type Score struct {
	TR int `json:"tr"`
	EN int `json:"en"`
}

// Total is the sum of both scores.
func (s Score) Total() int { return s.TR + s.EN }

// Add returns the element-wise sum.
func (s Score) Add(o Score) Score { return Score{TR: s.TR + o.TR, EN: s.EN + o.EN} }

// Policy holds the tunable thresholds for Resolve.
type Policy struct {
	// MinScore is the smallest total that can produce a decision.
	MinScore int
	// MinConfidence is the smallest normalized difference that can produce a decision.
	MinConfidence float64
}

// DefaultPolicy requires five points and a 20% margin.
var DefaultPolicy = Policy{MinScore: 5, MinConfidence: 0.2}

// ScoreText counts Turkish diacritics (weighted) and whole-word marker hits.
func ScoreText(text string) Score {
	if text == "" {
		return Score{}
	}
	text = norm.NFC.String(text)

	var s Score
	charSet := make(map[rune]struct{}, len(turkishCharacters))
	for _, r := range turkishCharacters {
		charSet[r] = struct{}{}
	}
	for _, r := range text {
		if _, ok := charSet[r]; ok {
			s.TR += diacriticWeight
		}
	}

	counts := wordCounts(cases.Lower(xlang.Und).String(text))
	for _, w := range turkishWords {
		s.TR += counts[w]
	}
	for _, w := range englishWords {
		s.EN += counts[w]
	}
	return s
}

// wordCounts splits on anything that is not a letter, digit or underscore.
func wordCounts(lower string) map[string]int {
	counts := make(map[string]int)
	for _, w := range strings.FieldsFunc(lower, func(r rune) bool {
		return !(unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || unicode.Is(unicode.Mn, r))
	}) {
		counts[w]++
	}
	return counts
}

// Confidence is |tr-en| / (tr+en), or 0 for an empty score.
func Confidence(s Score) float64 {
	total := s.Total()
	if total == 0 {
		return 0
	}
	return math.Abs(float64(s.TR-s.EN)) / float64(total)
}

// Resolve picks the higher-scoring language or returns Undecided when the
// sample is too small, tied, or too close.
func (p Policy) Resolve(s Score) Code {
	if s.Total() < p.MinScore {
		return Undecided
	}
	if s.TR == s.EN {
		return Undecided
	}
	if Confidence(s) < p.MinConfidence {
		return Undecided
	}
	if s.TR > s.EN {
		return Turkish
	}
	return English
}
