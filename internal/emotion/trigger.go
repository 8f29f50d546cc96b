// ABOUTME: Keyword trigger detector producing raw per-emotion activation deltas
// ABOUTME: NFC + case folding via x/text, UAX #29 word tokens via uniseg

package emotion

import (
	"slices"
	"strings"
	"unicode"

	"github.com/rivo/uniseg"
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	"github.com/mauromedda/pi-mood-go/internal/catalog"
)

// suffixes a single-word keyword may carry and still match.
var suffixes = []string{"s", "es", "ed", "ing"}

// Deltas maps emotion IDs to activation evidence for one cycle.
// Emotions without evidence are absent.
type Deltas map[string]float64

// Sum returns the total evidence of the cycle.
func (d Deltas) Sum() float64 {
	var s float64
	for _, v := range d {
		s += v
	}
	return s
}

// Clone returns an independent copy.
func (d Deltas) Clone() Deltas {
	out := make(Deltas, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}

// Detection is the result of scanning one utterance.
type Detection struct {
	Deltas     Deltas
	Matches    map[string][]string // emotion -> matched keywords, catalog order
	Amplifiers []string            // amplifier words present in the text
	Tokens     int
}

// keyword is a pre-tokenized trigger.
type keyword struct {
	text   string
	tokens []string
}

// Detector scans text for catalog keywords. It is immutable and safe to share.
type Detector struct {
	ids         []string
	keywords    map[string][]keyword
	amplifiers  []string
	sensitivity float64
}

// NewDetector pre-tokenizes every catalog keyword.
// sensitivity scales the normalized match ratio; values <= 0 fall back to DefaultSensitivity.
func NewDetector(cat *catalog.Catalog, sensitivity float64) *Detector {
	if sensitivity <= 0 {
		sensitivity = DefaultSensitivity
	}
	d := &Detector{
		ids:         cat.IDs(),
		keywords:    make(map[string][]keyword, cat.Len()),
		sensitivity: sensitivity,
	}
	for _, id := range d.ids {
		for _, kw := range cat.Keywords(id) {
			toks := Tokenize(kw)
			if len(toks) == 0 {
				continue
			}
			d.keywords[id] = append(d.keywords[id], keyword{text: kw, tokens: toks})
		}
	}
	for _, w := range cat.Amplifiers().Words {
		if toks := Tokenize(w); len(toks) == 1 {
			d.amplifiers = append(d.amplifiers, toks[0])
		}
	}
	return d
}

// Detect scores each emotion as min(1, sensitivity * distinct matched keywords / token count).
// A keyword contributes once however often it occurs, so the score saturates.
func (d *Detector) Detect(text string) Detection {
	tokens := Tokenize(text)
	det := Detection{
		Deltas:  Deltas{},
		Matches: map[string][]string{},
		Tokens:  len(tokens),
	}
	if len(tokens) == 0 {
		return det
	}

	for _, id := range d.ids {
		var matched []string
		for _, kw := range d.keywords[id] {
			if containsKeyword(tokens, kw.tokens) {
				matched = append(matched, kw.text)
			}
		}
		if len(matched) == 0 {
			continue
		}
		det.Matches[id] = matched
		det.Deltas[id] = clamp01(d.sensitivity * float64(len(matched)) / float64(len(tokens)))
	}

	for _, amp := range d.amplifiers {
		if slices.Contains(tokens, amp) {
			det.Amplifiers = append(det.Amplifiers, amp)
		}
	}
	return det
}

// Tokenize normalizes text (NFC, case folded) and splits it into word tokens.
// Segments without a letter or digit (spaces, punctuation, emoji) are dropped.
func Tokenize(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	s := cases.Fold().String(norm.NFC.String(text))

	var tokens []string
	state := -1
	for len(s) > 0 {
		var word string
		word, s, state = uniseg.FirstWordInString(s, state)
		if isWord(word) {
			tokens = append(tokens, word)
		}
	}
	return tokens
}

func isWord(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return true
		}
	}
	return false
}

// containsKeyword reports whether kw occurs in tokens. Single words match a whole
// token plus an optional suffix; phrases match a contiguous run of exact tokens.
func containsKeyword(tokens, kw []string) bool {
	if len(kw) == 1 {
		for _, t := range tokens {
			if matchWord(t, kw[0]) {
				return true
			}
		}
		return false
	}
	for i := 0; i+len(kw) <= len(tokens); i++ {
		if slices.Equal(tokens[i:i+len(kw)], kw) {
			return true
		}
	}
	return false
}

func matchWord(token, word string) bool {
	if token == word {
		return true
	}
	rest, ok := strings.CutPrefix(token, word)
	return ok && slices.Contains(suffixes, rest)
}
