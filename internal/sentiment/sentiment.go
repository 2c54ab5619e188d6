package sentiment

import (
	"errors"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/jonreiter/govader"

	"github.com/i474232898/insight-dashboards/internal/common"
)

// ErrEmptyText is returned when there is nothing to analyze.
var ErrEmptyText = errors.New("text is empty")

// MaxCloudWords caps the number of words in a word cloud.
const MaxCloudWords = 200

// Label is the polarity class of a text.
type Label string

const (
	Positive Label = "Positive"
	Negative Label = "Negative"
	Neutral  Label = "Neutral"
)

// WordCount is one token and the number of times it occurs.
type WordCount struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

// CloudWord is a word-cloud entry; Weight is its count relative to the most frequent word.
type CloudWord struct {
	Word   string  `json:"word"`
	Count  int     `json:"count"`
	Weight float64 `json:"weight"`
}

// Result is the full sentiment dashboard view of a text.
type Result struct {
	Label Label       `json:"label"`
	Score float64     `json:"score"`
	Words []WordCount `json:"words"`
	Cloud []CloudWord `json:"cloud"`
}

// Analyzer scores text polarity with VADER.
type Analyzer struct {
	once sync.Once
	sia  *govader.SentimentIntensityAnalyzer
}

// NewAnalyzer returns an Analyzer; the lexicon is loaded on first use.
func NewAnalyzer() *Analyzer {
	return &Analyzer{}
}

func (a *Analyzer) vader() *govader.SentimentIntensityAnalyzer {
	a.once.Do(func() {
		a.sia = govader.NewSentimentIntensityAnalyzer()
	})
	return a.sia
}

// Polarity returns the compound polarity of text in [-1, 1].
func (a *Analyzer) Polarity(text string) float64 {
	return a.vader().PolarityScores(text).Compound
}

// Analyze scores text and builds its word frequencies and word cloud.
func (a *Analyzer) Analyze(text string) (Result, error) {
	if strings.TrimSpace(text) == "" {
		return Result{}, ErrEmptyText
	}

	polarity := a.Polarity(text)
	return Result{
		Label: Classify(polarity),
		Score: common.Round(polarity, 2),
		Words: WordFrequencies(text),
		Cloud: Cloud(text, MaxCloudWords),
	}, nil
}

// Classify maps a polarity score to its label.
func Classify(polarity float64) Label {
	switch {
	case polarity > 0:
		return Positive
	case polarity < 0:
		return Negative
	default:
		return Neutral
	}
}

// WordFrequencies counts whitespace-separated tokens exactly as written,
// most frequent first and alphabetical among ties.
func WordFrequencies(text string) []WordCount {
	return countTokens(strings.Fields(text))
}

var cloudToken = regexp.MustCompile(`[\p{L}\p{N}][\p{L}\p{N}'’]*`)

// Cloud returns up to max weighted words for a word cloud. Words are lower-cased,
// stop words and bare numbers are skipped and a trailing possessive 's is dropped.
func Cloud(text string, max int) []CloudWord {
	var tokens []string
	for _, tok := range cloudToken.FindAllString(strings.ToLower(text), -1) {
		tok = strings.TrimRight(strings.ReplaceAll(tok, "’", "'"), "'")
		// Stop words are matched before the possessive is stripped, so "let's" goes
		// but "sun's" counts as "sun".
		if stopWords[tok] {
			continue
		}
		tok = strings.TrimSuffix(tok, "'s")
		if tok == "" {
			continue
		}
		if _, err := strconv.ParseFloat(tok, 64); err == nil {
			continue
		}
		tokens = append(tokens, tok)
	}

	counts := countTokens(tokens)
	if max > 0 && len(counts) > max {
		counts = counts[:max]
	}

	cloud := make([]CloudWord, len(counts))
	for i, wc := range counts {
		cloud[i] = CloudWord{
			Word:   wc.Word,
			Count:  wc.Count,
			Weight: float64(wc.Count) / float64(counts[0].Count),
		}
	}
	return cloud
}

func countTokens(tokens []string) []WordCount {
	index := make(map[string]int)
	out := []WordCount{}
	for _, tok := range tokens {
		i, ok := index[tok]
		if !ok {
			i = len(out)
			index[tok] = i
			out = append(out, WordCount{Word: tok})
		}
		out[i].Count++
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Word < out[j].Word
	})
	return out
}
