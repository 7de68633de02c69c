package knowledge

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync/atomic"
	"time"
	"unicode/utf8"
)

// Scoring constants. These are fixed; callers cannot tune them per query.
const (
	exactMatchBase    = 1.0
	substringBase     = 0.8
	positionPenalty   = 0.02
	functionWordScale = 0.5
	overlapScale      = 0.8

	matchThreshold = 0.3
	maxConfidence  = 0.95

	fallbackConfidence = 0.4
	invalidConfidence  = 0.1
)

// Canned answers for the two non-match outcomes.
const (
	FallbackAnswer = "זו שאלה מעניינת! אני עדיין לומד ואוסף מידע. תוכל לשאול על כל מוצרי האינטרנט של בזק או על איך לדבר איתנו?"
	InvalidAnswer  = "לא הבנתי את השאלה. אנא נסה שוב."
)

// Result tags for the non-match outcomes.
const (
	TagDefault = "default"
	TagNoMatch = "no-match"
	TagError   = "error"
)

// Result is the answer selected for a single query.
type Result struct {
	Answer         string   `json:"answer"`
	VoiceURL       string   `json:"voiceUrl,omitempty"`
	Confidence     float64  `json:"confidence"`
	Tags           []string `json:"tags"`
	MatchedKeyword string   `json:"matchedKeyword,omitempty"`
	ID             string   `json:"id"`
}

// Matched reports whether the result came from a knowledge base entry.
func (r Result) Matched() bool {
	return r.MatchedKeyword != ""
}

// IsError reports whether the result is the invalid-input answer.
func (r Result) IsError() bool {
	return slices.Contains(r.Tags, TagError)
}

// Matcher ranks knowledge base entries against free-text queries.
// It is safe for concurrent use.
type Matcher struct {
	kb     *KnowledgeBase
	logger *slog.Logger
	seq    atomic.Uint64
	now    func() time.Time
}

// Option configures a Matcher.
type Option func(*Matcher)

// WithLogger sets a custom logger. Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(m *Matcher) {
		if logger == nil {
			logger = slog.Default()
		}
		m.logger = logger
	}
}

// WithClock overrides the time source used for result IDs.
func WithClock(now func() time.Time) Option {
	return func(m *Matcher) {
		if now != nil {
			m.now = now
		}
	}
}

// NewMatcher creates a matcher over kb. A nil kb is replaced with an empty one.
func NewMatcher(kb *KnowledgeBase, opts ...Option) *Matcher {
	if kb == nil {
		kb = NewKnowledgeBase()
	}
	m := &Matcher{
		kb:     kb,
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// KnowledgeBase returns the table the matcher ranks.
func (m *Matcher) KnowledgeBase() *KnowledgeBase {
	return m.kb
}

// AddEntry inserts or overwrites a knowledge base entry.
func (m *Matcher) AddEntry(keyword, answer string, tags []string, confidence *float64) error {
	return m.AddEntryWithVoice(keyword, answer, "", tags, confidence)
}

// AddEntryWithVoice is AddEntry with a pre-recorded voice reference.
func (m *Matcher) AddEntryWithVoice(keyword, answer, voiceURL string, tags []string, confidence *float64) error {
	if err := m.kb.AddEntryWithVoice(keyword, answer, voiceURL, tags, confidence); err != nil {
		return err
	}
	m.logger.Info("knowledge entry added", "keyword", keyword)
	return nil
}

// Keywords returns all keywords in insertion order.
func (m *Matcher) Keywords() []string {
	return m.kb.Keywords()
}

// Stats returns knowledge base statistics.
func (m *Matcher) Stats() Stats {
	return m.kb.Stats()
}

// QueryText matches a plain string.
func (m *Matcher) QueryText(text string) Result {
	return m.Query(TextQuery(text))
}

// Query selects the best entry for q. Invalid input yields the error result
// and an unmatched query yields the default fallback; neither is an error.
func (m *Matcher) Query(q Query) Result {
	if !q.Valid() {
		return m.invalidResult()
	}
	normalized, err := Normalize(q.Text())
	if err != nil {
		return m.invalidResult()
	}
	m.logger.Debug("knowledge query", "query", normalized)

	candidates := m.kb.snapshot()

	best, score, ok := bestSubstringMatch(normalized, candidates)
	if !ok {
		best, score, ok = bestOverlapMatch(normalized, candidates)
	}

	if ok && score > matchThreshold {
		m.logger.Debug("knowledge match", "keyword", best.Keyword, "score", fmt.Sprintf("%.2f", score))
		return Result{
			Answer:         best.Answer,
			VoiceURL:       best.VoiceURL,
			Confidence:     min(score, maxConfidence),
			Tags:           slices.Clone(best.Tags),
			MatchedKeyword: best.Keyword,
			ID:             m.nextID("MOCK"),
		}
	}

	m.logger.Debug("knowledge no match", "query", normalized)
	return Result{
		Answer:     FallbackAnswer,
		Confidence: fallbackConfidence,
		Tags:       []string{TagDefault, TagNoMatch},
		ID:         m.nextID("DEFAULT"),
	}
}

func (m *Matcher) invalidResult() Result {
	return Result{
		Answer:     InvalidAnswer,
		Confidence: invalidConfidence,
		Tags:       []string{TagError},
		ID:         m.nextID("ERROR"),
	}
}

func (m *Matcher) nextID(prefix string) string {
	return fmt.Sprintf("%s_%d_%d", prefix, m.now().UnixMilli(), m.seq.Add(1))
}

// bestSubstringMatch scores entries whose keyword occurs verbatim in query.
// A candidate must strictly beat the running best, which starts at zero, so
// ties keep the earlier entry and fully penalised hits are ignored.
func bestSubstringMatch(query string, candidates []candidate) (Entry, float64, bool) {
	var (
		best      Entry
		bestScore float64
		found     bool
	)
	for _, c := range candidates {
		idx := strings.Index(query, c.normalized)
		if idx < 0 {
			continue
		}

		score := substringBase
		if query == c.normalized {
			score = exactMatchBase
		}
		score -= positionPenalty * float64(utf8.RuneCountInString(query[:idx]))
		score *= c.entry.Confidence
		if c.functionWord {
			score *= functionWordScale
		}

		if score > bestScore {
			best, bestScore, found = c.entry, score, true
		}
	}
	return best, bestScore, found
}

// bestOverlapMatch scores entries by the share of keyword words that appear
// inside query words.
func bestOverlapMatch(query string, candidates []candidate) (Entry, float64, bool) {
	var (
		best      Entry
		bestScore float64
		found     bool
	)
	queryWords := strings.Fields(query)

	for _, c := range candidates {
		if len(c.words) == 0 {
			continue
		}

		matched := 0
		for _, kw := range c.words {
			if utf8.RuneCountInString(kw) <= 1 {
				continue
			}
			for _, qw := range queryWords {
				if strings.Contains(qw, kw) {
					matched++
					break
				}
			}
		}
		// Whole-phrase hits get full credit even when tokenization missed them.
		if strings.Contains(query, c.normalized) {
			matched = max(matched, len(c.words))
		}
		if matched == 0 {
			continue
		}

		score := float64(matched) / float64(len(c.words)) * c.entry.Confidence * overlapScale
		if score > bestScore {
			best, bestScore, found = c.entry, score, true
		}
	}
	return best, bestScore, found
}
