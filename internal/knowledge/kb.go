package knowledge

import (
	"slices"
	"strings"
	"sync"
)

// Defaults applied by AddEntry when the caller omits them.
const (
	DefaultConfidence = 0.9
	DefaultTag        = "custom"
)

// Entry is a single keyword-triggered answer.
type Entry struct {
	Keyword    string   `json:"keyword" yaml:"keyword"`
	Answer     string   `json:"answer" yaml:"answer"`
	VoiceURL   string   `json:"voiceUrl,omitempty" yaml:"voice_url,omitempty"`
	Confidence float64  `json:"confidence" yaml:"confidence"`
	Tags       []string `json:"tags" yaml:"tags"`
}

// Stats summarizes the knowledge base contents.
type Stats struct {
	TotalEntries      int            `json:"totalEntries"`
	TagCounts         map[string]int `json:"tagCounts"`
	AvailableKeywords []string       `json:"availableKeywords"`
}

// storedEntry keeps the precomputed comparison forms next to the entry.
type storedEntry struct {
	Entry
	normalized string
	words      []string
}

// KnowledgeBase is an insertion-ordered keyword to entry table. Readers
// receive copies; mutation is serialized behind a write lock.
type KnowledgeBase struct {
	mu            sync.RWMutex
	order         []string
	entries       map[string]*storedEntry
	functionWords map[string]struct{}
}

// NewKnowledgeBase creates an empty knowledge base. functionWords lists the
// keywords that are down-weighted during substring ranking.
func NewKnowledgeBase(functionWords ...string) *KnowledgeBase {
	kb := &KnowledgeBase{
		entries:       make(map[string]*storedEntry),
		functionWords: make(map[string]struct{}, len(functionWords)),
	}
	for _, w := range functionWords {
		if n := fold(w); n != "" {
			kb.functionWords[n] = struct{}{}
		}
	}
	return kb
}

// Put inserts or overwrites an entry. An overwritten keyword keeps its
// original position in iteration order.
func (kb *KnowledgeBase) Put(e Entry) error {
	// An empty normalized keyword is a substring of every query.
	normalized := fold(e.Keyword)
	if normalized == "" {
		return ErrInvalidKeyword
	}
	if !(e.Confidence > 0 && e.Confidence <= 1) {
		return ErrInvalidConfidence
	}

	stored := &storedEntry{
		Entry:      cloneEntry(e),
		normalized: normalized,
		words:      strings.Fields(normalized),
	}

	kb.mu.Lock()
	defer kb.mu.Unlock()

	if _, exists := kb.entries[e.Keyword]; !exists {
		kb.order = append(kb.order, e.Keyword)
	}
	kb.entries[e.Keyword] = stored
	return nil
}

// AddEntry inserts or overwrites the entry for keyword. Empty tags default to
// ["custom"] and a nil confidence defaults to 0.9.
func (kb *KnowledgeBase) AddEntry(keyword, answer string, tags []string, confidence *float64) error {
	return kb.AddEntryWithVoice(keyword, answer, "", tags, confidence)
}

// AddEntryWithVoice is AddEntry with a pre-recorded voice reference.
func (kb *KnowledgeBase) AddEntryWithVoice(keyword, answer, voiceURL string, tags []string, confidence *float64) error {
	if len(tags) == 0 {
		tags = []string{DefaultTag}
	}
	c := DefaultConfidence
	if confidence != nil {
		c = *confidence
	}
	return kb.Put(Entry{
		Keyword:    keyword,
		Answer:     answer,
		VoiceURL:   voiceURL,
		Confidence: c,
		Tags:       tags,
	})
}

// Get returns a copy of the entry stored under keyword.
func (kb *KnowledgeBase) Get(keyword string) (Entry, bool) {
	kb.mu.RLock()
	defer kb.mu.RUnlock()

	s, ok := kb.entries[keyword]
	if !ok {
		return Entry{}, false
	}
	return cloneEntry(s.Entry), true
}

// Keywords returns all keywords in insertion order.
func (kb *KnowledgeBase) Keywords() []string {
	kb.mu.RLock()
	defer kb.mu.RUnlock()
	return slices.Clone(kb.order)
}

// Len returns the number of entries.
func (kb *KnowledgeBase) Len() int {
	kb.mu.RLock()
	defer kb.mu.RUnlock()
	return len(kb.order)
}

// Stats returns the entry count, a tag histogram and the keyword list.
func (kb *KnowledgeBase) Stats() Stats {
	kb.mu.RLock()
	defer kb.mu.RUnlock()

	counts := make(map[string]int)
	for _, k := range kb.order {
		for _, tag := range kb.entries[k].Tags {
			counts[tag]++
		}
	}
	return Stats{
		TotalEntries:      len(kb.order),
		TagCounts:         counts,
		AvailableKeywords: slices.Clone(kb.order),
	}
}

// IsFunctionWord reports whether the normalized keyword is down-weighted.
func (kb *KnowledgeBase) IsFunctionWord(normalized string) bool {
	kb.mu.RLock()
	defer kb.mu.RUnlock()
	_, ok := kb.functionWords[normalized]
	return ok
}

// candidate is an immutable view of an entry used by a single query.
type candidate struct {
	entry        Entry
	normalized   string
	words        []string
	functionWord bool
}

// snapshot copies the table in iteration order so matching runs without
// holding the lock.
func (kb *KnowledgeBase) snapshot() []candidate {
	kb.mu.RLock()
	defer kb.mu.RUnlock()

	out := make([]candidate, 0, len(kb.order))
	for _, k := range kb.order {
		s := kb.entries[k]
		_, fw := kb.functionWords[s.normalized]
		out = append(out, candidate{
			entry:        s.Entry,
			normalized:   s.normalized,
			words:        s.words,
			functionWord: fw,
		})
	}
	return out
}

func cloneEntry(e Entry) Entry {
	e.Tags = slices.Clone(e.Tags)
	return e
}
