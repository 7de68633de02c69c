package knowledge

import (
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(f float64) *float64 { return &f }

func newTestMatcher(t *testing.T, functionWords []string, entries ...Entry) *Matcher {
	t.Helper()
	kb := NewKnowledgeBase(functionWords...)
	for _, e := range entries {
		require.NoError(t, kb.Put(e))
	}
	return NewMatcher(kb)
}

func TestMatcher_ExactGreeting(t *testing.T) {
	m := NewMatcher(Default())

	res := m.QueryText("שלום")
	assert.Equal(t, "שלום", res.MatchedKeyword)
	assert.InDelta(t, 0.95, res.Confidence, 1e-9)
	assert.Equal(t, "שלום וברכה! איך אוכל לעזור לך היום?", res.Answer)
	assert.Equal(t, "/voice/shalom_greeting.wav", res.VoiceURL)
	assert.Equal(t, []string{"greeting", "hello"}, res.Tags)
	assert.True(t, strings.HasPrefix(res.ID, "MOCK_"))
}

func TestMatcher_CaseInsensitiveLatinKeyword(t *testing.T) {
	m := NewMatcher(Default())

	res := m.QueryText("BE FIBER")
	assert.Equal(t, "Be Fiber", res.MatchedKeyword, "original casing is preserved")
	assert.InDelta(t, 0.95, res.Confidence, 1e-9)
}

func TestMatcher_DirectionalMarksIgnored(t *testing.T) {
	m := NewMatcher(Default())

	res := m.QueryText("\u200Fשלום\u200E")
	assert.Equal(t, "שלום", res.MatchedKeyword)
	assert.InDelta(t, 0.95, res.Confidence, 1e-9)
}

func TestMatcher_ExactBeatsSubstring(t *testing.T) {
	m := newTestMatcher(t, nil,
		Entry{Keyword: "router", Answer: "exact", Confidence: 0.9, Tags: []string{"a"}},
	)

	exact := m.QueryText("router")
	partial := m.QueryText("router please")

	assert.InDelta(t, 0.9, exact.Confidence, 1e-9)
	assert.InDelta(t, 0.72, partial.Confidence, 1e-9)
	assert.Greater(t, exact.Confidence, partial.Confidence)
}

func TestMatcher_PositionPenalty(t *testing.T) {
	m := newTestMatcher(t, nil,
		Entry{Keyword: "שלום", Answer: "hi", Confidence: 0.95, Tags: []string{"greeting"}},
	)

	// Four runes precede the keyword: (0.8 - 0.08) * 0.95.
	res := m.QueryText("אה, שלום")
	assert.Equal(t, "שלום", res.MatchedKeyword)
	assert.InDelta(t, 0.684, res.Confidence, 1e-9)
}

func TestMatcher_EarlierPositionWins(t *testing.T) {
	m := newTestMatcher(t, nil,
		Entry{Keyword: "mesh", Answer: "mesh", Confidence: 0.9, Tags: []string{"a"}},
		Entry{Keyword: "gaming", Answer: "gaming", Confidence: 0.9, Tags: []string{"b"}},
	)

	res := m.QueryText("gaming with mesh")
	assert.Equal(t, "gaming", res.MatchedKeyword)
}

func TestMatcher_FunctionWordDamping(t *testing.T) {
	entry := Entry{Keyword: "מה", Answer: "what", Confidence: 0.8, Tags: []string{"question"}}

	plain := newTestMatcher(t, nil, entry).QueryText("מה")
	damped := newTestMatcher(t, []string{"מה"}, entry).QueryText("מה")

	assert.InDelta(t, 0.8, plain.Confidence, 1e-9)
	assert.InDelta(t, 0.4, damped.Confidence, 1e-9)
	assert.InDelta(t, plain.Confidence/2, damped.Confidence, 1e-9)
}

func TestMatcher_FunctionWordBelowThreshold(t *testing.T) {
	m := NewMatcher(Default())

	// 1.0 * 0.6 * 0.5 = 0.3, which does not clear the threshold.
	res := m.QueryText("מה")
	assert.Empty(t, res.MatchedKeyword)
	assert.Equal(t, []string{TagDefault, TagNoMatch}, res.Tags)
}

func TestMatcher_TieKeepsFirstInserted(t *testing.T) {
	m := newTestMatcher(t, nil,
		Entry{Keyword: "Mesh", Answer: "first", Confidence: 0.9, Tags: []string{"a"}},
		Entry{Keyword: "mesh", Answer: "second", Confidence: 0.9, Tags: []string{"b"}},
	)

	res := m.QueryText("mesh")
	assert.Equal(t, "Mesh", res.MatchedKeyword)
	assert.Equal(t, "first", res.Answer)
}

func TestMatcher_Fallback(t *testing.T) {
	m := NewMatcher(Default())

	for _, q := range []string{"ץ", "xyz", "   "} {
		t.Run(fmt.Sprintf("%q", q), func(t *testing.T) {
			res := m.QueryText(q)
			assert.Equal(t, FallbackAnswer, res.Answer)
			assert.InDelta(t, 0.4, res.Confidence, 1e-9)
			assert.Equal(t, []string{TagDefault, TagNoMatch}, res.Tags)
			assert.Empty(t, res.MatchedKeyword)
			assert.Empty(t, res.VoiceURL)
			assert.False(t, res.Matched())
			assert.True(t, strings.HasPrefix(res.ID, "DEFAULT_"))
		})
	}
}

func TestMatcher_InvalidInput(t *testing.T) {
	m := NewMatcher(Default())

	for _, in := range []any{nil, 42, "", []byte("שלום")} {
		t.Run(fmt.Sprintf("%T", in), func(t *testing.T) {
			res := m.Query(ParseQuery(in))
			assert.Equal(t, InvalidAnswer, res.Answer)
			assert.InDelta(t, 0.1, res.Confidence, 1e-9)
			assert.Equal(t, []string{TagError}, res.Tags)
			assert.Empty(t, res.MatchedKeyword)
			assert.True(t, res.IsError())
			assert.True(t, strings.HasPrefix(res.ID, "ERROR_"))
		})
	}
}

func TestMatcher_WordOverlap(t *testing.T) {
	m := newTestMatcher(t, nil,
		Entry{Keyword: "עבודה מהבית", Answer: "wfh", Confidence: 0.9, Tags: []string{"remote-work"}},
	)

	// Only "מהבית" overlaps: 1/2 * 0.9 * 0.8.
	res := m.QueryText("אני רוצה לעבוד מהבית היום")
	assert.Equal(t, "עבודה מהבית", res.MatchedKeyword)
	assert.InDelta(t, 0.36, res.Confidence, 1e-9)
}

func TestMatcher_WordOverlapBelowThreshold(t *testing.T) {
	m := newTestMatcher(t, nil,
		Entry{Keyword: "עבודה מהבית", Answer: "wfh", Confidence: 0.7, Tags: []string{"remote-work"}},
	)

	// 1/2 * 0.7 * 0.8 = 0.28.
	res := m.QueryText("אני רוצה לעבוד מהבית היום")
	assert.Empty(t, res.MatchedKeyword)
}

func TestMatcher_WordOverlapSkipsSingleRuneWords(t *testing.T) {
	m := newTestMatcher(t, nil,
		Entry{Keyword: "a router", Answer: "router", Confidence: 1, Tags: []string{"a"}},
	)

	// "a" is ignored, "router" counts: 1/2 * 1 * 0.8.
	res := m.QueryText("my new routers")
	assert.Equal(t, "a router", res.MatchedKeyword)
	assert.InDelta(t, 0.4, res.Confidence, 1e-9)
}

func TestMatcher_SubstringPassPreemptsOverlap(t *testing.T) {
	m := newTestMatcher(t, nil,
		Entry{Keyword: "עבודה מהבית", Answer: "wfh", Confidence: 0.9, Tags: []string{"remote-work"}},
		Entry{Keyword: "היום", Answer: "today", Confidence: 0.9, Tags: []string{"time"}},
	)

	res := m.QueryText("אני רוצה לעבוד מהבית היום")
	assert.Equal(t, "היום", res.MatchedKeyword)
}

func TestMatcher_PhraseRescueAfterPenalty(t *testing.T) {
	m := newTestMatcher(t, nil,
		Entry{Keyword: "a b", Answer: "phrase", Confidence: 1, Tags: []string{"a"}},
	)

	// The keyword starts at rune 46, so the substring score is negative and
	// the overlap pass runs. Both keyword words are single runes, so only the
	// whole-phrase check can credit the entry.
	res := m.QueryText(strings.Repeat("z", 45) + " a b")
	assert.Equal(t, "a b", res.MatchedKeyword)
	assert.InDelta(t, 0.8, res.Confidence, 1e-9)
}

func TestMatcher_ConfidenceBounds(t *testing.T) {
	m := NewMatcher(Default())
	queries := []string{
		"שלום", "היי מה נשמע", "בוקר טוב לכולם", "סיבים", "be fiber", "פייבר",
		"גיימינג", "mesh", "אבטחה", "עבודה מהבית", "סטרימינג", "full fiber",
		"פנייה", "0501234567", "על", "רוצה לדעת", "איך", "למה", "ץ", "   ",
		strings.Repeat("שלום ", 40),
	}
	for _, q := range queries {
		res := m.QueryText(q)
		assert.GreaterOrEqual(t, res.Confidence, 0.0, q)
		assert.LessOrEqual(t, res.Confidence, 0.95, q)
	}
}

func TestMatcher_Deterministic(t *testing.T) {
	m := NewMatcher(Default())

	for _, q := range []string{"שלום", "אני רוצה לעבוד מהבית היום", "ץ", "איך מתקינים mesh"} {
		a := m.QueryText(q)
		b := m.QueryText(q)
		assert.Equal(t, a.Answer, b.Answer)
		assert.Equal(t, a.MatchedKeyword, b.MatchedKeyword)
		assert.Equal(t, a.Confidence, b.Confidence)
		assert.NotEqual(t, a.ID, b.ID, "result ids are unique per call")
	}
}

func TestMatcher_AddEntryOverwrites(t *testing.T) {
	m := NewMatcher(NewKnowledgeBase())

	require.NoError(t, m.AddEntry("x", "first", nil, nil))
	require.NoError(t, m.AddEntry("x", "second", nil, nil))

	res := m.QueryText("x")
	assert.Equal(t, "second", res.Answer)
	assert.Equal(t, []string{"x"}, m.Keywords())
}

func TestMatcher_AddEntryDefaults(t *testing.T) {
	m := NewMatcher(NewKnowledgeBase())

	require.NoError(t, m.AddEntry("ראוטר", "answer", nil, nil))

	e, ok := m.KnowledgeBase().Get("ראוטר")
	require.True(t, ok)
	assert.Equal(t, []string{DefaultTag}, e.Tags)
	assert.InDelta(t, DefaultConfidence, e.Confidence, 1e-9)

	require.NoError(t, m.AddEntry("נתב", "answer", []string{"router"}, ptr(0.5)))
	e, ok = m.KnowledgeBase().Get("נתב")
	require.True(t, ok)
	assert.Equal(t, []string{"router"}, e.Tags)
	assert.InDelta(t, 0.5, e.Confidence, 1e-9)
}

func TestMatcher_AddEntryValidation(t *testing.T) {
	m := NewMatcher(NewKnowledgeBase())

	assert.ErrorIs(t, m.AddEntry("", "a", nil, nil), ErrInvalidKeyword)
	assert.ErrorIs(t, m.AddEntry("  ", "a", nil, nil), ErrInvalidKeyword)
	assert.ErrorIs(t, m.AddEntry("k", "a", nil, ptr(0)), ErrInvalidConfidence)
	assert.ErrorIs(t, m.AddEntry("k", "a", nil, ptr(1.5)), ErrInvalidConfidence)
	assert.ErrorIs(t, m.AddEntry("k", "a", nil, ptr(-0.2)), ErrInvalidConfidence)
	assert.Empty(t, m.Keywords())
}

func TestMatcher_ResultDoesNotAliasEntry(t *testing.T) {
	m := newTestMatcher(t, nil,
		Entry{Keyword: "mesh", Answer: "mesh", Confidence: 0.9, Tags: []string{"wifi"}},
	)

	res := m.QueryText("mesh")
	res.Tags[0] = "mutated"

	again := m.QueryText("mesh")
	assert.Equal(t, []string{"wifi"}, again.Tags)
}

func TestMatcher_ConcurrentQueriesAndWrites(t *testing.T) {
	m := NewMatcher(Default())

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				res := m.QueryText("שלום")
				assert.Equal(t, "שלום", res.MatchedKeyword)
			}
		}(i)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				_ = m.AddEntry(fmt.Sprintf("מילה%d-%d", i, j), "answer", nil, nil)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 21+8*50, m.Stats().TotalEntries)
}
