package answers

import (
	"context"

	"chatwidget/internal/config"
	"chatwidget/internal/knowledge"
	"chatwidget/internal/models"
)

// MockSource answers from the in-process knowledge base.
type MockSource struct {
	matcher *knowledge.Matcher
}

// NewMockSource creates a source backed by matcher.
func NewMockSource(matcher *knowledge.Matcher) *MockSource {
	return &MockSource{matcher: matcher}
}

// Name returns the source mode.
func (s *MockSource) Name() string { return config.SourceMock }

// Matcher returns the underlying matcher.
func (s *MockSource) Matcher() *knowledge.Matcher { return s.matcher }

// Search never fails; unmatched and invalid queries yield canned answers.
func (s *MockSource) Search(ctx context.Context, query string) (*models.Answer, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r := s.matcher.QueryText(query)
	confidence := r.Confidence
	return &models.Answer{
		ID:             r.ID,
		Answer:         r.Answer,
		VoiceURL:       r.VoiceURL,
		Confidence:     &confidence,
		Tags:           r.Tags,
		MatchedKeyword: r.MatchedKeyword,
	}, nil
}
