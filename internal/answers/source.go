// Package answers provides the backends that answer widget queries: the
// local keyword matcher, a demo generator and the external search API.
package answers

import (
	"context"
	"slices"

	"chatwidget/internal/config"
	"chatwidget/internal/knowledge"
	"chatwidget/internal/models"
)

// Source answers a single trimmed query.
type Source interface {
	Name() string
	Search(ctx context.Context, query string) (*models.Answer, error)
}

// New selects the source configured by DB_API_BASE.
func New(cfg *config.Config, matcher *knowledge.Matcher) (Source, error) {
	switch cfg.Source() {
	case config.SourceFake:
		return NewFakeSource(cfg.FakeAPIDelay), nil
	case config.SourceRemote:
		return NewRemoteSource(context.Background(), RemoteConfig{
			BaseURL:      cfg.DBAPIBase,
			APIKey:       cfg.DBAPIKey,
			TokenURL:     cfg.DBAPITokenURL,
			ClientID:     cfg.DBAPIClientID,
			ClientSecret: cfg.DBAPIClientSecret,
			Timeout:      cfg.DBAPITimeout,
		})
	default:
		return NewMockSource(matcher), nil
	}
}

// Outcome classifies an answer for query analytics. The keyword is the
// matched knowledge base keyword, or the outcome when nothing matched.
func Outcome(source string, a *models.Answer) (keyword, outcome string) {
	switch {
	case source != config.SourceMock:
		return models.OutcomeRemote, models.OutcomeRemote
	case a == nil:
		return models.OutcomeError, models.OutcomeError
	case a.MatchedKeyword != "":
		return a.MatchedKeyword, models.OutcomeMatched
	case slices.Contains(a.Tags, knowledge.TagError):
		return models.OutcomeInvalid, models.OutcomeInvalid
	default:
		return models.OutcomeNoMatch, models.OutcomeNoMatch
	}
}
