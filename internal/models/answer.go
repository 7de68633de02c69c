package models

// NoAnswerText is returned when a backend answer carries no text.
const NoAnswerText = "מצטער, לא מצאתי תשובה מתאימה."

// Answer is the loose answer shape produced by any backend. The external
// search API uses answerId/answerText/audioUrl; the mock engine uses
// id/answer/voiceUrl. Only one of each pair is normally set.
type Answer struct {
	AnswerID       string   `json:"answerId,omitempty"`
	ID             string   `json:"id,omitempty"`
	AnswerText     string   `json:"answerText,omitempty"`
	Answer         string   `json:"answer,omitempty"`
	AudioURL       string   `json:"audioUrl,omitempty"`
	VoiceURL       string   `json:"voiceUrl,omitempty"`
	Confidence     *float64 `json:"confidence,omitempty"`
	Tags           []string `json:"tags,omitempty"`
	MatchedKeyword string   `json:"matchedKeyword,omitempty"`
}

// AskRequest is the body of POST /api/ask. Query is decoded loosely so a
// non-string value can be rejected explicitly.
type AskRequest struct {
	Query     any    `json:"query"`
	SessionID string `json:"sessionId"`
}

// AnswerMeta carries diagnostic fields alongside the answer text.
type AnswerMeta struct {
	ID             *string  `json:"id"`
	Confidence     *float64 `json:"confidence"`
	Tags           []string `json:"tags"`
	MatchedKeyword string   `json:"matchedKeyword,omitempty"`
	Source         string   `json:"source"`
}

// AskResponse is the normalized answer returned to the widget.
type AskResponse struct {
	Answer    string     `json:"answer"`
	AudioURL  *string    `json:"audioUrl"`
	SessionID string     `json:"sessionId,omitempty"`
	Meta      AnswerMeta `json:"meta"`
}

// NormalizeAnswer folds a backend answer into the widget response shape,
// preferring the external API field names and falling back to the mock ones.
func NormalizeAnswer(a *Answer, source string) AskResponse {
	if a == nil {
		a = &Answer{}
	}

	resp := AskResponse{
		Answer: firstNonEmpty(a.AnswerText, a.Answer, NoAnswerText),
		Meta: AnswerMeta{
			Confidence:     a.Confidence,
			Tags:           a.Tags,
			MatchedKeyword: a.MatchedKeyword,
			Source:         source,
		},
	}
	if resp.Meta.Tags == nil {
		resp.Meta.Tags = []string{}
	}
	if audio := firstNonEmpty(a.AudioURL, a.VoiceURL); audio != "" {
		resp.AudioURL = &audio
	}
	if id := firstNonEmpty(a.AnswerID, a.ID); id != "" {
		resp.Meta.ID = &id
	}
	return resp
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
