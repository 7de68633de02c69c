package models

import "testing"

func TestNormalizeAnswer_RemoteShape(t *testing.T) {
	conf := 0.8
	resp := NormalizeAnswer(&Answer{
		AnswerID:   "A1",
		AnswerText: "תשובה",
		AudioURL:   "/audio/a1.mp3",
		Confidence: &conf,
		Tags:       []string{"router"},
	}, "remote")

	if resp.Answer != "תשובה" {
		t.Errorf("Answer = %q, want %q", resp.Answer, "תשובה")
	}
	if resp.AudioURL == nil || *resp.AudioURL != "/audio/a1.mp3" {
		t.Errorf("AudioURL = %v, want /audio/a1.mp3", resp.AudioURL)
	}
	if resp.Meta.ID == nil || *resp.Meta.ID != "A1" {
		t.Errorf("Meta.ID = %v, want A1", resp.Meta.ID)
	}
	if resp.Meta.Confidence == nil || *resp.Meta.Confidence != 0.8 {
		t.Errorf("Meta.Confidence = %v, want 0.8", resp.Meta.Confidence)
	}
	if resp.Meta.Source != "remote" {
		t.Errorf("Meta.Source = %q, want remote", resp.Meta.Source)
	}
}

func TestNormalizeAnswer_MockShape(t *testing.T) {
	resp := NormalizeAnswer(&Answer{
		ID:             "MOCK_1",
		Answer:         "שלום",
		VoiceURL:       "/voice/shalom.wav",
		MatchedKeyword: "שלום",
	}, "mock")

	if resp.Answer != "שלום" {
		t.Errorf("Answer = %q, want %q", resp.Answer, "שלום")
	}
	if resp.AudioURL == nil || *resp.AudioURL != "/voice/shalom.wav" {
		t.Errorf("AudioURL = %v, want /voice/shalom.wav", resp.AudioURL)
	}
	if resp.Meta.ID == nil || *resp.Meta.ID != "MOCK_1" {
		t.Errorf("Meta.ID = %v, want MOCK_1", resp.Meta.ID)
	}
	if resp.Meta.MatchedKeyword != "שלום" {
		t.Errorf("Meta.MatchedKeyword = %q, want שלום", resp.Meta.MatchedKeyword)
	}
}

func TestNormalizeAnswer_Fallbacks(t *testing.T) {
	tests := []struct {
		name   string
		answer *Answer
	}{
		{"nil answer", nil},
		{"empty answer", &Answer{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := NormalizeAnswer(tt.answer, "remote")
			if resp.Answer != NoAnswerText {
				t.Errorf("Answer = %q, want %q", resp.Answer, NoAnswerText)
			}
			if resp.AudioURL != nil {
				t.Errorf("AudioURL = %v, want nil", *resp.AudioURL)
			}
			if resp.Meta.ID != nil {
				t.Errorf("Meta.ID = %v, want nil", *resp.Meta.ID)
			}
			if resp.Meta.Confidence != nil {
				t.Errorf("Meta.Confidence = %v, want nil", *resp.Meta.Confidence)
			}
			if resp.Meta.Tags == nil || len(resp.Meta.Tags) != 0 {
				t.Errorf("Meta.Tags = %v, want empty slice", resp.Meta.Tags)
			}
		})
	}
}

func TestNormalizeAnswer_PrefersRemoteFields(t *testing.T) {
	resp := NormalizeAnswer(&Answer{
		AnswerID:   "remote-id",
		ID:         "mock-id",
		AnswerText: "remote",
		Answer:     "mock",
		AudioURL:   "/remote.mp3",
		VoiceURL:   "/mock.wav",
	}, "remote")

	if resp.Answer != "remote" || *resp.AudioURL != "/remote.mp3" || *resp.Meta.ID != "remote-id" {
		t.Errorf("NormalizeAnswer() = %+v, want remote fields preferred", resp)
	}
}
