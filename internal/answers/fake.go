package answers

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"chatwidget/internal/config"
	"chatwidget/internal/models"
)

var fakeOpenings = []string{
	"שלום! אני כאן לעזור לך. מה שאלתך?",
	"זה נשמע מעניין! אני יכול לעזור לך עם זה.",
	"בהחלט, יש לי כמה רעיונות לגבי השאלה שלך.",
	"מעולה! זה נושא שאני מכיר טוב.",
	"תודה על השאלה. הנה מה שאני יכול לומר לך:",
	"אני שמח לעזור! זה מה שאני יודע על הנושא הזה:",
	"שאלה נהדרת! בואו נחשוב על זה יחד.",
	"זה באמת נושא חשוב. הנה התשובה שלי:",
}

var fakeTopics = []string{
	"ארוחת בוקר",
	"טיולים בישראל",
	"מתכונים",
	"טכנולוגיה",
	"ספורט",
	"מוסיקה",
	"קולנוע",
	"ספרים",
}

// FakeDemoTag marks every generated answer.
const FakeDemoTag = "demo"

// FakeSource generates random demo answers for UI testing.
type FakeSource struct {
	delay time.Duration
	now   func() time.Time
	intn  func(n int) int
	float func() float64
}

// NewFakeSource creates a generator that waits delay before answering.
func NewFakeSource(delay time.Duration) *FakeSource {
	return &FakeSource{
		delay: delay,
		now:   time.Now,
		intn:  rand.IntN,
		float: rand.Float64,
	}
}

// Name returns the source mode.
func (s *FakeSource) Name() string { return config.SourceFake }

// Search returns a generated answer after the configured delay.
func (s *FakeSource) Search(ctx context.Context, query string) (*models.Answer, error) {
	if s.delay > 0 {
		timer := time.NewTimer(s.delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
		}
	} else if err := ctx.Err(); err != nil {
		return nil, err
	}

	opening := fakeOpenings[s.intn(len(fakeOpenings))]
	topic := fakeTopics[s.intn(len(fakeTopics))]
	confidence := s.float()*0.4 + 0.6

	return &models.Answer{
		AnswerID:   fmt.Sprintf("FAKE_%d", s.now().UnixMilli()),
		AnswerText: fmt.Sprintf("%s השאלה שלך על \"%s\" מעניינת מאוד. זה קשור ל%s ויש הרבה מה לומר על זה!", opening, query, topic),
		Confidence: &confidence,
		Tags:       []string{topic, "בדיקה", FakeDemoTag},
		AudioURL:   fmt.Sprintf("/audio/fake_%d.mp3", s.intn(5)+1),
	}, nil
}
