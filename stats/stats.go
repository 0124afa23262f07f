package stats

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/getsentry/sentry-go"
)

type Stats struct {
	mu sync.Mutex

	RunningSince time.Time

	ChannelPosts   uint64
	ManualRequests uint64

	ExtractionFailures  uint64
	TranslationFailures uint64

	MessagesDelivered uint64
	PartsFailed       uint64
}

func NewStats() *Stats {
	return &Stats{
		RunningSince: time.Now(),
	}
}

func (s *Stats) MarshalJSON() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return json.Marshal(struct {
		Uptime string `json:"uptime"`

		ChannelPosts   uint64 `json:"channel_posts"`
		ManualRequests uint64 `json:"manual_requests"`

		ExtractionFailures  uint64 `json:"extraction_failures"`
		TranslationFailures uint64 `json:"translation_failures"`

		MessagesDelivered uint64 `json:"messages_delivered"`
		PartsFailed       uint64 `json:"parts_failed"`
	}{
		Uptime: time.Since(s.RunningSince).Round(time.Second).String(),

		ChannelPosts:   s.ChannelPosts,
		ManualRequests: s.ManualRequests,

		ExtractionFailures:  s.ExtractionFailures,
		TranslationFailures: s.TranslationFailures,

		MessagesDelivered: s.MessagesDelivered,
		PartsFailed:       s.PartsFailed,
	})
}

func (s *Stats) String() string {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		sentry.CaptureException(err)

		return "{\"error\": \"cannot serialize stats\"}"
	}

	return string(data)
}

func (s *Stats) ChannelPost() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ChannelPosts++
}

func (s *Stats) ManualRequest() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ManualRequests++
}

func (s *Stats) ExtractionFailure() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ExtractionFailures++
}

func (s *Stats) TranslationFailure() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.TranslationFailures++
}

func (s *Stats) Delivered(failedParts int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.MessagesDelivered++
	s.PartsFailed += uint64(failedParts)
}
