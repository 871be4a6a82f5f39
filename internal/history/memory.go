package history

import (
	"context"
	"sync"

	"github.com/TheAwiteb/xors/internal/domain"
)

// InMemorySink is a test double, grounded on the teacher's mock style
// (testify/mock elsewhere) but implemented as a plain recorder since
// engine tests need to assert on accumulated summaries, not on call
// expectations.
type InMemorySink struct {
	mu       sync.Mutex
	Summaries []domain.GameSummary
}

func NewInMemorySink() *InMemorySink {
	return &InMemorySink{}
}

func (s *InMemorySink) Record(_ context.Context, summary domain.GameSummary) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Summaries = append(s.Summaries, summary)
	return nil
}

func (s *InMemorySink) All() []domain.GameSummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.GameSummary{}, s.Summaries...)
}
