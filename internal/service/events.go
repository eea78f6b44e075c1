package service

import "sync"

// FormationCompletedEvent fires exactly once per enrollment, when the
// completion transition commits. Consumers (certificate issuer, badge
// evaluator) run asynchronously; the core never waits on them.
type FormationCompletedEvent struct {
	EnrollmentID string `json:"enrollmentId"`
	FormationID  string `json:"formationId"`
	UserID       uint   `json:"userId"`
}

type QuizPassedEvent struct {
	EnrollmentID    string `json:"enrollmentId"`
	QuizID          string `json:"quizId"`
	UserID          uint   `json:"userId"`
	ScorePercentage int    `json:"scorePercentage"`
}

// EventPublisher is what the core services see; Bus is the in-process
// implementation wired in app.
type EventPublisher interface {
	FormationCompleted(evt FormationCompletedEvent)
	QuizPassed(evt QuizPassedEvent)
}

type Bus struct {
	mu                 sync.RWMutex
	completionHandlers []func(FormationCompletedEvent)
	quizHandlers       []func(QuizPassedEvent)
}

func NewBus() *Bus {
	return &Bus{}
}

func (b *Bus) SubscribeFormationCompleted(h func(FormationCompletedEvent)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.completionHandlers = append(b.completionHandlers, h)
}

func (b *Bus) SubscribeQuizPassed(h func(QuizPassedEvent)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.quizHandlers = append(b.quizHandlers, h)
}

func (b *Bus) FormationCompleted(evt FormationCompletedEvent) {
	b.mu.RLock()
	handlers := make([]func(FormationCompletedEvent), len(b.completionHandlers))
	copy(handlers, b.completionHandlers)
	b.mu.RUnlock()

	for _, h := range handlers {
		go h(evt)
	}
}

func (b *Bus) QuizPassed(evt QuizPassedEvent) {
	b.mu.RLock()
	handlers := make([]func(QuizPassedEvent), len(b.quizHandlers))
	copy(handlers, b.quizHandlers)
	b.mu.RUnlock()

	for _, h := range handlers {
		go h(evt)
	}
}
