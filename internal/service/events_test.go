package service

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBusDeliversToEverySubscriber(t *testing.T) {
	bus := NewBus()

	var wg sync.WaitGroup
	wg.Add(2)
	var mu sync.Mutex
	var got []string

	bus.SubscribeFormationCompleted(func(evt FormationCompletedEvent) {
		mu.Lock()
		got = append(got, "certificates:"+evt.EnrollmentID)
		mu.Unlock()
		wg.Done()
	})
	bus.SubscribeFormationCompleted(func(evt FormationCompletedEvent) {
		mu.Lock()
		got = append(got, "badges:"+evt.EnrollmentID)
		mu.Unlock()
		wg.Done()
	})

	bus.FormationCompleted(FormationCompletedEvent{EnrollmentID: "e1"})

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("handlers did not run")
	}

	mu.Lock()
	defer mu.Unlock()
	assert.ElementsMatch(t, []string{"certificates:e1", "badges:e1"}, got)
}

func TestBusWithNoSubscribersDoesNotBlock(t *testing.T) {
	bus := NewBus()
	bus.FormationCompleted(FormationCompletedEvent{EnrollmentID: "e1"})
	bus.QuizPassed(QuizPassedEvent{QuizID: "q1"})
}
