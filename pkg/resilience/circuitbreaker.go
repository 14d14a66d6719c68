package resilience

import (
	"errors"
	"sync"
	"time"

	"shipped-video-hub/backend/pkg/logger"
)

// ErrOpen is returned when the breaker short-circuits a call
var ErrOpen = errors.New("circuit open")

// State is the current breaker state
type State string

const (
	StateClosed   State = "closed"
	StateOpen     State = "open"
	StateHalfOpen State = "half-open"
)

// Config holds the thresholds for one breaker
type Config struct {
	Name             string
	FailureThreshold uint
	SuccessThreshold uint
	RetryTimeout     time.Duration
}

// DefaultConfig returns the thresholds used for outbound vendor calls
func DefaultConfig(name string) Config {
	return Config{
		Name:             name,
		FailureThreshold: 5,
		SuccessThreshold: 2,
		RetryTimeout:     60 * time.Second,
	}
}

// Breaker guards an outbound dependency. After FailureThreshold
// consecutive failures it opens and rejects calls until RetryTimeout
// passes, then lets a trickle through; SuccessThreshold consecutive
// successes close it again.
type Breaker struct {
	name             string
	state            State
	failureThreshold uint
	successThreshold uint
	retryTimeout     time.Duration

	mu              sync.RWMutex
	failureCount    uint
	successCount    uint
	nextAttemptTime time.Time
	log             *logger.Logger
}

// New creates a breaker in the closed state
func New(config Config, log *logger.Logger) *Breaker {
	return &Breaker{
		name:             config.Name,
		state:            StateClosed,
		failureThreshold: config.FailureThreshold,
		successThreshold: config.SuccessThreshold,
		retryTimeout:     config.RetryTimeout,
		log:              log,
	}
}

// Execute runs fn through the breaker. When the breaker is open, fn is
// not called and ErrOpen is returned.
func (b *Breaker) Execute(fn func() error) error {
	if !b.allowRequest() {
		b.log.Warn("circuit breaker rejecting call", "name", b.name, "state", string(b.State()))
		return ErrOpen
	}

	err := fn()
	if err != nil {
		b.recordFailure()
		return err
	}

	b.recordSuccess()
	return nil
}

// State returns the current breaker state
func (b *Breaker) State() State {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.state
}

func (b *Breaker) allowRequest() bool {
	b.mu.RLock()
	state := b.state
	nextAttempt := b.nextAttemptTime
	b.mu.RUnlock()

	switch state {
	case StateClosed:
		return true

	case StateOpen:
		if time.Now().After(nextAttempt) {
			b.mu.Lock()
			defer b.mu.Unlock()
			// Re-check under the write lock
			if b.state == StateOpen && time.Now().After(b.nextAttemptTime) {
				b.toHalfOpen()
				return true
			}
		}
		return false

	case StateHalfOpen:
		b.mu.RLock()
		defer b.mu.RUnlock()
		return b.successCount < b.successThreshold
	}

	return false
}

func (b *Breaker) recordSuccess() {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case StateClosed:
		b.failureCount = 0
	case StateHalfOpen:
		b.successCount++
		if b.successCount >= b.successThreshold {
			b.toClosed()
		}
	}
}

func (b *Breaker) recordFailure() {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case StateClosed:
		b.failureCount++
		if b.failureCount >= b.failureThreshold {
			b.toOpen()
		}
	case StateHalfOpen:
		// Any failure while probing reopens immediately
		b.toOpen()
	}
}

func (b *Breaker) toOpen() {
	b.state = StateOpen
	b.nextAttemptTime = time.Now().Add(b.retryTimeout)
	b.log.Info("circuit breaker opened",
		"name", b.name,
		"failures", b.failureCount,
		"next_attempt", b.nextAttemptTime.Format(time.RFC3339),
	)
}

func (b *Breaker) toHalfOpen() {
	b.state = StateHalfOpen
	b.successCount = 0
	b.log.Info("circuit breaker half-open", "name", b.name)
}

func (b *Breaker) toClosed() {
	b.state = StateClosed
	b.failureCount = 0
	b.successCount = 0
	b.log.Info("circuit breaker closed", "name", b.name)
}
