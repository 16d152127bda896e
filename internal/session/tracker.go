// Package session tracks per-session efficiency counters.
package session

import "sync"

// Metrics is a snapshot of the session counters.
type Metrics struct {
	LLMCalls        int `json:"llmCalls"`
	Retries         int `json:"retries"`
	EstimatedTokens int `json:"estimatedTokens"`
	SavedPrompts    int `json:"savedPrompts"`
	ReusedPrompts   int `json:"reusedPrompts"`
}

// Score derives the 0-100 efficiency score:
// 100 - 10 per retry + 5 per reused prompt, clamped.
func (m Metrics) Score() int {
	score := 100 - 10*m.Retries + 5*m.ReusedPrompts
	return max(0, min(100, score))
}

// Tracker accumulates session counters. The zero value is ready to use and
// safe for concurrent use.
type Tracker struct {
	mu sync.Mutex
	m  Metrics
}

// NewTracker returns a tracker with all counters at zero.
func NewTracker() *Tracker {
	return &Tracker{}
}

// RecordLLMCall counts one successful provider call and its token estimate.
func (t *Tracker) RecordLLMCall(estimatedTokens int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.m.LLMCalls++
	t.m.EstimatedTokens += estimatedTokens
}

// RecordRetry counts a failed optimization attempt.
func (t *Tracker) RecordRetry() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.m.Retries++
}

// RecordSavedPrompt counts a prompt saved by the user.
func (t *Tracker) RecordSavedPrompt() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.m.SavedPrompts++
}

// RecordReusedPrompt counts a saved prompt matched again.
func (t *Tracker) RecordReusedPrompt() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.m.ReusedPrompts++
}

// Metrics returns a copy of the counters.
func (t *Tracker) Metrics() Metrics {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.m
}

// Score returns the current efficiency score.
func (t *Tracker) Score() int {
	return t.Metrics().Score()
}

// Reset zeroes every counter.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.m = Metrics{}
}
