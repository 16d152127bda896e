package session

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTracker_Score(t *testing.T) {
	tr := NewTracker()
	require.Equal(t, 100, tr.Score())

	tr.RecordRetry()
	tr.RecordRetry()
	tr.RecordReusedPrompt()
	assert.Equal(t, 85, tr.Score())
}

func TestTracker_ScoreClamped(t *testing.T) {
	tr := NewTracker()
	for range 12 {
		tr.RecordRetry()
	}
	assert.Equal(t, 0, tr.Score())

	tr.Reset()
	for range 5 {
		tr.RecordReusedPrompt()
	}
	assert.Equal(t, 100, tr.Score())
}

func TestTracker_Counters(t *testing.T) {
	tr := NewTracker()
	tr.RecordLLMCall(120)
	tr.RecordLLMCall(80)
	tr.RecordSavedPrompt()
	tr.RecordRetry()

	got := tr.Metrics()
	assert.Equal(t, Metrics{LLMCalls: 2, Retries: 1, EstimatedTokens: 200, SavedPrompts: 1}, got)

	// snapshot is a copy
	got.LLMCalls = 99
	assert.Equal(t, 2, tr.Metrics().LLMCalls)
}

func TestTracker_Reset(t *testing.T) {
	tr := NewTracker()
	tr.RecordLLMCall(10)
	tr.RecordRetry()
	tr.Reset()
	assert.Equal(t, Metrics{}, tr.Metrics())
	assert.Equal(t, 100, tr.Score())
}

func TestTracker_IndependentInstances(t *testing.T) {
	a, b := NewTracker(), NewTracker()
	a.RecordRetry()
	assert.Equal(t, 0, b.Metrics().Retries)
}

func TestTracker_Concurrent(t *testing.T) {
	var tr Tracker
	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tr.RecordLLMCall(2)
			tr.RecordSavedPrompt()
		}()
	}
	wg.Wait()

	m := tr.Metrics()
	assert.Equal(t, 50, m.LLMCalls)
	assert.Equal(t, 100, m.EstimatedTokens)
	assert.Equal(t, 50, m.SavedPrompts)
}
