package queue

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestShouldRetry_ExhaustedAttempts(t *testing.T) {
	rm := NewRetryManager(3, time.Second)
	task := &Task{ID: "1", Type: TaskTypeSendNotification, Attempts: 3, MaxRetries: 3}

	retry, delay := rm.ShouldRetry(task, errors.New("connection refused"))

	assert.False(t, retry)
	assert.Zero(t, delay)
}

// Ошибки в данных задачи не лечатся повтором
func TestShouldRetry_NonRetryableErrors(t *testing.T) {
	rm := NewRetryManager(3, time.Second)
	task := &Task{ID: "1", Type: TaskTypeSendNotification, Attempts: 0, MaxRetries: 3}

	tests := []struct {
		name string
		err  error
	}{
		{"invalid payload", errors.New("invalid recipient address")},
		{"missing user", errors.New("user not found")},
		{"unknown category", errors.New("unknown notification category: bogus")},
		{"unknown selector", errors.New("unknown recipient selector: everyone")},
		{"nil error", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			retry, _ := rm.ShouldRetry(task, tt.err)
			assert.False(t, retry)
		})
	}
}

func TestShouldRetry_TransientError(t *testing.T) {
	rm := NewRetryManager(3, time.Second)
	task := &Task{ID: "1", Type: TaskTypeSendNotification, Attempts: 1, MaxRetries: 3}

	retry, delay := rm.ShouldRetry(task, errors.New("dial tcp: connection refused"))

	assert.True(t, retry)
	assert.Greater(t, delay, time.Duration(0))
}

func TestCalculateBackoff_CappedAtMaxDelay(t *testing.T) {
	base := time.Second
	rm := NewRetryManager(10, base)

	// Джиттер случайный, проверяем только границы
	for attempt := 0; attempt <= 10; attempt++ {
		delay := rm.calculateBackoff(attempt)
		assert.Greater(t, delay, time.Duration(0), "attempt %d", attempt)
		assert.LessOrEqual(t, delay, 16*base, "attempt %d", attempt)
	}
}

func TestCalculateBackoff_GrowsWithAttempts(t *testing.T) {
	rm := NewRetryManager(5, time.Second)

	// base * 2^(attempt-1) ± 25%: третья попытка всегда дольше первой
	first := rm.calculateBackoff(1)
	third := rm.calculateBackoff(3)
	assert.Greater(t, third, first)
}

func TestTaskValidate(t *testing.T) {
	task := &Task{ID: "abc", Type: TaskTypeSendNotification}
	assert.NoError(t, task.Validate())
	assert.NotNil(t, task.Data)

	assert.Error(t, (&Task{Type: TaskTypeSendNotification}).Validate())
	assert.Error(t, (&Task{ID: "abc"}).Validate())
}

func TestTaskDataAccessors(t *testing.T) {
	ts := time.Date(2025, time.March, 15, 10, 0, 0, 0, time.UTC)
	task := &Task{
		ID:   "abc",
		Type: TaskTypeSendNotification,
		Data: map[string]interface{}{
			"username":   "alice",
			"user_id":    float64(42), // как после JSON round-trip
			"event_id":   int64(7),
			"start_time": ts.Format(time.RFC3339),
		},
	}

	assert.Equal(t, "alice", task.GetString("username"))
	assert.Equal(t, int64(42), task.GetInt64("user_id"))
	assert.Equal(t, int64(7), task.GetInt64("event_id"))
	assert.True(t, ts.Equal(task.GetTime("start_time")))

	assert.Empty(t, task.GetString("missing"))
	assert.Zero(t, task.GetInt64("missing"))
	assert.True(t, task.GetTime("missing").IsZero())
}
