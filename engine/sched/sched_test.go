package sched

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAdvance_RunsDueCallbacksInOrder(t *testing.T) {
	q := New()
	var got []string

	q.After(2*time.Second, func() { got = append(got, "b") })
	q.After(time.Second, func() { got = append(got, "a") })
	q.After(2*time.Second, func() { got = append(got, "c") })

	assert.Equal(t, 0, q.Advance(500*time.Millisecond))
	assert.Empty(t, got)

	assert.Equal(t, 1, q.Advance(500*time.Millisecond))
	assert.Equal(t, []string{"a"}, got)

	assert.Equal(t, 2, q.Advance(time.Second))
	assert.Equal(t, []string{"a", "b", "c"}, got, "equal due times run in schedule order")
	assert.Equal(t, 2*time.Second, q.Now())
}

func TestAdvance_LargeStepRunsEverything(t *testing.T) {
	q := New()
	count := 0
	for i := 1; i <= 5; i++ {
		q.After(time.Duration(i)*time.Second, func() { count++ })
	}

	assert.Equal(t, 5, q.Advance(time.Minute))
	assert.Equal(t, 5, count)
	assert.Equal(t, 0, q.Len())
}

func TestAdvance_ChainedCallbackAlreadyDue(t *testing.T) {
	q := New()
	var got []string

	q.After(time.Second, func() {
		got = append(got, "first")
		q.After(0, func() { got = append(got, "chained") })
		q.After(time.Second, func() { got = append(got, "later") })
	})

	q.Advance(time.Second)
	assert.Equal(t, []string{"first", "chained"}, got)

	q.Advance(time.Second)
	assert.Equal(t, []string{"first", "chained", "later"}, got)
}

func TestCancel(t *testing.T) {
	q := New()
	ran := false
	id := q.After(time.Second, func() { ran = true })

	assert.True(t, q.Cancel(id))
	assert.False(t, q.Cancel(id), "double cancel reports false")
	assert.Equal(t, 0, q.Len())

	q.Advance(2 * time.Second)
	assert.False(t, ran)
	assert.False(t, q.Cancel(id), "cancel after drop reports false")
	assert.False(t, q.Cancel(999))
}

func TestNegativeDelay_RunsOnNextAdvance(t *testing.T) {
	q := New()
	ran := false
	q.After(-time.Second, func() { ran = true })

	q.Advance(0)
	assert.True(t, ran)
}

func TestSeconds(t *testing.T) {
	assert.Equal(t, 1500*time.Millisecond, Seconds(1.5))
	assert.Equal(t, time.Duration(0), Seconds(0))
}
