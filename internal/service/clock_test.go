package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMonotonicClock(t *testing.T) {
	t0 := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	readings := []time.Time{t0, t0.Add(-time.Minute), t0.Add(time.Second), t0.Add(time.Second)}
	var i int
	c := newMonotonicClock(func() time.Time {
		r := readings[i]
		i++
		return r
	})

	assert.Equal(t, t0, c.Now())
	assert.Equal(t, t0, c.Now())
	assert.Equal(t, t0.Add(time.Second), c.Now())
	assert.Equal(t, t0.Add(time.Second), c.Now())
}
