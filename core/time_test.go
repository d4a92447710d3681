package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTimeElapsed(t *testing.T) {
	tm := NewTime(TimeConfiguration{FramesPerSecond: 60})
	defer tm.Stop()

	start := time.Unix(100, 0)
	now := start
	tm.now = func() time.Time { return now }

	assert.Equal(t, time.Duration(0), tm.Elapsed())
	now = start.Add(16 * time.Millisecond)
	assert.Equal(t, 16*time.Millisecond, tm.Elapsed())
	now = now.Add(time.Second)
	assert.Equal(t, time.Second, tm.Elapsed())
	assert.Equal(t, 60, tm.Fps())
}

func TestTimeUnlimited(t *testing.T) {
	tm := NewTime(TimeConfiguration{})
	defer tm.Stop()

	assert.NotNil(t, tm.FpsTicker())
	assert.NotNil(t, tm.EventTicker())
}
