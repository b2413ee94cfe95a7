package schedule_test

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"

	"pagebuilder/internal/schedule"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestManual_AfterFuncFiresOnce(t *testing.T) {
	m := schedule.NewManual()
	var n int
	m.AfterFunc(500*time.Millisecond, func() { n++ })

	m.Advance(499 * time.Millisecond)
	assert.Equal(t, 0, n)
	m.Advance(time.Millisecond)
	assert.Equal(t, 1, n)
	m.Advance(time.Hour)
	assert.Equal(t, 1, n)
	assert.Equal(t, 0, m.Pending())
}

func TestManual_EveryRepeatsUntilStopped(t *testing.T) {
	m := schedule.NewManual()
	var n int
	tm := m.Every(time.Second, func() { n++ })

	m.Advance(3500 * time.Millisecond)
	assert.Equal(t, 3, n)

	tm.Stop()
	m.Advance(10 * time.Second)
	assert.Equal(t, 3, n)
}

func TestManual_FiresInDueOrder(t *testing.T) {
	m := schedule.NewManual()
	var order []string
	m.AfterFunc(2*time.Second, func() { order = append(order, "b") })
	m.AfterFunc(time.Second, func() { order = append(order, "a") })
	m.AfterFunc(2*time.Second, func() { order = append(order, "c") })

	m.Advance(5 * time.Second)
	assert.Equal(t, []string{"a", "b", "c"}, order)
}

func TestManual_NestedScheduleInsideWindow(t *testing.T) {
	m := schedule.NewManual()
	var fired time.Duration
	m.AfterFunc(time.Second, func() {
		m.AfterFunc(time.Second, func() { fired = m.Now() })
	})

	m.Advance(3 * time.Second)
	assert.Equal(t, 2*time.Second, fired)
	assert.Equal(t, 3*time.Second, m.Now())
}

func TestCron_EveryAndStop(t *testing.T) {
	s := schedule.NewCron()
	defer s.Close()

	var n atomic.Int32
	tm := s.Every(time.Second, func() { n.Add(1) })
	assert.Eventually(t, func() bool { return n.Load() >= 1 }, 3*time.Second, 50*time.Millisecond)
	tm.Stop()
	tm.Stop()
}

func TestCron_AfterFuncStop(t *testing.T) {
	s := schedule.NewCron()
	defer s.Close()

	var n atomic.Int32
	tm := s.AfterFunc(time.Hour, func() { n.Add(1) })
	tm.Stop()
	assert.Equal(t, int32(0), n.Load())
}
