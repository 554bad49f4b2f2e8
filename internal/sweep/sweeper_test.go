package sweep

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-SchedulingService/internal/service/holds/models"
)

type fakeExpirer struct {
	calls atomic.Int64
}

func (f *fakeExpirer) ExpireDue(ctx context.Context) ([]*models.HoldResponse, error) {
	f.calls.Add(1)
	return []*models.HoldResponse{{ID: 1}}, nil
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func TestSweeper_TicksAndStops(t *testing.T) {
	t.Parallel()

	expirer := &fakeExpirer{}
	s := New(expirer, 10*time.Millisecond, nil, nopLogger{})

	s.Start()

	deadline := time.Now().Add(2 * time.Second)
	for expirer.calls.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}

	s.Stop()
	assert.Greater(t, expirer.calls.Load(), int64(0), "sweeper should have swept at least once")

	// После Stop новые тики не приходят
	settled := expirer.calls.Load()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, settled, expirer.calls.Load())
}
