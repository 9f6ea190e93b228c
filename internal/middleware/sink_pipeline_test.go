package middleware

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Kundali/internal/domain/models"
)

type flakyProc struct {
	mu       sync.Mutex
	failures int
	delay    time.Duration
	got      []string
}

func (p *flakyProc) Process(ctx context.Context, r *models.ChartRecord) error {
	if p.delay > 0 {
		select {
		case <-time.After(p.delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.failures > 0 {
		p.failures--
		return errors.New("sink unavailable")
	}
	p.got = append(p.got, r.ChartID)
	return nil
}

func (p *flakyProc) delivered() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.got)
}

func record(id string) *models.ChartRecord {
	return &models.ChartRecord{ChartID: id, Features: make([]float64, models.FeatureCount)}
}

func TestSinkPipeline_RejectsInvalidRecords(t *testing.T) {
	p := NewSinkPipeline(&flakyProc{}, nil)
	assert.Error(t, p.Process(context.Background(), nil))
	assert.Error(t, p.Submit(&models.ChartRecord{Features: make([]float64, models.FeatureCount)}))

	err := p.Submit(&models.ChartRecord{ChartID: "x", Features: make([]float64, 3)})
	assert.ErrorIs(t, err, models.ErrFeatureCountMismatch)
	assert.Zero(t, p.Buffered())
}

func TestSinkPipeline_BuffersOnFailureAndRetries(t *testing.T) {
	proc := &flakyProc{failures: 2}
	p := NewSinkPipeline(proc, nil, WithBackoff(time.Millisecond, 4*time.Millisecond))

	err := p.Process(context.Background(), record("c-1"))
	require.Error(t, err)
	assert.Equal(t, 1, p.Buffered())

	p.Start()
	defer p.Stop(context.Background())
	assert.Eventually(t, func() bool { return proc.delivered() == 1 }, time.Second, 5*time.Millisecond)
}

func TestSinkPipeline_SubmitIsAsync(t *testing.T) {
	proc := &flakyProc{}
	p := NewSinkPipeline(proc, nil)
	p.Start()
	defer p.Stop(context.Background())

	require.NoError(t, p.Submit(record("a")))
	require.NoError(t, p.Submit(record("b")))
	assert.Eventually(t, func() bool { return proc.delivered() == 2 }, time.Second, 5*time.Millisecond)
}

func TestSinkPipeline_DropsWhenBufferFull(t *testing.T) {
	p := NewSinkPipeline(&flakyProc{}, nil, WithBufferSize(1))
	require.NoError(t, p.Submit(record("a")))
	require.NoError(t, p.Submit(record("b")))
	assert.Equal(t, 1, p.Buffered())
}

func TestSinkPipeline_StopIsIdempotent(t *testing.T) {
	p := NewSinkPipeline(&flakyProc{}, nil)
	require.NoError(t, p.Stop(context.Background()))
	p.Start()
	require.NoError(t, p.Stop(context.Background()))
	require.NoError(t, p.Stop(context.Background()))
}

func TestSinkPipeline_StopDeliversBufferedRecords(t *testing.T) {
	proc := &flakyProc{delay: 20 * time.Millisecond}
	p := NewSinkPipeline(proc, nil)
	p.Start()

	for i := 0; i < 10; i++ {
		require.NoError(t, p.Submit(record(fmt.Sprintf("c-%d", i))))
	}
	require.NoError(t, p.Stop(context.Background()))
	assert.Equal(t, 10, proc.delivered())
	assert.Zero(t, p.Buffered())
}

func TestSinkPipeline_StopDropsWhatIsLeftAtDeadline(t *testing.T) {
	proc := &flakyProc{delay: 50 * time.Millisecond}
	p := NewSinkPipeline(proc, nil)
	p.Start()

	for i := 0; i < 10; i++ {
		require.NoError(t, p.Submit(record(fmt.Sprintf("c-%d", i))))
	}
	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Millisecond)
	defer cancel()
	_ = p.Stop(ctx)
	assert.Less(t, proc.delivered(), 10)
}

func TestSinkPipeline_RestartAfterStop(t *testing.T) {
	proc := &flakyProc{}
	p := NewSinkPipeline(proc, nil)

	p.Start()
	require.NoError(t, p.Stop(context.Background()))

	p.Start()
	require.NoError(t, p.Submit(record("after-restart")))
	require.NotPanics(t, func() {
		require.NoError(t, p.Stop(context.Background()))
	})
	assert.Equal(t, 1, proc.delivered())
}
