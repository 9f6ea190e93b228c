package middleware

import (
	"context"
	"fmt"
	"sync"
	"time"

	"Kundali/internal/domain/models"
	domrepo "Kundali/internal/domain/repository"
	applogger "Kundali/pkg/logger"
)

// Proc is the downstream the pipeline forwards records to.
type Proc interface {
	Process(ctx context.Context, r *models.ChartRecord) error
}

// SinkPipeline sits between chart generation and the sinks. It validates
// records, forwards them, and buffers failed ones for background retry.
type SinkPipeline struct {
	proc       Proc
	metrics    domrepo.Metrics
	log        *applogger.Logger
	bufSize    int
	bufCh      chan *models.ChartRecord
	stopCh     chan context.Context
	done       chan struct{}
	started    bool
	mu         sync.Mutex
	minBackoff time.Duration
	maxBackoff time.Duration
	timeout    time.Duration
}

type PipelineOption func(*SinkPipeline)

// WithBufferSize sets the retry buffer size.
func WithBufferSize(n int) PipelineOption {
	return func(p *SinkPipeline) {
		if n > 0 {
			p.bufSize = n
		}
	}
}

// WithBackoff sets the retry backoff bounds.
func WithBackoff(min, max time.Duration) PipelineOption {
	return func(p *SinkPipeline) {
		if min > 0 && max >= min {
			p.minBackoff, p.maxBackoff = min, max
		}
	}
}

// WithProcessTimeout bounds each downstream call.
func WithProcessTimeout(d time.Duration) PipelineOption {
	return func(p *SinkPipeline) {
		if d > 0 {
			p.timeout = d
		}
	}
}

// WithLogger sets the pipeline logger.
func WithLogger(l *applogger.Logger) PipelineOption {
	return func(p *SinkPipeline) {
		if l != nil {
			p.log = l
		}
	}
}

// NewSinkPipeline creates a pipeline in front of proc.
func NewSinkPipeline(proc Proc, metrics domrepo.Metrics, opts ...PipelineOption) *SinkPipeline {
	if metrics == nil {
		metrics = domrepo.NopMetrics{}
	}
	p := &SinkPipeline{
		proc:       proc,
		metrics:    metrics,
		log:        applogger.NewNop(),
		bufSize:    1000,
		minBackoff: 50 * time.Millisecond,
		maxBackoff: 2 * time.Second,
		timeout:    5 * time.Second,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.bufCh = make(chan *models.ChartRecord, p.bufSize)
	return p
}

// Start launches background flushing of buffered records. A stopped
// pipeline can be started again.
func (p *SinkPipeline) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started {
		return
	}
	p.started = true
	p.stopCh = make(chan context.Context, 1)
	p.done = make(chan struct{})
	go p.flushLoop(p.stopCh, p.done)
}

func (p *SinkPipeline) flushLoop(stop <-chan context.Context, done chan<- struct{}) {
	defer close(done)
	backoff := p.minBackoff
	for {
		select {
		case ctx := <-stop:
			p.drain(ctx)
			return
		case r := <-p.bufCh:
			if err := p.forward(context.Background(), r); err != nil {
				p.metrics.RecordError("pipeline_flush")
				p.log.Warn("sink retry failed",
					applogger.String("chart_id", r.ChartID),
					applogger.Duration("backoff", backoff),
					applogger.Error(err),
				)
				p.enqueue(r)
				select {
				case ctx := <-stop:
					p.drain(ctx)
					return
				case <-time.After(backoff):
				}
				backoff *= 2
				if backoff > p.maxBackoff {
					backoff = p.maxBackoff
				}
				continue
			}
			backoff = p.minBackoff
		}
	}
}

// drain forwards the remaining buffered records once each until ctx is done.
// Records that fail or are still queued at the deadline are dropped.
func (p *SinkPipeline) drain(ctx context.Context) {
	var delivered, failed int
	for ctx.Err() == nil {
		var r *models.ChartRecord
		select {
		case r = <-p.bufCh:
		default:
		}
		if r == nil {
			break
		}
		if err := p.forward(ctx, r); err != nil {
			failed++
			p.metrics.RecordError("pipeline_drain")
			p.log.Warn("sink drain failed", applogger.String("chart_id", r.ChartID), applogger.Error(err))
			continue
		}
		delivered++
	}
	if dropped := failed + len(p.bufCh); dropped > 0 {
		p.log.Warn("sink pipeline stopped with undelivered records",
			applogger.Int("delivered", delivered),
			applogger.Int("dropped", dropped),
		)
	}
}

// Stop drains buffered records until ctx is done, then stops the background loop.
func (p *SinkPipeline) Stop(ctx context.Context) error {
	p.mu.Lock()
	if !p.started {
		p.mu.Unlock()
		return nil
	}
	p.started = false
	stop, done := p.stopCh, p.done
	p.mu.Unlock()

	stop <- ctx
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Buffered returns the number of records awaiting retry.
func (p *SinkPipeline) Buffered() int {
	return len(p.bufCh)
}

// Submit validates r and queues it for the background loop without blocking.
func (p *SinkPipeline) Submit(r *models.ChartRecord) error {
	if err := validateRecord(r); err != nil {
		p.metrics.RecordError("pipeline_validate")
		return err
	}
	p.enqueue(r)
	return nil
}

// Process validates r and forwards it, buffering it for retry on failure.
func (p *SinkPipeline) Process(ctx context.Context, r *models.ChartRecord) error {
	if err := validateRecord(r); err != nil {
		p.metrics.RecordError("pipeline_validate")
		return err
	}
	if err := p.forward(context.Background(), r); err != nil {
		p.metrics.RecordError("pipeline_process")
		p.enqueue(r)
		return fmt.Errorf("pipeline downstream: %w", err)
	}
	return nil
}

// forward bounds each downstream call by the process timeout. Callers pass
// context.Background() because records outlive the request.
func (p *SinkPipeline) forward(parent context.Context, r *models.ChartRecord) error {
	ctx, cancel := context.WithTimeout(parent, p.timeout)
	defer cancel()
	return p.proc.Process(ctx, r)
}

func (p *SinkPipeline) enqueue(r *models.ChartRecord) {
	select {
	case p.bufCh <- r:
	default:
		p.metrics.RecordError("pipeline_buffer_full")
		p.log.Error("sink buffer full, dropping record", applogger.String("chart_id", r.ChartID))
	}
}

func validateRecord(r *models.ChartRecord) error {
	if r == nil {
		return fmt.Errorf("record nil")
	}
	if r.ChartID == "" {
		return fmt.Errorf("chart id empty")
	}
	if len(r.Features) != models.FeatureCount {
		return models.NewChartError(models.CodeFeatureCountMismatch, "features",
			fmt.Sprintf("record has %d features, want %d", len(r.Features), models.FeatureCount))
	}
	return nil
}
