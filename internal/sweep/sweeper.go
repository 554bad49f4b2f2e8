package sweep

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/service/holds/models"
	"github.com/m04kA/SMC-SchedulingService/pkg/metrics"
)

// HoldExpirer интерфейс сервиса холдов для подметания по TTL
type HoldExpirer interface {
	ExpireDue(ctx context.Context) ([]*models.HoldResponse, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Sweeper фоновый процесс, освобождающий истекшие холды
// Ленивые проверки TTL в запросах гарантируют корректность и без него,
// sweep лишь доводит строки до терминального статуса и публикует события
type Sweeper struct {
	expirer  HoldExpirer
	interval time.Duration
	metrics  *metrics.Metrics
	logger   Logger
	stopCh   chan struct{}
	doneCh   chan struct{}
}

// New создает sweeper с указанным интервалом тиков
// metrics может быть nil, если метрики выключены
func New(expirer HoldExpirer, interval time.Duration, m *metrics.Metrics, logger Logger) *Sweeper {
	return &Sweeper{
		expirer:  expirer,
		interval: interval,
		metrics:  m,
		logger:   logger,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start запускает фоновый цикл подметания
func (s *Sweeper) Start() {
	go s.run()
	s.logger.Info("Sweeper: started with interval %s", s.interval)
}

// Stop останавливает цикл и дожидается завершения текущего тика
func (s *Sweeper) Stop() {
	close(s.stopCh)
	<-s.doneCh
	s.logger.Info("Sweeper: stopped")
}

func (s *Sweeper) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.sweep()
		case <-s.stopCh:
			return
		}
	}
}

func (s *Sweeper) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), s.interval)
	defer cancel()

	expired, err := s.expirer.ExpireDue(ctx)
	if err != nil {
		s.logger.Error("Sweeper: sweep failed: %v", err)
		return
	}

	if len(expired) == 0 {
		return
	}

	if s.metrics != nil {
		s.metrics.HoldsExpiredTotal.WithLabelValues("background").Add(float64(len(expired)))
	}
	s.logger.Info("Sweeper: released %d expired holds", len(expired))
}
