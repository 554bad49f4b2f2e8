package eventbus

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-SchedulingService/internal/events"
	"github.com/m04kA/SMC-SchedulingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-SchedulingService/pkg/metrics"
	"github.com/m04kA/SMC-SchedulingService/pkg/psqlbuilder"
)

// DBExecutor интерфейс для выполнения запросов (переиспользуем dbmetrics)
type DBExecutor = dbmetrics.DBExecutor

// Envelope транспортный конверт доменного события
type Envelope struct {
	EventID    uuid.UUID       `json:"eventId"`
	EventName  string          `json:"eventName"`
	OccurredAt time.Time       `json:"occurredAt"`
	Payload    json.RawMessage `json:"payload"`
}

// Publisher транзакционный outbox-публикатор доменных событий
// Пишет события в таблицу events_outbox тем же executor'ом, что и бизнес-запись:
// если вызов происходит внутри транзакции, событие фиксируется вместе с ней.
// Доставка из outbox к потребителям - забота внешнего relay
type Publisher struct {
	db      DBExecutor
	metrics *metrics.Metrics
}

// NewPublisher создает новый публикатор
// metrics может быть nil, если сбор метрик отключен
func NewPublisher(db DBExecutor, m *metrics.Metrics) *Publisher {
	return &Publisher{db: db, metrics: m}
}

// Publish сериализует событие и записывает его в outbox
func (p *Publisher) Publish(ctx context.Context, event events.Event) error {
	executor := dbmetrics.GetExecutor(ctx, p.db)

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrMarshalPayload, event.EventName(), err)
	}

	envelope := Envelope{
		EventID:    uuid.New(),
		EventName:  event.EventName(),
		OccurredAt: time.Now().UTC(),
		Payload:    payload,
	}

	query, args, err := psqlbuilder.Insert("events_outbox").
		Columns("event_id", "event_name", "occurred_at", "payload").
		Values(envelope.EventID, envelope.EventName, envelope.OccurredAt, []byte(envelope.Payload)).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Publish - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: Publish - execute insert: %v", ErrExecQuery, err)
	}

	if p.metrics != nil {
		p.metrics.EventsPublishedTotal.WithLabelValues(event.EventName()).Inc()
	}

	return nil
}
