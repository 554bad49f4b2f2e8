package holds

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/events"
	holdRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/hold"
	"github.com/m04kA/SMC-SchedulingService/internal/service/holds/models"
)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fakeHoldRepo struct {
	hold      *domain.Hold
	getErr    error
	updateErr error
	due       []*domain.Hold

	updatedStatus domain.HoldStatus
}

func (f *fakeHoldRepo) GetByID(ctx context.Context, tenantID, id int64) (*domain.Hold, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.hold, nil
}

func (f *fakeHoldRepo) UpdateStatus(ctx context.Context, tenantID, id, version int64, status domain.HoldStatus) (*domain.Hold, error) {
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	f.updatedStatus = status
	updated := *f.hold
	updated.Status = status
	updated.Version = version + 1
	return &updated, nil
}

func (f *fakeHoldRepo) ExpireDue(ctx context.Context, now time.Time) ([]*domain.Hold, error) {
	return f.due, nil
}

type fakePublisher struct {
	published []events.Event
}

func (f *fakePublisher) Publish(ctx context.Context, event events.Event) error {
	f.published = append(f.published, event)
	return nil
}

type fakeTxManager struct{}

func (fakeTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func activeHold(now time.Time) *domain.Hold {
	return &domain.Hold{
		ID:             555,
		TenantID:       1,
		ClinicID:       2,
		ProfessionalID: 10,
		PatientID:      100,
		StartAt:        now.Add(24 * time.Hour),
		EndAt:          now.Add(25 * time.Hour),
		TTLExpiresAt:   now.Add(30 * time.Minute),
		Status:         domain.HoldStatusActive,
		Version:        1,
	}
}

func newService(repo *fakeHoldRepo, pub *fakePublisher, now time.Time) *Service {
	svc := NewService(repo, pub, fakeTxManager{}, nopLogger{})
	svc.timeProvider = fixedClock{now: now}
	return svc
}

func TestCancel_Success(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 9, 15, 10, 0, 0, 0, time.UTC)
	repo := &fakeHoldRepo{hold: activeHold(now)}
	pub := &fakePublisher{}
	svc := newService(repo, pub, now)

	resp, err := svc.Cancel(context.Background(), &models.CancelHoldRequest{
		TenantID:  1,
		HoldID:    555,
		ActorID:   100,
		ActorRole: domain.RolePatient,
	})
	require.NoError(t, err)

	assert.Equal(t, domain.HoldStatusCancelled, repo.updatedStatus)
	assert.Equal(t, string(domain.HoldStatusCancelled), resp.Status)
	assert.Equal(t, int64(2), resp.Version)

	require.Len(t, pub.published, 1)
	cancelled, ok := pub.published[0].(events.HoldCancelled)
	require.True(t, ok)
	assert.Equal(t, int64(555), cancelled.HoldID)
	assert.Equal(t, int64(100), cancelled.CancelledBy)
}

func TestCancel_NotFound(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 9, 15, 10, 0, 0, 0, time.UTC)
	repo := &fakeHoldRepo{getErr: holdRepo.ErrHoldNotFound}
	svc := newService(repo, &fakePublisher{}, now)

	_, err := svc.Cancel(context.Background(), &models.CancelHoldRequest{
		TenantID: 1, HoldID: 555, ActorID: 100, ActorRole: domain.RolePatient,
	})
	assert.ErrorIs(t, err, ErrHoldNotFound)
}

func TestCancel_ConsumedHoldRejected(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 9, 15, 10, 0, 0, 0, time.UTC)
	h := activeHold(now)
	h.Status = domain.HoldStatusConsumed
	repo := &fakeHoldRepo{hold: h}
	pub := &fakePublisher{}
	svc := newService(repo, pub, now)

	_, err := svc.Cancel(context.Background(), &models.CancelHoldRequest{
		TenantID: 1, HoldID: 555, ActorID: 100, ActorRole: domain.RolePatient,
	})
	assert.ErrorIs(t, err, ErrHoldNotActive)
	assert.Empty(t, pub.published)
}

func TestCancel_LazyExpiredHoldRejected(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 9, 15, 10, 0, 0, 0, time.UTC)
	h := activeHold(now)
	h.TTLExpiresAt = now.Add(-time.Minute) // статус еще active, TTL прошел
	repo := &fakeHoldRepo{hold: h}
	svc := newService(repo, &fakePublisher{}, now)

	_, err := svc.Cancel(context.Background(), &models.CancelHoldRequest{
		TenantID: 1, HoldID: 555, ActorID: 100, ActorRole: domain.RolePatient,
	})
	assert.ErrorIs(t, err, ErrHoldNotActive)
}

func TestCancel_AccessDeniedForOtherPatient(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 9, 15, 10, 0, 0, 0, time.UTC)
	repo := &fakeHoldRepo{hold: activeHold(now)}
	svc := newService(repo, &fakePublisher{}, now)

	_, err := svc.Cancel(context.Background(), &models.CancelHoldRequest{
		TenantID: 1, HoldID: 555, ActorID: 999, ActorRole: domain.RolePatient,
	})
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestCancel_VersionConflict(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 9, 15, 10, 0, 0, 0, time.UTC)
	repo := &fakeHoldRepo{hold: activeHold(now), updateErr: holdRepo.ErrVersionConflict}
	svc := newService(repo, &fakePublisher{}, now)

	_, err := svc.Cancel(context.Background(), &models.CancelHoldRequest{
		TenantID: 1, HoldID: 555, ActorID: 100, ActorRole: domain.RolePatient,
	})
	assert.ErrorIs(t, err, ErrVersionConflict)
}

func TestExpireDue_PublishesEventPerHold(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 9, 15, 10, 0, 0, 0, time.UTC)
	first := activeHold(now)
	second := activeHold(now)
	second.ID = 556
	repo := &fakeHoldRepo{due: []*domain.Hold{first, second}}
	pub := &fakePublisher{}
	svc := newService(repo, pub, now)

	expired, err := svc.ExpireDue(context.Background())
	require.NoError(t, err)

	assert.Len(t, expired, 2)
	require.Len(t, pub.published, 2)
	for i, ev := range pub.published {
		expiredEv, ok := ev.(events.HoldExpired)
		require.True(t, ok)
		assert.Equal(t, []int64{555, 556}[i], expiredEv.HoldID)
	}
}

func TestExpireDue_NothingDue(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 9, 15, 10, 0, 0, 0, time.UTC)
	repo := &fakeHoldRepo{}
	pub := &fakePublisher{}
	svc := newService(repo, pub, now)

	expired, err := svc.ExpireDue(context.Background())
	require.NoError(t, err)
	assert.Empty(t, expired)
	assert.Empty(t, pub.published)
}

func TestGetByID_PatientSeesOwnHold(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 9, 15, 10, 0, 0, 0, time.UTC)
	repo := &fakeHoldRepo{hold: activeHold(now)}
	svc := newService(repo, &fakePublisher{}, now)

	resp, err := svc.GetByID(context.Background(), &models.GetHoldRequest{
		TenantID: 1, HoldID: 555, ActorID: 100, ActorRole: domain.RolePatient,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(555), resp.ID)

	_, err = svc.GetByID(context.Background(), &models.GetHoldRequest{
		TenantID: 1, HoldID: 555, ActorID: 999, ActorRole: domain.RolePatient,
	})
	assert.ErrorIs(t, err, ErrAccessDenied)
}
