package create_hold

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/events"
	clinicRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/clinic"
	"github.com/m04kA/SMC-SchedulingService/pkg/ptr"
)

// Фейки зависимостей use case

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fakeClinicLookup struct {
	settings *domain.ClinicSettings
	err      error
}

func (f *fakeClinicLookup) GetSettings(ctx context.Context, tenantID, clinicID int64) (*domain.ClinicSettings, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.settings, nil
}

type fakeServiceTypeLookup struct {
	serviceType *domain.ServiceType
	err         error
}

func (f *fakeServiceTypeLookup) GetByID(ctx context.Context, clinicID, serviceTypeID int64) (*domain.ServiceType, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.serviceType, nil
}

type fakeCoverageLookup struct {
	coverages []*domain.ProfessionalCoverage
}

func (f *fakeCoverageLookup) FindActiveOverlapping(ctx context.Context, tenantID, clinicID, professionalID int64, start, end time.Time) ([]*domain.ProfessionalCoverage, error) {
	return f.coverages, nil
}

type fakeBookingLookup struct {
	bookings []*domain.Booking
	// запоминаем, по какому специалисту сканировали
	scannedProfessionalID int64
}

func (f *fakeBookingLookup) ListByProfessionalAndRange(ctx context.Context, tenantID, professionalID int64, start, end time.Time) ([]*domain.Booking, error) {
	f.scannedProfessionalID = professionalID
	return f.bookings, nil
}

type fakeHoldStore struct {
	overlapping []*domain.Hold
	created     *domain.Hold

	scannedProfessionalID int64
}

func (f *fakeHoldStore) FindActiveOverlap(ctx context.Context, tenantID, professionalID int64, start, end, now time.Time) ([]*domain.Hold, error) {
	f.scannedProfessionalID = professionalID
	return f.overlapping, nil
}

func (f *fakeHoldStore) Create(ctx context.Context, hold *domain.Hold) (*domain.Hold, error) {
	hold.ID = 555
	hold.Version = 1
	hold.CreatedAt = time.Date(2026, 9, 15, 10, 0, 0, 0, time.UTC)
	f.created = hold
	return hold, nil
}

type fakePublisher struct {
	published []events.Event
	err       error
}

func (f *fakePublisher) Publish(ctx context.Context, event events.Event) error {
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, event)
	return nil
}

type fakeTxManager struct{ calls int }

func (f *fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	f.calls++
	return fn(ctx)
}

// Сборка use case с дефолтными фейками

type fixture struct {
	clinic    *fakeClinicLookup
	svcType   *fakeServiceTypeLookup
	coverage  *fakeCoverageLookup
	bookings  *fakeBookingLookup
	holds     *fakeHoldStore
	publisher *fakePublisher
	tx        *fakeTxManager
	uc        *UseCase
}

func newFixture(now time.Time) *fixture {
	f := &fixture{
		clinic: &fakeClinicLookup{
			settings: &domain.ClinicSettings{
				TenantID:          1,
				ClinicID:          2,
				HoldTTLMinutes:    30,
				MinAdvanceMinutes: 60,
			},
		},
		svcType:   &fakeServiceTypeLookup{},
		coverage:  &fakeCoverageLookup{},
		bookings:  &fakeBookingLookup{},
		holds:     &fakeHoldStore{},
		publisher: &fakePublisher{},
		tx:        &fakeTxManager{},
	}

	f.uc = NewUseCase(f.clinic, f.svcType, f.coverage, f.bookings, f.holds, f.publisher, f.tx, nopLogger{})
	f.uc.timeProvider = fixedClock{now: now}

	return f
}

func validRequest(now time.Time) *Request {
	return &Request{
		TenantID:       1,
		ClinicID:       2,
		ProfessionalID: 10,
		PatientID:      100,
		StartAt:        now.Add(24 * time.Hour),
		EndAt:          now.Add(25 * time.Hour),
		ActorID:        100,
		ActorRole:      domain.RolePatient,
	}
}

func TestExecute_Success(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 9, 15, 10, 0, 0, 0, time.UTC)
	f := newFixture(now)

	resp, err := f.uc.Execute(context.Background(), validRequest(now))
	require.NoError(t, err)

	assert.Equal(t, int64(555), resp.ID)
	assert.Equal(t, int64(10), resp.ProfessionalID)
	assert.Nil(t, resp.OriginalProfessionalID)
	assert.Nil(t, resp.CoverageID)
	assert.Equal(t, string(domain.HoldStatusActive), resp.Status)
	// TTL 30 минут, слот через сутки: полный TTL
	assert.True(t, resp.TTLExpiresAt.Equal(now.Add(30*time.Minute)))

	assert.Equal(t, 1, f.tx.calls)
	require.Len(t, f.publisher.published, 1)
	created, ok := f.publisher.published[0].(events.HoldCreated)
	require.True(t, ok)
	assert.Equal(t, int64(555), created.HoldID)
}

func TestExecute_BookingConflict(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 9, 15, 10, 0, 0, 0, time.UTC)
	f := newFixture(now)
	f.bookings.bookings = []*domain.Booking{{ID: 1, Status: domain.StatusScheduled}}

	_, err := f.uc.Execute(context.Background(), validRequest(now))
	assert.ErrorIs(t, err, ErrBookingConflict)
	assert.Nil(t, f.holds.created)
	assert.Empty(t, f.publisher.published)
}

func TestExecute_HoldConflict(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 9, 15, 10, 0, 0, 0, time.UTC)
	f := newFixture(now)
	f.holds.overlapping = []*domain.Hold{{ID: 2, Status: domain.HoldStatusActive}}

	_, err := f.uc.Execute(context.Background(), validRequest(now))
	assert.ErrorIs(t, err, ErrHoldConflict)
	assert.Nil(t, f.holds.created)
}

func TestExecute_CoverageSubstitution(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 9, 15, 10, 0, 0, 0, time.UTC)
	f := newFixture(now)
	f.coverage.coverages = []*domain.ProfessionalCoverage{
		{
			ID:                     77,
			ProfessionalID:         10,
			CoverageProfessionalID: 20,
			Status:                 domain.CoverageStatusActive,
		},
		// Вторая запись игнорируется: применяется первая
		{
			ID:                     78,
			ProfessionalID:         10,
			CoverageProfessionalID: 30,
			Status:                 domain.CoverageStatusActive,
		},
	}

	resp, err := f.uc.Execute(context.Background(), validRequest(now))
	require.NoError(t, err)

	assert.Equal(t, int64(20), resp.ProfessionalID)
	require.NotNil(t, resp.OriginalProfessionalID)
	assert.Equal(t, int64(10), *resp.OriginalProfessionalID)
	require.NotNil(t, resp.CoverageID)
	assert.Equal(t, int64(77), *resp.CoverageID)

	// Конфликты сканируются по замещающему специалисту
	assert.Equal(t, int64(20), f.bookings.scannedProfessionalID)
	assert.Equal(t, int64(20), f.holds.scannedProfessionalID)
}

func TestExecute_ForbiddenForOtherPatient(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 9, 15, 10, 0, 0, 0, time.UTC)
	f := newFixture(now)

	req := validRequest(now)
	req.ActorID = 999 // чужой пациент

	_, err := f.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrForbidden)
	// До транзакции дело не дошло
	assert.Equal(t, 0, f.tx.calls)
}

func TestExecute_DefaultSettingsWhenClinicMissing(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 9, 15, 10, 0, 0, 0, time.UTC)
	f := newFixture(now)
	f.clinic.settings = nil
	f.clinic.err = clinicRepo.ErrSettingsNotFound

	resp, err := f.uc.Execute(context.Background(), validRequest(now))
	require.NoError(t, err)

	// Дефолтный TTL 30 минут
	assert.True(t, resp.TTLExpiresAt.Equal(now.Add(time.Duration(domain.DefaultHoldTTLMinutes)*time.Minute)))
}

func TestExecute_InsufficientAdvanceNotice(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 9, 15, 10, 0, 0, 0, time.UTC)
	f := newFixture(now)

	req := validRequest(now)
	req.StartAt = now.Add(30 * time.Minute) // клиника требует 60
	req.EndAt = now.Add(90 * time.Minute)

	_, err := f.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInsufficientAdvanceNotice)
}

func TestExecute_ServiceTypeInactive(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 9, 15, 10, 0, 0, 0, time.UTC)
	f := newFixture(now)
	f.svcType.serviceType = &domain.ServiceType{ID: 5, ClinicID: 2, IsActive: false}

	req := validRequest(now)
	req.ServiceTypeID = ptr.Ptr(int64(5))

	_, err := f.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrServiceTypeInactive)
}

func TestExecute_EndAtDerivedFromServiceDuration(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 9, 15, 10, 0, 0, 0, time.UTC)
	f := newFixture(now)
	f.svcType.serviceType = &domain.ServiceType{
		ID:              5,
		ClinicID:        2,
		DurationMinutes: 45,
		IsActive:        true,
	}

	req := validRequest(now)
	req.ServiceTypeID = ptr.Ptr(int64(5))
	req.EndAt = time.Time{}

	resp, err := f.uc.Execute(context.Background(), req)
	require.NoError(t, err)

	assert.True(t, resp.EndAt.Equal(req.StartAt.Add(45*time.Minute)))
}

func TestExecute_PublishFailureDoesNotFailOperation(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 9, 15, 10, 0, 0, 0, time.UTC)
	f := newFixture(now)
	f.publisher.err = assert.AnError

	resp, err := f.uc.Execute(context.Background(), validRequest(now))
	require.NoError(t, err)
	assert.Equal(t, int64(555), resp.ID)
}
