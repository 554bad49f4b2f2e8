package bookings

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/events"
	bookingRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-SchedulingService/internal/service/bookings/models"
	"github.com/m04kA/SMC-SchedulingService/pkg/ptr"
)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fakeBookingRepo struct {
	booking   *domain.Booking
	getErr    error
	cancelErr error
	updateErr error
	inRange   []*domain.Booking

	cancelledReason *string
	cancelledBy     int64
	updatedPayment  domain.PaymentStatus
}

func (f *fakeBookingRepo) GetByID(ctx context.Context, tenantID, id int64) (*domain.Booking, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.booking, nil
}

func (f *fakeBookingRepo) ListByProfessionalAndRange(ctx context.Context, tenantID, professionalID int64, start, end time.Time) ([]*domain.Booking, error) {
	return f.inRange, nil
}

func (f *fakeBookingRepo) Cancel(ctx context.Context, tenantID, id, version int64, reason *string, cancelledBy int64) (*domain.Booking, error) {
	if f.cancelErr != nil {
		return nil, f.cancelErr
	}
	f.cancelledReason = reason
	f.cancelledBy = cancelledBy
	updated := *f.booking
	updated.Status = domain.StatusCancelled
	updated.CancellationReason = reason
	updated.CancelledBy = &cancelledBy
	updated.Version = version + 1
	return &updated, nil
}

func (f *fakeBookingRepo) UpdatePaymentStatus(ctx context.Context, tenantID, id, version int64, status domain.PaymentStatus) (*domain.Booking, error) {
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	f.updatedPayment = status
	updated := *f.booking
	updated.PaymentStatus = status
	updated.Version = version + 1
	return &updated, nil
}

type fakeHoldRepo struct {
	inRange []*domain.Hold
}

func (f *fakeHoldRepo) FindActiveOverlap(ctx context.Context, tenantID, professionalID int64, start, end, now time.Time) ([]*domain.Hold, error) {
	return f.inRange, nil
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

func (fakeTxManager) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func scheduledBooking(now time.Time) *domain.Booking {
	return &domain.Booking{
		ID:             900,
		TenantID:       1,
		ClinicID:       2,
		ProfessionalID: 10,
		PatientID:      100,
		StartAt:        now.Add(24 * time.Hour),
		EndAt:          now.Add(25 * time.Hour),
		Status:         domain.StatusScheduled,
		PaymentStatus:  domain.PaymentPending,
		Version:        3,
	}
}

func newService(repo *fakeBookingRepo, holds *fakeHoldRepo, pub *fakePublisher, now time.Time) *Service {
	svc := NewService(repo, holds, pub, fakeTxManager{}, nopLogger{})
	svc.timeProvider = fixedClock{now: now}
	return svc
}

func TestCancel_Success(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 9, 15, 10, 0, 0, 0, time.UTC)
	repo := &fakeBookingRepo{booking: scheduledBooking(now)}
	pub := &fakePublisher{}
	svc := newService(repo, &fakeHoldRepo{}, pub, now)

	reason := "пациент попросил перенести"
	resp, err := svc.Cancel(context.Background(), &models.CancelBookingRequest{
		TenantID:           1,
		BookingID:          900,
		ActorID:            100,
		ActorRole:          domain.RolePatient,
		CancellationReason: &reason,
	})
	require.NoError(t, err)

	assert.Equal(t, string(domain.StatusCancelled), resp.Status)
	assert.Equal(t, int64(4), resp.Version)
	assert.Equal(t, int64(100), repo.cancelledBy)

	require.Len(t, pub.published, 1)
	cancelled, ok := pub.published[0].(events.BookingCancelled)
	require.True(t, ok)
	assert.Equal(t, int64(900), cancelled.BookingID)
	require.NotNil(t, cancelled.Reason)
	assert.Equal(t, reason, *cancelled.Reason)
}

func TestCancel_CompletedBookingRejected(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 9, 15, 10, 0, 0, 0, time.UTC)
	b := scheduledBooking(now)
	b.Status = domain.StatusCompleted
	repo := &fakeBookingRepo{booking: b}
	pub := &fakePublisher{}
	svc := newService(repo, &fakeHoldRepo{}, pub, now)

	_, err := svc.Cancel(context.Background(), &models.CancelBookingRequest{
		TenantID: 1, BookingID: 900, ActorID: 100, ActorRole: domain.RolePatient,
	})
	assert.ErrorIs(t, err, ErrCannotCancel)
	assert.Empty(t, pub.published)
}

func TestCancel_StaleExpectedVersion(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 9, 15, 10, 0, 0, 0, time.UTC)
	repo := &fakeBookingRepo{booking: scheduledBooking(now)} // актуальная версия 3
	svc := newService(repo, &fakeHoldRepo{}, &fakePublisher{}, now)

	_, err := svc.Cancel(context.Background(), &models.CancelBookingRequest{
		TenantID:        1,
		BookingID:       900,
		ActorID:         100,
		ActorRole:       domain.RolePatient,
		ExpectedVersion: ptr.Ptr(int64(2)),
	})
	assert.ErrorIs(t, err, ErrVersionConflict)
}

func TestCancel_RepoVersionConflictPropagates(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 9, 15, 10, 0, 0, 0, time.UTC)
	repo := &fakeBookingRepo{booking: scheduledBooking(now), cancelErr: bookingRepo.ErrVersionConflict}
	svc := newService(repo, &fakeHoldRepo{}, &fakePublisher{}, now)

	_, err := svc.Cancel(context.Background(), &models.CancelBookingRequest{
		TenantID: 1, BookingID: 900, ActorID: 100, ActorRole: domain.RolePatient,
	})
	assert.ErrorIs(t, err, ErrVersionConflict)
}

func TestCancel_AccessDeniedForOtherPatient(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 9, 15, 10, 0, 0, 0, time.UTC)
	repo := &fakeBookingRepo{booking: scheduledBooking(now)}
	svc := newService(repo, &fakeHoldRepo{}, &fakePublisher{}, now)

	_, err := svc.Cancel(context.Background(), &models.CancelBookingRequest{
		TenantID: 1, BookingID: 900, ActorID: 999, ActorRole: domain.RolePatient,
	})
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestRecordPaymentStatus_Success(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 9, 15, 10, 0, 0, 0, time.UTC)
	repo := &fakeBookingRepo{booking: scheduledBooking(now)}
	pub := &fakePublisher{}
	svc := newService(repo, &fakeHoldRepo{}, pub, now)

	resp, err := svc.RecordPaymentStatus(context.Background(), &models.RecordPaymentStatusRequest{
		TenantID:      1,
		BookingID:     900,
		ActorID:       7,
		ActorRole:     domain.RoleAdmin,
		PaymentStatus: "approved",
	})
	require.NoError(t, err)

	assert.Equal(t, domain.PaymentApproved, repo.updatedPayment)
	assert.Equal(t, "approved", resp.PaymentStatus)
	assert.Equal(t, int64(4), resp.Version)

	require.Len(t, pub.published, 1)
	changed, ok := pub.published[0].(events.PaymentStatusChanged)
	require.True(t, ok)
	assert.Equal(t, "pending", changed.PreviousStatus)
	assert.Equal(t, "approved", changed.NewStatus)
}

func TestRecordPaymentStatus_IdempotentNoOp(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 9, 15, 10, 0, 0, 0, time.UTC)
	repo := &fakeBookingRepo{booking: scheduledBooking(now)}
	pub := &fakePublisher{}
	svc := newService(repo, &fakeHoldRepo{}, pub, now)

	// Повторная доставка того же статуса: версия не меняется, события нет
	resp, err := svc.RecordPaymentStatus(context.Background(), &models.RecordPaymentStatusRequest{
		TenantID:      1,
		BookingID:     900,
		ActorID:       7,
		ActorRole:     domain.RoleAdmin,
		PaymentStatus: "pending",
	})
	require.NoError(t, err)

	assert.Equal(t, int64(3), resp.Version)
	assert.Empty(t, pub.published)
	assert.Empty(t, repo.updatedPayment)
}

func TestRecordPaymentStatus_TerminalBookingRejected(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 9, 15, 10, 0, 0, 0, time.UTC)
	b := scheduledBooking(now)
	b.Status = domain.StatusCancelled
	repo := &fakeBookingRepo{booking: b}
	svc := newService(repo, &fakeHoldRepo{}, &fakePublisher{}, now)

	_, err := svc.RecordPaymentStatus(context.Background(), &models.RecordPaymentStatusRequest{
		TenantID:      1,
		BookingID:     900,
		ActorID:       7,
		ActorRole:     domain.RoleAdmin,
		PaymentStatus: "refunded",
	})
	assert.ErrorIs(t, err, ErrTerminalBooking)
}

func TestRecordPaymentStatus_UnknownStatus(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 9, 15, 10, 0, 0, 0, time.UTC)
	repo := &fakeBookingRepo{booking: scheduledBooking(now)}
	svc := newService(repo, &fakeHoldRepo{}, &fakePublisher{}, now)

	_, err := svc.RecordPaymentStatus(context.Background(), &models.RecordPaymentStatusRequest{
		TenantID:      1,
		BookingID:     900,
		ActorID:       7,
		ActorRole:     domain.RoleAdmin,
		PaymentStatus: "paid-in-cash",
	})
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestGetSchedule_MergesAndSortsEntries(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 9, 15, 10, 0, 0, 0, time.UTC)
	from := now
	to := now.Add(8 * time.Hour)

	repo := &fakeBookingRepo{
		inRange: []*domain.Booking{
			{ID: 1, PatientID: 100, StartAt: now.Add(3 * time.Hour), EndAt: now.Add(4 * time.Hour), Status: domain.StatusScheduled},
		},
	}
	holds := &fakeHoldRepo{
		inRange: []*domain.Hold{
			{ID: 2, PatientID: 101, StartAt: now.Add(time.Hour), EndAt: now.Add(2 * time.Hour), Status: domain.HoldStatusActive},
		},
	}
	svc := newService(repo, holds, &fakePublisher{}, now)

	resp, err := svc.GetSchedule(context.Background(), &models.GetScheduleRequest{
		TenantID:       1,
		ProfessionalID: 10,
		ActorID:        7,
		ActorRole:      domain.RoleReceptionist,
		From:           from,
		To:             to,
	})
	require.NoError(t, err)

	require.Len(t, resp.Entries, 2)
	// Отсортировано по началу: сначала холд, потом запись
	assert.Equal(t, "hold", resp.Entries[0].Kind)
	assert.Equal(t, "booking", resp.Entries[1].Kind)
}

func TestGetSchedule_InvalidPeriod(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 9, 15, 10, 0, 0, 0, time.UTC)
	svc := newService(&fakeBookingRepo{}, &fakeHoldRepo{}, &fakePublisher{}, now)

	_, err := svc.GetSchedule(context.Background(), &models.GetScheduleRequest{
		TenantID:       1,
		ProfessionalID: 10,
		ActorID:        7,
		ActorRole:      domain.RoleAdmin,
		From:           now.Add(time.Hour),
		To:             now,
	})
	assert.ErrorIs(t, err, ErrInvalidTimeRange)
}

func TestGetSchedule_ProfessionalSeesOwnCalendarOnly(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 9, 15, 10, 0, 0, 0, time.UTC)
	svc := newService(&fakeBookingRepo{}, &fakeHoldRepo{}, &fakePublisher{}, now)

	resp, err := svc.GetSchedule(context.Background(), &models.GetScheduleRequest{
		TenantID:       1,
		ProfessionalID: 10,
		ActorID:        10,
		ActorRole:      domain.RoleProfessional,
		From:           now,
		To:             now.Add(time.Hour),
	})
	require.NoError(t, err)
	assert.Empty(t, resp.Entries)

	_, err = svc.GetSchedule(context.Background(), &models.GetScheduleRequest{
		TenantID:       1,
		ProfessionalID: 11, // чужой календарь
		ActorID:        10,
		ActorRole:      domain.RoleProfessional,
		From:           now,
		To:             now.Add(time.Hour),
	})
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestGetSchedule_PatientDenied(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 9, 15, 10, 0, 0, 0, time.UTC)
	svc := newService(&fakeBookingRepo{}, &fakeHoldRepo{}, &fakePublisher{}, now)

	// В календаре видны ID чужих пациентов, пациентам он закрыт
	_, err := svc.GetSchedule(context.Background(), &models.GetScheduleRequest{
		TenantID:       1,
		ProfessionalID: 10,
		ActorID:        100,
		ActorRole:      domain.RolePatient,
		From:           now,
		To:             now.Add(time.Hour),
	})
	assert.ErrorIs(t, err, ErrAccessDenied)
}
