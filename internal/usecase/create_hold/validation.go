package create_hold

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.TenantID <= 0 {
		return fmt.Errorf("%w: tenantID must be positive", ErrInvalidInput)
	}

	if req.ClinicID <= 0 {
		return fmt.Errorf("%w: clinicID must be positive", ErrInvalidInput)
	}

	if req.ProfessionalID <= 0 {
		return fmt.Errorf("%w: professionalID must be positive", ErrInvalidInput)
	}

	if req.PatientID <= 0 {
		return fmt.Errorf("%w: patientID must be positive", ErrInvalidInput)
	}

	if req.ServiceTypeID != nil && *req.ServiceTypeID <= 0 {
		return fmt.Errorf("%w: serviceTypeID must be positive", ErrInvalidInput)
	}

	if req.StartAt.IsZero() {
		return fmt.Errorf("%w: startAt is required", ErrInvalidInput)
	}

	if !req.ActorRole.IsKnown() {
		return fmt.Errorf("%w: unknown actor role %q", ErrInvalidInput, req.ActorRole)
	}

	return nil
}

// authorizeActor проверяет, что роль вызывающего дает право создать холд
// Персонал клиники бронирует для любого пациента,
// пациент - только для себя
func authorizeActor(req *Request) error {
	if req.ActorRole.IsStaff() {
		return nil
	}

	if req.ActorRole == domain.RolePatient && req.ActorID == req.PatientID {
		return nil
	}

	return ErrForbidden
}

// validateWindow проверяет временное окно слота
// Порядок проверок фиксирован: диапазон, прошлое, минимальное упреждение,
// максимальное окно - сообщения об ошибках различаются по каждому правилу
func validateWindow(now, startAt, endAt time.Time, settings domain.HoldSettings) error {
	// 1. Конец слота должен быть позже начала
	if !endAt.After(startAt) {
		return ErrInvalidRange
	}

	// 2. Слот не может начинаться в прошлом
	if startAt.Before(now) {
		return ErrPastSlot
	}

	lead := startAt.Sub(now)

	// 3. Минимальное упреждение
	minAdvance := time.Duration(settings.MinAdvanceMinutes) * time.Minute
	if lead < minAdvance {
		return fmt.Errorf("%w: must reserve at least %d minutes in advance", ErrInsufficientAdvanceNotice, settings.MinAdvanceMinutes)
	}

	// 4. Максимальное окно бронирования
	maxAdvance := time.Duration(settings.MaxAdvanceDays) * 24 * time.Hour
	if lead > maxAdvance {
		return fmt.Errorf("%w: can only reserve up to %d days in advance", ErrAdvanceWindowExceeded, settings.MaxAdvanceDays)
	}

	return nil
}
