package create_hold

import (
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// Request модель запроса на создание холда
type Request struct {
	TenantID       int64       // ID тенанта
	ClinicID       int64       // ID клиники
	ProfessionalID int64       // запрошенный специалист (до подстановки замещения)
	PatientID      int64       // ID пациента
	ServiceTypeID  *int64      // тип услуги (опционально)
	StartAt        time.Time   // начало слота, UTC
	EndAt          time.Time   // конец слота, UTC; нулевое значение - вычислить из длительности услуги
	ActorID        int64       // кто выполняет запрос
	ActorRole      domain.Role // роль вызывающего
}

// Response модель ответа с созданным холдом
type Response struct {
	ID                     int64      // ID созданного холда
	TenantID               int64      // ID тенанта
	ClinicID               int64      // ID клиники
	ProfessionalID         int64      // эффективный специалист (после замещения)
	OriginalProfessionalID *int64     // оригинальный специалист, если было замещение
	CoverageID             *int64     // ID записи о замещении, если было замещение
	PatientID              int64      // ID пациента
	ServiceTypeID          *int64     // тип услуги
	StartAt                time.Time  // начало слота
	EndAt                  time.Time  // конец слота
	TTLExpiresAt           time.Time  // момент истечения холда
	Status                 string     // статус холда
	Version                int64      // версия для optimistic concurrency
	CreatedAt              time.Time  // время создания
}

// FromDomainHold конвертирует domain модель в response
func FromDomainHold(h *domain.Hold) *Response {
	return &Response{
		ID:                     h.ID,
		TenantID:               h.TenantID,
		ClinicID:               h.ClinicID,
		ProfessionalID:         h.ProfessionalID,
		OriginalProfessionalID: h.OriginalProfessionalID,
		CoverageID:             h.CoverageID,
		PatientID:              h.PatientID,
		ServiceTypeID:          h.ServiceTypeID,
		StartAt:                h.StartAt,
		EndAt:                  h.EndAt,
		TTLExpiresAt:           h.TTLExpiresAt,
		Status:                 string(h.Status),
		Version:                h.Version,
		CreatedAt:              h.CreatedAt,
	}
}
