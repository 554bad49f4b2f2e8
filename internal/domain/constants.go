package domain

// Fallback значения движка резервирования
// Применяются, когда ни услуга, ни клиника не задают своё значение
const (
	DefaultHoldTTLMinutes    = 30
	DefaultMinAdvanceMinutes = 60
	DefaultMaxAdvanceDays    = 90
	DefaultBufferMinutes     = 15
)

const (
	MinutesPerDay = 24 * 60
)

// Роли, которым разрешено управлять резервированием
type Role string

const (
	RolePatient      Role = "patient"
	RoleProfessional Role = "professional"
	RoleReceptionist Role = "receptionist"
	RoleAdmin        Role = "admin"
)

// IsStaff returns true for roles that may act on behalf of any patient
func (r Role) IsStaff() bool {
	return r == RoleReceptionist || r == RoleAdmin
}

// IsKnown returns true for roles the service recognizes
func (r Role) IsKnown() bool {
	switch r {
	case RolePatient, RoleProfessional, RoleReceptionist, RoleAdmin:
		return true
	default:
		return false
	}
}

// ActiveHoldStatuses статусы холдов, блокирующих календарь
// Используется при сканировании конфликтов
var ActiveHoldStatuses = []HoldStatus{HoldStatusActive}

// BlockingBookingStatuses статусы записей, блокирующих календарь
var BlockingBookingStatuses = []BookingStatus{StatusScheduled, StatusConfirmed}
