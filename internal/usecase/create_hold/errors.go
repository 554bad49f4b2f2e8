package create_hold

import "errors"

var (
	// ErrForbidden возвращается, когда роль вызывающего не дает права на операцию
	// Отличается от бизнес-отказов: клиент мапит её на 403, а не на 409
	ErrForbidden = errors.New("create_hold: caller role is not permitted to reserve this slot")

	// ErrServiceTypeNotFound возвращается, когда тип услуги не найден
	ErrServiceTypeNotFound = errors.New("create_hold: service type not found")

	// ErrServiceTypeInactive возвращается, когда тип услуги отключен
	ErrServiceTypeInactive = errors.New("create_hold: service type is not active")

	// ErrInvalidRange возвращается, когда конец слота не позже начала
	ErrInvalidRange = errors.New("create_hold: end time must be after start time")

	// ErrPastSlot возвращается при попытке создать холд в прошлом
	ErrPastSlot = errors.New("create_hold: cannot create holds in the past")

	// ErrInsufficientAdvanceNotice возвращается, когда слот ближе минимального упреждения
	ErrInsufficientAdvanceNotice = errors.New("create_hold: slot does not meet the minimum advance notice")

	// ErrAdvanceWindowExceeded возвращается, когда слот дальше максимального окна бронирования
	ErrAdvanceWindowExceeded = errors.New("create_hold: slot is beyond the maximum advance window")

	// ErrBookingConflict возвращается, когда у специалиста уже есть запись в этом периоде
	ErrBookingConflict = errors.New("create_hold: professional already has a commitment in this period")

	// ErrHoldConflict возвращается, когда на этот период уже существует активный холд
	ErrHoldConflict = errors.New("create_hold: a hold already exists for this period")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_hold: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_hold: internal error")
)
