package bookings

import "errors"

var (
	// ErrBookingNotFound возвращается, когда запись не найдена
	ErrBookingNotFound = errors.New("booking not found")

	// ErrCannotCancel возвращается, когда запись нельзя отменить из её статуса
	ErrCannotCancel = errors.New("booking cannot be cancelled")

	// ErrTerminalBooking возвращается при смене платежного статуса завершенной записи
	ErrTerminalBooking = errors.New("booking is in a terminal status")

	// ErrAccessDenied возвращается, когда у вызывающего нет прав на запись
	ErrAccessDenied = errors.New("access denied")

	// ErrVersionConflict возвращается при конкурентном изменении записи
	ErrVersionConflict = errors.New("booking was modified concurrently")

	// ErrInvalidStatus возвращается при неизвестном платежном статусе
	ErrInvalidStatus = errors.New("invalid payment status")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInvalidTimeRange возвращается при некорректном временном диапазоне
	ErrInvalidTimeRange = errors.New("invalid time range")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
