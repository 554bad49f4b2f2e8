package holds

import "errors"

var (
	// ErrHoldNotFound возвращается, когда холд не найден
	ErrHoldNotFound = errors.New("hold not found")

	// ErrHoldNotActive возвращается при попытке отменить уже завершенный холд
	ErrHoldNotActive = errors.New("hold is no longer active")

	// ErrAccessDenied возвращается, когда у вызывающего нет прав на холд
	ErrAccessDenied = errors.New("access denied")

	// ErrVersionConflict возвращается при конкурентном изменении холда
	ErrVersionConflict = errors.New("hold was modified concurrently")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
