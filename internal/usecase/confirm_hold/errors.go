package confirm_hold

import "errors"

var (
	// ErrForbidden возвращается, когда роль вызывающего не дает права на операцию
	ErrForbidden = errors.New("confirm_hold: caller is not permitted to confirm this hold")

	// ErrHoldNotFound возвращается, когда холд не найден
	ErrHoldNotFound = errors.New("confirm_hold: hold not found")

	// ErrHoldExpired возвращается, когда TTL холда истек
	ErrHoldExpired = errors.New("confirm_hold: hold has expired")

	// ErrHoldNotActive возвращается, когда холд уже потреблен или отменен
	ErrHoldNotActive = errors.New("confirm_hold: hold is no longer active")

	// ErrVersionConflict возвращается при конкурентном изменении холда
	ErrVersionConflict = errors.New("confirm_hold: hold was modified concurrently")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("confirm_hold: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("confirm_hold: internal error")
)
