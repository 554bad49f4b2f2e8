package eventbus

import "errors"

var (
	// ErrMarshalPayload возвращается при ошибке сериализации payload события
	ErrMarshalPayload = errors.New("eventbus: failed to marshal event payload")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("eventbus: failed to build query")

	// ErrExecQuery возвращается при ошибке записи в outbox
	ErrExecQuery = errors.New("eventbus: failed to execute query")
)
