package clinic

import "errors"

var (
	// ErrSettingsNotFound возвращается, когда настройки клиники не найдены
	ErrSettingsNotFound = errors.New("clinic.repository: clinic settings not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("clinic.repository: failed to build query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("clinic.repository: failed to scan row")
)
