package domain

import "time"

// ClinicSettings настройки бронирования клиники (read-only lookup)
// Редактируются во внешней админке; движок их только читает
type ClinicSettings struct {
	ID                     int64
	TenantID               int64
	ClinicID               int64
	HoldTTLMinutes         int
	MinAdvanceMinutes      int
	MaxAdvanceMinutes      int // 0 = не настроено (см. ResolveHoldSettings)
	BufferMinutes          int
	AllowOverbooking       bool
	OverbookingThreshold   float64 // процент (0-100)
	ResourceMatchingStrict bool
	CreatedAt              time.Time
	UpdatedAt              time.Time
}

// ServiceType тип услуги клиники с опциональными переопределениями настроек
type ServiceType struct {
	ID                int64
	ClinicID          int64
	Name              string
	DurationMinutes   int
	MinAdvanceMinutes *int // nil = использовать значение клиники
	MaxAdvanceMinutes *int // nil = использовать значение клиники
	IsActive          bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// HoldSettings эффективные настройки резервирования
// Вычисляются каскадом "услуга > клиника > fallback" при каждом запросе,
// отдельно никогда не сохраняются
type HoldSettings struct {
	TTLMinutes        int
	MinAdvanceMinutes int
	MaxAdvanceMinutes *int // nil = лимит в минутах не задан, действует MaxAdvanceDays
	MaxAdvanceDays    int

	// Переносятся из настроек клиники как есть; сканер конфликтов
	// остается строгим независимо от этих флагов
	AllowOverbooking       bool
	OverbookingThreshold   float64
	ResourceMatchingStrict bool
}

// ResolveHoldSettings вычисляет эффективные настройки резервирования
// Каскад по каждому полю: значение услуги (если задано и положительно) >
// значение клиники (если положительно) > fallback движка
//
// Известная особенность: maxAdvanceMinutes = 0 неотличим от "не настроено"
// и дает безлимитное окно в DefaultMaxAdvanceDays дней. Поведение сохранено
// для совместимости с продовой конфигурацией.
func ResolveHoldSettings(clinic *ClinicSettings, serviceType *ServiceType) HoldSettings {
	settings := HoldSettings{
		TTLMinutes:        DefaultHoldTTLMinutes,
		MinAdvanceMinutes: 0,
		MaxAdvanceDays:    DefaultMaxAdvanceDays,
	}

	if clinic != nil {
		if clinic.HoldTTLMinutes > 0 {
			settings.TTLMinutes = clinic.HoldTTLMinutes
		}
		settings.MinAdvanceMinutes = clinic.MinAdvanceMinutes
		settings.AllowOverbooking = clinic.AllowOverbooking
		settings.OverbookingThreshold = clinic.OverbookingThreshold
		settings.ResourceMatchingStrict = clinic.ResourceMatchingStrict
	}

	// minAdvance: переопределение услуги (если задано) > клиника > 0
	if serviceType != nil && serviceType.MinAdvanceMinutes != nil {
		settings.MinAdvanceMinutes = *serviceType.MinAdvanceMinutes
	}

	// maxAdvance: строго положительное значение услуги > строго положительное
	// значение клиники > безлимит (90 дней)
	var maxAdvanceMinutes int
	if serviceType != nil && serviceType.MaxAdvanceMinutes != nil && *serviceType.MaxAdvanceMinutes > 0 {
		maxAdvanceMinutes = *serviceType.MaxAdvanceMinutes
	} else if clinic != nil && clinic.MaxAdvanceMinutes > 0 {
		maxAdvanceMinutes = clinic.MaxAdvanceMinutes
	}

	if maxAdvanceMinutes > 0 {
		settings.MaxAdvanceMinutes = &maxAdvanceMinutes
		settings.MaxAdvanceDays = minutesToDaysCeil(maxAdvanceMinutes)
	}

	return settings
}

// minutesToDaysCeil переводит минуты в дни с округлением вверх, минимум 1 день
func minutesToDaysCeil(minutes int) int {
	days := (minutes + MinutesPerDay - 1) / MinutesPerDay
	if days < 1 {
		return 1
	}
	return days
}
