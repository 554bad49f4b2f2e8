package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func TestResolveHoldSettings_Defaults(t *testing.T) {
	t.Parallel()

	settings := ResolveHoldSettings(nil, nil)

	assert.Equal(t, DefaultHoldTTLMinutes, settings.TTLMinutes)
	assert.Equal(t, 0, settings.MinAdvanceMinutes)
	assert.Nil(t, settings.MaxAdvanceMinutes)
	assert.Equal(t, DefaultMaxAdvanceDays, settings.MaxAdvanceDays)
}

func TestResolveHoldSettings_ClinicValues(t *testing.T) {
	t.Parallel()

	clinic := &ClinicSettings{
		HoldTTLMinutes:    15,
		MinAdvanceMinutes: 120,
		MaxAdvanceMinutes: 2880, // ровно 2 дня
	}

	settings := ResolveHoldSettings(clinic, nil)

	assert.Equal(t, 15, settings.TTLMinutes)
	assert.Equal(t, 120, settings.MinAdvanceMinutes)
	require.NotNil(t, settings.MaxAdvanceMinutes)
	assert.Equal(t, 2880, *settings.MaxAdvanceMinutes)
	assert.Equal(t, 2, settings.MaxAdvanceDays)
}

func TestResolveHoldSettings_ServiceTypeOverridesClinic(t *testing.T) {
	t.Parallel()

	clinic := &ClinicSettings{
		HoldTTLMinutes:    15,
		MinAdvanceMinutes: 120,
		MaxAdvanceMinutes: 2880,
	}
	serviceType := &ServiceType{
		MinAdvanceMinutes: intPtr(30),
		MaxAdvanceMinutes: intPtr(1500), // 1500 мин -> 2 дня с округлением вверх
	}

	settings := ResolveHoldSettings(clinic, serviceType)

	assert.Equal(t, 30, settings.MinAdvanceMinutes)
	require.NotNil(t, settings.MaxAdvanceMinutes)
	assert.Equal(t, 1500, *settings.MaxAdvanceMinutes)
	assert.Equal(t, 2, settings.MaxAdvanceDays)
}

func TestResolveHoldSettings_ServiceTypeZeroMinAdvanceWins(t *testing.T) {
	t.Parallel()

	// Явный ноль услуги перекрывает значение клиники: услуга разрешает
	// бронирование впритык
	clinic := &ClinicSettings{MinAdvanceMinutes: 120}
	serviceType := &ServiceType{MinAdvanceMinutes: intPtr(0)}

	settings := ResolveHoldSettings(clinic, serviceType)

	assert.Equal(t, 0, settings.MinAdvanceMinutes)
}

func TestResolveHoldSettings_ZeroMaxAdvanceCollapsesToUnlimited(t *testing.T) {
	t.Parallel()

	// maxAdvance = 0 неотличим от "не настроено" и дает окно по умолчанию
	clinic := &ClinicSettings{MaxAdvanceMinutes: 0}
	serviceType := &ServiceType{MaxAdvanceMinutes: intPtr(0)}

	settings := ResolveHoldSettings(clinic, serviceType)

	assert.Nil(t, settings.MaxAdvanceMinutes)
	assert.Equal(t, DefaultMaxAdvanceDays, settings.MaxAdvanceDays)
}

func TestResolveHoldSettings_SubDayMaxAdvanceRoundsUpToOneDay(t *testing.T) {
	t.Parallel()

	clinic := &ClinicSettings{MaxAdvanceMinutes: 600} // 10 часов

	settings := ResolveHoldSettings(clinic, nil)

	assert.Equal(t, 1, settings.MaxAdvanceDays)
}

func TestResolveHoldSettings_OverbookingFlagsCarriedOver(t *testing.T) {
	t.Parallel()

	clinic := &ClinicSettings{
		AllowOverbooking:       true,
		OverbookingThreshold:   25,
		ResourceMatchingStrict: true,
	}

	settings := ResolveHoldSettings(clinic, nil)

	assert.True(t, settings.AllowOverbooking)
	assert.Equal(t, 25.0, settings.OverbookingThreshold)
	assert.True(t, settings.ResourceMatchingStrict)
}
