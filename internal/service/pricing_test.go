package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/iliyamo/car-rental-booking/internal/model"
)

func date(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 0, 0, 0, 0, time.UTC) }

func TestDayCount(t *testing.T) {
	assert.Equal(t, int64(2), DayCount(date(2024, 1, 1), date(2024, 1, 3)))
	assert.Equal(t, int64(1), DayCount(date(2024, 1, 1), date(2024, 1, 1)))
	assert.Equal(t, int64(1), DayCount(date(2024, 1, 1).Add(10*time.Hour), date(2024, 1, 1).Add(12*time.Hour)))
	assert.Equal(t, int64(2), DayCount(date(2024, 1, 1), date(2024, 1, 2).Add(time.Minute)))
	assert.Equal(t, int64(1), DayCount(date(2024, 1, 3), date(2024, 1, 1)))
	assert.Equal(t, int64(1), DayCount(date(2024, 1, 1).Add(20*time.Hour), date(2024, 1, 2).Add(2*time.Hour)))
	assert.Equal(t, int64(36525), DayCount(date(2000, 1, 1), date(2100, 1, 1)))
	assert.Equal(t, int64(365243), DayCount(date(1500, 1, 1), date(2500, 1, 1)))
}

func TestCheckTotal(t *testing.T) {
	assert.NoError(t, checkTotal(MaxTotal))
	assert.ErrorIs(t, checkTotal(MaxTotal+1), ErrValidation)
	assert.ErrorIs(t, checkTotal(-1), ErrValidation)
}

func TestPrice(t *testing.T) {
	rate := model.Money(5000)

	assert.Equal(t, model.Money(10000), Quote(date(2024, 1, 1), date(2024, 1, 3), rate, false, false))
	assert.Equal(t, model.Money(11600), Quote(date(2024, 1, 1), date(2024, 1, 3), rate, true, true))
	assert.Equal(t, model.Money(11000), Quote(date(2024, 1, 1), date(2024, 1, 3), rate, true, false))
	assert.Equal(t, model.Money(10600), Quote(date(2024, 1, 1), date(2024, 1, 3), rate, false, true))

	assert.Equal(t, model.Money(0), AddonsPerDay(false, false))
	assert.Equal(t, model.Money(800), AddonsPerDay(true, true))
	assert.Equal(t, model.Money(3*(4500+500)), Price(3, 4500, true, false))
}
