package engine

import (
	"testing"
	"time"

	"github.com/LavaJover/shvark-bonus-service/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestComputeWindowCalendarDay(t *testing.T) {
	asOf := time.Date(2025, 3, 15, 13, 45, 12, 0, time.UTC)

	window := ComputeWindow(domain.WindowCalendarDay, asOf, time.UTC)

	assert.Equal(t, time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC), window.Start)
	assert.Equal(t, time.Date(2025, 3, 16, 0, 0, 0, 0, time.UTC), window.End)
}

func TestComputeWindowCalendarWeekStartsMonday(t *testing.T) {
	// 2025-03-12 - среда
	asOf := time.Date(2025, 3, 12, 9, 0, 0, 0, time.UTC)

	window := ComputeWindow(domain.WindowCalendarWeek, asOf, time.UTC)

	assert.Equal(t, time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), window.Start)
	assert.Equal(t, time.Date(2025, 3, 17, 0, 0, 0, 0, time.UTC), window.End)
	assert.Equal(t, time.Monday, window.Start.Weekday())
}

func TestComputeWindowSundayBelongsToPreviousWeek(t *testing.T) {
	// 2025-03-16 - воскресенье
	asOf := time.Date(2025, 3, 16, 23, 59, 59, 0, time.UTC)

	window := ComputeWindow(domain.WindowCalendarWeek, asOf, time.UTC)

	assert.Equal(t, time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), window.Start)
	assert.True(t, window.Contains(asOf))
}

func TestComputeWindowCalendarMonth(t *testing.T) {
	asOf := time.Date(2025, 1, 31, 18, 0, 0, 0, time.UTC)

	window := ComputeWindow(domain.WindowCalendarMonth, asOf, time.UTC)

	assert.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), window.Start)
	assert.Equal(t, time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC), window.End)
}

func TestComputeWindowIsHalfOpen(t *testing.T) {
	asOf := time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)

	window := ComputeWindow(domain.WindowCalendarDay, asOf, time.UTC)

	assert.True(t, window.Contains(window.Start))
	assert.False(t, window.Contains(window.End))
	assert.True(t, window.Contains(window.End.Add(-time.Nanosecond)))
}

func TestComputeWindowRespectsLocation(t *testing.T) {
	loc := time.FixedZone("UTC+5", 5*60*60)
	// 22:00 UTC = 03:00 следующего дня в UTC+5
	asOf := time.Date(2025, 3, 15, 22, 0, 0, 0, time.UTC)

	window := ComputeWindow(domain.WindowCalendarDay, asOf, loc)

	assert.Equal(t, time.Date(2025, 3, 16, 0, 0, 0, 0, loc), window.Start)
	assert.True(t, window.Contains(asOf))
}

func TestComputeWindowMonthEndRollover(t *testing.T) {
	// Окно декабря переходит в январь следующего года
	asOf := time.Date(2025, 12, 20, 0, 0, 0, 0, time.UTC)

	window := ComputeWindow(domain.WindowCalendarMonth, asOf, time.UTC)

	assert.Equal(t, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), window.End)
}
