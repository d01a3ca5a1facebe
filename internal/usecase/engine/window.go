package engine

import (
	"context"
	"time"

	"github.com/LavaJover/shvark-bonus-service/internal/domain"
)

// ============= КАЛЬКУЛЯТОР ОКОН =============

// ComputeWindow строит полуоткрытое окно [start, end) для типа окна
// и момента asOf в явно заданной таймзоне. Чистая функция без I/O.
func ComputeWindow(windowType domain.WindowType, asOf time.Time, loc *time.Location) domain.Window {
	local := asOf.In(loc)
	year, month, day := local.Date()

	switch windowType {
	case domain.WindowCalendarWeek:
		// Неделя начинается с понедельника
		offset := (int(local.Weekday()) + 6) % 7
		start := time.Date(year, month, day-offset, 0, 0, 0, 0, loc)
		return domain.Window{Start: start, End: start.AddDate(0, 0, 7)}
	case domain.WindowCalendarMonth:
		start := time.Date(year, month, 1, 0, 0, 0, 0, loc)
		return domain.Window{Start: start, End: start.AddDate(0, 1, 0)}
	default:
		// calendar_day
		start := time.Date(year, month, day, 0, 0, 0, 0, loc)
		return domain.Window{Start: start, End: start.AddDate(0, 0, 1)}
	}
}

// resolveWindow строит окно для конкретной пары (rule, worker).
// Для shift-based правил окно берется из смены воркера; если смены нет
// или поиск упал, возвращается календарный день с пометкой причины.
func (e *DefaultBonusEngine) resolveWindow(ctx context.Context, rule *domain.BonusRule, workerID string, asOf time.Time) domain.Window {
	window := ComputeWindow(rule.WindowType, asOf, e.Location)

	if !rule.Config.ShiftBased || rule.WindowType != domain.WindowCalendarDay {
		return window
	}

	shift, err := e.Shifts.GetShiftCoveringDate(ctx, rule.CompanyID, workerID, asOf.In(e.Location))
	if err != nil {
		e.Logger.Warn("shift lookup failed, falling back to calendar day",
			"rule_id", rule.ID, "worker_id", workerID, "error", err)
		window.Reason = domain.WindowReasonNoShiftFound
		return window
	}
	if shift == nil {
		window.Reason = domain.WindowReasonNoShiftFound
		return window
	}

	return domain.Window{Start: shift.Start, End: shift.End}
}
