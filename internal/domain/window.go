package domain

import "time"

const WindowReasonNoShiftFound = "no_shift_found"

// Window - полуоткрытый интервал [Start, End) для оценки правила.
// Reason заполняется, когда окно получено нестандартным способом
// (например, фолбэк на календарный день при отсутствии смены).
type Window struct {
	Start  time.Time
	End    time.Time
	Reason string
}

// Contains проверяет принадлежность момента окну: Start включительно, End - нет
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}
