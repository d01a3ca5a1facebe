package domain

import (
	"context"
	"time"
)

// EarningsEvent - событие заработка воркера из внешнего бэкенда.
// Записи неизменяемы: движок бонусов их только читает.
type EarningsEvent struct {
	WorkerID    string
	Metric      string
	AmountCents int64 // отрицательное значение = возврат (refund)
	OccurredAt  time.Time
	Type        string
}

// EarningsProvider отдает события заработка за полуоткрытый интервал [start, end)
type EarningsProvider interface {
	GetEarningsInWindow(ctx context.Context, companyID, workerID, metric string, start, end time.Time) ([]EarningsEvent, error)
	ListActiveWorkers(ctx context.Context, companyID string, start, end time.Time) ([]string, error)
}

type Shift struct {
	Start time.Time
	End   time.Time
}

// ShiftProvider ищет смену воркера, покрывающую календарную дату.
// Возвращает nil без ошибки, если смена не найдена.
type ShiftProvider interface {
	GetShiftCoveringDate(ctx context.Context, companyID, workerID string, date time.Time) (*Shift, error)
}
