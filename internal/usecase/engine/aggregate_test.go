package engine

import (
	"testing"
	"time"

	"github.com/LavaJover/shvark-bonus-service/internal/domain"
	"github.com/stretchr/testify/assert"
)

func earningsOf(amounts ...int64) []domain.EarningsEvent {
	events := make([]domain.EarningsEvent, 0, len(amounts))
	for _, amount := range amounts {
		events = append(events, domain.EarningsEvent{
			Metric:      "net_sales",
			AmountCents: amount,
			OccurredAt:  time.Now(),
		})
	}
	return events
}

func TestAggregateEarningsSumsMatchingMetric(t *testing.T) {
	assert.Equal(t, int64(600), AggregateEarnings(earningsOf(100, 200, 300), "net_sales", false))
}

func TestAggregateEarningsSkipsOtherMetrics(t *testing.T) {
	events := earningsOf(100, 200)
	events = append(events, domain.EarningsEvent{Metric: "tips", AmountCents: 5000})

	assert.Equal(t, int64(300), AggregateEarnings(events, "net_sales", false))
}

func TestAggregateEarningsExcludesRefunds(t *testing.T) {
	assert.Equal(t, int64(500), AggregateEarnings(earningsOf(300, -100, 200), "net_sales", false))
}

func TestAggregateEarningsIncludesRefunds(t *testing.T) {
	assert.Equal(t, int64(400), AggregateEarnings(earningsOf(300, -100, 200), "net_sales", true))
}

func TestAggregateEarningsNeverNegative(t *testing.T) {
	assert.Equal(t, int64(0), AggregateEarnings(earningsOf(100, -500), "net_sales", true))
}

func TestAggregateEarningsEmpty(t *testing.T) {
	assert.Equal(t, int64(0), AggregateEarnings(nil, "net_sales", false))
}
