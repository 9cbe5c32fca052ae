package insights

import (
	"sort"
	"time"

	"github.com/jhoicas/pos-insights-api/internal/domain/entity"
)

const day = 24 * time.Hour

// DaysBetween días completos transcurridos entre from y to (floor).
func DaysBetween(from, to time.Time) int {
	return int(to.Sub(from) / day)
}

// AvgPurchaseGapDays promedio en días entre ventas consecutivas.
// Con menos de dos ventas no hay intervalo y devuelve (0, false).
func AvgPurchaseGapDays(sales []*entity.Sale) (float64, bool) {
	if len(sales) < 2 {
		return 0, false
	}
	dates := make([]time.Time, 0, len(sales))
	for _, s := range sales {
		if s != nil {
			dates = append(dates, s.CreatedAt)
		}
	}
	if len(dates) < 2 {
		return 0, false
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	var total time.Duration
	for i := 1; i < len(dates); i++ {
		total += dates[i].Sub(dates[i-1])
	}
	return total.Hours() / 24 / float64(len(dates)-1), true
}
