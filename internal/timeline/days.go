package timeline

import (
	"time"

	"github.com/julianstephens/taskline/internal/utils"
)

// GenerateDays returns one cell per calendar day of the window, in order.
// today only decides which cell is flagged IsToday.
func GenerateDays(w Window, today time.Time) ([]DayCell, error) {
	if w.End.Before(w.Start) {
		return nil, ErrInvertedWindow
	}

	total := w.TotalDays()
	start := utils.StartOfDay(w.Start)
	days := make([]DayCell, 0, total)
	for i := 0; i < total; i++ {
		date := utils.AddDays(start, i)
		days = append(days, DayCell{
			Date:      date,
			IsWeekend: utils.IsWeekend(date),
			IsToday:   utils.SameDay(date, today),
		})
	}
	return days, nil
}
