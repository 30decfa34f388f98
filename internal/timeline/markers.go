package timeline

import (
	"github.com/julianstephens/taskline/internal/models"
	"github.com/julianstephens/taskline/internal/utils"
)

// Marker places a milestone on a single day column of the grid.
type Marker struct {
	Milestone   models.Milestone `json:"milestone"`
	LeftPercent float64          `json:"left_percent"`
}

// PlaceMilestones sets the layout's markers. Milestones outside the window are left out
// instead of being clamped, and they never widen the window.
func (l *Layout) PlaceMilestones(milestones []models.Milestone) {
	l.Markers = MarkersFor(milestones, l.Window, l.TotalDays)
}

// MarkersFor positions milestones on a grid of totalDays cells starting at w.Start.
func MarkersFor(milestones []models.Milestone, w Window, totalDays int) []Marker {
	if totalDays < 1 {
		return nil
	}
	var out []Marker
	for _, m := range milestones {
		target := m.TargetDate.In(w.Start.Location())
		if !w.Contains(target) {
			continue
		}
		left := float64(utils.DaysBetween(w.Start, target)) / float64(totalDays) * 100
		out = append(out, Marker{Milestone: m, LeftPercent: clamp(left, 0, 100)})
	}
	return out
}
