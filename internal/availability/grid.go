// Package availability projects events over a date range into a per-day,
// per-slot busy/free grid, and renders the plain-text version that gets
// pasted into chat when students ask for open times.
package availability

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/skicoach/coach-schedule/internal/dateutil"
	"github.com/skicoach/coach-schedule/internal/model"
)

// SlotInfo describes one cell of the grid. Events are sorted by start time;
// Venue is the first event's venue, empty when free or unset.
type SlotInfo struct {
	Busy   bool           `json:"busy"`
	Venue  string         `json:"venue,omitempty"`
	Events []*model.Event `json:"events,omitempty"`
}

type Day struct {
	Date  string                      `json:"date"` // YYYY-MM-DD
	Slots map[model.TimeSlot]SlotInfo `json:"slots"`
}

// Build lays events out over days consecutive dates starting at start. The
// grid is purely derived; events outside the range are ignored.
func Build(events []*model.Event, start time.Time, days int) []Day {
	byDate := map[string][]*model.Event{}
	for _, e := range events {
		byDate[e.Date] = append(byDate[e.Date], e)
	}

	grid := make([]Day, 0, days)
	for i := 0; i < days; i++ {
		dateStr := dateutil.DateString(dateutil.AddDays(start, i))
		dayEvents := append([]*model.Event(nil), byDate[dateStr]...)
		sort.SliceStable(dayEvents, func(a, b int) bool {
			return dayEvents[a].StartTime < dayEvents[b].StartTime
		})

		slots := make(map[model.TimeSlot]SlotInfo, len(model.AllSlots))
		for _, s := range model.AllSlots {
			slots[s] = SlotInfo{}
		}
		for _, e := range dayEvents {
			info := slots[e.TimeSlot]
			if !info.Busy {
				info.Busy = true
				if e.Venue != nil {
					info.Venue = *e.Venue
				}
			}
			info.Events = append(info.Events, e)
			slots[e.TimeSlot] = info
		}
		grid = append(grid, Day{Date: dateStr, Slots: slots})
	}
	return grid
}

// ShareText renders the grid as the copy-paste message: a header, then one
// block per day with ❌ lines for booked slots (venue in brackets when known)
// and ✅ lines for free ones.
func ShareText(grid []Day, start time.Time) string {
	lines := []string{"📅 近期可约时间", ""}
	for i, day := range grid {
		d := dateutil.AddDays(start, i)
		lines = append(lines, fmt.Sprintf("%s（%s）", dateutil.FormatDateZh(d), dateutil.WeekdayZh(d)))
		for _, slot := range model.AllSlots {
			info := day.Slots[slot]
			switch {
			case info.Busy && info.Venue != "":
				lines = append(lines, fmt.Sprintf("❌ %s 已约（%s）", slot, info.Venue))
			case info.Busy:
				lines = append(lines, fmt.Sprintf("❌ %s 已约", slot))
			default:
				lines = append(lines, fmt.Sprintf("✅ %s", slot))
			}
		}
		lines = append(lines, "")
	}
	return strings.TrimRight(strings.Join(lines, "\n"), "\n ")
}
