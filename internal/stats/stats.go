// Package stats reduces an event collection into the season report numbers:
// day and type counts, teaching hours and income, training hours and cost,
// venue tallies and the student frequency ranking.
package stats

import (
	"fmt"
	"sort"

	"github.com/skicoach/coach-schedule/internal/model"
)

type StudentRank struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

type Result struct {
	TotalDays          int     `json:"totalDays"`
	CourseCount        int     `json:"courseCount"`
	PracticeCount      int     `json:"practiceCount"`
	TrainingCount      int     `json:"trainingCount"`
	TotalTeachingHours float64 `json:"totalTeachingHours"`
	TrainingHours      float64 `json:"trainingHours"`
	TrainingCost       float64 `json:"trainingCost"`
	TotalIncome        float64 `json:"totalIncome"`
	// StudentNames preserves first-encounter order.
	StudentNames []string `json:"studentNames"`
	// StudentRanking is sorted by count descending; ties keep encounter order.
	StudentRanking []StudentRank `json:"studentRanking"`
	// VenueDays counts every event carrying a venue. Two events at the same
	// venue on the same day count twice; kept as the original behaves.
	VenueDays map[string]int `json:"venueDays"`
}

// Compute aggregates events in a single pass. Course and legacy trial
// classes are the billable types: they feed teaching hours, income and the
// student ranking. Practice contributes only its count.
func Compute(events []*model.Event) *Result {
	res := &Result{VenueDays: map[string]int{}}

	dates := map[string]struct{}{}
	studentCounts := map[string]int{}
	var studentOrder []string

	for _, e := range events {
		dates[e.Date] = struct{}{}

		if e.Type == model.EventTypeCourse || e.Type == model.EventTypeTrial {
			if _, seen := studentCounts[e.Title]; !seen {
				studentOrder = append(studentOrder, e.Title)
			}
			studentCounts[e.Title]++
		}
		if e.Venue != nil && *e.Venue != "" {
			res.VenueDays[*e.Venue]++
		}

		switch e.Type {
		case model.EventTypeCourse, model.EventTypeTrial:
			res.CourseCount++
			res.TotalTeachingHours += e.Duration
			if e.Fee != nil {
				res.TotalIncome += *e.Fee
			}
		case model.EventTypePractice:
			res.PracticeCount++
		case model.EventTypeTraining:
			res.TrainingCount++
			res.TrainingHours += e.Duration
			if e.Fee != nil {
				res.TrainingCost += *e.Fee
			}
		}
	}

	res.TotalDays = len(dates)
	res.StudentNames = studentOrder

	ranking := make([]StudentRank, 0, len(studentOrder))
	for _, name := range studentOrder {
		ranking = append(ranking, StudentRank{Name: name, Count: studentCounts[name]})
	}
	sort.SliceStable(ranking, func(i, j int) bool {
		return ranking[i].Count > ranking[j].Count
	})
	res.StudentRanking = ranking

	return res
}

// FormatSummary renders the one-line digest shown above the stats table.
func FormatSummary(r *Result) string {
	return fmt.Sprintf("有安排 %d 天 · 教学课时 %.1f 小时 · 总收入 %s 元 · 累计学员 %d 名",
		r.TotalDays, r.TotalTeachingHours, formatAmount(r.TotalIncome), len(r.StudentNames))
}

func formatAmount(f float64) string {
	if f == float64(int64(f)) {
		return fmt.Sprintf("%d", int64(f))
	}
	return fmt.Sprintf("%g", f)
}
