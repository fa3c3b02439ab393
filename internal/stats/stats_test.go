package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skicoach/coach-schedule/internal/model"
)

func strPtr(s string) *string   { return &s }
func numPtr(f float64) *float64 { return &f }

func TestComputeBasics(t *testing.T) {
	events := []*model.Event{
		{Type: model.EventTypeCourse, Date: "2024-12-01", Title: "A", Duration: 3, Fee: numPtr(1500)},
		{Type: model.EventTypeCourse, Date: "2024-12-02", Title: "A", Duration: 3, Fee: numPtr(1500)},
		{Type: model.EventTypePractice, Date: "2024-12-02", Title: "刻滑", Duration: 2},
	}

	r := Compute(events)

	assert.Equal(t, 2, r.TotalDays)
	assert.Equal(t, 2, r.CourseCount)
	assert.Equal(t, 1, r.PracticeCount)
	assert.Equal(t, 0, r.TrainingCount)
	assert.Equal(t, 6.0, r.TotalTeachingHours)
	assert.Equal(t, 3000.0, r.TotalIncome)
	assert.Equal(t, []string{"A"}, r.StudentNames)
	assert.Equal(t, []StudentRank{{Name: "A", Count: 2}}, r.StudentRanking)
}

func TestComputeTrialCountsAsTeaching(t *testing.T) {
	events := []*model.Event{
		{Type: model.EventTypeTrial, Date: "2024-12-01", Title: "B", Duration: 2, Fee: numPtr(1000)},
		{Type: model.EventTypeCourse, Date: "2024-12-01", Title: "B", Duration: 3, Fee: numPtr(1500)},
	}

	r := Compute(events)

	assert.Equal(t, 1, r.TotalDays)
	assert.Equal(t, 2, r.CourseCount)
	assert.Equal(t, 5.0, r.TotalTeachingHours)
	assert.Equal(t, 2500.0, r.TotalIncome)
	assert.Equal(t, []StudentRank{{Name: "B", Count: 2}}, r.StudentRanking)
}

func TestComputeTrainingSeparatedFromIncome(t *testing.T) {
	events := []*model.Event{
		{Type: model.EventTypeTraining, Date: "2025-03-01", Title: "考核", Duration: 4, Fee: numPtr(800)},
		{Type: model.EventTypeTraining, Date: "2025-03-02", Title: "考核", Duration: 4},
	}

	r := Compute(events)

	assert.Equal(t, 2, r.TrainingCount)
	assert.Equal(t, 8.0, r.TrainingHours)
	assert.Equal(t, 800.0, r.TrainingCost)
	assert.Zero(t, r.TotalIncome)
	assert.Empty(t, r.StudentNames, "training titles are not students")
}

func TestComputeVenueTallyCountsEveryEvent(t *testing.T) {
	events := []*model.Event{
		{Type: model.EventTypeCourse, Date: "2024-12-01", Title: "A", Venue: strPtr("南山"), Duration: 3},
		{Type: model.EventTypeCourse, Date: "2024-12-01", Title: "B", Venue: strPtr("南山"), Duration: 3},
		{Type: model.EventTypePractice, Date: "2024-12-01", Title: "平花", Venue: strPtr("军都山"), Duration: 2},
		{Type: model.EventTypePractice, Date: "2024-12-02", Title: "平花", Duration: 2},
	}

	r := Compute(events)

	// Same venue twice on one day counts twice.
	assert.Equal(t, map[string]int{"南山": 2, "军都山": 1}, r.VenueDays)
}

func TestRankingStableOnTies(t *testing.T) {
	events := []*model.Event{
		{Type: model.EventTypeCourse, Date: "2024-12-01", Title: "C", Duration: 3},
		{Type: model.EventTypeCourse, Date: "2024-12-02", Title: "A", Duration: 3},
		{Type: model.EventTypeCourse, Date: "2024-12-03", Title: "B", Duration: 3},
		{Type: model.EventTypeCourse, Date: "2024-12-04", Title: "B", Duration: 3},
	}

	r := Compute(events)

	require.Len(t, r.StudentRanking, 3)
	assert.Equal(t, "B", r.StudentRanking[0].Name)
	// C and A tie at one each and keep encounter order.
	assert.Equal(t, "C", r.StudentRanking[1].Name)
	assert.Equal(t, "A", r.StudentRanking[2].Name)
}

func TestFormatSummary(t *testing.T) {
	r := Compute([]*model.Event{
		{Type: model.EventTypeCourse, Date: "2024-12-01", Title: "A", Duration: 3, Fee: numPtr(1500)},
	})
	assert.Equal(t, "有安排 1 天 · 教学课时 3.0 小时 · 总收入 1500 元 · 累计学员 1 名", FormatSummary(r))
}
