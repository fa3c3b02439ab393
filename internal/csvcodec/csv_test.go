package csvcodec

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skicoach/coach-schedule/internal/model"
)

func strPtr(s string) *string   { return &s }
func numPtr(f float64) *float64 { return &f }

func TestEncode(t *testing.T) {
	events := []*model.Event{
		{Type: model.EventTypeCourse, Date: "2024-11-01", Title: "小明", Venue: strPtr("南山"), Fee: numPtr(1500), Duration: 3},
		{Type: model.EventTypePractice, Date: "2025-04-30", Title: "刻滑", Duration: 2.5},
	}

	out := Encode(events)
	require.True(t, strings.HasPrefix(out, "\uFEFF"), "output must carry a BOM")

	lines := strings.Split(strings.TrimPrefix(out, "\uFEFF"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, Header, lines[0])
	assert.Equal(t, "1;11月1日;南山;教学;小明;1500;3", lines[1])
	assert.Equal(t, "2;4月30日;;练活;刻滑;;2.5", lines[2])
}

func TestEncodeQuotesDelimiters(t *testing.T) {
	events := []*model.Event{
		{Type: model.EventTypeTraining, Date: "2024-12-01", Title: `考核;单板 "CASI"`, Duration: 4},
	}
	out := Encode(events)
	assert.Contains(t, out, `"考核;单板 ""CASI"""`)
}

func TestDecodeRoundTrip(t *testing.T) {
	events := []*model.Event{
		{Type: model.EventTypeCourse, Date: "2024-11-15", Title: "小明", Venue: strPtr("南山"), Fee: numPtr(1500), Duration: 3},
		{Type: model.EventTypePractice, Date: "2024-12-03", Title: "刻滑", Duration: 2},
		{Type: model.EventTypeTraining, Date: "2025-03-08", Title: "考核", Fee: numPtr(800), Duration: 4},
	}

	rows, errs := Decode(Encode(events), 2024)
	require.Empty(t, errs)
	require.Len(t, rows, 3)

	for i, e := range events {
		assert.Equal(t, e.Date, rows[i].Date, "row %d date", i)
		assert.Equal(t, e.Type, rows[i].Type, "row %d type", i)
		assert.Equal(t, e.Title, rows[i].Title, "row %d title", i)
		assert.Equal(t, e.Venue, rows[i].Venue, "row %d venue", i)
		assert.Equal(t, e.Fee, rows[i].Fee, "row %d fee", i)
		require.NotNil(t, rows[i].Duration, "row %d duration", i)
		assert.Equal(t, e.Duration, *rows[i].Duration, "row %d duration", i)
	}
}

func TestDecodeSeasonYearResolution(t *testing.T) {
	text := "1;11月1日;;教学;小明;1500;3\n2;4月30日;;教学;小红;1500;3"
	rows, errs := Decode(text, 2024)
	require.Empty(t, errs)
	require.Len(t, rows, 2)
	assert.Equal(t, "2024-11-01", rows[0].Date)
	assert.Equal(t, "2025-04-30", rows[1].Date)
}

func TestDecodeDayOverflowNormalizes(t *testing.T) {
	rows, errs := Decode("1;2月30日;;教学;小明;;3", 2024)
	require.Empty(t, errs)
	require.Len(t, rows, 1)
	assert.Equal(t, "2025-03-02", rows[0].Date)
}

func TestDecodeRejectsTrialClass(t *testing.T) {
	text := Header + "\n1;12月1日;;试课;小刚;1000;2\n2;12月2日;;教学;小明;1500;3"
	rows, errs := Decode(text, 2024)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "第 2 行")
	assert.Contains(t, errs[0], "试课")
	require.Len(t, rows, 1)
	assert.Equal(t, "小明", rows[0].Title)
}

func TestDecodeBadDateIsRowError(t *testing.T) {
	rows, errs := Decode("1;2024-12-01;;教学;小明;;3", 2024)
	assert.Empty(t, rows)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "日期格式无效")
}

func TestDecodeSkipsHeadersAndBlankContent(t *testing.T) {
	text := "\uFEFF" + Header + "\n序号;日期;雪场;内容;备注;收入;时长\n5;12月1日;;;备注而已;;\n1;12月1日;;练活;平花;;2"
	rows, errs := Decode(text, 2024)
	assert.Empty(t, errs)
	require.Len(t, rows, 1)
	assert.Equal(t, model.EventTypePractice, rows[0].Type)
}

func TestDecodeQuotedCells(t *testing.T) {
	rows, errs := Decode(`1;12月1日;"南山;二期";教学;"小明 ""阿明""";1500;3`, 2024)
	require.Empty(t, errs)
	require.Len(t, rows, 1)
	require.NotNil(t, rows[0].Venue)
	assert.Equal(t, "南山;二期", *rows[0].Venue)
	assert.Equal(t, `小明 "阿明"`, rows[0].Title)
}

func TestDecodeEmptyFeeAndDurationAreAbsent(t *testing.T) {
	rows, errs := Decode("1;12月1日;;培训;考核;;", 2024)
	require.Empty(t, errs)
	require.Len(t, rows, 1)
	assert.Nil(t, rows[0].Fee)
	assert.Nil(t, rows[0].Duration)
}
