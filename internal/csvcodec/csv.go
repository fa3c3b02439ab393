// Package csvcodec encodes events into the semicolon-delimited spreadsheet
// format used for season reports and decodes such files back into importable
// rows. Dates travel as M月D日 without a year; the caller supplies the season
// start year to resolve them on decode.
package csvcodec

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/skicoach/coach-schedule/internal/dateutil"
	"github.com/skicoach/coach-schedule/internal/model"
)

const Header = "NO.;日期;雪场;内容;备注;收入;时长"

// typeToCSV maps event types to the 内容 column. Every type is exportable.
var typeToCSV = map[model.EventType]string{
	model.EventTypeCourse:   "教学",
	model.EventTypeTrial:    "试课",
	model.EventTypePractice: "练活",
	model.EventTypeTraining: "培训",
}

// csvToType is deliberately narrower: 试课 cannot be imported, trial classes
// only exist as legacy data.
var csvToType = map[string]model.EventType{
	"教学": model.EventTypeCourse,
	"练活": model.EventTypePractice,
	"培训": model.EventTypeTraining,
}

// Row is the transient parse result consumed by the import operation.
type Row struct {
	Date     string // YYYY-MM-DD
	Venue    *string
	Type     model.EventType
	Title    string
	Fee      *float64
	Duration *float64
}

func escapeCell(s string) string {
	if strings.ContainsAny(s, ";\"\r\n") {
		return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
	}
	return s
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// Encode renders events as a BOM-prefixed CSV document. Rows are numbered
// from 1 in the order given; the event title lands in the 备注 column.
func Encode(events []*model.Event) string {
	var b strings.Builder
	b.WriteString("\uFEFF")
	b.WriteString(Header)
	for i, e := range events {
		date := ""
		if d, err := dateutil.ParseDate(e.Date); err == nil {
			date = dateutil.FormatDateZh(d)
		}
		venue := ""
		if e.Venue != nil {
			venue = *e.Venue
		}
		fee := ""
		if e.Fee != nil {
			fee = formatNumber(*e.Fee)
		}
		cells := []string{
			strconv.Itoa(i + 1),
			date,
			venue,
			typeToCSV[e.Type],
			e.Title,
			fee,
			formatNumber(e.Duration),
		}
		b.WriteString("\n")
		for j, c := range cells {
			if j > 0 {
				b.WriteString(";")
			}
			b.WriteString(escapeCell(c))
		}
	}
	return b.String()
}

// splitCells tokenizes one line on semicolons with quote awareness: a quote
// toggles quoted mode, and a doubled quote inside quoted mode is a literal
// quote. Cells are trimmed.
func splitCells(line string) []string {
	var cells []string
	var cur strings.Builder
	inQuotes := false
	runes := []rune(line)
	for i := 0; i < len(runes); i++ {
		c := runes[i]
		switch {
		case c == '"':
			if inQuotes && i+1 < len(runes) && runes[i+1] == '"' {
				cur.WriteRune('"')
				i++
			} else {
				inQuotes = !inQuotes
			}
		case c == ';' && !inQuotes:
			cells = append(cells, strings.TrimSpace(cur.String()))
			cur.Reset()
		default:
			cur.WriteRune(c)
		}
	}
	cells = append(cells, strings.TrimSpace(cur.String()))
	return cells
}

var dateZhRe = regexp.MustCompile(`^(\d{1,2})月(\d{1,2})日$`)

// parseDateZh resolves M月D日 against the season start year: November and
// December fall in the start year, everything else in the year after.
// Construction through time.Date lets an overflowing day roll forward, the
// same normalization plain calendar-date construction gives.
func parseDateZh(s string, seasonStartYear int) (string, bool) {
	m := dateZhRe.FindStringSubmatch(s)
	if m == nil {
		return "", false
	}
	month, _ := strconv.Atoi(m[1])
	day, _ := strconv.Atoi(m[2])
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return "", false
	}
	year := seasonStartYear + 1
	if month >= 11 {
		year = seasonStartYear
	}
	d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	return dateutil.DateString(d), true
}

func cell(cells []string, i int) string {
	if i < len(cells) {
		return cells[i]
	}
	return ""
}

// Decode parses a CSV document. Header rows are skipped; malformed rows are
// reported as messages and excluded without failing the rest of the parse.
// Line numbers in messages are 1-based over non-blank lines.
func Decode(text string, seasonStartYear int) (rows []Row, errs []string) {
	text = strings.ReplaceAll(text, "\uFEFF", "")
	var lines []string
	for _, l := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		if strings.TrimSpace(l) != "" {
			lines = append(lines, l)
		}
	}
	for i, line := range lines {
		cells := splitCells(line)

		first := strings.TrimSpace(cell(cells, 0))
		rawDate := cell(cells, 1)
		content := cell(cells, 3)
		if first == "NO." || first == "序号" || content == "内容" || content == "" {
			continue
		}

		typ, ok := csvToType[content]
		if !ok {
			errs = append(errs, fmt.Sprintf("第 %d 行：未知内容「%s」，应为 教学/练活/培训", i+1, content))
			continue
		}

		date, ok := parseDateZh(rawDate, seasonStartYear)
		if !ok {
			errs = append(errs, fmt.Sprintf("第 %d 行：日期格式无效「%s」，应为 M月D日", i+1, rawDate))
			continue
		}

		row := Row{Date: date, Type: typ, Title: cell(cells, 4)}
		if v := cell(cells, 2); v != "" {
			row.Venue = &v
		}
		if s := cell(cells, 5); s != "" {
			if f, err := strconv.ParseFloat(s, 64); err == nil {
				row.Fee = &f
			}
		}
		if s := cell(cells, 6); s != "" {
			if f, err := strconv.ParseFloat(s, 64); err == nil {
				row.Duration = &f
			}
		}
		rows = append(rows, row)
	}
	return rows, errs
}
