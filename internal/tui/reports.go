package tui

import (
	"fmt"
	"strings"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/rampup-app/rampup/internal/jalali"
	"github.com/rampup-app/rampup/internal/report"
	"github.com/rampup-app/rampup/internal/store"
)

type reportsModel struct {
	store  *store.Store
	width  int
	height int

	groups []report.DayGroup
	cursor int // flat index over all records, in display order

	dateQuery   string
	courseQuery string

	chart barchart.Model

	formActive bool
	form       *huh.Form
	formType   string // "record", "search"

	// Form field pointers (survive value copies)
	formDate   *string
	formCourse *string
	formStart  *string
	formEnd    *string
	formDesc   *string

	editingID string // report ID being edited, empty for new
}

func newReportsModel(s *store.Store) reportsModel {
	date, course, start, end, desc := "", "", "", "", ""
	return reportsModel{
		store:      s,
		chart:      barchart.New(60, 12),
		formDate:   &date,
		formCourse: &course,
		formStart:  &start,
		formEnd:    &end,
		formDesc:   &desc,
	}
}

func (r *reportsModel) setSize(w, h int) {
	r.width = w
	r.height = h
}

type reportsDataMsg struct {
	groups []report.DayGroup
}

func (r reportsModel) refresh() tea.Cmd {
	return func() tea.Msg {
		records, _ := r.store.ListReports(localScope)
		records = report.Filter(records, r.dateQuery, r.courseQuery)
		return reportsDataMsg{groups: report.GroupByDate(records)}
	}
}

func (r reportsModel) recordCount() int {
	n := 0
	for _, g := range r.groups {
		n += len(g.Records)
	}
	return n
}

// recordAt returns the record at a flat display index.
func (r reportsModel) recordAt(idx int) *store.Report {
	for _, g := range r.groups {
		if idx < len(g.Records) {
			return &g.Records[idx]
		}
		idx -= len(g.Records)
	}
	return nil
}

func (r reportsModel) update(msg tea.Msg) (reportsModel, tea.Cmd) {
	if r.formActive && r.form != nil {
		return r.updateForm(msg)
	}

	switch msg := msg.(type) {
	case reportsDataMsg:
		r.groups = msg.groups
		r.buildChart()
		if n := r.recordCount(); r.cursor >= n {
			r.cursor = max(0, n-1)
		}
		return r, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Up):
			if r.cursor > 0 {
				r.cursor--
			}
		case key.Matches(msg, keys.Down):
			if r.cursor < r.recordCount()-1 {
				r.cursor++
			}
		case key.Matches(msg, keys.New):
			return r.showRecordForm(nil)
		case key.Matches(msg, keys.Enter):
			if rec := r.recordAt(r.cursor); rec != nil {
				return r.showRecordForm(rec)
			}
		case key.Matches(msg, keys.Delete):
			if rec := r.recordAt(r.cursor); rec != nil {
				if err := r.store.DeleteReport(rec.ID); err != nil {
					return r, func() tea.Msg {
						return statusMsg{text: fmt.Sprintf("Delete error: %v", err), isError: true}
					}
				}
				return r, r.refresh()
			}
		case key.Matches(msg, keys.Search):
			return r.showSearchForm()
		case key.Matches(msg, keys.Back):
			if r.dateQuery != "" || r.courseQuery != "" {
				r.dateQuery = ""
				r.courseQuery = ""
				return r, r.refresh()
			}
		}
	}
	return r, nil
}

func (r reportsModel) showRecordForm(rec *store.Report) (reportsModel, tea.Cmd) {
	if rec != nil {
		*r.formDate = rec.Date
		*r.formCourse = rec.CourseName
		*r.formStart = rec.StartTime
		*r.formEnd = rec.EndTime
		*r.formDesc = rec.Description
		r.editingID = rec.ID
	} else {
		*r.formDate = jalali.Today()
		*r.formCourse = ""
		*r.formStart = ""
		*r.formEnd = ""
		*r.formDesc = ""
		r.editingID = ""
	}
	r.formType = "record"

	r.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Date (YYYY/MM/DD)").Value(r.formDate).
				Validate(func(s string) error {
					_, _, _, err := jalali.Parse(s)
					return err
				}),
			huh.NewInput().Title("Course").Value(r.formCourse),
			huh.NewInput().Title("Start (HH:MM)").Value(r.formStart).
				Validate(func(s string) error {
					_, err := report.NormalizeTime(s)
					return err
				}),
			huh.NewInput().Title("End (HH:MM)").Value(r.formEnd).
				Validate(func(s string) error {
					_, err := report.NormalizeTime(s)
					return err
				}),
			huh.NewInput().Title("Description").Value(r.formDesc),
		),
	).WithShowHelp(true).WithShowErrors(true)

	r.formActive = true
	return r, r.form.Init()
}

func (r reportsModel) showSearchForm() (reportsModel, tea.Cmd) {
	*r.formDate = r.dateQuery
	*r.formCourse = r.courseQuery
	r.formType = "search"

	r.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Date filter").Value(r.formDate),
			huh.NewInput().Title("Course filter").Value(r.formCourse),
		),
	).WithShowHelp(true).WithShowErrors(true)

	r.formActive = true
	return r, r.form.Init()
}

func (r reportsModel) updateForm(msg tea.Msg) (reportsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			r.formActive = false
			r.form = nil
			return r, nil
		}
	}

	form, cmd := r.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		r.form = f
	}

	if r.form.State == huh.StateCompleted {
		r.formActive = false
		switch r.formType {
		case "record":
			return r.saveRecord()
		case "search":
			r.dateQuery = *r.formDate
			r.courseQuery = *r.formCourse
			return r, r.refresh()
		}
	}

	return r, cmd
}

func (r reportsModel) saveRecord() (reportsModel, tea.Cmd) {
	if strings.TrimSpace(*r.formCourse) == "" {
		return r, func() tea.Msg {
			return statusMsg{text: "Course name is required", isError: true}
		}
	}

	start, err := report.NormalizeTime(*r.formStart)
	if err != nil {
		return r, func() tea.Msg {
			return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
		}
	}
	end, err := report.NormalizeTime(*r.formEnd)
	if err != nil {
		return r, func() tea.Msg {
			return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
		}
	}

	rec := &store.Report{
		ID:          r.editingID,
		OwnerScope:  localScope,
		Date:        *r.formDate,
		CourseName:  strings.TrimSpace(*r.formCourse),
		StartTime:   start,
		EndTime:     end,
		Description: strings.TrimSpace(*r.formDesc),
	}

	if _, err := r.store.UpsertReport(rec); err != nil {
		return r, func() tea.Msg {
			return statusMsg{text: fmt.Sprintf("Save error: %v", err), isError: true}
		}
	}
	return r, r.refresh()
}

// buildChart renders the last seven days as one bar per Jalali day,
// study time in hours.
func (r *reportsModel) buildChart() {
	chartWidth := r.width - 8
	if chartWidth < 20 {
		chartWidth = 20
	}
	chartHeight := 10
	if r.height > 34 {
		chartHeight = 14
	}

	r.chart = barchart.New(chartWidth, chartHeight)

	minutesByDate := make(map[string]int)
	for _, g := range r.groups {
		minutesByDate[g.Date] = g.TotalMinutes
	}

	// Oldest day first so the bars read left to right.
	var dates []string
	date := jalali.Today()
	for i := 0; i < 7; i++ {
		dates = append([]string{date}, dates...)
		next, err := jalali.AddDays(date, -1)
		if err != nil {
			break
		}
		date = next
	}

	var bars []barchart.BarData
	for _, d := range dates {
		hours := float64(minutesByDate[d]) / 60.0
		style := lipgloss.NewStyle().Foreground(colorPrimary)
		if hours == 0 {
			style = lipgloss.NewStyle().Foreground(colorSubtle)
		}
		// Label by month/day only, the year column is too wide.
		label := d
		if len(d) == 10 {
			label = d[5:]
		}
		bars = append(bars, barchart.BarData{
			Label:  label,
			Values: []barchart.BarValue{{Name: d, Value: hours, Style: style}},
		})
	}

	r.chart.PushAll(bars)
	r.chart.Draw()
}

func (r reportsModel) view() string {
	w := r.width - 4

	if r.formActive && r.form != nil {
		title := titleStyle.Render("New Report")
		if r.formType == "search" {
			title = titleStyle.Render("Search")
		} else if r.editingID != "" {
			title = titleStyle.Render("Edit Report")
		}
		content := lipgloss.JoinVertical(lipgloss.Left, title, "", r.form.View())
		return panelStyle.Width(w).Render(content)
	}

	header := titleStyle.Render("Study Reports")
	if r.dateQuery != "" || r.courseQuery != "" {
		header += mutedStyle.Render(fmt.Sprintf("  filter: %s %s", r.dateQuery, r.courseQuery))
	}

	chartView := r.chart.View()
	listView := r.renderGroups(w)
	nav := mutedStyle.Render("  n: new  enter: edit  d: delete  /: search  esc: clear filter")

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left, header, "", chartView, "", listView, "", nav),
	)
}

func (r reportsModel) renderGroups(w int) string {
	if len(r.groups) == 0 {
		return mutedStyle.Render("  No reports yet. Press n to log a study session.")
	}

	var rows []string
	idx := 0
	for _, g := range r.groups {
		dayHeader := highlightStyle.Render(fmt.Sprintf("%s %s", g.Date, g.DayName)) +
			mutedStyle.Render(fmt.Sprintf("  (%s)", g.TotalDuration()))
		rows = append(rows, dayHeader)

		for _, rec := range g.Records {
			cursor := "  "
			style := normalItemStyle
			if idx == r.cursor {
				cursor = "> "
				style = selectedItemStyle
			}
			dur := ""
			if mins, err := report.ComputeDuration(rec.StartTime, rec.EndTime); err == nil {
				dur = report.FormatDuration(mins)
			}
			line := fmt.Sprintf("%s%s-%s  %-20s %s", cursor, rec.StartTime, rec.EndTime, rec.CourseName, dur)
			if rec.Description != "" {
				line += mutedStyle.Render("  " + rec.Description)
			}
			rows = append(rows, style.Render(line))
			idx++
		}
	}

	return strings.Join(rows, "\n")
}
