package export

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/rampup-app/rampup/internal/report"
)

type jsonExport struct {
	ExportedAt string       `json:"exported_at"`
	Count      int          `json:"count"`
	Reports    []jsonReport `json:"reports"`
}

type jsonReport struct {
	ID          string `json:"id"`
	Date        string `json:"date"`
	DayName     string `json:"day_name,omitempty"`
	Course      string `json:"course"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	Minutes     *int   `json:"minutes,omitempty"`
	Duration    string `json:"duration"`
	Description string `json:"description,omitempty"`
}

func ToJSON(groups []report.DayGroup, path string) error {
	export := jsonExport{
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
	}

	for _, g := range groups {
		for _, r := range g.Records {
			// Unparseable times stay visible: omitted minutes and a "?"
			// duration, never a fake zero.
			var minsPtr *int
			dur := "?"
			if mins, err := report.ComputeDuration(r.StartTime, r.EndTime); err == nil {
				minsPtr = &mins
				dur = report.FormatDuration(mins)
			}
			export.Reports = append(export.Reports, jsonReport{
				ID:          r.ID,
				Date:        r.Date,
				DayName:     g.DayName,
				Course:      r.CourseName,
				StartTime:   r.StartTime,
				EndTime:     r.EndTime,
				Minutes:     minsPtr,
				Duration:    dur,
				Description: r.Description,
			})
		}
	}
	export.Count = len(export.Reports)

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return nil
}
