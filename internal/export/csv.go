package export

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/rampup-app/rampup/internal/report"
	"github.com/rampup-app/rampup/internal/store"
)

func ToCSV(reports []store.Report, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	// Header
	if err := w.Write([]string{"ID", "Date", "Course", "Start", "End", "Duration", "Description"}); err != nil {
		return err
	}

	for _, r := range reports {
		dur := ""
		if mins, err := report.ComputeDuration(r.StartTime, r.EndTime); err == nil {
			dur = report.FormatDuration(mins)
		}
		row := []string{
			r.ID,
			r.Date,
			r.CourseName,
			r.StartTime,
			r.EndTime,
			dur,
			r.Description,
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return w.Error()
}
