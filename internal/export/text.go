package export

import (
	"fmt"
	"os"
	"strings"

	"github.com/rampup-app/rampup/internal/report"
)

// ToText writes the shareable plain-text report, one block per day.
func ToText(groups []report.DayGroup, path string) error {
	var blocks []string
	for _, g := range groups {
		blocks = append(blocks, report.FormatText(g))
	}

	data := strings.Join(blocks, "\n\n")
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		return fmt.Errorf("write text file: %w", err)
	}
	return nil
}
