package mocktest

import (
	"fmt"
	"strings"
	"time"

	"github.com/emandor/mocktest_service/internal/model"
)

const timestampLayout = "02/01/2006, 15:04:05"

// FormatText renders the plain-text document used by both copy and download.
func FormatText(t model.GeneratedTest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "PSIR Mains Mock Test - %s\n", t.PaperLabel)
	fmt.Fprintf(&b, "Generated on: %s\n\n", t.GeneratedAt.Format(timestampLayout))
	for i, q := range t.Questions {
		if i > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "%d. %s", i+1, q)
	}
	return b.String()
}

// FileName is the download name for t on the given day.
func FileName(t model.GeneratedTest, day time.Time) string {
	return fmt.Sprintf("PSIR_Mock_Test_%s_%s.txt", t.PaperCode, day.Format(time.DateOnly))
}
