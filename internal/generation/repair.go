package generation

import (
	"fmt"
	"strings"

	"resume-engine/resume/assemble"
	"resume-engine/resume/bullets"
	"resume-engine/resume/validate"
)

// repairInstructions restates the numeric constraints the first response missed.
func repairInstructions(report validate.Report, targets []assemble.RoleTarget) string {
	var b strings.Builder
	b.WriteString("Your previous answer did not meet the required counts. Fix these problems:\n")
	for _, e := range report.Errors {
		b.WriteString("- " + e + "\n")
	}
	b.WriteString("\nHard limits:\n")
	fmt.Fprintf(&b, "- summary: %d to %d words.\n", validate.MinSummaryWords, validate.MaxSummaryWords)
	fmt.Fprintf(&b, "- every bullet: one sentence of %d to %d words.\n", bullets.MinWords, bullets.MaxWords)
	for _, t := range targets {
		key := strings.TrimSpace(t.Experience.Title) + " || " + strings.TrimSpace(t.Experience.Company)
		if t.Min == t.Max {
			fmt.Fprintf(&b, "- %q: exactly %d bullets.\n", key, t.Min)
		} else {
			fmt.Fprintf(&b, "- %q: %d to %d bullets.\n", key, t.Min, t.Max)
		}
	}
	b.WriteString("Return the complete JSON object again with the same keys.")
	return b.String()
}
