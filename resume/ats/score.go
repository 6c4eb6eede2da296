package ats

import (
	"math"
	"strings"

	"resume-engine/resume/keywords"
)

// MaxKeywords bounds how many job keywords take part in the score.
const MaxKeywords = 50

// Score returns the share of job keywords found in the resume, scaled to 0..100.
func Score(jobText, resumeText string) int {
	if strings.TrimSpace(jobText) == "" || strings.TrimSpace(resumeText) == "" {
		return 0
	}
	kws := keywords.Extract(jobText, MaxKeywords)
	if len(kws) == 0 {
		return 0
	}
	lower := strings.ToLower(resumeText)
	hits := 0
	for _, kw := range kws {
		if strings.Contains(lower, kw) {
			hits++
		}
	}
	score := int(math.Round(float64(hits) / float64(len(kws)) * 100))
	return min(max(score, 0), 100)
}

// Missing returns the job keywords absent from the resume, in job order.
func Missing(jobText, resumeText string) []string {
	lower := strings.ToLower(resumeText)
	var out []string
	for _, kw := range keywords.Extract(jobText, MaxKeywords) {
		if !strings.Contains(lower, kw) {
			out = append(out, kw)
		}
	}
	return out
}
