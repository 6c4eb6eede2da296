package model

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
)

// JobStatus mirrors the posting lifecycle owned by the surrounding application.
type JobStatus string

const (
	JobOpen   JobStatus = "OPEN"
	JobClosed JobStatus = "CLOSED"
	JobDraft  JobStatus = "DRAFT"
)

// JobPosting is the read-only job snapshot the engine tailors against.
type JobPosting struct {
	ID          string    `json:"id" validate:"required"`
	Title       string    `json:"title" validate:"required"`
	Company     string    `json:"company"`
	Location    string    `json:"location"`
	Description string    `json:"description" validate:"required"`
	Status      JobStatus `json:"status,omitempty"`
}

// IsOpen reports whether generation is allowed for the posting. An empty status is
// treated as open so callers that do not track posting state are not blocked.
func (j JobPosting) IsOpen() bool {
	return j.Status == "" || j.Status == JobOpen
}

// ConsultantProfile is the read-only consultant snapshot.
type ConsultantProfile struct {
	ID             string          `json:"id" validate:"required"`
	Name           string          `json:"name" validate:"required"`
	Email          string          `json:"email"`
	Phone          string          `json:"phone"`
	Location       string          `json:"location"`
	Bio            string          `json:"bio"`
	Skills         []string        `json:"skills"`
	Experience     []Experience    `json:"experience" validate:"dive"`
	Education      []Education     `json:"education" validate:"dive"`
	Certifications []Certification `json:"certifications" validate:"dive"`
}

// Experience is one employment entry. Dates are YYYY-MM.
type Experience struct {
	Title       string `json:"title" validate:"required"`
	Company     string `json:"company" validate:"required"`
	Start       string `json:"start" validate:"required"`
	End         string `json:"end,omitempty"`
	IsCurrent   bool   `json:"isCurrent,omitempty"`
	Description string `json:"description,omitempty"`
}

// Education is one degree entry.
type Education struct {
	Degree      string `json:"degree" validate:"required"`
	Field       string `json:"field,omitempty"`
	Institution string `json:"institution" validate:"required"`
	Start       string `json:"start,omitempty"`
	End         string `json:"end,omitempty"`
}

// Certification is one certification entry.
type Certification struct {
	Name   string `json:"name" validate:"required"`
	Issuer string `json:"issuer,omitempty"`
	Date   string `json:"date,omitempty"`
}

// Validate enforces date formatting across the profile.
func (p ConsultantProfile) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return errors.New("name is required")
	}
	for i, exp := range p.Experience {
		if err := validateDateField(exp.Start, fmt.Sprintf("experience[%d].start", i)); err != nil {
			return err
		}
		if err := validateDateField(exp.End, fmt.Sprintf("experience[%d].end", i)); err != nil {
			return err
		}
		if exp.Start == "" {
			return fmt.Errorf("experience[%d].start is required", i)
		}
	}
	for i, edu := range p.Education {
		if err := validateDateField(edu.Start, fmt.Sprintf("education[%d].start", i)); err != nil {
			return err
		}
		if err := validateDateField(edu.End, fmt.Sprintf("education[%d].end", i)); err != nil {
			return err
		}
	}
	for i, cert := range p.Certifications {
		if err := validateDateField(cert.Date, fmt.Sprintf("certifications[%d].date", i)); err != nil {
			return err
		}
	}
	return nil
}

// Key returns the normalized "title||company" identity used by BulletsMap.
func (e Experience) Key() string {
	return RoleKey(e.Title, e.Company)
}

// RoleKey normalizes a title/company pair.
func RoleKey(title, company string) string {
	return collapse(strings.ToLower(title)) + "||" + collapse(strings.ToLower(company))
}

// StartTime parses the start month.
func (e Experience) StartTime() (time.Time, bool) {
	return ParseMonth(e.Start)
}

// Current reports whether the role is ongoing, either flagged or ended "Present".
func (e Experience) Current() bool {
	return e.IsCurrent || strings.EqualFold(strings.TrimSpace(e.End), "present")
}

// EndTime parses the end month. Current roles and missing end dates report false.
func (e Experience) EndTime() (time.Time, bool) {
	if e.Current() {
		return time.Time{}, false
	}
	return ParseMonth(e.End)
}

var resumeDatePattern = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)

// ParseMonth parses YYYY-MM (a trailing -DD is tolerated).
func ParseMonth(value string) (time.Time, bool) {
	v := strings.TrimSpace(value)
	if len(v) == len("2006-01-02") {
		v = v[:7]
	}
	if !resumeDatePattern.MatchString(v) {
		return time.Time{}, false
	}
	t, err := time.Parse("2006-01", v)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func validateDateField(value, field string) error {
	if value == "" || strings.EqualFold(value, "present") {
		return nil
	}
	if _, ok := ParseMonth(value); !ok {
		return fmt.Errorf("%s must be YYYY-MM or Present", field)
	}
	return nil
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
