package assemble

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"resume-engine/resume/model"
)

// RoleTarget pairs an experience entry with its required bullet window.
type RoleTarget struct {
	Experience model.Experience `json:"experience"`
	Min        int              `json:"min"`
	Max        int              `json:"max"`
}

// Key returns the BulletsMap identity of the role.
func (t RoleTarget) Key() string {
	return t.Experience.Key()
}

// RoleTargets orders experiences most recent first by (is_current, end, start) and
// assigns the bullet windows: {7,10} for the first role and {6,6} for the rest.
func RoleTargets(experiences []model.Experience) []RoleTarget {
	ordered := make([]model.Experience, len(experiences))
	copy(ordered, experiences)
	sort.SliceStable(ordered, func(i, j int) bool {
		a, b := ordered[i], ordered[j]
		if a.Current() != b.Current() {
			return a.Current()
		}
		ae, _ := a.EndTime()
		be, _ := b.EndTime()
		if !ae.Equal(be) {
			return ae.After(be)
		}
		as, _ := a.StartTime()
		bs, _ := b.StartTime()
		return as.After(bs)
	})
	out := make([]RoleTarget, 0, len(ordered))
	for i, exp := range ordered {
		t := RoleTarget{Experience: exp, Min: 6, Max: 6}
		if i == 0 {
			t.Min, t.Max = 7, 10
		}
		out = append(out, t)
	}
	return out
}

// YearsOfExperience returns whole years from the earliest start to the latest end (or now
// when any role is current), and whether any role is current. The result is at least 1
// when any start date parses.
func YearsOfExperience(experiences []model.Experience, now time.Time) (int, bool) {
	var earliest, latest time.Time
	current := false
	for _, exp := range experiences {
		if start, ok := exp.StartTime(); ok && (earliest.IsZero() || start.Before(earliest)) {
			earliest = start
		}
		if exp.Current() {
			current = true
			continue
		}
		if end, ok := exp.EndTime(); ok && end.After(latest) {
			latest = end
		}
	}
	if earliest.IsZero() {
		return 0, current
	}
	if current || latest.IsZero() {
		latest = now
	}
	months := (latest.Year()-earliest.Year())*12 + int(latest.Month()-earliest.Month())
	years := months / 12
	if years < 1 {
		years = 1
	}
	return years, current
}

// FormatYears renders the years phrase used in the summary.
func FormatYears(years int, current bool) string {
	if current {
		return fmt.Sprintf("%d+ years", years)
	}
	return fmt.Sprintf("%d years", years)
}

// RoleHeader renders "Title | Company | Jan 2020 – Present".
func RoleHeader(exp model.Experience) string {
	start := formatMonth(exp.Start)
	end := "Present"
	if !exp.Current() {
		if e := strings.TrimSpace(exp.End); e != "" {
			end = formatMonth(e)
		}
	}
	return fmt.Sprintf("%s | %s | %s – %s", strings.TrimSpace(exp.Title), strings.TrimSpace(exp.Company), start, end)
}

func formatMonth(v string) string {
	if t, ok := model.ParseMonth(v); ok {
		return t.Format("Jan 2006")
	}
	return strings.TrimSpace(v)
}

// EducationLine renders "Degree [in Field] | Institution | EndYear|Present".
func EducationLine(edu model.Education) string {
	degree := strings.TrimSpace(edu.Degree)
	if field := strings.TrimSpace(edu.Field); field != "" {
		degree += " in " + field
	}
	end := "Present"
	if t, ok := model.ParseMonth(edu.End); ok {
		end = t.Format("2006")
	} else if e := strings.TrimSpace(edu.End); len(e) >= 4 && !strings.EqualFold(e, "present") {
		end = e[:4]
	}
	return fmt.Sprintf("%s | %s | %s", degree, strings.TrimSpace(edu.Institution), end)
}
