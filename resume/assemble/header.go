package assemble

import (
	"regexp"
	"strings"

	"resume-engine/resume/model"
)

var cityStatePattern = regexp.MustCompile(`([A-Z][A-Za-z.'-]*(?:\s+[A-Z][A-Za-z.'-]*)*),\s*([A-Z]{2})\b`)

var usStates = map[string]struct{}{
	"AL": {}, "AK": {}, "AZ": {}, "AR": {}, "CA": {}, "CO": {}, "CT": {}, "DE": {}, "FL": {},
	"GA": {}, "HI": {}, "ID": {}, "IL": {}, "IN": {}, "IA": {}, "KS": {}, "KY": {}, "LA": {},
	"ME": {}, "MD": {}, "MA": {}, "MI": {}, "MN": {}, "MS": {}, "MO": {}, "MT": {}, "NE": {},
	"NV": {}, "NH": {}, "NJ": {}, "NM": {}, "NY": {}, "NC": {}, "ND": {}, "OH": {}, "OK": {},
	"OR": {}, "PA": {}, "RI": {}, "SC": {}, "SD": {}, "TN": {}, "TX": {}, "UT": {}, "VT": {},
	"VA": {}, "WA": {}, "WV": {}, "WI": {}, "WY": {}, "DC": {},
}

// ReduceLocation returns "City, ST" when loc names a US state abbreviation, else loc.
func ReduceLocation(loc string) string {
	loc = strings.TrimSpace(loc)
	for _, m := range cityStatePattern.FindAllStringSubmatch(loc, -1) {
		if _, ok := usStates[m[2]]; ok {
			return m[1] + ", " + m[2]
		}
	}
	return loc
}

// ContactLine renders "location | email | phone", skipping empty fields. The job's
// location is used when set; otherwise the consultant's own location.
func ContactLine(p model.ConsultantProfile, jobLocation string) string {
	loc := strings.TrimSpace(jobLocation)
	if loc == "" {
		loc = strings.TrimSpace(p.Location)
	}
	var fields []string
	for _, f := range []string{ReduceLocation(loc), p.Email, p.Phone} {
		if f = strings.TrimSpace(f); f != "" {
			fields = append(fields, f)
		}
	}
	return strings.Join(fields, " | ")
}

var seniorityWords = map[string]struct{}{
	"senior": {}, "sr": {}, "sr.": {}, "lead": {}, "principal": {}, "staff": {},
	"junior": {}, "jr": {}, "jr.": {}, "chief": {}, "mid-level": {}, "entry-level": {},
}

var postingWords = map[string]struct{}{
	"remote": {}, "hybrid": {}, "onsite": {}, "on-site": {}, "contract": {}, "contractor": {},
	"full-time": {}, "part-time": {}, "temporary": {}, "temp": {}, "freelance": {},
	"w2": {}, "1099": {}, "c2c": {},
}

var (
	bracketPattern  = regexp.MustCompile(`\([^)]*\)|\[[^\]]*\]`)
	titleSeparators  = []string{" - ", " – ", " | ", ", "}
)

// NormalizeTitle reduces a posting title to the role name. It drops bracketed
// qualifiers, anything after a separator, and seniority and work-arrangement words
// ("Senior DevOps Engineer (Remote)" -> "DevOps Engineer").
func NormalizeTitle(title string) string {
	base := bracketPattern.ReplaceAllString(title, " ")
	for _, sep := range titleSeparators {
		if i := strings.Index(base, sep); i > 0 {
			base = base[:i]
		}
	}
	var kept []string
	for _, w := range strings.Fields(base) {
		key := strings.ToLower(strings.Trim(w, ",()[]/"))
		if _, ok := seniorityWords[key]; ok {
			continue
		}
		if _, ok := postingWords[key]; ok {
			continue
		}
		kept = append(kept, w)
	}
	out := strings.Trim(strings.Join(kept, " "), " ,-–|/")
	if out == "" {
		return strings.TrimSpace(title)
	}
	return out
}
