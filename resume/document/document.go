package document

import (
	"regexp"
	"strings"
	"unicode"

	"resume-engine/resume/bullets"
)

// Canonical section headings, in required order.
const (
	HeadingSummary        = "Professional Summary"
	HeadingSkills         = "Skills"
	HeadingExperience     = "Professional Experience"
	HeadingEducation      = "Education"
	HeadingCertifications = "Certifications"
)

// RequiredHeadings lists the headings every resume must carry, in order.
var RequiredHeadings = []string{HeadingSummary, HeadingSkills, HeadingExperience, HeadingEducation}

var knownHeadings = []string{HeadingSummary, HeadingSkills, HeadingExperience, HeadingEducation, HeadingCertifications}

// Kind classifies a line.
type Kind int

const (
	Blank Kind = iota
	Name
	Contact
	Heading
	RoleHeader
	RoleDetail
	Bullet
	Paragraph
)

func (k Kind) String() string {
	switch k {
	case Blank:
		return "blank"
	case Name:
		return "name"
	case Contact:
		return "contact"
	case Heading:
		return "heading"
	case RoleHeader:
		return "role-header"
	case RoleDetail:
		return "role-detail"
	case Bullet:
		return "bullet"
	default:
		return "paragraph"
	}
}

// Line is one typed record of the document.
type Line struct {
	Index int
	Kind  Kind
	// Text is the trimmed source line.
	Text string
	// Body is Text without list markers for bullets, and the canonical name for headings.
	Body string
	// Section is the canonical heading the line sits under ("" before the first heading).
	Section string
	// Offset is the byte offset of the line within the source content.
	Offset int
}

// Role groups a detected role header with the bullets that follow it.
type Role struct {
	Header  Line
	Bullets []Line
}

// Document is the parsed line IR of a resume body.
type Document struct {
	Lines []Line
}

var (
	rolePattern = regexp.MustCompile(`^(.+?)\s+\|\s+(.+?)\s+\|\s+(.*(?:\d{4}|[Pp]resent).*)$`)
	yearPattern = regexp.MustCompile(`\b\d{4}\b`)
)

// Parse classifies every line of content. Role header detection applies only inside the
// Professional Experience section.
func Parse(content string) Document {
	raw := strings.Split(strings.ReplaceAll(content, "\r\n", "\n"), "\n")
	lines := make([]Line, 0, len(raw))
	section := ""
	seenName := false
	prevBlank := true
	offset := 0
	for i, r := range raw {
		text := strings.TrimSpace(r)
		line := Line{Index: i, Text: text, Body: text, Section: section, Offset: offset}
		offset += len(r) + 1
		known := knownHeading(text)
		switch {
		case text == "":
			line.Kind = Blank
		case known != "":
			line.Kind = Heading
			line.Body = known
			section = known
			line.Section = section
		case isBulletText(text):
			line.Kind = Bullet
			line.Body = bullets.StripMarker(text)
		case section == "" && !seenName:
			line.Kind = Name
			seenName = true
		case section == "" && (strings.Contains(text, "|") || strings.Contains(text, "@")):
			line.Kind = Contact
		case prevBlank && isUpperHeading(headingText(text)) && !(section == HeadingExperience && nextHasYear(raw, i)):
			line.Kind = Heading
			line.Body = headingText(text)
			section = line.Body
			line.Section = section
		case section == HeadingExperience && rolePattern.MatchString(text):
			line.Kind = RoleHeader
		default:
			line.Kind = Paragraph
		}
		prevBlank = line.Kind == Blank
		lines = append(lines, line)
	}
	markFallbackRoles(lines)
	return Document{Lines: lines}
}

// nextHasYear reports whether the line after i carries a four-digit year, which marks
// an uppercase company line in a two-line role header.
func nextHasYear(raw []string, i int) bool {
	return i+1 < len(raw) && yearPattern.MatchString(raw[i+1])
}

// markFallbackRoles promotes a plain experience line followed by a dated line to a role.
func markFallbackRoles(lines []Line) {
	for i := 0; i+1 < len(lines); i++ {
		cur, next := lines[i], lines[i+1]
		if cur.Section != HeadingExperience || cur.Kind != Paragraph {
			continue
		}
		if next.Kind != Paragraph || next.Section != HeadingExperience || !yearPattern.MatchString(next.Text) {
			continue
		}
		lines[i].Kind = RoleHeader
		lines[i+1].Kind = RoleDetail
		i++
	}
}

func isBulletText(text string) bool {
	if strings.HasPrefix(text, "**") {
		return false
	}
	return strings.HasPrefix(text, "-") || strings.HasPrefix(text, "•") || strings.HasPrefix(text, "*")
}

// IsBulletText reports whether a trimmed line starts with a bullet marker.
func IsBulletText(text string) bool {
	return isBulletText(strings.TrimSpace(text))
}

// knownHeading returns the canonical name when text is one of the standard headings,
// matched case-insensitively with an optional markdown "#" prefix or trailing colon.
func knownHeading(text string) string {
	t := headingText(text)
	for _, h := range knownHeadings {
		if strings.EqualFold(t, h) {
			return h
		}
	}
	return ""
}

func headingText(text string) string {
	t := strings.TrimSpace(strings.TrimLeft(text, "#"))
	return strings.TrimSpace(strings.TrimSuffix(t, ":"))
}

// isUpperHeading accepts short all-caps lines without separators as ad-hoc headings.
// Callers only consult it for lines that follow a blank line.
func isUpperHeading(t string) bool {
	if t == "" || strings.ContainsAny(t, "|@:,.") || len(strings.Fields(t)) > 5 {
		return false
	}
	letters := 0
	for _, r := range t {
		if unicode.IsLetter(r) {
			if !unicode.IsUpper(r) {
				return false
			}
			letters++
		}
	}
	return letters >= 3
}

// Headings returns heading lines in document order.
func (d Document) Headings() []Line {
	var out []Line
	for _, l := range d.Lines {
		if l.Kind == Heading {
			out = append(out, l)
		}
	}
	return out
}

// HeadingLine returns the first heading line with the given canonical name.
func (d Document) HeadingLine(name string) (Line, bool) {
	for _, l := range d.Lines {
		if l.Kind == Heading && l.Body == name {
			return l, true
		}
	}
	return Line{}, false
}

// Section returns the non-heading lines under the first occurrence of the named heading.
func (d Document) Section(name string) []Line {
	start, ok := d.HeadingLine(name)
	if !ok {
		return nil
	}
	var out []Line
	for _, l := range d.Lines[start.Index+1:] {
		if l.Kind == Heading {
			break
		}
		out = append(out, l)
	}
	return out
}

// Roles groups the Professional Experience section into roles. Bullets that appear
// before the first role header are returned separately as orphans.
func (d Document) Roles() (roles []Role, orphans []Line) {
	for _, l := range d.Section(HeadingExperience) {
		switch l.Kind {
		case RoleHeader:
			roles = append(roles, Role{Header: l})
		case Bullet:
			if len(roles) == 0 {
				orphans = append(orphans, l)
				continue
			}
			roles[len(roles)-1].Bullets = append(roles[len(roles)-1].Bullets, l)
		}
	}
	return roles, orphans
}
