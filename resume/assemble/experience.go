package assemble

import (
	"fmt"
	"regexp"
	"strings"

	"resume-engine/resume/bullets"
	"resume-engine/resume/keywords"
	"resume-engine/resume/metrics"
)

var descriptionSplit = regexp.MustCompile(`(?:\r?\n)+|[.!?]\s+`)

// templates are grounded fallbacks: %[1]s and %[2]s are job terms the consultant can
// claim, %[3]s is the role's company.
var templates = []string{
	"Built and maintained %[1]s workflows for %[3]s, standardizing environment setup so engineering teams could ship changes with fewer manual steps.",
	"Designed %[1]s and %[2]s improvements at %[3]s, documenting each change so operations staff could support releases without escalation.",
	"Automated recurring %[1]s tasks for %[3]s, replacing hand-run scripts with reviewed, version-controlled jobs that teams could audit and reuse.",
	"Collaborated with product and engineering leads at %[3]s to plan %[1]s work, breaking initiatives into deliverable milestones with clear owners.",
	"Troubleshot production issues involving %[1]s and %[2]s at %[3]s, writing postmortems and follow-up fixes that reduced repeat incidents.",
	"Reviewed %[1]s code and configuration changes for %[3]s, enforcing shared conventions that kept services consistent across delivery teams.",
	"Migrated legacy workloads at %[3]s onto %[1]s, coordinating cutover plans with application owners to keep customer-facing services available.",
	"Mentored teammates at %[3]s on %[1]s and %[2]s practices, pairing on real tickets and publishing internal guides for onboarding.",
	"Implemented monitoring for %[1]s services at %[3]s, defining alerts and dashboards that gave on-call engineers faster visibility into failures.",
	"Streamlined %[1]s release processes for %[3]s, consolidating duplicated pipeline steps and clarifying approvals for each deployment stage.",
	"Secured %[1]s environments at %[3]s by tightening access policies, rotating credentials, and documenting controls for internal audit reviews.",
	"Partnered with stakeholders at %[3]s to evaluate %[1]s and %[2]s options, presenting tradeoffs that informed the final platform roadmap.",
}

type roleInput struct {
	target     RoleTarget
	index      int
	raw        []string
	jobText    string
	claimables []string
	title      string
	seen       map[string]struct{}
}

// buildRole produces the finished bullet list for one role inside its {min,max} window.
// Candidates are drawn from the model's bullets, then the role description, then the
// grounded templates, and every candidate goes through the same pipeline. Templates need
// at least one claimable term. When the role is still short, bullets below the word
// window are kept so the validator reports them.
func buildRole(in roleInput) []string {
	kws := rotate(in.claimables, in.index*2)
	norm := bullets.Normalizer{Context: bullets.Context{
		Keywords: kws,
		Company:  in.target.Experience.Company,
		Title:    in.title,
	}}
	limit := metrics.Cap(in.index, in.jobText)

	pool := append([]string(nil), in.raw...)
	out, short := finish(norm, pool, in, kws, limit)
	if len(out) < in.target.Min {
		pool = append(pool, descriptionSentences(in.target.Experience.Description)...)
		out, short = finish(norm, pool, in, kws, limit)
	}
	for i := 0; len(kws) > 0 && len(out) < in.target.Min && i < len(templates); i++ {
		pool = append(pool, template(in.index+i, kws, in.target.Experience.Company))
		out, short = finish(norm, pool, in, kws, limit)
	}
	for _, b := range short {
		if len(out) >= in.target.Min {
			break
		}
		out = append(out, b)
	}
	if len(out) > in.target.Max {
		out = out[:in.target.Max]
	}
	for _, b := range out {
		in.seen[bullets.Key(b)] = struct{}{}
	}
	return out
}

// finish runs Normalize, metric policy, keyword alignment and a second Normalize, then
// splits the result into bullets inside the word window and bullets below it. Anything
// already used by an earlier role is dropped.
func finish(norm bullets.Normalizer, pool []string, in roleInput, kws []string, limit int) (fit, short []string) {
	first := make([]string, 0, len(pool))
	for _, raw := range pool {
		if b := norm.Normalize(raw); b != "" {
			first = append(first, b)
		}
	}
	applied := metrics.Apply(first, in.jobText, in.claimables, limit)
	for _, b := range applied {
		b = norm.Normalize(align(b, kws))
		if b == "" {
			continue
		}
		if _, used := in.seen[bullets.Key(b)]; used {
			continue
		}
		switch n := bullets.WordCount(b); {
		case n > bullets.MaxWords:
		case n < bullets.MinWords:
			short = append(short, b)
		default:
			fit = append(fit, b)
		}
	}
	fit = bullets.Dedupe(fit)
	taken := make(map[string]struct{}, len(fit))
	for _, b := range fit {
		taken[bullets.Key(b)] = struct{}{}
	}
	var rest []string
	for _, b := range bullets.Dedupe(short) {
		if _, ok := taken[bullets.Key(b)]; !ok {
			rest = append(rest, b)
		}
	}
	return fit, rest
}

// align weaves one claimable job term into a bullet that mentions none.
func align(b string, kws []string) string {
	if len(kws) == 0 || b == "" {
		return b
	}
	for _, kw := range kws {
		if keywords.Contains(b, kw) {
			return b
		}
	}
	body := strings.TrimSuffix(b, ".")
	for _, kw := range kws {
		clause := " using " + kw
		if bullets.WordCount(body)+bullets.WordCount(clause) <= bullets.MaxWords {
			return body + clause + "."
		}
	}
	return b
}

func descriptionSentences(desc string) []string {
	var out []string
	for _, part := range descriptionSplit.Split(desc, -1) {
		part = bullets.StripMarker(part)
		if bullets.WordCount(part) < 5 {
			continue
		}
		out = append(out, part)
	}
	return out
}

// template fills template i with claimable terms. It returns "" when the template needs
// more terms than kws holds.
func template(i int, kws []string, company string) string {
	tpl := templates[i%len(templates)]
	if len(kws) == 0 || (len(kws) < 2 && strings.Contains(tpl, "%[2]s")) {
		return ""
	}
	b := ""
	if len(kws) >= 2 {
		b = kws[1]
	}
	company = strings.TrimSpace(company)
	if company == "" {
		company = "the organization"
	}
	return fmt.Sprintf(tpl, kws[0], b, company)
}

func rotate(items []string, by int) []string {
	if len(items) == 0 {
		return nil
	}
	by %= len(items)
	out := make([]string, 0, len(items))
	out = append(out, items[by:]...)
	return append(out, items[:by]...)
}
