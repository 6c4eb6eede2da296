package assemble

import (
	"sort"
	"strings"

	"resume-engine/resume/keywords"
)

// SkillGroup is one "Category: item, item" row.
type SkillGroup struct {
	Category string   `json:"category"`
	Items    []string `json:"items"`
}

const coreCategory = "Core Skills"

var categoryOrder = []string{
	"Cloud Platforms",
	"Infrastructure as Code",
	"Containers & Orchestration",
	"Build & Release Automation",
	"Programming Languages",
	"Databases",
	"Data & Messaging",
	"Monitoring & Observability",
	"Operating Systems",
	"Security",
	"Frameworks",
	"Methodologies",
	coreCategory,
}

var taxonomy = map[string][]string{
	"Cloud Platforms":            {"aws", "amazon web services", "azure", "gcp", "google cloud", "oci", "digitalocean"},
	"Infrastructure as Code":     {"terraform", "cloudformation", "pulumi", "ansible", "chef", "puppet", "bicep", "cdk"},
	"Containers & Orchestration": {"docker", "kubernetes", "k8s", "helm", "openshift", "ecs", "eks", "aks", "gke", "nomad"},
	"Build & Release Automation": {"ci/cd", "jenkins", "github actions", "gitlab", "gitlab ci", "circleci", "argocd", "argo cd", "spinnaker", "bamboo", "teamcity", "git"},
	"Programming Languages":      {"python", "golang", "java", "javascript", "typescript", "bash", "powershell", "ruby", "c#", "c++", "rust", "scala", "kotlin", "sql", "groovy"},
	"Databases":                  {"postgresql", "postgres", "mysql", "mongodb", "redis", "dynamodb", "cassandra", "oracle", "sql server", "elasticsearch"},
	"Data & Messaging":           {"kafka", "rabbitmq", "sqs", "sns", "kinesis", "spark", "airflow", "snowflake", "databricks", "etl"},
	"Monitoring & Observability": {"prometheus", "grafana", "datadog", "splunk", "new relic", "cloudwatch", "elk", "opentelemetry", "pagerduty"},
	"Operating Systems":          {"linux", "unix", "windows server", "ubuntu", "rhel"},
	"Security":                   {"iam", "vault", "oauth", "sso", "soc 2", "devsecops", "owasp"},
	"Frameworks":                 {"react", "angular", "vue", "node.js", "django", "flask", "spring", "spring boot", ".net", "fastapi"},
	"Methodologies":              {"agile", "scrum", "kanban", "devops", "sre", "itil", "gitops"},
}

var termCategory = func() map[string]string {
	out := make(map[string]string)
	for cat, terms := range taxonomy {
		for _, t := range terms {
			out[t] = cat
		}
	}
	return out
}()

var genericCategories = func() map[string]struct{} {
	out := make(map[string]struct{}, len(categoryOrder))
	for _, c := range categoryOrder {
		out[strings.ToLower(c)] = struct{}{}
	}
	return out
}()

type located struct {
	pos  int
	term string
}

// JobTerms returns the taxonomy terms present in the job text, spelled as in the job
// text and ordered by first appearance.
func JobTerms(jobText string) []string {
	var hits []located
	for term := range termCategory {
		if idx := keywords.Index(jobText, term); idx >= 0 {
			hits = append(hits, located{pos: idx, term: jobText[idx : idx+len(term)]})
		}
	}
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].pos != hits[j].pos {
			return hits[i].pos < hits[j].pos
		}
		return len(hits[i].term) > len(hits[j].term)
	})
	var out []string
	seen := make(map[string]struct{})
	lastEnd := -1
	for _, h := range hits {
		if h.pos < lastEnd {
			continue
		}
		key := strings.ToLower(h.term)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, h.term)
		lastEnd = h.pos + len(h.term)
	}
	return out
}

// jobSurface resolves item to the job's own spelling, trying close lexical variants.
func jobSurface(jobText, item string) string {
	for _, v := range variants(item) {
		if s := keywords.Surface(jobText, v); s != "" {
			return s
		}
	}
	return ""
}

func variants(item string) []string {
	item = strings.TrimSpace(item)
	if item == "" {
		return nil
	}
	lower := strings.ToLower(item)
	out := []string{item}
	add := func(v string) {
		if v != "" && v != lower {
			out = append(out, v)
		}
	}
	if strings.HasSuffix(lower, "s") {
		add(strings.TrimSuffix(lower, "s"))
	} else {
		add(lower + "s")
	}
	if strings.HasSuffix(lower, ".js") {
		add(strings.TrimSuffix(lower, ".js"))
	} else {
		add(lower + ".js")
	}
	if strings.Contains(lower, " ") {
		add(strings.ReplaceAll(lower, " ", "-"))
	}
	if strings.Contains(lower, "-") {
		add(strings.ReplaceAll(lower, "-", " "))
	}
	return out
}

// BuildSkills constrains skill rows to terms that occur in the job text. Model-suggested
// groups are filtered first; when none survive, rows are derived from the job text and
// the consultant's own skills.
func BuildSkills(groups []SkillGroup, jobText string, profileSkills []string) []SkillGroup {
	seen := make(map[string]struct{})
	byCat := make(map[string][]string)
	var order []string
	add := func(cat, item string) {
		key := strings.ToLower(item)
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		if _, ok := byCat[cat]; !ok {
			order = append(order, cat)
		}
		byCat[cat] = append(byCat[cat], item)
	}

	for _, g := range groups {
		for _, item := range g.Items {
			surface := jobSurface(jobText, item)
			if surface == "" {
				continue
			}
			add(categoryFor(g.Category, surface, jobText), surface)
		}
	}

	if len(order) == 0 {
		for _, term := range JobTerms(jobText) {
			add(termCategory[strings.ToLower(term)], term)
		}
		for _, skill := range profileSkills {
			if surface := jobSurface(jobText, skill); surface != "" {
				add(categoryFor("", surface, jobText), surface)
			}
		}
		order = sortCategories(order)
	}

	out := make([]SkillGroup, 0, len(order))
	for _, cat := range order {
		out = append(out, SkillGroup{Category: cat, Items: byCat[cat]})
	}
	return out
}

// categoryFor keeps a suggested label only when it is a generic label or its words all
// occur in the job text; otherwise the taxonomy decides.
func categoryFor(suggested, item, jobText string) string {
	suggested = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(suggested), ":"))
	if suggested != "" {
		if _, ok := genericCategories[strings.ToLower(suggested)]; ok {
			return canonicalCategory(suggested)
		}
		if allWordsIn(suggested, jobText) {
			return suggested
		}
	}
	if cat, ok := termCategory[strings.ToLower(item)]; ok {
		return cat
	}
	return coreCategory
}

func canonicalCategory(label string) string {
	for _, c := range categoryOrder {
		if strings.EqualFold(c, label) {
			return c
		}
	}
	return label
}

func allWordsIn(label, jobText string) bool {
	words := keywords.Tokenize(label)
	if len(words) == 0 {
		return false
	}
	for _, w := range words {
		if len(w) < 3 {
			continue
		}
		if !keywords.Contains(jobText, w) {
			return false
		}
	}
	return true
}

func sortCategories(cats []string) []string {
	rank := make(map[string]int, len(categoryOrder))
	for i, c := range categoryOrder {
		rank[c] = i
	}
	out := append([]string(nil), cats...)
	sort.SliceStable(out, func(i, j int) bool {
		ri, okI := rank[out[i]]
		rj, okJ := rank[out[j]]
		if !okI {
			ri = len(categoryOrder)
		}
		if !okJ {
			rj = len(categoryOrder)
		}
		return ri < rj
	})
	return out
}

// SkillLines renders groups as "Category: item, item" rows.
func SkillLines(groups []SkillGroup) []string {
	out := make([]string, 0, len(groups))
	for _, g := range groups {
		if len(g.Items) == 0 {
			continue
		}
		out = append(out, g.Category+": "+strings.Join(g.Items, ", "))
	}
	return out
}
