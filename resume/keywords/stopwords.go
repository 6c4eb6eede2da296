package keywords

func wordSet(groups ...[]string) map[string]struct{} {
	out := make(map[string]struct{})
	for _, g := range groups {
		for _, w := range g {
			out[w] = struct{}{}
		}
	}
	return out
}

var stopwords = wordSet(
	// English function words.
	[]string{
		"the", "and", "for", "with", "that", "this", "from", "are", "was", "were", "will",
		"you", "your", "our", "ours", "their", "they", "them", "his", "her", "she", "him",
		"its", "into", "onto", "over", "under", "about", "above", "below", "between", "than",
		"then", "there", "these", "those", "what", "which", "who", "whom", "whose", "when",
		"where", "why", "how", "all", "any", "both", "each", "few", "more", "most", "other",
		"some", "such", "nor", "not", "only", "own", "same", "too", "very", "can", "could",
		"should", "would", "may", "might", "must", "shall", "has", "have", "had", "having",
		"does", "did", "doing", "been", "being", "also", "but", "per", "via", "etc", "within",
		"across", "while", "including", "include", "includes", "able", "ability", "using",
		"use", "used", "well", "new", "one", "two", "three", "plus", "must", "just", "like",
		"who", "whether", "upon", "out", "off", "again", "further", "once", "here", "because",
		"through", "during", "before", "after", "until", "against", "among", "around", "without",
	},
	// Posting boilerplate.
	[]string{
		"job", "jobs", "role", "roles", "position", "positions", "candidate", "candidates",
		"team", "teams", "work", "working", "company", "opportunity", "opportunities",
		"looking", "seeking", "join", "ideal", "strong", "excellent", "great", "good",
		"experience", "experienced", "years", "year", "required", "requirements",
		"requirement", "preferred", "qualifications", "qualification", "responsibilities",
		"responsibility", "skills", "skill", "knowledge", "understanding", "familiarity",
		"proficiency", "proficient", "minimum", "plus", "bonus", "nice", "have", "apply",
		"applicants", "applicant", "description", "duties", "day", "days", "week", "weekly",
		"environment", "equal", "employer", "status", "disability", "veteran", "gender",
		"race", "religion", "orientation", "national", "origin", "age", "eoe", "etc",
		"responsible", "ensure", "help", "helping", "support", "supporting", "provide",
		"providing", "work", "wide", "range", "various", "multiple", "related", "relevant",
		"including", "degree", "bachelor", "bachelors", "master", "masters", "field",
		"senior", "junior", "lead", "principal", "staff", "level", "mid", "entry",
	},
	// Compensation and benefits.
	[]string{
		"salary", "salaries", "pay", "compensation", "benefits", "benefit", "bonus", "bonuses",
		"equity", "stock", "options", "401k", "pto", "vacation", "holidays", "holiday",
		"insurance", "medical", "dental", "vision", "health", "wellness", "hourly", "annual",
		"annually", "rate", "rates", "usd", "dollars", "hour", "hours", "fulltime", "full-time",
		"part-time", "contract", "contractor", "w2", "c2c", "1099", "relocation", "visa",
		"sponsorship", "remote", "hybrid", "onsite", "on-site", "office", "travel", "posted",
		"posting", "date", "deadline", "immediately", "asap", "start", "duration", "month",
		"months",
	},
	// Locations.
	[]string{
		"alabama", "alaska", "arizona", "arkansas", "california", "colorado", "connecticut",
		"delaware", "florida", "georgia", "hawaii", "idaho", "illinois", "indiana", "iowa",
		"kansas", "kentucky", "louisiana", "maine", "maryland", "massachusetts", "michigan",
		"minnesota", "mississippi", "missouri", "montana", "nebraska", "nevada", "hampshire",
		"jersey", "mexico", "york", "carolina", "dakota", "ohio", "oklahoma", "oregon",
		"pennsylvania", "rhode", "island", "tennessee", "texas", "utah", "vermont", "virginia",
		"washington", "wisconsin", "wyoming", "usa", "united", "states", "city", "new",
		"san", "francisco", "los", "angeles", "chicago", "boston", "seattle", "austin",
		"dallas", "houston", "denver", "atlanta", "miami", "phoenix", "portland", "diego",
		"jose", "philadelphia", "detroit", "charlotte", "nashville", "raleigh", "area",
		"location", "locations", "based", "local", "locally", "country", "region",
	},
)
