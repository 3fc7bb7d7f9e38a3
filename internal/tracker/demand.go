package tracker

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	// DefaultDemandLimit is how many skills a demand report ranks.
	DefaultDemandLimit = 25
	maxMissing         = 10
)

var canonicalSkills = map[string]string{
	"js": "JavaScript", "javascript": "JavaScript", "ecmascript": "JavaScript", "es6": "JavaScript",
	"ts": "TypeScript", "typescript": "TypeScript",
	"react": "React", "reactjs": "React", "react.js": "React",
	"node.js": "Node.js", "nodejs": "Node.js", "node": "Node.js",
	"next.js": "Next.js", "nextjs": "Next.js", "next": "Next.js",
	"vue.js": "Vue.js", "vuejs": "Vue.js", "vue": "Vue.js",
	"angular.js": "Angular", "angularjs": "Angular", "angular": "Angular",
	"python": "Python", "py": "Python",
	"postgresql": "PostgreSQL", "postgres": "PostgreSQL", "psql": "PostgreSQL",
	"mongodb": "MongoDB", "mongo": "MongoDB",
	"kubernetes": "Kubernetes", "k8s": "Kubernetes",
	"aws": "AWS", "amazon web services": "AWS",
	"gcp": "GCP", "google cloud platform": "GCP",
	"ci/cd": "CI/CD", "continuous integration": "CI/CD", "continuous deployment": "CI/CD",
	"ml": "Machine Learning", "machine learning": "Machine Learning",
	"ai": "AI", "artificial intelligence": "AI",
	"nlp": "NLP", "natural language processing": "NLP",
	"docker": "Docker", "git": "Git", "graphql": "GraphQL",
	"rest api": "REST API", "restapi": "REST API", "rest": "REST API",
	"tailwind": "Tailwind CSS", "tailwind css": "Tailwind CSS",
	"css": "CSS", "html": "HTML", "sql": "SQL",
	"redux": "Redux", "prisma": "Prisma", "supabase": "Supabase",
}

// CanonicalSkill maps spelling variants of well-known skills to one display name.
// Unknown skills are capitalized: first letter upper, the rest lower.
func CanonicalSkill(skill string) string {
	key := strings.Join(strings.Fields(strings.ToLower(skill)), " ")
	if canonical, ok := canonicalSkills[key]; ok {
		return canonical
	}
	if key == "" {
		return ""
	}

	r, size := utf8.DecodeRuneInString(key)
	return string(unicode.ToUpper(r)) + key[size:]
}

// SkillDemand is how often one skill appears across analyzed job descriptions.
type SkillDemand struct {
	Skill   string `json:"skill"`
	Count   int    `json:"count"`
	Percent int    `json:"percent"`
	Have    bool   `json:"have"`
}

// DemandReport ranks the skills job descriptions ask for against the skills found in resumes.
type DemandReport struct {
	JobsAnalyzed int           `json:"jobsAnalyzed"`
	UniqueSkills int           `json:"uniqueSkills"`
	Coverage     int           `json:"coverage"`
	Covered      int           `json:"covered"`
	TopSkill     string        `json:"topSkill,omitempty"`
	Skills       []SkillDemand `json:"skills"`
	Missing      []SkillDemand `json:"missing"`
}

// Demand aggregates JD keywords over applications that carry an analysis result. A skill counts
// once per application. The top limit skills are ranked by count, ties by name.
func Demand(apps []*Application, limit int) DemandReport {
	if limit <= 0 {
		limit = DefaultDemandLimit
	}

	seen := make(map[string]map[string]struct{})
	order := make([]string, 0)
	have := make(map[string]struct{})
	total := 0

	for _, app := range apps {
		if app == nil || app.Result == nil {
			continue
		}
		total++

		for _, kw := range app.JDKeywords {
			canonical := CanonicalSkill(kw)
			if canonical == "" {
				continue
			}
			ids, ok := seen[canonical]
			if !ok {
				ids = make(map[string]struct{})
				seen[canonical] = ids
				order = append(order, canonical)
			}
			ids[app.ID] = struct{}{}
		}

		for _, kw := range app.CVKeywords {
			if canonical := CanonicalSkill(kw); canonical != "" {
				have[canonical] = struct{}{}
			}
		}
	}

	ranked := make([]SkillDemand, 0, len(order))
	for _, skill := range order {
		count := len(seen[skill])
		_, ok := have[skill]
		ranked = append(ranked, SkillDemand{
			Skill:   skill,
			Count:   count,
			Percent: percent(count, total),
			Have:    ok,
		})
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return ranked[i].Skill < ranked[j].Skill
	})
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}

	report := DemandReport{
		JobsAnalyzed: total,
		UniqueSkills: len(order),
		Skills:       ranked,
		Missing:      make([]SkillDemand, 0),
	}

	for _, s := range ranked {
		if s.Have {
			report.Covered++
		} else if len(report.Missing) < maxMissing {
			report.Missing = append(report.Missing, s)
		}
	}

	if len(ranked) > 0 {
		report.Coverage = percent(report.Covered, len(ranked))
		report.TopSkill = ranked[0].Skill
	}

	return report
}

// percent rounds part/whole to a whole percentage, treating an empty whole as one.
func percent(part, whole int) int {
	if whole < 1 {
		whole = 1
	}
	return int(float64(part)/float64(whole)*100 + 0.5)
}
