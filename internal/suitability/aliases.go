package suitability

import "strings"

// AliasTable groups keyword variants that refer to the same technology. It is an immutable
// value: With returns an extended copy and never touches the receiver.
type AliasTable struct {
	groups [][]string
}

var defaultAliasGroups = [][]string{
	{"javascript", "js", "ecmascript", "es6"},
	{"typescript", "ts"},
	{"react", "reactjs", "react.js"},
	{"node", "nodejs", "node.js"},
	{"next", "nextjs", "next.js"},
	{"vue", "vuejs", "vue.js"},
	{"angular", "angularjs", "angular.js"},
	{"python", "py"},
	{"c++", "cpp", "cplusplus"},
	{"c#", "csharp", "c sharp"},
	{"postgresql", "postgres", "psql"},
	{"mongodb", "mongo"},
	{"kubernetes", "k8s"},
	{"aws", "amazon web services"},
	{"gcp", "google cloud platform"},
	{"ci/cd", "continuous integration", "continuous deployment"},
	{"ml", "machine learning"},
	{"ai", "artificial intelligence"},
	{"nlp", "natural language processing"},
}

// DefaultAliases returns the built-in technology alias table.
func DefaultAliases() AliasTable {
	var t AliasTable
	for _, group := range defaultAliasGroups {
		t = t.With(group[0], group[1:]...)
	}
	return t
}

// NewAliasTable builds a table from explicit groups. The first entry of every group is its
// canonical name.
func NewAliasTable(groups ...[]string) AliasTable {
	var t AliasTable
	for _, group := range groups {
		if len(group) == 0 {
			continue
		}
		t = t.With(group[0], group[1:]...)
	}
	return t
}

// With returns a copy of t with one more group. Variants are lowercased with whitespace
// collapsed but keep their punctuation, so "ci/cd" is only related to keywords containing
// that exact text. Variants that normalize to nothing are skipped.
func (t AliasTable) With(main string, alts ...string) AliasTable {
	variants := make([]string, 0, len(alts)+1)
	for _, v := range append([]string{main}, alts...) {
		if NormalizeKeyword(v) == "" {
			continue
		}
		variants = append(variants, strings.Join(strings.Fields(strings.ToLower(v)), " "))
	}

	groups := make([][]string, len(t.groups), len(t.groups)+1)
	copy(groups, t.groups)
	if len(variants) > 0 {
		groups = append(groups, variants)
	}

	return AliasTable{groups: groups}
}

// Len returns the number of alias groups.
func (t AliasTable) Len() int { return len(t.groups) }

// Groups returns a copy of the alias groups.
func (t AliasTable) Groups() [][]string {
	out := make([][]string, len(t.groups))
	for i, g := range t.groups {
		out[i] = append([]string(nil), g...)
	}
	return out
}
