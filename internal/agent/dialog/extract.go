package dialog

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/scheme-assistant/server/internal/agent/model"
)

var agePatterns = []*regexp.Regexp{
	regexp.MustCompile(`వయసు\s*(\d+)`),
	regexp.MustCompile(`వయస్సు\s*(\d+)`),
	regexp.MustCompile(`(?i)age\s*(\d+)`),
	regexp.MustCompile(`(\d+)\s*సంవత్సరాలు`),
	regexp.MustCompile(`(?i)(\d+)\s*years`),
	regexp.MustCompile(`(\d+)\s*ఏళ్ళు`),
	regexp.MustCompile(`(\d+)\s*సంవత్సర`),
	regexp.MustCompile(`(\d+)\s*ఏళ్ల`),
}

var incomePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*(?:లక్ష|lakh)`),
	regexp.MustCompile(`(?i)(?:ఆదాయం|income)\s*(?:రూ\.?|rs\.?)?\s*(\d[\d,]*)`),
	regexp.MustCompile(`(?i)(\d[\d,]*)\s*(?:రూపాయలు|rupees)`),
}

type occupationToken struct {
	token string
	value string
}

// Ordered: the first token found wins.
var occupationTable = []occupationToken{
	{"రైతు", "farmer"},
	{"farmer", "farmer"},
	{"కూలీ", "laborer"},
	{"laborer", "laborer"},
	{"labourer", "laborer"},
	{"లేబరర్", "laborer"},
	{"ఉద్యోగి", "employee"},
	{"employee", "employee"},
	{"వేవర్", "weaver"},
	{"weaver", "weaver"},
	{"నేత", "weaver"},
	{"డ్రైవర్", "driver"},
	{"driver", "driver"},
	{"మత్స్యకారుడు", "fisherman"},
	{"fisherman", "fisherman"},
	{"ఇస్త్రీ", "iron_worker"},
}

var (
	tsTokens     = []string{"తెలంగాణ", "తెలగాణ", "telangana"}
	apTokens     = []string{"ఆంధ్రప్రదేశ", "ఆంధ్ర", "andhra"}
	femaleTokens = []string{"స్త్రీ", "ఆడ", "మహిళ", "female", "woman"}
	maleTokens   = []string{"పురుషుడు", "మగ", "పురుష", "male", "man"}
)

func matchOccupation(text string) (string, bool) {
	lower := strings.ToLower(text)
	for _, o := range occupationTable {
		if strings.Contains(lower, o.token) {
			return o.value, true
		}
	}
	return "", false
}

// ExtractDeterministic pulls the high-confidence fields (age, income, state,
// occupation, gender) out of text with fixed patterns.
func ExtractDeterministic(text string) model.Slots {
	out := model.Slots{}
	if strings.TrimSpace(text) == "" {
		return out
	}

	for _, p := range agePatterns {
		m := p.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		if n, err := strconv.Atoi(m[1]); err == nil && n >= MinAge && n <= MaxAge {
			out.Set(model.FieldAge, model.Int(n))
			break
		}
	}

	for _, p := range incomePatterns {
		m := p.FindString(text)
		if m == "" {
			continue
		}
		if n, ok := parseAmount(m); ok {
			out.Set(model.FieldIncome, model.Int(n))
			break
		}
	}

	switch {
	case containsAny(text, tsTokens):
		out.Set(model.FieldState, model.String(string(model.RegionTS)))
	case containsAny(text, apTokens):
		out.Set(model.FieldState, model.String(string(model.RegionAP)))
	}

	if occ, ok := matchOccupation(text); ok {
		out.Set(model.FieldOccupation, model.String(occ))
	}

	switch {
	case containsAny(text, femaleTokens):
		out.Set(model.FieldGender, model.String("female"))
	case containsAny(text, maleTokens):
		out.Set(model.FieldGender, model.String("male"))
	}
	return out
}

// MergeExtractions combines the oracle's and the deterministic extractor's
// results. For critical fields a deterministic value always wins; for the rest
// the oracle wins unless its value is absent or falsy.
func MergeExtractions(oracle, deterministic model.Slots) model.Slots {
	out := oracle.Clone()
	for f, v := range deterministic {
		if !v.IsSet() {
			continue
		}
		if model.IsCritical(f) {
			out.Set(f, v)
			continue
		}
		if cur, ok := out.Get(f); !ok || !cur.Truthy() {
			out.Set(f, v)
		}
	}
	return out
}
