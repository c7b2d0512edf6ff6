package schemes

import (
	"fmt"
	"strings"

	"github.com/scheme-assistant/server/internal/agent/eligibility"
	"github.com/scheme-assistant/server/internal/agent/model"
)

var occupationLabels = map[string]string{
	"farmer":      "రైతు",
	"weaver":      "నేత కార్మికుడు",
	"fisherman":   "మత్స్యకారుడు",
	"driver":      "డ్రైవర్",
	"laborer":     "కూలీ",
	"employee":    "ఉద్యోగి",
	"iron_worker": "ఇస్త్రీ కార్మికుడు",
}

// OccupationLabel renders a canonical occupation token in Telugu.
func OccupationLabel(occ string) string {
	if l, ok := occupationLabels[occ]; ok {
		return l
	}
	return occ
}

// EligibilityText renders rules as a human-readable Telugu sentence. Only the
// age, gender, occupation and income predicates are described.
func EligibilityText(rules map[string]any) string {
	if len(rules) == 0 {
		return "అందరికీ అర్హత ఉంది"
	}

	var parts []string
	if min, ok := eligibility.IntValue(rules[model.PredicateAgeMin]); ok {
		parts = append(parts, fmt.Sprintf("వయస్సు %d సంవత్సరాలు పైబడి ఉండాలి", min))
	}
	if lo, hi, ok := eligibility.RangeValue(rules[model.PredicateAgeRange]); ok {
		parts = append(parts, fmt.Sprintf("వయస్సు %d నుండి %d మధ్య ఉండాలి", lo, hi))
	}
	if g, ok := rules[string(model.FieldGender)].(string); ok {
		label := "పురుషుడు"
		if g == "female" {
			label = "మహిళ"
		}
		parts = append(parts, label+" అయి ఉండాలి")
	}
	if occ, ok := rules[string(model.FieldOccupation)].(string); ok {
		parts = append(parts, OccupationLabel(occ)+" అయి ఉండాలి")
	}
	if limit, ok := eligibility.IntValue(rules[model.PredicateIncomeBelow]); ok {
		parts = append(parts, fmt.Sprintf("వార్షిక ఆదాయం రూ. %d కంటే తక్కువ ఉండాలి", limit))
	}
	if len(parts) == 0 {
		return "అర్హత వివరాలు అందుబాటులో లేవు"
	}
	return strings.Join(parts, ", ")
}
