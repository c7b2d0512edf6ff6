package dialog

import (
	"fmt"
	"strings"

	"github.com/scheme-assistant/server/internal/agent/model"
)

const (
	msgGreeting        = "నమస్కారం! నేను ప్రభుత్వ పథకాల సహాయకుడిని. మీకు ఏ విధంగా సహాయం చేయాలి? (ఉదా: పథకాల వివరాలు / అర్హత చెక్)"
	msgConfirmed       = "సరే, మీ సమాచారాన్ని అప్డేట్ చేశాను."
	msgCorrectionAck   = "సరే, మీరు చెప్పినది సరిచేస్తాను. "
	msgGenericDetails  = "మీ అర్హత చెక్ చేయడానికి మీ వయసు లేదా వృత్తి లేదా ఆదాయం వివరాలు చెప్పగలరా?"
	msgMoreDetails     = "దయచేసి మరికొన్ని వివరాలు చెప్పండి."
	msgRephrase        = "దయచేసి మీ ప్రశ్నను మరొక విధంగా చెప్పండి (ఉదా: పథకం పేరు/అర్హత చెక్/దరఖాస్తు విధానం)."
	msgHowCanIHelp     = "మీకు ఏ విధంగా సహాయం చేయాలి? (ఉదా: పథక వివరాలు / అర్హత చెక్)"
	msgWhichScheme     = "మీకు ఏ పథకం గురించి వివరంగా తెలుసుకోవాలి?"
	msgChooseScheme    = "దయచేసి ఏ పథకం గురించి వివరాలు కావాలో చెప్పండి (పేరు లేదా నంబర్)."
	msgWhichCriteria   = "మీరు ఏ పథకం అర్హత గురించి అడుగుతున్నారు? (ఉదా: అమ్మ ఒడి / పెన్షన్ కానుక)"
	msgEligibleHeader  = "మీకు ఈ పథకాలు అర్హత ఉన్నాయి:"
	msgNoEligible      = "మీరు ఇచ్చిన వివరాల ప్రకారం ప్రస్తుతం మీకు అర్హత ఉన్న పథకాలు కనిపించలేదు. వివరాలు మారితే మళ్లీ చెప్పండి."
	msgSchemeNotFound  = "క్షమించాలి, ఆ పథకం వివరాలు ప్రస్తుతం అందుబాటులో లేవు."
	msgNameUnknown     = "మీ పేరు నాకు ఇప్పటివరకు తెలియదు. దయచేసి మీ పేరు చెప్పండి."
	msgConflictDefault = "కొన్ని వివరాల్లో మార్పు కనిపిస్తోంది. దయచేసి నిర్ధారించండి."
)

// Per-branch verbosity caps.
const (
	detailBenefits  = 5
	detailDocuments = 6
	detailSteps     = 5
	followupDocs    = 8
	followupSteps   = 6
)

var questions = map[model.Field]string{
	model.FieldAge:        "మీ వయసు ఎంత?",
	model.FieldIncome:     "మీ వార్షిక ఆదాయం సుమారు ఎంత?",
	model.FieldOccupation: "మీ వృత్తి ఏమిటి? ఉదాహరణకు రైతు / కూలీ / ఉద్యోగి / డ్రైవర్ / నేత కార్మికుడు.",
	model.FieldState:      "మీరు ఏ రాష్ట్రానికి చెందినవారు? తెలంగాణా లేదా ఆంధ్రప్రదేశ్?",
}

// Question returns the canned question for a slot.
func Question(f model.Field) string {
	if q, ok := questions[f]; ok {
		return q
	}
	return msgMoreDetails
}

func conflictPrompt(conflicts map[model.Field]model.Conflict) string {
	var parts []string
	for _, f := range model.CriticalFields {
		c, ok := conflicts[f]
		if !ok {
			continue
		}
		from, to := c.From.String(), c.To.String()
		switch f {
		case model.FieldAge:
			parts = append(parts, fmt.Sprintf("మీ వయసు విషయంలో గందరగోళం ఉంది. ముందు %s అన్నారు, ఇప్పుడు %s చెప్పారు. %s సరేనా? (అవును/కాదు)", from, to, to))
		case model.FieldIncome:
			parts = append(parts, fmt.Sprintf("మీ ఆదాయం విషయంలో మార్పు కనిపిస్తోంది. ముందు %s, ఇప్పుడు %s. %s సరేనా? (అవును/కాదు)", from, to, to))
		case model.FieldOccupation:
			parts = append(parts, fmt.Sprintf("మీ వృత్తి విషయంలో మార్పు కనిపిస్తోంది. ముందు %s, ఇప్పుడు %s. %s సరేనా? (అవును/కాదు)", from, to, to))
		case model.FieldState:
			parts = append(parts, fmt.Sprintf("మీ రాష్ట్రం విషయంలో మార్పు కనిపిస్తోంది. ముందు %s, ఇప్పుడు %s. మీ అసలు రాష్ట్రం %sనా? (అవును/కాదు)", from, to, to))
		}
	}
	if len(parts) == 0 {
		return msgConflictDefault
	}
	return strings.Join(parts, " ")
}

func regionLabel(r string) string {
	switch model.Region(r) {
	case model.RegionTS:
		return "తెలంగాణ"
	case model.RegionAP:
		return "ఆంధ్రప్రదేశ్"
	}
	return r
}

func bullets(lines []string, items []string, limit int) []string {
	for i, it := range items {
		if i >= limit {
			break
		}
		lines = append(lines, "- "+it)
	}
	return lines
}

func numbered(lines []string, items []string, limit int) []string {
	for i, it := range items {
		if i >= limit {
			break
		}
		lines = append(lines, fmt.Sprintf("%d. %s", i+1, it))
	}
	return lines
}

// renderScheme renders a scheme summary; full adds documents and offline steps.
func renderScheme(rec model.SchemeRecord, full bool) string {
	lines := []string{fmt.Sprintf("'%s' పథకం వివరాలు:", rec.DisplayName)}
	if rec.EligibilityText != "" {
		lines = append(lines, "అర్హత: "+rec.EligibilityText)
	}
	if len(rec.Benefits) > 0 {
		lines = append(lines, "లాభాలు:")
		lines = bullets(lines, rec.Benefits, detailBenefits)
	}
	if full {
		if len(rec.DocumentsRequired) > 0 {
			lines = append(lines, "కావాల్సిన పత్రాలు:")
			lines = bullets(lines, rec.DocumentsRequired, detailDocuments)
		}
		if len(rec.ApplicationSteps.Offline) > 0 {
			lines = append(lines, "దరఖాస్తు విధానం (ఆఫ్‌లైన్):")
			lines = bullets(lines, rec.ApplicationSteps.Offline, detailSteps)
		}
	}
	return strings.Join(lines, "\n")
}

// renderApplication answers "how do I apply" for the scheme in focus.
func renderApplication(rec model.SchemeRecord, name string) string {
	if name == "" {
		name = rec.DisplayName
	}
	lines := []string{fmt.Sprintf("'%s' కోసం కావాల్సిన పత్రాలు:", name)}
	lines = bullets(lines, rec.DocumentsRequired, followupDocs)
	if len(rec.ApplicationSteps.Offline) > 0 {
		lines = append(lines, "దరఖాస్తు విధానం (ఆఫ్‌లైన్):")
		lines = bullets(lines, rec.ApplicationSteps.Offline, followupSteps)
	}
	if rec.Helpline != "" {
		lines = append(lines, "హెల్ప్‌లైన్: "+rec.Helpline)
	}
	return strings.Join(lines, "\n")
}

func renderCriteria(rec model.SchemeRecord) string {
	if t := strings.TrimSpace(rec.EligibilityText); t != "" {
		return fmt.Sprintf("'%s' పథకం అర్హత: %s", rec.DisplayName, t)
	}
	return fmt.Sprintf("'%s' పథకం అర్హత వివరాలు ప్రస్తుతం అందుబాటులో లేవు.", rec.DisplayName)
}

func renderVerdict(name string, eligible bool) string {
	if eligible {
		return fmt.Sprintf("అవును 👍 మీరు '%s' పథకానికి అర్హులు.", name)
	}
	return fmt.Sprintf("క్షమించాలి ❌ మీరు '%s' పథకానికి అర్హులు కారు.", name)
}

func renderRegionList(region string, names []string, limit int) string {
	lines := []string{fmt.Sprintf("%s రాష్ట్రంలో అందుబాటులో ఉన్న కొన్ని ముఖ్యమైన పథకాలు:", region)}
	lines = numbered(lines, names, limit)
	lines = append(lines, "", msgWhichScheme)
	return strings.Join(lines, "\n")
}

func renderCategoryList(names []string, limit int) string {
	lines := []string{"ఈ విభాగంలో అందుబాటులో ఉన్న పథకాలు:"}
	lines = numbered(lines, names, limit)
	lines = append(lines, "", msgWhichScheme)
	return strings.Join(lines, "\n")
}

func renderEligibleMenu(names []string, limit int) string {
	lines := []string{msgEligibleHeader}
	lines = numbered(lines, names, limit)
	lines = append(lines, msgWhichScheme)
	return strings.Join(lines, "\n")
}

func renderChooseAgain(names []string, limit int) string {
	lines := []string{msgChooseScheme}
	lines = numbered(lines, names, limit)
	return strings.Join(lines, "\n")
}
