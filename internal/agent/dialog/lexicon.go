package dialog

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// Keyword sets. ASCII entries match whole lowercase tokens; everything else
// matches as a substring, since Telugu inflects by suffixing.
var (
	greetingTokens = []string{"నమస్కారం", "హలో", "హాయ్", "hello", "hi", "హాయ్!", "హలో!"}

	affirmativeWords = []string{
		"కావాలి", "కోవాలి", "తెలుసుకోవాలి", "చెప్పు", "చెప్పండి", "వివరాలు",
		"ok", "ఓకే", "సరే", "yes", "అవును",
	}
	confirmationWords = []string{"అవును", "సరే", "ok", "okay", "yes", "correct", "ఒప్పు", "నిజం"}
	correctionWords   = []string{"కాదు", "తప్పు", "నో", "no", "wrong"}
	negationWords     = []string{"not", "isn", "never"}

	pensionWords     = []string{"వస్తుందా", "అర్హ", "అర్హత", "eligible", "వస్తుందా రాదా", "నాకు పెన్షన్", "రాదా"}
	schemeEligWords  = []string{"వస్తుందా", "వస్తుందో", "రాదా", "అర్హ", "అర్హుడ", "అర్హత", "eligible", "eligibility", "ఎలిజిబిలిటీ"}
	infoEligWords    = []string{"పెన్షన్", "అర్హత", "వస్తుందా"}
	criteriaMarkers  = []string{"ఎంత వయసు", "వయసు ఎంత", "పిల్ల", "పిల్లల", "ఎంత ఉండాలి", "అర్హత ఏంటి", "క్రైటీరియా", "criteria"}
	listWords        = []string{"పథకాలు", "schemes", "లిస్ట్", "జాబితా", "ఏవి", "list"}
	profileQuestions = []string{"నా వయసు", "నా వయస్సు", "my age", "నా ఆదాయం", "my income", "annual income"}

	ageQuestions      = []string{"నా వయసు", "నా వయస్సు", "my age"}
	ageHowMuch        = []string{"వయసు ఎంత", "వయస్సు ఎంత"}
	stateQuestions    = []string{"నా రాష్ట్రం", "నా స్టేట్", "my state", "state what", "which state"}
	stateQuestionWhat = []string{"ఏమిటి", "ఏది", "what", "which"}
	incomeQuestions   = []string{"నా ఆదాయం", "my income", "ఆదాయం ఎంత", "income ఎంత", "annual income"}

	// A number followed by one of these is an amount or an age, never a menu pick.
	numberUnits    = []string{"లక్ష", "lakh", "వేల", "వేలు", "thousand", "రూపాయ", "rupee", "rs", "సంవత్సర", "ఏళ్ల", "ఏళ్ళ", "years", "yrs", "%"}
	currencyTokens = []string{"రూ", "rs", "inr"}

	categoryWords = map[string][]string{
		"farmer":     {"రైతు పథకాలు", "రైతులకు", "farmer schemes"},
		"pension":    {"పెన్షన్ పథకాలు", "పింఛను పథకాలు", "pension schemes"},
		"women":      {"మహిళా పథకాలు", "మహిళలకు", "women schemes"},
		"student":    {"విద్యార్థి", "స్కాలర్‌షిప్", "scholarship"},
		"housing":    {"ఇళ్ల పథకం", "గృహ పథకం", "housing"},
		"health":     {"ఆరోగ్య పథకాలు", "health schemes"},
		"employment": {"ఉపాధి", "employment"},
	}
)

var (
	numberRun  = regexp.MustCompile(`\d+(?:[.,]\d+)*`)
	bareNumber = regexp.MustCompile(`^\s*(?:రూ\.?\s*)?\d[\d,]*(?:\.\d+)?\s*(?:లక్ష|lakh|lakhs)?\s*$`)
)

func isASCII(s string) bool {
	for _, r := range s {
		if r > unicode.MaxASCII {
			return false
		}
	}
	return true
}

func tokens(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' && !unicode.Is(unicode.Mn, r) && !unicode.Is(unicode.Mc, r)
	})
}

// containsAny reports whether text mentions any keyword.
func containsAny(text string, words []string) bool {
	lower := strings.ToLower(text)
	var toks []string
	for _, w := range words {
		if w == "" {
			continue
		}
		if isASCII(w) && !strings.Contains(w, " ") {
			if toks == nil {
				toks = tokens(text)
			}
			for _, t := range toks {
				if t == w {
					return true
				}
			}
			continue
		}
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}

// IsGreeting matches a bare greeting, nothing more.
func IsGreeting(text string) bool {
	t := strings.ToLower(strings.TrimSpace(text))
	for _, g := range greetingTokens {
		if t == g {
			return true
		}
	}
	return false
}

// IsAffirmative matches short "yes / tell me more" follow-ups.
func IsAffirmative(text string) bool {
	return strings.TrimSpace(text) != "" && containsAny(text, affirmativeWords)
}

// IsConfirmation matches an explicit yes to a confirmation question. Any
// rejection or negation in the same utterance wins over the yes.
func IsConfirmation(text string) bool {
	if strings.TrimSpace(text) == "" || IsCorrection(text) || containsAny(text, negationWords) {
		return false
	}
	return containsAny(text, confirmationWords)
}

// IsCorrection matches "no / wrong" style rejections.
func IsCorrection(text string) bool {
	return containsAny(text, correctionWords)
}

// NumberChoice extracts a standalone one or two digit menu number. Grouped or
// decimal numbers ("1,50,000", "1.5") and numbers carrying a currency or unit
// are not choices.
func NumberChoice(text string) (int, bool) {
	for _, loc := range numberRun.FindAllStringIndex(text, -1) {
		run := text[loc[0]:loc[1]]
		if len(run) > 2 || strings.ContainsAny(run, ".,") {
			continue
		}
		if loc[0] > 0 && isASCIILetter(text[loc[0]-1]) {
			continue
		}
		if isAmount(text[:loc[0]], text[loc[1]:]) {
			continue
		}
		if n, err := strconv.Atoi(run); err == nil {
			return n, true
		}
	}
	return 0, false
}

func isASCIILetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func isAmount(before, after string) bool {
	rest := strings.ToLower(strings.TrimSpace(after))
	for _, u := range numberUnits {
		if strings.HasPrefix(rest, u) {
			return true
		}
	}
	prev := strings.TrimSpace(before)
	if strings.HasSuffix(prev, "₹") {
		return true
	}
	if toks := tokens(prev); len(toks) > 0 {
		last := toks[len(toks)-1]
		for _, c := range currencyTokens {
			if last == c {
				return true
			}
		}
	}
	return false
}

func isProfileQuestion(text string) bool {
	return containsAny(text, profileQuestions)
}

func isAgeQuestion(text string) bool {
	if containsAny(text, ageQuestions) {
		return true
	}
	return containsAny(text, ageHowMuch) && !strings.Contains(text, "పిల్ల") && strings.Contains(text, "నా")
}

func isStateQuestion(text string) bool {
	return containsAny(text, stateQuestions) && containsAny(text, stateQuestionWhat)
}

func isIncomeQuestion(text string) bool {
	return containsAny(text, incomeQuestions)
}

// categoryOf returns the first category whose words appear in text, in sorted
// category order.
func categoryOf(text string, categories []string) string {
	for _, c := range categories {
		if containsAny(text, categoryWords[c]) {
			return c
		}
	}
	return ""
}
