package dialog

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/scheme-assistant/server/internal/agent/model"
)

// Valid age bounds; anything outside is treated as recognition noise.
const (
	MinAge = 10
	MaxAge = 120
)

const lakh = 100000

var (
	confidenceNote = regexp.MustCompile(`\([^)]*\d{1,3}%[^)]*\)`)
	controlGlyphs  = strings.NewReplacer("🎤", " ", "🔊", " ", "⏹️", " ", "⏹", " ", "\u200b", " ", "\ufeff", " ")
)

// SanitizeText strips confidence annotations and control glyphs and collapses
// whitespace.
func SanitizeText(text string) string {
	if text == "" {
		return ""
	}
	t := confidenceNote.ReplaceAllString(text, " ")
	t = controlGlyphs.Replace(t)
	return strings.Join(strings.Fields(t), " ")
}

var (
	tsNames = []string{"ts", "telangana", "తెలంగాణ", "తెలంగాణా", "తెలగాణ"}
	apNames = []string{"ap", "andhra", "andhra pradesh", "ఆంధ్ర", "ఆంధ్రప్రదేశ్", "ఆంధ్రప్రదేశ", "ఆంధ్రా", "ఆంధ్ర ప్రదేశ్"}

	femaleNames = []string{"female", "f", "woman", "స్త్రీ", "ఆడ", "మహిళ"}
	maleNames   = []string{"male", "m", "man", "పురుషుడు", "మగ", "పురుష"}

	trueWords  = []string{"true", "yes", "y", "అవును", "ఉంది", "ఉన్నారు"}
	falseWords = []string{"false", "no", "n", "కాదు", "లేదు", "లేరు"}
)

func oneOf(v string, set []string) bool {
	for _, s := range set {
		if v == s {
			return true
		}
	}
	return false
}

var (
	amountLakh  = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(?:లక్ష|lakh)`)
	amountDigit = regexp.MustCompile(`\d[\d,]*(?:\.\d+)?`)
)

// parseAmount reads an integer amount from free text, honouring the lakh unit,
// comma grouping ("1,50,000") and decimals ("1.5 lakh").
func parseAmount(s string) (int, bool) {
	v := strings.ToLower(strings.TrimSpace(s))
	if m := amountLakh.FindStringSubmatch(v); m != nil {
		f, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return 0, false
		}
		return int(math.Round(f * lakh)), true
	}
	m := amountDigit.FindString(v)
	if m == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.ReplaceAll(m, ",", ""), 64)
	if err != nil {
		return 0, false
	}
	if strings.Contains(v, "లక్ష") || strings.Contains(v, "lakh") {
		f *= lakh
	}
	return int(math.Round(f)), true
}

func intOf(raw any) (int, bool) {
	switch t := raw.(type) {
	case string:
		return parseAmount(t)
	default:
		v, ok := model.ValueOf(raw)
		if !ok {
			if f, isFloat := raw.(float64); isFloat && !math.IsNaN(f) && !math.IsInf(f, 0) {
				return int(f), true
			}
			return 0, false
		}
		n, ok := v.AsInt()
		return n, ok
	}
}

// NormalizeValue maps a raw extracted value onto the canonical typed value for
// field. ok is false when the value must be dropped: unknown field, empty
// value, an unrecognised region, or an age outside [MinAge, MaxAge].
func NormalizeValue(field model.Field, raw any) (model.Value, bool) {
	if raw == nil {
		return model.Value{}, false
	}
	if v, isValue := raw.(model.Value); isValue {
		if !v.IsSet() {
			return model.Value{}, false
		}
		raw = v.Any()
	}
	if s, isStr := raw.(string); isStr {
		s = strings.TrimSpace(s)
		if s == "" || strings.EqualFold(s, "null") || strings.EqualFold(s, "none") {
			return model.Value{}, false
		}
		raw = s
	}

	switch field {
	case model.FieldState:
		s, ok := raw.(string)
		if !ok {
			return model.Value{}, false
		}
		r, ok := canonicalRegion(s)
		if !ok {
			return model.Value{}, false
		}
		return model.String(string(r)), true

	case model.FieldAge:
		n, ok := intOf(raw)
		if !ok || n < MinAge || n > MaxAge {
			return model.Value{}, false
		}
		return model.Int(n), true

	case model.FieldIncome, model.FieldFamilySize:
		n, ok := intOf(raw)
		if !ok || n < 0 {
			return model.Value{}, false
		}
		return model.Int(n), true

	case model.FieldOccupation:
		s, ok := raw.(string)
		if !ok {
			return model.Value{}, false
		}
		if occ, found := matchOccupation(s); found {
			return model.String(occ), true
		}
		return model.String(strings.ReplaceAll(strings.ToLower(s), " ", "_")), true

	case model.FieldGender:
		s, ok := raw.(string)
		if !ok {
			return model.Value{}, false
		}
		l := strings.ToLower(s)
		switch {
		case oneOf(l, femaleNames):
			return model.String("female"), true
		case oneOf(l, maleNames):
			return model.String("male"), true
		}
		return model.String(l), true

	case model.FieldLandOwner, model.FieldDisability, model.FieldHasChildren, model.FieldPregnant:
		switch t := raw.(type) {
		case bool:
			return model.Bool(t), true
		case string:
			l := strings.ToLower(t)
			switch {
			case oneOf(l, trueWords):
				return model.Bool(true), true
			case oneOf(l, falseWords):
				return model.Bool(false), true
			}
			return model.String(t), true
		}
		return model.ValueOf(raw)

	case model.FieldCaste, model.FieldReligion:
		s, ok := raw.(string)
		if !ok {
			return model.Value{}, false
		}
		return model.String(strings.ToLower(s)), true

	case model.FieldName, model.FieldLocation:
		s, ok := raw.(string)
		if !ok {
			return model.Value{}, false
		}
		return model.String(s), true
	}
	return model.Value{}, false
}

func canonicalRegion(s string) (model.Region, bool) {
	l := strings.ToLower(strings.TrimSpace(s))
	switch {
	case oneOf(l, tsNames):
		return model.RegionTS, true
	case oneOf(l, apNames):
		return model.RegionAP, true
	}
	return "", false
}

// NormalizeSlots normalizes a decoded extraction object, dropping unknown
// fields and invalid values.
func NormalizeSlots(raw map[string]any) model.Slots {
	out := model.Slots{}
	for k, v := range raw {
		key := strings.ToLower(strings.TrimSpace(k))
		if !model.IsKnownField(key) {
			continue
		}
		f := model.Field(key)
		if nv, ok := NormalizeValue(f, v); ok {
			out.Set(f, nv)
		}
	}
	return out
}
