package dialog

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/scheme-assistant/server/internal/agent/model"
)

func TestSanitizeText(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"confidence note", "నా వయసు 45 (95%)", "నా వయసు 45"},
		{"labelled note", "(confidence 87%) yes", "yes"},
		{"parentheses without percent kept", "అమ్మ ఒడి (AP)", "అమ్మ ఒడి (AP)"},
		{"control glyphs", "🎤  హలో​  🔊", "హలో"},
		{"whitespace collapse", "a \n\t  b", "a b"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, SanitizeText(tc.in))
		})
	}
}

func TestNormalizeValue(t *testing.T) {
	cases := []struct {
		name  string
		field model.Field
		raw   any
		want  model.Value
		ok    bool
	}{
		{"age float", model.FieldAge, float64(45), model.Int(45), true},
		{"age string", model.FieldAge, " 45 ", model.Int(45), true},
		{"age lower bound", model.FieldAge, 10, model.Int(10), true},
		{"age upper bound", model.FieldAge, 120, model.Int(120), true},
		{"age too low", model.FieldAge, 9, model.Value{}, false},
		{"age too high", model.FieldAge, float64(121), model.Value{}, false},
		{"age typed value", model.FieldAge, model.Int(30), model.Int(30), true},
		{"empty string", model.FieldAge, "", model.Value{}, false},
		{"null string", model.FieldOccupation, "null", model.Value{}, false},
		{"nil", model.FieldIncome, nil, model.Value{}, false},
		{"income lakh", model.FieldIncome, "1.5 lakh", model.Int(150000), true},
		{"income telugu lakh", model.FieldIncome, "2 లక్షలు", model.Int(200000), true},
		{"income grouped", model.FieldIncome, "1,20,000", model.Int(120000), true},
		{"income rupees prefix", model.FieldIncome, "రూ. 80000", model.Int(80000), true},
		{"income negative", model.FieldIncome, -5, model.Value{}, false},
		{"state english", model.FieldState, "Telangana", model.String("TS"), true},
		{"state telugu", model.FieldState, "ఆంధ్రప్రదేశ్", model.String("AP"), true},
		{"state code", model.FieldState, "ap", model.String("AP"), true},
		{"state unknown", model.FieldState, "Karnataka", model.Value{}, false},
		{"state not a string", model.FieldState, 7, model.Value{}, false},
		{"occupation table", model.FieldOccupation, "Farmer", model.String("farmer"), true},
		{"occupation telugu", model.FieldOccupation, "రైతు", model.String("farmer"), true},
		{"occupation free text", model.FieldOccupation, "Shop Keeper", model.String("shop_keeper"), true},
		{"gender short", model.FieldGender, "F", model.String("female"), true},
		{"gender telugu", model.FieldGender, "పురుషుడు", model.String("male"), true},
		{"bool yes", model.FieldLandOwner, "yes", model.Bool(true), true},
		{"bool telugu no", model.FieldDisability, "లేదు", model.Bool(false), true},
		{"bool native", model.FieldPregnant, true, model.Bool(true), true},
		{"caste lowered", model.FieldCaste, "SC", model.String("sc"), true},
		{"name kept", model.FieldName, "Ravi", model.String("Ravi"), true},
		{"unknown field", model.Field("pincode"), "500001", model.Value{}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := NormalizeValue(tc.field, tc.raw)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestNormalizeSlots(t *testing.T) {
	got := NormalizeSlots(map[string]any{
		"Age":     float64(30),
		" state ": "ts",
		"income":  nil,
		"pincode": "500001",
		"gender":  "",
	})
	assert.Equal(t, model.Slots{
		model.FieldAge:   model.Int(30),
		model.FieldState: model.String("TS"),
	}, got)
}
