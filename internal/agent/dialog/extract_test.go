package dialog

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/scheme-assistant/server/internal/agent/model"
)

func TestExtractDeterministic(t *testing.T) {
	cases := []struct {
		name string
		text string
		want model.Slots
	}{
		{"empty", "   ", model.Slots{}},
		{"telugu age", "నా వయసు 45", model.Slots{model.FieldAge: model.Int(45)}},
		{"age in years", "I am 30 years old", model.Slots{model.FieldAge: model.Int(30)}},
		{"age below range dropped", "వయసు 5", model.Slots{}},
		{"age above range dropped", "వయసు 150", model.Slots{}},
		{"lakh", "2 lakh income", model.Slots{model.FieldIncome: model.Int(200000)}},
		{"telugu decimal lakh", "నా ఆదాయం 1.5 లక్ష", model.Slots{model.FieldIncome: model.Int(150000)}},
		{"comma grouping", "income 1,50,000", model.Slots{model.FieldIncome: model.Int(150000)}},
		{"rupees", "50000 rupees", model.Slots{model.FieldIncome: model.Int(50000)}},
		{"telangana farmer", "నేను తెలంగాణ రైతు", model.Slots{
			model.FieldState:      model.String("TS"),
			model.FieldOccupation: model.String("farmer"),
		}},
		{"andhra token", "I live in Andhra Pradesh", model.Slots{model.FieldState: model.String("AP")}},
		{"laborer", "నేను కూలీ పని చేస్తాను", model.Slots{model.FieldOccupation: model.String("laborer")}},
		{"driver", "I am a driver", model.Slots{model.FieldOccupation: model.String("driver")}},
		{"female", "నేను మహిళ", model.Slots{model.FieldGender: model.String("female")}},
		{"woman is not man", "I am a woman", model.Slots{model.FieldGender: model.String("female")}},
		{"male", "I am a man", model.Slots{model.FieldGender: model.String("male")}},
		{"full profile", "నేను తెలంగాణ రైతు, నా వయసు 45", model.Slots{
			model.FieldState:      model.String("TS"),
			model.FieldOccupation: model.String("farmer"),
			model.FieldAge:        model.Int(45),
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ExtractDeterministic(tc.text))
		})
	}
}

func TestMergeExtractions(t *testing.T) {
	cases := []struct {
		name   string
		oracle model.Slots
		det    model.Slots
		want   model.Slots
	}{
		{
			name:   "pattern wins on critical field",
			oracle: model.Slots{model.FieldAge: model.Int(40), model.FieldIncome: model.Int(90000)},
			det:    model.Slots{model.FieldAge: model.Int(45)},
			want:   model.Slots{model.FieldAge: model.Int(45), model.FieldIncome: model.Int(90000)},
		},
		{
			name:   "oracle wins on non-critical field",
			oracle: model.Slots{model.FieldGender: model.String("female")},
			det:    model.Slots{model.FieldGender: model.String("male")},
			want:   model.Slots{model.FieldGender: model.String("female")},
		},
		{
			name:   "pattern fills falsy oracle value",
			oracle: model.Slots{model.FieldGender: model.String("")},
			det:    model.Slots{model.FieldGender: model.String("male")},
			want:   model.Slots{model.FieldGender: model.String("male")},
		},
		{
			name:   "pattern fills missing field",
			oracle: nil,
			det:    model.Slots{model.FieldState: model.String("AP"), model.FieldGender: model.String("female")},
			want:   model.Slots{model.FieldState: model.String("AP"), model.FieldGender: model.String("female")},
		},
		{
			name:   "unset pattern value ignored",
			oracle: model.Slots{model.FieldAge: model.Int(40)},
			det:    model.Slots{model.FieldAge: model.Value{}},
			want:   model.Slots{model.FieldAge: model.Int(40)},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, MergeExtractions(tc.oracle, tc.det))
		})
	}
}

func TestMergeExtractionsLeavesInputsAlone(t *testing.T) {
	oracle := model.Slots{model.FieldAge: model.Int(40)}
	MergeExtractions(oracle, model.Slots{model.FieldAge: model.Int(45)})
	assert.Equal(t, model.Slots{model.FieldAge: model.Int(40)}, oracle)
}
