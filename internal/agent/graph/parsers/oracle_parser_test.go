package parsers

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scheme-assistant/server/internal/agent/model"
)

func TestParseSlotObject(t *testing.T) {
	cases := []struct {
		name    string
		content string
		want    map[string]any
	}{
		{"plain", `{"age": 45, "state": "TS"}`, map[string]any{"age": float64(45), "state": "TS"}},
		{"fenced", "```json\n{\"occupation\": \"రైతు\"}\n```", map[string]any{"occupation": "రైతు"}},
		{"trailing comma", `{"age": 30, "income": "2 లక్ష",}`, map[string]any{"age": float64(30), "income": "2 లక్ష"}},
		{"prose around", `Here you go: {"gender": "female"} hope this helps`, map[string]any{"gender": "female"}},
		{"braces in strings", `{"name": "a{b}c", "age": 20}`, map[string]any{"name": "a{b}c", "age": float64(20)}},
		{"empty object", `{}`, map[string]any{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseSlotObject(tc.content)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParseSlotObject_Malformed(t *testing.T) {
	_, err := ParseSlotObject("no object here")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoObject))

	_, err = ParseSlotObject(`{"age": }`)
	require.Error(t, err)

	_, err = ParseSlotObject(`{"age": 4`)
	require.Error(t, err)

	_, err = ParseSlotObject(`[1, 2, 3]`)
	require.Error(t, err)
}

func TestParseSlotObject_CapsKeys(t *testing.T) {
	var b strings.Builder
	b.WriteString("{")
	for i := 0; i < maxKeys+10; i++ {
		if i > 0 {
			b.WriteString(",")
		}
		b.WriteString(`"k`)
		b.WriteString(strings.Repeat("x", i))
		b.WriteString(`": 1`)
	}
	b.WriteString("}")

	got, err := ParseSlotObject(b.String())
	require.NoError(t, err)
	assert.Len(t, got, maxKeys)
}

func TestParseIntentLabel(t *testing.T) {
	cases := map[string]model.Intent{
		"greeting":                    model.IntentGreeting,
		"  Eligibility_Check\n":       model.IntentEligibilityCheck,
		"`scheme_info`":               model.IntentSchemeInfo,
		`{"intent": "scheme_list"}`:   model.IntentSchemeList,
		"something_else":              model.IntentUnknown,
		"":                            model.IntentUnknown,
		"```\napply\n```":             model.IntentApply,
		`{"label": "greeting"}`:       model.IntentUnknown,
		"time_query. The user asks":   model.IntentTimeQuery,
	}
	for in, want := range cases {
		assert.Equal(t, want, ParseIntentLabel(in), in)
	}
}

func TestParseSchemeAnswer(t *testing.T) {
	assert.Equal(t, "AP_AMMA_VODI", ParseSchemeAnswer("AP_AMMA_VODI\nbecause the user said amma vodi"))
	assert.Equal(t, "NONE", ParseSchemeAnswer("```\n\"NONE\"\n```"))
	assert.Equal(t, "", ParseSchemeAnswer("   "))
}

func TestSafeSnippetKeepsRunes(t *testing.T) {
	s := safeSnippet(strings.Repeat("తె", 200))
	assert.LessOrEqual(t, len(s), maxErrSnippet)
	assert.True(t, strings.HasPrefix(strings.Repeat("తె", 200), s))
}
