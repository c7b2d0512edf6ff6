package parsers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/scheme-assistant/server/internal/agent/model"
	errx "github.com/scheme-assistant/server/internal/core/error"
	logx "github.com/scheme-assistant/server/pkg/logger"
)

// basic safety limits to avoid pathological inputs
const (
	maxContentLen = 64 * 1024 // 64KB
	maxObjectLen  = 16 * 1024 // 16KB for the extracted JSON object
	maxKeys       = 64        // maximum number of slot keys kept
	maxErrSnippet = 200       // limit error snippet size
)

var (
	codeFence     = regexp.MustCompile("```[a-zA-Z]*")
	trailingComma = regexp.MustCompile(`,\s*([}\]])`)
)

// ErrNoObject is returned when the oracle output carries no JSON object.
var ErrNoObject = errors.New("no json object in oracle output")

func mustValidUTF8(s string, name string) error {
	if !utf8.ValidString(s) {
		return fmt.Errorf("%s invalid utf8", name)
	}
	return nil
}

func guardLength(content string) string {
	if len(content) > maxContentLen {
		logx.Warn().
			Str("component", "oracle_parser").
			Int("max_len", maxContentLen).
			Int("orig_len", len(content)).
			Msg("content truncated due to size limit")
		content = content[:maxContentLen]
	}
	return content
}

// stripFences removes markdown code fences around model output.
func stripFences(s string) string {
	return strings.TrimSpace(codeFence.ReplaceAllString(s, ""))
}

// firstObject returns the first balanced {...} span, honouring string
// literals and escapes.
func firstObject(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return "", false
	}
	depth := 0
	inString, escaped := false, false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}

// ParseSlotObject leniently decodes the slot-extraction output: code fences
// are stripped, the first JSON object is taken and trailing commas dropped.
// Anything that still fails to decode is an error; callers treat it as an
// empty extraction.
func ParseSlotObject(content string) (out map[string]any, err error) {
	// panic safety
	defer func() {
		if r := recover(); r != nil {
			logx.Error().Str("component", "oracle_parser").Msgf("panic recovered: %v", r)
			err = errx.New(fmt.Errorf("oracle parser panic"), http.StatusInternalServerError, errx.SystemErrorMessage)
			out = nil
		}
	}()

	content = guardLength(content)
	if err := mustValidUTF8(content, "slot output"); err != nil {
		return nil, err
	}

	obj, ok := firstObject(stripFences(content))
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoObject, safeSnippet(content))
	}
	if len(obj) > maxObjectLen {
		return nil, fmt.Errorf("slot object too large")
	}
	obj = trailingComma.ReplaceAllString(obj, "$1")

	var m map[string]any
	if err := json.Unmarshal([]byte(obj), &m); err != nil {
		return nil, fmt.Errorf("decode slot object %q: %w", safeSnippet(obj), err)
	}

	if len(m) > maxKeys {
		logx.Warn().Str("component", "oracle_parser").Int("keys", len(m)).Msg("slot object capped")
		capped := make(map[string]any, maxKeys)
		for k, v := range m {
			if len(capped) == maxKeys {
				break
			}
			capped[k] = v
		}
		m = capped
	}
	return m, nil
}

// ParseIntentLabel maps the classification output onto the intent
// enumeration. The first word-like token is used; a JSON object with an
// "intent" key is accepted too. Anything else is IntentUnknown.
func ParseIntentLabel(content string) model.Intent {
	s := stripFences(guardLength(content))
	if s == "" {
		return model.IntentUnknown
	}
	if obj, ok := firstObject(s); ok {
		var m map[string]any
		if err := json.Unmarshal([]byte(trailingComma.ReplaceAllString(obj, "$1")), &m); err == nil {
			if v, isStr := m["intent"].(string); isStr {
				return model.ParseIntent(v)
			}
		}
		return model.IntentUnknown
	}
	token := strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_'
	})
	if len(token) == 0 {
		return model.IntentUnknown
	}
	return model.ParseIntent(token[0])
}

// ParseSchemeAnswer trims the identification output down to its first line.
func ParseSchemeAnswer(content string) string {
	s := stripFences(guardLength(content))
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return strings.Trim(strings.TrimSpace(s), "\"'`.")
}

// --- helpers ---

func safeSnippet(s string) string {
	s = strings.TrimSpace(s)
	if len(s) <= maxErrSnippet {
		return s
	}
	// keep the cut on a rune boundary
	cut := maxErrSnippet
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
