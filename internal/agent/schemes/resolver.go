package schemes

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/samber/lo"

	"github.com/scheme-assistant/server/internal/agent/model"
	logx "github.com/scheme-assistant/server/pkg/logger"
)

// Query is a scheme reference lookup.
type Query struct {
	Text string
	// Region narrows candidates; empty searches every region.
	Region model.Region
	// Restrict, when non-empty, limits matches to these identifiers (menu selection).
	Restrict []string
}

// Stage is one strategy for turning free text into a scheme reference. A
// stage that cannot decide returns the zero SchemeRef.
type Stage interface {
	Resolve(ctx context.Context, q Query) model.SchemeRef
}

// Resolver runs its stages in order and returns the first match.
type Resolver struct {
	stages []Stage
}

func NewResolver(stages ...Stage) *Resolver {
	return &Resolver{stages: stages}
}

func (r *Resolver) Resolve(ctx context.Context, q Query) model.SchemeRef {
	for _, st := range r.stages {
		if ref := st.Resolve(ctx, q); ref.Found() {
			return ref
		}
	}
	return model.SchemeRef{}
}

func candidates(store *Store, q Query) []model.SchemeRef {
	var refs []model.SchemeRef
	if q.Region != "" {
		refs = store.Refs(q.Region)
	} else {
		refs = store.Refs()
	}
	if len(q.Restrict) > 0 {
		refs = lo.Filter(refs, func(r model.SchemeRef, _ int) bool { return lo.Contains(q.Restrict, r.ID) })
	}
	return refs
}

func compact(s string) string {
	return strings.Join(strings.Fields(s), "")
}

// ================ Deterministic stage ================

// NameMatcher finds a scheme whose display name, or its whitespace-free form,
// appears in the text. The longest matching name wins.
type NameMatcher struct {
	store *Store
}

func NewNameMatcher(store *Store) *NameMatcher {
	return &NameMatcher{store: store}
}

func (m *NameMatcher) Resolve(_ context.Context, q Query) model.SchemeRef {
	text := strings.TrimSpace(q.Text)
	if text == "" {
		return model.SchemeRef{}
	}
	return matchName(candidates(m.store, q), text)
}

func matchName(refs []model.SchemeRef, text string) model.SchemeRef {
	textCompact := compact(text)
	var best model.SchemeRef
	bestLen := 0
	for _, ref := range refs {
		nameCompact := compact(ref.Name)
		if nameCompact == "" {
			continue
		}
		if !strings.Contains(text, ref.Name) && !strings.Contains(textCompact, nameCompact) {
			continue
		}
		if n := utf8.RuneCountInString(nameCompact); n > bestLen {
			best, bestLen = ref, n
		}
	}
	return best
}

// ================ Oracle stage ================

// SchemeIdentifier asks the NLU oracle which scheme the text refers to. It
// returns the oracle's raw answer, or "" when the oracle failed.
type SchemeIdentifier interface {
	IdentifyScheme(ctx context.Context, text string, candidates []model.SchemeRef) string
}

const (
	minOracleTextLen   = 3
	maxOracleCandidate = 120
	maxExplanationLen  = 40
)

// OracleMatcher delegates to the NLU oracle and maps its answer back onto the
// catalog, tolerating case and spacing variants of identifiers and names.
type OracleMatcher struct {
	store  *Store
	oracle SchemeIdentifier
}

func NewOracleMatcher(store *Store, oracle SchemeIdentifier) *OracleMatcher {
	return &OracleMatcher{store: store, oracle: oracle}
}

func (m *OracleMatcher) Resolve(ctx context.Context, q Query) model.SchemeRef {
	if m.oracle == nil || utf8.RuneCountInString(strings.TrimSpace(q.Text)) < minOracleTextLen {
		return model.SchemeRef{}
	}
	refs := candidates(m.store, q)
	if len(refs) == 0 {
		return model.SchemeRef{}
	}
	if len(refs) > maxOracleCandidate {
		refs = refs[:maxOracleCandidate]
	}

	raw := strings.TrimSpace(m.oracle.IdentifyScheme(ctx, q.Text, refs))
	ref := MatchOracleAnswer(raw, refs)
	logx.Debug().
		Str("component", "scheme_resolver").
		Str("oracle_answer", raw).
		Str("scheme_id", ref.ID).
		Msg("Oracle scheme identification")
	return ref
}

// MatchOracleAnswer interprets an oracle answer against refs. Long free-text
// explanations and NONE map to the zero SchemeRef.
func MatchOracleAnswer(raw string, refs []model.SchemeRef) model.SchemeRef {
	raw = strings.TrimSpace(raw)
	normalized := strings.ReplaceAll(strings.ToUpper(raw), " ", "_")
	if utf8.RuneCountInString(raw) > maxExplanationLen && !strings.Contains(raw, "_") && !strings.Contains(normalized, "NONE") {
		return model.SchemeRef{}
	}
	if normalized == "" || normalized == "N/A" || strings.Contains(normalized, "NONE") {
		return model.SchemeRef{}
	}

	var best model.SchemeRef
	for _, ref := range refs {
		if strings.Contains(normalized, ref.ID) && len(ref.ID) > len(best.ID) {
			best = ref
		}
	}
	if best.Found() {
		return best
	}
	return matchName(refs, raw)
}
