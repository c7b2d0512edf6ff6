package schemes

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/scheme-assistant/server/internal/agent/model"
)

type fakeIdentifier struct {
	answer string
	calls  int
	seen   []model.SchemeRef
}

func (f *fakeIdentifier) IdentifyScheme(_ context.Context, _ string, refs []model.SchemeRef) string {
	f.calls++
	f.seen = refs
	return f.answer
}

func TestNameMatcher(t *testing.T) {
	s := loadStore(t)
	m := NewNameMatcher(s)
	ctx := context.Background()

	ref := m.Resolve(ctx, Query{Text: "అమ్మఒడి గురించి చెప్పండి"})
	assert.Equal(t, "AP_AMMA_VODI", ref.ID)

	ref = m.Resolve(ctx, Query{Text: "రైతు భరోసా", Region: model.RegionTS})
	assert.False(t, ref.Found())

	ref = m.Resolve(ctx, Query{Text: "ఆరోగ్యశ్రీ తెలంగాణ వివరాలు"})
	assert.Equal(t, "TS_AAROGYASRI", ref.ID)

	ref = m.Resolve(ctx, Query{Text: "రైతు భరోసా", Restrict: []string{"AP_AMMA_VODI"}})
	assert.False(t, ref.Found())
}

func TestResolver_DeterministicFirst(t *testing.T) {
	s := loadStore(t)
	oracle := &fakeIdentifier{answer: "TS_RYTHU_BANDHU"}
	r := NewResolver(NewNameMatcher(s), NewOracleMatcher(s, oracle))

	ref := r.Resolve(context.Background(), Query{Text: "రైతు భరోసా వివరాలు", Region: model.RegionAP})
	assert.Equal(t, "AP_RYTHU_BHAROSA", ref.ID)
	assert.Equal(t, 0, oracle.calls)
}

func TestResolver_OracleFallback(t *testing.T) {
	s := loadStore(t)
	oracle := &fakeIdentifier{answer: "ts rythu bandhu"}
	r := NewResolver(NewNameMatcher(s), NewOracleMatcher(s, oracle))

	ref := r.Resolve(context.Background(), Query{Text: "రైతుబందూ ఎప్పుడు వస్తుంది", Region: model.RegionTS})
	assert.Equal(t, "TS_RYTHU_BANDHU", ref.ID)
	assert.Equal(t, "రైతు బంధు", ref.Name)
	assert.Equal(t, 1, oracle.calls)
	for _, c := range oracle.seen {
		assert.Contains(t, c.ID, "TS_")
	}
}

func TestOracleMatcher_SkipsShortText(t *testing.T) {
	s := loadStore(t)
	oracle := &fakeIdentifier{answer: "AP_AMMA_VODI"}

	ref := NewOracleMatcher(s, oracle).Resolve(context.Background(), Query{Text: "అవ"})
	assert.False(t, ref.Found())
	assert.Equal(t, 0, oracle.calls)

	ref = NewOracleMatcher(s, nil).Resolve(context.Background(), Query{Text: "అమ్మ ఒడి"})
	assert.False(t, ref.Found())
}

func TestMatchOracleAnswer(t *testing.T) {
	refs := []model.SchemeRef{
		{ID: "AP_AMMA_VODI", Name: "అమ్మ ఒడి"},
		{ID: "AP_PENSION_KANUKA", Name: "పెన్షన్ కానుక"},
	}

	assert.Equal(t, "AP_AMMA_VODI", MatchOracleAnswer("AP_AMMA_VODI", refs).ID)
	assert.Equal(t, "AP_AMMA_VODI", MatchOracleAnswer("Scheme: ap amma vodi", refs).ID)
	assert.Equal(t, "AP_PENSION_KANUKA", MatchOracleAnswer("పెన్షన్కానుక", refs).ID)
	assert.False(t, MatchOracleAnswer("NONE", refs).Found())
	assert.False(t, MatchOracleAnswer("none of these", refs).Found())
	assert.False(t, MatchOracleAnswer("", refs).Found())
	assert.False(t, MatchOracleAnswer("The user seems to be asking about a mothers welfare programme", refs).Found())
	assert.False(t, MatchOracleAnswer("TS_RYTHU_BANDHU", refs).Found())
}
