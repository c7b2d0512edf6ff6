package dialog

import (
	"context"

	"github.com/scheme-assistant/server/internal/agent/model"
	"github.com/scheme-assistant/server/internal/agent/schemes"
	logx "github.com/scheme-assistant/server/pkg/logger"
)

// Knowledge answers informational turns: category and region listings and
// details of a named scheme.
func (m *Manager) Knowledge(ctx context.Context, s *model.ConversationState) {
	text := s.UserText
	r := region(s)

	if c := categoryOf(text, m.categories); c != "" {
		if recs := m.catalog.GetSchemesByCategory(c, r); len(recs) > 0 {
			logx.Debug().Str("category", c).Int("schemes", len(recs)).Msg("Listing schemes by category")
			m.presentMenu(s, recs, m.cfg.ListLimit, renderCategoryList)
			return
		}
	}

	if s.Intent == model.IntentSchemeList {
		if r == "" {
			askSlot(s, model.FieldState)
			return
		}
		m.presentRegion(s, r, m.cfg.ListLimit)
		return
	}

	if ref := m.resolver.Resolve(ctx, schemes.Query{Text: text, Region: r}); ref.Found() {
		m.showScheme(s, ref, true)
		return
	}

	if r == "" {
		askSlot(s, model.FieldState)
		return
	}
	if containsAny(text, listWords) {
		m.presentRegion(s, r, m.cfg.MenuLimit)
		return
	}
	s.Response = msgRephrase
}

func (m *Manager) presentRegion(s *model.ConversationState, r model.Region, limit int) {
	label := regionLabel(string(r))
	m.presentMenu(s, m.catalog.GetSchemesByRegion(r), limit, func(names []string, limit int) string {
		return renderRegionList(label, names, limit)
	})
}

// presentMenu renders a numbered scheme list and arms the selection follow-up.
func (m *Manager) presentMenu(s *model.ConversationState, recs []model.SchemeRecord, limit int, render func([]string, int) string) {
	if len(recs) > limit {
		recs = recs[:limit]
	}
	ids := make([]string, 0, len(recs))
	names := make([]string, 0, len(recs))
	for _, rec := range recs {
		ids = append(ids, rec.SchemeID)
		names = append(names, rec.DisplayName)
	}
	s.Present(ids, names)
	s.PendingFollowup = model.FollowupChooseScheme
	s.Response = render(names, limit)
}

func askSlot(s *model.ConversationState, f model.Field) {
	s.Ask(f)
	s.Response = Question(f)
}
