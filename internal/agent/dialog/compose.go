package dialog

import (
	"context"
	"fmt"

	"github.com/samber/lo"

	"github.com/scheme-assistant/server/internal/agent/eligibility"
	"github.com/scheme-assistant/server/internal/agent/model"
	"github.com/scheme-assistant/server/internal/agent/schemes"
	errx "github.com/scheme-assistant/server/internal/core/error"
	logx "github.com/scheme-assistant/server/pkg/logger"
)

// Evaluate recomputes the eligible schemes for the current profile.
func (m *Manager) Evaluate(ctx context.Context, s *model.ConversationState) {
	s.EligibleSchemes = eligibility.Evaluate(s.Slots, m.rules)
	logx.Debug().Strs("eligible", s.EligibleSchemes).Int("slots", len(s.Slots)).Msg("Eligibility evaluated")
}

// Compose produces the utterance for the eligibility branch. The first
// matching case answers; every case that shows a scheme also puts it in focus.
func (m *Manager) Compose(ctx context.Context, s *model.ConversationState) {
	text := s.UserText
	r := region(s)
	affirmative := IsAffirmative(text)

	switch {
	case s.Intent == model.IntentTimeQuery:
		s.Response = fmt.Sprintf("ఇప్పుడు సమయం %s.", m.now().Format("15:04"))
		return

	case s.Intent == model.IntentNameQuery:
		if name, ok := s.Slots.Str(model.FieldName); ok {
			s.Response = fmt.Sprintf("మీ పేరు %s.", name)
			return
		}
		s.Response = msgNameUnknown
		return

	case isAgeQuestion(text):
		if age, ok := s.Slots.Int(model.FieldAge); ok {
			s.Response = fmt.Sprintf("మీ వయసు %d సంవత్సరాలు.", age)
			return
		}
		askSlot(s, model.FieldAge)
		return

	case isStateQuestion(text):
		if r == "" {
			askSlot(s, model.FieldState)
			return
		}
		s.Response = fmt.Sprintf("మీ రాష్ట్రం %s.", regionLabel(string(r)))
		return

	case s.Intent == model.IntentSchemeCriteria || containsAny(text, criteriaMarkers):
		m.answerCriteria(ctx, s, r)
		return
	}

	if s.PendingFollowup == model.FollowupChooseScheme && m.choose(ctx, s, affirmative) {
		return
	}

	if isIncomeQuestion(text) {
		if income, ok := s.Slots.Int(model.FieldIncome); ok {
			s.Response = fmt.Sprintf("మీ వార్షిక ఆదాయం సుమారు %d రూపాయలు.", income)
			return
		}
		askSlot(s, model.FieldIncome)
		return
	}

	// A named scheme overrides any earlier menu.
	if ref := m.resolver.Resolve(ctx, schemes.Query{Text: text, Region: r}); ref.Found() {
		if s.Intent == model.IntentEligibilityCheck && containsAny(text, schemeEligWords) {
			s.Response = renderVerdict(ref.Name, lo.Contains(s.EligibleSchemes, ref.ID))
			s.Reference(ref.ID, ref.Name)
			return
		}
		m.showScheme(s, ref, false)
		return
	}

	if s.PendingFollowup == model.FollowupSchemeDetails && affirmative && s.LastReferencedSchemeID != "" {
		m.showApplication(s)
		return
	}

	if r == "" {
		askSlot(s, model.FieldState)
		return
	}

	seeking := s.Intent == model.IntentEligibilityCheck || s.Intent == model.IntentSchemeSearch || s.Intent == model.IntentApply
	if seeking {
		if missing := s.Slots.Missing(model.RequiredFields); len(missing) > 0 {
			askSlot(s, missing[0])
			return
		}
	}

	eligible := lo.Filter(m.catalog.GetSchemesByRegion(r), func(rec model.SchemeRecord, _ int) bool {
		return lo.Contains(s.EligibleSchemes, rec.SchemeID)
	})

	if len(eligible) == 1 && affirmative {
		m.showScheme(s, eligible[0].Ref(), false)
		return
	}

	if seeking && len(eligible) > 0 {
		m.presentMenu(s, eligible, m.cfg.MenuLimit, renderEligibleMenu)
		if len(eligible) == 1 {
			s.Reference(eligible[0].SchemeID, eligible[0].DisplayName)
		}
		return
	}

	if seeking {
		s.LastQuestionSlot = ""
		s.PendingFollowup = model.FollowupNone
		s.Response = msgNoEligible
		return
	}

	s.Response = msgHowCanIHelp
}

func (m *Manager) answerCriteria(ctx context.Context, s *model.ConversationState, r model.Region) {
	ref := m.resolver.Resolve(ctx, schemes.Query{Text: s.UserText, Region: r})
	if !ref.Found() {
		s.Response = msgWhichCriteria
		return
	}
	rec, ok := m.lookup(s, ref.ID)
	if !ok {
		return
	}
	s.Response = renderCriteria(rec)
	s.Reference(rec.SchemeID, rec.DisplayName)
}

// choose resolves a reply to a numbered menu by number or by name. It reports
// whether the turn was answered.
func (m *Manager) choose(ctx context.Context, s *model.ConversationState, affirmative bool) bool {
	ids, names := s.LastPresentedSchemeIDs, s.LastPresentedSchemeNames
	if affirmative {
		if len(names) > 0 {
			s.Response = renderChooseAgain(names, m.cfg.MenuLimit)
			return true
		}
		s.PendingFollowup = model.FollowupNone
	}

	if n, ok := NumberChoice(s.UserText); ok && n >= 1 && n <= len(ids) {
		ref := model.SchemeRef{ID: ids[n-1]}
		if n <= len(names) {
			ref.Name = names[n-1]
		}
		m.showScheme(s, ref, false)
		return true
	}

	if len(ids) > 0 {
		if ref := m.resolver.Resolve(ctx, schemes.Query{Text: s.UserText, Restrict: ids}); ref.Found() {
			m.showScheme(s, ref, false)
			return true
		}
	}

	if len(names) > 0 {
		s.Response = renderChooseAgain(names, m.cfg.MenuLimit)
		return true
	}
	return false
}

// lookup fetches a record, answering with an apology when it is missing.
func (m *Manager) lookup(s *model.ConversationState, id string) (model.SchemeRecord, bool) {
	rec, err := m.catalog.GetSchemeDetails(id)
	if err != nil {
		if !errx.IsNotFound(err) {
			logx.Error().Err(err).Str("scheme_id", id).Msg("Scheme lookup failed")
		} else {
			logx.Debug().Str("scheme_id", id).Msg("Scheme not in catalog")
		}
		s.PendingFollowup = model.FollowupNone
		s.Response = msgSchemeNotFound
		return model.SchemeRecord{}, false
	}
	return rec, true
}

// showScheme renders a scheme and arms the details follow-up.
func (m *Manager) showScheme(s *model.ConversationState, ref model.SchemeRef, full bool) {
	rec, ok := m.lookup(s, ref.ID)
	if !ok {
		return
	}
	s.Response = renderScheme(rec, full)
	s.Reference(rec.SchemeID, lo.Ternary(rec.DisplayName != "", rec.DisplayName, ref.Name))
}

// showApplication answers "tell me more" about the scheme in focus.
func (m *Manager) showApplication(s *model.ConversationState) {
	rec, ok := m.lookup(s, s.LastReferencedSchemeID)
	if !ok {
		return
	}
	s.Response = renderApplication(rec, s.LastReferencedSchemeName)
	s.PendingFollowup = model.FollowupNone
}
