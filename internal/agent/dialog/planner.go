package dialog

import (
	"github.com/scheme-assistant/server/internal/agent/model"
)

// Plan is the routing transition for the rest of the turn. It records and
// returns the chosen action; a greeting is answered in place.
func (m *Manager) Plan(s *model.ConversationState) model.Action {
	s.NextAction = m.route(s)
	return s.NextAction
}

func (m *Manager) route(s *model.ConversationState) model.Action {
	if s.PendingFollowup.Elliptical() {
		return model.ActionEligibility
	}
	if s.Terminated() || s.Response != "" {
		return model.ActionEnd
	}

	empty := len(s.Slots) == 0
	switch s.Intent {
	case model.IntentGreeting:
		s.Terminate(msgGreeting)
		return model.ActionEnd
	case model.IntentTimeQuery, model.IntentNameQuery, model.IntentSchemeCriteria:
		return model.ActionEligibility
	}
	if isProfileQuestion(s.UserText) {
		return model.ActionEligibility
	}

	switch s.Intent {
	case model.IntentSchemeList:
		return model.ActionKnowledge
	case model.IntentSchemeInfo:
		if !containsAny(s.UserText, infoEligWords) {
			return model.ActionKnowledge
		}
	case model.IntentUnknown:
		return model.ActionKnowledge
	}

	switch {
	case s.Intent == model.IntentSchemeSearch && empty:
		return model.ActionKnowledge
	case (s.Intent == model.IntentEligibilityCheck || s.Intent == model.IntentApply) && empty:
		return model.ActionClarification
	case s.Intent == model.IntentSchemeSearch, s.Intent == model.IntentEligibilityCheck, s.Intent == model.IntentApply:
		return model.ActionEligibility
	}
	return model.ActionKnowledge
}
