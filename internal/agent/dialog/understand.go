package dialog

import (
	"context"
	"strings"

	"github.com/scheme-assistant/server/internal/agent/model"
	logx "github.com/scheme-assistant/server/pkg/logger"
)

// Understand resolves a pending confirmation, classifies the intent, extracts
// and merges slots, and stages conflicts. It ends the turn on a confirmed
// update or a fresh conflict.
func (m *Manager) Understand(ctx context.Context, s *model.ConversationState) {
	if s.NeedsConfirmation && IsConfirmation(s.UserText) {
		s.CommitPendingUpdates()
		s.Terminate(msgConfirmed)
		logx.Debug().Msg("Pending slot updates confirmed")
		return
	}

	s.Intent = m.classify(ctx, s)
	s.Extracted = m.extract(ctx, s)
	m.merge(s)
}

// classify applies the deterministic overrides, first match wins, then
// falls back to the oracle.
func (m *Manager) classify(ctx context.Context, s *model.ConversationState) model.Intent {
	text := s.UserText

	if s.PendingFollowup.Elliptical() {
		if _, isNum := NumberChoice(text); isNum || IsAffirmative(text) {
			return model.IntentEligibilityCheck
		}
		s.PendingFollowup = model.FollowupNone
	}
	if s.PendingFollowup == model.FollowupEligibilityClarification {
		return model.IntentEligibilityCheck
	}
	if IsGreeting(text) {
		return model.IntentGreeting
	}
	if strings.Contains(text, "పెన్షన్") && containsAny(text, pensionWords) {
		return model.IntentEligibilityCheck
	}
	if containsAny(text, schemeEligWords) && m.mentionsSchemeName(text) {
		return model.IntentEligibilityCheck
	}

	intent := m.nlu.ClassifyIntent(ctx, text)
	logx.Debug().Str("intent", string(intent)).Msg("Intent classified by oracle")
	return intent
}

// extract runs both extractors and merges their results.
func (m *Manager) extract(ctx context.Context, s *model.ConversationState) model.Slots {
	oracle := NormalizeSlots(m.nlu.ExtractSlots(ctx, s.UserText, s.Slots.Clone(), m.contextTurns(s)))
	det := ExtractDeterministic(m.maskSchemeNames(s.UserText))
	answerBareNumber(s, det)
	merged := MergeExtractions(oracle, det)
	logx.Debug().
		Int("oracle_slots", len(oracle)).
		Int("pattern_slots", len(det)).
		Int("merged_slots", len(merged)).
		Msg("Slots extracted")
	return merged
}

// answerBareNumber reads a bare number ("45") as the answer to an
// outstanding age or income question.
func answerBareNumber(s *model.ConversationState, det model.Slots) {
	q := s.LastQuestionSlot
	if s.PendingFollowup != model.FollowupEligibilityClarification || det.Has(q) {
		return
	}
	if q != model.FieldAge && q != model.FieldIncome {
		return
	}
	if !bareNumber.MatchString(s.UserText) {
		return
	}
	if v, ok := NormalizeValue(q, s.UserText); ok {
		det.Set(q, v)
	}
}

// contextTurns returns the history before the current utterance, bounded by
// the configured NLU context size.
func (m *Manager) contextTurns(s *model.ConversationState) []model.HistoryEntry {
	h := s.History
	if n := len(h); n > 0 {
		h = h[:n-1]
	}
	if limit := m.cfg.NLUContextTurns; len(h) > limit {
		h = h[len(h)-limit:]
	}
	return append([]model.HistoryEntry(nil), h...)
}

func present(v model.Value, ok bool) bool {
	if !ok || !v.IsSet() {
		return false
	}
	if str, isStr := v.AsString(); isStr && str == "" {
		return false
	}
	return true
}

// merge commits non-conflicting extractions and stages contradictions of
// critical fields for confirmation.
func (m *Manager) merge(s *model.ConversationState) {
	conflicts := map[model.Field]model.Conflict{}
	updates := model.Slots{}

	for _, f := range model.CriticalFields {
		nv, ok := s.Extracted.Get(f)
		if !present(nv, ok) {
			continue
		}
		prev, had := s.Slots.Get(f)
		if present(prev, had) && !prev.Equal(nv) {
			conflicts[f] = model.Conflict{From: prev, To: nv}
			updates.Set(f, nv)
			continue
		}
		s.Slots.Set(f, nv)
	}

	for f, v := range s.Extracted {
		if model.IsCritical(f) || !v.IsSet() {
			continue
		}
		s.Slots.Set(f, v)
	}

	if len(conflicts) > 0 {
		s.StageConflicts(conflicts, updates)
		s.ClearSchemeContext()
		if _, ok := conflicts[model.FieldState]; ok {
			if s.PendingFollowup.Elliptical() {
				s.PendingFollowup = model.FollowupNone
			}
			if s.LastQuestionSlot == model.FieldState {
				s.LastQuestionSlot = ""
			}
		}
		s.Terminate(conflictPrompt(conflicts))
		logx.Debug().Int("conflicts", len(conflicts)).Msg("Slot conflicts staged for confirmation")
	} else {
		s.ClearConflicts()
	}

	if q := s.LastQuestionSlot; q != "" && s.Extracted.Has(q) {
		s.LastQuestionSlot = ""
	}
}
