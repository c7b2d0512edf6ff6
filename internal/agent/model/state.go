package model

// Roles recorded in the turn history.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// DefaultHistoryLimit bounds ConversationState.History.
const DefaultHistoryLimit = 20

// HistoryEntry is one utterance in the bounded turn history.
type HistoryEntry struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Conflict records a contradiction between a stored critical slot and a newly
// extracted one.
type Conflict struct {
	From Value `json:"from"`
	To   Value `json:"to"`
}

// ConversationState is the full per-session dialogue state. One turn owns it
// exclusively; callers serialize turns per session.
type ConversationState struct {
	UserText string `json:"user_text"`
	Intent   Intent `json:"intent"`
	Slots    Slots  `json:"slots"`

	PendingConflicts  map[Field]Conflict `json:"pending_conflicts"`
	PendingUpdates    Slots              `json:"pending_updates"`
	NeedsConfirmation bool               `json:"needs_confirmation"`

	// LastQuestionSlot is empty when no slot question is outstanding.
	LastQuestionSlot Field    `json:"last_question_slot,omitempty"`
	PendingFollowup  Followup `json:"pending_followup,omitempty"`

	LastReferencedSchemeID   string `json:"last_referenced_scheme_id,omitempty"`
	LastReferencedSchemeName string `json:"last_referenced_scheme_name,omitempty"`

	LastPresentedSchemeIDs   []string `json:"last_presented_eligible_scheme_ids"`
	LastPresentedSchemeNames []string `json:"last_presented_eligible_scheme_names"`

	EligibleSchemes []string       `json:"eligible_schemes"`
	History         []HistoryEntry `json:"history"`
	IterationCount  int            `json:"iteration_count"`

	Response string `json:"response"`

	// Per-turn scratch; reset by the input step and never persisted.
	NextAction    Action  `json:"-"`
	Extracted     Slots   `json:"-"`
	OracleCostUSD float64 `json:"-"`
}

// NewConversationState returns an empty initial state.
func NewConversationState() *ConversationState {
	return &ConversationState{
		Intent:           IntentUnknown,
		Slots:            Slots{},
		PendingConflicts: map[Field]Conflict{},
		PendingUpdates:   Slots{},
		EligibleSchemes:  []string{},
		History:          []HistoryEntry{},
	}
}

// EnsureInit fills nil maps/slices of a state that was decoded or built by hand.
func (s *ConversationState) EnsureInit() {
	if s.Slots == nil {
		s.Slots = Slots{}
	}
	if s.PendingConflicts == nil {
		s.PendingConflicts = map[Field]Conflict{}
	}
	if s.PendingUpdates == nil {
		s.PendingUpdates = Slots{}
	}
	if s.EligibleSchemes == nil {
		s.EligibleSchemes = []string{}
	}
	if s.History == nil {
		s.History = []HistoryEntry{}
	}
	if s.Intent == "" {
		s.Intent = IntentUnknown
	}
}

// ResetTurn clears per-turn scratch fields.
func (s *ConversationState) ResetTurn() {
	s.Response = ""
	s.NextAction = ActionNone
	s.Extracted = Slots{}
	s.OracleCostUSD = 0
}

// AppendHistory appends an entry and evicts the oldest entries beyond limit.
func (s *ConversationState) AppendHistory(role, content string, limit int) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	s.History = append(s.History, HistoryEntry{Role: role, Content: content})
	if n := len(s.History); n > limit {
		trimmed := make([]HistoryEntry, limit)
		copy(trimmed, s.History[n-limit:])
		s.History = trimmed
	}
}

// Terminate records the final utterance and stops routing for this turn.
func (s *ConversationState) Terminate(response string) {
	s.Response = response
	s.NextAction = ActionEnd
}

// Terminated reports whether an earlier step already ended the turn.
func (s *ConversationState) Terminated() bool {
	return s.NextAction == ActionEnd
}

// StageConflicts records contradictions awaiting confirmation.
func (s *ConversationState) StageConflicts(conflicts map[Field]Conflict, updates Slots) {
	s.PendingConflicts = conflicts
	s.PendingUpdates = updates
	s.NeedsConfirmation = len(conflicts) > 0
}

// ClearConflicts drops any staged contradiction.
func (s *ConversationState) ClearConflicts() {
	s.PendingConflicts = map[Field]Conflict{}
	s.PendingUpdates = Slots{}
	s.NeedsConfirmation = false
}

// CommitPendingUpdates applies every staged update to the profile and clears
// the conflict bookkeeping.
func (s *ConversationState) CommitPendingUpdates() {
	for f, v := range s.PendingUpdates {
		if str, ok := v.AsString(); ok && str == "" {
			continue
		}
		s.Slots.Set(f, v)
	}
	s.ClearConflicts()
}

// ClearSchemeContext forgets eligibility results and every scheme in focus.
func (s *ConversationState) ClearSchemeContext() {
	s.EligibleSchemes = []string{}
	s.LastPresentedSchemeIDs = nil
	s.LastPresentedSchemeNames = nil
	s.LastReferencedSchemeID = ""
	s.LastReferencedSchemeName = ""
}

// Reference puts a scheme in focus and arms the details follow-up.
func (s *ConversationState) Reference(id, name string) {
	s.LastReferencedSchemeID = id
	s.LastReferencedSchemeName = name
	s.PendingFollowup = FollowupSchemeDetails
}

// Present records a numbered scheme menu shown to the user.
func (s *ConversationState) Present(ids, names []string) {
	s.LastPresentedSchemeIDs = append([]string(nil), ids...)
	s.LastPresentedSchemeNames = append([]string(nil), names...)
}

// Ask records the slot the assistant is now asking for.
func (s *ConversationState) Ask(f Field) {
	s.LastQuestionSlot = f
	s.PendingFollowup = FollowupEligibilityClarification
}

// Repair restores needsConfirmation <=> pendingConflicts. It returns true when
// the stored record violated the invariant.
func (s *ConversationState) Repair() bool {
	want := len(s.PendingConflicts) > 0
	if s.NeedsConfirmation == want {
		return false
	}
	s.NeedsConfirmation = want
	if !want {
		s.PendingUpdates = Slots{}
	}
	return true
}

// Clone returns a deep copy.
func (s *ConversationState) Clone() *ConversationState {
	if s == nil {
		return nil
	}
	out := *s
	out.Slots = s.Slots.Clone()
	out.PendingUpdates = s.PendingUpdates.Clone()
	out.Extracted = s.Extracted.Clone()
	out.PendingConflicts = make(map[Field]Conflict, len(s.PendingConflicts))
	for k, v := range s.PendingConflicts {
		out.PendingConflicts[k] = v
	}
	out.LastPresentedSchemeIDs = append([]string(nil), s.LastPresentedSchemeIDs...)
	out.LastPresentedSchemeNames = append([]string(nil), s.LastPresentedSchemeNames...)
	out.EligibleSchemes = append([]string{}, s.EligibleSchemes...)
	out.History = append([]HistoryEntry{}, s.History...)
	return &out
}

// TurnInput is the turn invocation contract: utterance plus optional prior state.
type TurnInput struct {
	ConversationID string             `json:"conversation_id"`
	Text           string             `json:"text"`
	Prior          *ConversationState `json:"prior,omitempty"`
}
