package model

import "strings"

// Intent is the classified purpose of a user turn.
type Intent string

const (
	IntentGreeting         Intent = "greeting"
	IntentSchemeInfo       Intent = "scheme_info"
	IntentSchemeSearch     Intent = "scheme_search"
	IntentSchemeList       Intent = "scheme_list"
	IntentSchemeCriteria   Intent = "scheme_criteria"
	IntentEligibilityCheck Intent = "eligibility_check"
	IntentApply            Intent = "apply"
	IntentTimeQuery        Intent = "time_query"
	IntentNameQuery        Intent = "name_query"
	IntentUnknown          Intent = "unknown"
)

// Intents lists every intent the classifier may return, in prompt order.
var Intents = []Intent{
	IntentGreeting,
	IntentTimeQuery,
	IntentNameQuery,
	IntentSchemeList,
	IntentSchemeInfo,
	IntentSchemeCriteria,
	IntentSchemeSearch,
	IntentEligibilityCheck,
	IntentApply,
	IntentUnknown,
}

// ParseIntent maps a raw token onto the enumeration. Anything else is IntentUnknown.
func ParseIntent(raw string) Intent {
	v := Intent(strings.ToLower(strings.TrimSpace(raw)))
	for _, it := range Intents {
		if it == v {
			return v
		}
	}
	return IntentUnknown
}

// Followup is what the assistant expects the next turn to be about.
type Followup string

const (
	FollowupNone                     Followup = ""
	FollowupEligibilityClarification Followup = "eligibility_clarification"
	FollowupSchemeDetails            Followup = "scheme_details"
	FollowupChooseScheme             Followup = "choose_scheme_from_eligibility"
)

// Elliptical reports whether the follow-up expects a short selection or
// affirmative referring to a scheme already shown.
func (f Followup) Elliptical() bool {
	return f == FollowupSchemeDetails || f == FollowupChooseScheme
}

// Action is the planner's routing decision for the rest of a turn.
type Action string

const (
	ActionNone          Action = ""
	ActionEnd           Action = "end"
	ActionClarification Action = "clarification"
	ActionEligibility   Action = "eligibility"
	ActionKnowledge     Action = "knowledge"
)
