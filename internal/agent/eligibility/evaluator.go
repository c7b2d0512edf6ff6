// Package eligibility matches a user profile against declarative scheme rules.
package eligibility

import (
	"encoding/json"
	"math"

	"github.com/scheme-assistant/server/internal/agent/model"
)

// Evaluate returns the identifiers of every rule the profile satisfies, in rule
// order. A rule with no predicates always passes; a predicate over a field the
// profile does not carry never does. Evaluate is pure.
func Evaluate(profile model.Slots, rules []model.EligibilityRule) []string {
	out := []string{}
	for _, r := range rules {
		if Satisfies(profile, r) {
			out = append(out, r.SchemeID)
		}
	}
	return out
}

// Satisfies reports whether every predicate of r holds for profile.
func Satisfies(profile model.Slots, r model.EligibilityRule) bool {
	for key, want := range r.Rules {
		if !predicate(profile, key, want) {
			return false
		}
	}
	return true
}

func predicate(profile model.Slots, key string, want any) bool {
	switch key {
	case model.PredicateAgeMin:
		age, ok := profile.Int(model.FieldAge)
		min, wok := IntValue(want)
		return ok && wok && age >= min
	case model.PredicateAgeRange:
		age, ok := profile.Int(model.FieldAge)
		lo, hi, wok := RangeValue(want)
		return ok && wok && lo <= age && age <= hi
	case model.PredicateIncomeBelow:
		income, ok := profile.Int(model.FieldIncome)
		limit, wok := IntValue(want)
		return ok && wok && income < limit
	default:
		have, ok := profile.Get(model.Field(key))
		if !ok {
			return false
		}
		wantV, ok := model.ValueOf(want)
		return ok && have.Equal(wantV)
	}
}

// IntValue converts a decoded rule operand to int.
func IntValue(v any) (int, bool) {
	switch t := v.(type) {
	case int:
		return t, true
	case int32:
		return int(t), true
	case int64:
		return int(t), true
	case uint64:
		return int(t), true
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) || t != math.Trunc(t) {
			return 0, false
		}
		return int(t), true
	case json.Number:
		n, err := t.Int64()
		return int(n), err == nil
	}
	return 0, false
}

// RangeValue converts a two-element rule operand to an inclusive [lo, hi].
func RangeValue(v any) (lo, hi int, ok bool) {
	var pair []any
	switch t := v.(type) {
	case []any:
		pair = t
	case []int:
		pair = []any{}
		for _, n := range t {
			pair = append(pair, n)
		}
	case [2]int:
		return t[0], t[1], t[0] <= t[1]
	default:
		return 0, 0, false
	}
	if len(pair) != 2 {
		return 0, 0, false
	}
	lo, lok := IntValue(pair[0])
	hi, hok := IntValue(pair[1])
	return lo, hi, lok && hok && lo <= hi
}
