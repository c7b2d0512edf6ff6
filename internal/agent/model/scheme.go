package model

import "strings"

// Region is a state code scoping a scheme.
type Region string

const (
	RegionAP Region = "AP"
	RegionTS Region = "TS"
)

// Regions lists the supported regions in lookup order.
var Regions = []Region{RegionAP, RegionTS}

// ParseRegion accepts a region code in any case.
func ParseRegion(v string) (Region, bool) {
	switch Region(strings.ToUpper(strings.TrimSpace(v))) {
	case RegionAP:
		return RegionAP, true
	case RegionTS:
		return RegionTS, true
	}
	return "", false
}

// ApplicationSteps groups online and offline application instructions.
type ApplicationSteps struct {
	Online  []string `json:"online" yaml:"online"`
	Offline []string `json:"offline" yaml:"offline"`
}

// SchemeRecord is the read-only catalog entry for one welfare scheme.
type SchemeRecord struct {
	SchemeID          string           `json:"scheme_id" yaml:"scheme_id"`
	RegionCode        Region           `json:"region" yaml:"region"`
	DisplayName       string           `json:"name" yaml:"name"`
	Description       string           `json:"description" yaml:"description"`
	Benefits          []string         `json:"benefits" yaml:"benefits"`
	DocumentsRequired []string         `json:"documents_required" yaml:"documents"`
	ApplicationSteps  ApplicationSteps `json:"application_steps" yaml:"application"`
	EligibilityText   string           `json:"eligibility_text" yaml:"eligibility_text"`
	Helpline          string           `json:"helpline,omitempty" yaml:"helpline"`
}

// Ref returns the identifier/name pair for the record.
func (r SchemeRecord) Ref() SchemeRef {
	return SchemeRef{ID: r.SchemeID, Name: r.DisplayName}
}

// SchemeRef identifies a scheme for resolution and menus.
type SchemeRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Found reports whether the reference points at a scheme.
func (r SchemeRef) Found() bool {
	return r.ID != ""
}

// Predicate keys with non-equality semantics.
const (
	PredicateAgeMin      = "age_min"
	PredicateAgeRange    = "age_range"
	PredicateIncomeBelow = "income_below"
)

// EligibilityRule is a declarative predicate set; empty Rules means everyone qualifies.
type EligibilityRule struct {
	SchemeID string         `json:"scheme_id" yaml:"scheme_id"`
	Rules    map[string]any `json:"rules" yaml:"rules"`
}
