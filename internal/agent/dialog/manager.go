// Package dialog holds the per-turn dialogue logic: input normalization,
// understanding, conflict and correction handling, planning, and response
// composition. Every step mutates the ConversationState it is given; the graph
// package wires the steps together.
package dialog

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/scheme-assistant/server/internal/agent/model"
	"github.com/scheme-assistant/server/internal/agent/schemes"
	logx "github.com/scheme-assistant/server/pkg/logger"
)

// NLU is the understanding surface the dialogue needs. Implementations must
// not fail: oracle trouble degrades to IntentUnknown or an empty result.
type NLU interface {
	ClassifyIntent(ctx context.Context, text string) model.Intent
	ExtractSlots(ctx context.Context, text string, profile model.Slots, history []model.HistoryEntry) map[string]any
}

// Catalog is the read-only content store.
type Catalog interface {
	GetSchemesByRegion(region model.Region) []model.SchemeRecord
	GetSchemeDetails(id string) (model.SchemeRecord, error)
	GetSchemesByCategory(category string, region model.Region) []model.SchemeRecord
}

// RuleStore supplies the eligibility rules once at construction.
type RuleStore interface {
	LoadRules() []model.EligibilityRule
}

// SchemeResolver maps free text to a scheme reference.
type SchemeResolver interface {
	Resolve(ctx context.Context, q schemes.Query) model.SchemeRef
}

type Manager struct {
	nlu        NLU
	catalog    Catalog
	resolver   SchemeResolver
	rules      []model.EligibilityRule
	cfg        model.DialogConfig
	now        func() time.Time
	categories []string
	names      []string
}

type Option func(*Manager)

// WithClock replaces time.Now for time queries.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

func WithConfig(cfg model.DialogConfig) Option {
	return func(m *Manager) { m.cfg = cfg }
}

func NewManager(nlu NLU, catalog Catalog, rules RuleStore, resolver SchemeResolver, opts ...Option) *Manager {
	m := &Manager{
		nlu:        nlu,
		catalog:    catalog,
		resolver:   resolver,
		rules:      rules.LoadRules(),
		now:        time.Now,
		categories: schemes.Categories(),
	}
	for _, o := range opts {
		o(m)
	}
	m.cfg = m.cfg.WithDefaults()
	for _, r := range model.Regions {
		for _, rec := range catalog.GetSchemesByRegion(r) {
			m.names = append(m.names, rec.DisplayName)
		}
	}
	// Longest first, so "ఆరోగ్యశ్రీ తెలంగాణ" is masked before "ఆరోగ్యశ్రీ".
	sort.SliceStable(m.names, func(i, j int) bool { return len(m.names[i]) > len(m.names[j]) })
	return m
}

func (m *Manager) Config() model.DialogConfig {
	return m.cfg
}

// Input starts a turn: repairs the carried state, resets scratch fields,
// normalizes the utterance and records it in history.
func (m *Manager) Input(ctx context.Context, s *model.ConversationState, text string) {
	s.EnsureInit()
	if s.Repair() {
		logx.Warn().Bool("needs_confirmation", s.NeedsConfirmation).Msg("Repaired inconsistent confirmation state")
	}
	s.ResetTurn()
	s.UserText = SanitizeText(text)
	s.AppendHistory(model.RoleUser, s.UserText, m.cfg.HistoryLimit)
	s.IterationCount++
}

// Finalize records the assistant utterance in history.
func (m *Manager) Finalize(ctx context.Context, s *model.ConversationState) {
	if strings.TrimSpace(s.Response) == "" {
		s.Response = msgHowCanIHelp
	}
	s.AppendHistory(model.RoleAssistant, s.Response, m.cfg.HistoryLimit)
	logx.Debug().
		Str("intent", string(s.Intent)).
		Str("action", string(s.NextAction)).
		Str("followup", string(s.PendingFollowup)).
		Int("iteration", s.IterationCount).
		Msg("Turn finalized")
}

// region returns the profile's region, if known.
func region(s *model.ConversationState) model.Region {
	v, _ := s.Slots.Str(model.FieldState)
	r, _ := model.ParseRegion(v)
	return r
}

// maskSchemeNames blanks catalog scheme names so that words inside them
// ("రైతు భరోసా") are not read as profile facts.
func (m *Manager) maskSchemeNames(text string) string {
	for _, n := range m.names {
		if n != "" {
			text = strings.ReplaceAll(text, n, " ")
		}
	}
	return text
}

func (m *Manager) mentionsSchemeName(text string) bool {
	compactText := strings.Join(strings.Fields(text), "")
	for _, n := range m.names {
		if n == "" {
			continue
		}
		if strings.Contains(text, n) || strings.Contains(compactText, strings.Join(strings.Fields(n), "")) {
			return true
		}
	}
	return false
}
