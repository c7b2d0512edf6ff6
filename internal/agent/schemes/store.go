package schemes

import (
	_ "embed"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/samber/lo"
	"gopkg.in/yaml.v3"

	"github.com/scheme-assistant/server/internal/agent/model"
	errx "github.com/scheme-assistant/server/internal/core/error"
	logx "github.com/scheme-assistant/server/pkg/logger"
)

//go:embed data/catalog.yaml
var embeddedCatalog []byte

type catalogEntry struct {
	model.SchemeRecord `yaml:",inline"`
	Rules              map[string]any `yaml:"rules"`
}

type catalogFile struct {
	Helpline           string                 `yaml:"helpline"`
	CommonDocuments    []string               `yaml:"common_documents"`
	DefaultApplication model.ApplicationSteps `yaml:"default_application"`
	Schemes            []catalogEntry         `yaml:"schemes"`
}

// Store is the read-only scheme catalog and eligibility rule set. It is built
// once at startup and is safe for concurrent use.
type Store struct {
	records  []model.SchemeRecord
	byID     map[string]int
	byRegion map[model.Region][]int
	rules    []model.EligibilityRule
}

// LoadEmbedded parses the catalog compiled into the binary.
func LoadEmbedded() (*Store, error) {
	return Parse(embeddedCatalog)
}

// Load reads a catalog from path, or the embedded catalog when path is empty.
func Load(path string) (*Store, error) {
	if path == "" {
		return LoadEmbedded()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	return Parse(data)
}

// Parse builds a Store from catalog YAML. Shared documents, default application
// steps, the helpline and rule-derived eligibility text are folded into every
// record here so lookups never recompute them.
func Parse(data []byte) (*Store, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}

	s := &Store{
		byID:     make(map[string]int, len(f.Schemes)),
		byRegion: make(map[model.Region][]int, len(model.Regions)),
	}
	for i, e := range f.Schemes {
		rec := e.SchemeRecord
		rec.SchemeID = strings.TrimSpace(rec.SchemeID)
		rec.DisplayName = strings.TrimSpace(rec.DisplayName)
		if rec.SchemeID == "" || rec.DisplayName == "" {
			return nil, fmt.Errorf("catalog entry %d: scheme_id and name are required", i)
		}
		region, ok := model.ParseRegion(string(rec.RegionCode))
		if !ok {
			return nil, fmt.Errorf("catalog entry %s: unknown region %q", rec.SchemeID, rec.RegionCode)
		}
		if _, dup := s.byID[rec.SchemeID]; dup {
			return nil, fmt.Errorf("catalog entry %s: duplicate scheme_id", rec.SchemeID)
		}
		rec.RegionCode = region

		rec.DocumentsRequired = lo.Uniq(append(append([]string{}, f.CommonDocuments...), rec.DocumentsRequired...))
		if len(rec.ApplicationSteps.Online) == 0 {
			rec.ApplicationSteps.Online = f.DefaultApplication.Online
		}
		if len(rec.ApplicationSteps.Offline) == 0 {
			rec.ApplicationSteps.Offline = f.DefaultApplication.Offline
		}
		if rec.Helpline == "" {
			rec.Helpline = f.Helpline
		}
		rules := e.Rules
		if rules == nil {
			rules = map[string]any{}
		}
		if strings.TrimSpace(rec.EligibilityText) == "" {
			rec.EligibilityText = EligibilityText(rules)
		}
		if rec.Description == "" {
			rec.Description = fmt.Sprintf("%s పథకం %s రాష్ట్ర ప్రభుత్వం అందిస్తున్న సంక్షేమ పథకం", rec.DisplayName, region)
		}

		s.byID[rec.SchemeID] = len(s.records)
		s.byRegion[region] = append(s.byRegion[region], len(s.records))
		s.records = append(s.records, rec)
		s.rules = append(s.rules, model.EligibilityRule{SchemeID: rec.SchemeID, Rules: rules})
	}

	logx.Debug().Str("component", "schemes").Int("schemes", len(s.records)).Msg("Scheme catalog loaded")
	return s, nil
}

// GetSchemesByRegion returns the region's schemes in catalog order.
func (s *Store) GetSchemesByRegion(region model.Region) []model.SchemeRecord {
	idx := s.byRegion[region]
	out := make([]model.SchemeRecord, 0, len(idx))
	for _, i := range idx {
		out = append(out, s.records[i])
	}
	return out
}

// GetSchemeDetails looks a scheme up by identifier. Unknown identifiers yield
// an errx not-found error wrapping errx.ErrSchemeNotFound.
func (s *Store) GetSchemeDetails(id string) (model.SchemeRecord, error) {
	i, ok := s.byID[strings.TrimSpace(id)]
	if !ok {
		return model.SchemeRecord{}, errx.NotFound(id)
	}
	return s.records[i], nil
}

// LoadRules returns the eligibility rules in catalog order.
func (s *Store) LoadRules() []model.EligibilityRule {
	return append([]model.EligibilityRule(nil), s.rules...)
}

// Refs lists id/name pairs for the given regions, or every region when none is given.
func (s *Store) Refs(regions ...model.Region) []model.SchemeRef {
	if len(regions) == 0 {
		regions = model.Regions
	}
	var out []model.SchemeRef
	for _, r := range regions {
		for _, i := range s.byRegion[r] {
			out = append(out, s.records[i].Ref())
		}
	}
	return out
}

// categoryKeywords maps a category to scheme-id fragments.
var categoryKeywords = map[string][]string{
	"farmer":     {"RYTHU", "BHAROSA", "BANDHU", "BHEEMA"},
	"pension":    {"PENSION", "AASARA", "OLD_AGE", "DISABLED"},
	"women":      {"AMMA", "KALYANA", "LAKSHMI", "SHAADI", "CHEYUTHA"},
	"student":    {"SCHOLARSHIP", "FEE", "STUDENT"},
	"housing":    {"HOUSING", "2BHK"},
	"health":     {"AROGYASRI", "AAROGYASRI", "HEALTH", "KCR_KIT"},
	"employment": {"UNEMPLOYMENT", "SKILL", "SELF_EMPLOYMENT"},
}

// Categories lists the known categories in sorted order.
func Categories() []string {
	keys := lo.Keys(categoryKeywords)
	sort.Strings(keys)
	return keys
}

// GetSchemesByCategory returns schemes whose identifier carries one of the
// category's keywords. An empty region searches every region.
func (s *Store) GetSchemesByCategory(category string, region model.Region) []model.SchemeRecord {
	keywords, ok := categoryKeywords[strings.ToLower(strings.TrimSpace(category))]
	if !ok {
		return nil
	}
	regions := model.Regions
	if region != "" {
		regions = []model.Region{region}
	}
	var out []model.SchemeRecord
	for _, r := range regions {
		for _, i := range s.byRegion[r] {
			rec := s.records[i]
			if lo.SomeBy(keywords, func(k string) bool { return strings.Contains(rec.SchemeID, k) }) {
				out = append(out, rec)
			}
		}
	}
	return out
}
