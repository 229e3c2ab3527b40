// Package rules holds the ILR validation rule catalog and the engine that
// runs it over a submission.
//
// Every rule is a small struct embedding validation.RuleBase. Rules are pure
// functions of the record graph plus read-only reference data: they keep no
// state between Validate calls and never return errors. Violations go to the
// handler the rule was built with.
package rules

import (
	"errors"
	"fmt"
	"time"

	"github.com/solatis/ilrkeeper/internal/predicates"
	"github.com/solatis/ilrkeeper/internal/refdata"
	"github.com/solatis/ilrkeeper/internal/types"
	"github.com/solatis/ilrkeeper/internal/validation"
)

// Rule identifiers. These are the names reported on every violation.
const (
	RuleR06                     = "R06"
	RuleR59                     = "R59"
	RuleR85                     = "R85"
	RuleR107                    = "R107"
	RuleAimSeqNumber02          = "AimSeqNumber_02"
	RuleR30                     = "R30"
	RuleR52                     = "R52"
	RuleR121                    = "R121"
	RuleR104                    = "R104"
	RuleR112                    = "R112"
	RuleLearnDelFAMType73       = "LearnDelFAMType_73"
	RuleEmpStat01               = "EmpStat_01"
	RuleLearnFAMType16          = "LearnFAMType_16"
	RulePrimaryLLDD04           = "PrimaryLLDD_04"
	RuleContPrefType07          = "ContPrefType_07"
	RuleProvSpecLearnMonOccur01 = "ProvSpecLearnMonOccur_01"
	RuleLearnStartDate02        = "LearnStartDate_02"
	RuleWorkPlaceStartDate01    = "WorkPlaceStartDate_01"
	RuleLearnAimRef01           = "LearnAimRef_01"
	RuleULN03                   = "ULN_03"
	RuleConRefNumber01          = "ConRefNumber_01"
)

var knownRules = map[string]bool{
	RuleR06: true, RuleR59: true, RuleR85: true, RuleR107: true,
	RuleAimSeqNumber02: true, RuleR30: true, RuleR52: true, RuleR121: true,
	RuleR104: true, RuleR112: true, RuleLearnDelFAMType73: true, RuleEmpStat01: true,
	RuleLearnFAMType16: true, RulePrimaryLLDD04: true, RuleContPrefType07: true,
	RuleProvSpecLearnMonOccur01: true, RuleLearnStartDate02: true, RuleWorkPlaceStartDate01: true,
	RuleLearnAimRef01: true, RuleULN03: true, RuleConRefNumber01: true,
}

// CheckRuleNames returns ErrInvalidConfig naming every entry of names that
// is not a catalog rule. Names are case-sensitive.
func CheckRuleNames(names []string) error {
	var errs []error
	for _, name := range names {
		if !knownRules[name] {
			errs = append(errs, fmt.Errorf("%w: unknown rule %q", ErrInvalidConfig, name))
		}
	}
	return errors.Join(errs...)
}

// Rules reported as warnings. Everything else is an error.
var warnings = map[string]bool{
	RuleR85:                     true,
	RuleContPrefType07:          true,
	RuleProvSpecLearnMonOccur01: true,
	RuleWorkPlaceStartDate01:    true,
}

// SeverityOf returns the severity a rule's violations carry.
func SeverityOf(ruleName string) validation.Severity {
	if warnings[ruleName] {
		return validation.SeverityWarning
	}
	return validation.SeverityError
}

// Config carries the tunables some rules read at construction.
type Config struct {
	// First day of the collection year being validated.
	CollectionYearStart time.Time

	// LearnStartDate_02 flags starts more than this many years before
	// CollectionYearStart.
	StartDateLookbackYears int

	// Comparison LearnStartDate_02 applies between a start date and its cutoff.
	StartDateOperator predicates.DateOperator

	// Maximum occurrences per LearnerFAM type; types not listed are unlimited.
	LearnerFAMLimits map[string]int

	// Rule names left out of the catalog.
	DisabledRules []string
}

// DefaultLearnerFAMLimits caps LearnerFAM types that may appear a bounded
// number of times per learner.
func DefaultLearnerFAMLimits() map[string]int {
	return map[string]int{
		"HNS": 1,
		"EHC": 1,
		"DLA": 1,
		"SEN": 1,
		"MCF": 1,
		"ECF": 1,
		"FME": 1,
		"NLM": 2,
		"EDF": 2,
		"PPE": 2,
		"LSR": 4,
	}
}

// CollectionYearStartFor returns 1 August of the collection year containing t.
func CollectionYearStartFor(t time.Time) time.Time {
	year := t.Year()
	if t.Month() < time.August {
		year--
	}
	return time.Date(year, time.August, 1, 0, 0, 0, 0, time.UTC)
}

// DefaultConfig returns the configuration for the current collection year.
func DefaultConfig() Config {
	return Config{
		CollectionYearStart:    CollectionYearStartFor(time.Now().UTC()),
		StartDateLookbackYears: 10,
		StartDateOperator:      predicates.OpBefore,
		LearnerFAMLimits:       DefaultLearnerFAMLimits(),
	}
}

// Catalog is the set of rules one validation run executes.
type Catalog struct {
	MessageRules []validation.ValidationRule[*types.Message]
	LearnerRules []validation.ValidationRule[*types.Learner]
}

// RuleNames returns every rule name, message rules first, in registration order.
func (c *Catalog) RuleNames() []string {
	names := make([]string, 0, c.Len())
	for _, r := range c.MessageRules {
		names = append(names, r.RuleName())
	}
	for _, r := range c.LearnerRules {
		names = append(names, r.RuleName())
	}
	return names
}

// Len returns the number of rules in the catalog.
func (c *Catalog) Len() int {
	return len(c.MessageRules) + len(c.LearnerRules)
}

type catalogBuilder struct {
	disabled map[string]bool
	catalog  *Catalog
	errs     []error
}

func (b *catalogBuilder) message(rule validation.ValidationRule[*types.Message], err error) {
	if err != nil {
		b.errs = append(b.errs, err)
		return
	}
	if !b.disabled[rule.RuleName()] {
		b.catalog.MessageRules = append(b.catalog.MessageRules, rule)
	}
}

func (b *catalogBuilder) learner(rule validation.ValidationRule[*types.Learner], err error) {
	if err != nil {
		b.errs = append(b.errs, err)
		return
	}
	if !b.disabled[rule.RuleName()] {
		b.catalog.LearnerRules = append(b.catalog.LearnerRules, rule)
	}
}

// NewCatalog constructs every rule against one handler.
//
// Rules that consult reference data are only registered when provider is
// non-nil and holds the kind of data the rule reads (see refdata.Sourced).
// Construction errors from all rules are joined.
func NewCatalog(handler validation.ErrorHandler, provider refdata.Provider, cfg Config) (*Catalog, error) {
	b := &catalogBuilder{
		disabled: make(map[string]bool, len(cfg.DisabledRules)),
		catalog:  &Catalog{},
	}
	if err := CheckRuleNames(cfg.DisabledRules); err != nil {
		return nil, fmt.Errorf("disabled rules: %w", err)
	}
	for _, name := range cfg.DisabledRules {
		b.disabled[name] = true
	}

	b.message(NewR06(handler))
	b.message(NewR59(handler))
	b.message(NewR85(handler))
	b.message(NewR107(handler))

	b.learner(NewAimSeqNumber02(handler))
	b.learner(NewR30(handler))
	b.learner(NewR52(handler))
	b.learner(NewR121(handler))
	b.learner(NewR104(handler))
	b.learner(NewR112(handler))
	b.learner(NewLearnDelFAMType73(handler))
	b.learner(NewEmpStat01(handler))
	b.learner(NewLearnFAMType16(handler, cfg.LearnerFAMLimits))
	b.learner(NewPrimaryLLDD04(handler))
	b.learner(NewContPrefType07(handler))
	b.learner(NewProvSpecLearnMonOccur01(handler))
	b.learner(NewLearnStartDate02(handler, cfg))
	b.learner(NewWorkPlaceStartDate01(handler))

	if provider != nil {
		sources := refdata.SourcesOf(provider)
		if sources.Has(refdata.SourceLearningAims) {
			b.learner(NewLearnAimRef01(handler, provider))
		}
		if sources.Has(refdata.SourceULNs) {
			b.learner(NewULN03(handler, provider))
		}
		if sources.Has(refdata.SourceContracts) {
			b.learner(NewConRefNumber01(handler, provider))
		}
	}

	if len(b.errs) > 0 {
		return nil, errors.Join(b.errs...)
	}
	return b.catalog, nil
}
