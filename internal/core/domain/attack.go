package domain

import "time"

// AttackQuickFilter selects a predefined attack view.
type AttackQuickFilter string

// Quick filters recognised by the platform.
const (
	AttackFilterAll        AttackQuickFilter = "ALL"
	AttackFilterActive     AttackQuickFilter = "ACTIVE"
	AttackFilterManual     AttackQuickFilter = "MANUAL"
	AttackFilterAutomated  AttackQuickFilter = "AUTOMATED"
	AttackFilterProduction AttackQuickFilter = "PRODUCTION"
	AttackFilterEffective  AttackQuickFilter = "EFFECTIVE"
)

// AllAttackQuickFilters returns every recognised quick filter.
func AllAttackQuickFilters() []AttackQuickFilter {
	return []AttackQuickFilter{
		AttackFilterAll, AttackFilterActive, AttackFilterManual,
		AttackFilterAutomated, AttackFilterProduction, AttackFilterEffective,
	}
}

// Attack is a runtime attack observed by a protect agent.
type Attack struct {
	ID           string
	Source       string
	Status       string
	Result       string
	Rules        []string
	Applications []string
	Probes       int
	StartTime    time.Time
	EndTime      time.Time
}

// AttackFilter is passed through to the attack page source.
type AttackFilter struct {
	QuickFilter AttackQuickFilter
	Keyword     string
}
