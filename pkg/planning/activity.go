package planning

import (
	"strings"
	"time"
)

// Activity is a planned budget line ("atividade").
type Activity struct {
	Id                  string
	Dimension           string
	FunctionalComponent string
	Process             string
	Name                string
	Description         string
	PlannedAmount       float64
	ResourceOrigin      string
	ExpenseNature       string
	InternalPlan        string
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// Patch holds a partial update. Nil fields are left untouched.
type Patch struct {
	Dimension           *string
	FunctionalComponent *string
	Process             *string
	Name                *string
	Description         *string
	PlannedAmount       *float64
	ResourceOrigin      *string
	ExpenseNature       *string
	InternalPlan        *string
}

func (p Patch) IsEmpty() bool {
	return p == Patch{}
}

func (p Patch) Apply(a Activity) Activity {
	if p.Dimension != nil {
		a.Dimension = *p.Dimension
	}
	if p.FunctionalComponent != nil {
		a.FunctionalComponent = *p.FunctionalComponent
	}
	if p.Process != nil {
		a.Process = *p.Process
	}
	if p.Name != nil {
		a.Name = *p.Name
	}
	if p.Description != nil {
		a.Description = *p.Description
	}
	if p.PlannedAmount != nil {
		a.PlannedAmount = *p.PlannedAmount
	}
	if p.ResourceOrigin != nil {
		a.ResourceOrigin = *p.ResourceOrigin
	}
	if p.ExpenseNature != nil {
		a.ExpenseNature = *p.ExpenseNature
	}
	if p.InternalPlan != nil {
		a.InternalPlan = *p.InternalPlan
	}
	return a
}

// ListFilter narrows activity listings. Empty fields match everything.
type ListFilter struct {
	// Query is matched case-insensitively against name, description and resource origin.
	Query     string
	Dimension string
}

func (f ListFilter) Matches(a Activity) bool {
	if f.Dimension != "" && !strings.Contains(a.Dimension, f.Dimension) {
		return false
	}
	if f.Query == "" {
		return true
	}
	query := strings.ToLower(f.Query)
	return strings.Contains(strings.ToLower(a.Name), query) ||
		strings.Contains(strings.ToLower(a.Description), query) ||
		strings.Contains(strings.ToLower(a.ResourceOrigin), query)
}
