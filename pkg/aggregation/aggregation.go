package aggregation

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/cristianoafs081993/love-execu-o/pkg/commitment"
	"github.com/cristianoafs081993/love-execu-o/pkg/planning"
)

const (
	DefaultTopComponents     = 5
	DefaultTopExpenseNatures = 10
	NotInformed              = "Não Informado"
)

// Snapshot is the record set every view is computed from. Views never modify it.
type Snapshot struct {
	Activities  []planning.Activity
	Commitments []commitment.Commitment
}

type Totals struct {
	Planned   float64
	Committed float64
	// Liquidated sums every commitment, canceled ones included.
	Liquidated            float64
	Paid                  float64
	Balance               float64
	ExecutionPercentage   float64
	ActivityCount         int
	ActiveCommitmentCount int
}

// BudgetSummary is one (dimension, resource origin) group.
type BudgetSummary struct {
	Dimension           string
	ResourceOrigin      string
	Planned             float64
	Committed           float64
	Balance             float64
	ExecutionPercentage float64
}

type OriginSummary struct {
	ResourceOrigin      string
	Planned             float64
	Committed           float64
	Balance             float64
	ExecutionPercentage float64
}

type ComponentSummary struct {
	Component string
	Planned   float64
	Committed float64
}

type NatureSummary struct {
	Code      string
	Committed float64
}

type MonthlyPoint struct {
	Label      string
	Year       int
	Month      time.Month
	Committed  float64
	Cumulative float64
}

type FunnelStage struct {
	Name  string
	Value float64
}

func executionPercentage(planned, committed float64) float64 {
	if planned == 0 {
		return 0
	}
	return committed / planned * 100
}

func ComputeTotals(s Snapshot) Totals {
	var totals Totals
	for _, activity := range s.Activities {
		totals.Planned += activity.PlannedAmount
	}
	totals.ActivityCount = len(s.Activities)

	for _, c := range s.Commitments {
		totals.Liquidated += c.LiquidatedAmount
		if c.IsCanceled() {
			continue
		}
		totals.Committed += c.Amount
		totals.ActiveCommitmentCount++
		if c.IsPaid() {
			totals.Paid += c.Amount
		}
	}

	totals.Balance = totals.Planned - totals.Committed
	totals.ExecutionPercentage = executionPercentage(totals.Planned, totals.Committed)
	return totals
}

type dimensionOrigin struct {
	dimension string
	origin    string
}

// SummarizeByDimensionAndOrigin groups by the (dimension, resource origin) pairs
// found in planning. Commitments only add to groups that planning created.
func SummarizeByDimensionAndOrigin(s Snapshot) []BudgetSummary {
	index := make(map[dimensionOrigin]int)
	summaries := make([]BudgetSummary, 0)

	for _, activity := range s.Activities {
		key := dimensionOrigin{activity.Dimension, activity.ResourceOrigin}
		i, exists := index[key]
		if !exists {
			i = len(summaries)
			index[key] = i
			summaries = append(summaries, BudgetSummary{Dimension: activity.Dimension, ResourceOrigin: activity.ResourceOrigin})
		}
		summaries[i].Planned += activity.PlannedAmount
	}

	for _, c := range s.Commitments {
		if c.IsCanceled() {
			continue
		}
		if i, exists := index[dimensionOrigin{c.Dimension, c.ResourceOrigin}]; exists {
			summaries[i].Committed += c.Amount
		}
	}

	for i := range summaries {
		summaries[i].Balance = summaries[i].Planned - summaries[i].Committed
		summaries[i].ExecutionPercentage = executionPercentage(summaries[i].Planned, summaries[i].Committed)
	}
	return summaries
}

// SummarizeByOrigin groups by resource origin alone. Unlike
// SummarizeByDimensionAndOrigin, origins seen only in commitments get a group.
func SummarizeByOrigin(s Snapshot) []OriginSummary {
	index := make(map[string]int)
	summaries := make([]OriginSummary, 0)
	group := func(origin string) *OriginSummary {
		i, exists := index[origin]
		if !exists {
			i = len(summaries)
			index[origin] = i
			summaries = append(summaries, OriginSummary{ResourceOrigin: origin})
		}
		return &summaries[i]
	}

	for _, activity := range s.Activities {
		group(activity.ResourceOrigin).Planned += activity.PlannedAmount
	}
	for _, c := range s.Commitments {
		if !c.IsCanceled() {
			group(c.ResourceOrigin).Committed += c.Amount
		}
	}

	for i := range summaries {
		summaries[i].Balance = summaries[i].Planned - summaries[i].Committed
		summaries[i].ExecutionPercentage = executionPercentage(summaries[i].Planned, summaries[i].Committed)
	}
	slices.SortStableFunc(summaries, func(a, b OriginSummary) int {
		return cmp.Compare(b.Planned, a.Planned)
	})
	return summaries
}

func componentName(component string) string {
	if trimmed := strings.TrimSpace(component); trimmed != "" {
		return trimmed
	}
	return NotInformed
}

// TopComponents returns the n functional components with the largest planned amount.
func TopComponents(s Snapshot, n int) []ComponentSummary {
	index := make(map[string]int)
	summaries := make([]ComponentSummary, 0)
	group := func(component string) *ComponentSummary {
		name := componentName(component)
		i, exists := index[name]
		if !exists {
			i = len(summaries)
			index[name] = i
			summaries = append(summaries, ComponentSummary{Component: name})
		}
		return &summaries[i]
	}

	for _, activity := range s.Activities {
		group(activity.FunctionalComponent).Planned += activity.PlannedAmount
	}
	for _, c := range s.Commitments {
		if !c.IsCanceled() {
			group(c.FunctionalComponent).Committed += c.Amount
		}
	}

	slices.SortStableFunc(summaries, func(a, b ComponentSummary) int {
		return cmp.Compare(b.Planned, a.Planned)
	})
	return truncate(summaries, n)
}

// natureCode is the text before the first " - ", e.g. "339030" for "339030 - Material de consumo".
func natureCode(expenseNature string) string {
	code, _, _ := strings.Cut(expenseNature, " - ")
	return code
}

// TopExpenseNatures returns the n expense nature codes with the largest committed amount.
func TopExpenseNatures(s Snapshot, n int) []NatureSummary {
	index := make(map[string]int)
	summaries := make([]NatureSummary, 0)
	for _, c := range s.Commitments {
		if c.IsCanceled() {
			continue
		}
		code := natureCode(c.ExpenseNature)
		i, exists := index[code]
		if !exists {
			i = len(summaries)
			index[code] = i
			summaries = append(summaries, NatureSummary{Code: code})
		}
		summaries[i].Committed += c.Amount
	}

	slices.SortStableFunc(summaries, func(a, b NatureSummary) int {
		return cmp.Compare(b.Committed, a.Committed)
	})
	return truncate(summaries, n)
}

func truncate[T any](items []T, n int) []T {
	if n >= 0 && len(items) > n {
		return items[:n]
	}
	return items
}

var monthAbbreviations = [...]string{"jan", "fev", "mar", "abr", "mai", "jun", "jul", "ago", "set", "out", "nov", "dez"}

// MonthLabel formats a month the Brazilian way, e.g. "fev/24".
func MonthLabel(year int, month time.Month) string {
	return fmt.Sprintf("%s/%02d", monthAbbreviations[month-1], year%100)
}

// MonthlySeries sums non-canceled commitments per calendar month, in
// chronological order, with the running total in Cumulative.
func MonthlySeries(s Snapshot) []MonthlyPoint {
	active := make([]commitment.Commitment, 0, len(s.Commitments))
	for _, c := range s.Commitments {
		if !c.IsCanceled() {
			active = append(active, c)
		}
	}
	slices.SortStableFunc(active, func(a, b commitment.Commitment) int {
		return a.Date.Compare(b.Date)
	})

	points := make([]MonthlyPoint, 0)
	for _, c := range active {
		year, month := c.Date.Year(), c.Date.Month()
		last := len(points) - 1
		if last < 0 || points[last].Year != year || points[last].Month != month {
			points = append(points, MonthlyPoint{Label: MonthLabel(year, month), Year: year, Month: month})
			last++
		}
		points[last].Committed += c.Amount
	}

	cumulative := 0.0
	for i := range points {
		cumulative += points[i].Committed
		points[i].Cumulative = cumulative
	}
	return points
}

const (
	StagePlanned    = "Planejado"
	StageCommitted  = "Empenhado"
	StageLiquidated = "Liquidado"
	StagePaid       = "Pago"
)

func Funnel(s Snapshot) []FunnelStage {
	totals := ComputeTotals(s)
	return []FunnelStage{
		{Name: StagePlanned, Value: totals.Planned},
		{Name: StageCommitted, Value: totals.Committed},
		{Name: StageLiquidated, Value: totals.Liquidated},
		{Name: StagePaid, Value: totals.Paid},
	}
}

// Filter narrows a snapshot before aggregation. Zero fields match everything.
type Filter struct {
	// Dimension is matched as a substring.
	Dimension      string
	ResourceOrigin string
	// From and To bound commitment dates and activity creation dates, both inclusive.
	From time.Time
	To   time.Time
}

func (f Filter) within(t time.Time) bool {
	if !f.From.IsZero() && t.Before(f.From) {
		return false
	}
	if !f.To.IsZero() && !t.Before(f.To.AddDate(0, 0, 1)) {
		return false
	}
	return true
}

func (f Filter) matches(dimension, origin string, date time.Time) bool {
	if f.Dimension != "" && !strings.Contains(dimension, f.Dimension) {
		return false
	}
	if f.ResourceOrigin != "" && origin != f.ResourceOrigin {
		return false
	}
	return f.within(date)
}

func (f Filter) Apply(s Snapshot) Snapshot {
	filtered := Snapshot{
		Activities:  make([]planning.Activity, 0, len(s.Activities)),
		Commitments: make([]commitment.Commitment, 0, len(s.Commitments)),
	}
	for _, activity := range s.Activities {
		if f.matches(activity.Dimension, activity.ResourceOrigin, activity.CreatedAt) {
			filtered.Activities = append(filtered.Activities, activity)
		}
	}
	for _, c := range s.Commitments {
		if f.matches(c.Dimension, c.ResourceOrigin, c.Date) {
			filtered.Commitments = append(filtered.Commitments, c)
		}
	}
	return filtered
}
