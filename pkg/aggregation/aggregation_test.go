package aggregation

import (
	"testing"
	"time"

	"github.com/cristianoafs081993/love-execu-o/pkg/commitment"
	"github.com/cristianoafs081993/love-execu-o/pkg/planning"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func activity(dimension, origin string, planned float64) planning.Activity {
	return planning.Activity{Dimension: dimension, ResourceOrigin: origin, PlannedAmount: planned, Name: dimension + origin}
}

func committed(dimension, origin string, amount float64, status commitment.Status) commitment.Commitment {
	return commitment.Commitment{Dimension: dimension, ResourceOrigin: origin, Amount: amount, Status: status, Date: date(2024, 1, 10)}
}

func TestSummarizeByDimensionAndOrigin(t *testing.T) {
	t.Run("should compute planned, committed, balance and percentage per group", func(t *testing.T) {
		// given
		snapshot := Snapshot{
			Activities:  []planning.Activity{activity("GO", "F1", 1000)},
			Commitments: []commitment.Commitment{committed("GO", "F1", 400, commitment.StatusPending)},
		}

		// when
		summary := SummarizeByDimensionAndOrigin(snapshot)

		// then
		require.Len(t, summary, 1)
		assert.Equal(t, BudgetSummary{
			Dimension:           "GO",
			ResourceOrigin:      "F1",
			Planned:             1000,
			Committed:           400,
			Balance:             600,
			ExecutionPercentage: 40.0,
		}, summary[0])
	})

	t.Run("should ignore pairs never planned and canceled commitments", func(t *testing.T) {
		// given
		snapshot := Snapshot{
			Activities: []planning.Activity{activity("GO", "F1", 100), activity("EN", "F2", 50), activity("GO", "F1", 100)},
			Commitments: []commitment.Commitment{
				committed("GO", "F1", 30, commitment.StatusLiquidated),
				committed("GO", "F1", 70, commitment.StatusCanceled),
				committed("IN", "F9", 500, commitment.StatusPending),
			},
		}

		// when
		summary := SummarizeByDimensionAndOrigin(snapshot)

		// then
		require.Len(t, summary, 2)
		assert.Equal(t, "GO", summary[0].Dimension)
		assert.Equal(t, 200.0, summary[0].Planned)
		assert.Equal(t, 30.0, summary[0].Committed)
		assert.Equal(t, "EN", summary[1].Dimension)
		assert.Equal(t, 0.0, summary[1].Committed)
	})
}

func TestComputeTotals(t *testing.T) {
	t.Run("should sum every planned amount", func(t *testing.T) {
		snapshot := Snapshot{Activities: []planning.Activity{activity("GO", "F1", 0.25), activity("GO", "F1", 0.5), activity("EN", "F2", 1000)}}

		totals := ComputeTotals(snapshot)

		assert.Equal(t, 1000.75, totals.Planned)
		assert.Equal(t, 3, totals.ActivityCount)
	})

	t.Run("should report zero execution when nothing is planned", func(t *testing.T) {
		snapshot := Snapshot{Commitments: []commitment.Commitment{committed("GO", "F1", 400, commitment.StatusPending)}}

		totals := ComputeTotals(snapshot)

		assert.Equal(t, 0.0, totals.ExecutionPercentage)
		assert.Equal(t, 400.0, totals.Committed)
		assert.Equal(t, -400.0, totals.Balance)
	})

	t.Run("should leave canceled commitments out of committed and paid", func(t *testing.T) {
		// given
		paid := committed("GO", "F1", 300, commitment.StatusPaid)
		paid.LiquidatedAmount = 300
		canceled := committed("GO", "F1", 200, commitment.StatusCanceled)
		canceled.LiquidatedAmount = 50
		snapshot := Snapshot{
			Activities:  []planning.Activity{activity("GO", "F1", 1000)},
			Commitments: []commitment.Commitment{paid, canceled, committed("GO", "F1", 100, commitment.StatusPending)},
		}

		// when
		totals := ComputeTotals(snapshot)

		// then
		assert.Equal(t, 400.0, totals.Committed)
		assert.Equal(t, 300.0, totals.Paid)
		assert.Equal(t, 350.0, totals.Liquidated)
		assert.Equal(t, 600.0, totals.Balance)
		assert.Equal(t, 40.0, totals.ExecutionPercentage)
		assert.Equal(t, 2, totals.ActiveCommitmentCount)
	})
}

func TestFunnel_CountsLiquidationOfCanceledCommitments(t *testing.T) {
	// given
	canceled := committed("GO", "F1", 200, commitment.StatusCanceled)
	canceled.LiquidatedAmount = 80
	snapshot := Snapshot{
		Activities:  []planning.Activity{activity("GO", "F1", 1000)},
		Commitments: []commitment.Commitment{canceled},
	}

	// when
	funnel := Funnel(snapshot)

	// then
	assert.Equal(t, []FunnelStage{
		{Name: StagePlanned, Value: 1000},
		{Name: StageCommitted, Value: 0},
		{Name: StageLiquidated, Value: 80},
		{Name: StagePaid, Value: 0},
	}, funnel)
}

func TestSummarizeByOrigin(t *testing.T) {
	// given
	snapshot := Snapshot{
		Activities: []planning.Activity{activity("GO", "F1", 100), activity("EN", "F2", 300), activity("IN", "F3", 100)},
		Commitments: []commitment.Commitment{
			committed("GO", "F1", 50, commitment.StatusPending),
			committed("GO", "F9", 70, commitment.StatusPending),
			committed("GO", "F8", 70, commitment.StatusCanceled),
		},
	}

	// when
	origins := SummarizeByOrigin(snapshot)

	// then
	require.Len(t, origins, 4)
	assert.Equal(t, "F2", origins[0].ResourceOrigin)
	// ties keep the input order
	assert.Equal(t, "F1", origins[1].ResourceOrigin)
	assert.Equal(t, 50.0, origins[1].ExecutionPercentage)
	assert.Equal(t, "F3", origins[2].ResourceOrigin)
	assert.Equal(t, OriginSummary{ResourceOrigin: "F9", Committed: 70, Balance: -70}, origins[3])
}

func TestTopComponents(t *testing.T) {
	// given
	var activities []planning.Activity
	for i, component := range []string{"A", "B", "C", "D", "E", "F"} {
		a := activity("GO", "F1", float64(100*(i+1)))
		a.FunctionalComponent = component
		activities = append(activities, a)
	}
	blank := activity("GO", "F1", 10000)
	blank.FunctionalComponent = "  "
	activities = append(activities, blank)
	c := committed("GO", "F1", 40, commitment.StatusPending)
	c.FunctionalComponent = "F"
	snapshot := Snapshot{Activities: activities, Commitments: []commitment.Commitment{c}}

	// when
	top := TopComponents(snapshot, DefaultTopComponents)

	// then
	require.Len(t, top, 5)
	assert.Equal(t, ComponentSummary{Component: NotInformed, Planned: 10000}, top[0])
	assert.Equal(t, ComponentSummary{Component: "F", Planned: 600, Committed: 40}, top[1])
	assert.Equal(t, "C", top[4].Component)
}

func TestTopExpenseNatures(t *testing.T) {
	// given
	natures := []string{"339030 - Material de consumo", "339039 - Serviços", "339030 - Material", "449052"}
	amounts := []float64{100, 500, 50, 20}
	var commitments []commitment.Commitment
	for i, nature := range natures {
		c := committed("GO", "F1", amounts[i], commitment.StatusPending)
		c.ExpenseNature = nature
		commitments = append(commitments, c)
	}
	canceled := committed("GO", "F1", 9999, commitment.StatusCanceled)
	canceled.ExpenseNature = "339047 - Tributos"
	commitments = append(commitments, canceled)

	// when
	top := TopExpenseNatures(Snapshot{Commitments: commitments}, 2)

	// then
	assert.Equal(t, []NatureSummary{{Code: "339039", Committed: 500}, {Code: "339030", Committed: 150}}, top)
}

func TestMonthlySeries(t *testing.T) {
	// given
	at := func(amount float64, d time.Time, status commitment.Status) commitment.Commitment {
		c := committed("GO", "F1", amount, status)
		c.Date = d
		return c
	}
	snapshot := Snapshot{Commitments: []commitment.Commitment{
		at(300, date(2024, 3, 5), commitment.StatusPending),
		at(100, date(2024, 1, 20), commitment.StatusPending),
		at(50, date(2024, 1, 2), commitment.StatusPaid),
		at(999, date(2024, 2, 1), commitment.StatusCanceled),
		at(25, date(2025, 1, 15), commitment.StatusLiquidated),
	}}

	// when
	series := MonthlySeries(snapshot)

	// then
	assert.Equal(t, []MonthlyPoint{
		{Label: "jan/24", Year: 2024, Month: time.January, Committed: 150, Cumulative: 150},
		{Label: "mar/24", Year: 2024, Month: time.March, Committed: 300, Cumulative: 450},
		{Label: "jan/25", Year: 2025, Month: time.January, Committed: 25, Cumulative: 475},
	}, series)
}

func TestMonthLabel(t *testing.T) {
	assert.Equal(t, "fev/24", MonthLabel(2024, time.February))
	assert.Equal(t, "dez/09", MonthLabel(2009, time.December))
}

func TestFilter_Apply(t *testing.T) {
	// given
	early := committed("GO - Governança", "F1", 10, commitment.StatusPending)
	early.Date = date(2024, 1, 31)
	late := committed("GO - Governança", "F1", 20, commitment.StatusPending)
	late.Date = date(2024, 3, 1)
	other := committed("EN - Ensino", "F2", 30, commitment.StatusPending)
	other.Date = date(2024, 2, 10)
	a := activity("GO - Governança", "F1", 100)
	a.CreatedAt = time.Date(2024, 2, 29, 18, 30, 0, 0, time.UTC)
	snapshot := Snapshot{Activities: []planning.Activity{a}, Commitments: []commitment.Commitment{early, late, other}}

	t.Run("should match dimension as a substring", func(t *testing.T) {
		filtered := Filter{Dimension: "GO"}.Apply(snapshot)

		assert.Len(t, filtered.Activities, 1)
		assert.Len(t, filtered.Commitments, 2)
	})

	t.Run("should include both ends of the date range", func(t *testing.T) {
		filtered := Filter{From: date(2024, 1, 31), To: date(2024, 2, 29)}.Apply(snapshot)

		assert.Len(t, filtered.Activities, 1)
		require.Len(t, filtered.Commitments, 2)
		assert.Equal(t, 10.0, filtered.Commitments[0].Amount)
		assert.Equal(t, 30.0, filtered.Commitments[1].Amount)
	})

	t.Run("should match origin exactly", func(t *testing.T) {
		filtered := Filter{ResourceOrigin: "F"}.Apply(snapshot)

		assert.Empty(t, filtered.Activities)
		assert.Empty(t, filtered.Commitments)
	})
}
