package reconciliation

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/cristianoafs081993/love-execu-o/pkg/commitment"
	"github.com/cristianoafs081993/love-execu-o/pkg/currency"
	"github.com/cristianoafs081993/love-execu-o/pkg/importer"
	"github.com/schollz/closestmatch"
	log "github.com/sirupsen/logrus"
)

// MatchPolicy decides what happens when a ledger number is contained in several commitment numbers.
type MatchPolicy string

const (
	MatchFirst   MatchPolicy = "first"
	MatchStrict  MatchPolicy = "strict"
	MatchClosest MatchPolicy = "closest"
)

var ErrUnknownMatchPolicy = errors.New("unknown match policy")

func ParseMatchPolicy(text string) (MatchPolicy, error) {
	switch policy := MatchPolicy(strings.ToLower(strings.TrimSpace(text))); policy {
	case "":
		return MatchFirst, nil
	case MatchFirst, MatchStrict, MatchClosest:
		return policy, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownMatchPolicy, text)
	}
}

var (
	amountColumnHints = []string{"liquidad", "moviment", "valor"}
	numberColumnHints = []string{"empenho", "numero"}
)

// CommitmentStore is the part of the commitment repository a reconciliation needs.
type CommitmentStore interface {
	GetAll(ctx context.Context) ([]commitment.Commitment, error)
	UpdateLiquidation(ctx context.Context, id string, liquidatedAmount float64, status commitment.Status) error
}

type Result struct {
	Updated   int
	Unmatched int
	Skipped   int
	Ambiguous int
}

// NothingUsable reports a feed in which no row named a commitment. Ambiguous
// rows did name one, so they count as usable.
func (r Result) NothingUsable() bool {
	return r.Updated == 0 && r.Unmatched == 0 && r.Ambiguous == 0
}

type Reconciler struct {
	store  CommitmentStore
	policy MatchPolicy
}

func NewReconciler(store CommitmentStore, policy MatchPolicy) *Reconciler {
	return &Reconciler{store: store, policy: policy}
}

// Apply adds every movement of the feed to the liquidated amount of the matching
// commitment. A commitment whose new amount is above zero becomes liquidado and
// one at zero or below goes back to pendente, except that pago and cancelado
// commitments keep their status while their amount still accumulates.
// Rows are persisted one by one; when a write fails the rows already applied
// stay applied and the partial result is returned with the error.
func (r *Reconciler) Apply(ctx context.Context, feed Feed) (Result, error) {
	var result Result
	amountColumn, numberColumn := detectColumns(feed.Headers)
	if amountColumn == "" || numberColumn == "" {
		log.Warnf("ledger feed has no amount or commitment column: %v", feed.Headers)
		result.Skipped = len(feed.Rows)
		return result, nil
	}

	commitments, err := r.store.GetAll(ctx)
	if err != nil {
		return result, fmt.Errorf("failed to read commitments: %w", err)
	}

	for i, row := range feed.Rows {
		number := strings.TrimSpace(cellText(row[numberColumn]))
		movement, ok := amountOf(row[amountColumn])
		if number == "" || !ok {
			result.Skipped++
			continue
		}

		index, ambiguous := r.match(commitments, number)
		switch {
		case ambiguous:
			log.Warnf("ledger row %d: commitment %s matches several records, not applied", i+2, number)
			result.Ambiguous++
			continue
		case index < 0:
			log.Debugf("ledger row %d: no commitment matches %s", i+2, number)
			result.Unmatched++
			continue
		}

		matched := &commitments[index]
		liquidated := matched.LiquidatedAmount + movement
		status := nextStatus(matched.Status, liquidated)
		if err := r.store.UpdateLiquidation(ctx, matched.Id, liquidated, status); err != nil {
			return result, fmt.Errorf("failed to update commitment %s: %w", matched.Number, err)
		}
		matched.LiquidatedAmount = liquidated
		matched.Status = status
		result.Updated++
	}
	return result, nil
}

// nextStatus keeps paid and canceled commitments as they are; the others follow
// their liquidated amount.
func nextStatus(current commitment.Status, liquidated float64) commitment.Status {
	if current == commitment.StatusPaid || current == commitment.StatusCanceled {
		return current
	}
	if liquidated > 0 {
		return commitment.StatusLiquidated
	}
	return commitment.StatusPending
}

// match returns the index of the commitment a ledger number refers to, or -1.
// An exact number wins over numbers contained in one another.
func (r *Reconciler) match(commitments []commitment.Commitment, number string) (int, bool) {
	var candidates []int
	for i, c := range commitments {
		stored := strings.TrimSpace(c.Number)
		if stored == "" {
			continue
		}
		if stored == number {
			return i, false
		}
		if strings.Contains(number, stored) || strings.Contains(stored, number) {
			candidates = append(candidates, i)
		}
	}

	switch {
	case len(candidates) == 0:
		return -1, false
	case len(candidates) == 1 || r.policy == MatchFirst:
		return candidates[0], false
	case r.policy == MatchStrict:
		return -1, true
	default:
		return closest(commitments, candidates, number), false
	}
}

func closest(commitments []commitment.Commitment, candidates []int, number string) int {
	numbers := make([]string, 0, len(candidates))
	for _, i := range candidates {
		numbers = append(numbers, strings.TrimSpace(commitments[i].Number))
	}
	best := closestmatch.New(numbers, []int{2, 3}).Closest(number)
	for _, i := range candidates {
		if strings.TrimSpace(commitments[i].Number) == best {
			return i
		}
	}
	return candidates[0]
}

func detectColumns(headers []string) (amountColumn string, numberColumn string) {
	folded := make([]string, len(headers))
	for i, header := range headers {
		folded[i] = importer.Fold(header)
	}

	find := func(hints []string, exclude string) string {
		for _, hint := range hints {
			for i, header := range folded {
				if headers[i] != "" && headers[i] != exclude && strings.Contains(header, hint) {
					return headers[i]
				}
			}
		}
		return ""
	}
	amountColumn = find(amountColumnHints, "")
	numberColumn = find(numberColumnHints, amountColumn)
	return amountColumn, numberColumn
}

// amountOf reads a movement cell. Numeric cells are taken as they are and text
// goes through the lenient currency parser.
func amountOf(cell any) (float64, bool) {
	switch value := cell.(type) {
	case float64:
		return value, true
	case string:
		if strings.TrimSpace(value) == "" {
			return 0, false
		}
		return currency.Parse(currency.StripFormatting(value)), true
	case nil:
		return 0, false
	default:
		return currency.Parse(currency.StripFormatting(fmt.Sprint(value))), true
	}
}

func cellText(cell any) string {
	switch value := cell.(type) {
	case nil:
		return ""
	case string:
		return value
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64)
	default:
		return fmt.Sprint(value)
	}
}
