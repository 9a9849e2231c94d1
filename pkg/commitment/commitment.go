package commitment

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cristianoafs081993/love-execu-o/pkg/importer"
)

type Status string

const (
	StatusPending    Status = "pendente"
	StatusLiquidated Status = "liquidado"
	StatusPaid       Status = "pago"
	StatusCanceled   Status = "cancelado"
)

var ErrInvalidStatus = errors.New("status inválido")

// ParseStatus accepts the status names with any casing and accents.
func ParseStatus(text string) (Status, error) {
	switch importer.Fold(text) {
	case "pendente":
		return StatusPending, nil
	case "liquidado":
		return StatusLiquidated, nil
	case "pago":
		return StatusPaid, nil
	case "cancelado":
		return StatusCanceled, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidStatus, text)
}

// Commitment is an obligation recorded against planned funds ("empenho").
type Commitment struct {
	Id                  string
	Number              string
	Description         string
	Amount              float64
	Dimension           string
	FunctionalComponent string
	ResourceOrigin      string
	ExpenseNature       string
	InternalPlan        string
	BeneficiaryName     string
	BeneficiaryDocument string
	// LiquidatedAmount only grows, through ledger reconciliation.
	LiquidatedAmount float64
	Date             time.Time
	Status           Status
	// ActivityId optionally points at a planning activity. It is not enforced.
	ActivityId string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Balance is the amount still to be liquidated. Over-liquidation makes it negative.
func (c Commitment) Balance() float64 {
	return c.Amount - c.LiquidatedAmount
}

func (c Commitment) IsCanceled() bool {
	return c.Status == StatusCanceled
}

func (c Commitment) IsPaid() bool {
	return c.Status == StatusPaid
}

type Patch struct {
	Number              *string
	Description         *string
	Amount              *float64
	Dimension           *string
	FunctionalComponent *string
	ResourceOrigin      *string
	ExpenseNature       *string
	InternalPlan        *string
	BeneficiaryName     *string
	BeneficiaryDocument *string
	Date                *time.Time
	Status              *Status
	// ActivityId set to an empty string removes the association.
	ActivityId *string
}

func (p Patch) IsEmpty() bool {
	return p == Patch{}
}

func (p Patch) Apply(c Commitment) Commitment {
	if p.Number != nil {
		c.Number = *p.Number
	}
	if p.Description != nil {
		c.Description = *p.Description
	}
	if p.Amount != nil {
		c.Amount = *p.Amount
	}
	if p.Dimension != nil {
		c.Dimension = *p.Dimension
	}
	if p.FunctionalComponent != nil {
		c.FunctionalComponent = *p.FunctionalComponent
	}
	if p.ResourceOrigin != nil {
		c.ResourceOrigin = *p.ResourceOrigin
	}
	if p.ExpenseNature != nil {
		c.ExpenseNature = *p.ExpenseNature
	}
	if p.InternalPlan != nil {
		c.InternalPlan = *p.InternalPlan
	}
	if p.BeneficiaryName != nil {
		c.BeneficiaryName = *p.BeneficiaryName
	}
	if p.BeneficiaryDocument != nil {
		c.BeneficiaryDocument = *p.BeneficiaryDocument
	}
	if p.Date != nil {
		c.Date = *p.Date
	}
	if p.Status != nil {
		c.Status = *p.Status
	}
	if p.ActivityId != nil {
		c.ActivityId = *p.ActivityId
	}
	return c
}

type ListFilter struct {
	// Query is matched case-insensitively against number and description.
	Query     string
	Status    Status
	Dimension string
}

func (f ListFilter) Matches(c Commitment) bool {
	if f.Status != "" && c.Status != f.Status {
		return false
	}
	if f.Dimension != "" && !strings.Contains(c.Dimension, f.Dimension) {
		return false
	}
	if f.Query == "" {
		return true
	}
	query := strings.ToLower(f.Query)
	return strings.Contains(strings.ToLower(c.Number), query) ||
		strings.Contains(strings.ToLower(c.Description), query)
}
