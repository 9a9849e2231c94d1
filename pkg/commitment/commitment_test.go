package commitment

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseStatus(t *testing.T) {
	tests := []struct {
		text    string
		want    Status
		wantErr bool
	}{
		{text: "pendente", want: StatusPending},
		{text: " Liquidado ", want: StatusLiquidated},
		{text: "PAGO", want: StatusPaid},
		{text: "Cancelado", want: StatusCanceled},
		{text: "estornado", wantErr: true},
		{text: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got, err := ParseStatus(tt.text)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidStatus)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCommitment_Balance(t *testing.T) {
	assert.Equal(t, 600.0, Commitment{Amount: 1000, LiquidatedAmount: 400}.Balance())
	// over-liquidation is representable
	assert.Equal(t, -50.0, Commitment{Amount: 100, LiquidatedAmount: 150}.Balance())
}

func TestPatch_Apply(t *testing.T) {
	// given
	original := Commitment{Number: "2024NE000123", Dimension: "GO", Amount: 10, ActivityId: "a1", Status: StatusPending}
	paid := StatusPaid
	empty := ""

	// when
	patched := Patch{Status: &paid, ActivityId: &empty}.Apply(original)

	// then
	assert.Equal(t, StatusPaid, patched.Status)
	assert.Equal(t, "", patched.ActivityId)
	assert.Equal(t, "2024NE000123", patched.Number)
	assert.Equal(t, 10.0, patched.Amount)
	assert.True(t, Patch{}.IsEmpty())
}

func TestListFilter_Matches(t *testing.T) {
	c := Commitment{Number: "2024NE000123", Description: "Material de consumo", Dimension: "GO - Governança", Status: StatusLiquidated}

	assert.True(t, ListFilter{}.Matches(c))
	assert.True(t, ListFilter{Query: "ne0001"}.Matches(c))
	assert.True(t, ListFilter{Query: "CONSUMO"}.Matches(c))
	assert.True(t, ListFilter{Status: StatusLiquidated, Dimension: "GO"}.Matches(c))
	assert.False(t, ListFilter{Status: StatusPaid}.Matches(c))
	assert.False(t, ListFilter{Dimension: "EN"}.Matches(c))
}
