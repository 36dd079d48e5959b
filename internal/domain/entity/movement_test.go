package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMovementType_Sign(t *testing.T) {
	cases := map[MovementType]int64{
		MovementIn:            1,
		MovementTransferIn:    1,
		MovementAdjustmentPos: 1,
		MovementOut:           -1,
		MovementTransferOut:   -1,
		MovementAdjustmentNeg: -1,
		MovementType("OTRO"):  0,
	}
	for mt, want := range cases {
		assert.Equal(t, want, mt.Sign(), string(mt))
	}
	assert.False(t, MovementType("").Valid())
	assert.True(t, MovementOut.IsRemoval())
}

func TestLedgerEntry_SignedQuantity(t *testing.T) {
	e := &LedgerEntry{MovementType: MovementTransferOut, Quantity: 7, ProductID: "p", WarehouseID: "w", LocationID: "l"}
	assert.Equal(t, int64(-7), e.SignedQuantity())
	assert.Equal(t, "p|w|l", e.Key().String())
}
