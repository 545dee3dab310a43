package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLineItem_Key(t *testing.T) {
	item := LineItem{ProductID: "p1", Color: "blue", Size: "M", Quantity: 2}
	assert.Equal(t, Key{ProductID: "p1", Color: "blue", Size: "M"}, item.Key())
}

func TestLineItem_Validate(t *testing.T) {
	tests := []struct {
		name    string
		item    LineItem
		wantErr error
	}{
		{"valid", LineItem{ProductID: "p1", Quantity: 1}, nil},
		{"missing product", LineItem{Quantity: 1}, ErrInvalidProduct},
		{"zero quantity", LineItem{ProductID: "p1", Quantity: 0}, ErrInvalidQuantity},
		{"negative quantity", LineItem{ProductID: "p1", Quantity: -3}, ErrInvalidQuantity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.item.validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestAddLine_NewItem(t *testing.T) {
	items := addLine(nil, LineItem{ProductID: "p1", UnitPrice: 100, Quantity: 1})
	items = addLine(items, LineItem{ProductID: "p2", UnitPrice: 200, Quantity: 2})

	assert.Len(t, items, 2)
}

func TestAddLine_SameIdentitySumsQuantity(t *testing.T) {
	items := addLine(nil, LineItem{ProductID: "p1", Color: "blue", Size: "M", UnitPrice: 100, Quantity: 1})
	items = addLine(items, LineItem{ProductID: "p1", Color: "blue", Size: "M", UnitPrice: 100, Quantity: 2})

	assert.Len(t, items, 1)
	assert.Equal(t, 3, items[0].Quantity)
}

func TestAddLine_DifferentVariantIsSeparateLine(t *testing.T) {
	items := addLine(nil, LineItem{ProductID: "p1", Color: "blue", Size: "M", Quantity: 1})
	items = addLine(items, LineItem{ProductID: "p1", Color: "blue", Size: "L", Quantity: 1})
	items = addLine(items, LineItem{ProductID: "p1", Color: "red", Size: "M", Quantity: 1})

	assert.Len(t, items, 3)
}

func TestRemoveLine_DeletesWholeLine(t *testing.T) {
	items := addLine(nil, LineItem{ProductID: "p1", Color: "blue", Size: "M", Quantity: 5})
	items = removeLine(items, Key{ProductID: "p1", Color: "blue", Size: "M"})

	assert.Empty(t, items)
}

func TestRemoveLine_MissingKeyIsNoop(t *testing.T) {
	items := addLine(nil, LineItem{ProductID: "p1", Quantity: 1})
	items = removeLine(items, Key{ProductID: "p2"})

	assert.Len(t, items, 1)
}

func TestTotal(t *testing.T) {
	items := []LineItem{
		{ProductID: "p1", UnitPrice: 3000, Quantity: 2},
		{ProductID: "p2", UnitPrice: 500, Quantity: 3},
	}
	assert.Equal(t, 7500, total(items))
	assert.Equal(t, 0, total(nil))
}

func TestState_ItemCount(t *testing.T) {
	state := stateOf([]LineItem{
		{ProductID: "p1", Quantity: 2},
		{ProductID: "p2", Quantity: 3},
	})
	assert.Equal(t, 5, state.ItemCount())
	assert.Equal(t, 0, EmptyState().ItemCount())
}

func TestEmptyState(t *testing.T) {
	state := EmptyState()
	assert.NotNil(t, state.Items)
	assert.Empty(t, state.Items)
	assert.Equal(t, 0, state.TotalPrice)
}
