package model

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestCartLine_Subtotal(t *testing.T) {
	l := CartLine{
		ProductID: 1,
		UnitPrice: decimal.RequireFromString("35"),
		Quantity:  2,
	}
	assert.True(t, l.Subtotal().Equal(decimal.RequireFromString("70")))
}

func TestCartLine_Normalize_FillsDefaults(t *testing.T) {
	l := CartLine{ProductID: 1, Name: "Apples", Quantity: 1}
	l.Normalize()

	assert.Equal(t, DefaultProductImage, l.Image)
	assert.Equal(t, DefaultUnitLabel, l.Unit)
}

func TestSanitizeCartLines_DropsInvalidRows(t *testing.T) {
	lines := []CartLine{
		{ProductID: 1, Name: "Apples", UnitPrice: decimal.NewFromInt(10), Quantity: 2},
		{ProductID: 0, Name: "broken", UnitPrice: decimal.NewFromInt(5), Quantity: 1},
		{ProductID: 2, Name: "Milk", UnitPrice: decimal.NewFromInt(3), Quantity: 0},
		{ProductID: 3, Name: "Bread", UnitPrice: decimal.NewFromInt(-1), Quantity: 1},
	}

	out := SanitizeCartLines(lines)

	assert.Len(t, out, 1)
	assert.Equal(t, int64(1), out[0].ProductID)
}

// 同じproductIdは1行にまとめて数量を合算する
func TestSanitizeCartLines_MergesDuplicates(t *testing.T) {
	lines := []CartLine{
		{ProductID: 1, Name: "Apples", UnitPrice: decimal.NewFromInt(10), Quantity: 2},
		{ProductID: 1, Name: "Apples", UnitPrice: decimal.NewFromInt(10), Quantity: 3},
	}

	out := SanitizeCartLines(lines)

	assert.Len(t, out, 1)
	assert.Equal(t, int64(5), out[0].Quantity)
}
