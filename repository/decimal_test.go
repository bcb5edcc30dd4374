package repository

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func rawCost(t *testing.T, v interface{}) bson.RawValue {
	t.Helper()
	doc, err := bson.Marshal(bson.M{"cost": v})
	require.NoError(t, err)
	return bson.Raw(doc).Lookup("cost")
}

func TestDecimalFromRaw(t *testing.T) {
	d128, err := toDecimal128(decimal.RequireFromString("499.99"))
	require.NoError(t, err)

	tests := []struct {
		name  string
		value interface{}
		want  string
	}{
		{"decimal128", d128, "499.99"},
		{"double", 12.5, "12.5"},
		{"int32", int32(7), "7"},
		{"int64", int64(1200), "1200"},
		{"null", nil, "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := decimalFromRaw(rawCost(t, tt.value))
			require.NoError(t, err)
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)), "got %s", got)
		})
	}
}

func TestDecimalFromRaw_MissingField(t *testing.T) {
	got, err := decimalFromRaw(bson.RawValue{})
	require.NoError(t, err)
	assert.True(t, got.IsZero())
}

func TestDecimalFromRaw_RejectsStrings(t *testing.T) {
	_, err := decimalFromRaw(rawCost(t, "10"))
	assert.Error(t, err)
}

func TestProductDocument_ToModel(t *testing.T) {
	p, err := productDocument{ID: "free", Cost: rawCost(t, int32(0))}.toModel()
	require.NoError(t, err)
	assert.True(t, p.Cost.IsZero())

	_, err = productDocument{ID: "N", Cost: rawCost(t, -50.0)}.toModel()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNegativeCost)
	assert.Contains(t, err.Error(), "product N")
}
