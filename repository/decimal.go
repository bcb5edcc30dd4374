package repository

import (
	"fmt"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func toDecimal128(d decimal.Decimal) (primitive.Decimal128, error) {
	d128, err := primitive.ParseDecimal128(d.String())
	if err != nil {
		return primitive.Decimal128{}, fmt.Errorf("encode decimal %s: %w", d, err)
	}
	return d128, nil
}

// decimalFromRaw accepts every numeric BSON type. Products seeded by other
// tools store cost as a double, accounts written here use Decimal128.
func decimalFromRaw(rv bson.RawValue) (decimal.Decimal, error) {
	switch rv.Type {
	case bsontype.Decimal128:
		return decimal.NewFromString(rv.Decimal128().String())
	case bsontype.Double:
		return decimal.NewFromFloat(rv.Double()), nil
	case bsontype.Int32:
		return decimal.NewFromInt32(rv.Int32()), nil
	case bsontype.Int64:
		return decimal.NewFromInt(rv.Int64()), nil
	case bsontype.Null, bsontype.Undefined, 0:
		return decimal.Zero, nil
	default:
		return decimal.Zero, fmt.Errorf("unsupported numeric type %s", rv.Type)
	}
}
