package pricefeed

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatPrice(t *testing.T) {
	for _, tc := range []struct {
		price  float64
		coinId string
		want   string
	}{
		{60123.456, "bitcoin", "$60,123.46"},
		{3000, "ethereum", "$3,000.00"},
		{142.3, "solana", "$142.30"},
		{0.0000123456, "pepe", "$0.00001235"},
		{0.12345, "dogecoin", "$0.1235"},
		{1234567.891, "unknown", "$1,234,567.89"},
		{999.999, "bitcoin", "$1,000.00"},
		{-42.5, "solana", "-$42.50"},
		{0, "bitcoin", "$0.00"},
	} {
		assert.Equal(t, tc.want, FormatPrice(tc.price, tc.coinId), "%v %v", tc.price, tc.coinId)
	}
}
