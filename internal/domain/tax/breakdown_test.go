package tax

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplit(t *testing.T) {
	t.Run("same jurisdiction splits into equal halves", func(t *testing.T) {
		b := Split(decimal.NewFromInt(360), "MH", "MH")
		assert.True(t, b.CGST.Equal(decimal.NewFromInt(180)), "cgst = %s", b.CGST)
		assert.True(t, b.SGST.Equal(decimal.NewFromInt(180)), "sgst = %s", b.SGST)
		assert.True(t, b.IGST.IsZero())
	})

	t.Run("different jurisdiction is all inter state", func(t *testing.T) {
		b := Split(decimal.NewFromInt(360), "MH", "DL")
		assert.True(t, b.CGST.IsZero())
		assert.True(t, b.SGST.IsZero())
		assert.True(t, b.IGST.Equal(decimal.NewFromInt(360)))
	})

	t.Run("zero tax yields zero breakdown", func(t *testing.T) {
		b := Split(decimal.Zero, "MH", "MH")
		assert.True(t, b.Total().IsZero())
	})

	t.Run("components always sum to gross tax", func(t *testing.T) {
		amounts := []string{"0.01", "0.03", "99.99", "123.45", "1000"}
		for _, a := range amounts {
			gross, err := decimal.NewFromString(a)
			require.NoError(t, err)

			intra := Split(gross, "MH", "MH")
			assert.True(t, intra.Total().Equal(gross), "intra total for %s = %s", a, intra.Total())

			inter := Split(gross, "MH", "KA")
			assert.True(t, inter.Total().Equal(gross), "inter total for %s = %s", a, inter.Total())
		}
	})
}

func TestBreakdownAdd(t *testing.T) {
	a := Breakdown{CGST: decimal.NewFromInt(10), SGST: decimal.NewFromInt(10), IGST: decimal.Zero}
	b := Breakdown{CGST: decimal.NewFromInt(5), SGST: decimal.NewFromInt(5), IGST: decimal.NewFromInt(20)}

	sum := a.Add(b)
	assert.True(t, sum.CGST.Equal(decimal.NewFromInt(15)))
	assert.True(t, sum.SGST.Equal(decimal.NewFromInt(15)))
	assert.True(t, sum.IGST.Equal(decimal.NewFromInt(20)))
	assert.True(t, sum.Total().Equal(decimal.NewFromInt(50)))
}
