package cli

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormatMoney(t *testing.T) {
	SetMoneyFormat("en", "€")
	t.Cleanup(func() { SetMoneyFormat("en", "€") })

	assert.Equal(t, "€0.00", FormatMoney(decimal.Zero))
	assert.Equal(t, "€1,234.50", FormatMoney(decimal.RequireFromString("1234.5")))
	assert.Equal(t, "-€12.35", FormatMoney(decimal.RequireFromString("-12.345")))
	assert.Equal(t, "1,000,000", FormatNumber(1_000_000))

	SetMoneyFormat("not a locale!", "$")
	assert.Equal(t, "$7.00", FormatMoney(decimal.NewFromInt(7)))
}

func TestFormatPercent(t *testing.T) {
	assert.Equal(t, "87.5%", FormatPercent(87.5))
	assert.Equal(t, "0.0%", FormatPercent(0))
}

func TestOutcome(t *testing.T) {
	SetMoneyFormat("en", "€")
	assert.Equal(t, "You went over budget by €5.00", Outcome(decimal.NewFromInt(-5)))
	assert.Contains(t, Outcome(decimal.NewFromInt(20)), "You saved €20.00")
	assert.Equal(t, "Great job staying within budget!", Outcome(decimal.Zero))
}
