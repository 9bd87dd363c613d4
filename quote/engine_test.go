package quote

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noba/transaction-intake/config"
	"github.com/noba/transaction-intake/exchangerate"
	"github.com/noba/transaction-intake/internal/svcerror"
	"github.com/noba/transaction-intake/model"
)

type stubRates struct {
	rates map[string]*exchangerate.ExchangeRate
}

func (s *stubRates) GetExchangeRateForCurrencyPair(_ context.Context, numerator, denominator model.Currency) (*exchangerate.ExchangeRate, error) {
	rate, ok := s.rates[string(numerator)+"-"+string(denominator)]
	if !ok {
		return nil, exchangerate.ErrRateNotFound
	}
	return rate, nil
}

func testFees() config.FeesConfig {
	return config.FeesConfig{
		Deposit:    config.FeeScheduleConfig{FixedAmount: 1000, Multiplier: 0.03, NobaFee: 0.75},
		Collection: config.FeeScheduleConfig{FixedAmount: 2500, Multiplier: 0.02, NobaFee: 0.50},
		Withdrawal: config.FeeScheduleConfig{FixedAmount: 3000, Multiplier: 0, NobaFee: 1.50},
	}
}

func testEngine() *Engine {
	return NewEngine(&stubRates{rates: map[string]*exchangerate.ExchangeRate{
		"USD-COP": {BankRate: 5000, NobaRate: 4000},
		"COP-USD": {BankRate: 0.0002, NobaRate: 0.00025},
	}}, testFees())
}

func TestComputeQuote_Withdrawal(t *testing.T) {
	q, err := testEngine().ComputeQuote(context.Background(), 50, model.CurrencyUSD, model.CurrencyCOP, false)
	require.NoError(t, err)

	assert.Equal(t, "1.50", q.NobaFee)
	assert.Equal(t, "0.60", q.ProcessingFee)
	assert.Equal(t, "2.10", q.TotalFee)
	assert.Equal(t, "200000.00", q.QuoteAmount)
	assert.Equal(t, "191600.00", q.QuoteAmountWithFees)
	assert.Equal(t, "4000", q.NobaRate)
}

func TestComputeQuote_WithdrawalAmountTooLow(t *testing.T) {
	_, err := testEngine().ComputeQuote(context.Background(), 1, model.CurrencyUSD, model.CurrencyCOP, false)
	require.Error(t, err)
	assert.Equal(t, svcerror.ErrSemanticValidation, svcerror.CodeOf(err))
	assert.Contains(t, err.Error(), AmountTooLow)
}

func TestComputeQuote_CollectionDeposit(t *testing.T) {
	q, err := testEngine().ComputeQuote(context.Background(), 100000, model.CurrencyCOP, model.CurrencyUSD, true)
	require.NoError(t, err)

	// bank fee: 0.02*100000 + 2500 = 4500 COP -> 0.90 USD at the bank rate
	assert.Equal(t, "0.50", q.NobaFee)
	assert.Equal(t, "0.90", q.ProcessingFee)
	assert.Equal(t, "1.40", q.TotalFee)
	assert.Equal(t, "25.00", q.QuoteAmount)
	assert.Equal(t, "23.60", q.QuoteAmountWithFees)
	assert.Equal(t, "0.00025", q.NobaRate)
}

func TestComputeQuote_BankFeeCeilsToFiveCents(t *testing.T) {
	// 0.02*105000 + 2500 = 4600 COP -> 0.92 USD, which ceils to 0.95.
	q, err := testEngine().ComputeQuote(context.Background(), 105000, model.CurrencyCOP, model.CurrencyUSD, true)
	require.NoError(t, err)

	assert.Equal(t, "0.95", q.ProcessingFee)
	assert.Equal(t, "26.25", q.QuoteAmount)
	assert.Equal(t, "24.80", q.QuoteAmountWithFees)
}

func TestComputeQuote_DepositUsesDepositSchedule(t *testing.T) {
	// bank fee: 0.03*100000 + 1000 = 4000 COP -> 0.80 USD
	q, err := testEngine().ComputeQuote(context.Background(), 100000, model.CurrencyCOP, model.CurrencyUSD, false)
	require.NoError(t, err)

	assert.Equal(t, "0.75", q.NobaFee)
	assert.Equal(t, "0.80", q.ProcessingFee)
	assert.Equal(t, "23.45", q.QuoteAmountWithFees)
}

func TestComputeQuote_DepositAmountTooLow(t *testing.T) {
	// 1000 COP converts to 0.25 USD; collection fees exceed it.
	_, err := testEngine().ComputeQuote(context.Background(), 1000, model.CurrencyCOP, model.CurrencyUSD, true)
	require.Error(t, err)
	assert.Equal(t, svcerror.ErrSemanticValidation, svcerror.CodeOf(err))
	assert.Contains(t, err.Error(), AmountTooLow)
}

func TestComputeQuote_RateMissing(t *testing.T) {
	engine := NewEngine(&stubRates{rates: map[string]*exchangerate.ExchangeRate{}}, testFees())

	_, err := engine.ComputeQuote(context.Background(), 50, model.CurrencyUSD, model.CurrencyCOP, false)
	require.Error(t, err)
	assert.Equal(t, svcerror.ErrRateUnavailable, svcerror.CodeOf(err))
	assert.Contains(t, err.Error(), "does not exist")
}

func TestComputeQuote_UnsupportedPairs(t *testing.T) {
	engine := testEngine()

	_, err := engine.ComputeQuote(context.Background(), 50, model.CurrencyUSD, model.CurrencyUSD, false)
	assert.Equal(t, svcerror.ErrSemanticValidation, svcerror.CodeOf(err))

	_, err = engine.ComputeQuote(context.Background(), 50, model.CurrencyCOP, model.CurrencyCOP, false)
	assert.Equal(t, svcerror.ErrSemanticValidation, svcerror.CodeOf(err))

	_, err = engine.ComputeQuote(context.Background(), 50, model.Currency("EUR"), model.CurrencyCOP, false)
	assert.Equal(t, svcerror.ErrSemanticValidation, svcerror.CodeOf(err))
}

func TestComputeQuote_Deterministic(t *testing.T) {
	engine := testEngine()
	first, err := engine.ComputeQuote(context.Background(), 50, model.CurrencyUSD, model.CurrencyCOP, false)
	require.NoError(t, err)
	second, err := engine.ComputeQuote(context.Background(), 50, model.CurrencyUSD, model.CurrencyCOP, false)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
