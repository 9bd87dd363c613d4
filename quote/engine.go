/*
Copyright 2024 Noba Payments Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package quote computes the fee-adjusted conversion quote for a prospective
// transaction. The engine is pure given its configuration and the rate
// provider: the same inputs always produce the same quote.
package quote

import (
	"context"
	"fmt"
	"strconv"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/noba/transaction-intake/config"
	"github.com/noba/transaction-intake/exchangerate"
	"github.com/noba/transaction-intake/internal/svcerror"
	"github.com/noba/transaction-intake/model"
)

// AmountTooLow tags the expected validation outcome where fees exceed the
// amount being moved.
const AmountTooLow = "AMOUNT_TOO_LOW"

// Bank fees are charged to the consumer in five-cent steps, always rounded
// against the platform.
var feeIncrement = decimal.RequireFromString("0.05")

// Engine prices conversions between USD and the supported local currencies.
// It does not hardcode a conversion direction; each workflow restricts the
// directions it will ask for before calling in.
type Engine struct {
	rates exchangerate.Provider
	fees  config.FeesConfig
}

func NewEngine(rates exchangerate.Provider, fees config.FeesConfig) *Engine {
	return &Engine{rates: rates, fees: fees}
}

// ComputeQuote converts amount from amountCurrency into desiredCurrency and
// returns the fee breakdown. collection selects the collection fee schedule
// for deposit-direction quotes.
//
// The two directions deliberately apply fees at different points:
// deposit-direction fees are subtracted in USD after conversion, while
// withdrawal-direction fees are subtracted in USD before multiplying by the
// noba rate. The asymmetry is business policy, not an accident.
func (e *Engine) ComputeQuote(ctx context.Context, amount float64, amountCurrency, desiredCurrency model.Currency, collection bool) (*model.Quote, error) {
	if !amountCurrency.Valid() || !desiredCurrency.Valid() || amountCurrency == desiredCurrency {
		return nil, svcerror.New(svcerror.ErrSemanticValidation,
			fmt.Sprintf("unsupported currency pair %s-%s", amountCurrency, desiredCurrency), nil)
	}

	toUSD := desiredCurrency == model.CurrencyUSD
	fromUSD := amountCurrency == model.CurrencyUSD
	if !toUSD && !fromUSD {
		return nil, svcerror.New(svcerror.ErrSemanticValidation,
			fmt.Sprintf("unsupported currency pair %s-%s", amountCurrency, desiredCurrency), nil)
	}

	rate, err := e.rates.GetExchangeRateForCurrencyPair(ctx, amountCurrency, desiredCurrency)
	if err != nil {
		if errors.Is(err, exchangerate.ErrRateNotFound) {
			return nil, svcerror.New(svcerror.ErrRateUnavailable,
				fmt.Sprintf("exchange rate for pair %s-%s does not exist", amountCurrency, desiredCurrency), nil)
		}
		return nil, err
	}

	schedule := e.schedule(fromUSD, collection)

	amt := decimal.NewFromFloat(amount)
	bankRate := decimal.NewFromFloat(rate.BankRate)
	nobaRate := decimal.NewFromFloat(rate.NobaRate)

	// The bank charges its fixed + proportional fee in the foreign
	// currency; it is converted into USD at the bank rate, not the noba
	// rate: the spread between the two is the platform margin, and fees
	// are priced at the bank's true cost.
	bankFeeForeign := decimal.NewFromFloat(schedule.Multiplier).Mul(amt).Add(decimal.NewFromFloat(schedule.FixedAmount))
	var bankFeeUSD decimal.Decimal
	if toUSD {
		// Rate is quoted as USD per unit of the foreign currency.
		bankFeeUSD = ceilToIncrement(bankFeeForeign.Mul(bankRate))
	} else {
		// Rate is quoted as foreign currency per USD.
		bankFeeUSD = ceilToIncrement(bankFeeForeign.Div(bankRate))
	}

	nobaFee := decimal.NewFromFloat(schedule.NobaFee)
	totalFee := nobaFee.Add(bankFeeUSD)

	quoteAmount := amt.Mul(nobaRate).Round(2)

	var quoteAmountWithFees decimal.Decimal
	if toUSD {
		quoteAmountWithFees = quoteAmount.Sub(nobaFee).Sub(bankFeeUSD).Round(2)
	} else {
		netUSD := amt.Sub(totalFee)
		if netUSD.IsNegative() {
			return nil, svcerror.New(svcerror.ErrSemanticValidation,
				fmt.Sprintf("%s: fees of %s USD exceed amount %s %s", AmountTooLow, totalFee.StringFixed(2), amt.String(), amountCurrency), nil)
		}
		quoteAmountWithFees = netUSD.Mul(nobaRate).Round(2)
	}
	if quoteAmountWithFees.IsNegative() {
		return nil, svcerror.New(svcerror.ErrSemanticValidation,
			fmt.Sprintf("%s: fees of %s USD exceed converted amount %s %s", AmountTooLow, totalFee.StringFixed(2), quoteAmount.StringFixed(2), desiredCurrency), nil)
	}

	return &model.Quote{
		NobaFee:             nobaFee.StringFixed(2),
		ProcessingFee:       bankFeeUSD.StringFixed(2),
		TotalFee:            totalFee.StringFixed(2),
		QuoteAmount:         quoteAmount.StringFixed(2),
		QuoteAmountWithFees: quoteAmountWithFees.StringFixed(2),
		NobaRate:            strconv.FormatFloat(rate.NobaRate, 'f', -1, 64),
	}, nil
}

func (e *Engine) schedule(fromUSD, collection bool) config.FeeScheduleConfig {
	if fromUSD {
		return e.fees.Withdrawal
	}
	if collection {
		return e.fees.Collection
	}
	return e.fees.Deposit
}

// ceilToIncrement rounds d up to the nearest fee increment. This is a
// ceiling to a fixed step, not standard rounding: 0.61 becomes 0.65.
func ceilToIncrement(d decimal.Decimal) decimal.Decimal {
	return d.Div(feeIncrement).Ceil().Mul(feeIncrement)
}
