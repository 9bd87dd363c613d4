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

package exchangerate

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/noba/transaction-intake/model"
)

// ErrRateNotFound signals that no rate exists for the requested pair. It is
// distinct from a stale rate: staleness policy lives in the upstream rate
// service, not here.
var ErrRateNotFound = errors.New("exchange rate not found")

// ExchangeRate is one currency-pair rate as published by the upstream rate
// service. BankRate is the raw provider rate; NobaRate is the customer-facing
// rate after the platform's margin policy.
type ExchangeRate struct {
	NumeratorCurrency   model.Currency `json:"numeratorCurrency"`
	DenominatorCurrency model.Currency `json:"denominatorCurrency"`
	BankRate            float64        `json:"bankRate"`
	NobaRate            float64        `json:"nobaRate"`
	ExpirationTimestamp time.Time      `json:"expirationTimestamp"`
}

// Provider looks up the rate for a currency pair. Implementations must
// return ErrRateNotFound for a missing pair, never a zero rate.
type Provider interface {
	GetExchangeRateForCurrencyPair(ctx context.Context, numerator, denominator model.Currency) (*ExchangeRate, error)
}
