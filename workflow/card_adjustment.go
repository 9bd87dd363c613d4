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

package workflow

import (
	"context"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/sirupsen/logrus"

	"github.com/noba/transaction-intake/model"
)

// CardAdjustmentProcessor covers CARD_CREDIT_ADJUSTMENT and
// CARD_DEBIT_ADJUSTMENT with one implementation; the two factory
// registrations differ only in which consumer leg must name a consumer.
// Both legs and the rate come straight from the card provider and are
// recorded verbatim.
type CardAdjustmentProcessor struct {
	name model.WorkflowName
}

func NewCardCreditAdjustmentProcessor() *CardAdjustmentProcessor {
	return &CardAdjustmentProcessor{name: model.WorkflowCardCreditAdjustment}
}

func NewCardDebitAdjustmentProcessor() *CardAdjustmentProcessor {
	return &CardAdjustmentProcessor{name: model.WorkflowCardDebitAdjustment}
}

func (p *CardAdjustmentProcessor) WorkflowName() model.WorkflowName {
	return p.name
}

func (p *CardAdjustmentProcessor) Validate(ctx context.Context, subRequest interface{}) error {
	r, ok := subRequest.(*model.CardAdjustmentRequest)
	if !ok {
		return errWrongSubRequest(p.name, subRequest)
	}
	consumerField := validation.Field(&r.CreditConsumerID, validation.Required)
	if p.name == model.WorkflowCardDebitAdjustment {
		consumerField = validation.Field(&r.DebitConsumerID, validation.Required)
	}
	return semanticErr(validation.ValidateStruct(r,
		consumerField,
		validation.Field(&r.DebitAmount, validation.Required, validation.Min(0.0).Exclusive()),
		validation.Field(&r.DebitCurrency, validation.Required, validation.In(model.CurrencyUSD, model.CurrencyCOP)),
		validation.Field(&r.CreditAmount, validation.Required, validation.Min(0.0).Exclusive()),
		validation.Field(&r.CreditCurrency, validation.Required, validation.In(model.CurrencyUSD, model.CurrencyCOP)),
		validation.Field(&r.ExchangeRate, validation.Required, validation.Min(0.0).Exclusive()),
	))
}

func (p *CardAdjustmentProcessor) ConvertToCanonical(ctx context.Context, subRequest interface{}) (*model.InputTransaction, error) {
	r, ok := subRequest.(*model.CardAdjustmentRequest)
	if !ok {
		return nil, errWrongSubRequest(p.name, subRequest)
	}
	return &model.InputTransaction{
		TransactionRef:   model.GenerateTransactionRef(),
		WorkflowName:     p.name,
		DebitConsumerID:  r.DebitConsumerID,
		DebitAmount:      r.DebitAmount,
		DebitCurrency:    r.DebitCurrency,
		CreditConsumerID: r.CreditConsumerID,
		CreditAmount:     r.CreditAmount,
		CreditCurrency:   r.CreditCurrency,
		ExchangeRate:     r.ExchangeRate,
		Memo:             r.Memo,
		SessionKey:       model.SessionKeyCardAdjustments,
		TransactionFees:  []model.TransactionFee{},
	}, nil
}

func (p *CardAdjustmentProcessor) PerformPostProcessing(ctx context.Context, subRequest interface{}, created *model.InputTransaction) {
	logrus.WithContext(ctx).WithFields(logrus.Fields{
		"workflow":        p.name,
		"transaction_ref": created.TransactionRef,
	}).Debug("card adjustment recorded")
}
