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

// CreditAdjustmentProcessor credits a consumer from an internal operations
// account. The debit leg mirrors the credit leg without a consumer so the
// movement balances; the rate is pinned at 1.
type CreditAdjustmentProcessor struct{}

func NewCreditAdjustmentProcessor() *CreditAdjustmentProcessor {
	return &CreditAdjustmentProcessor{}
}

func (p *CreditAdjustmentProcessor) WorkflowName() model.WorkflowName {
	return model.WorkflowCreditAdjustment
}

func (p *CreditAdjustmentProcessor) Validate(ctx context.Context, subRequest interface{}) error {
	r, ok := subRequest.(*model.CreditAdjustmentRequest)
	if !ok {
		return errWrongSubRequest(p.WorkflowName(), subRequest)
	}
	return semanticErr(validation.ValidateStruct(r,
		validation.Field(&r.CreditConsumerID, validation.Required),
		validation.Field(&r.CreditAmount, validation.Required, validation.Min(0.0).Exclusive()),
		validation.Field(&r.CreditCurrency, validation.Required, validation.In(model.CurrencyUSD, model.CurrencyCOP)),
	))
}

func (p *CreditAdjustmentProcessor) ConvertToCanonical(ctx context.Context, subRequest interface{}) (*model.InputTransaction, error) {
	r, ok := subRequest.(*model.CreditAdjustmentRequest)
	if !ok {
		return nil, errWrongSubRequest(p.WorkflowName(), subRequest)
	}
	return &model.InputTransaction{
		TransactionRef:   model.GenerateTransactionRef(),
		WorkflowName:     p.WorkflowName(),
		DebitAmount:      r.CreditAmount,
		DebitCurrency:    r.CreditCurrency,
		CreditConsumerID: r.CreditConsumerID,
		CreditAmount:     r.CreditAmount,
		CreditCurrency:   r.CreditCurrency,
		ExchangeRate:     1,
		Memo:             r.Memo,
		SessionKey:       model.SessionKeyInternalAdjustments,
		TransactionFees:  []model.TransactionFee{},
	}, nil
}

func (p *CreditAdjustmentProcessor) PerformPostProcessing(ctx context.Context, subRequest interface{}, created *model.InputTransaction) {
	logrus.WithContext(ctx).WithField("transaction_ref", created.TransactionRef).
		Debug("credit adjustment recorded")
}

// DebitAdjustmentProcessor is the debit-side counterpart of
// CreditAdjustmentProcessor.
type DebitAdjustmentProcessor struct{}

func NewDebitAdjustmentProcessor() *DebitAdjustmentProcessor {
	return &DebitAdjustmentProcessor{}
}

func (p *DebitAdjustmentProcessor) WorkflowName() model.WorkflowName {
	return model.WorkflowDebitAdjustment
}

func (p *DebitAdjustmentProcessor) Validate(ctx context.Context, subRequest interface{}) error {
	r, ok := subRequest.(*model.DebitAdjustmentRequest)
	if !ok {
		return errWrongSubRequest(p.WorkflowName(), subRequest)
	}
	return semanticErr(validation.ValidateStruct(r,
		validation.Field(&r.DebitConsumerID, validation.Required),
		validation.Field(&r.DebitAmount, validation.Required, validation.Min(0.0).Exclusive()),
		validation.Field(&r.DebitCurrency, validation.Required, validation.In(model.CurrencyUSD, model.CurrencyCOP)),
	))
}

func (p *DebitAdjustmentProcessor) ConvertToCanonical(ctx context.Context, subRequest interface{}) (*model.InputTransaction, error) {
	r, ok := subRequest.(*model.DebitAdjustmentRequest)
	if !ok {
		return nil, errWrongSubRequest(p.WorkflowName(), subRequest)
	}
	return &model.InputTransaction{
		TransactionRef:  model.GenerateTransactionRef(),
		WorkflowName:    p.WorkflowName(),
		DebitConsumerID: r.DebitConsumerID,
		DebitAmount:     r.DebitAmount,
		DebitCurrency:   r.DebitCurrency,
		CreditAmount:    r.DebitAmount,
		CreditCurrency:  r.DebitCurrency,
		ExchangeRate:    1,
		Memo:            r.Memo,
		SessionKey:      model.SessionKeyInternalAdjustments,
		TransactionFees: []model.TransactionFee{},
	}, nil
}

func (p *DebitAdjustmentProcessor) PerformPostProcessing(ctx context.Context, subRequest interface{}, created *model.InputTransaction) {
	logrus.WithContext(ctx).WithField("transaction_ref", created.TransactionRef).
		Debug("debit adjustment recorded")
}
