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

	"github.com/noba/transaction-intake/consumer"
	"github.com/noba/transaction-intake/model"
)

// CardWithdrawalProcessor handles card purchases reported by the card
// network. The network has already moved the money, so intake records the
// transaction exactly as reported, including the network-assigned
// transaction id and exchange rate.
type CardWithdrawalProcessor struct {
	consumers consumer.Directory
}

func NewCardWithdrawalProcessor(consumers consumer.Directory) *CardWithdrawalProcessor {
	return &CardWithdrawalProcessor{consumers: consumers}
}

func (p *CardWithdrawalProcessor) WorkflowName() model.WorkflowName {
	return model.WorkflowCardWithdrawal
}

func (p *CardWithdrawalProcessor) Validate(ctx context.Context, subRequest interface{}) error {
	r, ok := subRequest.(*model.CardWithdrawalRequest)
	if !ok {
		return errWrongSubRequest(p.WorkflowName(), subRequest)
	}
	err := validation.ValidateStruct(r,
		validation.Field(&r.TransactionID, validation.Required),
		validation.Field(&r.DebitConsumerID, validation.Required),
		validation.Field(&r.DebitAmountInUSD, validation.Required, validation.Min(0.0).Exclusive()),
		validation.Field(&r.CreditAmount, validation.Required, validation.Min(0.0).Exclusive()),
		validation.Field(&r.CreditCurrency, validation.Required, validation.In(model.CurrencyUSD, model.CurrencyCOP)),
		validation.Field(&r.ExchangeRate, validation.Required, validation.Min(0.0).Exclusive()),
	)
	if err != nil {
		return semanticErr(err)
	}
	_, err = resolveActiveConsumer(ctx, p.consumers, "debitConsumerID", r.DebitConsumerID)
	return err
}

func (p *CardWithdrawalProcessor) ConvertToCanonical(ctx context.Context, subRequest interface{}) (*model.InputTransaction, error) {
	r, ok := subRequest.(*model.CardWithdrawalRequest)
	if !ok {
		return nil, errWrongSubRequest(p.WorkflowName(), subRequest)
	}
	return &model.InputTransaction{
		ID:               r.TransactionID,
		TransactionRef:   model.GenerateTransactionRef(),
		WorkflowName:     p.WorkflowName(),
		DebitConsumerID:  r.DebitConsumerID,
		DebitAmount:      r.DebitAmountInUSD,
		DebitCurrency:    model.CurrencyUSD,
		CreditConsumerID: r.DebitConsumerID,
		CreditAmount:     r.CreditAmount,
		CreditCurrency:   r.CreditCurrency,
		ExchangeRate:     r.ExchangeRate,
		Memo:             r.Memo,
		SessionKey:       model.SessionKeyCardWithdrawals,
		TransactionFees:  []model.TransactionFee{},
	}, nil
}

func (p *CardWithdrawalProcessor) PerformPostProcessing(ctx context.Context, subRequest interface{}, created *model.InputTransaction) {
	logrus.WithContext(ctx).WithFields(logrus.Fields{
		"transaction_id":  created.ID,
		"transaction_ref": created.TransactionRef,
	}).Debug("card withdrawal recorded")
}
