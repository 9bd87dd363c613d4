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

// CardReversalProcessor handles reversals of prior card transactions. The
// request names the original card transaction; depending on Type the
// reversal produces a single credit or a single debit leg in USD at a 1:1
// rate. Reversals are reported after the fact, so validation is purely
// static.
type CardReversalProcessor struct{}

func NewCardReversalProcessor() *CardReversalProcessor {
	return &CardReversalProcessor{}
}

func (p *CardReversalProcessor) WorkflowName() model.WorkflowName {
	return model.WorkflowCardReversal
}

func (p *CardReversalProcessor) Validate(ctx context.Context, subRequest interface{}) error {
	r, ok := subRequest.(*model.CardReversalRequest)
	if !ok {
		return errWrongSubRequest(p.WorkflowName(), subRequest)
	}
	return semanticErr(validation.ValidateStruct(r,
		validation.Field(&r.Type, validation.Required,
			validation.In(model.CardReversalTypeCredit, model.CardReversalTypeDebit)),
		validation.Field(&r.TransactionID, validation.Required),
		validation.Field(&r.ConsumerID, validation.Required),
		validation.Field(&r.AmountInUSD, validation.Required, validation.Min(0.0).Exclusive()),
	))
}

func (p *CardReversalProcessor) ConvertToCanonical(ctx context.Context, subRequest interface{}) (*model.InputTransaction, error) {
	r, ok := subRequest.(*model.CardReversalRequest)
	if !ok {
		return nil, errWrongSubRequest(p.WorkflowName(), subRequest)
	}
	txn := &model.InputTransaction{
		ID:              r.TransactionID,
		TransactionRef:  model.GenerateTransactionRef(),
		WorkflowName:    p.WorkflowName(),
		ExchangeRate:    1,
		Memo:            r.Memo,
		SessionKey:      model.SessionKeyCardReversals,
		TransactionFees: []model.TransactionFee{},
	}
	switch r.Type {
	case model.CardReversalTypeDebit:
		txn.DebitConsumerID = r.ConsumerID
		txn.DebitAmount = r.AmountInUSD
		txn.DebitCurrency = model.CurrencyUSD
	default:
		txn.CreditConsumerID = r.ConsumerID
		txn.CreditAmount = r.AmountInUSD
		txn.CreditCurrency = model.CurrencyUSD
	}
	return txn, nil
}

func (p *CardReversalProcessor) PerformPostProcessing(ctx context.Context, subRequest interface{}, created *model.InputTransaction) {
	logrus.WithContext(ctx).WithFields(logrus.Fields{
		"transaction_id":  created.ID,
		"transaction_ref": created.TransactionRef,
	}).Debug("card reversal recorded")
}
