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
	"github.com/noba/transaction-intake/internal/svcerror"
	"github.com/noba/transaction-intake/model"
)

// WalletTransferProcessor moves value between two consumer wallets. There
// is no conversion and no fee: both legs carry the request amount and
// currency at a 1:1 rate. Both consumers must resolve to active accounts.
type WalletTransferProcessor struct {
	consumers consumer.Directory
	engine    EngineHandoff
}

func NewWalletTransferProcessor(consumers consumer.Directory, engine EngineHandoff) *WalletTransferProcessor {
	return &WalletTransferProcessor{consumers: consumers, engine: engine}
}

func (p *WalletTransferProcessor) WorkflowName() model.WorkflowName {
	return model.WorkflowWalletTransfer
}

func (p *WalletTransferProcessor) Validate(ctx context.Context, subRequest interface{}) error {
	r, ok := subRequest.(*model.WalletTransferRequest)
	if !ok {
		return errWrongSubRequest(p.WorkflowName(), subRequest)
	}
	err := validation.ValidateStruct(r,
		validation.Field(&r.DebitConsumerIDOrTag, validation.Required),
		validation.Field(&r.CreditConsumerIDOrTag, validation.Required),
		validation.Field(&r.DebitAmount, validation.Required, validation.Min(0.0).Exclusive()),
		validation.Field(&r.DebitCurrency, validation.Required, validation.In(model.CurrencyUSD, model.CurrencyCOP)),
		validation.Field(&r.SessionKey, validation.Required),
	)
	if err != nil {
		return semanticErr(err)
	}
	if _, err := resolveActiveConsumer(ctx, p.consumers, "debitConsumerIDOrTag", r.DebitConsumerIDOrTag); err != nil {
		return err
	}
	if _, err := resolveActiveConsumer(ctx, p.consumers, "creditConsumerIDOrTag", r.CreditConsumerIDOrTag); err != nil {
		return err
	}
	if r.DebitConsumerIDOrTag == r.CreditConsumerIDOrTag {
		return svcerror.New(svcerror.ErrSemanticValidation,
			"debitConsumerIDOrTag and creditConsumerIDOrTag must name different consumers", nil)
	}
	return nil
}

func (p *WalletTransferProcessor) ConvertToCanonical(ctx context.Context, subRequest interface{}) (*model.InputTransaction, error) {
	r, ok := subRequest.(*model.WalletTransferRequest)
	if !ok {
		return nil, errWrongSubRequest(p.WorkflowName(), subRequest)
	}
	debitor, err := resolveActiveConsumer(ctx, p.consumers, "debitConsumerIDOrTag", r.DebitConsumerIDOrTag)
	if err != nil {
		return nil, err
	}
	creditor, err := resolveActiveConsumer(ctx, p.consumers, "creditConsumerIDOrTag", r.CreditConsumerIDOrTag)
	if err != nil {
		return nil, err
	}
	return &model.InputTransaction{
		TransactionRef:   model.GenerateTransactionRef(),
		WorkflowName:     p.WorkflowName(),
		DebitConsumerID:  debitor.ID,
		DebitAmount:      r.DebitAmount,
		DebitCurrency:    r.DebitCurrency,
		CreditConsumerID: creditor.ID,
		CreditAmount:     r.DebitAmount,
		CreditCurrency:   r.DebitCurrency,
		ExchangeRate:     1,
		Memo:             r.Memo,
		SessionKey:       r.SessionKey,
		TransactionFees:  []model.TransactionFee{},
	}, nil
}

func (p *WalletTransferProcessor) PerformPostProcessing(ctx context.Context, subRequest interface{}, created *model.InputTransaction) {
	logrus.WithContext(ctx).WithFields(logrus.Fields{
		"transaction_ref": created.TransactionRef,
		"session_key":     created.SessionKey,
	}).Info("wallet transfer recorded")
}

// InitiateWorkflow hands the stored transfer to the workflow engine for
// settlement between the two wallets.
func (p *WalletTransferProcessor) InitiateWorkflow(ctx context.Context, transactionID, transactionRef string) error {
	return p.engine.Initiate(ctx, transactionID, transactionRef)
}
