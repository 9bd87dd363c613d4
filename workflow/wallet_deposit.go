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

// WalletDepositProcessor funds a consumer wallet from a COP collection. The
// consumer is looked up by id or tag, the credit amount comes off a live
// quote priced with the collection fee schedule, and once the transaction
// is stored it is handed to the workflow engine to await the collection
// confirmation.
type WalletDepositProcessor struct {
	consumers consumer.Directory
	quoter    Quoter
	engine    EngineHandoff
}

func NewWalletDepositProcessor(consumers consumer.Directory, quoter Quoter, engine EngineHandoff) *WalletDepositProcessor {
	return &WalletDepositProcessor{consumers: consumers, quoter: quoter, engine: engine}
}

func (p *WalletDepositProcessor) WorkflowName() model.WorkflowName {
	return model.WorkflowWalletDeposit
}

func (p *WalletDepositProcessor) Validate(ctx context.Context, subRequest interface{}) error {
	r, ok := subRequest.(*model.WalletDepositRequest)
	if !ok {
		return errWrongSubRequest(p.WorkflowName(), subRequest)
	}
	err := validation.ValidateStruct(r,
		validation.Field(&r.DebitConsumerIDOrTag, validation.Required),
		validation.Field(&r.DebitAmount, validation.Required, validation.Min(0.0).Exclusive()),
		validation.Field(&r.DebitCurrency, validation.Required,
			validation.In(model.CurrencyCOP).Error("only COP deposits are supported")),
		validation.Field(&r.DepositMode, validation.Required,
			validation.In(model.WalletDepositModeCollectionLink).Error("deposit mode is not supported")),
		validation.Field(&r.SessionKey, validation.Required),
	)
	if err != nil {
		return semanticErr(err)
	}
	if _, err := resolveActiveConsumer(ctx, p.consumers, "debitConsumerIDOrTag", r.DebitConsumerIDOrTag); err != nil {
		return err
	}
	// Running the quote up front rejects amounts too small to cover fees
	// before anything is persisted.
	_, err = p.GetQuote(ctx, r.DebitAmount, r.DebitCurrency, model.CurrencyUSD)
	return err
}

// GetQuote prices a COP deposit into USD using the collection fee schedule.
func (p *WalletDepositProcessor) GetQuote(ctx context.Context, amount float64, amountCurrency, desiredCurrency model.Currency) (*model.Quote, error) {
	if amountCurrency != model.CurrencyCOP || desiredCurrency != model.CurrencyUSD {
		return nil, svcerror.New(svcerror.ErrSemanticValidation,
			"wallet deposits are quoted from COP to USD only", nil)
	}
	return p.quoter.ComputeQuote(ctx, amount, amountCurrency, desiredCurrency, true)
}

func (p *WalletDepositProcessor) ConvertToCanonical(ctx context.Context, subRequest interface{}) (*model.InputTransaction, error) {
	r, ok := subRequest.(*model.WalletDepositRequest)
	if !ok {
		return nil, errWrongSubRequest(p.WorkflowName(), subRequest)
	}
	c, err := resolveActiveConsumer(ctx, p.consumers, "debitConsumerIDOrTag", r.DebitConsumerIDOrTag)
	if err != nil {
		return nil, err
	}
	quote, err := p.GetQuote(ctx, r.DebitAmount, r.DebitCurrency, model.CurrencyUSD)
	if err != nil {
		return nil, err
	}
	creditAmount, err := parseQuoteAmount(quote.QuoteAmountWithFees)
	if err != nil {
		return nil, err
	}
	rate, err := parseQuoteAmount(quote.NobaRate)
	if err != nil {
		return nil, err
	}
	nobaFee, err := parseQuoteAmount(quote.NobaFee)
	if err != nil {
		return nil, err
	}
	processingFee, err := parseQuoteAmount(quote.ProcessingFee)
	if err != nil {
		return nil, err
	}
	return &model.InputTransaction{
		TransactionRef:   model.GenerateTransactionRef(),
		WorkflowName:     p.WorkflowName(),
		DebitConsumerID:  c.ID,
		DebitAmount:      r.DebitAmount,
		DebitCurrency:    model.CurrencyCOP,
		CreditConsumerID: c.ID,
		CreditAmount:     creditAmount,
		CreditCurrency:   model.CurrencyUSD,
		ExchangeRate:     rate,
		Memo:             r.Memo,
		SessionKey:       r.SessionKey,
		TransactionFees: []model.TransactionFee{
			{Type: model.FeeTypeNoba, Amount: nobaFee, Currency: model.CurrencyUSD},
			{Type: model.FeeTypeProcessing, Amount: processingFee, Currency: model.CurrencyUSD},
		},
	}, nil
}

func (p *WalletDepositProcessor) PerformPostProcessing(ctx context.Context, subRequest interface{}, created *model.InputTransaction) {
	logrus.WithContext(ctx).WithFields(logrus.Fields{
		"transaction_ref": created.TransactionRef,
		"session_key":     created.SessionKey,
	}).Info("wallet deposit awaiting collection")
}

// InitiateWorkflow hands the stored deposit to the workflow engine, which
// waits on the collection-link payment before settling.
func (p *WalletDepositProcessor) InitiateWorkflow(ctx context.Context, transactionID, transactionRef string) error {
	return p.engine.Initiate(ctx, transactionID, transactionRef)
}
