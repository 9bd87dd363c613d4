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

// WalletWithdrawalProcessor pays a consumer's USD balance out to a
// Colombian bank account. Pricing uses the withdrawal fee schedule; the
// bank routing fields are carried through untouched for the payout
// provider.
type WalletWithdrawalProcessor struct {
	consumers consumer.Directory
	quoter    Quoter
	engine    EngineHandoff
}

func NewWalletWithdrawalProcessor(consumers consumer.Directory, quoter Quoter, engine EngineHandoff) *WalletWithdrawalProcessor {
	return &WalletWithdrawalProcessor{consumers: consumers, quoter: quoter, engine: engine}
}

func (p *WalletWithdrawalProcessor) WorkflowName() model.WorkflowName {
	return model.WorkflowWalletWithdrawal
}

func (p *WalletWithdrawalProcessor) Validate(ctx context.Context, subRequest interface{}) error {
	r, ok := subRequest.(*model.WalletWithdrawalRequest)
	if !ok {
		return errWrongSubRequest(p.WorkflowName(), subRequest)
	}
	err := validation.ValidateStruct(r,
		validation.Field(&r.DebitConsumerIDOrTag, validation.Required),
		validation.Field(&r.DebitAmount, validation.Required, validation.Min(0.0).Exclusive()),
		validation.Field(&r.DebitCurrency, validation.Required,
			validation.In(model.CurrencyUSD).Error("withdrawals debit USD balances only")),
		validation.Field(&r.CreditCurrency, validation.Required,
			validation.In(model.CurrencyCOP).Error("withdrawals pay out in COP only")),
		validation.Field(&r.SessionKey, validation.Required),
		validation.Field(&r.AccountNumber, validation.Required),
		validation.Field(&r.BankCode, validation.Required),
		validation.Field(&r.DocumentNumber, validation.Required),
		validation.Field(&r.AccountType,
			validation.When(r.AccountType != "", validation.In("SAVINGS", "CHECKING"))),
	)
	if err != nil {
		return semanticErr(err)
	}
	if _, err := resolveActiveConsumer(ctx, p.consumers, "debitConsumerIDOrTag", r.DebitConsumerIDOrTag); err != nil {
		return err
	}
	_, err = p.GetQuote(ctx, r.DebitAmount, r.DebitCurrency, r.CreditCurrency)
	return err
}

// GetQuote prices a USD withdrawal into COP using the withdrawal fee
// schedule.
func (p *WalletWithdrawalProcessor) GetQuote(ctx context.Context, amount float64, amountCurrency, desiredCurrency model.Currency) (*model.Quote, error) {
	if amountCurrency != model.CurrencyUSD || desiredCurrency != model.CurrencyCOP {
		return nil, svcerror.New(svcerror.ErrSemanticValidation,
			"wallet withdrawals are quoted from USD to COP only", nil)
	}
	return p.quoter.ComputeQuote(ctx, amount, amountCurrency, desiredCurrency, false)
}

func (p *WalletWithdrawalProcessor) ConvertToCanonical(ctx context.Context, subRequest interface{}) (*model.InputTransaction, error) {
	r, ok := subRequest.(*model.WalletWithdrawalRequest)
	if !ok {
		return nil, errWrongSubRequest(p.WorkflowName(), subRequest)
	}
	c, err := resolveActiveConsumer(ctx, p.consumers, "debitConsumerIDOrTag", r.DebitConsumerIDOrTag)
	if err != nil {
		return nil, err
	}
	quote, err := p.GetQuote(ctx, r.DebitAmount, r.DebitCurrency, r.CreditCurrency)
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
		DebitCurrency:    model.CurrencyUSD,
		CreditConsumerID: c.ID,
		CreditAmount:     creditAmount,
		CreditCurrency:   model.CurrencyCOP,
		ExchangeRate:     rate,
		Memo:             r.Memo,
		SessionKey:       r.SessionKey,
		TransactionFees: []model.TransactionFee{
			{Type: model.FeeTypeNoba, Amount: nobaFee, Currency: model.CurrencyUSD},
			{Type: model.FeeTypeProcessing, Amount: processingFee, Currency: model.CurrencyUSD},
		},
	}, nil
}

func (p *WalletWithdrawalProcessor) PerformPostProcessing(ctx context.Context, subRequest interface{}, created *model.InputTransaction) {
	logrus.WithContext(ctx).WithFields(logrus.Fields{
		"transaction_ref": created.TransactionRef,
		"session_key":     created.SessionKey,
	}).Info("wallet withdrawal awaiting payout")
}

// InitiateWorkflow hands the stored withdrawal to the workflow engine,
// which drives the bank payout.
func (p *WalletWithdrawalProcessor) InitiateWorkflow(ctx context.Context, transactionID, transactionRef string) error {
	return p.engine.Initiate(ctx, transactionID, transactionRef)
}
