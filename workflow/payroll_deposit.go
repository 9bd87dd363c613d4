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

// PayrollDepositProcessor records employer disbursements into consumer
// wallets. The payroll service has already priced the movement, so both
// amounts and the rate arrive precomputed; the debit leg is the COP
// disbursement and carries no consumer.
type PayrollDepositProcessor struct{}

func NewPayrollDepositProcessor() *PayrollDepositProcessor {
	return &PayrollDepositProcessor{}
}

func (p *PayrollDepositProcessor) WorkflowName() model.WorkflowName {
	return model.WorkflowPayrollDeposit
}

func (p *PayrollDepositProcessor) Validate(ctx context.Context, subRequest interface{}) error {
	r, ok := subRequest.(*model.PayrollDepositRequest)
	if !ok {
		return errWrongSubRequest(p.WorkflowName(), subRequest)
	}
	return semanticErr(validation.ValidateStruct(r,
		validation.Field(&r.DisbursementID, validation.Required),
		validation.Field(&r.CreditConsumerID, validation.Required),
		validation.Field(&r.CreditAmount, validation.Required, validation.Min(0.0).Exclusive()),
		validation.Field(&r.DebitAmount, validation.Required, validation.Min(0.0).Exclusive()),
		validation.Field(&r.ExchangeRate, validation.Required, validation.Min(0.0).Exclusive()),
	))
}

func (p *PayrollDepositProcessor) ConvertToCanonical(ctx context.Context, subRequest interface{}) (*model.InputTransaction, error) {
	r, ok := subRequest.(*model.PayrollDepositRequest)
	if !ok {
		return nil, errWrongSubRequest(p.WorkflowName(), subRequest)
	}
	memo := r.Memo
	if memo == "" {
		memo = "Payroll deposit for disbursement " + r.DisbursementID
	}
	return &model.InputTransaction{
		TransactionRef:   model.GenerateTransactionRef(),
		WorkflowName:     p.WorkflowName(),
		DebitAmount:      r.DebitAmount,
		DebitCurrency:    model.CurrencyCOP,
		CreditConsumerID: r.CreditConsumerID,
		CreditAmount:     r.CreditAmount,
		CreditCurrency:   model.CurrencyUSD,
		ExchangeRate:     r.ExchangeRate,
		Memo:             memo,
		SessionKey:       model.SessionKeyPayrollDeposits,
		TransactionFees:  []model.TransactionFee{},
	}, nil
}

func (p *PayrollDepositProcessor) PerformPostProcessing(ctx context.Context, subRequest interface{}, created *model.InputTransaction) {
	r, ok := subRequest.(*model.PayrollDepositRequest)
	if !ok {
		return
	}
	logrus.WithContext(ctx).WithFields(logrus.Fields{
		"disbursement_id": r.DisbursementID,
		"transaction_ref": created.TransactionRef,
	}).Info("payroll deposit recorded")
}
