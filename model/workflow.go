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

package model

// WorkflowName identifies one supported kind of money-movement transaction.
// The enumeration is closed: every dispatch path must reject values outside
// of it instead of falling through to a default.
type WorkflowName string

const (
	WorkflowCardWithdrawal       WorkflowName = "CARD_WITHDRAWAL"
	WorkflowCardReversal         WorkflowName = "CARD_REVERSAL"
	WorkflowCardCreditAdjustment WorkflowName = "CARD_CREDIT_ADJUSTMENT"
	WorkflowCardDebitAdjustment  WorkflowName = "CARD_DEBIT_ADJUSTMENT"
	WorkflowCreditAdjustment     WorkflowName = "CREDIT_ADJUSTMENT"
	WorkflowDebitAdjustment      WorkflowName = "DEBIT_ADJUSTMENT"
	WorkflowPayrollDeposit       WorkflowName = "PAYROLL_DEPOSIT"
	WorkflowWalletDeposit        WorkflowName = "WALLET_DEPOSIT"
	WorkflowWalletWithdrawal     WorkflowName = "WALLET_WITHDRAWAL"
	WorkflowWalletTransfer       WorkflowName = "WALLET_TRANSFER"
)

// SupportedWorkflows returns every member of the closed enumeration, in a
// stable order.
func SupportedWorkflows() []WorkflowName {
	return []WorkflowName{
		WorkflowCardWithdrawal,
		WorkflowCardReversal,
		WorkflowCardCreditAdjustment,
		WorkflowCardDebitAdjustment,
		WorkflowCreditAdjustment,
		WorkflowDebitAdjustment,
		WorkflowPayrollDeposit,
		WorkflowWalletDeposit,
		WorkflowWalletWithdrawal,
		WorkflowWalletTransfer,
	}
}

func (w WorkflowName) Valid() bool {
	for _, name := range SupportedWorkflows() {
		if w == name {
			return true
		}
	}
	return false
}

// Currency is the closed set of currencies the intake layer moves money in.
type Currency string

const (
	CurrencyUSD Currency = "USD"
	CurrencyCOP Currency = "COP"
)

func (c Currency) Valid() bool {
	return c == CurrencyUSD || c == CurrencyCOP
}

// Session key buckets for workflows that do not carry a caller-supplied
// session key. Workflows in one family share a bucket so downstream
// reconciliation groups them together.
const (
	SessionKeyCardAdjustments     = "CARD_ADJUSTMENTS"
	SessionKeyCardReversals       = "CARD_REVERSALS"
	SessionKeyCardWithdrawals     = "CARD_WITHDRAWALS"
	SessionKeyInternalAdjustments = "INTERNAL_ADJUSTMENTS"
	SessionKeyPayrollDeposits     = "PAYROLL_DEPOSITS"
)
