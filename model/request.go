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

// TransactionRequestEnvelope is the tagged union every inbound "initiate a
// transaction" call arrives in. Type discriminates which sub-request field
// is populated; exactly one sub-request must be non-nil and it must match
// Type. The dispatch factory enforces the invariant.
type TransactionRequestEnvelope struct {
	Type WorkflowName `json:"type"`

	CardWithdrawalRequest       *CardWithdrawalRequest  `json:"cardWithdrawalRequest,omitempty"`
	CardReversalRequest         *CardReversalRequest    `json:"cardReversalRequest,omitempty"`
	CardCreditAdjustmentRequest *CardAdjustmentRequest  `json:"cardCreditAdjustmentRequest,omitempty"`
	CardDebitAdjustmentRequest  *CardAdjustmentRequest  `json:"cardDebitAdjustmentRequest,omitempty"`
	CreditAdjustmentRequest     *CreditAdjustmentRequest `json:"creditAdjustmentRequest,omitempty"`
	DebitAdjustmentRequest      *DebitAdjustmentRequest  `json:"debitAdjustmentRequest,omitempty"`
	PayrollDepositRequest       *PayrollDepositRequest   `json:"payrollDepositRequest,omitempty"`
	WalletDepositRequest        *WalletDepositRequest    `json:"walletDepositRequest,omitempty"`
	WalletWithdrawalRequest     *WalletWithdrawalRequest `json:"walletWithdrawalRequest,omitempty"`
	WalletTransferRequest       *WalletTransferRequest   `json:"walletTransferRequest,omitempty"`
}

// CardWithdrawalRequest is raised by the card network when a consumer spends
// on their card. The debit leg is always USD; the credit leg is the local
// currency the card purchase settles in. TransactionID correlates with the
// card provider's own transaction record and is carried onto the canonical
// transaction as a pre-assigned id.
type CardWithdrawalRequest struct {
	TransactionID    string   `json:"transactionID"`
	DebitConsumerID  string   `json:"debitConsumerID"`
	DebitAmountInUSD float64  `json:"debitAmountInUSD"`
	CreditAmount     float64  `json:"creditAmount"`
	CreditCurrency   Currency `json:"creditCurrency"`
	ExchangeRate     float64  `json:"exchangeRate"`
	Memo             string   `json:"memo"`
}

// CardReversalType discriminates which single leg a reversal produces.
type CardReversalType string

const (
	CardReversalTypeCredit CardReversalType = "CREDIT"
	CardReversalTypeDebit  CardReversalType = "DEBIT"
)

// CardReversalRequest reverses a prior card transaction. TransactionID is
// the id of the card transaction being reversed and becomes the canonical
// transaction's pre-assigned id.
type CardReversalRequest struct {
	Type          CardReversalType `json:"type"`
	TransactionID string           `json:"transactionID"`
	ConsumerID    string           `json:"consumerID"`
	AmountInUSD   float64          `json:"amountInUSD"`
	Memo          string           `json:"memo"`
}

// CardAdjustmentRequest covers both CARD_CREDIT_ADJUSTMENT and
// CARD_DEBIT_ADJUSTMENT. Both legs are specified independently by the card
// provider, including the exchange rate between them.
type CardAdjustmentRequest struct {
	CreditConsumerID string   `json:"creditConsumerID,omitempty"`
	DebitConsumerID  string   `json:"debitConsumerID,omitempty"`
	DebitAmount      float64  `json:"debitAmount"`
	DebitCurrency    Currency `json:"debitCurrency"`
	CreditAmount     float64  `json:"creditAmount"`
	CreditCurrency   Currency `json:"creditCurrency"`
	ExchangeRate     float64  `json:"exchangeRate"`
	Memo             string   `json:"memo"`
}

// CreditAdjustmentRequest credits a consumer without an external
// counterparty. The debit leg is mirrored from the credit leg so the
// adjustment nets to zero outside the ledger.
type CreditAdjustmentRequest struct {
	CreditConsumerID string   `json:"creditConsumerID"`
	CreditAmount     float64  `json:"creditAmount"`
	CreditCurrency   Currency `json:"creditCurrency"`
	Memo             string   `json:"memo"`
}

// DebitAdjustmentRequest is the debit-side counterpart of
// CreditAdjustmentRequest.
type DebitAdjustmentRequest struct {
	DebitConsumerID string   `json:"debitConsumerID"`
	DebitAmount     float64  `json:"debitAmount"`
	DebitCurrency   Currency `json:"debitCurrency"`
	Memo            string   `json:"memo"`
}

// PayrollDepositRequest moves an employer disbursement into a consumer
// wallet. The amounts are computed upstream by the payroll service; intake
// passes the disbursement reference through.
type PayrollDepositRequest struct {
	DisbursementID   string  `json:"disbursementID"`
	CreditConsumerID string  `json:"creditConsumerID"`
	CreditAmount     float64 `json:"creditAmount"`
	DebitAmount      float64 `json:"debitAmount"`
	ExchangeRate     float64 `json:"exchangeRate"`
	Memo             string  `json:"memo"`
}

// WalletDepositMode enumerates how a deposit is funded. COLLECTION_LINK is
// currently the only supported mode; anything else fails validation.
type WalletDepositMode string

const (
	WalletDepositModeCollectionLink WalletDepositMode = "COLLECTION_LINK"
)

// WalletDepositRequest funds a consumer wallet from a local-currency
// collection. Only COP debits are accepted; the credit leg is always USD
// and priced by the collection fee schedule.
type WalletDepositRequest struct {
	DebitConsumerIDOrTag string            `json:"debitConsumerIDOrTag"`
	DebitAmount          float64           `json:"debitAmount"`
	DebitCurrency        Currency          `json:"debitCurrency"`
	DepositMode          WalletDepositMode `json:"depositMode"`
	Memo                 string            `json:"memo"`
	SessionKey           string            `json:"sessionKey"`
}

// WalletWithdrawalRequest pays a consumer's USD balance out to a Colombian
// bank account. The credit leg is always COP and priced by the withdrawal
// fee schedule. The bank routing fields are passed through to the payout
// provider.
type WalletWithdrawalRequest struct {
	DebitConsumerIDOrTag string   `json:"debitConsumerIDOrTag"`
	DebitAmount          float64  `json:"debitAmount"`
	DebitCurrency        Currency `json:"debitCurrency"`
	CreditCurrency       Currency `json:"creditCurrency"`
	Memo                 string   `json:"memo"`
	SessionKey           string   `json:"sessionKey"`

	AccountNumber  string `json:"accountNumber"`
	AccountType    string `json:"accountType"`
	BankCode       string `json:"bankCode"`
	DocumentNumber string `json:"documentNumber"`
	DocumentType   string `json:"documentType"`
}

// WalletTransferRequest moves value between two consumer wallets with no
// conversion: both legs carry the same amount and currency and the rate is
// fixed at 1.
type WalletTransferRequest struct {
	DebitConsumerIDOrTag  string   `json:"debitConsumerIDOrTag"`
	CreditConsumerIDOrTag string   `json:"creditConsumerIDOrTag"`
	DebitAmount           float64  `json:"debitAmount"`
	DebitCurrency         Currency `json:"debitCurrency"`
	Memo                  string   `json:"memo"`
	SessionKey            string   `json:"sessionKey"`
}
