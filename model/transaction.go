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

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// FeeType tags one leg of the fee breakdown attached to a transaction.
type FeeType string

const (
	FeeTypeProcessing FeeType = "PROCESSING"
	FeeTypeNoba       FeeType = "NOBA"
)

// TransactionFee is one fee attached to a canonical transaction. Fee order
// is insertion order (platform fee first, then the processing/bank fee) and
// must survive a round trip through storage unchanged.
type TransactionFee struct {
	Type     FeeType  `json:"type"`
	Amount   float64  `json:"amount"`
	Currency Currency `json:"currency"`
}

// InputTransaction is the canonical, ledger-ready record every workflow
// normalizes into. At least one of the debit and credit sides must be fully
// populated (amount and currency); the exchange rate is always required,
// even for 1:1 wash transactions where both sides are identical.
type InputTransaction struct {
	ID               string           `json:"id,omitempty"`
	TransactionRef   string           `json:"transactionRef"`
	WorkflowName     WorkflowName     `json:"workflowName"`
	DebitConsumerID  string           `json:"debitConsumerID,omitempty"`
	DebitAmount      float64          `json:"debitAmount,omitempty"`
	DebitCurrency    Currency         `json:"debitCurrency,omitempty"`
	CreditConsumerID string           `json:"creditConsumerID,omitempty"`
	CreditAmount     float64          `json:"creditAmount,omitempty"`
	CreditCurrency   Currency         `json:"creditCurrency,omitempty"`
	ExchangeRate     float64          `json:"exchangeRate"`
	Memo             string           `json:"memo"`
	SessionKey       string           `json:"sessionKey"`
	TransactionFees  []TransactionFee `json:"transactionFees"`
}

func (t *InputTransaction) ToJSON() ([]byte, error) {
	return json.Marshal(t)
}

// HasDebitSide reports whether the debit leg is fully populated.
func (t *InputTransaction) HasDebitSide() bool {
	return t.DebitAmount > 0 && t.DebitCurrency != ""
}

// HasCreditSide reports whether the credit leg is fully populated.
func (t *InputTransaction) HasCreditSide() bool {
	return t.CreditAmount > 0 && t.CreditCurrency != ""
}

// CheckInvariants verifies the structural rules every canonical transaction
// must satisfy before it may be handed to the repository.
func (t *InputTransaction) CheckInvariants() error {
	if !t.WorkflowName.Valid() {
		return fmt.Errorf("unknown workflow name %q", t.WorkflowName)
	}
	if t.TransactionRef == "" {
		return errors.New("transaction reference is required")
	}
	if !t.HasDebitSide() && !t.HasCreditSide() {
		return errors.New("at least one of the debit and credit sides must be fully populated")
	}
	if t.ExchangeRate <= 0 {
		return errors.New("exchange rate must be positive")
	}
	if t.ID != "" && !CanPreassignID(t.WorkflowName) {
		return fmt.Errorf("workflow %s may not carry a pre-assigned transaction id", t.WorkflowName)
	}
	for _, fee := range t.TransactionFees {
		if fee.Amount < 0 {
			return fmt.Errorf("%s fee amount must not be negative", fee.Type)
		}
		if !fee.Currency.Valid() {
			return fmt.Errorf("%s fee carries unknown currency %q", fee.Type, fee.Currency)
		}
	}
	return nil
}

// CanPreassignID reports whether a workflow may carry a caller-supplied id
// onto the canonical transaction. Only the card workflows that correlate
// with a pre-existing card-network transaction record are allowed to;
// every other workflow gets its id assigned at persistence time.
func CanPreassignID(w WorkflowName) bool {
	return w == WorkflowCardWithdrawal || w == WorkflowCardReversal
}

// GenerateUUIDWithPrefix generates an opaque unique identifier carrying a
// context-specific prefix, e.g. "ref_5f9...".
func GenerateUUIDWithPrefix(prefix string) string {
	return fmt.Sprintf("%s_%s", prefix, uuid.New().String())
}

// GenerateTransactionRef produces a fresh transaction reference. References
// are never reused: two canonicalizations of the same request yield
// distinct references.
func GenerateTransactionRef() string {
	return GenerateUUIDWithPrefix("ref")
}
