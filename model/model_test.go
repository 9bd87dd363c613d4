package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateUUIDWithPrefix(t *testing.T) {
	ref := GenerateUUIDWithPrefix("ref")
	assert.Contains(t, ref, "ref_")

	other := GenerateTransactionRef()
	assert.NotEqual(t, ref, other)
}

func TestWorkflowName_Valid(t *testing.T) {
	for _, name := range SupportedWorkflows() {
		assert.True(t, name.Valid(), "expected %s to be valid", name)
	}
	assert.False(t, WorkflowName("WIRE_TRANSFER").Valid())
	assert.False(t, WorkflowName("").Valid())
}

func TestCanPreassignID(t *testing.T) {
	assert.True(t, CanPreassignID(WorkflowCardWithdrawal))
	assert.True(t, CanPreassignID(WorkflowCardReversal))

	for _, name := range SupportedWorkflows() {
		if name == WorkflowCardWithdrawal || name == WorkflowCardReversal {
			continue
		}
		assert.False(t, CanPreassignID(name), "%s must not pre-assign ids", name)
	}
}

func TestInputTransaction_CheckInvariants(t *testing.T) {
	valid := func() *InputTransaction {
		return &InputTransaction{
			TransactionRef:   GenerateTransactionRef(),
			WorkflowName:     WorkflowWalletTransfer,
			DebitConsumerID:  "consumer_a",
			DebitAmount:      25,
			DebitCurrency:    CurrencyUSD,
			CreditConsumerID: "consumer_b",
			CreditAmount:     25,
			CreditCurrency:   CurrencyUSD,
			ExchangeRate:     1,
			SessionKey:       "session_1",
			TransactionFees:  []TransactionFee{},
		}
	}

	t.Run("valid transaction passes", func(t *testing.T) {
		assert.NoError(t, valid().CheckInvariants())
	})

	t.Run("missing both sides fails", func(t *testing.T) {
		txn := valid()
		txn.DebitAmount = 0
		txn.CreditAmount = 0
		assert.Error(t, txn.CheckInvariants())
	})

	t.Run("single side is enough", func(t *testing.T) {
		txn := valid()
		txn.CreditAmount = 0
		txn.CreditCurrency = ""
		assert.NoError(t, txn.CheckInvariants())
	})

	t.Run("missing exchange rate fails even for wash transactions", func(t *testing.T) {
		txn := valid()
		txn.ExchangeRate = 0
		assert.Error(t, txn.CheckInvariants())
	})

	t.Run("missing reference fails", func(t *testing.T) {
		txn := valid()
		txn.TransactionRef = ""
		assert.Error(t, txn.CheckInvariants())
	})

	t.Run("pre-assigned id rejected outside the card allow-list", func(t *testing.T) {
		txn := valid()
		txn.ID = "txn_from_caller"
		err := txn.CheckInvariants()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "pre-assigned")
	})

	t.Run("pre-assigned id accepted for card withdrawal", func(t *testing.T) {
		txn := valid()
		txn.WorkflowName = WorkflowCardWithdrawal
		txn.ID = "card_txn_1"
		assert.NoError(t, txn.CheckInvariants())
	})

	t.Run("negative fee fails", func(t *testing.T) {
		txn := valid()
		txn.TransactionFees = []TransactionFee{{Type: FeeTypeNoba, Amount: -1, Currency: CurrencyUSD}}
		assert.Error(t, txn.CheckInvariants())
	})
}
