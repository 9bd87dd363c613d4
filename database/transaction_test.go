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

package database

import (
	"context"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noba/transaction-intake/internal/svcerror"
	"github.com/noba/transaction-intake/model"
)

func newMockDatasource(t *testing.T) (*Datasource, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return &Datasource{Conn: db}, mock
}

func depositTransaction() *model.InputTransaction {
	return &model.InputTransaction{
		TransactionRef:   "ref_test_1",
		WorkflowName:     model.WorkflowWalletDeposit,
		DebitConsumerID:  "cons_1",
		DebitAmount:      100000,
		DebitCurrency:    model.CurrencyCOP,
		CreditConsumerID: "cons_1",
		CreditAmount:     23.60,
		CreditCurrency:   model.CurrencyUSD,
		ExchangeRate:     0.00025,
		Memo:             gofakeit.Sentence(3),
		SessionKey:       "sess_abc",
		TransactionFees: []model.TransactionFee{
			{Type: model.FeeTypeNoba, Amount: 0.50, Currency: model.CurrencyUSD},
			{Type: model.FeeTypeProcessing, Amount: 0.90, Currency: model.CurrencyUSD},
		},
	}
}

func TestSaveTransactionAssignsID(t *testing.T) {
	ds, mock := newMockDatasource(t)
	txn := depositTransaction()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO transactions").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO transaction_fees").
		WithArgs(sqlmock.AnyArg(), 0, string(model.FeeTypeNoba), 0.50, string(model.CurrencyUSD)).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO transaction_fees").
		WithArgs(sqlmock.AnyArg(), 1, string(model.FeeTypeProcessing), 0.90, string(model.CurrencyUSD)).
		WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectCommit()

	saved, err := ds.SaveTransaction(context.Background(), txn)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(saved.ID, "txn_"), "got id %q", saved.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveTransactionKeepsPreassignedID(t *testing.T) {
	ds, mock := newMockDatasource(t)
	txn := &model.InputTransaction{
		ID:              "txn_card_7",
		TransactionRef:  "ref_test_2",
		WorkflowName:    model.WorkflowCardWithdrawal,
		DebitConsumerID: "cons_1",
		DebitAmount:     25,
		DebitCurrency:   model.CurrencyUSD,
		ExchangeRate:    4000,
		SessionKey:      model.SessionKeyCardWithdrawals,
	}

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO transactions").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	saved, err := ds.SaveTransaction(context.Background(), txn)
	require.NoError(t, err)
	assert.Equal(t, "txn_card_7", saved.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveTransactionRejectsInvariantViolations(t *testing.T) {
	ds, mock := newMockDatasource(t)

	// Pre-assigned id on a workflow that may not carry one.
	txn := depositTransaction()
	txn.ID = "txn_preassigned"

	_, err := ds.SaveTransaction(context.Background(), txn)
	require.Error(t, err)
	assert.Equal(t, svcerror.ErrSemanticValidation, svcerror.CodeOf(err))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveTransactionRollsBackOnFeeFailure(t *testing.T) {
	ds, mock := newMockDatasource(t)
	txn := depositTransaction()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO transactions").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO transaction_fees").
		WillReturnError(assert.AnError)
	mock.ExpectRollback()

	_, err := ds.SaveTransaction(context.Background(), txn)
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetTransactionByRefRestoresFeeOrder(t *testing.T) {
	ds, mock := newMockDatasource(t)

	txnRows := sqlmock.NewRows([]string{
		"transaction_id", "transaction_ref", "workflow_name",
		"debit_consumer_id", "debit_amount", "debit_currency",
		"credit_consumer_id", "credit_amount", "credit_currency",
		"exchange_rate", "memo", "session_key",
	}).AddRow("txn_1", "ref_test_1", "WALLET_DEPOSIT",
		"cons_1", 100000.0, "COP",
		"cons_1", 23.60, "USD",
		0.00025, "deposit", "sess_abc")
	mock.ExpectQuery("SELECT (.+) FROM transactions").
		WithArgs("ref_test_1").
		WillReturnRows(txnRows)

	feeRows := sqlmock.NewRows([]string{"fee_type", "amount", "currency"}).
		AddRow("NOBA", 0.50, "USD").
		AddRow("PROCESSING", 0.90, "USD")
	mock.ExpectQuery("SELECT (.+) FROM transaction_fees").
		WithArgs("txn_1").
		WillReturnRows(feeRows)

	txn, err := ds.GetTransactionByRef(context.Background(), "ref_test_1")
	require.NoError(t, err)
	assert.Equal(t, model.WorkflowWalletDeposit, txn.WorkflowName)
	require.Len(t, txn.TransactionFees, 2)
	assert.Equal(t, model.FeeTypeNoba, txn.TransactionFees[0].Type)
	assert.Equal(t, model.FeeTypeProcessing, txn.TransactionFees[1].Type)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionExistsByRef(t *testing.T) {
	ds, mock := newMockDatasource(t)

	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("ref_known").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := ds.TransactionExistsByRef(context.Background(), "ref_known")
	require.NoError(t, err)
	assert.True(t, exists)
	require.NoError(t, mock.ExpectationsWereMet())
}
