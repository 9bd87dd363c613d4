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
	"database/sql"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"

	"github.com/noba/transaction-intake/internal/svcerror"
	"github.com/noba/transaction-intake/model"
)

// SaveTransaction persists a canonical transaction and its fee rows in one
// database transaction. Invariants are re-checked at the persistence
// boundary; a transaction without a pre-assigned id gets one here. The
// returned value carries the final id.
func (d *Datasource) SaveTransaction(ctx context.Context, txn *model.InputTransaction) (*model.InputTransaction, error) {
	ctx, span := otel.Tracer("intake.database").Start(ctx, "save transaction")
	defer span.End()

	if err := txn.CheckInvariants(); err != nil {
		return nil, svcerror.New(svcerror.ErrSemanticValidation, err.Error(), nil)
	}
	if txn.ID == "" {
		txn.ID = model.GenerateUUIDWithPrefix("txn")
	}

	tx, err := d.Conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, errors.Wrap(err, "beginning save transaction")
	}
	defer func() {
		_ = tx.Rollback()
	}()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO transactions
			(transaction_id, transaction_ref, workflow_name,
			 debit_consumer_id, debit_amount, debit_currency,
			 credit_consumer_id, credit_amount, credit_currency,
			 exchange_rate, memo, session_key, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)`,
		txn.ID, txn.TransactionRef, txn.WorkflowName,
		nullString(txn.DebitConsumerID), nullFloat(txn.DebitAmount), nullString(string(txn.DebitCurrency)),
		nullString(txn.CreditConsumerID), nullFloat(txn.CreditAmount), nullString(string(txn.CreditCurrency)),
		txn.ExchangeRate, txn.Memo, txn.SessionKey, time.Now().UTC(),
	)
	if err != nil {
		return nil, errors.Wrap(err, "inserting transaction")
	}

	// Fee rows keep their insertion position so the fee ordering survives a
	// round trip through storage.
	for i, fee := range txn.TransactionFees {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO transaction_fees (transaction_id, position, fee_type, amount, currency)
			VALUES ($1,$2,$3,$4,$5)`,
			txn.ID, i, fee.Type, fee.Amount, fee.Currency,
		)
		if err != nil {
			return nil, errors.Wrap(err, "inserting transaction fee")
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, errors.Wrap(err, "committing save transaction")
	}
	return txn, nil
}

// GetTransaction loads a transaction and its fees by id.
func (d *Datasource) GetTransaction(ctx context.Context, id string) (*model.InputTransaction, error) {
	return d.getTransactionBy(ctx, "transaction_id", id)
}

// GetTransactionByRef loads a transaction and its fees by reference.
func (d *Datasource) GetTransactionByRef(ctx context.Context, reference string) (*model.InputTransaction, error) {
	return d.getTransactionBy(ctx, "transaction_ref", reference)
}

func (d *Datasource) getTransactionBy(ctx context.Context, column, value string) (*model.InputTransaction, error) {
	row := d.Conn.QueryRowContext(ctx, fmt.Sprintf(`
		SELECT transaction_id, transaction_ref, workflow_name,
		       debit_consumer_id, debit_amount, debit_currency,
		       credit_consumer_id, credit_amount, credit_currency,
		       exchange_rate, memo, session_key
		FROM transactions
		WHERE %s = $1`, column), value)

	txn := &model.InputTransaction{}
	var (
		debitConsumer, debitCurrency   sql.NullString
		creditConsumer, creditCurrency sql.NullString
		debitAmount, creditAmount      sql.NullFloat64
	)
	err := row.Scan(&txn.ID, &txn.TransactionRef, &txn.WorkflowName,
		&debitConsumer, &debitAmount, &debitCurrency,
		&creditConsumer, &creditAmount, &creditCurrency,
		&txn.ExchangeRate, &txn.Memo, &txn.SessionKey)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, svcerror.New(svcerror.ErrInternalServer,
				fmt.Sprintf("transaction with %s %q not found", column, value), nil)
		}
		return nil, errors.Wrap(err, "loading transaction")
	}
	txn.DebitConsumerID = debitConsumer.String
	txn.DebitAmount = debitAmount.Float64
	txn.DebitCurrency = model.Currency(debitCurrency.String)
	txn.CreditConsumerID = creditConsumer.String
	txn.CreditAmount = creditAmount.Float64
	txn.CreditCurrency = model.Currency(creditCurrency.String)

	fees, err := d.loadFees(ctx, txn.ID)
	if err != nil {
		return nil, err
	}
	txn.TransactionFees = fees
	return txn, nil
}

func (d *Datasource) loadFees(ctx context.Context, transactionID string) ([]model.TransactionFee, error) {
	rows, err := d.Conn.QueryContext(ctx, `
		SELECT fee_type, amount, currency
		FROM transaction_fees
		WHERE transaction_id = $1
		ORDER BY position`, transactionID)
	if err != nil {
		return nil, errors.Wrap(err, "loading transaction fees")
	}
	defer rows.Close()

	fees := []model.TransactionFee{}
	for rows.Next() {
		var fee model.TransactionFee
		if err := rows.Scan(&fee.Type, &fee.Amount, &fee.Currency); err != nil {
			return nil, errors.Wrap(err, "scanning transaction fee")
		}
		fees = append(fees, fee)
	}
	return fees, rows.Err()
}

// TransactionExistsByRef reports whether a reference has been used before.
func (d *Datasource) TransactionExistsByRef(ctx context.Context, reference string) (bool, error) {
	var exists bool
	err := d.Conn.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM transactions WHERE transaction_ref = $1)`,
		reference).Scan(&exists)
	if err != nil {
		return false, errors.Wrap(err, "checking transaction reference")
	}
	return exists, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullFloat(f float64) sql.NullFloat64 {
	return sql.NullFloat64{Float64: f, Valid: f != 0}
}
