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

package intake

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noba/transaction-intake/consumer"
	"github.com/noba/transaction-intake/internal/svcerror"
	"github.com/noba/transaction-intake/model"
	"github.com/noba/transaction-intake/workflow"
)

type fakeRepository struct {
	saved  []*model.InputTransaction
	failed bool
}

func (r *fakeRepository) SaveTransaction(_ context.Context, txn *model.InputTransaction) (*model.InputTransaction, error) {
	if r.failed {
		return nil, assert.AnError
	}
	if err := txn.CheckInvariants(); err != nil {
		return nil, svcerror.New(svcerror.ErrSemanticValidation, err.Error(), nil)
	}
	if txn.ID == "" {
		txn.ID = model.GenerateUUIDWithPrefix("txn")
	}
	r.saved = append(r.saved, txn)
	return txn, nil
}

func (r *fakeRepository) GetTransaction(_ context.Context, id string) (*model.InputTransaction, error) {
	for _, txn := range r.saved {
		if txn.ID == id {
			return txn, nil
		}
	}
	return nil, assert.AnError
}

func (r *fakeRepository) GetTransactionByRef(_ context.Context, reference string) (*model.InputTransaction, error) {
	for _, txn := range r.saved {
		if txn.TransactionRef == reference {
			return txn, nil
		}
	}
	return nil, assert.AnError
}

func (r *fakeRepository) TransactionExistsByRef(_ context.Context, reference string) (bool, error) {
	for _, txn := range r.saved {
		if txn.TransactionRef == reference {
			return true, nil
		}
	}
	return false, nil
}

type fakeDirectory struct{}

func (fakeDirectory) GetActiveConsumer(_ context.Context, idOrTag string) (*consumer.Consumer, error) {
	switch idOrTag {
	case "cons_1", "$alice":
		return &consumer.Consumer{ID: "cons_1", Tag: "$alice", Status: consumer.StatusActive}, nil
	case "cons_2", "$bob":
		return &consumer.Consumer{ID: "cons_2", Tag: "$bob", Status: consumer.StatusActive}, nil
	}
	return nil, consumer.ErrConsumerNotFound
}

type fakeQuoter struct{}

func (fakeQuoter) ComputeQuote(_ context.Context, _ float64, _, _ model.Currency, _ bool) (*model.Quote, error) {
	return &model.Quote{
		NobaFee:             "1.50",
		ProcessingFee:       "0.60",
		TotalFee:            "2.10",
		QuoteAmount:         "200000.00",
		QuoteAmountWithFees: "191600.00",
		NobaRate:            "4000",
	}, nil
}

type fakeEngine struct {
	initiated []string
	err       error
}

func (e *fakeEngine) Initiate(_ context.Context, transactionID, _ string) error {
	e.initiated = append(e.initiated, transactionID)
	return e.err
}

func newTestIntake(repo *fakeRepository, engine *fakeEngine) *Intake {
	return &Intake{
		factory:    workflow.NewFactory(fakeDirectory{}, fakeQuoter{}, engine),
		datasource: repo,
	}
}

func transferEnvelope() *model.TransactionRequestEnvelope {
	return &model.TransactionRequestEnvelope{
		Type: model.WorkflowWalletTransfer,
		WalletTransferRequest: &model.WalletTransferRequest{
			DebitConsumerIDOrTag:  "$alice",
			CreditConsumerIDOrTag: "$bob",
			DebitAmount:           15,
			DebitCurrency:         model.CurrencyUSD,
			SessionKey:            "sess_t",
		},
	}
}

func TestInitiateTransactionPersistsAndHandsOff(t *testing.T) {
	repo := &fakeRepository{}
	engine := &fakeEngine{}
	svc := newTestIntake(repo, engine)

	txn, err := svc.InitiateTransaction(context.Background(), transferEnvelope())
	require.NoError(t, err)
	require.Len(t, repo.saved, 1)
	assert.NotEmpty(t, txn.ID)
	assert.Equal(t, model.WorkflowWalletTransfer, txn.WorkflowName)
	require.Len(t, engine.initiated, 1)
	assert.Equal(t, txn.ID, engine.initiated[0])
}

func TestInitiateTransactionRejectsUnknownWorkflow(t *testing.T) {
	repo := &fakeRepository{}
	svc := newTestIntake(repo, &fakeEngine{})

	envelope := transferEnvelope()
	envelope.Type = "SOMETHING_ELSE"
	_, err := svc.InitiateTransaction(context.Background(), envelope)
	require.Error(t, err)
	assert.Equal(t, svcerror.ErrUnsupportedWorkflow, svcerror.CodeOf(err))
	assert.Empty(t, repo.saved)
}

func TestInitiateTransactionDoesNotPersistInvalidRequests(t *testing.T) {
	repo := &fakeRepository{}
	svc := newTestIntake(repo, &fakeEngine{})

	envelope := transferEnvelope()
	envelope.WalletTransferRequest.DebitAmount = 0
	_, err := svc.InitiateTransaction(context.Background(), envelope)
	require.Error(t, err)
	assert.Equal(t, svcerror.ErrSemanticValidation, svcerror.CodeOf(err))
	assert.Empty(t, repo.saved)
}

func TestInitiateTransactionSwallowsHandoffFailures(t *testing.T) {
	repo := &fakeRepository{}
	engine := &fakeEngine{err: assert.AnError}
	svc := newTestIntake(repo, engine)

	txn, err := svc.InitiateTransaction(context.Background(), transferEnvelope())
	require.NoError(t, err)
	assert.NotEmpty(t, txn.ID)
	// The transaction stayed persisted even though the handoff failed.
	require.Len(t, repo.saved, 1)
}

func TestGetQuoteRoutesThroughTheWorkflow(t *testing.T) {
	svc := newTestIntake(&fakeRepository{}, &fakeEngine{})

	q, err := svc.GetQuote(context.Background(), model.WorkflowWalletWithdrawal, 50, model.CurrencyUSD, model.CurrencyCOP)
	require.NoError(t, err)
	assert.Equal(t, "191600.00", q.QuoteAmountWithFees)

	_, err = svc.GetQuote(context.Background(), model.WorkflowCardWithdrawal, 50, model.CurrencyUSD, model.CurrencyCOP)
	require.Error(t, err)
	assert.Equal(t, svcerror.ErrUnsupportedWorkflow, svcerror.CodeOf(err))
}
