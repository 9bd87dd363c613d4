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

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noba/transaction-intake/config"
	"github.com/noba/transaction-intake/internal/svcerror"
	"github.com/noba/transaction-intake/model"
)

type stubService struct {
	txn   *model.InputTransaction
	quote *model.Quote
	err   error

	gotEnvelope *model.TransactionRequestEnvelope
}

func (s *stubService) InitiateTransaction(_ context.Context, envelope *model.TransactionRequestEnvelope) (*model.InputTransaction, error) {
	s.gotEnvelope = envelope
	if s.err != nil {
		return nil, s.err
	}
	return s.txn, nil
}

func (s *stubService) GetQuote(_ context.Context, _ model.WorkflowName, _ float64, _, _ model.Currency) (*model.Quote, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.quote, nil
}

func (s *stubService) GetTransaction(_ context.Context, _ string) (*model.InputTransaction, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.txn, nil
}

func newTestAPI(service TransactionService) *Api {
	config.MockConfig(&config.Configuration{})
	return NewAPI(service)
}

func TestInitiateTransactionEndpoint(t *testing.T) {
	stub := &stubService{txn: &model.InputTransaction{
		ID:             "txn_1",
		TransactionRef: "ref_1",
		WorkflowName:   model.WorkflowWalletTransfer,
	}}
	router := newTestAPI(stub).Router()

	body, err := json.Marshal(map[string]interface{}{
		"type": "WALLET_TRANSFER",
		"walletTransferRequest": map[string]interface{}{
			"debitConsumerIDOrTag":  "$alice",
			"creditConsumerIDOrTag": "$bob",
			"debitAmount":           15,
			"debitCurrency":         "USD",
			"sessionKey":            "sess_t",
		},
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/v1/transactions", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	require.NotNil(t, stub.gotEnvelope)
	assert.Equal(t, model.WorkflowWalletTransfer, stub.gotEnvelope.Type)
	require.NotNil(t, stub.gotEnvelope.WalletTransferRequest)
	assert.Equal(t, "$alice", stub.gotEnvelope.WalletTransferRequest.DebitConsumerIDOrTag)

	var resp model.InputTransaction
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "txn_1", resp.ID)
}

func TestInitiateTransactionErrorMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"validation failure", svcerror.New(svcerror.ErrSemanticValidation, "debitAmount: cannot be blank", nil), http.StatusBadRequest},
		{"unsupported workflow", svcerror.New(svcerror.ErrUnsupportedWorkflow, `no processor registered for workflow "X"`, nil), http.StatusBadRequest},
		{"rate unavailable", svcerror.New(svcerror.ErrRateUnavailable, "exchange rate for USD-COP does not exist", nil), http.StatusServiceUnavailable},
		{"unexpected failure", assert.AnError, http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			router := newTestAPI(&stubService{err: tc.err}).Router()

			req := httptest.NewRequest(http.MethodPost, "/v1/transactions", bytes.NewBufferString(`{"type":"WALLET_TRANSFER","walletTransferRequest":{}}`))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tc.status, w.Code)
		})
	}
}

func TestGetQuoteEndpoint(t *testing.T) {
	stub := &stubService{quote: &model.Quote{
		NobaFee:             "1.50",
		ProcessingFee:       "0.60",
		TotalFee:            "2.10",
		QuoteAmount:         "200000.00",
		QuoteAmountWithFees: "191600.00",
		NobaRate:            "4000",
	}}
	router := newTestAPI(stub).Router()

	req := httptest.NewRequest(http.MethodGet,
		"/v1/transactions/quote?workflowName=WALLET_WITHDRAWAL&amount=50&amountCurrency=USD&desiredCurrency=COP", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp model.Quote
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "191600.00", resp.QuoteAmountWithFees)
	assert.Equal(t, "4000", resp.NobaRate)
}

func TestGetQuoteRejectsBadAmount(t *testing.T) {
	router := newTestAPI(&stubService{}).Router()

	req := httptest.NewRequest(http.MethodGet,
		"/v1/transactions/quote?workflowName=WALLET_WITHDRAWAL&amount=abc&amountCurrency=USD&desiredCurrency=COP", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetTransactionEndpoint(t *testing.T) {
	stub := &stubService{txn: &model.InputTransaction{ID: "txn_9", TransactionRef: "ref_9"}}
	router := newTestAPI(stub).Router()

	req := httptest.NewRequest(http.MethodGet, "/v1/transactions/txn_9", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp model.InputTransaction
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "txn_9", resp.ID)
}
