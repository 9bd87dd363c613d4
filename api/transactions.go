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
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noba/transaction-intake/internal/svcerror"
	"github.com/noba/transaction-intake/model"
)

// InitiateTransaction accepts a transaction request envelope, runs the
// intake pipeline and returns the persisted canonical transaction.
func (a Api) InitiateTransaction(c *gin.Context) {
	var envelope model.TransactionRequestEnvelope
	if err := c.ShouldBindJSON(&envelope); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	txn, err := a.service.InitiateTransaction(c.Request.Context(), &envelope)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, txn)
}

// GetQuote prices a prospective conversion without creating anything.
func (a Api) GetQuote(c *gin.Context) {
	workflowName := model.WorkflowName(c.Query("workflowName"))
	amountCurrency := model.Currency(c.Query("amountCurrency"))
	desiredCurrency := model.Currency(c.Query("desiredCurrency"))
	amount, err := strconv.ParseFloat(c.Query("amount"), 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "amount must be a number"})
		return
	}

	quote, err := a.service.GetQuote(c.Request.Context(), workflowName, amount, amountCurrency, desiredCurrency)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, quote)
}

// GetTransaction returns a stored transaction by id.
func (a Api) GetTransaction(c *gin.Context) {
	id, passed := c.Params.Get("id")
	if !passed {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id is required. pass id in the route /:id"})
		return
	}

	txn, err := a.service.GetTransaction(c.Request.Context(), id)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, txn)
}

// respondWithError translates a pipeline error into the transport response.
// ServiceError payloads go out as-is so callers see the machine-readable
// code; anything else is wrapped as an internal error.
func respondWithError(c *gin.Context, err error) {
	status := svcerror.MapErrorToHTTPStatus(err)
	var svcErr svcerror.ServiceError
	if !errors.As(err, &svcErr) {
		svcErr = svcerror.New(svcerror.ErrInternalServer, err.Error(), nil)
	}
	c.JSON(status, gin.H{"error": svcErr})
}
