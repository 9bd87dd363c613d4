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

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"

	"github.com/noba/transaction-intake/internal/notification"
	"github.com/noba/transaction-intake/internal/svcerror"
	"github.com/noba/transaction-intake/model"
	"github.com/noba/transaction-intake/workflow"
)

var tracer = otel.Tracer("intake.transactions")

// InitiateTransaction runs the full intake pipeline: resolve the processor,
// extract and validate the sub-request, canonicalize it, persist it and
// hand it to the workflow engine. Everything up to and including the save
// fails the request; anything after the save is logged and swallowed, since
// the transaction is already durable.
func (i *Intake) InitiateTransaction(ctx context.Context, envelope *model.TransactionRequestEnvelope) (*model.InputTransaction, error) {
	ctx, span := tracer.Start(ctx, "initiating transaction")
	defer span.End()

	subRequest, err := i.factory.ExtractSubRequest(envelope)
	if err != nil {
		return nil, err
	}
	processor, err := i.factory.Processor(envelope.Type)
	if err != nil {
		return nil, err
	}

	if err := processor.Validate(ctx, subRequest); err != nil {
		return nil, err
	}

	txn, err := processor.ConvertToCanonical(ctx, subRequest)
	if err != nil {
		return nil, err
	}
	if err := txn.CheckInvariants(); err != nil {
		return nil, svcerror.New(svcerror.ErrSemanticValidation, err.Error(), nil)
	}

	saved, err := i.datasource.SaveTransaction(ctx, txn)
	if err != nil {
		return nil, err
	}

	i.afterPersist(ctx, processor, subRequest, saved)
	return saved, nil
}

// afterPersist runs the side effects that follow a durable save. Failures
// here never surface to the caller.
func (i *Intake) afterPersist(ctx context.Context, processor workflow.Processor, subRequest interface{}, saved *model.InputTransaction) {
	processor.PerformPostProcessing(ctx, subRequest, saved)

	initiator, ok := processor.(workflow.WorkflowInitiator)
	if !ok {
		return
	}
	if err := initiator.InitiateWorkflow(ctx, saved.ID, saved.TransactionRef); err != nil {
		logrus.WithContext(ctx).WithError(err).WithFields(logrus.Fields{
			"transaction_id":  saved.ID,
			"transaction_ref": saved.TransactionRef,
			"workflow":        saved.WorkflowName,
		}).Error("workflow initiation failed after persistence")
		notification.NotifyError(err)
	}
}

// GetQuote prices a prospective conversion for a workflow that supports
// quoting.
func (i *Intake) GetQuote(ctx context.Context, workflowName model.WorkflowName, amount float64, amountCurrency, desiredCurrency model.Currency) (*model.Quote, error) {
	ctx, span := tracer.Start(ctx, "quoting transaction")
	defer span.End()

	provider, err := i.factory.QuoteProvider(workflowName)
	if err != nil {
		return nil, err
	}
	return provider.GetQuote(ctx, amount, amountCurrency, desiredCurrency)
}

// GetTransaction loads a stored transaction by id.
func (i *Intake) GetTransaction(ctx context.Context, id string) (*model.InputTransaction, error) {
	return i.datasource.GetTransaction(ctx, id)
}

// GetTransactionByRef loads a stored transaction by reference.
func (i *Intake) GetTransactionByRef(ctx context.Context, reference string) (*model.InputTransaction, error) {
	return i.datasource.GetTransactionByRef(ctx, reference)
}
