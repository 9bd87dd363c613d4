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

// Package workflow holds one processor per supported transaction kind and
// the dispatch factory that routes an inbound request to it. A processor
// owns everything unique to its workflow: validation rules, quoting,
// canonicalization and post-persistence side effects. Processors are
// stateless given their collaborators, so one instance serves concurrent
// requests.
package workflow

import (
	"context"
	"fmt"
	"strconv"

	"github.com/pkg/errors"

	"github.com/noba/transaction-intake/consumer"
	"github.com/noba/transaction-intake/internal/svcerror"
	"github.com/noba/transaction-intake/model"
)

// Processor is the contract every workflow implements. Validate runs static
// (schema-level) checks before dynamic (collaborator-backed) checks and
// returns the first failure. ConvertToCanonical maps the workflow-specific
// sub-request into the canonical InputTransaction; it may read from the
// quote engine and the consumer directory but has no other side effects.
// PerformPostProcessing runs after the transaction is durably persisted and
// must never fail the request.
type Processor interface {
	WorkflowName() model.WorkflowName
	Validate(ctx context.Context, subRequest interface{}) error
	ConvertToCanonical(ctx context.Context, subRequest interface{}) (*model.InputTransaction, error)
	PerformPostProcessing(ctx context.Context, subRequest interface{}, created *model.InputTransaction)
}

// QuoteProvider is implemented only by workflows that perform currency
// conversion with fees. Each implementation enforces its own legal
// conversion direction before delegating to the quote engine.
type QuoteProvider interface {
	GetQuote(ctx context.Context, amount float64, amountCurrency, desiredCurrency model.Currency) (*model.Quote, error)
}

// WorkflowInitiator is implemented only by workflows that hand off to the
// asynchronous execution engine once the canonical transaction is stored.
// A failed handoff never rolls back the persisted transaction.
type WorkflowInitiator interface {
	InitiateWorkflow(ctx context.Context, transactionID, transactionRef string) error
}

// Quoter is the quote engine as seen by processors.
type Quoter interface {
	ComputeQuote(ctx context.Context, amount float64, amountCurrency, desiredCurrency model.Currency, collection bool) (*model.Quote, error)
}

// EngineHandoff enqueues a persisted transaction for asynchronous
// execution.
type EngineHandoff interface {
	Initiate(ctx context.Context, transactionID, transactionRef string) error
}

// errWrongSubRequest reports a payload that does not match the processor it
// was dispatched to. It indicates a broken envelope, so it surfaces as a
// validation failure rather than a panic.
func errWrongSubRequest(w model.WorkflowName, got interface{}) error {
	return svcerror.New(svcerror.ErrSemanticValidation,
		fmt.Sprintf("request payload %T does not match workflow %s", got, w), nil)
}

// semanticErr wraps a field-level validation error into the tagged service
// error the pipeline surfaces.
func semanticErr(err error) error {
	if err == nil {
		return nil
	}
	return svcerror.New(svcerror.ErrSemanticValidation, err.Error(), nil)
}

// resolveActiveConsumer translates a directory miss into a validation error
// naming the offending request field; infrastructure errors propagate
// unchanged.
func resolveActiveConsumer(ctx context.Context, directory consumer.Directory, field, idOrTag string) (*consumer.Consumer, error) {
	c, err := directory.GetActiveConsumer(ctx, idOrTag)
	if err != nil {
		if errors.Is(err, consumer.ErrConsumerNotFound) {
			return nil, svcerror.New(svcerror.ErrSemanticValidation,
				fmt.Sprintf("%s does not resolve to an active consumer", field), nil)
		}
		return nil, err
	}
	return c, nil
}

// parseQuoteAmount converts a formatted quote field back into a number for
// the canonical record.
func parseQuoteAmount(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, errors.Wrapf(err, "parsing quote amount %q", s)
	}
	return v, nil
}
