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

package workflow

import (
	"fmt"

	"github.com/noba/transaction-intake/consumer"
	"github.com/noba/transaction-intake/internal/svcerror"
	"github.com/noba/transaction-intake/model"
)

// Factory owns the closed set of workflow processors and resolves each
// capability by workflow name. Registration happens once at construction;
// the map is read-only afterwards, so lookups need no locking.
type Factory struct {
	processors map[model.WorkflowName]Processor
}

// NewFactory wires every supported processor with its collaborators.
func NewFactory(consumers consumer.Directory, quoter Quoter, engine EngineHandoff) *Factory {
	all := []Processor{
		NewCardWithdrawalProcessor(consumers),
		NewCardReversalProcessor(),
		NewCardCreditAdjustmentProcessor(),
		NewCardDebitAdjustmentProcessor(),
		NewCreditAdjustmentProcessor(),
		NewDebitAdjustmentProcessor(),
		NewPayrollDepositProcessor(),
		NewWalletDepositProcessor(consumers, quoter, engine),
		NewWalletWithdrawalProcessor(consumers, quoter, engine),
		NewWalletTransferProcessor(consumers, engine),
	}
	processors := make(map[model.WorkflowName]Processor, len(all))
	for _, p := range all {
		processors[p.WorkflowName()] = p
	}
	return &Factory{processors: processors}
}

// Processor returns the processor registered for the workflow.
func (f *Factory) Processor(name model.WorkflowName) (Processor, error) {
	p, ok := f.processors[name]
	if !ok {
		return nil, svcerror.New(svcerror.ErrUnsupportedWorkflow,
			fmt.Sprintf("no processor registered for workflow %q", name), nil)
	}
	return p, nil
}

// QuoteProvider returns the quoting capability of a workflow, failing for
// workflows that never convert currency.
func (f *Factory) QuoteProvider(name model.WorkflowName) (QuoteProvider, error) {
	p, err := f.Processor(name)
	if err != nil {
		return nil, err
	}
	qp, ok := p.(QuoteProvider)
	if !ok {
		return nil, svcerror.New(svcerror.ErrUnsupportedWorkflow,
			fmt.Sprintf("workflow %q does not support quoting", name), nil)
	}
	return qp, nil
}

// Initiator returns the asynchronous handoff capability of a workflow.
// Workflows whose processing completes at persistence time do not have one.
func (f *Factory) Initiator(name model.WorkflowName) (WorkflowInitiator, error) {
	p, err := f.Processor(name)
	if err != nil {
		return nil, err
	}
	in, ok := p.(WorkflowInitiator)
	if !ok {
		return nil, svcerror.New(svcerror.ErrUnsupportedWorkflow,
			fmt.Sprintf("workflow %q does not initiate asynchronous processing", name), nil)
	}
	return in, nil
}

// ExtractSubRequest pulls the single populated sub-request out of the
// envelope and checks it matches the declared workflow type. Exactly one
// sub-request must be set.
func (f *Factory) ExtractSubRequest(envelope *model.TransactionRequestEnvelope) (interface{}, error) {
	if envelope == nil {
		return nil, svcerror.New(svcerror.ErrSemanticValidation, "transaction request is empty", nil)
	}

	var populated []interface{}
	collect := func(v interface{}, set bool) {
		if set {
			populated = append(populated, v)
		}
	}
	collect(envelope.CardWithdrawalRequest, envelope.CardWithdrawalRequest != nil)
	collect(envelope.CardReversalRequest, envelope.CardReversalRequest != nil)
	collect(envelope.CardCreditAdjustmentRequest, envelope.CardCreditAdjustmentRequest != nil)
	collect(envelope.CardDebitAdjustmentRequest, envelope.CardDebitAdjustmentRequest != nil)
	collect(envelope.CreditAdjustmentRequest, envelope.CreditAdjustmentRequest != nil)
	collect(envelope.DebitAdjustmentRequest, envelope.DebitAdjustmentRequest != nil)
	collect(envelope.PayrollDepositRequest, envelope.PayrollDepositRequest != nil)
	collect(envelope.WalletDepositRequest, envelope.WalletDepositRequest != nil)
	collect(envelope.WalletWithdrawalRequest, envelope.WalletWithdrawalRequest != nil)
	collect(envelope.WalletTransferRequest, envelope.WalletTransferRequest != nil)
	if len(populated) != 1 {
		return nil, svcerror.New(svcerror.ErrSemanticValidation,
			fmt.Sprintf("exactly one sub-request must be populated, got %d", len(populated)), nil)
	}

	var want interface{}
	switch envelope.Type {
	case model.WorkflowCardWithdrawal:
		want = envelope.CardWithdrawalRequest
	case model.WorkflowCardReversal:
		want = envelope.CardReversalRequest
	case model.WorkflowCardCreditAdjustment:
		want = envelope.CardCreditAdjustmentRequest
	case model.WorkflowCardDebitAdjustment:
		want = envelope.CardDebitAdjustmentRequest
	case model.WorkflowCreditAdjustment:
		want = envelope.CreditAdjustmentRequest
	case model.WorkflowDebitAdjustment:
		want = envelope.DebitAdjustmentRequest
	case model.WorkflowPayrollDeposit:
		want = envelope.PayrollDepositRequest
	case model.WorkflowWalletDeposit:
		want = envelope.WalletDepositRequest
	case model.WorkflowWalletWithdrawal:
		want = envelope.WalletWithdrawalRequest
	case model.WorkflowWalletTransfer:
		want = envelope.WalletTransferRequest
	default:
		return nil, svcerror.New(svcerror.ErrUnsupportedWorkflow,
			fmt.Sprintf("workflow %q is not supported", envelope.Type), nil)
	}
	if want != populated[0] {
		return nil, svcerror.New(svcerror.ErrSemanticValidation,
			fmt.Sprintf("populated sub-request does not match workflow type %q", envelope.Type), nil)
	}
	return populated[0], nil
}
