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

	"github.com/noba/transaction-intake/model"
)

// Repository is the persistence surface of the intake pipeline.
type Repository interface {
	SaveTransaction(ctx context.Context, txn *model.InputTransaction) (*model.InputTransaction, error)
	GetTransaction(ctx context.Context, id string) (*model.InputTransaction, error)
	GetTransactionByRef(ctx context.Context, reference string) (*model.InputTransaction, error)
	TransactionExistsByRef(ctx context.Context, reference string) (bool, error)
}
