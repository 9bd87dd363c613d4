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

package consumer

import (
	"context"

	"github.com/pkg/errors"
)

// ErrConsumerNotFound is returned when the directory has no active consumer
// for the given id or tag. A simply-missing record is never surfaced as an
// infrastructure error.
var ErrConsumerNotFound = errors.New("consumer not found")

const StatusActive = "ACTIVE"

// Consumer is the directory's view of an account holder. Tag is the
// human-friendly handle ("$username") wallet workflows accept in place of
// an id.
type Consumer struct {
	ID     string `json:"id"`
	Tag    string `json:"tag,omitempty"`
	Status string `json:"status"`
	Email  string `json:"email,omitempty"`
}

// Directory resolves consumer ids or tags to active consumers. A consumer
// that exists but is not ACTIVE resolves to ErrConsumerNotFound: intake
// never moves money for locked or deleted accounts.
type Directory interface {
	GetActiveConsumer(ctx context.Context, idOrTag string) (*Consumer, error)
}
