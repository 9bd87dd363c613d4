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
	"encoding/json"
	"errors"

	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"

	"github.com/noba/transaction-intake/config"
	"github.com/noba/transaction-intake/internal/redisdb"
)

// TaskWorkflowInitiate is the asynq task type the workflow engine consumes.
const TaskWorkflowInitiate = "workflow:initiate"

// WorkflowTaskPayload is the body of a workflow initiation task. The engine
// loads the full transaction by id; the payload stays small on purpose.
type WorkflowTaskPayload struct {
	TransactionID  string `json:"transaction_id"`
	TransactionRef string `json:"transaction_ref"`
}

// Queue hands persisted transactions to the asynchronous workflow engine.
type Queue struct {
	Client    *asynq.Client
	Inspector *asynq.Inspector
}

func NewQueue(conf *config.Configuration) *Queue {
	redisOption, err := redisdb.ParseRedisURL(conf.Redis.Dns)
	if err != nil {
		logrus.Fatalf("parsing redis URL: %v", err)
	}
	queueOptions := asynq.RedisClientOpt{
		Addr:     redisOption.Addr,
		Password: redisOption.Password,
		DB:       redisOption.DB,
	}
	return &Queue{
		Client:    asynq.NewClient(queueOptions),
		Inspector: asynq.NewInspector(queueOptions),
	}
}

// Initiate enqueues a workflow initiation task for a persisted transaction.
// The task id is the transaction id, so re-enqueueing the same transaction
// is a no-op while the first task is pending.
func (q *Queue) Initiate(ctx context.Context, transactionID, transactionRef string) error {
	cfg, err := config.Fetch()
	if err != nil {
		return err
	}

	payload, err := json.Marshal(WorkflowTaskPayload{
		TransactionID:  transactionID,
		TransactionRef: transactionRef,
	})
	if err != nil {
		return err
	}

	task := asynq.NewTask(TaskWorkflowInitiate, payload,
		asynq.TaskID(transactionID),
		asynq.Queue(cfg.Queue.WorkflowQueue),
	)
	info, err := q.Client.EnqueueContext(ctx, task, asynq.MaxRetry(cfg.Queue.MaxRetries))
	if err != nil {
		if errors.Is(err, asynq.ErrTaskIDConflict) {
			logrus.WithContext(ctx).WithField("transaction_id", transactionID).
				Info("workflow initiation already enqueued")
			return nil
		}
		return err
	}
	logrus.WithContext(ctx).WithFields(logrus.Fields{
		"transaction_id": transactionID,
		"queue":          info.Queue,
	}).Info("workflow initiation enqueued")
	return nil
}
