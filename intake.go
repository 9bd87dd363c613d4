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

// Package intake is the transaction-intake layer of the Noba money-movement
// platform. It accepts workflow-specific transaction requests, validates
// them, prices any currency conversion, normalizes them into canonical
// transactions and hands them to the asynchronous workflow engine.
package intake

import (
	"github.com/redis/go-redis/v9"

	"github.com/noba/transaction-intake/config"
	"github.com/noba/transaction-intake/consumer"
	"github.com/noba/transaction-intake/database"
	"github.com/noba/transaction-intake/exchangerate"
	"github.com/noba/transaction-intake/internal/redisdb"
	"github.com/noba/transaction-intake/quote"
	"github.com/noba/transaction-intake/workflow"
)

// Intake wires the dispatch factory, the persistence layer and the workflow
// engine handoff into one service.
type Intake struct {
	factory    *workflow.Factory
	datasource database.Repository
	queue      *Queue
	redis      redis.UniversalClient
}

// NewIntake builds the service from the loaded configuration and the
// provided datasource.
func NewIntake(db database.Repository) (*Intake, error) {
	configuration, err := config.Fetch()
	if err != nil {
		return nil, err
	}
	redisClient, err := redisdb.NewRedisClient(configuration.Redis.Dns)
	if err != nil {
		return nil, err
	}

	rates := exchangerate.NewService(redisClient.Client(), configuration.ExchangeRate)
	quoter := quote.NewEngine(rates, configuration.Fees)
	consumers := consumer.NewClient(configuration.ConsumerDirectory)
	newQueue := NewQueue(configuration)
	factory := workflow.NewFactory(consumers, quoter, newQueue)

	return &Intake{
		factory:    factory,
		datasource: db,
		queue:      newQueue,
		redis:      redisClient.Client(),
	}, nil
}
