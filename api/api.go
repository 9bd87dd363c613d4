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
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/noba/transaction-intake/api/middleware"
	"github.com/noba/transaction-intake/config"
	"github.com/noba/transaction-intake/model"
)

// TransactionService is the part of the intake service the API surface
// depends on.
type TransactionService interface {
	InitiateTransaction(ctx context.Context, envelope *model.TransactionRequestEnvelope) (*model.InputTransaction, error)
	GetQuote(ctx context.Context, workflowName model.WorkflowName, amount float64, amountCurrency, desiredCurrency model.Currency) (*model.Quote, error)
	GetTransaction(ctx context.Context, id string) (*model.InputTransaction, error)
}

type Api struct {
	service TransactionService
	router  *gin.Engine
}

func (a Api) Router() *gin.Engine {
	router := a.router
	router.POST("/v1/transactions", a.InitiateTransaction)
	router.GET("/v1/transactions/quote", a.GetQuote)
	router.GET("/v1/transactions/:id", a.GetTransaction)
	return a.router
}

func NewAPI(service TransactionService) *Api {
	gin.SetMode(gin.ReleaseMode)
	conf, err := config.Fetch()
	if err != nil {
		return nil
	}
	r := gin.Default()
	r.Use(otelgin.Middleware(conf.ProjectName))
	r.Use(middleware.RateLimitMiddleware(conf))
	if conf.Server.Secure {
		r.Use(middleware.SecretKeyAuthMiddleware())
	}

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, "server running...")
	})

	return &Api{service: service, router: r}
}
