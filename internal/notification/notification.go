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

// Package notification forwards operational errors to the configured
// webhook so on-call sees intake failures that never reach a caller.
package notification

import (
	"log"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/noba/transaction-intake/config"
	"github.com/noba/transaction-intake/internal/request"
)

// WebhookNotification posts an error to the configured webhook with any
// configured headers attached.
func WebhookNotification(systemError error) {
	conf, err := config.Fetch()
	if err != nil {
		log.Println(err)
		return
	}

	payload, err := request.ToJsonReq(map[string]interface{}{
		"error": systemError.Error(),
		"time":  time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		log.Println(err)
		return
	}

	req, err := http.NewRequest(http.MethodPost, conf.Notification.Webhook.Url, payload)
	if err != nil {
		log.Println(err)
		return
	}
	for k, v := range conf.Notification.Webhook.Headers {
		req.Header.Set(k, v)
	}

	var response map[string]interface{}
	if _, err := request.Call(req, &response); err != nil {
		log.Println(err)
	}
}

// NotifyError logs an error and forwards it to the webhook when one is
// configured. Delivery runs in the background so callers never block on
// the notification channel.
func NotifyError(systemError error) {
	go func(systemError error) {
		logrus.Error(systemError)

		conf, err := config.Fetch()
		if err != nil {
			log.Println(err)
			return
		}
		if conf.Notification.Webhook.Url != "" {
			WebhookNotification(systemError)
		}
	}(systemError)
}
