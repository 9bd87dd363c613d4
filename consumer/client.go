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
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/pkg/errors"

	"github.com/noba/transaction-intake/config"
)

// Client is the HTTP implementation of Directory against the consumer
// service.
type Client struct {
	baseURL string
	client  *http.Client
}

func NewClient(cfg config.ConsumerDirectoryConfig) *Client {
	return &Client{
		baseURL: cfg.Url,
		client:  &http.Client{Timeout: time.Duration(cfg.TimeoutSec) * time.Second},
	}
}

// GetActiveConsumer looks up a consumer by id or tag. Missing records and
// non-active consumers both resolve to ErrConsumerNotFound; only transport
// and server failures surface as infrastructure errors.
func (c *Client) GetActiveConsumer(ctx context.Context, idOrTag string) (*Consumer, error) {
	endpoint := fmt.Sprintf("%s/v1/consumers/%s", c.baseURL, url.PathEscape(idOrTag))

	var found *Consumer
	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return backoff.Permanent(err)
		}

		resp, err := c.client.Do(req)
		if err != nil {
			return err
		}
		defer func() { _ = resp.Body.Close() }()

		switch {
		case resp.StatusCode == http.StatusNotFound:
			return backoff.Permanent(ErrConsumerNotFound)
		case resp.StatusCode >= 500:
			return errors.Errorf("consumer directory returned %d", resp.StatusCode)
		case resp.StatusCode != http.StatusOK:
			return backoff.Permanent(errors.Errorf("consumer directory returned %d", resp.StatusCode))
		}

		var decoded Consumer
		if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
			return backoff.Permanent(errors.Wrap(err, "decoding consumer directory response"))
		}
		found = &decoded
		return nil
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 3), ctx)
	if err := backoff.Retry(operation, policy); err != nil {
		if errors.Is(err, ErrConsumerNotFound) {
			return nil, ErrConsumerNotFound
		}
		return nil, errors.Wrapf(err, "resolving consumer %q", idOrTag)
	}

	if found.Status != StatusActive {
		return nil, ErrConsumerNotFound
	}
	return found, nil
}
