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

package exchangerate

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/go-redis/cache/v9"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/noba/transaction-intake/config"
	"github.com/noba/transaction-intake/model"
)

// Service is the Redis-cached client for the upstream exchange-rate
// service. Rates change slowly relative to request volume, so hits are
// served from cache and misses fall through to HTTP with retries.
type Service struct {
	cache   *cache.Cache
	baseURL string
	ttl     time.Duration
	client  *http.Client
}

// NewService builds a rate provider backed by the given Redis client and
// the configured rate-service endpoint.
func NewService(redisClient redis.UniversalClient, cfg config.ExchangeRateConfig) *Service {
	return &Service{
		cache: cache.New(&cache.Options{
			Redis:      redisClient,
			LocalCache: cache.NewTinyLFU(1000, time.Minute),
		}),
		baseURL: cfg.Url,
		ttl:     time.Duration(cfg.CacheTTLSec) * time.Second,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func cacheKey(numerator, denominator model.Currency) string {
	return fmt.Sprintf("exrate:%s-%s", numerator, denominator)
}

// GetExchangeRateForCurrencyPair returns the rate for numerator/denominator,
// from cache when fresh. A pair the rate service does not know maps to
// ErrRateNotFound; transient failures are retried with exponential backoff.
func (s *Service) GetExchangeRateForCurrencyPair(ctx context.Context, numerator, denominator model.Currency) (*ExchangeRate, error) {
	key := cacheKey(numerator, denominator)

	var cached ExchangeRate
	if err := s.cache.Get(ctx, key, &cached); err == nil {
		return &cached, nil
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		logrus.Warnf("exchange rate cache read failed for %s: %v", key, err)
	}

	rate, err := s.fetchRate(ctx, numerator, denominator)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(&cache.Item{
		Ctx:   ctx,
		Key:   key,
		Value: rate,
		TTL:   s.ttl,
	}); err != nil {
		logrus.Warnf("exchange rate cache write failed for %s: %v", key, err)
	}

	return rate, nil
}

func (s *Service) fetchRate(ctx context.Context, numerator, denominator model.Currency) (*ExchangeRate, error) {
	url := fmt.Sprintf("%s/v1/exchangerates/%s/%s", s.baseURL, numerator, denominator)

	var rate *ExchangeRate
	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return backoff.Permanent(err)
		}

		resp, err := s.client.Do(req)
		if err != nil {
			return err
		}
		defer func() { _ = resp.Body.Close() }()

		switch {
		case resp.StatusCode == http.StatusNotFound:
			return backoff.Permanent(ErrRateNotFound)
		case resp.StatusCode >= 500:
			return errors.Errorf("rate service returned %d", resp.StatusCode)
		case resp.StatusCode != http.StatusOK:
			return backoff.Permanent(errors.Errorf("rate service returned %d", resp.StatusCode))
		}

		var decoded ExchangeRate
		if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
			return backoff.Permanent(errors.Wrap(err, "decoding rate service response"))
		}
		rate = &decoded
		return nil
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 3), ctx)
	if err := backoff.Retry(operation, policy); err != nil {
		if errors.Is(err, ErrRateNotFound) {
			return nil, ErrRateNotFound
		}
		return nil, errors.Wrapf(err, "fetching exchange rate %s/%s", numerator, denominator)
	}
	return rate, nil
}
