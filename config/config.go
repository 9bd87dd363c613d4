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

package config

import (
	"encoding/json"
	"errors"
	"log"
	"os"
	"strings"
	"sync/atomic"

	"github.com/kelseyhightower/envconfig"
	"github.com/sirupsen/logrus"
)

const (
	DEFAULT_PORT = "5001"
)

var ConfigStore atomic.Value

type ServerConfig struct {
	Secure    bool   `json:"secure" envconfig:"NOBA_SERVER_SECURE"`
	SecretKey string `json:"secret_key" envconfig:"NOBA_SERVER_SECRET_KEY"`
	Port      string `json:"port" envconfig:"NOBA_SERVER_PORT"`
}

type DataSourceConfig struct {
	Dns string `json:"dns" envconfig:"NOBA_DATA_SOURCE_DNS"`
}

type RedisConfig struct {
	Dns string `json:"dns" envconfig:"NOBA_REDIS_DNS"`
}

// FeeScheduleConfig holds the constants of one fee family. FixedAmount is
// denominated in the foreign currency of the conversion, NobaFee in USD.
type FeeScheduleConfig struct {
	FixedAmount float64 `json:"fixed_amount"`
	Multiplier  float64 `json:"multiplier"`
	NobaFee     float64 `json:"noba_fee"`
}

// FeesConfig carries the three fee families the quote engine prices with.
type FeesConfig struct {
	Deposit    FeeScheduleConfig `json:"deposit"`
	Collection FeeScheduleConfig `json:"collection"`
	Withdrawal FeeScheduleConfig `json:"withdrawal"`
}

type ConsumerDirectoryConfig struct {
	Url        string `json:"url" envconfig:"NOBA_CONSUMER_DIRECTORY_URL"`
	TimeoutSec int    `json:"timeout_sec" envconfig:"NOBA_CONSUMER_DIRECTORY_TIMEOUT_SEC"`
}

type ExchangeRateConfig struct {
	Url         string `json:"url" envconfig:"NOBA_EXCHANGE_RATE_URL"`
	CacheTTLSec int    `json:"cache_ttl_sec" envconfig:"NOBA_EXCHANGE_RATE_CACHE_TTL_SEC"`
}

type QueueConfig struct {
	WorkflowQueue string `json:"workflow_queue" envconfig:"NOBA_QUEUE_WORKFLOW"`
	MaxRetries    int    `json:"max_retries" envconfig:"NOBA_QUEUE_MAX_RETRIES"`
}

type RateLimitConfig struct {
	RequestsPerSecond  *float64 `json:"requests_per_second" envconfig:"NOBA_RATE_LIMIT_RPS"`
	Burst              *int     `json:"burst" envconfig:"NOBA_RATE_LIMIT_BURST"`
	CleanupIntervalSec *int     `json:"cleanup_interval_sec" envconfig:"NOBA_RATE_LIMIT_CLEANUP_INTERVAL_SEC"`
}

type Notification struct {
	Webhook struct {
		Url     string            `json:"url"`
		Headers map[string]string `json:"headers"`
	} `json:"webhook"`
}

type Configuration struct {
	ProjectName       string                  `json:"project_name" envconfig:"NOBA_PROJECT_NAME"`
	Server            ServerConfig            `json:"server"`
	DataSource        DataSourceConfig        `json:"data_source"`
	Redis             RedisConfig             `json:"redis"`
	Fees              FeesConfig              `json:"fees"`
	ConsumerDirectory ConsumerDirectoryConfig `json:"consumer_directory"`
	ExchangeRate      ExchangeRateConfig      `json:"exchange_rate"`
	Queue             QueueConfig             `json:"queue"`
	RateLimit         RateLimitConfig         `json:"rate_limit"`
	Notification      Notification            `json:"notification"`
}

func loadConfigFromFile(file string) error {
	var cnf Configuration
	_, err := os.Stat(file)
	if err == nil {
		f, err := os.Open(file)
		if err != nil {
			return err
		}
		err = json.NewDecoder(f).Decode(&cnf)
		if err != nil {
			return err
		}

	} else if errors.Is(err, os.ErrNotExist) {
		log.Println("config json not passed, will use env variables")
	}

	// override config from environment variables
	err = envconfig.Process("noba", &cnf)
	if err != nil {
		return err
	}

	err = cnf.validateAndAddDefaults()
	if err != nil {
		return err
	}

	ConfigStore.Store(&cnf)
	return err
}

func InitConfig(configFile string) error {
	logger()
	return loadConfigFromFile(configFile)
}

func Fetch() (*Configuration, error) {
	config := ConfigStore.Load()
	c, ok := config.(*Configuration)
	if !ok {
		return nil, errors.New("config not loaded from file. Create a json file called noba.json with your config")
	}
	return c, nil
}

func (cnf *Configuration) validateAndAddDefaults() error {
	if cnf.ProjectName == "" {
		log.Println("Warning: Project name is empty. Setting a default name.")
		cnf.ProjectName = "Noba Transaction Intake"
	}

	if cnf.DataSource.Dns == "" {
		log.Println("Error: Data source DNS is empty. It's a required field.")
		return errors.New("data source DNS is required")
	}

	if cnf.Redis.Dns == "" {
		log.Println("Error: Redis DNS is empty. It's a required field.")
		return errors.New("redis DNS is required")
	}

	// Trim white spaces from fields
	cnf.ProjectName = strings.TrimSpace(cnf.ProjectName)
	cnf.Server.Port = strings.TrimSpace(cnf.Server.Port)
	cnf.DataSource.Dns = strings.TrimSpace(cnf.DataSource.Dns)
	cnf.Redis.Dns = strings.TrimSpace(cnf.Redis.Dns)

	if cnf.Server.Port == "" {
		cnf.Server.Port = DEFAULT_PORT
		log.Printf("Warning: Port not specified in config. Setting default port: %s", DEFAULT_PORT)
	}

	cnf.Fees.applyDefaults()

	if cnf.ExchangeRate.CacheTTLSec == 0 {
		cnf.ExchangeRate.CacheTTLSec = 60
	}
	if cnf.ConsumerDirectory.TimeoutSec == 0 {
		cnf.ConsumerDirectory.TimeoutSec = 10
	}
	if cnf.Queue.WorkflowQueue == "" {
		cnf.Queue.WorkflowQueue = "workflow_initiation_queue"
	}
	if cnf.Queue.MaxRetries == 0 {
		cnf.Queue.MaxRetries = 5
	}

	// Rate limiting is disabled by default (when both RPS and Burst are nil)
	if cnf.RateLimit.RequestsPerSecond != nil && cnf.RateLimit.Burst == nil {
		defaultBurst := 2 * int(*cnf.RateLimit.RequestsPerSecond)
		cnf.RateLimit.Burst = &defaultBurst
		log.Printf("Warning: Rate limit burst not specified. Setting default value: %d", defaultBurst)
	}
	if cnf.RateLimit.RequestsPerSecond == nil && cnf.RateLimit.Burst != nil {
		defaultRPS := float64(*cnf.RateLimit.Burst) / 2
		cnf.RateLimit.RequestsPerSecond = &defaultRPS
		log.Printf("Warning: Rate limit RPS not specified. Setting default value: %.2f", defaultRPS)
	}
	if cnf.RateLimit.CleanupIntervalSec == nil {
		defaultCleanup := 10800 // 3 hours in seconds
		cnf.RateLimit.CleanupIntervalSec = &defaultCleanup
	}

	return nil
}

// applyDefaults fills in the production COP fee schedule for any family the
// config file leaves empty. The withdrawal fixed amount is the payout
// provider's flat COP fee; the noba fees are flat USD amounts.
func (f *FeesConfig) applyDefaults() {
	if f.Deposit == (FeeScheduleConfig{}) {
		f.Deposit = FeeScheduleConfig{FixedAmount: 1000, Multiplier: 0.03, NobaFee: 0.75}
	}
	if f.Collection == (FeeScheduleConfig{}) {
		f.Collection = FeeScheduleConfig{FixedAmount: 2500, Multiplier: 0.02, NobaFee: 0.50}
	}
	if f.Withdrawal == (FeeScheduleConfig{}) {
		f.Withdrawal = FeeScheduleConfig{FixedAmount: 3000, Multiplier: 0, NobaFee: 1.50}
	}
}

// MockConfig sets a mock configuration for testing purposes.
func MockConfig(mockConfig *Configuration) {
	ConfigStore.Store(mockConfig)
}

func logger() {
	logger := logrus.New()
	log.SetOutput(logger.Writer())
}
