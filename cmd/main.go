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

package main

import (
	"fmt"
	"log"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	intake "github.com/noba/transaction-intake"
	"github.com/noba/transaction-intake/config"
	"github.com/noba/transaction-intake/database"
	"github.com/noba/transaction-intake/internal/notification"
)

// CLI is the root cobra command of the intake binary.
type CLI struct {
	cmd *cobra.Command
}

// intakeInstance carries the initialized service and its configuration
// between the pre-run hook and the subcommands.
type intakeInstance struct {
	service *intake.Intake
	cnf     *config.Configuration
}

func recoverPanic() {
	if rec := recover(); rec != nil {
		logrus.Error(rec)
		os.Exit(1)
	}
}

// preRun loads configuration and builds the intake service before any
// subcommand executes.
func preRun(app *intakeInstance, configFile *string) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		err := config.InitConfig(*configFile)
		if err != nil {
			log.Fatal("error loading config", err)
		}

		cnf, err := config.Fetch()
		if err != nil {
			return err
		}

		service, err := setupIntake(cnf)
		if err != nil {
			notification.NotifyError(err)
			log.Fatal(err)
		}

		app.service = service
		app.cnf = cnf
		return nil
	}
}

// setupIntake connects the datasource and wires the intake service.
func setupIntake(cfg *config.Configuration) (*intake.Intake, error) {
	db, err := database.NewDataSource(cfg)
	if err != nil {
		return nil, fmt.Errorf("error getting datasource: %v", err)
	}
	service, err := intake.NewIntake(db)
	if err != nil {
		return nil, fmt.Errorf("error creating intake service: %v", err)
	}
	return service, nil
}

// NewCLI assembles the root command and its subcommands.
func NewCLI() *CLI {
	var configFile string
	app := &intakeInstance{}

	var rootCmd = &cobra.Command{
		Use:   "noba-intake",
		Short: "Noba transaction intake service",
		Run:   func(cmd *cobra.Command, args []string) {},
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "./noba.json", "Configuration file for the intake service")
	rootCmd.PersistentPreRunE = preRun(app, &configFile)

	rootCmd.AddCommand(serverCommands(app))
	rootCmd.AddCommand(migrateCommands(app))

	return &CLI{cmd: rootCmd}
}

func (c *CLI) executeCLI() {
	if err := c.cmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func main() {
	defer recoverPanic()
	cli := NewCLI()
	cli.executeCLI()
}
