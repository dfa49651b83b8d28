package main

import (
	"os"

	"github.com/aws/aws-lambda-go/lambda"

	"github.com/itchan-dev/supportdesk/backend/internal/lambdaadapter"
	"github.com/itchan-dev/supportdesk/backend/internal/router"
	"github.com/itchan-dev/supportdesk/backend/internal/setup"
	"github.com/itchan-dev/supportdesk/shared/config"
	"github.com/itchan-dev/supportdesk/shared/logger"
)

func main() {
	configFolder := os.Getenv("CONFIG_FOLDER")
	if configFolder == "" {
		configFolder = "config"
	}

	cfg := config.MustLoad(configFolder)
	logger.Initialize(cfg.Public.Log.Level, true)

	deps, err := setup.SetupDependencies(cfg)
	if err != nil {
		logger.Log.Error("failed to setup dependencies", "error", err)
		os.Exit(1)
	}

	lambda.Start(lambdaadapter.New(router.New(deps)).Handle)
}
