// Package main is the Lambda@Edge viewer-request function for the Lit Up CDN.
// It authenticates every request against credentials held in Parameter Store
// and rewrites paths onto the active application version. Lambda@Edge offers
// no environment configuration, so the parameter names and region are
// compiled in (overridable with -ldflags at deploy time).
package main

import (
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/rs/zerolog"

	"github.com/prn-tf/litup/internal/edge"
	"github.com/prn-tf/litup/internal/edge/config"
	"github.com/prn-tf/litup/internal/edge/router"
	"github.com/prn-tf/litup/internal/paramstore"
)

// Deploy-time contract with the provisioning stack (set via -ldflags).
var (
	// ParamRegion is the region holding the configuration parameters.
	// Lambda@Edge replicates globally, but the parameters live in one region.
	ParamRegion = "us-east-1"

	// Parameter names for the edge configuration.
	ParamAuthUsername   = "/lit-up/prod/edge-auth-username"
	ParamAuthPassword   = "/lit-up/prod/edge-auth-password"
	ParamActiveVersions = "/lit-up/prod/active-versions"
)

func main() {
	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()

	names := config.ParameterNames{
		AuthUsername:   ParamAuthUsername,
		AuthPassword:   ParamAuthPassword,
		ActiveVersions: ParamActiveVersions,
	}

	// The cache store outlives invocations within one execution environment
	// and is dropped when the environment is recycled.
	loader := config.NewLoader(
		paramstore.NewClient(ParamRegion),
		config.NewMemoryStore(),
		names,
		logger,
	)

	handler := edge.NewHandler(loader, router.New(logger), logger)
	lambda.Start(handler.Handle)
}
