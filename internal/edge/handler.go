// Package edge wires the configuration loader and the request router into the
// Lambda@Edge viewer-request handler for the Lit Up CDN distribution.
package edge

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/prn-tf/litup/internal/edge/cloudfront"
	"github.com/prn-tf/litup/internal/edge/config"
	"github.com/prn-tf/litup/internal/edge/router"
)

// Handler processes viewer-request events. Routing never proceeds without a
// resolved configuration, and no failure escapes to the platform: every error
// path resolves to a generic 500 response so the platform's default error
// page is never the observed behavior.
type Handler struct {
	loader *config.Loader
	router *router.Router
	logger zerolog.Logger
}

// NewHandler creates a Handler.
func NewHandler(loader *config.Loader, rt *router.Router, logger zerolog.Logger) *Handler {
	return &Handler{
		loader: loader,
		router: rt,
		logger: logger.With().Str("component", "edge-handler").Logger(),
	}
}

// Handle is the Lambda entry point for one viewer request.
func (h *Handler) Handle(ctx context.Context, event cloudfront.RequestEvent) (result *cloudfront.Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			h.logger.Error().Interface("panic", r).Msg("recovered panic in viewer-request handler")
			result = cloudfront.GenerateResponse(serverErrorResponse())
			err = nil
		}
	}()

	if len(event.Records) == 0 || event.Records[0].CF.Request == nil {
		h.logger.Error().Msg("event carries no viewer request record")
		return cloudfront.GenerateResponse(serverErrorResponse()), nil
	}
	req := event.Records[0].CF.Request

	cfg, err := h.loader.Load(ctx)
	if err != nil {
		// Detail (including any invalid parameter names) goes to the log
		// only; the client sees a generic error.
		var unavailable *config.UnavailableError
		if errors.As(err, &unavailable) && len(unavailable.InvalidParameters) > 0 {
			h.logger.Error().
				Err(err).
				Strs("invalid_parameters", unavailable.InvalidParameters).
				Msg("configuration load failed")
		} else {
			h.logger.Error().Err(err).Msg("configuration load failed")
		}
		return cloudfront.GenerateResponse(serverErrorResponse()), nil
	}

	return h.router.Route(req, cfg), nil
}

// serverErrorResponse is the generic plain-text 500 page.
func serverErrorResponse() *cloudfront.Response {
	headers := cloudfront.Headers{}
	headers.Set("Content-Type", "text/plain")
	headers.Set("Cache-Control", "no-cache")
	return &cloudfront.Response{
		Status:            strconv.Itoa(http.StatusInternalServerError),
		StatusDescription: "Internal Server Error",
		Headers:           headers,
		Body:              "Internal server error",
	}
}
