// Package router decides access and rewrites viewer-request paths to
// concrete versioned asset paths.
package router

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/prn-tf/litup/internal/edge/cloudfront"
	"github.com/prn-tf/litup/internal/edge/config"
)

// publicFiles are served without authentication: the PWA manifest and the
// service worker, which browsers fetch outside any credentialed context.
// Matched as the whole path or as a path suffix. Public files still go
// through version rewriting.
var publicFiles = []string{"manifest.json", "sw.js"}

// Router evaluates one viewer request against the loaded configuration.
// It is stateless; every decision is a pure function of its inputs.
type Router struct {
	logger zerolog.Logger
}

// New creates a Router.
func New(logger zerolog.Logger) *Router {
	return &Router{logger: logger.With().Str("component", "router").Logger()}
}

// Route authenticates the request and canonicalizes its URI. The result is
// either the request with a rewritten URI, to be forwarded to the origin, or
// a 401 challenge response.
func (rt *Router) Route(req *cloudfront.Request, cfg *config.Config) *cloudfront.Result {
	if !isPublicFile(req.URI) && !isAuthenticated(req, cfg) {
		rt.logger.Info().Str("uri", req.URI).Msg("rejecting unauthenticated request")
		return cloudfront.GenerateResponse(unauthorizedResponse())
	}

	rewritten := rewriteURI(req.URI, cfg)
	if rewritten != req.URI {
		rt.logger.Debug().Str("from", req.URI).Str("to", rewritten).Msg("rewrote request URI")
		req.URI = rewritten
	}
	return cloudfront.ForwardRequest(req)
}

// isPublicFile reports whether the URI is on the unauthenticated allowlist.
func isPublicFile(uri string) bool {
	for _, name := range publicFiles {
		if uri == name || strings.HasSuffix(uri, name) {
			return true
		}
	}
	return false
}

// isAuthenticated compares the request's authorization header against the
// configured Basic challenge value, exact string equality.
func isAuthenticated(req *cloudfront.Request, cfg *config.Config) bool {
	return req.Headers.First("authorization") == cfg.AuthChallenge
}

// rewriteURI maps a requested path onto a concrete versioned asset path.
//
// The root resolves to the default version's index page. A file request (last
// segment contains a dot) keeps its URI when it already carries a
// version-shaped prefix, even one not in the active list, so direct asset
// links survive version deprecation; otherwise it is prefixed with the
// default version. A route request (no dot) with a version-shaped prefix is
// validated against the active list and resolves to that version's index
// page, falling back to the default version's for anything else.
func rewriteURI(uri string, cfg *config.Config) string {
	defaultVersion := cfg.DefaultVersion()

	if uri == "" || uri == "/" {
		return "/" + defaultVersion + "/index.html"
	}

	trimmed := strings.TrimLeft(uri, "/")
	first := trimmed
	if i := strings.Index(trimmed, "/"); i >= 0 {
		first = trimmed[:i]
	}

	last := trimmed
	if i := strings.LastIndex(trimmed, "/"); i >= 0 {
		last = trimmed[i+1:]
	}

	if strings.Contains(last, ".") {
		// File request: trust an existing version prefix as-is.
		if IsVersionSegment(first) {
			return uri
		}
		return "/" + defaultVersion + "/" + trimmed
	}

	if IsVersionSegment(first) {
		requested := strings.ToLower(first)
		for _, version := range cfg.ActiveVersions {
			if strings.ToLower(version) == requested {
				return "/" + requested + "/index.html"
			}
		}
	}

	// SPA route or inactive version: serve the default version's index page
	// and let the client-side router resolve the path.
	return "/" + defaultVersion + "/index.html"
}

// unauthorizedResponse builds the 401 Basic-Auth challenge.
func unauthorizedResponse() *cloudfront.Response {
	headers := cloudfront.Headers{}
	headers.Set("WWW-Authenticate", config.BasicAuthScheme)
	headers.Set("Cache-Control", "no-cache")
	return &cloudfront.Response{
		Status:            strconv.Itoa(http.StatusUnauthorized),
		StatusDescription: "Unauthorized",
		Headers:           headers,
		Body:              "Unauthorized",
	}
}
