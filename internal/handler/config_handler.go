package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/prn-tf/litup/internal/domain"
	"github.com/prn-tf/litup/internal/service"
)

// ConfigHandler handles app-config requests: the live playlist build plus
// stored config revisions.
type ConfigHandler struct {
	configs *service.AppConfigService
	logger  zerolog.Logger
}

// NewConfigHandler creates a new ConfigHandler.
func NewConfigHandler(configs *service.AppConfigService, logger zerolog.Logger) *ConfigHandler {
	return &ConfigHandler{
		configs: configs,
		logger:  logger.With().Str("handler", "config").Logger(),
	}
}

// RegisterRoutes registers config routes.
func (h *ConfigHandler) RegisterRoutes(r chi.Router) {
	// The player fetches this; everything under /configs is admin CRUD.
	r.Get("/app-config", h.handlePlaylist)

	r.Get("/configs", h.handleList)
	r.Post("/configs", h.handleCreate)
	r.Get("/configs/{id}", h.handleGet)
	r.Put("/configs/{id}", h.handleUpdate)
	r.Delete("/configs/{id}", h.handleDelete)
}

func (h *ConfigHandler) handlePlaylist(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.configs.BuildPlaylist(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, cfg)
}

func (h *ConfigHandler) handleList(w http.ResponseWriter, r *http.Request) {
	out, err := h.configs.ListConfigs(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	configs := out.Configs
	if configs == nil {
		configs = []*domain.StoredConfig{}
	}
	writeJSON(w, http.StatusOK, configs)
}

func (h *ConfigHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var stored domain.StoredConfig
	if err := decodeBody(r, &stored); err != nil {
		badRequest(w, "malformed request body")
		return
	}

	out, err := h.configs.CreateConfig(r.Context(), service.CreateConfigInput{Config: stored})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, out.Config)
}

func (h *ConfigHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	out, err := h.configs.GetConfig(r.Context(), service.GetConfigInput{ID: chi.URLParam(r, "id")})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, out.Config)
}

func (h *ConfigHandler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var cfg domain.AppConfig
	if err := decodeBody(r, &cfg); err != nil {
		badRequest(w, "malformed request body")
		return
	}

	out, err := h.configs.UpdateConfig(r.Context(), service.UpdateConfigInput{
		ID:     chi.URLParam(r, "id"),
		Config: cfg,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, out.Config)
}

func (h *ConfigHandler) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.configs.DeleteConfig(r.Context(), service.DeleteConfigInput{ID: chi.URLParam(r, "id")}); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
