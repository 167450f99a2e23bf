package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/prn-tf/litup/internal/domain"
	"github.com/prn-tf/litup/internal/service"
)

// SongHandler handles song catalog requests.
type SongHandler struct {
	songs  *service.SongService
	logger zerolog.Logger
}

// NewSongHandler creates a new SongHandler.
func NewSongHandler(songs *service.SongService, logger zerolog.Logger) *SongHandler {
	return &SongHandler{
		songs:  songs,
		logger: logger.With().Str("handler", "song").Logger(),
	}
}

// RegisterRoutes registers song routes.
func (h *SongHandler) RegisterRoutes(r chi.Router) {
	r.Get("/songs", h.handleList)
	r.Post("/songs", h.handleCreate)
	r.Get("/songs/{id}", h.handleGet)
	r.Patch("/songs/{id}", h.handleUpdate)
	r.Delete("/songs/{id}", h.handleDelete)
}

func (h *SongHandler) handleList(w http.ResponseWriter, r *http.Request) {
	status := domain.SongStatus(r.URL.Query().Get("status"))

	out, err := h.songs.ListSongs(r.Context(), service.ListSongsInput{Status: status})
	if err != nil {
		writeError(w, err)
		return
	}

	songs := out.Songs
	if songs == nil {
		songs = []*domain.Song{}
	}
	writeJSON(w, http.StatusOK, songs)
}

func (h *SongHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var create domain.SongCreate
	if err := decodeBody(r, &create); err != nil {
		badRequest(w, "malformed request body")
		return
	}

	out, err := h.songs.CreateSong(r.Context(), service.CreateSongInput{Create: create})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, out.Song)
}

func (h *SongHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	out, err := h.songs.GetSong(r.Context(), service.GetSongInput{ID: chi.URLParam(r, "id")})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, out.Song)
}

func (h *SongHandler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var patch domain.SongPatch
	if err := decodeBody(r, &patch); err != nil {
		badRequest(w, "malformed request body")
		return
	}

	out, err := h.songs.UpdateSong(r.Context(), service.UpdateSongInput{
		ID:    chi.URLParam(r, "id"),
		Patch: patch,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, out.Song)
}

func (h *SongHandler) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.songs.DeleteSong(r.Context(), service.DeleteSongInput{ID: chi.URLParam(r, "id")}); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
