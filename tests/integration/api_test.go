// Package integration provides end-to-end tests for the Lit Up API.
// The full stack runs in-process: SQLite database, filesystem media store,
// in-memory locks, and an httptest server in front of the real router.
package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/prn-tf/litup/internal/domain"
	"github.com/prn-tf/litup/internal/handler"
	"github.com/prn-tf/litup/internal/lock"
	"github.com/prn-tf/litup/internal/repository"
	sqliterepo "github.com/prn-tf/litup/internal/repository/sqlite"
	"github.com/prn-tf/litup/internal/service"
	fsstore "github.com/prn-tf/litup/internal/storage/fs"
)

// testStack is the assembled in-process deployment.
type testStack struct {
	api    *httptest.Server
	origin *httptest.Server
	ingest *service.IngestService
	repos  *repository.Repositories
}

func newTestStack(t *testing.T) *testStack {
	t.Helper()
	logger := zerolog.Nop()
	ctx := context.Background()

	db, err := sqliterepo.NewDB(ctx, sqliterepo.Config{
		Path:            filepath.Join(t.TempDir(), "litup.db"),
		JournalMode:     "WAL",
		BusyTimeout:     5000,
		SynchronousMode: "NORMAL",
	}, logger)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repos := &repository.Repositories{
		Song:   sqliterepo.NewSongRepository(db),
		Config: sqliterepo.NewConfigRepository(db),
	}

	store, err := fsstore.NewStore(filepath.Join(t.TempDir(), "media"))
	require.NoError(t, err)

	// Fake origin serving the media the ingest loop downloads.
	originMux := http.NewServeMux()
	originMux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/octet-stream")
		w.Write([]byte("media-bytes-for-" + r.URL.Path))
	})
	origin := httptest.NewServer(originMux)
	t.Cleanup(origin.Close)

	songService := service.NewSongService(repos.Song, logger)
	appConfigService := service.NewAppConfigService(repos.Song, repos.Config, logger)
	ingestService := service.NewIngestService(repos.Song, store, lock.NewMemoryLocker(), logger,
		service.WithInvalidator(appConfigService))

	router := handler.NewRouter(handler.RouterConfig{
		SongHandler:    handler.NewSongHandler(songService, logger),
		ConfigHandler:  handler.NewConfigHandler(appConfigService, logger),
		Database:       db,
		AllowedOrigins: []string{"*"},
		Logger:         logger,
	})

	api := httptest.NewServer(router.Handler())
	t.Cleanup(api.Close)

	return &testStack{api: api, origin: origin, ingest: ingestService, repos: repos}
}

func (s *testStack) createSong(t *testing.T, artist, title string) domain.Song {
	t.Helper()
	body, err := json.Marshal(map[string]string{
		"audio_origin_url":     s.origin.URL + "/" + title + ".mp3",
		"album_art_origin_url": s.origin.URL + "/" + title + ".jpg",
		"artist":               artist,
		"title":                title,
	})
	require.NoError(t, err)

	resp, err := http.Post(s.api.URL+"/songs", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var song domain.Song
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&song))
	return song
}

// TestSongIngestToPlaylist walks a song from creation through ingest to the
// served playlist.
func TestSongIngestToPlaylist(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	stack := newTestStack(t)
	song := stack.createSong(t, "The Midnight", "Sunset")

	// Pipeline has not run yet: playlist is empty.
	resp, err := http.Get(stack.api.URL + "/app-config")
	require.NoError(t, err)
	var before domain.AppConfig
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&before))
	resp.Body.Close()
	require.Empty(t, before.Tracks)

	// One ingest pass moves the song to ready.
	require.NoError(t, stack.ingest.RunOnce(context.Background()))

	got, err := stack.repos.Song.GetByID(context.Background(), song.ID)
	require.NoError(t, err)
	require.Equal(t, domain.SongStatusReady, got.Status)
	require.NotNil(t, got.AudioURL)

	// The playlist now carries the track with served URLs.
	resp, err = http.Get(stack.api.URL + "/app-config")
	require.NoError(t, err)
	var after domain.AppConfig
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&after))
	resp.Body.Close()

	require.Len(t, after.Tracks, 1)
	require.Equal(t, song.ID, after.Tracks[0].ID)
	require.Equal(t, "/songs/"+song.ID+".mp3", after.Tracks[0].Src)
	require.Equal(t, "/album_art/"+song.ID+".jpg", after.Tracks[0].Cover)
	require.NotEmpty(t, after.BuildHash)
}

// TestSongPersistence checks the SQLite repository round trip through the API.
func TestSongPersistence(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	stack := newTestStack(t)
	first := stack.createSong(t, "Gunship", "Tech Noir")
	second := stack.createSong(t, "Carpenter Brut", "Turbo Killer")

	resp, err := http.Get(stack.api.URL + "/songs")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var songs []domain.Song
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&songs))
	require.Len(t, songs, 2)

	ids := map[string]bool{songs[0].ID: true, songs[1].ID: true}
	require.True(t, ids[first.ID])
	require.True(t, ids[second.ID])
}

// TestFailedIngestKeepsOrigin checks that a dead origin marks the song
// failed without losing the origin URLs.
func TestFailedIngestKeepsOrigin(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	stack := newTestStack(t)
	song := stack.createSong(t, "Artist", "Broken")

	// Point the audio origin at a closed server.
	dead := httptest.NewServer(http.NotFoundHandler())
	dead.Close()
	deadURL := dead.URL + "/gone.mp3"

	patch, err := json.Marshal(map[string]string{"audio_origin_url": deadURL})
	require.NoError(t, err)
	req, err := http.NewRequest(http.MethodPatch, stack.api.URL+"/songs/"+song.ID, bytes.NewReader(patch))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	require.NoError(t, stack.ingest.RunOnce(context.Background()))

	got, err := stack.repos.Song.GetByID(context.Background(), song.ID)
	require.NoError(t, err)
	require.Equal(t, domain.SongStatusFailed, got.Status)
	require.Equal(t, deadURL, got.AudioOriginURL)
}
