package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/prn-tf/litup/internal/domain"
	"github.com/prn-tf/litup/internal/lock"
)

// originServer serves fake audio and cover bytes for ingest tests.
func originServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/audio.mp3", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "audio/mpeg")
		w.Write([]byte("ID3-fake-audio"))
	})
	mux.HandleFunc("/cover.jpg", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/jpeg")
		w.Write([]byte("JFIF-fake-cover"))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newSongAt(origin, id string) *domain.Song {
	song := readySong(id, "Artist", "Title")
	song.Status = domain.SongStatusNew
	song.AudioURL = nil
	song.AlbumArtURL = nil
	song.AudioOriginURL = origin + "/audio.mp3"
	song.AlbumArtOriginURL = origin + "/cover.jpg"
	return song
}

func TestIngestService_IngestSong(t *testing.T) {
	origin := originServer(t)
	repo := newMockSongRepository()
	store := newMockMediaStore()

	song := newSongAt(origin.URL, uuid.NewString())
	repo.seed(song)

	svc := NewIngestService(repo, store, lock.NewMemoryLocker(), zerolog.Nop())

	err := svc.IngestSong(context.Background(), song.ID)
	require.NoError(t, err)

	got, err := repo.GetByID(context.Background(), song.ID)
	require.NoError(t, err)
	require.Equal(t, domain.SongStatusReady, got.Status)
	require.NotNil(t, got.AudioURL)
	require.Equal(t, "/songs/"+song.ID+".mp3", *got.AudioURL)
	require.NotNil(t, got.AlbumArtURL)
	require.Equal(t, "/album_art/"+song.ID+".jpg", *got.AlbumArtURL)

	require.Equal(t, []byte("ID3-fake-audio"), store.object("songs/"+song.ID+".mp3"))
	require.Equal(t, []byte("JFIF-fake-cover"), store.object("album_art/"+song.ID+".jpg"))
}

func TestIngestService_IngestSong_OriginFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	t.Cleanup(srv.Close)

	repo := newMockSongRepository()
	song := newSongAt(srv.URL, uuid.NewString())
	song.AudioOriginURL = srv.URL + "/missing.mp3"
	repo.seed(song)

	svc := NewIngestService(repo, newMockMediaStore(), lock.NewMemoryLocker(), zerolog.Nop())

	err := svc.IngestSong(context.Background(), song.ID)
	require.ErrorIs(t, err, ErrOriginFetch)

	got, err := repo.GetByID(context.Background(), song.ID)
	require.NoError(t, err)
	require.Equal(t, domain.SongStatusFailed, got.Status)
	// Origin URLs survive failure so the song can be retried.
	require.NotEmpty(t, got.AudioOriginURL)
}

func TestIngestService_IngestSong_Locked(t *testing.T) {
	origin := originServer(t)
	repo := newMockSongRepository()
	song := newSongAt(origin.URL, uuid.NewString())
	repo.seed(song)

	locker := lock.NewMemoryLocker()
	svc := NewIngestService(repo, newMockMediaStore(), locker, zerolog.Nop())

	// Simulate another replica holding the song's lock.
	acquired, err := locker.Acquire(context.Background(), lock.Keys.SongIngest(song.ID), svc.lockTTL)
	require.NoError(t, err)
	require.True(t, acquired)

	err = svc.IngestSong(context.Background(), song.ID)
	require.ErrorIs(t, err, ErrIngestLocked)

	got, err := repo.GetByID(context.Background(), song.ID)
	require.NoError(t, err)
	require.Equal(t, domain.SongStatusNew, got.Status)
}

type countingInvalidator struct {
	calls atomic.Int32
}

func (c *countingInvalidator) InvalidatePlaylist(ctx context.Context) {
	c.calls.Add(1)
}

func TestIngestService_RunOnce(t *testing.T) {
	origin := originServer(t)
	repo := newMockSongRepository()
	repo.seed(newSongAt(origin.URL, uuid.NewString()))
	repo.seed(newSongAt(origin.URL, uuid.NewString()))
	already := readySong(uuid.NewString(), "a", "done")
	repo.seed(already)

	inv := &countingInvalidator{}
	svc := NewIngestService(repo, newMockMediaStore(), lock.NewMemoryLocker(), zerolog.Nop(),
		WithInvalidator(inv))

	require.NoError(t, svc.RunOnce(context.Background()))

	ready, err := repo.ListByStatus(context.Background(), domain.SongStatusReady)
	require.NoError(t, err)
	require.Len(t, ready, 3)

	// One pass with new work invalidates once.
	require.Equal(t, int32(1), inv.calls.Load())

	// A pass with nothing to do must not invalidate.
	require.NoError(t, svc.RunOnce(context.Background()))
	require.Equal(t, int32(1), inv.calls.Load())
}
