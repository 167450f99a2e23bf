package service

import (
	"bytes"
	"context"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/prn-tf/litup/internal/domain"
)

// =============================================================================
// Mock Repositories
// =============================================================================

// mockSongRepository is a map-backed implementation of repository.SongRepository.
type mockSongRepository struct {
	mu        sync.Mutex
	songs     map[string]*domain.Song
	createErr error
	getErr    error
	listErr   error
	updateErr error
	deleteErr error
}

func newMockSongRepository() *mockSongRepository {
	return &mockSongRepository{songs: make(map[string]*domain.Song)}
}

func (m *mockSongRepository) Create(ctx context.Context, song *domain.Song) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	if _, exists := m.songs[song.ID]; exists {
		return domain.ErrSongAlreadyExists
	}
	copied := *song
	m.songs[song.ID] = &copied
	return nil
}

func (m *mockSongRepository) GetByID(ctx context.Context, id string) (*domain.Song, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	song, exists := m.songs[id]
	if !exists {
		return nil, domain.ErrSongNotFound
	}
	copied := *song
	return &copied, nil
}

func (m *mockSongRepository) List(ctx context.Context) ([]*domain.Song, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	var result []*domain.Song
	for _, song := range m.songs {
		copied := *song
		result = append(result, &copied)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (m *mockSongRepository) ListByStatus(ctx context.Context, status domain.SongStatus) ([]*domain.Song, error) {
	all, err := m.List(ctx)
	if err != nil {
		return nil, err
	}
	var result []*domain.Song
	for _, song := range all {
		if song.Status == status {
			result = append(result, song)
		}
	}
	return result, nil
}

func (m *mockSongRepository) Update(ctx context.Context, song *domain.Song) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.updateErr != nil {
		return m.updateErr
	}
	if _, exists := m.songs[song.ID]; !exists {
		return domain.ErrSongNotFound
	}
	copied := *song
	m.songs[song.ID] = &copied
	return nil
}

func (m *mockSongRepository) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.deleteErr != nil {
		return m.deleteErr
	}
	if _, exists := m.songs[id]; !exists {
		return domain.ErrSongNotFound
	}
	delete(m.songs, id)
	return nil
}

// seed inserts a song directly, bypassing error injection.
func (m *mockSongRepository) seed(song *domain.Song) {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *song
	m.songs[song.ID] = &copied
}

// mockConfigRepository is a map-backed implementation of repository.ConfigRepository.
type mockConfigRepository struct {
	mu      sync.Mutex
	configs map[string]*domain.StoredConfig
	listErr error
}

func newMockConfigRepository() *mockConfigRepository {
	return &mockConfigRepository{configs: make(map[string]*domain.StoredConfig)}
}

func (m *mockConfigRepository) Create(ctx context.Context, cfg *domain.StoredConfig) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.configs[cfg.ID]; exists {
		return domain.ErrConfigAlreadyExists
	}
	copied := *cfg
	m.configs[cfg.ID] = &copied
	return nil
}

func (m *mockConfigRepository) GetByID(ctx context.Context, id string) (*domain.StoredConfig, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cfg, exists := m.configs[id]
	if !exists {
		return nil, domain.ErrConfigNotFound
	}
	copied := *cfg
	return &copied, nil
}

func (m *mockConfigRepository) List(ctx context.Context) ([]*domain.StoredConfig, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	var result []*domain.StoredConfig
	for _, cfg := range m.configs {
		copied := *cfg
		result = append(result, &copied)
	}
	return result, nil
}

func (m *mockConfigRepository) Update(ctx context.Context, cfg *domain.StoredConfig) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.configs[cfg.ID]; !exists {
		return domain.ErrConfigNotFound
	}
	copied := *cfg
	m.configs[cfg.ID] = &copied
	return nil
}

func (m *mockConfigRepository) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.configs[id]; !exists {
		return domain.ErrConfigNotFound
	}
	delete(m.configs, id)
	return nil
}

// =============================================================================
// Mock Media Store
// =============================================================================

// mockMediaStore keeps objects in a map.
type mockMediaStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	putErr  error
}

func newMockMediaStore() *mockMediaStore {
	return &mockMediaStore{objects: make(map[string][]byte)}
}

func (m *mockMediaStore) Put(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error {
	if m.putErr != nil {
		return m.putErr
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = data
	return nil
}

func (m *mockMediaStore) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, exists := m.objects[key]
	if !exists {
		return nil, domain.ErrSongNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (m *mockMediaStore) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, key)
	return nil
}

func (m *mockMediaStore) Exists(ctx context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, exists := m.objects[key]
	return exists, nil
}

func (m *mockMediaStore) object(key string) []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.objects[key]
}

// =============================================================================
// Test Helpers
// =============================================================================

func readySong(id, artist, title string) *domain.Song {
	length := "3:42"
	seconds := 222.0
	audioURL := "/songs/" + id + ".mp3"
	artURL := "/album_art/" + id + ".jpg"
	now := time.Now().UTC()
	return &domain.Song{
		ID:                id,
		AudioOriginURL:    "https://origin.example.com/" + id + ".mp3",
		AudioURL:          &audioURL,
		Length:            &length,
		LengthSeconds:     &seconds,
		Artist:            artist,
		Title:             title,
		AlbumArtOriginURL: "https://origin.example.com/" + id + ".jpg",
		AlbumArtURL:       &artURL,
		Status:            domain.SongStatusReady,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
}
