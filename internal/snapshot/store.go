package snapshot

import (
	"catalogd/internal/providers"
	"catalogd/internal/structures"
	"os"
	"path/filepath"
	"sync"

	json "github.com/goccy/go-json"
)

// Fixed keys of the persisted admin records.
const (
	ActivitiesKey = "admin_activities"
	BackupsKey    = "config_backups"
)

// KV is the small key-value persistence surface the admin stores write
// through. The live site used browser localStorage for this; here it is
// one compressed JSON file per key.
type KV interface {
	Get(key string, v any) (bool, error)
	Set(key string, v any) error
	Delete(key string) error
}

type Store struct {
	mu         sync.Mutex
	dir        string
	compressor Compressor
	logger     providers.Logger
}

func NewStore(conf *structures.Config, compressor Compressor, logger providers.Logger) (KV, error) {
	if err := os.MkdirAll(conf.Persistence.Dir, 0o755); err != nil {
		return nil, err
	}
	return &Store{
		dir:        conf.Persistence.Dir,
		compressor: compressor,
		logger:     logger,
	}, nil
}

func (s *Store) path(key string) string {
	return filepath.Join(s.dir, key+".dat")
}

func (s *Store) Get(key string, v any) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}

	decompressed, err := s.compressor.Decompress(data)
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(decompressed, v); err != nil {
		return false, err
	}
	return true, nil
}

// Set serializes v and writes it atomically: tmp file, fsync, rename.
func (s *Store) Set(key string, v any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	jsonData, err := json.Marshal(v)
	if err != nil {
		return err
	}
	data, err := s.compressor.Compress(jsonData)
	if err != nil {
		return err
	}

	fileName := s.path(key)
	tmpFile := fileName + ".tmp"
	file, err := os.Create(tmpFile)
	if err != nil {
		return err
	}

	_, err = file.Write(data)
	if err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Sync(); err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Close(); err != nil {
		os.Remove(tmpFile)
		return err
	}

	return os.Rename(tmpFile, fileName)
}

func (s *Store) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.path(key))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
