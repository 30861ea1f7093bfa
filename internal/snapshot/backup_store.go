package snapshot

import (
	"catalogd/internal/providers"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	json "github.com/goccy/go-json"
)

var (
	ErrBackupNotFound  = errors.New("backup not found")
	ErrBackupCorrupted = errors.New("backup checksum mismatch")
)

type Backup struct {
	ID        string          `json:"id"`
	Type      string          `json:"type"`
	Data      json.RawMessage `json:"data"`
	Timestamp string          `json:"timestamp"`
	Checksum  string          `json:"checksum"`
}

// backupCap is the retention limit of the config backup list.
const backupCap = 10

// BackupStore keeps the most recent configuration snapshots,
// newest-first with FIFO eviction at the cap. Restore verifies the
// stored checksum and refuses the backup outright on mismatch.
type BackupStore struct {
	mu     sync.Mutex
	kv     KV
	logger providers.Logger
	items  []Backup
	now    func() time.Time
}

func NewBackupStore(kv KV, logger providers.Logger) *BackupStore {
	return &BackupStore{kv: kv, logger: logger, now: time.Now}
}

func (s *BackupStore) Restore(id string) (json.RawMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, b := range s.items {
		if b.ID != id {
			continue
		}
		if Checksum(b.Data) != b.Checksum {
			return nil, fmt.Errorf("restore %s: %w", id, ErrBackupCorrupted)
		}
		return b.Data, nil
	}
	return nil, fmt.Errorf("restore %s: %w", id, ErrBackupNotFound)
}

// Create snapshots the payload. The marshal round-trip deep-copies it,
// so later mutation of the source cannot reach into the backup.
func (s *BackupStore) Create(typ string, data any) (Backup, error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return Backup{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	backup := Backup{
		ID:        strconv.FormatInt(now.UnixMilli(), 10),
		Type:      typ,
		Data:      payload,
		Timestamp: now.Format(time.RFC3339),
		Checksum:  Checksum(payload),
	}

	s.items = append([]Backup{backup}, s.items...)
	if len(s.items) > backupCap {
		s.items = s.items[:backupCap]
	}

	if err := s.kv.Set(BackupsKey, s.items); err != nil {
		s.logger.Errorf(providers.TypeAdmin, "Persisting backups failed: %s", err)
	}
	return backup, nil
}

func (s *BackupStore) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.items[:0]
	for _, b := range s.items {
		if b.ID != id {
			kept = append(kept, b)
		}
	}
	s.items = kept

	if err := s.kv.Set(BackupsKey, s.items); err != nil {
		s.logger.Errorf(providers.TypeAdmin, "Persisting backups failed: %s", err)
	}
}

func (s *BackupStore) Backups() []Backup {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := make([]Backup, len(s.items))
	copy(items, s.items)
	return items
}

func (s *BackupStore) Latest() (Backup, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.items) == 0 {
		return Backup{}, false
	}
	return s.items[0], true
}

func (s *BackupStore) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// RestoreFromDisk loads the persisted backup list. Missing key is fine.
func (s *BackupStore) RestoreFromDisk() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var items []Backup
	ok, err := s.kv.Get(BackupsKey, &items)
	if err != nil {
		return err
	}
	if ok {
		if len(items) > backupCap {
			items = items[:backupCap]
		}
		s.items = items
	}
	return nil
}

// Flush rewrites the persisted copy from the in-memory list.
func (s *BackupStore) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.kv.Set(BackupsKey, s.items)
}
