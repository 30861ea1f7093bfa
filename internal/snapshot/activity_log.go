package snapshot

import (
	"catalogd/internal/providers"
	"strconv"
	"sync"
	"time"
)

type ActivityType string

const (
	ActivityUpload   ActivityType = "upload"
	ActivityConfig   ActivityType = "config"
	ActivityModify   ActivityType = "modify"
	ActivityDownload ActivityType = "download"
)

func ParseActivityType(s string) (ActivityType, bool) {
	switch t := ActivityType(s); t {
	case ActivityUpload, ActivityConfig, ActivityModify, ActivityDownload:
		return t, true
	}
	return "", false
}

type Activity struct {
	ID          string       `json:"id"`
	Type        ActivityType `json:"type"`
	Target      string       `json:"target"`
	Description string       `json:"description"`
	Timestamp   string       `json:"timestamp"`
}

// activityCap is the retention limit of the admin activity log.
const activityCap = 50

// ActivityLog is an append-only, newest-first list of admin actions,
// capped at activityCap entries. Every insertion persists the whole
// list; persistence failures are logged and the in-memory list stays
// authoritative.
type ActivityLog struct {
	mu     sync.Mutex
	kv     KV
	logger providers.Logger
	items  []Activity
	now    func() time.Time
}

func NewActivityLog(kv KV, logger providers.Logger) *ActivityLog {
	return &ActivityLog{kv: kv, logger: logger, now: time.Now}
}

// Restore loads the persisted log. A missing key is not an error.
func (l *ActivityLog) Restore() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	var items []Activity
	ok, err := l.kv.Get(ActivitiesKey, &items)
	if err != nil {
		return err
	}
	if ok {
		if len(items) > activityCap {
			items = items[:activityCap]
		}
		l.items = items
	}
	return nil
}

func (l *ActivityLog) Add(typ ActivityType, target, description string) Activity {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	activity := Activity{
		ID:          strconv.FormatInt(now.UnixMilli(), 10),
		Type:        typ,
		Target:      target,
		Description: description,
		Timestamp:   now.Format(time.RFC3339),
	}

	l.items = append([]Activity{activity}, l.items...)
	if len(l.items) > activityCap {
		l.items = l.items[:activityCap]
	}

	if err := l.kv.Set(ActivitiesKey, l.items); err != nil {
		l.logger.Errorf(providers.TypeAdmin, "Persisting activity log failed: %s", err)
	}
	return activity
}

func (l *ActivityLog) Activities() []Activity {
	l.mu.Lock()
	defer l.mu.Unlock()
	items := make([]Activity, len(l.items))
	copy(items, l.items)
	return items
}

func (l *ActivityLog) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.items)
}

func (l *ActivityLog) Clear() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.items = nil
	return l.kv.Delete(ActivitiesKey)
}

// Flush rewrites the persisted copy from the in-memory list.
func (l *ActivityLog) Flush() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.kv.Set(ActivitiesKey, l.items)
}
