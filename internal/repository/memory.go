package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/rocketscienceinc/tictactoe-hotseat/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-hotseat/internal/entity"
)

type memoryRecord struct {
	payload   []byte
	expiresAt time.Time
}

type memorySession struct {
	mu      sync.Mutex
	records map[string]memoryRecord
	ttl     time.Duration
	now     func() time.Time
}

// NewMemorySessionRepository - keeps sessions in process memory with the same expiry rules as redis.
func NewMemorySessionRepository(ttl time.Duration) SessionRepository {
	return newMemorySessionRepository(ttl, time.Now)
}

func newMemorySessionRepository(ttl time.Duration, now func() time.Time) *memorySession {
	return &memorySession{
		records: make(map[string]memoryRecord),
		ttl:     ttl,
		now:     now,
	}
}

func (that *memorySession) CreateOrUpdate(_ context.Context, session *entity.Session) error {
	// stored as JSON so callers never share player pointers with the store
	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("could not marshal session: %w", err)
	}

	record := memoryRecord{payload: payload}
	if that.ttl > 0 {
		record.expiresAt = that.now().Add(that.ttl)
	}

	that.mu.Lock()
	defer that.mu.Unlock()

	that.records[session.ID] = record

	return nil
}

func (that *memorySession) GetByID(_ context.Context, id string) (*entity.Session, error) {
	that.mu.Lock()
	record, ok := that.lookup(id)
	that.mu.Unlock()

	if !ok {
		return nil, apperror.ErrSessionNotFound
	}

	var session entity.Session
	if err := json.Unmarshal(record.payload, &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}

	return &session, nil
}

func (that *memorySession) DeleteByID(_ context.Context, id string) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	if _, ok := that.lookup(id); !ok {
		return apperror.ErrSessionNotFound
	}

	delete(that.records, id)

	return nil
}

// lookup - must be called with mu held; drops the record if it has expired.
func (that *memorySession) lookup(id string) (memoryRecord, bool) {
	record, ok := that.records[id]
	if !ok {
		return memoryRecord{}, false
	}

	if !record.expiresAt.IsZero() && !that.now().Before(record.expiresAt) {
		delete(that.records, id)
		return memoryRecord{}, false
	}

	return record, true
}
