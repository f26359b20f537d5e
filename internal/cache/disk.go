package cache

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/greven/forex/internal/rates"
)

// diskRecord is one line of the cache file: one key's current value and
// the time it was written. Values are always rates.Payload in this
// module — the on-disk backend exists to persist fetched rate sets
// across restarts (spec.md section 4.3 "optionally persist across
// restarts"), not to be a general-purpose store.
type diskRecord struct {
	Key       string        `json:"key"`
	UpdatedAt time.Time     `json:"updated_at"`
	Value     rates.Payload `json:"value"`
}

// Disk is a Backend that persists the three cache keys to a single
// JSON-lines file, one line per key, rewritten in full on every Put
// (spec.md section 5 "Shared resources": a single file handle guarded
// by a mutex so repeated Init is idempotent and Reset closes-and-reopens
// cleanly). The in-memory map mirrors the file's contents so Get reads
// from memory; it writes to disk only when it evicts an expired entry.
type Disk struct {
	mu          sync.Mutex
	path        string
	file        *os.File
	records     map[Key]diskRecord
	initialized bool
}

// NewDisk builds a Disk backend backed by the file at path. The file and
// any missing parent directories are created on Init, not here.
func NewDisk(path string) *Disk {
	return &Disk{path: path, records: make(map[Key]diskRecord)}
}

// Init opens (creating if necessary) the backing file and loads any
// existing records into memory. Calling Init while the file is already
// open is a no-op; after Terminate it reopens the same file.
func (d *Disk) Init(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.openAndLoad(); err != nil {
		return err
	}
	d.initialized = true
	return nil
}

func (d *Disk) openAndLoad() error {
	if d.file != nil {
		return nil
	}
	if dir := filepath.Dir(d.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create cache dir: %w", err)
		}
	}

	f, err := os.OpenFile(d.path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return fmt.Errorf("open cache file: %w", err)
	}
	d.file = f

	records := make(map[Key]diskRecord)
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var rec diskRecord
		if err := json.Unmarshal(line, &rec); err != nil {
			return fmt.Errorf("decode cache record: %w", err)
		}
		records[keyFromString(rec.Key)] = rec
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read cache file: %w", err)
	}
	d.records = records
	return nil
}

func keyFromString(s string) Key {
	switch s {
	case KeyLatestRates.String():
		return KeyLatestRates
	case KeyLastNinetyDaysRates.String():
		return KeyLastNinetyDaysRates
	case KeyHistoricRates.String():
		return KeyHistoricRates
	default:
		return -1
	}
}

// Get evicts key on the read that observes its TTL has expired
// (spec.md section 5 "expired entries are deleted on the read that
// observed the expiry"), flushing the eviction to disk immediately.
func (d *Disk) Get(ctx context.Context, key Key, ttl time.Duration) (Entry, bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	rec, ok := d.records[key]
	if !ok {
		return Entry{}, false, nil
	}
	if ttl > 0 && time.Since(rec.UpdatedAt) > ttl {
		delete(d.records, key)
		if err := d.flushLocked(); err != nil {
			return Entry{}, false, err
		}
		return Entry{}, false, nil
	}
	return Entry{Value: rec.Value, UpdatedAt: rec.UpdatedAt}, true, nil
}

func (d *Disk) Put(ctx context.Context, key Key, value any, updatedAt time.Time) (Entry, error) {
	payload, ok := value.(rates.Payload)
	if !ok {
		return Entry{}, fmt.Errorf("disk cache: value for %s is not a rates.Payload", key)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	rec := diskRecord{Key: key.String(), UpdatedAt: updatedAt.UTC().Truncate(time.Millisecond), Value: payload}
	d.records[key] = rec
	if err := d.flushLocked(); err != nil {
		return Entry{}, err
	}
	return Entry{Value: rec.Value, UpdatedAt: rec.UpdatedAt}, nil
}

func (d *Disk) Delete(ctx context.Context, key Key) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.records, key)
	return d.flushLocked()
}

func (d *Disk) LastUpdated(ctx context.Context, key Key) (time.Time, bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	rec, ok := d.records[key]
	return rec.UpdatedAt, ok, nil
}

func (d *Disk) LastUpdatedAll(ctx context.Context) (map[Key]time.Time, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make(map[Key]time.Time, len(d.records))
	for k, rec := range d.records {
		out[k] = rec.UpdatedAt
	}
	return out, nil
}

func (d *Disk) Initialized() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.initialized
}

// Reset closes the backing file, reopens the same path, truncates its
// contents, and drops in-memory state, leaving the backend initialized
// and empty (spec.md section 5's close-and-reopen requirement for the
// disk backend).
func (d *Disk) Reset(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.file != nil {
		if err := d.file.Close(); err != nil {
			return fmt.Errorf("close cache file: %w", err)
		}
		d.file = nil
	}
	d.initialized = false

	if err := d.openAndLoad(); err != nil {
		return err
	}
	d.records = make(map[Key]diskRecord)
	if err := d.flushLocked(); err != nil {
		return err
	}
	d.initialized = true
	return nil
}

// Terminate closes the backing file handle without deleting the file
// or clearing its contents; a later Init reopens it unchanged.
func (d *Disk) Terminate(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.file == nil {
		return nil
	}
	err := d.file.Close()
	d.file = nil
	d.initialized = false
	if err != nil {
		return fmt.Errorf("close cache file: %w", err)
	}
	return nil
}

// flushLocked rewrites the whole file from d.records. Cache files hold
// at most three lines, so a full rewrite per Put is simpler than an
// append-and-compact log and still cheap.
func (d *Disk) flushLocked() error {
	if err := d.file.Truncate(0); err != nil {
		return fmt.Errorf("truncate cache file: %w", err)
	}
	if _, err := d.file.Seek(0, 0); err != nil {
		return fmt.Errorf("seek cache file: %w", err)
	}

	w := bufio.NewWriter(d.file)
	for _, rec := range d.records {
		b, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("encode cache record: %w", err)
		}
		if _, err := w.Write(b); err != nil {
			return err
		}
		if _, err := w.WriteString("\n"); err != nil {
			return err
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("flush cache file: %w", err)
	}
	return d.file.Sync()
}
