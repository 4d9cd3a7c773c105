// Package badger stores configuration objects in an embedded BadgerDB.
package badger

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/bft-labs/domaincfg/pkg/log"
	"github.com/bft-labs/domaincfg/pkg/storage"
)

// keyPrefix namespaces configuration keys inside the database.
const keyPrefix = "config:"

// Config holds configuration for a BadgerDB-backed store.
type Config struct {
	// Path is the database directory. Ignored when InMemory is true.
	Path string

	// InMemory keeps all data in memory. Useful for testing.
	InMemory bool

	// SyncWrites fsyncs every write.
	// Default: true
	SyncWrites bool

	// Logger receives BadgerDB's internal log output. If nil, it is
	// discarded.
	Logger log.Logger
}

// DefaultConfig returns a durable configuration for path.
func DefaultConfig(path string) Config {
	return Config{
		Path:       path,
		SyncWrites: true,
	}
}

// InMemoryConfig returns a configuration for tests.
func InMemoryConfig() Config {
	return Config{InMemory: true}
}

// Storage implements storage.Storage on BadgerDB. Values are JSON encoded.
// It is safe for concurrent use.
type Storage struct {
	db *badger.DB
}

// Open opens the database described by cfg. Callers must Close it.
func Open(cfg Config) (*Storage, error) {
	if !cfg.InMemory && cfg.Path == "" {
		return nil, errors.New("path is required for persistent database")
	}

	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(cfg.Path, 0o750); err != nil {
			return nil, fmt.Errorf("create database directory %s: %w", cfg.Path, err)
		}
		opts = badger.DefaultOptions(cfg.Path)
	}
	opts = opts.WithSyncWrites(cfg.SyncWrites).WithNumVersionsToKeep(1)

	if cfg.Logger != nil {
		opts = opts.WithLogger(&badgerLogger{logger: cfg.Logger})
	} else {
		opts = opts.WithLogger(nil)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger database: %w", err)
	}
	return &Storage{db: db}, nil
}

// Close closes the database.
func (s *Storage) Close() error {
	return s.db.Close()
}

func (s *Storage) Read(ctx context.Context, name string) (storage.Payload, bool, error) {
	if err := storage.ValidateName(name); err != nil {
		return nil, false, err
	}
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	var (
		p  storage.Payload
		ok bool
	)
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		p, ok, err = get(txn, name)
		return err
	})
	if err != nil {
		return nil, false, err
	}
	return p, ok, nil
}

// ReadMultiple reads every existing name in one transaction.
func (s *Storage) ReadMultiple(ctx context.Context, names []string) (map[string]storage.Payload, error) {
	for _, name := range names {
		if err := storage.ValidateName(name); err != nil {
			return nil, err
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out := make(map[string]storage.Payload, len(names))
	err := s.db.View(func(txn *badger.Txn) error {
		for _, name := range names {
			p, ok, err := get(txn, name)
			if err != nil {
				return err
			}
			if ok {
				out[name] = p
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Storage) Write(ctx context.Context, name string, data storage.Payload) error {
	if err := storage.ValidateName(name); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if data == nil {
		data = storage.Payload{}
	}

	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key(name), raw)
	})
}

// List returns the stored names starting with prefix, in key order.
func (s *Storage) List(ctx context.Context, prefix string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var names []string
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		p := key(prefix)
		opts.Prefix = p

		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Seek(p); it.ValidForPrefix(p); it.Next() {
			k := it.Item().KeyCopy(nil)
			names = append(names, string(bytes.TrimPrefix(k, []byte(keyPrefix))))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return names, nil
}

// Delete removes name. Deleting a missing name is not an error.
func (s *Storage) Delete(ctx context.Context, name string) error {
	if err := storage.ValidateName(name); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(key(name))
	})
}

func key(name string) []byte {
	return []byte(keyPrefix + name)
}

func get(txn *badger.Txn, name string) (storage.Payload, bool, error) {
	item, err := txn.Get(key(name))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get %s: %w", name, err)
	}
	raw, err := item.ValueCopy(nil)
	if err != nil {
		return nil, false, fmt.Errorf("get %s: %w", name, err)
	}
	p, err := decode(raw)
	if err != nil {
		return nil, false, fmt.Errorf("decode %s: %w", name, err)
	}
	return p, true, nil
}

// decode unmarshals a payload, keeping integral numbers as int.
func decode(raw []byte) (storage.Payload, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var m map[string]any
	if err := dec.Decode(&m); err != nil {
		return nil, err
	}
	if m == nil {
		m = map[string]any{}
	}
	return storage.Payload(normalize(m).(map[string]any)), nil
}

func normalize(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, e := range t {
			t[k] = normalize(e)
		}
		return t
	case []any:
		for i, e := range t {
			t[i] = normalize(e)
		}
		return t
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return int(i)
		}
		if f, err := t.Float64(); err == nil {
			return f
		}
		return t.String()
	default:
		return v
	}
}

// badgerLogger adapts log.Logger to BadgerDB's Logger interface. Badger's
// info output is demoted to debug.
type badgerLogger struct {
	logger log.Logger
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warn(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

var (
	_ storage.Storage = (*Storage)(nil)
	_ storage.Lister  = (*Storage)(nil)
)
