package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog/log"
)

// FileStore keeps each bucket in a single JSON document on disk, read and
// rewritten wholesale on every mutation. A mutex per bucket serializes
// writers so concurrent updates cannot lose each other.
type FileStore struct {
	dir string

	mu    sync.Mutex // guards locks
	locks map[string]*sync.Mutex
}

// NewFileStore creates a FileStore rooted at dir. Documents are created
// lazily on first write.
func NewFileStore(dir string) *FileStore {
	return &FileStore{
		dir:   dir,
		locks: make(map[string]*sync.Mutex),
	}
}

// Well-known document names, kept compatible with the files the original
// deployment already has on disk.
var bucketFiles = map[string]string{
	BucketUsers:   "users.json",
	BucketReports: "user_reports.json",
	BucketEvents:  "events.json",
}

func (s *FileStore) path(bucket string) string {
	name, ok := bucketFiles[bucket]
	if !ok {
		name = bucket + ".json"
	}
	return filepath.Join(s.dir, name)
}

func (s *FileStore) lock(bucket string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[bucket]
	if !ok {
		l = &sync.Mutex{}
		s.locks[bucket] = l
	}
	return l
}

// readDoc loads the whole document for a bucket. A missing file surfaces as
// ErrStoreMissing; a corrupt file is treated as empty rather than propagated.
func (s *FileStore) readDoc(bucket string) (map[string]json.RawMessage, error) {
	data, err := os.ReadFile(s.path(bucket))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrStoreMissing
		}
		return nil, fmt.Errorf("read %s store: %w", bucket, err)
	}

	doc := make(map[string]json.RawMessage)
	if err := json.Unmarshal(data, &doc); err != nil {
		log.Warn().Err(err).Str("bucket", bucket).Msg("Store document is corrupt, treating as empty")
		return make(map[string]json.RawMessage), nil
	}
	return doc, nil
}

func (s *FileStore) writeDoc(bucket string, doc map[string]json.RawMessage) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode %s store: %w", bucket, err)
	}
	if err := os.WriteFile(s.path(bucket), data, 0644); err != nil {
		return fmt.Errorf("write %s store: %w", bucket, err)
	}
	return nil
}

// Get implements Store.
func (s *FileStore) Get(bucket, key string, out any) error {
	l := s.lock(bucket)
	l.Lock()
	defer l.Unlock()

	doc, err := s.readDoc(bucket)
	if err != nil {
		return err
	}
	raw, ok := doc[key]
	if !ok {
		return ErrKeyNotFound
	}
	return json.Unmarshal(raw, out)
}

// Put implements Store. The whole document is read, mutated in memory and
// rewritten.
func (s *FileStore) Put(bucket, key string, in any) error {
	l := s.lock(bucket)
	l.Lock()
	defer l.Unlock()

	doc, err := s.readDoc(bucket)
	if err != nil {
		if err != ErrStoreMissing {
			return err
		}
		doc = make(map[string]json.RawMessage)
	}

	raw, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("encode %s/%s: %w", bucket, key, err)
	}
	doc[key] = raw
	return s.writeDoc(bucket, doc)
}

// Delete implements Store.
func (s *FileStore) Delete(bucket, key string) error {
	l := s.lock(bucket)
	l.Lock()
	defer l.Unlock()

	doc, err := s.readDoc(bucket)
	if err != nil {
		return err
	}
	if _, ok := doc[key]; !ok {
		return nil
	}
	delete(doc, key)
	return s.writeDoc(bucket, doc)
}

// Close implements Store.
func (s *FileStore) Close() error { return nil }
