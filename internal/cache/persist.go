package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/klauspost/compress/zstd"
)

// Adapter persists the store as a single durable blob. The cache is
// best-effort and not a system of record: Save failures are logged by the
// service and never surfaced to callers, and Load degrades to an empty
// store instead of failing.
type Adapter interface {
	Save(Store) error
	Load() (Store, error)
}

// FileAdapter stores the blob as a zstd-compressed JSON file, written
// atomically via a temp file and rename.
type FileAdapter struct {
	path    string
	encoder *zstd.Encoder
	decoder *zstd.Decoder
}

// NewFileAdapter creates a file-backed adapter at path, creating parent
// directories as needed.
func NewFileAdapter(path string, compressionLevel int) (*FileAdapter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	encoder, err := zstd.NewWriter(nil,
		zstd.WithEncoderLevel(zstd.EncoderLevelFromZstd(compressionLevel)))
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd encoder: %w", err)
	}
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd decoder: %w", err)
	}

	return &FileAdapter{path: path, encoder: encoder, decoder: decoder}, nil
}

// Path returns the location of the durable blob.
func (a *FileAdapter) Path() string {
	return a.path
}

// Save serializes the full store and replaces any prior blob.
func (a *FileAdapter) Save(s Store) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to encode store: %w", err)
	}
	return a.writeFile(a.encoder.EncodeAll(raw, nil))
}

// Load reads and deserializes the blob. A missing blob yields an empty
// store with no error. A blob that cannot be read or decoded yields an
// empty store alongside the error. Namespaces and entries that fail to
// parse individually are dropped without invalidating the rest.
func (a *FileAdapter) Load() (Store, error) {
	blob, err := os.ReadFile(a.path)
	if err != nil {
		if os.IsNotExist(err) {
			return Store{}, nil
		}
		return Store{}, fmt.Errorf("failed to read cache blob: %w", err)
	}

	raw, err := a.decoder.DecodeAll(blob, nil)
	if err != nil {
		// Blobs written before compression was introduced are plain JSON.
		raw = blob
	}

	var namespaces map[string]json.RawMessage
	if err := json.Unmarshal(raw, &namespaces); err != nil {
		return Store{}, fmt.Errorf("failed to decode cache blob: %w", err)
	}

	store := make(Store, len(namespaces))
	for name, rawNS := range namespaces {
		var entries map[string]json.RawMessage
		if err := json.Unmarshal(rawNS, &entries); err != nil {
			log.Warn("cache: dropping malformed namespace", "category", name, "error", err)
			continue
		}
		ns := make(Namespace, len(entries))
		for key, rawEntry := range entries {
			var e Entry
			if err := json.Unmarshal(rawEntry, &e); err != nil || e.WrittenAt <= 0 || e.TTL <= 0 {
				log.Warn("cache: dropping malformed entry", "category", name, "key", key)
				continue
			}
			ns[key] = e
		}
		store[name] = ns
	}
	return store, nil
}

func (a *FileAdapter) writeFile(data []byte) error {
	tempPath := a.path + ".tmp"

	file, err := os.Create(tempPath)
	if err != nil {
		return err
	}

	_, err = file.Write(data)
	closeErr := file.Close()

	if err != nil {
		os.Remove(tempPath)
		return err
	}
	if closeErr != nil {
		os.Remove(tempPath)
		return closeErr
	}

	return os.Rename(tempPath, a.path)
}
