package driver

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"fortio.org/safecast"
	"github.com/vmihailenco/msgpack/v5"

	"ngc-ir/packages/compiler/src/diagnostics"
	"ngc-ir/packages/compiler/src/util"
)

// Current schema version - increment when CachePayload format changes
const cacheSchemaVersion uint16 = 1

// Digest is a content hash used as cache key
type Digest [sha256.Size]byte

// String returns the hex form of the digest
func (d Digest) String() string {
	return hex.EncodeToString(d[:])
}

// Hasher accumulates the inputs of one compilation into a Digest. Every
// part is length-prefixed so adjacent parts cannot run together.
type Hasher struct {
	parts [][]byte
}

// Add appends a part
func (h *Hasher) Add(part string) *Hasher {
	h.parts = append(h.parts, []byte(part))
	return h
}

// Sum returns the digest of the parts added so far
func (h *Hasher) Sum() Digest {
	sum := sha256.New()
	for _, part := range h.parts {
		fmt.Fprintf(sum, "%d:", len(part))
		sum.Write(part)
	}
	var d Digest
	copy(d[:], sum.Sum(nil))
	return d
}

// DiskCache stores compiled modules by input digest on disk.
// Thread-safe for concurrent access.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// CachePayload is the stored result of compiling one component
type CachePayload struct {
	// Schema version for safe invalidation when format changes
	Schema uint16

	Name   string
	Output string

	Diagnostics []CachedDiagnostic
}

// CachedDiagnostic is a diagnostic with its span reduced to offsets into
// the template it was reported against.
type CachedDiagnostic struct {
	Severity uint8
	Code     int32
	Message  string
	HasSpan  bool
	Start    uint32
	End      uint32
}

// OpenDiskCache opens (creating if needed) the cache rooted at dir
func OpenDiskCache(dir string) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	return &DiskCache{dir: dir}, nil
}

// Dir returns the cache directory
func (c *DiskCache) Dir() string {
	return c.dir
}

func (c *DiskCache) pathFor(key Digest) string {
	return filepath.Join(c.dir, "components", key.String()+".mp")
}

// Put serializes and writes a payload to the disk cache.
func (c *DiskCache) Put(key Digest, payload *CachePayload) error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	payload.Schema = cacheSchemaVersion
	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer os.Remove(tmp) // no-op after a successful rename

	if err := msgpack.NewEncoder(f).Encode(payload); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	// atomic replace
	return os.Rename(tmp, p)
}

// Get reads a payload. A missing entry or one written by another schema
// version is a miss.
func (c *DiskCache) Get(key Digest) (*CachePayload, bool, error) {
	if c == nil {
		return nil, false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}
	defer f.Close()

	var payload CachePayload
	if err := msgpack.NewDecoder(f).Decode(&payload); err != nil {
		return nil, false, fmt.Errorf("corrupt cache entry %s: %w", key, err)
	}
	if payload.Schema != cacheSchemaVersion {
		return nil, false, nil
	}
	return &payload, true, nil
}

// DropAll removes every entry
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return os.RemoveAll(filepath.Join(c.dir, "components"))
}

// encodeDiagnostics reduces diagnostics to their cached form
func encodeDiagnostics(diags []diagnostics.Diagnostic) ([]CachedDiagnostic, error) {
	result := make([]CachedDiagnostic, 0, len(diags))
	for _, d := range diags {
		code, err := safecast.Conv[int32](int(d.Code))
		if err != nil {
			return nil, err
		}
		cached := CachedDiagnostic{Severity: uint8(d.Severity), Code: code, Message: d.Message}
		if d.Span != nil && d.Span.Start != nil && d.Span.End != nil {
			if cached.Start, err = safecast.Conv[uint32](d.Span.Start.Offset); err != nil {
				return nil, err
			}
			if cached.End, err = safecast.Conv[uint32](d.Span.End.Offset); err != nil {
				return nil, err
			}
			cached.HasSpan = true
		}
		result = append(result, cached)
	}
	return result, nil
}

// decodeDiagnostics restores spans against file
func decodeDiagnostics(cached []CachedDiagnostic, file *util.ParseSourceFile) []diagnostics.Diagnostic {
	result := make([]diagnostics.Diagnostic, 0, len(cached))
	for _, c := range cached {
		d := diagnostics.Diagnostic{
			Severity: diagnostics.Severity(c.Severity),
			Code:     diagnostics.Code(c.Code),
			Message:  c.Message,
		}
		if c.HasSpan && int(c.End) <= len(file.Content) {
			d.Span = util.SpanForOffsets(file, int(c.Start), int(c.End))
		}
		result = append(result, d)
	}
	return result
}
