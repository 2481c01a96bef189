package reference

import (
	"fmt"
	"hash/fnv"
	"log"
	"os"
	"path/filepath"

	"github.com/peterbourgon/diskv"
	"github.com/pkg/errors"
)

// Cache keeps decompressed reference mappings on disk. Decompressing a large bzip2 reference dominates start-up
// time, so the raw gob stream is stored keyed on the source file's path, size and modification time.
type Cache struct {
	*diskv.Diskv
}

// BlockTransform determines how diskv should partition folders.
func BlockTransform(blockSize int) func(string) []string {
	return func(s string) []string {
		var (
			sliceSize = len(s) / blockSize
			pathSlice = make([]string, sliceSize)
		)
		for i := 0; i < sliceSize; i++ {
			from, to := i*blockSize, (i*blockSize)+blockSize
			pathSlice[i] = s[from:to]
		}
		return pathSlice
	}
}

// NewCache creates an on-disk cache rooted at dir.
func NewCache(dir string) *Cache {
	return &Cache{diskv.New(diskv.Options{
		BasePath:     dir,
		Transform:    BlockTransform(4),
		CacheSizeMax: 64 * 1024 * 1024,
	})}
}

func cacheKey(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", err
	}
	h := fnv.New64a()
	fmt.Fprintf(h, "%s|%d|%d", abs, info.Size(), info.ModTime().UnixNano())
	return fmt.Sprintf("%016x", h.Sum64()), nil
}

// Load returns the store for the reference file at path, decoding from the cache when possible.
func (c *Cache) Load(path string) (*Store, error) {
	key, err := cacheKey(path)
	if err != nil {
		return nil, errors.Wrap(err, "open reference")
	}
	if c.Has(key) {
		s, err := c.cached(key)
		if err == nil {
			return s, nil
		}
		log.Printf("discarding unreadable cache entry for %s: %v\n", path, err)
		if err := c.Erase(key); err != nil {
			return nil, errors.Wrap(err, "erase cache entry")
		}
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open reference")
	}
	defer f.Close()
	raw, err := decompress(f)
	if err != nil {
		return nil, errors.Wrapf(err, "read reference %s", path)
	}
	s, err := decode(raw)
	if err != nil {
		return nil, errors.Wrapf(err, "read reference %s", path)
	}
	if err := c.Write(key, raw); err != nil {
		return nil, errors.Wrap(err, "write cache entry")
	}
	return s, nil
}

func (c *Cache) cached(key string) (*Store, error) {
	raw, err := c.Read(key)
	if err != nil {
		return nil, err
	}
	return decode(raw)
}
