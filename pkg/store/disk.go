package store

import (
	"context"
	"os"
	"strings"

	"github.com/peterbourgon/diskv/v3"

	"github.com/matzehuels/blockgrid/pkg/errors"
)

// DiskStore keeps one file per key below a base directory. Key segments
// separated by ':' become directories, so "blockgrid:default:grid" is stored
// at <dir>/blockgrid/default/grid.
type DiskStore struct {
	d   *diskv.Diskv
	dir string
}

// NewDiskStore opens a file store rooted at dir, creating it if needed.
func NewDiskStore(dir string) (*DiskStore, error) {
	if dir == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "file store needs a directory")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "create store directory %s", dir)
	}
	return &DiskStore{
		d: diskv.New(diskv.Options{
			BasePath:          dir,
			AdvancedTransform: keyToPath,
			InverseTransform:  pathToKey,
			CacheSizeMax:      1024 * 1024, // 1MB
		}),
		dir: dir,
	}, nil
}

// Dir returns the base directory.
func (s *DiskStore) Dir() string { return s.dir }

// Get retrieves a value.
func (s *DiskStore) Get(ctx context.Context, key string) (string, bool, error) {
	if err := errors.ValidateKey(key); err != nil {
		return "", false, err
	}
	if !s.d.Has(key) {
		return "", false, nil
	}
	val, err := s.d.Read(key)
	if os.IsNotExist(err) {
		return "", false, nil
	}
	if err != nil {
		return "", false, storeErr(err, "read", key)
	}
	return string(val), true, nil
}

// Set stores a value.
func (s *DiskStore) Set(ctx context.Context, key, value string) error {
	if err := errors.ValidateKey(key); err != nil {
		return err
	}
	return storeErr(s.d.Write(key, []byte(value)), "write", key)
}

// Delete removes a value.
func (s *DiskStore) Delete(ctx context.Context, key string) error {
	if err := errors.ValidateKey(key); err != nil {
		return err
	}
	if !s.d.Has(key) {
		return nil
	}
	return storeErr(s.d.Erase(key), "erase", key)
}

// Close does nothing for the file store.
func (s *DiskStore) Close() error {
	return nil
}

func keyToPath(key string) *diskv.PathKey {
	parts := strings.Split(key, ":")
	return &diskv.PathKey{
		Path:     parts[:len(parts)-1],
		FileName: parts[len(parts)-1],
	}
}

func pathToKey(pk *diskv.PathKey) string {
	return strings.Join(append(append([]string{}, pk.Path...), pk.FileName), ":")
}

// Ensure DiskStore implements Store.
var _ Store = (*DiskStore)(nil)
