package object

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// ErrCorrupt is returned when a stored object no longer matches its
// content address.
var ErrCorrupt = errors.New("object corrupt")

// FileStore is a content-addressed byte store on disk. Objects are zstd
// compressed and fanned out by the last two characters of their ID:
// objects/xy/bafk...xy. The base32 CID prefix is the same for every object,
// so the tail is what spreads them across directories.
type FileStore struct {
	root string
}

var _ Storage[[]byte] = (*FileStore)(nil)

// NewFileStore creates a FileStore rooted at the given directory. The
// objects/ subdirectory is created lazily on first write.
func NewFileStore(root string) *FileStore {
	return &FileStore{root: root}
}

// Root returns the directory the store was opened on.
func (s *FileStore) Root() string { return s.root }

func (s *FileStore) objectDir(id ID) string {
	return filepath.Join(s.root, "objects", string(id[len(id)-2:]))
}

// objectPath returns the filesystem path for id, rejecting anything that
// does not parse as a content address.
func (s *FileStore) objectPath(id ID) (string, error) {
	if _, err := ParseID(id); err != nil {
		return "", err
	}
	return filepath.Join(s.objectDir(id), string(id)), nil
}

// Contains reports whether the store holds an object for id.
func (s *FileStore) Contains(id ID) bool {
	path, err := s.objectPath(id)
	if err != nil {
		return false
	}
	_, err = os.Stat(path)
	return err == nil
}

// Add stores data and returns its content address. Writes are atomic:
// data is written to a temp file and then renamed into place. Adding
// content that is already present is a no-op.
func (s *FileStore) Add(data []byte) (ID, error) {
	id, err := ComputeID(data)
	if err != nil {
		return "", fmt.Errorf("object add: %w", err)
	}
	if s.Contains(id) {
		return id, nil
	}

	compressed, err := compressZstd(data)
	if err != nil {
		return "", fmt.Errorf("object add compress: %w", err)
	}

	dir := s.objectDir(id)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("object add mkdir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return "", fmt.Errorf("object add tmpfile: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(compressed); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return "", fmt.Errorf("object add: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("object add close: %w", err)
	}
	if err := os.Rename(tmpName, filepath.Join(dir, string(id))); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("object add rename: %w", err)
	}
	return id, nil
}

// Get reads the object stored under id and checks it against its address.
func (s *FileStore) Get(id ID) ([]byte, error) {
	path, err := s.objectPath(id)
	if err != nil {
		return nil, fmt.Errorf("object get: %w", err)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("object get %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("object get %s: %w", id, err)
	}
	data, err := decompressZstd(raw)
	if err != nil {
		return nil, fmt.Errorf("object get %s: %w: %v", id, ErrCorrupt, err)
	}
	if !Verify(id, data) {
		return nil, fmt.Errorf("object get %s: %w: content hash mismatch", id, ErrCorrupt)
	}
	return data, nil
}

// Remove deletes the object stored under id.
func (s *FileStore) Remove(id ID) error {
	path, err := s.objectPath(id)
	if err != nil {
		return fmt.Errorf("object remove: %w", err)
	}
	if err := os.Remove(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("object remove %s: %w", id, ErrNotFound)
		}
		return fmt.Errorf("object remove %s: %w", id, err)
	}
	return nil
}

// List returns every stored ID in sorted order.
func (s *FileStore) List() ([]ID, error) {
	var ids []ID
	base := filepath.Join(s.root, "objects")
	err := filepath.WalkDir(base, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == base && errors.Is(err, fs.ErrNotExist) {
				return fs.SkipDir
			}
			return err
		}
		if d.IsDir() || strings.HasPrefix(d.Name(), ".tmp-") {
			return nil
		}
		ids = append(ids, ID(d.Name()))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("object list: %w", err)
	}
	slices.Sort(ids)
	return ids, nil
}

// Count returns the number of stored objects.
func (s *FileStore) Count() (int, error) {
	ids, err := s.List()
	if err != nil {
		return 0, err
	}
	return len(ids), nil
}
