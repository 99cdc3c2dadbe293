package object

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

func TestComputeIDDeterminism(t *testing.T) {
	data := []byte("hello world")
	id1, err := ComputeID(data)
	if err != nil {
		t.Fatalf("ComputeID: %v", err)
	}
	id2, _ := ComputeID(data)
	if id1 != id2 {
		t.Errorf("ComputeID not deterministic: %q != %q", id1, id2)
	}
	if !strings.HasPrefix(string(id1), "bafkrei") {
		t.Errorf("ComputeID = %q, want base32 CIDv1 raw prefix", id1)
	}
}

func TestComputeIDDifferentInput(t *testing.T) {
	id1, _ := ComputeID([]byte("aaa"))
	id2, _ := ComputeID([]byte("bbb"))
	if id1 == id2 {
		t.Error("different inputs produced same id")
	}
}

func TestParseIDRoundTrip(t *testing.T) {
	want, err := ComputeCID([]byte("payload"))
	if err != nil {
		t.Fatalf("ComputeCID: %v", err)
	}
	id, err := FromCID(want)
	if err != nil {
		t.Fatalf("FromCID: %v", err)
	}
	got, err := ParseID(id)
	if err != nil {
		t.Fatalf("ParseID: %v", err)
	}
	if !got.Equals(want) {
		t.Errorf("ParseID = %s, want %s", got, want)
	}
	if _, err := ParseID("../../etc/passwd"); err == nil {
		t.Error("ParseID accepted a path")
	}
}

func tempStore(t *testing.T) *FileStore {
	t.Helper()
	return NewFileStore(t.TempDir())
}

func TestFileStoreAddGet(t *testing.T) {
	s := tempStore(t)
	data := []byte("hello world")
	id, err := s.Add(data)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if !Verify(id, data) {
		t.Errorf("id %q does not address its content", id)
	}
	got, err := s.Get(id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Errorf("Get: got %q, want %q", got, data)
	}
}

func TestFileStoreLayout(t *testing.T) {
	s := tempStore(t)
	data := bytes.Repeat([]byte("compressible "), 200)
	id, err := s.Add(data)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	path := filepath.Join(s.Root(), "objects", string(id[len(id)-2:]), string(id))
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("object file missing at %s: %v", path, err)
	}
	if info.Size() >= int64(len(data)) {
		t.Errorf("stored size %d, want compressed below %d", info.Size(), len(data))
	}
}

func TestFileStoreIdempotent(t *testing.T) {
	s := tempStore(t)
	id1, err := s.Add([]byte("same"))
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	id2, err := s.Add([]byte("same"))
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if id1 != id2 {
		t.Errorf("ids differ: %q != %q", id1, id2)
	}
	n, err := s.Count()
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if n != 1 {
		t.Errorf("Count: got %d, want 1", n)
	}
}

func TestFileStoreContainsRemove(t *testing.T) {
	s := tempStore(t)
	id, _ := s.Add([]byte("doomed"))
	if !s.Contains(id) {
		t.Fatal("Contains: got false after Add")
	}
	if err := s.Remove(id); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if s.Contains(id) {
		t.Error("Contains: got true after Remove")
	}
	if err := s.Remove(id); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Remove: got %v, want ErrNotFound", err)
	}
	if _, err := s.Get(id); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get after Remove: got %v, want ErrNotFound", err)
	}
}

func TestFileStoreRejectsBadID(t *testing.T) {
	s := tempStore(t)
	if s.Contains("nope") {
		t.Error("Contains accepted an invalid id")
	}
	if _, err := s.Get("nope"); err == nil {
		t.Error("Get accepted an invalid id")
	}
}

func TestFileStoreDetectsCorruption(t *testing.T) {
	s := tempStore(t)
	id, _ := s.Add([]byte("original"))
	other, err := compressZstd([]byte("tampered"))
	if err != nil {
		t.Fatalf("compressZstd: %v", err)
	}
	path, _ := s.objectPath(id)
	if err := os.WriteFile(path, other, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := s.Get(id); !errors.Is(err, ErrCorrupt) {
		t.Errorf("Get: got %v, want ErrCorrupt", err)
	}

	if err := os.WriteFile(path, []byte("not zstd"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := s.Get(id); !errors.Is(err, ErrCorrupt) {
		t.Errorf("Get: got %v, want ErrCorrupt", err)
	}
}

func TestFileStoreList(t *testing.T) {
	s := tempStore(t)
	ids, err := s.List()
	if err != nil {
		t.Fatalf("List on empty store: %v", err)
	}
	if len(ids) != 0 {
		t.Fatalf("List on empty store: got %d ids", len(ids))
	}

	want := map[ID]bool{}
	for _, p := range []string{"a", "b", "c", "d"} {
		id, err := s.Add([]byte(p))
		if err != nil {
			t.Fatalf("Add(%q): %v", p, err)
		}
		want[id] = true
	}
	ids, err = s.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(ids) != len(want) {
		t.Fatalf("List: got %d ids, want %d", len(ids), len(want))
	}
	for i, id := range ids {
		if !want[id] {
			t.Errorf("List returned unknown id %q", id)
		}
		if i > 0 && ids[i-1] >= id {
			t.Errorf("List not sorted at %d", i)
		}
	}
}

func TestFileStoreConcurrentAdd(t *testing.T) {
	s := tempStore(t)
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.Add([]byte("shared")); err != nil {
				t.Errorf("Add: %v", err)
			}
		}()
	}
	wg.Wait()
	if n, _ := s.Count(); n != 1 {
		t.Errorf("Count: got %d, want 1", n)
	}
}

func TestMemoryStorage(t *testing.T) {
	m := NewMemoryStorage[string]()
	id1, _ := m.Add("x")
	id2, _ := m.Add("x")
	if id1 == id2 {
		t.Error("MemoryStorage reused an id")
	}
	if n, _ := m.Count(); n != 2 {
		t.Errorf("Count: got %d, want 2", n)
	}
	got, err := m.Get(id1)
	if err != nil || got != "x" {
		t.Errorf("Get: got %q, %v", got, err)
	}
	if err := m.Remove(id1); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if m.Contains(id1) {
		t.Error("Contains after Remove")
	}
	if _, err := m.Get(id1); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get after Remove: got %v, want ErrNotFound", err)
	}
	if err := m.Remove(id1); !errors.Is(err, ErrNotFound) {
		t.Errorf("Remove twice: got %v, want ErrNotFound", err)
	}
}

type record struct {
	Name  string            `json:"name" yaml:"name"`
	Attrs map[string]string `json:"attrs" yaml:"attrs"`
}

func TestCodecStorage(t *testing.T) {
	codecs := []struct {
		name  string
		codec Codec[record]
	}{
		{"json", nil},
		{"yaml", YAMLCodec[record]{}},
	}
	for _, tc := range codecs {
		t.Run(tc.name, func(t *testing.T) {
			s := NewCodecStorage(tempStore(t), tc.codec)
			in := record{Name: "doc", Attrs: map[string]string{"k": "v"}}
			id, err := s.Add(in)
			if err != nil {
				t.Fatalf("Add: %v", err)
			}
			again, _ := s.Add(in)
			if again != id {
				t.Errorf("equal values got different ids %q, %q", id, again)
			}
			out, err := s.Get(id)
			if err != nil {
				t.Fatalf("Get: %v", err)
			}
			if out.Name != in.Name || out.Attrs["k"] != "v" {
				t.Errorf("Get: got %+v, want %+v", out, in)
			}
			if !s.Contains(id) {
				t.Error("Contains: got false")
			}
			if err := s.Remove(id); err != nil {
				t.Fatalf("Remove: %v", err)
			}
			if n, _ := s.Count(); n != 0 {
				t.Errorf("Count: got %d, want 0", n)
			}
		})
	}
}
