package object

import (
	"fmt"
	"testing"
)

func BenchmarkFileStoreAddUnique(b *testing.B) {
	s := NewFileStore(b.TempDir())
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := s.Add([]byte(fmt.Sprintf("blob-%d", i))); err != nil {
			b.Fatalf("Add: %v", err)
		}
	}
}

func BenchmarkFileStoreGet(b *testing.B) {
	s := NewFileStore(b.TempDir())
	payload := []byte("package main\n\nfunc main() { println(\"hello\") }\n")
	id, err := s.Add(payload)
	if err != nil {
		b.Fatalf("Add: %v", err)
	}
	b.SetBytes(int64(len(payload)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := s.Get(id); err != nil {
			b.Fatalf("Get: %v", err)
		}
	}
}
