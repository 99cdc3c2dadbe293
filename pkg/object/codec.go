package object

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Codec converts values to and from bytes.
type Codec[T any] interface {
	Encode(v T) ([]byte, error)
	Decode(data []byte) (T, error)
}

// JSONCodec encodes values with encoding/json.
type JSONCodec[T any] struct{}

func (JSONCodec[T]) Encode(v T) ([]byte, error) { return json.Marshal(v) }

func (JSONCodec[T]) Decode(data []byte) (T, error) {
	var v T
	err := json.Unmarshal(data, &v)
	return v, err
}

// YAMLCodec encodes values with yaml.v3.
type YAMLCodec[T any] struct{}

func (YAMLCodec[T]) Encode(v T) ([]byte, error) { return yaml.Marshal(v) }

func (YAMLCodec[T]) Decode(data []byte) (T, error) {
	var v T
	err := yaml.Unmarshal(data, &v)
	return v, err
}

// CodecStorage stores typed values in a byte Storage through a Codec.
// Over a FileStore, equal encodings share an ID.
type CodecStorage[V any] struct {
	store Storage[[]byte]
	codec Codec[V]
}

var _ Storage[string] = (*CodecStorage[string])(nil)

// NewCodecStorage wraps store. A nil codec means JSONCodec.
func NewCodecStorage[V any](store Storage[[]byte], codec Codec[V]) *CodecStorage[V] {
	if codec == nil {
		codec = JSONCodec[V]{}
	}
	return &CodecStorage[V]{store: store, codec: codec}
}

func (c *CodecStorage[V]) Add(v V) (ID, error) {
	data, err := c.codec.Encode(v)
	if err != nil {
		return "", fmt.Errorf("object encode: %w", err)
	}
	return c.store.Add(data)
}

func (c *CodecStorage[V]) Get(id ID) (V, error) {
	data, err := c.store.Get(id)
	if err != nil {
		var zero V
		return zero, err
	}
	v, err := c.codec.Decode(data)
	if err != nil {
		return v, fmt.Errorf("object decode %s: %w", id, err)
	}
	return v, nil
}

func (c *CodecStorage[V]) Remove(id ID) error { return c.store.Remove(id) }
func (c *CodecStorage[V]) Contains(id ID) bool { return c.store.Contains(id) }
func (c *CodecStorage[V]) Count() (int, error) { return c.store.Count() }
