package cache

import (
	"bytes"
	"encoding/gob"
	"fmt"

	"github.com/klauspost/compress/zstd"

	"github.com/bent101/wordle-entropy/index"
)

// encode serialises a snapshot as gob inside a zstd frame.
func encode(s *index.Snapshot) ([]byte, error) {
	var buf bytes.Buffer
	zw, err := zstd.NewWriter(&buf, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
	if err != nil {
		return nil, err
	}
	if err := gob.NewEncoder(zw).Encode(s); err != nil {
		zw.Close()
		return nil, fmt.Errorf("encoding index: %w", err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("compressing index: %w", err)
	}
	return buf.Bytes(), nil
}

func decode(payload []byte) (*index.Snapshot, error) {
	zr, err := zstd.NewReader(bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	defer zr.Close()

	var s index.Snapshot
	if err := gob.NewDecoder(zr).Decode(&s); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	return &s, nil
}
