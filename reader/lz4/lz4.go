// Package lz4 decompresses Firefox/Chrome ".jsonlz4" bookmark backups: an
// 8-byte "mozLz40\0" magic header, a little-endian uint32 decompressed
// size, then a raw LZ4 block.
package lz4

import (
	"bytes"
	"encoding/binary"

	"github.com/fwojciec/bogrep"
	"github.com/pierrec/lz4/v4"
)

var magic = []byte("mozLz40\x00")

// Decompress returns the decompressed JSON payload of a mozlz4-framed
// bookmark backup.
func Decompress(data []byte) ([]byte, error) {
	if len(data) < len(magic)+4 || !bytes.Equal(data[:len(magic)], magic) {
		return nil, bogrep.Errorf(bogrep.ESOURCE, "not a mozlz4 file")
	}
	size := binary.LittleEndian.Uint32(data[len(magic) : len(magic)+4])
	dst := make([]byte, size)
	n, err := lz4.UncompressBlock(data[len(magic)+4:], dst)
	if err != nil {
		return nil, bogrep.WrapOp("lz4.Decompress", bogrep.Errorf(bogrep.ESOURCE, "%v", err))
	}
	return dst[:n], nil
}
