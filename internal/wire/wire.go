// Package wire implements length-prefixed JSON framing for the extractor
// subprocess protocol described in spec.md §6 ("Extractor (worker)
// contract"). Each frame is a big-endian uint32 byte length followed by
// that many bytes of JSON payload. The teacher's wire protocol
// (pkg/encoding/protobuf.go) length-prefixes marshaled protocol buffer
// messages the same way; this package keeps that framing shape but
// carries JSON payloads instead; see DESIGN.md for why the generated
// protocol buffer code that package depends on isn't available here.
package wire

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
)

// maxFrameBytes bounds a single frame to guard against a misbehaving or
// corrupted extractor process from causing an unbounded allocation.
const maxFrameBytes = 64 * 1024 * 1024

// WriteMessage encodes v as JSON and writes it to w as a single
// length-prefixed frame.
func WriteMessage(w io.Writer, v interface{}) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("unable to marshal message: %w", err)
	}

	var header [4]byte
	binary.BigEndian.PutUint32(header[:], uint32(len(payload)))
	if _, err := w.Write(header[:]); err != nil {
		return fmt.Errorf("unable to write frame header: %w", err)
	}
	if _, err := w.Write(payload); err != nil {
		return fmt.Errorf("unable to write frame payload: %w", err)
	}

	return nil
}

// ReadMessage reads a single length-prefixed frame from r and decodes it
// into v.
func ReadMessage(r io.Reader, v interface{}) error {
	var header [4]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return fmt.Errorf("unable to read frame header: %w", err)
	}

	length := binary.BigEndian.Uint32(header[:])
	if length > maxFrameBytes {
		return fmt.Errorf("frame length %d exceeds maximum of %d", length, maxFrameBytes)
	}

	payload := make([]byte, length)
	if _, err := io.ReadFull(r, payload); err != nil {
		return fmt.Errorf("unable to read frame payload: %w", err)
	}

	if err := json.Unmarshal(payload, v); err != nil {
		return fmt.Errorf("unable to unmarshal message: %w", err)
	}

	return nil
}
