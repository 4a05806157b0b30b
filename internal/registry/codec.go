package registry

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/klauspost/compress/zstd"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/nerrad567/ouidb/internal/oui"
)

// dumpVersion is bumped whenever the binary dump layout changes.
const dumpVersion = 1

// JSONIndent is the indentation of the structured dumps.
const JSONIndent = "    "

// mappingDump is the msgpack payload of the registry binary dump.
type mappingDump struct {
	Version int         `msgpack:"version"`
	Entries []oui.Entry `msgpack:"entries"`
}

// WriteBinary msgpack-encodes v, compresses it with zstd and atomically
// replaces path. The encoder runs single-threaded so equal inputs produce
// byte-identical files.
func WriteBinary(path string, v any) error {
	raw, err := msgpack.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding binary dump: %w", err)
	}

	enc, err := zstd.NewWriter(nil, zstd.WithEncoderConcurrency(1))
	if err != nil {
		return fmt.Errorf("creating zstd encoder: %w", err)
	}
	defer enc.Close()

	return writeFileAtomic(path, enc.EncodeAll(raw, nil))
}

// ReadBinary reads a dump written by WriteBinary into v.
func ReadBinary(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	dec, err := zstd.NewReader(nil, zstd.WithDecoderConcurrency(1))
	if err != nil {
		return fmt.Errorf("creating zstd decoder: %w", err)
	}
	defer dec.Close()

	raw, err := dec.DecodeAll(data, nil)
	if err != nil {
		return fmt.Errorf("decompressing binary dump: %w", err)
	}
	if err := msgpack.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("decoding binary dump: %w", err)
	}
	return nil
}

// WriteJSON writes v indented with JSONIndent and atomically replaces path.
func WriteJSON(path string, v any) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", JSONIndent)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding json dump: %w", err)
	}
	return writeFileAtomic(path, buf.Bytes())
}

func writeMappingBinary(path string, m *oui.Mapping) error {
	return WriteBinary(path, mappingDump{Version: dumpVersion, Entries: m.Entries()})
}

func readMappingBinary(path string) (*oui.Mapping, error) {
	var dump mappingDump
	if err := ReadBinary(path, &dump); err != nil {
		return nil, err
	}
	if dump.Version != dumpVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedDump, dump.Version)
	}
	return oui.MappingFromEntries(dump.Entries), nil
}
