// Package dis reads and writes disassembly listings, the fixed-shape output
// of the external bytecode decoder. A listing carries the instruction-set
// version and one instruction sequence per callable. Listings are exchanged
// as JSON (human-authored fixtures, other tools) or msgpack (compact
// machine-to-machine transfer).
package dis

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/l3aro/go-ccm/pkg/instr"
	"github.com/vmihailenco/msgpack/v5"
)

// Callable is one disassembled function or method.
type Callable struct {
	Name          string      `json:"name" msgpack:"n"`
	QualifiedName string      `json:"qualified_name,omitempty" msgpack:"qn,omitempty"`
	File          string      `json:"file,omitempty" msgpack:"f,omitempty"`
	FirstLine     int         `json:"first_line,omitempty" msgpack:"fl,omitempty"`
	Instructions  []instr.Raw `json:"instructions" msgpack:"ins"`
}

// ID returns the identity used for caller correlation: the qualified name
// when present, the bare name otherwise.
func (c Callable) ID() string {
	if c.QualifiedName != "" {
		return c.QualifiedName
	}
	return c.Name
}

// Listing is a complete disassembler output document.
type Listing struct {
	InstructionSet string     `json:"instruction_set" msgpack:"is"`
	Callables      []Callable `json:"callables" msgpack:"cs"`
}

// Extensions recognized by Load/Save and the directory scanner.
const (
	ExtJSON    = ".json"
	ExtMsgpack = ".msgb"
)

// Load reads a listing from path, choosing the codec by file extension.
func Load(path string) (*Listing, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open listing: %w", err)
	}
	defer file.Close()

	var l Listing
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ExtJSON:
		if err := json.NewDecoder(file).Decode(&l); err != nil {
			return nil, fmt.Errorf("failed to decode JSON listing %s: %w", path, err)
		}
	case ExtMsgpack:
		if _, err := l.ReadFrom(file); err != nil {
			return nil, fmt.Errorf("failed to decode msgpack listing %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("unsupported listing format %q (want %s or %s)", ext, ExtJSON, ExtMsgpack)
	}

	return &l, nil
}

// Save writes the listing to path, choosing the codec by file extension.
func (l *Listing) Save(path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create listing file: %w", err)
	}
	defer file.Close()

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ExtJSON:
		enc := json.NewEncoder(file)
		enc.SetIndent("", "  ")
		if err := enc.Encode(l); err != nil {
			return fmt.Errorf("failed to encode JSON listing: %w", err)
		}
	case ExtMsgpack:
		if _, err := l.WriteTo(file); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unsupported listing format %q (want %s or %s)", ext, ExtJSON, ExtMsgpack)
	}

	return nil
}

// WriteTo writes the listing to w in msgpack format.
func (l *Listing) WriteTo(w io.Writer) (int64, error) {
	encoder := msgpack.NewEncoder(w)
	if err := encoder.Encode(l); err != nil {
		return 0, fmt.Errorf("failed to encode listing: %w", err)
	}
	return 0, nil
}

// ReadFrom reads the listing from r in msgpack format.
func (l *Listing) ReadFrom(r io.Reader) (int64, error) {
	decoder := msgpack.NewDecoder(r)
	if err := decoder.Decode(l); err != nil {
		return 0, fmt.Errorf("failed to decode listing: %w", err)
	}
	return int64(len(l.Callables)), nil
}

// Find returns the callable with the given name or qualified name.
func (l *Listing) Find(name string) (Callable, bool) {
	for _, c := range l.Callables {
		if c.Name == name || c.QualifiedName == name {
			return c, true
		}
	}
	return Callable{}, false
}

// IsListingPath reports whether path looks like a disassembly listing file
// (*.dis.json or *.dis.msgb).
func IsListingPath(path string) bool {
	base := strings.ToLower(filepath.Base(path))
	return strings.HasSuffix(base, ".dis"+ExtJSON) || strings.HasSuffix(base, ".dis"+ExtMsgpack)
}
