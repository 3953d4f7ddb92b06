package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/spaceforge/pkg/errors"
)

// WriteJSON encodes doc as indented native JSON and writes it to w.
// The output can be re-read with [ReadJSON].
func WriteJSON(doc *Document, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(encode(doc)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// MarshalJSON returns the compact native JSON encoding of doc.
func MarshalJSON(doc *Document) ([]byte, error) {
	data, err := json.Marshal(encode(doc))
	if err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	return data, nil
}

// ExportJSON writes doc to a JSON file at path.
func ExportJSON(doc *Document, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(doc, f)
}

// WriteTOML encodes doc as TOML and writes it to w.
func WriteTOML(doc *Document, w io.Writer) error {
	if err := toml.NewEncoder(w).Encode(encode(doc)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// Export writes doc to path as JSON or TOML, chosen by extension.
// fabric.js output is not supported.
func Export(doc *Document, path string) error {
	if strings.HasSuffix(strings.ToLower(path), ".fabric.json") {
		return errors.New(errors.ErrCodeInvalidFormat, "cannot write fabric.js canvases: %s", path)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return ExportJSON(doc, path)
	case ".toml":
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create %s: %w", path, err)
		}
		defer f.Close()
		return WriteTOML(doc, f)
	}
	return errors.New(errors.ErrCodeInvalidFormat, "unsupported layout file: %s", path)
}
