package io

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/spaceforge/pkg/errors"
	"github.com/matzehuels/spaceforge/pkg/geom"
)

// ReadJSON decodes a native JSON document from r.
//
// Unknown fields are ignored. A record with an unknown type or a missing
// geometry field fails with a [errors.ValidationError] carrying the record
// index. ReadJSON does not close r.
func ReadJSON(r io.Reader) (*Document, error) {
	var data document
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode document")
	}
	return decode(data)
}

// UnmarshalJSON decodes a native JSON document held in memory.
func UnmarshalJSON(data []byte) (*Document, error) {
	return ReadJSON(bytes.NewReader(data))
}

// ImportJSON reads a native JSON document from the file at path.
func ImportJSON(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f)
}

// ReadTOML decodes a TOML document from r. Shapes are given as
// [[shapes]] tables with the same keys as the JSON format.
func ReadTOML(r io.Reader) (*Document, error) {
	var data document
	if _, err := toml.NewDecoder(r).Decode(&data); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode document")
	}
	return decode(data)
}

// Import reads a document from path, choosing the decoder by file name:
// ".fabric.json" for fabric.js canvases, ".json" for native JSON and
// ".toml" for TOML. fabric.js canvases carry no size, so they are placed
// on fallback.
func Import(path string, fallback geom.Canvas) (*Document, error) {
	name := strings.ToLower(filepath.Base(path))
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	var doc *Document
	switch {
	case strings.HasSuffix(name, ".fabric.json"):
		doc, err = ReadFabric(f, fallback)
	case strings.HasSuffix(name, ".json"):
		doc, err = ReadJSON(f)
	case strings.HasSuffix(name, ".toml"):
		doc, err = ReadTOML(f)
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported layout file: %s", path)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if doc.Name == "" {
		doc.Name = strings.TrimSuffix(strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)), ".fabric")
	}
	return doc, nil
}
