package model

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"io/fs"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/objectgraph/pkg/errors"
	"github.com/matzehuels/objectgraph/pkg/objgraph"
)

// Format names a document encoding.
type Format string

// Supported document encodings.
const (
	FormatJSON    Format = "json"
	FormatTOML    Format = "toml"
	FormatYAML    Format = "yaml"
	FormatMsgPack Format = "msgpack"
)

// Formats lists the supported encodings.
var Formats = []Format{FormatJSON, FormatTOML, FormatYAML, FormatMsgPack}

var extFormats = map[string]Format{
	".json":    FormatJSON,
	".toml":    FormatTOML,
	".yaml":    FormatYAML,
	".yml":     FormatYAML,
	".msgpack": FormatMsgPack,
	".mpk":     FormatMsgPack,
}

// ParseFormat parses a format name. "yml" is accepted for YAML.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatJSON, FormatTOML, FormatYAML, FormatMsgPack:
		return f, nil
	case "yml":
		return FormatYAML, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "unknown model format %q", s)
}

// FormatFromPath returns the encoding implied by the file extension.
func FormatFromPath(path string) (Format, bool) {
	f, ok := extFormats[strings.ToLower(filepath.Ext(path))]
	return f, ok
}

var mediaFormats = map[string]Format{
	"application/json":        FormatJSON,
	"application/toml":        FormatTOML,
	"application/yaml":        FormatYAML,
	"application/x-yaml":      FormatYAML,
	"text/yaml":               FormatYAML,
	"application/msgpack":     FormatMsgPack,
	"application/x-msgpack":   FormatMsgPack,
	"application/vnd.msgpack": FormatMsgPack,
}

// FormatFromContentType returns the encoding named by an HTTP Content-Type
// header. Parameters such as charset are ignored.
func FormatFromContentType(ct string) (Format, bool) {
	mt, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return "", false
	}
	f, ok := mediaFormats[mt]
	return f, ok
}

// IsModelFile reports whether path has a model document extension.
func IsModelFile(path string) bool {
	_, ok := FormatFromPath(path)
	return ok
}

// Decode reads a document in the given format from r and converts it to a
// graph. An empty input is an empty graph.
func Decode(r io.Reader, format Format) (*objgraph.ObjectGraph, error) {
	doc, err := DecodeDocument(r, format)
	if err != nil {
		return nil, err
	}
	return doc.ToGraph()
}

// DecodeDocument reads a document without converting it.
func DecodeDocument(r io.Reader, format Format) (Document, error) {
	var doc Document
	var err error
	switch format {
	case FormatJSON:
		err = json.NewDecoder(r).Decode(&doc)
	case FormatTOML:
		_, err = toml.NewDecoder(r).Decode(&doc)
	case FormatYAML:
		err = yaml.NewDecoder(r).Decode(&doc)
	case FormatMsgPack:
		err = msgpack.NewDecoder(r).Decode(&doc)
	default:
		return Document{}, errors.New(errors.ErrCodeInvalidFormat, "unknown model format %q", format)
	}
	if err != nil && !stderrors.Is(err, io.EOF) {
		return Document{}, errors.Wrap(errors.ErrCodeInvalidModel, err, "decode %s", format)
	}
	return doc, nil
}

// Encode writes g to w as a document in the given format.
func Encode(w io.Writer, g *objgraph.ObjectGraph, format Format) error {
	doc := FromGraph(g)
	var err error
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		err = enc.Encode(doc)
	case FormatTOML:
		err = toml.NewEncoder(w).Encode(doc)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err = enc.Encode(doc); err == nil {
			err = enc.Close()
		}
	case FormatMsgPack:
		err = msgpack.NewEncoder(w).Encode(doc)
	default:
		return errors.New(errors.ErrCodeInvalidFormat, "unknown model format %q", format)
	}
	if err != nil {
		return fmt.Errorf("encode %s: %w", format, err)
	}
	return nil
}

// ReadFile reads the document at path, choosing the decoder from the file
// extension.
func ReadFile(path string) (*objgraph.ObjectGraph, error) {
	format, ok := FormatFromPath(path)
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "cannot infer model format from %s", path)
	}
	f, err := os.Open(path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "model file %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	g, err := Decode(f, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return g, nil
}

// WriteFile writes g to path, choosing the encoder from the file extension.
func WriteFile(g *objgraph.ObjectGraph, path string) error {
	format, ok := FormatFromPath(path)
	if !ok {
		return errors.New(errors.ErrCodeInvalidFormat, "cannot infer model format from %s", path)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := Encode(f, g, format); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// FileFactory creates graphs from a model file. It implements
// [objgraph.Factory].
type FileFactory struct {
	Path string
}

// Create reads the file. The file is read on every call, so a factory can be
// reused to pick up changes.
func (f FileFactory) Create(ctx context.Context) (*objgraph.ObjectGraph, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return ReadFile(f.Path)
}
