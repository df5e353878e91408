package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Gor-c/emind/pkg/errors"
	"github.com/Gor-c/emind/pkg/tree"
)

// Format is a serialization format for trees.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", errors.New(errors.ErrCodeInvalidFormat, "unsupported tree file %q (want .json, .yaml, or .yml)", path)
	}
}

// ParseFormat accepts "json", "yaml", or "yml".
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", errors.New(errors.ErrCodeInvalidFormat, "unknown tree format %q", s)
	}
}

// ReadJSON decodes and validates a JSON tree. ReadJSON does not close r.
func ReadJSON(r io.Reader) (*tree.Node, error) {
	var root *tree.Node
	if err := json.NewDecoder(r).Decode(&root); err != nil {
		return nil, decodeError("json", err)
	}
	return validated(root)
}

// ReadYAML decodes and validates a YAML tree. ReadYAML does not close r.
func ReadYAML(r io.Reader) (*tree.Node, error) {
	var root *tree.Node
	if err := yaml.NewDecoder(r).Decode(&root); err != nil {
		if err == io.EOF {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "decode yaml: empty document")
		}
		return nil, decodeError("yaml", err)
	}
	return validated(root)
}

// Read decodes a tree in the given format.
func Read(r io.Reader, f Format) (*tree.Node, error) {
	switch f {
	case FormatJSON:
		return ReadJSON(r)
	case FormatYAML:
		return ReadYAML(r)
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown tree format %q", f)
	}
}

// Import reads a tree file, choosing the decoder by extension.
func Import(path string) (*tree.Node, error) {
	f, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()
	root, err := Read(file, f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return root, nil
}

func decodeError(format string, err error) error {
	// Coded errors come from field decoders such as tree.Side.
	if c := errors.GetCode(err); c != "" {
		return err
	}
	return errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode %s", format)
}

func validated(root *tree.Node) (*tree.Node, error) {
	if err := tree.Validate(root); err != nil {
		return nil, err
	}
	return root, nil
}
