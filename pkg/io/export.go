package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Gor-c/emind/pkg/errors"
	"github.com/Gor-c/emind/pkg/tree"
)

// WriteJSON encodes root as indented JSON. Absent children, colors, and
// sides are omitted, so [ReadJSON] restores the same tree.
func WriteJSON(root *tree.Node, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(root); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// WriteYAML encodes root as YAML.
func WriteYAML(root *tree.Node, w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(root); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return enc.Close()
}

// Write encodes root in the given format.
func Write(root *tree.Node, w io.Writer, f Format) error {
	switch f {
	case FormatJSON:
		return WriteJSON(root, w)
	case FormatYAML:
		return WriteYAML(root, w)
	default:
		return errors.New(errors.ErrCodeInvalidFormat, "unknown tree format %q", f)
	}
}

// Export writes root to path in the format named by its extension.
func Export(root *tree.Node, path string) error {
	f, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := Write(root, file, f); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
