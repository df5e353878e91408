// Package io reads and writes mind map trees as JSON or YAML.
//
// # Format
//
// A tree is a nested object. Only "name" is required:
//
//	{
//	  "name": "Launch",
//	  "children": [
//	    {"name": "Goals", "side": "left", "color": "#e11d48"},
//	    {"name": "Risks", "children": [{"name": "Scope creep"}]}
//	  ]
//	}
//
// Optional fields:
//   - children: ordered child nodes (absent or empty means a leaf)
//   - color: any color the scene accepts (#rgb, #rrggbb, rgb(), names)
//   - side: "left" or "right", honored for direct children of the root
//
// The same shape is accepted as YAML.
//
// # Import
//
// [ReadJSON] and [ReadYAML] decode from any reader; [Import] opens a file
// and picks the decoder from its extension. Every decoded tree is validated
// with [tree.Validate], so a successful import is always safe to lay out.
//
// # Export
//
// [WriteJSON] and [WriteYAML] write the tree back out, omitting absent
// fields, so import followed by export is lossless. [Export] writes a file
// in the format named by its extension.
package io
