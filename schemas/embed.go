// Package schemas holds the JSON Schemas for documents the CLI reads and writes.
package schemas

import "embed"

// FS contains every *.schema.json file in this directory.
//
//go:embed *.schema.json
var FS embed.FS
