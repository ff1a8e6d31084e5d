// Package content embeds the bundled demo game so the binary runs without
// a content directory.
package content

import "embed"

// Demo holds the demo game's Lua files under demo/.
//
//go:embed demo/*.lua
var Demo embed.FS

// DemoDir is the directory inside Demo that holds the Lua files.
const DemoDir = "demo"
