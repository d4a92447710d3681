// Package assets bundles the default board scene and its textures
package assets

import "github.com/gobuffalo/packr"

// Scene is the name of the bundled board scene inside Box
const Scene = "checkers.xml"

// Box serves the bundled files
var Box = packr.NewBox(".")
