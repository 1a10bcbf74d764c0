// Package assets embeds static files shipped with the binaries.
package assets

import _ "embed"

// MapTemplate is the HTML page template for the animated map.
//
//go:embed map.html.tpl
var MapTemplate string
