// Package web holds the page that renders screens pushed over /ws.
package web

import "embed"

//go:embed index.html
var Files embed.FS
