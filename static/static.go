// Package static embeds the API docs assets served under /docs and /static.
package static

import "embed"

// FS holds the OpenAPI document and the docs UI page.
//
//go:embed openapi.html openapi.json
var FS embed.FS
