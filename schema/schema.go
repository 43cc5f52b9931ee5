// Package schema embeds the default post schema.
package schema

import _ "embed"

// Post is the JSON Schema every archive file must satisfy unless a
// schemaFile is configured.
//
//go:embed post.schema.json
var Post []byte
