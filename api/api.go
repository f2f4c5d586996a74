// Package api holds the OpenAPI description served by the router.
package api

import _ "embed"

//go:embed openapi.json
var OpenAPISpec []byte
