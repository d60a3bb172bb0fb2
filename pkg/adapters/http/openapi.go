package http

import (
	_ "embed"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"
)

//go:embed openapi.yaml
var rawOpenAPI []byte

var (
	specOnce sync.Once
	specDoc  *openapi3.T
	specErr  error
)

// OpenAPI returns the parsed API description served on /api/openapi.yaml.
func OpenAPI() (*openapi3.T, error) {
	specOnce.Do(func() {
		specDoc, specErr = openapi3.NewLoader().LoadFromData(rawOpenAPI)
	})
	return specDoc, specErr
}
