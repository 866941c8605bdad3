package http

import (
	_ "embed"
	"fmt"
	"sync"

	"fulfillment/internal/pkg/errs"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers/legacy"
	"github.com/labstack/echo/v4"
	"github.com/swaggo/swag"
)

//go:embed openapi.yaml
var openAPIDocument []byte

var registerDocsOnce sync.Once

// LoadOpenAPI parses and validates the embedded API description.
func LoadOpenAPI() (*openapi3.T, error) {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(openAPIDocument)
	if err != nil {
		return nil, fmt.Errorf("failed to load openapi document: %w", err)
	}
	if err := doc.Validate(loader.Context); err != nil {
		return nil, fmt.Errorf("invalid openapi document: %w", err)
	}
	return doc, nil
}

// validateRequests checks parameters and bodies against doc before binding.
// Paths the document does not describe pass through to echo's router.
func validateRequests(doc *openapi3.T) (echo.MiddlewareFunc, error) {
	router, err := legacy.NewRouter(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to build openapi router: %w", err)
	}
	options := &openapi3filter.Options{AuthenticationFunc: openapi3filter.NoopAuthenticationFunc}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			route, pathParams, err := router.FindRoute(c.Request())
			if err != nil {
				return next(c)
			}
			input := &openapi3filter.RequestValidationInput{
				Request:    c.Request(),
				PathParams: pathParams,
				Route:      route,
				Options:    options,
			}
			if err := openapi3filter.ValidateRequest(c.Request().Context(), input); err != nil {
				return errs.NewValueIsInvalidErrorWithCause("request", err)
			}
			return next(c)
		}
	}, nil
}

type swaggerDoc string

func (d swaggerDoc) ReadDoc() string {
	return string(d)
}

// registerDocs publishes doc to the swagger UI. The swag registry is process
// global, so only the first server registers.
func registerDocs(doc *openapi3.T) error {
	raw, err := doc.MarshalJSON()
	if err != nil {
		return fmt.Errorf("failed to render openapi document: %w", err)
	}
	registerDocsOnce.Do(func() {
		if swag.GetSwagger(swag.Name) == nil {
			swag.Register(swag.Name, swaggerDoc(raw))
		}
	})
	return nil
}
