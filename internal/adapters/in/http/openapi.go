package http

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"
	"github.com/getkin/kin-openapi/routers/legacy"
	"github.com/labstack/echo/v4"
	"github.com/swaggo/swag"
)

//go:embed api/openapi.yaml
var openAPIDocument []byte

// Contract is the API description served at /openapi.json and used to
// validate incoming requests before they reach a handler.
type Contract struct {
	router routers.Router
	raw    []byte
}

// LoadContract parses and validates the embedded OpenAPI document.
func LoadContract(ctx context.Context) (*Contract, error) {
	doc, err := openapi3.NewLoader().LoadFromData(openAPIDocument)
	if err != nil {
		return nil, fmt.Errorf("load openapi document: %w", err)
	}
	if err = doc.Validate(ctx); err != nil {
		return nil, fmt.Errorf("validate openapi document: %w", err)
	}

	router, err := legacy.NewRouter(doc)
	if err != nil {
		return nil, fmt.Errorf("build openapi router: %w", err)
	}

	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode openapi document: %w", err)
	}

	return &Contract{router: router, raw: raw}, nil
}

// JSON returns the document as JSON.
func (c *Contract) JSON() []byte {
	return c.raw
}

// ServeDocument handles GET /openapi.json.
func (c *Contract) ServeDocument(ctx echo.Context) error {
	return ctx.JSONBlob(http.StatusOK, c.raw)
}

// Validator rejects requests that do not match the document with 400.
// Routes the document does not describe pass through untouched.
func (c *Contract) Validator() echo.MiddlewareFunc {
	options := &openapi3filter.Options{
		AuthenticationFunc: openapi3filter.NoopAuthenticationFunc,
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			req := ctx.Request()
			route, pathParams, err := c.router.FindRoute(req)
			if err != nil {
				return next(ctx)
			}

			input := &openapi3filter.RequestValidationInput{
				Request:    req,
				PathParams: pathParams,
				Route:      route,
				Options:    options,
			}
			if err = openapi3filter.ValidateRequest(req.Context(), input); err != nil {
				return ctx.JSON(http.StatusBadRequest, Error{
					Code:    http.StatusBadRequest,
					Message: firstLine(err.Error()),
				})
			}
			return next(ctx)
		}
	}
}

type swaggerDoc struct {
	raw string
}

func (d swaggerDoc) ReadDoc() string {
	return d.raw
}

var registerSwagger sync.Once

// RegisterSwagger publishes the document to swag so the swagger UI serves it.
// swag keeps a process-wide registry, so only the first call has an effect.
func (c *Contract) RegisterSwagger() {
	registerSwagger.Do(func() {
		swag.Register(swag.Name, swaggerDoc{raw: string(c.raw)})
	})
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}
