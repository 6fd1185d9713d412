package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"
)

// RegisterRoutes mounts the order API, the API document and the swagger UI.
// Order routes are validated against the document.
func RegisterRoutes(e *echo.Echo, s *Server, contract *Contract) {
	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})
	e.GET("/openapi.json", contract.ServeDocument)

	contract.RegisterSwagger()
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	orders := e.Group("/orders", contract.Validator())
	orders.GET("", s.GetOrders)
	orders.POST("", s.CreateOrder)
	orders.PATCH("/update-progress", s.UpdateProgress)
	orders.GET("/:orderType", s.GetOrdersByPhase)
	orders.PUT("/:id", s.UpdateOrder)
	orders.DELETE("/:orderNumber", s.DeleteOrder)
}
