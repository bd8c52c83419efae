package infra

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	echoSwagger "github.com/swaggo/echo-swagger"
	_ "github.com/umalmyha/customer-records/docs" // swagger spec
	apperrors "github.com/umalmyha/customer-records/internal/errors"
	"github.com/umalmyha/customer-records/internal/handlers"
	"github.com/umalmyha/customer-records/internal/middleware"
	"github.com/umalmyha/customer-records/internal/service"
	"github.com/umalmyha/customer-records/internal/validation"
)

// Router builds echo instance with all routes registered
func Router(logger *logrus.Logger, customerSvc service.CustomerService, healthChecks map[string]handlers.HealthCheck) (*echo.Echo, error) {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	validator, err := validation.English()
	if err != nil {
		return nil, err
	}
	e.Validator = validator
	e.HTTPErrorHandler = ErrorHandler(e, logger)

	e.Use(middleware.Logger(logger))

	// Handlers
	customerHandler := handlers.NewCustomerHTTPHandler(customerSvc)
	healthHandler := handlers.NewHealthHTTPHandler(healthChecks)

	e.GET("/health", healthHandler.Health)
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// API routes
	customersAPI := e.Group("/api/customers")
	customersAPI.GET("", customerHandler.GetAll)
	customersAPI.POST("", customerHandler.Post)
	customersAPI.GET("/:id", customerHandler.Get)
	customersAPI.PATCH("/:id", customerHandler.Patch)
	customersAPI.DELETE("/:id", customerHandler.DeleteByID)

	return e, nil
}

// ErrorHandler maps errors raised by handlers to http responses
func ErrorHandler(e *echo.Echo, logger logrus.FieldLogger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		logger.WithField("uri", c.Request().RequestURI).Errorf("error occurred on http request processing - %v", err)

		if c.Response().Committed {
			return
		}

		var notFoundErr *apperrors.EntryNotFoundErr
		var pldErr *validation.PayloadError
		var httpErr *echo.HTTPError

		var resErr error
		switch {
		case errors.As(err, &notFoundErr):
			resErr = c.JSON(http.StatusNotFound, notFoundErr)
		case errors.As(err, &pldErr):
			resErr = c.JSON(http.StatusBadRequest, pldErr)
		case errors.As(err, &httpErr):
			e.DefaultHTTPErrorHandler(httpErr, c)
		default:
			resErr = c.JSON(http.StatusInternalServerError, echo.Map{"message": err.Error()})
		}

		if resErr != nil {
			logger.Errorf("failed to send error response - %v", resErr)
		}
	}
}
