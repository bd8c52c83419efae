package handlers

import (
	"errors"
	"fmt"
	"math"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/umalmyha/customer-records/internal/model"
	"github.com/umalmyha/customer-records/internal/service"
)

const (
	defaultPageLimit = 10
	defaultPage      = 1
)

type message struct {
	Message string `json:"message"`
}

type customerSearch struct {
	City  *string `query:"city"`
	Limit int     `query:"_limit" validate:"min=1,max=1000"`
	Page  int     `query:"_page" validate:"min=1"`
}

type customerList struct {
	Customers []*model.CustomerView `json:"customers"`
	Count     int                   `json:"count"`
}

type newCustomer struct {
	FirstName *string `json:"firstname"`
	LastName  *string `json:"lastname"`
	Gender    *string `json:"gender"`
	Email     *string `json:"email"`
	Phone     *string `json:"phone"`
	Address   *string `json:"address"`
	City      *string `json:"city"`
	State     *string `json:"state"`
	Country   *string `json:"country"`
	Avatar    *string `json:"avatar"`
}

// CustomerHTTPHandler is http handler for customer endpoint
type CustomerHTTPHandler struct {
	customerSvc service.CustomerService
	binder      echo.DefaultBinder
}

// NewCustomerHTTPHandler builds new CustomerHTTPHandler
func NewCustomerHTTPHandler(customerSvc service.CustomerService) *CustomerHTTPHandler {
	return &CustomerHTTPHandler{customerSvc: customerSvc}
}

// GetAll lists customers or looks up single one by email/phone
// @Summary     List customers
// @Description Returns page of customers with total count. If email or phone is provided, returns single matching customer or null instead
// @Tags        customers
// @Produce     json
// @Param       email  query    string false "Exact email, takes precedence over any other parameter"
// @Param       phone  query    string false "Exact phone, takes precedence over pagination and city"
// @Param       city   query    string false "Exact city"
// @Param       _limit query    int    false "Page size" default(10) minimum(1) maximum(1000)
// @Param       _page  query    int    false "Page number starting from 1" default(1) minimum(1)
// @Success     200    {object} customerList
// @Failure     400    {object} echo.HTTPError
// @Failure     500    {object} echo.HTTPError
// @Router      /api/customers [get]
func (h *CustomerHTTPHandler) GetAll(c echo.Context) error {
	ctx := c.Request().Context()
	params := c.QueryParams()

	if _, ok := params["email"]; ok {
		customer, err := h.customerSvc.FindByEmail(ctx, params.Get("email"))
		if err != nil {
			return err
		}
		return h.single(c, customer)
	}

	if _, ok := params["phone"]; ok {
		customer, err := h.customerSvc.FindByPhone(ctx, params.Get("phone"))
		if err != nil {
			return err
		}
		return h.single(c, customer)
	}

	search := customerSearch{Limit: defaultPageLimit, Page: defaultPage}
	err := echo.QueryParamsBinder(c).
		FailFast(true).
		Int("_limit", &search.Limit).
		Int("_page", &search.Page).
		BindError()
	if err != nil {
		var bErr *echo.BindingError
		if errors.As(err, &bErr) {
			return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("query parameter %s must be an integer", bErr.Field))
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if _, ok := params["city"]; ok {
		city := params.Get("city")
		search.City = &city
	}

	if err := c.Validate(&search); err != nil {
		return err
	}

	// offset must fit into int
	if search.Page-1 > math.MaxInt/search.Limit {
		return echo.NewHTTPError(http.StatusBadRequest, "query parameter _page is out of range")
	}

	page, err := h.customerSvc.Search(ctx, model.CustomerFilter{City: search.City}, search.Limit, search.Page)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, &customerList{
		Customers: model.Views(page.Customers),
		Count:     page.Count,
	})
}

// Get gets customer
// @Summary     Get single customer by id
// @Description Returns single customer with provided id
// @Tags        customers
// @Produce     json
// @Param       id  path     string true "Customer id"
// @Success     200 {object} model.CustomerView
// @Failure     404 {object} message
// @Failure     500 {object} echo.HTTPError
// @Router      /api/customers/{id} [get]
func (h *CustomerHTTPHandler) Get(c echo.Context) error {
	customer, err := h.customerSvc.FindByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, customer.View())
}

// Post creates new customer
// @Summary     New customer
// @Description Creates new customer, id is always generated by the server
// @Tags        customers
// @Accept      json
// @Produce     json
// @Param       newCustomer body     newCustomer true "Data for new customer"
// @Success     201         {object} model.CustomerView
// @Failure     500         {object} echo.HTTPError
// @Router      /api/customers [post]
func (h *CustomerHTTPHandler) Post(c echo.Context) error {
	if c.Request().ContentLength == 0 {
		return echo.NewHTTPError(http.StatusInternalServerError, "request body must be a JSON object")
	}

	var nc newCustomer
	if err := h.binder.BindBody(c, &nc); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	customer, err := h.customerSvc.Create(c.Request().Context(), &model.Customer{
		FirstName: nc.FirstName,
		LastName:  nc.LastName,
		Gender:    nc.Gender,
		Email:     nc.Email,
		Phone:     nc.Phone,
		Address:   nc.Address,
		City:      nc.City,
		State:     nc.State,
		Country:   nc.Country,
		Avatar:    nc.Avatar,
	})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusCreated, customer.View())
}

// Patch updates provided customer fields
// @Summary     Update customer
// @Description Updates only fields present in payload, null clears the field
// @Tags        customers
// @Accept      json
// @Produce     json
// @Param       id    path     string              true "Customer id"
// @Param       patch body     newCustomer         true "Fields to update"
// @Success     200   {object} model.CustomerView
// @Failure     400   {object} echo.HTTPError
// @Failure     404   {object} message
// @Failure     500   {object} echo.HTTPError
// @Router      /api/customers/{id} [patch]
func (h *CustomerHTTPHandler) Patch(c echo.Context) error {
	var patch model.CustomerPatch
	if err := h.binder.BindBody(c, &patch); err != nil {
		return err
	}

	customer, err := h.customerSvc.Patch(c.Request().Context(), c.Param("id"), patch)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, customer.View())
}

// DeleteByID deletes customer
// @Summary     Delete customer by id
// @Description Deletes customer with provided id
// @Tags        customers
// @Produce     json
// @Param       id  path     string true "Customer id"
// @Success     200 {object} message
// @Failure     404 {object} message
// @Failure     500 {object} echo.HTTPError
// @Router      /api/customers/{id} [delete]
func (h *CustomerHTTPHandler) DeleteByID(c echo.Context) error {
	id := c.Param("id")
	if err := h.customerSvc.DeleteByID(c.Request().Context(), id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, &message{Message: fmt.Sprintf("Customer with id %s deleted successfully", id)})
}

func (h *CustomerHTTPHandler) single(c echo.Context, customer *model.Customer) error {
	if customer == nil {
		return c.JSON(http.StatusOK, nil)
	}
	return c.JSON(http.StatusOK, customer.View())
}
