package rest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"unicode/utf8"

	"github.com/KretovDmitry/order-workflow/internal/application/errs"
	"github.com/KretovDmitry/order-workflow/internal/application/interfaces"
	"github.com/KretovDmitry/order-workflow/internal/application/params"
	"github.com/KretovDmitry/order-workflow/internal/domain/entities"
	"github.com/KretovDmitry/order-workflow/internal/domain/entities/staff"
	"github.com/KretovDmitry/order-workflow/internal/interface/api/rest/header"
	"github.com/KretovDmitry/order-workflow/internal/interface/api/rest/request"
	"github.com/KretovDmitry/order-workflow/internal/interface/api/rest/response"
	"github.com/KretovDmitry/order-workflow/internal/interface/api/rest/tab"
	"github.com/KretovDmitry/order-workflow/pkg/limiter"
	"github.com/KretovDmitry/order-workflow/pkg/logger"
	"github.com/go-chi/chi/v5"
)

type OrderStatusController struct {
	service interfaces.OrderStatusService
	logger  logger.Logger
}

// NewOrderStatusController registers http.Handlers with additional options.
// Requests changing a status share the given limiter.
func NewOrderStatusController(
	service interfaces.OrderStatusService,
	limiter *limiter.DynamicRateLimiter,
	logger logger.Logger,
	options ChiServerOptions,
) {
	r := options.BaseRouter

	if r == nil {
		r = chi.NewRouter()
	}

	c := OrderStatusController{
		service: service,
		logger:  logger,
	}

	r.Group(func(r chi.Router) {
		for _, middleware := range options.Middlewares {
			r.Use(middleware)
		}
		r.Get(options.BaseURL+"/order-status/{orderID}/transitions", c.GetValidTransitions)
		r.Get(options.BaseURL+"/order-status/{orderID}/history", c.GetHistory)
		r.Get(options.BaseURL+"/departments/{tab}/orders", c.GetDepartmentOrders)

		r.Group(func(r chi.Router) {
			if limiter != nil {
				r.Use(limiter.Middleware(func(w http.ResponseWriter, r *http.Request) {
					c.ErrorHandlerFunc(w, r, fmt.Errorf("%w: try again later", errs.ErrRateLimit))
				}))
			}
			r.Put(options.BaseURL+"/order-status/{orderID}", c.ChangeStatus)
			r.Post(options.BaseURL+"/order-status/{orderID}/review", c.Review)
		})
	})
}

const MaxNotesLength = 1000

// Get statuses the tab may move the order to
// (GET /api/order-status/{orderID}/transitions?department= HTTP/1.1).
func (c *OrderStatusController) GetValidTransitions(w http.ResponseWriter, r *http.Request) {
	id, err := orderIDParam(r)
	if err != nil {
		c.ErrorHandlerFunc(w, r, err)
		return
	}

	t, err := tab.Parse(r.URL.Query().Get("department"))
	if err != nil {
		c.ErrorHandlerFunc(w, r, err)
		return
	}

	transitions, err := c.service.GetValidTransitions(r.Context(), id, t.Department())
	if err != nil {
		c.ErrorHandlerFunc(w, r, err)
		return
	}

	c.writeJSON(w, r, &response.Transitions{
		OrderID:     id,
		Department:  t.Department(),
		Tab:         t.String(),
		Transitions: transitions,
	})
}

// Change order status (PUT /api/order-status/{orderID} HTTP/1.1).
func (c *OrderStatusController) ChangeStatus(w http.ResponseWriter, r *http.Request) {
	id, err := orderIDParam(r)
	if err != nil {
		c.ErrorHandlerFunc(w, r, err)
		return
	}

	// Check content type.
	if !header.IsApplicationJSONContentType(r) {
		c.ErrorHandlerFunc(w, r, fmt.Errorf("%w: invalid content type", errs.ErrInvalidRequest))
		return
	}

	// Read, decode payload and close request body.
	var p request.ChangeStatus

	defer r.Body.Close()

	if err = json.NewDecoder(r.Body).Decode(&p); err != nil {
		c.ErrorHandlerFunc(w, r, checkJSONDecodeError(err))
		return
	}

	// Check payload.
	if p.NewStatus == "" {
		c.ErrorHandlerFunc(w, r, fmt.Errorf("%w: newStatus required", errs.ErrInvalidRequest))
		return
	}
	if p.Department == "" {
		c.ErrorHandlerFunc(w, r, fmt.Errorf("%w: department required", errs.ErrInvalidRequest))
		return
	}
	if err = checkNotes(p.Notes); err != nil {
		c.ErrorHandlerFunc(w, r, err)
		return
	}

	t, err := tab.Parse(p.Department)
	if err != nil {
		c.ErrorHandlerFunc(w, r, err)
		return
	}

	next, err := entities.ParseStatus(p.NewStatus)
	if err != nil {
		c.ErrorHandlerFunc(w, r, err)
		return
	}

	// Get staff member from context.
	actor, found := staff.FromContext(r.Context())
	if !found {
		c.ErrorHandlerFunc(w, r, fmt.Errorf("%w: no staff in context", errs.ErrInvalidCredentials))
		return
	}

	order, err := c.service.ChangeStatus(r.Context(),
		params.NewChangeStatus(id, next, t.Department(), p.Notes, actor))
	if err != nil {
		c.ErrorHandlerFunc(w, r, err)
		return
	}

	c.writeJSON(w, r, &response.ChangeStatus{
		Success:      true,
		UpdatedOrder: response.NewOrderFromEntity(order),
	})
}

// Approve or reject order payment (POST /api/order-status/{orderID}/review HTTP/1.1).
func (c *OrderStatusController) Review(w http.ResponseWriter, r *http.Request) {
	id, err := orderIDParam(r)
	if err != nil {
		c.ErrorHandlerFunc(w, r, err)
		return
	}

	// Check content type.
	if !header.IsApplicationJSONContentType(r) {
		c.ErrorHandlerFunc(w, r, fmt.Errorf("%w: invalid content type", errs.ErrInvalidRequest))
		return
	}

	// Read, decode payload and close request body.
	var p request.Review

	defer r.Body.Close()

	if err = json.NewDecoder(r.Body).Decode(&p); err != nil {
		c.ErrorHandlerFunc(w, r, checkJSONDecodeError(err))
		return
	}

	if err = checkNotes(p.Notes); err != nil {
		c.ErrorHandlerFunc(w, r, err)
		return
	}

	action, err := entities.ParseReviewAction(p.Action)
	if err != nil {
		c.ErrorHandlerFunc(w, r, err)
		return
	}

	// Get staff member from context.
	actor, found := staff.FromContext(r.Context())
	if !found {
		c.ErrorHandlerFunc(w, r, fmt.Errorf("%w: no staff in context", errs.ErrInvalidCredentials))
		return
	}

	order, err := c.service.Review(r.Context(), params.NewReview(id, action, p.Notes, actor))
	if err != nil {
		c.ErrorHandlerFunc(w, r, err)
		return
	}

	c.writeJSON(w, r, &response.ChangeStatus{
		Success:      true,
		UpdatedOrder: response.NewOrderFromEntity(order),
	})
}

// Get order status history, oldest first
// (GET /api/order-status/{orderID}/history HTTP/1.1).
func (c *OrderStatusController) GetHistory(w http.ResponseWriter, r *http.Request) {
	id, err := orderIDParam(r)
	if err != nil {
		c.ErrorHandlerFunc(w, r, err)
		return
	}

	history, err := c.service.GetHistory(r.Context(), id)
	if err != nil {
		c.ErrorHandlerFunc(w, r, err)
		return
	}

	// Convert entities to handler response representation.
	res := make([]*response.HistoryItem, len(history))
	for i, item := range history {
		res[i] = response.NewHistoryItemFromEntity(item)
	}

	c.writeJSON(w, r, res)
}

// Get orders listed on the tab (GET /api/departments/{tab}/orders HTTP/1.1).
func (c *OrderStatusController) GetDepartmentOrders(w http.ResponseWriter, r *http.Request) {
	t, err := tab.Parse(chi.URLParam(r, "tab"))
	if err != nil {
		c.ErrorHandlerFunc(w, r, err)
		return
	}

	orders, err := c.service.GetDepartmentOrders(r.Context(), t.Department())
	if err != nil {
		c.ErrorHandlerFunc(w, r, err)
		return
	}

	// Convert entities to handler response representation.
	res := make([]*response.Order, len(orders))
	for i, order := range orders {
		res[i] = response.NewOrderFromEntity(order)
	}

	c.writeJSON(w, r, res)
}

func (c *OrderStatusController) writeJSON(w http.ResponseWriter, r *http.Request, v any) {
	w.Header().Set("Content-Type", "application/json")

	// Encode and return. Status 200.
	if err := json.NewEncoder(w).Encode(v); err != nil {
		c.logger.With(r.Context()).Errorf("order status controller: encode response: %s", err)
	}
}

// ErrorHandlerFunc handles sending of an error in the JSON format,
// writing appropriate status code and handling the failure to marshal that.
func (c *OrderStatusController) ErrorHandlerFunc(w http.ResponseWriter, r *http.Request, err error) {
	code := statusCode(err)

	if code == http.StatusInternalServerError {
		c.logger.With(r.Context()).Errorf("order status controller [%d]: %s", code, err)
	} else {
		c.logger.With(r.Context()).Infof("order status controller [%d]: %s", code, err)
	}

	writeError(w, code, err)
}

func checkNotes(notes string) error {
	if utf8.RuneCountInString(notes) > MaxNotesLength {
		return fmt.Errorf("%w: notes must not exceed %d characters", errs.ErrInvalidRequest, MaxNotesLength)
	}
	return nil
}
