package rest

import (
	"encoding/json"
	"net/http"

	"github.com/KretovDmitry/order-workflow/internal/domain/workflow"
	"github.com/KretovDmitry/order-workflow/internal/interface/api/rest/response"
	"github.com/KretovDmitry/order-workflow/internal/interface/api/rest/tab"
	"github.com/KretovDmitry/order-workflow/pkg/logger"
	"github.com/go-chi/chi/v5"
)

type WorkflowController struct {
	logger logger.Logger
}

// NewWorkflowController registers http.Handlers with additional options.
func NewWorkflowController(logger logger.Logger, options ChiServerOptions) {
	r := options.BaseRouter

	if r == nil {
		r = chi.NewRouter()
	}

	c := WorkflowController{logger: logger}

	r.Group(func(r chi.Router) {
		for _, middleware := range options.Middlewares {
			r.Use(middleware)
		}
		r.Get(options.BaseURL+"/workflow", c.GetTable)
	})
}

// Get the transition table the console pre-filters its controls with,
// along with the tabs it may route through (GET /api/workflow HTTP/1.1).
func (c *WorkflowController) GetTable(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(response.NewWorkflow(workflow.Describe(), tab.Tabs())); err != nil {
		c.logger.With(r.Context()).Errorf("workflow controller: encode table: %s", err)
	}
}
