package rest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/KretovDmitry/order-workflow/internal/application/errs"
	"github.com/KretovDmitry/order-workflow/internal/application/interfaces"
	"github.com/KretovDmitry/order-workflow/internal/domain/entities"
	"github.com/KretovDmitry/order-workflow/internal/domain/entities/staff"
	"github.com/KretovDmitry/order-workflow/internal/interface/api/rest/header"
	"github.com/KretovDmitry/order-workflow/internal/interface/api/rest/request"
	"github.com/KretovDmitry/order-workflow/internal/interface/api/rest/response"
	"github.com/KretovDmitry/order-workflow/pkg/logger"
	"github.com/go-chi/chi/v5"
)

type AuthController struct {
	service         interfaces.AuthService
	logger          logger.Logger
	tokenExpiration time.Duration
}

// NewAuthController registers http.Handlers with additional options.
// Registration is mounted behind authenticate: only signed in staff
// may add colleagues to their own department.
func NewAuthController(
	service interfaces.AuthService,
	tokenExpiration time.Duration,
	authenticate MiddlewareFunc,
	logger logger.Logger,
	options ChiServerOptions,
) {
	r := options.BaseRouter

	if r == nil {
		r = chi.NewRouter()
	}

	c := AuthController{
		service:         service,
		tokenExpiration: tokenExpiration,
		logger:          logger,
	}

	r.Group(func(r chi.Router) {
		for _, middleware := range options.Middlewares {
			r.Use(middleware)
		}
		r.Post(options.BaseURL+"/login", c.Login)

		r.Group(func(r chi.Router) {
			if authenticate != nil {
				r.Use(authenticate)
			}
			r.Post(options.BaseURL+"/register", c.Register)
		})
	})
}

const MaxPasswordLength = 72

// Register staff member of the caller's department
// (POST /api/staff/register HTTP/1.1).
func (c *AuthController) Register(w http.ResponseWriter, r *http.Request) {
	registrar, found := staff.FromContext(r.Context())
	if !found {
		c.ErrorHandlerFunc(w, r, fmt.Errorf("%w: no staff in context", errs.ErrInvalidCredentials))
		return
	}

	// Check content type.
	if !header.IsApplicationJSONContentType(r) {
		c.ErrorHandlerFunc(w, r, fmt.Errorf("%w: invalid content type", errs.ErrInvalidRequest))
		return
	}

	// Read, decode payload and close request body.
	var p request.Register

	defer r.Body.Close()

	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		c.ErrorHandlerFunc(w, r, checkJSONDecodeError(err))
		return
	}

	// Check payload.
	if p.Login == "" {
		c.ErrorHandlerFunc(w, r, fmt.Errorf("%w: login required", errs.ErrInvalidRequest))
		return
	}
	if p.Password == "" {
		c.ErrorHandlerFunc(w, r, fmt.Errorf("%w: password required", errs.ErrInvalidRequest))
		return
	}

	// Password must not exceed 72 characters in length [bcrypt.ErrPasswordTooLong]
	if len(p.Password) > MaxPasswordLength {
		c.ErrorHandlerFunc(w, r, fmt.Errorf(
			"%w: password must not exceed 72 characters in length",
			errs.ErrInvalidRequest))
		return
	}

	// Staff belong to a real department, tab aliases are not accepted here.
	dept, err := entities.ParseDepartment(p.Department)
	if err != nil {
		c.ErrorHandlerFunc(w, r, err)
		return
	}
	if dept != registrar.Department {
		c.ErrorHandlerFunc(w, r, fmt.Errorf("%w: %s staff cannot register %s staff",
			errs.ErrForbidden, registrar.Department, dept))
		return
	}

	// Register staff member.
	member, err := c.service.Register(r.Context(), p.Login, p.Password, dept)
	if err != nil {
		c.ErrorHandlerFunc(w, r, fmt.Errorf("register staff: %w", err))
		return
	}

	c.logger.With(r.Context(), "registrar", registrar.Login).
		Infof("registered %s staff %q", member.Department, member.Login)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	if err = json.NewEncoder(w).Encode(response.NewStaffFromEntity(member)); err != nil {
		c.logger.With(r.Context()).Errorf("auth controller: encode response: %s", err)
	}
}

// Login staff member (POST /api/staff/login HTTP/1.1).
func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	// Check content type.
	if !header.IsApplicationJSONContentType(r) {
		c.ErrorHandlerFunc(w, r, fmt.Errorf("%w: invalid content type", errs.ErrInvalidRequest))
		return
	}

	// Read, decode payload and close request body.
	var p request.Login

	defer r.Body.Close()

	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		c.ErrorHandlerFunc(w, r, checkJSONDecodeError(err))
		return
	}

	// Check payload.
	if p.Login == "" {
		c.ErrorHandlerFunc(w, r, fmt.Errorf("%w: login required", errs.ErrInvalidRequest))
		return
	}
	if p.Password == "" {
		c.ErrorHandlerFunc(w, r, fmt.Errorf("%w: password required", errs.ErrInvalidRequest))
		return
	}

	// Login staff member.
	member, err := c.service.Login(r.Context(), p.Login, p.Password)
	if err != nil {
		c.ErrorHandlerFunc(w, r, fmt.Errorf("login: %w", err))
		return
	}

	c.setAuthCookie(w, r, member)
}

// setAuthCookie sets the "Authorization" cookie with the JWT authentication token.
func (c *AuthController) setAuthCookie(w http.ResponseWriter, r *http.Request, member *staff.Staff) {
	authToken, err := c.service.BuildAuthToken(member)
	if err != nil {
		c.ErrorHandlerFunc(w, r, fmt.Errorf("build token: %w", err))
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "Authorization",
		Value:    authToken,
		Path:     "/",
		Expires:  time.Now().Add(c.tokenExpiration),
		HttpOnly: true,
	})

	w.WriteHeader(http.StatusOK)
}

// ErrorHandlerFunc handles sending of an error in the JSON format,
// writing appropriate status code and handling the failure to marshal that.
func (c *AuthController) ErrorHandlerFunc(w http.ResponseWriter, r *http.Request, err error) {
	code := statusCode(err)

	if code == http.StatusInternalServerError {
		c.logger.With(r.Context()).Errorf("auth controller [%d]: %s", code, err)
	} else {
		c.logger.With(r.Context()).Infof("auth controller [%d]: %s", code, err)
	}

	writeError(w, code, err)
}
