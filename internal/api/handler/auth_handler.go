package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sehatsathi/inventory-api/internal/api/metrics"
	"github.com/sehatsathi/inventory-api/internal/core/domain"
	"github.com/sehatsathi/inventory-api/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register creates a new account. Only admins are approved immediately.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "User registration details"
// @Success      201   {object}  registerResponse
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /api/auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := bindAndValidate(c, &req, domain.ErrInvalidIdentity); err != nil {
		return err
	}

	identity, err := h.authService.Register(c.Request().Context(), toRegisterInput(req))
	if err != nil {
		return err
	}
	metrics.RegistrationsTotal.WithLabelValues(string(identity.Role), "register").Inc()

	return c.JSON(http.StatusCreated, registerResponse{
		Message:          "User registered successfully",
		RequiresApproval: !identity.IsApproved,
	})
}

// Login authenticates an approved account and returns a bearer token.
//
// @Summary      Login (approved accounts only)
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  loginResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	return h.login(c, ports.LoginStrict)
}

// LoginPermissive authenticates any account and reports its approval state.
//
// @Summary      Login (any approval state)
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  loginResponse
// @Failure      401   {object}  errorResponse
// @Router       /login [post]
func (h *AuthHandler) LoginPermissive(c echo.Context) error {
	return h.login(c, ports.LoginPermissive)
}

func (h *AuthHandler) login(c echo.Context, mode ports.LoginMode) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	session, err := h.authService.Login(c.Request().Context(), req.Username, req.Password, mode)
	metrics.LoginsTotal.WithLabelValues(mode.String(), loginResult(err)).Inc()
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toLoginResponse(session, mode))
}

func loginResult(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrInvalidCredentials):
		return "invalid_credentials"
	case errors.Is(err, domain.ErrNotApproved):
		return "not_approved"
	default:
		return "error"
	}
}

// Signup registers a pharmacy from its display name. The account stays
// pending until a government or admin user approves it.
//
// @Summary      Pharmacy self-signup
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      signupRequest  true  "Pharmacy details"
// @Success      200   {object}  signupResponse
// @Failure      409   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /pharmacy/signup [post]
func (h *AuthHandler) Signup(c echo.Context) error {
	var req signupRequest
	if err := bindAndValidate(c, &req, domain.ErrInvalidIdentity); err != nil {
		return err
	}

	result, err := h.authService.SignupPharmacy(c.Request().Context(), toSignupInput(req))
	if err != nil {
		return err
	}
	metrics.RegistrationsTotal.WithLabelValues(string(domain.RolePharmacy), "signup").Inc()

	return c.JSON(http.StatusOK, signupResponse{
		Message: "Pharmacy registration submitted successfully. Awaiting government approval.",
		Credentials: signupCredentials{
			Username:     result.Identity.Username,
			Password:     result.GeneratedPassword,
			PharmacyName: result.Identity.PharmacyName,
		},
	})
}
