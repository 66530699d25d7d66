// Package httpapi exposes the authentication engine over HTTP. Routes and
// payload shapes follow the onboarding service contract: snake_case JSON,
// FastAPI-style {"detail": ...} error bodies, bearer tokens on /users/me.
package httpapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/authgate/authgate"
)

type API struct {
	engine *authgate.Engine
	log    *slog.Logger
}

func New(engine *authgate.Engine, log *slog.Logger) *API {
	if log == nil {
		log = slog.Default()
	}
	return &API{engine: engine, log: log}
}

// Router builds the chi mux with all routes mounted.
func (a *API) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(a.clientIP)

	r.Get("/ping", a.handlePing)
	r.Post("/register", a.handleRegister)
	r.Post("/verify-otp", a.handleVerifyOTP)
	r.Post("/resend-otp", a.handleResendOTP)
	r.Post("/login", a.handleLogin)

	r.Group(func(r chi.Router) {
		r.Use(a.requireAccount)
		r.Get("/users/me", a.handleMe)
		r.Delete("/users/me", a.handleDeleteMe)
		r.Put("/users/me/password", a.handleChangePassword)
	})

	return r
}

func (a *API) handlePing(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "pong"})
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (a *API) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decodeBody(w, r, &req) {
		return
	}

	view, err := a.engine.Register(r.Context(), authgate.RegisterRequest{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		a.writeEngineError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

type otpVerifyRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

func (a *API) handleVerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req otpVerifyRequest
	if !decodeBody(w, r, &req) {
		return
	}

	view, err := a.engine.VerifyOTP(r.Context(), req.Email, req.OTP)
	if err != nil {
		a.writeEngineError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

type resendOTPRequest struct {
	Email string `json:"email"`
}

func (a *API) handleResendOTP(w http.ResponseWriter, r *http.Request) {
	var req resendOTPRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if err := a.engine.ResendOTP(r.Context(), req.Email); err != nil {
		a.writeEngineError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "OTP sent"})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (a *API) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeBody(w, r, &req) {
		return
	}

	result, err := a.engine.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		a.writeEngineError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (a *API) handleMe(w http.ResponseWriter, r *http.Request) {
	account := accountFromContext(r.Context())
	writeJSON(w, http.StatusOK, account.View())
}

func (a *API) handleDeleteMe(w http.ResponseWriter, r *http.Request) {
	account := accountFromContext(r.Context())
	if err := a.engine.DeleteAccount(r.Context(), account); err != nil {
		a.writeEngineError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

func (a *API) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	var req changePasswordRequest
	if !decodeBody(w, r, &req) {
		return
	}

	account := accountFromContext(r.Context())
	view, err := a.engine.ChangePassword(r.Context(), account, req.CurrentPassword, req.NewPassword)
	if err != nil {
		a.writeEngineError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

func (a *API) writeEngineError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, authgate.ErrDuplicateEmail):
		writeError(w, http.StatusBadRequest, "Email already registered")
	case errors.Is(err, authgate.ErrAccountNotFound):
		writeError(w, http.StatusNotFound, "User not found")
	case errors.Is(err, authgate.ErrAlreadyVerified):
		writeError(w, http.StatusBadRequest, "Email already verified")
	case errors.Is(err, authgate.ErrInvalidOTP):
		writeError(w, http.StatusBadRequest, "Invalid OTP")
	case errors.Is(err, authgate.ErrOTPExpired):
		writeError(w, http.StatusBadRequest, "OTP expired")
	case errors.Is(err, authgate.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "Invalid credentials")
	case errors.Is(err, authgate.ErrEmailNotVerified):
		writeError(w, http.StatusForbidden, "Email not verified")
	case errors.Is(err, authgate.ErrWeakPassword):
		writeError(w, http.StatusBadRequest, "New password is too weak")
	case errors.Is(err, authgate.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, "Could not validate credentials")
	default:
		a.log.ErrorContext(r.Context(), "request failed",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Any("error", err),
		)
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}
