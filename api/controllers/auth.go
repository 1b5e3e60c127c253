package controllers

import (
	"net/http"
	"time"

	"github.com/mkrishnan-dev/orderhub-backend/api/middleware"
	"github.com/mkrishnan-dev/orderhub-backend/api/responses"
	"github.com/mkrishnan-dev/orderhub-backend/api/validators"
	"github.com/mkrishnan-dev/orderhub-backend/internal/auth"
	"github.com/mkrishnan-dev/orderhub-backend/pkg/config"
	pkgerrors "github.com/mkrishnan-dev/orderhub-backend/pkg/errors"
	"github.com/mkrishnan-dev/orderhub-backend/pkg/logger"
)

const tokenHeader = "X-OH-Token"

// AuthLogin wires the login endpoint into the HTTP layer. The access token is
// returned in the body, the portal token header, and an HttpOnly cookie.
func AuthLogin(svc auth.Service, sessionCfg config.SessionConfig, jwtCfg config.JWTConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body auth.LoginRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Login(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		w.Header().Set(tokenHeader, result.AccessToken)
		setSessionCookie(w, sessionCfg, jwtCfg, result.AccessToken)
		responses.WriteSuccess(w, result)
	}
}

// AuthRefresh rotates the refresh session and reissues the token pair.
func AuthRefresh(svc auth.Service, sessionCfg config.SessionConfig, jwtCfg config.JWTConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body auth.RefreshRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Refresh(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		w.Header().Set(tokenHeader, result.AccessToken)
		setSessionCookie(w, sessionCfg, jwtCfg, result.AccessToken)
		responses.WriteSuccess(w, result)
	}
}

// AuthLogout revokes the caller's refresh session and expires the cookie.
func AuthLogout(svc auth.Service, sessionCfg config.SessionConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Logout(r.Context(), middleware.AccessIDFromContext(r.Context())); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		clearSessionCookie(w, sessionCfg)
		responses.WriteSuccess(w, map[string]string{"status": "logged_out"})
	}
}

func setSessionCookie(w http.ResponseWriter, sessionCfg config.SessionConfig, jwtCfg config.JWTConfig, token string) {
	if sessionCfg.CookieName == "" {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCfg.CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int((time.Duration(jwtCfg.ExpirationMinutes) * time.Minute).Seconds()),
		HttpOnly: true,
		Secure:   sessionCfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearSessionCookie(w http.ResponseWriter, sessionCfg config.SessionConfig) {
	if sessionCfg.CookieName == "" {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCfg.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   sessionCfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}
