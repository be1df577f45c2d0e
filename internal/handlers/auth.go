package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"yamdb/internal/api"
	"yamdb/internal/middleware"
	"yamdb/internal/models"
	"yamdb/internal/session"
	"yamdb/internal/store"
)

// Auth groups the account and token handlers.
type Auth struct {
	users    UserRepository
	sessions SessionIssuer
}

// NewAuth creates a new Auth handler group.
func NewAuth(users UserRepository, sessions SessionIssuer) *Auth {
	return &Auth{users: users, sessions: sessions}
}

// Signup registers a new account with the user role.
func (a *Auth) Signup(w http.ResponseWriter, r *http.Request) {
	var in api.Signup
	if err := api.Decode(r.Body, &in); err != nil {
		writeError(w, r, err)
		return
	}
	if err := in.Validate(); err != nil {
		writeError(w, r, err)
		return
	}

	user, err := a.users.Create(r.Context(), in.Username, in.Email, in.Password, models.RoleUser)
	if errors.Is(err, store.ErrDuplicate) {
		field := "username"
		if store.ViolatedConstraint(err) == store.EmailConstraint {
			field = "email"
		}
		writeError(w, r, api.FieldError(field, api.UniqueMsg("user", field)))
		return
	}
	if err != nil {
		writeError(w, r, err)
		return
	}

	slog.Info("user signed up", "user_id", user.ID, "username", user.Username)
	writeJSON(w, http.StatusCreated, api.NewUser(*user))
}

// Token exchanges username and password for a bearer token.
func (a *Auth) Token(w http.ResponseWriter, r *http.Request) {
	var in api.TokenRequest
	if err := api.Decode(r.Body, &in); err != nil {
		writeError(w, r, err)
		return
	}
	if err := in.Validate(); err != nil {
		writeError(w, r, err)
		return
	}

	user, err := a.users.FindByUsername(r.Context(), in.Username)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if user == nil || !a.users.CheckPassword(user, in.Password) {
		writeDetail(w, http.StatusUnauthorized, "Invalid username or password.")
		return
	}

	token, err := a.sessions.Create(r.Context(), &session.Data{
		UserID:   user.ID,
		Username: user.Username,
		Role:     string(user.Role),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	slog.Info("token issued", "user_id", user.ID)
	writeJSON(w, http.StatusOK, api.Token{Token: token})
}

// Logout revokes the bearer token of the request.
func (a *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	if err := a.sessions.Destroy(r.Context(), session.TokenFromRequest(r)); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Me returns the requester's account.
func (a *Auth) Me(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	if sess == nil {
		writeDetail(w, http.StatusUnauthorized, "Authentication credentials were not provided.")
		return
	}

	user, err := a.users.FindByID(r.Context(), sess.UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if user == nil {
		// Account deleted while the token was still live.
		notFound(w)
		return
	}
	writeJSON(w, http.StatusOK, api.NewUser(*user))
}
