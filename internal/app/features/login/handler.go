// internal/app/features/login/handler.go
package login

import (
	"context"
	"errors"
	"net/http"
	"strings"

	uierrors "github.com/dalemusser/sdgbridge/internal/app/features/errors"
	userstore "github.com/dalemusser/sdgbridge/internal/app/store/users"
	"github.com/dalemusser/sdgbridge/internal/app/system/auth"
	"github.com/dalemusser/sdgbridge/internal/app/system/inputval"
	"github.com/dalemusser/sdgbridge/internal/app/system/normalize"
	"github.com/dalemusser/sdgbridge/internal/app/system/timeouts"
	"github.com/dalemusser/sdgbridge/internal/app/system/viewdata"
	"github.com/dalemusser/sdgbridge/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/dalemusser/waffle/pantry/urlutil"
	"github.com/gorilla/securecookie"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type Handler struct {
	DB            *mongo.Database
	Log           *zap.Logger
	SessionMgr    *auth.SessionManager
	ErrLog        *uierrors.ErrorLogger
	Users         *userstore.Store
	GoogleEnabled bool // True if Google OAuth is configured
}

type loginFormData struct {
	viewdata.BaseVM
	Error         string
	Email         string
	ReturnURL     string
	GoogleEnabled bool
}

type signupFormData struct {
	viewdata.BaseVM
	Error         string
	FullName      string
	Email         string
	GoogleEnabled bool
}

// signupInput drives field validation for the signup form.
type signupInput struct {
	FullName string `validate:"required,max=120" label:"Full name"`
	Email    string `validate:"required,email,max=254" label:"Email"`
	Password string `validate:"required,max=128" label:"Password"`
}

func NewHandler(
	db *mongo.Database,
	sessionMgr *auth.SessionManager,
	errLog *uierrors.ErrorLogger,
	users *userstore.Store,
	googleEnabled bool,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		DB:            db,
		Log:           logger,
		SessionMgr:    sessionMgr,
		ErrLog:        errLog,
		Users:         users,
		GoogleEnabled: googleEnabled,
	}
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /login                                                                  |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeLogin(w http.ResponseWriter, r *http.Request) {
	ret := query.Get(r, "return")

	templates.Render(w, r, "login", loginFormData{
		BaseVM:        viewdata.NewBaseVM(r, "Sign in", "/"),
		ReturnURL:     ret,
		GoogleEnabled: h.GoogleEnabled,
	})
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /login                                                                 |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleLoginPost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", "/login")
		return
	}

	email := normalize.Email(r.FormValue("email"))
	password := r.FormValue("password")
	if email == "" || password == "" {
		h.renderLoginError(w, r, "Please enter your email and password.", email)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := h.Users.GetByEmailCI(ctx, email)
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		h.renderLoginError(w, r, "No account found for that email.", email)
		return
	case err != nil:
		h.ErrLog.LogServerError(w, r, "DB find user", err, "A server error occurred.", "/login")
		return
	}

	if normalize.Status(u.Status) == "disabled" {
		h.renderLoginError(w, r, "Your account is currently disabled.", email)
		return
	}

	if normalize.AuthMethod(u.AuthMethod) == "google" {
		h.renderLoginError(w, r, "This account uses Google sign-in. Use the Google button below.", email)
		return
	}

	if bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(password)) != nil {
		h.renderLoginError(w, r, "Incorrect email or password.", email)
		return
	}

	h.createSessionAndRedirect(w, r, &u, strings.TrimSpace(r.FormValue("return")))
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /signup                                                                 |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeSignup(w http.ResponseWriter, r *http.Request) {
	templates.Render(w, r, "signup", signupFormData{
		BaseVM:        viewdata.NewBaseVM(r, "Create account", "/login"),
		GoogleEnabled: h.GoogleEnabled,
	})
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /signup                                                                 |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleSignupPost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", "/signup")
		return
	}

	in := signupInput{
		FullName: normalize.Name(r.FormValue("full_name")),
		Email:    normalize.Email(r.FormValue("email")),
		Password: r.FormValue("password"),
	}
	if res := inputval.Validate(in); res.HasErrors() {
		h.renderSignupError(w, r, res.First(), in)
		return
	}
	if len(in.Password) < 8 {
		h.renderSignupError(w, r, "Password must be at least 8 characters.", in)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "hash password", err, "A server error occurred.", "/signup")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := h.Users.Create(ctx, models.User{
		FullName:     in.FullName,
		Email:        in.Email,
		PasswordHash: hash,
		AuthMethod:   "internal",
	})
	switch {
	case errors.Is(err, userstore.ErrDuplicateEmail):
		h.renderSignupError(w, r, "An account with this email already exists. Try signing in.", in)
		return
	case err != nil:
		h.ErrLog.LogServerError(w, r, "create user", err, "A server error occurred.", "/signup")
		return
	}

	h.Log.Info("user signed up",
		zap.String("user_id", u.ID.Hex()),
		zap.String("email", u.Email))

	// Fresh accounts have no role yet; send them to onboarding.
	h.createSessionAndRedirect(w, r, &u, "/role-selection")
}

/*─────────────────────────────────────────────────────────────────────────────*
| helpers                                                                     |
*─────────────────────────────────────────────────────────────────────────────*/

// createSessionAndRedirect creates an authenticated session and redirects to
// the destination.
func (h *Handler) createSessionAndRedirect(w http.ResponseWriter, r *http.Request, u *models.User, returnURL string) {
	sess, err := h.SessionMgr.GetSession(r)
	if err != nil {
		if scErr, ok := err.(securecookie.Error); ok && scErr.IsDecode() {
			h.Log.Warn("session cookie invalid, using fresh session",
				zap.Error(err),
				zap.String("user_id", u.ID.Hex()))
		} else {
			h.Log.Error("session store error during login, using fresh session",
				zap.Error(err),
				zap.String("user_id", u.ID.Hex()))
		}
	}

	sess.Values["is_authenticated"] = true
	sess.Values["user_id"] = u.ID.Hex()

	if err := sess.Save(r, w); err != nil {
		h.Log.Error("save session failed", zap.Error(err), zap.String("email", u.Email))
		h.renderLoginError(w, r, "Unable to create session. Please try again.", u.Email)
		return
	}

	dest := urlutil.SafeReturn(returnURL, "", "/dashboard")
	if !u.HasRole() {
		dest = "/role-selection"
	}
	http.Redirect(w, r, dest, http.StatusSeeOther)
}

func (h *Handler) renderLoginError(w http.ResponseWriter, r *http.Request, msg, email string) {
	templates.Render(w, r, "login", loginFormData{
		BaseVM:        viewdata.NewBaseVM(r, "Sign in", "/"),
		Error:         msg,
		Email:         email,
		GoogleEnabled: h.GoogleEnabled,
	})
}

func (h *Handler) renderSignupError(w http.ResponseWriter, r *http.Request, msg string, in signupInput) {
	templates.Render(w, r, "signup", signupFormData{
		BaseVM:        viewdata.NewBaseVM(r, "Create account", "/login"),
		Error:         msg,
		FullName:      in.FullName,
		Email:         in.Email,
		GoogleEnabled: h.GoogleEnabled,
	})
}
