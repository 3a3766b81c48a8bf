// internal/app/bootstrap/routes.go
package bootstrap

import (
	"context"
	"net/http"

	authgooglefeature "github.com/dalemusser/sdgbridge/internal/app/features/authgoogle"
	dashboardfeature "github.com/dalemusser/sdgbridge/internal/app/features/dashboard"
	errorsfeature "github.com/dalemusser/sdgbridge/internal/app/features/errors"
	healthfeature "github.com/dalemusser/sdgbridge/internal/app/features/health"
	homefeature "github.com/dalemusser/sdgbridge/internal/app/features/home"
	loginfeature "github.com/dalemusser/sdgbridge/internal/app/features/login"
	logoutfeature "github.com/dalemusser/sdgbridge/internal/app/features/logout"
	onboardingfeature "github.com/dalemusser/sdgbridge/internal/app/features/onboarding"
	projectsfeature "github.com/dalemusser/sdgbridge/internal/app/features/projects"
	requestsfeature "github.com/dalemusser/sdgbridge/internal/app/features/requests"
	"github.com/dalemusser/sdgbridge/internal/app/store/oauthstate"
	projectstore "github.com/dalemusser/sdgbridge/internal/app/store/projects"
	"github.com/dalemusser/sdgbridge/internal/app/store/queries/requestviews"
	requeststore "github.com/dalemusser/sdgbridge/internal/app/store/requests"
	userstore "github.com/dalemusser/sdgbridge/internal/app/store/users"
	"github.com/dalemusser/sdgbridge/internal/app/system/auth"
	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/fileserver"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/csrf"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. It creates the session manager, boots
// the template engine, builds the stores, and mounts every feature router.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, appCfg.SessionTTL, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	// Fresh user data on every request so role changes and disabled
	// accounts take effect immediately.
	sessionMgr.SetUserFetcher(userstore.NewFetcher(deps.MongoDatabase))

	// Initialize and boot the template engine once at startup.
	// Dev mode enables template reloading for faster iteration.
	eng := templates.New(coreCfg.Env == "dev")
	if err := eng.Boot(logger); err != nil {
		logger.Error("template engine boot failed", zap.Error(err))
		return nil, err
	}
	templates.UseEngine(eng, logger)

	errLog := errorsfeature.NewErrorLogger(logger)

	// Stores shared by the feature handlers.
	users := userstore.New(deps.MongoDatabase)
	projects := projectstore.New(deps.MongoDatabase)
	requests := requeststore.New(deps.MongoDatabase)
	states := oauthstate.New(deps.MongoDatabase)
	views := func(ctx context.Context, userID primitive.ObjectID) (requestviews.Inbox, error) {
		return requestviews.ForUser(ctx, deps.MongoDatabase, userID)
	}

	r := chi.NewRouter()

	// Global auth middleware: loads SessionUser into context if logged in.
	r.Use(sessionMgr.LoadSessionUser)
	r.Use(csrf.Protect([]byte(appCfg.CSRFKey), csrf.Secure(secure), csrf.Path("/")))

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Static assets with pre-compressed file support (gzip/brotli)
	r.Handle("/static/*", fileserver.Handler("/static", "public"))

	// Public pages. The landing page is registered directly so the router's
	// NotFound handler still applies to unmatched paths.
	homeHandler := homefeature.NewHandler(deps.MongoDatabase, projects, logger)
	r.Get("/", homeHandler.ServeRoot)

	// Authentication
	googleEnabled := appCfg.GoogleClientID != "" && appCfg.GoogleClientSecret != ""
	loginHandler := loginfeature.NewHandler(deps.MongoDatabase, sessionMgr, errLog, users, googleEnabled, logger)
	r.Mount("/login", loginfeature.Routes(loginHandler))
	r.Mount("/signup", loginfeature.SignupRoutes(loginHandler))

	if googleEnabled {
		googleHandler := authgooglefeature.NewHandler(
			deps.MongoDatabase, sessionMgr, errLog, states, users,
			appCfg.GoogleClientID, appCfg.GoogleClientSecret, appCfg.BaseURL, logger)
		r.Mount("/auth/google", authgooglefeature.Routes(googleHandler))
	}

	logoutHandler := logoutfeature.NewHandler(sessionMgr, logger)
	r.Mount("/logout", logoutfeature.Routes(logoutHandler, sessionMgr))

	// Error pages
	errorsHandler := errorsfeature.NewHandler()
	r.Get("/forbidden", errorsHandler.Forbidden)
	r.Get("/unauthorized", errorsHandler.Unauthorized)
	r.NotFound(errorsHandler.NotFound)

	// Role onboarding
	onboardingHandler := onboardingfeature.NewHandler(users, errLog, logger)
	r.Mount("/role-selection", onboardingfeature.Routes(onboardingHandler, sessionMgr))

	// Projects and collaboration
	projectsHandler := projectsfeature.NewHandler(deps.MongoDatabase, projects, requests, users, errLog, logger)
	r.Mount("/projects", projectsfeature.Routes(projectsHandler, sessionMgr))

	requestsHandler := requestsfeature.NewHandler(requests, views, errLog, logger)
	r.Mount("/requests", requestsfeature.Routes(requestsHandler, sessionMgr))

	dashboardHandler := dashboardfeature.NewHandler(projects, requests, views, errLog, logger)
	r.Mount("/dashboard", dashboardfeature.Routes(dashboardHandler, sessionMgr))

	return r, nil
}
