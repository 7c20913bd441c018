package rest

import (
	"net/http"
	"os"

	"github.com/gorilla/mux"

	"inducthub/internal/repository"
	"inducthub/internal/service"
	"inducthub/internal/session"
	"inducthub/internal/storage"
	"inducthub/internal/transport/rest/handler"
	"inducthub/internal/transport/rest/middleware"
	"inducthub/internal/transport/ws"
)

// Container holds all dependencies for the router
type Container struct {
	AuthService    *service.AuthService
	AssignmentRepo repository.AssignmentRepo
	InductionRepo  repository.InductionRepo
	Registry       *session.Registry
	FileStore      *storage.GridFSStore
	WSHub          *ws.Hub
}

// NewRouter creates the API router with all endpoints
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	// Initialize handlers
	authHandler := handler.NewAuthHandler(c.AuthService)
	inductionHandler := handler.NewInductionHandler(c.InductionRepo)
	assignmentHandler := handler.NewAssignmentHandler(c.AssignmentRepo, c.InductionRepo)
	sessionHandler := handler.NewSessionHandler(c.Registry)
	fileHandler := handler.NewFileHandler(c.FileStore)
	wsHandler := ws.NewHandler(c.WSHub, c.AuthService)

	// Initialize middleware
	authMW := middleware.NewAuthMiddleware(c.AuthService)

	// CORS middleware (apply first)
	r.Use(corsMiddleware)

	// API v1 routes
	v1 := r.PathPrefix("/v1").Subrouter()

	// Public routes
	v1.HandleFunc("/auth/login", authHandler.Login).Methods("POST", "OPTIONS")

	// WebSocket routes (public with token in query param)
	v1.HandleFunc("/ws/assignments/{id}/watch", wsHandler.WatchWS).Methods("GET")
	v1.HandleFunc("/ws/assignments/{id}/session", wsHandler.SessionWS).Methods("GET")

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// Manager routes (require manager auth)
	managerRoutes := v1.NewRoute().Subrouter()
	managerRoutes.Use(authMW.RequireManager)

	managerRoutes.HandleFunc("/auth/staff-token", authHandler.StaffToken).Methods("POST", "OPTIONS")
	managerRoutes.HandleFunc("/inductions", inductionHandler.Create).Methods("POST", "OPTIONS")
	managerRoutes.HandleFunc("/inductions", inductionHandler.List).Methods("GET", "OPTIONS")
	managerRoutes.HandleFunc("/assignments", assignmentHandler.Create).Methods("POST", "OPTIONS")
	managerRoutes.HandleFunc("/assignments/{id}", assignmentHandler.Delete).Methods("DELETE", "OPTIONS")
	managerRoutes.HandleFunc("/users/{userId}/assignments", assignmentHandler.ListForUser).Methods("GET", "OPTIONS")

	// Staff routes (require staff auth)
	staffRoutes := v1.NewRoute().Subrouter()
	staffRoutes.Use(authMW.RequireStaff)

	staffRoutes.HandleFunc("/assignments", assignmentHandler.ListMine).Methods("GET", "OPTIONS")
	staffRoutes.HandleFunc("/assignments/{id}", assignmentHandler.Get).Methods("GET", "OPTIONS")
	staffRoutes.HandleFunc("/inductions/{id}", inductionHandler.Get).Methods("GET", "OPTIONS")
	staffRoutes.HandleFunc("/inductions/{id}/estimate", inductionHandler.Estimate).Methods("GET", "OPTIONS")
	staffRoutes.HandleFunc("/files/{ref:.*}", fileHandler.Download).Methods("GET", "OPTIONS")

	// Session routes (staff auth; ownership enforced per session)
	staffRoutes.HandleFunc("/assignments/{id}/session", sessionHandler.Open).Methods("POST", "OPTIONS")
	staffRoutes.HandleFunc("/assignments/{id}/session", sessionHandler.Get).Methods("GET", "OPTIONS")
	staffRoutes.HandleFunc("/assignments/{id}/session", sessionHandler.Close).Methods("DELETE", "OPTIONS")
	staffRoutes.HandleFunc("/assignments/{id}/session/start", sessionHandler.Start).Methods("POST", "OPTIONS")
	staffRoutes.HandleFunc("/assignments/{id}/session/answers/{questionId}", sessionHandler.Answer).Methods("PUT", "OPTIONS")
	staffRoutes.HandleFunc("/assignments/{id}/session/next", sessionHandler.Next).Methods("POST", "OPTIONS")
	staffRoutes.HandleFunc("/assignments/{id}/session/prev", sessionHandler.Prev).Methods("POST", "OPTIONS")
	staffRoutes.HandleFunc("/assignments/{id}/session/jump", sessionHandler.Jump).Methods("POST", "OPTIONS")
	staffRoutes.HandleFunc("/assignments/{id}/session/submission", sessionHandler.Submission).Methods("POST", "OPTIONS")
	staffRoutes.HandleFunc("/assignments/{id}/session/back", sessionHandler.Back).Methods("POST", "OPTIONS")
	staffRoutes.HandleFunc("/assignments/{id}/session/save", sessionHandler.Save).Methods("POST", "OPTIONS")
	staffRoutes.HandleFunc("/assignments/{id}/session/submit", sessionHandler.Submit).Methods("POST", "OPTIONS")
	staffRoutes.HandleFunc("/assignments/{id}/session/recover", sessionHandler.Recover).Methods("POST", "OPTIONS")
	staffRoutes.HandleFunc("/assignments/{id}/session/fresh", sessionHandler.Fresh).Methods("POST", "OPTIONS")

	return r
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowedOrigins := os.Getenv("CORS_ALLOWED_ORIGINS")
		if allowedOrigins == "" {
			allowedOrigins = "*"
		}

		allowedMethods := os.Getenv("CORS_ALLOWED_METHODS")
		if allowedMethods == "" {
			allowedMethods = "GET, POST, PUT, DELETE, OPTIONS"
		}

		allowedHeaders := os.Getenv("CORS_ALLOWED_HEADERS")
		if allowedHeaders == "" {
			allowedHeaders = "Content-Type, Authorization"
		}

		w.Header().Set("Access-Control-Allow-Origin", allowedOrigins)
		w.Header().Set("Access-Control-Allow-Methods", allowedMethods)
		w.Header().Set("Access-Control-Allow-Headers", allowedHeaders)

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
