package web

import (
	"net/http"

	"emerald/internal/adapters/http/middleware"
	accountDomain "emerald/internal/domain/account"
)

// registerRoutes attaches all application handlers to the mux.
// Admin routes require any authenticated session; the admin panel itself
// is reached at its own address, not a gallery tab.
func registerRoutes(mux *http.ServeMux) {
	// Pages
	mux.HandleFunc("/", handleHome)
	mux.HandleFunc("/gallery", handleGallery)
	mux.HandleFunc("/chat", handleChat)
	mux.HandleFunc("/contacts", handleContacts)
	mux.HandleFunc("/uploads/", handleUploads)

	// Auth
	mux.HandleFunc("/login", handleLogin)
	mux.HandleFunc("/signup", handleSignup)
	mux.HandleFunc("/logout", handleLogout)

	// Admin panel
	mux.Handle("/admin", middleware.RequireAuth(http.HandlerFunc(handleAdmin)))
	mux.Handle("/admin/events", middleware.RequireAuth(http.HandlerFunc(handleAdminCreateEvent)))
	mux.Handle("/admin/upload", middleware.RequireAuth(http.HandlerFunc(handleAdminUpload)))

	// JSON API
	mux.HandleFunc("/api/gallery", handleAPIGallery)
	mux.HandleFunc("/api/media/like", handleAPILike)
	mux.HandleFunc("/api/chat/send", handleAPIChatSend)
	mux.HandleFunc("/api/chat/config", handleAPIChatConfig)
	mux.Handle("/api/perf", middleware.RequireRole(accountDomain.RoleAdmin)(http.HandlerFunc(handleAPIPerf)))
}
