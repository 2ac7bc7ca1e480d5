package web

import (
	"bytes"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"html/template"
	"log/slog"
	"net/http"
	"path/filepath"

	"github.com/gorilla/csrf"
	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"

	"emerald/internal/adapters/http/middleware"
	"emerald/internal/application/projections"
	"emerald/internal/domain/chat"
	contactDomain "emerald/internal/domain/contact"
	eventDomain "emerald/internal/domain/event"
)

// mdRenderer is a goldmark instance configured for safe HTML output.
// Raw HTML in markdown input is escaped.
var mdRenderer = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

// internalError logs the real error and returns a generic message to the client.
func internalError(w http.ResponseWriter, err error) {
	slog.Error("internal_error", "error", err.Error())
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

// strictDecode decodes JSON from the request body, rejecting unknown fields.
func strictDecode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// writeJSON encodes v as the JSON response body.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

const templatesDir = "internal/adapters/http/templates"

// TemplatesDir is overridable so tests can run from a different working directory.
var TemplatesDir = templatesDir

func renderTemplate(w http.ResponseWriter, r *http.Request, templateName string, data any) {
	sess, ok := middleware.GetSessionFromContext(r.Context())
	role := ""
	email := ""
	if ok {
		role = sess.Role
		email = sess.Email
	}

	funcMap := template.FuncMap{
		"currentRole":  func() string { return role },
		"currentEmail": func() string { return email },
		"isLoggedIn":   func() bool { return role != "" },
		"isAdmin":      func() bool { return middleware.IsAdmin(r.Context()) },
		"csrfToken":    func() string { return csrf.Token(r) },
		"add":          func(a, b int) int { return a + b },
		"sub":          func(a, b int) int { return a - b },
		"renderMarkdown": func(md string) template.HTML {
			var buf bytes.Buffer
			if err := mdRenderer.Convert([]byte(md), &buf); err != nil {
				return template.HTML(template.HTMLEscapeString(md))
			}
			return template.HTML(buf.String())
		},
		"telURI": func(c contactDomain.Contact) string { return c.TelURI() },
	}

	layoutPath := filepath.Join(TemplatesDir, "layout.html")
	pagePath := filepath.Join(TemplatesDir, templateName)
	tpl, err := template.New("layout.html").Funcs(funcMap).ParseFiles(layoutPath, pagePath)
	if err != nil {
		http.Error(w, "Template error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tpl.Execute(w, data); err != nil {
		http.Error(w, "Render error: "+err.Error(), http.StatusInternalServerError)
		return
	}
}

// viewerID returns the acting account's ID, empty for anonymous visitors.
func viewerID(r *http.Request) string {
	if sess, ok := middleware.GetSessionFromContext(r.Context()); ok {
		return sess.AccountID
	}
	return ""
}

// handleHome renders the landing page with community stats.
func handleHome(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	result, err := projections.QueryGetHome(r.Context(), projections.GetHomeDeps{
		EventStore: stores.EventStore,
		MediaStore: stores.MediaStore,
	})
	if err != nil {
		internalError(w, err)
		return
	}

	renderTemplate(w, r, "home.html", map[string]any{
		"Active":       "home",
		"EventCount":   result.EventCount,
		"MediaCount":   result.MediaCount,
		"RecentEvents": result.RecentEvents,
	})
}

// handleGallery renders the drill-down gallery. Anonymous viewers never
// see hidden media; that filter happens in the projection's store query.
func handleGallery(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	result, err := projections.QueryGetGallery(r.Context(), projections.GetGalleryQuery{
		Viewer: viewerID(r),
	}, projections.GetGalleryDeps{
		EventStore: stores.EventStore,
		MediaStore: stores.MediaStore,
		LikeStore:  stores.LikeStore,
	})
	if err != nil {
		internalError(w, err)
		return
	}

	renderTemplate(w, r, "gallery.html", map[string]any{
		"Active":     "gallery",
		"Years":      result.Years,
		"Types":      result.Types,
		"LikedIDs":   result.LikedIDs,
		"EventTypes": eventDomain.ValidTypes,
	})
}

const chatCookieName = "emerald_chat"

// visitorTranscript returns the caller's own conversation. Logged-in
// visitors are keyed by account; anonymous visitors get a chat cookie
// minted on first use.
func visitorTranscript(w http.ResponseWriter, r *http.Request) *chat.Transcript {
	if session, ok := middleware.GetSessionFromContext(r.Context()); ok {
		return chatTranscripts.Get("account:" + session.AccountID)
	}
	if cookie, err := r.Cookie(chatCookieName); err == nil && cookie.Value != "" {
		return chatTranscripts.Get("visitor:" + cookie.Value)
	}

	token := newChatToken()
	http.SetCookie(w, &http.Cookie{
		Name:     chatCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   middleware.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	return chatTranscripts.Get("visitor:" + token)
}

func newChatToken() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}
	return hex.EncodeToString(b)
}

// handleChat renders the chat page. When the vendor widget is configured
// the page injects its bundle instead of the in-page exchange.
func handleChat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	renderTemplate(w, r, "chat.html", map[string]any{
		"Active":    "chat",
		"Messages":  visitorTranscript(w, r).Messages(),
		"UseWidget": chatWidget.Valid(),
		"Widget":    chatWidget,
	})
}

// handleContacts renders the emergency directory with tel: links.
func handleContacts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	result, err := projections.QueryGetContacts(r.Context(), projections.GetContactsDeps{
		ContactStore: stores.ContactStore,
	})
	if err != nil {
		internalError(w, err)
		return
	}

	renderTemplate(w, r, "contacts.html", map[string]any{
		"Active":     "contacts",
		"Management": result.Management,
		"Services":   result.Services,
	})
}
