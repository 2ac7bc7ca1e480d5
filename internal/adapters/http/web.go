package web

import (
	"crypto/rand"
	"encoding/hex"
	"log"
	"net/http"
	"os"
	"time"

	"emerald/internal/adapters/chatbot"
	"emerald/internal/adapters/email"
	"emerald/internal/adapters/http/middleware"
	"emerald/internal/adapters/http/perf"
	"emerald/internal/adapters/objectstore"
	accountStore "emerald/internal/adapters/storage/account"
	contactStore "emerald/internal/adapters/storage/contact"
	eventStore "emerald/internal/adapters/storage/event"
	mediaStore "emerald/internal/adapters/storage/media"
	"emerald/internal/domain/chat"
)

// Stores holds all storage dependencies.
type Stores struct {
	AccountStore         accountStore.Store
	AuthorizedEmailStore accountStore.AuthorizedEmailStore
	EventStore           eventStore.Store
	MediaStore           mediaStore.Store
	LikeStore            mediaStore.LikeStore
	ContactStore         contactStore.Store
}

// loadCSRFKey reads the CSRF secret from EMERALD_CSRF_KEY (hex-encoded, 32 bytes).
// In production, the key MUST be set. In development, a random key is generated per startup.
func loadCSRFKey() []byte {
	if keyHex := os.Getenv("EMERALD_CSRF_KEY"); keyHex != "" {
		key, err := hex.DecodeString(keyHex)
		if err != nil || len(key) != 32 {
			log.Fatal("EMERALD_CSRF_KEY must be 64 hex characters (32 bytes)")
		}
		return key
	}
	if os.Getenv("EMERALD_ENV") == "production" {
		log.Fatal("EMERALD_CSRF_KEY is required in production")
	}
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		log.Fatalf("failed to generate CSRF key: %v", err)
	}
	log.Println("WARNING: using random CSRF key (sessions won't survive restart). Set EMERALD_CSRF_KEY for production.")
	return key
}

// Global stores instance (set by NewMux)
var stores *Stores

// Global session store instance
var sessions *middleware.SessionStore

// RateLimitPerSecond controls the per-IP rate limit. Tests can increase this.
var RateLimitPerSecond = 10

// Global perf collector (set by NewMux)
var perfCollector *perf.Collector

// Global email sender instance (set by SetEmailSender)
var emailSender email.Sender

// Global chat wiring (set by SetChatClient). Transcripts are per visitor,
// keyed by session or by the anonymous chat cookie.
var chatClient chatbot.Client
var chatWidget chatbot.WidgetConfig
var chatTranscripts = chat.NewTranscriptStore(24 * time.Hour)

// Global object store instance (set by SetObjectStore)
var objectStore objectstore.Store

// SetEmailSender sets the global email sender for the application.
func SetEmailSender(sender email.Sender) {
	emailSender = sender
}

// SetChatClient sets the webhook client and widget config for the chat page.
func SetChatClient(client chatbot.Client, widget chatbot.WidgetConfig) {
	chatClient = client
	chatWidget = widget
	chatTranscripts = chat.NewTranscriptStore(24 * time.Hour)
}

// SetObjectStore sets the media object storage backend.
func SetObjectStore(store objectstore.Store) {
	objectStore = store
}

// NewMux wires HTTP handlers for the app.
func NewMux(staticDir string, s *Stores, collector *perf.Collector) http.Handler {
	stores = s
	perfCollector = collector
	sessions = middleware.NewSessionStore()
	middleware.SecureCookies = os.Getenv("EMERALD_ENV") == "production"

	mux := http.NewServeMux()
	mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.Dir(staticDir))))
	registerRoutes(mux)

	// CSRF key: 32-byte hex-encoded secret from env var
	csrfKey := loadCSRFKey()

	// Rate limiter: configurable requests per second per IP
	limiter := middleware.NewRateLimiter(RateLimitPerSecond, time.Second)

	// Apply middleware: Timing -> RateLimit -> Auth -> CSRF -> SecurityHeaders -> Mux
	return middleware.Chain(mux,
		middleware.SecurityHeaders,
		middleware.CSRF(csrfKey),
		middleware.Auth(sessions),
		middleware.RateLimit(limiter),
		middleware.Timing(collector),
	)
}
