package main

import (
	"context"
	"database/sql"
	"log"
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	_ "modernc.org/sqlite"

	"emerald/internal/adapters/chatbot"
	emailPkg "emerald/internal/adapters/email"
	web "emerald/internal/adapters/http"
	"emerald/internal/adapters/http/perf"
	"emerald/internal/adapters/objectstore"
	"emerald/internal/adapters/storage"
	accountStore "emerald/internal/adapters/storage/account"
	contactStore "emerald/internal/adapters/storage/contact"
	eventStore "emerald/internal/adapters/storage/event"
	mediaStore "emerald/internal/adapters/storage/media"
	"emerald/internal/application/orchestrators"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	// .env is optional; real deployments set variables directly.
	godotenv.Load()

	setupLogging()

	// Initialize database with WAL mode, foreign keys, and busy timeout
	dbPath := envOrDefault("EMERALD_DB_PATH", "emerald.db")
	dsn := dbPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	// Connection pool settings for WAL mode
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)

	if err := db.Ping(); err != nil {
		log.Fatalf("database unreachable: %v", err)
	}

	if err := storage.InitDB(db); err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}

	log.Println("Database initialized successfully!")

	// Performance instrumentation: wrap DB with timing, create collector
	collector := perf.NewCollector(perf.DefaultRingSize)
	timedDB := storage.NewTimedDB(db, collector)

	// Create store instances (using timed DB for query instrumentation)
	acctStore := accountStore.NewSQLiteStore(timedDB)
	evtStore := eventStore.NewSQLiteStore(timedDB)
	medStore := mediaStore.NewSQLiteStore(timedDB)
	ctcStore := contactStore.NewSQLiteStore(timedDB)
	stores := &web.Stores{
		AccountStore:         acctStore,
		AuthorizedEmailStore: acctStore,
		EventStore:           evtStore,
		MediaStore:           medStore,
		LikeStore:            medStore,
		ContactStore:         ctcStore,
	}

	// Seed default admin account if no accounts exist
	adminEmail := envOrDefault("EMERALD_ADMIN_EMAIL", "admin@godrejemerald.in")
	adminPassword := envOrDefault("EMERALD_ADMIN_PASSWORD", "Emerald monsoon")
	seedDeps := orchestrators.SeedAdminDeps{AccountStore: acctStore}
	if err := orchestrators.ExecuteSeedAdmin(context.Background(), seedDeps, adminEmail, adminPassword); err != nil {
		log.Fatalf("failed to seed admin: %v", err)
	}

	// Seed the emergency contact directory
	contactDeps := orchestrators.SeedContactsDeps{ContactStore: ctcStore}
	if err := orchestrators.ExecuteSeedContacts(context.Background(), contactDeps); err != nil {
		log.Fatalf("failed to seed contacts: %v", err)
	}

	// Seed sample events and media for development only
	if os.Getenv("EMERALD_ENV") != "production" {
		synDeps := orchestrators.SeedSyntheticDeps{EventStore: evtStore, MediaStore: medStore}
		if err := orchestrators.ExecuteSeedSynthetic(context.Background(), synDeps); err != nil {
			log.Fatalf("failed to seed sample data: %v", err)
		}
		log.Println("Sample gallery data loaded (dev mode)")
	}

	// Configure email sender for signup welcome mail
	resendKey := os.Getenv("EMERALD_RESEND_API_KEY")
	emailFrom := envOrDefault("EMERALD_EMAIL_FROM", "Godrej Emerald <noreply@godrejemerald.in>")
	if resendKey != "" {
		web.SetEmailSender(emailPkg.NewResendSender(resendKey, emailFrom))
		log.Println("Email sender configured (Resend)")
	} else {
		web.SetEmailSender(emailPkg.NewNoopSender())
		if os.Getenv("EMERALD_ENV") == "production" {
			log.Println("WARNING: EMERALD_RESEND_API_KEY is not set — email delivery is DISABLED in production")
		} else {
			log.Println("Email sender configured (noop — set EMERALD_RESEND_API_KEY for real delivery)")
		}
	}

	// Configure object storage for gallery media
	if bucket := os.Getenv("EMERALD_S3_BUCKET"); bucket != "" {
		store, err := objectstore.NewS3Store(context.Background(), objectstore.S3Config{
			Endpoint:       os.Getenv("EMERALD_S3_ENDPOINT"),
			Region:         envOrDefault("EMERALD_S3_REGION", "ap-south-1"),
			AccessKey:      os.Getenv("EMERALD_S3_ACCESS_KEY"),
			SecretKey:      os.Getenv("EMERALD_S3_SECRET_KEY"),
			Bucket:         bucket,
			PublicBaseURL:  os.Getenv("EMERALD_S3_PUBLIC_URL"),
			ForcePathStyle: os.Getenv("EMERALD_S3_FORCE_PATH_STYLE") == "true",
		})
		if err != nil {
			log.Fatalf("failed to configure object storage: %v", err)
		}
		web.SetObjectStore(store)
		log.Println("Object storage configured (S3)")
	} else {
		web.SetObjectStore(objectstore.NewMemoryStore("/uploads"))
		log.Println("Object storage configured (in-memory; uploads do not survive restart)")
	}

	// Configure the chat assistant: webhook relay plus optional vendor widget
	webhookURL := os.Getenv("EMERALD_CHAT_WEBHOOK_URL")
	widget := chatbot.WidgetConfig{
		Enabled:       os.Getenv("EMERALD_CHAT_WIDGET") == "true",
		ScriptURL:     os.Getenv("EMERALD_CHAT_WIDGET_SCRIPT"),
		StylesheetURL: os.Getenv("EMERALD_CHAT_WIDGET_STYLESHEET"),
		WebhookURL:    webhookURL,
	}
	web.SetChatClient(chatbot.NewWebhookClient(webhookURL), widget)
	if webhookURL == "" {
		log.Println("WARNING: EMERALD_CHAT_WEBHOOK_URL is not set — GEMA replies with its offline message")
	}

	// Create HTTP handler with middleware (pass collector for timing + dashboard)
	mux := web.NewMux("static", stores, collector)

	addr := envOrDefault("EMERALD_ADDR", ":8080")
	log.Printf("Godrej Emerald %s starting on %s (env=%s)", version, addr, envOrDefault("EMERALD_ENV", "development"))

	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

// setupLogging routes slog through a text handler at the configured level.
func setupLogging() {
	level := slog.LevelInfo
	if os.Getenv("EMERALD_LOG_LEVEL") == "debug" {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
