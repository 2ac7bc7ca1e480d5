package web

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"emerald/internal/adapters/http/middleware"
	"emerald/internal/adapters/objectstore"
	"emerald/internal/application/listutil"
	"emerald/internal/application/orchestrators"
	"emerald/internal/application/projections"
	accountDomain "emerald/internal/domain/account"
	eventDomain "emerald/internal/domain/event"
)

func urlQueryEscape(s string) string { return url.QueryEscape(s) }

// uploadSummary turns a batch result into the flash message shown on the
// admin page after a redirect.
func uploadSummary(result orchestrators.UploadMediaResult) string {
	if result.Failed == 0 {
		return fmt.Sprintf("Uploaded %d file(s)", result.Uploaded)
	}
	return fmt.Sprintf("Uploaded %d file(s), %d failed", result.Uploaded, result.Failed)
}

// maxUploadBytes bounds one admin upload batch (64 MiB).
const maxUploadBytes = 64 << 20

// handleLogin renders the login form and processes submissions.
// The post-login redirect target depends on the account's role.
func handleLogin(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		renderTemplate(w, r, "login.html", map[string]any{"Active": "login"})

	case http.MethodPost:
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form submission", http.StatusBadRequest)
			return
		}

		result, err := orchestrators.ExecuteLogin(r.Context(), orchestrators.LoginInput{
			Email:    r.FormValue("email"),
			Password: r.FormValue("password"),
		}, orchestrators.LoginDeps{AccountStore: stores.AccountStore})
		if err != nil {
			renderTemplate(w, r, "login.html", map[string]any{
				"Active": "login",
				"Error":  err.Error(),
				"Email":  r.FormValue("email"),
			})
			return
		}

		token, err := sessions.Create(result.AccountID, result.Email, result.Role)
		if err != nil {
			internalError(w, err)
			return
		}
		middleware.SetSessionCookie(w, token)

		// Role picks the landing page only; it does not gate /admin.
		target := "/"
		if result.Role == accountDomain.RoleAdmin {
			target = "/admin"
		}
		http.Redirect(w, r, target, http.StatusSeeOther)

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleSignup renders the signup form and processes registrations.
// Registration requires the email to be on the authorized list.
func handleSignup(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		renderTemplate(w, r, "signup.html", map[string]any{"Active": "signup"})

	case http.MethodPost:
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form submission", http.StatusBadRequest)
			return
		}

		_, err := orchestrators.ExecuteSignup(r.Context(), orchestrators.SignupInput{
			Email:    r.FormValue("email"),
			Password: r.FormValue("password"),
		}, orchestrators.SignupDeps{
			AccountStore: signupStore{},
			EmailSender:  emailSender,
		})
		if err != nil {
			renderTemplate(w, r, "signup.html", map[string]any{
				"Active": "signup",
				"Error":  err.Error(),
				"Email":  r.FormValue("email"),
			})
			return
		}

		http.Redirect(w, r, "/login", http.StatusSeeOther)

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// signupStore bridges the split account/allow-list store interfaces into
// the single interface the signup orchestrator needs.
type signupStore struct{}

func (signupStore) GetByEmail(ctx context.Context, email string) (accountDomain.Account, error) {
	return stores.AccountStore.GetByEmail(ctx, email)
}

func (signupStore) Save(ctx context.Context, a accountDomain.Account) error {
	return stores.AccountStore.Save(ctx, a)
}

func (signupStore) GetAuthorizedEmail(ctx context.Context, email string) (accountDomain.AuthorizedEmail, error) {
	return stores.AuthorizedEmailStore.GetAuthorizedEmail(ctx, email)
}

// handleLogout clears the session.
func handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if token := middleware.SessionTokenFromRequest(r); token != "" {
		sessions.Delete(token)
	}
	middleware.ClearSessionCookie(w)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// handleAdmin renders the admin panel: paginated event list, the
// create-event form, and the media upload form.
func handleAdmin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	result, err := projections.QueryGetAdminEvents(r.Context(), projections.GetAdminEventsQuery{
		Page: listutil.ParsePageParams(r.URL.Query()),
	}, projections.GetAdminEventsDeps{
		EventStore: stores.EventStore,
		MediaStore: stores.MediaStore,
	})
	if err != nil {
		internalError(w, err)
		return
	}

	renderTemplate(w, r, "admin.html", map[string]any{
		"Active":     "admin",
		"Rows":       result.Rows,
		"PageInfo":   result.PageInfo,
		"EventTypes": eventDomain.ValidTypes,
		"Flash":      r.URL.Query().Get("msg"),
	})
}

// handleAdminCreateEvent processes the create-event form.
func handleAdminCreateEvent(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}

	_, err := orchestrators.ExecuteCreateEvent(r.Context(), orchestrators.CreateEventInput{
		Name:        r.FormValue("name"),
		Year:        r.FormValue("year"),
		Type:        r.FormValue("type"),
		Description: r.FormValue("description"),
	}, orchestrators.CreateEventDeps{EventStore: stores.EventStore})
	if err != nil {
		http.Redirect(w, r, "/admin?msg="+urlQueryEscape(err.Error()), http.StatusSeeOther)
		return
	}

	http.Redirect(w, r, "/admin?msg="+urlQueryEscape("Event created"), http.StatusSeeOther)
}

// handleAdminUpload processes the multipart media upload form. Files are
// handled independently; the redirect reports how many succeeded.
func handleAdminUpload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		http.Error(w, "Invalid upload", http.StatusBadRequest)
		return
	}

	input := orchestrators.UploadMediaInput{
		EventID: r.FormValue("event_id"),
	}
	if r.MultipartForm != nil {
		for _, header := range r.MultipartForm.File["files"] {
			f, err := header.Open()
			if err != nil {
				http.Error(w, "Invalid upload", http.StatusBadRequest)
				return
			}
			data, err := io.ReadAll(f)
			f.Close()
			if err != nil {
				http.Error(w, "Invalid upload", http.StatusBadRequest)
				return
			}
			input.Files = append(input.Files, orchestrators.UploadFile{
				Filename: header.Filename,
				Data:     data,
				Caption:  r.FormValue("caption"),
			})
		}
	}

	result, err := orchestrators.ExecuteUploadMedia(r.Context(), input, orchestrators.UploadMediaDeps{
		EventStore:  stores.EventStore,
		MediaStore:  stores.MediaStore,
		ObjectStore: objectStore,
	})
	if err != nil {
		if errors.Is(err, orchestrators.ErrNoFiles) || errors.Is(err, orchestrators.ErrUnknownEvent) {
			http.Redirect(w, r, "/admin?msg="+urlQueryEscape(err.Error()), http.StatusSeeOther)
			return
		}
		internalError(w, err)
		return
	}

	msg := uploadSummary(result)
	http.Redirect(w, r, "/admin?msg="+urlQueryEscape(msg), http.StatusSeeOther)
}

// handleUploads serves objects held by the in-memory media store so
// development uploads render without an S3 bucket. S3-backed deployments
// serve media straight from the bucket's public URLs and never hit this
// route.
func handleUploads(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	mem, ok := objectStore.(*objectstore.MemoryStore)
	if !ok {
		http.NotFound(w, r)
		return
	}
	key := strings.TrimPrefix(r.URL.Path, "/uploads/")
	data, ok := mem.Get(key)
	if !ok {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", mimetype.Detect(data).String())
	w.Write(data)
}
