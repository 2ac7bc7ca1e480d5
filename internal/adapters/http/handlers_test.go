package web

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"emerald/internal/adapters/chatbot"
	"emerald/internal/adapters/http/middleware"
	"emerald/internal/adapters/objectstore"

	accountDomain "emerald/internal/domain/account"
	contactDomain "emerald/internal/domain/contact"
	eventDomain "emerald/internal/domain/event"
)

// useTestTemplates points template rendering at the package-local
// templates directory for the duration of one test.
func useTestTemplates(t *testing.T) {
	t.Helper()
	old := TemplatesDir
	TemplatesDir = "templates"
	t.Cleanup(func() { TemplatesDir = old })
}

// seedTestAccount creates an account with a known password.
func seedTestAccount(t *testing.T, s *Stores, id, email, password, role string) {
	t.Helper()
	acct := accountDomain.Account{ID: id, Email: email, Role: role}
	if err := acct.SetPassword(password); err != nil {
		t.Fatalf("set password: %v", err)
	}
	if err := s.AccountStore.Save(context.Background(), acct); err != nil {
		t.Fatalf("save account: %v", err)
	}
}

// --- Page rendering ---

func TestHandleHome(t *testing.T) {
	useTestTemplates(t)
	stores = newTestStores()
	seedGallery(stores)

	req := httptest.NewRequest("GET", "/", nil)
	rec := httptest.NewRecorder()
	handleHome(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("got %d, want %d", rec.Code, http.StatusOK)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "Godrej Emerald") {
		t.Error("home page missing society name")
	}
	if !strings.Contains(body, "Diwali Celebration") {
		t.Error("home page missing recent event")
	}
}

func TestHandleHome_UnknownPath(t *testing.T) {
	stores = newTestStores()
	req := httptest.NewRequest("GET", "/no-such-page", nil)
	rec := httptest.NewRecorder()
	handleHome(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("got %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestHandleGallery_AnonymousHidesHiddenMedia(t *testing.T) {
	useTestTemplates(t)
	stores = newTestStores()
	seedGallery(stores)

	req := httptest.NewRequest("GET", "/gallery", nil)
	rec := httptest.NewRecorder()
	handleGallery(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("got %d, want %d", rec.Code, http.StatusOK)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "diya.jpg") {
		t.Error("gallery missing visible media")
	}
	if strings.Contains(body, "draft.jpg") {
		t.Error("hidden media rendered for anonymous viewer")
	}
}

func TestHandleChat_RendersGreeting(t *testing.T) {
	useTestTemplates(t)
	stores = newTestStores()
	SetChatClient(&scriptedChatClient{}, chatbot.WidgetConfig{})

	req := httptest.NewRequest("GET", "/chat", nil)
	rec := httptest.NewRecorder()
	handleChat(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("got %d, want %d", rec.Code, http.StatusOK)
	}
	if !strings.Contains(rec.Body.String(), "GEMA") {
		t.Error("chat page missing assistant greeting")
	}
}

// TestHandleChat_TranscriptIsPerVisitor verifies one visitor's messages
// never show up on another visitor's chat page.
func TestHandleChat_TranscriptIsPerVisitor(t *testing.T) {
	useTestTemplates(t)
	stores = newTestStores()
	SetChatClient(&scriptedChatClient{reply: "The office can help with that."}, chatbot.WidgetConfig{})

	// Visitor A sends a message; the response mints their chat cookie.
	sendReq := httptest.NewRequest("POST", "/api/chat/send", strings.NewReader(`{"message":"my flat number is 1204 and I lost my key"}`))
	sendReq.Header.Set("Content-Type", "application/json")
	sendRec := httptest.NewRecorder()
	handleAPIChatSend(sendRec, sendReq)
	if sendRec.Code != http.StatusOK {
		t.Fatalf("send: got %d, want %d", sendRec.Code, http.StatusOK)
	}

	// A cookie-less visitor B gets a fresh conversation.
	bRec := httptest.NewRecorder()
	handleChat(bRec, httptest.NewRequest("GET", "/chat", nil))
	if strings.Contains(bRec.Body.String(), "flat number is 1204") {
		t.Error("another visitor's chat page contains the sender's message")
	}

	// Visitor A, carrying their cookie, still sees their own message.
	aReq := httptest.NewRequest("GET", "/chat", nil)
	for _, c := range sendRec.Result().Cookies() {
		aReq.AddCookie(c)
	}
	aRec := httptest.NewRecorder()
	handleChat(aRec, aReq)
	if !strings.Contains(aRec.Body.String(), "flat number is 1204") {
		t.Error("sender's chat page lost their own message")
	}
}

func TestHandleContacts_RendersTelLinks(t *testing.T) {
	useTestTemplates(t)
	stores = newTestStores()
	stores.ContactStore.Save(context.Background(), contactDomain.Contact{
		ID: "c1", Title: "Society Manager", Name: "Rajesh Kumar", Phone: "+91 98765 43210",
		Category: contactDomain.CategoryManagement, Primary: true,
	})
	stores.ContactStore.Save(context.Background(), contactDomain.Contact{
		ID: "c2", Title: "Police", Phone: "100",
		Category: contactDomain.CategoryService,
	})

	req := httptest.NewRequest("GET", "/contacts", nil)
	rec := httptest.NewRecorder()
	handleContacts(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("got %d, want %d", rec.Code, http.StatusOK)
	}
	body := rec.Body.String()
	if !strings.Contains(body, `href="tel:+919876543210"`) {
		t.Error("management contact missing tel: link")
	}
	if !strings.Contains(body, `href="tel:100"`) {
		t.Error("service number missing tel: link")
	}
}

// --- Auth flows ---

func TestHandleLogin_POST_Success(t *testing.T) {
	useTestTemplates(t)
	stores = newTestStores()
	sessions = middleware.NewSessionStore()
	seedTestAccount(t, stores, "a1", "admin@godrejemerald.test", "secret123", accountDomain.RoleAdmin)

	form := url.Values{"email": {"admin@godrejemerald.test"}, "password": {"secret123"}}
	req := httptest.NewRequest("POST", "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	handleLogin(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("got %d, want %d", rec.Code, http.StatusSeeOther)
	}
	if loc := rec.Header().Get("Location"); loc != "/admin" {
		t.Errorf("admin login redirected to %q, want /admin", loc)
	}
	cookieSet := false
	for _, c := range rec.Result().Cookies() {
		if c.Name == "emerald_session" && c.Value != "" {
			cookieSet = true
		}
	}
	if !cookieSet {
		t.Error("session cookie not set")
	}
}

func TestHandleLogin_POST_ResidentRedirectsHome(t *testing.T) {
	useTestTemplates(t)
	stores = newTestStores()
	sessions = middleware.NewSessionStore()
	seedTestAccount(t, stores, "r1", "priya@godrejemerald.test", "secret123", accountDomain.RoleResident)

	form := url.Values{"email": {"priya@godrejemerald.test"}, "password": {"secret123"}}
	req := httptest.NewRequest("POST", "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	handleLogin(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("got %d, want %d", rec.Code, http.StatusSeeOther)
	}
	if loc := rec.Header().Get("Location"); loc != "/" {
		t.Errorf("resident login redirected to %q, want /", loc)
	}
}

func TestHandleLogin_POST_WrongPassword(t *testing.T) {
	useTestTemplates(t)
	stores = newTestStores()
	sessions = middleware.NewSessionStore()
	seedTestAccount(t, stores, "a1", "admin@godrejemerald.test", "secret123", accountDomain.RoleAdmin)

	form := url.Values{"email": {"admin@godrejemerald.test"}, "password": {"wrong"}}
	req := httptest.NewRequest("POST", "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	handleLogin(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("got %d, want %d (form re-rendered)", rec.Code, http.StatusOK)
	}
	if !strings.Contains(rec.Body.String(), "invalid email or password") {
		t.Error("login error not shown")
	}
}

func TestHandleSignup_POST_Authorized(t *testing.T) {
	useTestTemplates(t)
	stores = newTestStores()
	SetEmailSender(nil)
	stores.AuthorizedEmailStore.SaveAuthorizedEmail(context.Background(), accountDomain.AuthorizedEmail{
		Email: "priya@godrejemerald.test", Role: accountDomain.RoleResident,
	})

	form := url.Values{"email": {"priya@godrejemerald.test"}, "password": {"secret123"}}
	req := httptest.NewRequest("POST", "/signup", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	handleSignup(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("got %d, want %d", rec.Code, http.StatusSeeOther)
	}
	if loc := rec.Header().Get("Location"); loc != "/login" {
		t.Errorf("signup redirected to %q, want /login", loc)
	}
	if _, err := stores.AccountStore.GetByEmail(context.Background(), "priya@godrejemerald.test"); err != nil {
		t.Error("account not created")
	}
}

func TestHandleSignup_POST_NotAuthorized(t *testing.T) {
	useTestTemplates(t)
	stores = newTestStores()
	SetEmailSender(nil)

	form := url.Values{"email": {"stranger@example.com"}, "password": {"secret123"}}
	req := httptest.NewRequest("POST", "/signup", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	handleSignup(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("got %d, want %d (form re-rendered)", rec.Code, http.StatusOK)
	}
	if !strings.Contains(rec.Body.String(), "not authorized") {
		t.Error("allow-list rejection not shown")
	}
	if _, err := stores.AccountStore.GetByEmail(context.Background(), "stranger@example.com"); err == nil {
		t.Error("unauthorized account was created")
	}
}

func TestHandleLogout(t *testing.T) {
	stores = newTestStores()
	sessions = middleware.NewSessionStore()
	token, err := sessions.Create("a1", "admin@godrejemerald.test", accountDomain.RoleAdmin)
	if err != nil {
		t.Fatalf("create session: %v", err)
	}

	req := httptest.NewRequest("POST", "/logout", nil)
	req.AddCookie(&http.Cookie{Name: "emerald_session", Value: token})
	rec := httptest.NewRecorder()
	handleLogout(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("got %d, want %d", rec.Code, http.StatusSeeOther)
	}
	if _, ok := sessions.Get(token); ok {
		t.Error("session still valid after logout")
	}
}

// --- Admin panel ---

func TestHandleAdmin_RendersEvents(t *testing.T) {
	useTestTemplates(t)
	stores = newTestStores()
	seedGallery(stores)

	req := authRequest("GET", "/admin", "", adminSession)
	rec := httptest.NewRecorder()
	handleAdmin(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("got %d, want %d", rec.Code, http.StatusOK)
	}
	if !strings.Contains(rec.Body.String(), "Diwali Celebration") {
		t.Error("admin panel missing event row")
	}
}

func TestHandleAdminCreateEvent(t *testing.T) {
	stores = newTestStores()

	form := url.Values{
		"name": {"Holi 2026"}, "year": {"2026"},
		"type": {eventDomain.TypeFestival}, "description": {"Colors at the clubhouse"},
	}
	req := httptest.NewRequest("POST", "/admin/events", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req = req.WithContext(middleware.ContextWithSession(req.Context(), adminSession))
	rec := httptest.NewRecorder()
	handleAdminCreateEvent(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("got %d, want %d", rec.Code, http.StatusSeeOther)
	}
	count, _ := stores.EventStore.Count(context.Background())
	if count != 1 {
		t.Errorf("event count = %d, want 1", count)
	}
}

func TestHandleAdminCreateEvent_InvalidYear(t *testing.T) {
	stores = newTestStores()

	form := url.Values{"name": {"Mystery"}, "year": {"not-a-year"}, "type": {eventDomain.TypeOther}}
	req := httptest.NewRequest("POST", "/admin/events", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req = req.WithContext(middleware.ContextWithSession(req.Context(), adminSession))
	rec := httptest.NewRecorder()
	handleAdminCreateEvent(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("got %d, want %d (error reported via flash)", rec.Code, http.StatusSeeOther)
	}
	if !strings.Contains(rec.Header().Get("Location"), "msg=") {
		t.Error("redirect missing error message")
	}
	count, _ := stores.EventStore.Count(context.Background())
	if count != 0 {
		t.Errorf("event count = %d, want 0", count)
	}
}

// jpegHeader is enough of a JPEG for content sniffing.
var jpegHeader = []byte{0xff, 0xd8, 0xff, 0xe0, 0x00, 0x10, 0x4a, 0x46, 0x49, 0x46, 0x00, 0x01}

func multipartUpload(t *testing.T, eventID string, filenames ...string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if err := w.WriteField("event_id", eventID); err != nil {
		t.Fatal(err)
	}
	for _, name := range filenames {
		fw, err := w.CreateFormFile("files", name)
		if err != nil {
			t.Fatal(err)
		}
		fw.Write(jpegHeader)
	}
	w.Close()
	return &buf, w.FormDataContentType()
}

func TestHandleAdminUpload(t *testing.T) {
	stores = newTestStores()
	mem := objectstore.NewMemoryStore("https://media.test")
	SetObjectStore(mem)
	stores.EventStore.Save(context.Background(), eventDomain.Event{
		ID: "e1", Name: "Diwali Celebration", Year: 2025, Type: eventDomain.TypeFestival,
	})

	body, contentType := multipartUpload(t, "e1", "diya.jpg", "rangoli.jpg")
	req := httptest.NewRequest("POST", "/admin/upload", body)
	req.Header.Set("Content-Type", contentType)
	req = req.WithContext(middleware.ContextWithSession(req.Context(), adminSession))
	rec := httptest.NewRecorder()
	handleAdminUpload(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("got %d, want %d", rec.Code, http.StatusSeeOther)
	}
	if !strings.Contains(rec.Header().Get("Location"), "Uploaded+2") {
		t.Errorf("redirect = %q, want upload summary for 2 files", rec.Header().Get("Location"))
	}
	count, _ := stores.MediaStore.Count(context.Background())
	if count != 2 {
		t.Errorf("media count = %d, want 2", count)
	}
	if len(mem.Keys()) != 2 {
		t.Errorf("stored objects = %d, want 2", len(mem.Keys()))
	}
}

func TestHandleAdminUpload_UnknownEvent(t *testing.T) {
	stores = newTestStores()
	SetObjectStore(objectstore.NewMemoryStore("https://media.test"))

	body, contentType := multipartUpload(t, "missing", "diya.jpg")
	req := httptest.NewRequest("POST", "/admin/upload", body)
	req.Header.Set("Content-Type", contentType)
	req = req.WithContext(middleware.ContextWithSession(req.Context(), adminSession))
	rec := httptest.NewRecorder()
	handleAdminUpload(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("got %d, want %d (error reported via flash)", rec.Code, http.StatusSeeOther)
	}
	count, _ := stores.MediaStore.Count(context.Background())
	if count != 0 {
		t.Errorf("media count = %d, want 0", count)
	}
}

// TestHandleUploads_ServesMemoryObjects verifies development uploads are
// reachable at the URL the memory store mints for them.
func TestHandleUploads_ServesMemoryObjects(t *testing.T) {
	mem := objectstore.NewMemoryStore("/uploads")
	SetObjectStore(mem)

	url, err := mem.Upload(context.Background(), "e1/photo.jpg", jpegHeader)
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if url != "/uploads/e1/photo.jpg" {
		t.Fatalf("public url = %q, want /uploads/e1/photo.jpg", url)
	}

	rec := httptest.NewRecorder()
	handleUploads(rec, httptest.NewRequest("GET", url, nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("got %d, want %d", rec.Code, http.StatusOK)
	}
	if !bytes.Equal(rec.Body.Bytes(), jpegHeader) {
		t.Error("served bytes differ from the uploaded object")
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/jpeg" {
		t.Errorf("content type = %q, want image/jpeg", ct)
	}

	rec = httptest.NewRecorder()
	handleUploads(rec, httptest.NewRequest("GET", "/uploads/e1/missing.jpg", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown key: got %d, want %d", rec.Code, http.StatusNotFound)
	}
}
