package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"sync"
	"testing"
	"time"

	"stuhealth-backend/internal/appointments"
	"stuhealth-backend/internal/audit"
	"stuhealth-backend/internal/catalog"
	"stuhealth-backend/internal/config"
	"stuhealth-backend/internal/docstore"
	"stuhealth-backend/internal/feedback"
	"stuhealth-backend/internal/session"
	"stuhealth-backend/internal/users"
	"stuhealth-backend/internal/validation"
)

type memUserRepo struct {
	mu       sync.Mutex
	seq      int64
	accounts map[int64]users.Account
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{accounts: make(map[int64]users.Account)}
}

func (m *memUserRepo) Create(ctx context.Context, account users.Account) (users.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.accounts {
		if existing.Username == account.Username {
			return users.Account{}, users.ErrUsernameTaken
		}
	}
	m.seq++
	account.ID = m.seq
	account.CreatedAt = time.Now()
	m.accounts[account.ID] = account
	return account, nil
}

func (m *memUserRepo) GetByUsernameAndRole(ctx context.Context, username, role string) (users.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, account := range m.accounts {
		if account.Username == username && account.Role == role {
			return account, nil
		}
	}
	return users.Account{}, users.ErrNotFound
}

func (m *memUserRepo) GetByUsername(ctx context.Context, username string) (users.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, account := range m.accounts {
		if account.Username == username {
			return account, nil
		}
	}
	return users.Account{}, users.ErrNotFound
}

func (m *memUserRepo) GetByID(ctx context.Context, id int64) (users.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	account, ok := m.accounts[id]
	if !ok {
		return users.Account{}, users.ErrNotFound
	}
	return account, nil
}

func (m *memUserRepo) UpdateProfile(ctx context.Context, id int64, profile users.Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	account, ok := m.accounts[id]
	if !ok {
		return users.ErrNotFound
	}
	account.FullName = profile.FullName
	account.Email = profile.Email
	account.Routine = profile.Routine
	account.Avatar = profile.Avatar
	account.Phone = profile.Phone
	account.Programs = profile.Programs
	account.Age = profile.Age
	m.accounts[id] = account
	return nil
}

func (m *memUserRepo) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	account, ok := m.accounts[id]
	if !ok {
		return users.ErrNotFound
	}
	account.PasswordHash = passwordHash
	m.accounts[id] = account
	return nil
}

func (m *memUserRepo) CountByRole(ctx context.Context, role string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var count int64
	for _, account := range m.accounts {
		if account.Role == role {
			count++
		}
	}
	return count, nil
}

func newTestServer(t *testing.T) (*httptest.Server, *Server, catalog.Resource) {
	t.Helper()
	dir := t.TempDir()

	cfg := &config.Config{
		ServerAddr:            ":0",
		SessionTTLMinutes:     240,
		SessionCookie:         "stuhealth_session",
		RateLimitLogin:        100,
		RateLimitFeedback:     100,
		RateLimitAppointments: 100,
		RateLimitWindowSec:    60,
		Timezone:              time.UTC,
	}

	resources := catalog.NewResourceRepository(docstore.NewFile(filepath.Join(dir, "resources.json")))
	doctors := catalog.NewDoctorRepository(docstore.NewFile(filepath.Join(dir, "doctors.json")))
	catalogSvc := catalog.NewService(resources, doctors, time.UTC)

	ctx := context.Background()
	if err := catalogSvc.SeedDoctors(ctx, []catalog.Doctor{
		{ID: "d1", Name: "Dr. Asha Rao", Title: "Counseling Psychologist"},
		{ID: "d2", Name: "Dr. Ben Okafor", Title: "General Physician"},
	}); err != nil {
		t.Fatalf("seed doctors: %v", err)
	}
	resource, err := catalogSvc.CreateResource(ctx, catalog.UpsertResourceRequest{
		Title:    "Sleep Hygiene",
		Category: "mental-health",
	})
	if err != nil {
		t.Fatalf("seed resource: %v", err)
	}

	appointmentRepo := appointments.NewRepository(docstore.NewFile(filepath.Join(dir, "appointments.json")))
	feedbackRepo := feedback.NewRepository(docstore.NewFile(filepath.Join(dir, "feedback.json")))

	srv := &Server{
		Cfg:          cfg,
		Val:          validation.New(),
		Log:          slog.New(slog.NewJSONHandler(io.Discard, nil)),
		Sessions:     session.NewMemory(),
		Users:        users.NewService(newMemUserRepo()),
		Catalog:      catalogSvc,
		Appointments: appointments.NewService(appointmentRepo, catalogSvc, time.UTC),
		Feedback:     feedback.NewService(feedbackRepo, time.UTC),
		Audit:        audit.NewLog(docstore.NewFile(filepath.Join(dir, "logout_events.json")), time.UTC),
	}

	ts := httptest.NewServer(srv.Routes())
	t.Cleanup(ts.Close)
	return ts, srv, resource
}

func newClient(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookie jar: %v", err)
	}
	return &http.Client{Jar: jar}
}

func doJSON(t *testing.T, client *http.Client, method, url string, body interface{}, out interface{}) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer resp.Body.Close()
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("%s %s: decode: %v", method, url, err)
		}
	}
	return resp
}

func solveCaptcha(t *testing.T, question string) string {
	t.Helper()
	var a, b int
	if _, err := fmt.Sscanf(question, "What is %d + %d?", &a, &b); err == nil {
		return strconv.Itoa(a + b)
	}
	if _, err := fmt.Sscanf(question, "What is %d - %d?", &a, &b); err == nil {
		return strconv.Itoa(a - b)
	}
	t.Fatalf("unexpected captcha question %q", question)
	return ""
}

func TestStudentAppointmentFlow(t *testing.T) {
	ts, _, resource := newTestServer(t)
	student := newClient(t)

	// gated before auth, with a redirect hint
	var authErr struct {
		Error    string `json:"error"`
		Redirect string `json:"redirect"`
	}
	resp := doJSON(t, student, http.MethodGet, ts.URL+"/resources", nil, &authErr)
	if resp.StatusCode != http.StatusUnauthorized || authErr.Redirect != "/student/login" {
		t.Fatalf("expected 401 with /student/login redirect, got %d %+v", resp.StatusCode, authErr)
	}

	var signup AuthResponse
	resp = doJSON(t, student, http.MethodPost, ts.URL+"/student/signup", map[string]string{
		"username": "s1",
		"password": "p1secret",
	}, &signup)
	if resp.StatusCode != http.StatusCreated || signup.Role != "student" || signup.Redirect != "/resources" {
		t.Fatalf("signup failed: %d %+v", resp.StatusCode, signup)
	}

	var listed []catalog.Resource
	resp = doJSON(t, student, http.MethodGet, ts.URL+"/resources", nil, &listed)
	if resp.StatusCode != http.StatusOK || len(listed) != 1 {
		t.Fatalf("resources list after signup: %d %+v", resp.StatusCode, listed)
	}

	var viewed catalog.Resource
	resp = doJSON(t, student, http.MethodGet, ts.URL+"/resources/"+resource.ID, nil, &viewed)
	if resp.StatusCode != http.StatusOK || viewed.Views != 1 {
		t.Fatalf("detail view should count: %d %+v", resp.StatusCode, viewed)
	}

	var created appointments.Appointment
	resp = doJSON(t, student, http.MethodPost, ts.URL+"/appointments/request", map[string]string{
		"resource_id": resource.ID,
		"doctor_id":   "d1",
		"date":        "2026-09-10",
		"time":        "14:30",
		"message":     "recurring headaches",
	}, &created)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("appointment request: %d %+v", resp.StatusCode, created)
	}
	if created.Status != appointments.StatusPending || created.ResourceTitle != "Sleep Hygiene" || created.AssignedDoctorName != "Dr. Asha Rao" {
		t.Fatalf("request should cache resolved refs: %+v", created)
	}

	admin := newClient(t)
	resp = doJSON(t, admin, http.MethodPost, ts.URL+"/admin/signup", map[string]string{
		"username": "a1",
		"password": "adminsecret",
	}, nil)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("admin signup: %d", resp.StatusCode)
	}

	// approve without override keeps the requested doctor
	var approved appointments.Appointment
	resp = doJSON(t, admin, http.MethodPost, ts.URL+"/admin/appointments/approve/"+created.ID, nil, &approved)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("approve: %d %+v", resp.StatusCode, approved)
	}
	if approved.Status != appointments.StatusApproved || approved.AssignedDoctorID != "d1" || approved.AssignedDoctorName != "Dr. Asha Rao" {
		t.Fatalf("approve changed the doctor: %+v", approved)
	}
	if approved.ApprovedBy != "a1" || approved.ApprovedAt == nil {
		t.Fatalf("approve missing audit fields: %+v", approved)
	}

	resp = doJSON(t, admin, http.MethodPost, ts.URL+"/admin/appointments/approve/"+created.ID, nil, nil)
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("re-approve should conflict, got %d", resp.StatusCode)
	}

	var mine []appointments.Appointment
	resp = doJSON(t, student, http.MethodGet, ts.URL+"/appointments", nil, &mine)
	if resp.StatusCode != http.StatusOK || len(mine) != 1 || mine[0].Status != appointments.StatusApproved {
		t.Fatalf("own appointments list: %d %+v", resp.StatusCode, mine)
	}

	// metrics are public
	var metrics MetricsResponse
	resp = doJSON(t, newClient(t), http.MethodGet, ts.URL+"/metrics", nil, &metrics)
	if resp.StatusCode != http.StatusOK || metrics.TotalViews != 1 || metrics.ResourceCount != 1 {
		t.Fatalf("metrics: %d %+v", resp.StatusCode, metrics)
	}
}

func TestLoginCaptcha(t *testing.T) {
	ts, _, _ := newTestServer(t)
	client := newClient(t)

	resp := doJSON(t, client, http.MethodPost, ts.URL+"/student/signup", map[string]string{
		"username": "s2",
		"password": "p2secret",
	}, nil)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("signup: %d", resp.StatusCode)
	}
	resp = doJSON(t, client, http.MethodPost, ts.URL+"/logout", nil, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("logout: %d", resp.StatusCode)
	}

	resp = doJSON(t, client, http.MethodGet, ts.URL+"/resources", nil, nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("session should be gone after logout, got %d", resp.StatusCode)
	}

	// wrong captcha fails even with valid credentials
	var challenge CaptchaResponse
	doJSON(t, client, http.MethodGet, ts.URL+"/student/login", nil, &challenge)
	resp = doJSON(t, client, http.MethodPost, ts.URL+"/student/login", map[string]string{
		"username": "s2",
		"password": "p2secret",
		"captcha":  "999",
	}, nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("wrong captcha should 401, got %d", resp.StatusCode)
	}

	// the failed attempt consumed the challenge
	answer := solveCaptcha(t, challenge.Question)
	resp = doJSON(t, client, http.MethodPost, ts.URL+"/student/login", map[string]string{
		"username": "s2",
		"password": "p2secret",
		"captcha":  answer,
	}, nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("consumed challenge should not be reusable, got %d", resp.StatusCode)
	}

	// fresh challenge, correct answer
	doJSON(t, client, http.MethodGet, ts.URL+"/student/login", nil, &challenge)
	var login AuthResponse
	resp = doJSON(t, client, http.MethodPost, ts.URL+"/student/login", map[string]string{
		"username": "s2",
		"password": "p2secret",
		"captcha":  solveCaptcha(t, challenge.Question),
	}, &login)
	if resp.StatusCode != http.StatusOK || login.Redirect != "/resources" {
		t.Fatalf("login: %d %+v", resp.StatusCode, login)
	}

	resp = doJSON(t, client, http.MethodGet, ts.URL+"/resources", nil, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("resources after login: %d", resp.StatusCode)
	}
}

func TestAdminGate(t *testing.T) {
	ts, _, _ := newTestServer(t)

	var authErr struct {
		Redirect string `json:"redirect"`
	}
	resp := doJSON(t, newClient(t), http.MethodGet, ts.URL+"/admin", nil, &authErr)
	if resp.StatusCode != http.StatusUnauthorized || authErr.Redirect != "/admin/login" {
		t.Fatalf("expected 401 with /admin/login redirect, got %d %+v", resp.StatusCode, authErr)
	}

	// a student session does not open admin routes
	student := newClient(t)
	resp = doJSON(t, student, http.MethodPost, ts.URL+"/student/signup", map[string]string{
		"username": "s3",
		"password": "p3secret",
	}, nil)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("signup: %d", resp.StatusCode)
	}
	resp = doJSON(t, student, http.MethodGet, ts.URL+"/admin", nil, nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("student on admin route should 401, got %d", resp.StatusCode)
	}
}

func TestFeedbackAndDashboard(t *testing.T) {
	ts, _, _ := newTestServer(t)

	var entry feedback.Entry
	resp := doJSON(t, newClient(t), http.MethodPost, ts.URL+"/feedback", map[string]interface{}{
		"message": "longer cafeteria hours",
		"urgency": "critical",
	}, &entry)
	if resp.StatusCode != http.StatusCreated || entry.Urgency != feedback.UrgencyLow {
		t.Fatalf("feedback create should coerce urgency: %d %+v", resp.StatusCode, entry)
	}

	admin := newClient(t)
	resp = doJSON(t, admin, http.MethodPost, ts.URL+"/admin/signup", map[string]string{
		"username": "a2",
		"password": "adminsecret",
	}, nil)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("admin signup: %d", resp.StatusCode)
	}

	var dash DashboardResponse
	resp = doJSON(t, admin, http.MethodGet, ts.URL+"/admin", nil, &dash)
	if resp.StatusCode != http.StatusOK || dash.OpenFeedback != 1 || dash.ResourceCount != 1 {
		t.Fatalf("dashboard: %d %+v", resp.StatusCode, dash)
	}

	var resolved feedback.Entry
	resp = doJSON(t, admin, http.MethodPatch, ts.URL+"/admin/feedback/"+entry.ID, map[string]bool{
		"resolved": true,
	}, &resolved)
	if resp.StatusCode != http.StatusOK || !resolved.Resolved {
		t.Fatalf("resolve: %d %+v", resp.StatusCode, resolved)
	}
}
