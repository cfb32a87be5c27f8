package routes

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"course-portal/internal/adapters/http/middleware"
	"course-portal/internal/adapters/persistence/repositories"
	"course-portal/internal/adapters/persistence/store"
	"course-portal/internal/config"
	"course-portal/internal/core/services"
	"course-portal/internal/pkg/idgen"
	"course-portal/internal/pkg/validate"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type apiResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Meta    json.RawMessage `json:"meta"`
	Error   string          `json:"error"`
	Details json.RawMessage `json:"details"`
}

type testAPI struct {
	t       *testing.T
	app     *fiber.App
	session *services.SessionService
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	cfg := &config.Config{
		AppMode: "dev",
		Store:   config.StoreConfig{Driver: config.DriverMemory},
		Session: config.SessionConfig{BcryptCost: bcrypt.MinCost, RefreshSpec: services.RefreshSpecOff},
		Catalog: config.CatalogConfig{CodeRule: "strict", PageSize: 6},
	}

	ctx := context.Background()
	st := store.New(repositories.NewMemoryRepository())
	require.NoError(t, config.NewSeeder(st, cfg.Session.BcryptCost).Run(ctx))

	v := validate.New(validate.CodeRuleStrict)
	ids := idgen.New(nil)
	session := services.NewSessionService(st, v, ids, cfg)
	require.NoError(t, session.Init(ctx))
	catalog := services.NewCatalogService(st, v, ids)
	enrollments := services.NewEnrollmentService(st, catalog)

	app := fiber.New(fiber.Config{ErrorHandler: middleware.CustomErrorHandler})
	middleware.Setup(app, cfg)
	Setup(app, cfg, Dependencies{
		Session:     session,
		Catalog:     catalog,
		Enrollments: enrollments,
		Analytics:   services.NewAnalyticsService(catalog, enrollments),
		Query:       services.NewQuery(cfg.Catalog.PageSize),
	})

	return &testAPI{t: t, app: app, session: session}
}

func (a *testAPI) do(method, path, body string, headers ...string) (int, apiResponse, *http.Response) {
	a.t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	resp, err := a.app.Test(req, -1)
	require.NoError(a.t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(a.t, err)
	resp.Body.Close()

	var out apiResponse
	if strings.HasPrefix(resp.Header.Get("Content-Type"), fiber.MIMEApplicationJSON) {
		require.NoError(a.t, json.Unmarshal(raw, &out), string(raw))
	} else {
		out.Data = raw
	}
	return resp.StatusCode, out, resp
}

func (a *testAPI) login(email string) {
	a.t.Helper()
	status, _, _ := a.do(http.MethodPost, "/api/v1/auth/login", `{"email":"`+email+`","password":"password123"}`)
	require.Equal(a.t, http.StatusOK, status)
}

func TestHealth(t *testing.T) {
	api := newTestAPI(t)

	status, _, resp := api.do(http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))
}

func TestAuthFlow(t *testing.T) {
	api := newTestAPI(t)

	status, body, _ := api.do(http.MethodGet, "/api/v1/auth/me", "")
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.False(t, body.Success)

	status, body, _ = api.do(http.MethodPost, "/api/v1/auth/login", `{"email":"student@example.com","password":"wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "invalid email or password", body.Error)

	status, body, _ = api.do(http.MethodPost, "/api/v1/auth/login", `{"email":"","password":""}`)
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	var fields map[string]string
	require.NoError(t, json.Unmarshal(body.Details, &fields))
	assert.Contains(t, fields, "email")
	assert.Contains(t, fields, "password")

	status, body, resp := api.do(http.MethodPost, "/api/v1/auth/login", `{"email":"student@example.com","password":"password123"}`)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "no-store, no-cache, must-revalidate", resp.Header.Get("Cache-Control"))

	var session struct {
		User        map[string]interface{} `json:"user"`
		AccessToken string                 `json:"accessToken"`
	}
	require.NoError(t, json.Unmarshal(body.Data, &session))
	assert.Equal(t, "John Student", session.User["name"])
	assert.NotContains(t, session.User, "password")
	assert.True(t, strings.HasPrefix(session.AccessToken, "access_1_"))

	status, _, _ = api.do(http.MethodGet, "/api/v1/auth/me", "", "Authorization", "Bearer "+session.AccessToken)
	assert.Equal(t, http.StatusOK, status)

	status, _, _ = api.do(http.MethodGet, "/api/v1/auth/me", "", "Authorization", "Bearer access_1_0")
	assert.Equal(t, http.StatusUnauthorized, status)

	status, body, _ = api.do(http.MethodPost, "/api/v1/auth/refresh", "")
	assert.Equal(t, http.StatusOK, status)

	status, _, _ = api.do(http.MethodPost, "/api/v1/auth/logout", "")
	assert.Equal(t, http.StatusOK, status)
	assert.False(t, api.session.IsAuthenticated())

	status, _, _ = api.do(http.MethodPost, "/api/v1/auth/refresh", "")
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestRegister(t *testing.T) {
	api := newTestAPI(t)

	status, body, _ := api.do(http.MethodPost, "/api/v1/auth/register",
		`{"name":"Jane","email":"jane@example.com","password":"secret1","confirmPassword":"nope","role":"student"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	var fields map[string]string
	require.NoError(t, json.Unmarshal(body.Details, &fields))
	assert.Equal(t, "passwords do not match", fields["confirmPassword"])
	assert.Contains(t, fields, "registrationNumber")

	status, _, _ = api.do(http.MethodPost, "/api/v1/auth/register",
		`{"name":"Jane","email":"student@example.com","password":"secret1","confirmPassword":"secret1","role":"student","registrationNumber":"R2"}`)
	assert.Equal(t, http.StatusConflict, status)

	status, _, _ = api.do(http.MethodPost, "/api/v1/auth/register",
		`{"name":"Jane","email":"jane@example.com","password":"secret1","confirmPassword":"secret1","role":"student","registrationNumber":"R2"}`)
	assert.Equal(t, http.StatusCreated, status)
	assert.True(t, api.session.HasRole("student"))
}

func TestRoleGuards(t *testing.T) {
	api := newTestAPI(t)

	status, _, _ := api.do(http.MethodGet, "/api/v1/catalog", "")
	assert.Equal(t, http.StatusUnauthorized, status)

	api.login("faculty@example.com")
	status, _, _ = api.do(http.MethodGet, "/api/v1/catalog", "")
	assert.Equal(t, http.StatusForbidden, status)

	api.login("student@example.com")
	status, _, _ = api.do(http.MethodGet, "/api/v1/faculty/courses", "")
	assert.Equal(t, http.StatusForbidden, status)
}

func TestStudentCatalogAndEnrollment(t *testing.T) {
	api := newTestAPI(t)
	api.login("student@example.com")

	status, body, _ := api.do(http.MethodGet, "/api/v1/catalog?page=2", "")
	require.Equal(t, http.StatusOK, status)

	var page struct {
		Courses []struct {
			Code string `json:"code"`
		} `json:"courses"`
		Stats services.StudentStats `json:"stats"`
	}
	require.NoError(t, json.Unmarshal(body.Data, &page))
	require.Len(t, page.Courses, 2)
	assert.Equal(t, "PY701", page.Courses[0].Code)

	var meta struct {
		Total int `json:"total"`
		From  int `json:"from"`
		To    int `json:"to"`
	}
	require.NoError(t, json.Unmarshal(body.Meta, &meta))
	assert.Equal(t, 8, meta.Total)
	assert.Equal(t, 7, meta.From)
	assert.Equal(t, 8, meta.To)

	status, body, _ = api.do(http.MethodGet, "/api/v1/catalog?search=python&sort=title", "")
	require.Equal(t, http.StatusOK, status)
	require.NoError(t, json.Unmarshal(body.Data, &page))
	require.Len(t, page.Courses, 1)

	status, _, _ = api.do(http.MethodPost, "/api/v1/enrollments/7", "")
	assert.Equal(t, http.StatusCreated, status)

	status, body, _ = api.do(http.MethodPost, "/api/v1/enrollments/7", "")
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "already enrolled in this course", body.Error)

	status, body, _ = api.do(http.MethodGet, "/api/v1/enrollments/7", "")
	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"courseId":7,"enrolled":true}`, string(body.Data))

	status, body, _ = api.do(http.MethodGet, "/api/v1/catalog", "")
	require.Equal(t, http.StatusOK, status)
	require.NoError(t, json.Unmarshal(body.Data, &page))
	assert.Equal(t, services.StudentStats{Enrolled: 1, Available: 8, Progress: 11}, page.Stats)

	status, _, _ = api.do(http.MethodDelete, "/api/v1/enrollments/7", "")
	assert.Equal(t, http.StatusOK, status)

	status, _, _ = api.do(http.MethodPost, "/api/v1/enrollments/4040", "")
	assert.Equal(t, http.StatusNotFound, status)

	status, _, _ = api.do(http.MethodPost, "/api/v1/enrollments/abc", "")
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestFacultyCourses(t *testing.T) {
	api := newTestAPI(t)
	api.login("faculty@example.com")

	status, body, _ := api.do(http.MethodPost, "/api/v1/faculty/courses", `{"title":"","code":"bad","category":"Programming"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	var fields map[string]string
	require.NoError(t, json.Unmarshal(body.Details, &fields))
	assert.Equal(t, "title is required", fields["title"])
	assert.Equal(t, "code must be in format like WEB101, DSA201, etc.", fields["code"])

	status, body, _ = api.do(http.MethodPost, "/api/v1/faculty/courses",
		`{"title":"Cloud Computing","code":"CLD210","category":"Programming","description":"Cloud.","capacity":10,"duration":"4 weeks","syllabus":[{"label":"Week 1","topic":"Intro"}]}`)
	require.Equal(t, http.StatusCreated, status)
	var course struct {
		ID       int64  `json:"id"`
		Level    string `json:"level"`
		IsActive bool   `json:"isActive"`
	}
	require.NoError(t, json.Unmarshal(body.Data, &course))
	assert.Equal(t, "Beginner", course.Level)
	assert.True(t, course.IsActive)

	path := "/api/v1/faculty/courses/" + itoa(course.ID)

	status, body, _ = api.do(http.MethodDelete, path, "")
	assert.Equal(t, http.StatusPreconditionRequired, status)
	var confirm struct {
		Action   string `json:"action"`
		CourseID int64  `json:"courseId"`
	}
	require.NoError(t, json.Unmarshal(body.Details, &confirm))
	assert.Equal(t, "soft_delete", confirm.Action)
	assert.Equal(t, course.ID, confirm.CourseID)

	status, _, _ = api.do(http.MethodDelete, path, "", "X-Confirm", "true")
	assert.Equal(t, http.StatusOK, status)

	status, body, _ = api.do(http.MethodGet, "/api/v1/faculty/courses?status=deleted", "")
	require.Equal(t, http.StatusOK, status)
	var list struct {
		Courses      []struct{ ID int64 } `json:"courses"`
		ActiveCount  int                  `json:"activeCount"`
		DeletedCount int                  `json:"deletedCount"`
	}
	require.NoError(t, json.Unmarshal(body.Data, &list))
	require.Len(t, list.Courses, 1)
	assert.Equal(t, course.ID, list.Courses[0].ID)
	assert.Equal(t, 3, list.ActiveCount)

	status, _, _ = api.do(http.MethodPost, path+"/restore", "")
	assert.Equal(t, http.StatusOK, status)

	status, _, _ = api.do(http.MethodDelete, path+"/permanent", "")
	assert.Equal(t, http.StatusPreconditionRequired, status)
	status, _, _ = api.do(http.MethodDelete, path+"/permanent", "", "X-Confirm", "true")
	assert.Equal(t, http.StatusOK, status)
	status, _, _ = api.do(http.MethodGet, path, "")
	assert.Equal(t, http.StatusNotFound, status)
}

func TestFacultyAnalytics(t *testing.T) {
	api := newTestAPI(t)
	api.login("faculty@example.com")

	status, body, _ := api.do(http.MethodGet, "/api/v1/faculty/analytics?window=month", "")
	require.Equal(t, http.StatusOK, status)
	var report services.Report
	require.NoError(t, json.Unmarshal(body.Data, &report))
	assert.Equal(t, services.WindowMonth, report.Window)
	assert.Len(t, report.Courses, 3)

	status, _, _ = api.do(http.MethodGet, "/api/v1/faculty/analytics?window=decade", "")
	assert.Equal(t, http.StatusUnprocessableEntity, status)

	status, body, resp := api.do(http.MethodGet, "/api/v1/faculty/analytics/export?window=week", "")
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "course_analytics_week_")
	assert.True(t, strings.HasPrefix(string(body.Data), "Course Code,Course Title,Category,Enrollments,Capacity,Enrollment Rate (%)\n"))
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
