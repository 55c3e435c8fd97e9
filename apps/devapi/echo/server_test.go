package echoapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/trezcool/registrar/core"
	"github.com/trezcool/registrar/core/attendance"
	"github.com/trezcool/registrar/core/records"
	"github.com/trezcool/registrar/core/session"
	recordsvc "github.com/trezcool/registrar/services/records"
	"github.com/trezcool/registrar/services/report"
	"github.com/trezcool/registrar/services/transport"
	"github.com/trezcool/registrar/storage/credstore"
	"github.com/trezcool/registrar/tests"
)

func newTestServer(t *testing.T, profileEndpoint bool) (Server, *DB) {
	db := NewDB(bcrypt.MinCost)
	require.NoError(t, Seed(db))
	app := NewServer(&Options{
		DisableReqLogs:  true,
		ProfileEndpoint: profileEndpoint,
		Debug:           true,
		DB:              db,
		Logger:          testutil.NewLogger(),
	})
	return app, db
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     string
	username string // authenticates with SeedPassword when set
	password string // overrides SeedPassword
	wantCode int
	wantBody []string
}

func runHTTPTests(t *testing.T, app Server, tests []httpTest) {
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			if tt.body != "" {
				req.Header.Set("Content-Type", "application/json")
			}
			if tt.username != "" {
				pwd := SeedPassword
				if tt.password != "" {
					pwd = tt.password
				}
				req.SetBasicAuth(tt.username, pwd)
			}
			rec := httptest.NewRecorder()
			app.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantCode, rec.Code, rec.Body.String())
			for _, want := range tt.wantBody {
				assert.Contains(t, rec.Body.String(), want)
			}
		})
	}
}

func TestServer_auth(t *testing.T) {
	app, _ := newTestServer(t, true)
	runHTTPTests(t, app, []httpTest{
		{name: "login", method: http.MethodPost, path: "/api/auth/login", username: "adminuser", wantCode: http.StatusOK, wantBody: []string{"Login successful"}},
		{name: "login: bad password", method: http.MethodPost, path: "/api/auth/login", username: "adminuser", password: "nope", wantCode: http.StatusUnauthorized},
		{name: "login: unknown user", method: http.MethodPost, path: "/api/auth/login", username: "ghost", wantCode: http.StatusUnauthorized},
		{name: "login: no credentials", method: http.MethodPost, path: "/api/auth/login", wantCode: http.StatusUnauthorized},
		{name: "me", method: http.MethodGet, path: "/api/auth/me", username: "studentuser", wantCode: http.StatusOK, wantBody: []string{"You are authenticated"}},
		{
			name:     "profile",
			method:   http.MethodGet,
			path:     "/api/users/me",
			username: "adminuser",
			wantCode: http.StatusOK,
			wantBody: []string{`"username":"adminuser"`, `"roles":["ROLE_ADMIN"]`},
		},
		{name: "logout needs no credentials", method: http.MethodPost, path: "/api/logout", wantCode: http.StatusOK},
		{name: "trailing slash", method: http.MethodGet, path: "/api/auth/me/", username: "adminuser", wantCode: http.StatusOK},
	})
}

func TestServer_register(t *testing.T) {
	app, _ := newTestServer(t, true)
	runHTTPTests(t, app, []httpTest{
		{
			name:     "register",
			method:   http.MethodPost,
			path:     "/api/auth/register",
			body:     `{"username":" alice ","password":"secret1"}`,
			wantCode: http.StatusOK,
			wantBody: []string{"User registered successfully!"},
		},
		{name: "new account can log in", method: http.MethodPost, path: "/api/auth/login", username: "alice", password: "secret1", wantCode: http.StatusOK},
		{name: "default role", method: http.MethodGet, path: "/api/users/me", username: "alice", password: "secret1", wantCode: http.StatusOK, wantBody: []string{"ROLE_STUDENT"}},
		{
			name:     "username taken",
			method:   http.MethodPost,
			path:     "/api/auth/register",
			body:     `{"username":"adminuser","password":"secret1"}`,
			wantCode: http.StatusBadRequest,
			wantBody: []string{"Error: Username is already taken!"},
		},
		{
			name:     "unknown role",
			method:   http.MethodPost,
			path:     "/api/auth/register",
			body:     `{"username":"bob","password":"secret1","role":"TEACHER"}`,
			wantCode: http.StatusBadRequest,
			wantBody: []string{"Error: Role not found."},
		},
		{
			name:     "short password",
			method:   http.MethodPost,
			path:     "/api/auth/register",
			body:     `{"username":"bob","password":"123"}`,
			wantCode: http.StatusBadRequest,
			wantBody: []string{`"errors"`, `"password"`},
		},
	})
}

func TestServer_profileDisabled(t *testing.T) {
	app, _ := newTestServer(t, false)
	runHTTPTests(t, app, []httpTest{
		{name: "no profile endpoint", method: http.MethodGet, path: "/api/users/me", username: "adminuser", wantCode: http.StatusNotFound},
	})
}

func TestServer_students(t *testing.T) {
	app, db := newTestServer(t, true)
	ada := db.Students()[0]
	runHTTPTests(t, app, []httpTest{
		{name: "anonymous", method: http.MethodGet, path: "/api/students", wantCode: http.StatusUnauthorized},
		{name: "list as student", method: http.MethodGet, path: "/api/students", username: "studentuser", wantCode: http.StatusOK, wantBody: []string{"Lovelace", "Turing"}},
		{name: "get", method: http.MethodGet, path: "/api/students/" + string(ada.ID), username: "studentuser", wantCode: http.StatusOK, wantBody: []string{"S-0001"}},
		{name: "get unknown", method: http.MethodGet, path: "/api/students/nope", username: "adminuser", wantCode: http.StatusNotFound},
		{
			name:     "create as student",
			method:   http.MethodPost,
			path:     "/api/students",
			body:     `{"firstName":"Grace","lastName":"Hopper","email":"grace@registrar.test","studentIdNumber":"S-0003"}`,
			username: "studentuser",
			wantCode: http.StatusForbidden,
		},
		{
			name:     "create invalid",
			method:   http.MethodPost,
			path:     "/api/students",
			body:     `{"firstName":"Grace","lastName":"Hopper","email":"nope","studentIdNumber":"S-0003"}`,
			username: "adminuser",
			wantCode: http.StatusBadRequest,
			wantBody: []string{`"email"`},
		},
		{
			name:     "create",
			method:   http.MethodPost,
			path:     "/api/students",
			body:     `{"id":"forced","firstName":"Grace","lastName":"Hopper","email":"grace@registrar.test","studentIdNumber":"S-0003"}`,
			username: "adminuser",
			wantCode: http.StatusCreated,
			wantBody: []string{"Hopper"},
		},
		{
			name:     "update",
			method:   http.MethodPut,
			path:     "/api/students/" + string(ada.ID),
			body:     `{"firstName":"Ada","lastName":"King","email":"ada@registrar.test","studentIdNumber":"S-0001"}`,
			username: "adminuser",
			wantCode: http.StatusOK,
			wantBody: []string{"King"},
		},
		{name: "delete", method: http.MethodDelete, path: "/api/students/" + string(ada.ID), username: "adminuser", wantCode: http.StatusNoContent},
		{name: "delete again", method: http.MethodDelete, path: "/api/students/" + string(ada.ID), username: "adminuser", wantCode: http.StatusNotFound},
	})

	_, err := db.Student("forced")
	assert.Error(t, err, "ids are assigned by the server")
	assert.Len(t, db.Students(), 2)
}

func TestServer_grades(t *testing.T) {
	app, db := newTestServer(t, true)
	runHTTPTests(t, app, []httpTest{
		{name: "list as student", method: http.MethodGet, path: "/api/grades", username: "studentuser", wantCode: http.StatusForbidden},
		{name: "list as admin", method: http.MethodGet, path: "/api/grades", username: "adminuser", wantCode: http.StatusOK, wantBody: []string{`"gradeValue":"A"`, `"courseCode":"CS101"`}},
		{name: "my grades as admin", method: http.MethodGet, path: "/api/grades/my-grades", username: "adminuser", wantCode: http.StatusForbidden},
		{
			name:     "my grades without a profile",
			method:   http.MethodGet,
			path:     "/api/grades/my-grades",
			username: "studentuser",
			wantCode: http.StatusNotFound,
			wantBody: []string{"Student profile not found for the logged-in user."},
		},
	})

	// link studentuser to Ada
	ada := db.Students()[0]
	ada.Email = "studentuser"
	_, err := db.SaveStudent(ada)
	require.NoError(t, err)

	runHTTPTests(t, app, []httpTest{
		{name: "my grades", method: http.MethodGet, path: "/api/grades/my-grades", username: "studentuser", wantCode: http.StatusOK, wantBody: []string{"Exam"}},
	})
}

func TestServer_attendance(t *testing.T) {
	app, db := newTestServer(t, true)
	ada, course := db.Students()[0], db.Courses()[0]
	valid := `{"studentId":"` + string(ada.ID) + `","courseId":"` + string(course.ID) + `","attendanceDate":"2024-01-15","status":"LATE"}`

	runHTTPTests(t, app, []httpTest{
		{name: "student", method: http.MethodGet, path: "/api/attendance", username: "studentuser", wantCode: http.StatusForbidden},
		{name: "list", method: http.MethodGet, path: "/api/attendance", username: "adminuser", wantCode: http.StatusOK, wantBody: []string{`"attendanceDate":"2024-01-08"`, `"studentFirstName":"Ada"`}},
		{
			name:     "by course and date",
			method:   http.MethodGet,
			path:     "/api/attendance/course/" + string(course.ID) + "/date/2024-01-10",
			username: "adminuser",
			wantCode: http.StatusOK,
			wantBody: []string{"bus strike", "ABSENT"},
		},
		{
			name:     "by course and bad date",
			method:   http.MethodGet,
			path:     "/api/attendance/course/" + string(course.ID) + "/date/yesterday",
			username: "adminuser",
			wantCode: http.StatusBadRequest,
		},
		{name: "create", method: http.MethodPost, path: "/api/attendance", body: valid, username: "adminuser", wantCode: http.StatusCreated, wantBody: []string{`"status":"LATE"`}},
		{
			name:     "create with bad status",
			method:   http.MethodPost,
			path:     "/api/attendance",
			body:     strings.Replace(valid, "LATE", "SLEEPING", 1),
			username: "adminuser",
			wantCode: http.StatusBadRequest,
			wantBody: []string{`"status"`},
		},
		{
			name:     "create with bad date",
			method:   http.MethodPost,
			path:     "/api/attendance",
			body:     strings.Replace(valid, "2024-01-15", "15/01/2024", 1),
			username: "adminuser",
			wantCode: http.StatusBadRequest,
			wantBody: []string{`"attendanceDate"`},
		},
		{
			name:     "create for unknown student",
			method:   http.MethodPost,
			path:     "/api/attendance",
			body:     strings.Replace(valid, string(ada.ID), "ghost", 1),
			username: "adminuser",
			wantCode: http.StatusNotFound,
		},
	})

	assert.Len(t, db.Attendance(ada.ID, "", ""), 4)
	assert.Len(t, db.Attendance(ada.ID, course.ID, "2024-01-15"), 1)
}

// TestEndToEnd drives the client stack against the dev API over HTTP.
func TestEndToEnd(t *testing.T) {
	tests := []struct {
		name            string
		profileEndpoint bool
		wantFallback    bool
	}{
		{name: "with profile endpoint", profileEndpoint: true},
		{name: "without profile endpoint", wantFallback: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app, _ := newTestServer(t, tt.profileEndpoint)
			srv := httptest.NewServer(app)
			defer srv.Close()

			ctx := context.Background()
			logger := testutil.NewLogger()
			conf := &core.Config{APIBaseURL: srv.URL + "/api", RequestTimeout: 5 * time.Second}
			store := credstore.NewMemoryStore(logger)
			sess := session.NewManager(store, transport.NewClient(conf), logger)
			builder := report.NewBuilder(recordsvc.NewClient(sess.Gateway()), sess, logger)

			_, err := sess.Login(ctx, "adminuser", "wrong")
			require.Error(t, err)
			assert.Equal(t, session.Unauthenticated, sess.State())

			p, err := sess.Login(ctx, "adminuser", SeedPassword)
			require.NoError(t, err)
			assert.True(t, p.IsAdmin())
			assert.Equal(t, tt.wantFallback, p.IsFallback())

			r, err := builder.Build(ctx, attendance.Window{})
			require.NoError(t, err)
			require.Len(t, r.Courses, 1)
			rows := r.Courses[0].Students
			require.Len(t, rows, 2)
			assert.Equal(t, "Ada", rows[0].StudentFirstName)
			assert.Equal(t, 66.7, rows[0].AttendancePercentage, "LATE does not count as present")
			assert.Equal(t, 50.0, rows[1].AttendancePercentage, "EXCUSED counts as present")
			assert.Equal(t, 60.0, r.Summaries[0].AttendancePercentage)

			// a session survives a restart
			restored := session.NewManager(store, transport.NewClient(conf), logger)
			assert.True(t, restored.IsAuthenticated())
			students, err := recordsvc.NewClient(restored.Gateway()).ListStudents(ctx)
			require.NoError(t, err)
			assert.Len(t, students, 2)

			require.NoError(t, sess.Logout(ctx))
			_, _, ok := store.Load()
			assert.False(t, ok)

			// a student is authenticated but may not read attendance
			_, err = sess.Login(ctx, "studentuser", SeedPassword)
			require.NoError(t, err)
			_, err = builder.Build(ctx, attendance.Window{})
			assert.Equal(t, report.ErrAccessDenied, err)
			_, err = recordsvc.NewClient(sess.Gateway()).ListAttendance(ctx)
			var apiErr *core.APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, http.StatusForbidden, apiErr.Status)
			assert.True(t, apiErr.IsUnauthorized())

			created, err := recordsvc.NewClient(sess.Gateway()).CreateStudent(ctx, records.Student{FirstName: "Eve", LastName: "X", Email: "eve@registrar.test", StudentIDNumber: "S-9"})
			assert.Error(t, err)
			assert.Empty(t, created.ID)
		})
	}
}
