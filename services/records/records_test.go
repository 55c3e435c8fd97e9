package recordsvc

import (
	"context"
	"encoding/json"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/registrar/core"
	"github.com/trezcool/registrar/core/attendance"
	"github.com/trezcool/registrar/core/records"
	"github.com/trezcool/registrar/services/transport"
)

type received struct {
	method, path string
	body         map[string]interface{}
}

func setup(t *testing.T, routes map[string]string) (*Client, *[]received) {
	var calls []received
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := received{method: r.Method, path: r.URL.EscapedPath()}
		if b, _ := ioutil.ReadAll(r.Body); len(b) > 0 {
			_ = json.Unmarshal(b, &rec.body)
		}
		calls = append(calls, rec)

		reply, ok := routes[r.Method+" "+r.URL.EscapedPath()]
		if !ok {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"message":"Resource not found"}`))
			return
		}
		if reply == "" {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(reply))
	}))
	t.Cleanup(srv.Close)

	conf := &core.Config{APIBaseURL: srv.URL + "/api", RequestTimeout: time.Second}
	return NewClient(transport.NewClient(conf)), &calls
}

func TestClient_attendance(t *testing.T) {
	client, calls := setup(t, map[string]string{
		"GET /api/attendance": `[
			{"id":"a1","studentId":"s1","studentFirstName":"Ada","studentLastName":"Lovelace","courseId":"c1","courseCode":"CS101","courseName":"Intro","attendanceDate":"2024-01-10","status":"PRESENT"},
			{"id":"a2","studentId":"s1","courseId":"c1","attendanceDate":"2024-01-11","status":"LATE","remarks":"bus"}
		]`,
		"GET /api/attendance/student/s%201":             `[]`,
		"GET /api/attendance/course/c1":                 `[{"id":"a1","studentId":"s1","courseId":"c1","attendanceDate":"2024-01-10","status":"PRESENT"}]`,
		"GET /api/attendance/course/c1/date/2024-01-10": `[]`,
		"GET /api/attendance/student/s1/course/c1":      `[]`,
		"POST /api/attendance":                          `{"id":"a3","studentId":"s1","courseId":"c1","attendanceDate":"2024-01-12","status":"EXCUSED"}`,
		"PUT /api/attendance/a3":                        `{"id":"a3","studentId":"s1","courseId":"c1","attendanceDate":"2024-01-12","status":"ABSENT"}`,
		"DELETE /api/attendance/a3":                     "",
	})
	ctx := context.Background()

	events, err := client.ListAttendance(ctx)
	require.NoError(t, err)
	assert.Equal(t, []attendance.Event{
		{ID: "a1", StudentID: "s1", StudentFirstName: "Ada", StudentLastName: "Lovelace", CourseID: "c1", CourseCode: "CS101", CourseName: "Intro", Date: "2024-01-10", Status: attendance.Present},
		{ID: "a2", StudentID: "s1", CourseID: "c1", Date: "2024-01-11", Status: attendance.Late, Remarks: "bus"},
	}, events)

	events, err = client.AttendanceByStudent(ctx, "s 1")
	require.NoError(t, err)
	assert.Empty(t, events)

	events, err = client.AttendanceByCourse(ctx, "c1")
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "2024-01-10", events[0].Date)

	_, err = client.AttendanceByCourseAndDate(ctx, "c1", time.Date(2024, 1, 10, 15, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	_, err = client.AttendanceByStudentAndCourse(ctx, "s1", "c1")
	require.NoError(t, err)

	req := AttendanceRequest{StudentID: "s1", CourseID: "c1", Date: time.Date(2024, 1, 12, 0, 0, 0, 0, time.UTC), Status: attendance.Excused}
	created, err := client.CreateAttendance(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, "2024-01-12", created.Date)
	assert.Equal(t, attendance.Excused, created.Status)

	last := (*calls)[len(*calls)-1]
	assert.Equal(t, map[string]interface{}{
		"studentId": "s1", "courseId": "c1", "attendanceDate": "2024-01-12", "status": "EXCUSED",
	}, last.body, "the wire payload uses attendanceDate")

	req.Status = attendance.Absent
	updated, err := client.UpdateAttendance(ctx, "a3", req)
	require.NoError(t, err)
	assert.Equal(t, attendance.Absent, updated.Status)

	require.NoError(t, client.DeleteAttendance(ctx, "a3"))
}

func TestClient_students(t *testing.T) {
	client, calls := setup(t, map[string]string{
		"GET /api/students":      `[{"id":1,"firstName":"Ada","lastName":"Lovelace","email":"ada@test.cd","studentIdNumber":"S-1"}]`,
		"GET /api/students/1":    `{"id":1,"firstName":"Ada","lastName":"Lovelace","email":"ada@test.cd","studentIdNumber":"S-1"}`,
		"POST /api/students":     `{"id":"2","firstName":"Alan","lastName":"Turing","email":"alan@test.cd","studentIdNumber":"S-2"}`,
		"PUT /api/students/2":    `{"id":"2","firstName":"Alan","lastName":"Turing","email":"alan@test.cd","studentIdNumber":"S-3"}`,
		"DELETE /api/students/2": "",
	})
	ctx := context.Background()

	students, err := client.ListStudents(ctx)
	require.NoError(t, err)
	require.Len(t, students, 1)
	assert.Equal(t, records.ID("1"), students[0].ID, "numeric ids are accepted")
	assert.Equal(t, "Ada Lovelace", students[0].FullName())

	s, err := client.GetStudent(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, "S-1", s.StudentIDNumber)

	created, err := client.CreateStudent(ctx, records.Student{ID: "ignored", FirstName: "Alan", LastName: "Turing", Email: "alan@test.cd", StudentIDNumber: "S-2"})
	require.NoError(t, err)
	assert.Equal(t, records.ID("2"), created.ID)
	_, sentID := (*calls)[len(*calls)-1].body["id"]
	assert.False(t, sentID, "id is never sent")

	created.StudentIDNumber = "S-3"
	updated, err := client.UpdateStudent(ctx, created.ID, created)
	require.NoError(t, err)
	assert.Equal(t, "S-3", updated.StudentIDNumber)

	require.NoError(t, client.DeleteStudent(ctx, "2"))
}

func TestClient_coursesAndGrades(t *testing.T) {
	client, _ := setup(t, map[string]string{
		"GET /api/courses":          `[{"id":"c1","courseCode":"CS101","courseName":"Intro","credits":3}]`,
		"GET /api/courses/c1":       `{"id":"c1","courseCode":"CS101","courseName":"Intro","credits":3}`,
		"POST /api/courses":         `{"id":"c2","courseCode":"MA201","courseName":"Algebra","credits":4}`,
		"PUT /api/courses/c2":       `{"id":"c2","courseCode":"MA201","courseName":"Linear Algebra","credits":4}`,
		"DELETE /api/courses/c2":    "",
		"GET /api/grades":           `[{"id":"g1","studentId":"s1","courseId":"c1","assessmentType":"Exam","gradeValue":"A","assessmentDate":null}]`,
		"GET /api/grades/my-grades": `[{"id":"g1","studentId":"s1","courseId":"c1","assessmentType":"Exam","gradeValue":"A","assessmentDate":"2024-01-10"}]`,
		"GET /api/grades/g1":        `{"id":"g1","studentId":"s1","courseId":"c1","assessmentType":"Exam","gradeValue":"A"}`,
		"POST /api/grades":          `{"id":"g2","studentId":"s1","courseId":"c1","assessmentType":"Quiz","gradeValue":"B"}`,
		"PUT /api/grades/g2":        `{"id":"g2","studentId":"s1","courseId":"c1","assessmentType":"Quiz","gradeValue":"B+"}`,
		"DELETE /api/grades/g2":     "",
	})
	ctx := context.Background()

	courses, err := client.ListCourses(ctx)
	require.NoError(t, err)
	assert.Equal(t, "CS101 - Intro", courses[0].Label())
	_, err = client.GetCourse(ctx, "c1")
	require.NoError(t, err)
	created, err := client.CreateCourse(ctx, records.Course{CourseCode: "MA201", CourseName: "Algebra", Credits: 4})
	require.NoError(t, err)
	created.CourseName = "Linear Algebra"
	updated, err := client.UpdateCourse(ctx, created.ID, created)
	require.NoError(t, err)
	assert.Equal(t, "Linear Algebra", updated.CourseName)
	require.NoError(t, client.DeleteCourse(ctx, "c2"))

	grades, err := client.ListGrades(ctx)
	require.NoError(t, err)
	assert.Empty(t, grades[0].AssessmentDate)
	mine, err := client.MyGrades(ctx)
	require.NoError(t, err)
	assert.Equal(t, "2024-01-10", mine[0].AssessmentDate)
	_, err = client.GetGrade(ctx, "g1")
	require.NoError(t, err)
	g, err := client.CreateGrade(ctx, records.GradeRequest{StudentID: "s1", CourseID: "c1", AssessmentType: "Quiz", GradeValue: "B"})
	require.NoError(t, err)
	g2, err := client.UpdateGrade(ctx, g.ID, records.GradeRequest{StudentID: "s1", CourseID: "c1", AssessmentType: "Quiz", GradeValue: "B+"})
	require.NoError(t, err)
	assert.Equal(t, "B+", g2.GradeValue)
	require.NoError(t, client.DeleteGrade(ctx, "g2"))
}

func TestClient_errors(t *testing.T) {
	client, _ := setup(t, nil)

	_, err := client.GetStudent(context.Background(), "404")
	require.Error(t, err)
	assert.True(t, core.IsNotFound(err))
	assert.Contains(t, err.Error(), "fetching student 404")

	var apiErr *core.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "Resource not found", apiErr.Message)

	err = client.DeleteCourse(context.Background(), "c9")
	assert.True(t, core.IsNotFound(err))
}
