package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/registrar/core/attendance"
	"github.com/trezcool/registrar/core/records"
)

type (
	attendanceRequest struct {
		StudentID      records.ID        `json:"studentId" validate:"required"`
		CourseID       records.ID        `json:"courseId" validate:"required"`
		AttendanceDate string            `json:"attendanceDate" validate:"required,datetime=2006-01-02"`
		Status         attendance.Status `json:"status" validate:"required,oneof=PRESENT ABSENT LATE EXCUSED"`
		Remarks        string            `json:"remarks,omitempty" validate:"max=255"`
	}

	attendanceResponse struct {
		ID               records.ID        `json:"id"`
		StudentID        records.ID        `json:"studentId"`
		StudentFirstName string            `json:"studentFirstName"`
		StudentLastName  string            `json:"studentLastName"`
		CourseID         records.ID        `json:"courseId"`
		CourseCode       string            `json:"courseCode"`
		CourseName       string            `json:"courseName"`
		AttendanceDate   string            `json:"attendanceDate"`
		Status           attendance.Status `json:"status"`
		Remarks          string            `json:"remarks,omitempty"`
	}
)

func (s *server) registerAttendanceAPI(g *echo.Group, basic echo.MiddlewareFunc) {
	ag := g.Group("/attendance", basic, adminOnly)
	ag.GET("", s.listAttendance)
	ag.POST("", s.createAttendance)
	ag.GET("/:id", s.getAttendance)
	ag.PUT("/:id", s.updateAttendance)
	ag.DELETE("/:id", s.deleteAttendance)
	ag.GET("/student/:studentId", s.listAttendance)
	ag.GET("/student/:studentId/course/:courseId", s.listAttendance)
	ag.GET("/course/:courseId", s.listAttendance)
	ag.GET("/course/:courseId/date/:date", s.listAttendance)
}

// listAttendance serves every listing route: path params that are absent do not filter.
func (s *server) listAttendance(ctx echo.Context) error {
	date := ctx.Param("date")
	if date != "" {
		if _, err := attendance.ParseDay(date); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid date "+date)
		}
	}
	return ctx.JSON(http.StatusOK, s.opts.DB.Attendance(pathID(ctx, "studentId"), pathID(ctx, "courseId"), date))
}

func (s *server) getAttendance(ctx echo.Context) error {
	rec, err := s.opts.DB.AttendanceRecord(pathID(ctx, "id"))
	if err != nil {
		return errors.Wrap(err, "fetching attendance")
	}
	return ctx.JSON(http.StatusOK, rec)
}

func (s *server) saveAttendance(ctx echo.Context, id records.ID) (attendanceResponse, error) {
	var data attendanceRequest
	if err := ctx.Bind(&data); err != nil {
		return attendanceResponse{}, errors.Wrap(err, "binding to attendanceRequest")
	}
	if err := s.validateStruct(data); err != nil {
		return attendanceResponse{}, err
	}
	rec, err := s.opts.DB.SaveAttendance(id, data)
	return rec, errors.Wrap(err, "saving attendance")
}

func (s *server) createAttendance(ctx echo.Context) error {
	rec, err := s.saveAttendance(ctx, "")
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, rec)
}

func (s *server) updateAttendance(ctx echo.Context) error {
	rec, err := s.saveAttendance(ctx, pathID(ctx, "id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, rec)
}

func (s *server) deleteAttendance(ctx echo.Context) error {
	if err := s.opts.DB.DeleteAttendance(pathID(ctx, "id")); err != nil {
		return errors.Wrap(err, "deleting attendance")
	}
	return ctx.NoContent(http.StatusNoContent)
}
