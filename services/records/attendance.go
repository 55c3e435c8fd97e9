package recordsvc

import (
	"context"
	"net/http"
	"time"

	"github.com/trezcool/registrar/core/attendance"
	"github.com/trezcool/registrar/core/records"
)

const attendancePath = "/attendance"

func (c *Client) listAttendance(ctx context.Context, p string) ([]attendance.Event, error) {
	var dtos []attendanceDTO
	if err := c.get(ctx, p, &dtos); err != nil {
		return nil, err
	}
	return toEvents(dtos), nil
}

func (c *Client) ListAttendance(ctx context.Context) ([]attendance.Event, error) {
	events, err := c.listAttendance(ctx, attendancePath)
	return events, wrap(err, "fetching attendance records")
}

func (c *Client) AttendanceByStudent(ctx context.Context, studentID records.ID) ([]attendance.Event, error) {
	events, err := c.listAttendance(ctx, path(attendancePath, "student", studentID))
	return events, wrap(err, "fetching attendance of student %s", studentID)
}

func (c *Client) AttendanceByCourse(ctx context.Context, courseID records.ID) ([]attendance.Event, error) {
	events, err := c.listAttendance(ctx, path(attendancePath, "course", courseID))
	return events, wrap(err, "fetching attendance of course %s", courseID)
}

func (c *Client) AttendanceByStudentAndCourse(ctx context.Context, studentID, courseID records.ID) ([]attendance.Event, error) {
	events, err := c.listAttendance(ctx, path(attendancePath, "student", studentID, "course", courseID))
	return events, wrap(err, "fetching attendance of student %s in course %s", studentID, courseID)
}

func (c *Client) AttendanceByCourseAndDate(ctx context.Context, courseID records.ID, day time.Time) ([]attendance.Event, error) {
	date := day.Format(attendance.DateLayout)
	events, err := c.listAttendance(ctx, path(attendancePath, "course", courseID, "date", date))
	return events, wrap(err, "fetching attendance of course %s on %s", courseID, date)
}

func (c *Client) GetAttendance(ctx context.Context, id records.ID) (attendance.Event, error) {
	var dto attendanceDTO
	if err := c.get(ctx, path(attendancePath, id), &dto); err != nil {
		return attendance.Event{}, wrap(err, "fetching attendance record %s", id)
	}
	return toEvent(dto), nil
}

func (c *Client) CreateAttendance(ctx context.Context, req AttendanceRequest) (attendance.Event, error) {
	var dto attendanceDTO
	if err := c.send(ctx, http.MethodPost, attendancePath, toRequestDTO(req), &dto); err != nil {
		return attendance.Event{}, wrap(err, "recording attendance")
	}
	return toEvent(dto), nil
}

func (c *Client) UpdateAttendance(ctx context.Context, id records.ID, req AttendanceRequest) (attendance.Event, error) {
	var dto attendanceDTO
	if err := c.send(ctx, http.MethodPut, path(attendancePath, id), toRequestDTO(req), &dto); err != nil {
		return attendance.Event{}, wrap(err, "updating attendance record %s", id)
	}
	return toEvent(dto), nil
}

func (c *Client) DeleteAttendance(ctx context.Context, id records.ID) error {
	return wrap(c.delete(ctx, path(attendancePath, id)), "deleting attendance record %s", id)
}
