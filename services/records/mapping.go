package recordsvc

import (
	"time"

	"github.com/trezcool/registrar/core/attendance"
	"github.com/trezcool/registrar/core/records"
)

// The backend names the day of an attendance record "attendanceDate"; the client model calls it
// Date. These two functions are the only place that knows.

type attendanceDTO struct {
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

type attendanceRequestDTO struct {
	StudentID      records.ID        `json:"studentId"`
	CourseID       records.ID        `json:"courseId"`
	AttendanceDate string            `json:"attendanceDate"`
	Status         attendance.Status `json:"status"`
	Remarks        string            `json:"remarks,omitempty"`
}

// AttendanceRequest creates or updates an attendance record.
type AttendanceRequest struct {
	StudentID records.ID
	CourseID  records.ID
	Date      time.Time
	Status    attendance.Status
	Remarks   string
}

func toEvent(dto attendanceDTO) attendance.Event {
	return attendance.Event{
		ID:               dto.ID,
		StudentID:        dto.StudentID,
		StudentFirstName: dto.StudentFirstName,
		StudentLastName:  dto.StudentLastName,
		CourseID:         dto.CourseID,
		CourseCode:       dto.CourseCode,
		CourseName:       dto.CourseName,
		Date:             dto.AttendanceDate,
		Status:           dto.Status,
		Remarks:          dto.Remarks,
	}
}

func toEvents(dtos []attendanceDTO) []attendance.Event {
	events := make([]attendance.Event, 0, len(dtos))
	for _, dto := range dtos {
		events = append(events, toEvent(dto))
	}
	return events
}

func toRequestDTO(req AttendanceRequest) attendanceRequestDTO {
	return attendanceRequestDTO{
		StudentID:      req.StudentID,
		CourseID:       req.CourseID,
		AttendanceDate: req.Date.Format(attendance.DateLayout),
		Status:         req.Status,
		Remarks:        req.Remarks,
	}
}
