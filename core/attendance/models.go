package attendance

import (
	"time"

	"github.com/trezcool/registrar/core/records"
)

// Status is the outcome recorded for one student at one session.
type Status string

const (
	Present Status = "PRESENT"
	Absent  Status = "ABSENT"
	Late    Status = "LATE"
	Excused Status = "EXCUSED"
)

func (s Status) Valid() bool {
	switch s {
	case Present, Absent, Late, Excused:
		return true
	}
	return false
}

// CountsAsPresent reports whether s counts toward presence. LATE does not.
func (s Status) CountsAsPresent() bool {
	return s == Present || s == Excused
}

// Event is one attendance record. Date is kept as received so malformed values can be filtered out.
type Event struct {
	ID               records.ID `json:"id"`
	StudentID        records.ID `json:"studentId"`
	StudentFirstName string     `json:"studentFirstName"`
	StudentLastName  string     `json:"studentLastName"`
	CourseID         records.ID `json:"courseId"`
	CourseCode       string     `json:"courseCode"`
	CourseName       string     `json:"courseName"`
	Date             string     `json:"date"`
	Status           Status     `json:"status"`
	Remarks          string     `json:"remarks,omitempty"`
}

// Day returns the calendar day of e.
func (e Event) Day() (time.Time, error) {
	return ParseDay(e.Date)
}

type (
	StudentAttendance struct {
		StudentID            records.ID `json:"studentId"`
		StudentFirstName     string     `json:"studentFirstName"`
		StudentLastName      string     `json:"studentLastName"`
		PresentCount         int        `json:"presentCount"`
		TotalRecords         int        `json:"totalRecords"`
		AttendancePercentage float64    `json:"attendancePercentage"`
	}

	CourseAttendance struct {
		CourseID   records.ID          `json:"courseId"`
		CourseCode string              `json:"courseCode"`
		CourseName string              `json:"courseName"`
		Students   []StudentAttendance `json:"studentsAttendance"`
	}

	// Summary is the course-level rollup shown on the dashboard.
	Summary struct {
		CourseID             records.ID `json:"courseId"`
		CourseCode           string     `json:"courseCode"`
		CourseName           string     `json:"courseName"`
		StudentsWithRecords  int        `json:"studentsWithRecords"`
		PresentCount         int        `json:"presentCount"`
		TotalRecords         int        `json:"totalRecords"`
		AttendancePercentage float64    `json:"attendancePercentage"`
	}
)
