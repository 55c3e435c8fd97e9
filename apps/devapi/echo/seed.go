package echoapi

import (
	"github.com/pkg/errors"

	"github.com/trezcool/registrar/core/attendance"
	"github.com/trezcool/registrar/core/records"
)

// SeedPassword is the password of the seeded accounts.
const SeedPassword = "password"

// Seed creates the adminuser and studentuser accounts plus a small roster with some attendance.
func Seed(db *DB) error {
	for username, role := range map[string]string{"adminuser": "ADMIN", "studentuser": "STUDENT"} {
		if _, err := db.CreateAccount(username, SeedPassword, role); err != nil {
			return errors.Wrapf(err, "seeding account %s", username)
		}
	}

	ada, err := db.SaveStudent(records.Student{FirstName: "Ada", LastName: "Lovelace", Email: "ada@registrar.test", StudentIDNumber: "S-0001"})
	if err != nil {
		return errors.Wrap(err, "seeding students")
	}
	alan, err := db.SaveStudent(records.Student{FirstName: "Alan", LastName: "Turing", Email: "alan@registrar.test", StudentIDNumber: "S-0002"})
	if err != nil {
		return errors.Wrap(err, "seeding students")
	}
	cs, err := db.SaveCourse(records.Course{CourseCode: "CS101", CourseName: "Introduction to Computer Science", Credits: 3})
	if err != nil {
		return errors.Wrap(err, "seeding courses")
	}

	for _, req := range []attendanceRequest{
		{StudentID: ada.ID, CourseID: cs.ID, AttendanceDate: "2024-01-08", Status: attendance.Present},
		{StudentID: ada.ID, CourseID: cs.ID, AttendanceDate: "2024-01-10", Status: attendance.Late, Remarks: "bus strike"},
		{StudentID: ada.ID, CourseID: cs.ID, AttendanceDate: "2024-01-12", Status: attendance.Present},
		{StudentID: alan.ID, CourseID: cs.ID, AttendanceDate: "2024-01-08", Status: attendance.Excused},
		{StudentID: alan.ID, CourseID: cs.ID, AttendanceDate: "2024-01-10", Status: attendance.Absent},
	} {
		if _, err := db.SaveAttendance("", req); err != nil {
			return errors.Wrap(err, "seeding attendance")
		}
	}
	_, err = db.SaveGrade("", records.GradeRequest{StudentID: ada.ID, CourseID: cs.ID, AssessmentType: "Exam", GradeValue: "A", AssessmentDate: "2024-01-15"})
	return errors.Wrap(err, "seeding grades")
}
