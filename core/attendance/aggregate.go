package attendance

import (
	"math"

	"github.com/trezcool/registrar/core/records"
)

// Filter returns the events whose date parses and falls inside w, in their original order.
func Filter(events []Event, w Window) []Event {
	kept := make([]Event, 0, len(events))
	for _, e := range events {
		day, err := e.Day()
		if err != nil || !w.Contains(day) {
			continue
		}
		kept = append(kept, e)
	}
	return kept
}

// Percentage returns present/total as a percentage rounded to one decimal, and 0 when total is 0.
func Percentage(present, total int) float64 {
	if total <= 0 {
		return 0
	}
	return math.Round(float64(present)/float64(total)*1000) / 10
}

type tally struct {
	present, total int
}

type pair struct {
	student, course records.ID
}

// Aggregate folds events into per-course, per-student attendance for the events inside w.
// Courses and students keep their roster order; students without any event are reported with
// zero counts. An empty roster or course list yields an empty result.
func Aggregate(events []Event, students []records.Student, courses []records.Course, w Window) []CourseAttendance {
	if len(students) == 0 || len(courses) == 0 {
		return []CourseAttendance{}
	}

	tallies := make(map[pair]tally)
	for _, e := range Filter(events, w) {
		k := pair{student: e.StudentID, course: e.CourseID}
		t := tallies[k]
		t.total++
		if e.Status.CountsAsPresent() {
			t.present++
		}
		tallies[k] = t
	}

	result := make([]CourseAttendance, 0, len(courses))
	for _, c := range courses {
		ca := CourseAttendance{
			CourseID:   c.ID,
			CourseCode: c.CourseCode,
			CourseName: c.CourseName,
			Students:   make([]StudentAttendance, 0, len(students)),
		}
		for _, s := range students {
			t := tallies[pair{student: s.ID, course: c.ID}]
			ca.Students = append(ca.Students, StudentAttendance{
				StudentID:            s.ID,
				StudentFirstName:     s.FirstName,
				StudentLastName:      s.LastName,
				PresentCount:         t.present,
				TotalRecords:         t.total,
				AttendancePercentage: Percentage(t.present, t.total),
			})
		}
		result = append(result, ca)
	}
	return result
}

// Summarize rolls a course's per-student rows up into one Summary.
func Summarize(c CourseAttendance) Summary {
	sum := Summary{CourseID: c.CourseID, CourseCode: c.CourseCode, CourseName: c.CourseName}
	for _, s := range c.Students {
		if s.TotalRecords == 0 {
			continue
		}
		sum.StudentsWithRecords++
		sum.PresentCount += s.PresentCount
		sum.TotalRecords += s.TotalRecords
	}
	sum.AttendancePercentage = Percentage(sum.PresentCount, sum.TotalRecords)
	return sum
}
