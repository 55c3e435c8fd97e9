package records

import (
	"bytes"
	"encoding/json"

	"github.com/pkg/errors"
)

// ID identifies a backend entity. The backend sends numeric ids; they are kept as strings.
type ID string

func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return errors.Errorf("invalid id %s", b)
	}
	*id = ID(n.String())
	return nil
}

func (id ID) String() string { return string(id) }

type (
	Student struct {
		ID              ID     `json:"id,omitempty"`
		FirstName       string `json:"firstName" validate:"required,notblank,max=50"`
		LastName        string `json:"lastName" validate:"required,notblank,max=50"`
		Email           string `json:"email" validate:"required,email,max=100"`
		StudentIDNumber string `json:"studentIdNumber" validate:"required,notblank,max=20"`
	}

	Course struct {
		ID          ID     `json:"id,omitempty"`
		CourseCode  string `json:"courseCode" validate:"required,notblank,max=20"`
		CourseName  string `json:"courseName" validate:"required,notblank,max=100"`
		Description string `json:"description,omitempty" validate:"max=500"`
		Credits     int    `json:"credits" validate:"min=0,max=10"`
	}

	Grade struct {
		ID               ID     `json:"id"`
		StudentID        ID     `json:"studentId"`
		StudentFirstName string `json:"studentFirstName"`
		StudentLastName  string `json:"studentLastName"`
		CourseID         ID     `json:"courseId"`
		CourseCode       string `json:"courseCode"`
		CourseName       string `json:"courseName"`
		AssessmentType   string `json:"assessmentType"`
		GradeValue       string `json:"gradeValue"`
		AssessmentDate   string `json:"assessmentDate,omitempty"` // YYYY-MM-DD
		Comments         string `json:"comments,omitempty"`
	}

	// GradeRequest is the payload for creating or updating a Grade.
	GradeRequest struct {
		StudentID      ID     `json:"studentId" validate:"required"`
		CourseID       ID     `json:"courseId" validate:"required"`
		AssessmentType string `json:"assessmentType" validate:"required,notblank,max=50"`
		GradeValue     string `json:"gradeValue" validate:"required,notblank,max=20"`
		AssessmentDate string `json:"assessmentDate,omitempty"`
		Comments       string `json:"comments,omitempty" validate:"max=255"`
	}
)

func (s Student) FullName() string {
	return s.FirstName + " " + s.LastName
}

// Label is how a course is displayed: "CS101 - Intro to CS".
func (c Course) Label() string {
	return c.CourseCode + " - " + c.CourseName
}
