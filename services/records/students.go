package recordsvc

import (
	"context"
	"net/http"

	"github.com/trezcool/registrar/core/records"
)

const studentsPath = "/students"

func (c *Client) ListStudents(ctx context.Context) ([]records.Student, error) {
	var students []records.Student
	if err := c.get(ctx, studentsPath, &students); err != nil {
		return nil, wrap(err, "fetching students")
	}
	return students, nil
}

func (c *Client) GetStudent(ctx context.Context, id records.ID) (records.Student, error) {
	var s records.Student
	if err := c.get(ctx, path(studentsPath, id), &s); err != nil {
		return records.Student{}, wrap(err, "fetching student %s", id)
	}
	return s, nil
}

func (c *Client) CreateStudent(ctx context.Context, s records.Student) (records.Student, error) {
	s.ID = ""
	var created records.Student
	if err := c.send(ctx, http.MethodPost, studentsPath, s, &created); err != nil {
		return records.Student{}, wrap(err, "creating student")
	}
	return created, nil
}

func (c *Client) UpdateStudent(ctx context.Context, id records.ID, s records.Student) (records.Student, error) {
	s.ID = ""
	var updated records.Student
	if err := c.send(ctx, http.MethodPut, path(studentsPath, id), s, &updated); err != nil {
		return records.Student{}, wrap(err, "updating student %s", id)
	}
	return updated, nil
}

func (c *Client) DeleteStudent(ctx context.Context, id records.ID) error {
	return wrap(c.delete(ctx, path(studentsPath, id)), "deleting student %s", id)
}
