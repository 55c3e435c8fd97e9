package recordsvc

import (
	"context"
	"net/http"

	"github.com/trezcool/registrar/core/records"
)

const gradesPath = "/grades"

func (c *Client) ListGrades(ctx context.Context) ([]records.Grade, error) {
	var grades []records.Grade
	if err := c.get(ctx, gradesPath, &grades); err != nil {
		return nil, wrap(err, "fetching grades")
	}
	return grades, nil
}

// MyGrades returns the grades of the logged-in student.
func (c *Client) MyGrades(ctx context.Context) ([]records.Grade, error) {
	var grades []records.Grade
	if err := c.get(ctx, path(gradesPath, "my-grades"), &grades); err != nil {
		return nil, wrap(err, "fetching my grades")
	}
	return grades, nil
}

func (c *Client) GetGrade(ctx context.Context, id records.ID) (records.Grade, error) {
	var g records.Grade
	if err := c.get(ctx, path(gradesPath, id), &g); err != nil {
		return records.Grade{}, wrap(err, "fetching grade %s", id)
	}
	return g, nil
}

func (c *Client) CreateGrade(ctx context.Context, req records.GradeRequest) (records.Grade, error) {
	var created records.Grade
	if err := c.send(ctx, http.MethodPost, gradesPath, req, &created); err != nil {
		return records.Grade{}, wrap(err, "creating grade")
	}
	return created, nil
}

func (c *Client) UpdateGrade(ctx context.Context, id records.ID, req records.GradeRequest) (records.Grade, error) {
	var updated records.Grade
	if err := c.send(ctx, http.MethodPut, path(gradesPath, id), req, &updated); err != nil {
		return records.Grade{}, wrap(err, "updating grade %s", id)
	}
	return updated, nil
}

func (c *Client) DeleteGrade(ctx context.Context, id records.ID) error {
	return wrap(c.delete(ctx, path(gradesPath, id)), "deleting grade %s", id)
}
