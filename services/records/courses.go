package recordsvc

import (
	"context"
	"net/http"

	"github.com/trezcool/registrar/core/records"
)

const coursesPath = "/courses"

func (c *Client) ListCourses(ctx context.Context) ([]records.Course, error) {
	var courses []records.Course
	if err := c.get(ctx, coursesPath, &courses); err != nil {
		return nil, wrap(err, "fetching courses")
	}
	return courses, nil
}

func (c *Client) GetCourse(ctx context.Context, id records.ID) (records.Course, error) {
	var course records.Course
	if err := c.get(ctx, path(coursesPath, id), &course); err != nil {
		return records.Course{}, wrap(err, "fetching course %s", id)
	}
	return course, nil
}

func (c *Client) CreateCourse(ctx context.Context, course records.Course) (records.Course, error) {
	course.ID = ""
	var created records.Course
	if err := c.send(ctx, http.MethodPost, coursesPath, course, &created); err != nil {
		return records.Course{}, wrap(err, "creating course")
	}
	return created, nil
}

func (c *Client) UpdateCourse(ctx context.Context, id records.ID, course records.Course) (records.Course, error) {
	course.ID = ""
	var updated records.Course
	if err := c.send(ctx, http.MethodPut, path(coursesPath, id), course, &updated); err != nil {
		return records.Course{}, wrap(err, "updating course %s", id)
	}
	return updated, nil
}

func (c *Client) DeleteCourse(ctx context.Context, id records.ID) error {
	return wrap(c.delete(ctx, path(coursesPath, id)), "deleting course %s", id)
}
