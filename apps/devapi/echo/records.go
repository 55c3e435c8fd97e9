package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/registrar/core/records"
)

func pathID(ctx echo.Context, name string) records.ID {
	return records.ID(ctx.Param(name))
}

// students

func (s *server) registerStudentAPI(g *echo.Group, basic echo.MiddlewareFunc) {
	sg := g.Group("/students", basic)
	sg.GET("", s.listStudents)
	sg.GET("/:id", s.getStudent)
	sg.POST("", s.createStudent, adminOnly)
	sg.PUT("/:id", s.updateStudent, adminOnly)
	sg.DELETE("/:id", s.deleteStudent, adminOnly)
}

func (s *server) listStudents(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, s.opts.DB.Students())
}

func (s *server) getStudent(ctx echo.Context) error {
	st, err := s.opts.DB.Student(pathID(ctx, "id"))
	if err != nil {
		return errors.Wrap(err, "fetching student")
	}
	return ctx.JSON(http.StatusOK, st)
}

func (s *server) bindStudent(ctx echo.Context) (records.Student, error) {
	var data records.Student
	if err := ctx.Bind(&data); err != nil {
		return data, errors.Wrap(err, "binding to Student")
	}
	if err := s.validateStruct(data); err != nil {
		return data, err
	}
	return data, nil
}

func (s *server) createStudent(ctx echo.Context) error {
	data, err := s.bindStudent(ctx)
	if err != nil {
		return err
	}
	data.ID = ""
	st, err := s.opts.DB.SaveStudent(data)
	if err != nil {
		return errors.Wrap(err, "creating student")
	}
	return ctx.JSON(http.StatusCreated, st)
}

func (s *server) updateStudent(ctx echo.Context) error {
	data, err := s.bindStudent(ctx)
	if err != nil {
		return err
	}
	data.ID = pathID(ctx, "id")
	st, err := s.opts.DB.SaveStudent(data)
	if err != nil {
		return errors.Wrap(err, "updating student")
	}
	return ctx.JSON(http.StatusOK, st)
}

func (s *server) deleteStudent(ctx echo.Context) error {
	if err := s.opts.DB.DeleteStudent(pathID(ctx, "id")); err != nil {
		return errors.Wrap(err, "deleting student")
	}
	return ctx.NoContent(http.StatusNoContent)
}

// courses

func (s *server) registerCourseAPI(g *echo.Group, basic echo.MiddlewareFunc) {
	cg := g.Group("/courses", basic)
	cg.GET("", s.listCourses)
	cg.GET("/:id", s.getCourse)
	cg.POST("", s.createCourse, adminOnly)
	cg.PUT("/:id", s.updateCourse, adminOnly)
	cg.DELETE("/:id", s.deleteCourse, adminOnly)
}

func (s *server) listCourses(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, s.opts.DB.Courses())
}

func (s *server) getCourse(ctx echo.Context) error {
	c, err := s.opts.DB.Course(pathID(ctx, "id"))
	if err != nil {
		return errors.Wrap(err, "fetching course")
	}
	return ctx.JSON(http.StatusOK, c)
}

func (s *server) bindCourse(ctx echo.Context) (records.Course, error) {
	var data records.Course
	if err := ctx.Bind(&data); err != nil {
		return data, errors.Wrap(err, "binding to Course")
	}
	if err := s.validateStruct(data); err != nil {
		return data, err
	}
	return data, nil
}

func (s *server) createCourse(ctx echo.Context) error {
	data, err := s.bindCourse(ctx)
	if err != nil {
		return err
	}
	data.ID = ""
	c, err := s.opts.DB.SaveCourse(data)
	if err != nil {
		return errors.Wrap(err, "creating course")
	}
	return ctx.JSON(http.StatusCreated, c)
}

func (s *server) updateCourse(ctx echo.Context) error {
	data, err := s.bindCourse(ctx)
	if err != nil {
		return err
	}
	data.ID = pathID(ctx, "id")
	c, err := s.opts.DB.SaveCourse(data)
	if err != nil {
		return errors.Wrap(err, "updating course")
	}
	return ctx.JSON(http.StatusOK, c)
}

func (s *server) deleteCourse(ctx echo.Context) error {
	if err := s.opts.DB.DeleteCourse(pathID(ctx, "id")); err != nil {
		return errors.Wrap(err, "deleting course")
	}
	return ctx.NoContent(http.StatusNoContent)
}

// grades

func (s *server) registerGradeAPI(g *echo.Group, basic echo.MiddlewareFunc) {
	gg := g.Group("/grades", basic)
	gg.GET("/my-grades", s.myGrades, studentOnly)
	gg.GET("", s.listGrades, adminOnly)
	gg.GET("/:id", s.getGrade, adminOnly)
	gg.POST("", s.createGrade, adminOnly)
	gg.PUT("/:id", s.updateGrade, adminOnly)
	gg.DELETE("/:id", s.deleteGrade, adminOnly)
}

func (s *server) listGrades(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, s.opts.DB.Grades(""))
}

// myGrades serves the grades of the student whose email is the account's username.
func (s *server) myGrades(ctx echo.Context) error {
	acc, err := getContextAccount(ctx)
	if err != nil {
		return err
	}
	st, err := s.opts.DB.StudentByEmail(acc.Username)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Student profile not found for the logged-in user.")
	}
	return ctx.JSON(http.StatusOK, s.opts.DB.Grades(st.ID))
}

func (s *server) getGrade(ctx echo.Context) error {
	g, err := s.opts.DB.Grade(pathID(ctx, "id"))
	if err != nil {
		return errors.Wrap(err, "fetching grade")
	}
	return ctx.JSON(http.StatusOK, g)
}

func (s *server) saveGrade(ctx echo.Context, id records.ID) (records.Grade, error) {
	var data records.GradeRequest
	if err := ctx.Bind(&data); err != nil {
		return records.Grade{}, errors.Wrap(err, "binding to GradeRequest")
	}
	if err := s.validateStruct(data); err != nil {
		return records.Grade{}, err
	}
	g, err := s.opts.DB.SaveGrade(id, data)
	return g, errors.Wrap(err, "saving grade")
}

func (s *server) createGrade(ctx echo.Context) error {
	g, err := s.saveGrade(ctx, "")
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, g)
}

func (s *server) updateGrade(ctx echo.Context) error {
	g, err := s.saveGrade(ctx, pathID(ctx, "id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, g)
}

func (s *server) deleteGrade(ctx echo.Context) error {
	if err := s.opts.DB.DeleteGrade(pathID(ctx, "id")); err != nil {
		return errors.Wrap(err, "deleting grade")
	}
	return ctx.NoContent(http.StatusNoContent)
}
