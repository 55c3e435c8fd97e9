package echoapi

import (
	"sync"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"

	"github.com/trezcool/registrar/core/attendance"
	"github.com/trezcool/registrar/core/records"
	"github.com/trezcool/registrar/core/session"
)

var (
	errNotFound      = errors.New("resource not found")
	errUsernameTaken = errors.New("username is already taken")
)

type (
	Account struct {
		ID           string
		Username     string
		PasswordHash []byte
		Roles        []string
	}

	attendanceRow struct {
		ID        string
		StudentID records.ID
		CourseID  records.ID
		Date      string
		Status    attendance.Status
		Remarks   string
	}

	gradeRow struct {
		ID  string
		req records.GradeRequest
	}

	// table keeps insertion order so listings are stable.
	table[T any] struct {
		ids  []string
		rows map[string]T
	}
)

func newTable[T any]() *table[T] {
	return &table[T]{rows: make(map[string]T)}
}

func (t *table[T]) put(id string, v T) {
	if _, ok := t.rows[id]; !ok {
		t.ids = append(t.ids, id)
	}
	t.rows[id] = v
}

func (t *table[T]) get(id string) (T, bool) {
	v, ok := t.rows[id]
	return v, ok
}

func (t *table[T]) remove(id string) bool {
	if _, ok := t.rows[id]; !ok {
		return false
	}
	delete(t.rows, id)
	for i := range t.ids {
		if t.ids[i] == id {
			t.ids = append(t.ids[:i], t.ids[i+1:]...)
			break
		}
	}
	return true
}

func (t *table[T]) all() []T {
	out := make([]T, 0, len(t.ids))
	for _, id := range t.ids {
		out = append(out, t.rows[id])
	}
	return out
}

// DB is the in-memory backing store of the dev API.
type DB struct {
	mutex      sync.RWMutex
	bcryptCost int
	accounts   *table[Account] // keyed by username
	students   *table[records.Student]
	courses    *table[records.Course]
	grades     *table[gradeRow]
	attendance *table[attendanceRow]
}

func NewDB(bcryptCost int) *DB {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &DB{
		bcryptCost: bcryptCost,
		accounts:   newTable[Account](),
		students:   newTable[records.Student](),
		courses:    newTable[records.Course](),
		grades:     newTable[gradeRow](),
		attendance: newTable[attendanceRow](),
	}
}

func newID() string { return uuid.NewString() }

// CreateAccount adds an account; role is ADMIN or STUDENT, STUDENT when empty.
func (db *DB) CreateAccount(username, password, role string) (Account, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), db.bcryptCost)
	if err != nil {
		return Account{}, errors.Wrap(err, "hashing password")
	}
	roles := []string{session.RoleStudent}
	if role == "ADMIN" {
		roles = []string{session.RoleAdmin}
	}

	db.mutex.Lock()
	defer db.mutex.Unlock()
	if _, ok := db.accounts.get(username); ok {
		return Account{}, errUsernameTaken
	}
	acc := Account{ID: newID(), Username: username, PasswordHash: hash, Roles: roles}
	db.accounts.put(username, acc)
	return acc, nil
}

// Authenticate returns the account matching username and password.
func (db *DB) Authenticate(username, password string) (Account, bool) {
	db.mutex.RLock()
	acc, ok := db.accounts.get(username)
	db.mutex.RUnlock()
	if !ok {
		return Account{}, false
	}
	if err := bcrypt.CompareHashAndPassword(acc.PasswordHash, []byte(password)); err != nil {
		return Account{}, false
	}
	return acc, true
}

// students

func (db *DB) Students() []records.Student {
	db.mutex.RLock()
	defer db.mutex.RUnlock()
	return db.students.all()
}

func (db *DB) Student(id records.ID) (records.Student, error) {
	db.mutex.RLock()
	defer db.mutex.RUnlock()
	s, ok := db.students.get(string(id))
	if !ok {
		return records.Student{}, errNotFound
	}
	return s, nil
}

func (db *DB) SaveStudent(s records.Student) (records.Student, error) {
	db.mutex.Lock()
	defer db.mutex.Unlock()
	if s.ID == "" {
		s.ID = records.ID(newID())
	} else if _, ok := db.students.get(string(s.ID)); !ok {
		return records.Student{}, errNotFound
	}
	db.students.put(string(s.ID), s)
	return s, nil
}

func (db *DB) DeleteStudent(id records.ID) error {
	db.mutex.Lock()
	defer db.mutex.Unlock()
	if !db.students.remove(string(id)) {
		return errNotFound
	}
	return nil
}

// courses

func (db *DB) Courses() []records.Course {
	db.mutex.RLock()
	defer db.mutex.RUnlock()
	return db.courses.all()
}

func (db *DB) Course(id records.ID) (records.Course, error) {
	db.mutex.RLock()
	defer db.mutex.RUnlock()
	c, ok := db.courses.get(string(id))
	if !ok {
		return records.Course{}, errNotFound
	}
	return c, nil
}

func (db *DB) SaveCourse(c records.Course) (records.Course, error) {
	db.mutex.Lock()
	defer db.mutex.Unlock()
	if c.ID == "" {
		c.ID = records.ID(newID())
	} else if _, ok := db.courses.get(string(c.ID)); !ok {
		return records.Course{}, errNotFound
	}
	db.courses.put(string(c.ID), c)
	return c, nil
}

func (db *DB) DeleteCourse(id records.ID) error {
	db.mutex.Lock()
	defer db.mutex.Unlock()
	if !db.courses.remove(string(id)) {
		return errNotFound
	}
	return nil
}

// grades

func (db *DB) grade(row gradeRow) records.Grade {
	s, _ := db.students.get(string(row.req.StudentID))
	c, _ := db.courses.get(string(row.req.CourseID))
	return records.Grade{
		ID:               records.ID(row.ID),
		StudentID:        row.req.StudentID,
		StudentFirstName: s.FirstName,
		StudentLastName:  s.LastName,
		CourseID:         row.req.CourseID,
		CourseCode:       c.CourseCode,
		CourseName:       c.CourseName,
		AssessmentType:   row.req.AssessmentType,
		GradeValue:       row.req.GradeValue,
		AssessmentDate:   row.req.AssessmentDate,
		Comments:         row.req.Comments,
	}
}

// Grades returns every grade, or only those of studentID when set.
func (db *DB) Grades(studentID records.ID) []records.Grade {
	db.mutex.RLock()
	defer db.mutex.RUnlock()
	grades := make([]records.Grade, 0)
	for _, row := range db.grades.all() {
		if studentID == "" || row.req.StudentID == studentID {
			grades = append(grades, db.grade(row))
		}
	}
	return grades
}

func (db *DB) Grade(id records.ID) (records.Grade, error) {
	db.mutex.RLock()
	defer db.mutex.RUnlock()
	row, ok := db.grades.get(string(id))
	if !ok {
		return records.Grade{}, errNotFound
	}
	return db.grade(row), nil
}

func (db *DB) SaveGrade(id records.ID, req records.GradeRequest) (records.Grade, error) {
	db.mutex.Lock()
	defer db.mutex.Unlock()
	if err := db.checkRefs(req.StudentID, req.CourseID); err != nil {
		return records.Grade{}, err
	}
	if id == "" {
		id = records.ID(newID())
	} else if _, ok := db.grades.get(string(id)); !ok {
		return records.Grade{}, errNotFound
	}
	row := gradeRow{ID: string(id), req: req}
	db.grades.put(row.ID, row)
	return db.grade(row), nil
}

func (db *DB) DeleteGrade(id records.ID) error {
	db.mutex.Lock()
	defer db.mutex.Unlock()
	if !db.grades.remove(string(id)) {
		return errNotFound
	}
	return nil
}

// StudentByEmail finds the student profile of a student account.
func (db *DB) StudentByEmail(email string) (records.Student, error) {
	db.mutex.RLock()
	defer db.mutex.RUnlock()
	for _, s := range db.students.all() {
		if s.Email == email {
			return s, nil
		}
	}
	return records.Student{}, errNotFound
}

// attendance

func (db *DB) checkRefs(studentID, courseID records.ID) error {
	if _, ok := db.students.get(string(studentID)); !ok {
		return errors.Wrapf(errNotFound, "student %s", studentID)
	}
	if _, ok := db.courses.get(string(courseID)); !ok {
		return errors.Wrapf(errNotFound, "course %s", courseID)
	}
	return nil
}

func (db *DB) attendanceResponse(row attendanceRow) attendanceResponse {
	s, _ := db.students.get(string(row.StudentID))
	c, _ := db.courses.get(string(row.CourseID))
	return attendanceResponse{
		ID:               records.ID(row.ID),
		StudentID:        row.StudentID,
		StudentFirstName: s.FirstName,
		StudentLastName:  s.LastName,
		CourseID:         row.CourseID,
		CourseCode:       c.CourseCode,
		CourseName:       c.CourseName,
		AttendanceDate:   row.Date,
		Status:           row.Status,
		Remarks:          row.Remarks,
	}
}

// Attendance returns the records matching every non-empty filter.
func (db *DB) Attendance(studentID, courseID records.ID, date string) []attendanceResponse {
	db.mutex.RLock()
	defer db.mutex.RUnlock()
	out := make([]attendanceResponse, 0)
	for _, row := range db.attendance.all() {
		if (studentID != "" && row.StudentID != studentID) ||
			(courseID != "" && row.CourseID != courseID) ||
			(date != "" && row.Date != date) {
			continue
		}
		out = append(out, db.attendanceResponse(row))
	}
	return out
}

func (db *DB) AttendanceRecord(id records.ID) (attendanceResponse, error) {
	db.mutex.RLock()
	defer db.mutex.RUnlock()
	row, ok := db.attendance.get(string(id))
	if !ok {
		return attendanceResponse{}, errNotFound
	}
	return db.attendanceResponse(row), nil
}

func (db *DB) SaveAttendance(id records.ID, req attendanceRequest) (attendanceResponse, error) {
	db.mutex.Lock()
	defer db.mutex.Unlock()
	if err := db.checkRefs(req.StudentID, req.CourseID); err != nil {
		return attendanceResponse{}, err
	}
	if id == "" {
		id = records.ID(newID())
	} else if _, ok := db.attendance.get(string(id)); !ok {
		return attendanceResponse{}, errNotFound
	}
	row := attendanceRow{
		ID:        string(id),
		StudentID: req.StudentID,
		CourseID:  req.CourseID,
		Date:      req.AttendanceDate,
		Status:    req.Status,
		Remarks:   req.Remarks,
	}
	db.attendance.put(row.ID, row)
	return db.attendanceResponse(row), nil
}

func (db *DB) DeleteAttendance(id records.ID) error {
	db.mutex.Lock()
	defer db.mutex.Unlock()
	if !db.attendance.remove(string(id)) {
		return errNotFound
	}
	return nil
}
