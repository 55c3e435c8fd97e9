package report

import (
	"context"
	"sort"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/trezcool/registrar/core"
	"github.com/trezcool/registrar/core/attendance"
	"github.com/trezcool/registrar/core/records"
	"github.com/trezcool/registrar/core/session"
)

var ErrAccessDenied = errors.New("access denied: the attendance report is for administrators")

// Source fetches the collections a report is built from.
type Source interface {
	ListStudents(ctx context.Context) ([]records.Student, error)
	ListCourses(ctx context.Context) ([]records.Course, error)
	ListAttendance(ctx context.Context) ([]attendance.Event, error)
}

// PrincipalSource tells who is asking.
type PrincipalSource interface {
	Principal() (session.Principal, bool)
}

// Report is the attendance view of the admin console.
type Report struct {
	Window      attendance.Window
	GeneratedAt time.Time
	Courses     []attendance.CourseAttendance
	Summaries   []attendance.Summary
	// Timeline holds the events inside Window, most recent first.
	Timeline []attendance.Event
}

type Builder struct {
	source     Source
	principals PrincipalSource
	logger     core.Logger
	now        func() time.Time
}

func NewBuilder(source Source, principals PrincipalSource, logger core.Logger) *Builder {
	return &Builder{
		source:     source,
		principals: principals,
		logger:     logger,
		now:        time.Now,
	}
}

// Build loads students, courses and attendance concurrently and aggregates them over w.
// If any fetch fails, no report is returned.
func (b *Builder) Build(ctx context.Context, w attendance.Window) (*Report, error) {
	p, ok := b.principals.Principal()
	if !ok || !p.IsAdmin() {
		b.logger.Warn("attendance report denied", p)
		return nil, ErrAccessDenied
	}

	var (
		students []records.Student
		courses  []records.Course
		events   []attendance.Event
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		students, err = b.source.ListStudents(gctx)
		return err
	})
	g.Go(func() (err error) {
		courses, err = b.source.ListCourses(gctx)
		return err
	})
	g.Go(func() (err error) {
		events, err = b.source.ListAttendance(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		b.logger.Error("loading attendance report", err, p)
		return nil, errors.Wrap(err, "report: loading")
	}

	r := &Report{
		Window:      w,
		GeneratedAt: b.now().UTC(),
		Courses:     attendance.Aggregate(events, students, courses, w),
		Timeline:    Timeline(events, w),
	}
	r.Summaries = make([]attendance.Summary, 0, len(r.Courses))
	for _, c := range r.Courses {
		r.Summaries = append(r.Summaries, attendance.Summarize(c))
	}
	return r, nil
}

// Timeline returns the events inside w sorted by day, most recent first. Events of the same day
// keep their relative order.
func Timeline(events []attendance.Event, w attendance.Window) []attendance.Event {
	kept := attendance.Filter(events, w)
	days := make([]time.Time, len(kept))
	for i, e := range kept {
		days[i], _ = e.Day() // Filter only keeps parseable days
	}
	idx := make([]int, len(kept))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(i, j int) bool { return days[idx[i]].After(days[idx[j]]) })

	sorted := make([]attendance.Event, len(kept))
	for i, k := range idx {
		sorted[i] = kept[k]
	}
	return sorted
}
