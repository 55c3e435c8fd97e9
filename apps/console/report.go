package main

import (
	"context"
	"encoding/json"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/trezcool/registrar/core/attendance"
	"github.com/trezcool/registrar/services/report"
)

type reportOptions struct {
	timeline  bool
	hideEmpty bool
	json      bool
}

func (cli *commandLine) report(ctx context.Context, from, to string, opts reportOptions) error {
	w, err := attendance.ParseWindow(from, to)
	if err != nil {
		return err
	}
	r, err := cli.reports.Build(ctx, w)
	if err != nil {
		return err
	}
	if opts.json {
		enc := json.NewEncoder(cli.out)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	}
	cli.printReport(r, opts)
	return nil
}

func dayLabel(t time.Time) string {
	if t.IsZero() {
		return "*"
	}
	return t.Format(attendance.DateLayout)
}

func (cli *commandLine) printReport(r *report.Report, opts reportOptions) {
	fmt.Fprintf(cli.out, "Attendance report %s .. %s\n", dayLabel(r.Window.Start), dayLabel(r.Window.End))
	if len(r.Courses) == 0 {
		fmt.Fprintln(cli.out, "No students or courses found.")
	}

	for i, c := range r.Courses {
		sum := r.Summaries[i]
		fmt.Fprintf(cli.out, "\n%s - %s: %d/%d present (%.1f%%), %d student(s) with records\n",
			c.CourseCode, c.CourseName, sum.PresentCount, sum.TotalRecords, sum.AttendancePercentage, sum.StudentsWithRecords)

		tw := tabwriter.NewWriter(cli.out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "  STUDENT\tPRESENT\tTOTAL\tATTENDANCE")
		for _, s := range c.Students {
			if opts.hideEmpty && s.TotalRecords == 0 {
				continue
			}
			fmt.Fprintf(tw, "  %s %s\t%d\t%d\t%.1f%%\n",
				s.StudentFirstName, s.StudentLastName, s.PresentCount, s.TotalRecords, s.AttendancePercentage)
		}
		_ = tw.Flush()
	}

	if !opts.timeline {
		return
	}
	fmt.Fprintln(cli.out, "\nTimeline")
	if len(r.Timeline) == 0 {
		fmt.Fprintln(cli.out, "No attendance records found.")
		return
	}
	tw := tabwriter.NewWriter(cli.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "  DATE\tSTUDENT\tCOURSE\tSTATUS\tREMARKS")
	for _, e := range r.Timeline {
		remarks := e.Remarks
		if remarks == "" {
			remarks = "N/A"
		}
		fmt.Fprintf(tw, "  %s\t%s %s\t%s - %s\t%s\t%s\n",
			e.Date, e.StudentFirstName, e.StudentLastName, e.CourseCode, e.CourseName, e.Status, remarks)
	}
	_ = tw.Flush()
}
