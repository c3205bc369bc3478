package handlers

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/yigit/coursedesk/internal/app/repositories"
	"github.com/yigit/coursedesk/internal/app/resultset"
	"github.com/yigit/coursedesk/internal/pkg/apperrors"
	"github.com/yigit/coursedesk/internal/pkg/export"
	"github.com/yigit/coursedesk/internal/pkg/helpers"
)

// StoreOfferer offers a result set for export
type StoreOfferer interface {
	Offer(ctx context.Context, c export.Cursor) (*export.Result, error)
}

// Options tune the query handlers
type Options struct {
	// QueryTimeout bounds each display query when positive
	QueryTimeout time.Duration
	// FailMarkCeiling limits lf to marks at or below it when positive
	FailMarkCeiling int64
}

// QueryHandlers implements the query commands
type QueryHandlers struct {
	repos  *repositories.Repositories
	prompt StoreOfferer
	out    io.Writer
	opts   Options
}

// NewQueryHandlers creates a new QueryHandlers
func NewQueryHandlers(repos *repositories.Repositories, prompt StoreOfferer, out io.Writer, opts Options) *QueryHandlers {
	return &QueryHandlers{repos: repos, prompt: prompt, out: out, opts: opts}
}

// Commands returns the command table
func (h *QueryHandlers) Commands() []Command {
	return []Command{
		{Name: "d", Args: 0, Handler: h.Demo},
		{Name: "vs", Args: 1, Handler: h.ViewSubjects},
		{Name: "la", Args: 2, Handler: h.LookupAddress},
		{Name: "lr", Args: 1, Handler: h.ListReviews},
		{Name: "lc", Args: 1, Handler: h.ListCourses},
		{Name: "lnc", Args: 0, Handler: h.ListIncomplete},
		{Name: "lf", Args: 0, Handler: h.ListCompleted},
		{Name: "e", Args: 0, Handler: h.Exit},
	}
}

// displayContext applies the query timeout. The primary query is not bounded
// since its cursor stays open while the user answers the store prompt.
func (h *QueryHandlers) displayContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if h.opts.QueryTimeout > 0 {
		return context.WithTimeout(ctx, h.opts.QueryTimeout)
	}
	return context.WithCancel(ctx)
}

// offer opens the primary result set and hands it to the store prompt
func (h *QueryHandlers) offer(ctx context.Context, open func(context.Context) (*resultset.ResultSet, error)) error {
	rs, err := open(ctx)
	if err != nil {
		return err
	}
	defer rs.Close()

	_, err = h.prompt.Offer(ctx, rs)
	return err
}

func parseID(name, value string) (int64, error) {
	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, apperrors.NewInvalidArgumentError(name, value)
	}
	return id, nil
}

// Demo prints every student's name
func (h *QueryHandlers) Demo(ctx context.Context, _ []string) error {
	qctx, cancel := h.displayContext(ctx)
	defer cancel()

	names, err := h.repos.StudentRepository.ListNames(qctx)
	if err != nil {
		return err
	}
	for _, n := range names {
		fmt.Fprintln(h.out, n.String())
	}
	return nil
}

// ViewSubjects prints the courses a student takes
func (h *QueryHandlers) ViewSubjects(ctx context.Context, args []string) error {
	studentID, err := parseID("student id", args[0])
	if err != nil {
		return err
	}

	qctx, cancel := h.displayContext(ctx)
	courses, err := h.repos.CourseRepository.NamesByStudent(qctx, studentID)
	cancel()
	if err != nil {
		return err
	}

	fmt.Fprintln(h.out, "Courses:")
	for _, c := range courses {
		fmt.Fprintln(h.out, helpers.Sanitize(c.Name))
	}

	return h.offer(ctx, func(ctx context.Context) (*resultset.ResultSet, error) {
		return h.repos.CourseRepository.EnrollmentRows(ctx, studentID)
	})
}

// LookupAddress prints the address of the students with a given name
func (h *QueryHandlers) LookupAddress(ctx context.Context, args []string) error {
	firstName, lastName := args[0], args[1]

	qctx, cancel := h.displayContext(ctx)
	lines, err := h.repos.StudentRepository.AddressLines(qctx, firstName, lastName)
	cancel()
	if err != nil {
		return err
	}

	if len(lines) == 0 {
		fmt.Fprintln(h.out, "Address: ")
	}
	for _, a := range lines {
		fmt.Fprintf(h.out, "Address: %s\n", a.String())
	}

	return h.offer(ctx, func(ctx context.Context) (*resultset.ResultSet, error) {
		return h.repos.StudentRepository.AddressRows(ctx, firstName, lastName)
	})
}

// ListReviews prints every review of a student
func (h *QueryHandlers) ListReviews(ctx context.Context, args []string) error {
	studentID, err := parseID("student id", args[0])
	if err != nil {
		return err
	}

	qctx, cancel := h.displayContext(ctx)
	reviews, err := h.repos.ReviewRepository.SummariesByStudent(qctx, studentID)
	cancel()
	if err != nil {
		return err
	}

	for i, r := range reviews {
		fmt.Fprintf(h.out, "Review %d:\nCompleteness: %s\nEfficiency: %s\nStyle: %s\nDocumentation: %s\nNotes: %s\n\n\n",
			i+1,
			helpers.Sanitize(r.Completeness),
			helpers.Sanitize(r.Efficiency),
			helpers.Sanitize(r.Style),
			helpers.Sanitize(r.Documentation),
			helpers.Sanitize(r.Notes),
		)
	}

	return h.offer(ctx, func(ctx context.Context) (*resultset.ResultSet, error) {
		return h.repos.ReviewRepository.RowsByStudent(ctx, studentID)
	})
}

// ListCourses prints the courses a teacher gives
func (h *QueryHandlers) ListCourses(ctx context.Context, args []string) error {
	teacherID, err := parseID("teacher id", args[0])
	if err != nil {
		return err
	}

	qctx, cancel := h.displayContext(ctx)
	courses, err := h.repos.CourseRepository.NamesByTeacher(qctx, teacherID)
	cancel()
	if err != nil {
		return err
	}

	for i, c := range courses {
		fmt.Fprintf(h.out, "Course %d: %s\n", i+1, helpers.Sanitize(c.Name))
	}

	return h.offer(ctx, func(ctx context.Context) (*resultset.ResultSet, error) {
		return h.repos.CourseRepository.RowsByTeacher(ctx, teacherID)
	})
}

// ListIncomplete prints every enrollment that is not complete
func (h *QueryHandlers) ListIncomplete(ctx context.Context, _ []string) error {
	return h.listEnrollments(ctx, repositories.EnrollmentFilter{Complete: false}, false)
}

// ListCompleted prints every completed enrollment with its mark
func (h *QueryHandlers) ListCompleted(ctx context.Context, _ []string) error {
	filter := repositories.EnrollmentFilter{Complete: true, MarkCeiling: h.opts.FailMarkCeiling}
	return h.listEnrollments(ctx, filter, true)
}

func (h *QueryHandlers) listEnrollments(ctx context.Context, filter repositories.EnrollmentFilter, withMarks bool) error {
	qctx, cancel := h.displayContext(ctx)
	details, err := h.repos.EnrollmentRepository.Details(qctx, filter)
	cancel()
	if err != nil {
		return err
	}

	for _, d := range details {
		fmt.Fprintf(h.out, "\nStudent number: %d\nFirst name: %s\nLast name: %s\nEmail: %s\nCourse name: %s\n",
			d.StudentID, d.FirstName, d.LastName, d.Email, d.CourseName)
		if withMarks {
			fmt.Fprintf(h.out, "Marks: %s\n", helpers.NullInt64Text(helpers.GetNullInt64(d.Mark)))
		}
	}

	return h.offer(ctx, func(ctx context.Context) (*resultset.ResultSet, error) {
		return h.repos.EnrollmentRepository.Rows(ctx, filter)
	})
}

// Exit prints the farewell and ends the loop
func (h *QueryHandlers) Exit(context.Context, []string) error {
	fmt.Fprintln(h.out, "Programme exited successfully!")
	return apperrors.ErrExitRequested
}
