package services

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"time"

	"course-portal/internal/core/domain"
)

// Window is a trailing time range measured back from now
type Window string

const (
	WindowAll      Window = "all"
	WindowWeek     Window = "week"
	WindowMonth    Window = "month"
	WindowSemester Window = "semester"
)

// Rate bands
const (
	StatusHigh   = "High"
	StatusMedium = "Medium"
	StatusLow    = "Low"
)

// topCourses is the length of the popularity ranking
const topCourses = 5

// csvHeader is the analytics export header row
var csvHeader = []string{"Course Code", "Course Title", "Category", "Enrollments", "Capacity", "Enrollment Rate (%)"}

// ParseWindow parses a window name; empty means all
func ParseWindow(s string) (Window, error) {
	switch w := Window(s); w {
	case "":
		return WindowAll, nil
	case WindowAll, WindowWeek, WindowMonth, WindowSemester:
		return w, nil
	default:
		return "", domain.NewValidationError(map[string]string{
			"window": "window must be one of all, week, month, semester",
		})
	}
}

// Start returns the earliest enrollment time counted by the window
func (w Window) Start(now time.Time) time.Time {
	day := 24 * time.Hour
	switch w {
	case WindowWeek:
		return now.Add(-7 * day)
	case WindowMonth:
		return now.Add(-30 * day)
	case WindowSemester:
		return now.Add(-90 * day)
	default:
		return time.Unix(0, 0)
	}
}

// CourseStat is the per-course line of an analytics report
type CourseStat struct {
	CourseID    int64   `json:"courseId"`
	Code        string  `json:"code"`
	Title       string  `json:"title"`
	Category    string  `json:"category"`
	Enrollments int     `json:"enrollments"`
	Capacity    int     `json:"capacity"`
	Rate        float64 `json:"rate"`
	Status      string  `json:"status"`
}

// Report is the analytics view for one window
type Report struct {
	Window           Window       `json:"window"`
	GeneratedAt      time.Time    `json:"generatedAt"`
	Courses          []CourseStat `json:"courses"`
	Top              []CourseStat `json:"top"`
	TotalEnrollments int          `json:"totalEnrollments"`
	AverageRate      float64      `json:"averageRate"`
}

// RateStatus bands an enrollment rate
func RateStatus(rate float64) string {
	switch {
	case rate >= 80:
		return StatusHigh
	case rate >= 50:
		return StatusMedium
	default:
		return StatusLow
	}
}

// Aggregate builds a report for courses from the enrollments made at or
// after the window start. Course order is kept.
func Aggregate(courses []domain.Course, enrollments []domain.Enrollment, window Window, now time.Time) *Report {
	start := window.Start(now)

	counts := make(map[int64]int, len(courses))
	for _, e := range enrollments {
		if !e.EnrolledAt.Before(start) {
			counts[e.CourseID()]++
		}
	}

	report := &Report{
		Window:      window,
		GeneratedAt: now,
		Courses:     make([]CourseStat, 0, len(courses)),
	}

	var rateSum float64
	for _, c := range courses {
		n := counts[c.ID]
		rate := 0.0
		if c.Capacity > 0 {
			rate = float64(n) / float64(c.Capacity) * 100
		}

		report.Courses = append(report.Courses, CourseStat{
			CourseID:    c.ID,
			Code:        c.Code,
			Title:       c.Title,
			Category:    c.Category,
			Enrollments: n,
			Capacity:    c.Capacity,
			Rate:        rate,
			Status:      RateStatus(rate),
		})
		report.TotalEnrollments += n
		rateSum += rate
	}
	if len(courses) > 0 {
		report.AverageRate = rateSum / float64(len(courses))
	}

	top := make([]CourseStat, len(report.Courses))
	copy(top, report.Courses)
	sort.SliceStable(top, func(i, j int) bool {
		return top[i].Enrollments > top[j].Enrollments
	})
	if len(top) > topCourses {
		top = top[:topCourses]
	}
	report.Top = top

	return report
}

// WriteCSV writes one row per course of the report
func WriteCSV(w io.Writer, report *Report) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, c := range report.Courses {
		row := []string{
			c.Code,
			c.Title,
			c.Category,
			strconv.Itoa(c.Enrollments),
			strconv.Itoa(c.Capacity),
			strconv.FormatFloat(c.Rate, 'f', 1, 64),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// CSVFilename returns course_analytics_<window>_<YYYY-MM-DD>.csv
func CSVFilename(window Window, now time.Time) string {
	return fmt.Sprintf("course_analytics_%s_%s.csv", window, now.Format("2006-01-02"))
}

// AnalyticsService reports enrollment figures for a faculty member's courses
type AnalyticsService struct {
	catalog     *CatalogService
	enrollments *EnrollmentService
}

// NewAnalyticsService creates a new analytics service
func NewAnalyticsService(catalog *CatalogService, enrollments *EnrollmentService) *AnalyticsService {
	return &AnalyticsService{
		catalog:     catalog,
		enrollments: enrollments,
	}
}

// Report aggregates the owner's active courses over window
func (s *AnalyticsService) Report(ctx context.Context, owner domain.User, window Window) (*Report, error) {
	courses, err := s.catalog.List(ctx, owner)
	if err != nil {
		return nil, err
	}
	courses = Active(courses)

	ids := make([]int64, 0, len(courses))
	for _, c := range courses {
		ids = append(ids, c.ID)
	}

	enrollments, err := s.enrollments.ForCourses(ctx, ids...)
	if err != nil {
		return nil, err
	}

	return Aggregate(courses, enrollments, window, nowFunc()), nil
}
