package services

import (
	"bytes"
	"testing"
	"time"

	"course-portal/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func enrollmentsAt(courseID int64, n int, at time.Time) []domain.Enrollment {
	out := make([]domain.Enrollment, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, domain.Enrollment{Course: domain.Course{ID: courseID}, EnrolledAt: at})
	}
	return out
}

func TestAggregate_averageRate(t *testing.T) {
	now := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	courses := []domain.Course{
		{ID: 1, Code: "AAA100", Capacity: 10},
		{ID: 2, Code: "BBB200", Capacity: 20},
	}

	report := Aggregate(courses, enrollmentsAt(1, 5, now), WindowAll, now)
	assert.Equal(t, 25.0, report.AverageRate)
	assert.Equal(t, 5, report.TotalEnrollments)
	assert.Equal(t, 50.0, report.Courses[0].Rate)
	assert.Equal(t, StatusMedium, report.Courses[0].Status)
	assert.Equal(t, 0.0, report.Courses[1].Rate)
	assert.Equal(t, StatusLow, report.Courses[1].Status)
}

func TestAggregate_windows(t *testing.T) {
	now := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	courses := []domain.Course{{ID: 1, Capacity: 10}}

	var enrollments []domain.Enrollment
	enrollments = append(enrollments, enrollmentsAt(1, 1, now.Add(-2*24*time.Hour))...)
	enrollments = append(enrollments, enrollmentsAt(1, 2, now.Add(-20*24*time.Hour))...)
	enrollments = append(enrollments, enrollmentsAt(1, 3, now.Add(-60*24*time.Hour))...)
	enrollments = append(enrollments, enrollmentsAt(1, 4, now.Add(-400*24*time.Hour))...)
	enrollments = append(enrollments, enrollmentsAt(1, 5, now.Add(-7*24*time.Hour))...)

	tests := []struct {
		window Window
		want   int
	}{
		{WindowWeek, 6},
		{WindowMonth, 8},
		{WindowSemester, 11},
		{WindowAll, 15},
	}
	for _, tt := range tests {
		t.Run(string(tt.window), func(t *testing.T) {
			report := Aggregate(courses, enrollments, tt.window, now)
			assert.Equal(t, tt.want, report.Courses[0].Enrollments)
		})
	}
}

func TestAggregate_zeroCapacity(t *testing.T) {
	now := time.Now()
	report := Aggregate([]domain.Course{{ID: 1}}, enrollmentsAt(1, 3, now), WindowAll, now)
	assert.Equal(t, 0.0, report.Courses[0].Rate)

	empty := Aggregate(nil, nil, WindowAll, now)
	assert.Equal(t, 0.0, empty.AverageRate)
	assert.Empty(t, empty.Top)
}

func TestAggregate_top(t *testing.T) {
	now := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	var courses []domain.Course
	var enrollments []domain.Enrollment
	counts := []int{1, 4, 2, 4, 0, 3, 1}
	for i, n := range counts {
		id := int64(i + 1)
		courses = append(courses, domain.Course{ID: id, Code: string(rune('A' + i)), Capacity: 10})
		enrollments = append(enrollments, enrollmentsAt(id, n, now)...)
	}

	report := Aggregate(courses, enrollments, WindowAll, now)
	require.Len(t, report.Top, 5)

	var got []string
	for _, c := range report.Top {
		got = append(got, c.Code)
	}
	assert.Equal(t, []string{"B", "D", "F", "C", "A"}, got)
	assert.Equal(t, "A", report.Courses[0].Code, "course order is kept")
}

func TestRateStatus(t *testing.T) {
	assert.Equal(t, StatusHigh, RateStatus(80))
	assert.Equal(t, StatusMedium, RateStatus(79.9))
	assert.Equal(t, StatusMedium, RateStatus(50))
	assert.Equal(t, StatusLow, RateStatus(49.9))
}

func TestParseWindow(t *testing.T) {
	w, err := ParseWindow("")
	require.NoError(t, err)
	assert.Equal(t, WindowAll, w)

	w, err = ParseWindow("semester")
	require.NoError(t, err)
	assert.Equal(t, WindowSemester, w)

	_, err = ParseWindow("decade")
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))
}

func TestWriteCSV(t *testing.T) {
	report := &Report{Courses: []CourseStat{
		{Code: "WEB101", Title: "Web Development Fundamentals", Category: "Programming", Enrollments: 1, Capacity: 3, Rate: 100.0 / 3},
		{Code: "DIG301", Title: "Marketing, Digital", Category: "Marketing", Enrollments: 0, Capacity: 40},
	}}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, report))
	assert.Equal(t,
		"Course Code,Course Title,Category,Enrollments,Capacity,Enrollment Rate (%)\n"+
			"WEB101,Web Development Fundamentals,Programming,1,3,33.3\n"+
			"DIG301,\"Marketing, Digital\",Marketing,0,40,0.0\n",
		buf.String())
}

func TestCSVFilename(t *testing.T) {
	now := time.Date(2024, 3, 9, 15, 0, 0, 0, time.UTC)
	assert.Equal(t, "course_analytics_month_2024-03-09.csv", CSVFilename(WindowMonth, now))
}

func TestAnalyticsService_Report(t *testing.T) {
	env := setup(t)
	faculty := mockFaculty()

	courses, err := env.catalog.List(env.ctx, faculty)
	require.NoError(t, err)

	_, err = env.enrollments.Enroll(env.ctx, mockStudent(), courses[0].ID)
	require.NoError(t, err)
	// an enrollment in a course the faculty does not own is not counted
	_, err = env.enrollments.Enroll(env.ctx, mockStudent(), 4)
	require.NoError(t, err)

	report, err := env.analytics.Report(env.ctx, faculty, WindowWeek)
	require.NoError(t, err)
	require.Len(t, report.Courses, 3)
	assert.Equal(t, 1, report.TotalEnrollments)
	assert.Equal(t, 1, report.Courses[0].Enrollments)
	assert.Equal(t, "WEB101", report.Top[0].Code)

	_, err = env.catalog.SoftDelete(env.ctx, faculty, courses[2].ID)
	require.NoError(t, err)
	report, err = env.analytics.Report(env.ctx, faculty, WindowAll)
	require.NoError(t, err)
	assert.Len(t, report.Courses, 2)
}
