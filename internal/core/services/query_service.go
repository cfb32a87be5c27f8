package services

import (
	"math"
	"sort"
	"strings"
	"time"

	"course-portal/internal/core/domain"
	"course-portal/internal/pkg/pagination"
)

// SortKey selects the catalog ordering
type SortKey string

const (
	SortNone  SortKey = ""
	SortTitle SortKey = "title"
	SortDate  SortKey = "date"
	SortLevel SortKey = "level"
)

// CatalogQuery describes one view over a course list
type CatalogQuery struct {
	Search   string
	Category string
	Sort     SortKey
	Page     int
}

// CatalogView is a filtered, sorted page of courses
type CatalogView struct {
	Courses    []domain.Course  `json:"courses"`
	Categories []string         `json:"categories"`
	Meta       *pagination.Meta `json:"meta"`
}

// StudentStats summarizes the student dashboard
type StudentStats struct {
	Enrolled  int `json:"enrolled"`
	Available int `json:"available"`
	Progress  int `json:"progress"`
}

// Query derives views over course lists. It holds no state besides the page size.
type Query struct {
	pageSize int
}

// NewQuery creates a query layer with a fixed page size
func NewQuery(pageSize int) *Query {
	if pageSize < 1 {
		pageSize = pagination.DefaultLimit
	}
	return &Query{pageSize: pageSize}
}

// PageSize returns the fixed page size
func (q *Query) PageSize() int {
	return q.pageSize
}

// View filters, sorts and paginates courses. Meta counts the filtered list.
func (q *Query) View(courses []domain.Course, query CatalogQuery) CatalogView {
	filtered := SortCourses(Filter(courses, query.Search, query.Category), query.Sort)

	params := pagination.NewParams(query.Page, q.pageSize)
	start, end := pagination.Bounds(params, len(filtered))

	return CatalogView{
		Courses:    filtered[start:end],
		Categories: CategoriesOf(courses),
		Meta:       pagination.GetMeta(params, len(filtered)),
	}
}

// Filter keeps courses whose title, code or description contain search
// (case-insensitive) and whose category equals category. Empty arguments
// match everything.
func Filter(courses []domain.Course, search, category string) []domain.Course {
	term := strings.ToLower(strings.TrimSpace(search))

	out := make([]domain.Course, 0, len(courses))
	for _, c := range courses {
		if category != "" && c.Category != category {
			continue
		}
		if term != "" &&
			!strings.Contains(strings.ToLower(c.Title), term) &&
			!strings.Contains(strings.ToLower(c.Code), term) &&
			!strings.Contains(strings.ToLower(c.Description), term) {
			continue
		}
		out = append(out, c)
	}
	return out
}

// SortCourses returns a sorted copy of courses. The sort is stable; an
// unknown key keeps the input order.
func SortCourses(courses []domain.Course, key SortKey) []domain.Course {
	out := make([]domain.Course, len(courses))
	copy(out, courses)

	var less func(a, b domain.Course) bool
	switch key {
	case SortTitle:
		less = func(a, b domain.Course) bool {
			return strings.ToLower(a.Title) < strings.ToLower(b.Title)
		}
	case SortDate:
		less = func(a, b domain.Course) bool {
			ta, okA := parseDate(a.StartDate)
			tb, okB := parseDate(b.StartDate)
			if okA != okB {
				return okA // undated courses go last
			}
			return okA && ta.Before(tb)
		}
	case SortLevel:
		less = func(a, b domain.Course) bool {
			return a.Level.Rank() < b.Level.Rank()
		}
	default:
		return out
	}

	sort.SliceStable(out, func(i, j int) bool {
		return less(out[i], out[j])
	})
	return out
}

// CategoriesOf returns the distinct categories of courses in first-seen order
func CategoriesOf(courses []domain.Course) []string {
	seen := make(map[string]bool)
	out := []string{}
	for _, c := range courses {
		if c.Category == "" || seen[c.Category] {
			continue
		}
		seen[c.Category] = true
		out = append(out, c.Category)
	}
	return out
}

// Stats computes the student dashboard figures. Available is the number of
// courses in the student's current filtered view.
func Stats(enrolled, available int) StudentStats {
	stats := StudentStats{Enrolled: enrolled, Available: available}
	if total := enrolled + available; total > 0 {
		stats.Progress = int(math.Round(float64(enrolled) / float64(total) * 100))
	}
	return stats
}

func parseDate(s string) (time.Time, bool) {
	t, err := time.Parse("2006-01-02", s)
	return t, err == nil
}
