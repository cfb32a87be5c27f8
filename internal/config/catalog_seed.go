package config

import (
	"time"

	"course-portal/internal/core/domain"
)

// MockCatalog returns the shared student catalog seeded into an empty store.
// Enrolled counters are baseline figures for students outside this store.
func MockCatalog(now time.Time) []domain.Course {
	courses := []domain.Course{
		{ID: 1, Title: "Web Development Fundamentals", Code: "WEB101", Category: "Programming", Description: "Learn HTML, CSS, and JavaScript basics for web development.", Instructor: "Dr. Smith", Duration: "8 weeks", Level: domain.LevelBeginner, Capacity: 30, Enrolled: 15, StartDate: "2024-02-01", EndDate: "2024-03-28"},
		{ID: 2, Title: "Data Structures and Algorithms", Code: "DSA201", Category: "Programming", Description: "Master fundamental data structures and algorithmic thinking.", Instructor: "Prof. Johnson", Duration: "12 weeks", Level: domain.LevelIntermediate, Capacity: 25, Enrolled: 20, StartDate: "2024-02-15", EndDate: "2024-05-10"},
		{ID: 3, Title: "Digital Marketing Strategy", Code: "DIG301", Category: "Marketing", Description: "Comprehensive course on digital marketing strategies and tools.", Instructor: "Ms. Davis", Duration: "6 weeks", Level: domain.LevelBeginner, Capacity: 40, Enrolled: 35, StartDate: "2024-03-01", EndDate: "2024-04-12"},
		{ID: 4, Title: "Machine Learning Basics", Code: "ML401", Category: "Data Science", Description: "Introduction to machine learning concepts and applications.", Instructor: "Dr. Wilson", Duration: "10 weeks", Level: domain.LevelIntermediate, Capacity: 20, Enrolled: 18, StartDate: "2024-02-20", EndDate: "2024-05-01"},
		{ID: 5, Title: "Project Management", Code: "PM501", Category: "Management", Description: "Learn project management methodologies and best practices.", Instructor: "Mr. Brown", Duration: "8 weeks", Level: domain.LevelBeginner, Capacity: 35, Enrolled: 28, StartDate: "2024-03-10", EndDate: "2024-05-02"},
		{ID: 6, Title: "UI/UX Design Principles", Code: "UX601", Category: "Design", Description: "Master user interface and user experience design principles.", Instructor: "Ms. Garcia", Duration: "7 weeks", Level: domain.LevelBeginner, Capacity: 30, Enrolled: 22, StartDate: "2024-03-15", EndDate: "2024-05-03"},
		{ID: 7, Title: "Advanced Python Programming", Code: "PY701", Category: "Programming", Description: "Deep dive into advanced Python concepts and frameworks.", Instructor: "Dr. Lee", Duration: "9 weeks", Level: domain.LevelAdvanced, Capacity: 25, Enrolled: 15, StartDate: "2024-04-01", EndDate: "2024-06-01"},
		{ID: 8, Title: "Business Analytics", Code: "BA801", Category: "Data Science", Description: "Learn to analyze business data and make data-driven decisions.", Instructor: "Prof. Taylor", Duration: "8 weeks", Level: domain.LevelIntermediate, Capacity: 30, Enrolled: 25, StartDate: "2024-04-10", EndDate: "2024-06-05"},
	}

	for i := range courses {
		courses[i].IsActive = true
		courses[i].CreatedAt = now
		courses[i].UpdatedAt = now
		courses[i].Syllabus = []domain.SyllabusUnit{}
	}
	return courses
}

// FacultyDefaults returns the drafts every faculty member's list starts with
func FacultyDefaults() []domain.CourseDraft {
	return []domain.CourseDraft{
		{
			Title:       "Web Development Fundamentals",
			Code:        "WEB101",
			Category:    "Programming",
			Description: "Learn HTML, CSS, and JavaScript basics for web development.",
			Capacity:    30,
			Duration:    "8 weeks",
			Level:       domain.LevelBeginner,
		},
		{
			Title:       "Data Structures and Algorithms",
			Code:        "DSA201",
			Category:    "Programming",
			Description: "Master fundamental data structures and algorithmic thinking.",
			Capacity:    25,
			Duration:    "12 weeks",
			Level:       domain.LevelIntermediate,
		},
		{
			Title:       "Digital Marketing Strategy",
			Code:        "DIG301",
			Category:    "Marketing",
			Description: "Comprehensive course on digital marketing strategies and tools.",
			Capacity:    40,
			Duration:    "6 weeks",
			Level:       domain.LevelBeginner,
		},
	}
}
