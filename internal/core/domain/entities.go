package domain

import (
	"encoding/json"
	"time"
)

// Role represents user role in the portal
type Role string

const (
	RoleStudent Role = "student"
	RoleFaculty Role = "faculty"
)

// Valid reports whether r is a known role
func (r Role) Valid() bool {
	return r == RoleStudent || r == RoleFaculty
}

// User represents a portal user. Password is never part of the public profile.
type User struct {
	ID                 int64  `json:"id"`
	Name               string `json:"name"`
	Email              string `json:"email"`
	Role               Role   `json:"role"`
	RegistrationNumber string `json:"registrationNumber,omitempty"`
	Department         string `json:"department,omitempty"`
}

// RegisteredUser is a registry entry. It carries the password hash and is
// only ever read by the session service.
type RegisteredUser struct {
	User
	Password string `json:"password"`
}

// Session represents the authenticated identity and its token pair
type Session struct {
	User         *User  `json:"user"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// Authenticated is true iff both user and access token are present
func (s Session) Authenticated() bool {
	return s.User != nil && s.AccessToken != ""
}

// Level represents course difficulty
type Level string

const (
	LevelBeginner     Level = "Beginner"
	LevelIntermediate Level = "Intermediate"
	LevelAdvanced     Level = "Advanced"
)

// Rank orders levels Beginner < Intermediate < Advanced; unknown levels sort last
func (l Level) Rank() int {
	switch l {
	case LevelBeginner:
		return 1
	case LevelIntermediate:
		return 2
	case LevelAdvanced:
		return 3
	default:
		return 4
	}
}

// Categories is the fixed category list offered to faculty
var Categories = []string{
	"Programming",
	"Marketing",
	"Data Science",
	"Management",
	"Design",
	"Business",
	"Language",
	"Other",
}

// SyllabusUnit is one ordered entry of a course syllabus.
// Label is either a week number ("Week 3") or a module name.
type SyllabusUnit struct {
	Label      string   `json:"label" validate:"required"`
	Topic      string   `json:"topic" validate:"required"`
	Tutorials  []string `json:"tutorials"`
	VideoLinks []string `json:"videoLinks"`
}

// Course represents a catalog entry
type Course struct {
	ID          int64          `json:"id"`
	OwnerID     int64          `json:"ownerId,omitempty"`
	Title       string         `json:"title"`
	Code        string         `json:"code"`
	Category    string         `json:"category"`
	Description string         `json:"description"`
	Capacity    int            `json:"capacity"`
	Enrolled    int            `json:"enrolled"`
	Duration    string         `json:"duration"`
	Level       Level          `json:"level"`
	Instructor  string         `json:"instructor"`
	StartDate   string         `json:"startDate,omitempty"`
	EndDate     string         `json:"endDate,omitempty"`
	IsActive    bool           `json:"isActive"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
	Syllabus    []SyllabusUnit `json:"syllabus"`
}

// UnmarshalJSON accepts the legacy maxStudents field as capacity
func (c *Course) UnmarshalJSON(data []byte) error {
	type plain Course
	aux := struct {
		*plain
		MaxStudents *int `json:"maxStudents,omitempty"`
	}{plain: (*plain)(c)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if c.Capacity == 0 && aux.MaxStudents != nil {
		c.Capacity = *aux.MaxStudents
	}
	return nil
}

// IsFull reports whether no seats are left
func (c Course) IsFull() bool {
	return c.Enrolled >= c.Capacity
}

// SeatsLeft returns the remaining capacity, never negative
func (c Course) SeatsLeft() int {
	if c.Enrolled >= c.Capacity {
		return 0
	}
	return c.Capacity - c.Enrolled
}

// CourseDraft is the faculty-editable part of a course
type CourseDraft struct {
	Title       string         `json:"title" validate:"required"`
	Code        string         `json:"code" validate:"required,coursecode"`
	Category    string         `json:"category" validate:"required,category"`
	Description string         `json:"description" validate:"required"`
	Capacity    int            `json:"capacity" validate:"min=1"`
	Duration    string         `json:"duration" validate:"required"`
	Level       Level          `json:"level" validate:"omitempty,oneof=Beginner Intermediate Advanced"`
	StartDate   string         `json:"startDate" validate:"omitempty,datetime=2006-01-02"`
	EndDate     string         `json:"endDate" validate:"omitempty,datetime=2006-01-02"`
	Syllabus    []SyllabusUnit `json:"syllabus" validate:"dive"`
}

// Enrollment links one student to one course at one point in time.
// Course is a snapshot taken at enrollment time.
type Enrollment struct {
	ID                 string    `json:"id"`
	StudentID          int64     `json:"studentId"`
	StudentName        string    `json:"studentName"`
	RegistrationNumber string    `json:"registrationNumber,omitempty"`
	Course             Course    `json:"course"`
	EnrolledAt         time.Time `json:"enrolledAt"`
}

// CourseID returns the id of the enrolled course
func (e Enrollment) CourseID() int64 {
	return e.Course.ID
}

// ConfirmationRequest is returned to the caller when a destructive action
// needs an explicit yes before it is carried out
type ConfirmationRequest struct {
	Action   string `json:"action"`
	CourseID int64  `json:"courseId"`
	Message  string `json:"message"`
}
