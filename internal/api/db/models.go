package db

import "time"

// User はusersテーブルの行。
type User struct {
	ID           string
	FirstName    string
	LastName     string
	Email        string
	MobileNo     string
	PasswordHash string
	IsAdmin      bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Course はcoursesテーブルの行。
type Course struct {
	ID          string
	Name        string
	Description string
	Price       float64
	IsActive    bool
	CreatedOn   time.Time
}

// Enrollment はenrollmentsテーブルの行。
type Enrollment struct {
	ID         string
	UserID     string
	TotalPrice float64
	EnrolledOn time.Time
	Status     string
}

// EnrolledCourse はenrollment_coursesテーブルの行。
type EnrolledCourse struct {
	EnrollmentID string
	Position     int64
	CourseID     string
}
