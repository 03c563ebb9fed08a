package db

import "context"

const createEnrollment = `INSERT INTO enrollments (id, user_id, total_price) VALUES (?, ?, ?)`

// CreateEnrollmentParams はCreateEnrollmentの引数。
type CreateEnrollmentParams struct {
	ID         string
	UserID     string
	TotalPrice float64
}

func (q *Queries) CreateEnrollment(ctx context.Context, arg CreateEnrollmentParams) error {
	_, err := q.db.ExecContext(ctx, createEnrollment, arg.ID, arg.UserID, arg.TotalPrice)
	return err
}

const addEnrolledCourse = `INSERT INTO enrollment_courses (enrollment_id, position, course_id) VALUES (?, ?, ?)`

// AddEnrolledCourseParams はAddEnrolledCourseの引数。
type AddEnrolledCourseParams struct {
	EnrollmentID string
	Position     int64
	CourseID     string
}

func (q *Queries) AddEnrolledCourse(ctx context.Context, arg AddEnrolledCourseParams) error {
	_, err := q.db.ExecContext(ctx, addEnrolledCourse, arg.EnrollmentID, arg.Position, arg.CourseID)
	return err
}

const listEnrollmentsByUserID = `SELECT id, user_id, total_price, enrolled_on, status
FROM enrollments WHERE user_id = ? ORDER BY enrolled_on, rowid`

func (q *Queries) ListEnrollmentsByUserID(ctx context.Context, userID string) ([]Enrollment, error) {
	rows, err := q.db.QueryContext(ctx, listEnrollmentsByUserID, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Enrollment
	for rows.Next() {
		var e Enrollment
		if err := rows.Scan(&e.ID, &e.UserID, &e.TotalPrice, &e.EnrolledOn, &e.Status); err != nil {
			return nil, err
		}
		items = append(items, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const listEnrolledCoursesByUserID = `SELECT ec.enrollment_id, ec.position, ec.course_id
FROM enrollment_courses ec
JOIN enrollments e ON e.id = ec.enrollment_id
WHERE e.user_id = ?
ORDER BY ec.enrollment_id, ec.position`

func (q *Queries) ListEnrolledCoursesByUserID(ctx context.Context, userID string) ([]EnrolledCourse, error) {
	rows, err := q.db.QueryContext(ctx, listEnrolledCoursesByUserID, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []EnrolledCourse
	for rows.Next() {
		var ec EnrolledCourse
		if err := rows.Scan(&ec.EnrollmentID, &ec.Position, &ec.CourseID); err != nil {
			return nil, err
		}
		items = append(items, ec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
