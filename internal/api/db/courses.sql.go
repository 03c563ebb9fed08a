package db

import (
	"context"
	"database/sql"
)

const courseColumns = `id, name, description, price, is_active, created_on`

func scanCourse(row interface{ Scan(...any) error }) (Course, error) {
	var c Course
	err := row.Scan(
		&c.ID,
		&c.Name,
		&c.Description,
		&c.Price,
		&c.IsActive,
		&c.CreatedOn,
	)
	return c, err
}

func (q *Queries) listCourses(ctx context.Context, query string, args ...any) ([]Course, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Course
	for rows.Next() {
		c, err := scanCourse(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const createCourse = `INSERT INTO courses (id, name, description, price) VALUES (?, ?, ?, ?)`

// CreateCourseParams はCreateCourseの引数。
type CreateCourseParams struct {
	ID          string
	Name        string
	Description string
	Price       float64
}

func (q *Queries) CreateCourse(ctx context.Context, arg CreateCourseParams) error {
	_, err := q.db.ExecContext(ctx, createCourse,
		arg.ID,
		arg.Name,
		arg.Description,
		arg.Price,
	)
	return err
}

const getCourseByID = `SELECT ` + courseColumns + ` FROM courses WHERE id = ?`

func (q *Queries) GetCourseByID(ctx context.Context, id string) (Course, error) {
	return scanCourse(q.db.QueryRowContext(ctx, getCourseByID, id))
}

const getCourseByName = `SELECT ` + courseColumns + ` FROM courses WHERE name = ? ORDER BY created_on LIMIT 1`

func (q *Queries) GetCourseByName(ctx context.Context, name string) (Course, error) {
	return scanCourse(q.db.QueryRowContext(ctx, getCourseByName, name))
}

const listCourses = `SELECT ` + courseColumns + ` FROM courses ORDER BY created_on, rowid`

func (q *Queries) ListCourses(ctx context.Context) ([]Course, error) {
	return q.listCourses(ctx, listCourses)
}

const listActiveCourses = `SELECT ` + courseColumns + ` FROM courses WHERE is_active = 1 ORDER BY created_on, rowid`

func (q *Queries) ListActiveCourses(ctx context.Context) ([]Course, error) {
	return q.listCourses(ctx, listActiveCourses)
}

// NULLのカラムは更新しない。
const updateCourse = `UPDATE courses SET
    name = COALESCE(?, name),
    description = COALESCE(?, description),
    price = COALESCE(?, price)
WHERE id = ?`

// UpdateCourseParams はUpdateCourseの引数。
type UpdateCourseParams struct {
	Name        sql.NullString
	Description sql.NullString
	Price       sql.NullFloat64
	ID          string
}

// UpdateCourse は更新した行数を返す。
func (q *Queries) UpdateCourse(ctx context.Context, arg UpdateCourseParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, updateCourse,
		arg.Name,
		arg.Description,
		arg.Price,
		arg.ID,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const setCourseActive = `UPDATE courses SET is_active = ? WHERE id = ?`

// SetCourseActiveParams はSetCourseActiveの引数。
type SetCourseActiveParams struct {
	IsActive bool
	ID       string
}

// SetCourseActive は更新した行数を返す。
func (q *Queries) SetCourseActive(ctx context.Context, arg SetCourseActiveParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, setCourseActive, arg.IsActive, arg.ID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// 名前は大文字小文字を区別しない部分一致。NULLの条件は無視する。
const searchCourses = `SELECT ` + courseColumns + ` FROM courses
WHERE (? IS NULL OR instr(lower(name), lower(?)) > 0)
  AND (? IS NULL OR price >= ?)
  AND (? IS NULL OR price <= ?)
ORDER BY created_on, rowid`

// SearchCoursesParams はSearchCoursesの引数。
type SearchCoursesParams struct {
	Name     sql.NullString
	MinPrice sql.NullFloat64
	MaxPrice sql.NullFloat64
}

func (q *Queries) SearchCourses(ctx context.Context, arg SearchCoursesParams) ([]Course, error) {
	return q.listCourses(ctx, searchCourses,
		arg.Name, arg.Name,
		arg.MinPrice, arg.MinPrice,
		arg.MaxPrice, arg.MaxPrice,
	)
}
