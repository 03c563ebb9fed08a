package api

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	apidb "github.com/nao1215/coursebooking/internal/api/db"
)

// addCourseRequest はコース追加リクエストのJSON構造。
type addCourseRequest struct {
	Name        string   `json:"name" binding:"required"`
	Description string   `json:"description" binding:"required"`
	Price       *float64 `json:"price" binding:"required,gte=0"`
}

// updateCourseRequest はコース更新リクエストのJSON構造。
// 省略されたフィールドは変更しない。
type updateCourseRequest struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price" binding:"omitempty,gte=0"`
}

// searchCourseRequest はコース検索リクエストのJSON構造。
type searchCourseRequest struct {
	Name     string   `json:"name"`
	MinPrice *float64 `json:"minPrice"`
	MaxPrice *float64 `json:"maxPrice"`
}

// courseResponse はコースのJSONレスポンス構造。
type courseResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	IsActive    bool    `json:"isActive"`
	CreatedOn   string  `json:"createdOn"`
}

// toCourseResponse はDB行をJSONレスポンスに変換する。
func toCourseResponse(c apidb.Course) courseResponse {
	return courseResponse{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		Price:       c.Price,
		IsActive:    c.IsActive,
		CreatedOn:   formatTime(c.CreatedOn),
	}
}

func toCourseResponses(courses []apidb.Course) []courseResponse {
	responses := make([]courseResponse, 0, len(courses))
	for _, c := range courses {
		responses = append(responses, toCourseResponse(c))
	}
	return responses
}

// nullFloat64 は省略可能な数値をsql.NullFloat64に変換する。
func nullFloat64(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}

// handleAddCourse はコース追加を処理するハンドラを返す。
// 同名のコースが存在する場合は409を返す。
func (s *Server) handleAddCourse() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req addCourseRequest
		if !bindJSON(c, &req) {
			return
		}

		ctx := c.Request.Context()
		_, err := s.queries.GetCourseByName(ctx, req.Name)
		if err == nil {
			c.JSON(http.StatusConflict, gin.H{"message": "Course already exists"})
			return
		}
		if !errors.Is(err, sql.ErrNoRows) {
			respondStoreError(c, "コース取得", err)
			return
		}

		courseID := uuid.New().String()
		if err := s.queries.CreateCourse(ctx, apidb.CreateCourseParams{
			ID:          courseID,
			Name:        req.Name,
			Description: req.Description,
			Price:       *req.Price,
		}); err != nil {
			respondStoreError(c, "コース作成", err)
			return
		}

		created, err := s.queries.GetCourseByID(ctx, courseID)
		if err != nil {
			respondStoreError(c, "コース取得", err)
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"success": true,
			"message": "Course added successfully",
			"result":  toCourseResponse(created),
		})
	}
}

// handleListCourses はアーカイブ済みを含む全コースの取得を処理するハンドラを返す。
func (s *Server) handleListCourses() gin.HandlerFunc {
	return func(c *gin.Context) {
		courses, err := s.queries.ListCourses(c.Request.Context())
		if err != nil {
			respondStoreError(c, "コース一覧取得", err)
			return
		}
		if len(courses) == 0 {
			c.JSON(http.StatusNotFound, gin.H{"message": "No courses found"})
			return
		}

		c.JSON(http.StatusOK, toCourseResponses(courses))
	}
}

// handleListActiveCourses は有効なコースの取得を処理するハンドラを返す。
func (s *Server) handleListActiveCourses() gin.HandlerFunc {
	return func(c *gin.Context) {
		courses, err := s.queries.ListActiveCourses(c.Request.Context())
		if err != nil {
			respondStoreError(c, "コース一覧取得", err)
			return
		}
		if len(courses) == 0 {
			c.JSON(http.StatusNotFound, gin.H{"message": "No active courses found"})
			return
		}

		c.JSON(http.StatusOK, toCourseResponses(courses))
	}
}

// handleGetCourse はコース詳細取得を処理するハンドラを返す。
func (s *Server) handleGetCourse() gin.HandlerFunc {
	return func(c *gin.Context) {
		course, err := s.queries.GetCourseByID(c.Request.Context(), c.Param("id"))
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Course not found"})
			return
		}
		if err != nil {
			respondStoreError(c, "コース取得", err)
			return
		}

		c.JSON(http.StatusOK, toCourseResponse(course))
	}
}

// handleUpdateCourse はコース更新を処理するハンドラを返す。
func (s *Server) handleUpdateCourse() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req updateCourseRequest
		if !bindJSON(c, &req) {
			return
		}

		n, err := s.queries.UpdateCourse(c.Request.Context(), apidb.UpdateCourseParams{
			Name:        nullString(req.Name),
			Description: nullString(req.Description),
			Price:       nullFloat64(req.Price),
			ID:          c.Param("courseId"),
		})
		if err != nil {
			respondStoreError(c, "コース更新", err)
			return
		}
		if n == 0 {
			c.JSON(http.StatusNotFound, gin.H{"message": "Course not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Course updated successfully",
		})
	}
}

// handleArchiveCourse はコースのアーカイブを処理するハンドラを返す。
// 既にアーカイブ済みの場合は変更せずにsuccess=falseを返す。
func (s *Server) handleArchiveCourse() gin.HandlerFunc {
	return func(c *gin.Context) {
		course, ok := s.loadCourse(c)
		if !ok {
			return
		}
		if !course.IsActive {
			c.JSON(http.StatusOK, gin.H{
				"success": false,
				"message": "Course already archived",
				"course":  toCourseResponse(course),
			})
			return
		}

		updated, ok := s.setCourseActive(c, course.ID, false)
		if !ok {
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Course archived successfully",
			"course":  toCourseResponse(updated),
		})
	}
}

// handleActivateCourse はアーカイブ済みコースの再有効化を処理するハンドラを返す。
func (s *Server) handleActivateCourse() gin.HandlerFunc {
	return func(c *gin.Context) {
		course, ok := s.loadCourse(c)
		if !ok {
			return
		}
		if course.IsActive {
			c.JSON(http.StatusOK, gin.H{
				"message": "Course already activated",
				"course":  toCourseResponse(course),
			})
			return
		}

		updated, ok := s.setCourseActive(c, course.ID, true)
		if !ok {
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success":       true,
			"message":       "Course activated successfully",
			"updatedCourse": toCourseResponse(updated),
		})
	}
}

// handleSearchCourses は名前と価格帯によるコース検索を処理するハンドラを返す。
// 該当が無い場合も200で空の配列を返す。
func (s *Server) handleSearchCourses() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req searchCourseRequest
		if !bindJSON(c, &req) {
			return
		}

		params := apidb.SearchCoursesParams{
			MinPrice: nullFloat64(req.MinPrice),
			MaxPrice: nullFloat64(req.MaxPrice),
		}
		if req.Name != "" {
			params.Name = sql.NullString{String: req.Name, Valid: true}
		}

		courses, err := s.queries.SearchCourses(c.Request.Context(), params)
		if err != nil {
			respondStoreError(c, "コース検索", err)
			return
		}

		c.JSON(http.StatusOK, toCourseResponses(courses))
	}
}

// loadCourse はパスパラメータcourseIdのコースを取得する。
// 見つからない場合はレスポンスを書き込んでfalseを返す。
func (s *Server) loadCourse(c *gin.Context) (apidb.Course, bool) {
	course, err := s.queries.GetCourseByID(c.Request.Context(), c.Param("courseId"))
	if errors.Is(err, sql.ErrNoRows) {
		c.JSON(http.StatusNotFound, gin.H{"message": "Course not found"})
		return apidb.Course{}, false
	}
	if err != nil {
		respondStoreError(c, "コース取得", err)
		return apidb.Course{}, false
	}
	return course, true
}

// setCourseActive はコースの有効状態を変更し、変更後のコースを返す。
func (s *Server) setCourseActive(c *gin.Context, id string, active bool) (apidb.Course, bool) {
	ctx := c.Request.Context()
	if _, err := s.queries.SetCourseActive(ctx, apidb.SetCourseActiveParams{
		IsActive: active,
		ID:       id,
	}); err != nil {
		respondStoreError(c, "コース状態更新", err)
		return apidb.Course{}, false
	}

	updated, err := s.queries.GetCourseByID(ctx, id)
	if err != nil {
		respondStoreError(c, "コース取得", err)
		return apidb.Course{}, false
	}
	return updated, true
}
