package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	apidb "github.com/nao1215/coursebooking/internal/api/db"
	"github.com/nao1215/coursebooking/pkg/middleware"
)

// enrolledCourseItem は受講登録に含まれるコース。
type enrolledCourseItem struct {
	CourseID string `json:"courseId" binding:"required"`
}

// enrollRequest は受講登録リクエストのJSON構造。
type enrollRequest struct {
	EnrolledCourses []enrolledCourseItem `json:"enrolledCourses" binding:"dive"`
	TotalPrice      *float64             `json:"totalPrice" binding:"required,gte=0"`
}

// enrollmentResponse は受講登録のJSONレスポンス構造。
type enrollmentResponse struct {
	ID              string               `json:"id"`
	UserID          string               `json:"userId"`
	EnrolledCourses []enrolledCourseItem `json:"enrolledCourses"`
	TotalPrice      float64              `json:"totalPrice"`
	EnrolledOn      string               `json:"enrolledOn"`
	Status          string               `json:"status"`
}

// handleEnroll は受講登録を処理するハンドラを返す。
// 管理者は受講登録できない。
func (s *Server) handleEnroll() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := middleware.GetClaims(c)
		if !ok {
			middleware.RespondError(c, &middleware.APIError{Status: http.StatusInternalServerError})
			return
		}
		if claims.IsAdmin {
			c.JSON(http.StatusForbidden, gin.H{"message": "Admin is forbidden"})
			return
		}

		var req enrollRequest
		if !bindJSON(c, &req) {
			return
		}

		enrollmentID := uuid.New().String()
		err := s.inTx(c.Request.Context(), func(ctx context.Context, q *apidb.Queries) error {
			if err := q.CreateEnrollment(ctx, apidb.CreateEnrollmentParams{
				ID:         enrollmentID,
				UserID:     claims.UserID,
				TotalPrice: *req.TotalPrice,
			}); err != nil {
				return err
			}
			for i, item := range req.EnrolledCourses {
				if err := q.AddEnrolledCourse(ctx, apidb.AddEnrolledCourseParams{
					EnrollmentID: enrollmentID,
					Position:     int64(i),
					CourseID:     item.CourseID,
				}); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			respondStoreError(c, "受講登録", err)
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"success": true,
			"message": "Enrolled successfully",
		})
	}
}

// handleGetEnrollments はログイン中のユーザーの受講登録一覧を返すハンドラを返す。
func (s *Server) handleGetEnrollments() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		userID := middleware.GetUserID(c)

		enrollments, err := s.queries.ListEnrollmentsByUserID(ctx, userID)
		if err != nil {
			respondStoreError(c, "受講登録取得", err)
			return
		}
		if len(enrollments) == 0 {
			c.JSON(http.StatusNotFound, gin.H{"message": "No enrolled courses"})
			return
		}

		courses, err := s.queries.ListEnrolledCoursesByUserID(ctx, userID)
		if err != nil {
			respondStoreError(c, "受講コース取得", err)
			return
		}
		byEnrollment := make(map[string][]enrolledCourseItem, len(enrollments))
		for _, ec := range courses {
			byEnrollment[ec.EnrollmentID] = append(byEnrollment[ec.EnrollmentID], enrolledCourseItem{CourseID: ec.CourseID})
		}

		responses := make([]enrollmentResponse, 0, len(enrollments))
		for _, e := range enrollments {
			items := byEnrollment[e.ID]
			if items == nil {
				items = []enrolledCourseItem{}
			}
			responses = append(responses, enrollmentResponse{
				ID:              e.ID,
				UserID:          e.UserID,
				EnrolledCourses: items,
				TotalPrice:      e.TotalPrice,
				EnrolledOn:      formatTime(e.EnrolledOn),
				Status:          e.Status,
			})
		}

		c.JSON(http.StatusOK, responses)
	}
}

// inTx はトランザクション内でfnを実行する。
// fnがエラーを返した場合やパニックした場合はロールバックする。
func (s *Server) inTx(ctx context.Context, fn func(ctx context.Context, q *apidb.Queries) error) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("トランザクション開始に失敗: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
			return
		}
		err = tx.Commit()
	}()

	return fn(ctx, s.queries.WithTx(tx))
}
