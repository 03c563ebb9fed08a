package api

import (
	"database/sql"
	"errors"
	"log"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	apidb "github.com/nao1215/coursebooking/internal/api/db"
	"github.com/nao1215/coursebooking/pkg/middleware"
	"github.com/nao1215/coursebooking/pkg/password"
)

const (
	// mobileNoLength は携帯電話番号の桁数。
	mobileNoLength = 11
	// minPasswordLength はパスワードの最小文字数。バイト数ではなく文字数で数える。
	minPasswordLength = 8
)

// checkEmailRequest はメールアドレス重複確認リクエストのJSON構造。
type checkEmailRequest struct {
	Email string `json:"email"`
}

// registerRequest はユーザー登録リクエストのJSON構造。
type registerRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	MobileNo  string `json:"mobileNo"`
	Password  string `json:"password"`
}

// loginRequest はログインリクエストのJSON構造。
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// resetPasswordRequest はパスワード再設定リクエストのJSON構造。
type resetPasswordRequest struct {
	NewPassword string `json:"newPassword"`
}

// updateProfileRequest はプロフィール更新リクエストのJSON構造。
// 省略されたフィールドは変更しない。
type updateProfileRequest struct {
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	MobileNo  *string `json:"mobileNo"`
}

// setAdminRequest は管理者昇格リクエストのJSON構造。
type setAdminRequest struct {
	ID string `json:"id"`
}

// userResponse はユーザーのJSONレスポンス構造。パスワードハッシュは含めない。
type userResponse struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	MobileNo  string `json:"mobileNo"`
	IsAdmin   bool   `json:"isAdmin"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

// toUserResponse はDB行をJSONレスポンスに変換する。
func toUserResponse(u apidb.User) userResponse {
	return userResponse{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		MobileNo:  u.MobileNo,
		IsAdmin:   u.IsAdmin,
		CreatedAt: formatTime(u.CreatedAt),
		UpdatedAt: formatTime(u.UpdatedAt),
	}
}

// validEmail はメールアドレスの最低限の形式を確認する。
func validEmail(email string) bool {
	return strings.Contains(email, "@")
}

// nullString は省略可能な文字列をsql.NullStringに変換する。
func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

// handleCheckEmail はメールアドレスの重複確認を処理するハンドラを返す。
// 重複がある場合は409、無い場合は404を返す。
func (s *Server) handleCheckEmail() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req checkEmailRequest
		if !bindJSON(c, &req) {
			return
		}
		if !validEmail(req.Email) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid email format"})
			return
		}

		count, err := s.queries.CountUsersByEmail(c.Request.Context(), req.Email)
		if err != nil {
			respondStoreError(c, "メールアドレス確認", err)
			return
		}
		if count > 0 {
			c.JSON(http.StatusConflict, gin.H{"message": "Duplicate email found"})
			return
		}
		c.JSON(http.StatusNotFound, gin.H{"message": "No duplicate email found"})
	}
}

// handleRegister はユーザー登録を処理するハンドラを返す。
func (s *Server) handleRegister() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req registerRequest
		if !bindJSON(c, &req) {
			return
		}
		if !validEmail(req.Email) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid email format"})
			return
		}
		if utf8.RuneCountInString(req.MobileNo) != mobileNoLength {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Mobile number is invalid"})
			return
		}
		if utf8.RuneCountInString(req.Password) < minPasswordLength {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Password must be at least 8 characters long"})
			return
		}

		ctx := c.Request.Context()
		count, err := s.queries.CountUsersByEmail(ctx, req.Email)
		if err != nil {
			respondStoreError(c, "メールアドレス確認", err)
			return
		}
		if count > 0 {
			c.JSON(http.StatusConflict, gin.H{"message": "Duplicate email found"})
			return
		}

		hashed, err := password.Hash(req.Password)
		if errors.Is(err, password.ErrTooLong) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Password is too long"})
			return
		}
		if err != nil {
			respondStoreError(c, "パスワードハッシュ化", err)
			return
		}

		userID := uuid.New().String()
		if err := s.queries.CreateUser(ctx, apidb.CreateUserParams{
			ID:           userID,
			FirstName:    req.FirstName,
			LastName:     req.LastName,
			Email:        req.Email,
			MobileNo:     req.MobileNo,
			PasswordHash: hashed,
		}); err != nil {
			respondStoreError(c, "ユーザー作成", err)
			return
		}

		created, err := s.queries.GetUserByID(ctx, userID)
		if err != nil {
			respondStoreError(c, "ユーザー取得", err)
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"message": "User registered successfully",
			"user":    toUserResponse(created),
		})
	}
}

// handleLogin はログインを処理するハンドラを返す。
// 認証に成功した場合はアクセストークンを発行する。
func (s *Server) handleLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req loginRequest
		if !bindJSON(c, &req) {
			return
		}
		if !validEmail(req.Email) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid email format"})
			return
		}
		if req.Password == "" {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Password is required"})
			return
		}

		user, err := s.queries.GetUserByEmail(c.Request.Context(), req.Email)
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"message": "No email found"})
			return
		}
		if err != nil {
			respondStoreError(c, "ユーザー取得", err)
			return
		}

		if err := password.Compare(user.PasswordHash, req.Password); err != nil {
			if errors.Is(err, password.ErrMismatch) {
				c.JSON(http.StatusUnauthorized, gin.H{"message": "Incorrect email or password"})
				return
			}
			respondStoreError(c, "パスワード照合", err)
			return
		}

		token, err := s.codec.Issue(middleware.Identity{
			UserID:  user.ID,
			Email:   user.Email,
			IsAdmin: user.IsAdmin,
		})
		if err != nil {
			respondStoreError(c, "トークン発行", err)
			return
		}
		s.metrics.RecordTokenIssued()

		c.JSON(http.StatusOK, gin.H{
			"message": "User logged in successfully",
			"access":  token,
		})
	}
}

// handleGetProfile はログイン中のユーザー情報取得を処理するハンドラを返す。
func (s *Server) handleGetProfile() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := s.queries.GetUserByID(c.Request.Context(), middleware.GetUserID(c))
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
			return
		}
		if err != nil {
			respondStoreError(c, "ユーザー取得", err)
			return
		}

		c.JSON(http.StatusOK, toUserResponse(user))
	}
}

// handleResetPassword はログイン中のユーザーのパスワード再設定を処理するハンドラを返す。
func (s *Server) handleResetPassword() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req resetPasswordRequest
		if !bindJSON(c, &req) {
			return
		}
		if utf8.RuneCountInString(req.NewPassword) < minPasswordLength {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Password must be at least 8 characters"})
			return
		}

		hashed, err := password.Hash(req.NewPassword)
		if errors.Is(err, password.ErrTooLong) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Password is too long"})
			return
		}
		if err != nil {
			respondStoreError(c, "パスワードハッシュ化", err)
			return
		}

		n, err := s.queries.UpdateUserPassword(c.Request.Context(), apidb.UpdateUserPasswordParams{
			PasswordHash: hashed,
			ID:           middleware.GetUserID(c),
		})
		if err != nil {
			respondStoreError(c, "パスワード更新", err)
			return
		}
		if n == 0 {
			c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Password reset successfully"})
	}
}

// handleUpdateProfile はログイン中のユーザーのプロフィール更新を処理するハンドラを返す。
func (s *Server) handleUpdateProfile() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req updateProfileRequest
		if !bindJSON(c, &req) {
			return
		}

		ctx := c.Request.Context()
		userID := middleware.GetUserID(c)
		n, err := s.queries.UpdateUserProfile(ctx, apidb.UpdateUserProfileParams{
			FirstName: nullString(req.FirstName),
			LastName:  nullString(req.LastName),
			MobileNo:  nullString(req.MobileNo),
			ID:        userID,
		})
		if err != nil {
			respondStoreError(c, "プロフィール更新", err)
			return
		}
		if n == 0 {
			c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
			return
		}

		updated, err := s.queries.GetUserByID(ctx, userID)
		if err != nil {
			respondStoreError(c, "ユーザー取得", err)
			return
		}

		c.JSON(http.StatusOK, toUserResponse(updated))
	}
}

// handleSetAdmin は指定されたユーザーを管理者に昇格するハンドラを返す。
func (s *Server) handleSetAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req setAdminRequest
		if !bindJSON(c, &req) {
			return
		}

		n, err := s.queries.SetUserAdmin(c.Request.Context(), req.ID)
		if err != nil {
			log.Printf("管理者昇格エラー: %v", err)
			middleware.RespondError(c, &middleware.APIError{
				Status:  http.StatusInternalServerError,
				Message: "Error updating user.",
				Err:     err,
			})
			return
		}
		if n == 0 {
			c.JSON(http.StatusNotFound, gin.H{"message": "User not found."})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "User has been updated to admin."})
	}
}
