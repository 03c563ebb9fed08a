package api

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nao1215/coursebooking/db/migrations"
	apidb "github.com/nao1215/coursebooking/internal/api/db"
	"github.com/nao1215/coursebooking/pkg/metrics"
	"github.com/nao1215/coursebooking/pkg/middleware"
	"github.com/nao1215/coursebooking/pkg/migration"
	"github.com/prometheus/client_golang/prometheus"
	_ "modernc.org/sqlite"
)

// Server はコース予約APIのHTTPサーバー。
type Server struct {
	// router はGinのHTTPルーター。
	router *gin.Engine
	// port はサーバーのリッスンポート。
	port string
	// queries はエンティティストアへのクエリ実行オブジェクト。
	queries *apidb.Queries
	// db はSQLiteデータベース接続。
	db *sql.DB
	// codec はアクセストークンの発行と検証を行う。
	codec *middleware.Codec
	// metrics はPrometheusメトリクスの収集先。
	metrics *metrics.Collector
	// registry は/metricsで公開するレジストリ。
	registry *prometheus.Registry
}

// NewServer は新しいコース予約サーバーを生成する。
// SQLiteデータベースを開き、マイグレーションと管理者の作成を行う。
func NewServer(cfg Config) (*Server, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)", cfg.DBPath)
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("データベース接続に失敗: %w", err)
	}

	ctx := context.Background()
	if _, err := migration.Run(ctx, sqlDB, migrations.FS, "."); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("マイグレーションに失敗: %w", err)
	}

	s, err := newServer(cfg, sqlDB, prometheus.NewRegistry())
	if err != nil {
		sqlDB.Close()
		return nil, err
	}

	if err := s.seedAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("管理者の作成に失敗: %w", err)
	}
	return s, nil
}

// newServer はマイグレーション済みのデータベースからサーバーを組み立てる。
func newServer(cfg Config, sqlDB *sql.DB, reg *prometheus.Registry) (*Server, error) {
	codec, err := middleware.NewCodec(cfg.JWTSecret, middleware.WithExpiry(cfg.JWTExpiresIn))
	if err != nil {
		return nil, fmt.Errorf("トークンコーデックの初期化に失敗: %w", err)
	}

	collector := metrics.NewCollector(reg)

	router := gin.New()
	router.Use(middleware.Recovery())
	router.Use(gin.Logger())
	router.Use(middleware.CORS(cfg.CORSOrigins))
	router.Use(collector.Middleware())
	router.Use(middleware.ErrorHandler())

	s := &Server{
		router:   router,
		port:     cfg.Port,
		queries:  apidb.New(sqlDB),
		db:       sqlDB,
		codec:    codec,
		metrics:  collector,
		registry: reg,
	}
	s.setupRoutes()

	return s, nil
}

// Run はHTTPサーバーを起動する。
func (s *Server) Run() error {
	return s.router.Run(fmt.Sprintf(":%s", s.port))
}

// Close はデータベース接続を閉じる。
func (s *Server) Close() error {
	return s.db.Close()
}

// setupRoutes はAPIルーティングを設定する。
func (s *Server) setupRoutes() {
	auth := middleware.Authenticate(s.codec, middleware.WithAuthRecorder(s.metrics))
	admin := middleware.RequireAdmin(middleware.WithAuthRecorder(s.metrics))

	users := s.router.Group("/users")
	{
		users.POST("/check-email", s.handleCheckEmail())
		users.POST("/register", s.handleRegister())
		users.POST("/login", s.handleLogin())
		users.GET("/details", auth, s.handleGetProfile())
		users.POST("/reset-password", auth, s.handleResetPassword())
		users.PUT("/profile", auth, s.handleUpdateProfile())
		users.POST("/set-admin", auth, admin, s.handleSetAdmin())
	}

	courses := s.router.Group("/courses")
	{
		courses.POST("", auth, admin, s.handleAddCourse())
		courses.GET("/all", auth, admin, s.handleListCourses())
		courses.GET("", s.handleListActiveCourses())
		courses.GET("/specific/:id", s.handleGetCourse())
		courses.PATCH("/:courseId", auth, admin, s.handleUpdateCourse())
		courses.PATCH("/:courseId/archive", auth, admin, s.handleArchiveCourse())
		courses.PATCH("/:courseId/activate", auth, admin, s.handleActivateCourse())
		courses.POST("/search", s.handleSearchCourses())
	}

	enrollments := s.router.Group("/enrollments")
	enrollments.Use(auth)
	{
		enrollments.POST("/enroll", s.handleEnroll())
		enrollments.GET("/get-enrollments", s.handleGetEnrollments())
	}

	// ヘルスチェック
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "coursebooking"})
	})
	s.router.GET("/metrics", gin.WrapH(metrics.Handler(s.registry)))

	s.router.NoRoute(middleware.NotFound())
}
