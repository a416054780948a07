package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/foraginglink/backend/internal/config"
	"github.com/foraginglink/backend/internal/database"
	"github.com/foraginglink/backend/internal/handlers"
	"github.com/foraginglink/backend/internal/middleware"
	"github.com/foraginglink/backend/internal/services"
)

type Server struct {
	cfg     *config.Config
	handler *handlers.Handler
	tokens  *services.TokenIssuer
	logger  *slog.Logger
}

// NewServer creates and configures a new server
func NewServer(cfg *config.Config, db database.Service, svcs *services.Services, log *slog.Logger) *http.Server {
	s := &Server{
		cfg:     cfg,
		handler: handlers.NewHandler(db, svcs, log),
		tokens:  svcs.Tokens,
		logger:  log,
	}

	return &http.Server{
		Addr:         cfg.Addr(),
		Handler:      s.RegisterRoutes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
}

// RegisterRoutes sets up all application routes
func (s *Server) RegisterRoutes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(s.logger), middleware.Metrics())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     s.cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type", "X-Requested-With", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", s.handler.Health.Health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	api.Use(middleware.Authenticate(s.tokens))
	{
		// Auth
		api.POST("/auth/registration", s.handler.Auth.Register)
		api.POST("/auth/login", s.handler.Auth.Login)

		// Public reads
		api.GET("/profiles", s.handler.Profile.GetProfiles)
		api.GET("/profiles/:id", s.handler.Profile.GetProfile)
		api.GET("/profiles/:id/comments", s.handler.Profile.GetProfileComments)

		api.GET("/posts", s.handler.Post.GetPosts)
		api.GET("/posts/:id", s.handler.Post.GetPost)

		api.GET("/comments", s.handler.Comment.GetComments)
		api.GET("/comments/:id", s.handler.Comment.GetComment)
		api.GET("/comments/:id/replies", s.handler.Comment.GetReplies)
		api.GET("/comments/:id/replies/:reply_id", s.handler.Comment.GetReply)

		api.GET("/likes", s.handler.Like.GetLikes)
		api.GET("/likes/:id", s.handler.Like.GetLike)

		api.GET("/followers", s.handler.Follower.GetFollowers)
		api.GET("/followers/:id", s.handler.Follower.GetFollower)

		api.GET("/courses", s.handler.Course.GetCourses)
		api.GET("/courses/upcoming", s.handler.Course.GetUpcomingCourses)
		api.GET("/courses/:id", s.handler.Course.GetCourse)

		// Protected routes (authentication required)
		protected := api.Group("")
		protected.Use(middleware.RequireAuth())
		{
			protected.GET("/auth/user", s.handler.Auth.GetMe)
			protected.PUT("/auth/user", s.handler.Auth.UpdateMe)

			protected.PUT("/profiles/:id", s.handler.Profile.UpdateProfile)

			protected.POST("/comments", s.handler.Comment.CreateComment)
			protected.PUT("/comments/:id", s.handler.Comment.UpdateComment)
			protected.DELETE("/comments/:id", s.handler.Comment.DeleteComment)

			protected.POST("/likes", s.handler.Like.CreateLike)
			protected.DELETE("/likes/:id", s.handler.Like.DeleteLike)

			protected.POST("/followers", s.handler.Follower.FollowUser)
			protected.DELETE("/followers/:id", s.handler.Follower.UnfollowUser)

			protected.POST("/course_registrations", s.handler.Registration.CreateRegistration)
			protected.POST("/course_registrations/:id/cancel", s.handler.Registration.CancelRegistration)
		}

		// Staff routes
		staff := api.Group("")
		staff.Use(middleware.RequireStaff())
		{
			staff.POST("/posts", s.handler.Post.CreatePost)
			staff.PUT("/posts/:id", s.handler.Post.UpdatePost)
			staff.DELETE("/posts/:id", s.handler.Post.DeletePost)

			staff.POST("/courses", s.handler.Course.CreateCourse)
			staff.PUT("/courses/:id", s.handler.Course.UpdateCourse)
			staff.DELETE("/courses/:id", s.handler.Course.DeleteCourse)
			staff.GET("/courses/:id/registrations", s.handler.Course.GetCourseRegistrations)

			staff.GET("/course_registrations/:id", s.handler.Registration.GetRegistration)
			staff.PUT("/course_registrations/:id", s.handler.Registration.UpdateRegistration)
			staff.DELETE("/course_registrations/:id", s.handler.Registration.DeleteRegistration)
		}
	}

	return r
}
