package main

import (
	"log"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"mathlearn-service/internal/cache"
	"mathlearn-service/internal/config"
	"mathlearn-service/internal/db"
	"mathlearn-service/internal/event"
	"mathlearn-service/internal/handlers"
	"mathlearn-service/internal/repository"
	"mathlearn-service/internal/service"
)

func main() {
	config.LoadConfig()
	cfg := config.AppConfig

	gin.SetMode(cfg.GinMode)

	db.InitMongo(cfg.MongoURI)
	defer db.Close()
	database := db.Client.Database(cfg.MongoDatabase)

	// RabbitMQ event publisher
	var publisher *event.EventPublisher
	if cfg.RabbitMQURI != "" && cfg.RabbitMQExchange != "" {
		var err error
		publisher, err = event.NewEventPublisher(cfg.RabbitMQURI, cfg.RabbitMQExchange)
		if err != nil {
			log.Fatalf("Failed to connect to RabbitMQ: %v", err)
		}
		defer publisher.Close()
	} else {
		log.Println("RabbitMQ not configured, events will not be published")
	}

	// Redis pool cache
	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
	} else {
		log.Println("Redis not configured, question pools will not be cached")
	}
	poolCache := cache.NewPoolCache(redisClient, cfg.PoolCacheTTL)

	// Repositories
	questionRepo := repository.NewQuestionRepository(database)
	topicRepo := repository.NewTopicRepository(database)
	assignmentRepo := repository.NewAssignmentRepository(database)
	responseRepo := repository.NewResponseRepository(database)
	userRepo := repository.NewUserRepository(database)
	studentRepo := repository.NewStudentRepository(database)
	sessionRepo := repository.NewSessionRepository(database)
	resetRepo := repository.NewResetRepository(database)

	// Services
	authService := service.NewAuthService(userRepo, resetRepo, nil, cfg.JWTSecret, cfg.ResetTokenTTL)
	userService := service.NewUserService(userRepo, studentRepo)
	questionService := service.NewQuestionService(questionRepo, poolCache)
	assignmentService := service.NewAssignmentService(assignmentRepo, topicRepo)
	progressService := service.NewProgressService(assignmentRepo, topicRepo, questionRepo, responseRepo)
	quizService := service.NewQuizService(sessionRepo, questionRepo, poolCache, nil)
	reportService := service.NewReportService(assignmentRepo, topicRepo, questionRepo, responseRepo, progressService)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService)
	questionHandler := handlers.NewQuestionHandler(questionService)
	assignmentHandler := handlers.NewAssignmentHandler(assignmentService, progressService, userService)
	quizHandler := handlers.NewQuizHandler(quizService)
	reportHandler := handlers.NewReportHandler(reportService)

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Content-Length", "Accept-Encoding", "Authorization", "accept", "origin", "Cache-Control", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Public routes
	publicAuth := r.Group("/public/auth")
	{
		publicAuth.POST("/login", authHandler.Login)
		publicAuth.POST("/reset/request", authHandler.RequestPasswordReset)
		publicAuth.POST("/reset/confirm", authHandler.ConfirmPasswordReset)
	}

	publicCatalog := r.Group("/public")
	{
		publicCatalog.GET("/topic/", assignmentHandler.ListTopics)
		publicCatalog.GET("/question/", questionHandler.ListQuestions)
		publicCatalog.GET("/question/:id", questionHandler.GetQuestion)
	}

	// Protected routes
	protected := r.Group("/protected")
	protected.Use(handlers.AuthRequired(authService))

	setupQuizRoutes(protected, quizHandler, publisher)
	setupAssignmentRoutes(protected, assignmentHandler, publisher)

	protectedQuestion := protected.Group("/question")
	protectedQuestion.Use(handlers.RoleRequired("admin", "teacher"))
	{
		protectedQuestion.POST("/", questionHandler.CreateQuestion)
		protectedQuestion.PUT("/:id", questionHandler.UpdateQuestion)
		protectedQuestion.DELETE("/:id", questionHandler.DeleteQuestion)
	}

	protectedTopic := protected.Group("/topic")
	protectedTopic.Use(handlers.RoleRequired("admin", "teacher"))
	{
		protectedTopic.POST("/", assignmentHandler.CreateTopic)
	}

	protectedUser := protected.Group("/user")
	protectedUser.Use(handlers.RoleRequired("admin"))
	{
		protectedUser.POST("/", userHandler.CreateUser)
		protectedUser.GET("/", userHandler.ListUsers)
		protectedUser.GET("/:id", userHandler.GetUser)
		protectedUser.DELETE("/:id", userHandler.DeleteUser)
	}

	protectedStudent := protected.Group("/student")
	protectedStudent.Use(handlers.RoleRequired("admin", "teacher"))
	{
		protectedStudent.GET("/", userHandler.ListStudents)
	}

	protectedReport := protected.Group("/report")
	protectedReport.Use(handlers.RoleRequired("admin", "teacher"))
	{
		protectedReport.GET("/student/:studentId", reportHandler.StudentOverview)
		protectedReport.GET("/student/:studentId/assignment/:id", reportHandler.SubtopicReport)
	}

	log.Printf("Starting mathlearn-service on port %s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func setupQuizRoutes(protected *gin.RouterGroup, quizHandler *handlers.QuizHandler, publisher *event.EventPublisher) {
	quiz := protected.Group("/quiz/session")
	{
		quiz.POST("/", func(c *gin.Context) {
			quizHandler.StartSession(c)
			if publisher != nil {
				publisher.Publish("quiz.session.started", gin.H{
					"user_id":   c.GetString("userID"),
					"timestamp": time.Now(),
				})
			}
		})

		quiz.POST("/:id/next", func(c *gin.Context) {
			quizHandler.NextBlock(c)
			if publisher != nil {
				publisher.Publish("quiz.block.requested", gin.H{
					"session_id": c.Param("id"),
					"user_id":    c.GetString("userID"),
					"timestamp":  time.Now(),
				})
			}
		})

		quiz.POST("/:id/report", func(c *gin.Context) {
			quizHandler.Report(c)
			if publisher != nil {
				publisher.Publish("quiz.report.generated", gin.H{
					"session_id": c.Param("id"),
					"user_id":    c.GetString("userID"),
					"timestamp":  time.Now(),
				})
			}
		})

		quiz.POST("/:id/reset", func(c *gin.Context) {
			quizHandler.ResetSession(c)
			if publisher != nil {
				publisher.Publish("quiz.session.reset", gin.H{
					"session_id": c.Param("id"),
					"user_id":    c.GetString("userID"),
					"timestamp":  time.Now(),
				})
			}
		})
	}
}

func setupAssignmentRoutes(protected *gin.RouterGroup, assignmentHandler *handlers.AssignmentHandler, publisher *event.EventPublisher) {
	assignment := protected.Group("/assignment")
	{
		assignment.GET("/", assignmentHandler.ListAssignments)
		assignment.GET("/:id", assignmentHandler.GetAssignment)
		assignment.GET("/:id/question", assignmentHandler.CurrentQuestion)
		assignment.GET("/:id/completion", assignmentHandler.Completion)
		assignment.GET("/:id/progress", assignmentHandler.AssignmentProgress)

		assignment.POST("/", func(c *gin.Context) {
			assignmentHandler.CreateAssignment(c)
			if publisher != nil {
				publisher.Publish("assignment.created", gin.H{
					"user_id":   c.GetString("userID"),
					"timestamp": time.Now(),
				})
			}
		})

		assignment.PUT("/:id/status", assignmentHandler.SetStatus)

		assignment.POST("/resume", func(c *gin.Context) {
			assignmentHandler.ResumeAssignment(c)
			if publisher != nil {
				publisher.Publish("assignment.resumed", gin.H{
					"user_id":   c.GetString("userID"),
					"timestamp": time.Now(),
				})
			}
		})

		assignment.POST("/:id/response", func(c *gin.Context) {
			assignmentHandler.SubmitResponse(c)
			if publisher != nil {
				publisher.Publish("assignment.response.recorded", gin.H{
					"assignment_id": c.Param("id"),
					"user_id":       c.GetString("userID"),
					"timestamp":     time.Now(),
				})
			}
		})
	}
}
