package main

import (
	"log"
	"net/http"
	"time"

	"github.com/Pushpak2001/quzicam/internal/configs"
	"github.com/Pushpak2001/quzicam/internal/db"
	"github.com/Pushpak2001/quzicam/internal/event"
	"github.com/Pushpak2001/quzicam/internal/handlers"
	"github.com/Pushpak2001/quzicam/internal/quizgen"
	"github.com/Pushpak2001/quzicam/internal/repository"
	"github.com/Pushpak2001/quzicam/internal/session"
	"github.com/Pushpak2001/quzicam/internal/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	configs.LoadConfig()
	gin.SetMode(configs.AppConfig.GinMode)

	if err := db.InitMongo(configs.AppConfig.MongoURI); err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}

	// RabbitMQ event publisher; optional, nil means log-only events
	var publisher *event.EventPublisher
	if configs.AppConfig.RabbitMQURI != "" {
		var err error
		publisher, err = event.NewEventPublisher(configs.AppConfig.RabbitMQURI, configs.AppConfig.RabbitMQExchange)
		if err != nil {
			log.Fatalf("Failed to connect to RabbitMQ: %v", err)
		}
		defer publisher.Close()
	} else {
		log.Println("RabbitMQ not configured, events will be logged only")
	}

	// Generator client is constructed here and injected, never looked up
	// ambiently, so the pipeline can take test doubles.
	generator := quizgen.NewChatGenerator(
		configs.AppConfig.LLMBaseURL,
		configs.AppConfig.LLMAPIKey,
		configs.AppConfig.LLMModel,
	)
	tools := quizgen.NewChatLanguageTools(generator)
	pipeline := quizgen.NewPipeline(generator, tools, configs.AppConfig.NativeLanguages)

	database := db.Client.Database(configs.AppConfig.MongoDatabase)
	resultRepo := repository.NewResultRepository(database)

	sessions := session.NewRegistry(configs.AppConfig.AdvanceDelay)

	quizHandler := handlers.NewQuizHandler(pipeline, publisher)
	sessionHandler := handlers.NewSessionHandler(sessions, resultRepo, publisher)
	resultHandler := handlers.NewResultHandler(resultRepo)

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Content-Length", "Accept-Encoding", "Authorization", "accept", "origin", "Cache-Control", "X-Requested-With", "X-User-ID"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	protected := r.Group("/protected/quizz")
	protected.Use(requireUser())
	{
		protected.POST("/generate", quizHandler.GenerateQuiz)
		protected.POST("/session", sessionHandler.StartSession)
		protected.POST("/session/:id/answer", sessionHandler.SubmitAnswer)
		protected.POST("/session/:id/finish", sessionHandler.FinishSession)
		protected.GET("/session/:id/status", sessionHandler.GetSessionStatus)
	}

	public := r.Group("/public/quizz")
	{
		public.GET("/result/resolve", resultHandler.ResolveResult)
		public.GET("/user/:id/results", resultHandler.GetResultsByUser)
	}

	log.Printf("Starting %s on port %s", configs.AppConfig.ServiceName, configs.AppConfig.Port)
	if err := r.Run(":" + configs.AppConfig.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}

// requireUser accepts either a valid bearer token or the X-User-ID header
// set by the gateway.
func requireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := utils.GetUserIDFromToken(c)
		if err != nil || userID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Authentication required",
				"code":  "MISSING_USER_ID",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}
