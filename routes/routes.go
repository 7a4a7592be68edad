package routes

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"quizroom/game"
	"quizroom/handlers"
	"quizroom/middleware"
	"quizroom/realtime"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // CORS is handled at the HTTP layer
	},
}

func SetupRoutes(
	router *gin.Engine,
	authHandler *handlers.AuthHandler,
	quizHandler *handlers.QuizHandler,
	sessionHandler *handlers.SessionHandler,
	sessions *game.SessionService,
	hub *realtime.Hub,
	jwtSecret string,
) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api")

	auth := api.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.GET("/me", middleware.AuthMiddleware(jwtSecret), authHandler.GetProfile)
	}

	quiz := api.Group("/quiz")
	quiz.Use(middleware.AuthMiddleware(jwtSecret))
	{
		quiz.POST("/", quizHandler.CreateQuiz)
		quiz.GET("/", quizHandler.ListQuizzes)
		quiz.GET("/:id", quizHandler.GetQuiz)
		quiz.PUT("/:id", quizHandler.UpdateQuiz)
		quiz.DELETE("/:id", quizHandler.DeleteQuiz)
		quiz.POST("/:id/questions", quizHandler.AddQuestion)
		quiz.PUT("/:id/questions/:questionID", quizHandler.UpdateQuestion)
		quiz.DELETE("/:id/questions/:questionID", quizHandler.DeleteQuestion)
	}

	gameGroup := api.Group("/game")
	gameGroup.Use(middleware.AuthMiddleware(jwtSecret))
	{
		gameGroup.POST("/sessions", sessionHandler.CreateSession)
		gameGroup.GET("/sessions/:code", sessionHandler.GetSession)
		gameGroup.POST("/sessions/:code/join", sessionHandler.JoinSession)
		gameGroup.POST("/sessions/:code/start", sessionHandler.StartSession)
		gameGroup.POST("/sessions/:code/answer", sessionHandler.SubmitAnswer)
		gameGroup.POST("/sessions/:code/end", sessionHandler.EndSession)
	}

	// Browsers cannot set an Authorization header on a websocket dial, so the
	// token travels as a query parameter here.
	router.GET("/ws/:code", func(c *gin.Context) {
		claims, err := middleware.ParseToken(c.Query("token"), jwtSecret)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}

		session, err := sessions.GetSessionByCode(c.Request.Context(), c.Param("code"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
			return
		}

		allowed := session.Quiz.OwnerID == claims.UserID
		for _, p := range session.Participants {
			if p.ID == claims.UserID {
				allowed = true
				break
			}
		}
		if !allowed {
			c.JSON(http.StatusForbidden, gin.H{"error": "join the session before connecting"})
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Printf("websocket upgrade failed: %v", err)
			return
		}

		hub.RegisterClient(conn, session.Code, claims.UserID)
	})
}
