package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"quizroom/game"
)

type SessionHandler struct {
	sessions *game.SessionService
}

func NewSessionHandler(sessions *game.SessionService) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

type createSessionRequest struct {
	QuizID uint `json:"quiz_id" binding:"required"`
}

type submitAnswerRequest struct {
	QuestionID uint `json:"question_id" binding:"required"`
	OptionID   uint `json:"option_id" binding:"required"`
}

func (h *SessionHandler) CreateSession(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	var req createSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session, err := h.sessions.CreateSession(c.Request.Context(), userID, req.QuizID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, session)
}

func (h *SessionHandler) GetSession(c *gin.Context) {
	session, err := h.sessions.GetSessionByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, session)
}

func (h *SessionHandler) JoinSession(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	session, err := h.sessions.JoinSession(c.Request.Context(), userID, c.Param("code"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, session)
}

func (h *SessionHandler) StartSession(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	session, err := h.sessions.StartSession(c.Request.Context(), userID, c.Param("code"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, session)
}

func (h *SessionHandler) SubmitAnswer(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	var req submitAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.sessions.SubmitAnswer(c.Request.Context(), userID, c.Param("code"), req.QuestionID, req.OptionID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *SessionHandler) EndSession(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	result, err := h.sessions.EndSession(c.Request.Context(), userID, c.Param("code"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
