package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"quizroom/services"
)

type QuizHandler struct {
	quizService *services.QuizService
}

func NewQuizHandler(quizService *services.QuizService) *QuizHandler {
	return &QuizHandler{quizService: quizService}
}

func (h *QuizHandler) CreateQuiz(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	var req services.CreateQuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	quiz, err := h.quizService.CreateQuiz(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, quiz)
}

func (h *QuizHandler) ListQuizzes(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	quizzes, err := h.quizService.ListQuizzes(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, quizzes)
}

func (h *QuizHandler) GetQuiz(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	quizID, ok := pathID(c, "id")
	if !ok {
		return
	}

	quiz, err := h.quizService.GetQuiz(c.Request.Context(), userID, quizID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, quiz)
}

func (h *QuizHandler) UpdateQuiz(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	quizID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req services.UpdateQuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	quiz, err := h.quizService.UpdateQuiz(c.Request.Context(), userID, quizID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, quiz)
}

func (h *QuizHandler) DeleteQuiz(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	quizID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.quizService.DeleteQuiz(c.Request.Context(), userID, quizID); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *QuizHandler) AddQuestion(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	quizID, ok := pathID(c, "id")
	if !ok {
		return
	}

	req, ok := bindQuestion(c)
	if !ok {
		return
	}

	question, err := h.quizService.AddQuestion(c.Request.Context(), userID, quizID, req)
	if errors.Is(err, services.ErrExactlyOneCorrect) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, question)
}

func (h *QuizHandler) UpdateQuestion(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	quizID, ok := pathID(c, "id")
	if !ok {
		return
	}
	questionID, ok := pathID(c, "questionID")
	if !ok {
		return
	}

	req, ok := bindQuestion(c)
	if !ok {
		return
	}

	question, err := h.quizService.UpdateQuestion(c.Request.Context(), userID, quizID, questionID, req)
	if errors.Is(err, services.ErrExactlyOneCorrect) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, question)
}

func (h *QuizHandler) DeleteQuestion(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	quizID, ok := pathID(c, "id")
	if !ok {
		return
	}
	questionID, ok := pathID(c, "questionID")
	if !ok {
		return
	}

	if err := h.quizService.DeleteQuestion(c.Request.Context(), userID, quizID, questionID); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func bindQuestion(c *gin.Context) (*services.QuestionRequest, bool) {
	var req services.QuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, false
	}
	return &req, true
}

func pathID(c *gin.Context, param string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(param), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + param})
		return 0, false
	}
	return uint(id), true
}
