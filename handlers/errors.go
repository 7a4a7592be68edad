package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"quizroom/game"
)

func statusFor(kind game.Kind) int {
	switch kind {
	case game.KindNotFound:
		return http.StatusNotFound
	case game.KindForbidden, game.KindNotAMember:
		return http.StatusForbidden
	case game.KindInvalidState, game.KindConflict:
		return http.StatusConflict
	case game.KindInvalidOption:
		return http.StatusBadRequest
	case game.KindAllocationExhausted, game.KindUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// respondError maps a service error to a client-visible response. Kinds
// translate to stable status codes; anything unkinded is a 500 and only
// logged server-side.
func respondError(c *gin.Context, err error) {
	var ge *game.Error
	if errors.As(err, &ge) {
		if ge.Kind == game.KindUnavailable {
			log.Printf("dependency failure: %v", err)
		}
		c.JSON(statusFor(ge.Kind), gin.H{"error": ge.Message, "kind": ge.Kind.String()})
		return
	}

	log.Printf("unhandled error: %v", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}

func callerID(c *gin.Context) (uint, bool) {
	v, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return 0, false
	}
	id, ok := v.(uint)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return 0, false
	}
	return id, true
}
