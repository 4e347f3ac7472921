package api

import (
	"flagdeck/internal/apperr"

	"github.com/gin-gonic/gin"
)

// writeError translates service errors into status codes. Not-found maps
// to 404, unique-key collisions and storage constraint rejections to 409,
// everything else is a 500. The boundary owns this translation; services
// never see status codes.
func writeError(c *gin.Context, err error) {
	switch {
	case apperr.IsNotFound(err):
		c.JSON(404, gin.H{"error": err.Error()})
	case apperr.IsAlreadyExists(err), apperr.IsConflict(err):
		c.JSON(409, gin.H{"error": err.Error()})
	default:
		c.JSON(500, gin.H{"error": err.Error()})
	}
}
