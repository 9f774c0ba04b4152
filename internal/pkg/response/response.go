package response

import "github.com/gin-gonic/gin"

// JSON writes a success payload as-is.
func JSON(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, data)
}

// Message writes a plain informational message.
func Message(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, gin.H{"message": message})
}

// Error writes the error body shape used across the API: {"message": "..."}.
func Error(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, gin.H{"message": message})
}

// ErrorWithFields is used for validation failures that need to name the
// offending fields.
func ErrorWithFields(c *gin.Context, statusCode int, message string, fields any) {
	c.JSON(statusCode, gin.H{"message": message, "fields": fields})
}
