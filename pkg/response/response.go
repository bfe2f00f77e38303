package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	appErrors "github.com/painelescolar/bi-api/pkg/errors"
)

// OK writes the payload as-is. The dashboard pages consume flat arrays and
// objects, so there is no envelope around successful responses.
func OK(c *gin.Context, payload interface{}) {
	c.Header("Cache-Control", "no-store")
	c.Header("Pragma", "no-cache")
	c.JSON(http.StatusOK, payload)
}

// Error sends an error response converting the error to the wire contract.
func Error(c *gin.Context, err error) {
	appErr := appErrors.FromError(err)
	c.Header("Cache-Control", "no-store")
	c.Header("Pragma", "no-cache")
	c.JSON(appErr.Status, appErr)
}
