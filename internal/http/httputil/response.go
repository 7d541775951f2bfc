package httputil

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hxuan190/curve-engine/internal/common"
)

type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Code    string      `json:"code,omitempty"`
	Error   string      `json:"error,omitempty"`
}

func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    data,
	})
}

func Error(c *gin.Context, status int, err string) {
	c.JSON(status, Response{
		Success: false,
		Error:   err,
	})
}

func BadRequest(c *gin.Context, err string) {
	Error(c, http.StatusBadRequest, err)
}

func InternalError(c *gin.Context, err string) {
	Error(c, http.StatusInternalServerError, err)
}

// HttpError writes err with its status and code.
func HttpError(c *gin.Context, err *common.HttpError) {
	c.JSON(err.StatusCode, Response{
		Success: false,
		Code:    err.Code,
		Error:   err.Message,
	})
}

// AbortWithHttpError writes err and stops the handler chain.
func AbortWithHttpError(c *gin.Context, err *common.HttpError) {
	c.AbortWithStatusJSON(err.StatusCode, Response{
		Success: false,
		Code:    err.Code,
		Error:   err.Message,
	})
}

// KernelError maps a quote failure to its HTTP status.
func KernelError(c *gin.Context, err error) {
	HttpError(c, common.HTTPErrorFromKernel(err))
}
