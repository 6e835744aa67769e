package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/maiopinion/internal/platform/apierr"
	"github.com/yungbote/maiopinion/internal/platform/ctxutil"
)

type APIError struct {
	Message   string `json:"message"`
	Code      string `json:"code,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

// RespondError aborts the request with a JSON error envelope that carries
// the request id for support lookups.
func RespondError(c *gin.Context, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
		_ = c.Error(err)
	}
	c.AbortWithStatusJSON(status, ErrorEnvelope{Error: APIError{
		Message:   msg,
		Code:      code,
		RequestID: ctxutil.From(c.Request.Context()).Request,
	}})
}

// RespondAPIError uses the status and code of an *apierr.Error in err's
// chain. Anything else is a 500 whose message is not exposed.
func RespondAPIError(c *gin.Context, err error) {
	if ae := apierr.From(err); ae != nil {
		RespondError(c, ae.StatusCode(), ae.Code, ae)
		return
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorEnvelope{Error: APIError{
		Message:   "internal error",
		Code:      "internal_error",
		RequestID: ctxutil.From(c.Request.Context()).Request,
	}})
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}
