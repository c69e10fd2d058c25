package httperr

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// FromError writes the response for an error returned by a use case.
// Unknown errors are logged and reported as 500 without details.
func FromError(c *gin.Context, err error) {
	var (
		ve ValidationError
		ce ConflictError
		ne NoRuleError
		fe ForbiddenError
		nf NotFoundError
		be BusinessError
	)

	switch {
	case errors.As(err, &ve):
		Write(c, http.StatusBadRequest, ve.Code, ve.Message)
	case errors.As(err, &ce):
		Conflict(c, ce.Code, ce.Reason)
	case errors.As(err, &ne):
		Write(c, http.StatusUnprocessableEntity, ne.Code(), ne.Error())
	case errors.As(err, &fe):
		Write(c, http.StatusForbidden, fe.Code, "You are not allowed to perform this action.")
	case errors.As(err, &nf):
		Write(c, http.StatusNotFound, nf.Code(), nf.Error())
	case errors.As(err, &be):
		Write(c, http.StatusBadRequest, be.Code, be.Code)
	default:
		log.Ctx(c.Request.Context()).Error().Err(err).Msg("unhandled error")
		Internal(c, "internal_error", "Something went wrong.")
	}
}
