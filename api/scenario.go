package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// checkScenario runs the scenario decision pipeline against the requester's
// free-text message. When no destination can be extracted or resolved the
// pipeline is a no-op and the response is an empty object.
func (s *Server) checkScenario(c *gin.Context) {
	requester := c.GetString("requester")

	var params struct {
		Message string `json:"message" binding:"required"`
	}

	if err := c.BindJSON(&params); err != nil {
		abortWithEncoding(c, http.StatusBadRequest, errorInvalidParameters, err)
		return
	}

	outcome, err := s.scenario.Run(requester, params.Message)
	if err != nil {
		abortWithEncoding(c, http.StatusInternalServerError, errorScenarioCheck, err)
		return
	}

	if outcome == nil {
		c.JSON(http.StatusOK, gin.H{})
		return
	}

	c.JSON(http.StatusOK, outcome)
}
