package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/bitmark-inc/wayfarer-api/schema"
	"github.com/bitmark-inc/wayfarer-api/store"
)

func (s *Server) addAlert(c *gin.Context) {
	requester := c.GetString("requester")

	var metadata schema.AlertMetadata
	if err := c.BindJSON(&metadata); err != nil {
		abortWithEncoding(c, http.StatusBadRequest, errorInvalidParameters, err)
		return
	}

	timestamp := time.Now().UTC().Format(time.RFC3339Nano)
	if err := s.mongo.AlertAdd(requester, timestamp, metadata); err != nil {
		switch {
		case errors.Is(err, store.ErrInvalidAlertType):
			abortWithEncoding(c, http.StatusBadRequest, errorInvalidAlertType, err)
		case errors.Is(err, store.ErrInvalidAlertSeverity):
			abortWithEncoding(c, http.StatusBadRequest, errorInvalidAlertSeverity, err)
		default:
			abortWithEncoding(c, http.StatusInternalServerError, errorInternalServer, err)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id": schema.AlertID(requester, timestamp),
	})
}

func (s *Server) listAlerts(c *gin.Context) {
	requester := c.GetString("requester")

	alerts, err := s.mongo.AlertListByUser(requester)
	if err != nil {
		abortWithEncoding(c, http.StatusInternalServerError, errorInternalServer, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"alerts": alerts})
}
