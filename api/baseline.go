package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/RichardKnop/machinery/v1/tasks"
	"github.com/gin-gonic/gin"

	"github.com/bitmark-inc/wayfarer-api/background"
	"github.com/bitmark-inc/wayfarer-api/store"
)

// getBaseline computes the requester's baseline from live telemetry.
func (s *Server) getBaseline(c *gin.Context) {
	requester := c.GetString("requester")

	computedAt := time.Now().UTC()
	analysis, err := s.engine.Analyze(requester, time.Time{}, computedAt)
	if err != nil {
		abortWithEncoding(c, http.StatusInternalServerError, errorBaselineAnalysis, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"baseline":    analysis,
		"computed_at": computedAt,
	})
}

// getBaselineSnapshot returns the snapshot the background refresh persisted.
func (s *Server) getBaselineSnapshot(c *gin.Context) {
	requester := c.GetString("requester")

	snapshot, err := s.mongo.BaselineSnapshotGet(requester)
	if err != nil {
		if errors.Is(err, store.ErrNoBaselineSnapshot) {
			abortWithEncoding(c, http.StatusNotFound, errorNoBaselineSnapshot)
			return
		}
		abortWithEncoding(c, http.StatusInternalServerError, errorInternalServer, err)
		return
	}

	c.JSON(http.StatusOK, snapshot)
}

func (s *Server) refreshBaseline(c *gin.Context) {
	requester := c.GetString("requester")
	s.enqueueBaselineRefresh(c, requester)
}

// adminRefreshBaseline triggers a refresh for an arbitrary user. Guarded by
// the admin api key.
func (s *Server) adminRefreshBaseline(c *gin.Context) {
	var params struct {
		UserID string `json:"user_id" binding:"required"`
	}

	if err := c.BindJSON(&params); err != nil {
		abortWithEncoding(c, http.StatusBadRequest, errorInvalidParameters, err)
		return
	}

	s.enqueueBaselineRefresh(c, params.UserID)
}

func (s *Server) enqueueBaselineRefresh(c *gin.Context, userID string) {
	_, err := s.background.SendTask(&tasks.Signature{
		Name: background.TaskRefreshBaseline,
		Args: []tasks.Arg{
			{
				Type:  "string",
				Value: userID,
			},
		},
	})
	if err != nil {
		abortWithEncoding(c, http.StatusInternalServerError, errorInternalServer, err)
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"result": "ok"})
}
