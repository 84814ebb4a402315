package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bitmark-inc/wayfarer-api/schema"
)

func (s *Server) addTelemetry(c *gin.Context) {
	requester := c.GetString("requester")

	var params struct {
		Points []schema.TelemetryPoint `json:"points" binding:"required"`
	}

	if err := c.BindJSON(&params); err != nil {
		abortWithEncoding(c, http.StatusBadRequest, errorInvalidParameters, err)
		return
	}

	for _, point := range params.Points {
		if point.PointID == "" || point.Timestamp == "" {
			abortWithEncoding(c, http.StatusBadRequest, errorInvalidParameters)
			return
		}

		point.UserID = requester
		if err := s.mongo.TelemetryPut(point); err != nil {
			abortWithEncoding(c, http.StatusInternalServerError, errorInternalServer, err)
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"result": "ok"})
}

func (s *Server) listTelemetry(c *gin.Context) {
	requester := c.GetString("requester")

	var points []schema.TelemetryPoint
	var err error

	if tripID := c.Query("trip_id"); tripID != "" {
		points, err = s.mongo.TelemetryListByTrip(requester, tripID)
	} else {
		points, err = s.mongo.TelemetryList(requester)
	}
	if err != nil {
		abortWithEncoding(c, http.StatusInternalServerError, errorInternalServer, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"telemetry": points})
}
