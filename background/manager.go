package background

import (
	"errors"
	"time"

	"github.com/RichardKnop/machinery/v1"
	log "github.com/sirupsen/logrus"

	"github.com/bitmark-inc/wayfarer-api/baseline"
	"github.com/bitmark-inc/wayfarer-api/schema"
	"github.com/bitmark-inc/wayfarer-api/store"
)

// TaskRefreshBaseline recomputes a user's telemetry baseline and persists
// the snapshot. Args: user_id.
const TaskRefreshBaseline = "refresh_baseline"

// BackgroundManager is a struct for wayfarer background manager
type BackgroundManager struct {
	snapshots store.BaselineSnapshot

	engine baseline.Analyzer

	taskServer *machinery.Server

	worker *machinery.Worker
}

func New(snapshots store.BaselineSnapshot, engine baseline.Analyzer, taskServer *machinery.Server) *BackgroundManager {
	return &BackgroundManager{
		snapshots:  snapshots,
		engine:     engine,
		taskServer: taskServer,
	}
}

func (m *BackgroundManager) RegisterTasks() error {
	return m.taskServer.RegisterTask(TaskRefreshBaseline, m.RefreshBaseline)
}

// RefreshBaseline recomputes the baseline over the user's full telemetry
// history and replaces the stored snapshot.
func (m *BackgroundManager) RefreshBaseline(userID string) error {
	computedAt := time.Now().UTC()

	analysis, err := m.engine.Analyze(userID, time.Time{}, computedAt)
	if err != nil {
		log.WithFields(log.Fields{
			"prefix": "background",
			"user":   userID,
			"error":  err,
		}).Error("baseline analysis failed")
		return err
	}

	if err := m.snapshots.BaselineSnapshotSave(schema.BaselineSnapshot{
		UserID:     userID,
		ComputedAt: computedAt,
		Baseline:   analysis,
	}); err != nil {
		return err
	}

	log.WithFields(log.Fields{
		"prefix":  "background",
		"user":    userID,
		"factors": len(analysis),
	}).Info("baseline snapshot refreshed")
	return nil
}

// Run spawn workers to execute background jobs
func (m *BackgroundManager) Run() error {
	if m.worker != nil {
		return errors.New("background worker has started")
	}
	m.worker = m.taskServer.NewWorker("wayfarer-worker", 5)
	return m.worker.Launch()
}
