// Package results manages the typing-test history: local-first persistence
// with a bounded cap, aggregate stats, and an opportunistic remote save.
package results

import (
	"context"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/zipboard/zipboard/internal/api"
	"github.com/zipboard/zipboard/internal/logging"
	"github.com/zipboard/zipboard/internal/models"
	resultrepo "github.com/zipboard/zipboard/internal/repositories/results"
)

// HistoryCap bounds the local history; the oldest results are trimmed first.
const HistoryCap = 200

type Service struct {
	repo resultrepo.Repository
	api  api.Client
	log  logging.Logger

	// now is a seam for tests.
	now func() time.Time
}

func NewService(repo resultrepo.Repository, apiClient api.Client, log logging.Logger) *Service {
	if log == nil {
		log = logging.Nop()
	}
	return &Service{repo: repo, api: apiClient, log: log, now: time.Now}
}

// Save stores one finished test locally, assigning an ID and timestamp when
// absent, and trims the history to HistoryCap.
func (s *Service) Save(ctx context.Context, r *models.TestResult) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = s.now().UTC()
	}

	if err := s.repo.Save(ctx, r); err != nil {
		return err
	}
	return s.repo.Trim(ctx, HistoryCap)
}

// History returns the local history, most recent first.
func (s *Service) History(ctx context.Context) ([]*models.TestResult, error) {
	return s.repo.List(ctx)
}

// Aggregate computes count, best WPM and rounded average WPM/accuracy over
// the local history. An empty history yields all zeroes.
func (s *Service) Aggregate(ctx context.Context) (*models.Stats, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	stats := &models.Stats{Count: len(list)}
	if len(list) == 0 {
		return stats, nil
	}

	var sumWPM, sumAcc int
	for _, r := range list {
		if r.WPM > stats.BestWPM {
			stats.BestWPM = r.WPM
		}
		sumWPM += r.WPM
		sumAcc += r.Accuracy
	}
	stats.AvgWPM = int(math.Round(float64(sumWPM) / float64(len(list))))
	stats.AvgAccuracy = int(math.Round(float64(sumAcc) / float64(len(list))))
	return stats, nil
}

// SaveRemote pushes one result to the server, attaching the user ID when a
// user is signed in. Fire-and-forget: failures are logged and swallowed so a
// flaky network never breaks the local flow.
func (s *Service) SaveRemote(ctx context.Context, r *models.TestResult, user *models.User) {
	payload := api.ResultPayload{
		WPM:         r.WPM,
		Accuracy:    r.Accuracy,
		RawWPM:      r.WPM,
		Characters:  r.TotalChars,
		DurationSec: r.DurationSeconds,
		Mode:        r.Mode,
	}
	if user != nil {
		payload.UserID = user.ID
	}

	if err := s.api.SaveResult(ctx, payload); err != nil {
		s.log.Warn(ctx, "remote result save failed", "result", r.ID, "error", err)
	}
}
