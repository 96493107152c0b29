package sweep

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	masterRepo "mastera/database/repository/master"
	requestRepo "mastera/database/repository/request"
	"mastera/models"
	"mastera/services/notify"
	"mastera/services/order"
	"mastera/services/ratelimit"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	purgeReportMaxEntries = 10
	purgeReportMaxLen     = 4000
)

// Sweeper runs the periodic reconciliation cycle: stale pending orders
// are auto-completed, overdue document references are purged, and idle
// rate-limiter entries are dropped.
type Sweeper struct {
	Requests requestRepo.RequestRepository
	Masters  masterRepo.MasterRepository
	Orders   order.Service
	Limiter  ratelimit.Policy
	Admin    notify.AdminNotifier
	Logger   *zap.Logger

	ConfirmTimeout time.Duration
	DocRetention   time.Duration
	LimiterIdle    time.Duration
}

// Run executes one cycle. A failed item is logged and skipped so the
// rest of the cycle still runs; the first failure is returned at the
// end so the queue retries the cycle.
func (s *Sweeper) Run(ctx context.Context) error {
	log := s.Logger.With(zap.String("cycle", uuid.NewString()))
	log.Info("sweep cycle started")

	var firstErr error
	if err := s.autoCompleteStale(ctx, log); err != nil {
		log.Error("auto-complete duty failed", zap.Error(err))
		firstErr = err
	}
	if err := s.purgeDocuments(log); err != nil {
		log.Error("document purge duty failed", zap.Error(err))
		if firstErr == nil {
			firstErr = err
		}
	}
	s.pruneLimiter(log)

	if firstErr != nil {
		log.Warn("sweep cycle finished with errors", zap.Error(firstErr))
		return firstErr
	}
	log.Info("sweep cycle finished")
	return nil
}

func (s *Sweeper) autoCompleteStale(ctx context.Context, log *zap.Logger) error {
	cutoff := time.Now().Add(-s.ConfirmTimeout)
	stale, err := s.Requests.PendingOlderThan(cutoff)
	if err != nil {
		return fmt.Errorf("failed to list stale pending requests: %w", err)
	}
	if len(stale) == 0 {
		return nil
	}

	var firstErr error
	completed := 0
	for i := range stale {
		if err := s.Orders.AutoComplete(ctx, stale[i].ID); err != nil {
			log.Error("auto-complete failed",
				zap.Int64("request_id", stale[i].ID), zap.Error(err))
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		completed++
	}
	log.Info("stale orders auto-completed",
		zap.Int("completed", completed), zap.Int("stale", len(stale)))
	return firstErr
}

func (s *Sweeper) purgeDocuments(log *zap.Logger) error {
	cutoff := time.Now().Add(-s.DocRetention)
	holders, err := s.Masters.DocumentHolders(cutoff)
	if err != nil {
		return fmt.Errorf("failed to list document holders: %w", err)
	}
	if len(holders) == 0 {
		return nil
	}

	var firstErr error
	purged := make([]models.Master, 0, len(holders))
	for i := range holders {
		if err := s.Masters.ClearDocuments(holders[i].ID); err != nil {
			log.Error("document purge failed",
				zap.Int64("master_id", holders[i].ID), zap.Error(err))
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		purged = append(purged, holders[i])
	}
	if len(purged) > 0 {
		s.Admin.NotifyAdmin(purgeReport(purged))
		log.Info("documents purged", zap.Int("count", len(purged)))
	}
	return firstErr
}

func (s *Sweeper) pruneLimiter(log *zap.Logger) {
	dropped := s.Limiter.Prune(s.LimiterIdle)
	if dropped > 0 {
		log.Info("idle limiter entries pruned", zap.Int("count", dropped))
	}
}

func purgeReport(purged []models.Master) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🧹 Очистка документов: файлы удалены у %d мастеров", len(purged))
	shown := purged
	if len(shown) > purgeReportMaxEntries {
		shown = shown[:purgeReportMaxEntries]
	}
	for i := range shown {
		fmt.Fprintf(&b, "\n• #%d %s", shown[i].ID, shown[i].FullName)
	}
	if rest := len(purged) - len(shown); rest > 0 {
		fmt.Fprintf(&b, "\n… и ещё %d", rest)
	}
	return truncateRunes(b.String(), purgeReportMaxLen)
}

func truncateRunes(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max-1]) + "…"
}
