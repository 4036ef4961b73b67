package engagement

import (
	"context"

	"ritmo-vivo/internal/models"
	"ritmo-vivo/internal/utils"
)

// ApplyDelta returns summary with one ledger delta applied. Pure: the
// input is not mutated. Decrements floor at zero so a drifted summary can
// never go negative; zeroed buckets stay present until the next full
// reconciliation prunes them.
func ApplyDelta(summary models.EngagementSummary, added, removed models.ReactionType) models.EngagementSummary {
	out := summary.Clone()
	if out.Types == nil {
		out.Types = make(map[models.ReactionType]int)
	}

	if added != "" {
		out.Types[added]++
		out.Total++
	}
	if removed != "" {
		if out.Types[removed] > 0 {
			out.Types[removed]--
		} else {
			out.Types[removed] = 0
		}
		if out.Total > 0 {
			out.Total--
		}
	}
	return out
}

// Reconcile recomputes the target's summary from the ledger and rewrites
// the stored one if it drifted. The result is a deterministic function of
// the record set, so concurrent reconciliations converge: last writer
// wins and repeats are idempotent.
func (s *Service) Reconcile(ctx context.Context, kind models.TargetKind, targetID string) (models.EngagementSummary, error) {
	if targetID == "" {
		return models.EngagementSummary{}, utils.NewValidationError("targetId")
	}

	records, err := s.store.ListReactions(ctx, kind, targetID)
	if err != nil {
		return models.EngagementSummary{}, err
	}

	recomputed := models.NewEngagementSummary()
	for _, rec := range records {
		// Legacy type strings still in storage count toward their
		// normalized bucket; anything unrecognized counts as "like".
		t := models.NormalizeReactionType(kind, string(rec.Type))
		recomputed.Types[t]++
	}
	recomputed.Total = len(records)

	stored, err := s.loadStoredSummary(ctx, kind, targetID)
	if err != nil {
		return models.EngagementSummary{}, err
	}

	if !stored.Equal(recomputed) {
		if err := s.persistSummary(ctx, kind, targetID, recomputed); err != nil {
			return models.EngagementSummary{}, err
		}
		s.recordDriftRepair()
		s.log.Info("repaired summary drift",
			"kind", kind, "target", targetID,
			"storedTotal", stored.Total, "actualTotal", recomputed.Total)
	}

	return recomputed, nil
}

// GetSummary is the read path for a target's counters. Reconciliation
// runs on every read as a self-healing measure: a write that updated the
// ledger but failed to update the cached summary heals here. Store
// failures degrade to an empty summary rather than blocking rendering.
func (s *Service) GetSummary(ctx context.Context, kind models.TargetKind, targetID string) (models.EngagementSummary, error) {
	summary, err := s.Reconcile(ctx, kind, targetID)
	if err != nil {
		if utils.IsErrorCode(err, utils.ErrValidation) || utils.IsNotFound(err) {
			return models.EngagementSummary{}, err
		}
		s.log.Warn("summary read failed, degrading to empty",
			"kind", kind, "target", targetID, "error", err)
		return models.NewEngagementSummary(), nil
	}
	return summary, nil
}

func (s *Service) loadStoredSummary(ctx context.Context, kind models.TargetKind, targetID string) (models.EngagementSummary, error) {
	if kind == models.TargetComment {
		comment, err := s.store.GetComment(ctx, targetID)
		if err != nil {
			return models.EngagementSummary{}, err
		}
		return comment.Reactions, nil
	}
	post, err := s.store.GetPost(ctx, targetID)
	if err != nil {
		return models.EngagementSummary{}, err
	}
	return post.Reactions, nil
}

func (s *Service) persistSummary(ctx context.Context, kind models.TargetKind, targetID string, summary models.EngagementSummary) error {
	if kind == models.TargetComment {
		return s.store.SetCommentSummary(ctx, targetID, summary)
	}
	return s.store.SetPostSummary(ctx, targetID, summary)
}
