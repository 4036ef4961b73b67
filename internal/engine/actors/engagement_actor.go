package actors

import (
	"context"
	"log/slog"
	"time"

	"ritmo-vivo/internal/engagement"
	"ritmo-vivo/internal/models"
	"ritmo-vivo/internal/utils"

	"github.com/asynkron/protoactor-go/actor"
)

// Message types for reaction and rating operations
type (
	SetReactionMsg struct {
		Kind      models.TargetKind
		TargetID  string
		UserID    string
		UserName  string
		UserImage string
		Type      string
	}

	ClearReactionMsg struct {
		Kind     models.TargetKind
		TargetID string
		UserID   string
	}

	RateMsg struct {
		PostID   string
		UserID   string
		UserName string
		Value    float64
		Comment  string
	}

	IncrementViewsMsg struct {
		PostID string
	}

	DeletePostMsg struct {
		PostID string
	}
)

// ReactionOutcome carries the applied delta plus the reconciled summary,
// so the caller can update its view without a second round trip.
type ReactionOutcome struct {
	Delta   engagement.Delta
	Summary models.EngagementSummary
}

// RatingOutcome pairs the rating id with the freshly recomputed aggregate.
type RatingOutcome struct {
	RatingID  string
	Aggregate models.PostRatingAggregate
}

// EngagementActor serializes reaction and rating writes through one
// mailbox. Writers in other sessions still race at the store level; the
// actor only removes same-process double-submits.
type EngagementActor struct {
	service *engagement.Service
	metrics *utils.MetricsCollector
}

func NewEngagementActor(service *engagement.Service, metrics *utils.MetricsCollector) actor.Actor {
	return &EngagementActor{
		service: service,
		metrics: metrics,
	}
}

func (a *EngagementActor) Receive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *actor.Started:
		slog.Info("EngagementActor started")

	case *actor.Stopping:
		slog.Info("EngagementActor stopping")

	case *SetReactionMsg:
		a.handleSetReaction(ctx, msg)
	case *ClearReactionMsg:
		a.handleClearReaction(ctx, msg)
	case *RateMsg:
		a.handleRate(ctx, msg)
	case *IncrementViewsMsg:
		a.respond(ctx, nil, a.service.IncrementViews(context.Background(), msg.PostID))
	case *DeletePostMsg:
		a.respond(ctx, nil, a.service.DeletePost(context.Background(), msg.PostID))

	default:
		slog.Warn("EngagementActor: unknown message", "type", ctx.Message())
	}
}

func (a *EngagementActor) handleSetReaction(ctx actor.Context, msg *SetReactionMsg) {
	start := time.Now()

	delta, err := a.service.SetReaction(context.Background(),
		msg.Kind, msg.TargetID, msg.UserID, msg.UserName, msg.UserImage, msg.Type)
	if err != nil {
		a.respond(ctx, nil, err)
		return
	}

	summary, err := a.service.GetSummary(context.Background(), msg.Kind, msg.TargetID)
	if err != nil {
		a.respond(ctx, nil, err)
		return
	}

	a.metrics.AddOperationLatency("set_reaction", time.Since(start))
	a.respond(ctx, &ReactionOutcome{Delta: delta, Summary: summary}, nil)
}

func (a *EngagementActor) handleClearReaction(ctx actor.Context, msg *ClearReactionMsg) {
	start := time.Now()

	delta, err := a.service.ClearReaction(context.Background(), msg.Kind, msg.TargetID, msg.UserID)
	if err != nil {
		a.respond(ctx, nil, err)
		return
	}

	summary, err := a.service.GetSummary(context.Background(), msg.Kind, msg.TargetID)
	if err != nil {
		a.respond(ctx, nil, err)
		return
	}

	a.metrics.AddOperationLatency("clear_reaction", time.Since(start))
	a.respond(ctx, &ReactionOutcome{Delta: delta, Summary: summary}, nil)
}

func (a *EngagementActor) handleRate(ctx actor.Context, msg *RateMsg) {
	start := time.Now()

	ratingID, err := a.service.Rate(context.Background(),
		msg.PostID, msg.UserID, msg.UserName, msg.Value, msg.Comment)
	if err != nil {
		a.respond(ctx, nil, err)
		return
	}

	agg, err := a.service.RecomputeAggregate(context.Background(), msg.PostID)
	if err != nil {
		a.respond(ctx, nil, err)
		return
	}

	a.metrics.AddOperationLatency("rate", time.Since(start))
	a.respond(ctx, &RatingOutcome{RatingID: ratingID, Aggregate: agg}, nil)
}

// respond sends the result or the error back to the requester. Write
// errors propagate; the handler maps them to a user-facing notification.
func (a *EngagementActor) respond(ctx actor.Context, result interface{}, err error) {
	if err != nil {
		a.metrics.IncrementErrors()
		ctx.Respond(err)
		return
	}
	if result == nil {
		result = &struct{ OK bool }{OK: true}
	}
	ctx.Respond(result)
}
