package actors

import (
	"context"
	"log/slog"
	"time"

	"ritmo-vivo/internal/engagement"
	"ritmo-vivo/internal/utils"

	"github.com/asynkron/protoactor-go/actor"
)

// Message types for comment operations
type (
	CreateCommentMsg struct {
		PostID      string
		ParentID    *string
		AuthorID    string
		AuthorName  string
		AuthorImage string
		Content     string
	}

	EditCommentMsg struct {
		CommentID string
		AuthorID  string
		Content   string
	}

	DeleteCommentMsg struct {
		CommentID   string
		RequesterID string
		IsAdmin     bool
	}

	ToggleCommentLikeMsg struct {
		CommentID string
		UserID    string
	}

	PinCommentMsg struct {
		CommentID string
		AdminID   string
	}

	UnpinCommentMsg struct {
		CommentID string
	}
)

// LikeOutcome reports the post-toggle like state.
type LikeOutcome struct {
	Liked bool
}

// CommentActor serializes comment writes through one mailbox.
type CommentActor struct {
	service *engagement.Service
	metrics *utils.MetricsCollector
}

func NewCommentActor(service *engagement.Service, metrics *utils.MetricsCollector) actor.Actor {
	return &CommentActor{
		service: service,
		metrics: metrics,
	}
}

func (a *CommentActor) Receive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *actor.Started:
		slog.Info("CommentActor started")

	case *actor.Stopping:
		slog.Info("CommentActor stopping")

	case *CreateCommentMsg:
		start := time.Now()
		comment, err := a.service.CreateComment(context.Background(),
			msg.PostID, msg.ParentID, msg.AuthorID, msg.AuthorName, msg.AuthorImage, msg.Content)
		a.metrics.AddOperationLatency("create_comment", time.Since(start))
		a.respond(ctx, comment, err)

	case *EditCommentMsg:
		err := a.service.EditComment(context.Background(), msg.CommentID, msg.AuthorID, msg.Content)
		a.respond(ctx, nil, err)

	case *DeleteCommentMsg:
		err := a.service.DeleteComment(context.Background(), msg.CommentID, msg.RequesterID, msg.IsAdmin)
		a.respond(ctx, nil, err)

	case *ToggleCommentLikeMsg:
		liked, err := a.service.ToggleCommentLike(context.Background(), msg.CommentID, msg.UserID)
		if err != nil {
			a.respond(ctx, nil, err)
			return
		}
		a.respond(ctx, &LikeOutcome{Liked: liked}, nil)

	case *PinCommentMsg:
		err := a.service.Pin(context.Background(), msg.CommentID, msg.AdminID)
		a.respond(ctx, nil, err)

	case *UnpinCommentMsg:
		err := a.service.Unpin(context.Background(), msg.CommentID)
		a.respond(ctx, nil, err)

	default:
		slog.Warn("CommentActor: unknown message", "type", ctx.Message())
	}
}

func (a *CommentActor) respond(ctx actor.Context, result interface{}, err error) {
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
