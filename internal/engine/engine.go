package engine

import (
	"ritmo-vivo/internal/engagement"
	"ritmo-vivo/internal/engine/actors"
	"ritmo-vivo/internal/utils"

	"github.com/asynkron/protoactor-go/actor"
)

// Engine owns the long-lived actors that serialize engagement writes.
type Engine struct {
	EngagementPID *actor.PID
	CommentPID    *actor.PID
}

// NewEngine spawns the write actors on the given system.
func NewEngine(system *actor.ActorSystem, service *engagement.Service, metrics *utils.MetricsCollector) *Engine {
	engagementProps := actor.PropsFromProducer(func() actor.Actor {
		return actors.NewEngagementActor(service, metrics)
	})
	commentProps := actor.PropsFromProducer(func() actor.Actor {
		return actors.NewCommentActor(service, metrics)
	})

	return &Engine{
		EngagementPID: system.Root.Spawn(engagementProps),
		CommentPID:    system.Root.Spawn(commentProps),
	}
}
