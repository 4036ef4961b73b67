package models

import (
	"time"
)

// ReactionType is a member of the closed reaction vocabulary.
type ReactionType string

const (
	ReactionHot     ReactionType = "hot"
	ReactionCrazy   ReactionType = "crazy"
	ReactionSomos   ReactionType = "somos"
	ReactionExcited ReactionType = "excited"
	ReactionScream  ReactionType = "scream"
	ReactionOno     ReactionType = "ono"
	ReactionLike    ReactionType = "like"
	ReactionLove    ReactionType = "love"
	ReactionHaha    ReactionType = "haha"
	ReactionWow     ReactionType = "wow"
	ReactionSad     ReactionType = "sad"
	ReactionAngry   ReactionType = "angry"
)

func (t ReactionType) String() string { return string(t) }

// TargetKind distinguishes the two reaction-bearing entities.
type TargetKind string

const (
	TargetPost    TargetKind = "post"
	TargetComment TargetKind = "comment"
)

// PostReactionTypes is the full vocabulary accepted on posts.
var PostReactionTypes = map[ReactionType]bool{
	ReactionHot:     true,
	ReactionCrazy:   true,
	ReactionSomos:   true,
	ReactionExcited: true,
	ReactionScream:  true,
	ReactionOno:     true,
	ReactionLike:    true,
	ReactionLove:    true,
	ReactionHaha:    true,
	ReactionWow:     true,
	ReactionSad:     true,
	ReactionAngry:   true,
}

// CommentReactionTypes is the smaller vocabulary accepted on comments.
var CommentReactionTypes = map[ReactionType]bool{
	ReactionLike:  true,
	ReactionLove:  true,
	ReactionHaha:  true,
	ReactionWow:   true,
	ReactionSad:   true,
	ReactionAngry: true,
}

// ValidReaction reports whether t belongs to the vocabulary for kind.
func ValidReaction(kind TargetKind, t ReactionType) bool {
	if kind == TargetComment {
		return CommentReactionTypes[t]
	}
	return PostReactionTypes[t]
}

// LegacyReactionNames maps the retired reaction vocabulary (v1, kept in
// storage from the old blog) to the current one. Versioned: append-only.
var LegacyReactionNames = map[string]ReactionType{
	"fuego":    ReactionHot,
	"loco":     ReactionCrazy,
	"grito":    ReactionScream,
	"me_gusta": ReactionLike,
	"heart":    ReactionLove,
	"corazon":  ReactionLove,
	"jaja":     ReactionHaha,
	"wau":      ReactionWow,
	"triste":   ReactionSad,
	"enojado":  ReactionAngry,
}

// NormalizeReactionType maps a raw stored type string into the current
// vocabulary for kind. Unknown values fall back to "like".
func NormalizeReactionType(kind TargetKind, raw string) ReactionType {
	t := ReactionType(raw)
	if ValidReaction(kind, t) {
		return t
	}
	if mapped, ok := LegacyReactionNames[raw]; ok && ValidReaction(kind, mapped) {
		return mapped
	}
	return ReactionLike
}

// ReactionRecord is one user's reaction to one target. At most one record
// exists per (target, user) pair; the record set is the source of truth
// that every EngagementSummary is derived from.
type ReactionRecord struct {
	ID        string
	TargetID  string
	UserID    string
	UserName  string
	UserImage string
	Type      ReactionType
	CreatedAt time.Time
}

// EngagementSummary is the denormalized per-target reaction cache.
type EngagementSummary struct {
	Total int
	Types map[ReactionType]int
}

// NewEngagementSummary returns an empty summary with a non-nil type map.
func NewEngagementSummary() EngagementSummary {
	return EngagementSummary{Types: make(map[ReactionType]int)}
}

// Equal reports whether two summaries agree on total and every bucket,
// treating absent and zero buckets as the same.
func (s EngagementSummary) Equal(other EngagementSummary) bool {
	if s.Total != other.Total {
		return false
	}
	for t, n := range s.Types {
		if other.Types[t] != n {
			return false
		}
	}
	for t, n := range other.Types {
		if s.Types[t] != n {
			return false
		}
	}
	return true
}

// Clone returns a deep copy so callers can mutate without aliasing.
func (s EngagementSummary) Clone() EngagementSummary {
	out := EngagementSummary{Total: s.Total, Types: make(map[ReactionType]int, len(s.Types))}
	for t, n := range s.Types {
		out.Types[t] = n
	}
	return out
}
