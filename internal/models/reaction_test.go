package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// Every name ever observed in storage, legacy or current, must normalize
// into the current enumeration for its entity kind.
func TestNormalizationClosesOverVocabulary(t *testing.T) {
	observed := []string{
		"hot", "crazy", "somos", "excited", "scream", "ono",
		"like", "love", "haha", "wow", "sad", "angry",
	}
	for legacy := range LegacyReactionNames {
		observed = append(observed, legacy)
	}
	observed = append(observed, "", "LIKE", "thumbs_up", "emoji_7")

	for _, raw := range observed {
		post := NormalizeReactionType(TargetPost, raw)
		assert.True(t, PostReactionTypes[post],
			"%q normalized to %q, outside the post vocabulary", raw, post)

		comment := NormalizeReactionType(TargetComment, raw)
		assert.True(t, CommentReactionTypes[comment],
			"%q normalized to %q, outside the comment vocabulary", raw, comment)
	}
}

func TestNormalizeLegacyMappings(t *testing.T) {
	assert.Equal(t, ReactionHot, NormalizeReactionType(TargetPost, "fuego"))
	assert.Equal(t, ReactionLove, NormalizeReactionType(TargetPost, "corazon"))
	assert.Equal(t, ReactionHaha, NormalizeReactionType(TargetComment, "jaja"))
	// Unknown falls back to like.
	assert.Equal(t, ReactionLike, NormalizeReactionType(TargetPost, "definitely-new"))
	// Post-only types collapse to like on comments.
	assert.Equal(t, ReactionLike, NormalizeReactionType(TargetComment, "somos"))
}

func TestSummaryEqualTreatsZeroAsAbsent(t *testing.T) {
	a := NewEngagementSummary()
	a.Types[ReactionLike] = 0

	b := NewEngagementSummary()
	assert.True(t, a.Equal(b))

	b.Types[ReactionLike] = 1
	b.Total = 1
	assert.False(t, a.Equal(b))
}

func TestSummaryCloneDoesNotAlias(t *testing.T) {
	a := NewEngagementSummary()
	a.Types[ReactionWow] = 2
	a.Total = 2

	c := a.Clone()
	c.Types[ReactionWow] = 9
	assert.Equal(t, 2, a.Types[ReactionWow])
}
