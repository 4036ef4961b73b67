package database

import (
	"context"
	"encoding/base64"
	"errors"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"ritmo-vivo/internal/models"
	"ritmo-vivo/internal/utils"
)

// MemoryStore is an in-memory Store, used by tests and local development
// the way the Mongo adapter is used in production. Not durable.
type MemoryStore struct {
	mu        sync.Mutex
	posts     map[string]*models.Post
	comments  map[string]*models.Comment
	reactions map[models.TargetKind]map[string]*models.ReactionRecord
	ratings   map[string]*models.Rating

	// FailReads simulates a store outage on the read paths, for
	// exercising the degrade-to-empty behavior.
	FailReads bool
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		posts:    make(map[string]*models.Post),
		comments: make(map[string]*models.Comment),
		reactions: map[models.TargetKind]map[string]*models.ReactionRecord{
			models.TargetPost:    {},
			models.TargetComment: {},
		},
		ratings: make(map[string]*models.Rating),
	}
}

func pairKey(a, b string) string { return a + "\x00" + b }

func (m *MemoryStore) Close(ctx context.Context) error { return nil }

func (m *MemoryStore) GetPost(ctx context.Context, id string) (*models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	post, ok := m.posts[id]
	if !ok {
		return nil, utils.NewAppError(utils.ErrPostNotFound, "Post not found: "+id, nil)
	}
	cp := *post
	cp.Reactions = post.Reactions.Clone()
	return &cp, nil
}

func (m *MemoryStore) GetPostBySlug(ctx context.Context, slug string) (*models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, post := range m.posts {
		if post.Slug == slug {
			cp := *post
			cp.Reactions = post.Reactions.Clone()
			return &cp, nil
		}
	}
	return nil, utils.NewAppError(utils.ErrPostNotFound, "Post not found: "+slug, nil)
}

func (m *MemoryStore) SavePost(ctx context.Context, post *models.Post) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if post.ID == "" {
		post.ID = "post-" + strconv.Itoa(len(m.posts)+1)
	}
	cp := *post
	cp.Reactions = post.Reactions.Clone()
	m.posts[post.ID] = &cp
	return nil
}

func (m *MemoryStore) SetPostSummary(ctx context.Context, postID string, summary models.EngagementSummary) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	post, ok := m.posts[postID]
	if !ok {
		return utils.NewAppError(utils.ErrPostNotFound, "Post not found: "+postID, nil)
	}
	post.Reactions = summary.Clone()
	return nil
}

func (m *MemoryStore) ApplyPostSummaryDelta(ctx context.Context, postID string, added, removed models.ReactionType) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	post, ok := m.posts[postID]
	if !ok {
		return utils.NewAppError(utils.ErrPostNotFound, "Post not found: "+postID, nil)
	}
	post.Reactions = incSummary(post.Reactions, added, removed)
	return nil
}

func (m *MemoryStore) SetPostRatingAggregate(ctx context.Context, postID string, agg models.PostRatingAggregate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	post, ok := m.posts[postID]
	if !ok {
		return utils.NewAppError(utils.ErrPostNotFound, "Post not found: "+postID, nil)
	}
	post.Rating = agg
	return nil
}

func (m *MemoryStore) IncrementPostViews(ctx context.Context, postID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	post, ok := m.posts[postID]
	if !ok {
		return utils.NewAppError(utils.ErrPostNotFound, "Post not found: "+postID, nil)
	}
	post.Views++
	return nil
}

func (m *MemoryStore) AdjustPostCommentCount(ctx context.Context, postID string, delta int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	post, ok := m.posts[postID]
	if !ok {
		return utils.NewAppError(utils.ErrPostNotFound, "Post not found: "+postID, nil)
	}
	post.CommentCount += delta
	return nil
}

func (m *MemoryStore) DeletePostCascade(ctx context.Context, postID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.posts[postID]; !ok {
		return utils.NewAppError(utils.ErrPostNotFound, "Post not found: "+postID, nil)
	}
	delete(m.posts, postID)
	for id, c := range m.comments {
		if c.PostID == postID {
			for key, rec := range m.reactions[models.TargetComment] {
				if rec.TargetID == id {
					delete(m.reactions[models.TargetComment], key)
				}
			}
			delete(m.comments, id)
		}
	}
	for key, rec := range m.reactions[models.TargetPost] {
		if rec.TargetID == postID {
			delete(m.reactions[models.TargetPost], key)
		}
	}
	for key, r := range m.ratings {
		if r.PostID == postID {
			delete(m.ratings, key)
		}
	}
	return nil
}

func (m *MemoryStore) GetReaction(ctx context.Context, kind models.TargetKind, targetID, userID string) (*models.ReactionRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailReads {
		return nil, utils.NewStoreError("get reaction", errors.New("simulated outage"))
	}
	rec, ok := m.reactions[kind][pairKey(targetID, userID)]
	if !ok {
		return nil, utils.NewNotFoundError("Reaction", targetID+"/"+userID)
	}
	cp := *rec
	return &cp, nil
}

func (m *MemoryStore) SaveReaction(ctx context.Context, kind models.TargetKind, rec *models.ReactionRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if rec.ID == "" {
		rec.ID = "reaction-" + strconv.Itoa(len(m.reactions[kind])+1)
	}
	cp := *rec
	m.reactions[kind][pairKey(rec.TargetID, rec.UserID)] = &cp
	return nil
}

func (m *MemoryStore) DeleteReaction(ctx context.Context, kind models.TargetKind, targetID, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.reactions[kind], pairKey(targetID, userID))
	return nil
}

func (m *MemoryStore) ListReactions(ctx context.Context, kind models.TargetKind, targetID string) ([]*models.ReactionRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailReads {
		return nil, utils.NewStoreError("list reactions", errors.New("simulated outage"))
	}
	var out []*models.ReactionRecord
	for _, rec := range m.reactions[kind] {
		if rec.TargetID == targetID {
			cp := *rec
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *MemoryStore) ListReactionsPage(ctx context.Context, kind models.TargetKind, targetID, typeFilter string, pageSize int, cursor string) ([]*models.ReactionRecord, string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailReads {
		return nil, "", utils.NewStoreError("list reactors page", errors.New("simulated outage"))
	}

	var all []*models.ReactionRecord
	for _, rec := range m.reactions[kind] {
		if rec.TargetID != targetID {
			continue
		}
		if typeFilter != "" && typeFilter != "all" && string(rec.Type) != typeFilter {
			continue
		}
		cp := *rec
		all = append(all, &cp)
	}
	sort.Slice(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.After(all[j].CreatedAt)
		}
		return all[i].ID > all[j].ID
	})

	start := 0
	if cursor != "" {
		after, afterID, err := parseMemCursor(cursor)
		if err != nil {
			return nil, "", utils.NewValidationError("cursor")
		}
		for i, rec := range all {
			if rec.CreatedAt.Before(after) || (rec.CreatedAt.Equal(after) && rec.ID < afterID) {
				start = i
				break
			}
			start = len(all)
		}
	}

	end := start + pageSize
	if end > len(all) {
		end = len(all)
	}
	page := all[start:end]

	next := ""
	if len(page) > 0 {
		last := page[len(page)-1]
		next = makeMemCursor(last.CreatedAt, last.ID)
	}
	return page, next, nil
}

func makeMemCursor(t time.Time, id string) string {
	return base64.RawURLEncoding.EncodeToString(
		[]byte(strconv.FormatInt(t.UnixNano(), 10) + "|" + id))
}

func parseMemCursor(token string) (time.Time, string, error) {
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return time.Time{}, "", err
	}
	parts := strings.SplitN(string(raw), "|", 2)
	if len(parts) != 2 {
		return time.Time{}, "", errors.New("malformed cursor")
	}
	nanos, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return time.Time{}, "", err
	}
	return time.Unix(0, nanos), parts[1], nil
}

func (m *MemoryStore) SaveComment(ctx context.Context, comment *models.Comment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if comment.ID == "" {
		comment.ID = "comment-" + strconv.Itoa(len(m.comments)+1)
	}
	cp := *comment
	cp.Reactions = comment.Reactions.Clone()
	cp.LikedBy = append([]string(nil), comment.LikedBy...)
	m.comments[comment.ID] = &cp
	return nil
}

func (m *MemoryStore) GetComment(ctx context.Context, id string) (*models.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	comment, ok := m.comments[id]
	if !ok {
		return nil, utils.NewAppError(utils.ErrCommentNotFound, "Comment not found: "+id, nil)
	}
	cp := *comment
	cp.Reactions = comment.Reactions.Clone()
	cp.LikedBy = append([]string(nil), comment.LikedBy...)
	return &cp, nil
}

func (m *MemoryStore) GetPostComments(ctx context.Context, postID string) ([]*models.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailReads {
		return nil, utils.NewStoreError("get post comments", errors.New("simulated outage"))
	}
	var out []*models.Comment
	for _, c := range m.comments {
		if c.PostID == postID {
			cp := *c
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *MemoryStore) GetPinnedComments(ctx context.Context, postID string) ([]*models.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.Comment
	for _, c := range m.comments {
		if c.PostID == postID && c.IsPinned {
			cp := *c
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.PinnedAt != nil && b.PinnedAt != nil && !a.PinnedAt.Equal(*b.PinnedAt) {
			return a.PinnedAt.Before(*b.PinnedAt)
		}
		return a.ID < b.ID
	})
	return out, nil
}

func (m *MemoryStore) SetCommentPin(ctx context.Context, commentID string, pinnedAt *time.Time, pinnedBy string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	comment, ok := m.comments[commentID]
	if !ok {
		return utils.NewAppError(utils.ErrCommentNotFound, "Comment not found: "+commentID, nil)
	}
	if pinnedAt == nil {
		comment.IsPinned = false
		comment.PinnedAt = nil
		comment.PinnedBy = ""
	} else {
		at := *pinnedAt
		comment.IsPinned = true
		comment.PinnedAt = &at
		comment.PinnedBy = pinnedBy
	}
	return nil
}

func (m *MemoryStore) SetCommentContent(ctx context.Context, commentID, content string, edited bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	comment, ok := m.comments[commentID]
	if !ok {
		return utils.NewAppError(utils.ErrCommentNotFound, "Comment not found: "+commentID, nil)
	}
	comment.Content = content
	comment.Edited = edited
	return nil
}

func (m *MemoryStore) SoftDeleteComment(ctx context.Context, commentID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	comment, ok := m.comments[commentID]
	if !ok {
		return utils.NewAppError(utils.ErrCommentNotFound, "Comment not found: "+commentID, nil)
	}
	comment.IsDeleted = true
	comment.Content = models.TombstoneText
	return nil
}

func (m *MemoryStore) SetCommentLike(ctx context.Context, commentID, userID string, liked bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	comment, ok := m.comments[commentID]
	if !ok {
		return utils.NewAppError(utils.ErrCommentNotFound, "Comment not found: "+commentID, nil)
	}
	if liked {
		if !comment.LikedByUser(userID) {
			comment.LikedBy = append(comment.LikedBy, userID)
			comment.Likes++
		}
	} else {
		for i, id := range comment.LikedBy {
			if id == userID {
				comment.LikedBy = append(comment.LikedBy[:i], comment.LikedBy[i+1:]...)
				comment.Likes--
				break
			}
		}
	}
	return nil
}

func (m *MemoryStore) SetCommentSummary(ctx context.Context, commentID string, summary models.EngagementSummary) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	comment, ok := m.comments[commentID]
	if !ok {
		return utils.NewAppError(utils.ErrCommentNotFound, "Comment not found: "+commentID, nil)
	}
	comment.Reactions = summary.Clone()
	return nil
}

func (m *MemoryStore) ApplyCommentSummaryDelta(ctx context.Context, commentID string, added, removed models.ReactionType) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	comment, ok := m.comments[commentID]
	if !ok {
		return utils.NewAppError(utils.ErrCommentNotFound, "Comment not found: "+commentID, nil)
	}
	comment.Reactions = incSummary(comment.Reactions, added, removed)
	return nil
}

func (m *MemoryStore) GetRating(ctx context.Context, postID, userID string) (*models.Rating, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rating, ok := m.ratings[pairKey(postID, userID)]
	if !ok {
		return nil, utils.NewNotFoundError("Rating", postID+"/"+userID)
	}
	cp := *rating
	return &cp, nil
}

func (m *MemoryStore) SaveRating(ctx context.Context, rating *models.Rating) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if rating.ID == "" {
		rating.ID = "rating-" + strconv.Itoa(len(m.ratings)+1)
	}
	cp := *rating
	m.ratings[pairKey(rating.PostID, rating.UserID)] = &cp
	return nil
}

func (m *MemoryStore) ListRatings(ctx context.Context, postID string) ([]*models.Rating, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.Rating
	for _, r := range m.ratings {
		if r.PostID == postID {
			cp := *r
			out = append(out, &cp)
		}
	}
	return out, nil
}

// incSummary matches the Mongo adapter's $inc behavior, including the
// ability to go negative under drift; the floor lives in the engagement
// layer's ApplyDelta and the repair in its Reconcile.
func incSummary(s models.EngagementSummary, added, removed models.ReactionType) models.EngagementSummary {
	out := s.Clone()
	if out.Types == nil {
		out.Types = make(map[models.ReactionType]int)
	}
	if added != "" {
		out.Types[added]++
		out.Total++
	}
	if removed != "" {
		out.Types[removed]--
		out.Total--
	}
	return out
}
