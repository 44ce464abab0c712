package app

import (
	"context"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayang007/flora-fauna/internal/consensus"
	"github.com/ayang007/flora-fauna/internal/domain"
	"github.com/ayang007/flora-fauna/internal/moderation"
	"github.com/ayang007/flora-fauna/internal/vote"
)

// memAccounts is an in-memory account registry.
type memAccounts struct {
	byID   map[uuid.UUID]*domain.Account
	byName map[string]*domain.Account
}

func newMemAccounts() *memAccounts {
	return &memAccounts{
		byID:   make(map[uuid.UUID]*domain.Account),
		byName: make(map[string]*domain.Account),
	}
}

func (m *memAccounts) Create(ctx context.Context, username string) (*domain.Account, error) {
	if _, ok := m.byName[username]; ok {
		return nil, domain.ErrUsernameTaken
	}
	account := &domain.Account{ID: uuid.New(), Username: username, CreatedAt: time.Now()}
	m.byID[account.ID] = account
	m.byName[username] = account
	return account, nil
}

func (m *memAccounts) GetByID(ctx context.Context, userID uuid.UUID) (*domain.Account, error) {
	account, ok := m.byID[userID]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	return account, nil
}

func (m *memAccounts) GetByUsername(ctx context.Context, username string) (*domain.Account, error) {
	account, ok := m.byName[username]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	return account, nil
}

func (m *memAccounts) SetModerator(ctx context.Context, userID uuid.UUID, isModerator bool) error {
	account, ok := m.byID[userID]
	if !ok {
		return domain.ErrAccountNotFound
	}
	account.IsModerator = isModerator
	return nil
}

// memStore is an in-memory stand-in for the document store, covering
// content, vote records, statistics, and consensus metadata in one
// struct the way the real store covers them in one database.
type memStore struct {
	posts    map[string]*domain.Post
	comments map[string][]*domain.Comment
	idents   map[string][]*domain.Identification
	votes    map[uuid.UUID]map[string]domain.Direction
	stats    map[uuid.UUID]*domain.ProfileStatistics
	meta     map[string]*domain.ConsensusMetadata
}

func newMemStore() *memStore {
	return &memStore{
		posts:    make(map[string]*domain.Post),
		comments: make(map[string][]*domain.Comment),
		idents:   make(map[string][]*domain.Identification),
		votes:    make(map[uuid.UUID]map[string]domain.Direction),
		stats:    make(map[uuid.UUID]*domain.ProfileStatistics),
		meta:     make(map[string]*domain.ConsensusMetadata),
	}
}

// --- domain.ContentStore ---

func (m *memStore) CreatePost(ctx context.Context, post *domain.Post) error {
	m.posts[post.ID] = post
	return nil
}

func (m *memStore) GetPost(ctx context.Context, postID string) (*domain.Post, error) {
	post, ok := m.posts[postID]
	if !ok {
		return nil, domain.ErrPostNotFound
	}
	return post, nil
}

func (m *memStore) SetPostSpecies(ctx context.Context, postID, species string) error {
	post, ok := m.posts[postID]
	if !ok {
		return domain.ErrPostNotFound
	}
	post.Species = species
	return nil
}

func (m *memStore) ListTopPosts(ctx context.Context, limit int64) ([]domain.Post, error) {
	out := make([]domain.Post, 0, len(m.posts))
	for _, post := range m.posts {
		out = append(out, *post)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Rating > out[j].Rating })
	if int64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memStore) CreateComment(ctx context.Context, comment *domain.Comment) error {
	m.comments[comment.PostID] = append(m.comments[comment.PostID], comment)
	return nil
}

func (m *memStore) GetComment(ctx context.Context, postID, commentID string) (*domain.Comment, error) {
	for _, comment := range m.comments[postID] {
		if comment.ID == commentID {
			return comment, nil
		}
	}
	return nil, domain.ErrCommentNotFound
}

func (m *memStore) ListComments(ctx context.Context, postID string) ([]domain.Comment, error) {
	out := make([]domain.Comment, 0, len(m.comments[postID]))
	for _, comment := range m.comments[postID] {
		out = append(out, *comment)
	}
	return out, nil
}

func (m *memStore) CreateIdentification(ctx context.Context, ident *domain.Identification) error {
	m.idents[ident.PostID] = append(m.idents[ident.PostID], ident)
	return nil
}

func (m *memStore) GetIdentification(ctx context.Context, postID, candidateID string) (*domain.Identification, error) {
	for _, ident := range m.idents[postID] {
		if ident.ID == candidateID {
			return ident, nil
		}
	}
	return nil, domain.ErrIdentificationNotFound
}

func (m *memStore) ListIdentifications(ctx context.Context, postID string) ([]domain.Identification, error) {
	out := make([]domain.Identification, 0, len(m.idents[postID]))
	for _, ident := range m.idents[postID] {
		out = append(out, *ident)
	}
	return out, nil
}

func (m *memStore) TopIdentification(ctx context.Context, postID string) (string, int64, bool, error) {
	var top *domain.Identification
	for _, ident := range m.idents[postID] {
		switch {
		case top == nil,
			ident.Rating > top.Rating,
			ident.Rating == top.Rating && ident.ID < top.ID:
			top = ident
		}
	}
	if top == nil {
		return "", 0, false, nil
	}
	return top.ID, top.Rating, true, nil
}

// --- domain.VoteStore ---

func voteField(target domain.Target) string {
	return fmt.Sprintf("%s:%s:%s", target.Kind, target.PostID, target.ID)
}

func (m *memStore) InitRecord(ctx context.Context, userID uuid.UUID) error {
	m.votes[userID] = make(map[string]domain.Direction)
	return nil
}

func (m *memStore) GetDirection(ctx context.Context, userID uuid.UUID, target domain.Target) (domain.Direction, error) {
	record, ok := m.votes[userID]
	if !ok {
		return domain.DirectionAbsent, domain.ErrVoteRecordNotFound
	}
	return record[voteField(target)], nil
}

func (m *memStore) ApplyToggle(ctx context.Context, userID uuid.UUID, target domain.Target, op domain.Direction, authorID uuid.UUID, applyStats bool) (*domain.ToggleResult, error) {
	record, ok := m.votes[userID]
	if !ok {
		return nil, domain.ErrVoteRecordNotFound
	}

	previous := record[voteField(target)]
	next, delta := vote.Transition(previous, op)
	if next == domain.DirectionAbsent {
		delete(record, voteField(target))
	} else {
		record[voteField(target)] = next
	}

	var rating int64
	switch target.Kind {
	case domain.KindPost:
		m.posts[target.PostID].Rating += delta
		rating = m.posts[target.PostID].Rating
	case domain.KindComment:
		comment, err := m.GetComment(ctx, target.PostID, target.ID)
		if err != nil {
			return nil, err
		}
		comment.Rating += delta
		rating = comment.Rating
	case domain.KindIdentification:
		ident, err := m.GetIdentification(ctx, target.PostID, target.ID)
		if err != nil {
			return nil, err
		}
		ident.Rating += delta
		rating = ident.Rating
	}

	if applyStats {
		if stats, ok := m.stats[authorID]; ok {
			switch target.Kind {
			case domain.KindPost:
				stats.TotalPostRating += delta
			case domain.KindComment:
				stats.TotalCommentRating += delta
			case domain.KindIdentification:
				stats.TotalIdentificationRating += delta
			}
		}
	}

	return &domain.ToggleResult{Previous: previous, Current: next, Delta: delta, NewRating: rating}, nil
}

// --- domain.StatsStore ---

func (m *memStore) InitCounters(ctx context.Context, userID uuid.UUID) error {
	m.stats[userID] = &domain.ProfileStatistics{}
	return nil
}

func (m *memStore) IncrContentCount(ctx context.Context, userID uuid.UUID, kind domain.TargetKind, delta int64) error {
	stats, ok := m.stats[userID]
	if !ok {
		return domain.ErrAccountNotFound
	}
	switch kind {
	case domain.KindPost:
		stats.TotalPosts += delta
	case domain.KindComment:
		stats.TotalComments += delta
	case domain.KindIdentification:
		stats.TotalIdentifications += delta
	}
	return nil
}

func (m *memStore) GetCounters(ctx context.Context, userID uuid.UUID) (*domain.ProfileStatistics, error) {
	stats, ok := m.stats[userID]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	out := *stats
	return &out, nil
}

// --- domain.ConsensusStore ---

func (m *memStore) Init(ctx context.Context, postID, originalSpecies string) error {
	m.meta[postID] = &domain.ConsensusMetadata{OriginalSpecies: originalSpecies}
	return nil
}

func (m *memStore) Get(ctx context.Context, postID string) (*domain.ConsensusMetadata, error) {
	meta, ok := m.meta[postID]
	if !ok {
		return nil, domain.ErrConsensusNotFound
	}
	out := *meta
	return &out, nil
}

func (m *memStore) SetPinnedCandidate(ctx context.Context, postID, candidateID string) error {
	meta, ok := m.meta[postID]
	if !ok {
		return domain.ErrConsensusNotFound
	}
	meta.PinnedCandidate = candidateID
	return nil
}

func (m *memStore) Pin(ctx context.Context, postID, candidateID string) error {
	meta, ok := m.meta[postID]
	if !ok {
		return domain.ErrConsensusNotFound
	}
	meta.ModeratorChosen = true
	meta.PinnedCandidate = candidateID
	return nil
}

func (m *memStore) Unpin(ctx context.Context, postID string) error {
	meta, ok := m.meta[postID]
	if !ok {
		return domain.ErrConsensusNotFound
	}
	meta.ModeratorChosen = false
	meta.PinnedCandidate = ""
	return nil
}

func (m *memStore) SetStatus(ctx context.Context, postID string, status bool) error {
	meta, ok := m.meta[postID]
	if !ok {
		return domain.ErrConsensusNotFound
	}
	meta.Status = status
	return nil
}

func newTestService(t *testing.T) (*Service, *memStore) {
	t.Helper()
	accounts := newMemAccounts()
	store := newMemStore()
	resolver := consensus.NewResolver(store, store)
	engine := vote.NewEngine(store, store, accounts, resolver)
	clock := clockwork.NewFakeClock()
	overlay := moderation.NewOverlay(accounts, store, store, resolver, clock)
	return NewService(accounts, store, store, store, store, engine, overlay, clock), store
}

func register(t *testing.T, svc *Service, username string) *domain.Account {
	t.Helper()
	account, err := svc.RegisterAccount(context.Background(), username)
	require.NoError(t, err)
	return account
}

func TestRegisterAccountSeedsDocuments(t *testing.T) {
	svc, store := newTestService(t)

	account := register(t, svc, "sparrowhawk")

	_, ok := store.votes[account.ID]
	assert.True(t, ok, "the vote record must exist before the first toggle")

	stats, err := svc.GetProfileStatistics(context.Background(), "sparrowhawk")
	require.NoError(t, err)
	assert.Equal(t, "sparrowhawk", stats.Username)
	assert.Zero(t, stats.TotalPosts)
	assert.Zero(t, stats.TotalPostRating)
}

func TestRegisterAccountValidation(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.RegisterAccount(context.Background(), "   ")
	assert.Error(t, err)

	register(t, svc, "sparrowhawk")
	_, err = svc.RegisterAccount(context.Background(), "sparrowhawk")
	assert.ErrorIs(t, err, domain.ErrUsernameTaken)
}

func TestCreatePostInitsConsensusMetadata(t *testing.T) {
	svc, _ := newTestService(t)
	author := register(t, svc, "sparrowhawk")

	post, err := svc.CreatePost(context.Background(), author.ID, "mystery jay", "seen at the feeder", "unknown corvid", 52.1, 4.3)
	require.NoError(t, err)

	meta, err := svc.GetConsensusMetadata(context.Background(), post.ID)
	require.NoError(t, err)
	assert.Equal(t, "unknown corvid", meta.OriginalSpecies)
	assert.False(t, meta.ModeratorChosen)
	assert.Empty(t, meta.PinnedCandidate)

	stats, err := svc.GetProfileStatistics(context.Background(), "sparrowhawk")
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.TotalPosts)
}

func TestCreateCommentRequiresPost(t *testing.T) {
	svc, _ := newTestService(t)
	author := register(t, svc, "sparrowhawk")

	_, err := svc.CreateComment(context.Background(), author.ID, "no-such-post", "lovely shot")
	assert.ErrorIs(t, err, domain.ErrPostNotFound)
}

func TestCreateIdentificationRequiresSpecies(t *testing.T) {
	svc, _ := newTestService(t)
	author := register(t, svc, "sparrowhawk")
	post, err := svc.CreatePost(context.Background(), author.ID, "mystery jay", "", "unknown corvid", 0, 0)
	require.NoError(t, err)

	_, err = svc.CreateIdentification(context.Background(), author.ID, post.ID, "looks corvid-ish", "  ")
	assert.Error(t, err)
}

func TestToggleUpdatesAuthorStatistics(t *testing.T) {
	svc, _ := newTestService(t)
	author := register(t, svc, "sparrowhawk")
	voter := register(t, svc, "warbler")
	post, err := svc.CreatePost(context.Background(), author.ID, "mystery jay", "", "unknown corvid", 0, 0)
	require.NoError(t, err)

	target := domain.Target{Kind: domain.KindPost, PostID: post.ID, ID: post.ID}
	result, err := svc.ToggleLike(context.Background(), voter.ID, target)
	require.NoError(t, err)
	assert.Equal(t, int64(1), result.NewRating)

	stats, err := svc.GetProfileStatistics(context.Background(), "sparrowhawk")
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.TotalPostRating)

	// Retracting undoes the statistic as well as the rating.
	result, err = svc.ToggleLike(context.Background(), voter.ID, target)
	require.NoError(t, err)
	assert.Equal(t, int64(0), result.NewRating)
	assert.Equal(t, domain.DirectionAbsent, result.Current)

	stats, err = svc.GetProfileStatistics(context.Background(), "sparrowhawk")
	require.NoError(t, err)
	assert.Equal(t, int64(0), stats.TotalPostRating)
}

// Full consensus lifecycle: promotion at the threshold, reversion on
// retraction, moderator pin freezing resolution, and unpin recomputing.
func TestConsensusLifecycle(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	author := register(t, svc, "sparrowhawk")
	voters := []*domain.Account{
		register(t, svc, "warbler"),
		register(t, svc, "wren"),
		register(t, svc, "dunnock"),
	}
	moderator := register(t, svc, "warden")

	post, err := svc.CreatePost(ctx, author.ID, "loud blue visitor", "screaming in the oak", "unknown corvid", 52.1, 4.3)
	require.NoError(t, err)

	ident, err := svc.CreateIdentification(ctx, author.ID, post.ID, "crest and white wing bars", "Cyanocitta cristata")
	require.NoError(t, err)

	target := domain.Target{Kind: domain.KindIdentification, PostID: post.ID, ID: ident.ID}

	// Two likes sit below the promotion threshold.
	for _, voter := range voters[:2] {
		_, err := svc.ToggleLike(ctx, voter.ID, target)
		require.NoError(t, err)
	}
	got, err := svc.GetPost(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "unknown corvid", got.Species)

	// The third like promotes the candidate's species onto the post.
	_, err = svc.ToggleLike(ctx, voters[2].ID, target)
	require.NoError(t, err)
	got, err = svc.GetPost(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "Cyanocitta cristata", got.Species)

	meta, err := svc.GetConsensusMetadata(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, ident.ID, meta.PinnedCandidate)
	assert.False(t, meta.ModeratorChosen)

	// A retraction drops the rating back below the threshold and the
	// post reverts to its original species.
	_, err = svc.ToggleLike(ctx, voters[2].ID, target)
	require.NoError(t, err)
	got, err = svc.GetPost(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "unknown corvid", got.Species)

	meta, err = svc.GetConsensusMetadata(ctx, post.ID)
	require.NoError(t, err)
	assert.Empty(t, meta.PinnedCandidate)

	// A moderator pin bypasses the threshold and freezes resolution.
	require.NoError(t, svc.PinCandidate(ctx, post.ID, ident.ID))
	got, err = svc.GetPost(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "Cyanocitta cristata", got.Species)

	_, err = svc.ToggleDislike(ctx, moderator.ID, target)
	require.NoError(t, err)
	got, err = svc.GetPost(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "Cyanocitta cristata", got.Species, "rating changes must not move a pinned species")

	// Unpinning recomputes immediately; the rating is back to one, so
	// the post reverts.
	require.NoError(t, svc.UnpinCandidate(ctx, post.ID))
	got, err = svc.GetPost(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "unknown corvid", got.Species)
}

func TestTieBreaksToSmallestCandidateID(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	author := register(t, svc, "sparrowhawk")
	voter := register(t, svc, "warbler")

	post, err := svc.CreatePost(ctx, author.ID, "mystery jay", "", "unknown corvid", 0, 0)
	require.NoError(t, err)

	// Seed two candidates already at the threshold with controlled IDs.
	for _, id := range []string{"b-candidate", "a-candidate"} {
		require.NoError(t, store.CreateIdentification(ctx, &domain.Identification{
			ID:      id,
			PostID:  post.ID,
			Author:  "sparrowhawk",
			Species: "species " + id,
			Rating:  domain.PromotionThreshold,
		}))
	}

	// Any identification toggle on the post triggers resolution.
	target := domain.Target{Kind: domain.KindIdentification, PostID: post.ID, ID: "b-candidate"}
	_, err = svc.ToggleLike(ctx, voter.ID, target)
	require.NoError(t, err)
	_, err = svc.ToggleLike(ctx, voter.ID, target) // retract, back to a tie
	require.NoError(t, err)

	got, err := svc.GetPost(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "species a-candidate", got.Species)
}

func TestSetReviewStatus(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	author := register(t, svc, "sparrowhawk")
	post, err := svc.CreatePost(ctx, author.ID, "mystery jay", "", "unknown corvid", 0, 0)
	require.NoError(t, err)

	require.NoError(t, svc.SetReviewStatus(ctx, post.ID, true))

	meta, err := svc.GetConsensusMetadata(ctx, post.ID)
	require.NoError(t, err)
	assert.True(t, meta.Status)
}
