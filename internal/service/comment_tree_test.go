package service

import (
	"testing"
	"time"

	"github.com/Dev-MJBS/capelo-club-backend/internal/model"
	"github.com/Dev-MJBS/capelo-club-backend/pkg/apperror"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makePost(id uuid.UUID, parent *uuid.UUID, createdAt time.Time) *model.Post {
	return &model.Post{
		ID:        id,
		ParentID:  parent,
		Content:   "content",
		CreatedAt: createdAt,
	}
}

// chainPosts builds root -> reply -> reply... n posts deep, one child each.
func chainPosts(n int) (uuid.UUID, []*model.Post) {
	base := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	posts := make([]*model.Post, 0, n)

	rootID := uuid.New()
	posts = append(posts, makePost(rootID, nil, base))

	prev := rootID
	for i := 1; i < n; i++ {
		id := uuid.New()
		pid := prev
		posts = append(posts, makePost(id, &pid, base.Add(time.Duration(i)*time.Minute)))
		prev = id
	}
	return rootID, posts
}

func collectIDs(node *TreeNode, into map[uuid.UUID]int) {
	into[node.Post.ID] = node.Depth
	for _, child := range node.Children {
		collectIDs(child, into)
	}
}

func TestBuildTreeContainsEveryReachablePost(t *testing.T) {
	rootID, posts := chainPosts(10)

	tree, err := BuildTree(rootID, posts)
	require.NoError(t, err)

	depths := map[uuid.UUID]int{}
	collectIDs(tree, depths)

	assert.Len(t, depths, len(posts))
	for _, p := range posts {
		_, ok := depths[p.ID]
		assert.True(t, ok, "post %s missing from tree", p.ID)
	}
}

func TestBuildTreeIsDeterministic(t *testing.T) {
	base := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	rootID := uuid.New()

	// Two siblings sharing a timestamp, one created later.
	tieA := uuid.MustParse("00000000-0000-0000-0000-00000000000a")
	tieB := uuid.MustParse("00000000-0000-0000-0000-00000000000b")
	late := uuid.New()

	posts := []*model.Post{
		makePost(rootID, nil, base),
		makePost(tieB, &rootID, base.Add(time.Minute)),
		makePost(late, &rootID, base.Add(2*time.Minute)),
		makePost(tieA, &rootID, base.Add(time.Minute)),
	}

	first, err := BuildTree(rootID, posts)
	require.NoError(t, err)

	// Shuffle the input order and rebuild.
	shuffled := []*model.Post{posts[3], posts[1], posts[0], posts[2]}
	second, err := BuildTree(rootID, shuffled)
	require.NoError(t, err)

	require.Len(t, first.Children, 3)
	require.Len(t, second.Children, 3)
	for i := range first.Children {
		assert.Equal(t, first.Children[i].Post.ID, second.Children[i].Post.ID)
	}

	// CreatedAt ascending, ID string as tiebreak.
	assert.Equal(t, tieA, first.Children[0].Post.ID)
	assert.Equal(t, tieB, first.Children[1].Post.ID)
	assert.Equal(t, late, first.Children[2].Post.ID)
}

func TestBuildTreeDepthIncrementsPerLevel(t *testing.T) {
	rootID, posts := chainPosts(9)

	tree, err := BuildTree(rootID, posts)
	require.NoError(t, err)

	depth := 0
	node := tree
	for {
		assert.Equal(t, depth, node.Depth)
		if len(node.Children) == 0 {
			break
		}
		require.Len(t, node.Children, 1)
		node = node.Children[0]
		depth++
	}
	assert.Equal(t, 8, depth)
}

func TestBuildTreeIgnoresUnreachablePosts(t *testing.T) {
	base := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	rootID := uuid.New()
	otherRoot := uuid.New()
	otherChild := uuid.New()

	posts := []*model.Post{
		makePost(rootID, nil, base),
		makePost(otherRoot, nil, base),
		makePost(otherChild, &otherRoot, base.Add(time.Minute)),
	}

	tree, err := BuildTree(rootID, posts)
	require.NoError(t, err)

	depths := map[uuid.UUID]int{}
	collectIDs(tree, depths)
	assert.Len(t, depths, 1)
}

func TestBuildTreeRootNotFound(t *testing.T) {
	_, posts := chainPosts(3)

	_, err := BuildTree(uuid.New(), posts)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestBuildTreeDetectsCycle(t *testing.T) {
	base := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	a := uuid.New()
	b := uuid.New()

	// Corrupted parent links: a and b point at each other.
	posts := []*model.Post{
		makePost(a, &b, base),
		makePost(b, &a, base.Add(time.Minute)),
	}

	_, err := BuildTree(a, posts)
	assert.ErrorIs(t, err, apperror.ErrCycleDetected)

	// Self-parent is the degenerate cycle.
	self := uuid.New()
	_, err = BuildTree(self, []*model.Post{makePost(self, &self, base)})
	assert.ErrorIs(t, err, apperror.ErrCycleDetected)
}

func TestBuildTreeSurvivesVeryDeepThreads(t *testing.T) {
	rootID, posts := chainPosts(5000)

	tree, err := BuildTree(rootID, posts)
	require.NoError(t, err)

	depths := map[uuid.UUID]int{}
	collectIDs(tree, depths)
	assert.Len(t, depths, 5000)
}

func TestRenderDirectiveFlattensAtMaxDepth(t *testing.T) {
	for depth := 0; depth < MaxThreadDepth; depth++ {
		d := RenderDirectiveFor(depth)
		assert.Equal(t, RenderIndented, d.Mode, "depth %d", depth)
		assert.Equal(t, depth, d.IndentLevel, "depth %d", depth)
	}

	for _, depth := range []int{MaxThreadDepth, MaxThreadDepth + 1, 40} {
		d := RenderDirectiveFor(depth)
		assert.Equal(t, RenderFlattened, d.Mode, "depth %d", depth)
		assert.Equal(t, MaxThreadDepth, d.IndentLevel, "depth %d", depth)
	}
}

func TestRenderDirectiveColorCycles(t *testing.T) {
	assert.Equal(t, 0, RenderDirectiveFor(0).ColorIndex)
	assert.Equal(t, 1, RenderDirectiveFor(1).ColorIndex)
	assert.Equal(t, 2, RenderDirectiveFor(2).ColorIndex)
	assert.Equal(t, 0, RenderDirectiveFor(3).ColorIndex)
	assert.Equal(t, 1, RenderDirectiveFor(7).ColorIndex)
}

func TestCanReplyInline(t *testing.T) {
	assert.True(t, CanReplyInline(0))
	assert.True(t, CanReplyInline(MaxThreadDepth-1))
	assert.False(t, CanReplyInline(MaxThreadDepth))
	assert.False(t, CanReplyInline(MaxThreadDepth+3))
}
