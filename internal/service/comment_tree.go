package service

import (
	"sort"

	"github.com/Dev-MJBS/capelo-club-backend/internal/model"
	"github.com/Dev-MJBS/capelo-club-backend/pkg/apperror"
	"github.com/google/uuid"
)

// MaxThreadDepth is the deepest visual nesting level. Replies keep attaching
// below it, but rendering stops indenting and the inline composer is replaced
// by a jump to the root-level one.
const MaxThreadDepth = 6

// TreeNode wraps a post with its resolved replies. Built fresh on every read,
// never persisted.
type TreeNode struct {
	Post     *model.Post `json:"post"`
	Depth    int         `json:"depth"`
	Children []*TreeNode `json:"children,omitempty"`
}

// BuildTree assembles the reply tree rooted at rootID from a flat set of
// posts belonging to one discussion scope. Children are ordered by creation
// time, ties broken by ID so the result is deterministic.
//
// Fails with apperror.ErrNotFound when rootID is not in nodes, and with
// apperror.ErrCycleDetected when the parent links loop. The walk is iterative,
// so a pathologically deep thread cannot blow the stack.
func BuildTree(rootID uuid.UUID, nodes []*model.Post) (*TreeNode, error) {
	byID := make(map[uuid.UUID]*model.Post, len(nodes))
	childrenOf := make(map[uuid.UUID][]*model.Post, len(nodes))
	for _, n := range nodes {
		byID[n.ID] = n
		if n.ParentID != nil {
			childrenOf[*n.ParentID] = append(childrenOf[*n.ParentID], n)
		}
	}

	root, ok := byID[rootID]
	if !ok {
		return nil, apperror.ErrNotFound
	}

	for _, siblings := range childrenOf {
		sort.SliceStable(siblings, func(i, j int) bool {
			if siblings[i].CreatedAt.Equal(siblings[j].CreatedAt) {
				return siblings[i].ID.String() < siblings[j].ID.String()
			}
			return siblings[i].CreatedAt.Before(siblings[j].CreatedAt)
		})
	}

	rootNode := &TreeNode{Post: root, Depth: 0}
	visited := map[uuid.UUID]bool{rootID: true}

	stack := []*TreeNode{rootNode}
	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		for _, child := range childrenOf[current.Post.ID] {
			// With single parent links, meeting a node twice means the
			// parent chain loops back on itself.
			if visited[child.ID] {
				return nil, apperror.ErrCycleDetected
			}
			visited[child.ID] = true

			childNode := &TreeNode{Post: child, Depth: current.Depth + 1}
			current.Children = append(current.Children, childNode)
			stack = append(stack, childNode)
		}
	}

	return rootNode, nil
}

// RenderMode tells the client how to place a reply visually.
type RenderMode int

const (
	// RenderIndented nests the reply under its parent.
	RenderIndented RenderMode = iota
	// RenderFlattened keeps the reply in the parent context with no further
	// indentation; the client offers the root-level composer instead.
	RenderFlattened
)

// RenderDirective is the per-node rendering contract. ColorIndex cycles the
// thread line color and is purely cosmetic.
type RenderDirective struct {
	Mode        RenderMode `json:"mode"`
	IndentLevel int        `json:"indent_level"`
	ColorIndex  int        `json:"color_index"`
}

// RenderDirectiveFor is a pure function of depth.
func RenderDirectiveFor(depth int) RenderDirective {
	if depth >= MaxThreadDepth {
		return RenderDirective{Mode: RenderFlattened, IndentLevel: MaxThreadDepth, ColorIndex: depth % 3}
	}
	return RenderDirective{Mode: RenderIndented, IndentLevel: depth, ColorIndex: depth % 3}
}

// CanReplyInline reports whether the inline composer is offered at this depth.
func CanReplyInline(depth int) bool {
	return depth < MaxThreadDepth
}
