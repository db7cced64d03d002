package cfg

import sitter "github.com/smacker/go-tree-sitter"

// BranchStep records, for one branch/loop_test node traversed on a path,
// the AST node of the condition and which edge was taken.
type BranchStep struct {
	NodeID    int
	Condition *sitter.Node
	TookTrue  bool
}

// Path is one entry-to-target path, expressed as its sequence of branch
// decisions plus the full node-id sequence (used for DebugRecord).
type Path struct {
	Branches []BranchStep
	NodeIDs  []int
}

// Paths enumerates paths from entry to target, bounded by maxPaths and
// maxLen to avoid combinatorial blow-up on deeply nested/looping graphs. On
// overflow it returns whatever it found so far and sets g.overflowed, which
// callers must treat as "guarded cases become unguarded, confirmed becomes
// potential" per the bounded-enumeration-overflow policy.
func (g *Graph) Paths(target, maxPaths, maxLen int) []Path {
	g.overflowed = false
	var results []Path
	var walk func(cur int, steps []BranchStep, nodeIDs []int)
	walk = func(cur int, steps []BranchStep, nodeIDs []int) {
		if len(results) >= maxPaths {
			g.overflowed = true
			return
		}
		if len(nodeIDs) > maxLen {
			g.overflowed = true
			return
		}
		nodeIDs = append(nodeIDs, cur)
		if cur == target {
			cp := make([]BranchStep, len(steps))
			copy(cp, steps)
			idc := make([]int, len(nodeIDs))
			copy(idc, nodeIDs)
			results = append(results, Path{Branches: cp, NodeIDs: idc})
			return
		}
		n := g.Nodes[cur]
		for _, s := range n.Succ {
			nextSteps := steps
			if n.Kind == Branch || n.Kind == LoopTest {
				tookTrue := s == n.TrueSucc
				nextSteps = append(append([]BranchStep{}, steps...), BranchStep{NodeID: cur, Condition: n.AST, TookTrue: tookTrue})
			}
			walk(s, nextSteps, nodeIDs)
			if len(results) >= maxPaths {
				return
			}
		}
	}
	walk(g.EntryID, nil, nil)
	return results
}

// ReachesUnguarded reports whether at least one bounded path from entry to
// target exists that passes through no branch recognized as an effective
// guard by isGuard. Used by rules that need "no recognized guard exists on
// the path to S".
func (g *Graph) ReachesUnguarded(target int, isGuard func(BranchStep) bool, maxPaths, maxLen int) bool {
	for _, p := range g.Paths(target, maxPaths, maxLen) {
		guarded := false
		for _, step := range p.Branches {
			if isGuard(step) {
				guarded = true
				break
			}
		}
		if !guarded {
			return true
		}
	}
	return false
}
