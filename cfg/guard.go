package cfg

import sitter "github.com/smacker/go-tree-sitter"

// GuardKind is the closed set of guard shapes the analyzer recognizes.
// Anything outside this set is "no guard".
type GuardKind string

const (
	NoGuard              GuardKind = ""
	EqualityGuard        GuardKind = "equality_guard"
	ToggleGuard          GuardKind = "toggle_guard"
	EarlyReturnGuard     GuardKind = "early_return_guard"
	PropertyComparisonRiskyGuard GuardKind = "property_comparison_risky_guard"
)

// ClassifyGuard inspects a branch condition against the side the setter
// call was found on (setterOnTrue) and the tracked state variable name, and
// returns the recognized guard kind (NoGuard if none of the closed set
// matches). `rootIdent` extracts the leading identifier of a member-expression
// operand (e.g. "a" from "a.b"), used to detect property-comparison guards.
func ClassifyGuard(cond *sitter.Node, setterOnTrue bool, trackedVar string, src []byte, rootIdent func(*sitter.Node) string) GuardKind {
	if cond == nil {
		return NoGuard
	}
	for cond.Type() == "parenthesized_expression" && cond.NamedChildCount() == 1 {
		cond = cond.NamedChild(0)
	}
	switch cond.Type() {
	case "unary_expression":
		if cond.ChildByFieldName("operator").Content(src) == "!" && setterOnTrue {
			operand := cond.ChildByFieldName("argument")
			if operand != nil && identName(operand, src) == trackedVar {
				return ToggleGuard
			}
		}
	case "binary_expression":
		op := cond.ChildByFieldName("operator").Content(src)
		left := cond.ChildByFieldName("left")
		right := cond.ChildByFieldName("right")
		if left == nil || right == nil {
			return NoGuard
		}
		tracksLeft := matchesTracked(left, trackedVar, rootIdent, src)
		tracksRight := matchesTracked(right, trackedVar, rootIdent, src)
		if !tracksLeft && !tracksRight {
			return NoGuard
		}
		other := right
		if tracksRight {
			other = left
		}
		isMember := other.Type() == "member_expression"
		isNotEqual := op == "!==" || op == "!="
		isEqual := op == "===" || op == "=="
		switch {
		case isNotEqual && setterOnTrue:
			if isMember {
				return PropertyComparisonRiskyGuard
			}
			return EqualityGuard
		case isEqual && !setterOnTrue:
			if isMember {
				return PropertyComparisonRiskyGuard
			}
			return EqualityGuard
		}
	}
	return NoGuard
}

func matchesTracked(n *sitter.Node, trackedVar string, rootIdent func(*sitter.Node) string, src []byte) bool {
	if n.Type() == "identifier" {
		return identName(n, src) == trackedVar
	}
	if n.Type() == "member_expression" {
		return rootIdent(n) == trackedVar
	}
	return false
}

func identName(n *sitter.Node, src []byte) string {
	if n == nil {
		return ""
	}
	return n.Content(src)
}

// HasEarlyReturnGuard reports whether nodeID is reached, directly or
// transitively, through the non-terminating side of some ancestor branch
// whose other side ends in a CFG Return node before nodeID — the
// early-return-guard shape `if (cond) return; setter(...)`, where the
// setter sits *after* the guarding if rather than inside one of its arms
// (so nearestEnclosingIf-style containment checks never see it). Walks the
// predecessor chain outward from nodeID rather than requiring the caller to
// already know which branch guards it.
func (g *Graph) HasEarlyReturnGuard(nodeID int) bool {
	return hasEarlyReturnGuardFrom(g, nodeID, map[int]bool{})
}

func hasEarlyReturnGuardFrom(g *Graph, id int, visited map[int]bool) bool {
	if visited[id] {
		return false
	}
	visited[id] = true
	for _, p := range g.Nodes[id].Pred {
		node := g.Nodes[p]
		if node.Kind == Branch {
			// node.Succ holds the branch's actual CFG edges, one per arm.
			// The arm that reached id via a direct edge is the live one;
			// any other successor is the opposite arm.
			for _, succ := range node.Succ {
				if succ == id {
					continue
				}
				if endsInReturn(g, succ, map[int]bool{}) {
					return true
				}
			}
		}
		if hasEarlyReturnGuardFrom(g, p, visited) {
			return true
		}
	}
	return false
}

func endsInReturn(g *Graph, id int, seen map[int]bool) bool {
	if seen[id] {
		return false
	}
	seen[id] = true
	node := g.Nodes[id]
	if node.Kind == Return {
		return true
	}
	if node.Kind == Exit || node.Kind == Entry {
		return false
	}
	if len(node.Succ) == 0 {
		return false
	}
	for _, s := range node.Succ {
		if !endsInReturn(g, s, seen) {
			return false
		}
	}
	return true
}
