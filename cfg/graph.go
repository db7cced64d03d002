// Package cfg builds and queries per-hook-callback and per-component-body
// control-flow graphs: an arena of integer-indexed nodes with successor and
// predecessor index vectors, reachability, dominators (iterative
// intersection-to-fixpoint), bounded path-condition enumeration, and the
// closed-set guard recognizer.
package cfg

import sitter "github.com/smacker/go-tree-sitter"

// Kind enumerates every control-flow-graph node kind.
type Kind string

const (
	Entry    Kind = "entry"
	Exit     Kind = "exit"
	Stmt     Kind = "statement"
	Branch   Kind = "branch"
	LoopTest Kind = "loop_test"
	LoopUpd  Kind = "loop_update"
	Try      Kind = "try"
	Catch    Kind = "catch"
	Finally  Kind = "finally"
	Throw    Kind = "throw"
	Return   Kind = "return"
	Break    Kind = "break"
	Continue Kind = "continue"
	Merge    Kind = "merge"
)

// Node is one arena-owned CFG node. Successors/predecessors are indices
// into Graph.Nodes, never pointers, so the graph can never own a cycle of
// live Go pointers regardless of the control structure it models.
type Node struct {
	ID          int
	Kind        Kind
	AST         *sitter.Node // originating AST node, nil for entry/exit/merge synthetic nodes
	Succ        []int
	Pred        []int
	TrueSucc    int // for Branch/LoopTest: index of the true-branch successor, -1 if unset
	FalseSucc   int // for Branch/LoopTest: index of the false-branch successor, -1 if unset
	Reachable   bool
	Label       string // loop/switch label, when applicable
}

// Graph is one arena of CFG nodes for a single hook callback or component
// body. Exactly one Entry node and one Exit node exist, per spec.
type Graph struct {
	Nodes     []*Node
	EntryID   int
	ExitID    int
	dominators map[int]map[int]bool // node -> set of dominating node ids, computed lazily
	overflowed bool                  // set when a bounded traversal hit its limit
}

func newGraph() *Graph {
	g := &Graph{}
	g.EntryID = g.newNode(Entry, nil)
	g.ExitID = g.newNode(Exit, nil)
	return g
}

func (g *Graph) newNode(kind Kind, ast *sitter.Node) int {
	id := len(g.Nodes)
	g.Nodes = append(g.Nodes, &Node{ID: id, Kind: kind, AST: ast, TrueSucc: -1, FalseSucc: -1})
	return id
}

func (g *Graph) addEdge(from, to int) {
	if from < 0 || to < 0 {
		return
	}
	fn, tn := g.Nodes[from], g.Nodes[to]
	for _, s := range fn.Succ {
		if s == to {
			return // no duplicate edges
		}
	}
	fn.Succ = append(fn.Succ, to)
	tn.Pred = append(tn.Pred, from)
}

// Node looks up a node by id.
func (g *Graph) Node(id int) *Node { return g.Nodes[id] }

// Overflowed reports whether a bounded enumeration over this graph hit its
// limit during the last call to Paths.
func (g *Graph) Overflowed() bool { return g.overflowed }
