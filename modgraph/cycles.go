package modgraph

import (
	"sort"

	"github.com/samsmithyeah/react-circular-deps-detector-sub001/model"
)

// FindImportCycles runs a standard DFS with a recursion stack over the
// file-import-edge graph (§4.6), emitting one IMPORT-CYCLE diagnostic per
// edge that closes a cycle — the back-edge's target becomes the cycle's
// start and end, matching the scenario in spec.md §8 (`[A, B, A]`).
func (g *Graph) FindImportCycles() []model.Diagnostic {
	var diags []model.Diagnostic
	state := map[string]int{} // 0=unvisited,1=in-stack,2=done
	var stack []string

	var visit func(node string)
	visit = func(node string) {
		state[node] = 1
		stack = append(stack, node)
		for _, next := range g.Edges[node] {
			switch state[next] {
			case 0:
				visit(next)
			case 1:
				cycle := cycleFrom(stack, next)
				diags = append(diags, model.Diagnostic{
					Code: "IMPORT-CYCLE", Category: model.CategoryWarning,
					Severity: model.SeverityMedium, Confidence: model.ConfidenceHigh,
					Kind:     model.PotentialIssue,
					Location: model.Location{Path: node},
					Explanation: "import cycle: " + joinCycle(cycle),
					Cycle:    cycle,
				})
			}
		}
		stack = stack[:len(stack)-1]
		state[node] = 2
	}

	var roots []string
	for node := range g.Edges {
		roots = append(roots, node)
	}
	sort.Strings(roots)
	for _, node := range roots {
		if state[node] == 0 {
			visit(node)
		}
	}
	return diags
}

// cycleFrom extracts the cycle starting and ending at `target` from the
// current DFS stack (target is already on the stack; this is a back edge).
func cycleFrom(stack []string, target string) []string {
	idx := -1
	for i, n := range stack {
		if n == target {
			idx = i
			break
		}
	}
	if idx == -1 {
		return []string{target, target}
	}
	cycle := append([]string{}, stack[idx:]...)
	cycle = append(cycle, target)
	return cycle
}

func joinCycle(cycle []string) string {
	out := ""
	for i, c := range cycle {
		if i > 0 {
			out += " -> "
		}
		out += c
	}
	return out
}

// StronglyConnectedComponents runs Tarjan's algorithm over the file graph,
// returning every SCC with more than one member (a single-node SCC is only
// a cycle if the node self-imports, which §4.6 skips via target==p in Build).
func (g *Graph) StronglyConnectedComponents() [][]string {
	index := 0
	indices := map[string]int{}
	lowlink := map[string]int{}
	onStack := map[string]bool{}
	var stack []string
	var sccs [][]string

	var nodes []string
	seen := map[string]bool{}
	for n, targets := range g.Edges {
		if !seen[n] {
			seen[n] = true
			nodes = append(nodes, n)
		}
		for _, t := range targets {
			if !seen[t] {
				seen[t] = true
				nodes = append(nodes, t)
			}
		}
	}
	sort.Strings(nodes)

	var strongconnect func(v string)
	strongconnect = func(v string) {
		indices[v] = index
		lowlink[v] = index
		index++
		stack = append(stack, v)
		onStack[v] = true

		for _, w := range g.Edges[v] {
			if _, ok := indices[w]; !ok {
				strongconnect(w)
				if lowlink[w] < lowlink[v] {
					lowlink[v] = lowlink[w]
				}
			} else if onStack[w] {
				if indices[w] < lowlink[v] {
					lowlink[v] = indices[w]
				}
			}
		}

		if lowlink[v] == indices[v] {
			var scc []string
			for {
				n := len(stack) - 1
				w := stack[n]
				stack = stack[:n]
				onStack[w] = false
				scc = append(scc, w)
				if w == v {
					break
				}
			}
			if len(scc) > 1 {
				sort.Strings(scc)
				sccs = append(sccs, scc)
			}
		}
	}

	for _, n := range nodes {
		if _, ok := indices[n]; !ok {
			strongconnect(n)
		}
	}
	sort.Slice(sccs, func(i, j int) bool { return sccs[i][0] < sccs[j][0] })
	return sccs
}

// FindCrossFileCycles emits one CROSS-FILE-CYCLE diagnostic per discovered
// strongly-connected component (§4.6).
func (g *Graph) FindCrossFileCycles() []model.Diagnostic {
	var diags []model.Diagnostic
	for _, scc := range g.StronglyConnectedComponents() {
		diags = append(diags, model.Diagnostic{
			Code: "CROSS-FILE-CYCLE", Category: model.CategoryWarning,
			Severity: model.SeverityMedium, Confidence: model.ConfidenceHigh,
			Kind:     model.PotentialIssue,
			Location: model.Location{Path: scc[0]},
			Explanation: "cross-file import cycle among: " + joinCycle(scc),
			Cycle:    scc,
		})
	}
	return diags
}

// FindAdvisoryCycles emits "context cycle" / "function-call cycle" advisory
// diagnostics when two files mutually import and at least one of the two
// edges carries a createContext-produced binding or a named-function
// export (§4.6, final paragraph).
func (g *Graph) FindAdvisoryCycles() []model.Diagnostic {
	var diags []model.Diagnostic
	seen := map[[2]string]bool{}
	var pairs [][2]string
	for a, targets := range g.Edges {
		for _, b := range targets {
			key := [2]string{a, b}
			if seen[key] {
				continue
			}
			seen[key] = true
			pairs = append(pairs, key)
		}
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i][0] != pairs[j][0] {
			return pairs[i][0] < pairs[j][0]
		}
		return pairs[i][1] < pairs[j][1]
	})
	for _, key := range pairs {
		a, b := key[0], key[1]
		if a >= b {
			continue // visit each mutual pair once
		}
		if !mutuallyImports(g, a, b) {
			continue
		}
		if g.CarriesContextOrFunction[[2]string{a, b}] || g.CarriesContextOrFunction[[2]string{b, a}] {
			diags = append(diags, model.Diagnostic{
				Code: "ADVISORY-CONTEXT-OR-FUNCTION-CYCLE", Category: model.CategoryWarning,
				Severity: model.SeverityLow, Confidence: model.ConfidenceMedium,
				Kind:     model.PotentialIssue,
				Location: model.Location{Path: a},
				Explanation: "mutual import between " + a + " and " + b + " carries a context or function-call binding",
				Cycle:    []string{a, b, a},
			})
		}
	}
	return diags
}

func mutuallyImports(g *Graph, a, b string) bool {
	return edgeExists(g, a, b) && edgeExists(g, b, a)
}

func edgeExists(g *Graph, from, to string) bool {
	for _, t := range g.Edges[from] {
		if t == to {
			return true
		}
	}
	return false
}
