package cfg

import (
	sitter "github.com/smacker/go-tree-sitter"
)

// loopTarget records the test/exit nodes a break/continue inside a loop (or
// labeled construct) should jump to.
type loopTarget struct {
	label      string
	continueTo int
	breakTo    int
}

type builder struct {
	g       *Graph
	src     []byte
	loops   []loopTarget

	// pendingLabel is the label a wrapping labeled_statement bound to the
	// construct currently being built (set by the "labeled_statement" case
	// below, consumed by the loop/switch builder it wraps).
	pendingLabel string
}

// Build constructs a CFG for a hook callback or component body given its
// root statement-block AST node (tree-sitter `statement_block`).
func Build(body *sitter.Node, src []byte) *Graph {
	g := newGraph()
	b := &builder{g: g, src: src}
	if body == nil {
		// CFG-build failure: malformed body. Conservative fallback per the
		// error-handling policy: entry falls straight through to exit so
		// every later reachability/dominance query degrades gracefully.
		g.addEdge(g.EntryID, g.ExitID)
		markReachable(g)
		return g
	}
	last := b.buildBlock(body, g.EntryID)
	g.addEdge(last, g.ExitID)
	markReachable(g)
	return g
}

// buildBlock threads a statement_block's children in sequence starting from
// `from`, returning the id of the last live (non-terminator) node, or -1 if
// the block always terminates (return/throw/break/continue on every path).
func (b *builder) buildBlock(block *sitter.Node, from int) int {
	cur := from
	n := int(block.NamedChildCount())
	for i := 0; i < n; i++ {
		child := block.NamedChild(i)
		if cur == -1 {
			// unreachable statement: still modeled (retained, flagged) but
			// not chained from a live predecessor.
			cur = b.buildStmt(child, -1)
			continue
		}
		cur = b.buildStmt(child, cur)
	}
	return cur
}

// buildStmt dispatches on node type, appends node(s) for stmt, wires the
// edge(s) from `from` (unless from == -1, i.e. unreachable), and returns the
// live successor id, or -1 if stmt is a terminator.
func (b *builder) buildStmt(stmt *sitter.Node, from int) int {
	switch stmt.Type() {
	case "if_statement":
		return b.buildIf(stmt, from)
	case "while_statement":
		return b.buildWhile(stmt, from)
	case "do_statement":
		return b.buildDoWhile(stmt, from)
	case "for_statement":
		return b.buildFor(stmt, from)
	case "for_in_statement":
		return b.buildForIn(stmt, from)
	case "switch_statement":
		return b.buildSwitch(stmt, from)
	case "try_statement":
		return b.buildTry(stmt, from)
	case "return_statement":
		id := b.g.newNode(Return, stmt)
		b.g.addEdge(from, id)
		b.g.addEdge(id, b.g.ExitID)
		return -1
	case "throw_statement":
		id := b.g.newNode(Throw, stmt)
		b.g.addEdge(from, id)
		// catch wiring, if any, is added by buildTry via the conservative
		// try-node-to-catch-node edge; otherwise this terminates the run.
		b.g.addEdge(id, b.g.ExitID)
		return -1
	case "break_statement":
		id := b.g.newNode(Break, stmt)
		b.g.addEdge(from, id)
		target := b.lookupLoop(breakContinueLabel(stmt, b.src))
		if target != nil {
			b.g.addEdge(id, target.breakTo)
		} else {
			b.g.addEdge(id, b.g.ExitID)
		}
		return -1
	case "continue_statement":
		id := b.g.newNode(Continue, stmt)
		b.g.addEdge(from, id)
		target := b.lookupLoop(breakContinueLabel(stmt, b.src))
		if target != nil {
			b.g.addEdge(id, target.continueTo)
		} else {
			b.g.addEdge(id, b.g.ExitID)
		}
		return -1
	case "statement_block":
		return b.buildBlock(stmt, from)
	case "labeled_statement":
		// the label attaches to the inner loop/switch for break/continue
		// target resolution; stash it for the loop/switch builder this
		// delegates to, then restore whatever label (if any) was pending
		// before this node so an unlabeled sibling never inherits it.
		body := stmt.ChildByFieldName("body")
		if body == nil {
			body = stmt.NamedChild(stmt.NamedChildCount() - 1)
		}
		if body == nil {
			return from
		}
		prev := b.pendingLabel
		b.pendingLabel = labeledStatementName(stmt, b.src)
		result := b.buildStmt(body, from)
		b.pendingLabel = prev
		return result
	default:
		// expression_statement, variable_declaration, etc.: a plain
		// statement node. Short-circuit/ternary branches inside its
		// expression are modeled by rules/semantic via AST inspection of
		// the statement's expression, not by the CFG shape itself, except
		// where this builder recognizes top-level conditional expressions
		// (see buildExprBranches).
		id := b.g.newNode(Stmt, stmt)
		b.g.addEdge(from, id)
		return b.buildExprBranches(stmt, id)
	}
}

// buildExprBranches inspects a plain statement for top-level short-circuit
// (&&, ||, ??) and ternary expressions and optional member/call chains,
// adding explicit branch nodes per spec so the right-hand side (or the
// optional continuation) is treated as conditional.
func (b *builder) buildExprBranches(stmt *sitter.Node, from int) int {
	var expr *sitter.Node
	walkNamed(stmt, func(n *sitter.Node) bool {
		switch n.Type() {
		case "binary_expression":
			op := opToken(n, b.src)
			if op == "&&" || op == "||" || op == "??" {
				expr = n
				return false
			}
		case "ternary_expression":
			expr = n
			return false
		case "optional_chain":
			expr = n
			return false
		}
		return true
	})
	if expr == nil {
		return from
	}
	branch := b.g.newNode(Branch, expr)
	b.g.addEdge(from, branch)
	merge := b.g.newNode(Merge, nil)
	b.g.Nodes[branch].TrueSucc = merge
	b.g.Nodes[branch].FalseSucc = merge
	b.g.addEdge(branch, merge)
	return merge
}

func (b *builder) buildIf(stmt *sitter.Node, from int) int {
	branch := b.g.newNode(Branch, stmt.ChildByFieldName("condition"))
	b.g.addEdge(from, branch)
	merge := b.g.newNode(Merge, nil)

	cons := stmt.ChildByFieldName("consequence")
	nSucc := len(b.g.Nodes[branch].Succ)
	trueEnd := b.buildStmt(cons, branch)
	if len(b.g.Nodes[branch].Succ) > nSucc {
		b.g.Nodes[branch].TrueSucc = b.g.Nodes[branch].Succ[nSucc]
	}
	if trueEnd != -1 {
		b.g.addEdge(trueEnd, merge)
	}

	alt := stmt.ChildByFieldName("alternative")
	if alt == nil {
		// empty alternate connects the false successor directly to merge
		b.g.Nodes[branch].FalseSucc = merge
		b.g.addEdge(branch, merge)
	} else {
		nSucc = len(b.g.Nodes[branch].Succ)
		falseEnd := b.buildStmt(alt, branch)
		if len(b.g.Nodes[branch].Succ) > nSucc {
			b.g.Nodes[branch].FalseSucc = b.g.Nodes[branch].Succ[nSucc]
		}
		if falseEnd != -1 {
			b.g.addEdge(falseEnd, merge)
		}
	}
	if len(merge_preds(b.g, merge)) == 0 {
		return -1 // both branches terminate
	}
	return merge
}

func merge_preds(g *Graph, id int) []int { return g.Nodes[id].Pred }

func (b *builder) buildWhile(stmt *sitter.Node, from int) int {
	test := b.g.newNode(LoopTest, stmt.ChildByFieldName("condition"))
	b.g.addEdge(from, test)
	exit := b.g.newNode(Merge, nil)
	b.g.Nodes[test].FalseSucc = exit
	b.g.addEdge(test, exit)

	b.loops = append(b.loops, loopTarget{label: b.consumeLabel(), continueTo: test, breakTo: exit})
	bodyEnd := b.buildStmt(stmt.ChildByFieldName("body"), test)
	b.loops = b.loops[:len(b.loops)-1]

	b.g.Nodes[test].TrueSucc = firstSucc(b.g, test, bodyEnd)
	if bodyEnd != -1 {
		b.g.addEdge(bodyEnd, test)
	}
	return exit
}

func (b *builder) buildDoWhile(stmt *sitter.Node, from int) int {
	// do-while places body before test.
	bodyEntry := b.g.newNode(Stmt, nil)
	b.g.addEdge(from, bodyEntry)
	test := b.g.newNode(LoopTest, stmt.ChildByFieldName("condition"))
	exit := b.g.newNode(Merge, nil)
	b.g.Nodes[test].FalseSucc = exit
	b.g.Nodes[test].TrueSucc = bodyEntry

	b.loops = append(b.loops, loopTarget{label: b.consumeLabel(), continueTo: test, breakTo: exit})
	bodyEnd := b.buildStmt(stmt.ChildByFieldName("body"), bodyEntry)
	b.loops = b.loops[:len(b.loops)-1]

	if bodyEnd != -1 {
		b.g.addEdge(bodyEnd, test)
	}
	b.g.addEdge(test, exit)
	return exit
}

func (b *builder) buildFor(stmt *sitter.Node, from int) int {
	cur := from
	if init := stmt.ChildByFieldName("initializer"); init != nil {
		initNode := b.g.newNode(Stmt, init)
		b.g.addEdge(cur, initNode)
		cur = initNode
	}
	test := b.g.newNode(LoopTest, stmt.ChildByFieldName("condition"))
	b.g.addEdge(cur, test)
	exit := b.g.newNode(Merge, nil)
	b.g.Nodes[test].FalseSucc = exit
	b.g.addEdge(test, exit)

	var update int = -1
	if upd := stmt.ChildByFieldName("increment"); upd != nil {
		update = b.g.newNode(LoopUpd, upd)
	}
	continueTarget := test
	if update != -1 {
		continueTarget = update
	}
	b.loops = append(b.loops, loopTarget{label: b.consumeLabel(), continueTo: continueTarget, breakTo: exit})
	bodyEnd := b.buildStmt(stmt.ChildByFieldName("body"), test)
	b.loops = b.loops[:len(b.loops)-1]
	b.g.Nodes[test].TrueSucc = firstSucc(b.g, test, bodyEnd)

	if update != -1 {
		if bodyEnd != -1 {
			b.g.addEdge(bodyEnd, update)
		}
		b.g.addEdge(update, test)
	} else if bodyEnd != -1 {
		b.g.addEdge(bodyEnd, test)
	}
	return exit
}

func (b *builder) buildForIn(stmt *sitter.Node, from int) int {
	// for-in / for-of share a shape: a loop_test over "has next", body,
	// back-edge to test.
	test := b.g.newNode(LoopTest, stmt.ChildByFieldName("left"))
	b.g.addEdge(from, test)
	exit := b.g.newNode(Merge, nil)
	b.g.Nodes[test].FalseSucc = exit
	b.g.addEdge(test, exit)

	b.loops = append(b.loops, loopTarget{label: b.consumeLabel(), continueTo: test, breakTo: exit})
	bodyEnd := b.buildStmt(stmt.ChildByFieldName("body"), test)
	b.loops = b.loops[:len(b.loops)-1]

	b.g.Nodes[test].TrueSucc = firstSucc(b.g, test, bodyEnd)
	if bodyEnd != -1 {
		b.g.addEdge(bodyEnd, test)
	}
	return exit
}

func (b *builder) buildSwitch(stmt *sitter.Node, from int) int {
	branch := b.g.newNode(Branch, stmt.ChildByFieldName("value"))
	b.g.addEdge(from, branch)
	exit := b.g.newNode(Merge, nil)
	b.loops = append(b.loops, loopTarget{label: b.consumeLabel(), continueTo: -1, breakTo: exit})

	hasDefault := false
	body := stmt.ChildByFieldName("body")
	var prevCaseEnd int = -1
	if body != nil {
		n := int(body.NamedChildCount())
		for i := 0; i < n; i++ {
			c := body.NamedChild(i)
			if c.Type() != "switch_case" && c.Type() != "switch_default" {
				continue
			}
			if c.Type() == "switch_default" {
				hasDefault = true
			}
			caseEntry := b.g.newNode(Stmt, c)
			b.g.addEdge(branch, caseEntry)
			if prevCaseEnd != -1 {
				// fall-through: previous case's last statement flows into
				// this case's first statement too.
				b.g.addEdge(prevCaseEnd, caseEntry)
			}
			consEnd := caseEntry
			m := int(c.NamedChildCount())
			for j := 0; j < m; j++ {
				cc := c.NamedChild(j)
				if cc.Type() == "switch_case" || cc.Type() == "switch_default" {
					continue
				}
				consEnd = b.buildStmt(cc, consEnd)
				if consEnd == -1 {
					break
				}
			}
			if consEnd != -1 {
				b.g.addEdge(consEnd, exit)
			}
			prevCaseEnd = consEnd
		}
	}
	if !hasDefault {
		// discriminant with no default connects directly to switch-exit
		b.g.addEdge(branch, exit)
	}
	b.loops = b.loops[:len(b.loops)-1]
	return exit
}

func (b *builder) buildTry(stmt *sitter.Node, from int) int {
	tryNode := b.g.newNode(Try, stmt)
	b.g.addEdge(from, tryNode)

	var finallyEntry, postNode int = -1, -1
	post := b.g.newNode(Merge, nil)
	postNode = post

	finallyClause := stmt.ChildByFieldName("finalizer")
	if finallyClause != nil {
		finallyEntry = b.g.newNode(Finally, finallyClause)
	}
	target := postNode
	if finallyEntry != -1 {
		target = finallyEntry
		b.g.addEdge(finallyEntry, postNode)
	}

	tryBlock := stmt.ChildByFieldName("body")
	tryEnd := b.buildBlock(tryBlock, tryNode)
	if tryEnd != -1 {
		b.g.addEdge(tryEnd, target)
	}

	catchClause := stmt.ChildByFieldName("handler")
	if catchClause != nil {
		catchNode := b.g.newNode(Catch, catchClause)
		// any throw in the protected region reaches catch: modeled as a
		// direct edge from the try node itself (conservative approximation
		// of "implicit exception edges from anywhere in try").
		b.g.addEdge(tryNode, catchNode)
		catchBody := catchClause.ChildByFieldName("body")
		catchEnd := catchNode
		if catchBody != nil {
			catchEnd = b.buildBlock(catchBody, catchNode)
		}
		if catchEnd != -1 {
			b.g.addEdge(catchEnd, target)
		}
	}
	return target
}

func (b *builder) lookupLoop(lbl string) *loopTarget {
	for i := len(b.loops) - 1; i >= 0; i-- {
		if lbl == "" || b.loops[i].label == lbl {
			return &b.loops[i]
		}
	}
	return nil
}

func firstSucc(g *Graph, from, bodyEnd int) int {
	if len(g.Nodes[from].Succ) == 0 {
		return -1
	}
	for _, s := range g.Nodes[from].Succ {
		if s != g.Nodes[from].FalseSucc {
			return s
		}
	}
	return g.Nodes[from].Succ[0]
}

// consumeLabel returns the label a wrapping labeled_statement bound to the
// loop/switch construct currently being built, clearing it so it can't be
// mistakenly reattached to a later, unlabeled sibling.
func (b *builder) consumeLabel() string {
	lbl := b.pendingLabel
	b.pendingLabel = ""
	return lbl
}

// breakContinueLabel extracts the optional target label carried by a
// break_statement or continue_statement node itself (`break outer;`),
// distinct from the label a labeled_statement binds to its body.
func breakContinueLabel(stmt *sitter.Node, src []byte) string {
	lbl := stmt.ChildByFieldName("label")
	if lbl == nil {
		return ""
	}
	return lbl.Content(src)
}

// labeledStatementName extracts the identifier a labeled_statement binds to
// its body, falling back to the first named child if the grammar doesn't
// expose a "label" field.
func labeledStatementName(stmt *sitter.Node, src []byte) string {
	lbl := stmt.ChildByFieldName("label")
	if lbl == nil {
		lbl = stmt.NamedChild(0)
	}
	if lbl == nil {
		return ""
	}
	return lbl.Content(src)
}

func opToken(n *sitter.Node, src []byte) string {
	op := n.ChildByFieldName("operator")
	if op == nil {
		return ""
	}
	return op.Content(src)
}

func walkNamed(n *sitter.Node, visit func(*sitter.Node) bool) {
	if n == nil {
		return
	}
	if !visit(n) {
		return
	}
	cnt := int(n.NamedChildCount())
	for i := 0; i < cnt; i++ {
		walkNamed(n.NamedChild(i), visit)
	}
}

func markReachable(g *Graph) {
	seen := map[int]bool{g.EntryID: true}
	queue := []int{g.EntryID}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		g.Nodes[cur].Reachable = true
		for _, s := range g.Nodes[cur].Succ {
			if !seen[s] {
				seen[s] = true
				queue = append(queue, s)
			}
		}
	}
}
