package ast

// Walk traverses the tree rooted at n in pre-order, calling visit for
// each non-nil node. If visit returns false the node's children are
// skipped.
func Walk(n Node, visit func(Node) bool) {
	if n == nil {
		return
	}
	if !visit(n) {
		return
	}
	for _, c := range children(n) {
		Walk(c, visit)
	}
}

// BuildParentMap returns a map from every node reachable from root to
// its parent. The root itself has no entry.
func BuildParentMap(root Node) map[Node]Node {
	parents := make(map[Node]Node)
	var walk func(n Node)
	walk = func(n Node) {
		for _, c := range children(n) {
			parents[c] = n
			walk(c)
		}
	}
	walk(root)
	return parents
}

// children returns the direct child nodes of n in source order.
// Optional interface-typed fields hold untyped nil when absent; the
// parser and sema never store typed-nil pointers in them.
func children(n Node) []Node {
	var out []Node
	add := func(c Node) {
		if c != nil {
			out = append(out, c)
		}
	}

	switch v := n.(type) {
	case *TranslationUnit:
		for _, d := range v.Decls {
			add(d)
		}
	case *FuncDecl:
		for _, p := range v.Params {
			add(p)
		}
		if v.Body != nil {
			add(v.Body)
		}
	case *VarDecl:
		if v.Init != nil {
			add(v.Init)
		}
	case *RecordDecl:
		for _, f := range v.Fields {
			add(f)
		}

	case *BlockStmt:
		for _, s := range v.Stmts {
			add(s)
		}
	case *DeclStmt:
		for _, d := range v.Decls {
			add(d)
		}
	case *ExprStmt:
		add(v.E)
	case *ReturnStmt:
		if v.Value != nil {
			add(v.Value)
		}
	case *IfStmt:
		add(v.Cond)
		add(v.Then)
		if v.Else != nil {
			add(v.Else)
		}
	case *WhileStmt:
		add(v.Cond)
		add(v.Body)
	case *ForStmt:
		if v.Init != nil {
			add(v.Init)
		}
		if v.Cond != nil {
			add(v.Cond)
		}
		if v.Post != nil {
			add(v.Post)
		}
		add(v.Body)

	case *ParenExpr:
		add(v.Sub)
	case *UnaryExpr:
		add(v.Operand)
	case *BinaryExpr:
		add(v.LHS)
		add(v.RHS)
	case *CondExpr:
		add(v.Cond)
		add(v.Then)
		add(v.Else)
	case *CallExpr:
		add(v.Fn)
		for _, a := range v.Args {
			add(a)
		}
	case *MemberExpr:
		add(v.Base)
	case *IndexExpr:
		add(v.Base)
		add(v.Index)
	case *SizeofExpr:
		if v.Operand != nil {
			add(v.Operand)
		}
	case *StaticCastExpr:
		add(v.Sub)
	case *ConstCastExpr:
		add(v.Sub)
	case *ReinterpretCastExpr:
		add(v.Sub)
	case *DynamicCastExpr:
		add(v.Sub)
	case *FunctionalCastExpr:
		add(v.Sub)
	case *CStyleCastExpr:
		add(v.Sub)
	case *ImplicitCastExpr:
		add(v.Sub)
	case *NewExpr:
		for _, a := range v.Args {
			add(a)
		}
	case *DeleteExpr:
		add(v.Operand)
	}

	return out
}
