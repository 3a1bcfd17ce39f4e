// Package sema annotates a parsed translation unit with static types,
// value categories and implicit conversions. Checks run on the
// annotated tree and never consult the parser's tables.
//
// The pass is deliberately forgiving: names it cannot resolve get the
// invalid type, and checks skip expressions whose types are invalid.
// A lint tool sees partial programs all the time; refusing to analyze
// them would make it useless.
package sema

import (
	"github.com/cxxlint/cxxlint/internal/ast"
	"github.com/cxxlint/cxxlint/internal/ctypes"
)

// Sema carries the state of one analysis pass
type Sema struct {
	scopes  []map[string]ast.Node
	records map[string]*ast.RecordDecl
	funcs   map[string]*ast.FuncDecl

	// Return type of the function currently being analyzed
	currentReturn *ctypes.Type
}

// Analyze annotates unit in place
func Analyze(unit *ast.TranslationUnit) {
	s := &Sema{
		records: make(map[string]*ast.RecordDecl),
		funcs:   make(map[string]*ast.FuncDecl),
	}
	s.pushScope()

	for _, d := range unit.Decls {
		s.analyzeDecl(d)
	}
}

func (s *Sema) analyzeDecl(d ast.Decl) {
	switch decl := d.(type) {
	case *ast.RecordDecl:
		if _, ok := s.records[decl.Name]; !ok || len(decl.Fields) > 0 {
			s.records[decl.Name] = decl
		}
	case *ast.VarDecl:
		s.analyzeVarDecl(decl)
	case *ast.FuncDecl:
		s.analyzeFuncDecl(decl)
	case *ast.TypedefDecl, *ast.EnumDecl, *ast.ParamDecl, *ast.FieldDecl:
		// Nothing to resolve
	}
}

func (s *Sema) analyzeVarDecl(v *ast.VarDecl) {
	if v.Init != nil {
		v.Init = s.annotate(v.Init)
		v.Init = s.materialize(v.Init, v.Ty)
	}
	s.declare(v.Name, v)
}

func (s *Sema) analyzeFuncDecl(fn *ast.FuncDecl) {
	if _, ok := s.funcs[fn.Name]; !ok {
		s.funcs[fn.Name] = fn
	}
	s.declare(fn.Name, fn)

	if fn.Body == nil {
		return
	}
	s.currentReturn = fn.Return
	s.pushScope()
	for _, p := range fn.Params {
		if p.Name != "" {
			s.declare(p.Name, p)
		}
	}
	s.analyzeStmt(fn.Body)
	s.popScope()
	s.currentReturn = nil
}

func (s *Sema) analyzeStmt(stmt ast.Stmt) {
	switch st := stmt.(type) {
	case *ast.BlockStmt:
		s.pushScope()
		for _, inner := range st.Stmts {
			s.analyzeStmt(inner)
		}
		s.popScope()
	case *ast.DeclStmt:
		for _, d := range st.Decls {
			s.analyzeDecl(d)
		}
	case *ast.ExprStmt:
		st.E = s.annotate(st.E)
	case *ast.ReturnStmt:
		if st.Value != nil {
			st.Value = s.annotate(st.Value)
			if s.currentReturn != nil && !s.currentReturn.IsVoid() {
				st.Value = s.materialize(st.Value, s.currentReturn)
			}
		}
	case *ast.IfStmt:
		st.Cond = s.annotate(st.Cond)
		s.analyzeStmt(st.Then)
		if st.Else != nil {
			s.analyzeStmt(st.Else)
		}
	case *ast.WhileStmt:
		st.Cond = s.annotate(st.Cond)
		s.analyzeStmt(st.Body)
	case *ast.ForStmt:
		s.pushScope()
		if st.Init != nil {
			s.analyzeStmt(st.Init)
		}
		if st.Cond != nil {
			st.Cond = s.annotate(st.Cond)
		}
		if st.Post != nil {
			st.Post = s.annotate(st.Post)
		}
		s.analyzeStmt(st.Body)
		s.popScope()
	}
}

// ===== scopes =====

func (s *Sema) pushScope() {
	s.scopes = append(s.scopes, make(map[string]ast.Node))
}

func (s *Sema) popScope() {
	s.scopes = s.scopes[:len(s.scopes)-1]
}

func (s *Sema) declare(name string, decl ast.Node) {
	if name == "" {
		return
	}
	s.scopes[len(s.scopes)-1][name] = decl
}

func (s *Sema) lookup(name string) ast.Node {
	for i := len(s.scopes) - 1; i >= 0; i-- {
		if d, ok := s.scopes[i][name]; ok {
			return d
		}
	}
	return nil
}

// ===== record hierarchy =====

// isDerivedFrom reports whether record derived inherits (directly or
// transitively) from base
func (s *Sema) isDerivedFrom(derived, base string) bool {
	if derived == "" || base == "" || derived == base {
		return false
	}
	seen := map[string]bool{}
	for cur := derived; cur != "" && !seen[cur]; {
		seen[cur] = true
		rec, ok := s.records[cur]
		if !ok {
			return false
		}
		if rec.Base == base {
			return true
		}
		cur = rec.Base
	}
	return false
}

// fieldType resolves a data member through the record's base chain
func (s *Sema) fieldType(record, member string) *ctypes.Type {
	seen := map[string]bool{}
	for cur := record; cur != "" && !seen[cur]; {
		seen[cur] = true
		rec, ok := s.records[cur]
		if !ok {
			return nil
		}
		for _, f := range rec.Fields {
			if f.Name == member {
				return f.Ty
			}
		}
		cur = rec.Base
	}
	return nil
}
