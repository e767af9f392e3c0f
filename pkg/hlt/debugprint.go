package hlt

import (
	"strings"

	"github.com/oisee/spinc/pkg/ast"
	"github.com/oisee/spinc/pkg/module"
)

// lowerDebugPrints is spec.md §4.3 step 6, the last of the pipeline: a
// KindPrintCall (PRINT/__builtin_printf and their kin) is expanded into an
// explicit sequence of runtime-helper calls, one per format directive plus
// one per literal run between directives, matching how
// _examples/original_source/frontends/printdebug.c walks a format string
// and emits a call per piece rather than handing the whole format string
// to a libc-style runtime.
func lowerDebugPrints(ctx *module.Context, body *ast.Node) *ast.Node {
	return walkDebugPrintList(ctx, body)
}

func walkDebugPrintList(ctx *module.Context, list *ast.Node) *ast.Node {
	var head, tail *ast.Node
	for cell := list; cell != nil; cell = cell.Right {
		next := cell.Right
		cell.Right = nil
		expanded := lowerDebugPrintStmt(ctx, cell.Left)
		if head == nil {
			head = expanded
		} else {
			tail.Right = expanded
		}
		tail = expanded
		for tail.Right != nil {
			tail = tail.Right
		}
		cell.Right = next
	}
	return head
}

func lowerDebugPrintStmt(ctx *module.Context, stmt *ast.Node) *ast.Node {
	b := ctx.Builder
	if stmt == nil {
		return nil
	}
	switch stmt.Kind {
	case ast.KindPrintCall:
		return expandPrintCall(ctx, stmt)
	case ast.KindIf, ast.KindIfElse:
		if stmt.Right != nil {
			stmt.Right.Left = walkDebugPrintList(ctx, stmt.Right.Left)
			if stmt.Right.Right != nil {
				stmt.Right.Right = walkDebugPrintList(ctx, stmt.Right.Right)
			}
		}
		return ast.NewListCell(ast.KindStmtList, stmt, b.Loc())
	case ast.KindFor, ast.KindWhile:
		stmt.Right = walkDebugPrintList(ctx, stmt.Right)
		return ast.NewListCell(ast.KindStmtList, stmt, b.Loc())
	case ast.KindCase:
		stmt.Right = walkDebugPrintList(ctx, stmt.Right)
		return ast.NewListCell(ast.KindStmtList, stmt, b.Loc())
	default:
		return ast.NewListCell(ast.KindStmtList, stmt, b.Loc())
	}
}

// expandPrintCall lowers a single KindPrintCall — Left=format KindString,
// Right=KindExprList of argument expressions — to one runtime-helper call
// per piece of the format string: a literal run becomes a call to
// __print_str, and each `%s`/`%d`/`%c`/`%%` directive becomes a call to
// the matching typed helper consuming the next argument (or, for `%%`,
// emitting a literal percent with no argument consumed).
func expandPrintCall(ctx *module.Context, n *ast.Node) *ast.Node {
	b := ctx.Builder
	format := n.Left.StrVal()
	args := n.Right

	var stmts *ast.Node
	emit := func(helper string, arg *ast.Node) {
		var call *ast.Node
		if arg == nil {
			call = b.Node(ast.KindFuncall, b.Ident(helper), nil)
		} else {
			call = b.Node(ast.KindFuncall, b.Ident(helper), ast.NewListCell(ast.KindExprList, arg, b.Loc()))
		}
		stmts = ast.AddToList(stmts, ast.NewListCell(ast.KindStmtList, call, b.Loc()))
	}

	nextArg := func() *ast.Node {
		a := ast.Content(args)
		args = ast.Next(args)
		return a
	}

	var literal strings.Builder
	flush := func() {
		if literal.Len() == 0 {
			return
		}
		strArg := ast.NewString(literal.String(), b.Loc())
		emit("__print_str", strArg)
		literal.Reset()
	}

	for i := 0; i < len(format); i++ {
		c := format[i]
		if c != '%' || i+1 >= len(format) {
			literal.WriteByte(c)
			continue
		}
		spec := format[i+1]
		switch spec {
		case '%':
			literal.WriteByte('%')
			i++
		case 'd':
			flush()
			emit("__print_int", nextArg())
			i++
		case 'u':
			flush()
			emit("__print_uint", nextArg())
			i++
		case 'x', 'X':
			flush()
			emit("__print_hex", nextArg())
			i++
		case 'c':
			flush()
			emit("__print_char", nextArg())
			i++
		case 's':
			flush()
			emit("__print_cstr", nextArg())
			i++
		case 'f':
			flush()
			emit("__print_float", nextArg())
			i++
		default:
			literal.WriteByte(c)
		}
	}
	flush()

	if stmts == nil {
		return ast.NewListCell(ast.KindStmtList, b.Node(ast.KindComment, nil, nil), b.Loc())
	}
	return stmts
}
