// Package services finds the registry keys declared in a module and the
// places that provide them.
package services

import (
	"fmt"
	"go/ast"
	"go/token"
	"go/types"
	"sort"
	"strings"

	"golang.org/x/tools/go/packages"
)

const registryPkgSuffix = "internal/registry"

// Service is one registry.Key declaration.
type Service struct {
	Var  string
	Key  string
	Type string
	// Pos is the file:line of the declaration.
	Pos string
	// ProvidedBy lists the functions calling registry.Set with this key.
	ProvidedBy []string
}

// Find loads every package under root and returns its services sorted by key.
func Find(root string) ([]Service, error) {
	cfg := &packages.Config{
		Mode:  packages.NeedName | packages.NeedFiles | packages.NeedSyntax | packages.NeedTypes | packages.NeedTypesInfo,
		Dir:   root,
		Tests: false,
	}
	pkgs, err := packages.Load(cfg, "./...")
	if err != nil {
		return nil, fmt.Errorf("failed to load packages: %w", err)
	}

	// Objects are compared by qualified name: each package sees its
	// dependencies through export data, not through shared objects.
	found := map[string]*Service{}
	for _, pkg := range pkgs {
		for _, file := range pkg.Syntax {
			collectKeys(pkg, file, found)
		}
	}
	for _, pkg := range pkgs {
		for _, file := range pkg.Syntax {
			collectSets(pkg, file, found)
		}
	}

	out := make([]Service, 0, len(found))
	for _, s := range found {
		sort.Strings(s.ProvidedBy)
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

func collectKeys(pkg *packages.Package, file *ast.File, found map[string]*Service) {
	for _, decl := range file.Decls {
		gen, ok := decl.(*ast.GenDecl)
		if !ok || gen.Tok != token.VAR {
			continue
		}
		for _, spec := range gen.Specs {
			vs, ok := spec.(*ast.ValueSpec)
			if !ok || len(vs.Names) != len(vs.Values) {
				continue
			}
			for i, value := range vs.Values {
				call, ok := value.(*ast.CallExpr)
				if !ok || len(call.Args) != 1 {
					continue
				}
				generic, typeArg := unwrapIndex(call.Fun)
				if typeArg == nil || !isRegistryObject[*types.TypeName](pkg.TypesInfo, generic, "Key") {
					continue
				}
				obj := pkg.TypesInfo.Defs[vs.Names[i]]
				if obj == nil {
					continue
				}
				svc := &Service{
					Var:  vs.Names[i].Name,
					Type: types.ExprString(typeArg),
					Pos:  shortPos(pkg.Fset.Position(vs.Names[i].Pos())),
				}
				if lit, ok := call.Args[0].(*ast.BasicLit); ok && lit.Kind == token.STRING {
					svc.Key = strings.Trim(lit.Value, "`\"")
				}
				found[qualified(obj)] = svc
			}
		}
	}
}

func collectSets(pkg *packages.Package, file *ast.File, found map[string]*Service) {
	for _, decl := range file.Decls {
		fn, ok := decl.(*ast.FuncDecl)
		if !ok || fn.Body == nil {
			continue
		}
		where := pkg.PkgPath + "." + funcName(fn)
		ast.Inspect(fn.Body, func(n ast.Node) bool {
			call, ok := n.(*ast.CallExpr)
			if !ok || len(call.Args) < 2 {
				return true
			}
			callee, _ := unwrapIndex(call.Fun)
			if !isRegistryObject[*types.Func](pkg.TypesInfo, callee, "Set") {
				return true
			}
			obj := objectOf(pkg.TypesInfo, call.Args[1])
			if obj == nil {
				return true
			}
			if svc, ok := found[qualified(obj)]; ok {
				svc.ProvidedBy = appendUnique(svc.ProvidedBy, where)
			}
			return true
		})
	}
}

// unwrapIndex splits Key[T] into Key and T. Non-generic expressions return a nil T.
func unwrapIndex(expr ast.Expr) (ast.Expr, ast.Expr) {
	switch e := expr.(type) {
	case *ast.IndexExpr:
		return e.X, e.Index
	case *ast.IndexListExpr:
		if len(e.Indices) == 1 {
			return e.X, e.Indices[0]
		}
		return e.X, nil
	default:
		return expr, nil
	}
}

func isRegistryObject[T types.Object](info *types.Info, expr ast.Expr, name string) bool {
	obj, ok := objectOf(info, expr).(T)
	if !ok || obj.Name() != name || obj.Pkg() == nil {
		return false
	}
	return strings.HasSuffix(obj.Pkg().Path(), registryPkgSuffix)
}

func objectOf(info *types.Info, expr ast.Expr) types.Object {
	switch e := expr.(type) {
	case *ast.Ident:
		return info.Uses[e]
	case *ast.SelectorExpr:
		return info.Uses[e.Sel]
	default:
		return nil
	}
}

func qualified(obj types.Object) string {
	if obj.Pkg() == nil {
		return obj.Name()
	}
	return obj.Pkg().Path() + "." + obj.Name()
}

func funcName(fn *ast.FuncDecl) string {
	if fn.Recv == nil || len(fn.Recv.List) == 0 {
		return fn.Name.Name
	}
	recv := types.ExprString(fn.Recv.List[0].Type)
	return "(" + recv + ")." + fn.Name.Name
}

func shortPos(p token.Position) string {
	file := p.Filename
	if i := strings.LastIndex(file, "/internal/"); i >= 0 {
		file = file[i+1:]
	}
	return fmt.Sprintf("%s:%d", file, p.Line)
}

func appendUnique(list []string, s string) []string {
	for _, v := range list {
		if v == s {
			return list
		}
	}
	return append(list, s)
}
