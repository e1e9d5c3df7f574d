package modules

import (
	"esparse/pkg/ast"
)

// ExtractImports lists the dependencies of a program in source order: import
// declarations, re-exports with a from clause, and import() calls whose
// argument is a string literal.
func ExtractImports(program *ast.Program) []*ImportSpec {
	var specs []*ImportSpec
	for _, stmt := range program.Body {
		switch node := stmt.(type) {
		case *ast.ImportDeclaration:
			spec := &ImportSpec{
				ModulePath: node.Source.Value,
				Kind:       ImportStatic,
				Location:   node.Loc(),
			}
			for _, s := range node.Specifiers {
				switch s := s.(type) {
				case *ast.ImportDefaultSpecifier:
					spec.Names = append(spec.Names, "default")
				case *ast.ImportNamespaceSpecifier:
					spec.Names = append(spec.Names, "*")
				case *ast.ImportSpecifier:
					spec.Names = append(spec.Names, moduleName(s.Imported))
				}
			}
			specs = append(specs, spec)
		case *ast.ExportNamedDeclaration:
			if node.Source == nil {
				continue
			}
			spec := &ImportSpec{
				ModulePath: node.Source.Value,
				Kind:       ImportReExport,
				Location:   node.Loc(),
			}
			for _, s := range node.Specifiers {
				spec.Names = append(spec.Names, moduleName(s.Local))
			}
			specs = append(specs, spec)
		case *ast.ExportAllDeclaration:
			specs = append(specs, &ImportSpec{
				ModulePath: node.Source.Value,
				Kind:       ImportReExport,
				Names:      []string{"*"},
				Location:   node.Loc(),
			})
		}
	}

	ast.Inspect(program, func(n ast.Node) bool {
		call, ok := n.(*ast.ImportExpression)
		if !ok {
			return true
		}
		if lit, ok := call.Source.(*ast.StringLiteral); ok {
			specs = append(specs, &ImportSpec{
				ModulePath: lit.Value,
				Kind:       ImportDynamic,
				Location:   call.Loc(),
			})
		}
		return true
	})
	return specs
}

// ExtractExports lists the names a module exports. A bare "export * from"
// is reported with the export name "*".
func ExtractExports(program *ast.Program) []*ExportSpec {
	var specs []*ExportSpec
	for _, stmt := range program.Body {
		switch node := stmt.(type) {
		case *ast.ExportNamedDeclaration:
			from := ""
			if node.Source != nil {
				from = node.Source.Value
			}
			for _, s := range node.Specifiers {
				specs = append(specs, &ExportSpec{
					ExportName: moduleName(s.Exported),
					LocalName:  moduleName(s.Local),
					From:       from,
				})
			}
			for _, name := range declaredNames(node.Declaration) {
				specs = append(specs, &ExportSpec{ExportName: name, LocalName: name})
			}
		case *ast.ExportDefaultDeclaration:
			spec := &ExportSpec{ExportName: "default", IsDefault: true}
			if names := declaredNames(node.Declaration); len(names) == 1 {
				spec.LocalName = names[0]
			}
			specs = append(specs, spec)
		case *ast.ExportAllDeclaration:
			name := "*"
			if node.Exported != nil {
				name = moduleName(node.Exported)
			}
			specs = append(specs, &ExportSpec{ExportName: name, From: node.Source.Value})
		}
	}
	return specs
}

// moduleName returns the text of an identifier or string literal module
// export name.
func moduleName(n ast.Node) string {
	switch n := n.(type) {
	case *ast.Identifier:
		return n.Name
	case *ast.StringLiteral:
		return n.Value
	}
	return ""
}

// declaredNames returns the names bound by a declaration.
func declaredNames(decl ast.Node) []string {
	switch d := decl.(type) {
	case *ast.FunctionDeclaration:
		if d.ID != nil {
			return []string{d.ID.Name}
		}
	case *ast.ClassDeclaration:
		if d.ID != nil {
			return []string{d.ID.Name}
		}
	case *ast.VariableDeclaration:
		var names []string
		for _, v := range d.Declarations {
			names = append(names, patternNames(v.ID)...)
		}
		return names
	}
	return nil
}

func patternNames(target ast.Node) []string {
	var names []string
	switch t := target.(type) {
	case *ast.Identifier:
		names = append(names, t.Name)
	case *ast.AssignmentPattern:
		names = append(names, patternNames(t.Left)...)
	case *ast.RestElement:
		names = append(names, patternNames(t.Argument)...)
	case *ast.ArrayPattern:
		for _, el := range t.Elements {
			names = append(names, patternNames(el)...)
		}
	case *ast.ObjectPattern:
		for _, prop := range t.Properties {
			switch p := prop.(type) {
			case *ast.AssignmentProperty:
				names = append(names, patternNames(p.Value)...)
			case *ast.RestElement:
				names = append(names, patternNames(p.Argument)...)
			}
		}
	}
	return names
}
