package ast

// A Visitor's Visit method is invoked for each node encountered by Walk.
// If the result visitor w is not nil, Walk visits each of the children
// of node with the visitor w, followed by a call of w.Visit(nil).
type Visitor interface {
	Visit(node Node) (w Visitor)
}

// Walk traverses a syntax tree in depth-first order.
func Walk(v Visitor, node Node) {
	if IsNil(node) {
		return
	}
	if v = v.Visit(node); v == nil {
		return
	}
	for _, child := range Children(node) {
		Walk(v, child)
	}
	v.Visit(nil)
}

type inspector func(Node) bool

func (f inspector) Visit(node Node) Visitor {
	if f(node) {
		return f
	}
	return nil
}

// Inspect traverses a syntax tree in depth-first order, calling f for each
// node and then f(nil) after its children. Children are skipped when f
// returns false.
func Inspect(node Node, f func(Node) bool) {
	Walk(inspector(f), node)
}

type children []Node

func (c *children) add(nodes ...Node) {
	for _, n := range nodes {
		if !IsNil(n) {
			*c = append(*c, n)
		}
	}
}

// Children returns the direct children of node in source order. Holes in
// arrays and absent optional parts are skipped; comments are not children.
func Children(node Node) []Node {
	var c children
	switch n := node.(type) {
	case *Program:
		c.add(n.Body...)
	case *BlockStatement:
		c.add(n.Body...)
	case *StaticBlock:
		c.add(n.Body...)
	case *ClassBody:
		c.add(n.Body...)
	case *ExpressionStatement:
		c.add(n.Expression)
	case *IfStatement:
		c.add(n.Test, n.Consequent, n.Alternate)
	case *LabeledStatement:
		c.add(n.Label, n.Body)
	case *BreakStatement:
		c.add(n.Label)
	case *ContinueStatement:
		c.add(n.Label)
	case *WithStatement:
		c.add(n.Object, n.Body)
	case *SwitchStatement:
		c.add(n.Discriminant)
		for _, sc := range n.Cases {
			c.add(sc)
		}
	case *SwitchCase:
		c.add(n.Test)
		c.add(n.Consequent...)
	case *ReturnStatement:
		c.add(n.Argument)
	case *ThrowStatement:
		c.add(n.Argument)
	case *TryStatement:
		c.add(n.Block, n.Handler, n.Finalizer)
	case *CatchClause:
		c.add(n.Param, n.Body)
	case *WhileStatement:
		c.add(n.Test, n.Body)
	case *DoWhileStatement:
		c.add(n.Body, n.Test)
	case *ForStatement:
		c.add(n.Init, n.Test, n.Update, n.Body)
	case *ForInStatement:
		c.add(n.Left, n.Right, n.Body)
	case *ForOfStatement:
		c.add(n.Left, n.Right, n.Body)
	case *FunctionDeclaration:
		c.addFunction(&n.Function)
	case *FunctionExpression:
		c.addFunction(&n.Function)
	case *ArrowFunctionExpression:
		c.add(n.Params...)
		c.add(n.Body)
	case *VariableDeclaration:
		for _, d := range n.Declarations {
			c.add(d)
		}
	case *VariableDeclarator:
		c.add(n.ID, n.Init)
	case *ClassDeclaration:
		c.add(n.ID, n.SuperClass, n.Body)
	case *ClassExpression:
		c.add(n.ID, n.SuperClass, n.Body)
	case *MethodDefinition:
		c.add(n.Key, n.Value)
	case *PropertyDefinition:
		c.add(n.Key, n.Value)
	case *ArrayExpression:
		c.add(n.Elements...)
	case *ObjectExpression:
		c.add(n.Properties...)
	case *Property:
		c.addProperty(n.Key, n.Value, n.Shorthand)
	case *TemplateLiteral:
		// Quasis and expressions alternate in the source
		for i, q := range n.Quasis {
			c.add(q)
			if i < len(n.Expressions) {
				c.add(n.Expressions[i])
			}
		}
	case *TaggedTemplateExpression:
		c.add(n.Tag, n.Quasi)
	case *MemberExpression:
		c.add(n.Object, n.Property)
	case *MetaProperty:
		c.add(n.Meta, n.Property)
	case *NewExpression:
		c.add(n.Callee)
		c.add(n.Arguments...)
	case *CallExpression:
		c.add(n.Callee)
		c.add(n.Arguments...)
	case *ImportExpression:
		c.add(n.Source)
	case *ChainExpression:
		c.add(n.Expression)
	case *UpdateExpression:
		c.add(n.Argument)
	case *UnaryExpression:
		c.add(n.Argument)
	case *BinaryExpression:
		c.add(n.Left, n.Right)
	case *LogicalExpression:
		c.add(n.Left, n.Right)
	case *AssignmentExpression:
		c.add(n.Left, n.Right)
	case *ConditionalExpression:
		c.add(n.Test, n.Consequent, n.Alternate)
	case *YieldExpression:
		c.add(n.Argument)
	case *AwaitExpression:
		c.add(n.Argument)
	case *SequenceExpression:
		c.add(n.Expressions...)
	case *ParenthesizedExpression:
		c.add(n.Expression)
	case *SpreadElement:
		c.add(n.Argument)
	case *ObjectPattern:
		c.add(n.Properties...)
	case *AssignmentProperty:
		c.addProperty(n.Key, n.Value, n.Shorthand)
	case *ArrayPattern:
		c.add(n.Elements...)
	case *RestElement:
		c.add(n.Argument)
	case *AssignmentPattern:
		c.add(n.Left, n.Right)
	case *ImportDeclaration:
		c.add(n.Specifiers...)
		c.add(n.Source)
	case *ImportSpecifier:
		c.addProperty(n.Imported, n.Local, n.Imported.Loc() == n.Local.Loc())
	case *ImportDefaultSpecifier:
		c.add(n.Local)
	case *ImportNamespaceSpecifier:
		c.add(n.Local)
	case *ExportNamedDeclaration:
		c.add(n.Declaration)
		for _, s := range n.Specifiers {
			c.add(s)
		}
		c.add(n.Source)
	case *ExportSpecifier:
		c.addProperty(n.Local, n.Exported, n.Local.Loc() == n.Exported.Loc())
	case *ExportDefaultDeclaration:
		c.add(n.Declaration)
	case *ExportAllDeclaration:
		c.add(n.Exported, n.Source)
	}
	return c
}

func (c *children) addFunction(f *Function) {
	c.add(f.ID)
	c.add(f.Params...)
	c.add(f.Body)
}

// addProperty adds a key/value pair. Shorthand forms share one node span
// for both, so the value alone is kept.
func (c *children) addProperty(key, value Node, shorthand bool) {
	if shorthand && !IsNil(key) && !IsNil(value) && key.Loc() == value.Loc() {
		c.add(value)
		return
	}
	c.add(key, value)
}
