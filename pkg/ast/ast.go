// Package ast defines the syntax tree produced by the parser. Every node
// embeds Base, which carries the node type, its source location and the
// comments attached to it. Nodes are created through New (or an Arena) and
// serialize to JSON with their type name under "type".
package ast

import (
	"reflect"

	"esparse/pkg/source"
)

// Node is implemented by every syntax tree node.
type Node interface {
	Type() Type
	Loc() source.SourceLocation
	NodeBase() *Base
}

// Base holds the data shared by all nodes.
type Base struct {
	NodeType         Type                  `json:"type"`
	Location         source.SourceLocation `json:"location"`
	LeadingComments  []*Comment            `json:"leadingComments,omitempty"`
	TrailingComments []*Comment            `json:"trailingComments,omitempty"`
}

func (b *Base) Type() Type                 { return b.NodeType }
func (b *Base) Loc() source.SourceLocation { return b.Location }
func (b *Base) NodeBase() *Base            { return b }

// SetStart sets the start of the node's location.
func (b *Base) SetStart(pos source.Position) { b.Location.Start = pos }

// SetEnd sets the end of the node's location.
func (b *Base) SetEnd(pos source.Position) { b.Location.End = pos }

// Start returns the start index of the node.
func (b *Base) Start() int { return b.Location.Start.Index }

// End returns the end index of the node.
func (b *Base) End() int { return b.Location.End.Index }

// AddLeadingComments appends comments to the leading comment list.
func (b *Base) AddLeadingComments(c ...*Comment) {
	b.LeadingComments = append(b.LeadingComments, c...)
}

// AddTrailingComments appends comments to the trailing comment list.
func (b *Base) AddTrailingComments(c ...*Comment) {
	b.TrailingComments = append(b.TrailingComments, c...)
}

// IsNil reports whether n is nil or a typed nil pointer.
func IsNil(n Node) bool {
	if n == nil {
		return true
	}
	v := reflect.ValueOf(n)
	return v.Kind() == reflect.Pointer && v.IsNil()
}

// --- Comments ---

// Comment kinds.
const (
	InlineComment    = "inline"     // "// ..."
	MultilineComment = "multiline"  // "/* ... */"
	HTMLOpenComment  = "html-open"  // "<!-- ..."
	HTMLCloseComment = "html-close" // "--> ..."
)

// Comment is a comment attached to a node.
type Comment struct {
	Base
	Kind string `json:"kind"`
	Text string `json:"text"` // content without delimiters
	Raw  string `json:"raw"`
}

// --- Program ---

// Program is the root node.
type Program struct {
	Base
	SourceType string `json:"sourceType"` // "script" or "module"
	Body       []Node `json:"body"`
}

// --- Statements ---

type EmptyStatement struct {
	Base
}

type DebuggerStatement struct {
	Base
}

type BlockStatement struct {
	Base
	Body []Node `json:"body"`
}

// ExpressionStatement wraps an expression used as a statement. Directive
// holds the raw string content when the statement belongs to a directive
// prologue ("use strict").
type ExpressionStatement struct {
	Base
	Expression Node   `json:"expression"`
	Directive  string `json:"directive,omitempty"`
}

type IfStatement struct {
	Base
	Test       Node `json:"test"`
	Consequent Node `json:"consequent"`
	Alternate  Node `json:"alternate"`
}

type LabeledStatement struct {
	Base
	Label *Identifier `json:"label"`
	Body  Node        `json:"body"`
}

type BreakStatement struct {
	Base
	Label *Identifier `json:"label"`
}

type ContinueStatement struct {
	Base
	Label *Identifier `json:"label"`
}

type WithStatement struct {
	Base
	Object Node `json:"object"`
	Body   Node `json:"body"`
}

type SwitchStatement struct {
	Base
	Discriminant Node          `json:"discriminant"`
	Cases        []*SwitchCase `json:"cases"`
}

// SwitchCase is a case clause; Test is nil for "default".
type SwitchCase struct {
	Base
	Test       Node   `json:"test"`
	Consequent []Node `json:"consequent"`
}

type ReturnStatement struct {
	Base
	Argument Node `json:"argument"`
}

type ThrowStatement struct {
	Base
	Argument Node `json:"argument"`
}

type TryStatement struct {
	Base
	Block     *BlockStatement `json:"block"`
	Handler   *CatchClause    `json:"handler"`
	Finalizer *BlockStatement `json:"finalizer"`
}

// CatchClause is the catch part of a try statement. Param is nil for an
// optional catch binding.
type CatchClause struct {
	Base
	Param Node            `json:"param"`
	Body  *BlockStatement `json:"body"`
}

type WhileStatement struct {
	Base
	Test Node `json:"test"`
	Body Node `json:"body"`
}

type DoWhileStatement struct {
	Base
	Body Node `json:"body"`
	Test Node `json:"test"`
}

type ForStatement struct {
	Base
	Init   Node `json:"init"`
	Test   Node `json:"test"`
	Update Node `json:"update"`
	Body   Node `json:"body"`
}

type ForInStatement struct {
	Base
	Left  Node `json:"left"`
	Right Node `json:"right"`
	Body  Node `json:"body"`
}

type ForOfStatement struct {
	Base
	Left  Node `json:"left"`
	Right Node `json:"right"`
	Body  Node `json:"body"`
	Await bool `json:"await"`
}

// --- Functions and classes ---

// Function holds the fields shared by function declarations and expressions.
type Function struct {
	ID        *Identifier     `json:"id"`
	Params    []Node          `json:"params"`
	Body      *BlockStatement `json:"body"`
	Generator bool            `json:"generator"`
	Async     bool            `json:"async"`
}

type FunctionDeclaration struct {
	Base
	Function
}

type FunctionExpression struct {
	Base
	Function
}

// ArrowFunctionExpression has a BlockStatement body, or an expression body
// when Expression is set.
type ArrowFunctionExpression struct {
	Base
	Params     []Node `json:"params"`
	Body       Node   `json:"body"`
	Expression bool   `json:"expression"`
	Async      bool   `json:"async"`
}

type VariableDeclaration struct {
	Base
	Kind         string                `json:"kind"` // "var", "let" or "const"
	Declarations []*VariableDeclarator `json:"declarations"`
}

type VariableDeclarator struct {
	Base
	ID   Node `json:"id"`
	Init Node `json:"init"`
}

// Class holds the fields shared by class declarations and expressions.
type Class struct {
	ID         *Identifier `json:"id"`
	SuperClass Node        `json:"superClass"`
	Body       *ClassBody  `json:"body"`
}

type ClassDeclaration struct {
	Base
	Class
}

type ClassExpression struct {
	Base
	Class
}

type ClassBody struct {
	Base
	Body []Node `json:"body"`
}

// MethodDefinition is a class method; Kind is "constructor", "method", "get"
// or "set".
type MethodDefinition struct {
	Base
	Key      Node                `json:"key"`
	Value    *FunctionExpression `json:"value"`
	Kind     string              `json:"kind"`
	Computed bool                `json:"computed"`
	Static   bool                `json:"static"`
}

// PropertyDefinition is a class field.
type PropertyDefinition struct {
	Base
	Key      Node `json:"key"`
	Value    Node `json:"value"`
	Computed bool `json:"computed"`
	Static   bool `json:"static"`
}

type StaticBlock struct {
	Base
	Body []Node `json:"body"`
}

// --- Expressions ---

type Identifier struct {
	Base
	Name string `json:"name"`
}

// PrivateIdentifier is a "#name"; Name excludes the "#".
type PrivateIdentifier struct {
	Base
	Name string `json:"name"`
}

type StringLiteral struct {
	Base
	Value string `json:"value"`
	Raw   string `json:"raw"`
}

type NumericLiteral struct {
	Base
	Value float64 `json:"value"`
	Raw   string  `json:"raw"`
}

// BigIntLiteral keeps the literal as written; Value is the decimal digits.
type BigIntLiteral struct {
	Base
	Value string `json:"value"`
	Raw   string `json:"raw"`
}

type BooleanLiteral struct {
	Base
	Value bool   `json:"value"`
	Raw   string `json:"raw"`
}

type NullLiteral struct {
	Base
	Raw string `json:"raw"`
}

type RegExpLiteral struct {
	Base
	Pattern string `json:"pattern"`
	Flags   string `json:"flags"`
	Raw     string `json:"raw"`
}

type ThisExpression struct {
	Base
}

type Super struct {
	Base
}

// ArrayExpression elements are nil for holes.
type ArrayExpression struct {
	Base
	Elements []Node `json:"elements"`
}

type ObjectExpression struct {
	Base
	Properties []Node `json:"properties"`
}

// Property is an object literal member; Kind is "init", "get" or "set".
type Property struct {
	Base
	Key       Node   `json:"key"`
	Value     Node   `json:"value"`
	Kind      string `json:"kind"`
	Method    bool   `json:"method"`
	Shorthand bool   `json:"shorthand"`
	Computed  bool   `json:"computed"`
}

type TemplateLiteral struct {
	Base
	Quasis      []*TemplateElement `json:"quasis"`
	Expressions []Node             `json:"expressions"`
}

// TemplateValue is the text of a template element. Cooked is nil when a
// tagged template contains an invalid escape sequence.
type TemplateValue struct {
	Raw    string  `json:"raw"`
	Cooked *string `json:"cooked"`
}

type TemplateElement struct {
	Base
	Value TemplateValue `json:"value"`
	Tail  bool          `json:"tail"`
}

type TaggedTemplateExpression struct {
	Base
	Tag   Node             `json:"tag"`
	Quasi *TemplateLiteral `json:"quasi"`
}

type MemberExpression struct {
	Base
	Object   Node `json:"object"`
	Property Node `json:"property"`
	Computed bool `json:"computed"`
	Optional bool `json:"optional"`
}

// MetaProperty is new.target or import.meta.
type MetaProperty struct {
	Base
	Meta     *Identifier `json:"meta"`
	Property *Identifier `json:"property"`
}

type NewExpression struct {
	Base
	Callee    Node   `json:"callee"`
	Arguments []Node `json:"arguments"`
}

type CallExpression struct {
	Base
	Callee    Node   `json:"callee"`
	Arguments []Node `json:"arguments"`
	Optional  bool   `json:"optional"`
}

// ImportExpression is a dynamic import().
type ImportExpression struct {
	Base
	Source Node `json:"source"`
}

// ChainExpression wraps a member/call chain containing an optional part.
type ChainExpression struct {
	Base
	Expression Node `json:"expression"`
}

type UpdateExpression struct {
	Base
	Operator string `json:"operator"`
	Argument Node   `json:"argument"`
	Prefix   bool   `json:"prefix"`
}

type UnaryExpression struct {
	Base
	Operator string `json:"operator"`
	Argument Node   `json:"argument"`
	Prefix   bool   `json:"prefix"`
}

type BinaryExpression struct {
	Base
	Operator string `json:"operator"`
	Left     Node   `json:"left"`
	Right    Node   `json:"right"`
}

// LogicalExpression is &&, || or ??.
type LogicalExpression struct {
	Base
	Operator string `json:"operator"`
	Left     Node   `json:"left"`
	Right    Node   `json:"right"`
}

type AssignmentExpression struct {
	Base
	Operator string `json:"operator"`
	Left     Node   `json:"left"`
	Right    Node   `json:"right"`
}

type ConditionalExpression struct {
	Base
	Test       Node `json:"test"`
	Consequent Node `json:"consequent"`
	Alternate  Node `json:"alternate"`
}

type YieldExpression struct {
	Base
	Argument Node `json:"argument"`
	Delegate bool `json:"delegate"`
}

type AwaitExpression struct {
	Base
	Argument Node `json:"argument"`
}

type SequenceExpression struct {
	Base
	Expressions []Node `json:"expressions"`
}

type ParenthesizedExpression struct {
	Base
	Expression Node `json:"expression"`
}

type SpreadElement struct {
	Base
	Argument Node `json:"argument"`
}

// --- Patterns ---

type ObjectPattern struct {
	Base
	Properties []Node `json:"properties"` // *AssignmentProperty or *RestElement
}

// AssignmentProperty is a member of an object pattern.
type AssignmentProperty struct {
	Base
	Key       Node   `json:"key"`
	Value     Node   `json:"value"`
	Kind      string `json:"kind"`
	Shorthand bool   `json:"shorthand"`
	Computed  bool   `json:"computed"`
}

// ArrayPattern elements are nil for holes.
type ArrayPattern struct {
	Base
	Elements []Node `json:"elements"`
}

type RestElement struct {
	Base
	Argument Node `json:"argument"`
}

type AssignmentPattern struct {
	Base
	Left  Node `json:"left"`
	Right Node `json:"right"`
}

// --- Modules ---

type ImportDeclaration struct {
	Base
	Specifiers []Node         `json:"specifiers"`
	Source     *StringLiteral `json:"source"`
}

// ImportSpecifier is "imported as local"; Imported is an *Identifier or,
// with arbitrary module namespace names, a *StringLiteral.
type ImportSpecifier struct {
	Base
	Imported Node        `json:"imported"`
	Local    *Identifier `json:"local"`
}

type ImportDefaultSpecifier struct {
	Base
	Local *Identifier `json:"local"`
}

type ImportNamespaceSpecifier struct {
	Base
	Local *Identifier `json:"local"`
}

type ExportNamedDeclaration struct {
	Base
	Declaration Node               `json:"declaration"`
	Specifiers  []*ExportSpecifier `json:"specifiers"`
	Source      *StringLiteral     `json:"source"`
}

type ExportSpecifier struct {
	Base
	Local    Node `json:"local"`
	Exported Node `json:"exported"`
}

type ExportDefaultDeclaration struct {
	Base
	Declaration Node `json:"declaration"`
}

// ExportAllDeclaration is "export * from" or "export * as name from".
type ExportAllDeclaration struct {
	Base
	Source   *StringLiteral `json:"source"`
	Exported Node           `json:"exported"`
}
