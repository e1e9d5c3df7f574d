package ast

import (
	"encoding/json"
	"fmt"
)

// Type identifies the kind of a node. The set is closed.
type Type int

const (
	InvalidType Type = iota

	ProgramType
	CommentType

	// Statements
	EmptyStatementType
	BlockStatementType
	ExpressionStatementType
	IfStatementType
	LabeledStatementType
	BreakStatementType
	ContinueStatementType
	WithStatementType
	SwitchStatementType
	SwitchCaseType
	ReturnStatementType
	ThrowStatementType
	TryStatementType
	CatchClauseType
	WhileStatementType
	DoWhileStatementType
	ForStatementType
	ForInStatementType
	ForOfStatementType
	DebuggerStatementType

	// Declarations
	FunctionDeclarationType
	VariableDeclarationType
	VariableDeclaratorType
	ClassDeclarationType
	ClassBodyType
	MethodDefinitionType
	PropertyDefinitionType
	StaticBlockType

	// Expressions
	IdentifierType
	PrivateIdentifierType
	StringLiteralType
	NumericLiteralType
	BigIntLiteralType
	BooleanLiteralType
	NullLiteralType
	RegExpLiteralType
	ThisExpressionType
	SuperType
	ArrayExpressionType
	ObjectExpressionType
	PropertyType
	FunctionExpressionType
	ArrowFunctionExpressionType
	ClassExpressionType
	TemplateLiteralType
	TemplateElementType
	TaggedTemplateExpressionType
	MemberExpressionType
	MetaPropertyType
	NewExpressionType
	CallExpressionType
	ImportExpressionType
	ChainExpressionType
	UpdateExpressionType
	UnaryExpressionType
	BinaryExpressionType
	LogicalExpressionType
	AssignmentExpressionType
	ConditionalExpressionType
	YieldExpressionType
	AwaitExpressionType
	SequenceExpressionType
	ParenthesizedExpressionType
	SpreadElementType

	// Patterns
	ObjectPatternType
	AssignmentPropertyType
	ArrayPatternType
	RestElementType
	AssignmentPatternType

	// Modules
	ImportDeclarationType
	ImportSpecifierType
	ImportDefaultSpecifierType
	ImportNamespaceSpecifierType
	ExportNamedDeclarationType
	ExportSpecifierType
	ExportDefaultDeclarationType
	ExportAllDeclarationType

	numTypes
)

var typeNames = [numTypes]string{
	InvalidType:                  "Invalid",
	ProgramType:                  "Program",
	CommentType:                  "Comment",
	EmptyStatementType:           "EmptyStatement",
	BlockStatementType:           "BlockStatement",
	ExpressionStatementType:      "ExpressionStatement",
	IfStatementType:              "IfStatement",
	LabeledStatementType:         "LabeledStatement",
	BreakStatementType:           "BreakStatement",
	ContinueStatementType:        "ContinueStatement",
	WithStatementType:            "WithStatement",
	SwitchStatementType:          "SwitchStatement",
	SwitchCaseType:               "SwitchCase",
	ReturnStatementType:          "ReturnStatement",
	ThrowStatementType:           "ThrowStatement",
	TryStatementType:             "TryStatement",
	CatchClauseType:              "CatchClause",
	WhileStatementType:           "WhileStatement",
	DoWhileStatementType:         "DoWhileStatement",
	ForStatementType:             "ForStatement",
	ForInStatementType:           "ForInStatement",
	ForOfStatementType:           "ForOfStatement",
	DebuggerStatementType:        "DebuggerStatement",
	FunctionDeclarationType:      "FunctionDeclaration",
	VariableDeclarationType:      "VariableDeclaration",
	VariableDeclaratorType:       "VariableDeclarator",
	ClassDeclarationType:         "ClassDeclaration",
	ClassBodyType:                "ClassBody",
	MethodDefinitionType:         "MethodDefinition",
	PropertyDefinitionType:       "PropertyDefinition",
	StaticBlockType:              "StaticBlock",
	IdentifierType:               "Identifier",
	PrivateIdentifierType:        "PrivateIdentifier",
	StringLiteralType:            "StringLiteral",
	NumericLiteralType:           "NumericLiteral",
	BigIntLiteralType:            "BigIntLiteral",
	BooleanLiteralType:           "BooleanLiteral",
	NullLiteralType:              "NullLiteral",
	RegExpLiteralType:            "RegExpLiteral",
	ThisExpressionType:           "ThisExpression",
	SuperType:                    "Super",
	ArrayExpressionType:          "ArrayExpression",
	ObjectExpressionType:         "ObjectExpression",
	PropertyType:                 "Property",
	FunctionExpressionType:       "FunctionExpression",
	ArrowFunctionExpressionType:  "ArrowFunctionExpression",
	ClassExpressionType:          "ClassExpression",
	TemplateLiteralType:          "TemplateLiteral",
	TemplateElementType:          "TemplateElement",
	TaggedTemplateExpressionType: "TaggedTemplateExpression",
	MemberExpressionType:         "MemberExpression",
	MetaPropertyType:             "MetaProperty",
	NewExpressionType:            "NewExpression",
	CallExpressionType:           "CallExpression",
	ImportExpressionType:         "ImportExpression",
	ChainExpressionType:          "ChainExpression",
	UpdateExpressionType:         "UpdateExpression",
	UnaryExpressionType:          "UnaryExpression",
	BinaryExpressionType:         "BinaryExpression",
	LogicalExpressionType:        "LogicalExpression",
	AssignmentExpressionType:     "AssignmentExpression",
	ConditionalExpressionType:    "ConditionalExpression",
	YieldExpressionType:          "YieldExpression",
	AwaitExpressionType:          "AwaitExpression",
	SequenceExpressionType:       "SequenceExpression",
	ParenthesizedExpressionType:  "ParenthesizedExpression",
	SpreadElementType:            "SpreadElement",
	ObjectPatternType:            "ObjectPattern",
	AssignmentPropertyType:       "AssignmentProperty",
	ArrayPatternType:             "ArrayPattern",
	RestElementType:              "RestElement",
	AssignmentPatternType:        "AssignmentPattern",
	ImportDeclarationType:        "ImportDeclaration",
	ImportSpecifierType:          "ImportSpecifier",
	ImportDefaultSpecifierType:   "ImportDefaultSpecifier",
	ImportNamespaceSpecifierType: "ImportNamespaceSpecifier",
	ExportNamedDeclarationType:   "ExportNamedDeclaration",
	ExportSpecifierType:          "ExportSpecifier",
	ExportDefaultDeclarationType: "ExportDefaultDeclaration",
	ExportAllDeclarationType:     "ExportAllDeclaration",
}

func (t Type) String() string {
	if t < 0 || t >= numTypes {
		return fmt.Sprintf("Type(%d)", int(t))
	}
	return typeNames[t]
}

// MarshalJSON writes the type name.
func (t Type) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// IsPattern reports whether t is a binding or assignment pattern.
func (t Type) IsPattern() bool {
	switch t {
	case ObjectPatternType, ArrayPatternType, RestElementType, AssignmentPatternType:
		return true
	}
	return false
}
