package ast

import "fmt"

// New allocates an empty node of type t.
func New(t Type) Node {
	var n Node
	switch t {
	case ProgramType:
		n = &Program{}
	case CommentType:
		n = &Comment{}
	case EmptyStatementType:
		n = &EmptyStatement{}
	case BlockStatementType:
		n = &BlockStatement{}
	case ExpressionStatementType:
		n = &ExpressionStatement{}
	case IfStatementType:
		n = &IfStatement{}
	case LabeledStatementType:
		n = &LabeledStatement{}
	case BreakStatementType:
		n = &BreakStatement{}
	case ContinueStatementType:
		n = &ContinueStatement{}
	case WithStatementType:
		n = &WithStatement{}
	case SwitchStatementType:
		n = &SwitchStatement{}
	case SwitchCaseType:
		n = &SwitchCase{}
	case ReturnStatementType:
		n = &ReturnStatement{}
	case ThrowStatementType:
		n = &ThrowStatement{}
	case TryStatementType:
		n = &TryStatement{}
	case CatchClauseType:
		n = &CatchClause{}
	case WhileStatementType:
		n = &WhileStatement{}
	case DoWhileStatementType:
		n = &DoWhileStatement{}
	case ForStatementType:
		n = &ForStatement{}
	case ForInStatementType:
		n = &ForInStatement{}
	case ForOfStatementType:
		n = &ForOfStatement{}
	case DebuggerStatementType:
		n = &DebuggerStatement{}
	case FunctionDeclarationType:
		n = &FunctionDeclaration{}
	case VariableDeclarationType:
		n = &VariableDeclaration{}
	case VariableDeclaratorType:
		n = &VariableDeclarator{}
	case ClassDeclarationType:
		n = &ClassDeclaration{}
	case ClassBodyType:
		n = &ClassBody{}
	case MethodDefinitionType:
		n = &MethodDefinition{}
	case PropertyDefinitionType:
		n = &PropertyDefinition{}
	case StaticBlockType:
		n = &StaticBlock{}
	case IdentifierType:
		n = &Identifier{}
	case PrivateIdentifierType:
		n = &PrivateIdentifier{}
	case StringLiteralType:
		n = &StringLiteral{}
	case NumericLiteralType:
		n = &NumericLiteral{}
	case BigIntLiteralType:
		n = &BigIntLiteral{}
	case BooleanLiteralType:
		n = &BooleanLiteral{}
	case NullLiteralType:
		n = &NullLiteral{}
	case RegExpLiteralType:
		n = &RegExpLiteral{}
	case ThisExpressionType:
		n = &ThisExpression{}
	case SuperType:
		n = &Super{}
	case ArrayExpressionType:
		n = &ArrayExpression{}
	case ObjectExpressionType:
		n = &ObjectExpression{}
	case PropertyType:
		n = &Property{}
	case FunctionExpressionType:
		n = &FunctionExpression{}
	case ArrowFunctionExpressionType:
		n = &ArrowFunctionExpression{}
	case ClassExpressionType:
		n = &ClassExpression{}
	case TemplateLiteralType:
		n = &TemplateLiteral{}
	case TemplateElementType:
		n = &TemplateElement{}
	case TaggedTemplateExpressionType:
		n = &TaggedTemplateExpression{}
	case MemberExpressionType:
		n = &MemberExpression{}
	case MetaPropertyType:
		n = &MetaProperty{}
	case NewExpressionType:
		n = &NewExpression{}
	case CallExpressionType:
		n = &CallExpression{}
	case ImportExpressionType:
		n = &ImportExpression{}
	case ChainExpressionType:
		n = &ChainExpression{}
	case UpdateExpressionType:
		n = &UpdateExpression{}
	case UnaryExpressionType:
		n = &UnaryExpression{}
	case BinaryExpressionType:
		n = &BinaryExpression{}
	case LogicalExpressionType:
		n = &LogicalExpression{}
	case AssignmentExpressionType:
		n = &AssignmentExpression{}
	case ConditionalExpressionType:
		n = &ConditionalExpression{}
	case YieldExpressionType:
		n = &YieldExpression{}
	case AwaitExpressionType:
		n = &AwaitExpression{}
	case SequenceExpressionType:
		n = &SequenceExpression{}
	case ParenthesizedExpressionType:
		n = &ParenthesizedExpression{}
	case SpreadElementType:
		n = &SpreadElement{}
	case ObjectPatternType:
		n = &ObjectPattern{}
	case AssignmentPropertyType:
		n = &AssignmentProperty{}
	case ArrayPatternType:
		n = &ArrayPattern{}
	case RestElementType:
		n = &RestElement{}
	case AssignmentPatternType:
		n = &AssignmentPattern{}
	case ImportDeclarationType:
		n = &ImportDeclaration{}
	case ImportSpecifierType:
		n = &ImportSpecifier{}
	case ImportDefaultSpecifierType:
		n = &ImportDefaultSpecifier{}
	case ImportNamespaceSpecifierType:
		n = &ImportNamespaceSpecifier{}
	case ExportNamedDeclarationType:
		n = &ExportNamedDeclaration{}
	case ExportSpecifierType:
		n = &ExportSpecifier{}
	case ExportDefaultDeclarationType:
		n = &ExportDefaultDeclaration{}
	case ExportAllDeclarationType:
		n = &ExportAllDeclaration{}
	default:
		panic(fmt.Sprintf("ast: cannot create node of type %s", t))
	}
	n.NodeBase().NodeType = t
	return n
}
