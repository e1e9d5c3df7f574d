package ast

// Arena provides arena-style allocation for the most frequent node types.
// Nodes are allocated from pre-grown slices, reducing GC pressure.
// Call Reset() between parses to reuse the arena's backing memory; nodes
// handed out before a Reset must not be used afterwards.
type Arena struct {
	identifiers      []Identifier
	stringLiterals   []StringLiteral
	numericLiterals  []NumericLiteral
	booleanLiterals  []BooleanLiteral
	blockStatements  []BlockStatement
	exprStatements   []ExpressionStatement
	ifStatements     []IfStatement
	returnStatements []ReturnStatement
	varDeclarations  []VariableDeclaration
	varDeclarators   []VariableDeclarator
	binaryExprs      []BinaryExpression
	logicalExprs     []LogicalExpression
	unaryExprs       []UnaryExpression
	callExprs        []CallExpression
	memberExprs      []MemberExpression
	properties       []Property
	objectExprs      []ObjectExpression
	arrayExprs       []ArrayExpression
	functionExprs    []FunctionExpression
	arrowFunctions   []ArrowFunctionExpression
	assignmentExprs  []AssignmentExpression
	conditionalExprs []ConditionalExpression

	allocated int
}

// NewArena creates a new arena with pre-allocated capacity.
func NewArena() *Arena {
	return &Arena{
		// Pre-allocate based on typical usage patterns
		identifiers:      make([]Identifier, 0, 256),
		stringLiterals:   make([]StringLiteral, 0, 64),
		numericLiterals:  make([]NumericLiteral, 0, 64),
		booleanLiterals:  make([]BooleanLiteral, 0, 32),
		blockStatements:  make([]BlockStatement, 0, 128),
		exprStatements:   make([]ExpressionStatement, 0, 128),
		ifStatements:     make([]IfStatement, 0, 64),
		returnStatements: make([]ReturnStatement, 0, 64),
		varDeclarations:  make([]VariableDeclaration, 0, 64),
		varDeclarators:   make([]VariableDeclarator, 0, 64),
		binaryExprs:      make([]BinaryExpression, 0, 128),
		logicalExprs:     make([]LogicalExpression, 0, 32),
		unaryExprs:       make([]UnaryExpression, 0, 32),
		callExprs:        make([]CallExpression, 0, 128),
		memberExprs:      make([]MemberExpression, 0, 128),
		properties:       make([]Property, 0, 128),
		objectExprs:      make([]ObjectExpression, 0, 64),
		arrayExprs:       make([]ArrayExpression, 0, 64),
		functionExprs:    make([]FunctionExpression, 0, 64),
		arrowFunctions:   make([]ArrowFunctionExpression, 0, 64),
		assignmentExprs:  make([]AssignmentExpression, 0, 64),
		conditionalExprs: make([]ConditionalExpression, 0, 32),
	}
}

// Reset clears the arena for reuse, keeping backing memory allocated.
func (a *Arena) Reset() {
	a.identifiers = a.identifiers[:0]
	a.stringLiterals = a.stringLiterals[:0]
	a.numericLiterals = a.numericLiterals[:0]
	a.booleanLiterals = a.booleanLiterals[:0]
	a.blockStatements = a.blockStatements[:0]
	a.exprStatements = a.exprStatements[:0]
	a.ifStatements = a.ifStatements[:0]
	a.returnStatements = a.returnStatements[:0]
	a.varDeclarations = a.varDeclarations[:0]
	a.varDeclarators = a.varDeclarators[:0]
	a.binaryExprs = a.binaryExprs[:0]
	a.logicalExprs = a.logicalExprs[:0]
	a.unaryExprs = a.unaryExprs[:0]
	a.callExprs = a.callExprs[:0]
	a.memberExprs = a.memberExprs[:0]
	a.properties = a.properties[:0]
	a.objectExprs = a.objectExprs[:0]
	a.arrayExprs = a.arrayExprs[:0]
	a.functionExprs = a.functionExprs[:0]
	a.arrowFunctions = a.arrowFunctions[:0]
	a.assignmentExprs = a.assignmentExprs[:0]
	a.conditionalExprs = a.conditionalExprs[:0]
	a.allocated = 0
}

// Allocated returns the number of nodes served from the arena since the
// last Reset.
func (a *Arena) Allocated() int {
	if a == nil {
		return 0
	}
	return a.allocated
}

// alloc appends a zero value and returns a pointer to it.
func alloc[T any](s *[]T) *T {
	var zero T
	*s = append(*s, zero)
	return &(*s)[len(*s)-1]
}

// New allocates a node of type t, from the arena when the type is pooled.
// A nil Arena falls back to New.
func (a *Arena) New(t Type) Node {
	if a == nil {
		return New(t)
	}
	var n Node
	switch t {
	case IdentifierType:
		n = alloc(&a.identifiers)
	case StringLiteralType:
		n = alloc(&a.stringLiterals)
	case NumericLiteralType:
		n = alloc(&a.numericLiterals)
	case BooleanLiteralType:
		n = alloc(&a.booleanLiterals)
	case BlockStatementType:
		n = alloc(&a.blockStatements)
	case ExpressionStatementType:
		n = alloc(&a.exprStatements)
	case IfStatementType:
		n = alloc(&a.ifStatements)
	case ReturnStatementType:
		n = alloc(&a.returnStatements)
	case VariableDeclarationType:
		n = alloc(&a.varDeclarations)
	case VariableDeclaratorType:
		n = alloc(&a.varDeclarators)
	case BinaryExpressionType:
		n = alloc(&a.binaryExprs)
	case LogicalExpressionType:
		n = alloc(&a.logicalExprs)
	case UnaryExpressionType:
		n = alloc(&a.unaryExprs)
	case CallExpressionType:
		n = alloc(&a.callExprs)
	case MemberExpressionType:
		n = alloc(&a.memberExprs)
	case PropertyType:
		n = alloc(&a.properties)
	case ObjectExpressionType:
		n = alloc(&a.objectExprs)
	case ArrayExpressionType:
		n = alloc(&a.arrayExprs)
	case FunctionExpressionType:
		n = alloc(&a.functionExprs)
	case ArrowFunctionExpressionType:
		n = alloc(&a.arrowFunctions)
	case AssignmentExpressionType:
		n = alloc(&a.assignmentExprs)
	case ConditionalExpressionType:
		n = alloc(&a.conditionalExprs)
	default:
		return New(t)
	}
	a.allocated++
	n.NodeBase().NodeType = t
	return n
}
