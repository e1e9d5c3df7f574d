package ast

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"esparse/pkg/source"
)

func TestNewCoversEveryType(t *testing.T) {
	for typ := ProgramType; typ < numTypes; typ++ {
		n := New(typ)
		if n.Type() != typ {
			t.Errorf("New(%s).Type() = %s", typ, n.Type())
		}
		if typeNames[typ] == "" {
			t.Errorf("type %d has no name", int(typ))
		}
	}
	assert.Panics(t, func() { New(InvalidType) })
}

func TestIsPattern(t *testing.T) {
	for _, typ := range []Type{ObjectPatternType, ArrayPatternType, RestElementType, AssignmentPatternType} {
		assert.True(t, typ.IsPattern(), typ.String())
	}
	for _, typ := range []Type{IdentifierType, ObjectExpressionType, ArrayExpressionType, SpreadElementType} {
		assert.False(t, typ.IsPattern(), typ.String())
	}
}

func TestTypeJSON(t *testing.T) {
	id := New(IdentifierType).(*Identifier)
	id.Name = "x"
	id.SetStart(source.NewPosition(1, 0, 0))
	id.SetEnd(source.NewPosition(1, 1, 1))

	data, err := json.Marshal(id)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"type": "Identifier",
		"name": "x",
		"location": {"start": {"line": 1, "column": 0, "index": 0}, "end": {"line": 1, "column": 1, "index": 1}}
	}`, string(data))
}

func ident(name string, start int) *Identifier {
	id := New(IdentifierType).(*Identifier)
	id.Name = name
	id.Location = source.SourceLocation{
		Start: source.NewPosition(1, start, start),
		End:   source.NewPosition(1, start+len(name), start+len(name)),
	}
	return id
}

func TestWalkOrder(t *testing.T) {
	// a + b * c
	mul := New(BinaryExpressionType).(*BinaryExpression)
	mul.Operator, mul.Left, mul.Right = "*", ident("b", 4), ident("c", 8)
	add := New(BinaryExpressionType).(*BinaryExpression)
	add.Operator, add.Left, add.Right = "+", ident("a", 0), mul
	stmt := New(ExpressionStatementType).(*ExpressionStatement)
	stmt.Expression = add
	prog := New(ProgramType).(*Program)
	prog.Body = []Node{stmt}

	var visited []string
	Inspect(prog, func(n Node) bool {
		switch n := n.(type) {
		case *Identifier:
			visited = append(visited, n.Name)
		case *BinaryExpression:
			visited = append(visited, n.Operator)
		}
		return true
	})
	assert.Equal(t, []string{"+", "a", "*", "b", "c"}, visited)

	// Returning false prunes the subtree
	visited = visited[:0]
	Inspect(prog, func(n Node) bool {
		if b, ok := n.(*BinaryExpression); ok {
			visited = append(visited, b.Operator)
			return false
		}
		return true
	})
	assert.Equal(t, []string{"+"}, visited)
}

func TestChildrenSkipsNil(t *testing.T) {
	ifs := New(IfStatementType).(*IfStatement)
	ifs.Test = ident("x", 4)
	ifs.Consequent = New(EmptyStatementType)
	assert.Len(t, Children(ifs), 2)

	try := New(TryStatementType).(*TryStatement)
	try.Block = New(BlockStatementType).(*BlockStatement)
	assert.Len(t, Children(try), 1)

	arr := New(ArrayExpressionType).(*ArrayExpression)
	arr.Elements = []Node{nil, ident("a", 3), nil}
	assert.Len(t, Children(arr), 1)
}

func TestShorthandPropertyVisitedOnce(t *testing.T) {
	id := ident("a", 1)
	prop := New(PropertyType).(*Property)
	prop.Key, prop.Value, prop.Shorthand = id, id, true
	assert.Len(t, Children(prop), 1)
}

func TestArena(t *testing.T) {
	a := NewArena()
	id := a.New(IdentifierType).(*Identifier)
	id.Name = "first"
	assert.Equal(t, IdentifierType, id.Type())

	// Types without a pool still work
	lbl := a.New(LabeledStatementType)
	assert.Equal(t, LabeledStatementType, lbl.Type())
	assert.Equal(t, 1, a.Allocated())

	a.Reset()
	assert.Equal(t, 0, a.Allocated())
	again := a.New(IdentifierType).(*Identifier)
	assert.Empty(t, again.Name)

	var nilArena *Arena
	assert.Equal(t, ProgramType, nilArena.New(ProgramType).Type())
}
