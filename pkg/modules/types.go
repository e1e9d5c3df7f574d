package modules

import (
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"esparse/pkg/ast"
	"esparse/pkg/parser"
	"esparse/pkg/source"
)

// ImportKind tells how a module refers to a dependency.
type ImportKind int

const (
	ImportStatic   ImportKind = iota // import ... from "x" / import "x"
	ImportReExport                   // export ... from "x"
	ImportDynamic                    // import("x")
)

func (k ImportKind) String() string {
	switch k {
	case ImportStatic:
		return "static"
	case ImportReExport:
		return "re-export"
	case ImportDynamic:
		return "dynamic"
	}
	return "unknown"
}

// MarshalText renders the kind by name in JSON output.
func (k ImportKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *ImportKind) UnmarshalText(text []byte) error {
	for _, kind := range []ImportKind{ImportStatic, ImportReExport, ImportDynamic} {
		if kind.String() == string(text) {
			*k = kind
			return nil
		}
	}
	return errors.Errorf("unknown import kind %q", text)
}

// ImportSpec is one dependency of a module.
type ImportSpec struct {
	ModulePath string                `json:"modulePath"`
	Kind       ImportKind            `json:"kind"`
	Names      []string              `json:"names,omitempty"` // imported names, "*" for a namespace
	Location   source.SourceLocation `json:"location"`
}

// ExportSpec is one name exported by a module.
type ExportSpec struct {
	ExportName string `json:"exportName"`
	LocalName  string `json:"localName,omitempty"`
	IsDefault  bool   `json:"isDefault,omitempty"`
	From       string `json:"from,omitempty"` // source module of a re-export
}

// ParseJob is a source submitted to the worker pool.
type ParseJob struct {
	ModulePath string
	Source     *source.SourceFile
	Priority   int
	Timestamp  time.Time
}

// ParseResult is the outcome of a ParseJob. Program is only set when the
// pool keeps syntax trees.
type ParseResult struct {
	ModulePath    string
	Source        *source.SourceFile
	Program       *ast.Program
	ImportSpecs   []*ImportSpec
	ExportSpecs   []*ExportSpec
	Error         error
	WorkerID      int
	ParseDuration time.Duration
	Timestamp     time.Time
}

// PoolConfig configures a WorkerPool.
type PoolConfig struct {
	NumWorkers       int // 0 means runtime.NumCPU()
	JobBufferSize    int
	ResultBufferSize int
	// Options are the parser options of every job; nil parses modules with
	// every feature enabled.
	Options *parser.Options
	// KeepAST keeps the Program in each result. Without it workers allocate
	// nodes from a per worker arena that is reset after every job.
	KeepAST bool
	Logger  *zap.Logger
}

// DefaultPoolConfig returns a configuration for dependency extraction.
func DefaultPoolConfig() *PoolConfig {
	return &PoolConfig{
		JobBufferSize:    100,
		ResultBufferSize: 100,
	}
}

// WorkerPoolStats summarizes the work done by a pool.
type WorkerPoolStats struct {
	WorkerCount   int
	TotalJobs     int
	ActiveJobs    int
	CompletedJobs int
	FailedJobs    int
	TotalTime     time.Duration
	AverageTime   time.Duration
}
