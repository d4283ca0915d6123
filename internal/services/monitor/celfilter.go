package monitorsvc

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/cel-go/cel"

	"github.com/rzbill/nidsmon/internal/event"
)

// celFilter wraps a compiled CEL program shared by search and watch. When
// disabled, Eval always returns true.
type celFilter struct {
	prog    cel.Program
	enabled bool
}

func newCELFilter(expr string) (celFilter, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return celFilter{enabled: false}, nil
	}
	env, err := cel.NewEnv(
		cel.Variable("severity", cel.StringType),
		cel.Variable("source", cel.StringType),
		// Last octet of the source address, -1 when it does not parse.
		cel.Variable("host", cel.IntType),
		cel.Variable("text", cel.StringType),
		cel.Variable("run_id", cel.StringType),
		cel.Variable("ts_ms", cel.IntType),
		cel.Variable("now_ms", cel.IntType),
	)
	if err != nil {
		return celFilter{}, err
	}
	ast, iss := env.Compile(expr)
	if iss != nil && iss.Err() != nil {
		return celFilter{}, iss.Err()
	}
	if out := ast.OutputType(); !out.IsExactType(cel.BoolType) && !out.IsExactType(cel.DynType) {
		return celFilter{}, &FilterError{Expr: expr, Reason: "expression must evaluate to bool, got " + out.String()}
	}
	prog, err := env.Program(ast)
	if err != nil {
		return celFilter{}, err
	}
	return celFilter{prog: prog, enabled: true}, nil
}

// Eval evaluates the compiled expression against ev. Evaluation errors count
// as no match.
func (f celFilter) Eval(ev event.Event) bool {
	if !f.enabled {
		return true
	}
	out, _, err := f.prog.Eval(map[string]any{
		"severity": string(ev.Severity),
		"source":   ev.SourceAddress,
		"host":     hostOctet(ev.SourceAddress),
		"text":     ev.Text,
		"run_id":   ev.RunID,
		"ts_ms":    ev.Timestamp.UnixMilli(),
		"now_ms":   time.Now().UnixMilli(),
	})
	if err != nil {
		return false
	}
	b, ok := out.Value().(bool)
	return ok && b
}

func hostOctet(addr string) int64 {
	i := strings.LastIndexByte(addr, '.')
	n, err := strconv.ParseInt(addr[i+1:], 10, 64)
	if err != nil {
		return -1
	}
	return n
}
