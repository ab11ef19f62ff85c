// Package scene evaluates a small Lisp DSL, embedded via zygomys, that
// builds an implicit.Solid scene graph: primitives, boolean
// composition, and rigid transforms. It exists so a solid can be
// described as data (a script) instead of Go call sites, the way the
// teacher's own Lisp engine builds a design graph from source text.
package scene

import (
	"fmt"
	"strings"

	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/chazu/octreesf/pkg/implicit"
)

// EvalError is a non-fatal parse or evaluation error. Build leaves
// Line zero; any position zygomys reports stays inside Message.
type EvalError struct {
	Line    int
	Message string
}

func (e EvalError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}

// Build evaluates source in a fresh sandboxed zygomys environment and
// returns the implicit.Solid its final expression produced.
//
// Supported forms:
//
//	(sphere r)
//	(box x y z)
//	(cylinder height radius)
//	(union a b ...)
//	(intersect a b ...)
//	(subtract a b)
//	(invert a)
//	(translate a x y z)
//	(rotate a x y z)
func Build(source string) (implicit.Solid, error) {
	if strings.TrimSpace(source) == "" {
		return nil, fmt.Errorf("scene: empty source")
	}

	env := zygo.NewZlispSandbox()
	defer env.Stop()
	registerBuiltins(env)

	if err := env.LoadString(source); err != nil {
		return nil, evalError(err)
	}
	result, err := env.Run()
	if err != nil {
		return nil, evalError(err)
	}

	sv, ok := result.(*sexpSolid)
	if !ok {
		return nil, fmt.Errorf("scene: final expression did not produce a solid, got %T", result)
	}
	return sv.solid, nil
}

func evalError(err error) error {
	// zygomys formats parse/runtime errors as free text; this package
	// does not attempt engine.go's line-number regex extraction since
	// its DSL has no multi-statement source files to attribute yet.
	return EvalError{Message: strings.TrimSpace(err.Error())}
}
