package scene

import (
	"fmt"

	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/chazu/octreesf/pkg/implicit"
)

// sexpSolid wraps an implicit.Solid so it can be passed between DSL
// builtins and returned as the script's final value.
type sexpSolid struct {
	solid implicit.Solid
}

func (s *sexpSolid) SexpString(ps *zygo.PrintState) string { return "(solid)" }
func (s *sexpSolid) Type() *zygo.RegisteredType            { return nil }

func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected a number, got %T", s)
}

func toSolid(s zygo.Sexp) (implicit.Solid, error) {
	if v, ok := s.(*sexpSolid); ok {
		return v.solid, nil
	}
	return nil, fmt.Errorf("expected a solid, got %T", s)
}

func toSolids(args []zygo.Sexp) ([]implicit.Solid, error) {
	out := make([]implicit.Solid, len(args))
	for i, a := range args {
		s, err := toSolid(a)
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i, err)
		}
		out[i] = s
	}
	return out, nil
}

// registerBuiltins installs the scene DSL's primitive, composition,
// and transform functions into env.
func registerBuiltins(env *zygo.Zlisp) {
	env.AddFunction("sphere", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("sphere requires a radius argument")
		}
		r, err := toFloat64(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("sphere: radius: %w", err)
		}
		return &sexpSolid{solid: implicit.Sphere(r)}, nil
	})

	env.AddFunction("box", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 3 {
			return zygo.SexpNull, fmt.Errorf("box requires x, y, z arguments")
		}
		x, err := toFloat64(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("box: x: %w", err)
		}
		y, err := toFloat64(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("box: y: %w", err)
		}
		z, err := toFloat64(args[2])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("box: z: %w", err)
		}
		return &sexpSolid{solid: implicit.Box(x, y, z)}, nil
	})

	env.AddFunction("cylinder", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("cylinder requires height and radius arguments")
		}
		h, err := toFloat64(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("cylinder: height: %w", err)
		}
		r, err := toFloat64(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("cylinder: radius: %w", err)
		}
		return &sexpSolid{solid: implicit.Cylinder(h, r)}, nil
	})

	env.AddFunction("union", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		solids, err := toSolids(args)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("union: %w", err)
		}
		if len(solids) == 0 {
			return zygo.SexpNull, fmt.Errorf("union requires at least one solid")
		}
		return &sexpSolid{solid: implicit.NewUnion(solids...)}, nil
	})

	env.AddFunction("intersect", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		solids, err := toSolids(args)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("intersect: %w", err)
		}
		if len(solids) == 0 {
			return zygo.SexpNull, fmt.Errorf("intersect requires at least one solid")
		}
		return &sexpSolid{solid: implicit.NewIntersect(solids...)}, nil
	})

	env.AddFunction("subtract", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("subtract requires exactly two solids")
		}
		a, err := toSolid(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("subtract: %w", err)
		}
		b, err := toSolid(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("subtract: %w", err)
		}
		return &sexpSolid{solid: implicit.NewIntersect(a, implicit.NewInvert(b))}, nil
	})

	env.AddFunction("invert", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("invert requires exactly one solid")
		}
		s, err := toSolid(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("invert: %w", err)
		}
		return &sexpSolid{solid: implicit.NewInvert(s)}, nil
	})

	env.AddFunction("translate", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 4 {
			return zygo.SexpNull, fmt.Errorf("translate requires a solid and x, y, z")
		}
		s, err := toSolid(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("translate: %w", err)
		}
		x, err := toFloat64(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("translate: x: %w", err)
		}
		y, err := toFloat64(args[2])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("translate: y: %w", err)
		}
		z, err := toFloat64(args[3])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("translate: z: %w", err)
		}
		return &sexpSolid{solid: implicit.Translate(s, x, y, z)}, nil
	})

	env.AddFunction("rotate", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 4 {
			return zygo.SexpNull, fmt.Errorf("rotate requires a solid and x, y, z degrees")
		}
		s, err := toSolid(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("rotate: %w", err)
		}
		x, err := toFloat64(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("rotate: x: %w", err)
		}
		y, err := toFloat64(args[2])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("rotate: y: %w", err)
		}
		z, err := toFloat64(args[3])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("rotate: z: %w", err)
		}
		return &sexpSolid{solid: implicit.Rotate(s, x, y, z)}, nil
	})
}
