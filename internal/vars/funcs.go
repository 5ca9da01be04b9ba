package vars

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/gocty"
)

// Evaluator resolves assignments for successive runs. It owns the random
// source so randomness is injectable for tests instead of ambient state.
type Evaluator struct {
	rng   *rand.Rand
	funcs map[string]function.Function
}

// NewEvaluator creates an evaluator backed by the given random source. A nil
// source gets a time-seeded one.
func NewEvaluator(rng *rand.Rand) *Evaluator {
	if rng == nil {
		rng = rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0))
	}
	e := &Evaluator{rng: rng}
	e.funcs = map[string]function.Function{
		"randint":   e.randintFunc(),
		"randfloat": e.randfloatFunc(),
		"choice":    e.choiceFunc(),
	}
	return e
}

// randintFunc returns a uniform integer in [lo, hi], both bounds inclusive,
// matching the convention terrain authors expect from randint.
func (e *Evaluator) randintFunc() function.Function {
	return function.New(&function.Spec{
		Params: []function.Parameter{
			{Name: "lo", Type: cty.Number},
			{Name: "hi", Type: cty.Number},
		},
		Type: function.StaticReturnType(cty.Number),
		Impl: func(args []cty.Value, retType cty.Type) (cty.Value, error) {
			var lo, hi int64
			if err := gocty.FromCtyValue(args[0], &lo); err != nil {
				return cty.NilVal, err
			}
			if err := gocty.FromCtyValue(args[1], &hi); err != nil {
				return cty.NilVal, err
			}
			if hi < lo {
				return cty.NilVal, fmt.Errorf("randint: hi (%d) must not be less than lo (%d)", hi, lo)
			}
			return cty.NumberIntVal(lo + e.rng.Int64N(hi-lo+1)), nil
		},
	})
}

// randfloatFunc returns a uniform float in [lo, hi).
func (e *Evaluator) randfloatFunc() function.Function {
	return function.New(&function.Spec{
		Params: []function.Parameter{
			{Name: "lo", Type: cty.Number},
			{Name: "hi", Type: cty.Number},
		},
		Type: function.StaticReturnType(cty.Number),
		Impl: func(args []cty.Value, retType cty.Type) (cty.Value, error) {
			var lo, hi float64
			if err := gocty.FromCtyValue(args[0], &lo); err != nil {
				return cty.NilVal, err
			}
			if err := gocty.FromCtyValue(args[1], &hi); err != nil {
				return cty.NilVal, err
			}
			if hi < lo {
				return cty.NilVal, fmt.Errorf("randfloat: hi (%v) must not be less than lo (%v)", hi, lo)
			}
			return cty.NumberFloatVal(lo + e.rng.Float64()*(hi-lo)), nil
		},
	})
}

// choiceFunc picks one element of a non-empty list at random.
func (e *Evaluator) choiceFunc() function.Function {
	return function.New(&function.Spec{
		Params: []function.Parameter{
			{Name: "options", Type: cty.List(cty.String)},
		},
		Type: function.StaticReturnType(cty.String),
		Impl: func(args []cty.Value, retType cty.Type) (cty.Value, error) {
			n := args[0].LengthInt()
			if n == 0 {
				return cty.NilVal, fmt.Errorf("choice: options list is empty")
			}
			picked := args[0].Index(cty.NumberIntVal(e.rng.Int64N(int64(n))))
			return picked, nil
		},
	})
}
