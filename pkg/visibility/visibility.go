// Package visibility decides which rule branch applies to the current value of
// a trigger group. Controllers place the trigger value into Context.Values and
// ask an Evaluator whether a branch rule holds.
package visibility

// Evaluator reports whether rule holds for trigger given the context.
type Evaluator interface {
	Eval(trigger, rule string, ctx Context) (bool, error)
}

// Context carries the values a rule may reference. Values holds trigger group
// selections keyed by group name; Extras lets callers inject page level flags.
type Context struct {
	Values map[string]any
	Extras map[string]any
}

// ForTrigger builds a Context holding a single trigger selection.
func ForTrigger(group, value string) Context {
	return Context{Values: map[string]any{group: value}}
}

// With returns a copy of ctx with key set to value in Values.
func (c Context) With(key string, value any) Context {
	values := make(map[string]any, len(c.Values)+1)
	for k, v := range c.Values {
		values[k] = v
	}
	values[key] = value
	c.Values = values
	return c
}

// EvaluatorFunc adapts a function into an Evaluator.
type EvaluatorFunc func(trigger, rule string, ctx Context) (bool, error)

// Eval delegates to the underlying function.
func (fn EvaluatorFunc) Eval(trigger, rule string, ctx Context) (bool, error) {
	return fn(trigger, rule, ctx)
}
