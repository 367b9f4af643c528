// Package aggregate implements the five numeric reducers plus COLLECT
// that a RETURN clause's grouped columns may apply, generalising the
// teacher's whole-path Reducer (MeanProbabilityReducer, MaxProbabilityReducer,
// ...) from reducing one probability per path to streaming one value per
// row within a group.
package aggregate

import "github.com/ritamzico/trigraph/internal/value"

type Kind int

const (
	Count Kind = iota
	Sum
	Avg
	Min
	Max
	Collect
)

var names = map[string]Kind{
	"count":   Count,
	"sum":     Sum,
	"avg":     Avg,
	"min":     Min,
	"max":     Max,
	"collect": Collect,
}

// Lookup reports whether name is a registered aggregation function, and
// its Kind if so. Used by internal/executor to decide whether a RETURN
// item's function call groups the result set or is an ordinary scalar
// expression.
func Lookup(name string) (Kind, bool) {
	k, ok := names[name]
	return k, ok
}

// Context accumulates one aggregate value across every row of a group.
type Context interface {
	Step(v value.Value)
	Result() value.Value
}

// New constructs a fresh, zero-valued accumulator for kind.
func New(kind Kind) Context {
	switch kind {
	case Count:
		return &countCtx{}
	case Sum:
		return &sumCtx{}
	case Avg:
		return &avgCtx{}
	case Min:
		return &minMaxCtx{wantMax: false}
	case Max:
		return &minMaxCtx{wantMax: true}
	case Collect:
		return &collectCtx{}
	}
	return &countCtx{}
}

type countCtx struct{ n int64 }

func (c *countCtx) Step(value.Value)      { c.n++ }
func (c *countCtx) Result() value.Value   { return value.Int(c.n) }

type sumCtx struct {
	f        float64
	sawFloat bool
	i        int64
}

func (c *sumCtx) Step(v value.Value) {
	switch v.Kind {
	case value.FloatVal:
		c.sawFloat = true
		c.f += v.F
	case value.IntVal:
		c.i += v.I
		c.f += float64(v.I)
	}
}

func (c *sumCtx) Result() value.Value {
	if c.sawFloat {
		return value.Float(c.f)
	}
	return value.Int(c.i)
}

type avgCtx struct {
	sum sumCtx
	n   int64
}

func (c *avgCtx) Step(v value.Value) {
	c.sum.Step(v)
	c.n++
}

func (c *avgCtx) Result() value.Value {
	if c.n == 0 {
		return value.Float(0)
	}
	total := c.sum.Result()
	var f float64
	if total.Kind == value.FloatVal {
		f = total.F
	} else {
		f = float64(total.I)
	}
	return value.Float(f / float64(c.n))
}

type minMaxCtx struct {
	wantMax bool
	have    bool
	cur     value.Value
}

func numeric(v value.Value) float64 {
	if v.Kind == value.FloatVal {
		return v.F
	}
	return float64(v.I)
}

func (c *minMaxCtx) Step(v value.Value) {
	if !c.have {
		c.cur = v
		c.have = true
		return
	}
	better := numeric(v) < numeric(c.cur)
	if c.wantMax {
		better = numeric(v) > numeric(c.cur)
	}
	if better {
		c.cur = v
	}
}

func (c *minMaxCtx) Result() value.Value { return c.cur }

type collectCtx struct{ items []value.Value }

func (c *collectCtx) Step(v value.Value) { c.items = append(c.items, v) }
func (c *collectCtx) Result() value.Value {
	parts := make([]string, 0, len(c.items))
	for _, it := range c.items {
		parts = append(parts, it.String())
	}
	joined := ""
	for i, p := range parts {
		if i > 0 {
			joined += ","
		}
		joined += p
	}
	return value.String(joined)
}
