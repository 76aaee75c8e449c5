package dtpl

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/olimci/dtpl/pkg/utils/lazy"
)

// The CUE runtime is created once per process and shared by every evaluation.
var cueRuntime = lazy.New(func() *cue.Context { return cuecontext.New() })

// CUELoader evaluates dtpl.cue files. The Source being matched is unified into the
// document at `source`, so configs declare `source: _` and may compute matches, data and
// related files from it.
type CUELoader struct{}

func (CUELoader) Load(filename string, b []byte, src *Source) (Config, error) {
	ctx := cueRuntime.Get()

	v := ctx.CompileBytes(b, cue.Filename(filename))
	if err := v.Err(); err != nil {
		return nil, fmt.Errorf("compiling %s: %w", filename, err)
	}

	if src != nil {
		v = v.FillPath(cue.ParsePath("source"), src.Describe())
		if err := v.Err(); err != nil {
			return nil, fmt.Errorf("filling source: %w", err)
		}
	}

	if err := v.Validate(cue.Concrete(true)); err != nil {
		return nil, fmt.Errorf("evaluating %s: %w", filename, err)
	}

	raw := make(map[string]any)
	if err := v.Decode(&raw); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", filename, err)
	}
	delete(raw, "source")

	return configFromMap(raw, cueTemplateOrder(v))
}

func cueTemplateOrder(v cue.Value) []string {
	tv := v.LookupPath(cue.ParsePath("templates"))
	if tv.IncompleteKind() != cue.StructKind {
		return nil
	}

	iter, err := tv.Fields()
	if err != nil {
		return nil
	}
	var order []string
	for iter.Next() {
		order = append(order, iter.Selector().Unquoted())
	}
	return order
}
