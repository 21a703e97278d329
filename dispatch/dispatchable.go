package dispatch

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/vk/polygraph/backend"
)

// ReferenceBackend is the canonical loopback backend used to validate the
// dispatch machinery itself. The conversion-forcing mode treats a missing
// algorithm as a hard error for this backend only.
const ReferenceBackend = "loopback"

// Func is the calling convention of a dispatchable algorithm.
type Func = backend.AlgorithmFunc

// Param declares one parameter of an algorithm's full signature, in
// positional order. The declared list is what the conversion-forcing mode
// binds call arguments against.
type Param struct {
	Name     string
	Default  any
	Required bool
}

// Def describes one algorithm registration.
type Def struct {
	// Name is the canonical algorithm name, unique across the registry.
	Name string
	// Func is the native implementation.
	Func Func
	// Params is the algorithm's declared parameter list with defaults.
	Params []Param
	// Graphs names the graph parameters: a single parameter name, or a
	// map of name to positional index. A trailing "?" marks a graph
	// parameter optional. Defaults to "G".
	Graphs any
	// EdgeAttrs describes which edge attributes a backend conversion
	// should carry over: a parameter name holding one attribute name, a
	// "[param]" reference to a parameter holding a list of names, or a
	// map of parameter name to default value (the default may itself
	// name a parameter).
	EdgeAttrs any
	// NodeAttrs is EdgeAttrs for node attributes.
	NodeAttrs any
	// PreserveEdgeAttrs preserves all edge attributes: true, or the name
	// of a bool parameter. Wins over EdgeAttrs when set.
	PreserveEdgeAttrs any
	// PreserveNodeAttrs is PreserveEdgeAttrs for node attributes.
	PreserveNodeAttrs any
}

// Dispatchable wraps a native algorithm with backend dispatch. Create one
// with Register or MustRegister.
type Dispatchable struct {
	name       string
	fn         Func
	params     []Param
	paramIndex map[string]int
	graphs     []graphArg
	edgePlan   attrPlan
	nodePlan   attrPlan
}

// Name returns the canonical algorithm name the wrapper was registered
// under.
func (d *Dispatchable) Name() string { return d.name }

// Register compiles a Def and adds it to the algorithm registry. The
// registry is append-only; a second registration under the same name
// fails with a RegistrationError.
func Register(def Def) (*Dispatchable, error) {
	if def.Name == "" {
		return nil, &RegistrationError{Algorithm: def.Name, Err: errors.New("algorithm name is required")}
	}
	fail := func(err error) (*Dispatchable, error) {
		return nil, &RegistrationError{Algorithm: def.Name, Err: err}
	}
	if def.Func == nil {
		return fail(errors.New("algorithm function is required"))
	}
	if len(def.Params) == 0 {
		return fail(errors.New("declared parameter list is required"))
	}

	paramIndex := make(map[string]int, len(def.Params))
	for i, p := range def.Params {
		if p.Name == "" {
			return fail(fmt.Errorf("parameter %d has no name", i))
		}
		if _, dup := paramIndex[p.Name]; dup {
			return fail(fmt.Errorf("parameter %q declared twice", p.Name))
		}
		paramIndex[p.Name] = i
	}

	graphs, err := parseGraphs(def.Graphs)
	if err != nil {
		return fail(err)
	}
	for _, ga := range graphs {
		idx, ok := paramIndex[ga.name]
		if !ok {
			return fail(fmt.Errorf("graph parameter %q is not in the declared parameter list", ga.name))
		}
		if idx != ga.pos {
			return fail(fmt.Errorf("graph parameter %q declared at position %d but listed at %d", ga.name, idx, ga.pos))
		}
	}

	// Default conversion values differ per side: absent edge attributes
	// default to a weight of 1, absent node attributes to nil.
	edgePlan, err := compileAttrPlan(def.EdgeAttrs, def.PreserveEdgeAttrs, 1, paramIndex)
	if err != nil {
		return fail(fmt.Errorf("edge attrs: %w", err))
	}
	nodePlan, err := compileAttrPlan(def.NodeAttrs, def.PreserveNodeAttrs, nil, paramIndex)
	if err != nil {
		return fail(fmt.Errorf("node attrs: %w", err))
	}

	d := &Dispatchable{
		name:       def.Name,
		fn:         def.Func,
		params:     def.Params,
		paramIndex: paramIndex,
		graphs:     graphs,
		edgePlan:   edgePlan,
		nodePlan:   nodePlan,
	}
	if err := addToRegistry(d); err != nil {
		return nil, err
	}
	return d, nil
}

// MustRegister is Register for init-time registration: a bad Def is a
// programmer error and panics.
func MustRegister(def Def) *Dispatchable {
	d, err := Register(def)
	if err != nil {
		panic(err)
	}
	return d
}

// Call dispatches one invocation of the algorithm.
//
// With a forced backend configured, the call goes through the conversion
// harness unconditionally. Otherwise the graph arguments are resolved and
// their backend tags decide: one common tag forwards the call to that
// backend unmodified, no tag runs the native function (after the
// backend-priority list gets a chance to claim the call), and conflicting
// tags fail. A reserved "backend" keyword argument requests a backend
// explicitly and is stripped before forwarding.
func (d *Dispatchable) Call(args []any, kwargs map[string]any) (any, error) {
	requested := ""
	if v, ok := kwargs["backend"]; ok {
		s, isStr := v.(string)
		if !isStr {
			return nil, &ArgumentError{Algorithm: d.name, Arg: "backend", Reason: "backend request must be a string"}
		}
		requested = s
		trimmed := make(map[string]any, len(kwargs)-1)
		for k, v := range kwargs {
			if k != "backend" {
				trimmed[k] = v
			}
		}
		kwargs = trimmed
	}

	if forced := backend.ForcedBackend(); forced != "" {
		slog.Debug("Dispatching through forced backend.", "algorithm", d.name, "backend", forced)
		return d.callConverted(forced, args, kwargs, true)
	}

	resolved, err := d.resolveGraphs(args, kwargs)
	if err != nil {
		return nil, err
	}

	var tags []string
	seen := make(map[string]bool)
	for _, rg := range resolved {
		if tag := backend.TagOf(rg.value); tag != "" && !seen[tag] {
			seen[tag] = true
			tags = append(tags, tag)
		}
	}

	switch {
	case len(tags) > 1:
		return nil, &BackendMismatchError{Algorithm: d.name, Backends: tags}
	case len(tags) == 1:
		if requested != "" && requested != tags[0] {
			return nil, &BackendMismatchError{Algorithm: d.name, Backends: []string{requested, tags[0]}}
		}
		slog.Debug("Dispatching to backend by graph tag.", "algorithm", d.name, "backend", tags[0])
		return d.callBackend(tags[0], args, kwargs)
	case requested != "":
		slog.Debug("Dispatching to explicitly requested backend.", "algorithm", d.name, "backend", requested)
		return d.callBackend(requested, args, kwargs)
	}

	for _, name := range backend.Priority() {
		b, err := backend.Load(name)
		if err != nil {
			slog.Debug("Skipping unavailable priority backend.", "algorithm", d.name, "backend", name, "error", err)
			continue
		}
		if _, ok := b.Algorithm(d.name); ok {
			slog.Debug("Dispatching to priority backend.", "algorithm", d.name, "backend", name)
			return d.callConverted(name, args, kwargs, false)
		}
	}

	return d.fn(args, kwargs)
}

// callBackend forwards the call to a backend without conversion. Callers
// providing backend-tagged graphs already hold objects the backend
// understands.
func (d *Dispatchable) callBackend(name string, args []any, kwargs map[string]any) (any, error) {
	b, err := backend.Load(name)
	if err != nil {
		return nil, err
	}
	fn, ok := b.Algorithm(d.name)
	if !ok {
		return nil, &NotImplementedError{Algorithm: d.name, Backend: name}
	}
	return fn(args, kwargs)
}

// Native returns the wrapped native implementation, bypassing dispatch.
// The reference backend uses it to delegate back to the original
// function.
func (d *Dispatchable) Native() Func { return d.fn }
