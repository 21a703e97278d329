package dispatch

import (
	"fmt"
	"sort"
	"strings"
)

// attrKind tells how an attribute-conversion spec locates its attribute
// names at call time.
type attrKind int

const (
	attrNone     attrKind = iota // no attributes converted
	attrFromArg                  // one bound argument holds one attribute name
	attrFromList                 // one bound argument holds a list of attribute names
	attrMapped                   // fixed entries, keys and defaults possibly indirected
)

// attrMapEntry is one compiled entry of a mapping-form spec. The key is
// always indirected through a bound argument; the default is either a
// literal or indirected through defParam.
type attrMapEntry struct {
	keyParam string
	defParam string
	defLit   any
}

// attrPlan is the attribute-conversion descriptor for one side (edge or
// node) of an algorithm, compiled once at registration. Per-call work is
// limited to reading bound argument values.
type attrPlan struct {
	kind          attrKind
	param         string
	entries       []attrMapEntry
	fallback      any
	preserveAll   bool
	preserveParam string
}

// compileAttrPlan turns the raw EdgeAttrs/NodeAttrs and Preserve* fields
// of a Def into an attrPlan. fallback is the default conversion value used
// when a spec names attributes without defaults: 1 for edges, nil for
// nodes.
func compileAttrPlan(spec, preserve any, fallback any, params map[string]int) (attrPlan, error) {
	plan := attrPlan{fallback: fallback}

	switch p := preserve.(type) {
	case nil:
	case bool:
		plan.preserveAll = p
	case string:
		if _, ok := params[p]; !ok {
			return plan, fmt.Errorf("preserve-attrs reference %q is not a declared parameter", p)
		}
		plan.preserveParam = p
	default:
		return plan, fmt.Errorf("bad type for preserve-attrs spec: %T", preserve)
	}
	if plan.preserveAll {
		// Preserving everything makes an explicit attribute list moot.
		return plan, nil
	}

	switch s := spec.(type) {
	case nil:
		plan.kind = attrNone
	case string:
		name := s
		if strings.HasPrefix(s, "[") && strings.HasSuffix(s, "]") {
			plan.kind = attrFromList
			name = s[1 : len(s)-1]
		} else {
			plan.kind = attrFromArg
		}
		if _, ok := params[name]; !ok {
			return plan, fmt.Errorf("attrs reference %q is not a declared parameter", name)
		}
		plan.param = name
	case map[string]any:
		plan.kind = attrMapped
		keys := make([]string, 0, len(s))
		for key := range s {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			if _, ok := params[key]; !ok {
				return plan, fmt.Errorf("attrs key %q is not a declared parameter", key)
			}
			entry := attrMapEntry{keyParam: key}
			if ref, isStr := s[key].(string); isStr {
				if _, ok := params[ref]; ok {
					entry.defParam = ref
				} else {
					entry.defLit = fallback
				}
			} else {
				entry.defLit = s[key]
			}
			plan.entries = append(plan.entries, entry)
		}
	default:
		return plan, fmt.Errorf("bad type for attrs spec: %T", spec)
	}
	return plan, nil
}

// resolve computes the effective attribute map and preserve-all flag for
// one call, reading the fully bound arguments. Preserve-all wins over any
// explicit attribute spec.
func (p *attrPlan) resolve(algorithm string, bound map[string]any) (map[string]any, bool, error) {
	if p.preserveAll {
		return nil, true, nil
	}
	if p.preserveParam != "" {
		if on, _ := bound[p.preserveParam].(bool); on {
			return nil, true, nil
		}
	}

	switch p.kind {
	case attrNone:
		return nil, false, nil
	case attrFromArg:
		v := bound[p.param]
		if v == nil {
			return nil, false, nil
		}
		name, ok := v.(string)
		if !ok {
			return nil, false, &ArgumentError{Algorithm: algorithm, Arg: p.param, Reason: "attribute-name argument must be a string"}
		}
		return map[string]any{name: p.fallback}, false, nil
	case attrFromList:
		v := bound[p.param]
		if v == nil {
			return nil, false, nil
		}
		names, err := stringList(v)
		if err != nil {
			return nil, false, &ArgumentError{Algorithm: algorithm, Arg: p.param, Reason: err.Error()}
		}
		attrs := make(map[string]any, len(names))
		for _, name := range names {
			attrs[name] = p.fallback
		}
		return attrs, false, nil
	default: // attrMapped
		attrs := make(map[string]any, len(p.entries))
		for _, entry := range p.entries {
			key := bound[entry.keyParam]
			if key == nil {
				continue
			}
			name, ok := key.(string)
			if !ok {
				return nil, false, &ArgumentError{Algorithm: algorithm, Arg: entry.keyParam, Reason: "attribute-name argument must be a string"}
			}
			if entry.defParam != "" {
				attrs[name] = bound[entry.defParam]
			} else {
				attrs[name] = entry.defLit
			}
		}
		return attrs, false, nil
	}
}

func stringList(v any) ([]string, error) {
	switch list := v.(type) {
	case []string:
		return list, nil
	case []any:
		out := make([]string, len(list))
		for i, item := range list {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("attribute-list argument holds a non-string element (%T)", item)
			}
			out[i] = s
		}
		return out, nil
	default:
		return nil, fmt.Errorf("attribute-list argument must be a list of strings, got %T", v)
	}
}
