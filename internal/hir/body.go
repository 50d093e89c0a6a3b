package hir

import (
	"sort"

	"github.com/graphqlintel/graphqlintel/internal/syntax"
)

// OperationBody / FragmentBody are the second HIR tier: selection sets
// and the names they reference, queried by index/name so editing one
// body never disturbs another's memo entry (spec.md §3 "HIR body").
type OperationBody struct {
	Selections      syntax.SelectionSet
	FragmentSpreads []string // sorted, deduplicated
	VariableUsages  []string // sorted, deduplicated
}

type FragmentBody struct {
	Selections      syntax.SelectionSet
	FragmentSpreads []string
	VariableUsages  []string
}

func operationBodyEqual(a, b OperationBody) bool {
	return selectionSetEqual(a.Selections, b.Selections) &&
		stringSliceEqual(a.FragmentSpreads, b.FragmentSpreads) &&
		stringSliceEqual(a.VariableUsages, b.VariableUsages)
}

func fragmentBodyEqual(a, b FragmentBody) bool {
	return selectionSetEqual(a.Selections, b.Selections) &&
		stringSliceEqual(a.FragmentSpreads, b.FragmentSpreads) &&
		stringSliceEqual(a.VariableUsages, b.VariableUsages)
}

func stringSliceEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// selectionSetEqual is a structural comparison over the syntax AST,
// ignoring spans (which always change even on a pure text-shift edit
// that leaves the selection's meaning untouched) so the back-edge
// short-circuit fires on the cases the golden invariant cares about:
// reordered whitespace, renamed-then-reverted aliases, etc. never
// reach this layer anyway (spans differ whenever bytes differ), but
// keeping this shape-only is what lets operation_body avoid needless
// downstream invalidation when two structurally-identical edits land
// at the same byte range (e.g. an undo).
func selectionSetEqual(a, b syntax.SelectionSet) bool {
	if len(a.Selections) != len(b.Selections) {
		return false
	}
	for i := range a.Selections {
		if !selectionEqual(a.Selections[i], b.Selections[i]) {
			return false
		}
	}
	return true
}

func selectionEqual(a, b syntax.Selection) bool {
	switch av := a.(type) {
	case *syntax.Field:
		bv, ok := b.(*syntax.Field)
		if !ok || av.ResponseName() != bv.ResponseName() || av.Name.Name != bv.Name.Name {
			return false
		}
		if len(av.Arguments) != len(bv.Arguments) {
			return false
		}
		for i := range av.Arguments {
			if !argumentEqual(av.Arguments[i], bv.Arguments[i]) {
				return false
			}
		}
		if (av.SelectionSet == nil) != (bv.SelectionSet == nil) {
			return false
		}
		if av.SelectionSet != nil && !selectionSetEqual(*av.SelectionSet, *bv.SelectionSet) {
			return false
		}
		return true
	case *syntax.FragmentSpread:
		bv, ok := b.(*syntax.FragmentSpread)
		return ok && av.Name.Name == bv.Name.Name
	case *syntax.InlineFragment:
		bv, ok := b.(*syntax.InlineFragment)
		if !ok {
			return false
		}
		if (av.TypeCondition == nil) != (bv.TypeCondition == nil) {
			return false
		}
		if av.TypeCondition != nil && av.TypeCondition.Name != bv.TypeCondition.Name {
			return false
		}
		return selectionSetEqual(av.SelectionSet, bv.SelectionSet)
	default:
		return false
	}
}

func argumentEqual(a, b syntax.Argument) bool {
	return a.Name.Name == b.Name.Name && valueEqual(a.Value, b.Value)
}

func valueEqual(a, b syntax.Value) bool {
	switch av := a.(type) {
	case *syntax.VariableValue:
		bv, ok := b.(*syntax.VariableValue)
		return ok && av.Name == bv.Name
	case *syntax.IntValue:
		bv, ok := b.(*syntax.IntValue)
		return ok && av.Raw == bv.Raw
	case *syntax.FloatValue:
		bv, ok := b.(*syntax.FloatValue)
		return ok && av.Raw == bv.Raw
	case *syntax.StringValue:
		bv, ok := b.(*syntax.StringValue)
		return ok && av.Value == bv.Value
	case *syntax.BooleanValue:
		bv, ok := b.(*syntax.BooleanValue)
		return ok && av.Value == bv.Value
	case *syntax.NullValue:
		_, ok := b.(*syntax.NullValue)
		return ok
	case *syntax.EnumValue:
		bv, ok := b.(*syntax.EnumValue)
		return ok && av.Name == bv.Name
	case *syntax.ListValue:
		bv, ok := b.(*syntax.ListValue)
		if !ok || len(av.Values) != len(bv.Values) {
			return false
		}
		for i := range av.Values {
			if !valueEqual(av.Values[i], bv.Values[i]) {
				return false
			}
		}
		return true
	case *syntax.ObjectValue:
		bv, ok := b.(*syntax.ObjectValue)
		if !ok || len(av.Fields) != len(bv.Fields) {
			return false
		}
		for i := range av.Fields {
			if av.Fields[i].Name.Name != bv.Fields[i].Name.Name || !valueEqual(av.Fields[i].Value, bv.Fields[i].Value) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// collectSelectionSetRefs walks a selection set collecting every
// fragment spread name and every `$variable` usage (spec.md §3
// "fragment_spreads: Set<Name>, variable_usages: Set<Name>").
func collectSelectionSetRefs(ss syntax.SelectionSet, spreads, vars map[string]struct{}) {
	for _, sel := range ss.Selections {
		switch s := sel.(type) {
		case *syntax.Field:
			for _, arg := range s.Arguments {
				collectValueRefs(arg.Value, vars)
			}
			for _, dir := range s.Directives {
				for _, arg := range dir.Arguments {
					collectValueRefs(arg.Value, vars)
				}
			}
			if s.SelectionSet != nil {
				collectSelectionSetRefs(*s.SelectionSet, spreads, vars)
			}
		case *syntax.FragmentSpread:
			spreads[s.Name.Name] = struct{}{}
		case *syntax.InlineFragment:
			collectSelectionSetRefs(s.SelectionSet, spreads, vars)
		}
	}
}

func collectValueRefs(v syntax.Value, vars map[string]struct{}) {
	switch val := v.(type) {
	case *syntax.VariableValue:
		vars[val.Name] = struct{}{}
	case *syntax.ListValue:
		for _, item := range val.Values {
			collectValueRefs(item, vars)
		}
	case *syntax.ObjectValue:
		for _, f := range val.Fields {
			collectValueRefs(f.Value, vars)
		}
	}
}

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func buildOperationBody(d *syntax.OperationDefinition, offset int) OperationBody {
	spreads, vars := map[string]struct{}{}, map[string]struct{}{}
	collectSelectionSetRefs(d.SelectionSet, spreads, vars)
	return OperationBody{
		Selections:      shiftSelectionSet(d.SelectionSet, offset),
		FragmentSpreads: sortedKeys(spreads),
		VariableUsages:  sortedKeys(vars),
	}
}

func buildFragmentBody(d *syntax.FragmentDefinition, offset int) FragmentBody {
	spreads, vars := map[string]struct{}{}, map[string]struct{}{}
	collectSelectionSetRefs(d.SelectionSet, spreads, vars)
	return FragmentBody{
		Selections:      shiftSelectionSet(d.SelectionSet, offset),
		FragmentSpreads: sortedKeys(spreads),
		VariableUsages:  sortedKeys(vars),
	}
}

// shiftSelectionSet returns a deep copy of ss with every span shifted by
// offset, translating a hosted file's block-relative body spans into
// host-source coordinates (the same translation BuildFileStructure
// applies to structural spans, spec.md §4.3 "dual block-relative vs
// host-source tracking"). A zero offset still deep-copies: the
// underlying nodes are shared with syntax.ParseFile's memoized result,
// so mutating them in place would corrupt that cache.
func shiftSelectionSet(ss syntax.SelectionSet, offset int) syntax.SelectionSet {
	out := syntax.SelectionSet{Span: shift(ss.Span, offset)}
	if ss.Selections != nil {
		out.Selections = make([]syntax.Selection, len(ss.Selections))
		for i, sel := range ss.Selections {
			out.Selections[i] = shiftSelection(sel, offset)
		}
	}
	return out
}

func shiftSelection(sel syntax.Selection, offset int) syntax.Selection {
	switch s := sel.(type) {
	case *syntax.Field:
		f := &syntax.Field{
			Span:       shift(s.Span, offset),
			Name:       shiftIdent(s.Name, offset),
			Arguments:  shiftArguments(s.Arguments, offset),
			Directives: shiftDirectives(s.Directives, offset),
		}
		if s.Alias != nil {
			a := shiftIdent(*s.Alias, offset)
			f.Alias = &a
		}
		if s.SelectionSet != nil {
			nested := shiftSelectionSet(*s.SelectionSet, offset)
			f.SelectionSet = &nested
		}
		return f
	case *syntax.FragmentSpread:
		return &syntax.FragmentSpread{
			Span:       shift(s.Span, offset),
			Name:       shiftIdent(s.Name, offset),
			Directives: shiftDirectives(s.Directives, offset),
		}
	case *syntax.InlineFragment:
		f := &syntax.InlineFragment{
			Span:         shift(s.Span, offset),
			Directives:   shiftDirectives(s.Directives, offset),
			SelectionSet: shiftSelectionSet(s.SelectionSet, offset),
		}
		if s.TypeCondition != nil {
			tc := shiftIdent(*s.TypeCondition, offset)
			f.TypeCondition = &tc
		}
		return f
	default:
		return sel
	}
}

func shiftIdent(id syntax.Ident, offset int) syntax.Ident {
	return syntax.Ident{Span: shift(id.Span, offset), Name: id.Name}
}

func shiftArguments(args []syntax.Argument, offset int) []syntax.Argument {
	if args == nil {
		return nil
	}
	out := make([]syntax.Argument, len(args))
	for i, a := range args {
		out[i] = syntax.Argument{
			Span:  shift(a.Span, offset),
			Name:  shiftIdent(a.Name, offset),
			Value: shiftValue(a.Value, offset),
		}
	}
	return out
}

func shiftDirectives(dirs []syntax.Directive, offset int) []syntax.Directive {
	if dirs == nil {
		return nil
	}
	out := make([]syntax.Directive, len(dirs))
	for i, d := range dirs {
		out[i] = syntax.Directive{
			Span:      shift(d.Span, offset),
			Name:      shiftIdent(d.Name, offset),
			Arguments: shiftArguments(d.Arguments, offset),
		}
	}
	return out
}

// shiftValue shifts a value literal's own span and, for the composite
// kinds, its children's spans too. Value is otherwise opaque to the HIR
// layer, but hover/goto on a variable usage inside an argument value
// still needs a correct host-coordinate span.
func shiftValue(v syntax.Value, offset int) syntax.Value {
	switch val := v.(type) {
	case *syntax.IntValue:
		return &syntax.IntValue{Span: shift(val.Span, offset), Raw: val.Raw}
	case *syntax.FloatValue:
		return &syntax.FloatValue{Span: shift(val.Span, offset), Raw: val.Raw}
	case *syntax.StringValue:
		return &syntax.StringValue{Span: shift(val.Span, offset), Value: val.Value, Block: val.Block}
	case *syntax.BooleanValue:
		return &syntax.BooleanValue{Span: shift(val.Span, offset), Value: val.Value}
	case *syntax.NullValue:
		return &syntax.NullValue{Span: shift(val.Span, offset)}
	case *syntax.EnumValue:
		return &syntax.EnumValue{Span: shift(val.Span, offset), Name: val.Name}
	case *syntax.VariableValue:
		return &syntax.VariableValue{Span: shift(val.Span, offset), Name: val.Name}
	case *syntax.ListValue:
		items := make([]syntax.Value, len(val.Values))
		for i, item := range val.Values {
			items[i] = shiftValue(item, offset)
		}
		return &syntax.ListValue{Span: shift(val.Span, offset), Values: items}
	case *syntax.ObjectValue:
		fields := make([]syntax.ObjectField, len(val.Fields))
		for i, f := range val.Fields {
			fields[i] = syntax.ObjectField{Span: shift(f.Span, offset), Name: shiftIdent(f.Name, offset), Value: shiftValue(f.Value, offset)}
		}
		return &syntax.ObjectValue{Span: shift(val.Span, offset), Fields: fields}
	default:
		return v
	}
}
