package hir

import (
	"github.com/graphqlintel/graphqlintel/internal/syntax"
	"github.com/graphqlintel/graphqlintel/internal/types"
)

// BuildFileStructure walks every document in a parsed file once,
// extracting signatures only (spec.md §4.4 "walks the CST once,
// extracting signatures only. Body selection sets are not materialized
// here."). For a hosted file with N embedded blocks, it walks all N
// documents and concatenates their operations/fragments, indexing
// operations contiguously across blocks so (file, index) stays a
// stable key even as blocks shift relative to each other.
func BuildFileStructure(fileID types.FileID, result syntax.ParseResult) FileStructure {
	fs := FileStructure{FileID: fileID}
	opIndex := 0

	for docIdx, pd := range result.Documents {
		offset := hostOffsetFor(result, docIdx)
		for _, def := range pd.Document.Definitions {
			switch d := def.(type) {
			case *syntax.TypeDefinition:
				fs.TypeDefs = append(fs.TypeDefs, buildTypeDef(fileID, d, offset))
			case *syntax.OperationDefinition:
				fs.Operations = append(fs.Operations, buildOperationStructure(fileID, d, opIndex, offset))
				opIndex++
			case *syntax.FragmentDefinition:
				fs.Fragments = append(fs.Fragments, buildFragmentStructure(fileID, d, offset))
			}
		}
	}
	return fs
}

// hostOffsetFor returns the byte offset to add to a span produced while
// parsing docIdx's block-relative content, translating it into
// host-source coordinates. For plain (non-hosted) files this is always
// zero since Documents[0] already covers the whole file.
func hostOffsetFor(result syntax.ParseResult, docIdx int) int {
	if docIdx >= len(result.HostBlocks) {
		return 0
	}
	return result.HostBlocks[docIdx].ContentHostSpan.Start
}

func shift(s types.Span, offset int) types.Span {
	return types.Span{Start: s.Start + offset, End: s.End + offset}
}

func buildTypeDef(fileID types.FileID, d *syntax.TypeDefinition, offset int) TypeDef {
	td := TypeDef{
		Name:        d.Name.Name,
		Kind:        d.Kind,
		FileID:      fileID,
		NameRange:   shift(d.Name.Span, offset),
		FullRange:   shift(d.Span, offset),
	}
	if d.Description != nil {
		td.Description = *d.Description
	}
	for _, iface := range d.Interfaces {
		td.Interfaces = append(td.Interfaces, iface.Name)
	}
	for _, m := range d.UnionMembers {
		td.UnionMembers = append(td.UnionMembers, m.Name)
	}
	for _, f := range d.Fields {
		td.Fields = append(td.Fields, buildFieldDef(f, offset))
	}
	for _, ev := range d.EnumValues {
		td.EnumValues = append(td.EnumValues, buildEnumValueDef(ev, offset))
	}
	dep, reason := deprecationFromDirectives(d.Directives)
	td.Deprecated, td.DeprecationReason = dep, reason
	return td
}

func buildFieldDef(f syntax.FieldDefinition, offset int) FieldDef {
	fd := FieldDef{
		Name:      f.Name.Name,
		Type:      shiftTypeRef(f.Type, offset),
		NameRange: shift(f.Name.Span, offset),
		FullRange: shift(f.Span, offset),
	}
	if f.Description != nil {
		fd.Description = *f.Description
	}
	fd.Deprecated, fd.DeprecationReason = deprecationFromDirectives(f.Directives)
	for _, arg := range f.Arguments {
		fd.Arguments = append(fd.Arguments, buildArgumentDef(arg, offset))
	}
	return fd
}

func buildArgumentDef(a syntax.InputValueDefinition, offset int) ArgumentDef {
	return ArgumentDef{
		Name:       a.Name.Name,
		Type:       shiftTypeRef(a.Type, offset),
		HasDefault: a.DefaultValue != nil,
		NameRange:  shift(a.Name.Span, offset),
	}
}

func buildEnumValueDef(ev syntax.EnumValueDefinition, offset int) EnumValueDef {
	evd := EnumValueDef{
		Name:      ev.Name.Name,
		NameRange: shift(ev.Name.Span, offset),
		FullRange: shift(ev.Span, offset),
	}
	if ev.Description != nil {
		evd.Description = *ev.Description
	}
	evd.Deprecated, evd.DeprecationReason = deprecationFromDirectives(ev.Directives)
	return evd
}

func shiftTypeRef(t syntax.TypeRef, offset int) TypeRef {
	t.Span = shift(t.Span, offset)
	return t
}

// deprecationFromDirectives reads an `@deprecated(reason: "...")`
// directive, defaulting to the GraphQL spec's standard reason text when
// none is given.
func deprecationFromDirectives(dirs []syntax.Directive) (bool, string) {
	for _, d := range dirs {
		if d.Name.Name != "deprecated" {
			continue
		}
		for _, arg := range d.Arguments {
			if arg.Name.Name != "reason" {
				continue
			}
			if sv, ok := arg.Value.(*syntax.StringValue); ok {
				return true, sv.Value
			}
		}
		return true, "No longer supported"
	}
	return false, ""
}

func buildOperationStructure(fileID types.FileID, d *syntax.OperationDefinition, index int, offset int) OperationStructure {
	op := OperationStructure{
		Kind:      d.Kind,
		Index:     index,
		FileID:    fileID,
		FullRange: shift(d.Span, offset),
	}
	if d.Name != nil {
		op.Name = d.Name.Name
		op.NameRange = shift(d.Name.Span, offset)
	} else {
		op.NameRange = shift(d.KeywordSpan, offset)
	}
	for _, v := range d.VariableDefinitions {
		op.Variables = append(op.Variables, VariableDef{Name: v.Variable.Name, Type: shiftTypeRef(v.Type, offset)})
	}
	return op
}

func buildFragmentStructure(fileID types.FileID, d *syntax.FragmentDefinition, offset int) FragmentStructure {
	return FragmentStructure{
		Name:          d.Name.Name,
		TypeCondition: d.TypeCondition.Name,
		FileID:        fileID,
		NameRange:     shift(d.Name.Span, offset),
		FullRange:     shift(d.Span, offset),
	}
}
