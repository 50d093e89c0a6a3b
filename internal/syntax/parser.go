package syntax

import (
	"fmt"

	"github.com/graphqlintel/graphqlintel/internal/types"
)

// SyntaxError is one recovered parse failure (spec.md §3 "SyntaxError").
type SyntaxError struct {
	Message string
	Span    types.Span
}

// parseAbort is panicked by parser productions on an unrecoverable local
// failure and caught at the nearest definition boundary, mirroring
// gqlparser's own parser.go recover-per-definition discipline — the
// concrete instance DESIGN.md cites for "panic inside a production,
// recover() at each definition boundary" rather than Go's usual
// explicit-error-return style, since resilient recursive descent needs
// to unwind arbitrarily deep without every intermediate frame checking
// an error return.
type parseAbort struct{ err SyntaxError }

// parser holds lookahead-1 recursive-descent state over a token stream.
type parser struct {
	toks   []Token
	pos    int
	errors []SyntaxError
}

// ParseDocument parses src into a Document plus any recovered syntax
// errors. It never returns a nil Document: on total failure the
// Document simply has no (or few) Definitions.
func ParseDocument(src []byte) (*Document, []SyntaxError) {
	lx := NewLexer(src)
	var toks []Token
	for {
		t := lx.Next()
		toks = append(toks, t)
		if t.Kind == TokEOF {
			break
		}
	}
	p := &parser{toks: toks}
	doc := p.parseDocument(len(src))
	return doc, p.errors
}

func (p *parser) cur() Token  { return p.toks[p.pos] }
func (p *parser) peek() Token {
	if p.pos+1 < len(p.toks) {
		return p.toks[p.pos+1]
	}
	return p.toks[len(p.toks)-1]
}
func (p *parser) advance() Token {
	t := p.toks[p.pos]
	if p.pos+1 < len(p.toks) {
		p.pos++
	}
	return t
}

func (p *parser) isPunct(v string) bool {
	t := p.cur()
	return t.Kind == TokPunct && t.Value == v
}
func (p *parser) isName(v string) bool {
	t := p.cur()
	return t.Kind == TokName && t.Value == v
}

func (p *parser) expectPunct(v string) Token {
	if p.isPunct(v) {
		return p.advance()
	}
	return p.fail(fmt.Sprintf("expected %q, found %q", v, p.describeCur()))
}

func (p *parser) expectName() Ident {
	t := p.cur()
	if t.Kind != TokName {
		p.fail(fmt.Sprintf("expected a name, found %q", p.describeCur()))
	}
	p.advance()
	return Ident{Span: t.Span, Name: t.Value}
}

func (p *parser) describeCur() string {
	t := p.cur()
	if t.Kind == TokEOF {
		return "<EOF>"
	}
	return t.Value
}

func (p *parser) fail(msg string) Token {
	panic(parseAbort{SyntaxError{Message: msg, Span: p.cur().Span}})
}

func (p *parser) recordError(e SyntaxError) {
	p.errors = append(p.errors, e)
}

// syncToNextDefinition advances past tokens until one that plausibly
// starts a new top-level definition, so one malformed definition does
// not stop the rest of the file from parsing (spec.md §4.3 resilient
// parsing requirement).
func (p *parser) syncToNextDefinition() {
	for p.cur().Kind != TokEOF {
		if p.cur().Kind == TokName {
			switch p.cur().Value {
			case "query", "mutation", "subscription", "fragment", "schema",
				"scalar", "type", "interface", "union", "enum", "input", "extend":
				return
			}
		}
		p.advance()
	}
}

func (p *parser) parseDocument(srcLen int) *Document {
	doc := &Document{Span: types.Span{Start: 0, End: srcLen}}
	for p.cur().Kind != TokEOF {
		startPos := p.pos
		def, ok := p.tryParseDefinition()
		if ok {
			doc.Definitions = append(doc.Definitions, def)
		}
		if p.pos == startPos {
			// Guarantee forward progress even if recovery didn't move us.
			p.advance()
		}
	}
	return doc
}

func (p *parser) tryParseDefinition() (def Definition, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			abort, isAbort := r.(parseAbort)
			if !isAbort {
				panic(r)
			}
			p.recordError(abort.err)
			p.syncToNextDefinition()
			ok = false
		}
	}()
	return p.parseDefinition(), true
}

func (p *parser) parseDefinition() Definition {
	t := p.cur()
	if t.Kind == TokPunct && t.Value == "{" {
		return p.parseOperationDefinition(OperationQuery, types.Span{})
	}
	if t.Kind == TokBlockString || t.Kind == TokString {
		desc := p.parseDescriptionValue()
		return p.parseTypeSystemDefinitionWithDescription(desc, t.Span)
	}
	if t.Kind != TokName {
		p.fail(fmt.Sprintf("expected a definition, found %q", p.describeCur()))
	}
	switch t.Value {
	case "query":
		return p.parseOperationDefinition(OperationQuery, p.advance().Span)
	case "mutation":
		return p.parseOperationDefinition(OperationMutation, p.advance().Span)
	case "subscription":
		return p.parseOperationDefinition(OperationSubscription, p.advance().Span)
	case "fragment":
		return p.parseFragmentDefinition()
	case "schema":
		return p.parseSchemaDefinition(nil, p.cur().Span)
	case "scalar":
		return p.parseScalarTypeDefinition(nil, p.cur().Span)
	case "type":
		return p.parseObjectTypeDefinition(nil, p.cur().Span)
	case "interface":
		return p.parseInterfaceTypeDefinition(nil, p.cur().Span)
	case "union":
		return p.parseUnionTypeDefinition(nil, p.cur().Span)
	case "enum":
		return p.parseEnumTypeDefinition(nil, p.cur().Span)
	case "input":
		return p.parseInputObjectTypeDefinition(nil, p.cur().Span)
	case "extend":
		return p.parseExtension()
	default:
		p.fail(fmt.Sprintf("unexpected top-level token %q", t.Value))
		return nil
	}
}

func (p *parser) parseDescriptionValue() *string {
	t := p.advance()
	s := t.Value
	return &s
}

func (p *parser) parseTypeSystemDefinitionWithDescription(desc *string, start types.Span) Definition {
	if p.cur().Kind != TokName {
		p.fail("expected a type system definition after description")
	}
	switch p.cur().Value {
	case "scalar":
		return p.parseScalarTypeDefinition(desc, start)
	case "type":
		return p.parseObjectTypeDefinition(desc, start)
	case "interface":
		return p.parseInterfaceTypeDefinition(desc, start)
	case "union":
		return p.parseUnionTypeDefinition(desc, start)
	case "enum":
		return p.parseEnumTypeDefinition(desc, start)
	case "input":
		return p.parseInputObjectTypeDefinition(desc, start)
	case "schema":
		return p.parseSchemaDefinition(desc, start)
	default:
		p.fail(fmt.Sprintf("expected a type system definition keyword, found %q", p.cur().Value))
		return nil
	}
}

func (p *parser) parseExtension() Definition {
	start := p.advance().Span // "extend"
	if p.cur().Kind != TokName {
		p.fail("expected a definition keyword after 'extend'")
	}
	switch p.cur().Value {
	case "type":
		return p.parseObjectTypeDefinition(nil, start)
	case "interface":
		return p.parseInterfaceTypeDefinition(nil, start)
	case "union":
		return p.parseUnionTypeDefinition(nil, start)
	case "enum":
		return p.parseEnumTypeDefinition(nil, start)
	case "input":
		return p.parseInputObjectTypeDefinition(nil, start)
	case "schema":
		return p.parseSchemaDefinition(nil, start)
	default:
		p.fail(fmt.Sprintf("unsupported extension kind %q", p.cur().Value))
		return nil
	}
}

// --- Operations, fragments, selection sets ---

func (p *parser) parseOperationDefinition(kind OperationKind, keywordSpan types.Span) *OperationDefinition {
	start := keywordSpan.Start
	if keywordSpan == (types.Span{}) {
		start = p.cur().Span.Start
	}
	op := &OperationDefinition{Kind: kind, KeywordSpan: keywordSpan}
	if p.cur().Kind == TokName {
		name := p.expectName()
		op.Name = &name
	}
	if p.isPunct("(") {
		op.VariableDefinitions = p.parseVariableDefinitions()
	}
	op.Directives = p.parseDirectives()
	op.SelectionSet = p.parseSelectionSet()
	op.Span = types.Span{Start: start, End: op.SelectionSet.Span.End}
	return op
}

func (p *parser) parseFragmentDefinition() *FragmentDefinition {
	start := p.advance().Span.Start // "fragment"
	f := &FragmentDefinition{Name: p.expectName()}
	if !p.isName("on") {
		p.fail(fmt.Sprintf("expected 'on', found %q", p.describeCur()))
	}
	p.advance()
	f.TypeCondition = p.expectName()
	f.Directives = p.parseDirectives()
	f.SelectionSet = p.parseSelectionSet()
	f.Span = types.Span{Start: start, End: f.SelectionSet.Span.End}
	return f
}

func (p *parser) parseVariableDefinitions() []VariableDefinition {
	p.expectPunct("(")
	var defs []VariableDefinition
	for !p.isPunct(")") && p.cur().Kind != TokEOF {
		defs = append(defs, p.parseVariableDefinition())
	}
	p.expectPunct(")")
	return defs
}

func (p *parser) parseVariableDefinition() VariableDefinition {
	start := p.cur().Span.Start
	p.expectPunct("$")
	name := p.expectName()
	p.expectPunct(":")
	typ := p.parseTypeRef()
	var def Value
	if p.isPunct("=") {
		p.advance()
		def = p.parseValue(true)
	}
	end := typ.Span.End
	if def != nil {
		end = def.valueSpan().End
	}
	return VariableDefinition{
		Span:         types.Span{Start: start, End: end},
		Variable:     name,
		Type:         typ,
		DefaultValue: def,
	}
}

func (p *parser) parseTypeRef() TypeRef {
	start := p.cur().Span.Start
	if p.isPunct("[") {
		p.advance()
		inner := p.parseTypeRef()
		p.expectPunct("]")
		wrappers := append(append([]WrapperKind{}, inner.Wrappers...), WrapList)
		end := p.toks[p.pos-1].Span.End
		ref := TypeRef{Span: types.Span{Start: start, End: end}, Name: inner.Name, Wrappers: wrappers}
		return p.maybeNonNull(ref)
	}
	name := p.expectName()
	ref := TypeRef{Span: name.Span, Name: name.Name}
	return p.maybeNonNull(ref)
}

func (p *parser) maybeNonNull(ref TypeRef) TypeRef {
	if p.isPunct("!") {
		end := p.advance().Span.End
		ref.Wrappers = append(ref.Wrappers, WrapNonNull)
		ref.Span.End = end
	}
	return ref
}

func (p *parser) parseSelectionSet() SelectionSet {
	start := p.cur().Span.Start
	p.expectPunct("{")
	var sels []Selection
	for !p.isPunct("}") && p.cur().Kind != TokEOF {
		sels = append(sels, p.parseSelection())
	}
	end := p.expectPunct("}").Span.End
	return SelectionSet{Span: types.Span{Start: start, End: end}, Selections: sels}
}

func (p *parser) parseSelection() Selection {
	if p.isPunct("...") {
		return p.parseFragmentSpreadOrInline()
	}
	return p.parseField()
}

func (p *parser) parseField() *Field {
	start := p.cur().Span.Start
	first := p.expectName()
	field := &Field{Name: first}
	if p.isPunct(":") {
		p.advance()
		field.Alias = &first
		field.Name = p.expectName()
	}
	if p.isPunct("(") {
		field.Arguments = p.parseArguments()
	}
	field.Directives = p.parseDirectives()
	end := field.Name.Span.End
	if len(field.Directives) > 0 {
		end = field.Directives[len(field.Directives)-1].Span.End
	}
	if p.isPunct("{") {
		ss := p.parseSelectionSet()
		field.SelectionSet = &ss
		end = ss.Span.End
	}
	field.Span = types.Span{Start: start, End: end}
	return field
}

func (p *parser) parseFragmentSpreadOrInline() Selection {
	start := p.advance().Span.Start // "..."
	if p.cur().Kind == TokName && p.cur().Value != "on" {
		name := p.expectName()
		dirs := p.parseDirectives()
		end := name.Span.End
		if len(dirs) > 0 {
			end = dirs[len(dirs)-1].Span.End
		}
		return &FragmentSpread{Span: types.Span{Start: start, End: end}, Name: name, Directives: dirs}
	}
	var cond *Ident
	if p.isName("on") {
		p.advance()
		c := p.expectName()
		cond = &c
	}
	dirs := p.parseDirectives()
	ss := p.parseSelectionSet()
	return &InlineFragment{Span: types.Span{Start: start, End: ss.Span.End}, TypeCondition: cond, Directives: dirs, SelectionSet: ss}
}

func (p *parser) parseArguments() []Argument {
	p.expectPunct("(")
	var args []Argument
	for !p.isPunct(")") && p.cur().Kind != TokEOF {
		start := p.cur().Span.Start
		name := p.expectName()
		p.expectPunct(":")
		val := p.parseValue(false)
		args = append(args, Argument{Span: types.Span{Start: start, End: val.valueSpan().End}, Name: name, Value: val})
	}
	p.expectPunct(")")
	return args
}

func (p *parser) parseDirectives() []Directive {
	var dirs []Directive
	for p.isPunct("@") {
		start := p.advance().Span.Start
		name := p.expectName()
		var args []Argument
		end := name.Span.End
		if p.isPunct("(") {
			args = p.parseArguments()
			end = p.toks[p.pos-1].Span.End
		}
		dirs = append(dirs, Directive{Span: types.Span{Start: start, End: end}, Name: name, Arguments: args})
	}
	return dirs
}

func (p *parser) parseValue(isConst bool) Value {
	t := p.cur()
	switch {
	case t.Kind == TokPunct && t.Value == "$":
		if isConst {
			p.fail("variables are not allowed in a const value context")
		}
		p.advance()
		name := p.expectName()
		return &VariableValue{Span: types.Span{Start: t.Span.Start, End: name.Span.End}, Name: name.Name}
	case t.Kind == TokInt:
		p.advance()
		return &IntValue{Span: t.Span, Raw: t.Value}
	case t.Kind == TokFloat:
		p.advance()
		return &FloatValue{Span: t.Span, Raw: t.Value}
	case t.Kind == TokString:
		p.advance()
		return &StringValue{Span: t.Span, Value: t.Value}
	case t.Kind == TokBlockString:
		p.advance()
		return &StringValue{Span: t.Span, Value: t.Value, Block: true}
	case t.Kind == TokName && (t.Value == "true" || t.Value == "false"):
		p.advance()
		return &BooleanValue{Span: t.Span, Value: t.Value == "true"}
	case t.Kind == TokName && t.Value == "null":
		p.advance()
		return &NullValue{Span: t.Span}
	case t.Kind == TokName:
		p.advance()
		return &EnumValue{Span: t.Span, Name: t.Value}
	case t.Kind == TokPunct && t.Value == "[":
		return p.parseListValue(isConst)
	case t.Kind == TokPunct && t.Value == "{":
		return p.parseObjectValue(isConst)
	default:
		p.fail(fmt.Sprintf("expected a value, found %q", p.describeCur()))
		return nil
	}
}

func (p *parser) parseListValue(isConst bool) Value {
	start := p.advance().Span.Start
	var vals []Value
	for !p.isPunct("]") && p.cur().Kind != TokEOF {
		vals = append(vals, p.parseValue(isConst))
	}
	end := p.expectPunct("]").Span.End
	return &ListValue{Span: types.Span{Start: start, End: end}, Values: vals}
}

func (p *parser) parseObjectValue(isConst bool) Value {
	start := p.advance().Span.Start
	var fields []ObjectField
	for !p.isPunct("}") && p.cur().Kind != TokEOF {
		fStart := p.cur().Span.Start
		name := p.expectName()
		p.expectPunct(":")
		val := p.parseValue(isConst)
		fields = append(fields, ObjectField{Span: types.Span{Start: fStart, End: val.valueSpan().End}, Name: name, Value: val})
	}
	end := p.expectPunct("}").Span.End
	return &ObjectValue{Span: types.Span{Start: start, End: end}, Fields: fields}
}

// --- Type system definitions ---

func (p *parser) parseImplementsInterfaces() []Ident {
	if !p.isName("implements") {
		return nil
	}
	p.advance()
	if p.isPunct("&") {
		p.advance()
	}
	var ifaces []Ident
	ifaces = append(ifaces, p.expectName())
	for p.isPunct("&") {
		p.advance()
		ifaces = append(ifaces, p.expectName())
	}
	return ifaces
}

func (p *parser) parseFieldsDefinition() []FieldDefinition {
	if !p.isPunct("{") {
		return nil
	}
	p.advance()
	var fields []FieldDefinition
	for !p.isPunct("}") && p.cur().Kind != TokEOF {
		fields = append(fields, p.parseFieldDefinition())
	}
	p.expectPunct("}")
	return fields
}

func (p *parser) parseFieldDefinition() FieldDefinition {
	var desc *string
	start := p.cur().Span.Start
	if p.cur().Kind == TokString || p.cur().Kind == TokBlockString {
		desc = p.parseDescriptionValue()
	}
	name := p.expectName()
	var args []InputValueDefinition
	if p.isPunct("(") {
		args = p.parseInputValueDefinitions(")")
	}
	p.expectPunct(":")
	typ := p.parseTypeRef()
	dirs := p.parseDirectives()
	end := typ.Span.End
	if len(dirs) > 0 {
		end = dirs[len(dirs)-1].Span.End
	}
	return FieldDefinition{Span: types.Span{Start: start, End: end}, Description: desc, Name: name, Arguments: args, Type: typ, Directives: dirs}
}

func (p *parser) parseInputValueDefinitions(closer string) []InputValueDefinition {
	p.advance() // opening '(' or '{'
	var defs []InputValueDefinition
	for !p.isPunct(closer) && p.cur().Kind != TokEOF {
		defs = append(defs, p.parseInputValueDefinition())
	}
	p.expectPunct(closer)
	return defs
}

func (p *parser) parseInputValueDefinition() InputValueDefinition {
	var desc *string
	start := p.cur().Span.Start
	if p.cur().Kind == TokString || p.cur().Kind == TokBlockString {
		desc = p.parseDescriptionValue()
	}
	name := p.expectName()
	p.expectPunct(":")
	typ := p.parseTypeRef()
	var def Value
	if p.isPunct("=") {
		p.advance()
		def = p.parseValue(true)
	}
	dirs := p.parseDirectives()
	end := typ.Span.End
	if def != nil {
		end = def.valueSpan().End
	}
	if len(dirs) > 0 {
		end = dirs[len(dirs)-1].Span.End
	}
	return InputValueDefinition{Span: types.Span{Start: start, End: end}, Description: desc, Name: name, Type: typ, DefaultValue: def, Directives: dirs}
}

func (p *parser) parseObjectTypeDefinition(desc *string, start types.Span) *TypeDefinition {
	p.advance() // "type"
	name := p.expectName()
	ifaces := p.parseImplementsInterfaces()
	dirs := p.parseDirectives()
	fields := p.parseFieldsDefinition()
	return &TypeDefinition{Span: types.Span{Start: start.Start, End: p.lastEnd()}, Kind: TypeKindObject, Description: desc, Name: name, Interfaces: ifaces, Fields: fields, Directives: dirs}
}

func (p *parser) parseInterfaceTypeDefinition(desc *string, start types.Span) *TypeDefinition {
	p.advance() // "interface"
	name := p.expectName()
	ifaces := p.parseImplementsInterfaces()
	dirs := p.parseDirectives()
	fields := p.parseFieldsDefinition()
	return &TypeDefinition{Span: types.Span{Start: start.Start, End: p.lastEnd()}, Kind: TypeKindInterface, Description: desc, Name: name, Interfaces: ifaces, Fields: fields, Directives: dirs}
}

func (p *parser) parseUnionTypeDefinition(desc *string, start types.Span) *TypeDefinition {
	p.advance() // "union"
	name := p.expectName()
	dirs := p.parseDirectives()
	var members []Ident
	if p.isPunct("=") {
		p.advance()
		if p.isPunct("|") {
			p.advance()
		}
		members = append(members, p.expectName())
		for p.isPunct("|") {
			p.advance()
			members = append(members, p.expectName())
		}
	}
	return &TypeDefinition{Span: types.Span{Start: start.Start, End: p.lastEnd()}, Kind: TypeKindUnion, Description: desc, Name: name, UnionMembers: members, Directives: dirs}
}

func (p *parser) parseEnumTypeDefinition(desc *string, start types.Span) *TypeDefinition {
	p.advance() // "enum"
	name := p.expectName()
	dirs := p.parseDirectives()
	var values []EnumValueDefinition
	if p.isPunct("{") {
		p.advance()
		for !p.isPunct("}") && p.cur().Kind != TokEOF {
			values = append(values, p.parseEnumValueDefinition())
		}
		p.expectPunct("}")
	}
	return &TypeDefinition{Span: types.Span{Start: start.Start, End: p.lastEnd()}, Kind: TypeKindEnum, Description: desc, Name: name, EnumValues: values, Directives: dirs}
}

func (p *parser) parseEnumValueDefinition() EnumValueDefinition {
	var desc *string
	start := p.cur().Span.Start
	if p.cur().Kind == TokString || p.cur().Kind == TokBlockString {
		desc = p.parseDescriptionValue()
	}
	name := p.expectName()
	dirs := p.parseDirectives()
	end := name.Span.End
	if len(dirs) > 0 {
		end = dirs[len(dirs)-1].Span.End
	}
	return EnumValueDefinition{Span: types.Span{Start: start, End: end}, Description: desc, Name: name, Directives: dirs}
}

func (p *parser) parseScalarTypeDefinition(desc *string, start types.Span) *TypeDefinition {
	p.advance() // "scalar"
	name := p.expectName()
	dirs := p.parseDirectives()
	end := name.Span.End
	if len(dirs) > 0 {
		end = dirs[len(dirs)-1].Span.End
	}
	return &TypeDefinition{Span: types.Span{Start: start.Start, End: end}, Kind: TypeKindScalar, Description: desc, Name: name, Directives: dirs}
}

func (p *parser) parseInputObjectTypeDefinition(desc *string, start types.Span) *TypeDefinition {
	p.advance() // "input"
	name := p.expectName()
	dirs := p.parseDirectives()
	var fields []FieldDefinition
	if p.isPunct("{") {
		ivds := p.parseInputValueDefinitions2()
		fields = ivds
	}
	return &TypeDefinition{Span: types.Span{Start: start.Start, End: p.lastEnd()}, Kind: TypeKindInput, Description: desc, Name: name, Fields: fields, Directives: dirs}
}

// parseInputValueDefinitions2 parses `{ ... }` input-field defs and
// returns them as FieldDefinition (an input field has no arguments of
// its own, so Arguments stays nil).
func (p *parser) parseInputValueDefinitions2() []FieldDefinition {
	p.advance() // "{"
	var fields []FieldDefinition
	for !p.isPunct("}") && p.cur().Kind != TokEOF {
		ivd := p.parseInputValueDefinition()
		fields = append(fields, FieldDefinition{
			Span: ivd.Span, Description: ivd.Description, Name: ivd.Name, Type: ivd.Type, Directives: ivd.Directives,
		})
	}
	p.expectPunct("}")
	return fields
}

func (p *parser) parseSchemaDefinition(desc *string, start types.Span) *SchemaDefinition {
	p.advance() // "schema"
	dirs := p.parseDirectives()
	sd := &SchemaDefinition{Directives: dirs}
	if p.isPunct("{") {
		p.advance()
		for !p.isPunct("}") && p.cur().Kind != TokEOF {
			opName := p.expectName()
			p.expectPunct(":")
			target := p.expectName()
			switch opName.Name {
			case "query":
				sd.Query = &target
			case "mutation":
				sd.Mutation = &target
			case "subscription":
				sd.Subscription = &target
			}
		}
		p.expectPunct("}")
	}
	sd.Span = types.Span{Start: start.Start, End: p.lastEnd()}
	return sd
}

func (p *parser) lastEnd() int {
	if p.pos == 0 {
		return 0
	}
	return p.toks[p.pos-1].Span.End
}
