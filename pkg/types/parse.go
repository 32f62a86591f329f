package types

import (
	"fmt"
	"strconv"
	"strings"

	"fortio.org/safecast"
)

// kindsByName maps Substrait type-syntax names (and the abbreviations that
// appear in extension documents) to simple kinds. Parameterized types are
// handled separately by the parser.
var kindsByName = map[string]Kind{
	"boolean":       KindBool,
	"bool":          KindBool,
	"i8":            KindI8,
	"i16":           KindI16,
	"i32":           KindI32,
	"i64":           KindI64,
	"fp32":          KindFP32,
	"fp64":          KindFP64,
	"string":        KindString,
	"str":           KindString,
	"binary":        KindBinary,
	"vbin":          KindBinary,
	"date":          KindDate,
	"time":          KindTime,
	"timestamp":     KindTimestamp,
	"ts":            KindTimestamp,
	"timestamp_tz":  KindTimestampTz,
	"tstz":          KindTimestampTz,
	"interval_year": KindIntervalYear,
	"iyear":         KindIntervalYear,
	"interval_day":  KindIntervalDay,
	"iday":          KindIntervalDay,
	"uuid":          KindUUID,
	"fixedchar":     KindFixedChar,
	"fchar":         KindFixedChar,
	"varchar":       KindVarChar,
	"vchar":         KindVarChar,
	"fixedbinary":   KindFixedBinary,
	"fbin":          KindFixedBinary,
	"decimal":       KindDecimal,
	"dec":           KindDecimal,
	"list":          KindList,
	"map":           KindMap,
	"struct":        KindStruct,
}

// Parse parses a type expression in Substrait type syntax, as used by the
// `args[].value` and `return` fields of extension documents. Examples:
//
//	i32   string?   decimal<38,6>   decimal?<P,S>   list<fixedchar<8>>   any1
//
// Names are case-insensitive (some upstream documents spell BOOLEAN).
func Parse(s string) (Type, error) {
	p := &typeParser{input: strings.TrimSpace(s)}
	t, err := p.parseType()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.pos != len(p.input) {
		return nil, fmt.Errorf("parsing type %q: trailing characters at offset %d", s, p.pos)
	}
	return t, nil
}

// MustParse is Parse for known-good literals, panicking on error. Intended
// for tests and static tables.
func MustParse(s string) Type {
	t, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return t
}

type typeParser struct {
	input string
	pos   int
}

func (p *typeParser) parseType() (Type, error) {
	t, err := p.parseTypeInner()
	if err != nil {
		return nil, err
	}
	// Some documents put the nullability marker after the parameter list
	// (decimal<P,S>? instead of decimal?<P,S>). Accept both.
	if p.consume('?') {
		t = t.WithNullable(true)
	}
	return t, nil
}

func (p *typeParser) parseTypeInner() (Type, error) {
	name := p.readName()
	if name == "" {
		return nil, fmt.Errorf("parsing type %q: expected type name at offset %d", p.input, p.pos)
	}
	nullable := p.consume('?')

	lower := strings.ToLower(name)
	kind, known := kindsByName[lower]
	if !known {
		if !IsClassVarName(name) {
			return nil, fmt.Errorf("parsing type %q: unknown type name %q", p.input, name)
		}
		return ClassVar{Name: name, Nullable: nullable}, nil
	}

	switch kind {
	case KindFixedChar, KindVarChar, KindFixedBinary:
		params, err := p.parseIntParams(lower, 1)
		if err != nil {
			return nil, err
		}
		switch kind {
		case KindFixedChar:
			return FixedChar{Length: params[0], Nullable: nullable}, nil
		case KindVarChar:
			return VarChar{Length: params[0], Nullable: nullable}, nil
		default:
			return FixedBinary{Length: params[0], Nullable: nullable}, nil
		}

	case KindDecimal:
		params, err := p.parseIntParams(lower, 2)
		if err != nil {
			return nil, err
		}
		return Decimal{Precision: params[0], Scale: params[1], Nullable: nullable}, nil

	case KindList:
		args, err := p.parseTypeParams(lower, 1)
		if err != nil {
			return nil, err
		}
		return List{Elem: args[0], Nullable: nullable}, nil

	case KindMap:
		args, err := p.parseTypeParams(lower, 2)
		if err != nil {
			return nil, err
		}
		return Map{Key: args[0], Value: args[1], Nullable: nullable}, nil

	case KindStruct:
		args, err := p.parseTypeParams(lower, -1)
		if err != nil {
			return nil, err
		}
		return Struct{Fields: args, Nullable: nullable}, nil
	}
	return Primitive{Kind: kind, Nullable: nullable}, nil
}

// parseIntParams parses <p1,...,pN> where each parameter is an integer
// literal or a parameter variable name.
func (p *typeParser) parseIntParams(typeName string, count int) ([]IntParam, error) {
	raw, err := p.parseParamList(typeName, count)
	if err != nil {
		return nil, err
	}
	params := make([]IntParam, len(raw))
	for i, item := range raw {
		if item == "" {
			return nil, fmt.Errorf("parsing type %q: empty parameter for %s", p.input, typeName)
		}
		if item[0] >= '0' && item[0] <= '9' {
			parsed, err := strconv.ParseInt(item, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("parsing type %q: bad integer parameter %q: %w", p.input, item, err)
			}
			value, err := safecast.Conv[int32](parsed)
			if err != nil {
				return nil, fmt.Errorf("parsing type %q: parameter %q out of range: %w", p.input, item, err)
			}
			params[i] = BoundParam(value)
			continue
		}
		if !isParamIdent(item) {
			return nil, fmt.Errorf("parsing type %q: parameter %q for %s is neither an integer nor a variable name",
				p.input, item, typeName)
		}
		params[i] = ParamVar(item)
	}
	return params, nil
}

// parseTypeParams parses <t1,...,tN> of nested types. count < 0 accepts any
// arity of one or more.
func (p *typeParser) parseTypeParams(typeName string, count int) ([]Type, error) {
	if !p.consume('<') {
		return nil, fmt.Errorf("parsing type %q: %s requires type parameters", p.input, typeName)
	}
	var args []Type
	for {
		p.skipSpace()
		arg, err := p.parseType()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		p.skipSpace()
		if p.consume(',') {
			continue
		}
		if p.consume('>') {
			break
		}
		return nil, fmt.Errorf("parsing type %q: expected ',' or '>' at offset %d", p.input, p.pos)
	}
	if count >= 0 && len(args) != count {
		return nil, fmt.Errorf("parsing type %q: %s requires %d type parameters, got %d",
			p.input, typeName, count, len(args))
	}
	return args, nil
}

func (p *typeParser) parseParamList(typeName string, count int) ([]string, error) {
	if !p.consume('<') {
		return nil, fmt.Errorf("parsing type %q: %s requires parameters", p.input, typeName)
	}
	var items []string
	for {
		p.skipSpace()
		item := p.readName()
		items = append(items, item)
		p.skipSpace()
		if p.consume(',') {
			continue
		}
		if p.consume('>') {
			break
		}
		return nil, fmt.Errorf("parsing type %q: expected ',' or '>' at offset %d", p.input, p.pos)
	}
	if len(items) != count {
		return nil, fmt.Errorf("parsing type %q: %s requires %d parameters, got %d",
			p.input, typeName, count, len(items))
	}
	return items, nil
}

// isParamIdent reports whether a parameter spelling is a plausible variable
// name. readName is deliberately loose (class names contain '-'), so
// non-identifier spellings like "-1" must be rejected here.
func isParamIdent(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c == '_':
		case c >= '0' && c <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return len(s) > 0
}

func (p *typeParser) readName() string {
	start := p.pos
	for p.pos < len(p.input) {
		c := p.input[p.pos]
		if c == '_' || c == '-' || c == '!' ||
			(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') {
			p.pos++
			continue
		}
		break
	}
	return p.input[start:p.pos]
}

func (p *typeParser) consume(c byte) bool {
	if p.pos < len(p.input) && p.input[p.pos] == c {
		p.pos++
		return true
	}
	return false
}

func (p *typeParser) skipSpace() {
	for p.pos < len(p.input) && p.input[p.pos] == ' ' {
		p.pos++
	}
}
