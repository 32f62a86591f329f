// Package types implements the Substrait type model used for extension
// function signature matching.
//
// Types form a closed tagged-variant set: concrete primitives, parameterized
// types (decimal, fixed-length strings and binaries, lists, maps, structs)
// and class-vars (the "any1", "numeric", ... placeholders that extension
// documents use for templated signatures). Every type carries its own
// nullable flag; nullability is otherwise kept out of structural comparison
// so that matching stays a pure predicate.
package types

import (
	"fmt"
	"strings"
)

// Kind identifies a concrete Substrait type, ignoring nullability and
// type parameters.
type Kind int

const (
	KindBool Kind = iota
	KindI8
	KindI16
	KindI32
	KindI64
	KindFP32
	KindFP64
	KindString
	KindBinary
	KindDate
	KindTime
	KindTimestamp
	KindTimestampTz
	KindIntervalYear
	KindIntervalDay
	KindUUID
	KindFixedChar
	KindVarChar
	KindFixedBinary
	KindDecimal
	KindList
	KindMap
	KindStruct
)

// kindNames maps kinds to the names used by the Substrait type syntax
// (https://substrait.io/types/type_parsing/).
var kindNames = map[Kind]string{
	KindBool:         "boolean",
	KindI8:           "i8",
	KindI16:          "i16",
	KindI32:          "i32",
	KindI64:          "i64",
	KindFP32:         "fp32",
	KindFP64:         "fp64",
	KindString:       "string",
	KindBinary:       "binary",
	KindDate:         "date",
	KindTime:         "time",
	KindTimestamp:    "timestamp",
	KindTimestampTz:  "timestamp_tz",
	KindIntervalYear: "interval_year",
	KindIntervalDay:  "interval_day",
	KindUUID:         "uuid",
	KindFixedChar:    "fixedchar",
	KindVarChar:      "varchar",
	KindFixedBinary:  "fixedbinary",
	KindDecimal:      "decimal",
	KindList:         "list",
	KindMap:          "map",
	KindStruct:       "struct",
}

// kindShortNames maps kinds to the abbreviations used in compound signature
// names (function anchors), e.g. "add:i32_i32".
var kindShortNames = map[Kind]string{
	KindBool:         "bool",
	KindI8:           "i8",
	KindI16:          "i16",
	KindI32:          "i32",
	KindI64:          "i64",
	KindFP32:         "fp32",
	KindFP64:         "fp64",
	KindString:       "str",
	KindBinary:       "vbin",
	KindDate:         "date",
	KindTime:         "time",
	KindTimestamp:    "ts",
	KindTimestampTz:  "tstz",
	KindIntervalYear: "iyear",
	KindIntervalDay:  "iday",
	KindUUID:         "uuid",
	KindFixedChar:    "fchar",
	KindVarChar:      "vchar",
	KindFixedBinary:  "fbin",
	KindDecimal:      "dec",
	KindList:         "list",
	KindMap:          "map",
	KindStruct:       "struct",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// ShortName returns the compound-name abbreviation for the kind.
func (k Kind) ShortName() string {
	if name, ok := kindShortNames[k]; ok {
		return name
	}
	return k.String()
}

// Type is a Substrait type expression. Declared argument and return types may
// contain class-vars and free integer parameters; call-site argument types
// are always fully concrete.
type Type interface {
	// String renders the type in Substrait type syntax, e.g. "decimal?<38,6>".
	String() string
	// ShortName renders the compound-name segment for this type, e.g. "dec".
	ShortName() string
	// IsNullable reports the type's nullable flag.
	IsNullable() bool
	// WithNullable returns a copy of the type with the given nullable flag.
	WithNullable(nullable bool) Type
	// EqualIgnoringNullability reports structural equality of kind and
	// parameters, ignoring every nullable flag.
	EqualIgnoringNullability(other Type) bool

	isType()
}

func nullStr(nullable bool) string {
	if nullable {
		return "?"
	}
	return ""
}

// Primitive is a concrete type with no parameters.
type Primitive struct {
	Kind     Kind
	Nullable bool
}

func (t Primitive) isType()          {}
func (t Primitive) IsNullable() bool { return t.Nullable }
func (t Primitive) String() string   { return t.Kind.String() + nullStr(t.Nullable) }
func (t Primitive) ShortName() string {
	return t.Kind.ShortName()
}

func (t Primitive) WithNullable(nullable bool) Type {
	t.Nullable = nullable
	return t
}

func (t Primitive) EqualIgnoringNullability(other Type) bool {
	o, ok := other.(Primitive)
	return ok && o.Kind == t.Kind
}

// FixedChar is a fixed-length character string.
type FixedChar struct {
	Length   IntParam
	Nullable bool
}

func (t FixedChar) isType()           {}
func (t FixedChar) IsNullable() bool  { return t.Nullable }
func (t FixedChar) ShortName() string { return KindFixedChar.ShortName() }

func (t FixedChar) String() string {
	return fmt.Sprintf("fixedchar%s<%s>", nullStr(t.Nullable), t.Length)
}

func (t FixedChar) WithNullable(nullable bool) Type {
	t.Nullable = nullable
	return t
}

func (t FixedChar) EqualIgnoringNullability(other Type) bool {
	o, ok := other.(FixedChar)
	return ok && o.Length == t.Length
}

// VarChar is a length-bounded character string.
type VarChar struct {
	Length   IntParam
	Nullable bool
}

func (t VarChar) isType()           {}
func (t VarChar) IsNullable() bool  { return t.Nullable }
func (t VarChar) ShortName() string { return KindVarChar.ShortName() }

func (t VarChar) String() string {
	return fmt.Sprintf("varchar%s<%s>", nullStr(t.Nullable), t.Length)
}

func (t VarChar) WithNullable(nullable bool) Type {
	t.Nullable = nullable
	return t
}

func (t VarChar) EqualIgnoringNullability(other Type) bool {
	o, ok := other.(VarChar)
	return ok && o.Length == t.Length
}

// FixedBinary is a fixed-size binary value.
type FixedBinary struct {
	Length   IntParam
	Nullable bool
}

func (t FixedBinary) isType()           {}
func (t FixedBinary) IsNullable() bool  { return t.Nullable }
func (t FixedBinary) ShortName() string { return KindFixedBinary.ShortName() }

func (t FixedBinary) String() string {
	return fmt.Sprintf("fixedbinary%s<%s>", nullStr(t.Nullable), t.Length)
}

func (t FixedBinary) WithNullable(nullable bool) Type {
	t.Nullable = nullable
	return t
}

func (t FixedBinary) EqualIgnoringNullability(other Type) bool {
	o, ok := other.(FixedBinary)
	return ok && o.Length == t.Length
}

// Decimal is a fixed-point decimal. Precision and scale may be free
// parameter variables in declared types (e.g. "decimal<P,S>").
type Decimal struct {
	Precision IntParam
	Scale     IntParam
	Nullable  bool
}

func (t Decimal) isType()           {}
func (t Decimal) IsNullable() bool  { return t.Nullable }
func (t Decimal) ShortName() string { return KindDecimal.ShortName() }

func (t Decimal) String() string {
	return fmt.Sprintf("decimal%s<%s,%s>", nullStr(t.Nullable), t.Precision, t.Scale)
}

func (t Decimal) WithNullable(nullable bool) Type {
	t.Nullable = nullable
	return t
}

func (t Decimal) EqualIgnoringNullability(other Type) bool {
	o, ok := other.(Decimal)
	return ok && o.Precision == t.Precision && o.Scale == t.Scale
}

// List is a variable-length list of a single element type.
type List struct {
	Elem     Type
	Nullable bool
}

func (t List) isType()           {}
func (t List) IsNullable() bool  { return t.Nullable }
func (t List) ShortName() string { return KindList.ShortName() }

func (t List) String() string {
	return fmt.Sprintf("list%s<%s>", nullStr(t.Nullable), t.Elem)
}

func (t List) WithNullable(nullable bool) Type {
	t.Nullable = nullable
	return t
}

func (t List) EqualIgnoringNullability(other Type) bool {
	o, ok := other.(List)
	return ok && o.Elem.EqualIgnoringNullability(t.Elem)
}

// Map is a key/value map type.
type Map struct {
	Key      Type
	Value    Type
	Nullable bool
}

func (t Map) isType()           {}
func (t Map) IsNullable() bool  { return t.Nullable }
func (t Map) ShortName() string { return KindMap.ShortName() }

func (t Map) String() string {
	return fmt.Sprintf("map%s<%s,%s>", nullStr(t.Nullable), t.Key, t.Value)
}

func (t Map) WithNullable(nullable bool) Type {
	t.Nullable = nullable
	return t
}

func (t Map) EqualIgnoringNullability(other Type) bool {
	o, ok := other.(Map)
	return ok && o.Key.EqualIgnoringNullability(t.Key) && o.Value.EqualIgnoringNullability(t.Value)
}

// Struct is an ordered collection of field types.
type Struct struct {
	Fields   []Type
	Nullable bool
}

func (t Struct) isType()           {}
func (t Struct) IsNullable() bool  { return t.Nullable }
func (t Struct) ShortName() string { return KindStruct.ShortName() }

func (t Struct) String() string {
	fields := make([]string, len(t.Fields))
	for i, f := range t.Fields {
		fields[i] = f.String()
	}
	return fmt.Sprintf("struct%s<%s>", nullStr(t.Nullable), strings.Join(fields, ","))
}

func (t Struct) WithNullable(nullable bool) Type {
	t.Nullable = nullable
	return t
}

func (t Struct) EqualIgnoringNullability(other Type) bool {
	o, ok := other.(Struct)
	if !ok || len(o.Fields) != len(t.Fields) {
		return false
	}
	for i, f := range t.Fields {
		if !f.EqualIgnoringNullability(o.Fields[i]) {
			return false
		}
	}
	return true
}

// ClassVar is a named placeholder standing for any type in a class
// (e.g. "any1", "numeric"). Two occurrences of the same name within one
// variant must bind to the same concrete type. ClassVars only appear in
// declared types, never in call-site argument types.
type ClassVar struct {
	Name     string
	Nullable bool
}

func (t ClassVar) isType()           {}
func (t ClassVar) IsNullable() bool  { return t.Nullable }
func (t ClassVar) String() string    { return t.Name + nullStr(t.Nullable) }
func (t ClassVar) ShortName() string { return strings.ToLower(t.Name) }

func (t ClassVar) WithNullable(nullable bool) Type {
	t.Nullable = nullable
	return t
}

func (t ClassVar) EqualIgnoringNullability(other Type) bool {
	o, ok := other.(ClassVar)
	return ok && o.Name == t.Name
}

// Constructors for the concrete types, mirroring the Substrait type names.

func Bool(nullable bool) Type        { return Primitive{Kind: KindBool, Nullable: nullable} }
func I8(nullable bool) Type          { return Primitive{Kind: KindI8, Nullable: nullable} }
func I16(nullable bool) Type         { return Primitive{Kind: KindI16, Nullable: nullable} }
func I32(nullable bool) Type         { return Primitive{Kind: KindI32, Nullable: nullable} }
func I64(nullable bool) Type         { return Primitive{Kind: KindI64, Nullable: nullable} }
func FP32(nullable bool) Type        { return Primitive{Kind: KindFP32, Nullable: nullable} }
func FP64(nullable bool) Type        { return Primitive{Kind: KindFP64, Nullable: nullable} }
func String(nullable bool) Type      { return Primitive{Kind: KindString, Nullable: nullable} }
func Binary(nullable bool) Type      { return Primitive{Kind: KindBinary, Nullable: nullable} }
func Date(nullable bool) Type        { return Primitive{Kind: KindDate, Nullable: nullable} }
func Time(nullable bool) Type        { return Primitive{Kind: KindTime, Nullable: nullable} }
func Timestamp(nullable bool) Type   { return Primitive{Kind: KindTimestamp, Nullable: nullable} }
func TimestampTz(nullable bool) Type { return Primitive{Kind: KindTimestampTz, Nullable: nullable} }
func UUID(nullable bool) Type        { return Primitive{Kind: KindUUID, Nullable: nullable} }

func IntervalYear(nullable bool) Type {
	return Primitive{Kind: KindIntervalYear, Nullable: nullable}
}

func IntervalDay(nullable bool) Type {
	return Primitive{Kind: KindIntervalDay, Nullable: nullable}
}

// DecimalOf creates a decimal type with bound precision and scale.
func DecimalOf(nullable bool, precision, scale int32) Type {
	return Decimal{Precision: BoundParam(precision), Scale: BoundParam(scale), Nullable: nullable}
}

// ListOf creates a list type with the given element type.
func ListOf(nullable bool, elem Type) Type {
	return List{Elem: elem, Nullable: nullable}
}

// MapOf creates a map type with the given key and value types.
func MapOf(nullable bool, key, value Type) Type {
	return Map{Key: key, Value: value, Nullable: nullable}
}

// StructOf creates a struct type with the given field types.
func StructOf(nullable bool, fields ...Type) Type {
	return Struct{Fields: fields, Nullable: nullable}
}

// Any creates a class-var placeholder with the given name (e.g. "any1").
func Any(name string) Type {
	return ClassVar{Name: name}
}

// FormatList renders a list of types in Substrait syntax, comma separated.
// Used by error messages so that failed resolutions report the attempted
// argument types without re-running resolution.
func FormatList(list []Type) string {
	parts := make([]string, len(list))
	for i, t := range list {
		parts[i] = t.String()
	}
	return strings.Join(parts, ", ")
}
