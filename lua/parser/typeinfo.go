package parser

import "strings"

// TypeKind enumerates the type shapes the analyzer works with.
type TypeKind int

const (
	TypeUnknown TypeKind = iota
	TypeString
	TypeNumber
	TypeBoolean
	TypeTable
	TypeFunction
	TypeUnion
	TypeOptional
)

var typeKindNames = map[TypeKind]string{
	TypeUnknown:  "Unknown",
	TypeString:   "String",
	TypeNumber:   "Number",
	TypeBoolean:  "Boolean",
	TypeTable:    "Table",
	TypeFunction: "Function",
	TypeUnion:    "Union",
	TypeOptional: "Optional",
}

func (k TypeKind) String() string {
	if name, ok := typeKindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// TypeInfo describes an inferred or declared Lua type. The zero value
// is Unknown. Members is set for unions, Elem for optionals, Fields
// for parameterized tables, Signature for parameterized functions.
// Only one level of Optional wrapping is meaningful downstream.
type TypeInfo struct {
	Kind      TypeKind
	Members   []TypeInfo
	Elem      *TypeInfo
	Fields    []TypeField
	Signature *Signature
}

// TypeField is one named field of a parameterized table type.
type TypeField struct {
	Name string
	Type TypeInfo
}

// Signature is the parameter/return shape of a parameterized function
// type.
type Signature struct {
	Params  []Param
	Returns []TypeInfo
}

// Param is one function parameter together with its currently known
// type.
type Param struct {
	Name string
	Type TypeInfo
}

func Unknown() TypeInfo          { return TypeInfo{Kind: TypeUnknown} }
func StringType() TypeInfo       { return TypeInfo{Kind: TypeString} }
func NumberType() TypeInfo       { return TypeInfo{Kind: TypeNumber} }
func BooleanType() TypeInfo      { return TypeInfo{Kind: TypeBoolean} }
func TableType() TypeInfo        { return TypeInfo{Kind: TypeTable} }
func FunctionType() TypeInfo     { return TypeInfo{Kind: TypeFunction} }
func Union(ts ...TypeInfo) TypeInfo {
	return TypeInfo{Kind: TypeUnion, Members: ts}
}
func Optional(t TypeInfo) TypeInfo {
	return TypeInfo{Kind: TypeOptional, Elem: &t}
}

// Key returns a stable structural encoding of the type, used to sort
// and deduplicate inferred return types so output is deterministic.
// The ordering carries no semantic meaning.
func (t TypeInfo) Key() string {
	var sb strings.Builder
	t.writeKey(&sb)
	return sb.String()
}

func (t TypeInfo) writeKey(sb *strings.Builder) {
	sb.WriteString(t.Kind.String())
	switch t.Kind {
	case TypeUnion:
		sb.WriteByte('[')
		for i, m := range t.Members {
			if i > 0 {
				sb.WriteByte(' ')
			}
			m.writeKey(sb)
		}
		sb.WriteByte(']')
	case TypeOptional:
		sb.WriteByte('(')
		if t.Elem != nil {
			t.Elem.writeKey(sb)
		}
		sb.WriteByte(')')
	case TypeTable:
		if len(t.Fields) > 0 {
			sb.WriteByte('{')
			for i, f := range t.Fields {
				if i > 0 {
					sb.WriteByte(' ')
				}
				sb.WriteString(f.Name)
				sb.WriteByte(':')
				f.Type.writeKey(sb)
			}
			sb.WriteByte('}')
		}
	case TypeFunction:
		if t.Signature != nil {
			sb.WriteByte('(')
			for i, p := range t.Signature.Params {
				if i > 0 {
					sb.WriteByte(' ')
				}
				sb.WriteString(p.Name)
				sb.WriteByte(':')
				p.Type.writeKey(sb)
			}
			sb.WriteString("->")
			for i, r := range t.Signature.Returns {
				if i > 0 {
					sb.WriteByte(' ')
				}
				r.writeKey(sb)
			}
			sb.WriteByte(')')
		}
	}
}

// ExportItem is one publicly exposed field of a module table, the
// unit handed to the project catalog.
type ExportItem struct {
	Name string
	Type TypeInfo
}
