package parser

// AnnotationNode is the common interface of all parsed annotation
// variants. Keywords the parser does not recognize land in Generic.
type AnnotationNode interface {
	annotationNode()
	Keyword() string
}

// Variant is one `---| value [# description]` entry of an alias or
// enum block.
type Variant struct {
	Value       string
	Description string
}

// ClassField is one trailing `name [: type]` pair of a class
// annotation.
type ClassField struct {
	Name string
	Type string
}

// CastOp is one `(+|-)type` step of a cast annotation. Op is "+",
// "-", or "" for a plain replacement.
type CastOp struct {
	Op   string
	Type string
}

type Alias struct {
	Name     string
	Variants []Variant
}

type As struct {
	Type string
}

type Async struct{}

type Cast struct {
	Variable string
	Ops      []CastOp
}

type Class struct {
	Name    string
	Parents []string
	Exact   bool
	Fields  []ClassField
}

type Deprecated struct {
	Message string
}

type DiagnosticAnn struct {
	Action string
	Names  []string
}

type Enum struct {
	Name     string
	IsKey    bool
	Variants []Variant
}

type Field struct {
	Scope       string
	Name        string
	Type        string
	Description string
}

type Generic struct {
	Word    string
	Content string
}

type GenericDecl struct {
	Names []string
}

type Meta struct {
	Name string
}

type Module struct {
	Name string
}

type Nondiscard struct{}

type OperatorAnn struct {
	Name   string
	Params []string
	Result string
}

type Overload struct {
	Signature string
}

type Package struct{}

type ParamAnn struct {
	Name        string
	Type        string
	Description string
}

type Private struct{}

type Protected struct{}

type ReturnAnn struct {
	Type        string
	Name        string
	Description string
}

type See struct {
	Target string
}

type Source struct {
	Path string
}

type TypeAnn struct {
	Type        string
	Description string
}

type VarargAnn struct {
	Type string
}

type Version struct {
	Versions []string
}

func (*Alias) annotationNode()         {}
func (*As) annotationNode()            {}
func (*Async) annotationNode()         {}
func (*Cast) annotationNode()          {}
func (*Class) annotationNode()         {}
func (*Deprecated) annotationNode()    {}
func (*DiagnosticAnn) annotationNode() {}
func (*Enum) annotationNode()          {}
func (*Field) annotationNode()         {}
func (*Generic) annotationNode()       {}
func (*GenericDecl) annotationNode()   {}
func (*Meta) annotationNode()          {}
func (*Module) annotationNode()        {}
func (*Nondiscard) annotationNode()    {}
func (*OperatorAnn) annotationNode()   {}
func (*Overload) annotationNode()      {}
func (*Package) annotationNode()       {}
func (*ParamAnn) annotationNode()      {}
func (*Private) annotationNode()       {}
func (*Protected) annotationNode()     {}
func (*ReturnAnn) annotationNode()     {}
func (*See) annotationNode()           {}
func (*Source) annotationNode()        {}
func (*TypeAnn) annotationNode()       {}
func (*VarargAnn) annotationNode()     {}
func (*Version) annotationNode()       {}

func (*Alias) Keyword() string         { return "alias" }
func (*As) Keyword() string            { return "as" }
func (*Async) Keyword() string         { return "async" }
func (*Cast) Keyword() string          { return "cast" }
func (*Class) Keyword() string         { return "class" }
func (*Deprecated) Keyword() string    { return "deprecated" }
func (*DiagnosticAnn) Keyword() string { return "diagnostic" }
func (*Enum) Keyword() string          { return "enum" }
func (*Field) Keyword() string         { return "field" }
func (a *Generic) Keyword() string     { return a.Word }
func (*GenericDecl) Keyword() string   { return "generic" }
func (*Meta) Keyword() string          { return "meta" }
func (*Module) Keyword() string        { return "module" }
func (*Nondiscard) Keyword() string    { return "nodiscard" }
func (*OperatorAnn) Keyword() string   { return "operator" }
func (*Overload) Keyword() string      { return "overload" }
func (*Package) Keyword() string       { return "package" }
func (*ParamAnn) Keyword() string      { return "param" }
func (*Private) Keyword() string       { return "private" }
func (*Protected) Keyword() string     { return "protected" }
func (*ReturnAnn) Keyword() string     { return "return" }
func (*See) Keyword() string           { return "see" }
func (*Source) Keyword() string        { return "source" }
func (*TypeAnn) Keyword() string       { return "type" }
func (*VarargAnn) Keyword() string     { return "vararg" }
func (*Version) Keyword() string       { return "version" }
