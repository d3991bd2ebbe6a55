package parser

import "strings"

// AnnotationParser runs an independent pass over the token stream,
// turning every Annotation token into an AnnotationNode. Tokens that
// are not annotations are skipped. Each keyword has one fixed grammar;
// when the minimum required sub-tokens are absent the annotation is
// dropped and a diagnostic recorded.
type AnnotationParser struct {
	tokens []Token
	pos    int
	diags  []Diagnostic
}

func NewAnnotationParser(tokens []Token) *AnnotationParser {
	return &AnnotationParser{tokens: tokens}
}

func (p *AnnotationParser) Parse() []AnnotationNode {
	var nodes []AnnotationNode
	for p.pos < len(p.tokens) {
		tok := p.tokens[p.pos]
		p.pos++
		if tok.Kind != TokenAnnotation {
			continue
		}
		if node := p.parseAnnotation(tok); node != nil {
			nodes = append(nodes, node)
		}
	}
	return nodes
}

func (p *AnnotationParser) Diagnostics() []Diagnostic {
	return p.diags
}

func (p *AnnotationParser) drop(tok Token, reason string) AnnotationNode {
	p.diags = append(p.diags, Diagnostic{Span: tok.Span, Reason: reason})
	return nil
}

func (p *AnnotationParser) parseAnnotation(tok Token) AnnotationNode {
	c := newSubCursor(tok.Subtokens)
	c.acceptPrefix()
	keyword, ok := c.ident()
	if !ok {
		content := c.rest()
		if content == "" {
			return p.drop(tok, "annotation without keyword")
		}
		return &Generic{Content: content}
	}
	keyword = strings.ToLower(keyword)
	switch keyword {
	case "alias":
		return p.parseAlias(tok, c)
	case "as":
		return &As{Type: c.collectType()}
	case "async":
		return &Async{}
	case "cast":
		return p.parseCast(tok, c)
	case "class":
		return p.parseClass(tok, c)
	case "deprecated":
		return &Deprecated{Message: c.rest()}
	case "diagnostic":
		return p.parseDiagnostic(tok, c)
	case "enum":
		return p.parseEnum(tok, c)
	case "field":
		return p.parseField(tok, c)
	case "generic":
		return p.parseGeneric(tok, c)
	case "meta":
		name, _ := c.ident()
		return &Meta{Name: name}
	case "module":
		name, ok := c.word()
		if !ok {
			return p.drop(tok, "module annotation without name")
		}
		return &Module{Name: strings.Trim(name, "'\"")}
	case "nodiscard":
		return &Nondiscard{}
	case "operator":
		return p.parseOperator(tok, c)
	case "overload":
		sig := c.collectType()
		if sig == "" {
			return p.drop(tok, "overload annotation without signature")
		}
		return &Overload{Signature: sig}
	case "package":
		return &Package{}
	case "param":
		return p.parseParam(tok, c)
	case "private":
		return &Private{}
	case "protected":
		return &Protected{}
	case "return":
		return p.parseReturn(tok, c)
	case "see":
		target := c.rest()
		if target == "" {
			return p.drop(tok, "see annotation without target")
		}
		return &See{Target: target}
	case "source":
		path := c.rest()
		if path == "" {
			return p.drop(tok, "source annotation without path")
		}
		return &Source{Path: path}
	case "type":
		t := c.collectType()
		if t == "" {
			return p.drop(tok, "type annotation without type")
		}
		return &TypeAnn{Type: t, Description: c.rest()}
	case "vararg":
		return &VarargAnn{Type: c.collectType()}
	case "version":
		return p.parseVersion(c)
	default:
		return &Generic{Word: keyword, Content: c.rest()}
	}
}

func (p *AnnotationParser) parseAlias(tok Token, c *subCursor) AnnotationNode {
	name, ok := c.ident()
	if !ok {
		return p.drop(tok, "alias annotation without name")
	}
	node := &Alias{Name: name}
	node.Variants = append(node.Variants, c.collectVariants()...)
	node.Variants = append(node.Variants, p.collectVariantLines()...)
	return node
}

func (p *AnnotationParser) parseEnum(tok Token, c *subCursor) AnnotationNode {
	name, ok := c.ident()
	if !ok {
		return p.drop(tok, "enum annotation without name")
	}
	node := &Enum{Name: name}
	if c.acceptKind(SubOpenParen) {
		if word, ok := c.ident(); ok && word == "key" {
			node.IsKey = true
		}
		c.acceptKind(SubCloseParen)
	}
	node.Variants = append(node.Variants, c.collectVariants()...)
	node.Variants = append(node.Variants, p.collectVariantLines()...)
	return node
}

// collectVariantLines folds the `---| value [# description]`
// continuation lines that follow an alias or enum header into the
// node being built. Each continuation is its own Annotation token in
// the outer stream.
func (p *AnnotationParser) collectVariantLines() []Variant {
	var variants []Variant
	for p.pos < len(p.tokens) {
		tok := p.tokens[p.pos]
		if tok.Kind != TokenAnnotation || len(tok.Subtokens) == 0 {
			break
		}
		first := tok.Subtokens[0]
		if first.Kind != SubPrefix || first.Text != "---|" {
			break
		}
		p.pos++
		c := newSubCursor(tok.Subtokens[1:])
		variants = append(variants, c.parseVariant())
	}
	return variants
}

func (p *AnnotationParser) parseCast(tok Token, c *subCursor) AnnotationNode {
	variable, ok := c.ident()
	if !ok {
		return p.drop(tok, "cast annotation without variable")
	}
	node := &Cast{Variable: variable}
	for !c.atEnd() {
		sub := c.next()
		word := subTokenText(sub)
		if word == "" {
			continue
		}
		op := ""
		if word[0] == '+' || word[0] == '-' {
			op = string(word[0])
			word = word[1:]
		}
		if word == "" {
			// Operator separated from its type by whitespace.
			word, _ = c.ident()
		}
		if word != "" {
			node.Ops = append(node.Ops, CastOp{Op: op, Type: word})
		}
	}
	return node
}

func (p *AnnotationParser) parseClass(tok Token, c *subCursor) AnnotationNode {
	name, ok := c.ident()
	if !ok {
		return p.drop(tok, "class annotation without name")
	}
	node := &Class{Name: name}
	if c.acceptKind(SubColon) {
		for {
			parent, ok := c.ident()
			if !ok {
				break
			}
			node.Parents = append(node.Parents, parent)
			if !c.acceptKind(SubComma) {
				break
			}
		}
	}
	if c.peekKind(SubOpenParen) {
		c.acceptKind(SubOpenParen)
		if word, ok := c.ident(); ok && word == "exact" {
			node.Exact = true
		}
		c.acceptKind(SubCloseParen)
	}
	for {
		fieldName, ok := c.ident()
		if !ok {
			break
		}
		field := ClassField{Name: fieldName}
		if c.acceptKind(SubColon) {
			field.Type = c.collectType()
		}
		node.Fields = append(node.Fields, field)
	}
	return node
}

func (p *AnnotationParser) parseDiagnostic(tok Token, c *subCursor) AnnotationNode {
	action := c.collectWordRun()
	if action == "" {
		return p.drop(tok, "diagnostic annotation without action")
	}
	node := &DiagnosticAnn{Action: action}
	if c.acceptKind(SubColon) {
		for {
			name := c.collectWordRun()
			if name == "" {
				break
			}
			node.Names = append(node.Names, name)
			if !c.acceptKind(SubComma) {
				break
			}
		}
	}
	return node
}

func (p *AnnotationParser) parseField(tok Token, c *subCursor) AnnotationNode {
	name, ok := c.ident()
	if !ok {
		return p.drop(tok, "field annotation without name")
	}
	node := &Field{Name: name}
	switch name {
	case "public", "private", "protected", "package":
		if next, ok := c.ident(); ok {
			node.Scope = name
			node.Name = next
		}
	}
	node.Type = c.collectType()
	if node.Type == "" {
		return p.drop(tok, "field annotation without type")
	}
	node.Description = c.rest()
	return node
}

func (p *AnnotationParser) parseGeneric(tok Token, c *subCursor) AnnotationNode {
	node := &GenericDecl{}
	for {
		name, ok := c.ident()
		if !ok {
			break
		}
		node.Names = append(node.Names, name)
		if !c.acceptKind(SubComma) {
			break
		}
	}
	if len(node.Names) == 0 {
		return p.drop(tok, "generic annotation without type parameters")
	}
	return node
}

func (p *AnnotationParser) parseOperator(tok Token, c *subCursor) AnnotationNode {
	name, ok := c.ident()
	if !ok {
		return p.drop(tok, "operator annotation without name")
	}
	node := &OperatorAnn{Name: name}
	if c.acceptKind(SubOpenParen) {
		for !c.atEnd() && !c.acceptKind(SubCloseParen) {
			if param := c.collectType(); param != "" {
				node.Params = append(node.Params, param)
			} else {
				c.next()
			}
			c.acceptKind(SubComma)
		}
	}
	if c.acceptKind(SubColon) {
		node.Result = c.collectType()
	}
	return node
}

func (p *AnnotationParser) parseParam(tok Token, c *subCursor) AnnotationNode {
	name, ok := c.word()
	if !ok {
		return p.drop(tok, "param annotation without name")
	}
	node := &ParamAnn{Name: name}
	node.Type = c.collectType()
	if node.Type == "" {
		return p.drop(tok, "param annotation without type")
	}
	node.Description = c.rest()
	return node
}

func (p *AnnotationParser) parseReturn(tok Token, c *subCursor) AnnotationNode {
	t := c.collectType()
	if t == "" {
		return p.drop(tok, "return annotation without type")
	}
	node := &ReturnAnn{Type: t}
	if name, ok := c.ident(); ok {
		node.Name = name
	}
	node.Description = c.rest()
	return node
}

func (p *AnnotationParser) parseVersion(c *subCursor) AnnotationNode {
	node := &Version{}
	current := ""
	for !c.atEnd() {
		sub := c.next()
		if sub.Kind == SubComma {
			if current != "" {
				node.Versions = append(node.Versions, current)
				current = ""
			}
			continue
		}
		current += subTokenText(sub)
	}
	if current != "" {
		node.Versions = append(node.Versions, current)
	}
	return node
}

// subCursor walks one annotation's sub-token slice.
type subCursor struct {
	toks []AnnotationSubToken
	pos  int
}

func newSubCursor(toks []AnnotationSubToken) *subCursor {
	return &subCursor{toks: toks}
}

func (c *subCursor) atEnd() bool {
	return c.pos >= len(c.toks)
}

func (c *subCursor) peek() *AnnotationSubToken {
	if c.atEnd() {
		return nil
	}
	return &c.toks[c.pos]
}

func (c *subCursor) next() *AnnotationSubToken {
	sub := c.peek()
	if sub != nil {
		c.pos++
	}
	return sub
}

func (c *subCursor) peekKind(kind AnnotationSubTokenKind) bool {
	sub := c.peek()
	return sub != nil && sub.Kind == kind
}

func (c *subCursor) acceptKind(kind AnnotationSubTokenKind) bool {
	if c.peekKind(kind) {
		c.pos++
		return true
	}
	return false
}

func (c *subCursor) acceptPrefix() bool {
	return c.acceptKind(SubPrefix)
}

func (c *subCursor) acceptOperatorSub(text string) bool {
	sub := c.peek()
	if sub != nil && sub.Kind == SubOperator && sub.Text == text {
		c.pos++
		return true
	}
	return false
}

// ident consumes the next sub-token if it is an identifier and
// returns its dot-joined segments.
func (c *subCursor) ident() (string, bool) {
	sub := c.peek()
	if sub == nil || sub.Kind != SubIdentifier {
		return "", false
	}
	c.pos++
	return strings.Join(sub.Parts, "."), true
}

// word consumes the next identifier or free-text sub-token.
func (c *subCursor) word() (string, bool) {
	sub := c.peek()
	if sub == nil || (sub.Kind != SubIdentifier && sub.Kind != SubText) {
		return "", false
	}
	c.pos++
	return subTokenText(sub), true
}

// collectWordRun concatenates adjacent identifier and free-text
// sub-tokens, reassembling hyphenated words such as
// "disable-next-line" that the sub-tokenizer split apart.
func (c *subCursor) collectWordRun() string {
	var sb strings.Builder
	for {
		sub := c.peek()
		if sub == nil || (sub.Kind != SubIdentifier && sub.Kind != SubText) {
			break
		}
		piece := subTokenText(sub)
		if sb.Len() > 0 && sub.Kind == SubIdentifier {
			break
		}
		sb.WriteString(piece)
		c.pos++
		if sub.Kind == SubText && !strings.HasSuffix(piece, "-") && !strings.Contains(piece, "-") {
			break
		}
	}
	return sb.String()
}

// collectType consumes one type expression: a leading identifier or
// text token, continued through union pipes, angle-bracketed
// parameters, parenthesized signatures and a trailing "?". A bare
// identifier followed by another identifier ends the type; the second
// word belongs to the description.
func (c *subCursor) collectType() string {
	var sb strings.Builder
	sub := c.peek()
	if sub == nil {
		return ""
	}
	switch sub.Kind {
	case SubIdentifier, SubText:
		sb.WriteString(subTokenText(sub))
		c.pos++
	default:
		return ""
	}
	for {
		sub := c.peek()
		if sub == nil {
			break
		}
		switch {
		case sub.Kind == SubOperator && sub.Text == "|":
			sb.WriteString("|")
			c.pos++
			if word := c.peek(); word != nil && (word.Kind == SubIdentifier || word.Kind == SubText) {
				sb.WriteString(subTokenText(word))
				c.pos++
			}
		case sub.Kind == SubLessThan:
			sb.WriteString(c.collectBracketed(SubLessThan, SubGreaterThan, "<", ">"))
		case sub.Kind == SubOpenParen:
			sb.WriteString(c.collectBracketed(SubOpenParen, SubCloseParen, "(", ")"))
			if c.peekKind(SubColon) {
				c.pos++
				sb.WriteString(": ")
				if word := c.peek(); word != nil && (word.Kind == SubIdentifier || word.Kind == SubText) {
					sb.WriteString(subTokenText(word))
					c.pos++
				}
			}
		case sub.Kind == SubText && strings.HasPrefix(sub.Text, "?"):
			sb.WriteString(sub.Text)
			c.pos++
		default:
			return sb.String()
		}
	}
	return sb.String()
}

// collectBracketed consumes a balanced bracket group and renders it
// back with the conventional spacing after commas and colons.
func (c *subCursor) collectBracketed(open, close AnnotationSubTokenKind, openText, closeText string) string {
	if !c.acceptKind(open) {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(openText)
	depth := 1
	prevWord := false
	for !c.atEnd() && depth > 0 {
		sub := c.next()
		switch sub.Kind {
		case open:
			depth++
			sb.WriteString(openText)
			prevWord = false
		case close:
			depth--
			sb.WriteString(closeText)
			prevWord = false
		case SubComma:
			sb.WriteString(", ")
			prevWord = false
		case SubColon:
			sb.WriteString(": ")
			prevWord = false
		default:
			if prevWord {
				sb.WriteString(" ")
			}
			sb.WriteString(subTokenText(sub))
			prevWord = true
		}
	}
	return sb.String()
}

// collectVariants reads the `| value [# description]` groups that sit
// on the same line as an alias or enum header.
func (c *subCursor) collectVariants() []Variant {
	var variants []Variant
	for c.acceptOperatorSub("|") {
		variants = append(variants, c.parseVariantBody(true))
	}
	return variants
}

// parseVariant reads one continuation line's value and description.
func (c *subCursor) parseVariant() Variant {
	return c.parseVariantBody(false)
}

func (c *subCursor) parseVariantBody(stopAtPipe bool) Variant {
	v := Variant{}
	if sub := c.peek(); sub != nil && sub.Kind != SubOperator {
		v.Value = subTokenText(sub)
		c.pos++
	}
	if c.acceptOperatorSub("#") {
		var words []string
		for !c.atEnd() {
			if stopAtPipe && c.peekKind(SubOperator) && c.peek().Text == "|" {
				break
			}
			words = append(words, subTokenText(c.next()))
		}
		v.Description = strings.Join(words, " ")
	}
	return v
}

// rest joins every remaining sub-token's text with single spaces,
// used for free-text descriptions.
func (c *subCursor) rest() string {
	var words []string
	for !c.atEnd() {
		words = append(words, subTokenText(c.next()))
	}
	return strings.Join(words, " ")
}

func subTokenText(sub *AnnotationSubToken) string {
	if sub.Kind == SubIdentifier {
		return strings.Join(sub.Parts, ".")
	}
	return sub.Text
}
