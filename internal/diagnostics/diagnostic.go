// Package diagnostics implements the compiler's single cross-stage error
// sink: every stage reports through here, and only the Reporter knows how
// to render a diagnostic to text.
package diagnostics

import (
	"strconv"

	"github.com/novalang/novac/internal/token"
)

// Severity is one of the fixed diagnostic severity levels.
type Severity int

const (
	Error Severity = iota
	Warning
	Info
	Hint
)

func (s Severity) String() string {
	switch s {
	case Error:
		return "error"
	case Warning:
		return "warning"
	case Info:
		return "info"
	case Hint:
		return "hint"
	default:
		return "unknown"
	}
}

// Kind groups a diagnostic by compiler stage, so callers can switch on it
// without parsing the Code string.
type Kind int

const (
	KindLexical Kind = iota
	KindParse
	KindSemantic
	KindLowering
	KindBackend
)

// Diagnostic is one reported error/warning/info/hint.
type Diagnostic struct {
	Severity Severity
	Kind     Kind
	Code     string // e.g. "E0042"; stage-scoped, stable across recompiles
	File     string
	Span     token.SourceSpan
	Message  string
}

// New builds a Diagnostic rooted at tok's span; File is left empty and
// filled in later by the Reporter once the owning unit is known.
func New(sev Severity, kind Kind, code string, tok token.Token, message string) *Diagnostic {
	return &Diagnostic{
		Severity: sev,
		Kind:     kind,
		Code:     code,
		Span:     tok.Span,
		Message:  message,
	}
}

// Well-known parse-error variants get their own constructors so the
// parser's recovery logic can recognize and count specific kinds.

func Expected(tok token.Token, expected string) *Diagnostic {
	return New(Error, KindParse, "P001", tok, "expected "+expected+", found "+tok.Kind.String())
}

func ConflictingModifier(tok token.Token, a, b string) *Diagnostic {
	return New(Error, KindParse, "P002", tok, "conflicting modifiers: "+a+" and "+b)
}

func MixedCollectionSyntax(tok token.Token) *Diagnostic {
	return New(Error, KindParse, "P003", tok, "collection literal mixes set and map element syntax")
}

func OrphanLabel(tok token.Token, label string) *Diagnostic {
	return New(Error, KindParse, "P004", tok, "label @"+label+" does not target an enclosing loop")
}

func UnresolvedName(tok token.Token, name string) *Diagnostic {
	return New(Error, KindSemantic, "S001", tok, "unresolved name: "+name)
}

func TypeMismatch(tok token.Token, expected, found string) *Diagnostic {
	return New(Error, KindSemantic, "S002", tok, "type mismatch: expected "+expected+", found "+found)
}

func ArityMismatch(tok token.Token, expected, found int) *Diagnostic {
	return New(Error, KindSemantic, "S003", tok,
		"arity mismatch: expected "+strconv.Itoa(expected)+" argument(s), found "+strconv.Itoa(found))
}

func DuplicateDeclaration(tok token.Token, name string) *Diagnostic {
	return New(Error, KindSemantic, "S004", tok, "duplicate declaration: "+name)
}

func InvalidOverride(tok token.Token, name string) *Diagnostic {
	return New(Error, KindSemantic, "S005", tok, "invalid override: "+name)
}

func UnreachableCode(tok token.Token) *Diagnostic {
	return New(Warning, KindSemantic, "S006", tok, "unreachable code")
}

func NullDereference(tok token.Token, name string) *Diagnostic {
	return New(Error, KindSemantic, "S007", tok, "possible null dereference: "+name)
}

func ShadowedDeclaration(tok token.Token, name string) *Diagnostic {
	return New(Warning, KindSemantic, "S008", tok, "declaration of '"+name+"' shadows an outer declaration")
}

func NonExhaustiveWhen(tok token.Token) *Diagnostic {
	return New(Warning, KindSemantic, "S009", tok, "'when' expression does not cover every case and has no 'else' branch")
}

func ImmutableAssignment(tok token.Token, name string) *Diagnostic {
	return New(Error, KindSemantic, "S010", tok, "cannot assign to 'val' "+name)
}

func InvalidTypeTest(tok token.Token, detail string) *Diagnostic {
	return New(Error, KindSemantic, "S011", tok, "invalid type test: "+detail)
}

func NotAFunction(tok token.Token, found string) *Diagnostic {
	return New(Error, KindSemantic, "S012", tok, "cannot call a value of type "+found)
}

func UnknownMember(tok token.Token, owner, name string) *Diagnostic {
	return New(Error, KindSemantic, "S013", tok, "unknown member '"+name+"' on "+owner)
}

func NotInClassContext(tok token.Token, what string) *Diagnostic {
	return New(Error, KindSemantic, "S014", tok, what+" used outside of a class body")
}

func InternalInvariant(tok token.Token, detail string) *Diagnostic {
	return New(Error, KindLowering, "L001", tok, "internal invariant violated: "+detail)
}

func BackendError(tok token.Token, detail string) *Diagnostic {
	return New(Error, KindBackend, "B001", tok, detail)
}
