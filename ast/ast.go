package ast

// CDDL is the root of a parsed document: an ordered sequence of rules
// (spec.md §3.1 "CDDL: ordered sequence of Rules").
type CDDL struct {
	Rules []Rule
}

// Rule is either a TypeRule or a GroupRule.
type Rule interface {
	isRule()
	RuleName() string
	Alternate() bool
}

// TypeRule is `name [genericParams] = Type` or, when Alternate is true,
// `name /= Type` / `name //= Type` (a choice-alternate extending a prior
// rule of the same name).
type TypeRule struct {
	Name          string
	GenericParams []string
	IsAlternate   bool
	Value         *Type
	SourceSpan    Span
}

func (*TypeRule) isRule()              {}
func (r *TypeRule) RuleName() string   { return r.Name }
func (r *TypeRule) Alternate() bool    { return r.IsAlternate }

// GroupRule is `name [genericParams] = GroupEntry`, or an alternate
// (`//=`) extending a prior group rule of the same name.
type GroupRule struct {
	Name          string
	GenericParams []string
	IsAlternate   bool
	Entry         GroupEntry
	SourceSpan    Span
}

func (*GroupRule) isRule()            {}
func (r *GroupRule) RuleName() string { return r.Name }
func (r *GroupRule) Alternate() bool  { return r.IsAlternate }

// Type is a non-empty ordered list of TypeChoices (each a *Type1),
// separated by "/" in the source.
type Type struct {
	Choices    []*Type1
	SourceSpan Span
}

// OperatorKind distinguishes a range operator from a control operator on a
// Type1.
type OperatorKind int

const (
	// RangeOperator marks `lower..upper` (inclusive) or `lower...upper`
	// (exclusive).
	RangeOperator OperatorKind = iota
	// ControlOperator marks `.name` (e.g. `.size`, `.regexp`).
	ControlOperator
)

// Operator is the optional suffix on a Type1: a range or a control
// operator, paired with its right-hand-side Type2.
type Operator struct {
	Kind      OperatorKind
	Inclusive bool   // only meaningful when Kind == RangeOperator
	Name      string // only meaningful when Kind == ControlOperator
	RHS       Type2
}

// Type1 is a Type2 with an optional range/control Operator.
type Type1 struct {
	Type2      Type2
	Operator   *Operator
	SourceSpan Span
}

// Type2 is the tagged union of leaf type forms (spec.md §3.1).
type Type2 interface {
	isType2()
}

// ByteEncoding distinguishes the three CDDL byte-string literal forms; they
// all denote the same Value kind (Bytes) once decoded.
type ByteEncoding int

const (
	RawBytes ByteEncoding = iota
	Base16Bytes
	Base64Bytes
)

type (
	// TextValue is a quoted text literal, e.g. "hello".
	TextValue struct {
		Value      string
		SourceSpan Span
	}

	// ByteStringValue is a byte-string literal in one of its three source
	// encodings (UTF8ByteString / B16ByteString / B64ByteString); Value
	// always holds the decoded bytes.
	ByteStringValue struct {
		Value      []byte
		Encoding   ByteEncoding
		SourceSpan Span
	}

	IntValue struct {
		Value      int64
		SourceSpan Span
	}

	UintValue struct {
		Value      uint64
		SourceSpan Span
	}

	FloatValue struct {
		Value      float64
		SourceSpan Span
	}

	BoolValue struct {
		Value      bool
		SourceSpan Span
	}

	// Typename references a rule or a prelude data type, with optional
	// generic arguments.
	Typename struct {
		Ident       string
		GenericArgs []*Type1
		SourceSpan  Span
	}

	// ArrayType is `[ group ]`.
	ArrayType struct {
		Group      *Group
		SourceSpan Span
	}

	// MapType is `{ group }`.
	MapType struct {
		Group      *Group
		SourceSpan Span
	}

	// ParenthesizedType is `( type )`, used for grouping type choices.
	ParenthesizedType struct {
		Type       *Type
		SourceSpan Span
	}

	// TaggedData is `#6.N(type)` or `#6(type)` (TagNumber nil). On CBOR
	// targets the tag number (if present) must match; on JSON targets the
	// tag number is unchecked since JSON has no tag concept.
	TaggedData struct {
		TagNumber  *uint64
		Type       *Type
		SourceSpan Span
	}

	// Unwrap is `~ident[<args>]`: splice the interior of ident's resolved
	// Array/Map/TaggedData form into the surrounding context.
	Unwrap struct {
		Ident       string
		GenericArgs []*Type1
		SourceSpan  Span
	}

	// ChoiceFromGroup is `&ident[<args>]`.
	ChoiceFromGroup struct {
		Ident       string
		GenericArgs []*Type1
		SourceSpan  Span
	}

	// ChoiceFromInlineGroup is `&( group )`.
	ChoiceFromInlineGroup struct {
		Group      *Group
		SourceSpan Span
	}

	// AnyType is the `any` wildcard type.
	AnyType struct {
		SourceSpan Span
	}
)

func (*TextValue) isType2()             {}
func (*ByteStringValue) isType2()       {}
func (*IntValue) isType2()              {}
func (*UintValue) isType2()             {}
func (*FloatValue) isType2()            {}
func (*BoolValue) isType2()             {}
func (*Typename) isType2()              {}
func (*ArrayType) isType2()             {}
func (*MapType) isType2()               {}
func (*ParenthesizedType) isType2()     {}
func (*TaggedData) isType2()            {}
func (*Unwrap) isType2()                {}
func (*ChoiceFromGroup) isType2()       {}
func (*ChoiceFromInlineGroup) isType2() {}
func (*AnyType) isType2()               {}

// Group is a non-empty ordered list of GroupChoices, separated by "//".
type Group struct {
	Choices    []*GroupChoice
	SourceSpan Span
}

// GroupChoice is an ordered list of GroupEntries.
type GroupChoice struct {
	Entries    []GroupEntry
	SourceSpan Span
}

// GroupEntry is the tagged union of group-member forms (spec.md §3.1).
type GroupEntry interface {
	isGroupEntry()
	EntryOccur() *Occur
}

type (
	// ValueMemberKey is `[occur] [memberKey] entryType`.
	ValueMemberKey struct {
		Occur      *Occur
		MemberKey  MemberKey // nil for a bare type entry with no key
		EntryType  *Type
		SourceSpan Span
	}

	// TypeGroupname is `[occur] name[<args>]`, a reference to another
	// group rule spliced in place.
	TypeGroupname struct {
		Occur       *Occur
		Name        string
		GenericArgs []*Type1
		SourceSpan  Span
	}

	// InlineGroup is `[occur] ( group )` nested directly inside another
	// group or array.
	InlineGroup struct {
		Occur      *Occur
		Group      *Group
		SourceSpan Span
	}
)

func (e *ValueMemberKey) isGroupEntry()      {}
func (e *ValueMemberKey) EntryOccur() *Occur { return e.Occur }

func (e *TypeGroupname) isGroupEntry()      {}
func (e *TypeGroupname) EntryOccur() *Occur { return e.Occur }

func (e *InlineGroup) isGroupEntry()      {}
func (e *InlineGroup) EntryOccur() *Occur { return e.Occur }

// MemberKey is the tagged union of map/group member-key forms.
type MemberKey interface {
	isMemberKey()
}

type (
	// Bareword is `ident:` (shorthand for a text-value key).
	Bareword struct {
		Ident      string
		SourceSpan Span
	}

	// ValueKey is a literal key, e.g. `"foo":` or `1:`.
	ValueKey struct {
		Literal    Type2
		SourceSpan Span
	}

	// Type1Key is `type1 [^] =>`; Cut is true when the `^` marker is
	// present.
	Type1Key struct {
		T1         *Type1
		Cut        bool
		SourceSpan Span
	}
)

func (*Bareword) isMemberKey() {}
func (*ValueKey) isMemberKey() {}
func (*Type1Key) isMemberKey() {}

// OccurKind distinguishes the four occurrence-modifier shapes.
type OccurKind int

const (
	ZeroOrMore OccurKind = iota
	OneOrMore
	Optional
	Exact
)

// Occur is a multiplicity modifier (`?`, `*`, `+`, or `{l,u}`/`l*u`) on a
// group entry or array use.
type Occur struct {
	Kind  OccurKind
	Lower *int // only meaningful when Kind == Exact
	Upper *int // only meaningful when Kind == Exact
}

// Bounds returns the inclusive [min,max] occurrence count this modifier
// permits; max == -1 means unbounded.
func (o *Occur) Bounds() (min int, max int) {
	if o == nil {
		return 1, 1
	}
	switch o.Kind {
	case ZeroOrMore:
		return 0, -1
	case OneOrMore:
		return 1, -1
	case Optional:
		return 0, 1
	case Exact:
		lo, hi := 0, -1
		if o.Lower != nil {
			lo = *o.Lower
		}
		if o.Upper != nil {
			hi = *o.Upper
		}
		return lo, hi
	}
	return 1, 1
}
