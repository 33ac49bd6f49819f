package aggregate

import (
	"fmt"
	"strings"
	"unicode"

	errUtils "github.com/cloudposse/capnp-import/errors"
)

// Target renders module units in one output language.
type Target interface {
	// Name is the config value selecting the target.
	Name() string
	// CheckIdentifier returns a non-empty reason when name cannot name a scope.
	CheckIdentifier(name string) string
	// Wrap writes one scope holding body.
	Wrap(b *strings.Builder, name, body string)
}

const (
	// TargetRust wraps units as "mod <name> { ... }".
	TargetRust = "rust"
	// TargetCpp wraps units as "namespace <name> { ... }".
	TargetCpp = "cpp"
)

// TargetByName returns the target registered under name. Empty selects Rust.
func TargetByName(name string) (Target, error) {
	switch name {
	case "", TargetRust:
		return rustTarget{}, nil
	case TargetCpp, "c++":
		return cppTarget{}, nil
	default:
		return nil, fmt.Errorf("%w: %q (expected %q or %q)", errUtils.ErrUnknownTarget, name, TargetRust, TargetCpp)
	}
}

// DefaultPlugin returns the capnp output plugin that pairs with a target.
func DefaultPlugin(t Target) string {
	if t.Name() == TargetCpp {
		return "c++"
	}
	return "rust"
}

type rustTarget struct{}

func (rustTarget) Name() string { return TargetRust }

func (rustTarget) CheckIdentifier(name string) string {
	switch {
	case name == "":
		return "empty name"
	case name == "_":
		return "'_' is not an identifier"
	case rustKeywords[name]:
		return fmt.Sprintf("%q is a reserved keyword", name)
	}
	for i, r := range name {
		if i == 0 && !(r == '_' || unicode.IsLetter(r)) {
			return fmt.Sprintf("must start with a letter or '_', not %q", r)
		}
		if !(r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.Is(unicode.Mn, r) || unicode.Is(unicode.Mc, r)) {
			return fmt.Sprintf("contains %q", r)
		}
	}
	return ""
}

func (rustTarget) Wrap(b *strings.Builder, name, body string) {
	b.WriteString("mod ")
	b.WriteString(name)
	b.WriteString(" {\n")
	b.WriteString(body)
	b.WriteString("\n}\n")
}

type cppTarget struct{}

func (cppTarget) Name() string { return TargetCpp }

func (cppTarget) CheckIdentifier(name string) string {
	switch {
	case name == "":
		return "empty name"
	case cppKeywords[name]:
		return fmt.Sprintf("%q is a reserved keyword", name)
	case strings.Contains(name, "__"):
		return "names containing '__' are reserved"
	case len(name) > 1 && name[0] == '_' && name[1] >= 'A' && name[1] <= 'Z':
		return "names starting with '_' and an uppercase letter are reserved"
	}
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c == '_', c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9':
			if i == 0 {
				return fmt.Sprintf("must start with a letter or '_', not %q", c)
			}
		default:
			return fmt.Sprintf("contains %q", rune(c))
		}
	}
	return ""
}

func (cppTarget) Wrap(b *strings.Builder, name, body string) {
	b.WriteString("namespace ")
	b.WriteString(name)
	b.WriteString(" {\n")
	b.WriteString(body)
	b.WriteString("\n}  // namespace ")
	b.WriteString(name)
	b.WriteString("\n")
}

var rustKeywords = toSet(
	// strict
	"as", "async", "await", "break", "const", "continue", "crate", "dyn", "else", "enum",
	"extern", "false", "fn", "for", "if", "impl", "in", "let", "loop", "match", "mod",
	"move", "mut", "pub", "ref", "return", "self", "Self", "static", "struct", "super",
	"trait", "true", "type", "unsafe", "use", "where", "while",
	// reserved
	"abstract", "become", "box", "do", "final", "gen", "macro", "override", "priv",
	"try", "typeof", "unsized", "virtual", "yield",
)

var cppKeywords = toSet(
	"alignas", "alignof", "and", "and_eq", "asm", "auto", "bitand", "bitor", "bool",
	"break", "case", "catch", "char", "char8_t", "char16_t", "char32_t", "class", "compl",
	"concept", "const", "consteval", "constexpr", "constinit", "const_cast", "continue",
	"co_await", "co_return", "co_yield", "decltype", "default", "delete", "do", "double",
	"dynamic_cast", "else", "enum", "explicit", "export", "extern", "false", "float", "for",
	"friend", "goto", "if", "inline", "int", "long", "mutable", "namespace", "new",
	"noexcept", "not", "not_eq", "nullptr", "operator", "or", "or_eq", "private",
	"protected", "public", "register", "reinterpret_cast", "requires", "return", "short",
	"signed", "sizeof", "static", "static_assert", "static_cast", "struct", "switch",
	"template", "this", "thread_local", "throw", "true", "try", "typedef", "typeid",
	"typename", "union", "unsigned", "using", "virtual", "void", "volatile", "wchar_t",
	"while", "xor", "xor_eq",
)

func toSet(words ...string) map[string]bool {
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[w] = true
	}
	return set
}
