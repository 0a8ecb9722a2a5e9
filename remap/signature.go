package remap

import (
	"strings"

	"github.com/pkg/errors"
)

// ErrMalformedSignature is returned when RewriteSignature is given a
// truncated or unbalanced generic signature. The original this package
// was ported from leaves this case explicitly undefined; this port
// resolves that open question by bounds-checking every forward scan
// and failing loudly instead of reading past the end of the string.
var ErrMalformedSignature = errors.New("malformed signature")

// RewriteFieldDescriptor rewrites a single field descriptor: a
// primitive letter (B C D F I J S Z V), an object form "L<name>;", or
// an array form "[...desc". It returns the input unchanged (including
// string identity) when the descriptor names no class known to lookup,
// so that callers comparing by equality can cheaply detect "nothing to
// do".
func RewriteFieldDescriptor(lookup MappingLookup, desc string) string {
	changed, result := rewriteSingleDesc(lookup, desc)
	if !changed {
		return desc
	}
	return result
}

// rewriteSingleDesc finds the first 'L' in desc (the start of an
// object-type token, possibly preceded by '[' array markers) and
// rewrites only the internal name between 'L' and the trailing ';'.
// Primitive and primitive-array descriptors (no 'L' at all) are
// returned unchanged.
func rewriteSingleDesc(lookup MappingLookup, desc string) (bool, string) {
	idx := strings.IndexByte(desc, 'L')
	if idx == -1 {
		return false, desc
	}
	// desc[idx+1 : len(desc)-1] is the internal name; desc[len(desc)-1]
	// is assumed to be the terminating ';'.
	internalName := desc[idx+1 : len(desc)-1]
	newName, changed := lookup.GetRemappedClassNameFast(internalName)
	if !changed {
		return false, desc
	}
	var sb strings.Builder
	sb.WriteString(desc[:idx])
	sb.WriteByte('L')
	sb.WriteString(newName)
	sb.WriteByte(';')
	return true, sb.String()
}

// RewriteInternalName rewrites either a bare internal name or, if name
// begins with '[', an array field descriptor. This is the shape used
// by TypeInsn operands, frame-map entries, and module "uses" lists.
func RewriteInternalName(lookup MappingLookup, name string) string {
	if strings.HasPrefix(name, "[") {
		return RewriteFieldDescriptor(lookup, name)
	}
	return lookup.GetRemappedClassName(name)
}

// RewriteSignature rewrites a full generic signature or descriptor
// string (JVMS §4.7.9.1), reporting whether anything changed. The same
// routine is correct for field descriptors, method descriptors, field
// signatures, method signatures and (coincidentally, per the format's
// own grammar) class signatures — callers need not distinguish.
//
// Malformed input (an 'L'/'T' token never terminated by ';', or
// unbalanced '<'/'>') returns ErrMalformedSignature rather than
// reading past the end of sig or looping forever.
func RewriteSignature(lookup MappingLookup, sig string) (modified bool, result string, err error) {
	var scratch strings.Builder
	return RewriteSignatureScratch(lookup, &scratch, sig)
}

// RewriteSignatureScratch is RewriteSignature but lets the caller
// supply the output buffer, matching the source's use of a shared
// StringBuilder to avoid per-call allocation. scratch's contents
// before the call are ignored (it is reset) and its contents after the
// call are unspecified beyond the returned result string; it must not
// be shared across concurrent calls.
func RewriteSignatureScratch(lookup MappingLookup, scratch *strings.Builder, sig string) (modified bool, result string, err error) {
	scratch.Reset()
	modified, err = rewriteSignatureRange(lookup, scratch, sig, 0, len(sig))
	if err != nil {
		return false, "", err
	}
	if !modified {
		return false, sig, nil
	}
	return true, scratch.String(), nil
}

// rewriteSignatureRange is the recursive grammar-directed transducer
// over sig[start:end]. It emits into out and returns whether any
// class-name substitution happened anywhere in the range.
func rewriteSignatureRange(lookup MappingLookup, out *strings.Builder, sig string, start, end int) (bool, error) {
	if end < start || end > len(sig) {
		return false, errors.Wrapf(ErrMalformedSignature, "invalid range [%d:%d) in %q", start, end, sig)
	}
	if start == end {
		return false, nil
	}

	tok := sig[start]
	pos := start + 1

	switch tok {
	case 'L', 'T':
		// Scan forward for the two terminators that matter: ';' ends a
		// plain class-type/type-variable token; '<' begins a generic
		// argument list.
		for i := pos; i < end; i++ {
			switch sig[i] {
			case ';':
				internalName := sig[pos:i]
				newName, nameChanged := lookup.GetRemappedClassNameFast(internalName)
				out.WriteByte(tok)
				if nameChanged {
					out.WriteString(newName)
				} else {
					out.WriteString(internalName)
				}
				out.WriteByte(';')
				restChanged, err := rewriteSignatureRange(lookup, out, sig, i+1, end)
				if err != nil {
					return false, err
				}
				return nameChanged || restChanged, nil
			case '<':
				internalName := sig[pos:i]
				newName, nameChanged := lookup.GetRemappedClassNameFast(internalName)
				out.WriteByte('L')
				if nameChanged {
					out.WriteString(newName)
				} else {
					out.WriteString(internalName)
				}
				out.WriteByte('<')

				closeIdx, err := findMatchingGenericClose(sig, i, end)
				if err != nil {
					return false, err
				}
				innerChanged, err := rewriteSignatureRange(lookup, out, sig, i+1, closeIdx)
				if err != nil {
					return false, err
				}
				out.WriteByte('>')

				// The byte immediately following the closing '>' is
				// typically ';' but can rarely be '.' for inner-class
				// generic separators; pass it through unmodified.
				if closeIdx+1 >= end {
					return false, errors.Wrapf(ErrMalformedSignature, "truncated generic type at %d in %q", closeIdx, sig)
				}
				out.WriteByte(sig[closeIdx+1])
				restChanged, err := rewriteSignatureRange(lookup, out, sig, closeIdx+2, end)
				if err != nil {
					return false, err
				}
				return nameChanged || innerChanged || restChanged, nil
			}
		}
		return false, errors.Wrapf(ErrMalformedSignature, "unterminated %q token at %d in %q", string(tok), start, sig)
	default:
		out.WriteByte(tok)
		return rewriteSignatureRange(lookup, out, sig, pos, end)
	}
}

// findMatchingGenericClose returns the index of the '>' that closes the
// '<' at openIdx, tracking nested angle-bracket depth.
func findMatchingGenericClose(sig string, openIdx, end int) (int, error) {
	depth := 0
	for i := openIdx; i < end; i++ {
		switch sig[i] {
		case '<':
			depth++
		case '>':
			depth--
			if depth == 0 {
				return i, nil
			}
		}
	}
	return 0, errors.Wrapf(ErrMalformedSignature, "unbalanced '<' at %d in %q", openIdx, sig)
}
