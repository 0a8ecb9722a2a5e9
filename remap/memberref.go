// Package remap implements an in-memory renaming engine for parsed JVM
// classfile trees: a name dictionary (MappingLookup/MappingSink), a
// generic-signature and descriptor transducer, a classfile-tree rewriter,
// and a class-hierarchy "realm" analyzer that lets one rename decision
// cover every override of a member.
package remap

import "strings"

// MemberRef identifies a field or method by its declaring class, its
// simple name and its descriptor. Owner is a JVM internal name
// (slash-delimited). Desc distinguishes field from method by its first
// byte: '(' begins a method descriptor, anything else is a field
// descriptor.
//
// MemberRef is an immutable value type: once constructed it is safe to
// copy, compare and use as a map key.
type MemberRef struct {
	Owner string
	Name  string
	Desc  string
}

// NewMemberRef builds a MemberRef from its three components. No
// validation is performed; callers are expected to pass well-formed JVM
// names and descriptors.
func NewMemberRef(owner, name, desc string) MemberRef {
	return MemberRef{Owner: owner, Name: name, Desc: desc}
}

// IsMethod reports whether this reference names a method, as opposed to
// a field, by inspecting the first byte of the descriptor.
func (m MemberRef) IsMethod() bool {
	return strings.HasPrefix(m.Desc, "(")
}

// String renders the reference as "owner.name desc", useful for error
// messages and test failures.
func (m MemberRef) String() string {
	return m.Owner + "." + m.Name + " " + m.Desc
}
