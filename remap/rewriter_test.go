package remap

import "testing"

// TestRewriteClassClassRenamePropagation exercises §8 scenario 1: a
// class rename propagates into a field descriptor that names the
// renamed class, while the field's own name (unmapped) is untouched.
func TestRewriteClassClassRenamePropagation(t *testing.T) {
	lookup := newTestLookup(map[string]string{
		"p/Foo": "q/Foo",
		"p/Bar": "q/Bar",
	})

	tree := &ClassNode{
		Name:      "p/Foo",
		SuperName: "java/lang/Object",
		Fields: []*FieldNode{
			{Name: "bar", Desc: "Lp/Bar;"},
		},
	}

	if err := NewClassRewriter(lookup).RewriteClass(tree); err != nil {
		t.Fatalf("RewriteClass() error: %v", err)
	}

	if tree.Name != "q/Foo" {
		t.Errorf("class name = %q, want %q", tree.Name, "q/Foo")
	}
	if tree.Fields[0].Desc != "Lq/Bar;" {
		t.Errorf("field desc = %q, want %q", tree.Fields[0].Desc, "Lq/Bar;")
	}
	if tree.Fields[0].Name != "bar" {
		t.Errorf("field name = %q, want unchanged %q", tree.Fields[0].Name, "bar")
	}
}

// TestRewriteClassIdentityUnderEmptyMapping exercises §8's "identity
// under empty mapping" invariant across a tree that touches every kind
// of renameable site.
func TestRewriteClassIdentityUnderEmptyMapping(t *testing.T) {
	lookup := NewSimpleMappingLookup()

	tree := &ClassNode{
		Name:       "p/Foo",
		SuperName:  "p/Base",
		Interfaces: []string{"p/Iface"},
		Signature:  "Lp/Base<Lp/Foo;>;",
		Fields: []*FieldNode{
			{Name: "count", Desc: "I"},
			{Name: "other", Desc: "Lp/Other;", Signature: "Lp/Generic<Lp/Other;>;"},
		},
		Methods: []*MethodNode{
			{
				Name:       "run",
				Desc:       "(Lp/Other;)V",
				Exceptions: []string{"p/MyException"},
				Instructions: []Instruction{
					&FieldInsnNode{Owner: "p/Foo", Name: "count", Desc: "I"},
					&MethodInsnNode{Owner: "p/Other", Name: "go", Desc: "()V"},
					&TypeInsnNode{Desc: "p/Other"},
				},
			},
		},
		NestHostClass:       "p/Host",
		NestMembers:         []string{"p/Foo$Inner"},
		PermittedSubclasses: []string{"p/Foo$Sub"},
		InnerClasses: []*InnerClassNode{
			{Name: "p/Foo$Inner", OuterName: "p/Foo", InnerName: "Inner"},
		},
	}

	// Deep copy the bits we compare against, since RewriteClass mutates
	// in place.
	before := *tree
	beforeField0 := *tree.Fields[0]
	beforeField1 := *tree.Fields[1]
	beforeMethod := *tree.Methods[0]

	if err := NewClassRewriter(lookup).RewriteClass(tree); err != nil {
		t.Fatalf("RewriteClass() error: %v", err)
	}

	if tree.Name != before.Name {
		t.Errorf("class name changed: %q -> %q", before.Name, tree.Name)
	}
	if tree.SuperName != before.SuperName {
		t.Errorf("super name changed: %q -> %q", before.SuperName, tree.SuperName)
	}
	if tree.Signature != before.Signature {
		t.Errorf("signature changed: %q -> %q", before.Signature, tree.Signature)
	}
	if tree.Fields[0].Name != beforeField0.Name || tree.Fields[0].Desc != beforeField0.Desc {
		t.Errorf("field[0] changed")
	}
	if tree.Fields[1].Name != beforeField1.Name || tree.Fields[1].Desc != beforeField1.Desc || tree.Fields[1].Signature != beforeField1.Signature {
		t.Errorf("field[1] changed")
	}
	if tree.Methods[0].Name != beforeMethod.Name || tree.Methods[0].Desc != beforeMethod.Desc {
		t.Errorf("method changed")
	}
	fi := tree.Methods[0].Instructions[0].(*FieldInsnNode)
	if fi.Owner != "p/Foo" || fi.Name != "count" || fi.Desc != "I" {
		t.Errorf("field instruction changed: %+v", fi)
	}
	mi := tree.Methods[0].Instructions[1].(*MethodInsnNode)
	if mi.Owner != "p/Other" || mi.Name != "go" || mi.Desc != "()V" {
		t.Errorf("method instruction changed: %+v", mi)
	}
	ti := tree.Methods[0].Instructions[2].(*TypeInsnNode)
	if ti.Desc != "p/Other" {
		t.Errorf("type instruction changed: %+v", ti)
	}
}

// TestRewriteMethodArrayOwnerMethodCall exercises §8 scenario 6: an
// array-typed owner on a method call (e.g. the synthetic clone() on an
// array type) rewrites only the owner, as a field descriptor, leaving
// name and desc untouched.
func TestRewriteMethodArrayOwnerMethodCall(t *testing.T) {
	lookup := newTestLookup(map[string]string{"p/Foo": "q/Foo"})

	insn := &MethodInsnNode{Owner: "[Lp/Foo;", Name: "clone", Desc: "()Ljava/lang/Object;"}
	method := &MethodNode{Name: "m", Desc: "()V", Instructions: []Instruction{insn}}

	if err := NewClassRewriter(lookup).RewriteMethod("p/Caller", method, nil); err != nil {
		t.Fatalf("RewriteMethod() error: %v", err)
	}

	if insn.Owner != "[Lq/Foo;" {
		t.Errorf("owner = %q, want %q", insn.Owner, "[Lq/Foo;")
	}
	if insn.Name != "clone" {
		t.Errorf("name = %q, want unchanged %q", insn.Name, "clone")
	}
	if insn.Desc != "()Ljava/lang/Object;" {
		t.Errorf("desc = %q, want unchanged", insn.Desc)
	}
}

func TestRewriteFieldDescriptorOnlyRewrittenForObjectOrArray(t *testing.T) {
	lookup := newTestLookup(map[string]string{"p/Foo": "q/Foo"})
	rewriter := NewClassRewriter(lookup)

	field := &FieldNode{Name: "x", Desc: "I"}
	if err := rewriter.RewriteField("p/Foo", field, nil); err != nil {
		t.Fatalf("RewriteField() error: %v", err)
	}
	if field.Desc != "I" {
		t.Errorf("primitive field desc changed: %q", field.Desc)
	}
}

func TestRewriteFieldNameUsesUnmappedOwner(t *testing.T) {
	lookup := NewSimpleMappingLookup()
	lookup.RemapClass("p/Foo", "q/Foo")
	lookup.RemapMember(NewMemberRef("p/Foo", "bar", "I"), "baz")

	field := &FieldNode{Name: "bar", Desc: "I"}
	if err := NewClassRewriter(lookup).RewriteField("p/Foo", field, nil); err != nil {
		t.Fatalf("RewriteField() error: %v", err)
	}
	if field.Name != "baz" {
		t.Errorf("field name = %q, want %q", field.Name, "baz")
	}
}

func TestRewriteAnnotationValueEnumConstant(t *testing.T) {
	lookup := NewSimpleMappingLookup()
	lookup.RemapClass("p/Color", "q/Color")
	lookup.RemapMember(NewMemberRef("p/Color", "RED", "Lp/Color;"), "CRIMSON")

	rewriter := NewClassRewriter(lookup)
	ann := &AnnotationNode{
		Desc: "Lp/Marker;",
		Entries: []AnnotationEntry{
			{Name: "value", Value: EnumValue{OwnerDesc: "Lp/Color;", Name: "RED"}},
		},
	}
	lookup.RemapClass("p/Marker", "q/Marker")

	if err := rewriter.rewriteAnnotation(ann, newScratch()); err != nil {
		t.Fatalf("rewriteAnnotation() error: %v", err)
	}

	if ann.Desc != "Lq/Marker;" {
		t.Errorf("annotation desc = %q, want %q", ann.Desc, "Lq/Marker;")
	}
	ev := ann.Entries[0].Value.(EnumValue)
	if ev.Name != "CRIMSON" {
		t.Errorf("enum constant name = %q, want %q", ev.Name, "CRIMSON")
	}
	if ev.OwnerDesc != "Lq/Color;" {
		t.Errorf("enum owner desc = %q, want %q", ev.OwnerDesc, "Lq/Color;")
	}
}

func TestRewriteInvokeDynamicSAMOwner(t *testing.T) {
	lookup := NewSimpleMappingLookup()
	lookup.RemapMember(NewMemberRef("p/Runnable", "run", "()V"), "go")

	insn := &InvokeDynamicInsnNode{
		Name: "run",
		Desc: "()Lp/Runnable;",
		BootstrapArguments: []BSMArgument{
			BSMTypeArgument{Type: TypeConst{Sort: MethodSort, Desc: "()V"}},
		},
	}
	method := &MethodNode{Name: "m", Desc: "()V", Instructions: []Instruction{insn}}

	if err := NewClassRewriter(lookup).RewriteMethod("p/Caller", method, nil); err != nil {
		t.Fatalf("RewriteMethod() error: %v", err)
	}

	if insn.Name != "go" {
		t.Errorf("invokedynamic name = %q, want %q", insn.Name, "go")
	}
}

func TestRewriteLdcTypeConstant(t *testing.T) {
	lookup := newTestLookup(map[string]string{"p/Foo": "q/Foo"})
	insn := &LdcInsnNode{Constant: TypeConst{Sort: ObjectSort, Desc: "Lp/Foo;"}}
	method := &MethodNode{Name: "m", Desc: "()V", Instructions: []Instruction{insn}}

	if err := NewClassRewriter(lookup).RewriteMethod("p/Caller", method, nil); err != nil {
		t.Fatalf("RewriteMethod() error: %v", err)
	}

	tc := insn.Constant.(TypeConst)
	if tc.Desc != "Lq/Foo;" {
		t.Errorf("ldc constant desc = %q, want %q", tc.Desc, "Lq/Foo;")
	}
}

func TestRewriteFrameNodeStringEntries(t *testing.T) {
	lookup := newTestLookup(map[string]string{"p/Foo": "q/Foo"})
	frame := &FrameNode{
		Stack: []any{"p/Foo", 1},
		Local: []any{"[Lp/Foo;"},
	}
	method := &MethodNode{Name: "m", Desc: "()V", Instructions: []Instruction{frame}}

	if err := NewClassRewriter(lookup).RewriteMethod("p/Caller", method, nil); err != nil {
		t.Fatalf("RewriteMethod() error: %v", err)
	}

	if frame.Stack[0] != "q/Foo" {
		t.Errorf("frame stack[0] = %v, want %q", frame.Stack[0], "q/Foo")
	}
	if frame.Stack[1] != 1 {
		t.Errorf("frame stack[1] should be untouched, got %v", frame.Stack[1])
	}
	if frame.Local[0] != "[Lq/Foo;" {
		t.Errorf("frame local[0] = %v, want %q", frame.Local[0], "[Lq/Foo;")
	}
}

func TestRewriteBSMHandleArgument(t *testing.T) {
	lookup := NewSimpleMappingLookup()
	lookup.RemapClass("p/Foo", "q/Foo")
	lookup.RemapMember(NewMemberRef("p/Foo", "bar", "()V"), "baz")

	rewriter := NewClassRewriter(lookup)
	arg := BSMHandleArgument{Handle: Handle{Owner: "p/Foo", Name: "bar", Desc: "()V"}}

	out, err := rewriter.rewriteBSMArgument(arg)
	if err != nil {
		t.Fatalf("rewriteBSMArgument() error: %v", err)
	}
	h := out.(BSMHandleArgument).Handle
	if h.Owner != "q/Foo" || h.Name != "baz" {
		t.Errorf("handle = %+v, want owner q/Foo name baz", h)
	}
}

func TestRewriteBSMStringArgumentPassesThrough(t *testing.T) {
	rewriter := NewClassRewriter(NewSimpleMappingLookup())
	arg := BSMStringArgument{Value: "hello"}
	out, err := rewriter.rewriteBSMArgument(arg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.(BSMStringArgument).Value != "hello" {
		t.Errorf("string argument changed")
	}
}
