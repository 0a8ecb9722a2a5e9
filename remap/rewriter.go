package remap

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/tliron/commonlog"
)

// ErrUnexpectedBSMArgument is returned when a bootstrap-method argument
// has a shape this engine does not recognize — either a malformed
// class or a newer classfile feature. LDC constants of unrecognized
// shape are passed through unchanged instead.
var ErrUnexpectedBSMArgument = errors.New("unexpected bootstrap method argument")

// ClassRewriter traverses a parsed class tree and rewrites every site
// that can textually name a class or member, using a MappingLookup to
// decide destination names and RewriteSignature/RewriteFieldDescriptor
// to reconstruct descriptors and generic signatures.
//
// A ClassRewriter holds no per-call state beyond its MappingLookup: the
// same instance may rewrite many class trees back to back, and may be
// shared across goroutines *provided* the underlying MappingLookup is
// not concurrently mutated (see the package-level concurrency notes on
// SimpleMappingLookup). There is no parallelism within a single
// RewriteClass call.
type ClassRewriter struct {
	Lookup MappingLookup

	// Logger, if non-nil, receives a Debug-level trace of every class
	// renamed by this rewriter. A nil Logger performs no logging; this
	// mirrors the teacher codebase's use of commonlog throughout
	// java/codebase for optional diagnostic trace.
	Logger commonlog.Logger
}

// NewClassRewriter returns a ClassRewriter bound to lookup. Logger is
// left nil (no logging); set ClassRewriter.Logger directly to enable trace.
func NewClassRewriter(lookup MappingLookup) *ClassRewriter {
	return &ClassRewriter{Lookup: lookup}
}

func (r *ClassRewriter) logf(format string, args ...any) {
	if r.Logger == nil {
		return
	}
	r.Logger.Debugf(format, args...)
}

// newScratch allocates, per call, the *strings.Builder this
// rewriter's signature/descriptor helpers reuse internally. Exposing it
// as a parameter (rather than a field) keeps ClassRewriter safe to
// share across concurrent RewriteClass calls against different trees.
func newScratch() *strings.Builder {
	return &strings.Builder{}
}

// rewriteSignature is a small convenience wrapper that calls
// RewriteSignatureScratch with this rewriter's Lookup; a malformed
// signature comes back as a returned error, never as a panic.
func (r *ClassRewriter) rewriteSignature(scratch *strings.Builder, sig string) (bool, string, error) {
	return RewriteSignatureScratch(r.Lookup, scratch, sig)
}

// RewriteClass performs every renaming §4.D.1 describes on tree, in
// place. The order is significant only in that class.Name must be
// renamed last, because earlier steps feed the unmapped class name as
// "owner" to member lookups.
func (r *ClassRewriter) RewriteClass(tree *ClassNode) error {
	scratch := newScratch()

	// 1. Fields.
	for _, f := range tree.Fields {
		if err := r.RewriteField(tree.Name, f, scratch); err != nil {
			return errors.Wrapf(err, "rewriting field %s.%s", tree.Name, f.Name)
		}
	}

	// 2. Inner classes: rename outer_name and name, leave inner_name.
	for _, ic := range tree.InnerClasses {
		ic.OuterName = r.Lookup.GetRemappedClassName(ic.OuterName)
		ic.Name = r.Lookup.GetRemappedClassName(ic.Name)
	}

	// 3. Interfaces.
	for i, iface := range tree.Interfaces {
		tree.Interfaces[i] = r.Lookup.GetRemappedClassName(iface)
	}

	// 4. Class-level annotation lists.
	if err := r.rewriteTypeAnnotations(tree.InvisibleTypeAnnotations, scratch); err != nil {
		return err
	}
	if err := r.rewriteAnnotations(tree.InvisibleAnnotations, scratch); err != nil {
		return err
	}
	if err := r.rewriteTypeAnnotations(tree.VisibleTypeAnnotations, scratch); err != nil {
		return err
	}
	if err := r.rewriteAnnotations(tree.VisibleAnnotations, scratch); err != nil {
		return err
	}

	// 5. Methods.
	for _, m := range tree.Methods {
		if err := r.RewriteMethod(tree.Name, m, scratch); err != nil {
			return errors.Wrapf(err, "rewriting method %s.%s%s", tree.Name, m.Name, m.Desc)
		}
	}

	// 6. Module.
	if tree.Module != nil {
		if tree.Module.MainClass != "" {
			tree.Module.MainClass = r.Lookup.GetRemappedClassName(tree.Module.MainClass)
		}
		for i, use := range tree.Module.Uses {
			tree.Module.Uses[i] = RewriteInternalName(r.Lookup, use)
		}
	}

	// 7. Nest host.
	if tree.NestHostClass != "" {
		tree.NestHostClass = r.Lookup.GetRemappedClassName(tree.NestHostClass)
	}

	// 8. Nest members.
	for i, nm := range tree.NestMembers {
		tree.NestMembers[i] = r.Lookup.GetRemappedClassName(nm)
	}

	// 9. Outer class / outer method, outer method keyed on the
	// *unmapped* outer class, computed before outer_class itself is
	// overwritten.
	if tree.OuterClass != "" {
		if tree.OuterMethod != "" && tree.OuterMethodDesc != "" {
			tree.OuterMethod = r.Lookup.GetRemappedMethodName(tree.OuterClass, tree.OuterMethod, tree.OuterMethodDesc)
		}
		tree.OuterClass = r.Lookup.GetRemappedClassName(tree.OuterClass)
	}

	// 10. Outer method descriptor.
	if tree.OuterMethodDesc != "" {
		_, newDesc, err := r.rewriteSignature(scratch, tree.OuterMethodDesc)
		if err != nil {
			return errors.Wrap(err, "rewriting outer method descriptor")
		}
		tree.OuterMethodDesc = newDesc
	}

	// 11. Permitted subclasses.
	for i, ps := range tree.PermittedSubclasses {
		tree.PermittedSubclasses[i] = r.Lookup.GetRemappedClassName(ps)
	}

	// 12. Record components.
	for _, rc := range tree.RecordComponents {
		if err := r.rewriteRecordComponent(rc, scratch); err != nil {
			return errors.Wrapf(err, "rewriting record component %s.%s", tree.Name, rc.Name)
		}
	}

	// 13. Class-level signature.
	if tree.Signature != "" {
		_, newSig, err := r.rewriteSignature(scratch, tree.Signature)
		if err != nil {
			return errors.Wrap(err, "rewriting class signature")
		}
		tree.Signature = newSig
	}

	// 14. Super name.
	if tree.SuperName != "" {
		tree.SuperName = r.Lookup.GetRemappedClassName(tree.SuperName)
	}

	// 15. Class name, last.
	oldName := tree.Name
	tree.Name = r.Lookup.GetRemappedClassName(tree.Name)
	r.logf("rewrite_class: %s -> %s", oldName, tree.Name)

	return nil
}

func (r *ClassRewriter) rewriteRecordComponent(rc *RecordComponentNode, scratch *strings.Builder) error {
	_, newDesc, err := r.rewriteSignature(scratch, rc.Descriptor)
	if err != nil {
		return err
	}
	rc.Descriptor = newDesc

	if err := r.rewriteTypeAnnotations(rc.InvisibleTypeAnnotations, scratch); err != nil {
		return err
	}
	if err := r.rewriteAnnotations(rc.InvisibleAnnotations, scratch); err != nil {
		return err
	}
	if err := r.rewriteTypeAnnotations(rc.VisibleTypeAnnotations, scratch); err != nil {
		return err
	}
	if err := r.rewriteAnnotations(rc.VisibleAnnotations, scratch); err != nil {
		return err
	}

	if rc.Signature != "" {
		_, newSig, err := r.rewriteSignature(scratch, rc.Signature)
		if err != nil {
			return err
		}
		rc.Signature = newSig
	}
	return nil
}

// RewriteField performs every renaming §4.D.2 describes on field, in
// place. owner must be the class's *unmapped* name.
func (r *ClassRewriter) RewriteField(owner string, field *FieldNode, scratch *strings.Builder) error {
	if scratch == nil {
		scratch = newScratch()
	}

	field.Name = r.Lookup.GetRemappedFieldName(owner, field.Name, field.Desc)

	if strings.HasPrefix(field.Desc, "[") || strings.HasPrefix(field.Desc, "L") {
		field.Desc = RewriteFieldDescriptor(r.Lookup, field.Desc)
		if field.Signature != "" {
			_, newSig, err := r.rewriteSignature(scratch, field.Signature)
			if err != nil {
				return err
			}
			field.Signature = newSig
		}
	}

	if err := r.rewriteTypeAnnotations(field.InvisibleTypeAnnotations, scratch); err != nil {
		return err
	}
	if err := r.rewriteAnnotations(field.InvisibleAnnotations, scratch); err != nil {
		return err
	}
	if err := r.rewriteAnnotations(field.VisibleAnnotations, scratch); err != nil {
		return err
	}
	if err := r.rewriteTypeAnnotations(field.VisibleTypeAnnotations, scratch); err != nil {
		return err
	}
	return nil
}

// RewriteMethod performs every renaming §4.D.3 describes on method, in
// place. owner must be the class's *unmapped* name.
func (r *ClassRewriter) RewriteMethod(owner string, method *MethodNode, scratch *strings.Builder) error {
	if scratch == nil {
		scratch = newScratch()
	}

	method.Name = r.Lookup.GetRemappedMethodName(owner, method.Name, method.Desc)

	for i, exc := range method.Exceptions {
		method.Exceptions[i] = r.Lookup.GetRemappedClassName(exc)
	}

	if err := r.rewriteTypeAnnotations(method.InvisibleTypeAnnotations, scratch); err != nil {
		return err
	}
	if err := r.rewriteTypeAnnotations(method.InvisibleLocalVariableAnnotations, scratch); err != nil {
		return err
	}
	if err := r.rewriteAnnotations(method.InvisibleAnnotations, scratch); err != nil {
		return err
	}
	if err := r.rewriteAnnotations(method.VisibleAnnotations, scratch); err != nil {
		return err
	}
	if err := r.rewriteTypeAnnotations(method.VisibleTypeAnnotations, scratch); err != nil {
		return err
	}
	if err := r.rewriteTypeAnnotations(method.VisibleLocalVariableAnnotations, scratch); err != nil {
		return err
	}

	for _, params := range method.InvisibleParameterAnnotations {
		if err := r.rewriteAnnotations(params, scratch); err != nil {
			return err
		}
	}
	for _, params := range method.VisibleParameterAnnotations {
		if err := r.rewriteAnnotations(params, scratch); err != nil {
			return err
		}
	}

	for _, lv := range method.LocalVariables {
		lv.Desc = RewriteFieldDescriptor(r.Lookup, lv.Desc)
		if lv.Signature != "" {
			_, newSig, err := r.rewriteSignature(scratch, lv.Signature)
			if err != nil {
				return err
			}
			lv.Signature = newSig
		}
	}

	for _, tcb := range method.TryCatchBlocks {
		if tcb.Type != "" {
			tcb.Type = r.Lookup.GetRemappedClassName(tcb.Type)
		}
		if err := r.rewriteTypeAnnotations(tcb.VisibleTypeAnnotations, scratch); err != nil {
			return err
		}
		if err := r.rewriteTypeAnnotations(tcb.InvisibleTypeAnnotations, scratch); err != nil {
			return err
		}
	}

	_, newDesc, err := r.rewriteSignature(scratch, method.Desc)
	if err != nil {
		return errors.Wrap(err, "rewriting method descriptor")
	}
	method.Desc = newDesc

	if method.Signature != "" {
		_, newSig, err := r.rewriteSignature(scratch, method.Signature)
		if err != nil {
			return err
		}
		method.Signature = newSig
	}

	if method.AnnotationDefault != nil {
		if _, isConst := method.AnnotationDefault.(ConstValue); !isConst {
			newVal, err := r.rewriteAnnotationValue(method.AnnotationDefault, scratch)
			if err != nil {
				return err
			}
			method.AnnotationDefault = newVal
		}
	}

	for _, insn := range method.Instructions {
		if err := r.rewriteInstruction(owner, insn, scratch); err != nil {
			return err
		}
	}

	return nil
}

func (r *ClassRewriter) rewriteInstruction(owner string, insn Instruction, scratch *strings.Builder) error {
	switch ins := insn.(type) {
	case *FieldInsnNode:
		// Field-name lookup happens before owner is overwritten.
		ins.Name = r.Lookup.GetRemappedFieldName(ins.Owner, ins.Name, ins.Desc)
		ins.Desc = RewriteFieldDescriptor(r.Lookup, ins.Desc)
		ins.Owner = r.Lookup.GetRemappedClassName(ins.Owner)

	case *FrameNode:
		for i, entry := range ins.Stack {
			if s, ok := entry.(string); ok {
				ins.Stack[i] = RewriteInternalName(r.Lookup, s)
			}
		}
		for i, entry := range ins.Local {
			if s, ok := entry.(string); ok {
				ins.Local[i] = RewriteInternalName(r.Lookup, s)
			}
		}

	case *InvokeDynamicInsnNode:
		// The call site's own descriptor names the SAM interface as
		// its return type; extract that internal name and use it as
		// the owner for the call site's name lookup, keyed by the
		// first bootstrap argument's descriptor (a method-type Type).
		if samOwner, ok := samInterfaceOwner(ins.Desc); ok {
			keyDesc := ins.Desc
			if len(ins.BootstrapArguments) > 0 {
				if ta, ok := ins.BootstrapArguments[0].(BSMTypeArgument); ok && ta.Type.Sort == MethodSort {
					keyDesc = ta.Type.Desc
				}
			}
			ins.Name = r.Lookup.GetRemappedMethodName(samOwner, ins.Name, keyDesc)
		}
		for i := len(ins.BootstrapArguments) - 1; i >= 0; i-- {
			newArg, err := r.rewriteBSMArgument(ins.BootstrapArguments[i])
			if err != nil {
				return err
			}
			ins.BootstrapArguments[i] = newArg
		}
		_, newDesc, err := r.rewriteSignature(scratch, ins.Desc)
		if err != nil {
			return err
		}
		ins.Desc = newDesc

	case *LdcInsnNode:
		if tc, ok := ins.Constant.(TypeConst); ok {
			changed, newDesc := rewriteSingleDesc(r.Lookup, tc.Desc)
			if changed {
				tc.Desc = newDesc
				ins.Constant = tc
			}
		}

	case *MethodInsnNode:
		if strings.HasPrefix(ins.Owner, "[") {
			ins.Owner = RewriteFieldDescriptor(r.Lookup, ins.Owner)
		} else {
			ins.Name = r.Lookup.GetRemappedMethodName(ins.Owner, ins.Name, ins.Desc)
			ins.Owner = r.Lookup.GetRemappedClassName(ins.Owner)
		}
		_, newDesc, err := r.rewriteSignature(scratch, ins.Desc)
		if err != nil {
			return err
		}
		ins.Desc = newDesc

	case *MultiANewArrayInsnNode:
		ins.Desc = RewriteFieldDescriptor(r.Lookup, ins.Desc)

	case *TypeInsnNode:
		ins.Desc = RewriteInternalName(r.Lookup, ins.Desc)
	}

	return nil
}

// samInterfaceOwner extracts the internal name of an invokedynamic call
// site descriptor's return type, which names the functional interface
// the call site implements. It returns false for a void or primitive
// return type, which cannot be a SAM interface.
func samInterfaceOwner(desc string) (string, bool) {
	idx := strings.LastIndexByte(desc, ')')
	if idx == -1 || idx+1 >= len(desc) {
		return "", false
	}
	ret := desc[idx+1:]
	if !strings.HasPrefix(ret, "L") || !strings.HasSuffix(ret, ";") {
		return "", false
	}
	return ret[1 : len(ret)-1], true
}

func (r *ClassRewriter) rewriteBSMArgument(arg BSMArgument) (BSMArgument, error) {
	switch a := arg.(type) {
	case BSMTypeArgument:
		switch a.Type.Sort {
		case MethodSort:
			_, newDesc, err := RewriteSignature(r.Lookup, a.Type.Desc)
			if err != nil {
				return nil, err
			}
			a.Type.Desc = newDesc
			return a, nil
		case ObjectSort:
			a.Type.Desc = RewriteInternalName(r.Lookup, a.Type.Desc)
			return a, nil
		default:
			return nil, errors.Wrapf(ErrUnexpectedBSMArgument, "type sort %d", a.Type.Sort)
		}

	case BSMHandleArgument:
		h := a.Handle
		newName := r.Lookup.GetRemappedMethodName(h.Owner, h.Name, h.Desc)
		newOwner := r.Lookup.GetRemappedClassName(h.Owner)
		_, newDesc, err := RewriteSignature(r.Lookup, h.Desc)
		if err != nil {
			return nil, err
		}
		if newName != h.Name || newOwner != h.Owner || newDesc != h.Desc {
			h.Name, h.Owner, h.Desc = newName, newOwner, newDesc
		}
		return BSMHandleArgument{Handle: h}, nil

	case BSMStringArgument:
		return a, nil

	default:
		return nil, errors.Wrapf(ErrUnexpectedBSMArgument, "%T", arg)
	}
}

func (r *ClassRewriter) rewriteAnnotations(list []*AnnotationNode, scratch *strings.Builder) error {
	for _, a := range list {
		if err := r.rewriteAnnotation(a, scratch); err != nil {
			return err
		}
	}
	return nil
}

func (r *ClassRewriter) rewriteTypeAnnotations(list []*TypeAnnotationNode, scratch *strings.Builder) error {
	for _, a := range list {
		if err := r.rewriteAnnotation(&a.AnnotationNode, scratch); err != nil {
			return err
		}
	}
	return nil
}

// rewriteAnnotation performs §4.D.4: the annotation's own descriptor is
// rewritten, then every value is recursed into (keys are untouched).
func (r *ClassRewriter) rewriteAnnotation(a *AnnotationNode, scratch *strings.Builder) error {
	if changed, newDesc := rewriteSingleDesc(r.Lookup, a.Desc); changed {
		a.Desc = newDesc
	}
	for i := range a.Entries {
		newVal, err := r.rewriteAnnotationValue(a.Entries[i].Value, scratch)
		if err != nil {
			return err
		}
		a.Entries[i].Value = newVal
	}
	return nil
}

// rewriteAnnotationValue performs §4.D.5.
func (r *ClassRewriter) rewriteAnnotationValue(v AnnotationValue, scratch *strings.Builder) (AnnotationValue, error) {
	switch val := v.(type) {
	case TypeValue:
		_, newDesc, err := r.rewriteSignature(scratch, val.Desc)
		if err != nil {
			return nil, err
		}
		if newDesc != val.Desc {
			val.Desc = newDesc
		}
		return val, nil

	case EnumValue:
		newName := r.Lookup.GetRemappedFieldName(internalNameOf(val.OwnerDesc), val.Name, val.OwnerDesc)
		newOwnerDesc := RewriteFieldDescriptor(r.Lookup, val.OwnerDesc)
		val.Name = newName
		val.OwnerDesc = newOwnerDesc
		return val, nil

	case NestedAnnotationValue:
		if err := r.rewriteAnnotation(val.Annotation, scratch); err != nil {
			return nil, err
		}
		return val, nil

	case ListValue:
		for i := len(val.Values) - 1; i >= 0; i-- {
			newElem, err := r.rewriteAnnotationValue(val.Values[i], scratch)
			if err != nil {
				return nil, err
			}
			val.Values[i] = newElem
		}
		return val, nil

	default:
		return v, nil
	}
}

// internalNameOf strips the leading 'L' and trailing ';' from a field
// descriptor of the form "Lp/Name;" to get the bare internal name.
func internalNameOf(desc string) string {
	if strings.HasPrefix(desc, "L") && strings.HasSuffix(desc, ";") {
		return desc[1 : len(desc)-1]
	}
	return desc
}
