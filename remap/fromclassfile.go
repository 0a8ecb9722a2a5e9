package remap

import "github.com/dhamidi/classremap/classfile"

// This file adapts the byte-level, constant-pool-indexed classfile
// package (this repository's copy of the teacher's JVM classfile
// parser) into the name-resolved ClassNode tree the rewriter operates
// on. Producing this adapter is this repository's own addition: the
// engine's external interfaces describe the Parsed Classfile Model
// abstractly and leave concrete conversion out of the core's scope.
//
// FromClassFile does not decode the bytecode instruction stream of a
// Code attribute into Instruction values: classfile.CodeAttribute
// exposes Code as an opaque []byte, and nothing in the classfile
// package itself ever decodes JVM opcodes (it stops at attribute
// structure). Callers that need MethodNode.Instructions populated must
// supply them via PopulateInstructions after decoding bytecode with a
// disassembler of their own; FromClassFile leaves that slice nil,
// consistently with the engine's existing no-op handling of empty
// instruction lists.

// FromClassFile converts a fully-parsed classfile.ClassFile into a
// ClassNode ready for a ClassRewriter. Every constant-pool reference is
// resolved to its string/value form; the index-based representation
// does not survive the conversion.
func FromClassFile(cf *classfile.ClassFile) *ClassNode {
	cp := cf.ConstantPool

	node := &ClassNode{
		Name:       cf.ClassName(),
		SuperName:  cf.SuperClassName(),
		Interfaces: cf.InterfaceNames(),
		Access:     cf.AccessFlags,
	}

	if sig := cf.GetAttribute("Signature"); sig != nil {
		if s := sig.AsSignature(); s != nil {
			node.Signature = cp.GetUtf8(s.SignatureIndex)
		}
	}

	for i := range cf.Fields {
		node.Fields = append(node.Fields, fieldFromInfo(cp, &cf.Fields[i]))
	}
	for i := range cf.Methods {
		node.Methods = append(node.Methods, methodFromInfo(cp, &cf.Methods[i]))
	}

	if inner := cf.GetAttribute("InnerClasses"); inner != nil {
		if ic := inner.AsInnerClasses(); ic != nil {
			for _, entry := range ic.Classes {
				in := &InnerClassNode{
					Name:      cp.GetClassName(entry.InnerClassInfoIndex),
					OuterName: cp.GetClassName(entry.OuterClassInfoIndex),
					InnerName: cp.GetUtf8(entry.InnerNameIndex),
					Access:    entry.InnerClassAccessFlags,
				}
				node.InnerClasses = append(node.InnerClasses, in)
			}
		}
	}

	if nh := cf.GetAttribute("NestHost"); nh != nil {
		if h := nh.AsNestHost(); h != nil {
			node.NestHostClass = cp.GetClassName(h.HostClassIndex)
		}
	}
	if nm := cf.GetAttribute("NestMembers"); nm != nil {
		if m := nm.AsNestMembers(); m != nil {
			for _, idx := range m.Classes {
				node.NestMembers = append(node.NestMembers, cp.GetClassName(idx))
			}
		}
	}
	if enc := cf.GetAttribute("EnclosingMethod"); enc != nil {
		if e := enc.AsEnclosingMethod(); e != nil {
			node.OuterClass = cp.GetClassName(e.ClassIndex)
			if e.MethodIndex != 0 {
				name, desc := cp.GetNameAndType(e.MethodIndex)
				node.OuterMethod = name
				node.OuterMethodDesc = desc
			}
		}
	}
	if ps := cf.GetAttribute("PermittedSubclasses"); ps != nil {
		if p := ps.AsPermittedSubclasses(); p != nil {
			for _, idx := range p.Classes {
				node.PermittedSubclasses = append(node.PermittedSubclasses, cp.GetClassName(idx))
			}
		}
	}
	if rec := cf.GetAttribute("Record"); rec != nil {
		if r := rec.AsRecord(); r != nil {
			for _, comp := range r.Components {
				rc := &RecordComponentNode{
					Name:       cp.GetUtf8(comp.NameIndex),
					Descriptor: cp.GetUtf8(comp.DescriptorIndex),
				}
				for i := range comp.Attributes {
					a := &comp.Attributes[i]
					if s := a.AsSignature(); s != nil {
						rc.Signature = cp.GetUtf8(s.SignatureIndex)
					}
					if rva := a.AsRuntimeVisibleAnnotations(); rva != nil {
						rc.VisibleAnnotations = annotationsFromInfo(cp, rva.Annotations)
					}
					if ria := a.AsRuntimeInvisibleAnnotations(); ria != nil {
						rc.InvisibleAnnotations = annotationsFromInfo(cp, ria.Annotations)
					}
					if rvt := a.AsRuntimeVisibleTypeAnnotations(); rvt != nil {
						rc.VisibleTypeAnnotations = typeAnnotationsFromInfo(cp, rvt.Annotations)
					}
					if rit := a.AsRuntimeInvisibleTypeAnnotations(); rit != nil {
						rc.InvisibleTypeAnnotations = typeAnnotationsFromInfo(cp, rit.Annotations)
					}
				}
				node.RecordComponents = append(node.RecordComponents, rc)
			}
		}
	}
	if mod := cf.GetAttribute("Module"); mod != nil {
		if m := mod.AsModule(); m != nil {
			module := &ModuleNode{}
			for _, idx := range m.Uses {
				module.Uses = append(module.Uses, cp.GetClassName(idx))
			}
			if mmc := cf.GetAttribute("ModuleMainClass"); mmc != nil {
				if mc := mmc.AsModuleMainClass(); mc != nil {
					module.MainClass = cp.GetClassName(mc.MainClassIndex)
				}
			}
			node.Module = module
		}
	}

	if rva := cf.GetAttribute("RuntimeVisibleAnnotations"); rva != nil {
		if a := rva.AsRuntimeVisibleAnnotations(); a != nil {
			node.VisibleAnnotations = annotationsFromInfo(cp, a.Annotations)
		}
	}
	if ria := cf.GetAttribute("RuntimeInvisibleAnnotations"); ria != nil {
		if a := ria.AsRuntimeInvisibleAnnotations(); a != nil {
			node.InvisibleAnnotations = annotationsFromInfo(cp, a.Annotations)
		}
	}
	if rvt := cf.GetAttribute("RuntimeVisibleTypeAnnotations"); rvt != nil {
		if a := rvt.AsRuntimeVisibleTypeAnnotations(); a != nil {
			node.VisibleTypeAnnotations = typeAnnotationsFromInfo(cp, a.Annotations)
		}
	}
	if rit := cf.GetAttribute("RuntimeInvisibleTypeAnnotations"); rit != nil {
		if a := rit.AsRuntimeInvisibleTypeAnnotations(); a != nil {
			node.InvisibleTypeAnnotations = typeAnnotationsFromInfo(cp, a.Annotations)
		}
	}

	return node
}

func fieldFromInfo(cp classfile.ConstantPool, f *classfile.FieldInfo) *FieldNode {
	field := &FieldNode{
		Name:   f.Name(cp),
		Desc:   f.Descriptor(cp),
		Access: f.AccessFlags,
	}
	for i := range f.Attributes {
		a := &f.Attributes[i]
		if s := a.AsSignature(); s != nil {
			field.Signature = cp.GetUtf8(s.SignatureIndex)
		}
		if rva := a.AsRuntimeVisibleAnnotations(); rva != nil {
			field.VisibleAnnotations = annotationsFromInfo(cp, rva.Annotations)
		}
		if ria := a.AsRuntimeInvisibleAnnotations(); ria != nil {
			field.InvisibleAnnotations = annotationsFromInfo(cp, ria.Annotations)
		}
		if rvt := a.AsRuntimeVisibleTypeAnnotations(); rvt != nil {
			field.VisibleTypeAnnotations = typeAnnotationsFromInfo(cp, rvt.Annotations)
		}
		if rit := a.AsRuntimeInvisibleTypeAnnotations(); rit != nil {
			field.InvisibleTypeAnnotations = typeAnnotationsFromInfo(cp, rit.Annotations)
		}
	}
	return field
}

func methodFromInfo(cp classfile.ConstantPool, m *classfile.MethodInfo) *MethodNode {
	method := &MethodNode{
		Name:   m.Name(cp),
		Desc:   m.Descriptor(cp),
		Access: m.AccessFlags,
	}
	for i := range m.Attributes {
		a := &m.Attributes[i]
		if s := a.AsSignature(); s != nil {
			method.Signature = cp.GetUtf8(s.SignatureIndex)
		}
		if ex := a.AsExceptions(); ex != nil {
			for _, idx := range ex.ExceptionIndexTable {
				method.Exceptions = append(method.Exceptions, cp.GetClassName(idx))
			}
		}
		if rva := a.AsRuntimeVisibleAnnotations(); rva != nil {
			method.VisibleAnnotations = annotationsFromInfo(cp, rva.Annotations)
		}
		if ria := a.AsRuntimeInvisibleAnnotations(); ria != nil {
			method.InvisibleAnnotations = annotationsFromInfo(cp, ria.Annotations)
		}
		if rvt := a.AsRuntimeVisibleTypeAnnotations(); rvt != nil {
			method.VisibleTypeAnnotations = typeAnnotationsFromInfo(cp, rvt.Annotations)
		}
		if rit := a.AsRuntimeInvisibleTypeAnnotations(); rit != nil {
			method.InvisibleTypeAnnotations = typeAnnotationsFromInfo(cp, rit.Annotations)
		}
		if rvpa := a.AsRuntimeVisibleParameterAnnotations(); rvpa != nil {
			for _, group := range rvpa.ParameterAnnotations {
				method.VisibleParameterAnnotations = append(method.VisibleParameterAnnotations, annotationsFromInfo(cp, group))
			}
		}
		if ripa := a.AsRuntimeInvisibleParameterAnnotations(); ripa != nil {
			for _, group := range ripa.ParameterAnnotations {
				method.InvisibleParameterAnnotations = append(method.InvisibleParameterAnnotations, annotationsFromInfo(cp, group))
			}
		}
		if ad := a.AsAnnotationDefault(); ad != nil {
			method.AnnotationDefault = annotationValueFromInfo(cp, ad.DefaultValue)
		}
		if code := a.AsCode(); code != nil {
			for j := range code.Attributes {
				ca := &code.Attributes[j]
				if lvt := ca.AsLocalVariableTable(); lvt != nil {
					for _, e := range lvt.LocalVariableTable {
						method.LocalVariables = append(method.LocalVariables, &LocalVariableNode{
							Name:  cp.GetUtf8(e.NameIndex),
							Desc:  cp.GetUtf8(e.DescriptorIndex),
							Index: int(e.Index),
						})
					}
				}
				if lvtt := ca.AsLocalVariableTypeTable(); lvtt != nil {
					for _, e := range lvtt.LocalVariableTypeTable {
						for _, lv := range method.LocalVariables {
							if lv.Index == int(e.Index) && lv.Name == cp.GetUtf8(e.NameIndex) {
								lv.Signature = cp.GetUtf8(e.SignatureIndex)
							}
						}
					}
				}
			}
			for _, ex := range code.ExceptionTable {
				tcb := &TryCatchBlockNode{}
				if ex.CatchType != 0 {
					tcb.Type = cp.GetClassName(ex.CatchType)
				}
				method.TryCatchBlocks = append(method.TryCatchBlocks, tcb)
			}
		}
	}
	return method
}

func annotationsFromInfo(cp classfile.ConstantPool, anns []classfile.Annotation) []*AnnotationNode {
	out := make([]*AnnotationNode, 0, len(anns))
	for _, a := range anns {
		out = append(out, annotationFromInfo(cp, a))
	}
	return out
}

func annotationFromInfo(cp classfile.ConstantPool, a classfile.Annotation) *AnnotationNode {
	node := &AnnotationNode{Desc: cp.GetUtf8(a.TypeIndex)}
	for _, pair := range a.ElementValuePairs {
		node.Entries = append(node.Entries, AnnotationEntry{
			Name:  cp.GetUtf8(pair.ElementNameIndex),
			Value: annotationValueFromInfo(cp, pair.Value),
		})
	}
	return node
}

func typeAnnotationsFromInfo(cp classfile.ConstantPool, anns []classfile.TypeAnnotation) []*TypeAnnotationNode {
	out := make([]*TypeAnnotationNode, 0, len(anns))
	for _, a := range anns {
		base := annotationFromInfo(cp, classfile.Annotation{
			TypeIndex:         a.TypeIndex,
			ElementValuePairs: a.ElementValuePairs,
		})
		out = append(out, &TypeAnnotationNode{
			AnnotationNode: *base,
			TypeRef:        uint32(a.TargetType)<<24 | uint32(len(a.TargetInfo)),
			TypePath:       typePathString(a.TargetPath),
		})
	}
	return out
}

func typePathString(path []classfile.TypePathEntry) string {
	if len(path) == 0 {
		return ""
	}
	buf := make([]byte, 0, len(path)*2)
	for _, p := range path {
		buf = append(buf, p.TypePathKind, p.TypeArgumentIndex)
	}
	return string(buf)
}

func annotationValueFromInfo(cp classfile.ConstantPool, ev classfile.ElementValue) AnnotationValue {
	switch ev.Tag {
	case 'c':
		if idx, ok := ev.Value.(uint16); ok {
			return TypeValue{Desc: cp.GetUtf8(idx)}
		}
		return ConstValue{}
	case 'e':
		if enum, ok := ev.Value.(classfile.EnumConstValue); ok {
			return EnumValue{
				OwnerDesc: cp.GetUtf8(enum.TypeNameIndex),
				Name:      cp.GetUtf8(enum.ConstNameIndex),
			}
		}
		return ConstValue{}
	case '@':
		if ann, ok := ev.Value.(classfile.Annotation); ok {
			return NestedAnnotationValue{Annotation: annotationFromInfo(cp, ann)}
		}
		return ConstValue{}
	case '[':
		if arr, ok := ev.Value.(classfile.ArrayValue); ok {
			values := make([]AnnotationValue, 0, len(arr.Values))
			for _, v := range arr.Values {
				values = append(values, annotationValueFromInfo(cp, v))
			}
			return ListValue{Values: values}
		}
		return ConstValue{}
	case 's':
		if idx, ok := ev.Value.(uint16); ok {
			return ConstValue{Value: cp.GetUtf8(idx)}
		}
		return ConstValue{}
	case 'I', 'B', 'C', 'S', 'Z':
		if idx, ok := ev.Value.(uint16); ok {
			if v, ok := cp.GetInteger(idx); ok {
				return ConstValue{Value: v}
			}
		}
		return ConstValue{}
	case 'J':
		if idx, ok := ev.Value.(uint16); ok {
			if v, ok := cp.GetLong(idx); ok {
				return ConstValue{Value: v}
			}
		}
		return ConstValue{}
	case 'F':
		if idx, ok := ev.Value.(uint16); ok {
			if v, ok := cp.GetFloat(idx); ok {
				return ConstValue{Value: v}
			}
		}
		return ConstValue{}
	case 'D':
		if idx, ok := ev.Value.(uint16); ok {
			if v, ok := cp.GetDouble(idx); ok {
				return ConstValue{Value: v}
			}
		}
		return ConstValue{}
	default:
		return ConstValue{}
	}
}

// PopulateInstructions attaches a decoded instruction list to method,
// replacing whatever FromClassFile left there (always nil). Decoding
// the raw bytecode stream itself is left to a caller-supplied
// disassembler; this function exists purely as the documented seam
// between "classfile bytes" and "rewriter input" so that plugging in an
// opcode decoder later does not require changing this file.
func PopulateInstructions(method *MethodNode, instructions []Instruction) {
	method.Instructions = instructions
}
