package remap

import "github.com/dhamidi/classremap/classfile"

// This file defines the Parsed Classfile Model the rewriter operates
// on: an ASM-tree-equivalent, already-resolved (no constant-pool
// indices) representation of a class. Producing one of these from
// bytes is explicitly out of scope for the core engine — see
// fromclassfile.go for this repository's adapter from the byte-level
// classfile package.

// ClassNode is a single parsed class, interface, enum, record or
// module-info. All name and descriptor fields are in the source
// namespace until a ClassRewriter mutates them in place.
type ClassNode struct {
	Name       string
	SuperName  string // empty for java/lang/Object and for module-info
	Interfaces []string
	Signature  string // empty if absent

	Access classfile.AccessFlags

	Fields  []*FieldNode
	Methods []*MethodNode

	InnerClasses []*InnerClassNode

	NestHostClass string // empty if absent
	NestMembers   []string

	OuterClass     string // empty if absent
	OuterMethod    string // empty if absent
	OuterMethodDesc string // empty if absent

	PermittedSubclasses []string
	RecordComponents    []*RecordComponentNode
	Module              *ModuleNode

	VisibleAnnotations       []*AnnotationNode
	InvisibleAnnotations     []*AnnotationNode
	VisibleTypeAnnotations   []*TypeAnnotationNode
	InvisibleTypeAnnotations []*TypeAnnotationNode
}

// FieldNode is a single field declaration.
type FieldNode struct {
	Name      string
	Desc      string
	Signature string // empty if absent
	Access    classfile.AccessFlags

	VisibleAnnotations       []*AnnotationNode
	InvisibleAnnotations     []*AnnotationNode
	VisibleTypeAnnotations   []*TypeAnnotationNode
	InvisibleTypeAnnotations []*TypeAnnotationNode
}

// MethodNode is a single method or constructor declaration.
type MethodNode struct {
	Name      string
	Desc      string
	Signature string // empty if absent
	Access    classfile.AccessFlags

	Exceptions []string

	VisibleAnnotations       []*AnnotationNode
	InvisibleAnnotations     []*AnnotationNode
	VisibleTypeAnnotations   []*TypeAnnotationNode
	InvisibleTypeAnnotations []*TypeAnnotationNode

	VisibleLocalVariableAnnotations   []*TypeAnnotationNode
	InvisibleLocalVariableAnnotations []*TypeAnnotationNode

	VisibleParameterAnnotations   [][]*AnnotationNode
	InvisibleParameterAnnotations [][]*AnnotationNode

	LocalVariables []*LocalVariableNode
	TryCatchBlocks []*TryCatchBlockNode

	// AnnotationDefault holds the default value of an annotation
	// element when MethodNode describes one; nil if absent. A numeric
	// constant (int64, float64, ...) is left untouched by the
	// rewriter, matching the source's special case.
	AnnotationDefault AnnotationValue

	Instructions []Instruction
}

// LocalVariableNode is a single entry of a method's local variable
// table. Name is never rewritten (renaming local-variable names is an
// explicit non-goal of the core engine).
type LocalVariableNode struct {
	Name      string
	Desc      string
	Signature string // empty if absent
	Index     int
}

// TryCatchBlockNode is a single exception handler range. Type is empty
// for a catch-all (finally) handler.
type TryCatchBlockNode struct {
	Type                     string
	VisibleTypeAnnotations   []*TypeAnnotationNode
	InvisibleTypeAnnotations []*TypeAnnotationNode
}

// InnerClassNode is a single entry of a class's InnerClasses attribute.
// InnerName (the short display name) is never rewritten, matching the
// source engine's behavior (noted there as deliberate, not merely
// unimplemented).
type InnerClassNode struct {
	Name      string
	OuterName string
	InnerName string
	Access    classfile.AccessFlags
}

// RecordComponentNode is a single component of a record class.
type RecordComponentNode struct {
	Name       string
	Descriptor string
	Signature  string // empty if absent

	VisibleAnnotations       []*AnnotationNode
	InvisibleAnnotations     []*AnnotationNode
	VisibleTypeAnnotations   []*TypeAnnotationNode
	InvisibleTypeAnnotations []*TypeAnnotationNode
}

// ModuleNode holds the subset of a module-info's Module attribute the
// rewriter touches: the main class and the set of service interfaces
// it uses. Requires/exports/opens/provides are left to the external
// model since no remapping operation this specification describes
// touches them.
type ModuleNode struct {
	MainClass string // empty if absent
	Uses      []string
}

// AnnotationNode is a single annotation instance: its type descriptor
// plus a flat list of (element name, value) entries.
type AnnotationNode struct {
	Desc    string
	Entries []AnnotationEntry
}

// AnnotationEntry is one (name, value) pair of an annotation. Name is
// the annotation element's name and is never rewritten.
type AnnotationEntry struct {
	Name  string
	Value AnnotationValue
}

// TypeAnnotationNode is an AnnotationNode that additionally targets a
// type-use site (JVMS §4.7.20). TypeRef and TypePath describe *where*
// the annotation applies and are opaque to renaming — only the
// embedded AnnotationNode participates in rewriting.
type TypeAnnotationNode struct {
	AnnotationNode
	TypeRef  uint32
	TypePath string
}

// AnnotationValue is the tagged union of shapes an annotation element's
// value can take. Concrete variants are TypeValue, EnumValue,
// NestedAnnotationValue, ListValue and ConstValue.
type AnnotationValue interface {
	isAnnotationValue()
}

// TypeValue is an annotation value of the form `Foo.class`, carrying a
// field/array descriptor.
type TypeValue struct {
	Desc string
}

func (TypeValue) isAnnotationValue() {}

// EnumValue is an annotation value naming one constant of an enum
// type: OwnerDesc is the enum type's field descriptor ("Lp/Color;")
// and Name is the constant's simple name.
type EnumValue struct {
	OwnerDesc string
	Name      string
}

func (EnumValue) isAnnotationValue() {}

// NestedAnnotationValue is an annotation value that is itself an
// annotation instance.
type NestedAnnotationValue struct {
	Annotation *AnnotationNode
}

func (NestedAnnotationValue) isAnnotationValue() {}

// ListValue is an annotation array value; JVMS array-typed annotation
// elements (including nested arrays) all go through this variant.
type ListValue struct {
	Values []AnnotationValue
}

func (ListValue) isAnnotationValue() {}

// ConstValue wraps a primitive, string, boxed-number or other constant
// annotation value that carries no class or member name and is never
// touched by the rewriter.
type ConstValue struct {
	Value any
}

func (ConstValue) isAnnotationValue() {}

// TypeSort distinguishes the different shapes of a "Type" constant
// (JVMS CONSTANT_Class / CONSTANT_MethodType) as used by bootstrap
// arguments and LDC constants.
type TypeSort int

const (
	ObjectSort TypeSort = iota
	ArraySort
	MethodSort
	PrimitiveSort
)

// TypeConst is a constant-pool Type value: either an object/array field
// descriptor, a method descriptor, or (rarely, and never rewritten) a
// primitive type.
type TypeConst struct {
	Sort TypeSort
	Desc string
}

// Handle is a method handle constant (JVMS CONSTANT_MethodHandle):
// Kind is the reference kind (getfield, invokevirtual, ...), Owner/
// Name/Desc identify the target member the same way a MethodInsnNode
// or FieldInsnNode would.
type Handle struct {
	Kind classfile.MethodHandleKind
	Owner string
	Name  string
	Desc  string
}

// Instruction is the tagged union of classfile-tree instruction kinds
// that participate in renaming. Every instruction kind not listed here
// (jumps, simple opcodes, line numbers, labels, ...) carries no
// renameable operand and is represented by OtherInsn so the
// instruction list can be walked uniformly without losing entries.
type Instruction interface {
	instructionNode()
}

// OtherInsn is a placeholder for any instruction kind that carries no
// class, member or descriptor operand (e.g. ILOAD, GOTO, a label, a
// line-number entry). The rewriter skips over these.
type OtherInsn struct{}

func (OtherInsn) instructionNode() {}

// FieldInsnNode is a GETFIELD/PUTFIELD/GETSTATIC/PUTSTATIC instruction.
type FieldInsnNode struct {
	Owner, Name, Desc string
}

func (*FieldInsnNode) instructionNode() {}

// MethodInsnNode is an INVOKEVIRTUAL/INVOKESPECIAL/INVOKESTATIC/
// INVOKEINTERFACE instruction.
type MethodInsnNode struct {
	Owner, Name, Desc string
	IsInterface       bool
}

func (*MethodInsnNode) instructionNode() {}

// InvokeDynamicInsnNode is an INVOKEDYNAMIC instruction: Name/Desc
// describe the call site itself, BootstrapMethod is the handle that
// produces the call site, and BootstrapArguments are its extra
// constant-pool arguments.
type InvokeDynamicInsnNode struct {
	Name, Desc         string
	BootstrapMethod    Handle
	BootstrapArguments []BSMArgument
}

func (*InvokeDynamicInsnNode) instructionNode() {}

// BSMArgument is one bootstrap-method argument; concrete variants are
// BSMTypeArgument, BSMHandleArgument and BSMStringArgument. Any other
// argument shape is a hard error per §4.D.6.
type BSMArgument interface {
	isBSMArgument()
}

type BSMTypeArgument struct{ Type TypeConst }

func (BSMTypeArgument) isBSMArgument() {}

type BSMHandleArgument struct{ Handle Handle }

func (BSMHandleArgument) isBSMArgument() {}

type BSMStringArgument struct{ Value string }

func (BSMStringArgument) isBSMArgument() {}

// TypeInsnNode is a NEW/ANEWARRAY/CHECKCAST/INSTANCEOF instruction.
type TypeInsnNode struct {
	Desc string
}

func (*TypeInsnNode) instructionNode() {}

// MultiANewArrayInsnNode is a MULTIANEWARRAY instruction.
type MultiANewArrayInsnNode struct {
	Desc string
	Dims int
}

func (*MultiANewArrayInsnNode) instructionNode() {}

// LdcInsnNode is a LDC/LDC_W/LDC2_W instruction. Constant is whatever
// constant the instruction loads; only a TypeConst value participates in
// renaming, everything else (strings, boxed numbers, handles loaded as
// constants) passes through unchanged.
type LdcInsnNode struct {
	Constant any
}

func (*LdcInsnNode) instructionNode() {}

// FrameNode is a stack-map frame (JVMS §4.7.4). Stack and Local entries
// are either a string (an internal name or array descriptor naming a
// verification type) or some other Go value (an int constant for
// TOP/INTEGER/... or a label for UNINITIALIZED); only string entries
// are rewritten.
type FrameNode struct {
	Stack []any
	Local []any
}

func (*FrameNode) instructionNode() {}
