package classfile

// ClassFile is the decoded form of one .class file: the fixed header
// fields plus the constant pool every name and descriptor is indexed
// against. FromClassFile (in the remap package) is the only consumer
// in this repository, and it only ever resolves names through
// ClassName/SuperClassName/InterfaceNames/GetAttribute below — the
// class-kind predicates (is this an interface, an enum, a module...)
// and the by-name field/method lookups a general-purpose classfile
// library would offer are not exposed here because nothing in the
// rewriter needs to ask those questions; it walks Fields and Methods
// by position instead.
type ClassFile struct {
	MinorVersion uint16
	MajorVersion uint16
	ConstantPool ConstantPool
	AccessFlags  AccessFlags
	ThisClass    uint16
	SuperClass   uint16
	Interfaces   []uint16
	Fields       []FieldInfo
	Methods      []MethodInfo
	Attributes   []AttributeInfo
}

func (cf *ClassFile) ClassName() string {
	return cf.ConstantPool.GetClassName(cf.ThisClass)
}

func (cf *ClassFile) SuperClassName() string {
	if cf.SuperClass == 0 {
		return ""
	}
	return cf.ConstantPool.GetClassName(cf.SuperClass)
}

func (cf *ClassFile) InterfaceNames() []string {
	names := make([]string, len(cf.Interfaces))
	for i, idx := range cf.Interfaces {
		names[i] = cf.ConstantPool.GetClassName(idx)
	}
	return names
}

func (cf *ClassFile) GetAttribute(name string) *AttributeInfo {
	for i := range cf.Attributes {
		if cf.ConstantPool.GetUtf8(cf.Attributes[i].NameIndex) == name {
			return &cf.Attributes[i]
		}
	}
	return nil
}
