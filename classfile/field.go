package classfile

// FieldInfo is one field_info entry. FromClassFile reads Name and
// Descriptor to build a FieldNode and walks Attributes itself looking
// for Signature and the annotation kinds it cares about, so the
// by-attribute-name lookup, access-flag predicates and descriptor
// convenience wrapper a general-purpose reader would carry here are
// left off; callers that need those can go through AccessFlags and
// ParseFieldDescriptor directly.
type FieldInfo struct {
	AccessFlags     AccessFlags
	NameIndex       uint16
	DescriptorIndex uint16
	Attributes      []AttributeInfo
}

func (f *FieldInfo) Name(cp ConstantPool) string {
	return cp.GetUtf8(f.NameIndex)
}

func (f *FieldInfo) Descriptor(cp ConstantPool) string {
	return cp.GetUtf8(f.DescriptorIndex)
}
