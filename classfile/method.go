package classfile

// MethodInfo is one method_info entry. As with FieldInfo,
// FromClassFile only ever needs Name and Descriptor off of it — the
// Code attribute, exceptions and annotations it also reads come off
// Attributes directly in that adapter, so the by-name attribute
// lookup, the <init>/<clinit> predicates and the dozen access-flag
// wrappers a full classfile library would expose are not reproduced
// here.
type MethodInfo struct {
	AccessFlags     AccessFlags
	NameIndex       uint16
	DescriptorIndex uint16
	Attributes      []AttributeInfo
}

func (m *MethodInfo) Name(cp ConstantPool) string {
	return cp.GetUtf8(m.NameIndex)
}

func (m *MethodInfo) Descriptor(cp ConstantPool) string {
	return cp.GetUtf8(m.DescriptorIndex)
}
