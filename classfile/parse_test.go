package classfile

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
)

// classBuilder hand-assembles the byte stream Parse expects, so the
// parser can be exercised without a javac-produced fixture checked
// into the tree. Each cpXxx method appends one constant pool entry
// and returns its 1-based index, mirroring how javac itself numbers
// the pool.
type classBuilder struct {
	cp []byte
	n  uint16
}

func u2(v uint16) []byte {
	buf := make([]byte, 2)
	binary.BigEndian.PutUint16(buf, v)
	return buf
}

func u4(v uint32) []byte {
	buf := make([]byte, 4)
	binary.BigEndian.PutUint32(buf, v)
	return buf
}

func (b *classBuilder) cpUtf8(s string) uint16 {
	b.cp = append(b.cp, byte(ConstantUtf8))
	b.cp = append(b.cp, u2(uint16(len(s)))...)
	b.cp = append(b.cp, []byte(s)...)
	b.n++
	return b.n
}

func (b *classBuilder) cpClass(nameIndex uint16) uint16 {
	b.cp = append(b.cp, byte(ConstantClass))
	b.cp = append(b.cp, u2(nameIndex)...)
	b.n++
	return b.n
}

func (b *classBuilder) cpNameAndType(nameIndex, descIndex uint16) uint16 {
	b.cp = append(b.cp, byte(ConstantNameAndType))
	b.cp = append(b.cp, u2(nameIndex)...)
	b.cp = append(b.cp, u2(descIndex)...)
	b.n++
	return b.n
}

func (b *classBuilder) cpInteger(v int32) uint16 {
	b.cp = append(b.cp, byte(ConstantInteger))
	b.cp = append(b.cp, u4(uint32(v))...)
	b.n++
	return b.n
}

func (b *classBuilder) cpLong(v int64) uint16 {
	b.cp = append(b.cp, byte(ConstantLong))
	b.cp = append(b.cp, u4(uint32(v>>32))...)
	b.cp = append(b.cp, u4(uint32(v))...)
	b.n += 2
	return b.n - 1
}

type attrBuilder struct {
	nameIndex uint16
	info      []byte
}

func (a attrBuilder) encode() []byte {
	out := append([]byte{}, u2(a.nameIndex)...)
	out = append(out, u4(uint32(len(a.info)))...)
	out = append(out, a.info...)
	return out
}

func encodeAttrs(attrs []attrBuilder) []byte {
	out := u2(uint16(len(attrs)))
	for _, a := range attrs {
		out = append(out, a.encode()...)
	}
	return out
}

func codeAttrInfo(maxStack, maxLocals uint16, code []byte, nested []attrBuilder) []byte {
	out := u2(maxStack)
	out = append(out, u2(maxLocals)...)
	out = append(out, u4(uint32(len(code)))...)
	out = append(out, code...)
	out = append(out, u2(0)...) // exception table length
	out = append(out, encodeAttrs(nested)...)
	return out
}

func localVariableTableInfo(startPC, length, nameIndex, descIndex, index uint16) []byte {
	out := u2(1)
	out = append(out, u2(startPC)...)
	out = append(out, u2(length)...)
	out = append(out, u2(nameIndex)...)
	out = append(out, u2(descIndex)...)
	out = append(out, u2(index)...)
	return out
}

// buildWidgetClass assembles "class test/Widget implements java/lang/Runnable"
// with one static final int field, one getter whose Code attribute carries a
// LocalVariableTable, and a class-level Signature attribute.
func buildWidgetClass(t *testing.T) []byte {
	t.Helper()

	b := &classBuilder{}
	thisName := b.cpUtf8("test/Widget")
	thisClass := b.cpClass(thisName)
	superName := b.cpUtf8("java/lang/Object")
	superClass := b.cpClass(superName)
	ifaceName := b.cpUtf8("java/lang/Runnable")
	iface := b.cpClass(ifaceName)
	fieldName := b.cpUtf8("count")
	fieldDesc := b.cpUtf8("I")
	methodName := b.cpUtf8("getCount")
	methodDesc := b.cpUtf8("()I")
	codeName := b.cpUtf8("Code")
	lvtName := b.cpUtf8("LocalVariableTable")
	thisVarName := b.cpUtf8("this")
	thisVarDesc := b.cpUtf8("Ltest/Widget;")
	sigName := b.cpUtf8("Signature")
	sigValue := b.cpUtf8("Ltest/Widget<Ljava/lang/Object;>;")

	var out bytes.Buffer
	out.Write(u4(Magic))
	out.Write(u2(0))        // minor version
	out.Write(u2(61))       // major version
	out.Write(u2(b.n + 1))  // constant_pool_count
	out.Write(b.cp)         // constant pool entries
	out.Write(u2(uint16(AccPublic)))
	out.Write(u2(thisClass))
	out.Write(u2(superClass))
	out.Write(u2(1))       // interfaces_count
	out.Write(u2(iface))   // interfaces[0]
	out.Write(u2(1))       // fields_count
	out.Write(u2(uint16(AccPublic | AccStatic | AccFinal)))
	out.Write(u2(fieldName))
	out.Write(u2(fieldDesc))
	out.Write(u2(0)) // field attributes_count

	out.Write(u2(1)) // methods_count
	out.Write(u2(uint16(AccPublic)))
	out.Write(u2(methodName))
	out.Write(u2(methodDesc))
	code := codeAttrInfo(1, 1, []byte{0xAC}, []attrBuilder{
		{nameIndex: lvtName, info: localVariableTableInfo(0, 1, thisVarName, thisVarDesc, 0)},
	})
	out.Write(encodeAttrs([]attrBuilder{{nameIndex: codeName, info: code}}))

	out.Write(encodeAttrs([]attrBuilder{
		{nameIndex: sigName, info: u2(sigValue)},
	}))

	return out.Bytes()
}

func TestParseMinimalClass(t *testing.T) {
	cf, err := Parse(bytes.NewReader(buildWidgetClass(t)))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	t.Run("class name", func(t *testing.T) {
		if got := cf.ClassName(); got != "test/Widget" {
			t.Errorf("ClassName() = %q, want %q", got, "test/Widget")
		}
	})

	t.Run("super class", func(t *testing.T) {
		if got := cf.SuperClassName(); got != "java/lang/Object" {
			t.Errorf("SuperClassName() = %q, want %q", got, "java/lang/Object")
		}
	})

	t.Run("interfaces", func(t *testing.T) {
		interfaces := cf.InterfaceNames()
		if len(interfaces) != 1 || interfaces[0] != "java/lang/Runnable" {
			t.Fatalf("InterfaceNames() = %v, want [java/lang/Runnable]", interfaces)
		}
	})

	t.Run("access flags", func(t *testing.T) {
		if !cf.AccessFlags.IsPublic() {
			t.Error("expected class to be public")
		}
		if cf.AccessFlags.IsFinal() {
			t.Error("expected class to not be final")
		}
	})

	t.Run("field", func(t *testing.T) {
		if len(cf.Fields) != 1 {
			t.Fatal("expected exactly one field")
		}
		field := &cf.Fields[0]
		if field.Name(cf.ConstantPool) != "count" {
			t.Fatalf("field name = %q, want %q", field.Name(cf.ConstantPool), "count")
		}
		if !field.AccessFlags.IsPublic() || !field.AccessFlags.IsStatic() || !field.AccessFlags.IsFinal() {
			t.Error("count should be public static final")
		}
		if field.Descriptor(cf.ConstantPool) != "I" {
			t.Errorf("count descriptor = %q, want %q", field.Descriptor(cf.ConstantPool), "I")
		}
	})

	t.Run("method and code attribute", func(t *testing.T) {
		if len(cf.Methods) != 1 {
			t.Fatal("expected exactly one method")
		}
		method := &cf.Methods[0]
		if method.Name(cf.ConstantPool) != "getCount" {
			t.Fatalf("method name = %q, want %q", method.Name(cf.ConstantPool), "getCount")
		}
		if !method.AccessFlags.IsPublic() {
			t.Error("getCount should be public")
		}

		var codeAttr *CodeAttribute
		for i := range method.Attributes {
			if cf.ConstantPool.GetUtf8(method.Attributes[i].NameIndex) == "Code" {
				codeAttr = method.Attributes[i].AsCode()
			}
		}
		if codeAttr == nil {
			t.Fatal("expected getCount to have a Code attribute")
		}
		if codeAttr.MaxStack != 1 || codeAttr.MaxLocals != 1 {
			t.Errorf("MaxStack/MaxLocals = %d/%d, want 1/1", codeAttr.MaxStack, codeAttr.MaxLocals)
		}
		if len(codeAttr.Code) != 1 || codeAttr.Code[0] != 0xAC {
			t.Errorf("Code = %v, want [0xAC]", codeAttr.Code)
		}

		var lvt *LocalVariableTableAttribute
		for _, attr := range codeAttr.Attributes {
			if cf.ConstantPool.GetUtf8(attr.NameIndex) == "LocalVariableTable" {
				lvt = attr.AsLocalVariableTable()
			}
		}
		if lvt == nil {
			t.Fatal("expected a parsed LocalVariableTable nested in Code")
		}
		if len(lvt.LocalVariableTable) != 1 || cf.ConstantPool.GetUtf8(lvt.LocalVariableTable[0].NameIndex) != "this" {
			t.Errorf("LocalVariableTable = %+v, want a single 'this' entry", lvt.LocalVariableTable)
		}
	})

	t.Run("signature attribute", func(t *testing.T) {
		attr := cf.GetAttribute("Signature")
		if attr == nil {
			t.Fatal("expected Signature attribute")
		}
		sig := attr.AsSignature()
		if sig == nil {
			t.Fatal("expected parsed Signature")
		}
		if got := cf.ConstantPool.GetUtf8(sig.SignatureIndex); got != "Ltest/Widget<Ljava/lang/Object;>;" {
			t.Errorf("Signature = %q, want generic signature", got)
		}
	})
}

func TestParseFileReadsFromDisk(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Widget.class")
	if err := os.WriteFile(path, buildWidgetClass(t), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cf, err := ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile() error: %v", err)
	}
	if got := cf.ClassName(); got != "test/Widget" {
		t.Errorf("ClassName() = %q, want %q", got, "test/Widget")
	}
}

func TestParseFieldDescriptor(t *testing.T) {
	tests := []struct {
		desc       string
		baseType   string
		className  string
		arrayDepth int
	}{
		{"I", "int", "", 0},
		{"Z", "boolean", "", 0},
		{"Ljava/lang/String;", "", "java/lang/String", 0},
		{"[I", "int", "", 1},
		{"[[D", "double", "", 2},
		{"[Ljava/lang/Object;", "", "java/lang/Object", 1},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			ft := ParseFieldDescriptor(tt.desc)
			if ft == nil {
				t.Fatalf("ParseFieldDescriptor(%q) returned nil", tt.desc)
			}
			if ft.BaseType != tt.baseType {
				t.Errorf("BaseType = %q, want %q", ft.BaseType, tt.baseType)
			}
			if ft.ClassName != tt.className {
				t.Errorf("ClassName = %q, want %q", ft.ClassName, tt.className)
			}
			if ft.ArrayDepth != tt.arrayDepth {
				t.Errorf("ArrayDepth = %d, want %d", ft.ArrayDepth, tt.arrayDepth)
			}
		})
	}
}

func TestParseMethodDescriptor(t *testing.T) {
	tests := []struct {
		desc        string
		numParams   int
		returnsVoid bool
		returnType  string
	}{
		{"()V", 0, true, ""},
		{"()I", 0, false, "int"},
		{"(I)V", 1, true, ""},
		{"(II)I", 2, false, "int"},
		{"(Ljava/lang/String;)V", 1, true, ""},
		{"(IDLjava/lang/Thread;)Ljava/lang/Object;", 3, false, "java/lang/Object"},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			md := ParseMethodDescriptor(tt.desc)
			if md == nil {
				t.Fatalf("ParseMethodDescriptor(%q) returned nil", tt.desc)
			}
			if len(md.Parameters) != tt.numParams {
				t.Errorf("len(Parameters) = %d, want %d", len(md.Parameters), tt.numParams)
			}
			if tt.returnsVoid {
				if md.ReturnType != nil {
					t.Error("expected nil ReturnType for void")
				}
			} else {
				if md.ReturnType == nil {
					t.Error("expected non-nil ReturnType")
				} else {
					if md.ReturnType.BaseType != "" && md.ReturnType.BaseType != tt.returnType {
						t.Errorf("ReturnType.BaseType = %q, want %q", md.ReturnType.BaseType, tt.returnType)
					}
					if md.ReturnType.ClassName != "" && md.ReturnType.ClassName != tt.returnType {
						t.Errorf("ReturnType.ClassName = %q, want %q", md.ReturnType.ClassName, tt.returnType)
					}
				}
			}
		})
	}
}

func TestConstantPoolGetters(t *testing.T) {
	cp := ConstantPool{
		&ConstantUtf8Info{Value: "test/Widget"},
		&ConstantClassInfo{NameIndex: 1},
		&ConstantUtf8Info{Value: "java/lang/Object"},
		&ConstantClassInfo{NameIndex: 3},
	}

	if got := cp.GetClassName(2); got != "test/Widget" {
		t.Errorf("GetClassName(this) = %q, want %q", got, "test/Widget")
	}
	if got := cp.GetClassName(4); got != "java/lang/Object" {
		t.Errorf("GetClassName(super) = %q, want %q", got, "java/lang/Object")
	}
}

func TestClassFileAttributeAccessors(t *testing.T) {
	cp := ConstantPool{
		&ConstantUtf8Info{Value: "Ljava/lang/Deprecated;"}, // 1, used as annotation type name
	}
	rvAttr := AttributeInfo{
		NameIndex: 0,
		Parsed: &RuntimeVisibleAnnotationsAttribute{
			Annotations: []Annotation{{TypeIndex: 1}},
		},
	}
	riAttr := AttributeInfo{
		Parsed: &RuntimeInvisibleAnnotationsAttribute{
			Annotations: []Annotation{{TypeIndex: 1}},
		},
	}
	innerClassesAttr := AttributeInfo{
		Parsed: &InnerClassesAttribute{
			Classes: []InnerClassEntry{{InnerClassInfoIndex: 1}},
		},
	}
	exceptionsAttr := AttributeInfo{
		Parsed: &ExceptionsAttribute{ExceptionIndexTable: []uint16{1, 2}},
	}
	paramAnnotationsAttr := AttributeInfo{
		Parsed: &RuntimeVisibleParameterAnnotationsAttribute{
			ParameterAnnotations: [][]Annotation{{{TypeIndex: 1}}},
		},
	}

	t.Run("RuntimeVisibleAnnotations", func(t *testing.T) {
		rva := rvAttr.AsRuntimeVisibleAnnotations()
		if rva == nil || len(rva.Annotations) != 1 {
			t.Fatalf("AsRuntimeVisibleAnnotations() = %+v, want one annotation", rva)
		}
		if got := cp.GetUtf8(rva.Annotations[0].TypeIndex); got != "Ljava/lang/Deprecated;" {
			t.Errorf("annotation type = %q, want %q", got, "Ljava/lang/Deprecated;")
		}
	})

	t.Run("RuntimeInvisibleAnnotations", func(t *testing.T) {
		ria := riAttr.AsRuntimeInvisibleAnnotations()
		if ria == nil || len(ria.Annotations) != 1 {
			t.Fatalf("AsRuntimeInvisibleAnnotations() = %+v, want one annotation", ria)
		}
	})

	t.Run("InnerClasses", func(t *testing.T) {
		ic := innerClassesAttr.AsInnerClasses()
		if ic == nil || len(ic.Classes) != 1 {
			t.Fatalf("AsInnerClasses() = %+v, want one entry", ic)
		}
	})

	t.Run("Exceptions", func(t *testing.T) {
		ex := exceptionsAttr.AsExceptions()
		if ex == nil || len(ex.ExceptionIndexTable) != 2 {
			t.Fatalf("AsExceptions() = %+v, want 2 entries", ex)
		}
	})

	t.Run("RuntimeVisibleParameterAnnotations", func(t *testing.T) {
		rvpa := paramAnnotationsAttr.AsRuntimeVisibleParameterAnnotations()
		if rvpa == nil || len(rvpa.ParameterAnnotations) != 1 {
			t.Fatalf("AsRuntimeVisibleParameterAnnotations() = %+v, want one parameter", rvpa)
		}
	})
}

func TestNestAndEnclosingMethodAttributes(t *testing.T) {
	cp := ConstantPool{
		&ConstantUtf8Info{Value: "test/Outer"},
		&ConstantClassInfo{NameIndex: 1},
	}

	nestHostAttr := AttributeInfo{Parsed: &NestHostAttribute{HostClassIndex: 2}}
	nh := nestHostAttr.AsNestHost()
	if nh == nil {
		t.Fatal("expected parsed NestHost")
	}
	if got := cp.GetClassName(nh.HostClassIndex); got != "test/Outer" {
		t.Errorf("NestHost = %q, want %q", got, "test/Outer")
	}

	enclosingAttr := AttributeInfo{Parsed: &EnclosingMethodAttribute{ClassIndex: 2, MethodIndex: 0}}
	em := enclosingAttr.AsEnclosingMethod()
	if em == nil {
		t.Fatal("expected parsed EnclosingMethod")
	}
	if got := cp.GetClassName(em.ClassIndex); got != "test/Outer" {
		t.Errorf("EnclosingMethod class = %q, want %q", got, "test/Outer")
	}
}

func TestNestMembersAttribute(t *testing.T) {
	attr := AttributeInfo{Parsed: &NestMembersAttribute{Classes: []uint16{2, 3}}}
	nm := attr.AsNestMembers()
	if nm == nil || len(nm.Classes) != 2 {
		t.Fatalf("AsNestMembers() = %+v, want 2 members", nm)
	}
}

func TestRecordAttribute(t *testing.T) {
	cp := ConstantPool{
		&ConstantUtf8Info{Value: "name"},
		&ConstantUtf8Info{Value: "value"},
	}
	attr := AttributeInfo{
		Parsed: &RecordAttribute{
			Components: []RecordComponentInfo{
				{NameIndex: 1},
				{NameIndex: 2},
			},
		},
	}
	rec := attr.AsRecord()
	if rec == nil || len(rec.Components) != 2 {
		t.Fatalf("AsRecord() = %+v, want 2 components", rec)
	}
	names := []string{cp.GetUtf8(rec.Components[0].NameIndex), cp.GetUtf8(rec.Components[1].NameIndex)}
	if names[0] != "name" || names[1] != "value" {
		t.Errorf("component names = %v, want [name value]", names)
	}
}

func TestPermittedSubclassesAttribute(t *testing.T) {
	cp := ConstantPool{
		&ConstantUtf8Info{Value: "test/SubOne"},
		&ConstantClassInfo{NameIndex: 1},
		&ConstantUtf8Info{Value: "test/SubTwo"},
		&ConstantClassInfo{NameIndex: 3},
	}
	attr := AttributeInfo{Parsed: &PermittedSubclassesAttribute{Classes: []uint16{2, 4}}}
	ps := attr.AsPermittedSubclasses()
	if ps == nil || len(ps.Classes) != 2 {
		t.Fatalf("AsPermittedSubclasses() = %+v, want 2 entries", ps)
	}
	names := []string{cp.GetClassName(ps.Classes[0]), cp.GetClassName(ps.Classes[1])}
	if names[0] != "test/SubOne" || names[1] != "test/SubTwo" {
		t.Errorf("permitted subclasses = %v, want [test/SubOne test/SubTwo]", names)
	}
}

func TestConstantPoolNumericGetters(t *testing.T) {
	cp := ConstantPool{
		&ConstantLongInfo{Value: 9223372036854775807},
		nil, // longs and doubles occupy two slots in a real pool
		&ConstantDoubleInfo{Value: 1.7976931348623157e308},
		nil,
		&ConstantFloatInfo{Value: 3.4028235e38},
		&ConstantIntegerInfo{Value: 2147483647},
	}

	if val, ok := cp.GetLong(1); !ok || val != 9223372036854775807 {
		t.Errorf("GetLong = %d, %v, want 9223372036854775807, true", val, ok)
	}
	if val, ok := cp.GetDouble(3); !ok || val < 1.0e308 {
		t.Errorf("GetDouble = %e, %v, want ~1.7976931348623157E308, true", val, ok)
	}
	if val, ok := cp.GetFloat(5); !ok || val < 3.0e38 {
		t.Errorf("GetFloat = %e, %v, want ~3.4028235E38, true", val, ok)
	}
	if val, ok := cp.GetInteger(6); !ok || val != 2147483647 {
		t.Errorf("GetInteger = %d, %v, want 2147483647, true", val, ok)
	}
}

func TestBootstrapMethodsAttribute(t *testing.T) {
	attr := AttributeInfo{
		Parsed: &BootstrapMethodsAttribute{
			BootstrapMethods: []BootstrapMethod{
				{BootstrapMethodRef: 1, BootstrapArguments: []uint16{2, 3}},
			},
		},
	}
	bm := attr.AsBootstrapMethods()
	if bm == nil || len(bm.BootstrapMethods) != 1 {
		t.Fatalf("AsBootstrapMethods() = %+v, want one entry", bm)
	}
}

func TestConstantPoolTagEnumeration(t *testing.T) {
	cp := ConstantPool{
		&ConstantUtf8Info{Value: "x"},
		&ConstantClassInfo{NameIndex: 1},
		&ConstantMethodrefInfo{ClassIndex: 2, NameAndTypeIndex: 4},
		&ConstantNameAndTypeInfo{NameIndex: 1, DescriptorIndex: 1},
		&ConstantFieldrefInfo{ClassIndex: 2, NameAndTypeIndex: 4},
		&ConstantStringInfo{StringIndex: 1},
	}

	tagCounts := make(map[ConstantTag]int)
	for _, entry := range cp {
		if entry != nil {
			tagCounts[entry.Tag()]++
		}
	}

	requiredTags := []ConstantTag{
		ConstantUtf8,
		ConstantClass,
		ConstantMethodref,
		ConstantFieldref,
		ConstantNameAndType,
		ConstantString,
	}
	for _, tag := range requiredTags {
		if tagCounts[tag] == 0 {
			t.Errorf("expected at least one constant pool entry with tag %d", tag)
		}
	}
}

func TestConstantPoolAccessorBoundaryConditions(t *testing.T) {
	cp := ConstantPool{
		&ConstantUtf8Info{Value: "x"},
	}

	t.Run("GetUtf8 with invalid index", func(t *testing.T) {
		if result := cp.GetUtf8(0); result != "" {
			t.Error("expected empty string for index 0")
		}
		if result := cp.GetUtf8(65535); result != "" {
			t.Error("expected empty string for out-of-bounds index")
		}
	})

	t.Run("GetClassName with invalid index", func(t *testing.T) {
		if result := cp.GetClassName(0); result != "" {
			t.Error("expected empty string for index 0")
		}
		if result := cp.GetClassName(65535); result != "" {
			t.Error("expected empty string for out-of-bounds index")
		}
	})

	t.Run("GetNameAndType with invalid index", func(t *testing.T) {
		if name, desc := cp.GetNameAndType(0); name != "" || desc != "" {
			t.Error("expected empty strings for index 0")
		}
	})

	t.Run("GetInteger with invalid index", func(t *testing.T) {
		if _, ok := cp.GetInteger(0); ok {
			t.Error("expected false for index 0")
		}
	})

	t.Run("GetLong with invalid index", func(t *testing.T) {
		if _, ok := cp.GetLong(0); ok {
			t.Error("expected false for index 0")
		}
	})

	t.Run("GetFloat with invalid index", func(t *testing.T) {
		if _, ok := cp.GetFloat(0); ok {
			t.Error("expected false for index 0")
		}
	})

	t.Run("GetDouble with invalid index", func(t *testing.T) {
		if _, ok := cp.GetDouble(0); ok {
			t.Error("expected false for index 0")
		}
	})

}

// TestAttributeAsMethodsReturnNil confirms that AttributeInfo.AsXxx only
// ever unwraps the one concrete type it was parsed as; an Exceptions
// attribute asked for any other shape should come back nil.
func TestAttributeAsMethodsReturnNil(t *testing.T) {
	attr := AttributeInfo{Parsed: &ExceptionsAttribute{ExceptionIndexTable: []uint16{1}}}

	if attr.AsCode() != nil {
		t.Error("AsCode should return nil for an Exceptions attribute")
	}
	if attr.AsLocalVariableTable() != nil {
		t.Error("AsLocalVariableTable should return nil for an Exceptions attribute")
	}
	if attr.AsInnerClasses() != nil {
		t.Error("AsInnerClasses should return nil for an Exceptions attribute")
	}
	if attr.AsSignature() != nil {
		t.Error("AsSignature should return nil for an Exceptions attribute")
	}
	if attr.AsBootstrapMethods() != nil {
		t.Error("AsBootstrapMethods should return nil for an Exceptions attribute")
	}
	if attr.AsEnclosingMethod() != nil {
		t.Error("AsEnclosingMethod should return nil for an Exceptions attribute")
	}
	if attr.AsLocalVariableTypeTable() != nil {
		t.Error("AsLocalVariableTypeTable should return nil for an Exceptions attribute")
	}
	if attr.AsNestHost() != nil {
		t.Error("AsNestHost should return nil for an Exceptions attribute")
	}
	if attr.AsNestMembers() != nil {
		t.Error("AsNestMembers should return nil for an Exceptions attribute")
	}
	if attr.AsRecord() != nil {
		t.Error("AsRecord should return nil for an Exceptions attribute")
	}
	if attr.AsPermittedSubclasses() != nil {
		t.Error("AsPermittedSubclasses should return nil for an Exceptions attribute")
	}
	if attr.AsRuntimeVisibleAnnotations() != nil {
		t.Error("AsRuntimeVisibleAnnotations should return nil for an Exceptions attribute")
	}
	if attr.AsRuntimeInvisibleAnnotations() != nil {
		t.Error("AsRuntimeInvisibleAnnotations should return nil for an Exceptions attribute")
	}
	if attr.AsRuntimeVisibleParameterAnnotations() != nil {
		t.Error("AsRuntimeVisibleParameterAnnotations should return nil for an Exceptions attribute")
	}
	if attr.AsRuntimeInvisibleParameterAnnotations() != nil {
		t.Error("AsRuntimeInvisibleParameterAnnotations should return nil for an Exceptions attribute")
	}
	if attr.AsRuntimeVisibleTypeAnnotations() != nil {
		t.Error("AsRuntimeVisibleTypeAnnotations should return nil for an Exceptions attribute")
	}
	if attr.AsRuntimeInvisibleTypeAnnotations() != nil {
		t.Error("AsRuntimeInvisibleTypeAnnotations should return nil for an Exceptions attribute")
	}
	if attr.AsAnnotationDefault() != nil {
		t.Error("AsAnnotationDefault should return nil for an Exceptions attribute")
	}
	if attr.AsModule() != nil {
		t.Error("AsModule should return nil for an Exceptions attribute")
	}
	if attr.AsModuleMainClass() != nil {
		t.Error("AsModuleMainClass should return nil for an Exceptions attribute")
	}
}

func TestConstantPoolTagMethods(t *testing.T) {
	tests := []struct {
		entry ConstantPoolEntry
		tag   ConstantTag
	}{
		{&ConstantUtf8Info{Value: "test"}, ConstantUtf8},
		{&ConstantIntegerInfo{Value: 42}, ConstantInteger},
		{&ConstantFloatInfo{Value: 3.14}, ConstantFloat},
		{&ConstantLongInfo{Value: 12345}, ConstantLong},
		{&ConstantDoubleInfo{Value: 2.718}, ConstantDouble},
		{&ConstantClassInfo{NameIndex: 1}, ConstantClass},
		{&ConstantStringInfo{StringIndex: 1}, ConstantString},
		{&ConstantFieldrefInfo{ClassIndex: 1, NameAndTypeIndex: 2}, ConstantFieldref},
		{&ConstantMethodrefInfo{ClassIndex: 1, NameAndTypeIndex: 2}, ConstantMethodref},
		{&ConstantInterfaceMethodrefInfo{ClassIndex: 1, NameAndTypeIndex: 2}, ConstantInterfaceMethodref},
		{&ConstantNameAndTypeInfo{NameIndex: 1, DescriptorIndex: 2}, ConstantNameAndType},
		{&ConstantMethodHandleInfo{ReferenceKind: RefInvokeVirtual, ReferenceIndex: 1}, ConstantMethodHandle},
		{&ConstantMethodTypeInfo{DescriptorIndex: 1}, ConstantMethodType},
		{&ConstantDynamicInfo{BootstrapMethodAttrIndex: 0, NameAndTypeIndex: 1}, ConstantDynamic},
		{&ConstantInvokeDynamicInfo{BootstrapMethodAttrIndex: 0, NameAndTypeIndex: 1}, ConstantInvokeDynamic},
		{&ConstantModuleInfo{NameIndex: 1}, ConstantModule},
		{&ConstantPackageInfo{NameIndex: 1}, ConstantPackage},
	}

	for _, tt := range tests {
		if got := tt.entry.Tag(); got != tt.tag {
			t.Errorf("Tag() = %d, want %d for %T", got, tt.tag, tt.entry)
		}
	}
}

func TestSyntheticAndBridgeMethods(t *testing.T) {
	method := MethodInfo{AccessFlags: AccSynthetic | AccBridge}
	if !method.AccessFlags.IsSynthetic() {
		t.Error("expected method to be synthetic")
	}
	if !method.AccessFlags.IsBridge() {
		t.Error("expected method to be a bridge")
	}
}
