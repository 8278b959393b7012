package classfile

import (
	"fmt"
	"math"

	"github.com/viant/jarhc/inspector/graph"
)

// Constant pool tags
const (
	tagUtf8               = 1
	tagInteger            = 3
	tagFloat              = 4
	tagLong               = 5
	tagDouble             = 6
	tagClass              = 7
	tagString             = 8
	tagFieldref           = 9
	tagMethodref          = 10
	tagInterfaceMethodref = 11
	tagNameAndType        = 12
	tagMethodHandle       = 15
	tagMethodType         = 16
	tagDynamic            = 17
	tagInvokeDynamic      = 18
	tagModule             = 19
	tagPackage            = 20
)

// constant is a decoded constant pool entry
type constant interface {
	// symbols reports the class names the entry mentions
	symbols(pool *constantPool, add func(string)) error
}

type (
	utf8Constant    struct{ value string }
	integerConstant struct{ value int32 }
	floatConstant   struct{ value float32 }
	longConstant    struct{ value int64 }
	doubleConstant  struct{ value float64 }
	classConstant   struct{ nameIndex uint16 }
	stringConstant  struct{ stringIndex uint16 }

	memberConstant struct {
		classIndex       uint16
		nameAndTypeIndex uint16
	}
	fieldrefConstant           struct{ memberConstant }
	methodrefConstant          struct{ memberConstant }
	interfaceMethodrefConstant struct{ memberConstant }

	nameAndTypeConstant struct {
		nameIndex       uint16
		descriptorIndex uint16
	}
	methodHandleConstant struct {
		kind           uint8
		referenceIndex uint16
	}
	methodTypeConstant struct{ descriptorIndex uint16 }
	dynamicConstant    struct {
		bootstrapIndex   uint16
		nameAndTypeIndex uint16
	}
	invokeDynamicConstant struct{ dynamicConstant }
	moduleConstant        struct{ nameIndex uint16 }
	packageConstant       struct{ nameIndex uint16 }
)

func (c *utf8Constant) symbols(*constantPool, func(string)) error         { return nil }
func (c *integerConstant) symbols(*constantPool, func(string)) error      { return nil }
func (c *floatConstant) symbols(*constantPool, func(string)) error        { return nil }
func (c *longConstant) symbols(*constantPool, func(string)) error         { return nil }
func (c *doubleConstant) symbols(*constantPool, func(string)) error       { return nil }
func (c *stringConstant) symbols(*constantPool, func(string)) error       { return nil }
func (c *memberConstant) symbols(*constantPool, func(string)) error       { return nil }
func (c *methodHandleConstant) symbols(*constantPool, func(string)) error { return nil }
func (c *dynamicConstant) symbols(*constantPool, func(string)) error      { return nil }
func (c *moduleConstant) symbols(*constantPool, func(string)) error       { return nil }
func (c *packageConstant) symbols(*constantPool, func(string)) error      { return nil }

func (c *classConstant) symbols(pool *constantPool, add func(string)) error {
	name, err := pool.utf8(c.nameIndex)
	if err != nil {
		return err
	}
	return classNameSymbols(name, add)
}

func (c *nameAndTypeConstant) symbols(pool *constantPool, add func(string)) error {
	descriptor, err := pool.utf8(c.descriptorIndex)
	if err != nil {
		return err
	}
	return scanDescriptor(descriptor, add)
}

func (c *methodTypeConstant) symbols(pool *constantPool, add func(string)) error {
	descriptor, err := pool.utf8(c.descriptorIndex)
	if err != nil {
		return err
	}
	return scanDescriptor(descriptor, add)
}

// classNameSymbols adds the class named by a CONSTANT_Class entry; arrays contribute their element type
func classNameSymbols(internal string, add func(string)) error {
	if len(internal) > 0 && internal[0] == '[' {
		return scanDescriptor(internal, add)
	}
	if internal == "" {
		return fmt.Errorf("empty class name")
	}
	add(graph.ToExternal(internal))
	return nil
}

// constantPool is indexed from 1; Long and Double leave an unusable slot behind them
type constantPool struct {
	entries []constant
}

func readConstantPool(r *reader) (*constantPool, error) {
	count := int(r.u2())
	if r.err != nil {
		return nil, r.err
	}
	pool := &constantPool{entries: make([]constant, count)}
	for i := 1; i < count; i++ {
		tag := r.u1()
		var entry constant
		switch tag {
		case tagUtf8:
			length := int(r.u2())
			raw := r.bytes(length)
			if r.err != nil {
				return nil, r.err
			}
			value, err := decodeModifiedUTF8(raw)
			if err != nil {
				return nil, fmt.Errorf("constant #%d: %w", i, err)
			}
			entry = &utf8Constant{value: value}
		case tagInteger:
			entry = &integerConstant{value: int32(r.u4())}
		case tagFloat:
			entry = &floatConstant{value: math.Float32frombits(r.u4())}
		case tagLong:
			high, low := r.u4(), r.u4()
			entry = &longConstant{value: int64(uint64(high)<<32 | uint64(low))}
		case tagDouble:
			high, low := r.u4(), r.u4()
			entry = &doubleConstant{value: math.Float64frombits(uint64(high)<<32 | uint64(low))}
		case tagClass:
			entry = &classConstant{nameIndex: r.u2()}
		case tagString:
			entry = &stringConstant{stringIndex: r.u2()}
		case tagFieldref:
			entry = &fieldrefConstant{memberConstant{classIndex: r.u2(), nameAndTypeIndex: r.u2()}}
		case tagMethodref:
			entry = &methodrefConstant{memberConstant{classIndex: r.u2(), nameAndTypeIndex: r.u2()}}
		case tagInterfaceMethodref:
			entry = &interfaceMethodrefConstant{memberConstant{classIndex: r.u2(), nameAndTypeIndex: r.u2()}}
		case tagNameAndType:
			entry = &nameAndTypeConstant{nameIndex: r.u2(), descriptorIndex: r.u2()}
		case tagMethodHandle:
			entry = &methodHandleConstant{kind: r.u1(), referenceIndex: r.u2()}
		case tagMethodType:
			entry = &methodTypeConstant{descriptorIndex: r.u2()}
		case tagDynamic:
			entry = &dynamicConstant{bootstrapIndex: r.u2(), nameAndTypeIndex: r.u2()}
		case tagInvokeDynamic:
			entry = &invokeDynamicConstant{dynamicConstant{bootstrapIndex: r.u2(), nameAndTypeIndex: r.u2()}}
		case tagModule:
			entry = &moduleConstant{nameIndex: r.u2()}
		case tagPackage:
			entry = &packageConstant{nameIndex: r.u2()}
		default:
			if r.err != nil {
				return nil, r.err
			}
			return nil, fmt.Errorf("constant #%d: unknown tag %d", i, tag)
		}
		if r.err != nil {
			return nil, r.err
		}
		pool.entries[i] = entry
		if tag == tagLong || tag == tagDouble {
			i++
		}
	}
	return pool, nil
}

func (p *constantPool) get(index uint16) (constant, error) {
	if index == 0 || int(index) >= len(p.entries) || p.entries[index] == nil {
		return nil, fmt.Errorf("invalid constant pool index %d", index)
	}
	return p.entries[index], nil
}

func (p *constantPool) utf8(index uint16) (string, error) {
	entry, err := p.get(index)
	if err != nil {
		return "", err
	}
	value, ok := entry.(*utf8Constant)
	if !ok {
		return "", fmt.Errorf("constant #%d: expected Utf8, got %T", index, entry)
	}
	return value.value, nil
}

// className returns the internal name held by a CONSTANT_Class entry
func (p *constantPool) className(index uint16) (string, error) {
	entry, err := p.get(index)
	if err != nil {
		return "", err
	}
	class, ok := entry.(*classConstant)
	if !ok {
		return "", fmt.Errorf("constant #%d: expected Class, got %T", index, entry)
	}
	return p.utf8(class.nameIndex)
}

// namedUtf8 resolves Module and Package entries to their names
func (p *constantPool) namedUtf8(index uint16) (string, error) {
	entry, err := p.get(index)
	if err != nil {
		return "", err
	}
	switch actual := entry.(type) {
	case *moduleConstant:
		return p.utf8(actual.nameIndex)
	case *packageConstant:
		return p.utf8(actual.nameIndex)
	}
	return "", fmt.Errorf("constant #%d: expected Module or Package, got %T", index, entry)
}

func (p *constantPool) nameAndType(index uint16) (string, string, error) {
	entry, err := p.get(index)
	if err != nil {
		return "", "", err
	}
	nat, ok := entry.(*nameAndTypeConstant)
	if !ok {
		return "", "", fmt.Errorf("constant #%d: expected NameAndType, got %T", index, entry)
	}
	name, err := p.utf8(nat.nameIndex)
	if err != nil {
		return "", "", err
	}
	descriptor, err := p.utf8(nat.descriptorIndex)
	return name, descriptor, err
}

// symbols collects the class names of every entry
func (p *constantPool) symbols(add func(string)) error {
	for i, entry := range p.entries {
		if entry == nil {
			continue
		}
		if err := entry.symbols(p, add); err != nil {
			return fmt.Errorf("constant #%d: %w", i, err)
		}
	}
	return nil
}

// memberRefs lists Fieldref, Methodref and InterfaceMethodref entries in pool order; array owners are skipped
func (p *constantPool) memberRefs() ([]*graph.MemberRef, error) {
	var result []*graph.MemberRef
	for _, entry := range p.entries {
		var kind graph.MemberRefKind
		var member *memberConstant
		switch actual := entry.(type) {
		case *fieldrefConstant:
			kind, member = graph.FieldRef, &actual.memberConstant
		case *methodrefConstant:
			kind, member = graph.MethodRef, &actual.memberConstant
		case *interfaceMethodrefConstant:
			kind, member = graph.InterfaceMethodRef, &actual.memberConstant
		default:
			continue
		}
		owner, err := p.className(member.classIndex)
		if err != nil {
			return nil, err
		}
		if len(owner) > 0 && owner[0] == '[' {
			continue
		}
		name, descriptor, err := p.nameAndType(member.nameAndTypeIndex)
		if err != nil {
			return nil, err
		}
		result = append(result, &graph.MemberRef{Kind: kind, Owner: graph.ToExternal(owner), Name: name, Descriptor: descriptor})
	}
	return result, nil
}
