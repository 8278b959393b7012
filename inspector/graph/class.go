package graph

import (
	"sort"
	"strings"
)

// AccessFlags represents JVM access_flags of a class, field or method
type AccessFlags uint16

const (
	AccPublic     AccessFlags = 0x0001
	AccPrivate    AccessFlags = 0x0002
	AccProtected  AccessFlags = 0x0004
	AccStatic     AccessFlags = 0x0008
	AccFinal      AccessFlags = 0x0010
	AccSuper      AccessFlags = 0x0020 // class: ACC_SUPER, method: ACC_SYNCHRONIZED
	AccVolatile   AccessFlags = 0x0040 // field: ACC_VOLATILE, method: ACC_BRIDGE
	AccTransient  AccessFlags = 0x0080 // field: ACC_TRANSIENT, method: ACC_VARARGS
	AccNative     AccessFlags = 0x0100
	AccInterface  AccessFlags = 0x0200
	AccAbstract   AccessFlags = 0x0400
	AccStrict     AccessFlags = 0x0800
	AccSynthetic  AccessFlags = 0x1000
	AccAnnotation AccessFlags = 0x2000
	AccEnum       AccessFlags = 0x4000
	AccModule     AccessFlags = 0x8000
)

// Has reports whether all given flags are set
func (a AccessFlags) Has(flags AccessFlags) bool {
	return a&flags == flags
}

// IsVisible reports whether a member is part of the API seen by other packages (public or protected)
func (a AccessFlags) IsVisible() bool {
	return a&(AccPublic|AccProtected) != 0
}

// String returns the Java modifier keywords, e.g. "public static final"
func (a AccessFlags) String() string {
	var modifiers []string
	switch {
	case a.Has(AccPublic):
		modifiers = append(modifiers, "public")
	case a.Has(AccProtected):
		modifiers = append(modifiers, "protected")
	case a.Has(AccPrivate):
		modifiers = append(modifiers, "private")
	}
	if a.Has(AccStatic) {
		modifiers = append(modifiers, "static")
	}
	if a.Has(AccFinal) {
		modifiers = append(modifiers, "final")
	}
	if a.Has(AccAbstract) && !a.Has(AccInterface) {
		modifiers = append(modifiers, "abstract")
	}
	return strings.Join(modifiers, " ")
}

// Member represents a method or field declared by a class
type Member struct {
	Name       string      `yaml:"name"`
	Descriptor string      `yaml:"descriptor"`
	Access     AccessFlags `yaml:"access"`
}

// Signature returns name and descriptor, the JVM identity of a member
func (m *Member) Signature() string {
	return m.Name + m.Descriptor
}

// MemberRefKind identifies the constant pool tag behind a member reference
type MemberRefKind string

const (
	FieldRef           MemberRefKind = "field"
	MethodRef          MemberRefKind = "method"
	InterfaceMethodRef MemberRefKind = "interfaceMethod"
)

// MemberRef is a symbolic reference to a field or method of another class
type MemberRef struct {
	Kind       MemberRefKind
	Owner      string
	Name       string
	Descriptor string
}

// String returns owner.name descriptor
func (r *MemberRef) String() string {
	return r.Owner + "." + r.Name + r.Descriptor
}

// Class represents a parsed class file. It is immutable once built by the parser.
type Class struct {
	Name        string       // external class name, e.g. java.util.Map$Entry
	Major       int          // class file major version
	Minor       int          // class file minor version
	Access      AccessFlags  // class access flags
	Super       string       // superclass name, empty for java.lang.Object and module-info
	Interfaces  []string     // implemented interfaces, declaration order
	Methods     []*Member    // declared methods, declaration order
	Fields      []*Member    // declared fields, declaration order
	Annotations []string     // annotation types present on the class or its members
	References  []string     // every class name mentioned by the class file, sorted
	MemberRefs  []*MemberRef // field and method references, constant pool order
	Hash        uint64       // content hash of the raw class bytes
	Size        int          // class file size in bytes
	Degraded    bool         // class version is not supported, symbol set may be partial

	methodMap map[string]int
	fieldMap  map[string]int
}

// Package returns the package name of the class
func (c *Class) Package() string {
	return PackageOf(c.Name)
}

// IsModuleInfo reports whether c is a module descriptor
func (c *Class) IsModuleInfo() bool {
	return c.Name == ModuleInfoName
}

// IsInterface reports whether c is an interface (annotations included)
func (c *Class) IsInterface() bool {
	return c.Access.Has(AccInterface)
}

// AddMethod adds a method to the class
func (c *Class) AddMethod(method *Member) {
	if c.methodMap == nil {
		c.methodMap = make(map[string]int)
	}
	c.Methods = append(c.Methods, method)
	c.methodMap[method.Signature()] = len(c.Methods) - 1
}

// AddField adds a field to the class
func (c *Class) AddField(field *Member) {
	if c.fieldMap == nil {
		c.fieldMap = make(map[string]int)
	}
	c.Fields = append(c.Fields, field)
	c.fieldMap[field.Signature()] = len(c.Fields) - 1
}

// GetMethod retrieves a method by name and descriptor
func (c *Class) GetMethod(name, descriptor string) *Member {
	if idx, ok := c.methodMap[name+descriptor]; ok && idx < len(c.Methods) {
		return c.Methods[idx]
	}
	return nil
}

// GetField retrieves a field by name and descriptor
func (c *Class) GetField(name, descriptor string) *Member {
	if idx, ok := c.fieldMap[name+descriptor]; ok && idx < len(c.Fields) {
		return c.Fields[idx]
	}
	return nil
}

// Mentions reports whether c mentions the given class name
func (c *Class) Mentions(name string) bool {
	idx := sort.SearchStrings(c.References, name)
	return idx < len(c.References) && c.References[idx] == name
}

// Clone returns a copy of the class that shares the immutable slices of c
func (c *Class) Clone() *Class {
	clone := *c
	return &clone
}
