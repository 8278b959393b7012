// Package jartest synthesizes class files and JAR archives for tests.
package jartest

import (
	"bytes"

	"github.com/viant/jarhc/inspector/graph"
)

// DefaultMajor is the class file version of Java 8
const DefaultMajor = 52

// Local represents a LocalVariableTable (and optional LocalVariableTypeTable) entry
type Local struct {
	Name       string
	Descriptor string
	Signature  string
}

// Annotation represents an annotation with an optional class or enum valued element
type Annotation struct {
	Type  string // external name
	Class string // descriptor of a class element value
	Enum  string // descriptor of an enum element value
}

// Member represents a field or method to emit
type Member struct {
	Name        string
	Descriptor  string
	Access      graph.AccessFlags
	Signature   string
	Exceptions  []string
	Annotations []Annotation
	Locals      []Local
	Catches     []string
}

type ref struct {
	tag                     byte
	owner, name, descriptor string
}

// Class builds a class file; names are external (dotted)
type Class struct {
	name        string
	major       int
	minor       int
	access      graph.AccessFlags
	super       string
	interfaces  []string
	fields      []*Member
	methods     []*Member
	signature   string
	annotations []Annotation
	inner       []string
	uses        []string
	refs        []ref
	longs       []int64
	strings     []string
	methodTypes []string
	trailing    []byte
}

// NewClass creates a public class extending java.lang.Object
func NewClass(name string) *Class {
	return &Class{name: name, major: DefaultMajor, access: graph.AccPublic | graph.AccSuper, super: "java.lang.Object"}
}

// Name returns the external class name
func (c *Class) Name() string { return c.name }

// Version sets the class file major version
func (c *Class) Version(major int) *Class { c.major = major; return c }

// Access replaces the class access flags
func (c *Class) Access(flags graph.AccessFlags) *Class { c.access = flags; return c }

// Extends sets the superclass; empty means none
func (c *Class) Extends(super string) *Class { c.super = super; return c }

// Implements adds interfaces
func (c *Class) Implements(names ...string) *Class {
	c.interfaces = append(c.interfaces, names...)
	return c
}

// Field adds a field
func (c *Class) Field(name, descriptor string, access graph.AccessFlags) *Class {
	return c.FieldMember(&Member{Name: name, Descriptor: descriptor, Access: access})
}

// FieldMember adds a field with attributes
func (c *Class) FieldMember(member *Member) *Class {
	c.fields = append(c.fields, member)
	return c
}

// Method adds a method
func (c *Class) Method(name, descriptor string, access graph.AccessFlags) *Class {
	return c.MethodMember(&Member{Name: name, Descriptor: descriptor, Access: access})
}

// MethodMember adds a method with attributes
func (c *Class) MethodMember(member *Member) *Class {
	c.methods = append(c.methods, member)
	return c
}

// Signature sets the generic class signature
func (c *Class) Signature(signature string) *Class { c.signature = signature; return c }

// Annotate adds a class annotation
func (c *Class) Annotate(annotations ...Annotation) *Class {
	c.annotations = append(c.annotations, annotations...)
	return c
}

// Inner adds InnerClasses entries, each nested in this class
func (c *Class) Inner(names ...string) *Class {
	c.inner = append(c.inner, names...)
	return c
}

// Uses adds CONSTANT_Class entries, as code referencing the classes would
func (c *Class) Uses(names ...string) *Class {
	c.uses = append(c.uses, names...)
	return c
}

// Calls adds a Methodref
func (c *Class) Calls(owner, name, descriptor string) *Class {
	c.refs = append(c.refs, ref{tag: 10, owner: owner, name: name, descriptor: descriptor})
	return c
}

// CallsInterface adds an InterfaceMethodref
func (c *Class) CallsInterface(owner, name, descriptor string) *Class {
	c.refs = append(c.refs, ref{tag: 11, owner: owner, name: name, descriptor: descriptor})
	return c
}

// Accesses adds a Fieldref
func (c *Class) Accesses(owner, name, descriptor string) *Class {
	c.refs = append(c.refs, ref{tag: 9, owner: owner, name: name, descriptor: descriptor})
	return c
}

// Long adds a CONSTANT_Long, which takes two pool slots
func (c *Class) Long(values ...int64) *Class {
	c.longs = append(c.longs, values...)
	return c
}

// Strings adds CONSTANT_String entries
func (c *Class) Strings(values ...string) *Class {
	c.strings = append(c.strings, values...)
	return c
}

// MethodType adds a CONSTANT_MethodType
func (c *Class) MethodType(descriptors ...string) *Class {
	c.methodTypes = append(c.methodTypes, descriptors...)
	return c
}

// Trailing appends raw bytes after the class structure
func (c *Class) Trailing(data []byte) *Class { c.trailing = data; return c }

// Path returns the archive entry path of the class
func (c *Class) Path() string {
	return graph.ToInternal(c.name) + ".class"
}

// Bytes encodes the class file
func (c *Class) Bytes() []byte {
	p := newPool()
	body := &bytes.Buffer{}
	writeU2(body, uint16(c.access))
	writeU2(body, p.class(graph.ToInternal(c.name)))
	if c.super != "" {
		writeU2(body, p.class(graph.ToInternal(c.super)))
	} else {
		writeU2(body, 0)
	}
	writeU2(body, uint16(len(c.interfaces)))
	for _, name := range c.interfaces {
		writeU2(body, p.class(graph.ToInternal(name)))
	}
	for _, name := range c.uses {
		p.class(graph.ToInternal(name))
	}
	for _, r := range c.refs {
		p.member(r.tag, graph.ToInternal(r.owner), r.name, r.descriptor)
	}
	for _, value := range c.longs {
		p.long(value)
	}
	for _, value := range c.strings {
		p.str(value)
	}
	for _, descriptor := range c.methodTypes {
		p.methodType(descriptor)
	}
	for _, members := range [][]*Member{c.fields, c.methods} {
		writeU2(body, uint16(len(members)))
		for _, member := range members {
			writeMember(body, p, member)
		}
	}
	var attributes []attribute
	if c.signature != "" {
		attributes = append(attributes, signatureAttribute(p, c.signature))
	}
	if len(c.annotations) > 0 {
		attributes = append(attributes, annotationsAttribute(p, c.annotations))
	}
	if len(c.inner) > 0 {
		data := &bytes.Buffer{}
		writeU2(data, uint16(len(c.inner)))
		for _, name := range c.inner {
			writeU2(data, p.class(graph.ToInternal(name)))
			writeU2(data, p.class(graph.ToInternal(c.name)))
			writeU2(data, p.utf8(graph.SimpleName(name)))
			writeU2(data, uint16(graph.AccPublic|graph.AccStatic))
		}
		attributes = append(attributes, attribute{name: "InnerClasses", data: data.Bytes()})
	}
	writeAttributes(body, p, attributes)
	body.Write(c.trailing)
	return assemble(c.major, c.minor, p, body.Bytes())
}

func assemble(major, minor int, p *pool, body []byte) []byte {
	out := &bytes.Buffer{}
	writeU4(out, 0xCAFEBABE)
	writeU2(out, uint16(minor))
	writeU2(out, uint16(major))
	out.Write(p.bytes())
	out.Write(body)
	return out.Bytes()
}

type attribute struct {
	name string
	data []byte
}

func writeAttributes(buf *bytes.Buffer, p *pool, attributes []attribute) {
	writeU2(buf, uint16(len(attributes)))
	for _, attr := range attributes {
		writeU2(buf, p.utf8(attr.name))
		writeU4(buf, uint32(len(attr.data)))
		buf.Write(attr.data)
	}
}

func writeMember(buf *bytes.Buffer, p *pool, member *Member) {
	writeU2(buf, uint16(member.Access))
	writeU2(buf, p.utf8(member.Name))
	writeU2(buf, p.utf8(member.Descriptor))
	var attributes []attribute
	if member.Signature != "" {
		attributes = append(attributes, signatureAttribute(p, member.Signature))
	}
	if len(member.Exceptions) > 0 {
		data := &bytes.Buffer{}
		writeU2(data, uint16(len(member.Exceptions)))
		for _, name := range member.Exceptions {
			writeU2(data, p.class(graph.ToInternal(name)))
		}
		attributes = append(attributes, attribute{name: "Exceptions", data: data.Bytes()})
	}
	if len(member.Annotations) > 0 {
		attributes = append(attributes, annotationsAttribute(p, member.Annotations))
	}
	if len(member.Locals) > 0 || len(member.Catches) > 0 {
		attributes = append(attributes, codeAttribute(p, member))
	}
	writeAttributes(buf, p, attributes)
}

func signatureAttribute(p *pool, signature string) attribute {
	data := &bytes.Buffer{}
	writeU2(data, p.utf8(signature))
	return attribute{name: "Signature", data: data.Bytes()}
}

func annotationsAttribute(p *pool, annotations []Annotation) attribute {
	data := &bytes.Buffer{}
	writeU2(data, uint16(len(annotations)))
	for _, annotation := range annotations {
		writeU2(data, p.utf8("L"+graph.ToInternal(annotation.Type)+";"))
		var pairs int
		if annotation.Class != "" {
			pairs++
		}
		if annotation.Enum != "" {
			pairs++
		}
		writeU2(data, uint16(pairs))
		if annotation.Class != "" {
			writeU2(data, p.utf8("value"))
			data.WriteByte('c')
			writeU2(data, p.utf8(annotation.Class))
		}
		if annotation.Enum != "" {
			writeU2(data, p.utf8("mode"))
			data.WriteByte('e')
			writeU2(data, p.utf8(annotation.Enum))
			writeU2(data, p.utf8("DEFAULT"))
		}
	}
	return attribute{name: "RuntimeVisibleAnnotations", data: data.Bytes()}
}

func codeAttribute(p *pool, member *Member) attribute {
	data := &bytes.Buffer{}
	writeU2(data, 1)
	writeU2(data, uint16(len(member.Locals)+1))
	code := []byte{0xB1} // return
	writeU4(data, uint32(len(code)))
	data.Write(code)
	writeU2(data, uint16(len(member.Catches)))
	for _, name := range member.Catches {
		writeU2(data, 0)
		writeU2(data, 1)
		writeU2(data, 0)
		writeU2(data, p.class(graph.ToInternal(name)))
	}
	var attributes []attribute
	table := &bytes.Buffer{}
	typeTable := &bytes.Buffer{}
	var typed int
	for i, local := range member.Locals {
		writeLocal(table, p, i, local.Name, local.Descriptor)
		if local.Signature != "" {
			typed++
			writeLocal(typeTable, p, i, local.Name, local.Signature)
		}
	}
	if len(member.Locals) > 0 {
		attributes = append(attributes, attribute{name: "LocalVariableTable", data: withCount(len(member.Locals), table.Bytes())})
	}
	if typed > 0 {
		attributes = append(attributes, attribute{name: "LocalVariableTypeTable", data: withCount(typed, typeTable.Bytes())})
	}
	writeAttributes(data, p, attributes)
	return attribute{name: "Code", data: data.Bytes()}
}

func writeLocal(buf *bytes.Buffer, p *pool, slot int, name, descriptor string) {
	writeU2(buf, 0)
	writeU2(buf, 1)
	writeU2(buf, p.utf8(name))
	writeU2(buf, p.utf8(descriptor))
	writeU2(buf, uint16(slot))
}

func withCount(count int, data []byte) []byte {
	buf := &bytes.Buffer{}
	writeU2(buf, uint16(count))
	buf.Write(data)
	return buf.Bytes()
}
