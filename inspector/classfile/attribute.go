package classfile

import (
	"fmt"

	"github.com/viant/jarhc/inspector/graph"
)

// Attribute names
const (
	attrSignature                            = "Signature"
	attrExceptions                           = "Exceptions"
	attrInnerClasses                         = "InnerClasses"
	attrCode                                 = "Code"
	attrLocalVariableTable                   = "LocalVariableTable"
	attrLocalVariableTypeTable               = "LocalVariableTypeTable"
	attrAnnotationDefault                    = "AnnotationDefault"
	attrRuntimeVisibleAnnotations            = "RuntimeVisibleAnnotations"
	attrRuntimeInvisibleAnnotations          = "RuntimeInvisibleAnnotations"
	attrRuntimeVisibleParameterAnnotations   = "RuntimeVisibleParameterAnnotations"
	attrRuntimeInvisibleParameterAnnotations = "RuntimeInvisibleParameterAnnotations"
	attrRuntimeVisibleTypeAnnotations        = "RuntimeVisibleTypeAnnotations"
	attrRuntimeInvisibleTypeAnnotations      = "RuntimeInvisibleTypeAnnotations"
	attrModule                               = "Module"
	attrModulePackages                       = "ModulePackages"
)

// collector accumulates the symbols of one class file
type collector struct {
	pool        *constantPool
	references  map[string]bool
	annotations map[string]bool
	module      *graph.Module
	packages    []string // ModulePackages, may precede the Module attribute
}

func (c *collector) add(name string) {
	c.references[name] = true
}

func (c *collector) addAnnotation(descriptor string) error {
	return scanDescriptor(descriptor, func(name string) {
		c.annotations[name] = true
		c.references[name] = true
	})
}

// readAttributes parses an attribute table; unknown attributes are skipped by length
func (c *collector) readAttributes(r *reader) error {
	count := int(r.u2())
	for i := 0; i < count; i++ {
		nameIndex := r.u2()
		length := int(r.u4())
		if r.err != nil {
			return r.err
		}
		name, err := c.pool.utf8(nameIndex)
		if err != nil {
			return fmt.Errorf("attribute name: %w", err)
		}
		body := r.sub(length)
		if r.err != nil {
			return r.err
		}
		if err = c.readAttribute(name, body); err != nil {
			return fmt.Errorf("%v attribute: %w", name, err)
		}
	}
	return r.err
}

func (c *collector) readAttribute(name string, r *reader) error {
	switch name {
	case attrSignature:
		signature, err := c.pool.utf8(r.u2())
		if err != nil {
			return err
		}
		return scanSignature(signature, c.add)
	case attrExceptions:
		count := int(r.u2())
		for i := 0; i < count; i++ {
			if err := c.classRef(r.u2()); err != nil {
				return err
			}
		}
	case attrInnerClasses:
		count := int(r.u2())
		for i := 0; i < count; i++ {
			inner, outer := r.u2(), r.u2()
			r.skip(4)
			if err := c.classRef(inner); err != nil {
				return err
			}
			if outer != 0 {
				if err := c.classRef(outer); err != nil {
					return err
				}
			}
		}
	case attrCode:
		r.skip(4)
		codeLength := int(r.u4())
		r.skip(codeLength)
		handlers := int(r.u2())
		for i := 0; i < handlers; i++ {
			r.skip(6)
			if catchType := r.u2(); catchType != 0 {
				if err := c.classRef(catchType); err != nil {
					return err
				}
			}
		}
		return c.readAttributes(r)
	case attrLocalVariableTable, attrLocalVariableTypeTable:
		count := int(r.u2())
		for i := 0; i < count; i++ {
			r.skip(6)
			value, err := c.pool.utf8(r.u2())
			if err != nil {
				return err
			}
			r.skip(2)
			if name == attrLocalVariableTable {
				err = scanDescriptor(value, c.add)
			} else {
				err = scanSignature(value, c.add)
			}
			if err != nil {
				return err
			}
		}
	case attrRuntimeVisibleAnnotations, attrRuntimeInvisibleAnnotations:
		return c.readAnnotations(r)
	case attrRuntimeVisibleParameterAnnotations, attrRuntimeInvisibleParameterAnnotations:
		params := int(r.u1())
		for i := 0; i < params; i++ {
			if err := c.readAnnotations(r); err != nil {
				return err
			}
		}
	case attrRuntimeVisibleTypeAnnotations, attrRuntimeInvisibleTypeAnnotations:
		return c.readTypeAnnotations(r)
	case attrAnnotationDefault:
		return c.readElementValue(r)
	case attrModule:
		return c.readModule(r)
	case attrModulePackages:
		count := int(r.u2())
		for i := 0; i < count; i++ {
			pkg, err := c.pool.namedUtf8(r.u2())
			if err != nil {
				return err
			}
			c.packages = append(c.packages, graph.ToExternal(pkg))
		}
	}
	return r.err
}

func (c *collector) classRef(index uint16) error {
	name, err := c.pool.className(index)
	if err != nil {
		return err
	}
	return classNameSymbols(name, c.add)
}

func (c *collector) readAnnotations(r *reader) error {
	count := int(r.u2())
	for i := 0; i < count; i++ {
		if err := c.readAnnotation(r); err != nil {
			return err
		}
	}
	return r.err
}

func (c *collector) readAnnotation(r *reader) error {
	typeName, err := c.pool.utf8(r.u2())
	if err != nil {
		return err
	}
	if err = c.addAnnotation(typeName); err != nil {
		return err
	}
	pairs := int(r.u2())
	for i := 0; i < pairs; i++ {
		r.skip(2)
		if err = c.readElementValue(r); err != nil {
			return err
		}
	}
	return r.err
}

func (c *collector) readElementValue(r *reader) error {
	tag := r.u1()
	if r.err != nil {
		return r.err
	}
	switch tag {
	case 'B', 'C', 'D', 'F', 'I', 'J', 'S', 'Z', 's':
		r.skip(2)
	case 'e':
		typeName, err := c.pool.utf8(r.u2())
		if err != nil {
			return err
		}
		r.skip(2)
		return scanDescriptor(typeName, c.add)
	case 'c':
		returnType, err := c.pool.utf8(r.u2())
		if err != nil {
			return err
		}
		return scanDescriptor(returnType, c.add)
	case '@':
		return c.readAnnotation(r)
	case '[':
		count := int(r.u2())
		for i := 0; i < count; i++ {
			if err := c.readElementValue(r); err != nil {
				return err
			}
		}
	default:
		return fmt.Errorf("unknown element value tag %q", tag)
	}
	return r.err
}

// readTypeAnnotations records annotation types only; target and path info is skipped
func (c *collector) readTypeAnnotations(r *reader) error {
	count := int(r.u2())
	for i := 0; i < count; i++ {
		target := r.u1()
		switch {
		case target == 0x00 || target == 0x01 || target == 0x16:
			r.skip(1)
		case target == 0x10 || target == 0x17 || target == 0x42:
			r.skip(2)
		case target == 0x11 || target == 0x12:
			r.skip(2)
		case target >= 0x13 && target <= 0x15:
		case target == 0x40 || target == 0x41:
			r.skip(int(r.u2()) * 6)
		case target >= 0x43 && target <= 0x46:
			r.skip(2)
		case target >= 0x47 && target <= 0x4B:
			r.skip(3)
		default:
			return fmt.Errorf("unknown type annotation target 0x%02x", target)
		}
		r.skip(int(r.u1()) * 2)
		if err := c.readAnnotation(r); err != nil {
			return err
		}
	}
	return r.err
}

// Module attribute flags
const (
	moduleOpen        = 0x0020
	requireTransitive = 0x0020
	requireStatic     = 0x0040
)

func (c *collector) readModule(r *reader) error {
	name, err := c.pool.namedUtf8(r.u2())
	if err != nil {
		return err
	}
	module := &graph.Module{Name: name}
	module.Open = r.u2()&moduleOpen != 0
	if versionIndex := r.u2(); versionIndex != 0 {
		if module.Version, err = c.pool.utf8(versionIndex); err != nil {
			return err
		}
	}
	requires := int(r.u2())
	for i := 0; i < requires; i++ {
		required, err := c.pool.namedUtf8(r.u2())
		if err != nil {
			return err
		}
		flags := r.u2()
		r.skip(2)
		module.Requires = append(module.Requires, &graph.Require{
			Name:       required,
			Transitive: flags&requireTransitive != 0,
			Static:     flags&requireStatic != 0,
		})
	}
	if module.Exports, err = c.readExports(r); err != nil {
		return err
	}
	if module.Opens, err = c.readExports(r); err != nil {
		return err
	}
	uses := int(r.u2())
	for i := 0; i < uses; i++ {
		service, err := c.pool.className(r.u2())
		if err != nil {
			return err
		}
		module.Uses = append(module.Uses, graph.ToExternal(service))
		c.add(graph.ToExternal(service))
	}
	provides := int(r.u2())
	for i := 0; i < provides; i++ {
		service, err := c.pool.className(r.u2())
		if err != nil {
			return err
		}
		provide := &graph.Provide{Service: graph.ToExternal(service)}
		with := int(r.u2())
		for j := 0; j < with; j++ {
			implementation, err := c.pool.className(r.u2())
			if err != nil {
				return err
			}
			provide.With = append(provide.With, graph.ToExternal(implementation))
		}
		module.Provides = append(module.Provides, provide)
	}
	if r.err != nil {
		return r.err
	}
	c.module = module
	return nil
}

func (c *collector) readExports(r *reader) ([]*graph.Export, error) {
	var result []*graph.Export
	count := int(r.u2())
	for i := 0; i < count; i++ {
		pkg, err := c.pool.namedUtf8(r.u2())
		if err != nil {
			return nil, err
		}
		r.skip(2)
		export := &graph.Export{Package: graph.ToExternal(pkg)}
		targets := int(r.u2())
		for j := 0; j < targets; j++ {
			target, err := c.pool.namedUtf8(r.u2())
			if err != nil {
				return nil, err
			}
			export.To = append(export.To, target)
		}
		result = append(result, export)
	}
	return result, r.err
}
