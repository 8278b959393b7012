package classfile

import (
	"sort"

	jerrors "github.com/viant/jarhc/errors"
	"github.com/viant/jarhc/inspector/graph"
)

const magic = 0xCAFEBABE

// Parse decodes a class file into a class descriptor.
// A class newer than MaxSupportedMajor is returned with Degraded set, together with
// an UNSUPPORTED_CLASS_VERSION error; any other error means the bytes are not a usable class file.
func Parse(data []byte) (*graph.Class, error) {
	class, _, err := parse(data)
	return class, err
}

// ParseModule decodes a module-info.class into a module descriptor
func ParseModule(data []byte) (*graph.Module, error) {
	class, module, err := parse(data)
	if err != nil && !jerrors.IsDegraded(err) {
		return nil, err
	}
	if module == nil {
		name := ""
		if class != nil {
			name = class.Name
		}
		return nil, jerrors.New(jerrors.MalformedClassFile, "%v is not a module descriptor", name)
	}
	return module, nil
}

func parse(data []byte) (*graph.Class, *graph.Module, error) {
	r := newReader(data)
	if r.u4() != magic {
		if r.err != nil {
			return nil, nil, jerrors.Wrap(jerrors.MalformedClassFile, r.err, "invalid header")
		}
		return nil, nil, jerrors.New(jerrors.MalformedClassFile, "invalid magic number")
	}
	minor, major := int(r.u2()), int(r.u2())
	if r.err != nil {
		return nil, nil, jerrors.Wrap(jerrors.MalformedClassFile, r.err, "invalid header")
	}
	if major < MinSupportedMajor {
		return nil, nil, jerrors.New(jerrors.MalformedClassFile, "invalid class file version %d.%d", major, minor)
	}
	pool, err := readConstantPool(r)
	if err != nil {
		return nil, nil, jerrors.Wrap(jerrors.MalformedClassFile, err, "invalid constant pool")
	}
	c := &collector{pool: pool, references: map[string]bool{}, annotations: map[string]bool{}}
	class := &graph.Class{Major: major, Minor: minor, Size: len(data), Hash: graph.Hash(data)}
	degraded := major > MaxSupportedMajor
	if err = c.readClass(r, class); err != nil && !degraded {
		return nil, nil, jerrors.Wrap(jerrors.MalformedClassFile, err, "invalid class %v", class.Name)
	}
	if err = pool.symbols(c.add); err != nil && !degraded {
		return nil, nil, jerrors.Wrap(jerrors.MalformedClassFile, err, "invalid class %v", class.Name)
	}
	if !degraded {
		if class.MemberRefs, err = pool.memberRefs(); err != nil {
			return nil, nil, jerrors.Wrap(jerrors.MalformedClassFile, err, "invalid class %v", class.Name)
		}
	}
	class.References = sortedKeys(c.references, class.Name)
	class.Annotations = sortedKeys(c.annotations, "")
	module := c.module
	if module != nil {
		module.Packages = append(module.Packages, c.packages...)
		sort.Strings(module.Packages)
	}
	if degraded {
		class.Degraded = true
		return class, module, jerrors.New(jerrors.UnsupportedClassVersion, "class %v has unsupported version %d (%v)", class.Name, major, JavaVersion(major))
	}
	return class, module, nil
}

func (c *collector) readClass(r *reader, class *graph.Class) error {
	class.Access = graph.AccessFlags(r.u2())
	thisName, err := c.pool.className(r.u2())
	if err != nil {
		return err
	}
	class.Name = graph.ToExternal(thisName)
	if superIndex := r.u2(); superIndex != 0 {
		superName, err := c.pool.className(superIndex)
		if err != nil {
			return err
		}
		class.Super = graph.ToExternal(superName)
	}
	interfaces := int(r.u2())
	for i := 0; i < interfaces; i++ {
		name, err := c.pool.className(r.u2())
		if err != nil {
			return err
		}
		class.Interfaces = append(class.Interfaces, graph.ToExternal(name))
	}
	if r.err != nil {
		return r.err
	}
	fields := int(r.u2())
	for i := 0; i < fields; i++ {
		member, err := c.readMember(r)
		if err != nil {
			return err
		}
		class.AddField(member)
	}
	methods := int(r.u2())
	for i := 0; i < methods; i++ {
		member, err := c.readMember(r)
		if err != nil {
			return err
		}
		class.AddMethod(member)
	}
	if err = c.readAttributes(r); err != nil {
		return err
	}
	if r.remaining() > 0 {
		r.fail("%d trailing bytes", r.remaining())
	}
	return r.err
}

func (c *collector) readMember(r *reader) (*graph.Member, error) {
	access := graph.AccessFlags(r.u2())
	name, err := c.pool.utf8(r.u2())
	if err != nil {
		return nil, err
	}
	descriptor, err := c.pool.utf8(r.u2())
	if err != nil {
		return nil, err
	}
	if err = scanDescriptor(descriptor, c.add); err != nil {
		return nil, err
	}
	if err = c.readAttributes(r); err != nil {
		return nil, err
	}
	return &graph.Member{Name: name, Descriptor: descriptor, Access: access}, nil
}

func sortedKeys(set map[string]bool, exclude string) []string {
	result := make([]string, 0, len(set))
	for key := range set {
		if key != exclude {
			result = append(result, key)
		}
	}
	sort.Strings(result)
	return result
}
