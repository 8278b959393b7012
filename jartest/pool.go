package jartest

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"unicode/utf16"
)

// pool assembles a constant pool, reusing equal entries
type pool struct {
	buf   bytes.Buffer
	index map[string]uint16
	next  uint16
}

func newPool() *pool {
	return &pool{index: map[string]uint16{}, next: 1}
}

func (p *pool) put(key string, slots uint16, write func(buf *bytes.Buffer)) uint16 {
	if idx, ok := p.index[key]; ok {
		return idx
	}
	idx := p.next
	write(&p.buf)
	p.index[key] = idx
	p.next += slots
	return idx
}

func (p *pool) utf8(value string) uint16 {
	return p.put("U"+value, 1, func(buf *bytes.Buffer) {
		encoded := EncodeModifiedUTF8(value)
		buf.WriteByte(1)
		writeU2(buf, uint16(len(encoded)))
		buf.Write(encoded)
	})
}

func (p *pool) class(internal string) uint16 {
	nameIndex := p.utf8(internal)
	return p.put("C"+internal, 1, func(buf *bytes.Buffer) {
		buf.WriteByte(7)
		writeU2(buf, nameIndex)
	})
}

func (p *pool) nameAndType(name, descriptor string) uint16 {
	nameIndex, descriptorIndex := p.utf8(name), p.utf8(descriptor)
	return p.put("N"+name+":"+descriptor, 1, func(buf *bytes.Buffer) {
		buf.WriteByte(12)
		writeU2(buf, nameIndex)
		writeU2(buf, descriptorIndex)
	})
}

func (p *pool) member(tag byte, owner, name, descriptor string) uint16 {
	classIndex, natIndex := p.class(owner), p.nameAndType(name, descriptor)
	return p.put(fmt.Sprintf("M%d%s.%s%s", tag, owner, name, descriptor), 1, func(buf *bytes.Buffer) {
		buf.WriteByte(tag)
		writeU2(buf, classIndex)
		writeU2(buf, natIndex)
	})
}

func (p *pool) long(value int64) uint16 {
	return p.put(fmt.Sprintf("J%d", value), 2, func(buf *bytes.Buffer) {
		buf.WriteByte(5)
		_ = binary.Write(buf, binary.BigEndian, value)
	})
}

func (p *pool) str(value string) uint16 {
	valueIndex := p.utf8(value)
	return p.put("S"+value, 1, func(buf *bytes.Buffer) {
		buf.WriteByte(8)
		writeU2(buf, valueIndex)
	})
}

func (p *pool) methodType(descriptor string) uint16 {
	descriptorIndex := p.utf8(descriptor)
	return p.put("T"+descriptor, 1, func(buf *bytes.Buffer) {
		buf.WriteByte(16)
		writeU2(buf, descriptorIndex)
	})
}

func (p *pool) named(tag byte, name string) uint16 {
	nameIndex := p.utf8(name)
	return p.put(fmt.Sprintf("%d:%s", tag, name), 1, func(buf *bytes.Buffer) {
		buf.WriteByte(tag)
		writeU2(buf, nameIndex)
	})
}

func (p *pool) bytes() []byte {
	out := &bytes.Buffer{}
	writeU2(out, p.next)
	out.Write(p.buf.Bytes())
	return out.Bytes()
}

func writeU2(buf *bytes.Buffer, value uint16) {
	buf.WriteByte(byte(value >> 8))
	buf.WriteByte(byte(value))
}

func writeU4(buf *bytes.Buffer, value uint32) {
	_ = binary.Write(buf, binary.BigEndian, value)
}

// EncodeModifiedUTF8 encodes s the way class files store Utf8 constants
func EncodeModifiedUTF8(s string) []byte {
	var out []byte
	for _, r := range s {
		switch {
		case r != 0 && r < 0x80:
			out = append(out, byte(r))
		case r < 0x800:
			out = append(out, byte(0xC0|r>>6), byte(0x80|r&0x3F))
		case r < 0x10000:
			out = append(out, byte(0xE0|r>>12), byte(0x80|(r>>6)&0x3F), byte(0x80|r&0x3F))
		default:
			high, low := utf16.EncodeRune(r)
			for _, unit := range []rune{high, low} {
				out = append(out, byte(0xE0|unit>>12), byte(0x80|(unit>>6)&0x3F), byte(0x80|unit&0x3F))
			}
		}
	}
	return out
}
