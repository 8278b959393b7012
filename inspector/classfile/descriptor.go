package classfile

import (
	"fmt"
	"strings"

	"github.com/viant/jarhc/inspector/graph"
)

const primitiveTypes = "BCDFIJSZ"

// scanDescriptor adds every class type of a field or method descriptor
func scanDescriptor(descriptor string, add func(string)) error {
	for i := 0; i < len(descriptor); i++ {
		switch c := descriptor[i]; {
		case c == 'L':
			end := strings.IndexByte(descriptor[i:], ';')
			if end <= 1 {
				return fmt.Errorf("invalid descriptor %q", descriptor)
			}
			add(graph.ToExternal(descriptor[i+1 : i+end]))
			i += end
		case c == '[' || c == '(' || c == ')' || c == 'V':
		case strings.IndexByte(primitiveTypes, c) != -1:
		default:
			return fmt.Errorf("invalid descriptor %q: unexpected %q", descriptor, c)
		}
	}
	return nil
}

// ParseMethodDescriptor splits a method descriptor into parameter and return type descriptors
func ParseMethodDescriptor(descriptor string) ([]string, string, error) {
	if len(descriptor) < 3 || descriptor[0] != '(' {
		return nil, "", fmt.Errorf("invalid method descriptor %q", descriptor)
	}
	var params []string
	i := 1
	for i < len(descriptor) && descriptor[i] != ')' {
		end, err := fieldTypeEnd(descriptor, i)
		if err != nil {
			return nil, "", err
		}
		params = append(params, descriptor[i:end])
		i = end
	}
	if i >= len(descriptor) {
		return nil, "", fmt.Errorf("invalid method descriptor %q: missing ')'", descriptor)
	}
	returnType := descriptor[i+1:]
	if returnType != "V" {
		end, err := fieldTypeEnd(descriptor, i+1)
		if err != nil || end != len(descriptor) {
			return nil, "", fmt.Errorf("invalid method descriptor %q: bad return type", descriptor)
		}
	}
	return params, returnType, nil
}

func fieldTypeEnd(descriptor string, start int) (int, error) {
	i := start
	for i < len(descriptor) && descriptor[i] == '[' {
		i++
	}
	if i >= len(descriptor) {
		return 0, fmt.Errorf("invalid descriptor %q", descriptor)
	}
	if descriptor[i] == 'L' {
		end := strings.IndexByte(descriptor[i:], ';')
		if end <= 1 {
			return 0, fmt.Errorf("invalid descriptor %q", descriptor)
		}
		return i + end + 1, nil
	}
	if strings.IndexByte(primitiveTypes, descriptor[i]) == -1 {
		return 0, fmt.Errorf("invalid descriptor %q: unexpected %q", descriptor, descriptor[i])
	}
	return i + 1, nil
}

// TypeName converts a field descriptor to Java source form, e.g. [Ljava/lang/String; to java.lang.String[]
func TypeName(descriptor string) string {
	dims := 0
	for dims < len(descriptor) && descriptor[dims] == '[' {
		dims++
	}
	base := descriptor[dims:]
	var name string
	switch base {
	case "B":
		name = "byte"
	case "C":
		name = "char"
	case "D":
		name = "double"
	case "F":
		name = "float"
	case "I":
		name = "int"
	case "J":
		name = "long"
	case "S":
		name = "short"
	case "Z":
		name = "boolean"
	case "V":
		name = "void"
	default:
		name = graph.ToExternal(strings.TrimSuffix(strings.TrimPrefix(base, "L"), ";"))
	}
	return name + strings.Repeat("[]", dims)
}

// signatureScanner walks generic signatures (JVMS 4.7.9.1) and reports class types
type signatureScanner struct {
	value string
	pos   int
	add   func(string)
}

// scanSignature adds every class type of a class, method or field signature
func scanSignature(signature string, add func(string)) error {
	s := &signatureScanner{value: signature, add: add}
	if err := s.parse(); err != nil {
		return fmt.Errorf("invalid signature %q: %w", signature, err)
	}
	return nil
}

func (s *signatureScanner) peek() byte {
	if s.pos < len(s.value) {
		return s.value[s.pos]
	}
	return 0
}

func (s *signatureScanner) expect(c byte) error {
	if s.peek() != c {
		return fmt.Errorf("expected %q at %d", c, s.pos)
	}
	s.pos++
	return nil
}

func (s *signatureScanner) parse() error {
	if s.peek() == '<' {
		if err := s.typeParameters(); err != nil {
			return err
		}
	}
	if s.peek() == '(' {
		s.pos++
		for s.peek() != ')' {
			if s.pos >= len(s.value) {
				return fmt.Errorf("missing ')'")
			}
			if err := s.typeSignature(); err != nil {
				return err
			}
		}
		s.pos++
		if s.peek() == 'V' {
			s.pos++
		} else if err := s.typeSignature(); err != nil {
			return err
		}
		for s.peek() == '^' {
			s.pos++
			if err := s.referenceType(); err != nil {
				return err
			}
		}
	} else {
		for s.pos < len(s.value) {
			if err := s.referenceType(); err != nil {
				return err
			}
		}
	}
	if s.pos != len(s.value) {
		return fmt.Errorf("trailing data at %d", s.pos)
	}
	return nil
}

func (s *signatureScanner) typeParameters() error {
	s.pos++
	for s.peek() != '>' {
		if s.pos >= len(s.value) {
			return fmt.Errorf("missing '>'")
		}
		if _, err := s.identifier(":"); err != nil {
			return err
		}
		if err := s.expect(':'); err != nil {
			return err
		}
		if c := s.peek(); c != ':' && c != '>' {
			if err := s.referenceType(); err != nil {
				return err
			}
		}
		for s.peek() == ':' {
			s.pos++
			if err := s.referenceType(); err != nil {
				return err
			}
		}
	}
	s.pos++
	return nil
}

func (s *signatureScanner) typeSignature() error {
	if c := s.peek(); c != 0 && strings.IndexByte(primitiveTypes, c) != -1 {
		s.pos++
		return nil
	}
	return s.referenceType()
}

func (s *signatureScanner) referenceType() error {
	switch s.peek() {
	case 'L':
		s.pos++
		return s.classType()
	case 'T':
		s.pos++
		if _, err := s.identifier(";"); err != nil {
			return err
		}
		return s.expect(';')
	case '[':
		s.pos++
		return s.typeSignature()
	}
	return fmt.Errorf("unexpected %q at %d", s.peek(), s.pos)
}

func (s *signatureScanner) classType() error {
	name, err := s.identifier("<.;")
	if err != nil {
		return err
	}
	if s.peek() == '<' {
		if err = s.typeArguments(); err != nil {
			return err
		}
	}
	for s.peek() == '.' {
		s.add(graph.ToExternal(name))
		s.pos++
		inner, err := s.identifier("<.;")
		if err != nil {
			return err
		}
		name += "$" + inner
		if s.peek() == '<' {
			if err = s.typeArguments(); err != nil {
				return err
			}
		}
	}
	if err = s.expect(';'); err != nil {
		return err
	}
	s.add(graph.ToExternal(name))
	return nil
}

func (s *signatureScanner) typeArguments() error {
	s.pos++
	for s.peek() != '>' {
		switch s.peek() {
		case 0:
			return fmt.Errorf("missing '>'")
		case '*':
			s.pos++
			continue
		case '+', '-':
			s.pos++
		}
		if err := s.referenceType(); err != nil {
			return err
		}
	}
	s.pos++
	return nil
}

func (s *signatureScanner) identifier(terminators string) (string, error) {
	start := s.pos
	for s.pos < len(s.value) && strings.IndexByte(terminators, s.value[s.pos]) == -1 {
		s.pos++
	}
	if s.pos == start || s.pos >= len(s.value) {
		return "", fmt.Errorf("invalid identifier at %d", start)
	}
	return s.value[start:s.pos], nil
}
