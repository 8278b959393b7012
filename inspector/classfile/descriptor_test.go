package classfile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collect(t *testing.T, scan func(string, func(string)) error, value string) []string {
	var result []string
	require.NoError(t, scan(value, func(name string) { result = append(result, name) }), value)
	return result
}

func TestScanDescriptor(t *testing.T) {
	assert.Equal(t, []string{"java.lang.String", "a.B$C"}, collect(t, scanDescriptor, "([[Ljava/lang/String;IJLa/B$C;)V"))
	assert.Nil(t, collect(t, scanDescriptor, "[I"))
	assert.Error(t, scanDescriptor("Ljava/lang/String", func(string) {}))
	assert.Error(t, scanDescriptor("Q", func(string) {}))
}

func TestScanSignature(t *testing.T) {
	var testCases = []struct {
		description string
		signature   string
		expect      []string
	}{
		{description: "field", signature: "Ljava/util/List<Ljava/lang/String;>;", expect: []string{"java.lang.String", "java.util.List"}},
		{description: "type variable", signature: "TT;", expect: nil},
		{description: "type parameter named L", signature: "<L:Ljava/lang/Object;>Ljava/lang/Object;", expect: []string{"java.lang.Object", "java.lang.Object"}},
		{description: "inner class with arguments", signature: "La/Outer<TK;>.Inner<[La/V;>;", expect: []string{"a.Outer", "a.V", "a.Outer$Inner"}},
		{description: "method with throws", signature: "<E:Ljava/lang/Exception;>([TE;)V^TE;^La/Fault;", expect: []string{"java.lang.Exception", "a.Fault"}},
		{description: "wildcards", signature: "Ljava/util/Map<*-La/K;>;", expect: []string{"a.K", "java.util.Map"}},
	}
	for _, testCase := range testCases {
		assert.Equal(t, testCase.expect, collect(t, scanSignature, testCase.signature), testCase.description)
	}
	assert.Error(t, scanSignature("Ljava/util/List<", func(string) {}))
	assert.Error(t, scanSignature("X", func(string) {}))
}

func TestParseMethodDescriptor(t *testing.T) {
	params, returnType, err := ParseMethodDescriptor("(I[JLjava/lang/String;)[La/B;")
	require.NoError(t, err)
	assert.Equal(t, []string{"I", "[J", "Ljava/lang/String;"}, params)
	assert.Equal(t, "[La/B;", returnType)
	assert.Equal(t, "a.B[]", TypeName(returnType))
	assert.Equal(t, "int", TypeName(params[0]))

	_, _, err = ParseMethodDescriptor("(I")
	assert.Error(t, err)
}

func TestDecodeModifiedUTF8(t *testing.T) {
	var testCases = []struct {
		description string
		data        []byte
		expect      string
	}{
		{description: "ascii", data: []byte("java/lang/Object"), expect: "java/lang/Object"},
		{description: "encoded nul", data: []byte{'a', 0xC0, 0x80, 'b'}, expect: "a\x00b"},
		{description: "two byte", data: []byte{0xC3, 0xA9}, expect: "é"},
		{description: "surrogate pair", data: []byte{0xED, 0xA0, 0xBD, 0xED, 0xB8, 0x80}, expect: "😀"},
	}
	for _, testCase := range testCases {
		actual, err := decodeModifiedUTF8(testCase.data)
		require.NoError(t, err, testCase.description)
		assert.Equal(t, testCase.expect, actual, testCase.description)
	}
	_, err := decodeModifiedUTF8([]byte{'a', 0})
	assert.Error(t, err)
	_, err = decodeModifiedUTF8([]byte{0xE0, 0x80})
	assert.Error(t, err)
}
