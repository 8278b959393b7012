package errors

import (
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCodeOf(t *testing.T) {
	testCases := []struct {
		description string
		err         error
		expect      Code
	}{
		{description: "nil", err: nil, expect: ""},
		{description: "plain", err: io.EOF, expect: ""},
		{description: "direct", err: New(MalformedClassFile, "bad magic %x", 0xCAFE), expect: MalformedClassFile},
		{description: "wrapped", err: fmt.Errorf("entry a/B.class: %w", Wrap(UnreadableArchive, io.ErrUnexpectedEOF, "zip")), expect: UnreadableArchive},
	}
	for _, testCase := range testCases {
		assert.Equal(t, testCase.expect, CodeOf(testCase.err), testCase.description)
	}
}

func TestError(t *testing.T) {
	err := Wrap(UnreadableArchive, io.ErrUnexpectedEOF, "failed to open %s", "a.jar")
	assert.Equal(t, "[UNREADABLE_ARCHIVE] failed to open a.jar: unexpected EOF", err.Error())
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
	assert.True(t, Is(err, UnreadableArchive))
	assert.False(t, IsFatal(err))
	assert.True(t, IsFatal(New(EmptyClasspath, "nothing to analyze")))
	assert.True(t, IsDegraded(New(UnsupportedClassVersion, "major 99")))
}
