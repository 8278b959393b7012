package jar

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseManifest(t *testing.T) {
	manifest := parseManifest([]byte("Manifest-Version: 1.0\r\nMulti-Release: true\r\nClass-Path: a.jar b\r\n .jar\r\n\r\nName: x\r\nSealed: true\r\n"))
	assert.Equal(t, "true", manifest["Multi-Release"])
	assert.Equal(t, "a.jar b.jar", manifest["Class-Path"])
	assert.NotContains(t, manifest, "Sealed")
}

func TestSplitVersioned(t *testing.T) {
	var testCases = []struct {
		name          string
		expectRelease int
		expectPath    string
		expectOK      bool
	}{
		{name: "a/B.class", expectRelease: 8, expectPath: "a/B.class"},
		{name: "META-INF/versions/11/a/B.class", expectRelease: 11, expectPath: "a/B.class", expectOK: true},
		{name: "META-INF/versions/x/a/B.class", expectPath: "META-INF/versions/x/a/B.class"},
		{name: "META-INF/versions/8/a/B.class", expectPath: "META-INF/versions/8/a/B.class"},
	}
	for _, testCase := range testCases {
		release, entryPath, ok := splitVersioned(testCase.name)
		assert.Equal(t, testCase.expectRelease, release, testCase.name)
		assert.Equal(t, testCase.expectPath, entryPath, testCase.name)
		assert.Equal(t, testCase.expectOK, ok, testCase.name)
	}
}
