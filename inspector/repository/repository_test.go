package repository_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/jarhc/inspector/graph"
	"github.com/viant/jarhc/inspector/repository"
)

func TestDetectKind(t *testing.T) {
	var testCases = []struct {
		location string
		isDir    bool
		expect   repository.Kind
		ok       bool
	}{
		{location: "a/b.jar", expect: repository.KindArchive, ok: true},
		{location: "a/b.WAR", expect: repository.KindArchive, ok: true},
		{location: "Foo.class", expect: repository.KindClass, ok: true},
		{location: "classes", isDir: true, expect: repository.KindDirectory, ok: true},
		{location: "readme.txt"},
	}
	for _, testCase := range testCases {
		kind, ok := repository.DetectKind(testCase.location, testCase.isDir)
		assert.Equal(t, testCase.expect, kind, testCase.location)
		assert.Equal(t, testCase.ok, ok, testCase.location)
	}
}

func TestParsePomProperties(t *testing.T) {
	coordinate := repository.ParsePomProperties("META-INF/maven/com.acme/core/pom.properties", []byte("version = 1.2\n"))
	require.NotNil(t, coordinate)
	assert.Equal(t, "com.acme:core:1.2", coordinate.String())
	assert.Nil(t, repository.ParsePomProperties("META-INF/maven/com.acme/core/pom.properties", []byte("groupId=x\n")))
	assert.Nil(t, repository.ParsePomProperties("pom.properties", []byte("version=1")))
}

func TestParsePomXML(t *testing.T) {
	var testCases = []struct {
		description string
		entry       string
		content     string
		expect      string
	}{
		{
			description: "project coordinate",
			entry:       "META-INF/maven/com.acme/core/pom.xml",
			content:     `<project><groupId>com.acme</groupId><artifactId>core</artifactId><version>2.0</version></project>`,
			expect:      "com.acme:core:2.0",
		},
		{
			description: "inherited from parent",
			entry:       "META-INF/maven/com.acme/core/pom.xml",
			content:     `<project><parent><groupId>com.acme.parent</groupId><version>3.1</version></parent><artifactId>core</artifactId></project>`,
			expect:      "com.acme.parent:core:3.1",
		},
		{
			description: "unresolved property",
			entry:       "META-INF/maven/com.acme/core/pom.xml",
			content:     `<project><artifactId>core</artifactId><version>${revision}</version></project>`,
		},
		{
			description: "not xml",
			entry:       "META-INF/maven/com.acme/core/pom.xml",
			content:     `version=1`,
		},
		{
			description: "other entry",
			entry:       "pom.xml",
			content:     `<project><version>1</version></project>`,
		},
	}
	for _, testCase := range testCases {
		actual := repository.ParsePomXML(testCase.entry, []byte(testCase.content))
		if testCase.expect == "" {
			assert.Nil(t, actual, testCase.description)
			continue
		}
		require.NotNil(t, actual, testCase.description)
		assert.Equal(t, testCase.expect, actual.String(), testCase.description)
	}
}

func TestFileSource_Artifacts(t *testing.T) {
	dir := t.TempDir()
	libs := filepath.Join(dir, "libs")
	classes := filepath.Join(dir, "classes")
	require.NoError(t, os.MkdirAll(libs, 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(classes, "com"), 0o755))
	for _, name := range []string{"b-1.0.jar", "a-2.0.jar", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(libs, name), []byte(name), 0o644))
	}
	require.NoError(t, os.WriteFile(filepath.Join(classes, "com", "Foo.class"), []byte{0xCA}, 0o644))
	single := filepath.Join(dir, "single.jar")
	require.NoError(t, os.WriteFile(single, []byte("single"), 0o644))

	source := repository.NewFileSource([]string{single, libs, classes, filepath.Join(dir, "missing.jar")},
		repository.WithCoordinates(map[string]*graph.Coordinate{"single.jar": {Group: "g", Artifact: "single", Version: "1"}}))
	artifacts, err := source.Artifacts(context.Background())
	require.NoError(t, err)
	require.Len(t, artifacts, 5)

	assert.Equal(t, single, artifacts[0].Origin)
	assert.Equal(t, "g:single:1", artifacts[0].Coordinate.String())
	data, err := artifacts[0].Open(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "single", string(data))

	assert.Equal(t, "a-2.0.jar", filepath.Base(artifacts[1].Origin))
	assert.Equal(t, "b-1.0.jar", filepath.Base(artifacts[2].Origin))
	assert.Equal(t, repository.KindDirectory, artifacts[3].Kind)
	assert.Equal(t, repository.KindArchive, artifacts[4].Kind)
	_, err = artifacts[4].Open(context.Background())
	assert.Error(t, err)
}

func TestMemorySource(t *testing.T) {
	source := repository.NewMemorySource().Add("x.jar", []byte("x")).Add("y.jar", []byte("y"))
	artifacts, err := source.Artifacts(context.Background())
	require.NoError(t, err)
	require.Len(t, artifacts, 2)
	assert.Equal(t, "y.jar", artifacts[1].Origin)
}
