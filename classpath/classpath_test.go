package classpath_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/jarhc/classpath"
	"github.com/viant/jarhc/inspector/graph"
)

func newJar(origin string, classes ...*graph.Class) *graph.Jar {
	jar := &graph.Jar{Origin: origin}
	for _, class := range classes {
		jar.LayerFor(graph.BaseRelease).Add(class)
	}
	jar.Init()
	return jar
}

func class(name string, hash uint64) *graph.Class {
	return &graph.Class{Name: name, Major: 52, Hash: hash, Super: "java.lang.Object"}
}

func TestClasspath_Duplicates(t *testing.T) {
	a := newJar("a.jar", class("com.acme.Foo", 1), class("com.acme.Same", 7))
	b := newJar("b.jar", class("com.acme.Foo", 2), class("com.acme.Same", 7), class("com.acme.Bar", 3))
	c := newJar("c.jar", class("com.acme.Foo", 1))

	var testCases = []struct {
		description  string
		jars         []*graph.Jar
		expectWinner string
	}{
		{description: "a first", jars: []*graph.Jar{a, b, c}, expectWinner: "a.jar"},
		{description: "b first", jars: []*graph.Jar{b, a, c}, expectWinner: "b.jar"},
		{description: "c first", jars: []*graph.Jar{c, b, a}, expectWinner: "c.jar"},
	}
	for _, testCase := range testCases {
		cp := classpath.New(testCase.jars, 8)
		duplicates := cp.Duplicates()
		require.Len(t, duplicates, 2, testCase.description)
		foo := duplicates[0]
		assert.Equal(t, "com.acme.Foo", foo.Class, testCase.description)
		assert.Equal(t, testCase.expectWinner, foo.Winner.Origin, testCase.description)
		assert.Len(t, foo.Shadowed, 2, testCase.description)
		assert.False(t, foo.Identical, testCase.description)
		assert.Equal(t, "com.acme.Same", duplicates[1].Class, testCase.description)
		assert.True(t, duplicates[1].Identical, testCase.description)
		winner, provider := cp.Class("com.acme.Foo")
		assert.Equal(t, testCase.expectWinner, provider.Origin, testCase.description)
		assert.NotNil(t, winner, testCase.description)
	}
}

func TestClasspath_Indices(t *testing.T) {
	a := newJar("a.jar", class("com.acme.Foo", 1), class("Root", 4))
	a.Module = &graph.Module{Name: "com.acme", Automatic: true}
	b := newJar("b.jar", class("com.acme.Bar", 2), class("org.other.X", 3))
	unreadable := &graph.Jar{Origin: "bad.jar", Unreadable: true}
	unreadable.Init()
	cp := classpath.New([]*graph.Jar{a, unreadable, b}, 17)

	assert.Equal(t, 17, cp.Release())
	assert.Equal(t, 3, len(cp.Jars()))
	assert.Equal(t, 2, cp.IndexOf(b))
	assert.Equal(t, -1, cp.IndexOf(newJar("other.jar")))
	assert.Equal(t, []*graph.Jar{a, b}, cp.PackagesNamed("com.acme"))
	assert.Equal(t, []string{"", "com.acme", "org.other"}, cp.Packages())
	assert.Equal(t, 4, cp.ClassCount())
	assert.Equal(t, a, cp.ModuleOf("com.acme"))
	assert.Nil(t, cp.ModuleOf("missing"))
	assert.Empty(t, cp.ClassesNamed("missing.Class"))
	assert.Len(t, cp.ClassesOf(b), 2)
	assert.Empty(t, cp.Duplicates())
}

func TestClasspath_WithRelease(t *testing.T) {
	mr := &graph.Jar{Origin: "mr.jar", Manifest: map[string]string{graph.ManifestMultiRelease: "true"}}
	mr.LayerFor(8).Add(class("mr.A", 1))
	mr.LayerFor(11).Add(class("mr.B", 2))
	mr.Init()
	other := newJar("other.jar", class("mr.B", 3))

	cp := classpath.New([]*graph.Jar{mr, other}, 8)
	assert.Empty(t, cp.Duplicates())
	assert.Equal(t, []*graph.Jar{other}, cp.ClassesNamed("mr.B"))

	cp11 := cp.WithRelease(11)
	require.Len(t, cp11.Duplicates(), 1)
	assert.Equal(t, mr, cp11.Duplicates()[0].Winner)
	assert.NotNil(t, cp11.EffectiveClassOf(mr, "mr.B", 11))
	assert.Nil(t, cp11.EffectiveClassOf(mr, "mr.B", 8))
}
