package graph_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/viant/jarhc/inspector/graph"
)

func TestClass_Members(t *testing.T) {
	class := &graph.Class{Name: "com.acme.X", References: []string{"com.acme.Y", "java.lang.Object", "java.lang.String"}}
	class.AddMethod(&graph.Member{Name: "m", Descriptor: "()V", Access: graph.AccPublic})
	class.AddField(&graph.Member{Name: "count", Descriptor: "I", Access: graph.AccPrivate | graph.AccStatic})

	assert.NotNil(t, class.GetMethod("m", "()V"))
	assert.Nil(t, class.GetMethod("m", "()I"))
	assert.NotNil(t, class.GetField("count", "I"))
	assert.Equal(t, "com.acme", class.Package())
	assert.True(t, class.Mentions("java.lang.String"))
	assert.False(t, class.Mentions("java.lang.Integer"))
	assert.Equal(t, "private static", class.Fields[0].Access.String())
	assert.True(t, class.Methods[0].Access.IsVisible())

	clone := class.Clone()
	clone.Name = "other"
	assert.Equal(t, "com.acme.X", class.Name)
	assert.NotNil(t, clone.GetMethod("m", "()V"))
}

func TestNames(t *testing.T) {
	assert.Equal(t, "java.util.Map$Entry", graph.ToExternal("java/util/Map$Entry"))
	assert.Equal(t, "java/util/Map", graph.ToInternal("java.util.Map"))
	assert.Equal(t, "", graph.PackageOf("Foo"))
	assert.Equal(t, graph.DefaultPackage, graph.DisplayPackage(graph.PackageOf("Foo")))
	assert.Equal(t, "Map$Entry", graph.SimpleName("java.util.Map$Entry"))
	assert.Equal(t, "a.Outer", graph.TopLevelName("a.Outer$Inner$1"))
	assert.Equal(t, "Outer", graph.TopLevelName("Outer$Inner"))
	assert.Equal(t, "a.$Proxy", graph.TopLevelName("a.$Proxy"))
	assert.Equal(t, "a.Plain", graph.TopLevelName("a.Plain"))
}

func TestModule_IsExported(t *testing.T) {
	module := &graph.Module{
		Name: "com.acme.core",
		Exports: []*graph.Export{
			{Package: "com.acme.api"},
			{Package: "com.acme.spi", To: []string{"com.acme.impl"}},
		},
		Requires: []*graph.Require{{Name: "java.base"}, {Name: "java.sql", Transitive: true}},
	}
	assert.True(t, module.IsExported("com.acme.api", "anyone"))
	assert.True(t, module.IsExported("com.acme.spi", "com.acme.impl"))
	assert.False(t, module.IsExported("com.acme.spi", "com.other"))
	assert.False(t, module.IsExported("com.acme.internal", "com.acme.impl"))
	assert.Equal(t, []string{"com.acme.api", "com.acme.spi"}, module.ExportedPackages())
	assert.Equal(t, []string{"java.base", "java.sql"}, module.RequiredModules())
	assert.True(t, (&graph.Module{Name: "auto", Automatic: true}).IsExported("x", "y"))
}

func TestHash(t *testing.T) {
	a := graph.Hash([]byte{0xCA, 0xFE, 0xBA, 0xBE})
	b := graph.Hash([]byte{0xCA, 0xFE, 0xBA, 0xBE})
	c := graph.Hash([]byte{0xCA, 0xFE, 0xBA, 0xBF})
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Len(t, graph.HashString(a), 16)
}
