package analyzer_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/jarhc/analyzer"
	jerrors "github.com/viant/jarhc/errors"
	"github.com/viant/jarhc/inspector/graph"
	"github.com/viant/jarhc/report"
)

func method(name, descriptor string, access graph.AccessFlags) *graph.Member {
	return &graph.Member{Name: name, Descriptor: descriptor, Access: access}
}

func analyze(t *testing.T, a analyzer.Analyzer, c *analyzer.Context) *report.Section {
	section, err := a.Analyze(context.Background(), c)
	require.NoError(t, err)
	assert.Equal(t, a.Name(), section.Name)
	return section
}

func TestJarFiles(t *testing.T) {
	app := newJar("lib/commons-lang-2.6.jar", class("org.apache.commons.lang.StringUtils"))
	app.Checksum = "abc"
	app.Size = 1024
	broken := &graph.Jar{Origin: "broken.jar", Unreadable: true, Anomalies: []*graph.Anomaly{{Entry: "broken.jar", Code: jerrors.UnreadableArchive, Message: "not a zip"}}}
	broken.Init()

	section := analyze(t, &analyzer.JarFiles{}, newContext(t, 8, nil, app, broken))
	require.Len(t, section.Rows, 2)
	row := section.Rows[0]
	assert.Equal(t, "commons-lang-2.6.jar", row.Key)
	assert.Equal(t, "commons-lang", row.Cells[1].Str)
	assert.Equal(t, "2.6", row.Cells[2].Str)
	assert.Equal(t, int64(1024), row.Cells[4].Int)
	assert.Equal(t, int64(1), row.Cells[5].Int)
	assert.Equal(t, report.Error, section.Rows[1].Severity)
	assert.Equal(t, int64(1), section.Rows[1].Cells[9].Int)

	anomalies := analyze(t, &analyzer.Anomalies{}, newContext(t, 8, nil, app, broken))
	require.Len(t, anomalies.Rows, 1)
	assert.Equal(t, "broken.jar|broken.jar|UNREADABLE_ARCHIVE", anomalies.Rows[0].Key)
	assert.Equal(t, report.Error, anomalies.Rows[0].Severity)
}

func TestClassVersions(t *testing.T) {
	modern := class("app.Modern")
	modern.Major = 61
	legacy := class("app.Legacy")

	var testCases = []struct {
		description    string
		release        int
		expectSeverity report.Severity
	}{
		{description: "runtime too old", release: 11, expectSeverity: report.Error},
		{description: "runtime recent enough", release: 17, expectSeverity: report.Info},
	}
	for _, testCase := range testCases {
		c := newContext(t, testCase.release, nil, newJar("app.jar", modern, legacy))
		section := analyze(t, &analyzer.ClassVersions{}, c)
		require.Len(t, section.Rows, 1, testCase.description)
		row := section.Rows[0]
		assert.Equal(t, testCase.expectSeverity, row.Severity, testCase.description)
		assert.Equal(t, int64(61), row.Cells[1].Int, testCase.description)
		assert.Equal(t, "Java 17", row.Cells[2].Str, testCase.description)
		assert.Equal(t, []string{"Java 17 (1)", "Java 8 (1)"}, row.Cells[3].List, testCase.description)
	}
}

func TestDuplicateClasses(t *testing.T) {
	var testCases = []struct {
		description     string
		shadowedHash    uint64
		expectIdentical bool
		expectSeverity  report.Severity
	}{
		{description: "identical bytecode", shadowedHash: 7, expectIdentical: true, expectSeverity: report.Warning},
		{description: "different bytecode", shadowedHash: 42, expectIdentical: false, expectSeverity: report.Error},
	}
	for _, testCase := range testCases {
		winner := class("com.acme.Foo")
		winner.Hash = 7
		shadowed := class("com.acme.Foo")
		shadowed.Hash = testCase.shadowedHash
		c := newContext(t, 8, nil, newJar("a.jar", winner), newJar("b.jar", shadowed), newJar("c.jar", class("com.acme.Baz")))

		section := analyze(t, &analyzer.DuplicateClasses{}, c)
		require.Len(t, section.Rows, 1, testCase.description)
		row := section.Rows[0]
		assert.Equal(t, "com.acme.Foo", row.Key, testCase.description)
		assert.Equal(t, testCase.expectSeverity, row.Severity, testCase.description)
		assert.Equal(t, "com.acme.Foo", row.Cells[0].Str, testCase.description)
		assert.Equal(t, "a.jar", row.Cells[1].Str, testCase.description)
		assert.Equal(t, []string{"b.jar"}, row.Cells[2].List, testCase.description)
		assert.Equal(t, report.BoolKind, row.Cells[3].Kind, testCase.description)
		assert.Equal(t, testCase.expectIdentical, row.Cells[3].Bool, testCase.description)
	}
}

func TestDuplicateResources(t *testing.T) {
	a := newJar("a.jar")
	a.Resources = []*graph.Resource{
		{Path: "META-INF/MANIFEST.MF", Hash: 1},
		{Path: "META-INF/services/java.sql.Driver", Hash: 2},
		{Path: "config/app.properties", Hash: 3},
		{Path: "logo.png", Hash: 4},
	}
	a.Init()
	b := newJar("b.jar")
	b.Resources = []*graph.Resource{
		{Path: "META-INF/MANIFEST.MF", Hash: 5},
		{Path: "META-INF/services/java.sql.Driver", Hash: 6},
		{Path: "config/app.properties", Hash: 3},
	}
	b.Init()

	section := analyze(t, &analyzer.DuplicateResources{}, newContext(t, 8, nil, a, b))
	actual := rows(section)
	require.Len(t, actual, 2)
	assert.True(t, actual["config/app.properties"].Cells[2].Bool)
	assert.Equal(t, report.Info, actual["config/app.properties"].Severity)
	assert.False(t, actual["META-INF/services/java.sql.Driver"].Cells[2].Bool)
	assert.Equal(t, report.Warning, actual["META-INF/services/java.sql.Driver"].Severity)
}

func TestPlatformShadowed(t *testing.T) {
	c := newContext(t, 17, nil,
		newJar("rogue.jar", class("java.lang.Fake"), class("javax.sql.DataSource"), class("org.acme.Own")))
	section := analyze(t, &analyzer.PlatformShadowed{}, c)
	actual := rows(section)
	require.Len(t, actual, 2)
	assert.Equal(t, report.Error, actual["java.lang.Fake"].Severity)
	assert.Equal(t, report.Warning, actual["javax.sql.DataSource"].Severity)
	assert.Equal(t, "java.sql", actual["javax.sql.DataSource"].Cells[2].Str)
}

func TestDependencies(t *testing.T) {
	app := newJar("app.jar", class("app.Main", "lib.Api", "dup.Shared", "gone.Missing"))
	lib := newJar("lib.jar", class("lib.Api"))
	dupA := newJar("dup-a.jar", class("dup.Shared"))
	dupB := newJar("dup-b.jar", class("dup.Shared"))
	c := newContext(t, 8, nil, app, lib, dupA, dupB)

	unresolved := analyze(t, &analyzer.UnresolvedDependencies{}, c)
	require.Len(t, unresolved.Rows, 1)
	assert.Equal(t, "app.jar|app.Main|gone.Missing", unresolved.Rows[0].Key)

	ambiguous := analyze(t, &analyzer.AmbiguousDependencies{}, c)
	require.Len(t, ambiguous.Rows, 1)
	row := ambiguous.Rows[0]
	assert.Equal(t, "dup.Shared", row.Key)
	assert.Equal(t, "dup-a.jar", row.Cells[1].Str)
	assert.Equal(t, []string{"dup-b.jar"}, row.Cells[2].List)
	assert.Equal(t, []string{"app.jar"}, row.Cells[3].List)

	dependencies := rows(analyze(t, &analyzer.JarDependencies{}, c))
	assert.Equal(t, []string{"lib.jar", "dup-a.jar"}, dependencies["app.jar"].Cells[1].List)
	assert.Equal(t, []string{"app.jar"}, dependencies["lib.jar"].Cells[2].List)
	assert.Empty(t, dependencies["dup-b.jar"].Cells[2].List)
}

func TestMissingMembers(t *testing.T) {
	service := class("lib.Service")
	service.AddMethod(method("run", "()V", graph.AccPublic))
	service.AddField(&graph.Member{Name: "count", Descriptor: "I", Access: graph.AccPublic})
	service.AddMethod(method("reset", "()V", graph.AccPrivate))
	caller := class("app.Caller", "lib.Service", "java.util.List")
	caller.MemberRefs = []*graph.MemberRef{
		{Kind: graph.MethodRef, Owner: "lib.Service", Name: "run", Descriptor: "()V"},
		{Kind: graph.MethodRef, Owner: "lib.Service", Name: "stop", Descriptor: "()V"},
		{Kind: graph.MethodRef, Owner: "lib.Service", Name: "toString", Descriptor: "()Ljava/lang/String;"},
		{Kind: graph.FieldRef, Owner: "lib.Service", Name: "count", Descriptor: "J"},
		{Kind: graph.InterfaceMethodRef, Owner: "java.util.List", Name: "anything", Descriptor: "()V"},
		{Kind: graph.MethodRef, Owner: "lib.Service", Name: "stop", Descriptor: "()V"},
		{Kind: graph.MethodRef, Owner: "lib.Service", Name: "reset", Descriptor: "()V"},
	}
	c := newContext(t, 8, nil, newJar("app.jar", caller), newJar("lib.jar", service))

	section := analyze(t, &analyzer.MissingMembers{}, c)
	var keys, problems []string
	for _, row := range section.Rows {
		keys = append(keys, row.Key)
		problems = append(problems, row.Cells[4].Str)
	}
	assert.Equal(t, []string{
		"app.jar|app.Caller|lib.Service.stop()V",
		"app.jar|app.Caller|lib.Service.countJ",
		"app.jar|app.Caller|lib.Service.reset()V",
	}, keys)
	assert.Equal(t, []string{analyzer.MemberNotFound, analyzer.MemberNotFound, analyzer.MemberNotAccessible}, problems)
}

func TestSplitPackages(t *testing.T) {
	c := newContext(t, 8, nil,
		newJar("a.jar", class("com.acme.A"), class("Root")),
		newJar("b.jar", class("com.acme.B"), class("org.other.C")),
		newJar("c.jar", class("RootToo")))
	section := analyze(t, &analyzer.SplitPackages{}, c)
	actual := rows(section)
	require.Len(t, actual, 2)
	assert.Equal(t, []string{"a.jar", "b.jar"}, actual["com.acme|a.jar,b.jar"].Cells[1].List)
	assert.Equal(t, graph.DefaultPackage, actual["|a.jar,c.jar"].Cells[0].Str)
}

func TestMultiRelease(t *testing.T) {
	base := class("mr.X")
	base.AddMethod(method("m", "()V", graph.AccPublic))
	base.AddMethod(method("helper", "()V", graph.AccPrivate))
	base.AddField(&graph.Member{Name: "LIMIT", Descriptor: "I", Access: graph.AccPublic | graph.AccStatic})
	versioned := class("mr.X")
	versioned.AddMethod(method("m", "()I", graph.AccPublic))
	added := class("mr.Only11")

	jar := &graph.Jar{Origin: "mr.jar", Manifest: map[string]string{graph.ManifestMultiRelease: "true"}}
	jar.LayerFor(graph.BaseRelease).Add(base)
	jar.LayerFor(11).Add(versioned)
	jar.LayerFor(11).Add(added)
	jar.Init()
	plain := &graph.Jar{Origin: "plain.jar"}
	plain.LayerFor(graph.BaseRelease).Add(class("p.Y"))
	plain.LayerFor(11).Add(class("p.Z"))
	plain.Init()

	section := analyze(t, &analyzer.MultiRelease{}, newContext(t, 17, nil, jar, plain))
	var changes []string
	for _, row := range section.Rows {
		assert.Equal(t, "mr.jar", row.Cells[0].Str)
		assert.Equal(t, int64(11), row.Cells[1].Int)
		changes = append(changes, row.Cells[2].Str+": "+row.Cells[3].Str+" "+row.Cells[4].Str)
	}
	assert.Equal(t, []string{
		"mr.Only11: class added Java 11",
		"mr.X: method changed m()V -> m()I",
		"mr.X: field removed LIMITI",
	}, changes)
}

func TestModules(t *testing.T) {
	app := newJar("app.jar", class("app.Main", "lib.api.Api", "lib.internal.Impl", "auto.Util"))
	app.Module = &graph.Module{Name: "app", Requires: []*graph.Require{
		{Name: "java.base"},
		{Name: "java.sql"},
		{Name: "lib"},
		{Name: "auto"},
		{Name: "missing.mod"},
		{Name: "optional.mod", Static: true},
	}}
	lib := newJar("lib.jar", class("lib.api.Api"), class("lib.internal.Impl"))
	lib.Module = &graph.Module{Name: "lib", Exports: []*graph.Export{{Package: "lib.api"}}}
	auto := newJar("auto.jar", class("auto.Util"))
	auto.Module = &graph.Module{Name: "auto", Automatic: true}

	section := analyze(t, &analyzer.Modules{}, newContext(t, 17, nil, app, lib, auto))
	actual := rows(section)
	require.Len(t, actual, 3)
	assert.Equal(t, report.Error, actual["app.jar|"+analyzer.MissingModule+"|missing.mod"].Severity)
	assert.Equal(t, report.Warning, actual["app.jar|"+analyzer.MissingModule+"|optional.mod"].Severity)
	assert.NotNil(t, actual["app.jar|"+analyzer.NotExported+"|lib.internal (lib)"])
}

func TestArtifactVersions(t *testing.T) {
	c := newContext(t, 8, nil,
		newJar("commons-lang-2.5.jar", class("a.A")),
		newJar("guava-31.1-jre.jar", class("b.B")),
		newJar("commons-lang-2.6.jar", class("c.C")),
		newJar("nested/commons-lang-2.6.jar", class("d.D")))
	section := analyze(t, &analyzer.ArtifactVersions{}, c)
	require.Len(t, section.Rows, 1)
	row := section.Rows[0]
	assert.Equal(t, "commons-lang", row.Key)
	assert.Equal(t, []string{"2.5", "2.6"}, row.Cells[1].List)
	assert.Len(t, row.Cells[2].List, 3)
	assert.Equal(t, "2.6", row.Cells[3].Str)
}

func TestNormalizeVersion(t *testing.T) {
	var testCases = []struct {
		description string
		input       string
		expect      string
	}{
		{description: "major minor", input: "2.6", expect: "v2.6.0"},
		{description: "qualifier", input: "31.1-jre", expect: "v31.1.0-jre"},
		{description: "snapshot", input: "1.0.0-SNAPSHOT", expect: "v1.0.0-SNAPSHOT"},
		{description: "four segments", input: "1.2.3.4", expect: "v1.2.3"},
		{description: "dotted qualifier", input: "5.3.20.RELEASE", expect: "v5.3.20-RELEASE"},
		{description: "not a version", input: "latest", expect: ""},
	}
	for _, testCase := range testCases {
		assert.Equal(t, testCase.expect, analyzer.NormalizeVersion(testCase.input), testCase.description)
	}
	assert.Equal(t, "1.10", analyzer.HighestVersion([]string{"1.9", "1.10-SNAPSHOT", "1.10", "latest"}))
}

func TestClassHierarchy(t *testing.T) {
	sealed := class("lib.Sealed")
	sealed.Access = graph.AccPublic | graph.AccFinal
	hidden := class("lib.Hidden")
	api := class("lib.Api")
	api.Access = graph.AccPublic | graph.AccInterface | graph.AccAbstract
	marker := class("lib.Marker")
	marker.Access = graph.AccPublic | graph.AccInterface | graph.AccAbstract | graph.AccAnnotation
	color := class("lib.Color")
	color.Access = graph.AccPublic | graph.AccAbstract | graph.AccEnum
	color.Super = "java.lang.Enum"
	base := class("lib.Base")
	base.Access = graph.AccPublic | graph.AccAbstract
	red := class("lib.Color$1")
	red.Access = graph.AccEnum
	red.Super = "lib.Color"
	lib := newJar("lib.jar", sealed, hidden, api, marker, color, base, red)

	fromFinal := class("app.FromFinal")
	fromFinal.Super = "lib.Sealed"
	fromHidden := class("app.FromHidden")
	fromHidden.Super = "lib.Hidden"
	fromInterface := class("app.FromInterface")
	fromInterface.Super = "lib.Api"
	fromMissing := class("app.FromMissing")
	fromMissing.Super = "gone.Base"
	badInterfaces := class("app.BadInterfaces")
	badInterfaces.Interfaces = []string{"lib.Base", "lib.Sealed", "lib.Color", "lib.Marker", "lib.Api", "java.io.Serializable", "gone.Api"}
	fine := class("app.Fine")
	fine.Super = "lib.Base"
	fine.Interfaces = []string{"lib.Api"}
	app := newJar("app.jar", fromFinal, fromHidden, fromInterface, fromMissing, badInterfaces, fine)

	section := analyze(t, &analyzer.ClassHierarchy{}, newContext(t, 17, nil, app, lib))
	actual := map[string][]string{}
	for _, row := range section.Rows {
		assert.Equal(t, report.Error, row.Severity)
		actual[row.Key] = row.Cells[2].List
	}
	assert.Equal(t, map[string][]string{
		"app.jar|app.BadInterfaces": {
			"Interface is a class: lib.Sealed",
			"Interface is an abstract class: lib.Base",
			"Interface is an annotation: lib.Marker",
			"Interface is an enum: lib.Color",
			"Interface not found: gone.Api",
		},
		"app.jar|app.FromFinal":     {"Superclass is final: lib.Sealed"},
		"app.jar|app.FromHidden":    {"Superclass is not accessible: lib.Hidden"},
		"app.jar|app.FromInterface": {"Superclass is an interface: lib.Api"},
		"app.jar|app.FromMissing":   {"Superclass not found: gone.Base"},
	}, actual)
}

func TestPackages(t *testing.T) {
	c := newContext(t, 8, nil,
		newJar("fat.jar", class("com.acme.a.A"), class("com.acme.b.B"), class("org.other.C"), class("Root")),
		newJar("lib.jar", class("com.acme.a.Other"), class("com.acme.a.sub.S")))
	actual := rows(analyze(t, &analyzer.Packages{}, c))
	require.Len(t, actual, 2)

	fat := actual["fat.jar"]
	assert.Equal(t, report.Warning, fat.Severity)
	assert.Equal(t, int64(4), fat.Cells[1].Int)
	assert.Equal(t, []string{graph.DefaultPackage, "com.acme.a", "com.acme.b", "org.other"}, fat.Cells[2].List)
	assert.Equal(t, []string{
		analyzer.SplitPackageIssue + "com.acme.a",
		analyzer.FatJarIssue + "(default), com.acme.*, org.other",
	}, fat.Cells[3].List)

	lib := actual["lib.jar"]
	assert.Equal(t, []string{analyzer.SplitPackageIssue + "com.acme.a"}, lib.Cells[3].List)
}

func TestJarManifests(t *testing.T) {
	described := newJar("app.jar", class("app.Main"))
	described.Manifest = map[string]string{
		"Manifest-Version":       "1.0",
		"Created-By":             "Maven",
		"Main-Class":             "app.Main",
		"Implementation-Title":   "App",
		"Implementation-Version": "1.2",
		"Specification-Vendor":   "Acme",
		"Bundle-Name":            "app",
	}
	bare := newJar("bare.jar", class("bare.B"))

	section := analyze(t, &analyzer.JarManifests{}, newContext(t, 8, nil, described, bare))
	require.Len(t, section.Rows, 1)
	row := section.Rows[0]
	assert.Equal(t, "app.jar", row.Key)
	assert.Equal(t, []string{"Created-By: Maven", "Manifest-Version: 1.0"}, row.Cells[1].List)
	assert.Equal(t, []string{"Main-Class: app.Main"}, row.Cells[2].List)
	assert.Equal(t, []string{"Implementation-Title: App", "Implementation-Version: 1.2"}, row.Cells[3].List)
	assert.Equal(t, []string{"Specification-Vendor: Acme"}, row.Cells[4].List)
}
