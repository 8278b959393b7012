package jartest

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/klauspost/compress/zip"
)

type entry struct {
	path string
	data []byte
}

// Jar builds a JAR archive in memory
type Jar struct {
	manifest map[string]string
	entries  []entry
}

// NewJar creates an empty archive builder
func NewJar() *Jar {
	return &Jar{manifest: map[string]string{}}
}

// Manifest sets a main manifest attribute
func (j *Jar) Manifest(key, value string) *Jar {
	j.manifest[key] = value
	return j
}

// MultiRelease declares Multi-Release: true
func (j *Jar) MultiRelease() *Jar {
	return j.Manifest("Multi-Release", "true")
}

// Class adds classes to the base layer
func (j *Jar) Class(classes ...*Class) *Jar {
	for _, class := range classes {
		j.Entry(class.Path(), class.Bytes())
	}
	return j
}

// Versioned adds classes under META-INF/versions/release
func (j *Jar) Versioned(release int, classes ...*Class) *Jar {
	for _, class := range classes {
		j.Entry(fmt.Sprintf("META-INF/versions/%d/%s", release, class.Path()), class.Bytes())
	}
	return j
}

// Entry adds a raw entry
func (j *Jar) Entry(path string, data []byte) *Jar {
	j.entries = append(j.entries, entry{path: path, data: data})
	return j
}

// Nested adds another archive as an entry
func (j *Jar) Nested(path string, nested *Jar) *Jar {
	return j.Entry(path, nested.Bytes())
}

// Bytes encodes the archive; the manifest, when set, is the first entry
func (j *Jar) Bytes() []byte {
	buf := &bytes.Buffer{}
	writer := zip.NewWriter(buf)
	if len(j.manifest) > 0 {
		mustWrite(writer, "META-INF/MANIFEST.MF", []byte(j.manifestText()))
	}
	for _, item := range j.entries {
		mustWrite(writer, item.path, item.data)
	}
	if err := writer.Close(); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

func (j *Jar) manifestText() string {
	keys := make([]string, 0, len(j.manifest))
	for key := range j.manifest {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	builder := strings.Builder{}
	builder.WriteString("Manifest-Version: 1.0\r\n")
	for _, key := range keys {
		builder.WriteString(key + ": " + j.manifest[key] + "\r\n")
	}
	builder.WriteString("\r\n")
	return builder.String()
}

func mustWrite(writer *zip.Writer, path string, data []byte) {
	w, err := writer.Create(path)
	if err != nil {
		panic(err)
	}
	if _, err = w.Write(data); err != nil {
		panic(err)
	}
}
