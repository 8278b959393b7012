package jartest

import (
	"bytes"

	"github.com/viant/jarhc/inspector/graph"
)

// ModuleInfo encodes module-info.class for module
func ModuleInfo(module *graph.Module, major int) []byte {
	p := newPool()
	body := &bytes.Buffer{}
	writeU2(body, uint16(graph.AccModule))
	writeU2(body, p.class(graph.ModuleInfoName))
	writeU2(body, 0)
	writeU2(body, 0) // interfaces
	writeU2(body, 0) // fields
	writeU2(body, 0) // methods

	data := &bytes.Buffer{}
	writeU2(data, p.named(19, module.Name))
	var flags uint16
	if module.Open {
		flags |= 0x0020
	}
	writeU2(data, flags)
	if module.Version != "" {
		writeU2(data, p.utf8(module.Version))
	} else {
		writeU2(data, 0)
	}
	writeU2(data, uint16(len(module.Requires)))
	for _, require := range module.Requires {
		writeU2(data, p.named(19, require.Name))
		var requireFlags uint16
		if require.Transitive {
			requireFlags |= 0x0020
		}
		if require.Static {
			requireFlags |= 0x0040
		}
		writeU2(data, requireFlags)
		writeU2(data, 0)
	}
	for _, exports := range [][]*graph.Export{module.Exports, module.Opens} {
		writeU2(data, uint16(len(exports)))
		for _, export := range exports {
			writeU2(data, p.named(20, graph.ToInternal(export.Package)))
			writeU2(data, 0)
			writeU2(data, uint16(len(export.To)))
			for _, target := range export.To {
				writeU2(data, p.named(19, target))
			}
		}
	}
	writeU2(data, uint16(len(module.Uses)))
	for _, service := range module.Uses {
		writeU2(data, p.class(graph.ToInternal(service)))
	}
	writeU2(data, uint16(len(module.Provides)))
	for _, provide := range module.Provides {
		writeU2(data, p.class(graph.ToInternal(provide.Service)))
		writeU2(data, uint16(len(provide.With)))
		for _, implementation := range provide.With {
			writeU2(data, p.class(graph.ToInternal(implementation)))
		}
	}
	attributes := []attribute{{name: "Module", data: data.Bytes()}}
	if len(module.Packages) > 0 {
		packages := &bytes.Buffer{}
		writeU2(packages, uint16(len(module.Packages)))
		for _, pkg := range module.Packages {
			writeU2(packages, p.named(20, graph.ToInternal(pkg)))
		}
		attributes = append(attributes, attribute{name: "ModulePackages", data: packages.Bytes()})
	}
	writeAttributes(body, p, attributes)
	return assemble(major, 0, p, body.Bytes())
}
