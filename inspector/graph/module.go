package graph

import "sort"

// Require represents a requires directive of a module descriptor
type Require struct {
	Name       string `yaml:"name"`
	Transitive bool   `yaml:"transitive,omitempty"`
	Static     bool   `yaml:"static,omitempty"`
}

// Export represents an exports or opens directive; empty To means unqualified
type Export struct {
	Package string   `yaml:"package"`
	To      []string `yaml:"to,omitempty"`
}

// Provide represents a provides ... with ... directive
type Provide struct {
	Service string   `yaml:"service"`
	With    []string `yaml:"with"`
}

// Module represents a Java module: a parsed module-info.class, or an automatic module
// named by the Automatic-Module-Name manifest attribute.
type Module struct {
	Name      string     `yaml:"name"`
	Version   string     `yaml:"version,omitempty"`
	Open      bool       `yaml:"open,omitempty"`
	Automatic bool       `yaml:"automatic,omitempty"`
	Release   int        `yaml:"release,omitempty"` // release layer the descriptor was read from
	Requires  []*Require `yaml:"requires,omitempty"`
	Exports   []*Export  `yaml:"exports,omitempty"`
	Opens     []*Export  `yaml:"opens,omitempty"`
	Packages  []string   `yaml:"packages,omitempty"`
	Uses      []string   `yaml:"uses,omitempty"`
	Provides  []*Provide `yaml:"provides,omitempty"`
}

// IsExported reports whether pkg is readable by module to.
// Automatic modules export every package.
func (m *Module) IsExported(pkg, to string) bool {
	if m.Automatic {
		return true
	}
	for _, export := range m.Exports {
		if export.Package != pkg {
			continue
		}
		if len(export.To) == 0 {
			return true
		}
		for _, target := range export.To {
			if target == to {
				return true
			}
		}
	}
	return false
}

// ExportedPackages returns exported packages, sorted
func (m *Module) ExportedPackages() []string {
	var result []string
	for _, export := range m.Exports {
		result = append(result, export.Package)
	}
	sort.Strings(result)
	return result
}

// RequiredModules returns the names of required modules in declaration order
func (m *Module) RequiredModules() []string {
	var result []string
	for _, require := range m.Requires {
		result = append(result, require.Name)
	}
	return result
}
