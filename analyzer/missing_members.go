package analyzer

import (
	"context"

	"github.com/viant/jarhc/depgraph"
	"github.com/viant/jarhc/report"
)

// Problems reported by MissingMembers
const (
	MemberNotFound      = "not found"
	MemberNotAccessible = "not accessible"
)

// MissingMembers reports field and method references whose owner is on the classpath
// but neither it nor any of its supertypes declares the member, or whose declaration
// the referencing class may not access
type MissingMembers struct{}

func (a *MissingMembers) Name() string { return "missing_members" }

func (a *MissingMembers) Analyze(ctx context.Context, c *Context) (*report.Section, error) {
	section := report.NewSection(a.Name(), "Missing Members", "Fields and methods referenced but not found or not accessible.",
		column("JAR file", report.StringKind),
		column("Class name", report.StringKind),
		column("Kind", report.StringKind),
		column("Missing member", report.StringKind),
		column("Problem", report.StringKind))
	for _, jar := range c.Classpath.Jars() {
		for _, class := range c.Classpath.ClassesOf(jar) {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			if class.Degraded {
				continue
			}
			seen := map[string]bool{}
			for _, ref := range class.MemberRefs {
				member := ref.String()
				if seen[member] {
					continue
				}
				seen[member] = true
				var problem string
				switch c.Graph.LookupMember(jar, class, ref) {
				case depgraph.MemberMissing:
					problem = MemberNotFound
				case depgraph.MemberInaccessible:
					problem = MemberNotAccessible
				default:
					continue
				}
				section.Add(report.Error, key(jar.DisplayName(), class.Name, member),
					report.String(jar.DisplayName()),
					report.String(class.Name),
					report.String(string(ref.Kind)),
					report.String(member),
					report.String(problem))
			}
		}
	}
	return section, nil
}
