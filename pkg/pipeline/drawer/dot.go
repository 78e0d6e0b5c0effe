package drawer

import (
	"fmt"
	"io"
	"sort"
	"text/template"

	"github.com/dominikbraun/graph"
	"github.com/pkg/errors"
)

//nolint:lll //this is a template
const dotTemplate = `strict digraph {
	rankdir="LR";
{{range $s := .Statements}}	"{{.Source}}" {{if .Target}}-> "{{.Target}}" [ {{range $k, $v := .Attributes}}{{$k}}="{{$v}}", {{end}}weight={{.Weight}} ]{{else}}[ {{range $k, $v := .HTMLAttributes}}{{$k}}={{$v}}, {{end}}{{range $k, $v := .Attributes}}{{$k}}="{{$v}}", {{end}}weight={{.Weight}} ]{{end}};
{{end}}}
`

var dotTpl = template.Must(template.New("dotTemplate").Parse(dotTemplate))

type description struct {
	Statements []statement
}

type statement struct {
	Source         string
	Target         string
	Attributes     map[string]string
	HTMLAttributes map[string]string
	Weight         int
}

// generateDOT lists vertices then edges, both sorted by name so that the output is stable.
func generateDOT(gra graph.Graph[string, string]) (description, error) {
	desc := description{}

	adjacencyMap, err := gra.AdjacencyMap()
	if err != nil {
		return desc, errors.Wrap(err, "unable to get adjacency map")
	}

	vertices := make([]string, 0, len(adjacencyMap))
	for vertex := range adjacencyMap {
		vertices = append(vertices, vertex)
	}

	sort.Strings(vertices)

	edges := []statement{}

	for _, vertex := range vertices {
		_, properties, err := gra.VertexWithProperties(vertex)
		if err != nil {
			return desc, errors.Wrap(err, "unable to get vertex properties")
		}

		attributes := make(map[string]string, len(properties.Attributes))
		htmlAttributes := make(map[string]string)

		for k, v := range properties.Attributes {
			if k == "xlabel" {
				htmlAttributes["label"] = fmt.Sprintf(`<%s <BR /> <FONT POINT-SIZE="12">%s</FONT>>`, vertex, v)

				continue
			}

			attributes[k] = v
		}

		desc.Statements = append(desc.Statements, statement{
			Source:         vertex,
			Weight:         properties.Weight,
			Attributes:     attributes,
			HTMLAttributes: htmlAttributes,
		})

		for adjacency, edge := range adjacencyMap[vertex] {
			edges = append(edges, statement{
				Source:     vertex,
				Target:     adjacency,
				Weight:     edge.Properties.Weight,
				Attributes: edge.Properties.Attributes,
			})
		}
	}

	sort.Slice(edges, func(i, j int) bool {
		if edges[i].Source != edges[j].Source {
			return edges[i].Source < edges[j].Source
		}

		return edges[i].Target < edges[j].Target
	})

	desc.Statements = append(desc.Statements, edges...)

	return desc, nil
}

func renderDOT(wrt io.Writer, desc description) error {
	err := dotTpl.Execute(wrt, desc)
	if err != nil {
		return errors.Wrap(err, "unable to execute template")
	}

	return nil
}
