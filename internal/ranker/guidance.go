package ranker

import (
	_ "embed"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

//go:embed guidance.yaml
var guidanceYAML []byte

// guidanceTable is the static styling-guidance lookup keyed by body shape
// and season. Loaded once at startup from the embedded YAML.
type guidanceTable struct {
	BodyShapes map[string]string `yaml:"body_shapes"`
	Seasons    map[string]string `yaml:"seasons"`
}

var guidance = mustLoadGuidance()

func mustLoadGuidance() guidanceTable {
	var t guidanceTable
	if err := yaml.Unmarshal(guidanceYAML, &t); err != nil {
		panic(eris.Wrap(err, "ranker: parse embedded guidance"))
	}
	return t
}

// guidanceFor assembles the guidance block for a prompt. Unknown labels
// contribute nothing; an empty string means no guidance applies.
func guidanceFor(bodyShape, season string) string {
	var parts []string
	if g, ok := guidance.BodyShapes[strings.ToLower(bodyShape)]; ok {
		parts = append(parts, "Body shape guidance: "+g)
	}
	if g, ok := guidance.Seasons[strings.ToLower(season)]; ok {
		parts = append(parts, "Season guidance: "+g)
	}
	return strings.Join(parts, "\n\n")
}
