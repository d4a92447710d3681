package scene_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/devblok/sxs/scene"
	"github.com/devblok/sxs/util/xmltree"
	log "github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
)

var defaultBlocks = map[string]string{
	"scene": `<scene root="root" axis_length="1" />`,
	"views": `<views default="v">
		<perspective id="v" near="0.1" far="10" angle="45">
			<from x="0" y="0" z="5" /><to x="0" y="0" z="0" />
		</perspective>
	</views>`,
	"ambient": `<ambient>
		<ambient r="0.1" g="0.1" b="0.1" a="1" />
		<background r="0" g="0" b="0" a="1" />
	</ambient>`,
	"lights": `<lights>
		<omni id="l" enabled="true">
			<location x="0" y="1" z="0" w="1" />
			<ambient r="0" g="0" b="0" a="1" />
			<diffuse r="1" g="1" b="1" a="1" />
			<specular r="1" g="1" b="1" a="1" />
		</omni>
	</lights>`,
	"textures": `<textures />`,
	"materials": `<materials>
		<material id="m" shininess="1">
			<emission r="0" g="0" b="0" a="1" />
			<ambient r="0" g="0" b="0" a="1" />
			<diffuse r="0" g="0" b="0" a="1" />
			<specular r="0" g="0" b="0" a="1" />
		</material>
	</materials>`,
	"transformations": `<transformations />`,
	"primitives": `<primitives>
		<primitive id="p"><rectangle x1="0" y1="0" x2="1" y2="1" /></primitive>
	</primitives>`,
	"components": components(component("root", primitiveRef("p"))),
}

var canonicalOrder = []string{
	"scene", "views", "ambient", "lights", "textures",
	"materials", "transformations", "primitives", "components",
}

// document assembles a scene with the default blocks, replacing the
// ones in overrides. An empty override drops the block.
func document(overrides map[string]string, order ...string) string {
	if len(order) == 0 {
		order = canonicalOrder
	}
	var sb strings.Builder
	sb.WriteString("<sxs>")
	for _, name := range order {
		block, ok := overrides[name]
		if !ok {
			block = defaultBlocks[name]
		}
		sb.WriteString(block)
	}
	sb.WriteString("</sxs>")
	return sb.String()
}

func components(comps ...string) string {
	return "<components>" + strings.Join(comps, "") + "</components>"
}

func component(id string, children ...string) string {
	return fmt.Sprintf(`<component id="%s">
		<transformation />
		<materials><material id="inherit" /></materials>
		<texture id="none" />
		<children>%s</children>
	</component>`, id, strings.Join(children, ""))
}

func componentRef(id string) string {
	return fmt.Sprintf(`<componentref id="%s" />`, id)
}

func primitiveRef(id string) string {
	return fmt.Sprintf(`<primitiveref id="%s" />`, id)
}

func quietLogger() (log.FieldLogger, *test.Hook) {
	logger, hook := test.NewNullLogger()
	return logger, hook
}

func load(t *testing.T, doc string) (*scene.Graph, error) {
	t.Helper()
	root, err := xmltree.Parse(strings.NewReader(doc))
	require.NoError(t, err)
	logger, _ := quietLogger()
	return scene.Load(root, scene.Options{Logger: logger})
}
