package scene_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/devblok/sxs/scene"
	"github.com/devblok/sxs/util/xmltree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaultDocument(t *testing.T) {
	g, err := load(t, document(nil))
	require.NoError(t, err)
	assert.Equal(t, "root", g.Root)
	assert.Equal(t, "v", g.View())
	assert.Empty(t, g.Warnings())
}

func TestLoadRejectsWrongRootTag(t *testing.T) {
	root, err := xmltree.Parse(strings.NewReader("<scene/>"))
	require.NoError(t, err)
	_, err = scene.Load(root, scene.Options{})
	assert.ErrorIs(t, err, scene.ErrMissingBlock)
}

func TestMissingBlockIsFatal(t *testing.T) {
	for _, block := range canonicalOrder {
		t.Run(block, func(t *testing.T) {
			g, err := load(t, document(map[string]string{block: ""}))
			assert.Nil(t, g)
			assert.ErrorIs(t, err, scene.ErrMissingBlock)

			var pe *scene.ParseError
			require.True(t, errors.As(err, &pe))
			assert.Equal(t, block, pe.Tag)
		})
	}
}

func TestOutOfOrderBlockWarns(t *testing.T) {
	order := []string{"scene", "ambient", "views", "lights", "textures",
		"materials", "transformations", "primitives", "components"}
	g, err := load(t, document(nil, order...))
	require.NoError(t, err)

	var tags []string
	for _, w := range g.Warnings() {
		tags = append(tags, w.Tag)
	}
	assert.Contains(t, tags, "views")
	assert.Contains(t, tags, "ambient")
	assert.NotContains(t, tags, "lights")
}

func TestUnknownBlockWarns(t *testing.T) {
	doc := strings.Replace(document(nil), "<sxs>", "<sxs><globals />", 1)
	g, err := load(t, doc)
	require.NoError(t, err)
	require.Len(t, g.Warnings(), 1)
	assert.Equal(t, "globals", g.Warnings()[0].Tag)
}

func TestMissingAxisLengthWarns(t *testing.T) {
	g, err := load(t, document(map[string]string{"scene": `<scene root="root" />`}))
	require.NoError(t, err)
	assert.Equal(t, float32(1), g.AxisLength)
	require.Len(t, g.Warnings(), 1)
	assert.Contains(t, g.Warnings()[0].String(), "axis_length")
}

func TestResourceErrors(t *testing.T) {
	material := func(id, shininess string) string {
		attr := ""
		if shininess != "" {
			attr = ` shininess="` + shininess + `"`
		}
		return `<material id="` + id + `"` + attr + `>
			<emission r="0" g="0" b="0" a="1" />
			<ambient r="0" g="0" b="0" a="1" />
			<diffuse r="0" g="0" b="0" a="1" />
			<specular r="0" g="0" b="0" a="1" />
		</material>`
	}

	cases := []struct {
		name       string
		overrides  map[string]string
		expected   error
		resolution bool
	}{
		{
			name:       "duplicate material",
			overrides:  map[string]string{"materials": "<materials>" + material("m", "1") + material("m", "2") + "</materials>"},
			expected:   scene.ErrDuplicateID,
			resolution: true,
		},
		{
			name:       "reserved material id",
			overrides:  map[string]string{"materials": "<materials>" + material("inherit", "1") + "</materials>"},
			expected:   scene.ErrReservedID,
			resolution: true,
		},
		{
			name:      "missing shininess",
			overrides: map[string]string{"materials": "<materials>" + material("m", "") + "</materials>"},
			expected:  scene.ErrMissingAttribute,
		},
		{
			name: "colour out of range",
			overrides: map[string]string{"ambient": `<ambient>
				<ambient r="2" g="0" b="0" a="1" /><background r="0" g="0" b="0" a="1" />
			</ambient>`},
			expected: scene.ErrInvalidValue,
		},
		{
			name: "missing near",
			overrides: map[string]string{"views": `<views default="v">
				<perspective id="v" far="10" angle="45"><from x="0" y="0" z="5" /><to x="0" y="0" z="0" /></perspective>
			</views>`},
			expected: scene.ErrMissingAttribute,
		},
		{
			name: "undefined default view",
			overrides: map[string]string{"views": `<views default="nope">
				<perspective id="v" near="0.1" far="10" angle="45"><from x="0" y="0" z="5" /><to x="0" y="0" z="0" /></perspective>
			</views>`},
			expected:   scene.ErrUnresolvedReference,
			resolution: true,
		},
		{
			name: "two attenuation terms",
			overrides: map[string]string{"lights": `<lights><omni id="l" enabled="true">
				<location x="0" y="1" z="0" w="1" />
				<ambient r="0" g="0" b="0" a="1" /><diffuse r="1" g="1" b="1" a="1" /><specular r="1" g="1" b="1" a="1" />
				<attenuation constant="1" linear="1" quadratic="0" />
			</omni></lights>`},
			expected: scene.ErrInvalidValue,
		},
		{
			name:      "no lights",
			overrides: map[string]string{"lights": `<lights />`},
			expected:  scene.ErrMissingBlock,
		},
		{
			name: "torus inner radius too big",
			overrides: map[string]string{"primitives": `<primitives>
				<primitive id="p"><torus radius="1" innerRadius="2" slices="4" loops="4" /></primitive>
			</primitives>`},
			expected: scene.ErrInvalidValue,
		},
		{
			name: "two shapes in a primitive",
			overrides: map[string]string{"primitives": `<primitives>
				<primitive id="p"><sphere radius="1" slices="4" stacks="4" /><sphere radius="1" slices="4" stacks="4" /></primitive>
			</primitives>`},
			expected: scene.ErrInvalidValue,
		},
		{
			name: "bad rotation axis",
			overrides: map[string]string{"transformations": `<transformations>
				<transformation id="t"><rotate axis="w" angle="10" /></transformation>
			</transformations>`},
			expected: scene.ErrInvalidValue,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			g, err := load(t, document(tc.overrides))
			assert.Nil(t, g)
			require.Error(t, err)
			assert.ErrorIs(t, err, tc.expected)

			var pe *scene.ParseError
			require.True(t, errors.As(err, &pe))
			assert.Equal(t, tc.resolution, pe.Resolution())
		})
	}
}

func TestLightsCapAndToggle(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("<lights>")
	for _, id := range []string{"a", "b", "c", "d", "e", "f", "g", "h", "i"} {
		sb.WriteString(`<omni id="` + id + `" enabled="true">
			<location x="0" y="1" z="0" w="1" />
			<ambient r="0" g="0" b="0" a="1" /><diffuse r="1" g="1" b="1" a="1" /><specular r="1" g="1" b="1" a="1" />
		</omni>`)
	}
	sb.WriteString("</lights>")

	g, err := load(t, document(map[string]string{"lights": sb.String()}))
	require.NoError(t, err)
	require.Len(t, g.Warnings(), 1)
	assert.Equal(t, "lights", g.Warnings()[0].Tag)
	assert.Len(t, g.ActiveLights(), scene.MaxLights)

	require.NoError(t, g.SetLightEnabled("a", false))
	assert.Len(t, g.ActiveLights(), scene.MaxLights-1)
	assert.ErrorIs(t, g.SetLightEnabled("zz", true), scene.ErrUnresolvedReference)
}

func TestLightEnabledFallback(t *testing.T) {
	g, err := load(t, document(map[string]string{"lights": `<lights><omni id="l">
		<location x="0" y="1" z="0" w="1" />
		<ambient r="0" g="0" b="0" a="1" /><diffuse r="1" g="1" b="1" a="1" /><specular r="1" g="1" b="1" a="1" />
	</omni></lights>`}))
	require.NoError(t, err)
	assert.True(t, g.Lights[0].Enabled)
	assert.Len(t, g.Warnings(), 1)
}
