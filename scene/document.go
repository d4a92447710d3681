// Package scene loads an XML scene document into a resolved component
// graph, keeps its resources up to date every frame and draws it through
// a renderer.
package scene

import (
	"path"
	"time"

	"github.com/devblok/sxs/util/xmltree"
	log "github.com/sirupsen/logrus"
)

// RootTag is the name of the document element
const RootTag = "sxs"

// Top level blocks, in the order the document is expected to declare them.
// The animations block is optional.
const (
	BlockScene           = "scene"
	BlockViews           = "views"
	BlockAmbient         = "ambient"
	BlockLights          = "lights"
	BlockTextures        = "textures"
	BlockMaterials       = "materials"
	BlockTransformations = "transformations"
	BlockAnimations      = "animations"
	BlockPrimitives      = "primitives"
	BlockComponents      = "components"
)

var blockOrder = []string{
	BlockScene,
	BlockViews,
	BlockAmbient,
	BlockLights,
	BlockTextures,
	BlockMaterials,
	BlockTransformations,
	BlockAnimations,
	BlockPrimitives,
	BlockComponents,
}

var optionalBlocks = map[string]bool{
	BlockAnimations: true,
}

// Options tune how a document is loaded
type Options struct {
	// Source serves texture files, relative to the scene document
	Source Source

	// Logger receives warnings as they happen
	Logger log.FieldLogger

	// ResizeTextures rescales textures whose sides are not powers of two
	ResizeTextures bool

	// AspectRatio is used for perspective projections
	AspectRatio float32

	// CameraTransition is the length of a single camera transition segment
	CameraTransition time.Duration
}

func (o Options) withDefaults() Options {
	if o.Logger == nil {
		o.Logger = log.StandardLogger()
	}
	if o.AspectRatio <= 0 {
		o.AspectRatio = 4.0 / 3.0
	}
	if o.CameraTransition <= 0 {
		o.CameraTransition = 1500 * time.Millisecond
	}
	return o
}

type blockParser func(l *loader, n *xmltree.Node) error

var blockParsers = map[string]blockParser{
	BlockScene:           (*loader).parseScene,
	BlockViews:           (*loader).parseViews,
	BlockAmbient:         (*loader).parseAmbient,
	BlockLights:          (*loader).parseLights,
	BlockTextures:        (*loader).parseTextures,
	BlockMaterials:       (*loader).parseMaterials,
	BlockTransformations: (*loader).parseTransformations,
	BlockAnimations:      (*loader).parseAnimations,
	BlockPrimitives:      (*loader).parsePrimitives,
	BlockComponents:      (*loader).parseComponents,
}

type loader struct {
	graph  *Graph
	opts   Options
	logger log.FieldLogger
}

func (l *loader) warn(tag, id, format string, args ...interface{}) {
	l.graph.warn(Warning{Tag: tag, ID: id}, format, args...)
}

// Load builds a Graph from a parsed document. Any error leaves nothing
// behind: either a fully resolved graph is returned or none at all.
func Load(root *xmltree.Node, opts Options) (*Graph, error) {
	opts = opts.withDefaults()
	if root == nil || root.Name != RootTag {
		return nil, parseErrf(RootTag, "", ErrMissingBlock, "root tag <%s> missing", RootTag)
	}

	l := &loader{
		graph:  newGraph(opts),
		opts:   opts,
		logger: opts.Logger,
	}

	if err := l.checkOrder(root); err != nil {
		return nil, err
	}

	for _, name := range blockOrder {
		n := root.Child(name)
		if n == nil {
			continue
		}
		if err := blockParsers[name](l, n); err != nil {
			return nil, err
		}
	}

	if err := l.graph.resolve(); err != nil {
		return nil, err
	}
	l.graph.loadTextures()
	return l.graph, nil
}

// LoadFile reads, parses and loads the document name from src. Textures
// are looked up relative to the document unless opts.Source says otherwise.
func LoadFile(src Source, name string, opts Options) (*Graph, error) {
	r, err := src.Open(name)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	doc, err := xmltree.Parse(r)
	if err != nil {
		return nil, err
	}
	if opts.Source == nil {
		opts.Source = SubSource{Parent: src, Dir: path.Dir(name)}
	}
	return Load(doc, opts)
}

// checkOrder verifies every required block is present and flags the ones
// found out of their expected position
func (l *loader) checkOrder(root *xmltree.Node) error {
	var present []string
	for _, name := range blockOrder {
		if root.ChildIndex(name) >= 0 {
			present = append(present, name)
		} else if !optionalBlocks[name] {
			return parseErrf(name, "", ErrMissingBlock, "tag <%s> missing", name)
		}
	}

	known := map[string]bool{}
	for _, name := range blockOrder {
		known[name] = true
	}
	position := map[string]int{}
	for _, c := range root.Children {
		if !known[c.Name] {
			l.warn(c.Name, "", "unknown tag ignored")
			continue
		}
		if _, seen := position[c.Name]; !seen {
			position[c.Name] = len(position)
		}
	}

	for expected, name := range present {
		if idx := position[name]; idx != expected {
			l.warn(name, "", "tag out of order, found at %d instead of %d", idx, expected)
		}
	}
	return nil
}

// uniqueID reads the id attribute of n and checks it against the
// sentinels and the IDs already taken in its table
func uniqueID(n *xmltree.Node, taken func(string) bool) (string, error) {
	id, err := n.String("id")
	if err != nil {
		return "", parseErr(n.Name, "", err)
	}
	if id == Inherit || id == None {
		return "", parseErrf(n.Name, id, ErrReservedID, "'%s' cannot be used as an id", id)
	}
	if taken(id) {
		return "", parseErrf(n.Name, id, ErrDuplicateID, "id must be unique")
	}
	return id, nil
}
