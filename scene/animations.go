package scene

import (
	"github.com/devblok/sxs/animation"
	"github.com/devblok/sxs/util/xmltree"
)

func (l *loader) parseAnimations(n *xmltree.Node) error {
	g := l.graph
	for _, c := range n.Children {
		if c.Name != "keyframeanim" {
			l.warn(c.Name, "", "unknown tag ignored")
			continue
		}
		id, err := uniqueID(c, func(id string) bool { _, ok := g.Animations[id]; return ok })
		if err != nil {
			return err
		}

		loop := false
		if c.Has("loop") {
			if loop, err = c.Bool("loop"); err != nil {
				return parseErr(c.Name, id, err)
			}
		}

		var keyframes []*animation.Keyframe
		for _, kf := range c.Children {
			if kf.Name != "keyframe" {
				l.warn(kf.Name, id, "unknown tag ignored")
				continue
			}
			instant, err := kf.Float("instant")
			if err != nil {
				return parseErr(c.Name, id, err)
			}
			if instant < 0 {
				return parseErrf(c.Name, id, ErrInvalidValue, "keyframe instant %g is negative", instant)
			}
			m, err := l.parseOps(kf, id)
			if err != nil {
				return err
			}
			keyframes = append(keyframes, animation.NewKeyframe(instant, m))
		}

		anim, err := animation.NewKeyframeAnimation(keyframes, loop)
		if err != nil {
			return parseErr(c.Name, id, err)
		}
		g.Animations[id] = anim
	}
	return nil
}
