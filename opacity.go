package scrollrig

import "github.com/tanema/gween/ease"

// GlobalAlpha evaluates the four-breakpoint band at u: 1 outside
// [Start, End], eased down to Floor across [Start, Hold], Floor across
// [Hold, Release] inclusive, eased back up across [Release, End].
func GlobalAlpha(b GlobalBand, u float32, fn ease.TweenFunc) float32 {
	switch {
	case u < b.Start:
		return 1
	case u < b.Hold:
		p := (u - b.Start) / (b.Hold - b.Start)
		return 1 - (1-b.Floor)*applyEase(fn, p)
	case u <= b.Release:
		return b.Floor
	case u < b.End:
		p := (u - b.Release) / (b.End - b.Release)
		return b.Floor + (1-b.Floor)*applyEase(fn, p)
	default:
		return 1
	}
}

// SectionAlpha evaluates a symmetric dip: eased from 1 to Floor over the
// first half of [Start, End), back to 1 over the second half, 1 elsewhere.
func SectionAlpha(s SectionBand, u float32, fn ease.TweenFunc) float32 {
	if s.End <= s.Start || u < s.Start || u >= s.End {
		return 1
	}
	p := (u - s.Start) / (s.End - s.Start)
	if p < 0.5 {
		return 1 - (1-s.Floor)*applyEase(fn, p*2)
	}
	return s.Floor + (1-s.Floor)*applyEase(fn, (p-0.5)*2)
}

// OpacityScheduler applies the global band and the section bands to the
// materials isolated by a Resolver.
//
// The global pass assigns base*alpha, so it is a pure function of progress.
// Section passes blend the current opacity toward base*alpha by the timeline's
// smoothing factor. Meshes claimed by a section are skipped by the global pass.
type OpacityScheduler struct {
	timeline *Timeline
	resolver *Resolver

	sections [][]*Handle
	added    []map[string]bool
	claimed  map[uint32]bool

	writes int
}

// NewOpacityScheduler creates a scheduler for tl's bands over r.
func NewOpacityScheduler(tl *Timeline, r *Resolver) *OpacityScheduler {
	o := &OpacityScheduler{
		timeline: tl,
		resolver: r,
		sections: make([][]*Handle, len(tl.sections)),
		added:    make([]map[string]bool, len(tl.sections)),
		claimed:  make(map[uint32]bool),
	}
	for i := range o.added {
		o.added[i] = make(map[string]bool)
	}
	return o
}

// Resolve tries every target name that is not resolved yet. Section targets
// go first so their meshes are claimed before the global pass runs.
func (o *OpacityScheduler) Resolve() {
	for i, s := range o.timeline.sections {
		if len(o.sections[i]) == len(s.Targets) {
			continue
		}
		for _, name := range s.Targets {
			if o.added[i][name] {
				continue
			}
			h, ok := o.resolver.TryResolve(name)
			if !ok {
				continue
			}
			o.added[i][name] = true
			o.sections[i] = append(o.sections[i], h)
			for _, e := range h.Meshes {
				o.claimed[e.Mesh.ID] = true
			}
		}
	}
	for _, name := range o.timeline.globalTargets {
		o.resolver.TryResolve(name)
	}
}

// Apply runs the global pass and then every section pass for progress u and
// returns the global alpha.
func (o *OpacityScheduler) Apply(u float32) float32 {
	alpha := o.applyGlobal(u)
	for i := range o.timeline.sections {
		o.applySection(i, u)
	}
	return alpha
}

func (o *OpacityScheduler) applyGlobal(u float32) float32 {
	if len(o.timeline.globalTargets) == 0 {
		return 1
	}
	alpha := GlobalAlpha(o.timeline.global, u, o.timeline.ease)
	for _, name := range o.timeline.globalTargets {
		h, ok := o.resolver.Handle(name)
		if !ok {
			continue
		}
		for _, e := range h.Meshes {
			if o.claimed[e.Mesh.ID] {
				continue
			}
			for slot, m := range e.Mesh.Materials {
				if m == nil {
					continue
				}
				m.Transparent = true
				m.Opacity = e.Base[slot] * alpha
				o.writes++
			}
		}
	}
	return alpha
}

func (o *OpacityScheduler) applySection(i int, u float32) {
	band := o.timeline.sections[i]
	alpha := SectionAlpha(band, u, o.timeline.ease)
	k := o.timeline.smoothing
	for _, h := range o.sections[i] {
		for _, e := range h.Meshes {
			for slot, m := range e.Mesh.Materials {
				if m == nil {
					continue
				}
				m.Transparent = true
				m.Opacity = Lerp(m.Opacity, e.Base[slot]*alpha, k)
				o.writes++
			}
		}
	}
}

// Writes returns the number of material opacity writes performed so far.
func (o *OpacityScheduler) Writes() int {
	return o.writes
}

// Claimed reports whether the mesh with the given ID belongs to a section.
func (o *OpacityScheduler) Claimed(id uint32) bool {
	return o.claimed[id]
}
