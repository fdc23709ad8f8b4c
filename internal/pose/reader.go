package pose

import "github.com/coreman2200/arcaluminis-presets/internal/scene"

// visibilityThreshold is the blend above which an entry's visibility wins.
// Visibility is binary, so it only flips once the pose dominates.
const visibilityThreshold = 0.5

// ApplyPose blends pose into targets by blend (clamped to [0,1]) and returns
// how many objects were updated. Entries whose object is missing or
// currently hidden are skipped.
func ApplyPose(p *Snapshot, blend float64, targets []*scene.Object) int {
	if p == nil {
		return 0
	}
	if blend < 0 {
		blend = 0
	}
	if blend > 1 {
		blend = 1
	}
	byID := make(map[string]*scene.Object, len(targets))
	for _, o := range targets {
		if o != nil {
			byID[o.ID] = o
		}
	}

	updated := 0
	for i := range p.Entries {
		e := &p.Entries[i]
		o, ok := byID[e.ObjectID]
		if !ok || !o.Visible {
			continue
		}
		o.Position = scene.LerpVec(o.Position, e.Position, blend)
		o.Rotation = scene.LerpVec(o.Rotation, e.Rotation, blend)
		o.Scale = scene.LerpVec(o.Scale, e.Scale, blend)
		if e.Opacity != nil && o.Material != nil {
			o.Material.Opacity = scene.Lerp(o.Material.Opacity, *e.Opacity, blend)
		}
		if blend > visibilityThreshold {
			o.Visible = e.Visible
		}
		updated++
	}
	return updated
}

// ApplyPoseByName looks the pose up in store and applies it. It returns -1
// when no such pose exists; targets are then left untouched.
func ApplyPoseByName(store Getter, name string, blend float64, targets []*scene.Object) int {
	if store == nil {
		return -1
	}
	p, ok := store.Get(name)
	if !ok {
		return -1
	}
	return ApplyPose(p, blend, targets)
}
