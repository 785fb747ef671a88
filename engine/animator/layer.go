package animator

import (
	"github.com/spaghettifunk/fpsanim/engine/graph"
	"github.com/spaghettifunk/fpsanim/engine/resources"
	"github.com/spaghettifunk/fpsanim/engine/rig"
	"github.com/spaghettifunk/fpsanim/engine/systems"
)

// Core is what the component exposes to its layers.
type Core interface {
	RigData() *rig.RigData
	Graph() *graph.CoreAnimGraph
	CharData() *CharAnimData
	// WeaponAsset is nil until a weapon is equipped.
	WeaponAsset() *resources.WeaponAnimAsset
	WeaponTransforms() *WeaponTransformData
}

/**
 * @brief A procedural animation layer. The component calls the hooks in this
 * order every frame: PreUpdateLayer, UpdateLayer (or the ParallelLayer pair),
 * and OnPoseSampled only when a new base pose was sampled. Layers run in the
 * order they were added and see the bone writes of the layers before them.
 */
type Layer interface {
	// InitializeLayer is called once, before the first frame.
	InitializeLayer(core Core)
	PreUpdateLayer(deltaTime float32)
	UpdateLayer(deltaTime float32)
	OnPoseSampled()
	// CanUpdate skips UpdateLayer for the frame when false.
	CanUpdate() bool
	// ElbowsWeight is how much of the elbow hint motion of this layer is kept.
	ElbowsWeight() float32
}

/**
 * @brief A layer able to do its math on a worker. ScheduleJobs receives a
 * copy of the layer input and must not touch bones; CompleteJobs joins the
 * job on the main thread and writes the result back to the rig. JoinJobs
 * waits for a scheduled job and drops its result.
 */
type ParallelLayer interface {
	Layer
	CanUseParallelExecution() bool
	ScheduleJobs(js *systems.JobSystem)
	CompleteJobs()
	JoinJobs()
}

func isParallel(l Layer) (ParallelLayer, bool) {
	p, ok := l.(ParallelLayer)
	if !ok || !p.CanUseParallelExecution() {
		return nil, false
	}
	return p, true
}
