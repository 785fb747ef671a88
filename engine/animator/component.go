package animator

import (
	"fmt"
	"reflect"

	"github.com/spaghettifunk/fpsanim/engine/core"
	"github.com/spaghettifunk/fpsanim/engine/graph"
	"github.com/spaghettifunk/fpsanim/engine/math"
	"github.com/spaghettifunk/fpsanim/engine/resources"
	"github.com/spaghettifunk/fpsanim/engine/rig"
	"github.com/spaghettifunk/fpsanim/engine/systems"
)

/** @brief The configuration of an animation component. */
type ComponentConfig struct {
	/** @brief The character skeleton. Proxy bones are added to it during setup. */
	Skeleton *rig.Skeleton
	/** @brief The character root bone. */
	Character rig.BoneID
	/** @brief The animation graph sampling the base pose. Must use Skeleton. */
	Graph *graph.CoreAnimGraph
	/** @brief Workers for the parallel layers and the IK solve. Nil runs everything inline. */
	JobSystem *systems.JobSystem
	/** @brief Solves the hands and feet IK at the end of the frame. */
	UseIK bool
	/** @brief Maximum number of layers, used to size the layer id pool. */
	MaxLayerCount int
}

type layerEntry struct {
	id    uint32
	layer Layer
}

/**
 * @brief Component composes the procedural layers over the sampled pose. It
 * owns the rig, the graph, the ordered layers and the IK solve. Update samples
 * the pose and starts the parallel layers; LateUpdate runs the rest of the
 * frame. Both must be called from the same goroutine.
 */
type Component struct {
	rigData *rig.RigData
	graph   *graph.CoreAnimGraph
	js      *systems.JobSystem

	layers   []layerEntry
	layerIDs *core.IdentifierPool

	charData         CharAnimData
	weaponAsset      *resources.WeaponAnimAsset
	weaponTransforms WeaponTransformData
	isPivotValid     bool

	useIK     bool
	ikWeights [ikChainCount]IKWeights
	ikJob     twoBoneIKJob

	pelvisPoseMS      math.Quat
	pelvisPoseMSCache math.Quat
	// Weapon bone pose of the last sample, local and in spine root space.
	weaponBonePose      math.Pose
	weaponBoneSpinePose math.Pose
	restPose            []math.Pose

	onPreUpdate  []func()
	onPostUpdate []func()

	initialized bool
}

func NewComponent(config ComponentConfig) (*Component, error) {
	if config.Skeleton == nil {
		return nil, fmt.Errorf("animation component: %w: no skeleton", core.ErrNotInitialized)
	}
	if config.Graph == nil {
		return nil, fmt.Errorf("animation component: %w: no graph", core.ErrNotInitialized)
	}
	if config.MaxLayerCount <= 0 {
		config.MaxLayerCount = 16
	}

	r := rig.SetupBones(config.Skeleton, config.Character)
	if !r.Complete() {
		core.LogWarnOnce("animator.rig", "animation component: %v, procedural layers are disabled", core.ErrSkeletonIncomplete)
	}

	c := &Component{
		rigData:          r,
		graph:            config.Graph,
		js:               config.JobSystem,
		layerIDs:         core.NewIdentifierPool(config.MaxLayerCount),
		charData:         NewCharAnimData(),
		weaponTransforms: NewWeaponTransformData(),
		useIK:            config.UseIK,
	}
	for i := range c.ikWeights {
		c.ikWeights[i] = IKWeights{Effector: 1, Hint: 1}
	}
	return c, nil
}

// InitializeComponent initializes the layers and caches the rest pose of the
// skeleton. Every frame starts from that rest pose before the graph writes
// the animated bones.
func (c *Component) InitializeComponent() error {
	if err := c.graph.InitPlayableGraph(); err != nil {
		return fmt.Errorf("animation component: %w", err)
	}

	r := c.rigData
	s := r.Skeleton
	r.WeaponTransform = math.NewPoseIdentity()
	if s.Valid(r.WeaponBoneRight) {
		s.SetLocalPose(r.WeaponBoneRight, math.NewPoseIdentity())
	}
	if s.Valid(r.WeaponBoneLeft) {
		s.SetLocalPose(r.WeaponBoneLeft, math.NewPoseIdentity())
	}

	c.restPose = s.Snapshot()
	c.cachePose()
	c.pelvisPoseMSCache = c.pelvisPoseMS

	c.initialized = true
	for _, e := range c.layers {
		e.layer.InitializeLayer(c)
	}

	core.LogInfo("animation component initialized with %d layers", len(c.layers))
	return nil
}

func (c *Component) Shutdown() {
	for _, e := range c.layers {
		if p, ok := e.layer.(ParallelLayer); ok {
			p.JoinJobs()
		}
	}
	c.ikJob.complete(c.rigData)
	c.graph.Shutdown()
	for _, e := range c.layers {
		c.layerIDs.Release(e.id)
	}
	c.layers = nil
	c.onPreUpdate = nil
	c.onPostUpdate = nil
	c.initialized = false
}

func (c *Component) active() bool {
	return c.initialized && c.rigData.Complete()
}

// Tick runs a whole frame.
func (c *Component) Tick(deltaTime float32) {
	c.Update(deltaTime)
	c.LateUpdate(deltaTime)
}

// Update samples the animation graph into the skeleton and schedules the
// parallel layers.
func (c *Component) Update(deltaTime float32) {
	if !c.initialized {
		return
	}
	c.samplePose(deltaTime)
	c.ScheduleJobs(deltaTime)
}

func (c *Component) samplePose(deltaTime float32) {
	r := c.rigData
	// The character placement belongs to gameplay, keep it.
	character := r.Skeleton.LocalPose(r.Character)
	r.Skeleton.Restore(c.restPose)
	r.Skeleton.SetLocalPose(r.Character, character)
	if r.Skeleton.Valid(r.WeaponBone) {
		r.Skeleton.SetLocalPose(r.WeaponBone, c.weaponBonePose)
	}
	c.graph.UpdateGraph(deltaTime)
	c.graph.Evaluate()
}

// ScheduleJobs pre-updates the parallel layers and hands their work to the
// job system. The jobs are joined in LateUpdate.
func (c *Component) ScheduleJobs(deltaTime float32) {
	if !c.active() {
		return
	}
	for _, e := range c.layers {
		p, ok := isParallel(e.layer)
		if !ok {
			continue
		}
		p.PreUpdateLayer(deltaTime)
		if !p.CanUpdate() {
			continue
		}
		p.ScheduleJobs(c.js)
	}
}

// LateUpdate composes the layers over the sampled pose and solves the IK.
func (c *Component) LateUpdate(deltaTime float32) {
	if !c.active() {
		return
	}
	for _, fn := range c.onPreUpdate {
		fn()
	}

	c.preUpdateLayers(deltaTime)
	c.rigData.Retarget()

	c.updateSpineStabilization()
	c.updateWeaponBone()
	c.updateLayers(deltaTime)

	c.scheduleIkJobs()
	c.rigData.AlignWeaponBone(c.pivotOffset().Mul(-1))
	c.ikJob.complete(c.rigData)

	for _, fn := range c.onPostUpdate {
		fn()
	}
}

func (c *Component) preUpdateLayers(deltaTime float32) {
	for _, e := range c.layers {
		if _, ok := isParallel(e.layer); ok {
			continue
		}
		e.layer.PreUpdateLayer(deltaTime)
	}
}

func (c *Component) updateLayers(deltaTime float32) {
	r := c.rigData
	s := r.Skeleton
	for _, e := range c.layers {
		p, parallel := isParallel(e.layer)
		if !e.layer.CanUpdate() {
			// Scheduled jobs finish within their frame.
			if parallel {
				p.JoinJobs()
			}
			continue
		}

		r.RightHand.CacheHintTransform(s)
		r.LeftHand.CacheHintTransform(s)

		if parallel {
			p.CompleteJobs()
		} else {
			e.layer.UpdateLayer(deltaTime)
		}

		weight := e.layer.ElbowsWeight()
		r.RightHand.BlendHintCachedTransform(s, weight)
		r.LeftHand.BlendHintCachedTransform(s, weight)
	}
}

// updateSpineStabilization keeps the spine root steady while the pelvis
// blends between two sampled poses, then adds the slot spine offset.
func (c *Component) updateSpineStabilization() {
	r := c.rigData
	s := r.Skeleton

	rootRot := s.Rotation(r.RootBone)
	invRootRot := rootRot.Inverse()

	pelvisRot := rootRot.Mul(math.Slerp(c.pelvisPoseMSCache, c.pelvisPoseMS, c.graph.GetPoseProgress()))
	stableRot := pelvisRot.Mul(s.LocalPose(r.SpineRoot).Rotation)
	stableRot = math.Slerp(s.Rotation(r.SpineRoot), stableRot, c.graph.GetGraphWeight())

	s.SetRotation(r.SpineRoot, rootRot.Mul(c.graph.GetSpineOffset().Mul(invRootRot.Mul(stableRot))))
}

func (c *Component) updateWeaponBone() {
	r := c.rigData
	s := r.Skeleton

	// Not parented to the right or left hand.
	if r.WeaponBoneWeight > 0 {
		basePose := c.weaponBonePose.FromSpace(s.WorldPose(r.RootBone))
		combinedPose := c.weaponBoneSpinePose.FromSpace(s.WorldPose(r.SpineRoot))

		weapon := s.WorldPose(r.WeaponBone)
		weapon.Position = weapon.Position.Add(combinedPose.Position.Sub(basePose.Position))
		weapon.Rotation = weapon.Rotation.Mul(basePose.Rotation.Inverse().Mul(combinedPose.Rotation))
		s.SetWorldPose(r.WeaponBone, weapon)
	}

	r.MasterDynamic.Retarget(s)
	r.UpdateWeaponParent()

	rotOffset := math.NewQuatIdentity()
	if c.weaponAsset != nil {
		rotOffset = c.weaponAsset.RotationOffset
	}
	r.MasterDynamic.OffsetLocalRotation(s, rotOffset, 1)
	r.MasterDynamic.OffsetLocalPosition(s, c.pivotOffset(), 1)

	r.RightHand.Retarget(s)
	r.LeftHand.Retarget(s)
}

func (c *Component) pivotOffset() math.Vec3 {
	if !c.isPivotValid {
		return math.NewVec3Zero()
	}
	return c.rigData.Skeleton.LocalPose(c.weaponTransforms.PivotPoint).Position
}

func (c *Component) scheduleIkJobs() {
	if !c.useIK {
		return
	}
	c.ikJob.schedule(c.js, c.rigData, &c.ikWeights)
}

// OnPrePoseSampled puts the weapon bone at the designer pose. A static pose
// sampled right after may still override it.
func (c *Component) OnPrePoseSampled() {
	if !c.rigData.Complete() {
		return
	}
	c.rigData.RetargetWeaponBone()
}

// OnPoseSampled refreshes everything cached from the base pose and lets the
// layers do the same.
func (c *Component) OnPoseSampled() {
	if !c.rigData.Complete() {
		return
	}
	c.rigData.RetargetHandBones()
	c.pelvisPoseMSCache = c.pelvisPoseMS
	c.cachePose()

	for _, e := range c.layers {
		e.layer.OnPoseSampled()
	}
	core.EventFire(core.EventContext{Type: core.EVENT_CODE_POSE_SAMPLED, Data: c})
}

func (c *Component) cachePose() {
	r := c.rigData
	s := r.Skeleton
	if !r.Complete() {
		return
	}
	c.pelvisPoseMS = r.PelvisMS()
	c.weaponBonePose = s.LocalPose(r.WeaponBone)
	c.weaponBoneSpinePose = s.WorldPose(r.WeaponBone).ToSpace(s.WorldPose(r.SpineRoot))

	// The hand anchors are not animated, they keep the sampled pose.
	for _, id := range []rig.BoneID{r.WeaponBoneRight, r.WeaponBoneLeft} {
		if s.Valid(id) && int(id) < len(c.restPose) {
			c.restPose[id] = s.LocalPose(id)
		}
	}
}

// PlayPose blends in a static pose and refreshes the pose caches.
func (c *Component) PlayPose(motion *graph.AnimSequence) {
	if !c.initialized || motion == nil {
		return
	}
	c.samplePose(0)
	c.OnPrePoseSampled()
	c.graph.PlayPose(motion)
	c.OnPoseSampled()
}

func (c *Component) PlayAnimation(motion *graph.AnimSequence, startTime float32) {
	c.graph.PlayAnimation(motion, startTime)
}

func (c *Component) StopAnimation(blendTime float32) {
	c.graph.StopAnimation(blendTime)
}

// OnGunEquipped swaps the weapon asset and the weapon bones, then samples
// the weapon overlay pose.
func (c *Component) OnGunEquipped(asset *resources.WeaponAnimAsset, data WeaponTransformData) {
	c.weaponAsset = asset
	c.weaponTransforms = data
	c.isPivotValid = c.rigData.Skeleton.Valid(data.PivotPoint)
	if asset != nil {
		c.rigData.WeaponTransform = asset.WeaponBone
	}

	core.EventFire(core.EventContext{Type: core.EVENT_CODE_WEAPON_EQUIPPED, Data: asset})

	if asset != nil && asset.OverlayPose != nil {
		c.PlayPose(asset.OverlayPose)
		return
	}
	if c.initialized {
		c.samplePose(0)
		c.OnPrePoseSampled()
		c.OnPoseSampled()
	}
}

func (c *Component) OnSightChanged(aimPoint rig.BoneID) {
	c.weaponTransforms.AimPoint = aimPoint
	core.EventFire(core.EventContext{Type: core.EVENT_CODE_SIGHT_CHANGED, Data: aimPoint})
}

func (c *Component) SetCharData(data CharAnimData) {
	c.charData = data
}

func (c *Component) SetRightHandIKWeight(effector, hint float32) {
	c.ikWeights[ikRightHand] = IKWeights{Effector: effector, Hint: hint}
}

func (c *Component) SetLeftHandIKWeight(effector, hint float32) {
	c.ikWeights[ikLeftHand] = IKWeights{Effector: effector, Hint: hint}
}

func (c *Component) SetRightFootIKWeight(effector, hint float32) {
	c.ikWeights[ikRightFoot] = IKWeights{Effector: effector, Hint: hint}
}

func (c *Component) SetLeftFootIKWeight(effector, hint float32) {
	c.ikWeights[ikLeftFoot] = IKWeights{Effector: effector, Hint: hint}
}

// OnPreUpdate registers a callback run at the start of LateUpdate.
func (c *Component) OnPreUpdate(fn func()) {
	c.onPreUpdate = append(c.onPreUpdate, fn)
}

// OnPostUpdate registers a callback run once the pose is final.
func (c *Component) OnPostUpdate(fn func()) {
	c.onPostUpdate = append(c.onPostUpdate, fn)
}

// AddLayer appends a layer at the end of the update order and returns its id.
func (c *Component) AddLayer(layer Layer) uint32 {
	id := c.layerIDs.Acquire(layer)
	c.layers = append(c.layers, layerEntry{id: id, layer: layer})
	if c.initialized {
		layer.InitializeLayer(c)
	}
	return id
}

func (c *Component) RemoveLayer(index int) error {
	if index < 0 || index >= len(c.layers) {
		return fmt.Errorf("remove layer %d: %w", index, core.ErrLayerNotFound)
	}
	if err := c.layerIDs.Release(c.layers[index].id); err != nil {
		return err
	}
	c.layers = append(c.layers[:index], c.layers[index+1:]...)
	return nil
}

func (c *Component) GetLayer(index int) (Layer, error) {
	if index < 0 || index >= len(c.layers) {
		return nil, fmt.Errorf("get layer %d: %w", index, core.ErrLayerNotFound)
	}
	return c.layers[index].layer, nil
}

// LayerByID returns the layer registered under id by AddLayer.
func (c *Component) LayerByID(id uint32) (Layer, bool) {
	owner, ok := c.layerIDs.Owner(id)
	if !ok {
		return nil, false
	}
	return owner.(Layer), true
}

func (c *Component) LayerCount() int {
	return len(c.layers)
}

// IsLayerUnique reports whether no layer of the same concrete type is registered.
func (c *Component) IsLayerUnique(layer Layer) bool {
	t := reflect.TypeOf(layer)
	for _, e := range c.layers {
		if reflect.TypeOf(e.layer) == t {
			return false
		}
	}
	return true
}

func (c *Component) HasLayer(layer Layer) bool {
	for _, e := range c.layers {
		if e.layer == layer {
			return true
		}
	}
	return false
}

// FindLayer returns the first layer of type T.
func FindLayer[T Layer](c *Component) (T, bool) {
	for _, e := range c.layers {
		if l, ok := e.layer.(T); ok {
			return l, true
		}
	}
	var zero T
	return zero, false
}

// GraphWeight is the weight of the upper body animation, for gameplay queries.
func (c *Component) GraphWeight() float32 {
	return c.graph.GetGraphWeight()
}

// AimWeight is how far into ADS the character is.
func (c *Component) AimWeight() float32 {
	return c.rigData.AimWeight
}

func (c *Component) RigData() *rig.RigData {
	return c.rigData
}

func (c *Component) Graph() *graph.CoreAnimGraph {
	return c.graph
}

func (c *Component) CharData() *CharAnimData {
	return &c.charData
}

func (c *Component) WeaponAsset() *resources.WeaponAnimAsset {
	return c.weaponAsset
}

func (c *Component) WeaponTransforms() *WeaponTransformData {
	return &c.weaponTransforms
}
