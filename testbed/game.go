package testbed

import (
	"time"

	"github.com/spaghettifunk/fpsanim/engine"
	"github.com/spaghettifunk/fpsanim/engine/animator"
	"github.com/spaghettifunk/fpsanim/engine/assets"
	"github.com/spaghettifunk/fpsanim/engine/core"
	"github.com/spaghettifunk/fpsanim/engine/graph"
	"github.com/spaghettifunk/fpsanim/engine/layers"
	"github.com/spaghettifunk/fpsanim/engine/math"
	"github.com/spaghettifunk/fpsanim/engine/resources"
	"github.com/spaghettifunk/fpsanim/engine/rig"
	"golang.org/x/exp/rand"
)

const (
	weaponName = "rifle"
	// Base controller curve that hands the upper body back to locomotion.
	maskLocomotion = "MaskLocomotion"
	// Frames between two transform logs.
	logInterval = 30
)

type TestGame struct {
	*engine.Game
}

type gameState struct {
	skeleton  *rig.Skeleton
	component *animator.Component
	base      *graph.ClipController

	locomotion *layers.LocomotionLayer
	look       *layers.LookLayer
	ads        *layers.AdsLayer
	sway       *layers.SwayLayer

	recoil     *animator.RecoilAnimation
	weapon     *resources.WeaponAnimAsset
	weaponData animator.WeaponTransformData
	sprintPose *resources.IKPose
	pronePose  *resources.IKPose

	script *script
	rng    *rand.Rand
	frame  uint64
}

func NewTestGame(config *engine.ApplicationConfig) (*TestGame, error) {
	if config == nil {
		config = engine.DefaultApplicationConfig()
	}
	tg := &TestGame{
		Game: &engine.Game{
			ApplicationConfig: config,
			State: &gameState{
				script: newScript(),
				rng:    rand.New(rand.NewSource(uint64(time.Now().UnixNano()))),
			},
		},
	}

	tg.FnInitialize = tg.Initialize
	tg.FnUpdate = tg.Update
	tg.FnShutdown = tg.Shutdown

	return tg, nil
}

func (g *TestGame) state() *gameState {
	return g.State.(*gameState)
}

func (g *TestGame) assetManager() *assets.AssetManager {
	if g.SystemManager == nil {
		return nil
	}
	return g.SystemManager.AssetManager()
}

func (g *TestGame) Initialize() error {
	core.LogInfo("initializing testbed...")
	state := g.state()
	am := g.assetManager()

	s, character := rig.BuildHumanoid()
	state.skeleton = s

	state.base = graph.NewClipController("base")
	// The idle clip may carry a MaskLocomotion curve, no float overrides it.
	state.base.AddState("idle", loadClip(am, "idle"))

	spine, _ := s.Find("Spine")
	animGraph := graph.NewCoreAnimGraph(s, graph.NewAvatarMaskFromBone("upper_body", s, spine), state.base, nil)

	component, err := animator.NewComponent(animator.ComponentConfig{
		Skeleton:  s,
		Character: character,
		Graph:     animGraph,
		JobSystem: g.SystemManager.JobSystem(),
		UseIK:     true,
	})
	if err != nil {
		return err
	}
	state.component = component

	// Weapon model bones and the camera aim target. They need the proxy
	// bones created by the component.
	r := component.RigData()
	s.AddBone(layers.AimTargetName, r.Head, math.NewPose(math.NewVec3(0, 0.05, 0.2), math.NewQuatIdentity()))
	state.weaponData = animator.NewWeaponTransformData()
	state.weaponData.PivotPoint = s.AddBone("Rifle_Pivot", r.WeaponBone, math.NewPose(math.NewVec3(0, 0, 0.1), math.NewQuatIdentity()))
	state.weaponData.AimPoint = s.AddBone("Rifle_Sight", r.WeaponBone, math.NewPose(math.NewVec3(0, 0.06, 0.25), math.NewQuatIdentity()))
	state.weaponData.LeftHandTarget = s.AddBone("Rifle_Grip", r.WeaponBone, math.NewPose(math.NewVec3(-0.02, -0.03, 0.3), math.NewQuatIdentity()))

	state.weapon = loadWeapon(am, weaponName)
	state.sprintPose = loadIKPose(am, "sprint", math.NewPose(math.NewVec3(0.05, -0.08, -0.05), math.QuatFromEuler(10, -30, 15)))
	state.pronePose = loadIKPose(am, "prone", math.NewPose(math.NewVec3(0, -0.03, -0.02), math.QuatFromEuler(0, 0, 5)))
	state.recoil = animator.NewRecoilAnimation(state.weapon.RecoilData)

	// Designer order: every layer sees the bone writes of the ones above.
	state.locomotion = layers.NewLocomotionLayer()
	state.locomotion.CurveName = maskLocomotion
	state.locomotion.IKInterpolation = 12

	state.look = layers.NewLookLayer()
	state.look.AimOffsetTable = state.weapon.AimOffsetTable
	if state.look.AimOffsetTable == nil {
		state.look.AimOffsetTable = loadAimOffset(am, "default")
	}
	state.look.SmoothAim = 20
	state.look.LeanSpeed = 8

	state.ads = layers.NewAdsLayer()
	state.sway = layers.NewSwayLayer()

	leftHand := layers.NewLeftHandIKLayer()
	if hand, ok := s.Find("LeftHand"); ok {
		leftHand.LeftHandMask = graph.NewAvatarMaskFromBone("left_hand", s, hand)
	}

	for _, l := range []animator.Layer{
		state.locomotion,
		state.look,
		state.ads,
		state.sway,
		layers.NewRecoilLayer(),
		leftHand,
		layers.NewBlockingLayer(),
		layers.NewViewmodelLayer(),
		layers.NewPoseBlending(),
	} {
		component.AddLayer(l)
	}

	if err := component.InitializeComponent(); err != nil {
		return err
	}
	component.OnGunEquipped(state.weapon, state.weaponData)

	core.EventRegister(core.EVENT_CODE_ACTION_PRESSED, g, g.onAction)
	core.EventRegister(core.EVENT_CODE_ASSET_RELOADED, g, g.onAssetReloaded)

	core.LogInfo("testbed ready: %d bones, %d layers, weapon '%s'", s.Len(), component.LayerCount(), state.weapon.Name)
	return nil
}

func (g *TestGame) Update(deltaTime float64) error {
	state := g.state()
	dt := float32(deltaTime)

	state.script.drive(dt, state.rng)

	// Controller input into the animation data.
	data := state.component.CharData()
	lookX, lookY := core.InputGetLookDelta()
	data.AddAimInput(math.NewVec2(lookX, lookY))
	moveX, moveY := core.InputGetMoveAxis()
	data.MoveInput = math.NewVec2(moveX, moveY)
	lean := float32(0)
	if core.InputIsActionDown(core.ACTION_LEAN_LEFT) {
		lean--
	}
	if core.InputIsActionDown(core.ACTION_LEAN_RIGHT) {
		lean++
	}
	data.SetLeanInput(lean)
	data.ObstacleDistance = state.script.obstacle

	aiming := core.InputIsActionDown(core.ACTION_AIM)
	state.ads.SetAds(aiming)
	state.sway.SetFreeAimEnable(!aiming)
	state.ads.SetPointAim(core.InputIsActionDown(core.ACTION_POINT_AIM))

	g.updateIKPose(core.ACTION_SPRINT, state.sprintPose)
	g.updateIKPose(core.ACTION_PRONE, state.pronePose)

	state.recoil.Update(dt)
	data.RecoilAnim = state.recoil.Output()

	state.component.Tick(dt)

	state.frame++
	if state.frame%logInterval == 0 {
		g.logTransforms()
	}
	return nil
}

func (g *TestGame) updateIKPose(action core.Action, pose *resources.IKPose) {
	state := g.state()
	if core.InputIsActionTriggered(action) {
		state.locomotion.BlendInIkPose(pose)
		return
	}
	if core.InputWasActionDown(action) && !core.InputIsActionDown(action) {
		state.locomotion.BlendOutIkPose(pose.BlendOutSpeed)
	}
}

func (g *TestGame) logTransforms() {
	state := g.state()
	r := state.component.RigData()
	s := state.skeleton

	weapon := s.Position(r.WeaponBone)
	rightHand := s.Position(r.RightHand.Target)
	leftHand := s.Position(r.LeftHand.Target)
	euler := math.ToEuler(s.Rotation(r.WeaponBone))

	core.LogInfo("frame %d\nWeapon Pos: [%.3f, %.3f, %.3f] Rot: [%.1f, %.1f, %.1f]\nRight Hand: [%.3f, %.3f, %.3f]\nLeft Hand: [%.3f, %.3f, %.3f]\nAim: %.2f",
		state.frame,
		weapon[0], weapon[1], weapon[2], euler[0], euler[1], euler[2],
		rightHand[0], rightHand[1], rightHand[2],
		leftHand[0], leftHand[1], leftHand[2],
		state.component.AimWeight())
}

func (g *TestGame) Shutdown() error {
	state := g.state()
	core.EventUnregister(core.EVENT_CODE_ACTION_PRESSED, g)
	core.EventUnregister(core.EVENT_CODE_ASSET_RELOADED, g)
	if state.component != nil {
		state.component.Shutdown()
	}
	core.LogInfo("testbed shut down after %d frames", state.frame)
	return nil
}

func (g *TestGame) onAction(context core.EventContext) bool {
	e, ok := context.Data.(*core.ActionEvent)
	if !ok {
		core.LogError("wrong event associated with the event type `%d`", context.Type)
		return false
	}

	state := g.state()
	switch e.Action {
	case core.ACTION_FIRE:
		state.recoil.Play(state.component.AimWeight())
	case core.ACTION_CHANGE_SIGHT:
		state.component.OnSightChanged(state.weaponData.AimPoint)
		state.ads.UpdateAimPoint()
	}
	return false
}

// onAssetReloaded swaps the weapon asset as a whole when its file changes.
func (g *TestGame) onAssetReloaded(context core.EventContext) bool {
	e, ok := context.Data.(core.AssetEvent)
	if !ok {
		return false
	}
	state := g.state()
	if e.Name != weaponName {
		return false
	}

	weapon, err := g.assetManager().LoadWeapon(e.Name)
	if err != nil {
		core.LogError("keeping the current weapon: %s", err)
		return false
	}
	state.weapon = weapon
	state.recoil.Init(weapon.RecoilData)
	state.component.OnGunEquipped(weapon, state.weaponData)
	if weapon.AimOffsetTable != nil {
		state.look.SetAimOffsetTable(weapon.AimOffsetTable)
	}
	core.LogInfo("weapon '%s' reloaded", weapon.Name)
	return false
}
