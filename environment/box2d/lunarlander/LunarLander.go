// Package lunarlander implements the Lunar Lander environment with
// discrete actions using Box2D physics
package lunarlander

import (
	"fmt"
	"math"

	"github.com/ByteArena/box2d"
	env "github.com/samuelfneumann/godqn/environment"
	ts "github.com/samuelfneumann/godqn/timestep"
	"github.com/samuelfneumann/godqn/utils/floatutils"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r1"
)

const (
	FPS float64 = 50

	// Pixels per Box2D unit
	Scale float64 = 30.0

	XGravity float64 = 0.0
	YGravity float64 = -10.0

	MainEnginePower float64 = 13.0
	SideEnginePower float64 = 0.6

	LegAway         float64 = 20.0
	LegDown         float64 = 18.0
	LegW            float64 = 2.0
	LegH            float64 = 8.0
	LegSpringTorque float64 = 40.0

	SideEngineHeight float64 = 14.0
	SideEngineAway   float64 = 12.0

	Chunks int = 11

	ViewportW float64 = 600
	ViewportH float64 = 400

	ObservationDims int = 8
	NumActions      int = 4

	// Default starting values
	InitialX      float64 = ViewportW / Scale / 2
	InitialY      float64 = (ViewportH - ViewportH/25) / Scale
	InitialRandom float64 = 1000.0
)

// landerPoly outlines the lander body in pixels
var landerPoly = [][2]float64{
	{-14, 17}, {-17, 0}, {-17, -10}, {17, -10}, {17, 0}, {14, 17},
}

var (
	xBounds     = r1.Interval{Min: 0, Max: ViewportW / Scale}
	yBounds     = r1.Interval{Min: ViewportH / Scale / 2, Max: InitialY}
	angleBounds = r1.Interval{Min: -math.Pi, Max: math.Pi}
)

// Discrete implements the Lunar Lander environment with discrete
// actions. A lander must be brought to rest on a helipad in the middle
// of randomly generated terrain.
//
// Observations are 8-dimensional: the lander's x and y position
// relative to the helipad, its x and y velocity, its angle and angular
// velocity, and whether each of its two legs touches the ground.
//
// Actions are:
//
//	Action		Meaning
//	  0			Do nothing
//	  1			Fire left orientation engine
//	  2			Fire main engine
//	  3			Fire right orientation engine
//
// Any other action results in an *environment.InvalidActionError.
type Discrete struct {
	task  *Land
	world box2d.B2World
	rng   *rand.Rand

	boundary []*box2d.B2Body
	moon     *box2d.B2Body
	terrain  [][2]float64
	lander   *box2d.B2Body
	legs     []*box2d.B2Body

	legContact [2]bool
	gameOver   bool
	helipadY   float64

	mPower, sPower float64
	lastStep       ts.TimeStep

	renderDir string
	frame     int
}

// NewDiscrete returns a new Lunar Lander environment. Frames are
// written to renderDir when Render is called.
func NewDiscrete(task *Land, seed uint64, renderDir string) (*Discrete,
	ts.TimeStep, error) {
	l := &Discrete{
		task:      task,
		world:     box2d.MakeB2World(box2d.B2Vec2{X: XGravity, Y: YGravity}),
		rng:       rand.New(rand.NewSource(seed)),
		renderDir: renderDir,
	}
	task.register(l)

	step, err := l.Reset()
	if err != nil {
		return nil, ts.TimeStep{}, fmt.Errorf("newDiscrete: %w", err)
	}
	return l, step, nil
}

// Reset builds a new terrain and lander and returns the first TimeStep
// of the new episode
func (l *Discrete) Reset() (ts.TimeStep, error) {
	start := l.task.Start()
	if err := validateStart(start); err != nil {
		return ts.TimeStep{}, fmt.Errorf("reset: %w", err)
	}

	l.destroy()
	l.world.SetContactListener(&contactDetector{l})
	l.gameOver = false
	l.legContact = [2]bool{}
	l.mPower, l.sPower = 0, 0
	l.task.reset()

	l.createBoundary()
	l.createTerrain()
	l.createLander(start.AtVec(0), start.AtVec(1), start.AtVec(2))

	// Let the initial force act for a single frame
	l.world.Step(1.0/FPS, 6*int(Scale), 2*int(Scale))
	state := l.observe()
	l.task.shape(state)

	l.lastStep = ts.New(ts.First, 0, state, 0)
	return l.lastStep, nil
}

// Step takes one environmental step given action and returns the next
// TimeStep and whether the episode has ended
func (l *Discrete) Step(action int) (ts.TimeStep, bool, error) {
	if err := env.ValidateAction(action, NumActions); err != nil {
		return ts.TimeStep{}, false, err
	}

	tip := [2]float64{math.Sin(l.lander.GetAngle()),
		math.Cos(l.lander.GetAngle())}
	side := [2]float64{-tip[1], tip[0]}
	dispersion := [2]float64{
		(2*l.rng.Float64() - 1) / Scale,
		(2*l.rng.Float64() - 1) / Scale,
	}

	l.mPower, l.sPower = 0, 0
	switch action {
	case 2:
		l.mPower = 1.0
		ox := tip[0]*(4.0/Scale+2.0*dispersion[0]) + side[0]*dispersion[1]
		oy := -tip[1]*(4.0/Scale+2.0*dispersion[0]) - side[1]*dispersion[1]
		l.impulse(ox, oy, 0, 0, MainEnginePower*l.mPower)

	case 1, 3:
		l.sPower = 1.0
		direction := float64(action - 2)
		ox := tip[0]*dispersion[0] + side[0]*(3.0*dispersion[1]+
			direction*SideEngineAway/Scale)
		oy := -tip[1]*dispersion[0] - side[1]*(3.0*dispersion[1]+
			direction*SideEngineAway/Scale)
		l.impulse(ox, oy, -tip[0]*17.0/Scale, tip[1]*SideEngineHeight/Scale,
			SideEnginePower*l.sPower)
	}

	l.world.Step(1.0/FPS, 6*int(Scale), 2*int(Scale))
	state := l.observe()

	reward := l.task.GetReward(l.lastStep.Observation, action, state)
	nextStep := ts.New(ts.Mid, reward, state, l.lastStep.Number+1)
	l.task.End(&nextStep)

	l.lastStep = nextStep
	return nextStep, nextStep.Last(), nil
}

// impulse applies an engine impulse at offset (ox, oy) from the
// lander's centre, shifted by (dx, dy), in the direction opposite the
// offset
func (l *Discrete) impulse(ox, oy, dx, dy, power float64) {
	pos := l.lander.GetPosition()
	at := box2d.MakeB2Vec2(pos.X+ox+dx, pos.Y+oy+dy)
	l.lander.ApplyLinearImpulse(box2d.MakeB2Vec2(-ox*power, -oy*power), at,
		true)
}

// observe returns the current observation of the lander
func (l *Discrete) observe() *mat.VecDense {
	pos := l.lander.GetPosition()
	vel := l.lander.GetLinearVelocity()

	var leg1, leg2 float64
	if l.legContact[0] {
		leg1 = 1.0
	}
	if l.legContact[1] {
		leg2 = 1.0
	}

	return mat.NewVecDense(ObservationDims, []float64{
		(pos.X - ViewportW/Scale/2.0) / (ViewportW / Scale / 2.0),
		(pos.Y - (l.helipadY + LegDown/Scale)) / (ViewportH / Scale / 2.0),
		vel.X * (ViewportW / Scale / 2.0) / FPS,
		vel.Y * (ViewportH / Scale / 2.0) / FPS,
		floatutils.WrapInterval(l.lander.GetAngle(), angleBounds),
		20.0 * l.lander.GetAngularVelocity() / FPS,
		leg1,
		leg2,
	})
}

// CurrentTimeStep returns the last TimeStep that occurred
func (l *Discrete) CurrentTimeStep() ts.TimeStep {
	return l.lastStep
}

// ObservationSpec returns the observation specification of the
// environment
func (l *Discrete) ObservationSpec() env.Spec {
	lower := []float64{-1, -1, -5, -5, angleBounds.Min, -5, 0, 0}
	upper := []float64{1, 1, 5, 5, angleBounds.Max, 5, 1, 1}

	return env.Spec{
		Shape:       mat.NewVecDense(ObservationDims, nil),
		Type:        env.Observation,
		LowerBound:  mat.NewVecDense(ObservationDims, lower),
		UpperBound:  mat.NewVecDense(ObservationDims, upper),
		Cardinality: env.Continuous,
	}
}

// ActionSpec returns the action specification of the environment
func (l *Discrete) ActionSpec() env.Spec {
	return env.DiscreteActionSpec(NumActions)
}

// Close destroys all bodies in the world
func (l *Discrete) Close() error {
	l.destroy()
	return nil
}

// awake returns whether the lander is still moving
func (l *Discrete) awake() bool {
	return l.lander.IsAwake()
}

// destroy removes all bodies from the world
func (l *Discrete) destroy() {
	if l.moon == nil {
		return
	}
	l.world.SetContactListener(nil)

	l.world.DestroyBody(l.moon)
	l.moon = nil
	l.world.DestroyBody(l.lander)
	l.lander = nil
	for _, leg := range l.legs {
		l.world.DestroyBody(leg)
	}
	l.legs = nil
	for _, b := range l.boundary {
		l.world.DestroyBody(b)
	}
	l.boundary = nil
}

// createBoundary surrounds the viewport with static edges
func (l *Discrete) createBoundary() {
	w, h := ViewportW/Scale, ViewportH/Scale
	corners := [][2]float64{{0, 0}, {0, h}, {w, h}, {w, 0}}

	l.boundary = make([]*box2d.B2Body, len(corners))
	for i := range corners {
		next := corners[(i+1)%len(corners)]

		def := box2d.NewB2BodyDef()
		def.Type = box2d.B2BodyType.B2_staticBody
		l.boundary[i] = l.world.CreateBody(def)

		shape := box2d.NewB2EdgeShape()
		shape.Set(box2d.MakeB2Vec2(corners[i][0], corners[i][1]),
			box2d.MakeB2Vec2(next[0], next[1]))
		fix := box2d.MakeB2FixtureDef()
		fix.Shape = shape
		l.boundary[i].CreateFixtureFromDef(&fix)
	}
}

// createTerrain generates random terrain with a flat helipad in the
// middle
func (l *Discrete) createTerrain() {
	w, h := ViewportW/Scale, ViewportH/Scale

	height := make([]float64, Chunks+1)
	for i := range height {
		height[i] = l.rng.Float64() * h / 2.0
	}
	l.helipadY = h / 4
	for i := Chunks/2 - 2; i <= Chunks/2+2; i++ {
		height[i] = l.helipadY
	}

	chunkX := make([]float64, Chunks)
	smoothY := make([]float64, Chunks)
	for i := 0; i < Chunks; i++ {
		chunkX[i] = float64(i) * w / float64(Chunks-1)
		prev := Chunks - 1
		if i > 0 {
			prev = i - 1
		}
		smoothY[i] = 0.33 * (height[prev] + height[i] + height[i+1])
	}

	def := box2d.NewB2BodyDef()
	def.Type = box2d.B2BodyType.B2_staticBody
	l.moon = l.world.CreateBody(def)

	l.terrain = make([][2]float64, 0, Chunks)
	for i := 0; i < Chunks-1; i++ {
		edge := box2d.NewB2EdgeShape()
		edge.Set(box2d.MakeB2Vec2(chunkX[i], smoothY[i]),
			box2d.MakeB2Vec2(chunkX[i+1], smoothY[i+1]))

		fix := box2d.MakeB2FixtureDef()
		fix.Shape = edge
		fix.Density = 0.0
		fix.Friction = 0.1
		l.moon.CreateFixtureFromDef(&fix)

		l.terrain = append(l.terrain, [2]float64{chunkX[i], smoothY[i]})
	}
	l.terrain = append(l.terrain, [2]float64{chunkX[Chunks-1],
		smoothY[Chunks-1]})
}

// createLander creates the lander and its legs at (x, y) and pushes it
// with a random force of magnitude at most force in each direction
func (l *Discrete) createLander(x, y, force float64) {
	def := box2d.MakeB2BodyDef()
	def.Type = box2d.B2BodyType.B2_dynamicBody
	def.Position = box2d.MakeB2Vec2(x, y)
	l.lander = l.world.CreateBody(&def)

	vertices := make([]box2d.B2Vec2, len(landerPoly))
	for i, v := range landerPoly {
		vertices[i] = box2d.MakeB2Vec2(v[0]/Scale, v[1]/Scale)
	}
	shape := box2d.NewB2PolygonShape()
	shape.Set(vertices, len(vertices))

	fix := box2d.MakeB2FixtureDef()
	fix.Shape = shape
	fix.Density = 5.0
	fix.Friction = 0.1
	fix.Restitution = 0.0
	fix.Filter = box2d.MakeB2Filter()
	fix.Filter.CategoryBits = 0x0010
	fix.Filter.MaskBits = 0x001
	l.lander.CreateFixtureFromDef(&fix)

	l.lander.ApplyForceToCenter(box2d.MakeB2Vec2(
		(2*l.rng.Float64()-1)*force,
		(2*l.rng.Float64()-1)*force,
	), true)

	l.legs = make([]*box2d.B2Body, 0, 2)
	for _, i := range []float64{-1.0, 1.0} {
		legDef := box2d.NewB2BodyDef()
		legDef.Type = box2d.B2BodyType.B2_dynamicBody
		legDef.Position = box2d.MakeB2Vec2(x-i*LegAway/Scale, y)
		legDef.Angle = i * 0.05
		leg := l.world.CreateBody(legDef)
		l.legs = append(l.legs, leg)

		legShape := box2d.NewB2PolygonShape()
		legShape.SetAsBox(LegW/Scale, LegH/Scale)

		legFix := box2d.MakeB2FixtureDef()
		legFix.Shape = legShape
		legFix.Density = 1.0
		legFix.Restitution = 0.0
		legFix.Filter = box2d.MakeB2Filter()
		legFix.Filter.CategoryBits = 0x0020
		legFix.Filter.MaskBits = 0x001
		leg.CreateFixtureFromDef(&legFix)

		joint := box2d.MakeB2RevoluteJointDef()
		joint.BodyA = l.lander
		joint.BodyB = leg
		joint.LocalAnchorA = box2d.MakeB2Vec2(0, 0)
		joint.LocalAnchorB = box2d.MakeB2Vec2(i*LegAway/Scale, LegDown/Scale)
		joint.EnableMotor = true
		joint.EnableLimit = true
		joint.MaxMotorTorque = LegSpringTorque
		joint.MotorSpeed = 0.3 * i
		if i < 0 {
			joint.LowerAngle = 0.9 - 0.5
			joint.UpperAngle = 0.9
		} else {
			joint.LowerAngle = -0.9
			joint.UpperAngle = -0.9 + 0.5
		}
		l.world.CreateJoint(&joint)
	}
}

func validateStart(start mat.Vector) error {
	if start.Len() != 3 {
		return fmt.Errorf("invalid starting values, expected [x, y, "+
			"force]\n\twant(3)\n\thave(%v)", start.Len())
	}
	if !floatutils.Contains(xBounds, start.AtVec(0)) {
		return fmt.Errorf("x position %v ∉ %v", start.AtVec(0), xBounds)
	}
	if !floatutils.Contains(yBounds, start.AtVec(1)) {
		return fmt.Errorf("y position %v ∉ %v", start.AtVec(1), yBounds)
	}
	if start.AtVec(2) < 0 {
		return fmt.Errorf("initial force %v must be non-negative",
			start.AtVec(2))
	}
	return nil
}

// contactDetector tracks the contacts of the lander and its legs with
// the terrain
type contactDetector struct {
	env *Discrete
}

func (c *contactDetector) touches(contact box2d.B2ContactInterface,
	body *box2d.B2Body) bool {
	return contact.GetFixtureA().GetBody() == body ||
		contact.GetFixtureB().GetBody() == body
}

func (c *contactDetector) BeginContact(contact box2d.B2ContactInterface) {
	if c.touches(contact, c.env.lander) {
		c.env.gameOver = true
	}
	for i, leg := range c.env.legs {
		if c.touches(contact, leg) {
			c.env.legContact[i] = true
		}
	}
}

func (c *contactDetector) EndContact(contact box2d.B2ContactInterface) {
	for i, leg := range c.env.legs {
		if c.touches(contact, leg) {
			c.env.legContact[i] = false
		}
	}
}

func (c *contactDetector) PreSolve(box2d.B2ContactInterface, box2d.B2Manifold) {}

func (c *contactDetector) PostSolve(box2d.B2ContactInterface,
	*box2d.B2ContactImpulse) {
}
