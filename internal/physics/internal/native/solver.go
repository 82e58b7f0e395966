package native

import (
	"physbridge/internal/collision"

	"github.com/chewxy/math32"
)

const (
	baumgarte    = 0.2
	linearSlop   = 0.005
	maxBiasSpeed = 4.0
)

type solverPoint struct {
	position    Vec3
	separation  float32
	rA, rB      Vec3
	normalMass  float32
	tangentMass [2]float32
	bias        float32
	accN        float32
	accT        [2]float32
}

type contactConstraint struct {
	a, b        *RigidDynamic // nil for static
	normal      Vec3
	tangents    [2]Vec3
	friction    float32
	restitution float32
	points      []solverPoint
}

func linVel(d *RigidDynamic) Vec3 {
	if d == nil {
		return Vec3{}
	}
	return d.linearVelocity
}

func angVel(d *RigidDynamic) Vec3 {
	if d == nil {
		return Vec3{}
	}
	return d.angularVelocity
}

func invMassOf(d *RigidDynamic) float32 {
	if d == nil {
		return 0
	}
	return d.invMass
}

func invInertiaApply(d *RigidDynamic, v Vec3) Vec3 {
	if d == nil {
		return Vec3{}
	}
	return d.applyInvInertia(v)
}

func centerOf(a Actor) Vec3 { return a.GlobalPose().P }

// relativeVelocity is the velocity of b's contact point relative to a's.
func (c *contactConstraint) relativeVelocity(p *solverPoint) Vec3 {
	va := linVel(c.a).Add(angVel(c.a).Cross(p.rA))
	vb := linVel(c.b).Add(angVel(c.b).Cross(p.rB))
	return vb.Sub(va)
}

func (c *contactConstraint) effectiveMass(rA, rB, dir Vec3) float32 {
	k := invMassOf(c.a) + invMassOf(c.b)
	k += invInertiaApply(c.a, rA.Cross(dir)).Cross(rA).Dot(dir)
	k += invInertiaApply(c.b, rB.Cross(dir)).Cross(rB).Dot(dir)
	return inv(k)
}

func (c *contactConstraint) applyImpulse(p *solverPoint, impulse Vec3) {
	if c.a != nil {
		c.a.linearVelocity = c.a.linearVelocity.Sub(impulse.Scale(c.a.invMass))
		c.a.angularVelocity = c.a.angularVelocity.Sub(c.a.applyInvInertia(p.rA.Cross(impulse)))
	}
	if c.b != nil {
		c.b.linearVelocity = c.b.linearVelocity.Add(impulse.Scale(c.b.invMass))
		c.b.angularVelocity = c.b.angularVelocity.Add(c.b.applyInvInertia(p.rB.Cross(impulse)))
	}
}

// newConstraint prepares a manifold for solving. bodyA and bodyB are the
// actors of the pair's first and second shape.
func newConstraint(bodyA, bodyB Actor, ma, mb *Material, m collision.Contact, dt, bounceThreshold float32) *contactConstraint {
	c := &contactConstraint{
		normal:      Vec3(m.Normal).Normalize(),
		friction:    (ma.DynamicFriction + mb.DynamicFriction) / 2,
		restitution: (ma.Restitution + mb.Restitution) / 2,
	}
	// Sleeping bodies take part as immovable.
	if d, ok := bodyA.(*RigidDynamic); ok && !d.sleeping {
		c.a = d
	}
	if d, ok := bodyB.(*RigidDynamic); ok && !d.sleeping {
		c.b = d
	}
	c.tangents = basis(c.normal)

	ca, cb := centerOf(bodyA), centerOf(bodyB)
	for _, mp := range m.Points {
		pos := Vec3(mp.Position)
		p := solverPoint{
			position:   pos,
			separation: mp.Separation,
			rA:         pos.Sub(ca),
			rB:         pos.Sub(cb),
		}
		p.normalMass = c.effectiveMass(p.rA, p.rB, c.normal)
		for i := range c.tangents {
			p.tangentMass[i] = c.effectiveMass(p.rA, p.rB, c.tangents[i])
		}
		p.bias = min(baumgarte/dt*max(-mp.Separation-linearSlop, 0), maxBiasSpeed)
		if vn := c.relativeVelocity(&p).Dot(c.normal); vn < -bounceThreshold {
			p.bias = max(p.bias, -c.restitution*vn)
		}
		c.points = append(c.points, p)
	}
	return c
}

// basis returns two unit tangents orthogonal to n.
func basis(n Vec3) [2]Vec3 {
	var t Vec3
	if math32.Abs(n.X) > 0.57735 {
		t = V(n.Y, -n.X, 0)
	} else {
		t = V(0, n.Z, -n.Y)
	}
	t = t.Normalize()
	return [2]Vec3{t, n.Cross(t)}
}

func (c *contactConstraint) solve() {
	for i := range c.points {
		p := &c.points[i]

		// Friction first so the normal impulse has the last word.
		for k, t := range c.tangents {
			vt := c.relativeVelocity(p).Dot(t)
			lambda := -vt * p.tangentMass[k]
			limit := c.friction * p.accN
			old := p.accT[k]
			p.accT[k] = min(max(old+lambda, -limit), limit)
			c.applyImpulse(p, t.Scale(p.accT[k]-old))
		}

		vn := c.relativeVelocity(p).Dot(c.normal)
		lambda := (p.bias - vn) * p.normalMass
		old := p.accN
		p.accN = max(old+lambda, 0)
		c.applyImpulse(p, c.normal.Scale(p.accN-old))
	}
}

// report converts solved points into event data, seen from the first body.
func (c *contactConstraint) report() []ContactPairPoint {
	n := c.normal.Neg()
	out := make([]ContactPairPoint, len(c.points))
	for i, p := range c.points {
		out[i] = ContactPairPoint{
			Position:   p.position,
			Separation: p.separation,
			Normal:     n,
			Impulse:    n.Scale(p.accN),
		}
	}
	return out
}

// wakeOnImpact wakes a sleeping body hit by an awake one moving faster than
// threshold relative to it.
func wakeOnImpact(a, b Actor, threshold float32) {
	da, okA := a.(*RigidDynamic)
	db, okB := b.(*RigidDynamic)
	if !okA || !okB || da.sleeping == db.sleeping {
		return
	}
	if da.linearVelocity.Sub(db.linearVelocity).Length() > threshold {
		da.WakeUp()
		db.WakeUp()
	}
}
