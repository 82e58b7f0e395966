package native

// PairEvents describe the transition a pair went through during a step.
type PairEvents uint8

const (
	TouchFound PairEvents = 1 << iota
	TouchPersists
	TouchLost
)

// PairHeaderFlags mark actors deleted since the pair was last reported.
type PairHeaderFlags uint8

const (
	RemovedActor0 PairHeaderFlags = 1 << iota
	RemovedActor1
)

// ContactPairFlags mark shapes deleted since the pair was last reported.
type ContactPairFlags uint8

const (
	RemovedShape0 ContactPairFlags = 1 << iota
	RemovedShape1
)

// ContactPairHeader groups the shape pairs reported for two actors.
type ContactPairHeader struct {
	Actors [2]Actor
	Flags  PairHeaderFlags
}

// ContactPairPoint is a single solver contact. Normal points from shape 1
// toward shape 0; Impulse is the impulse applied to shape 0's actor.
type ContactPairPoint struct {
	Position   Vec3
	Separation float32
	Normal     Vec3
	Impulse    Vec3
}

// ContactPair reports one shape pair. Points are empty for TouchLost.
type ContactPair struct {
	Shapes [2]*Shape
	Events PairEvents
	Flags  ContactPairFlags
	points []ContactPairPoint
}

// ContactCount is the number of points available to ExtractContacts.
func (p ContactPair) ContactCount() int { return len(p.points) }

// ExtractContacts copies up to len(buf) points into buf and returns how many
// were written.
func (p ContactPair) ExtractContacts(buf []ContactPairPoint) int {
	return copy(buf, p.points)
}

// TriggerPairFlags mark shapes deleted since the pair was last reported.
type TriggerPairFlags uint8

const (
	RemovedShapeTrigger TriggerPairFlags = 1 << iota
	RemovedShapeOther
)

// TriggerPair reports a trigger shape starting or stopping to overlap
// another shape. Status is TouchFound or TouchLost.
type TriggerPair struct {
	TriggerShape *Shape
	TriggerActor Actor
	OtherShape   *Shape
	OtherActor   Actor
	Status       PairEvents
	Flags        TriggerPairFlags
}

// SimulationEventCallback receives reports from FetchResults on the calling
// goroutine.
type SimulationEventCallback interface {
	OnContact(header ContactPairHeader, pairs []ContactPair)
	OnTrigger(pairs []TriggerPair)
}

type pendingContact struct {
	header ContactPairHeader
	pairs  []ContactPair
}
