package engine

import (
	"sync"
	"testing"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// lifecycle counts the calls a GameObject makes on its components.
type lifecycle struct {
	BaseComponent
	starts, updates, destroys int
}

func (l *lifecycle) Start()         { l.starts++ }
func (l *lifecycle) Update(float32) { l.updates++ }
func (l *lifecycle) OnDestroy()     { l.destroys++ }

func TestGameObjectUIDsUniqueAcrossGoroutines(t *testing.T) {
	const n = 64
	uids := make(chan uint64, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			uids <- NewGameObject("Worker").UID
		}()
	}
	wg.Wait()
	close(uids)

	seen := make(map[uint64]bool, n)
	for uid := range uids {
		if uid == 0 || seen[uid] {
			t.Fatalf("Expected unique non-zero UIDs, got %d twice or zero", uid)
		}
		seen[uid] = true
	}
}

func TestAddComponentAfterStart(t *testing.T) {
	g := NewGameObject("Late")
	early := &lifecycle{}
	g.AddComponent(early)
	g.Start()
	g.Start()

	late := &lifecycle{}
	g.AddComponent(late)

	if early.starts != 1 {
		t.Errorf("Expected one Start for the early component, got %d", early.starts)
	}
	if late.starts != 1 {
		t.Errorf("Expected a component added after Start to start at once, got %d", late.starts)
	}
	if late.GetGameObject() != g {
		t.Error("Component should point back at its GameObject")
	}
}

func TestGetComponentsByInterface(t *testing.T) {
	g := NewGameObject("Mixed")
	g.AddComponent(&BaseComponent{})
	g.AddComponent(&lifecycle{})
	g.AddComponent(&lifecycle{})

	if n := len(GetComponents[Destroyable](g)); n != 2 {
		t.Errorf("Expected 2 destroyable components, got %d", n)
	}
	if GetComponent[*lifecycle](g) == nil {
		t.Error("GetComponent should find the first lifecycle component")
	}
	if len(g.Components()) != 3 {
		t.Errorf("Expected 3 components, got %d", len(g.Components()))
	}
}

func TestUpdateSkipsInactiveAndPending(t *testing.T) {
	scene := NewScene("Test")
	g := NewGameObject("Ticker")
	c := &lifecycle{}
	g.AddComponent(c)
	scene.AddGameObject(g)

	g.Update(0.1)
	g.Active = false
	g.Update(0.1)
	g.Active = true
	scene.Destroy(g)
	g.Update(0.1)

	if c.updates != 1 {
		t.Errorf("Expected 1 update, got %d", c.updates)
	}
}

func TestWorldTransformThroughRotatedParent(t *testing.T) {
	parent := NewGameObject("Parent")
	parent.Transform.Position = rl.Vector3{X: 5}
	parent.Transform.SetRotationEuler(rl.Vector3{Z: 90})
	parent.Transform.Scale = rl.Vector3{X: 2, Y: 2, Z: 2}
	child := NewGameObject("Child")
	child.Transform.Position = rl.Vector3{X: 1}
	parent.AddChild(child)

	// Local forward is the parent's right after a 90 degree yaw.
	if got := child.WorldPosition(); !nearVec(got, rl.Vector3{X: 5, Y: 2}) {
		t.Errorf("Expected world (5,2,0), got %v", got)
	}
	if got := child.WorldScale(); !nearVec(got, rl.Vector3{X: 2, Y: 2, Z: 2}) {
		t.Errorf("Expected inherited scale 2, got %v", got)
	}

	target := child.WorldTransform()
	target.Position.Z = 3
	child.SetWorldTransform(target)
	if got := child.WorldPosition(); !nearVec(got, rl.Vector3{X: 5, Y: 2, Z: 3}) {
		t.Errorf("Expected world (5,2,3) after set, got %v", got)
	}

	parent.RemoveChild(child)
	if child.Parent != nil || len(parent.Children) != 0 {
		t.Error("RemoveChild should detach both sides")
	}
}

func TestActorEventsFanOut(t *testing.T) {
	a := NewGameObject("A")
	b := NewGameObject("B")

	var got []*GameObject
	id := a.Events.OnActorBeginOverlap.AddListener(func(e OverlapEvent) { got = append(got, e.OtherActor) })
	a.Events.OnActorBeginOverlap.AddListener(func(e OverlapEvent) { got = append(got, e.OtherActor) })

	a.Events.OnActorBeginOverlap.Invoke(OverlapEvent{OtherActor: b})
	if len(got) != 2 || got[0] != b {
		t.Errorf("Expected both listeners to see B, got %v", got)
	}

	a.Events.OnActorBeginOverlap.RemoveListener(id)
	a.Events.OnActorBeginOverlap.Invoke(OverlapEvent{OtherActor: b})
	if len(got) != 3 {
		t.Errorf("Expected one listener left, got %d calls", len(got))
	}
	if b.Events.OnActorBeginOverlap.GetListenerCount() != 0 {
		t.Error("Each GameObject should own its delegates")
	}
}
