package engine

import "testing"

func TestZeroSceneAcceptsObjects(t *testing.T) {
	var scene Scene
	g := NewGameObject("Crate")
	g.Tags = []string{"prop"}
	scene.AddGameObject(g)

	if g.Scene != &scene {
		t.Error("AddGameObject should set the back pointer")
	}
	if scene.FindByUID(g.UID) != g || scene.FindByName("Crate") != g {
		t.Error("Object should be found by UID and name")
	}
	if found := scene.FindByTag("prop"); len(found) != 1 || found[0] != g {
		t.Errorf("Expected one tagged object, got %v", found)
	}
	if scene.FindByName("Missing") != nil || len(scene.FindByTag("enemy")) != 0 {
		t.Error("Lookups for absent objects should come back empty")
	}
}

func TestRemoveCallsOnDestroyForChildren(t *testing.T) {
	scene := NewScene("Test")
	parent := NewGameObject("Parent")
	child := NewGameObject("Child")
	pc, cc := &lifecycle{}, &lifecycle{}
	parent.AddComponent(pc)
	child.AddComponent(cc)
	parent.AddChild(child)
	scene.AddGameObject(parent)
	scene.AddGameObject(child)

	scene.RemoveGameObject(parent)

	if pc.destroys != 1 || cc.destroys != 1 {
		t.Errorf("Expected OnDestroy once each, got parent=%d child=%d", pc.destroys, cc.destroys)
	}
	if len(scene.GameObjects) != 0 || scene.FindByUID(child.UID) != nil {
		t.Errorf("Expected an empty scene, got %d objects", len(scene.GameObjects))
	}
}

func TestSceneDestroyIsDeferred(t *testing.T) {
	scene := NewScene("Test")
	obj := NewGameObject("Crate")
	c := &lifecycle{}
	obj.AddComponent(c)
	scene.AddGameObject(obj)

	scene.Destroy(obj)
	scene.Destroy(obj)

	if !obj.IsPendingDestroy() {
		t.Error("Object should be pending destroy")
	}
	if scene.FindByUID(obj.UID) != obj {
		t.Error("Pending object should stay reachable until flush")
	}
	scene.Update(0.1)
	if c.updates != 0 {
		t.Error("Pending objects should not update")
	}

	if n := scene.FlushDestroyed(); n != 1 {
		t.Errorf("Expected 1 flushed object, got %d", n)
	}
	if c.destroys != 1 {
		t.Errorf("Expected OnDestroy once, got %d", c.destroys)
	}
	if scene.FindByUID(obj.UID) != nil {
		t.Error("Flushed object still in UID map")
	}
	if n := scene.FlushDestroyed(); n != 0 {
		t.Errorf("Expected nothing left to flush, got %d", n)
	}
}

func TestDestroyMarksChildren(t *testing.T) {
	scene := NewScene("Test")
	parent := NewGameObject("Parent")
	child := NewGameObject("Child")
	parent.AddChild(child)
	scene.AddGameObject(parent)
	scene.AddGameObject(child)

	scene.Destroy(parent)
	if !child.IsPendingDestroy() {
		t.Error("Children should be pending with their parent")
	}

	// The child goes with its parent, so only one top-level object counts.
	if n := scene.FlushDestroyed(); n != 1 {
		t.Errorf("Expected 1 flushed object, got %d", n)
	}
	if len(scene.GameObjects) != 0 {
		t.Errorf("Expected an empty scene, got %d objects", len(scene.GameObjects))
	}
}

func TestSceneStartStartsEveryObject(t *testing.T) {
	scene := NewScene("Test")
	var cs []*lifecycle
	for _, name := range []string{"A", "B", "C"} {
		g := NewGameObject(name)
		c := &lifecycle{}
		g.AddComponent(c)
		scene.AddGameObject(g)
		cs = append(cs, c)
	}

	scene.Start()
	scene.Start()
	scene.Update(0.1)

	for i, c := range cs {
		if c.starts != 1 || c.updates != 1 {
			t.Errorf("Object %d: expected 1 start and 1 update, got %d and %d", i, c.starts, c.updates)
		}
	}
}
