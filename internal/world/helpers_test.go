package world

import (
	"os"

	"physbridge/internal/collision"

	rl "github.com/gen2brain/raylib-go/raylib"
)

func writeString(path, body string) error {
	return os.WriteFile(path, []byte(body), 0644)
}

func collisionBox(center rl.Vector3, half float32) collision.AABB {
	h := rl.Vector3{X: half, Y: half, Z: half}
	return collision.AABB{Min: rl.Vector3Subtract(center, h), Max: rl.Vector3Add(center, h)}
}
