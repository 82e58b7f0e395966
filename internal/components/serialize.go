package components

import rl "github.com/gen2brain/raylib-go/raylib"

// Scene files decode numbers as int or float64 depending on how they were
// written, so every numeric read goes through toFloat.
func toFloat(v any) (float32, bool) {
	switch n := v.(type) {
	case float64:
		return float32(n), true
	case float32:
		return n, true
	case int:
		return float32(n), true
	case int64:
		return float32(n), true
	}
	return 0, false
}

func readFloat(data map[string]any, key string, dst *float32) {
	if f, ok := toFloat(data[key]); ok {
		*dst = f
	}
}

func readBool(data map[string]any, key string, dst *bool) {
	if b, ok := data[key].(bool); ok {
		*dst = b
	}
}

func readVec3(data map[string]any, key string, dst *rl.Vector3) {
	list, ok := data[key].([]any)
	if !ok || len(list) != 3 {
		return
	}
	var out [3]float32
	for i, v := range list {
		f, ok := toFloat(v)
		if !ok {
			return
		}
		out[i] = f
	}
	*dst = rl.Vector3{X: out[0], Y: out[1], Z: out[2]}
}

func vec3List(v rl.Vector3) []any {
	return []any{v.X, v.Y, v.Z}
}
