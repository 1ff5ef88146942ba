package layout

import (
	"encoding/json"
	"os"
)

// WriteDebugJSON writes a scene as indented JSON for inspecting element placement.
func WriteDebugJSON(scene *Scene, path string) error {
	if scene == nil {
		return nil
	}
	data, err := json.MarshalIndent(scene, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
