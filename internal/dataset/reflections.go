package dataset

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/christopherklint97/timescape/internal/activity"
)

// LoadReflections reads daily reflections from JSON (an array or an object
// with a "reflections" array) or YAML (.yaml/.yml, a list).
func LoadReflections(path string) (*activity.ReflectionBook, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading reflections: %w", err)
	}

	var list []activity.DailyReflection
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &list); err != nil {
			return nil, fmt.Errorf("parsing reflections %s: %w", path, err)
		}
	default:
		trimmed := bytes.TrimSpace(data)
		if len(trimmed) > 0 && trimmed[0] == '{' {
			var wrapper struct {
				Reflections []activity.DailyReflection `json:"reflections"`
			}
			if err := json.Unmarshal(trimmed, &wrapper); err != nil {
				return nil, fmt.Errorf("parsing reflections %s: %w", path, err)
			}
			list = wrapper.Reflections
		} else if err := json.Unmarshal(trimmed, &list); err != nil {
			return nil, fmt.Errorf("parsing reflections %s: %w", path, err)
		}
	}

	book, err := activity.NewReflectionBook(list)
	if err != nil {
		return nil, fmt.Errorf("loading reflections %s: %w", path, err)
	}
	return book, nil
}
