package prompts

import (
	"encoding/json"
	"os"

	"github.com/pkg/errors"
)

// LoadFile reads stored templates from a JSON array. Templates are returned as written;
// callers run Check on the one they resolve.
func LoadFile(path string) ([]Template, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read prompt templates %s", path)
	}
	var out []Template
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, errors.Wrapf(err, "failed to decode prompt templates %s", path)
	}
	return out, nil
}
