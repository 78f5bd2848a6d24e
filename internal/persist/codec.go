package persist

import (
	"encoding/json"
	"fmt"

	"github.com/sangsom/minime/internal/model"
)

// document is the on-disk shape: a single JSON object holding the
// ordered profile array.
type document struct {
	Profiles []model.Profile `json:"profiles"`
}

// Encode serializes a store snapshot into the save document. Pure
// in-memory work; safe to call on the hot path.
func Encode(profiles []model.Profile) ([]byte, error) {
	doc := document{Profiles: profiles}
	if doc.Profiles == nil {
		doc.Profiles = []model.Profile{}
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode profiles: %w", err)
	}
	return data, nil
}

// Decode parses a save document. Unknown fields are ignored for
// forward compatibility; anything unparseable is reported as corrupt
// so the caller can fall back to an empty store.
func Decode(data []byte) ([]model.Profile, error) {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrCorruptData, err)
	}
	return doc.Profiles, nil
}
