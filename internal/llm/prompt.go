package llm

import (
	"encoding/json"
	"fmt"

	"github.com/joeblew999/plat-style/internal/style"
)

const systemPrompt = `You are a helpful assistant that outputs ONLY valid JSON (no explanation).
Given a text prompt describing a map visual style (e.g. "navy blue water, bright red roads, muted land"),
return a JSON object with keys: name (string), water, land, roads, buildings, labels.
Each color should be a 7-character hex string like "#123ABC".
If overrides object is provided, respect those values (do not change them).
Keep names short.`

func buildUserMessage(prompt string, overrides style.Overrides) string {
	if overrides == nil {
		overrides = style.Overrides{}
	}
	encoded, err := json.Marshal(overrides)
	if err != nil {
		encoded = []byte("{}")
	}
	return fmt.Sprintf("Prompt: %s\nOverrides: %s\nReturn the JSON only.", prompt, encoded)
}
