package gemini

import "google.golang.org/genai"

// extractedRecord is the JSON object the model is instructed to emit.
type extractedRecord struct {
	Summary       string `json:"summary"`
	Type          string `json:"type"`
	Severity      string `json:"severity"`
	PriorityScore any    `json:"priority_score"`
	Coords        *struct {
		Lat float64 `json:"lat"`
		Lng float64 `json:"lng"`
	} `json:"coords"`
}

// responseSchema constrains the model output to extractedRecord.
var responseSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"summary":        {Type: genai.TypeString},
		"type":           {Type: genai.TypeString},
		"severity":       {Type: genai.TypeString},
		"priority_score": {Type: genai.TypeNumber},
		"coords": {
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"lat": {Type: genai.TypeNumber},
				"lng": {Type: genai.TypeNumber},
			},
			Required: []string{"lat", "lng"},
		},
	},
	Required: []string{"summary", "type", "severity", "priority_score", "coords"},
}

const systemInstruction = `You parse emergency dispatch notes.
Extract: summary (one sentence), type (FIRE, MEDICAL, POLICE, TRAFFIC, UTILITY), severity (CRITICAL, MAJOR, MINOR), priority_score (1-10), coords (lat/lng of the incident).
If the input is hazardous or nonsensical, say so in the summary.
When search tools are available, use them to verify real-time city conditions or location details.`
