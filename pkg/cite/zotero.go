// zotero.go handles Zotero item URIs and the CSL citation payload embedded
// in document citation fields.
package cite

import (
	"encoding/json"
	"fmt"
	"strings"
)

// cslSchema identifies the citation payload schema.
const cslSchema = "https://github.com/citation-style-language/schema/raw/master/csl-citation.json"

// FieldPrefix opens the instruction text of a citation field.
const FieldPrefix = "ADDIN ZOTERO_ITEM CSL_CITATION "

// CitationItem is one cited item in a CSL payload. ID is a number for
// reference-manager items and a synthetic string for embedded items.
type CitationItem struct {
	ID       any            `json:"id"`
	URIs     []string       `json:"uris,omitempty"`
	ItemData map[string]any `json:"itemData,omitempty"`
	Locator  string         `json:"locator,omitempty"`
}

// CitationProperties carries the rendered display text.
type CitationProperties struct {
	PlainCitation string `json:"plainCitation"`
}

// CitationPayload is the structured citation stored in a field's
// instruction text.
type CitationPayload struct {
	CitationID    string             `json:"citationID"`
	Properties    CitationProperties `json:"properties"`
	CitationItems []CitationItem     `json:"citationItems"`
	Schema        string             `json:"schema"`
}

// MarshalField renders the payload as field instruction text.
func (p CitationPayload) MarshalField() (string, error) {
	p.Schema = cslSchema
	data, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("marshaling citation payload: %w", err)
	}
	return FieldPrefix + string(data), nil
}

// ParseField extracts a payload from field instruction text. ok is false
// when the instruction is not a citation field.
func ParseField(instruction string) (CitationPayload, bool) {
	instruction = strings.TrimSpace(instruction)
	idx := strings.Index(instruction, "CSL_CITATION ")
	if idx < 0 {
		return CitationPayload{}, false
	}
	var payload CitationPayload
	if err := json.Unmarshal([]byte(instruction[idx+len("CSL_CITATION "):]), &payload); err != nil {
		return CitationPayload{}, false
	}
	return payload, true
}

// EmbeddedURI builds the synthetic URI used for items with no reference
// manager linkage.
func EmbeddedURI(key string) string {
	return "http://zotero.org/embedded/" + key
}

// ItemKeyFromURI extracts the item key from the three recognized Zotero URI
// shapes:
//
//	http://zotero.org/users/<id>/items/<KEY>
//	http://zotero.org/groups/<id>/items/<KEY>
//	http://zotero.org/users/local/<name>/items/<KEY>
//
// It also accepts the synthetic embedded shape. Returns "" for anything else.
func ItemKeyFromURI(uri string) string {
	uri = strings.TrimPrefix(uri, "https://")
	uri = strings.TrimPrefix(uri, "http://")
	if !strings.HasPrefix(uri, "zotero.org/") {
		return ""
	}
	parts := strings.Split(strings.TrimPrefix(uri, "zotero.org/"), "/")

	switch {
	case len(parts) == 2 && parts[0] == "embedded":
		return parts[1]
	case len(parts) == 4 && (parts[0] == "users" || parts[0] == "groups") && parts[2] == "items":
		return parts[3]
	case len(parts) == 5 && parts[0] == "users" && parts[1] == "local" && parts[3] == "items":
		return parts[4]
	}
	return ""
}
