// Package document reads JSON documents through flattened, dotted keys.
package document

import (
	"encoding/json"
	"fmt"
)

// Document is a flattened view of a JSON object. If the JSON document is
//
//	{ "compiler": { "name": "tact", "version": "1.5.3" } }
//
// the map has keys "compiler.name" and "compiler.version".
type Document map[string]interface{}

// Parse flattens the JSON object in data.
func Parse(data []byte) (Document, error) {
	var nested map[string]interface{}
	if err := json.Unmarshal(data, &nested); err != nil {
		return nil, err
	}
	flattened := make(Document)
	flattened.recursivelyFlatten(nested, "")
	return flattened, nil
}

func (doc Document) recursivelyFlatten(nested map[string]interface{}, prefix string) {
	var longKey string
	for key, value := range nested {
		if prefix != "" {
			longKey = fmt.Sprintf("%s.%s", prefix, key)
		} else {
			longKey = key
		}
		if inner, ok := value.(map[string]interface{}); ok {
			doc.recursivelyFlatten(inner, longKey)
		} else {
			doc[longKey] = value
		}
	}
}

// GetString returns the string at path. The second result is false if the
// path is missing or holds another type.
func (doc Document) GetString(path string) (string, bool) {
	iv, present := doc[path]
	if !present {
		return "", false
	}
	v, typeMatches := iv.(string)
	return v, typeMatches
}
