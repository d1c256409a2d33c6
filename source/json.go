package source

import (
	"fmt"
	"os"

	"github.com/tidwall/gjson"
)

// LoadJSON loads the records array found at the provided gjson path of the
// JSON file. An empty path selects the document root.
func LoadJSON(filepath string, arrayPath string) ([]gjson.Result, error) {
	readb, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("reading records from file with path '%s': %w", filepath, err)
	}

	return ParseJSON(readb, arrayPath)
}

// ParseJSON returns the records array found at the provided gjson path of the
// JSON document.
func ParseJSON(data []byte, arrayPath string) ([]gjson.Result, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("invalid json document")
	}

	doc := gjson.ParseBytes(data)
	if arrayPath != "" {
		doc = doc.Get(arrayPath)
	}

	if !doc.IsArray() {
		return nil, fmt.Errorf("no records array found at path '%s'", arrayPath)
	}

	return doc.Array(), nil
}
