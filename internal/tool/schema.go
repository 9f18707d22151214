package tool

import (
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

// requestSchema constrains model-generated requests before they are trusted:
// patch text is mandatory, the root must be a string and unknown keys are
// rejected outright.
const requestSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["patch"],
  "additionalProperties": false,
  "properties": {
    "patch": {
      "type": "string",
      "minLength": 1
    },
    "root": {
      "type": "string"
    },
    "dryRun": {
      "type": "boolean"
    }
  }
}`

var (
	requestSchemaLoader     gojsonschema.JSONLoader
	requestSchemaLoaderOnce sync.Once
)

type schemaValidationError struct {
	issues []string
}

func (e schemaValidationError) Error() string {
	if len(e.issues) == 0 {
		return "apply_patch: request failed schema validation"
	}
	return "apply_patch: invalid request: " + strings.Join(e.issues, "; ")
}

func validateRequestSchema(raw string) error {
	requestSchemaLoaderOnce.Do(func() {
		requestSchemaLoader = gojsonschema.NewStringLoader(requestSchema)
	})

	result, err := gojsonschema.Validate(requestSchemaLoader, gojsonschema.NewStringLoader(raw))
	if err != nil {
		return fmt.Errorf("apply_patch: request is not valid JSON: %v", err)
	}
	if result.Valid() {
		return nil
	}

	issues := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		issues = append(issues, desc.String())
	}
	return schemaValidationError{issues: issues}
}
