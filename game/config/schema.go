package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"github.com/wricardo/mcp-training/toyrobot/game/engine"
)

const scenarioSchemaURL = "scenario.schema.json"

// scenarioSchema describes the on-disk scenario document. Coordinates are
// unconstrained: an off-grid placement is a legal scenario the robot ignores.
const scenarioSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["name", "placement", "commands"],
  "additionalProperties": false,
  "properties": {
    "name": {"type": "string", "minLength": 1},
    "description": {"type": "string"},
    "placement": {
      "type": "object",
      "required": ["x", "y", "facing"],
      "additionalProperties": false,
      "properties": {
        "x": {"type": "integer"},
        "y": {"type": "integer"},
        "facing": {"type": "string", "pattern": "^(?i)\\s*(north|east|south|west)\\s*$"}
      }
    },
    "commands": {"type": "array", "items": {"type": "string"}},
    "expect_report": {"type": "string", "pattern": "^-?\\d+,-?\\d+,(NORTH|EAST|SOUTH|WEST)$"}
  }
}`

var compiledSchema = mustCompileSchema()

func mustCompileSchema() *jsonschema.Schema {
	c := jsonschema.NewCompiler()
	if err := c.AddResource(scenarioSchemaURL, strings.NewReader(scenarioSchema)); err != nil {
		panic(fmt.Sprintf("scenario schema: %v", err))
	}
	return c.MustCompile(scenarioSchemaURL)
}

// DecodeScenario parses a YAML or JSON scenario document, checks it against
// the scenario schema and then against the engine's own rules
func DecodeScenario(data []byte, format string) (*engine.Scenario, error) {
	var doc any
	switch format {
	case "json":
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("%w: parse json: %v", ErrInvalidScenario, err)
		}
	default:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("%w: parse yaml: %v", ErrInvalidScenario, err)
		}
	}

	// Round-trip through JSON so the validator sees JSON-native types
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidScenario, err)
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var normalized any
	if err := dec.Decode(&normalized); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidScenario, err)
	}
	if err := compiledSchema.Validate(normalized); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidScenario, err)
	}

	var scenario engine.Scenario
	if err := json.Unmarshal(raw, &scenario); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidScenario, err)
	}
	if err := engine.ValidateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidScenario, err)
	}
	return &scenario, nil
}
