package crmodel

import (
	"encoding/json"
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"

	crerrors "github.com/mrz1836/configrepo/internal/errors"
)

// RunInstanceCount is the number of job instances, or "all".
// Plugins emit it either as a number or as a string; both decode to the same value.
// The empty value means a single instance.
type RunInstanceCount string

// IsSet reports whether a count was declared.
func (r RunInstanceCount) IsSet() bool {
	return r != ""
}

// String returns the raw token.
func (r RunInstanceCount) String() string {
	return string(r)
}

// UnmarshalJSON accepts a JSON number, string or null.
func (r *RunInstanceCount) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch v := raw.(type) {
	case nil:
		*r = ""
	case string:
		*r = RunInstanceCount(v)
	case float64:
		*r = RunInstanceCount(strconv.FormatFloat(v, 'f', -1, 64))
	default:
		return fmt.Errorf("%w: run_instance_count must be a number or a string", crerrors.ErrInvalidFieldValue)
	}
	return nil
}

// UnmarshalYAML accepts any scalar.
func (r *RunInstanceCount) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("%w: run_instance_count must be a scalar (line %d)", crerrors.ErrInvalidFieldValue, node.Line)
	}
	if node.Tag == "!!null" {
		*r = ""
		return nil
	}
	*r = RunInstanceCount(node.Value)
	return nil
}
