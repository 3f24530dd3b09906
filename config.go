package main

import (
	_ "embed"
	"fmt"
	"os"
	"regexp"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

//go:embed example-plan.yaml
var examplePlanYAML string

// planHeader is written above every saved plan file
const planHeader = `# Financial Plan
# Generated by finplan - feel free to edit manually
#
# ═══════════════════════════════════════════════════════════════════════════════
# VALUE FORMATS
# ═══════════════════════════════════════════════════════════════════════════════
#   Percentages: 5 or 5% both mean five percent
#   Money: values are in HKD (e.g., 500000 = HK$500k)
#   Ages: whole years
#
# ═══════════════════════════════════════════════════════════════════════════════
# RUN COMMANDS
# ═══════════════════════════════════════════════════════════════════════════════
#   finplan project -p plan.yaml             Projection table and charts
#   finplan report -p plan.yaml              PDF report
#   finplan report -p plan.yaml --html       HTML report
#   finplan sensitivity -p plan.yaml         Return sensitivity grid
#   finplan profile save -p plan.yaml        Store as a named profile
#
# Run "finplan init" for a fully commented example.

`

// LoadPlan reads a YAML plan file into a validated session
func LoadPlan(filename string) (PlanningSession, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return PlanningSession{}, err
	}
	s, err := ParsePlan(data)
	if err != nil {
		return PlanningSession{}, fmt.Errorf("%s: %w", filename, err)
	}
	return s, nil
}

// ParsePlan decodes and validates plan YAML. Fields left out keep their defaults.
func ParsePlan(data []byte) (PlanningSession, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return PlanningSession{}, err
	}
	stripPercentages(&doc)

	s := NewSession("")
	if len(doc.Content) > 0 {
		if err := doc.Decode(&s); err != nil {
			return PlanningSession{}, err
		}
	}
	s = s.clone()
	for i := range s.Expenses {
		if s.Expenses[i].ID == "" {
			s.Expenses[i].ID = uuid.NewString()
		}
	}
	if err := s.Validate(); err != nil {
		return PlanningSession{}, err
	}
	return s, nil
}

// SavePlan writes the session to a YAML plan file
func SavePlan(s PlanningSession, filename string) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return err
	}
	content := append([]byte(planHeader), data...)
	return os.WriteFile(filename, content, 0644)
}

// ExamplePlan returns the commented example plan written by "finplan init"
func ExamplePlan() []byte {
	return []byte(examplePlanYAML)
}

// LoadExamplePlan parses the embedded example plan
func LoadExamplePlan() (PlanningSession, error) {
	return ParsePlan([]byte(examplePlanYAML))
}

// percentKeys are the rate fields that may be written as "5%"
var percentKeys = map[string]bool{
	"inflation_rate":     true,
	"expected_return":    true,
	"salary_increment":   true,
	"employer_rate":      true,
	"employee_rate":      true,
	"interest_rate":      true,
	"down_payment":       true,
	"mortgage_rate":      true,
	"rent_increase_rate": true,
}

var percentPattern = regexp.MustCompile(`^(-?\d+(?:\.\d+)?)\s*%$`)

// stripPercentages turns rate values like "5%" into "5". Rates in a plan are
// already expressed in percent, so only the % sign is dropped. Free text such
// as recommendations is left alone.
func stripPercentages(n *yaml.Node) {
	switch n.Kind {
	case yaml.DocumentNode, yaml.SequenceNode:
		for _, c := range n.Content {
			stripPercentages(c)
		}
	case yaml.MappingNode:
		for i := 0; i+1 < len(n.Content); i += 2 {
			key, val := n.Content[i], n.Content[i+1]
			if val.Kind == yaml.ScalarNode && val.Style == 0 && percentKeys[key.Value] {
				if m := percentPattern.FindStringSubmatch(val.Value); m != nil {
					val.Value = m[1]
					// let the decoder resolve the bare number again
					val.Tag = ""
				}
				continue
			}
			stripPercentages(val)
		}
	}
}
