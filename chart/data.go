package chart

import (
	"errors"
	"fmt"
	"io"

	yaml "gopkg.in/yaml.v3"
)

// Point is a single value. In data files it is either a bare number or a
// mapping with "value" key, other keys are ignored.
type Point float64

func (p *Point) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var v float64
		if err := node.Decode(&v); err != nil {
			return fmt.Errorf("line %d: %w", node.Line, err)
		}
		*p = Point(v)
	case yaml.MappingNode:
		var v struct {
			Value *float64 `yaml:"value"`
		}
		if err := node.Decode(&v); err != nil {
			return fmt.Errorf("line %d: %w", node.Line, err)
		}
		if v.Value == nil {
			return fmt.Errorf("line %d: data point has no value", node.Line)
		}
		*p = Point(*v.Value)
	default:
		return fmt.Errorf("line %d: data point must be a number or a mapping", node.Line)
	}
	return nil
}

// LoadSeries reads YAML (or JSON) data: either a list of points or a list of
// lists of points.
func LoadSeries(r io.Reader) ([][]Point, error) {
	var root yaml.Node
	if err := yaml.NewDecoder(r).Decode(&root); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrNoData
		}
		return nil, fmt.Errorf("unable to decode chart data: %w", err)
	}
	if root.Kind == yaml.DocumentNode && len(root.Content) > 0 {
		root = *root.Content[0]
	}
	if root.Kind != yaml.SequenceNode {
		return nil, fmt.Errorf("line %d: chart data must be a list", root.Line)
	}
	if len(root.Content) == 0 {
		return nil, ErrNoData
	}

	if root.Content[0].Kind == yaml.SequenceNode {
		var series [][]Point
		if err := root.Decode(&series); err != nil {
			return nil, fmt.Errorf("unable to decode chart series: %w", err)
		}
		return series, nil
	}

	var single []Point
	if err := root.Decode(&single); err != nil {
		return nil, fmt.Errorf("unable to decode chart series: %w", err)
	}
	return [][]Point{single}, nil
}
