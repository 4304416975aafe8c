// Package common keeps enumerations shared between configuration, analyzers
// and command line so neither has to import the other.
package common

import (
	"fmt"
	"strings"
)

// Report output format.
// ENUM(markdown, json, yaml)
type ReportFormat int

const (
	ReportFormatMarkdown ReportFormat = iota
	ReportFormatJson
	ReportFormatYaml
)

var reportFormatNames = []string{"markdown", "json", "yaml"}

// Stylesheet parser used by the analyzer.
// ENUM(pattern, tokenizer)
type ParserMode int

const (
	ParserModePattern ParserMode = iota
	ParserModeTokenizer
)

var parserModeNames = []string{"pattern", "tokenizer"}

// Atomic Design level of a scaffolded component.
// ENUM(atom, molecule, organism)
type ComponentLevel int

const (
	ComponentLevelAtom ComponentLevel = iota
	ComponentLevelMolecule
	ComponentLevelOrganism
)

var componentLevelNames = []string{"atom", "molecule", "organism"}

// Folder returns directory name holding components of this level.
func (l ComponentLevel) Folder() string {
	return l.String() + "s"
}

// Kind of chart to produce.
// ENUM(line, multiples)
type ChartKind int

const (
	ChartKindLine ChartKind = iota
	ChartKindMultiples
)

var chartKindNames = []string{"line", "multiples"}

func name(names []string, v int) string {
	if v >= 0 && v < len(names) {
		return names[v]
	}
	return fmt.Sprintf("%d", v)
}

func parse[T ~int](names []string, kind, s string) (T, error) {
	for i, n := range names {
		if strings.EqualFold(n, strings.TrimSpace(s)) {
			return T(i), nil
		}
	}
	return T(0), fmt.Errorf("%q is not a valid %s, try [%s]", s, kind, strings.Join(names, ", "))
}

func (x ReportFormat) String() string   { return name(reportFormatNames, int(x)) }
func (x ParserMode) String() string     { return name(parserModeNames, int(x)) }
func (x ComponentLevel) String() string { return name(componentLevelNames, int(x)) }
func (x ChartKind) String() string      { return name(chartKindNames, int(x)) }

func ReportFormatNames() []string   { return append([]string(nil), reportFormatNames...) }
func ParserModeNames() []string     { return append([]string(nil), parserModeNames...) }
func ComponentLevelNames() []string { return append([]string(nil), componentLevelNames...) }
func ChartKindNames() []string      { return append([]string(nil), chartKindNames...) }

func ParseReportFormat(s string) (ReportFormat, error) {
	return parse[ReportFormat](reportFormatNames, "ReportFormat", s)
}

func ParseParserMode(s string) (ParserMode, error) {
	return parse[ParserMode](parserModeNames, "ParserMode", s)
}

func ParseComponentLevel(s string) (ComponentLevel, error) {
	return parse[ComponentLevel](componentLevelNames, "ComponentLevel", s)
}

func ParseChartKind(s string) (ChartKind, error) {
	return parse[ChartKind](chartKindNames, "ChartKind", s)
}

// Text marshaling lets the enums be used directly in YAML configuration.

func (x ReportFormat) MarshalText() ([]byte, error) { return []byte(x.String()), nil }
func (x *ReportFormat) UnmarshalText(text []byte) (err error) {
	*x, err = ParseReportFormat(string(text))
	return
}

func (x ParserMode) MarshalText() ([]byte, error) { return []byte(x.String()), nil }
func (x *ParserMode) UnmarshalText(text []byte) (err error) {
	*x, err = ParseParserMode(string(text))
	return
}

func (x ComponentLevel) MarshalText() ([]byte, error) { return []byte(x.String()), nil }
func (x *ComponentLevel) UnmarshalText(text []byte) (err error) {
	*x, err = ParseComponentLevel(string(text))
	return
}

func (x ChartKind) MarshalText() ([]byte, error) { return []byte(x.String()), nil }
func (x *ChartKind) UnmarshalText(text []byte) (err error) {
	*x, err = ParseChartKind(string(text))
	return
}
