// Package atomic creates Atomic Design component folders and stub files.
package atomic

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"text/template"

	sprig "github.com/go-task/slim-sprig/v3"
	"github.com/gosimple/slug"
	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"uxkit/common"
)

//go:embed templates/*.tmpl
var templatesFS embed.FS

// Templates overrides embedded stub templates, empty fields keep defaults.
// Templates are text/template sources with sprig functions available.
type Templates struct {
	Component string
	Index     string
	Readme    string
}

// Values are available to stub templates.
type Values struct {
	Name    string // PascalCase component name
	Kebab   string // kebab-case file and class name
	Level   string
	Folder  string // level folder, "atoms" etc.
	Purpose string
}

// Result lists what was created. Files are set for components, Dirs for
// structure.
type Result struct {
	Path  string   `json:"path" yaml:"path"`
	Files []string `json:"files,omitempty" yaml:"files,omitempty"`
	Dirs  []string `json:"dirs,omitempty" yaml:"dirs,omitempty"`
}

var purposes = map[common.ComponentLevel]string{
	common.ComponentLevelAtom:     "Single UI element; use design tokens for colors/spacing.",
	common.ComponentLevelMolecule: "Combination of atoms; keep to one responsibility.",
	common.ComponentLevelOrganism: "Section of UI combining molecules and/or atoms.",
}

var (
	wordStartPattern  = regexp.MustCompile(`(?:^|-|\s)(\w)`)
	camelPattern      = regexp.MustCompile(`([a-z])([A-Z])`)
	identifierPattern = regexp.MustCompile(`^[A-Za-z_$][\w$]*$`)
	upper             = cases.Upper(language.Und)
)

// ParseLevel accepts level name in any case.
func ParseLevel(s string) (common.ComponentLevel, error) {
	l, err := common.ParseComponentLevel(s)
	if err != nil {
		return l, fmt.Errorf("level must be one of: %s", strings.Join(common.ComponentLevelNames(), ", "))
	}
	return l, nil
}

// PascalCase upper-cases first character and characters following "-" or
// whitespace, dropping separators.
func PascalCase(s string) string {
	return wordStartPattern.ReplaceAllStringFunc(s, func(m string) string {
		sub := wordStartPattern.FindStringSubmatch(m)
		return upper.String(sub[1])
	})
}

// KebabCase separates lower-upper case transitions with "-", lower-cases the
// result and reduces it to characters safe in file names.
func KebabCase(s string) string {
	return slug.Make(strings.ToLower(camelPattern.ReplaceAllString(s, "$1-$2")))
}

// Scaffolder writes stubs under base directory.
type Scaffolder struct {
	base      string
	component *template.Template
	index     *template.Template
	readme    *template.Template
	log       *zap.Logger
}

func New(base string, tmpls Templates, log *zap.Logger) (*Scaffolder, error) {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Scaffolder{base: base, log: log.Named("atomic")}

	var err error
	if s.component, err = prepareTemplate("component", tmpls.Component, "templates/component.jsx.tmpl"); err != nil {
		return nil, err
	}
	if s.index, err = prepareTemplate("index", tmpls.Index, "templates/index.js.tmpl"); err != nil {
		return nil, err
	}
	if s.readme, err = prepareTemplate("readme", tmpls.Readme, "templates/README.md.tmpl"); err != nil {
		return nil, err
	}
	return s, nil
}

func prepareTemplate(name, source, fallback string) (*template.Template, error) {
	if len(source) == 0 {
		data, err := templatesFS.ReadFile(fallback)
		if err != nil {
			return nil, err
		}
		source = string(data)
	}
	tmpl, err := template.New(name).Funcs(sprig.FuncMap()).Parse(source)
	if err != nil {
		return nil, fmt.Errorf("unable to parse %s template: %w", name, err)
	}
	return tmpl, nil
}

func expand(tmpl *template.Template, v Values) ([]byte, error) {
	buf := new(bytes.Buffer)
	if err := tmpl.Execute(buf, v); err != nil {
		return nil, fmt.Errorf("unable to expand %s template: %w", tmpl.Name(), err)
	}
	return buf.Bytes(), nil
}

// Component creates <base>/<level>s/<kebab-name>/ with component stub and
// index module. Existing files are overwritten.
func (s *Scaffolder) Component(name string, level common.ComponentLevel) (Result, error) {
	purpose, ok := purposes[level]
	if !ok {
		return Result{}, fmt.Errorf("level must be one of: %s", strings.Join(common.ComponentLevelNames(), ", "))
	}

	v := Values{
		Name:    PascalCase(strings.Join(strings.Fields(name), " ")),
		Level:   level.String(),
		Folder:  level.Folder(),
		Purpose: purpose,
	}
	if !identifierPattern.MatchString(v.Name) {
		return Result{}, fmt.Errorf("component name %q does not produce valid identifier (%q)", name, v.Name)
	}
	v.Kebab = KebabCase(v.Name)
	if len(v.Kebab) == 0 {
		return Result{}, errors.New("component name produces empty file name")
	}

	folder := filepath.Join(s.base, v.Folder, v.Kebab)
	if err := os.MkdirAll(folder, 0755); err != nil {
		return Result{}, fmt.Errorf("unable to create component folder: %w", err)
	}

	res := Result{Path: folder}
	for _, f := range []struct {
		tmpl *template.Template
		name string
	}{
		{s.component, v.Kebab + ".jsx"},
		{s.index, "index.js"},
	} {
		data, err := expand(f.tmpl, v)
		if err != nil {
			return Result{}, err
		}
		fname := filepath.Join(folder, f.name)
		if err := os.WriteFile(fname, data, 0644); err != nil {
			return Result{}, fmt.Errorf("unable to write '%s': %w", fname, err)
		}
		res.Files = append(res.Files, fname)
	}

	s.log.Debug("Component created", zap.String("name", v.Name), zap.String("level", v.Level), zap.String("path", folder))
	return res, nil
}

// Structure creates atoms, molecules and organisms folders under base, each
// with README unless one already exists.
func (s *Scaffolder) Structure() (Result, error) {
	res := Result{Path: s.base}
	for _, level := range []common.ComponentLevel{common.ComponentLevelAtom, common.ComponentLevelMolecule, common.ComponentLevelOrganism} {
		dir := filepath.Join(s.base, level.Folder())
		if err := os.MkdirAll(dir, 0755); err != nil {
			return Result{}, fmt.Errorf("unable to create '%s': %w", dir, err)
		}
		res.Dirs = append(res.Dirs, dir)

		readme := filepath.Join(dir, "README.md")
		if _, err := os.Stat(readme); err == nil {
			s.log.Debug("Keeping existing readme", zap.String("file", readme))
			continue
		} else if !errors.Is(err, os.ErrNotExist) {
			return Result{}, fmt.Errorf("unable to check '%s': %w", readme, err)
		}
		data, err := expand(s.readme, Values{Level: level.String(), Folder: level.Folder()})
		if err != nil {
			return Result{}, err
		}
		if err := os.WriteFile(readme, data, 0644); err != nil {
			return Result{}, fmt.Errorf("unable to write '%s': %w", readme, err)
		}
	}
	return res, nil
}
