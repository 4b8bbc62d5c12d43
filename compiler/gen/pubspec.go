package gen

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/avnt-sistemas/fac/compiler/load"
)

// Packages required by the generated app, per concern.
var (
	basePackages     = []string{"provider", "get_it", "dio", "equatable", "shared_preferences", "intl", "flutter_svg", "google_fonts"}
	devPackages      = []string{"flutter_lints", "mockito", "bloc_test", "build_runner"}
	authPackages     = []string{"flutter_secure_storage"}
	firebaseAuth     = []string{"firebase_auth", "google_sign_in", "firebase_core", "cloud_firestore", "firebase_storage"}
	chartPackages    = []string{"fl_chart"}
	exportShare      = []string{"open_file"}
	exportByFormat   = map[string]string{"csv": "csv", "xlsx": "excel", "pdf": "pdf"}
	errPubspecFormat = errors.New("pubspec.yaml is not a mapping")
)

// pubspecSkeleton is the pubspec.yaml written when the app has none.
const pubspecSkeleton = `name: %s
description: %s
publish_to: 'none'
version: 1.0.0+1

environment:
  sdk: '>=3.0.0 <4.0.0'

dependencies:
  flutter:
    sdk: flutter

dev_dependencies:
  flutter_test:
    sdk: flutter
`

// Requirements are the pub packages of a generated app.
type Requirements struct {
	Dependencies    []string
	DevDependencies []string
}

// Requirements returns the sorted pub packages the app needs, given its
// storage, authentication, dashboard and export settings.
func (g *Graph) Requirements() *Requirements {
	deps := slices.Clone(basePackages)
	deps = append(deps, g.Storage.Packages...)
	if g.App.Auth.Enabled {
		deps = append(deps, authPackages...)
		if p := g.App.Auth.Provider; p == "" || p == load.ProviderFirebase {
			deps = append(deps, firebaseAuth...)
		}
	}
	if g.App.Dashboard.Enabled {
		deps = append(deps, chartPackages...)
	}
	formats := make(map[string]bool)
	for _, n := range g.Nodes {
		if e := n.Module.Export; e.Any() {
			formats["csv"] = formats["csv"] || e.CSV
			formats["xlsx"] = formats["xlsx"] || e.XLSX
			formats["pdf"] = formats["pdf"] || e.PDF
		}
	}
	for format, pkg := range exportByFormat {
		if formats[format] {
			deps = append(deps, pkg)
		}
	}
	if len(formats) > 0 {
		deps = append(deps, exportShare...)
	}
	slices.Sort(deps)
	return &Requirements{
		Dependencies:    slices.Compact(deps),
		DevDependencies: slices.Sorted(slices.Values(devPackages)),
	}
}

// UpdatePubspec adds the missing packages of r to the pubspec.yaml at path,
// creating it when absent. Existing entries, their versions and the comments
// of the document are kept. It returns the packages that were added.
func UpdatePubspec(path, app string, r *Requirements) ([]string, error) {
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		data = fmt.Appendf(nil, pubspecSkeleton, snake(app), app)
	case err != nil:
		return nil, err
	}
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse pubspec: %w", err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 || doc.Content[0].Kind != yaml.MappingNode {
		return nil, errPubspecFormat
	}
	root := doc.Content[0]
	var added []string
	for _, s := range []struct {
		key  string
		pkgs []string
	}{
		{"dependencies", r.Dependencies},
		{"dev_dependencies", r.DevDependencies},
	} {
		deps := section(root, s.key)
		for _, pkg := range s.pkgs {
			if lookup(deps, pkg) != nil {
				continue
			}
			deps.Content = append(deps.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Value: pkg},
				&yaml.Node{Kind: yaml.ScalarNode, Value: "any"},
			)
			added = append(added, pkg)
		}
	}
	if len(added) == 0 {
		return nil, nil
	}
	var out bytes.Buffer
	enc := yaml.NewEncoder(&out)
	enc.SetIndent(2)
	if err := enc.Encode(&doc); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return added, os.WriteFile(path, out.Bytes(), 0o644)
}

// lookup returns the value of key in the mapping node m, or nil.
func lookup(m *yaml.Node, key string) *yaml.Node {
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			return m.Content[i+1]
		}
	}
	return nil
}

// section returns the mapping of key in root. A missing or null section is
// replaced by an empty mapping.
func section(root *yaml.Node, key string) *yaml.Node {
	v := lookup(root, key)
	if v == nil {
		v = &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		root.Content = append(root.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: key}, v)
	}
	if v.Kind != yaml.MappingNode {
		*v = yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	}
	return v
}
