package analyzer

import (
	"strings"

	"github.com/mcncl/jsonreform/jsonvalue"
)

// Separator joins object keys into a lookup path.
const Separator = "."

// Reasons reported for members that cannot be reached by a path lookup.
const (
	ReasonDottedKey = "key contains the path separator"
	ReasonNullValue = "null values are treated as missing"
)

// PathInfo describes one path that a lookup resolves.
type PathInfo struct {
	Path string
	Kind jsonvalue.Kind
	// Type refines Kind: numbers are "integer" or "float", everything else
	// uses the kind name.
	Type  string
	Depth int
}

// SkippedKey is an object member that no lookup path can reach.
type SkippedKey struct {
	// Parent is the path of the enclosing object, empty at the root.
	Parent string
	Key    string
	Reason string
}

// AnalysisResult lists the reachable paths in document order.
type AnalysisResult struct {
	Paths   []PathInfo
	Skipped []SkippedKey
}

// Analyzer walks a value and collects every path a dot-separated lookup can
// resolve.
type Analyzer struct {
	result AnalysisResult
}

// NewAnalyzer creates a new Analyzer instance.
func NewAnalyzer() *Analyzer {
	return &Analyzer{}
}

// Analyze walks root. Only objects are descended; arrays and scalars are
// leaves. A non-object root has no resolvable paths.
func (a *Analyzer) Analyze(root jsonvalue.Value) AnalysisResult {
	a.result = AnalysisResult{
		Paths:   make([]PathInfo, 0),
		Skipped: make([]SkippedKey, 0),
	}
	if obj, ok := root.AsObject(); ok {
		a.analyzeObject(obj, "", 1)
	}
	return a.result
}

func (a *Analyzer) analyzeObject(obj *jsonvalue.Object, parent string, depth int) {
	obj.Range(func(key string, value jsonvalue.Value) bool {
		if strings.Contains(key, Separator) {
			a.result.Skipped = append(a.result.Skipped, SkippedKey{Parent: parent, Key: key, Reason: ReasonDottedKey})
			return true
		}
		if value.IsNull() {
			a.result.Skipped = append(a.result.Skipped, SkippedKey{Parent: parent, Key: key, Reason: ReasonNullValue})
			return true
		}

		path := key
		if depth > 1 {
			path = parent + Separator + key
		}
		a.result.Paths = append(a.result.Paths, PathInfo{
			Path:  path,
			Kind:  value.Kind(),
			Type:  typeName(value),
			Depth: depth,
		})

		if child, ok := value.AsObject(); ok {
			a.analyzeObject(child, path, depth+1)
		}
		return true
	})
}

func typeName(v jsonvalue.Value) string {
	num, ok := v.AsNumber()
	if !ok {
		return v.Kind().String()
	}
	// Try to parse as integer first
	if _, err := num.Int64(); err == nil {
		return "integer"
	}
	return "float"
}
