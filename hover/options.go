package hover

import (
	"fmt"
	"slices"
	"strings"
)

// DefaultAncestorDepth bounds the search for an enclosing hover query.
const DefaultAncestorDepth = 10

// MediaFeature selects the media feature used in generated queries.
type MediaFeature int

const (
	MediaFeatureAnyHover MediaFeature = iota // (any-hover: hover)
	MediaFeatureHover                        // (hover: hover)
)

var mediaFeatureNames = [...]string{
	MediaFeatureAnyHover: "any-hover",
	MediaFeatureHover:    "hover",
}

func (f MediaFeature) String() string {
	if f.IsValid() {
		return mediaFeatureNames[f]
	}
	return fmt.Sprintf("MediaFeature(%d)", int(f))
}

func (f MediaFeature) IsValid() bool {
	return f >= 0 && int(f) < len(mediaFeatureNames)
}

// Query returns media query params for the feature, e.g. "(any-hover: hover)".
func (f MediaFeature) Query() string {
	return "(" + f.String() + ": hover)"
}

// MediaFeatureNames returns names accepted by ParseMediaFeature.
func MediaFeatureNames() []string {
	return slices.Clone(mediaFeatureNames[:])
}

// ParseMediaFeature converts a feature name to MediaFeature.
func ParseMediaFeature(name string) (MediaFeature, error) {
	for i, n := range mediaFeatureNames {
		if strings.EqualFold(n, strings.TrimSpace(name)) {
			return MediaFeature(i), nil
		}
	}
	return MediaFeatureAnyHover, fmt.Errorf("%q is not a valid MediaFeature, try [%s]", name, strings.Join(mediaFeatureNames[:], ", "))
}

// MarshalText implements the text marshaller method.
func (f MediaFeature) MarshalText() ([]byte, error) {
	if !f.IsValid() {
		return nil, fmt.Errorf("%d is not a valid MediaFeature", int(f))
	}
	return []byte(f.String()), nil
}

// UnmarshalText implements the text unmarshaller method.
func (f *MediaFeature) UnmarshalText(text []byte) error {
	v, err := ParseMediaFeature(string(text))
	if err != nil {
		return err
	}
	*f = v
	return nil
}

// Options controls the rewrite. The zero value is the default configuration.
type Options struct {
	// MediaFeature used in generated queries.
	MediaFeature MediaFeature
	// TransformNestedMedia makes rules already inside a hover query eligible
	// for wrapping.
	TransformNestedMedia bool
	// ExcludeSelectors keeps matching selectors in place even when they
	// contain :hover.
	ExcludeSelectors []Matcher
	// MaxAncestorDepth limits how many ancestors are inspected when looking
	// for an enclosing hover query, DefaultAncestorDepth when zero or less.
	MaxAncestorDepth int
}
