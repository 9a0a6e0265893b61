// Package scene loads simulation scenes from INI files and builds their
// bodies into a solver.
package scene

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/gcfg.v1"

	"github.com/Faultbox/midgard-softbody/pkg/math"
)

var (
	// ErrUnknownShape is returned for a body whose shape has no factory.
	ErrUnknownShape = errors.New("unknown shape")
	// ErrInvalidBody is returned for out-of-range body parameters.
	ErrInvalidBody = errors.New("invalid body")
)

// Vector is a whitespace separated triple such as "0 9 0". A single value
// is repeated on all axes.
type Vector struct {
	math.Vec3
	Set bool
}

// UnmarshalText implements encoding.TextUnmarshaler for gcfg.
func (v *Vector) UnmarshalText(text []byte) error {
	fields := strings.Fields(string(text))
	if len(fields) != 1 && len(fields) != 3 {
		return fmt.Errorf("vector %q: want 1 or 3 components, got %d", text, len(fields))
	}

	var c [3]float32
	for i, f := range fields {
		x, err := strconv.ParseFloat(f, 32)
		if err != nil {
			return fmt.Errorf("vector %q: %w", text, err)
		}
		c[i] = float32(x)
	}
	if len(fields) == 1 {
		c[1], c[2] = c[0], c[0]
	}
	v.Vec3 = math.FromArray(c)
	v.Set = true
	return nil
}

// Or returns v when it was set, def otherwise.
func (v Vector) Or(def math.Vec3) math.Vec3 {
	if v.Set {
		return v.Vec3
	}
	return def
}

// Body describes one [body "name"] section. Zero values select the shape's
// defaults.
type Body struct {
	Shape    string
	Position Vector
	Rotation Vector // Euler degrees, applied about X, then Y, then Z
	Scale    Vector
	Mass     float64

	Resolution        int
	StretchCompliance float64 `gcfg:"stretch-compliance"`
	BendCompliance    float64 `gcfg:"bend-compliance"`
	Bending           string
	Pressure          float64
	Pin               string
	CollisionLevel    int  `gcfg:"collision-level"`
	Disabled          bool
}

// Camera is the optional [camera] section used by the viewer.
type Camera struct {
	Target   Vector
	Distance float64
	Yaw      float64
	Pitch    float64
}

// File is a parsed scene description.
type File struct {
	Scene struct {
		Name    string
		Gravity bool
		Wind    bool
	}
	Camera Camera
	Body   map[string]*Body
}

// Load reads a scene file.
func Load(path string) (*File, error) {
	f := newFile()
	if err := gcfg.ReadFileInto(f, path); err != nil {
		return nil, fmt.Errorf("read scene %s: %w", path, err)
	}
	return f, f.validate()
}

// Parse reads a scene from its INI text.
func Parse(text string) (*File, error) {
	f := newFile()
	if err := gcfg.ReadStringInto(f, text); err != nil {
		return nil, fmt.Errorf("parse scene: %w", err)
	}
	return f, f.validate()
}

func newFile() *File {
	f := &File{}
	f.Scene.Gravity = true
	return f
}

// BodyNames returns the body section names in build order.
func (f *File) BodyNames() []string {
	names := make([]string, 0, len(f.Body))
	for name := range f.Body {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (f *File) validate() error {
	for _, name := range f.BodyNames() {
		b := f.Body[name]
		if _, ok := factories[Shape(b.Shape)]; !ok {
			return fmt.Errorf("body %q: %w %q", name, ErrUnknownShape, b.Shape)
		}
		if b.Mass < 0 {
			return fmt.Errorf("body %q: %w: negative mass %g", name, ErrInvalidBody, b.Mass)
		}
		if b.Resolution < 0 {
			return fmt.Errorf("body %q: %w: negative resolution %d", name, ErrInvalidBody, b.Resolution)
		}
		switch b.Pin {
		case "", PinNone, PinCorners:
		default:
			return fmt.Errorf("body %q: %w: pin %q", name, ErrInvalidBody, b.Pin)
		}
		switch b.Bending {
		case "", BendingFast, BendingDihedral:
		default:
			return fmt.Errorf("body %q: %w: bending %q", name, ErrInvalidBody, b.Bending)
		}
	}
	return nil
}
