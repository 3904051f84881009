package assemble

import (
	"fmt"
	"strconv"
	"strings"

	"booklet/internal/config"
)

// Color is an RGB colour with components in [0,1].
type Color struct {
	R, G, B float64
}

// Hex renders the colour as #rrggbb.
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", channel(c.R), channel(c.G), channel(c.B))
}

func channel(v float64) int {
	switch {
	case v <= 0:
		return 0
	case v >= 1:
		return 255
	default:
		return int(v*255 + 0.5)
	}
}

// ParseColor parses a #rrggbb hex colour.
func ParseColor(value string) (Color, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(value), "#")
	if len(hex) != 6 {
		return Color{}, fmt.Errorf("colour %q: expected #rrggbb", value)
	}
	n, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("colour %q: %w", value, err)
	}
	return Color{
		R: float64((n>>16)&0xff) / 255,
		G: float64((n>>8)&0xff) / 255,
		B: float64(n&0xff) / 255,
	}, nil
}

// Role styles one annotation. X and Y are fractions of the page size.
type Role struct {
	Font   string
	Color  Color
	X      float64
	Y      float64
	Size   float64
	Prefix string
}

// Style holds the fonts and per-role layout used when stamping pages.
type Style struct {
	Fonts   FontSet
	Tempo   Role
	Cue     Role
	Patch   Role
	EndNote Role
}

// DefaultStyle returns the stock layout.
func DefaultStyle() Style {
	style, err := StyleFromConfig(config.DefaultAnnotations())
	if err != nil {
		panic(err)
	}
	return style
}

// StyleFromConfig converts the [annotations] section into a Style.
func StyleFromConfig(a config.Annotations) (Style, error) {
	fonts := FontSet{Regular: a.Fonts.Regular, Italic: a.Fonts.Italic, Sans: a.Fonts.Sans}
	style := Style{Fonts: fonts}
	roles := []struct {
		name string
		src  config.Annotation
		dst  *Role
	}{
		{"tempo", a.Tempo, &style.Tempo},
		{"cue", a.Cue, &style.Cue},
		{"patch", a.Patch, &style.Patch},
		{"end_note", a.EndNote, &style.EndNote},
	}
	for _, r := range roles {
		role, err := roleFromConfig(fonts, r.src)
		if err != nil {
			return Style{}, fmt.Errorf("annotations.%s: %w", r.name, err)
		}
		*r.dst = role
	}
	return style, nil
}

func roleFromConfig(fonts FontSet, a config.Annotation) (Role, error) {
	color, err := ParseColor(a.Color)
	if err != nil {
		return Role{}, err
	}
	font, err := fonts.lookup(a.Font)
	if err != nil {
		return Role{}, err
	}
	return Role{
		Font:   font,
		Color:  color,
		X:      a.X,
		Y:      a.Y,
		Size:   a.Size,
		Prefix: a.Prefix,
	}, nil
}

func (f FontSet) lookup(role string) (string, error) {
	switch role {
	case config.FontRegular:
		return f.Regular, nil
	case config.FontItalic:
		return f.Italic, nil
	case config.FontSans:
		return f.Sans, nil
	default:
		return "", fmt.Errorf("unknown font role %q", role)
	}
}

// options places text for this role on a page of the given size.
func (r Role) options(width, height float64) TextOptions {
	return TextOptions{
		X:     r.X * width,
		Y:     r.Y * height,
		Size:  r.Size,
		Font:  r.Font,
		Color: r.Color,
	}
}
