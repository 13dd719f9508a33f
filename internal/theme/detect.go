package theme

import (
	"bufio"
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/ini.v1"
)

// source is one terminal config that may carry a palette.
type source struct {
	name  string
	paths func(home string) []string
	parse func(path string) (Palette, bool)
}

// sources in priority order; the first one that yields a palette wins.
var sources = []source{
	{
		name: "omarchy",
		paths: func(home string) []string {
			return []string{filepath.Join(home, ".config", "omarchy", "current", "theme", "alacritty.toml")}
		},
		parse: parseAlacrittyTOML,
	},
	{
		name: "alacritty",
		paths: func(home string) []string {
			return []string{
				filepath.Join(home, ".config", "alacritty", "alacritty.toml"),
				filepath.Join(home, ".alacritty.toml"),
			}
		},
		parse: parseAlacrittyTOML,
	},
	{
		name: "kitty",
		paths: func(home string) []string {
			return []string{filepath.Join(home, ".config", "kitty", "kitty.conf")}
		},
		parse: parseKittyConf,
	},
	{
		name: "foot",
		paths: func(home string) []string {
			return []string{filepath.Join(home, ".config", "foot", "foot.ini")}
		},
		parse: parseFootINI,
	},
}

// Detect loads the palette from the first terminal config found under the
// home directory, then applies MEDIA_CLONE_* environment overrides.
func Detect() Palette {
	home, err := os.UserHomeDir()
	if err != nil {
		return applyEnvOverrides(DefaultPalette())
	}
	return detectIn(home)
}

func detectIn(home string) Palette {
	for _, src := range sources {
		for _, path := range src.paths(home) {
			if p, ok := src.parse(path); ok {
				return applyEnvOverrides(p)
			}
		}
	}
	return applyEnvOverrides(DefaultPalette())
}

// configDirs returns the directories holding theme configs, for watching.
func configDirs(home string) []string {
	seen := make(map[string]bool)
	var dirs []string
	for _, src := range sources {
		for _, path := range src.paths(home) {
			dir := filepath.Dir(path)
			if dir == home || seen[dir] {
				continue
			}
			seen[dir] = true
			dirs = append(dirs, dir)
		}
	}
	return dirs
}

// alacrittyColors is the part of alacritty.toml we read
type alacrittyColors struct {
	Colors struct {
		Primary struct {
			Background string `toml:"background"`
			Foreground string `toml:"foreground"`
		} `toml:"primary"`
		Selection struct {
			Background string `toml:"background"`
		} `toml:"selection"`
	} `toml:"colors"`
}

func parseAlacrittyTOML(path string) (Palette, bool) {
	var cfg alacrittyColors
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Palette{}, false
	}

	primary := cfg.Colors.Primary
	if primary.Background == "" || primary.Foreground == "" {
		return Palette{}, false
	}
	return derivePalette(primary.Background, primary.Foreground, cfg.Colors.Selection.Background), true
}

func parseKittyConf(path string) (Palette, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Palette{}, false
	}

	var bg, fg, sel string
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 2 || strings.HasPrefix(fields[0], "#") {
			continue
		}
		switch fields[0] {
		case "background":
			bg = fields[1]
		case "foreground":
			fg = fields[1]
		case "selection_background":
			sel = fields[1]
		}
	}

	if bg == "" && fg == "" {
		return Palette{}, false
	}
	def := DefaultPalette()
	if bg == "" {
		bg = def.BG
	}
	if fg == "" {
		fg = def.FG
	}
	return derivePalette(bg, fg, sel), true
}

func parseFootINI(path string) (Palette, bool) {
	cfg, err := ini.Load(path)
	if err != nil {
		return Palette{}, false
	}

	colors := cfg.Section("colors")
	bg := colors.Key("background").String()
	fg := colors.Key("foreground").String()
	if bg == "" || fg == "" {
		return Palette{}, false
	}
	return derivePalette(bg, fg, colors.Key("selection-background").String()), true
}

// derivePalette builds a palette from terminal colors, deriving the muted
// and selection colors when the terminal does not set them.
func derivePalette(bg, fg, selection string) Palette {
	p := DefaultPalette()
	p.BG = normalizeHex(bg)
	p.FG = normalizeHex(fg)
	p.Muted = dimColor(p.FG, 0.5)
	if selection != "" {
		p.AccentBg = normalizeHex(selection)
	} else {
		p.AccentBg = mixColors(p.BG, p.FG, 0.15)
	}
	return p
}

// applyEnvOverrides applies MEDIA_CLONE_* environment variables
func applyEnvOverrides(p Palette) Palette {
	overrides := []struct {
		env   string
		field *string
	}{
		{"MEDIA_CLONE_BG", &p.BG},
		{"MEDIA_CLONE_FG", &p.FG},
		{"MEDIA_CLONE_MUTED", &p.Muted},
		{"MEDIA_CLONE_ACCENT", &p.Accent},
	}
	for _, o := range overrides {
		if v := os.Getenv(o.env); v != "" {
			*o.field = normalizeHex(v)
		}
	}
	return p
}

var (
	hex6 = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)
	hex3 = regexp.MustCompile(`^#[0-9a-fA-F]{3}$`)
)

// normalizeHex ensures color is in #RRGGBB format.
// Accepts 0xRRGGBB, RRGGBB and #RGB; anything else is returned trimmed.
func normalizeHex(color string) string {
	color = strings.TrimSpace(color)
	if strings.HasPrefix(color, "0x") || strings.HasPrefix(color, "0X") {
		color = "#" + color[2:]
	}
	if !strings.HasPrefix(color, "#") {
		color = "#" + color
	}

	switch {
	case hex6.MatchString(color):
		return strings.ToLower(color)
	case hex3.MatchString(color):
		r, g, b := color[1:2], color[2:3], color[3:4]
		return strings.ToLower("#" + r + r + g + g + b + b)
	default:
		return color
	}
}

// rgb splits a normalized #rrggbb color.
func rgb(hex string) (r, g, b float64, ok bool) {
	if !hex6.MatchString(hex) {
		return 0, 0, 0, false
	}
	v, err := strconv.ParseUint(hex[1:], 16, 32)
	if err != nil {
		return 0, 0, 0, false
	}
	return float64(v >> 16 & 0xff), float64(v >> 8 & 0xff), float64(v & 0xff), true
}

func toHex(r, g, b float64) string {
	v := uint32(r)<<16 | uint32(g)<<8 | uint32(b)
	s := strconv.FormatUint(uint64(v), 16)
	return "#" + strings.Repeat("0", 6-len(s)) + s
}

// dimColor scales the brightness of a hex color by factor
func dimColor(hex string, factor float64) string {
	hex = normalizeHex(hex)
	r, g, b, ok := rgb(hex)
	if !ok {
		return hex
	}
	return toHex(r*factor, g*factor, b*factor)
}

// mixColors blends hex2 into hex1 by t (0 = hex1, 1 = hex2)
func mixColors(hex1, hex2 string, t float64) string {
	hex1, hex2 = normalizeHex(hex1), normalizeHex(hex2)
	r1, g1, b1, ok1 := rgb(hex1)
	r2, g2, b2, ok2 := rgb(hex2)
	if !ok1 || !ok2 {
		return hex1
	}
	return toHex(r1*(1-t)+r2*t, g1*(1-t)+g2*t, b1*(1-t)+b2*t)
}
