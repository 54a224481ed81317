// Package catalog lists the choices offered when a workspace is created or
// upgraded: models, shells, languages, engines, art styles, asset
// providers and game-type templates.
package catalog

import (
	"fmt"
	"runtime"
	"slices"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"

	"github.com/skgd-labs/skgd/internal/prompt"
)

// Entry is a catalog item with a short description.
type Entry struct {
	Key         string
	Description string
}

// Models are the selectable default LLM models.
var Models = []Entry{
	{"opus", "Highest quality, recommended for creative and complex tasks"},
	{"sonnet", "Balanced quality and speed, good for most tasks"},
	{"haiku", "Fast and economical, good for simple tasks"},
}

// Shells are the supported shell flavours for helper scripts.
var Shells = []Entry{
	{"bash", "Linux/macOS"},
	{"powershell", "Windows"},
}

// Engines are the supported game engines.
var Engines = []Entry{
	{"unity", "Unity (Unity MCP)"},
	{"godot", "Godot (GDAI MCP)"},
}

// ArtStyles drive the asset provider recommendation.
var ArtStyles = []Entry{
	{"pixel-2d", "Pixel Art (2D retro style)"},
	{"stylized-2d", "Hand-drawn / Stylized (2D)"},
	{"realistic-3d", "Realistic (3D)"},
	{"stylized-3d", "Low-poly / Stylized (3D)"},
	{"mixed", "Mixed / Undecided"},
}

// GameTemplates are the game types the /init workflow command offers.
var GameTemplates = []Entry{
	{"platformer", "Movement, levels, precision jumping"},
	{"rpg", "Stats, combat, dialogue, progression"},
	{"puzzle", "Rules, solutions, difficulty curves"},
	{"shooter", "Weapons, enemies, action mechanics"},
	{"roguelike", "Procedural generation, permadeath, meta-progression"},
	{"simulation", "Systems, time management, emergence"},
	{"strategy", "Units, resources, tactical decisions"},
	{"action-adventure", "Exploration, combat, abilities"},
}

// Provider is an asset-creation MCP server.
type Provider struct {
	Key         string
	Name        string
	Description string
	Install     string
	// Detector is the local executable the provider drives, if any.
	Detector string
}

// Providers are the known asset MCPs.
var Providers = []Provider{
	{
		Key:         "blender",
		Name:        "Blender MCP",
		Description: "3D modeling, materials, animations",
		Install:     "claude mcp add blender-mcp -- uvx blender-mcp",
		Detector:    "blender",
	},
	{
		Key:         "pixellab",
		Name:        "PixelLab MCP",
		Description: "AI sprite generation, animations, tilesets",
		Install:     "claude mcp add pixellab -- npx pixellab-mcp",
	},
}

// Defaults used when a choice is not asked for.
const (
	DefaultModel            = "sonnet"
	DefaultInteractiveModel = "opus"
	DefaultEngine           = "unity"
	DefaultLanguage         = "en"
	DefaultArtStyle         = "mixed"
)

// DefaultShell picks the shell for the host platform.
func DefaultShell() string {
	if runtime.GOOS == "windows" {
		return "powershell"
	}
	return "bash"
}

// Keys returns the keys of entries in order.
func Keys(entries []Entry) []string {
	keys := make([]string, len(entries))
	for i, e := range entries {
		keys[i] = e.Key
	}
	return keys
}

// Has reports whether key is one of entries.
func Has(entries []Entry, key string) bool {
	return slices.Contains(Keys(entries), key)
}

// Options renders entries as "key - description" menu options.
func Options(entries []Entry) []prompt.Option {
	opts := make([]prompt.Option, len(entries))
	for i, e := range entries {
		opts[i] = prompt.Option{Value: e.Key, Label: fmt.Sprintf("%s - %s", e.Key, e.Description)}
	}
	return opts
}

// LanguageName returns the name of a language in that language, such as
// "Français" for "fr". Unknown codes are returned unchanged.
func LanguageName(code string) string {
	tag, err := language.Parse(code)
	if err != nil {
		return code
	}
	name := display.Self.Name(tag)
	if name == "" {
		return code
	}
	return cases.Title(tag).String(name)
}

// LanguageOptions renders the given language codes as menu options.
func LanguageOptions(codes []string) []prompt.Option {
	opts := make([]prompt.Option, len(codes))
	for i, c := range codes {
		opts[i] = prompt.Option{Value: c, Label: LanguageName(c)}
	}
	return opts
}

// ProviderByKey looks up a provider.
func ProviderByKey(key string) (Provider, bool) {
	i := slices.IndexFunc(Providers, func(p Provider) bool { return p.Key == key })
	if i < 0 {
		return Provider{}, false
	}
	return Providers[i], true
}

// RecommendProviders suggests asset providers for an art style. Blender is
// only suggested for 3D styles when it is installed locally.
func RecommendProviders(artStyle string, hasBlender bool) []string {
	var out []string
	switch artStyle {
	case "realistic-3d", "stylized-3d", "mixed":
		if hasBlender {
			out = append(out, "blender")
		}
	}
	switch artStyle {
	case "pixel-2d", "stylized-2d", "mixed":
		out = append(out, "pixellab")
	}
	return out
}
