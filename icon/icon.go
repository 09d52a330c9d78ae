// Package icon renders status symbols in the variant the user picked with
// icons.variant: emoji, nerd font glyphs or plain ASCII.
package icon

import (
	"github.com/pf-cli/pf/key"
	"github.com/spf13/viper"
)

const (
	emoji = "emoji"
	nerd  = "nerd"
	plain = "plain"
)

// AvailableVariants lists valid values of icons.variant.
func AvailableVariants() []string {
	return []string{emoji, nerd, plain}
}

// Icon identifies a symbol.
type Icon int

const (
	Fail Icon = iota + 1
	Success
	Progress
	Link
	Search
	Mark
	Warn
)

type iconDef struct {
	emoji string
	nerd  string
	plain string
}

var icons = map[Icon]*iconDef{
	Fail:     {emoji: "💥", nerd: "", plain: "X"},
	Success:  {emoji: "🎉", nerd: "", plain: "OK"},
	Progress: {emoji: "⏳", nerd: "", plain: "..."},
	Link:     {emoji: "🎬", nerd: "", plain: ">"},
	Search:   {emoji: "🔍", nerd: "", plain: "?"},
	Mark:     {emoji: "📌", nerd: "", plain: "*"},
	Warn:     {emoji: "⚠️", nerd: "", plain: "!"},
}

func (d *iconDef) Get() string {
	switch viper.GetString(key.IconsVariant) {
	case emoji:
		return d.emoji
	case nerd:
		return d.nerd
	case plain:
		return d.plain
	default:
		return ""
	}
}

// Get returns the symbol for i in the configured variant. Unknown variants
// render as an empty string.
func Get(i Icon) string {
	d, ok := icons[i]
	if !ok {
		return ""
	}
	return d.Get()
}
