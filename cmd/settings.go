package cmd

import (
	"fmt"
	"strings"

	"github.com/iksnae/studio-session/internal"
	"github.com/spf13/cobra"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show and edit the brand profile and content preferences",
	Long: `Settings survive session resets and version upgrades. They are cleared
only by 'settings reset' or 'session reset --settings'.`,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the brand profile and content preferences",
	Args:  cobra.NoArgs,
	RunE: withWorkspace(func(cmd *cobra.Command, args []string, ws *workspace) error {
		out := cmd.OutOrStdout()
		brand := ws.ctrl.Brand()

		_, _ = fmt.Fprintln(out, sectionStyle.Render("Brand profile"))
		for _, f := range brandFields(&brand) {
			printField(out, f.name, orNone(*f.value))
		}
		_, _ = fmt.Fprintln(out)
		_, _ = fmt.Fprintln(out, sectionStyle.Render("Content preferences"))
		printField(out, "tags", orNone(strings.Join(ws.ctrl.Preferences(), ", ")))
		return nil
	}),
}

var settingsBrandCmd = &cobra.Command{
	Use:   "brand <field>=<value>...",
	Short: "Set brand profile fields (archetype, tone, audience, values, phrases, style)",
	Args:  cobra.MinimumNArgs(1),
	RunE: withWorkspace(func(cmd *cobra.Command, args []string, ws *workspace) error {
		brand := ws.ctrl.Brand()
		fields := brandFields(&brand)

		for _, arg := range args {
			key, value, ok := strings.Cut(arg, "=")
			if !ok {
				return fmt.Errorf("expected field=value, got %q", arg)
			}
			target := findBrandField(fields, strings.ToLower(strings.TrimSpace(key)))
			if target == nil {
				return fmt.Errorf("unknown brand field %q", key)
			}
			*target = strings.TrimSpace(value)
		}

		ws.ctrl.SetBrand(brand)
		printSuccess(cmd.OutOrStdout(), "Brand profile updated")
		return nil
	}),
}

var settingsPrefsCmd = &cobra.Command{
	Use:   "prefs <tag>...",
	Short: "Replace the content preference tags",
	Args:  cobra.ArbitraryArgs,
	RunE: withWorkspace(func(cmd *cobra.Command, args []string, ws *workspace) error {
		ws.ctrl.SetPreferences(args)
		printSuccess(cmd.OutOrStdout(), "Preferences: %s", orNone(strings.Join(ws.ctrl.Preferences(), ", ")))
		return nil
	}),
}

var settingsResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Clear the brand profile and content preferences",
	Args:  cobra.NoArgs,
	RunE: withWorkspace(func(cmd *cobra.Command, args []string, ws *workspace) error {
		ws.ctrl.ResetSettings()
		printSuccess(cmd.OutOrStdout(), "Settings reset")
		return nil
	}),
}

type brandField struct {
	name  string
	value *string
}

func brandFields(b *internal.BrandProfile) []brandField {
	return []brandField{
		{"archetype", &b.Archetype},
		{"tone", &b.Tone},
		{"audience", &b.Audience},
		{"values", &b.Values},
		{"phrases", &b.Phrases},
		{"style", &b.Style},
	}
}

func findBrandField(fields []brandField, name string) *string {
	for _, f := range fields {
		if f.name == name {
			return f.value
		}
	}
	return nil
}

func orNone(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func init() {
	rootCmd.AddCommand(settingsCmd)
	settingsCmd.AddCommand(settingsShowCmd, settingsBrandCmd, settingsPrefsCmd, settingsResetCmd)
}
