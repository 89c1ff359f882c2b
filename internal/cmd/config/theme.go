package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	appconfig "github.com/pipeboard/pipeboard/internal/config"
	"github.com/pipeboard/pipeboard/internal/deal"
	"github.com/pipeboard/pipeboard/internal/tui/styles"
)

var themeCmd = &cobra.Command{
	Use:   "theme",
	Short: "Manage board color themes",
	Long: `Manage color themes for the pipeline board.

Pick a built-in theme with 'pipeboard config set tui.theme <name>', or
export one as a starting point for a custom YAML theme file and point
tui.theme_file at it.`,
}

var themeListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the built-in themes",
	RunE:  runThemeList,
}

var themeExportCmd = &cobra.Command{
	Use:   "export <theme-name> [output-file]",
	Short: "Export a theme to YAML",
	Long: `Export a built-in theme to YAML for customization.

If no output file is specified, the YAML is printed to stdout.

Examples:
  pipeboard config theme export default
  pipeboard config theme export nord my-theme.yaml`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runThemeExport,
}

var themeInfoCmd = &cobra.Command{
	Use:   "info <theme-name|theme-file>",
	Short: "Show the colors of a theme",
	Args:  cobra.ExactArgs(1),
	RunE:  runThemeInfo,
}

func init() {
	themeCmd.AddCommand(themeListCmd)
	themeCmd.AddCommand(themeExportCmd)
	themeCmd.AddCommand(themeInfoCmd)
	configCmd.AddCommand(themeCmd)
}

func runThemeList(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	current := appconfig.Get().TUI
	for _, name := range styles.BuiltinThemes() {
		marker := "  "
		if current.ThemeFile == "" && name == current.Theme {
			marker = "* "
		}
		fmt.Fprintf(out, "%s%s\n", marker, name)
	}
	if current.ThemeFile != "" {
		fmt.Fprintf(out, "\nUsing theme file: %s\n", current.ThemeFile)
	}
	return nil
}

func runThemeExport(cmd *cobra.Command, args []string) error {
	name := args[0]
	if !styles.IsBuiltinTheme(name) {
		return fmt.Errorf("unknown theme: %s\nValid options: %s", name, strings.Join(styles.BuiltinThemes(), ", "))
	}

	data, err := styles.ExportTheme(styles.ThemeName(name))
	if err != nil {
		return fmt.Errorf("exporting theme: %w", err)
	}

	if len(args) > 1 {
		if err := os.WriteFile(args[1], data, 0o644); err != nil {
			return fmt.Errorf("writing to %s: %w", args[1], err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Theme exported to: %s\n", args[1])
		return nil
	}

	_, err = cmd.OutOrStdout().Write(data)
	return err
}

func runThemeInfo(cmd *cobra.Command, args []string) error {
	arg := args[0]
	var palette *styles.ColorPalette
	if styles.IsBuiltinTheme(arg) {
		palette = styles.GetPalette(styles.ThemeName(arg))
	} else {
		tf, err := styles.LoadThemeFile(arg)
		if err != nil {
			return err
		}
		if err := tf.Validate(); err != nil {
			return fmt.Errorf("theme file %s: %w", arg, err)
		}
		palette = tf.ToPalette()
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Theme: %s\n\n", arg)
	fmt.Fprintln(out, "Base colors:")
	fmt.Fprintf(out, "  Primary:   %s\n", palette.Primary)
	fmt.Fprintf(out, "  Secondary: %s\n", palette.Secondary)
	fmt.Fprintf(out, "  Warning:   %s\n", palette.Warning)
	fmt.Fprintf(out, "  Error:     %s\n", palette.Error)
	fmt.Fprintf(out, "  Muted:     %s\n", palette.Muted)
	fmt.Fprintf(out, "  Surface:   %s\n", palette.Surface)
	fmt.Fprintf(out, "  Text:      %s\n", palette.Text)
	fmt.Fprintf(out, "  Border:    %s\n", palette.Border)
	fmt.Fprintf(out, "  Highlight: %s\n", palette.Highlight)
	fmt.Fprintln(out, "\nStage colors:")
	for _, stage := range deal.Stages() {
		fmt.Fprintf(out, "  %-12s %s\n", string(stage)+":", palette.StageColor(stage))
	}
	return nil
}
