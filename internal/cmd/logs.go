package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/charmbracelet/lipgloss"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/pipeboard/pipeboard/internal/logging"
)

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "View board logs",
	Long: `View and filter the board's log file.

Examples:
  # Show the last 50 lines
  pipeboard logs

  # Follow the log while the board runs in another terminal
  pipeboard logs -f

  # Only warnings and errors from the drag controller
  pipeboard logs --level warn --component drag

  # Everything about one deal in the last hour
  pipeboard logs --deal 3f2a... --since 1h`,
	RunE: runLogs,
}

var (
	logsTail      int
	logsFollow    bool
	logsLevel     string
	logsSince     string
	logsGrep      string
	logsComponent string
	logsDeal      string
)

func init() {
	rootCmd.AddCommand(logsCmd)

	logsCmd.Flags().IntVarP(&logsTail, "tail", "n", 50, "Number of lines to show (0 for all)")
	logsCmd.Flags().BoolVarP(&logsFollow, "follow", "f", false, "Follow log output (like tail -f)")
	logsCmd.Flags().StringVar(&logsLevel, "level", "", "Filter by minimum level (debug/info/warn/error)")
	logsCmd.Flags().StringVar(&logsSince, "since", "", "Show logs since duration ago (e.g., 1h, 30m)")
	logsCmd.Flags().StringVar(&logsGrep, "grep", "", "Filter logs matching pattern (regex)")
	logsCmd.Flags().StringVar(&logsComponent, "component", "", "Only show one component (drag, board, poller, viewstate, ...)")
	logsCmd.Flags().StringVar(&logsDeal, "deal", "", "Only show entries about one deal")
}

// logEntry is one parsed JSON log line.
type logEntry struct {
	Time      time.Time      `json:"time"`
	Level     string         `json:"level"`
	Msg       string         `json:"msg"`
	Component string         `json:"component,omitempty"`
	DealID    string         `json:"deal_id,omitempty"`
	Extra     map[string]any `json:"-"`
}

// UnmarshalJSON keeps unknown attributes in Extra.
func (e *logEntry) UnmarshalJSON(data []byte) error {
	type alias logEntry
	if err := sonic.Unmarshal(data, (*alias)(e)); err != nil {
		return err
	}

	var all map[string]any
	if err := sonic.Unmarshal(data, &all); err != nil {
		return err
	}
	for _, known := range []string{"time", "level", "msg", "component", "deal_id"} {
		delete(all, known)
	}
	if len(all) > 0 {
		e.Extra = all
	}
	return nil
}

var (
	logTimeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	logAttrStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	logLevelStyle = map[string]lipgloss.Style{
		logging.LevelDebug: lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		logging.LevelInfo:  lipgloss.NewStyle().Foreground(lipgloss.Color("4")),
		logging.LevelWarn:  lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		logging.LevelError: lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
	}
)

// levelPriority orders levels for filtering; unknown levels are -1.
func levelPriority(level string) int {
	switch strings.ToUpper(level) {
	case logging.LevelDebug:
		return 0
	case logging.LevelInfo:
		return 1
	case logging.LevelWarn:
		return 2
	case logging.LevelError:
		return 3
	default:
		return -1
	}
}

// logFilter selects entries for display.
type logFilter struct {
	minLevel  int
	since     time.Time
	grep      *regexp.Regexp
	component string
	dealID    string
}

func (f logFilter) matches(e *logEntry, raw string) bool {
	if f.minLevel >= 0 && levelPriority(e.Level) < f.minLevel {
		return false
	}
	if !f.since.IsZero() && e.Time.Before(f.since) {
		return false
	}
	if f.component != "" && e.Component != f.component {
		return false
	}
	if f.dealID != "" && e.DealID != f.dealID && !strings.Contains(raw, f.dealID) {
		return false
	}
	if f.grep != nil && !f.grep.MatchString(raw) {
		return false
	}
	return true
}

// formatLogEntry renders an entry on one line with extra attributes sorted
// by key.
func formatLogEntry(e *logEntry) string {
	var sb strings.Builder
	sb.WriteString(logTimeStyle.Render("[" + e.Time.Format("15:04:05.000") + "]"))
	sb.WriteString(" ")
	level := strings.ToUpper(e.Level)
	style, ok := logLevelStyle[level]
	if !ok {
		style = lipgloss.NewStyle()
	}
	sb.WriteString(style.Render("[" + level + "]"))
	if e.Component != "" {
		sb.WriteString(" " + logAttrStyle.Render(e.Component+":"))
	}
	sb.WriteString(" " + e.Msg)
	if e.DealID != "" {
		sb.WriteString(" " + logAttrStyle.Render("deal_id=") + e.DealID)
	}

	keys := make([]string, 0, len(e.Extra))
	for k := range e.Extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		sb.WriteString(" " + logAttrStyle.Render(k+"=") + fmt.Sprintf("%v", e.Extra[k]))
	}
	return sb.String()
}

// formatLine parses and filters one raw line. Lines that are not JSON are
// passed through unfiltered.
func formatLine(line string, f logFilter) (string, bool) {
	if line == "" {
		return "", false
	}
	var e logEntry
	if err := sonic.Unmarshal([]byte(line), &e); err != nil {
		return line, true
	}
	if !f.matches(&e, line) {
		return "", false
	}
	return formatLogEntry(&e), true
}

func buildLogFilter() (logFilter, error) {
	f := logFilter{minLevel: -1, component: logsComponent, dealID: logsDeal}
	if logsLevel != "" {
		f.minLevel = levelPriority(logsLevel)
		if f.minLevel < 0 {
			return f, fmt.Errorf("invalid level %q: must be one of %s", logsLevel, strings.Join(logging.ValidLevels(), ", "))
		}
	}
	if logsSince != "" {
		d, err := time.ParseDuration(logsSince)
		if err != nil {
			return f, fmt.Errorf("invalid duration format: %w", err)
		}
		f.since = time.Now().Add(-d)
	}
	if logsGrep != "" {
		re, err := regexp.Compile(logsGrep)
		if err != nil {
			return f, fmt.Errorf("invalid grep pattern: %w", err)
		}
		f.grep = re
	}
	return f, nil
}

func runLogs(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	filter, err := buildLogFilter()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	logPath := filepath.Join(cfg.Logging.ResolveDir(), logging.LogFileName)
	if _, err := os.Stat(logPath); os.IsNotExist(err) && !logsFollow {
		fmt.Fprintf(out, "No logs found at %s\n", logPath)
		return nil
	}

	if logsFollow {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		return followLogs(ctx, out, logPath, filter)
	}

	f, err := os.Open(logPath)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer f.Close()
	return displayLogs(out, f, logsTail, filter)
}

// displayLogs prints the last tail matching entries of r.
func displayLogs(w io.Writer, r io.Reader, tail int, f logFilter) error {
	var entries []string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		if line, ok := formatLine(scanner.Text(), f); ok {
			entries = append(entries, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading log file: %w", err)
	}

	if tail > 0 && len(entries) > tail {
		entries = entries[len(entries)-tail:]
	}
	for _, e := range entries {
		fmt.Fprintln(w, e)
	}
	if len(entries) == 0 {
		fmt.Fprintln(w, "No matching log entries found.")
	}
	return nil
}

// followLogs prints new entries as they are appended, reopening the file
// when the rotating writer replaces it.
func followLogs(ctx context.Context, w io.Writer, logPath string, f logFilter) error {
	if err := os.MkdirAll(filepath.Dir(logPath), 0755); err != nil {
		return fmt.Errorf("create log directory: %w", err)
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()
	if err := watcher.Add(filepath.Dir(logPath)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(logPath), err)
	}

	var (
		file   *os.File
		reader *bufio.Reader
	)
	open := func(seekEnd bool) {
		if file != nil {
			_ = file.Close()
			file, reader = nil, nil
		}
		fh, err := os.Open(logPath)
		if err != nil {
			return
		}
		if seekEnd {
			_, _ = fh.Seek(0, io.SeekEnd)
		}
		file, reader = fh, bufio.NewReader(fh)
	}
	drain := func() {
		if reader == nil {
			return
		}
		for {
			line, err := reader.ReadString('\n')
			if err != nil {
				// Partial line: wait for the rest.
				if len(line) > 0 {
					_, _ = file.Seek(-int64(len(line)), io.SeekCurrent)
					reader.Reset(file)
				}
				return
			}
			if out, ok := formatLine(strings.TrimRight(line, "\r\n"), f); ok {
				fmt.Fprintln(w, out)
			}
		}
	}

	open(true)
	defer func() {
		if file != nil {
			_ = file.Close()
		}
	}()
	fmt.Fprintf(w, "Following %s (Ctrl+C to stop)\n", logPath)

	target := filepath.Clean(logPath)
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename) || ev.Has(fsnotify.Remove) {
				// Rotated: read the new file from the start.
				open(false)
			}
			drain()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watching log file: %w", err)
		}
	}
}
