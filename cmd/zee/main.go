// Command zee is the terminal entry point: it resolves the config
// directory, loads config.ron, opens any files named on the command line,
// and runs the editor's cooperative main loop until quit.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gdamore/tcell/v2"
	flags "github.com/jessevdk/go-flags"
	"github.com/limetext/log4go"

	"github.com/zee-editor/zee/internal/config"
	"github.com/zee-editor/zee/internal/editor"
	"github.com/zee-editor/zee/internal/grammar"
	"github.com/zee-editor/zee/internal/input"
	"github.com/zee-editor/zee/internal/tui"
)

// exit codes per spec.md §6.
const (
	exitOK          = 0
	exitInitError   = 1
	exitConfigParse = 2
)

type options struct {
	Init  bool `long:"init" description:"write a default config.ron to the config directory and exit"`
	Build bool `long:"build" description:"resolve every mode's configured grammar and exit"`
	Args  struct {
		Files []string `positional-arg-name:"FILES"`
	} `positional-args:"yes"`
}

func main() {
	var opts options
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(exitOK)
		}
		os.Exit(exitInitError)
	}

	configDir, err := resolveConfigDir()
	if err != nil {
		fmt.Fprintln(os.Stderr, "zee: could not resolve config directory:", err)
		os.Exit(exitInitError)
	}

	if opts.Init {
		if err := writeDefaultConfig(configDir); err != nil {
			fmt.Fprintln(os.Stderr, "zee: --init failed:", err)
			os.Exit(exitInitError)
		}
		return
	}

	if opts.Build {
		os.Exit(buildGrammars(configDir))
	}

	term, err := tui.NewTcellTerminal()
	if err != nil {
		fmt.Fprintln(os.Stderr, "zee: could not initialize terminal:", err)
		os.Exit(exitInitError)
	}

	ed, err := editor.New(configDir, term)
	if err != nil {
		term.Close()
		code := exitInitError
		if _, isConfigErr := err.(*editor.ConfigParseError); isConfigErr {
			code = exitConfigParse
		}
		fmt.Fprintln(os.Stderr, "zee:", err)
		os.Exit(code)
	}
	defer ed.Close()

	if os.Getenv("ZEE_DISABLE_GRAMMAR_BUILD") == "" {
		warmGrammars(ed)
	}

	if len(opts.Args.Files) > 0 {
		if err := ed.OpenFilesAtStartup(opts.Args.Files); err != nil {
			log4go.Error("zee: opening startup files: %s", err)
		}
	}

	runLoop(ed, term)
}

// warmGrammars resolves every configured mode's grammar before the main
// loop starts, so the first file opened in that mode doesn't pay a cold
// compile on its initial parse. Run once, synchronously, before any worker
// touches the registry; ZEE_DISABLE_GRAMMAR_BUILD skips it for faster
// startup at the cost of that first-parse latency.
func warmGrammars(ed *editor.Editor) {
	for _, m := range ed.Config.Modes {
		if m.Grammar == nil || m.Grammar.ID == "" {
			continue
		}
		if _, err := ed.Grammars.Get(m.Grammar.ID).Language(); err != nil {
			log4go.Error("zee: grammar %q failed to load: %s", m.Grammar.ID, err)
		}
	}
}

// runLoop drains resolved key presses and pumps scheduler results at a
// steady tick until the editor requests quit. It draws nothing: no frame
// is rendered to term.
func runLoop(ed *editor.Editor, term tui.Terminal) {
	keys := pollKeys(term)
	ticker := time.NewTicker(16 * time.Millisecond)
	defer ticker.Stop()

	for !ed.Quit {
		select {
		case kp, ok := <-keys:
			if !ok {
				return
			}
			ed.HandleKey(kp)
		case <-ticker.C:
			ed.PumpResults()
		}
	}
}

// pollKeys runs tcell's blocking PollEvent loop on its own goroutine and
// forwards only resolved key presses, so the main loop can select against
// it alongside the result-pump ticker without blocking on either.
func pollKeys(term tui.Terminal) <-chan input.KeyPress {
	out := make(chan input.KeyPress)
	go func() {
		defer close(out)
		for {
			ev := term.PollEvent()
			if ev == nil {
				return
			}
			keyEv, ok := ev.(*tcell.EventKey)
			if !ok {
				continue // resize/mouse/etc. are dropped
			}
			kp, err := input.FromTcellEvent(keyEv)
			if err != nil {
				continue
			}
			out <- kp
		}
	}()
	return out
}

func resolveConfigDir() (string, error) {
	if dir := os.Getenv("ZEE_CONFIG_DIR"); dir != "" {
		return dir, nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "zee"), nil
}

func writeDefaultConfig(configDir string) error {
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return err
	}
	path := filepath.Join(configDir, "config.ron")
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	}
	return os.WriteFile(path, []byte(defaultConfigRON), 0644)
}

// buildGrammars forces resolution of every grammar id named by a
// configured mode, reporting (but not aborting on) per-grammar failures,
// per spec.md §6's ZEE_DISABLE_GRAMMAR_BUILD counterpart run on demand.
func buildGrammars(configDir string) int {
	cfg, err := loadConfigForBuild(configDir)
	if err != nil {
		fmt.Fprintln(os.Stderr, "zee: --build:", err)
		return exitConfigParse
	}

	grammars := grammar.NewRegistry(filepath.Join(configDir, "grammars"))
	failed := false
	for _, m := range cfg.Modes {
		if m.Grammar == nil || m.Grammar.ID == "" {
			continue
		}
		g := grammars.Get(m.Grammar.ID)
		if _, err := g.Language(); err != nil {
			fmt.Fprintf(os.Stderr, "zee: grammar %q failed to load: %s\n", m.Grammar.ID, err)
			failed = true
			continue
		}
		fmt.Printf("zee: grammar %q OK\n", m.Grammar.ID)
	}
	if failed {
		return exitInitError
	}
	return exitOK
}

func loadConfigForBuild(configDir string) (config.Config, error) {
	path := filepath.Join(configDir, "config.ron")
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return config.Config{}, nil
	}
	return config.Load(path)
}

const defaultConfigRON = `(
    theme_index: 0,
    modes: [],
)
`
