// Command devcon is the local console entrypoint: it spawns the user's
// shell inside a pty, drives it through the page/vte/screen pipeline,
// and renders the resulting grid onto the host terminal using the
// host's own escape sequences, the way cliofy-govte's capture_tui
// example renders a captured session, but live instead of after a
// fixed capture window.
package main

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/creack/pty"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/opendevcon/termcore/internal/config"
	"github.com/opendevcon/termcore/internal/logging"
	"github.com/opendevcon/termcore/page"
	"github.com/opendevcon/termcore/screen"
)

func main() {
	var configPath string
	var logLevel string

	root := &cobra.Command{
		Use:   "devcon",
		Short: "Run a local developer console backed by the in-kernel console core",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if logLevel != "" {
				cfg.LogLevel = logging.Level(logLevel)
			}
			return run(cfg)
		},
	}
	root.Flags().StringVar(&configPath, "config", "", "path to a YAML config file")
	root.Flags().StringVar(&logLevel, "log-level", "", "override the configured log level")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cfg config.Config) error {
	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	shell := os.Getenv("SHELL")
	if shell == "" {
		shell = "/bin/sh"
	}

	cols, rows := cfg.Cols, cfg.Rows
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		cols, rows = w, h
	}

	c := exec.Command(shell)
	c.Env = append(os.Environ(), "TERM=xterm-256color")

	ptmx, err := pty.StartWithSize(c, &pty.Winsize{Cols: uint16(cols), Rows: uint16(rows)})
	if err != nil {
		return fmt.Errorf("devcon: starting pty: %w", err)
	}
	defer ptmx.Close()

	stdinState, err := term.MakeRaw(int(os.Stdin.Fd()))
	if err != nil {
		logger.Warn("could not put host terminal into raw mode", zap.Error(err))
	} else {
		defer term.Restore(int(os.Stdin.Fd()), stdinState)
	}

	engine := screen.NewEngine(cols, rows, cfg.HistoryLines)
	engine.SetAnswerback(cfg.Answerback)

	resize := make(chan os.Signal, 1)
	signal.Notify(resize, syscall.SIGWINCH)
	go func() {
		for range resize {
			if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
				_ = pty.Setsize(ptmx, &pty.Winsize{Cols: uint16(w), Rows: uint16(h)})
			}
		}
	}()

	go io.Copy(ptmx, os.Stdin)

	render := func() {
		fmt.Fprint(os.Stdout, renderFrame(engine))
	}

	buf := make([]byte, 4096)
	lastRender := time.Now()
	for {
		n, err := ptmx.Read(buf)
		if n > 0 {
			engine.Write(buf[:n])
			if time.Since(lastRender) > 16*time.Millisecond {
				render()
				lastRender = time.Now()
			}
		}
		if err != nil {
			break
		}
	}
	render()

	return c.Wait()
}

// renderFrame draws the whole page from scratch using the host
// terminal's own clear-and-home sequence, the "faithful external
// stand-in for the spec's framebuffer blit" SPEC_FULL calls for.
func renderFrame(e *screen.Engine) string {
	p := e.Page()
	var b strings.Builder
	b.WriteString("\x1b[2J\x1b[H")
	for y := 0; y < p.Height(); y++ {
		for x := 0; x < p.Width(); x++ {
			cell := p.GetCell(x, y)
			runes, _ := page.Resolve(cell.Ch)
			if len(runes) == 0 || runes[0] == 0 {
				b.WriteByte(' ')
				continue
			}
			b.WriteRune(runes[0])
		}
		if y != p.Height()-1 {
			b.WriteString("\r\n")
		}
	}
	cur := e.Cursor()
	fmt.Fprintf(&b, "\x1b[%d;%dH", cur.Y+1, cur.X+1)
	return b.String()
}
