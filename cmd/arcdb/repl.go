package main

import (
	"bufio"
	"fmt"
	"io"
	"net"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/arcdb/arc/internal/config"
)

func newReplCmd(cfg *config.Config) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Connect to a running arcdb server and issue statements interactively",
		RunE: func(cmd *cobra.Command, args []string) error {
			target := addr
			if target == "" {
				target = cfg.ListenAddr
			}
			return runRepl(target)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "server address to connect to (defaults to --listen)")
	return cmd
}

func runRepl(addr string) error {
	conn, err := net.Dial("tcp4", addr)
	if err != nil {
		return fmt.Errorf("connecting to %s: %w", addr, err)
	}
	defer conn.Close()

	reader := bufio.NewReader(conn)
	greeting, err := drainUntilPrompt(reader)
	if err != nil {
		return err
	}
	fmt.Print(greeting)

	rl, err := readline.New("")
	if err != nil {
		return err
	}
	defer rl.Close()

	var stmt strings.Builder
	for {
		rl.SetPrompt(promptFor(stmt))
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			continue
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		stmt.WriteString(line)
		stmt.WriteString(" ")
		if !strings.HasSuffix(strings.TrimSpace(line), ";") {
			continue
		}

		if _, err := conn.Write([]byte(stmt.String())); err != nil {
			return err
		}
		stmt.Reset()

		out, err := drainUntilPrompt(reader)
		if err != nil {
			return err
		}
		fmt.Print(out)
	}
}

func promptFor(stmt strings.Builder) string {
	if stmt.Len() == 0 {
		return "arcdb> "
	}
	return "   ...> "
}

// drainUntilPrompt reads bytes off r until the trailing "> " that
// terminates every server reply.
func drainUntilPrompt(r *bufio.Reader) (string, error) {
	var b strings.Builder
	for {
		c, err := r.ReadByte()
		if err != nil {
			return b.String(), err
		}
		b.WriteByte(c)
		if strings.HasSuffix(b.String(), "> ") {
			return b.String(), nil
		}
	}
}
