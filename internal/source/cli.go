package source

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// CLIQuerier delegates fetching to an external command, the transport the
// first dashboard shipped with. The command is invoked once per source as
//
//	sh -c "<command> <name> <select> <order> <limit>"
//
// and must print one tab-separated row per line, fields already in spec
// order (TSV escaping per DecodeTSVLine). A non-zero exit marks the source
// failed.
type CLIQuerier struct {
	command string
}

// NewCLI creates a subprocess-backed querier.
func NewCLI(command string) *CLIQuerier {
	return &CLIQuerier{command: command}
}

// Query runs the configured command for one source.
func (q *CLIQuerier) Query(ctx context.Context, spec Spec) ([]Row, error) {
	sel := spec.Select
	if sel == "" {
		sel = "*"
	}

	script := strings.Join([]string{
		q.command,
		shellQuote(spec.Name),
		shellQuote(sel),
		shellQuote(spec.Order),
		strconv.Itoa(spec.Limit),
	}, " ")

	cmd := exec.CommandContext(ctx, "sh", "-c", script)

	var stdout, stderr bytes.Buffer

	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		detail := strings.TrimSpace(stderr.String())
		if detail == "" {
			detail = err.Error()
		}

		return nil, fmt.Errorf("%w: source %s: %s", ErrServerError, spec.Name, detail)
	}

	var rows []Row

	for _, line := range strings.Split(stdout.String(), "\n") {
		line = strings.TrimSuffix(line, "\r")
		if line == "" {
			continue
		}

		rows = append(rows, DecodeTSVLine(line))
	}

	return rows, nil
}

func shellQuote(value string) string {
	return "'" + strings.ReplaceAll(value, "'", `'"'"'`) + "'"
}
