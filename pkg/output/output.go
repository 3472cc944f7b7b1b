// Package output provides terminal output helpers for the CLI.
package output

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

const (
	ansiReset  = "\033[0m"
	ansiGreen  = "\033[32;1m"
	ansiRed    = "\033[31;1m"
	ansiCyan   = "\033[36m"
	ansiYellow = "\033[33m"
	ansiBold   = "\033[1m"
)

func Success(format string, a ...interface{}) {
	fmt.Printf(ansiGreen+"✓ "+format+ansiReset+"\n", a...)
}

func Error(format string, a ...interface{}) {
	fmt.Fprintf(os.Stderr, ansiRed+"✗ "+format+ansiReset+"\n", a...)
}

func Info(format string, a ...interface{}) {
	fmt.Printf(ansiCyan+format+ansiReset+"\n", a...)
}

func Warn(format string, a ...interface{}) {
	fmt.Printf(ansiYellow+"⚠ "+format+ansiReset+"\n", a...)
}

// JSON pretty-prints v to stdout.
func JSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Table renders rows with columns padded to the widest cell.
type Table struct {
	headers []string
	rows    [][]string
}

func NewTable(headers []string) *Table {
	return &Table{headers: headers}
}

func (t *Table) AddRow(row []string) {
	t.rows = append(t.rows, row)
}

func (t *Table) Render() {
	widths := make([]int, len(t.headers))
	for i, header := range t.headers {
		widths[i] = len(header)
	}
	for _, row := range t.rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	for i, header := range t.headers {
		fmt.Printf(ansiBold+"%-*s"+ansiReset+"  ", widths[i], header)
	}
	fmt.Println()

	for i := range t.headers {
		fmt.Print(strings.Repeat("-", widths[i]) + "  ")
	}
	fmt.Println()

	for _, row := range t.rows {
		for i, cell := range row {
			fmt.Printf("%-*s  ", widths[i], cell)
		}
		fmt.Println()
	}
}
