package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/termdeck/termdeck/internal/app"
)

var version = "dev"

func main() {
	app.Version = version

	if len(os.Args) > 1 && (os.Args[1] == "-v" || os.Args[1] == "--version") {
		fmt.Println("td", version)
		return
	}

	workDir, err := os.Getwd()
	if err != nil {
		workDir = os.Getenv("HOME")
	}
	if len(os.Args) > 1 {
		workDir = os.Args[1]
	}

	m := app.New(workDir)
	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	m.SetSend(p.Send)

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
