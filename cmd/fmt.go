package cmd

import (
	"fmt"

	"github.com/charmbracelet/glamour"
)

// printMarkdown prints md rendered for the terminal, or raw with -markdown.
func printMarkdown(md string) {
	if cfg.Markdown {
		fmt.Print(md)
		return
	}
	out, err := glamour.Render(md, "auto")
	if err != nil {
		// the raw markdown is still readable.
		fmt.Print(md)
		return
	}
	fmt.Print(out)
}
