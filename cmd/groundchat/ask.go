package main

import (
	"errors"
	"fmt"
	"io"

	"groundchat/internal/capture"
	"groundchat/internal/domain"
	"groundchat/internal/exchange"
	"groundchat/internal/format"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var (
	imagePath string
	markdown  bool
)

var (
	answerStyle = lipgloss.NewStyle().
			Padding(0, 1).
			MarginBottom(1)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	sourcesHeaderStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("243")).
				Bold(true)

	sourceTitleStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("135"))

	sourceURIStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)
)

var (
	errNothingToAsk = errors.New("give a question, an --image, or both")
	// errAlreadyShown marks a failure renderResult has already printed.
	errAlreadyShown = errors.New("no answer")
)

// askCmd runs a single exchange without any stored history.
var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask one question from the terminal",
	Long: `Send one question, and optionally a photo, to the model and print the
answer with its web sources. No history is kept between invocations.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var text string
		if len(args) == 1 {
			text = args[0]
		}
		if text == "" && imagePath == "" {
			return errNothingToAsk
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		ctx := cmd.Context()

		var image *domain.Image
		if imagePath != "" {
			image, err = capture.Capture(ctx, capture.FileDevice{Path: imagePath})
			if err != nil {
				return fmt.Errorf("%s (%w)", capture.UserMessage(err), err)
			}
		}

		generator, err := exchange.NewGeminiGenerator(ctx, cfg.APIKey)
		if err != nil {
			return err
		}

		result := exchange.NewService(generator, cfg.Model).Exchange(ctx, nil, text, image)
		renderResult(cmd.OutOrStdout(), result, markdown)
		if result.Failed() {
			return fmt.Errorf("%w: %s", errAlreadyShown, result.Error)
		}
		return nil
	},
}

func init() {
	askCmd.Flags().StringVar(&imagePath, "image", "", "Path to a photo to attach")
	askCmd.Flags().BoolVar(&markdown, "markdown", false, "Render the answer as full markdown")
	rootCmd.AddCommand(askCmd)
}

// renderResult prints the answer, or the error line, followed by the sources.
func renderResult(w io.Writer, result exchange.Result, asMarkdown bool) {
	if result.Failed() {
		fmt.Fprintln(w, errorStyle.Render("Sorry, I couldn't get an answer: "+result.Error))
		return
	}

	if asMarkdown {
		fmt.Fprint(w, renderMarkdown(result.Text))
	} else {
		fmt.Fprintln(w, answerStyle.Render(format.Terminal(result.Text, format.DefaultStyles())))
	}

	if len(result.Sources) == 0 {
		return
	}
	fmt.Fprintln(w, sourcesHeaderStyle.Render("Sources"))
	for i, src := range result.Sources {
		fmt.Fprintf(w, "  %d. %s %s\n", i+1, sourceTitleStyle.Render(src.Title), sourceURIStyle.Render(src.URI))
	}
}

// renderMarkdown falls back to the plain text when glamour cannot render it.
func renderMarkdown(text string) string {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		return text + "\n"
	}
	out, err := r.Render(text)
	if err != nil {
		return text + "\n"
	}
	return out
}
