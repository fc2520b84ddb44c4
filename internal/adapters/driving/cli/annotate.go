package cli

import (
	"bufio"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/charislam/metrick/internal/core/domain"
	"github.com/charislam/metrick/internal/core/ports/driving"
)

var annotateCmd = &cobra.Command{
	Use:   "annotate <session-id>",
	Short: "Score question-document pairs in a session",
	Long: `Walk the question-document pairs of a session and record relevancy
scores from 0 (irrelevant) to 3 (highly relevant).

Scores are held in memory until you save; save writes the whole
session atomically and discard drops everything back to the last
saved state.

Commands at the prompt:
  0-3      score the current pair
  n / p    next / previous pair
  s        save the session
  d        discard unsaved changes
  q        quit (warns about unsaved changes)`,
	Args: cobra.ExactArgs(1),
	RunE: runAnnotate,
}

func init() {
	rootCmd.AddCommand(annotateCmd)
}

func runAnnotate(cmd *cobra.Command, args []string) error {
	session, err := sessionService.Load(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	progress := session.Progress()
	cmd.Printf("Session %s: %d pairs, %d scored.\n\n", session.ID(), progress.Total, progress.Completed)

	reader := bufio.NewReader(os.Stdin)
	index := firstUnscored(session)
	for {
		pair, ok := session.CurrentPair(index)
		if !ok {
			cmd.Println("No pairs in this session.")
			return nil
		}
		printPair(cmd, pair, index, session.Progress())

		cmd.Print("score/command > ")
		input, err := reader.ReadString('\n')
		if err != nil {
			return annotateQuit(cmd, session)
		}

		switch strings.ToLower(strings.TrimSpace(input)) {
		case "n", "":
			if index < progress.Total-1 {
				index++
			}
		case "p":
			if index > 0 {
				index--
			}
		case "s":
			if err := session.Save(cmd.Context()); err != nil {
				cmd.Printf("Save failed: %v\nYour scores are still in memory; fix the problem and save again.\n", err)
				continue
			}
			p := session.Progress()
			cmd.Printf("Saved. %d/%d pairs scored.\n", p.Completed, p.Total)
		case "d":
			session.Discard()
			cmd.Println("Discarded unsaved changes.")
		case "q":
			return annotateQuit(cmd, session)
		case "0", "1", "2", "3":
			score, _ := strconv.Atoi(strings.TrimSpace(input))
			if err := session.UpdateAnnotation(pair.Question.ID, pair.Document.ID, domain.RelevancyScore(score)); err != nil {
				cmd.Printf("Cannot score: %v\n", err)
				continue
			}
			if index < progress.Total-1 {
				index++
			}
		default:
			cmd.Println("Enter a score 0-3, or n/p/s/d/q.")
		}
	}
}

// firstUnscored positions the cursor at the first pair without an
// annotation, or 0 when everything is scored.
func firstUnscored(session driving.AnnotationSession) int {
	for i, pair := range session.Pairs() {
		if pair.Annotation == nil {
			return i
		}
	}
	return 0
}

func printPair(cmd *cobra.Command, pair *domain.Pair, index int, progress domain.Progress) {
	cmd.Printf("\n[%d/%d] %s\n", index+1, progress.Total, pair.Question.Text)
	cmd.Printf("Document: %s [%s]\n", pair.Document.Title, pair.Document.ContentType)
	if pair.Annotation != nil {
		cmd.Printf("Current score: %d\n", pair.Annotation.RelevancyScore)
	} else {
		cmd.Println("Current score: (unscored)")
	}
}

func annotateQuit(cmd *cobra.Command, session driving.AnnotationSession) error {
	if session.HasUnsavedChanges() {
		cmd.Println("Warning: you have unsaved changes. They are lost when the process exits.")
	}
	sessionService.Unload()
	return nil
}
