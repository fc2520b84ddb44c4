package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/charislam/metrick/internal/core/domain"
)

var (
	sessionSampleID  string
	sessionQuestions []string
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Manage annotation sessions",
	Long: `Create and list annotation sessions.

A session pairs a document sample with a set of questions. Every
question-document combination in the session is one pair awaiting a
relevancy judgement; use 'metrick annotate' to score them.`,
}

var sessionCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a new annotation session",
	Long: `Create a session over a sample. By default every accepted question
of the sample is included; use --questions to pick a subset.`,
	RunE: runSessionCreate,
}

var sessionListCmd = &cobra.Command{
	Use:   "list",
	Short: "List sessions with their progress",
	RunE:  runSessionList,
}

func init() {
	sessionCreateCmd.Flags().StringVarP(&sessionSampleID, "sample", "s", "", "sample id (required)")
	sessionCreateCmd.Flags().StringSliceVarP(&sessionQuestions, "questions", "q", nil, "question ids (default: all accepted questions of the sample)")
	_ = sessionCreateCmd.MarkFlagRequired("sample")

	sessionCmd.AddCommand(sessionCreateCmd)
	sessionCmd.AddCommand(sessionListCmd)
	rootCmd.AddCommand(sessionCmd)
}

func runSessionCreate(cmd *cobra.Command, _ []string) error {
	questionIDs := sessionQuestions
	if len(questionIDs) == 0 {
		questions, err := questionService.ListBySample(cmd.Context(), sessionSampleID)
		if err != nil {
			return err
		}
		for _, q := range questions {
			if q.Status == domain.QuestionStatusAccepted {
				questionIDs = append(questionIDs, q.ID)
			}
		}
		if len(questionIDs) == 0 {
			return errors.New("the sample has no accepted questions, generate or add some first")
		}
	}

	session, err := sessionService.Create(cmd.Context(), sessionSampleID, questionIDs)
	if err != nil {
		return err
	}

	cmd.Printf("Created session %s (%d questions)\n", session.ID, len(session.QuestionIDs))
	cmd.Printf("Run 'metrick annotate %s' to start scoring.\n", session.ID)
	return nil
}

func runSessionList(cmd *cobra.Command, _ []string) error {
	views, err := sessionService.List(cmd.Context())
	if err != nil {
		return err
	}
	if len(views) == 0 {
		cmd.Println("No sessions yet. Run 'metrick session create' to start one.")
		return nil
	}

	for _, view := range views {
		total := len(view.Questions) * len(view.DocumentSample.Documents)
		completed := 0
		for _, q := range view.Questions {
			for _, d := range view.DocumentSample.Documents {
				if view.Annotation(q.ID, d.ID) != nil {
					completed++
				}
			}
		}
		cmd.Printf("%s  sample=%-24s  %s\n",
			view.ID, view.DocumentSample.Name, formatProgress(completed, total))
	}
	return nil
}

func formatProgress(completed, total int) string {
	if total == 0 {
		return "0/0"
	}
	return fmt.Sprintf("%d/%d (%d%%)", completed, total, completed*100/total)
}
