package cli

import (
	"bufio"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/charislam/metrick/internal/core/domain"
)

var (
	questionSampleID      string
	questionType          string
	answerableCount       int
	nonAnswerableCount    int
	questionAcceptAllFlag bool
)

var questionCmd = &cobra.Command{
	Use:   "question",
	Short: "Generate and curate annotation questions",
	Long: `Generate candidate questions for a sample, author your own, and
curate the results. Rejected questions are kept for audit, never
deleted.`,
}

var questionGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate candidate questions for a sample",
	Long: `Generate candidate questions from a sample's documents and review
them one by one. Only accepted questions are saved; a generation
failure never touches previously saved questions.`,
	RunE: runQuestionGenerate,
}

var questionAddCmd = &cobra.Command{
	Use:   "add <text>",
	Short: "Add a manually authored question",
	Args:  cobra.ExactArgs(1),
	RunE:  runQuestionAdd,
}

var questionListCmd = &cobra.Command{
	Use:   "list",
	Short: "List questions",
	RunE:  runQuestionList,
}

var questionAcceptCmd = &cobra.Command{
	Use:   "accept <question-id>",
	Short: "Accept a question",
	Args:  cobra.ExactArgs(1),
	RunE:  makeStatusCmd(domain.QuestionStatusAccepted),
}

var questionRejectCmd = &cobra.Command{
	Use:   "reject <question-id>",
	Short: "Reject a question",
	Args:  cobra.ExactArgs(1),
	RunE:  makeStatusCmd(domain.QuestionStatusRejected),
}

func init() {
	questionGenerateCmd.Flags().StringVarP(&questionSampleID, "sample", "s", "", "sample id (required)")
	questionGenerateCmd.Flags().IntVar(&answerableCount, "answerable", 5, "number of answerable questions")
	questionGenerateCmd.Flags().IntVar(&nonAnswerableCount, "non-answerable", 2, "number of non-answerable questions")
	questionGenerateCmd.Flags().BoolVar(&questionAcceptAllFlag, "accept-all", false, "accept every generated question without review")
	_ = questionGenerateCmd.MarkFlagRequired("sample")

	questionAddCmd.Flags().StringVarP(&questionSampleID, "sample", "s", "", "sample id (required)")
	questionAddCmd.Flags().StringVarP(&questionType, "type", "t", "answerable", "question type (answerable|non-answerable)")
	_ = questionAddCmd.MarkFlagRequired("sample")

	questionListCmd.Flags().StringVarP(&questionSampleID, "sample", "s", "", "filter by sample id")
	questionListCmd.Flags().StringVarP(&questionType, "type", "t", "", "filter by type (answerable|non-answerable)")

	questionCmd.AddCommand(questionGenerateCmd)
	questionCmd.AddCommand(questionAddCmd)
	questionCmd.AddCommand(questionListCmd)
	questionCmd.AddCommand(questionAcceptCmd)
	questionCmd.AddCommand(questionRejectCmd)
	rootCmd.AddCommand(questionCmd)
}

func runQuestionGenerate(cmd *cobra.Command, _ []string) error {
	candidates, err := questionService.Generate(cmd.Context(), questionSampleID, answerableCount, nonAnswerableCount)
	if err != nil {
		return err
	}
	if len(candidates) == 0 {
		cmd.Println("The generation service returned no questions.")
		return nil
	}

	if questionAcceptAllFlag {
		for i := range candidates {
			candidates[i].Status = domain.QuestionStatusAccepted
		}
	} else {
		reviewQuestions(cmd, candidates)
	}

	saved, err := questionService.SaveAccepted(cmd.Context(), questionSampleID, candidates)
	if err != nil {
		return err
	}
	cmd.Printf("Saved %d of %d generated questions.\n", saved, len(candidates))
	return nil
}

// reviewQuestions walks the candidates, marking each accepted or
// rejected from stdin.
func reviewQuestions(cmd *cobra.Command, candidates []domain.Question) {
	reader := bufio.NewReader(os.Stdin)

	cmd.Printf("Review %d questions: [a]ccept, [r]eject, Enter accepts.\n\n", len(candidates))
	for i := range candidates {
		cmd.Printf("%2d/%d [%s] %s\n", i+1, len(candidates), candidates[i].Type, candidates[i].Text)
		cmd.Print("  > ")
		input, _ := reader.ReadString('\n')
		switch strings.ToLower(strings.TrimSpace(input)) {
		case "r", "reject":
			candidates[i].Status = domain.QuestionStatusRejected
		default:
			candidates[i].Status = domain.QuestionStatusAccepted
		}
	}
}

func runQuestionAdd(cmd *cobra.Command, args []string) error {
	qtype := domain.QuestionType(questionType)
	question, err := questionService.AddManual(cmd.Context(), questionSampleID, args[0], qtype)
	if err != nil {
		return err
	}
	cmd.Printf("Added %s question %s\n", question.Type, question.ID)
	return nil
}

func runQuestionList(cmd *cobra.Command, _ []string) error {
	var questions []domain.Question
	var err error
	if questionSampleID != "" {
		questions, err = questionService.ListBySample(cmd.Context(), questionSampleID)
	} else {
		questions, err = questionService.List(cmd.Context(), domain.QuestionType(questionType))
	}
	if err != nil {
		return err
	}
	if len(questions) == 0 {
		cmd.Println("No questions found.")
		return nil
	}

	for _, q := range questions {
		cmd.Printf("%s  [%-14s %-8s %-6s]  %s\n", q.ID, q.Type, q.Status, q.GeneratedBy, q.Text)
	}
	return nil
}

func makeStatusCmd(status domain.QuestionStatus) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		question, err := questionService.UpdateStatus(cmd.Context(), args[0], status)
		if err != nil {
			return err
		}
		cmd.Printf("Question %s is now %s.\n", question.ID, question.Status)
		return nil
	}
}
