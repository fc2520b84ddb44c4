package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/charislam/metrick/internal/core/domain"
	"github.com/charislam/metrick/internal/core/ports/driving"
)

var (
	sampleName            string
	sampleDescription     string
	sampleGuides          int
	sampleReferences      int
	sampleTroubleshooting int
)

var sampleCmd = &cobra.Command{
	Use:   "sample",
	Short: "Manage document samples",
	Long: `Create and inspect stratified document samples.

A sample is a fixed set of documents drawn from the documentation
source under a per-content-type distribution. Sampled documents are
copied into the sample and never change afterwards.`,
}

var sampleCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Draw a new stratified sample",
	RunE:  runSampleCreate,
}

var sampleListCmd = &cobra.Command{
	Use:   "list",
	Short: "List samples",
	RunE:  runSampleList,
}

var sampleShowCmd = &cobra.Command{
	Use:   "show <sample-id>",
	Short: "Show a sample and its documents",
	Args:  cobra.ExactArgs(1),
	RunE:  runSampleShow,
}

var sampleDeleteCmd = &cobra.Command{
	Use:   "delete <sample-id>",
	Short: "Delete a sample",
	Args:  cobra.ExactArgs(1),
	RunE:  runSampleDelete,
}

func init() {
	sampleCreateCmd.Flags().StringVarP(&sampleName, "name", "n", "", "sample name (generated if empty)")
	sampleCreateCmd.Flags().StringVarP(&sampleDescription, "description", "d", "", "sample description")
	sampleCreateCmd.Flags().IntVar(&sampleGuides, "guides", 0, "number of guide documents")
	sampleCreateCmd.Flags().IntVar(&sampleReferences, "references", 0, "number of reference documents")
	sampleCreateCmd.Flags().IntVar(&sampleTroubleshooting, "troubleshooting", 0, "number of troubleshooting documents")

	sampleCmd.AddCommand(sampleCreateCmd)
	sampleCmd.AddCommand(sampleListCmd)
	sampleCmd.AddCommand(sampleShowCmd)
	sampleCmd.AddCommand(sampleDeleteCmd)
	rootCmd.AddCommand(sampleCmd)
}

func runSampleCreate(cmd *cobra.Command, _ []string) error {
	if settingsService.SourceBaseURL() == "" {
		return errors.New("no document source configured, run 'metrick settings set-source-url' first")
	}

	sample, err := samplerService.Create(cmd.Context(), driving.CreateSampleRequest{
		Name:        sampleName,
		Description: sampleDescription,
		Counts: domain.Distribution{
			Guide:           sampleGuides,
			Reference:       sampleReferences,
			Troubleshooting: sampleTroubleshooting,
		},
	})
	if err != nil {
		if errors.Is(err, domain.ErrInsufficientData) {
			return fmt.Errorf("not enough documents available: %w", err)
		}
		return err
	}

	cmd.Printf("Created sample %q (%s)\n", sample.Name, sample.ID)
	cmd.Printf("  %d documents (%d guides, %d references, %d troubleshooting)\n",
		len(sample.Documents),
		sample.Criteria.ContentTypeDistribution.Guide,
		sample.Criteria.ContentTypeDistribution.Reference,
		sample.Criteria.ContentTypeDistribution.Troubleshooting)
	return nil
}

func runSampleList(cmd *cobra.Command, _ []string) error {
	samples, err := samplerService.List(cmd.Context())
	if err != nil {
		return err
	}
	if len(samples) == 0 {
		cmd.Println("No samples yet. Run 'metrick sample create' to draw one.")
		return nil
	}

	for _, sample := range samples {
		cmd.Printf("%s  %-24s  %3d docs  %s\n",
			sample.ID, sample.Name, len(sample.Documents), sample.CreatedAt.Format("2006-01-02"))
	}
	return nil
}

func runSampleShow(cmd *cobra.Command, args []string) error {
	sample, err := samplerService.Get(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	cmd.Printf("Sample: %s (%s)\n", sample.Name, sample.ID)
	if sample.Description != "" {
		cmd.Printf("Description: %s\n", sample.Description)
	}
	cmd.Printf("Created: %s\n", sample.CreatedAt.Format("2006-01-02 15:04"))
	cmd.Printf("Documents: %d\n\n", len(sample.Documents))
	for _, doc := range sample.Documents {
		cmd.Printf("  %s  [%s]  %s\n", doc.ID, doc.ContentType, doc.Title)
	}
	return nil
}

func runSampleDelete(cmd *cobra.Command, args []string) error {
	if err := samplerService.Delete(cmd.Context(), args[0]); err != nil {
		return err
	}
	cmd.Printf("Deleted sample %s\n", args[0])
	cmd.Println("Note: questions and sessions referencing it are kept but sessions over it will no longer load.")
	return nil
}
