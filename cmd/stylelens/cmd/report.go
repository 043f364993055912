package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/nfrund/stylelens/internal/analysis"
	"github.com/nfrund/stylelens/internal/capture"
	"github.com/nfrund/stylelens/internal/domain"
	"github.com/nfrund/stylelens/internal/view"
	"github.com/spf13/cobra"
)

var reportFlags struct {
	image    string
	name     string
	age      int
	vibe     string
	bodyType string
	out      string
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Generate a colour analysis PDF",
	Long: `Validates the profile exactly like the web form, sends it with the photo to
the backend's /generate-pdf and saves the returned document.

Style vibes: ` + labels(domain.Vibes) + `
Body types:  ` + labels(domain.BodyTypes),
	Example: `  stylelens report --image me.jpg --name Ada --age 36 --vibe classic --body-type pear`,
	RunE:    runReport,
}

func init() {
	f := reportCmd.Flags()
	f.StringVar(&reportFlags.image, "image", "", "path to the photo (required)")
	f.StringVar(&reportFlags.name, "name", "", "your name (required)")
	f.IntVar(&reportFlags.age, "age", 0, "your age, 13 to 100")
	f.StringVar(&reportFlags.vibe, "vibe", domain.Vibes[0], "style vibe")
	f.StringVar(&reportFlags.bodyType, "body-type", domain.BodyTypes[0], "body type")
	f.StringVarP(&reportFlags.out, "out", "o", "", "output file (default: the name the backend suggests)")
	_ = reportCmd.MarkFlagRequired("image")
	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, args []string) error {
	img, err := readImage(reportFlags.image)
	if err != nil {
		return err
	}

	profile, ferrs := domain.ParseProfile(domain.ProfileInput{
		Name:     reportFlags.name,
		Age:      strconv.Itoa(reportFlags.age),
		Vibe:     reportFlags.vibe,
		BodyType: reportFlags.bodyType,
	}, true)
	if ferrs != nil {
		return fmt.Errorf("invalid profile:\n%s", formatFieldErrors(ferrs))
	}

	slog.Debug("Requesting report", "backend", backendURL, "bytes", img.Size())
	report, err := newClient().GeneratePDF(cmd.Context(), profile, img)
	if err != nil {
		return describe(err)
	}

	out := reportFlags.out
	if out == "" {
		out = report.Filename
	}
	if err := os.WriteFile(out, report.Data, 0o644); err != nil {
		return fmt.Errorf("save report: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Saved %s (%d bytes)\n", out, len(report.Data))
	return nil
}

// readImage loads and checks a photo the same way an upload is checked.
func readImage(path string) (*domain.Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}
	img, err := capture.Accept(data, path, domain.SourceFile, capture.DefaultLimits())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return img, nil
}

func formatFieldErrors(fe domain.FieldErrors) string {
	keys := make([]string, 0, len(fe))
	for k := range fe {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&b, "  %s: %s\n", k, fe[k])
	}
	return strings.TrimRight(b.String(), "\n")
}

// describe prefers the backend's own message.
func describe(err error) error {
	var aerr *analysis.Error
	if errors.As(err, &aerr) && aerr.StatusCode != 0 {
		return fmt.Errorf("backend answered %d: %s", aerr.StatusCode, aerr.UserMessage())
	}
	return err
}

func labels(values []string) string {
	out := make([]string, 0, len(values))
	for _, o := range view.Options(values) {
		out = append(out, fmt.Sprintf("%s (%s)", o.Value, o.Label))
	}
	return strings.Join(out, ", ")
}
