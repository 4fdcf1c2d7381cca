package main

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/lisboa-tech/olympo-cli/internal/rubric"
)

var (
	classifyAnswersFile string
	classifySet         []string
	classifyClient      string
	classifyRegister    bool
	classifyAnalysis    bool
)

var classifyCmd = &cobra.Command{
	Use:   "classify",
	Short: "Score a client questionnaire against the fitness rubric",
	Long: `Scores a set of questionnaire answers against the weighted rubric and
prints the verdict. Answers come from a YAML file (criterion: option
mapping) and/or repeated --set flags, flags winning on conflict.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		catalog, err := loadCatalog()
		if err != nil {
			return err
		}

		answers, err := collectAnswers()
		if err != nil {
			return err
		}

		result, err := rubric.Classify(answers, catalog.Criteria, catalog.Overrides)
		if err != nil {
			var invalid *rubric.InvalidAnswerError
			if errors.As(err, &invalid) {
				return fmt.Errorf("invalid submission: %s", invalid)
			}
			return err
		}

		fmt.Printf("Resultado: %s\n", result.Verdict)
		if result.OverrideApplied {
			fmt.Println("Pontos: forçado por regra")
		} else {
			fmt.Printf("Pontos: %d de %d (%.1f/100)\n", result.RawPoints, result.MaxPoints, result.Score)
		}

		if classifyAnalysis {
			client := newWebhookClient()
			analysis, err := client.SubmitAnalysis(cmd.Context(), answers)
			if err != nil {
				// The commentary is advisory; the verdict stands.
				zap.L().Warn("classify: analysis unavailable", zap.Error(err))
			} else {
				fmt.Printf("Análise IA:\n%s\n", renderAnalysis(analysis))
			}
		}

		if classifyRegister {
			client := newWebhookClient()
			id, err := client.RegisterSubmission(cmd.Context(), classifyClient, answers, result.Verdict)
			if err != nil {
				// Registration is an audit side channel; the verdict stands.
				zap.L().Error("classify: register submission failed", zap.Error(err))
			} else {
				fmt.Printf("Registro: %s\n", id)
			}
		}

		return nil
	},
}

// renderAnalysis flattens the agent's commentary map for the terminal.
// The agent usually answers with a single "output" text field; anything
// else is printed key by key in sorted order.
func renderAnalysis(analysis map[string]any) string {
	if out, ok := analysis["output"].(string); ok && len(analysis) == 1 {
		return out
	}

	keys := make([]string, 0, len(analysis))
	for k := range analysis {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&b, "%s: %v\n", k, analysis[k])
	}
	return strings.TrimRight(b.String(), "\n")
}

// collectAnswers merges the answers file with --set overrides.
func collectAnswers() (rubric.Answers, error) {
	answers := rubric.Answers{}

	if classifyAnswersFile != "" {
		data, err := os.ReadFile(classifyAnswersFile)
		if err != nil {
			return nil, eris.Wrapf(err, "classify: read answers %s", classifyAnswersFile)
		}
		if err := yaml.Unmarshal(data, &answers); err != nil {
			return nil, eris.Wrap(err, "classify: parse answers")
		}
	}

	for _, kv := range classifySet {
		key, value, ok := strings.Cut(kv, "=")
		if !ok {
			return nil, eris.Errorf("classify: --set %q is not criterion=option", kv)
		}
		answers[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}

	return answers, nil
}

func init() {
	classifyCmd.Flags().StringVar(&classifyAnswersFile, "answers", "", "YAML file mapping criterion to selected option")
	classifyCmd.Flags().StringArrayVar(&classifySet, "set", nil, "answer as criterion=option (repeatable)")
	classifyCmd.Flags().StringVar(&classifyClient, "nome", "", "client name for the audit record")
	classifyCmd.Flags().BoolVar(&classifyRegister, "register", false, "post the outcome to the audit webhook")
	classifyCmd.Flags().BoolVar(&classifyAnalysis, "analise", false, "ask the analysis agent for commentary on the answers")
	rootCmd.AddCommand(classifyCmd)
}
