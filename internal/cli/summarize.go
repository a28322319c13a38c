package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/reblol/Pulsepanion/internal/config"
	"github.com/reblol/Pulsepanion/internal/llm"
	"github.com/reblol/Pulsepanion/internal/summary"
)

func init() {
	cmd := &cobra.Command{
		Use:   "summarize",
		Short: "Summarize records in a date window",
		Long: "Summarize records whose date falls in [--start, --end]. Records come from a file " +
			"or stdin. Prints the no-data message without calling the model when nothing matches.",
		Run: runSummarize,
	}

	addInputFlags(cmd)
	addWindowFlags(cmd, true)

	RootCmd.AddCommand(cmd)
}

func runSummarize(cmd *cobra.Command, args []string) {
	start, _ := cmd.Flags().GetString("start")
	end, _ := cmd.Flags().GetString("end")
	dateField, _ := cmd.Flags().GetString("date-field")

	e := setup()
	if e.cfg.LLM.APIKey == "" {
		exitErr("summarize", fmt.Errorf("no API key for %s: set %s or llm.api_key", e.cfg.LLM.Provider, keyEnv(e.cfg.LLM.Provider)))
	}

	completer, err := llm.New(cmd.Context(), e.cfg.LLM)
	if err != nil {
		exitErr("init provider", err)
	}
	s, closeFn := e.newSummarizer(completer)
	defer closeFn()

	src := sourceFromFlags(cmd)
	set := loadRecords(cmd.Context(), src)

	out, err := s.Summarize(cmd.Context(), set, summary.Params{
		Start:     start,
		End:       end,
		DateField: dateField,
		Source:    src.Label(),
	})
	if err != nil {
		closeFn()
		exitErr("summarize", err)
	}

	output(out, out.Text)
}

func keyEnv(provider string) string {
	if provider == config.ProviderGemini {
		return "GEMINI_API_KEY"
	}
	return "OPENAI_API_KEY"
}
