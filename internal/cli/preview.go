package cli

import (
	"github.com/spf13/cobra"

	"github.com/reblol/Pulsepanion/internal/summary"
)

func init() {
	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Show the redacted prompt without calling the model",
		Run:   runPreview,
	}

	addInputFlags(cmd)
	addWindowFlags(cmd, true)

	RootCmd.AddCommand(cmd)
}

func runPreview(cmd *cobra.Command, args []string) {
	start, _ := cmd.Flags().GetString("start")
	end, _ := cmd.Flags().GetString("end")
	dateField, _ := cmd.Flags().GetString("date-field")

	e := setup()
	s, closeFn := e.newSummarizer(nil)
	defer closeFn()

	src := sourceFromFlags(cmd)
	set := loadRecords(cmd.Context(), src)

	p, err := s.Preview(cmd.Context(), set, summary.Params{
		Start:     start,
		End:       end,
		DateField: dateField,
		Source:    src.Label(),
	})
	if err != nil {
		closeFn()
		exitErr("preview", err)
	}

	text := p.Message
	if !p.Empty {
		text = "System: " + p.System + "\n\n" + p.Prompt
	}
	output(p, text)
}
