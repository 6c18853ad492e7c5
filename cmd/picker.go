package cmd

import (
	"fmt"

	"github.com/charmbracelet/huh"

	"github.com/theirongolddev/codeassist/internal/cli"
	"github.com/theirongolddev/codeassist/internal/config"
	"github.com/theirongolddev/codeassist/internal/generate"
)

// modelPicker lets the user change the model before gen; Enter keeps the
// current one.
func modelPicker() generate.ModelResolver {
	return generate.ModelResolverFunc(func(current string, table config.PricingTable) (string, error) {
		choice := current
		opts := make([]huh.Option[string], 0, len(table.Models())+1)
		if !table.Has(current) {
			opts = append(opts, huh.NewOption(current+"  (no pricing, costs $0)", current))
		}
		for _, id := range table.Models() {
			p, _ := table.Lookup(id)
			label := fmt.Sprintf("%s  (%s in, %s out)", id, cli.FormatRate(p.InputPerMTok), cli.FormatRate(p.OutputPerMTok))
			opts = append(opts, huh.NewOption(label, id))
		}

		err := huh.NewSelect[string]().
			Title(fmt.Sprintf("Model (current=%s)", current)).
			Options(opts...).
			Value(&choice).
			Run()
		if err != nil {
			return "", err
		}
		return choice, nil
	})
}

// askLine prompts for one line of text, with a huh input on a terminal
// and a plain line read otherwise.
func askLine(question string) (string, error) {
	if !stdinIsTerminal() {
		return readLine(rootCmd.ErrOrStderr(), rootCmd.InOrStdin(), question)
	}
	var answer string
	err := huh.NewInput().
		Title(question).
		Value(&answer).
		Run()
	return answer, err
}
