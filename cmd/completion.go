package cmd

import (
	"flag"

	"github.com/etnz/moneymate/docs"
	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

// flagPredictors are the predictions for flags whose values are known.
var flagPredictors = map[string]complete.Predictor{
	"ledger-file": predict.Files("*.csv"),
	"policy":      predict.Set{"face-value", "balance"},
	"p":           predict.Set{"day", "week", "month", "quarter", "year"},
	"currency":    predict.Set{"USD", "EUR", "GBP", "JPY", "CHF", "CAD"},
}

// Completion describes the commands and flags registered on c for shell
// completion.
func Completion(c *subcommands.Commander) *complete.Command {
	root := &complete.Command{
		Sub:   map[string]*complete.Command{},
		Flags: map[string]complete.Predictor{},
	}
	c.VisitAll(func(f *flag.Flag) { root.Flags[f.Name] = predictFlag(f) })

	c.VisitCommands(func(_ *subcommands.CommandGroup, cmd subcommands.Command) {
		fs := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
		cmd.SetFlags(fs)
		sub := &complete.Command{Flags: map[string]complete.Predictor{}}
		fs.VisitAll(func(f *flag.Flag) { sub.Flags[f.Name] = predictFlag(f) })
		root.Sub[cmd.Name()] = sub
	})

	if topic, ok := root.Sub["topic"]; ok {
		topics, _ := docs.GetAllTopics()
		topic.Args = predict.Set(append(topics, "*"))
	}
	if help, ok := root.Sub["help"]; ok {
		var names []string
		for name := range root.Sub {
			names = append(names, name)
		}
		help.Args = predict.Set(names)
	}
	return root
}

func predictFlag(f *flag.Flag) complete.Predictor {
	if p, ok := flagPredictors[f.Name]; ok {
		return p
	}
	if b, ok := f.Value.(interface{ IsBoolFlag() bool }); ok && b.IsBoolFlag() {
		return predict.Nothing
	}
	return predict.Something
}
