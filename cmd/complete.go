package cmd

import (
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

var markets = predict.Set{"TWSE", "TWO"}

// Completion returns the shell completion tree of the commands.
//
// Install it with COMP_INSTALL=1 twfolio.
func Completion() *complete.Command {
	entry := map[string]complete.Predictor{
		"d": predict.Something,
		"c": predict.Something,
		"n": predict.Something,
		"m": markets,
		"q": predict.Something,
		"p": predict.Something,
	}
	return &complete.Command{
		Flags: map[string]complete.Predictor{
			"config": predict.Files("*.toml"),
		},
		Sub: map[string]*complete.Command{
			"summary":  {Flags: map[string]complete.Predictor{"refresh": predict.Nothing}},
			"tx":       {Flags: map[string]complete.Predictor{"s": predict.Something, "d": predict.Something}},
			"buy":      {Flags: entry},
			"sell":     {Flags: entry},
			"rm":       {Flags: map[string]complete.Predictor{"i": predict.Something}},
			"import":   {Args: predict.Files("*.csv")},
			"export":   {Flags: map[string]complete.Predictor{"o": predict.Files("*.csv")}},
			"name":     {Flags: map[string]complete.Predictor{"m": markets}, Args: predict.Something},
			"serve":    {Flags: map[string]complete.Predictor{"addr": predict.Something}},
			"help":     {Args: predict.Set{"summary", "tx", "buy", "sell", "rm", "import", "export", "name", "serve"}},
			"flags":    {},
			"commands": {},
		},
	}
}
