// Binary kuhn trains an approximate Nash equilibrium strategy for
// three-card Kuhn Poker with vanilla CFR and prints the resulting
// average strategy table.
package main

import (
	"flag"
	"fmt"
	"os"
	"sort"

	"github.com/golang/glog"

	cfr "github.com/onatozer/kuhn-poker"
	"github.com/onatozer/kuhn-poker/kuhn"
)

func main() {
	iterations := flag.Int("iter", 100000, "Number of CFR iterations to run")
	checkpoint := flag.String("checkpoint", "", "If set, save the final policy table to this file")
	flag.Parse()
	defer glog.Flush()

	game := kuhn.NewGame()
	policies := cfr.NewPolicyTable(cfr.DiscountParams{})
	trainer := cfr.NewTrainer(game, policies)

	glog.Infof("Training for %d iterations", *iterations)
	strategies := trainer.Train(*iterations)
	glog.Infof("Expected game value for player 0: %.4f", trainer.GameValue())

	keys := make([]string, 0, len(strategies))
	for key := range strategies {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		strat := strategies[key]
		fmt.Printf("%4s: check=%5.1f%% bet=%5.1f%%\n", key, 100*strat[0], 100*strat[1])
	}

	if *checkpoint != "" {
		if err := saveCheckpoint(policies, *checkpoint); err != nil {
			glog.Exitf("Failed to save checkpoint: %v", err)
		}

		glog.Infof("Saved policy table to %v", *checkpoint)
	}
}

func saveCheckpoint(policies *cfr.PolicyTable, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return policies.MarshalTo(f)
}
