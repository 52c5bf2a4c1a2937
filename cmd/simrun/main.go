// simrun runs the simulation headless in accelerated time and prints
// what the signalling engine decided. Useful for eyeballing a layout
// without standing up the API server.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/signalsfoundry/railnet-simulator/core"
	"github.com/signalsfoundry/railnet-simulator/timectrl"
)

func main() {
	layoutPath := flag.String("layout", "configs/layout.json", "path to the JSON layout")
	ticks := flag.Int("ticks", 60, "number of ticks to run")
	tick := flag.Duration("tick", time.Second, "simulated time per tick")
	flag.Parse()

	f, err := os.Open(*layoutPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open layout: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	start := time.Now()
	world, summary, err := core.LoadLayout(f, start)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load layout: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Loaded layout: %d tracks, %d trains, %d signals, %d junctions\n",
		len(summary.TrackIDs), len(summary.TrainIDs), len(summary.SignalIDs), len(summary.JunctionIDs))

	engine := core.NewEngine(world)

	tc := timectrl.NewTimeController(start, *tick, timectrl.Accelerated)
	tc.AddListener(func(simTime time.Time) {
		engine.Tick(simTime)

		snap := world.Snapshot(time.Time{})
		fmt.Printf("[%s]\n", simTime.Format(time.RFC3339))
		for _, train := range snap.Trains {
			fmt.Printf("↳ Train %-6s track=%-4s pos=%7.2f speed=%5.1f prio=%d %s\n",
				train.ID, train.TrackID, train.Position, train.Speed, train.Priority, train.Status)
		}
	})

	tc.Run(context.Background(), time.Duration(*ticks)*(*tick))

	fmt.Println("\nDecision log (newest first):")
	for _, entry := range world.Snapshot(time.Time{}).Logs {
		fmt.Printf("%s [%s] %s\n", entry.Timestamp.Format(time.RFC3339), entry.Level, entry.Message)
	}
}
