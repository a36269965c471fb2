package cli

import (
	"context"
	"fmt"
)

// History prints the local result history, most recent first.
func (a *App) History(ctx context.Context) error {
	list, err := a.results.History(ctx)
	if err != nil {
		fmt.Println("Could not load history:", err)
		return err
	}
	if len(list) == 0 {
		fmt.Println("No results yet.")
		return nil
	}

	for _, r := range list {
		fmt.Printf("%s  %3d wpm  %3d%%  %s/%d\n",
			r.CreatedAt.Format("2006-01-02 15:04"), r.WPM, r.Accuracy, r.Mode, r.TestValue)
	}
	return nil
}

// Stats prints aggregate statistics over the local history.
func (a *App) Stats(ctx context.Context) error {
	stats, err := a.results.Aggregate(ctx)
	if err != nil {
		fmt.Println("Could not compute stats:", err)
		return err
	}
	if stats.Count == 0 {
		fmt.Println("No results yet.")
		return nil
	}

	fmt.Printf("tests: %d  best: %d wpm  avg: %d wpm  accuracy: %d%%\n",
		stats.Count, stats.BestWPM, stats.AvgWPM, stats.AvgAccuracy)
	return nil
}
