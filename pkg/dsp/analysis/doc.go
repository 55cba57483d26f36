// Package analysis summarizes meter readings over time.
//
// The level meter publishes one reading per processed block. A History
// collects those readings off the audio path and reduces them to a
// Summary: block count, mean, extremes, spread and the 95th percentile.
//
// Example usage:
//
//	h := analysis.NewHistory(1024)
//	for _, block := range blocks {
//	    proc.ProcessAudio(ctx)
//	    h.Add(proc.LevelDB())
//	}
//	fmt.Println(h.Summary())
package analysis
