/*
Package status tracks per-file outcomes and batch statistics for sortrc.

	            +-------------+
	            | Organizer   |
	            |  (Run/Undo) |
	            +------+------+
	                   |
	      +------------+-----------+
	      |                        |
	+-----+-----+            +-----+-----+
	|   Stats   |            | Progress  |
	| (counts)  |            | (per file)|
	+-----------+            +-----+-----+
	                               |
	                        +------+------+
	                        |  Formatter  |
	                        |  (console)  |
	                        +-------------+

🎯 Purpose:
- Names the outcome of every file in a batch
- Keeps the running totals callers display at the end
- Formats progress lines for the terminal

📊 Invariants:
- Processed == Succeeded + Failed + Skipped
- Total is fixed once the scan finishes

🔍 Example:

	var stats status.Stats
	stats.Total = len(files)
	stats.Record(status.Succeeded)

	fmt.Println(status.FormatFileOperation(status.Progress{
		Index:   1,
		Total:   stats.Total,
		File:    "image.jpg",
		Outcome: status.Succeeded,
	}))
*/
package status
